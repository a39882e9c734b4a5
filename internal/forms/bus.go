package forms

import (
	"github.com/ukydev/fleet-dashboard/internal/apperr"
	"github.com/ukydev/fleet-dashboard/internal/models"
)

// BusForm holds the inputs of the bus editor.
type BusForm struct {
	RouteNumber     Text `json:"route_number"`
	BusNumber       Text `json:"bus_number"`
	Capacity        Text `json:"capacity"`
	Status          Text `json:"status"`
	CurrentLocation Text `json:"current_location"`
}

// NewBusForm returns an empty bus form with defaults applied.
func NewBusForm() BusForm {
	return BusForm{Capacity: "50", Status: Text(models.BusActive)}
}

// BusFormFrom pre-fills a form from an existing bus.
func BusFormFrom(b models.Bus) BusForm {
	return BusForm{
		RouteNumber:     Text(b.RouteNumber),
		BusNumber:       Text(b.BusNumber),
		Capacity:        intText(b.Capacity),
		Status:          Text(b.Status),
		CurrentLocation: Text(b.CurrentLocation),
	}
}

// Record coerces the inputs into a bus.
func (f BusForm) Record() models.Bus {
	return models.Bus{
		RouteNumber:     f.RouteNumber.String(),
		BusNumber:       f.BusNumber.String(),
		Capacity:        f.Capacity.Int(),
		Status:          models.BusStatus(f.Status.String()),
		CurrentLocation: f.CurrentLocation.String(),
	}
}

// ValidateBus checks a bus before submission.
func ValidateBus(b models.Bus) error {
	switch {
	case b.RouteNumber == "":
		return apperr.Invalid("route_number", "is required")
	case b.BusNumber == "":
		return apperr.Invalid("bus_number", "is required")
	case b.Capacity <= 0:
		return apperr.Invalid("capacity", "must be greater than 0")
	case !b.Status.Valid():
		return apperr.Invalid("status", "must be one of active, inactive, maintenance")
	}
	return nil
}

// RouteForm holds the inputs of the route editor.
type RouteForm struct {
	Name              Text   `json:"name"`
	StartPoint        Text   `json:"start_point"`
	EndPoint          Text   `json:"end_point"`
	Stops             []Text `json:"stops"`
	DistanceKm        Text   `json:"distance_km"`
	EstimatedDuration Text   `json:"estimated_duration"`
}

// NewRouteForm returns an empty route form.
func NewRouteForm() RouteForm {
	return RouteForm{Stops: []Text{}}
}

// RouteFormFrom pre-fills a form from an existing route.
func RouteFormFrom(r models.Route) RouteForm {
	return RouteForm{
		Name:              Text(r.Name),
		StartPoint:        Text(r.StartPoint),
		EndPoint:          Text(r.EndPoint),
		Stops:             Texts(r.Stops),
		DistanceKm:        floatText(r.DistanceKm),
		EstimatedDuration: intText(r.EstimatedDuration),
	}
}

// Record coerces the inputs into a route.
func (f RouteForm) Record() models.Route {
	return models.Route{
		Name:              f.Name.String(),
		StartPoint:        f.StartPoint.String(),
		EndPoint:          f.EndPoint.String(),
		Stops:             Strings(f.Stops),
		DistanceKm:        f.DistanceKm.Float(),
		EstimatedDuration: f.EstimatedDuration.Int(),
	}
}

// ValidateRoute checks a route before submission.
func ValidateRoute(r models.Route) error {
	switch {
	case r.Name == "":
		return apperr.Invalid("name", "is required")
	case r.StartPoint == "":
		return apperr.Invalid("start_point", "is required")
	case r.EndPoint == "":
		return apperr.Invalid("end_point", "is required")
	case r.DistanceKm < 0:
		return apperr.Invalid("distance_km", "must not be negative")
	case r.EstimatedDuration < 0:
		return apperr.Invalid("estimated_duration", "must not be negative")
	}
	return nil
}
