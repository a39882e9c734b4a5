package forms

import (
	"time"

	"github.com/ukydev/fleet-dashboard/internal/apperr"
	"github.com/ukydev/fleet-dashboard/internal/models"
)

// ScheduleForm holds the inputs of the schedule editor.
type ScheduleForm struct {
	RouteID          Text   `json:"route_id"`
	BusID            Text   `json:"bus_id"`
	DepartureTime    Text   `json:"departure_time"`
	ArrivalTime      Text   `json:"arrival_time"`
	DaysOfWeek       []Text `json:"days_of_week"`
	FrequencyMinutes Text   `json:"frequency_minutes"`
	IsActive         Text   `json:"is_active"`
}

// NewScheduleForm returns an empty schedule form with defaults applied.
func NewScheduleForm() ScheduleForm {
	return ScheduleForm{FrequencyMinutes: "30", IsActive: "true", DaysOfWeek: []Text{}}
}

// ScheduleFormFrom pre-fills a form from an existing schedule.
func ScheduleFormFrom(s models.Schedule) ScheduleForm {
	days := make([]Text, len(s.DaysOfWeek))
	for i, d := range s.DaysOfWeek {
		days[i] = intText(d)
	}
	active := Text("false")
	if s.IsActive {
		active = "true"
	}
	return ScheduleForm{
		RouteID:          idText(s.RouteID),
		BusID:            idText(s.BusID),
		DepartureTime:    Text(s.DepartureTime),
		ArrivalTime:      Text(s.ArrivalTime),
		DaysOfWeek:       days,
		FrequencyMinutes: intText(s.FrequencyMinutes),
		IsActive:         active,
	}
}

// Record coerces the inputs into a schedule. Duplicate days are dropped.
func (f ScheduleForm) Record() models.Schedule {
	seen := map[int]bool{}
	days := make([]int, 0, len(f.DaysOfWeek))
	for _, t := range f.DaysOfWeek {
		if t.Empty() {
			continue
		}
		d := t.Int()
		if seen[d] {
			continue
		}
		seen[d] = true
		days = append(days, d)
	}
	return models.Schedule{
		RouteID:          f.RouteID.ID(),
		BusID:            f.BusID.ID(),
		DepartureTime:    f.DepartureTime.String(),
		ArrivalTime:      f.ArrivalTime.String(),
		DaysOfWeek:       days,
		FrequencyMinutes: f.FrequencyMinutes.Int(),
		IsActive:         f.IsActive.Bool(true),
	}
}

// ValidateSchedule checks a schedule before submission. Arrival is not
// required to follow departure.
func ValidateSchedule(s models.Schedule) error {
	switch {
	case s.RouteID.IsZero():
		return apperr.Invalid("route_id", "must reference a route")
	case s.BusID.IsZero():
		return apperr.Invalid("bus_id", "must reference a bus")
	case !validClock(s.DepartureTime):
		return apperr.Invalid("departure_time", "must be a time of day (HH:MM)")
	case !validClock(s.ArrivalTime):
		return apperr.Invalid("arrival_time", "must be a time of day (HH:MM)")
	case len(s.DaysOfWeek) == 0:
		return apperr.Invalid("days_of_week", "must include at least one day")
	case s.FrequencyMinutes <= 0:
		return apperr.Invalid("frequency_minutes", "must be greater than 0")
	}
	for _, d := range s.DaysOfWeek {
		if d < 0 || d > 6 {
			return apperr.Invalid("days_of_week", "days must be between 0 (Sunday) and 6 (Saturday)")
		}
	}
	return nil
}

func validClock(s string) bool {
	if _, err := time.Parse("15:04", s); err == nil {
		return true
	}
	_, err := time.Parse("15:04:05", s)
	return err == nil
}
