package models

import "fmt"

// Label returns how a record is named in confirmation messages.
func (b Bus) Label() string { return fmt.Sprintf("Bus %q", b.BusNumber) }

func (r Route) Label() string { return fmt.Sprintf("Route %q", r.Name) }

func (s Schedule) Label() string {
	if s.Route != nil {
		return fmt.Sprintf("Schedule %s on %q", s.DepartureTime, s.Route.Name)
	}
	return "Schedule " + s.DepartureTime
}

func (d Driver) Label() string { return fmt.Sprintf("Driver %q", d.FullName) }

func (m MaintenanceRecord) Label() string { return "Maintenance record" }

func (p DriverPerformanceRecord) Label() string { return "Performance record" }
