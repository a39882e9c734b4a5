// Package analytics derives summary figures from loaded collections.
package analytics

import (
	"math"

	"github.com/ukydev/fleet-dashboard/internal/models"
)

// BusStats counts buses by status.
type BusStats struct {
	Total        int     `json:"total"`
	Active       int     `json:"active"`
	Inactive     int     `json:"inactive"`
	Maintenance  int     `json:"maintenance"`
	ActiveShare  float64 `json:"active_percentage"`
	SeatCapacity int     `json:"seat_capacity"`
}

// Buses summarises buses.
func Buses(buses []models.Bus) BusStats {
	var s BusStats
	for _, b := range buses {
		s.Total++
		s.SeatCapacity += b.Capacity
		switch b.Status {
		case models.BusActive:
			s.Active++
		case models.BusInactive:
			s.Inactive++
		case models.BusMaintenance:
			s.Maintenance++
		}
	}
	s.ActiveShare = Percentage(s.Active, s.Total)
	return s
}

// RouteStats aggregates distances and durations over routes.
type RouteStats struct {
	Total           int     `json:"total"`
	TotalDistanceKm float64 `json:"total_distance_km"`
	AvgDistanceKm   float64 `json:"avg_distance_km"`
	AvgDurationMin  float64 `json:"avg_duration_min"`
}

// Routes summarises routes.
func Routes(routes []models.Route) RouteStats {
	s := RouteStats{Total: len(routes)}
	if s.Total == 0 {
		return s
	}
	var minutes int
	for _, r := range routes {
		s.TotalDistanceKm += r.DistanceKm
		minutes += r.EstimatedDuration
	}
	s.TotalDistanceKm = round1(s.TotalDistanceKm)
	s.AvgDistanceKm = round1(s.TotalDistanceKm / float64(s.Total))
	s.AvgDurationMin = round1(float64(minutes) / float64(s.Total))
	return s
}

// DriverStats counts drivers by status.
type DriverStats struct {
	Total         int     `json:"total"`
	Active        int     `json:"active"`
	Inactive      int     `json:"inactive"`
	OnLeave       int     `json:"on_leave"`
	Suspended     int     `json:"suspended"`
	Assigned      int     `json:"assigned"`
	AvgExperience float64 `json:"avg_experience_years"`
}

// Drivers summarises drivers.
func Drivers(drivers []models.Driver) DriverStats {
	var s DriverStats
	var years int
	for _, d := range drivers {
		s.Total++
		years += d.ExperienceYears
		if d.CurrentBusID != nil {
			s.Assigned++
		}
		switch d.Status {
		case models.DriverActive:
			s.Active++
		case models.DriverInactive:
			s.Inactive++
		case models.DriverOnLeave:
			s.OnLeave++
		case models.DriverSuspended:
			s.Suspended++
		}
	}
	if s.Total > 0 {
		s.AvgExperience = round1(float64(years) / float64(s.Total))
	}
	return s
}

// ScheduleStats counts schedules.
type ScheduleStats struct {
	Total  int `json:"total"`
	Active int `json:"active"`
}

// Schedules summarises schedules.
func Schedules(schedules []models.Schedule) ScheduleStats {
	s := ScheduleStats{Total: len(schedules)}
	for _, sc := range schedules {
		if sc.IsActive {
			s.Active++
		}
	}
	return s
}

// MaintenanceStats counts maintenance records and sums their cost.
type MaintenanceStats struct {
	Total      int     `json:"total"`
	Scheduled  int     `json:"scheduled"`
	InProgress int     `json:"in_progress"`
	Completed  int     `json:"completed"`
	Cancelled  int     `json:"cancelled"`
	Urgent     int     `json:"urgent_open"`
	TotalCost  float64 `json:"total_cost"`
}

// Maintenance summarises maintenance records. Urgent counts open records of
// high or critical priority.
func Maintenance(records []models.MaintenanceRecord) MaintenanceStats {
	var s MaintenanceStats
	for _, m := range records {
		s.Total++
		if m.Cost != nil {
			s.TotalCost += *m.Cost
		}
		switch m.Status {
		case models.MaintenanceScheduled:
			s.Scheduled++
		case models.MaintenanceInProgress:
			s.InProgress++
		case models.MaintenanceCompleted:
			s.Completed++
		case models.MaintenanceCancelled:
			s.Cancelled++
		}
		open := m.Status == models.MaintenanceScheduled || m.Status == models.MaintenanceInProgress
		if open && (m.Priority == models.PriorityHigh || m.Priority == models.PriorityCritical) {
			s.Urgent++
		}
	}
	s.TotalCost = math.Round(s.TotalCost*100) / 100
	return s
}

// PerformanceStats averages driver evaluations.
type PerformanceStats struct {
	Evaluations   int     `json:"evaluations"`
	AverageRating float64 `json:"average_rating"`
	Badge         string  `json:"badge"`
	Incidents     int     `json:"incidents"`
	Commendations int     `json:"commendations"`
}

// Performance summarises evaluations.
func Performance(records []models.DriverPerformanceRecord) PerformanceStats {
	var s PerformanceStats
	var sum float64
	for _, p := range records {
		s.Evaluations++
		sum += p.OverallRating
		s.Incidents += p.IncidentsCount
		s.Commendations += p.CommendationsCount
	}
	if s.Evaluations > 0 {
		s.AverageRating = round1(sum / float64(s.Evaluations))
		s.Badge = Badge(s.AverageRating)
	}
	return s
}

// Badge grades a 0-5 rating.
func Badge(rating float64) string {
	switch {
	case rating >= 4.5:
		return "Excellent"
	case rating >= 4.0:
		return "Good"
	case rating >= 3.5:
		return "Average"
	case rating >= 3.0:
		return "Below Average"
	default:
		return "Poor"
	}
}

// Percentage returns part/total as a percentage with one decimal. A zero
// total yields 0.
func Percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return round1(float64(part) * 100 / float64(total))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
