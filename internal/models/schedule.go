package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Weekday names indexed by the day numbers stored in DaysOfWeek (0 = Sunday).
var Weekdays = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// Schedule assigns a bus to a route at a time of day on a set of weekdays.
// Route and Bus are filled in by the store when the foreign keys are expanded.
type Schedule struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RouteID          primitive.ObjectID `bson:"route_id" json:"route_id"`
	BusID            primitive.ObjectID `bson:"bus_id" json:"bus_id"`
	DepartureTime    string             `bson:"departure_time" json:"departure_time"`
	ArrivalTime      string             `bson:"arrival_time" json:"arrival_time"`
	DaysOfWeek       []int              `bson:"days_of_week" json:"days_of_week"`
	FrequencyMinutes int                `bson:"frequency_minutes" json:"frequency_minutes"`
	IsActive         bool               `bson:"is_active" json:"is_active"`
	CreatedAt        time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time          `bson:"updated_at" json:"updated_at"`

	Route *Route `bson:"route,omitempty" json:"route,omitempty"`
	Bus   *Bus   `bson:"bus,omitempty" json:"bus,omitempty"`
}

func (s Schedule) RecordID() primitive.ObjectID { return s.ID }

// DayNames returns the weekday names of the schedule in stored order.
func (s Schedule) DayNames() []string {
	names := make([]string, 0, len(s.DaysOfWeek))
	for _, d := range s.DaysOfWeek {
		if d >= 0 && d < len(Weekdays) {
			names = append(names, Weekdays[d])
		}
	}
	return names
}
