package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BusStatus is the operating status of a bus. Any status may follow any other.
type BusStatus string

const (
	BusActive      BusStatus = "active"
	BusInactive    BusStatus = "inactive"
	BusMaintenance BusStatus = "maintenance"
)

// Valid reports whether s is a known bus status.
func (s BusStatus) Valid() bool {
	switch s {
	case BusActive, BusInactive, BusMaintenance:
		return true
	default:
		return false
	}
}

// Bus represents a fleet bus.
type Bus struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RouteNumber     string             `bson:"route_number" json:"route_number"`
	BusNumber       string             `bson:"bus_number" json:"bus_number"`
	Capacity        int                `bson:"capacity" json:"capacity"`
	Status          BusStatus          `bson:"status" json:"status"`
	CurrentLocation string             `bson:"current_location" json:"current_location"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updated_at"`
}

func (b Bus) RecordID() primitive.ObjectID { return b.ID }

// Route is a named path between two points with an ordered list of stops.
type Route struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name              string             `bson:"name" json:"name"`
	StartPoint        string             `bson:"start_point" json:"start_point"`
	EndPoint          string             `bson:"end_point" json:"end_point"`
	Stops             []string           `bson:"stops" json:"stops"`
	DistanceKm        float64            `bson:"distance_km" json:"distance_km"`
	EstimatedDuration int                `bson:"estimated_duration" json:"estimated_duration"` // minutes
	CreatedAt         time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt         time.Time          `bson:"updated_at" json:"updated_at"`
}

func (r Route) RecordID() primitive.ObjectID { return r.ID }
