package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MaintenanceType string

const (
	MaintenanceRoutine    MaintenanceType = "routine"
	MaintenanceRepair     MaintenanceType = "repair"
	MaintenanceInspection MaintenanceType = "inspection"
	MaintenanceEmergency  MaintenanceType = "emergency"
)

func (t MaintenanceType) Valid() bool {
	switch t {
	case MaintenanceRoutine, MaintenanceRepair, MaintenanceInspection, MaintenanceEmergency:
		return true
	default:
		return false
	}
}

type MaintenanceStatus string

const (
	MaintenanceScheduled  MaintenanceStatus = "scheduled"
	MaintenanceInProgress MaintenanceStatus = "in_progress"
	MaintenanceCompleted  MaintenanceStatus = "completed"
	MaintenanceCancelled  MaintenanceStatus = "cancelled"
)

func (s MaintenanceStatus) Valid() bool {
	switch s {
	case MaintenanceScheduled, MaintenanceInProgress, MaintenanceCompleted, MaintenanceCancelled:
		return true
	default:
		return false
	}
}

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	default:
		return false
	}
}

// MaintenanceRecord represents a scheduled or completed service of a bus.
type MaintenanceRecord struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BusID            primitive.ObjectID `bson:"bus_id" json:"bus_id"`
	MaintenanceType  MaintenanceType    `bson:"maintenance_type" json:"maintenance_type"`
	Description      string             `bson:"description" json:"description"`
	ScheduledDate    time.Time          `bson:"scheduled_date" json:"scheduled_date"`
	CompletedDate    *time.Time         `bson:"completed_date" json:"completed_date,omitempty"`
	Status           MaintenanceStatus  `bson:"status" json:"status"`
	Priority         Priority           `bson:"priority" json:"priority"`
	Cost             *float64           `bson:"cost" json:"cost,omitempty"`
	MechanicName     string             `bson:"mechanic_name" json:"mechanic_name,omitempty"`
	PartsUsed        []string           `bson:"parts_used" json:"parts_used,omitempty"`
	MileageAtService *int               `bson:"mileage_at_service" json:"mileage_at_service,omitempty"` // km
	NextServiceDate  *time.Time         `bson:"next_service_date" json:"next_service_date,omitempty"`
	Notes            string             `bson:"notes" json:"notes,omitempty"`
	CreatedAt        time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time          `bson:"updated_at" json:"updated_at"`

	Bus *Bus `bson:"bus,omitempty" json:"bus,omitempty"`
}

func (m MaintenanceRecord) RecordID() primitive.ObjectID { return m.ID }
