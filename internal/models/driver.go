package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DriverStatus is the employment status of a driver.
type DriverStatus string

const (
	DriverActive    DriverStatus = "active"
	DriverInactive  DriverStatus = "inactive"
	DriverOnLeave   DriverStatus = "on_leave"
	DriverSuspended DriverStatus = "suspended"
)

// Valid reports whether s is a known driver status.
func (s DriverStatus) Valid() bool {
	switch s {
	case DriverActive, DriverInactive, DriverOnLeave, DriverSuspended:
		return true
	default:
		return false
	}
}

// Driver represents a bus driver. EmployeeID, LicenseNumber and a non-empty
// Email are unique across drivers.
type Driver struct {
	ID                    primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	EmployeeID            string              `bson:"employee_id" json:"employee_id"`
	FullName              string              `bson:"full_name" json:"full_name"`
	Email                 string              `bson:"email" json:"email"`
	Phone                 string              `bson:"phone" json:"phone"`
	LicenseNumber         string              `bson:"license_number" json:"license_number"`
	LicenseExpiry         time.Time           `bson:"license_expiry" json:"license_expiry"`
	HireDate              time.Time           `bson:"hire_date" json:"hire_date"`
	Status                DriverStatus        `bson:"status" json:"status"`
	ExperienceYears       int                 `bson:"experience_years" json:"experience_years"`
	CurrentBusID          *primitive.ObjectID `bson:"current_bus_id" json:"current_bus_id"`
	EmergencyContactName  string              `bson:"emergency_contact_name" json:"emergency_contact_name"`
	EmergencyContactPhone string              `bson:"emergency_contact_phone" json:"emergency_contact_phone"`
	Address               string              `bson:"address" json:"address"`
	CreatedAt             time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt             time.Time           `bson:"updated_at" json:"updated_at"`

	CurrentBus *Bus `bson:"current_bus,omitempty" json:"current_bus,omitempty"`
}

func (d Driver) RecordID() primitive.ObjectID { return d.ID }
