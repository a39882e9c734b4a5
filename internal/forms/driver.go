package forms

import (
	"time"

	"github.com/ukydev/fleet-dashboard/internal/apperr"
	"github.com/ukydev/fleet-dashboard/internal/models"
)

// DriverForm holds the inputs of the driver editor. A blank or "none"
// CurrentBusID means no bus is assigned.
type DriverForm struct {
	EmployeeID            Text `json:"employee_id"`
	FullName              Text `json:"full_name"`
	Email                 Text `json:"email"`
	Phone                 Text `json:"phone"`
	LicenseNumber         Text `json:"license_number"`
	LicenseExpiry         Text `json:"license_expiry"`
	HireDate              Text `json:"hire_date"`
	Status                Text `json:"status"`
	ExperienceYears       Text `json:"experience_years"`
	CurrentBusID          Text `json:"current_bus_id"`
	EmergencyContactName  Text `json:"emergency_contact_name"`
	EmergencyContactPhone Text `json:"emergency_contact_phone"`
	Address               Text `json:"address"`
}

// NewDriverForm returns an empty driver form hired today.
func NewDriverForm(today time.Time) DriverForm {
	return DriverForm{
		HireDate:        dateText(today),
		Status:          Text(models.DriverActive),
		ExperienceYears: "0",
	}
}

// DriverFormFrom pre-fills a form from an existing driver.
func DriverFormFrom(d models.Driver) DriverForm {
	return DriverForm{
		EmployeeID:            Text(d.EmployeeID),
		FullName:              Text(d.FullName),
		Email:                 Text(d.Email),
		Phone:                 Text(d.Phone),
		LicenseNumber:         Text(d.LicenseNumber),
		LicenseExpiry:         dateText(d.LicenseExpiry),
		HireDate:              dateText(d.HireDate),
		Status:                Text(d.Status),
		ExperienceYears:       intText(d.ExperienceYears),
		CurrentBusID:          optIDText(d.CurrentBusID),
		EmergencyContactName:  Text(d.EmergencyContactName),
		EmergencyContactPhone: Text(d.EmergencyContactPhone),
		Address:               Text(d.Address),
	}
}

// Record coerces the inputs into a driver.
func (f DriverForm) Record() models.Driver {
	return models.Driver{
		EmployeeID:            f.EmployeeID.String(),
		FullName:              f.FullName.String(),
		Email:                 f.Email.String(),
		Phone:                 f.Phone.String(),
		LicenseNumber:         f.LicenseNumber.String(),
		LicenseExpiry:         f.LicenseExpiry.Date(),
		HireDate:              f.HireDate.Date(),
		Status:                models.DriverStatus(f.Status.String()),
		ExperienceYears:       f.ExperienceYears.Int(),
		CurrentBusID:          f.CurrentBusID.OptID(),
		EmergencyContactName:  f.EmergencyContactName.String(),
		EmergencyContactPhone: f.EmergencyContactPhone.String(),
		Address:               f.Address.String(),
	}
}

// ValidateDriver checks a driver before submission. Uniqueness is left to
// the store.
func ValidateDriver(d models.Driver) error {
	switch {
	case d.EmployeeID == "":
		return apperr.Invalid("employee_id", "is required")
	case d.FullName == "":
		return apperr.Invalid("full_name", "is required")
	case d.LicenseNumber == "":
		return apperr.Invalid("license_number", "is required")
	case d.LicenseExpiry.IsZero():
		return apperr.Invalid("license_expiry", "is required")
	case d.HireDate.IsZero():
		return apperr.Invalid("hire_date", "is required")
	case !d.Status.Valid():
		return apperr.Invalid("status", "must be one of active, inactive, on_leave, suspended")
	case d.ExperienceYears < 0:
		return apperr.Invalid("experience_years", "must not be negative")
	case d.Email != "" && !validEmail(d.Email):
		return apperr.Invalid("email", "is not a valid email address")
	}
	return nil
}
