package forms

import (
	"time"

	"github.com/ukydev/fleet-dashboard/internal/apperr"
	"github.com/ukydev/fleet-dashboard/internal/models"
)

// MaintenanceForm holds the inputs of the maintenance editor.
type MaintenanceForm struct {
	BusID            Text   `json:"bus_id"`
	MaintenanceType  Text   `json:"maintenance_type"`
	Description      Text   `json:"description"`
	ScheduledDate    Text   `json:"scheduled_date"`
	CompletedDate    Text   `json:"completed_date"`
	Status           Text   `json:"status"`
	Priority         Text   `json:"priority"`
	Cost             Text   `json:"cost"`
	MechanicName     Text   `json:"mechanic_name"`
	PartsUsed        []Text `json:"parts_used"`
	MileageAtService Text   `json:"mileage_at_service"`
	NextServiceDate  Text   `json:"next_service_date"`
	Notes            Text   `json:"notes"`
}

// NewMaintenanceForm returns an empty routine, medium priority form scheduled today.
func NewMaintenanceForm(today time.Time) MaintenanceForm {
	return MaintenanceForm{
		MaintenanceType: Text(models.MaintenanceRoutine),
		ScheduledDate:   dateText(today),
		Status:          Text(models.MaintenanceScheduled),
		Priority:        Text(models.PriorityMedium),
	}
}

// MaintenanceFormFrom pre-fills a form from an existing record.
func MaintenanceFormFrom(m models.MaintenanceRecord) MaintenanceForm {
	return MaintenanceForm{
		BusID:            idText(m.BusID),
		MaintenanceType:  Text(m.MaintenanceType),
		Description:      Text(m.Description),
		ScheduledDate:    dateText(m.ScheduledDate),
		CompletedDate:    optDateText(m.CompletedDate),
		Status:           Text(m.Status),
		Priority:         Text(m.Priority),
		Cost:             optFloatText(m.Cost),
		MechanicName:     Text(m.MechanicName),
		PartsUsed:        Texts(m.PartsUsed),
		MileageAtService: optIntText(m.MileageAtService),
		NextServiceDate:  optDateText(m.NextServiceDate),
		Notes:            Text(m.Notes),
	}
}

// Record coerces the inputs into a maintenance record.
func (f MaintenanceForm) Record() models.MaintenanceRecord {
	return models.MaintenanceRecord{
		BusID:            f.BusID.ID(),
		MaintenanceType:  models.MaintenanceType(f.MaintenanceType.String()),
		Description:      f.Description.String(),
		ScheduledDate:    f.ScheduledDate.Date(),
		CompletedDate:    f.CompletedDate.OptDate(),
		Status:           models.MaintenanceStatus(f.Status.String()),
		Priority:         models.Priority(f.Priority.String()),
		Cost:             f.Cost.OptFloat(),
		MechanicName:     f.MechanicName.String(),
		PartsUsed:        Strings(f.PartsUsed),
		MileageAtService: f.MileageAtService.OptInt(),
		NextServiceDate:  f.NextServiceDate.OptDate(),
		Notes:            f.Notes.String(),
	}
}

// ValidateMaintenance checks a maintenance record before submission.
func ValidateMaintenance(m models.MaintenanceRecord) error {
	switch {
	case m.BusID.IsZero():
		return apperr.Invalid("bus_id", "must reference a bus")
	case m.Description == "":
		return apperr.Invalid("description", "is required")
	case m.ScheduledDate.IsZero():
		return apperr.Invalid("scheduled_date", "is required")
	case !m.MaintenanceType.Valid():
		return apperr.Invalid("maintenance_type", "must be one of routine, repair, inspection, emergency")
	case !m.Status.Valid():
		return apperr.Invalid("status", "must be one of scheduled, in_progress, completed, cancelled")
	case !m.Priority.Valid():
		return apperr.Invalid("priority", "must be one of low, medium, high, critical")
	case m.Cost != nil && *m.Cost < 0:
		return apperr.Invalid("cost", "must not be negative")
	case m.MileageAtService != nil && *m.MileageAtService < 0:
		return apperr.Invalid("mileage_at_service", "must not be negative")
	}
	return nil
}
