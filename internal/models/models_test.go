package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStatusEnums(t *testing.T) {
	assert.True(t, BusMaintenance.Valid())
	assert.False(t, BusStatus("retired").Valid())

	assert.True(t, DriverOnLeave.Valid())
	assert.False(t, DriverStatus("fired").Valid())

	assert.True(t, MaintenanceEmergency.Valid())
	assert.False(t, MaintenanceType("cosmetic").Valid())

	assert.True(t, MaintenanceInProgress.Valid())
	assert.False(t, MaintenanceStatus("pending").Valid())

	assert.True(t, PriorityCritical.Valid())
	assert.False(t, Priority("urgent").Valid())
}

func TestFieldsOf_Driver(t *testing.T) {
	id := primitive.NewObjectID()
	d := Driver{
		ID:            id,
		EmployeeID:    "EMP001",
		FullName:      "John Smith",
		LicenseNumber: "DL123456789",
		LicenseExpiry: time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
		Status:        DriverActive,
	}

	fields, err := FieldsOf(d)
	require.NoError(t, err)

	assert.Equal(t, id, fields["_id"])
	assert.Equal(t, "EMP001", fields["employee_id"])
	assert.Equal(t, "active", fields["status"])
	// a nil optional reference is still present so updates can clear it
	v, ok := fields["current_bus_id"]
	assert.True(t, ok)
	assert.Nil(t, v)
	// expansions are omitted when empty
	_, ok = fields["current_bus"]
	assert.False(t, ok)
}

func TestScheduleDayNames(t *testing.T) {
	s := Schedule{DaysOfWeek: []int{1, 3, 5, 9}}
	assert.Equal(t, []string{"Monday", "Wednesday", "Friday"}, s.DayNames())
}

func TestRecordIDs(t *testing.T) {
	id := primitive.NewObjectID()
	records := []Record{
		Bus{ID: id}, Route{ID: id}, Schedule{ID: id}, Driver{ID: id},
		MaintenanceRecord{ID: id}, DriverPerformanceRecord{ID: id},
	}
	for _, r := range records {
		assert.Equal(t, id, r.RecordID())
	}
}

func TestLabels(t *testing.T) {
	assert.Equal(t, `Bus "B099"`, Bus{BusNumber: "B099"}.Label())
	assert.Equal(t, `Driver "John Smith"`, Driver{FullName: "John Smith"}.Label())
	assert.Equal(t, "Schedule 08:00", Schedule{DepartureTime: "08:00"}.Label())
	assert.Equal(t, `Schedule 08:00 on "Loop"`, Schedule{DepartureTime: "08:00", Route: &Route{Name: "Loop"}}.Label())
	assert.Equal(t, "Maintenance record", MaintenanceRecord{}.Label())
}
