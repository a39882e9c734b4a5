package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil", nil, ""},
		{"validation", Invalid("capacity", "must be greater than 0"), "validation"},
		{"constraint", &ConstraintError{Entity: "driver", Field: "license_number", Label: "license number"}, "constraint"},
		{"not found", &NotFoundError{Entity: "bus", ID: "x"}, "not_found"},
		{"configuration", &ConfigurationError{Setting: "STORE_URL", Reason: "is required"}, "configuration"},
		{"busy", ErrBusy, "busy"},
		{"store", &StoreError{Op: "list buses", Err: errors.New("timeout")}, "store"},
		{"wrapped store", fmt.Errorf("load: %w", &StoreError{Op: "list buses"}), "store"},
		{"other", errors.New("boom"), "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Kind(tt.err))
		})
	}
}

func TestConstraintError_NamesField(t *testing.T) {
	err := &ConstraintError{Entity: "driver", Field: "license_number", Label: "license number"}
	assert.Equal(t, "License number already exists. Please use a unique license number.", err.Error())
	assert.Equal(t, "license_number", Field(err))
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "", Message(nil))
	assert.Equal(t, "days_of_week must have at least one day selected",
		Message(Invalid("days_of_week", "must have at least one day selected")))
	assert.Contains(t, Message(&StoreError{Op: "list buses", Err: errors.New("connection refused")}), "connection refused")
}
