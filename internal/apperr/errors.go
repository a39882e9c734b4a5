// Package apperr defines the error kinds surfaced by the dashboard backend.
//
// Repository and controller code returns these unmodified in kind; the HTTP
// layer turns them into a status code and a display string with Message.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// ErrBusy is returned when a mutation is submitted while another one for the
// same collection is still in flight.
var ErrBusy = errors.New("another change is still being saved")

// ConfigurationError reports a missing or invalid setting. It is fatal at
// startup and blocks every store operation.
type ConfigurationError struct {
	Setting string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s %s", e.Setting, e.Reason)
}

// StoreError reports a transport or query failure against the remote store.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("store error: %s", e.Op)
	}
	return fmt.Sprintf("store error: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// NotFoundError reports that no record matched the requested identity.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

// ConstraintError reports a uniqueness violation on write. Label is the
// human readable name of the colliding field, e.g. "license number".
type ConstraintError struct {
	Entity string
	Field  string
	Label  string
	Err    error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("%s already exists. Please use a unique %s.", capitalize(e.Label), e.Label)
}

func (e *ConstraintError) Unwrap() error { return e.Err }

// ValidationError is raised locally before submission and never reaches the
// network.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// Invalid is shorthand for building a ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// Kind names the category of err for clients. Unknown errors are "internal".
func Kind(err error) string {
	var (
		cfgErr        *ConfigurationError
		storeErr      *StoreError
		notFoundErr   *NotFoundError
		constraintErr *ConstraintError
		validationErr *ValidationError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &validationErr):
		return "validation"
	case errors.As(err, &constraintErr):
		return "constraint"
	case errors.As(err, &notFoundErr):
		return "not_found"
	case errors.As(err, &cfgErr):
		return "configuration"
	case errors.Is(err, ErrBusy):
		return "busy"
	case errors.As(err, &storeErr):
		return "store"
	default:
		return "internal"
	}
}

// Field returns the offending field for validation and constraint errors.
func Field(err error) string {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Field
	}
	var constraintErr *ConstraintError
	if errors.As(err, &constraintErr) {
		return constraintErr.Field
	}
	return ""
}

// Message translates err into the string shown to the user.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var (
		storeErr      *StoreError
		constraintErr *ConstraintError
		validationErr *ValidationError
	)
	switch {
	case errors.As(err, &constraintErr):
		return constraintErr.Error()
	case errors.As(err, &validationErr):
		return validationErr.Error()
	case errors.As(err, &storeErr):
		if storeErr.Err != nil {
			return fmt.Sprintf("Could not reach the fleet database (%s): %v", storeErr.Op, storeErr.Err)
		}
		return fmt.Sprintf("Could not reach the fleet database (%s)", storeErr.Op)
	default:
		return err.Error()
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
