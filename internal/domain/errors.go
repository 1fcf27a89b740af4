package domain

import (
	"errors"
	"fmt"
	"strings"
)

// FieldError describes one failing input field.
type FieldError struct {
	Field   string
	Message string
	Err     error
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e FieldError) Unwrap() error { return e.Err }

// ValidationError carries every failing field, never just the first.
type ValidationError struct {
	Fields []FieldError
}

func (e ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation error"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Error())
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e ValidationError) Unwrap() []error {
	errs := make([]error, 0, len(e.Fields))
	for _, f := range e.Fields {
		if f.Err != nil {
			errs = append(errs, f.Err)
		}
	}
	return errs
}

// Field returns the first error recorded for name.
func (e ValidationError) Field(name string) (FieldError, bool) {
	for _, f := range e.Fields {
		if f.Field == name {
			return f, true
		}
	}
	return FieldError{}, false
}

type NotFoundError struct {
	Resource string
	Key      string
	Err      error
}

func (e NotFoundError) Error() string {
	switch {
	case e.Resource == "":
		return "not found"
	case e.Key == "":
		return fmt.Sprintf("%s not found", e.Resource)
	default:
		return fmt.Sprintf("%s %s not found", e.Resource, e.Key)
	}
}

func (e NotFoundError) Unwrap() error { return e.Err }

// StateConflictError is returned when a payment transition is attempted on
// a booking that is no longer pending.
type StateConflictError struct {
	BookingNumber string
	Status        PaymentStatus
}

func (e StateConflictError) Error() string {
	if e.Status == "" {
		return fmt.Sprintf("booking %s is no longer pending", e.BookingNumber)
	}
	return fmt.Sprintf("booking %s is already %s", e.BookingNumber, e.Status)
}

type InvalidPaymentMethodError struct {
	Method string
}

func (e InvalidPaymentMethodError) Error() string {
	return fmt.Sprintf("invalid payment method %q", e.Method)
}

// ConflictError signals that an admin operation is blocked by dependent
// records.
type ConflictError struct {
	Resource string
	Msg      string
}

func (e ConflictError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("%s conflict", e.Resource)
	}
	return fmt.Sprintf("%s conflict: %s", e.Resource, e.Msg)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsStateConflict(err error) bool {
	var target StateConflictError
	return errors.As(err, &target)
}

func IsInvalidPaymentMethod(err error) bool {
	var target InvalidPaymentMethodError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}
