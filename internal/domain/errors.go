package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the domain, the application services and
// the storage adapters wraps exactly one of these, so callers classify with
// errors.Is(err, ErrConflict) and friends.
var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrValidation      = errors.New("validation failed")
	ErrExternalService = errors.New("external service error")
	ErrPersistence     = errors.New("persistence error")
)

type kindError struct {
	kind error
	msg  string
}

func (e kindError) Error() string { return e.msg }
func (e kindError) Unwrap() error { return e.kind }

func newKindError(kind error, msg string) error {
	return kindError{kind: kind, msg: msg}
}

var (
	ErrUserNotFound    = newKindError(ErrNotFound, "user not found")
	ErrClassNotFound   = newKindError(ErrNotFound, "class not found")
	ErrPackageNotFound = newKindError(ErrNotFound, "package not found")

	ErrAlreadyBooked        = newKindError(ErrConflict, "class already booked")
	ErrClassFull            = newKindError(ErrConflict, "class is full")
	ErrInsufficientMinutes  = newKindError(ErrConflict, "insufficient remaining minutes")
	ErrEmailTaken           = newKindError(ErrConflict, "email already registered")
	ErrPackageSettled       = newKindError(ErrConflict, "package already settled")
	ErrPaymentNotSucceeded  = newKindError(ErrConflict, "payment not succeeded")
	ErrInvalidTime          = newKindError(ErrValidation, "time must be HH:MM")
	ErrInvalidTimeRange     = newKindError(ErrValidation, "end time must be after start time")
	ErrInvalidDate          = newKindError(ErrValidation, "date must be YYYY-MM-DD")
	ErrInvalidRecurrence    = newKindError(ErrValidation, "recurring classes need a known frequency and an end date on or after the start date")
	ErrInvalidCapacity      = newKindError(ErrValidation, "maxCapacity must be positive and not below the current attendee count")
	ErrInvalidMinutes       = newKindError(ErrValidation, "minutes must not be negative")
	ErrInvalidPackageType   = newKindError(ErrValidation, "packageType must be standard or premium")
	ErrInvalidStatus        = newKindError(ErrValidation, "invalid package status transition")
	ErrMalformedEvent       = newKindError(ErrValidation, "malformed webhook event")
	ErrInvalidSignature     = newKindError(ErrExternalService, "invalid webhook signature")
	ErrPaymentProviderError = newKindError(ErrExternalService, "payment provider request failed")
)

// Persistence wraps a storage failure so it classifies as ErrPersistence
// while keeping the driver error in the chain.
func Persistence(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrPersistence, err)
}

// External wraps a payment-provider failure.
func External(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrPaymentProviderError, err)
}
