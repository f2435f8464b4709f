// Package apperr holds the error kinds raised by the checkout, pricing,
// conflict and repository layers. Subkinds wrap their kind, so callers can
// match either level with errors.Is.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrInvalidTimeFormat    = fmt.Errorf("%w: invalid time format", ErrInvalidInput)
	ErrNonPositiveDuration  = fmt.Errorf("%w: non-positive duration", ErrInvalidInput)
	ErrInvalidNumber        = fmt.Errorf("%w: invalid number", ErrInvalidInput)
	ErrMissingRequiredField = fmt.Errorf("%w: missing required field", ErrInvalidInput)
	ErrNotFound             = errors.New("not found")
	ErrUnknownProduct       = fmt.Errorf("%w: unknown product", ErrNotFound)
	ErrUnknownCustomer      = fmt.Errorf("%w: unknown customer", ErrNotFound)
	ErrUnknownVenue         = fmt.Errorf("%w: unknown venue", ErrNotFound)
	ErrUnknownReservation   = fmt.Errorf("%w: unknown reservation", ErrNotFound)
	ErrInsufficientStock    = errors.New("insufficient stock")
	ErrReservationConflict  = errors.New("reservation conflict")
	ErrDuplicateKey         = errors.New("duplicate key")
	ErrPartialCancellation  = errors.New("partial cancellation: stock restored, record not deleted")
	ErrStorageUnavailable   = errors.New("storage unavailable")
	ErrStockChanged         = errors.New("stock changed since it was read")
	ErrInvalidCredentials   = errors.New("invalid credentials")
)

// Missing reports an absent mandatory field.
func Missing(field string) error {
	return fmt.Errorf("%w: %s", ErrMissingRequiredField, field)
}

// Storage wraps a driver failure so it matches ErrStorageUnavailable.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStorageUnavailable, err)
}

// InsufficientStockError is returned when a product cannot cover the quantity
// requested across a basket or reservation.
type InsufficientStockError struct {
	Code      string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: available %d, requested %d", e.Code, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// ConflictError names the stored reservation window a draft overlaps.
type ConflictError struct {
	VenueID string
	Date    string
	Start   string
	End     string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("venue %s already booked on %s from %s to %s", e.VenueID, e.Date, e.Start, e.End)
}

func (e *ConflictError) Unwrap() error { return ErrReservationConflict }

// DuplicateKeyError reports a unique business key collision on insert or update.
type DuplicateKeyError struct {
	Entity string
	Field  string
	Value  string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("%s with %s %q already exists", e.Entity, e.Field, e.Value)
}

func (e *DuplicateKeyError) Unwrap() error { return ErrDuplicateKey }
