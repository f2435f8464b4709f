// Package conflict decides whether a venue window is already booked.
package conflict

import (
	"context"
	"time"

	"github.com/balcao/backend/apperr"
	"github.com/balcao/backend/models"
	"github.com/balcao/backend/pricing"
)

// Reservations is the slice of the reservation store the detector reads.
type Reservations interface {
	ForVenueDate(ctx context.Context, venueID string, date time.Time) ([]models.Reservation, error)
}

type Detector struct {
	reservations Reservations
}

func NewDetector(reservations Reservations) *Detector {
	return &Detector{reservations: reservations}
}

// FindConflict returns the first stored reservation on venueID and the
// calendar day of date whose [start, end) window intersects the candidate,
// or nil. Both candidate times must be canonical HH:MM.
func (d *Detector) FindConflict(ctx context.Context, venueID string, date time.Time, start, end string) (*models.Reservation, error) {
	candidate, err := pricing.ParseWindow(start, end)
	if err != nil {
		return nil, err
	}
	return d.findOverlap(ctx, venueID, date, candidate)
}

// HasConflict is FindConflict reduced to a yes/no answer.
func (d *Detector) HasConflict(ctx context.Context, venueID string, date time.Time, start, end string) (bool, error) {
	r, err := d.FindConflict(ctx, venueID, date, start, end)
	if err != nil {
		return false, err
	}
	return r != nil, nil
}

// Check returns a *apperr.ConflictError describing the overlapped booking, or
// nil when the window is free.
func (d *Detector) Check(ctx context.Context, venueID string, date time.Time, w pricing.Window) error {
	r, err := d.findOverlap(ctx, venueID, date, w)
	if err != nil || r == nil {
		return err
	}
	return &apperr.ConflictError{
		VenueID: venueID,
		Date:    models.CalendarDay(date).Format(models.DateLayout),
		Start:   r.HourStart,
		End:     r.HourEnd,
	}
}

func (d *Detector) findOverlap(ctx context.Context, venueID string, date time.Time, candidate pricing.Window) (*models.Reservation, error) {
	existing, err := d.reservations.ForVenueDate(ctx, venueID, date)
	if err != nil {
		return nil, err
	}
	for i := range existing {
		r := existing[i]
		if r.Status == models.ReservationCancelled {
			continue
		}
		// A stored window that no longer parses cannot be compared.
		booked, err := pricing.ParseWindow(r.HourStart, r.HourEnd)
		if err != nil {
			continue
		}
		if candidate.Overlaps(booked) {
			return &r, nil
		}
	}
	return nil, nil
}
