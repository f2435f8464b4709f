package pricing

import (
	"fmt"
	"math"

	"github.com/balcao/backend/apperr"
)

// VenueCharge is the hours of w times hourlyRate. Precision is kept; round
// only when presenting.
func VenueCharge(w Window, hourlyRate float64) (float64, error) {
	if err := CheckAmount("hourly_rate", hourlyRate); err != nil {
		return 0, err
	}
	return w.Hours() * hourlyRate, nil
}

// CheckAmount rejects negative, NaN and infinite money values.
func CheckAmount(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return fmt.Errorf("%w: %s=%v", apperr.ErrInvalidNumber, field, v)
	}
	return nil
}
