package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balcao/backend/apperr"
	"github.com/balcao/backend/models"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr error
	}{
		{in: "00:00", want: 0},
		{in: "09:05", want: 545},
		{in: "23:59", want: 1439},
		{in: " 14:30 ", want: 870},
		{in: "9:05", wantErr: apperr.ErrInvalidTimeFormat},
		{in: "24:00", wantErr: apperr.ErrInvalidTimeFormat},
		{in: "29:10", wantErr: apperr.ErrInvalidTimeFormat},
		{in: "12:60", wantErr: apperr.ErrInvalidTimeFormat},
		{in: "12h30", wantErr: apperr.ErrInvalidTimeFormat},
		{in: "", wantErr: apperr.ErrInvalidTimeFormat},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, apperr.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseWindowRejectsEmptyAndMidnightCrossing(t *testing.T) {
	_, err := ParseWindow("23:30", "23:30")
	assert.ErrorIs(t, err, apperr.ErrNonPositiveDuration)

	_, err = ParseWindow("23:00", "00:30")
	assert.ErrorIs(t, err, apperr.ErrNonPositiveDuration)

	w, err := ParseWindow("14:00", "15:30")
	require.NoError(t, err)
	assert.InDelta(t, 1.5, w.Hours(), 1e-9)
	assert.Equal(t, "14:00-15:30", w.String())
}

func TestWindowOverlapsHalfOpen(t *testing.T) {
	base := Window{Start: 14 * 60, End: 15*60 + 30}

	assert.True(t, base.Overlaps(Window{Start: 15 * 60, End: 16 * 60}))
	assert.True(t, base.Overlaps(Window{Start: 13 * 60, End: 17 * 60}))
	assert.False(t, base.Overlaps(Window{Start: 15*60 + 30, End: 16 * 60}), "touching windows must not collide")
	assert.False(t, base.Overlaps(Window{Start: 12 * 60, End: 14 * 60}))
}

func TestVenueCharge(t *testing.T) {
	evening, err := ParseWindow("18:00", "19:30")
	require.NoError(t, err)
	charge, err := VenueCharge(evening, 120)
	require.NoError(t, err)
	assert.InDelta(t, 180.0, charge, 1e-9)

	charge, err = VenueCharge(Window{Start: 8 * 60, End: 8*60 + 20}, 100)
	require.NoError(t, err)
	assert.InDelta(t, 33.333333, charge, 1e-6)

	charge, err = VenueCharge(evening, 0)
	require.NoError(t, err)
	assert.Zero(t, charge)

	_, err = VenueCharge(evening, -1)
	assert.ErrorIs(t, err, apperr.ErrInvalidNumber)
}

func TestProrate(t *testing.T) {
	got := Prorate([]float64{10, 30}, 8)
	assert.InDelta(t, 8.0, got[0], 1e-9)
	assert.InDelta(t, 24.0, got[1], 1e-9)
	assert.InDelta(t, 32.0, Sum(got), 1e-9)

	t.Run("discount above gross is clamped", func(t *testing.T) {
		got := Prorate([]float64{5, 5}, 50)
		assert.InDelta(t, 0.0, Sum(got), 1e-9)
	})

	t.Run("negative discount is ignored", func(t *testing.T) {
		got := Prorate([]float64{5, 7}, -3)
		assert.InDelta(t, 12.0, Sum(got), 1e-9)
	})

	t.Run("zero gross", func(t *testing.T) {
		got := Prorate([]float64{0, 0}, 4)
		assert.Equal(t, []float64{0, 0}, got)
	})

	t.Run("sum matches gross minus discount", func(t *testing.T) {
		lines := []float64{3.33, 19.99, 0.01, 7.5, 104.2}
		for _, d := range []float64{0, 0.01, 1.37, 33.33, 135.03} {
			got := Prorate(lines, d)
			assert.InDelta(t, Sum(lines)-d, Sum(got), 0.01)
		}
	})
}

func TestClampDiscount(t *testing.T) {
	assert.Equal(t, 0.0, ClampDiscount(-1, 10))
	assert.Equal(t, 10.0, ClampDiscount(11, 10))
	assert.Equal(t, 4.5, ClampDiscount(4.5, 10))
}

func TestFormatBRL(t *testing.T) {
	assert.Equal(t, "R$ 0,00", FormatBRL(0))
	assert.Equal(t, "R$ 32,00", FormatBRL(32))
	assert.Equal(t, "R$ 1.234,57", FormatBRL(1234.567))
	assert.Equal(t, "R$ 1.000.000,10", FormatBRL(1000000.1))
	assert.Equal(t, "-R$ 5,25", FormatBRL(-5.25))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 33.33, Round2(33.333333))
	assert.Equal(t, 2.68, Round2(2.675))
}

func TestFormatDateMatchesValidityLayout(t *testing.T) {
	d := time.Date(2031, time.March, 15, 0, 0, 0, 0, time.Local)
	assert.Equal(t, "15/03/2031", FormatDate(d))

	day, ok, err := models.Product{ValidityDate: FormatDate(d)}.Validity()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, d, day)
}
