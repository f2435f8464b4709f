package conflict

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balcao/backend/apperr"
	"github.com/balcao/backend/models"
	"github.com/balcao/backend/pricing"
	"github.com/balcao/backend/repository/memory"
)

var day = time.Date(2031, 3, 15, 0, 0, 0, 0, time.Local)

func seeded(t *testing.T, windows ...[2]string) *Detector {
	t.Helper()
	repos := memory.New().Repositories()
	for _, w := range windows {
		_, err := repos.Reservations.Insert(context.Background(), &models.Reservation{
			VenueID:   "V",
			Date:      day,
			HourStart: w[0],
			HourEnd:   w[1],
			Status:    models.ReservationActive,
		})
		require.NoError(t, err)
	}
	return NewDetector(repos.Reservations)
}

func TestHasConflict(t *testing.T) {
	d := seeded(t, [2]string{"14:00", "15:30"})

	tests := []struct {
		name       string
		venue      string
		date       time.Time
		start, end string
		want       bool
	}{
		{"overlaps the tail", "V", day, "15:00", "16:00", true},
		{"inside", "V", day, "14:15", "14:45", true},
		{"covers", "V", day, "13:00", "17:00", true},
		{"touches the end", "V", day, "15:30", "16:30", false},
		{"touches the start", "V", day, "12:00", "14:00", false},
		{"other venue", "W", day, "14:00", "15:30", false},
		{"next day", "V", day.AddDate(0, 0, 1), "14:00", "15:30", false},
		{"same day later hour", "V", day.Add(20 * time.Hour), "15:00", "16:00", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.HasConflict(context.Background(), tt.venue, tt.date, tt.start, tt.end)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHasConflict_EmptyDay(t *testing.T) {
	d := seeded(t)
	got, err := d.HasConflict(context.Background(), "V", day, "00:00", "23:59")
	require.NoError(t, err)
	assert.False(t, got)
}

func TestHasConflict_RejectsBadTimes(t *testing.T) {
	d := seeded(t)

	_, err := d.HasConflict(context.Background(), "V", day, "9:00", "10:00")
	assert.ErrorIs(t, err, apperr.ErrInvalidTimeFormat)

	_, err = d.HasConflict(context.Background(), "V", day, "23:00", "00:30")
	assert.ErrorIs(t, err, apperr.ErrNonPositiveDuration)
}

func TestCheck_DescribesTheBooking(t *testing.T) {
	d := seeded(t, [2]string{"14:00", "15:30"})
	w, err := pricing.ParseWindow("15:00", "16:00")
	require.NoError(t, err)

	err = d.Check(context.Background(), "V", day, w)
	var conflict *apperr.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.ErrorIs(t, err, apperr.ErrReservationConflict)
	assert.Equal(t, "2031-03-15", conflict.Date)
	assert.Equal(t, "14:00", conflict.Start)
	assert.Equal(t, "15:30", conflict.End)
}

func TestFindConflict_SkipsUnreadableWindows(t *testing.T) {
	d := seeded(t, [2]string{"garbage", "15:30"})
	r, err := d.FindConflict(context.Background(), "V", day, "14:00", "15:00")
	require.NoError(t, err)
	assert.Nil(t, r)
}
