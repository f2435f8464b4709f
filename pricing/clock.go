// Package pricing computes venue charges from HH:MM windows and prorates
// basket discounts across sale lines.
package pricing

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/balcao/backend/apperr"
)

var clockPattern = regexp.MustCompile(`^[0-2]\d:[0-5]\d$`)

// ParseClock converts a canonical HH:MM string into minutes since midnight.
func ParseClock(s string) (int, error) {
	s = strings.TrimSpace(s)
	if !clockPattern.MatchString(s) {
		return 0, fmt.Errorf("%w: %q", apperr.ErrInvalidTimeFormat, s)
	}
	hours := int(s[0]-'0')*10 + int(s[1]-'0')
	minutes := int(s[3]-'0')*10 + int(s[4]-'0')
	if hours > 23 {
		return 0, fmt.Errorf("%w: %q", apperr.ErrInvalidTimeFormat, s)
	}
	return hours*60 + minutes, nil
}

// FormatClock renders minutes since midnight as HH:MM.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Window is a validated half-open [Start, End) interval inside one calendar
// day, in minutes since midnight.
type Window struct {
	Start int
	End   int
}

// ParseWindow validates both endpoints and rejects empty, inverted or
// midnight-crossing windows.
func ParseWindow(start, end string) (Window, error) {
	s, err := ParseClock(start)
	if err != nil {
		return Window{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return Window{}, err
	}
	if e <= s {
		return Window{}, fmt.Errorf("%w: %s-%s", apperr.ErrNonPositiveDuration, start, end)
	}
	return Window{Start: s, End: e}, nil
}

// Hours is the window length in fractional hours.
func (w Window) Hours() float64 {
	return float64(w.End-w.Start) / 60
}

// Overlaps reports half-open interval intersection; windows that only touch
// at an endpoint do not overlap.
func (w Window) Overlaps(o Window) bool {
	return w.Start < o.End && w.End > o.Start
}

func (w Window) String() string {
	return FormatClock(w.Start) + "-" + FormatClock(w.End)
}

// Normalize returns the canonical HH:MM form of start and end.
func (w Window) Normalize() (string, string) {
	return FormatClock(w.Start), FormatClock(w.End)
}
