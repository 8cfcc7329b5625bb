package core

import (
	"fmt"
	"time"
)

// Minute is a clock time expressed as whole minutes since midnight, 0-1439.
// All twilight comparisons run on this scale so that times from different
// dates are comparable.
type Minute int

// MinuteOf truncates a wall-clock time to its minute of day. Seconds are
// dropped, not rounded.
func MinuteOf(t time.Time) Minute {
	return Minute(t.Hour()*60 + t.Minute())
}

// ParseClock reads "HH:MM" or "HH:MM:SS" into a Minute.
func ParseClock(s string) (Minute, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return MinuteOf(t), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrBadClockTime, s)
}

// dateLayouts are the calendar date encodings accepted at ingestion.
var dateLayouts = []string{"2006-01-02", "2006-01-02T15:04:05Z07:00", "2006-01-02 15:04:05", "01/02/2006"}

// ParseDate reads a calendar date string. The time-of-day portion, when one
// is present, is discarded.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrBadDate, s)
}

// Clock renders the minute back as "HH:MM".
func (m Minute) Clock() string {
	return fmt.Sprintf("%02d:%02d", int(m)/60, int(m)%60)
}
