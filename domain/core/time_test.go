package core

import (
	"errors"
	"testing"
	"time"
)

func TestParseClock(t *testing.T) {
	cases := []struct {
		in      string
		want    Minute
		wantErr bool
	}{
		{"17:00:00", 1020, false},
		{"17:00", 1020, false},
		{"00:00:00", 0, false},
		{"23:59:59", 1439, false},
		{"18:30:59", 1110, false}, // seconds truncate, never round
		{"25:00", 0, true},
		{"not a time", 0, true},
		{"", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseClock(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseClock(%q): expected error", tc.in)
			}
			if !errors.Is(err, ErrBadClockTime) {
				t.Errorf("ParseClock(%q): error should wrap ErrBadClockTime, got %v", tc.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseClock(%q): unexpected error %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseClock(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestMinuteOfTruncatesSeconds(t *testing.T) {
	at := time.Date(2020, 1, 1, 18, 0, 59, 0, time.UTC)
	if got := MinuteOf(at); got != 1080 {
		t.Errorf("MinuteOf = %d, want 1080", got)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2020-01-01")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if d.Year() != 2020 || d.Month() != time.January || d.Day() != 1 {
		t.Errorf("ParseDate = %v", d)
	}

	if _, err := ParseDate("January first"); !errors.Is(err, ErrBadDate) {
		t.Errorf("expected ErrBadDate, got %v", err)
	}
}

func TestMinuteClock(t *testing.T) {
	if got := Minute(1080).Clock(); got != "18:00" {
		t.Errorf("Clock = %q, want 18:00", got)
	}
	if got := Minute(5).Clock(); got != "00:05" {
		t.Errorf("Clock = %q, want 00:05", got)
	}
}
