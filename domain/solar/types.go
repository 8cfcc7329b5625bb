package solar

import (
	"fmt"
	"math"
	"time"

	"stopstats/domain/core"
	"stopstats/domain/frame"
)

// Times holds the civil sunset and dusk for one calendar date, localized to
// the analysis timezone. Civil dusk is the sun 6 degrees below the horizon;
// DuskMinute >= SunsetMinute always holds.
type Times struct {
	Date         time.Time   `json:"date"`
	Sunset       time.Time   `json:"sunset"`
	Dusk         time.Time   `json:"dusk"`
	SunsetMinute core.Minute `json:"sunset_minute"`
	DuskMinute   core.Minute `json:"dusk_minute"`
}

// Table is one Times row per distinct date, in input date order. Derived
// once per date set and never mutated.
type Table []Times

// ByDate indexes the table for joining against stop records.
func (t Table) ByDate() map[string]Times {
	idx := make(map[string]Times, len(t))
	for _, row := range t {
		idx[DateKey(row.Date)] = row
	}
	return idx
}

// DateKey canonicalizes a date cell for joining. String dates in any
// accepted layout key the same as their time.Time form, so a record table
// that skipped normalization still joins; unparseable strings key as-is.
func DateKey(v any) string {
	switch d := v.(type) {
	case time.Time:
		return d.Format("2006-01-02")
	case string:
		if parsed, err := core.ParseDate(d); err == nil {
			return parsed.Format("2006-01-02")
		}
		return d
	default:
		return frame.FormatValue(v)
	}
}

// Observation is a stop record joined with its date's solar times.
type Observation struct {
	Row              frame.Row   `json:"row"`
	Times            Times       `json:"times"`
	Minute           core.Minute `json:"minute"`
	MinutesAfterDark int         `json:"minutes_after_dark"`
	IsDark           int         `json:"is_dark"`
}

// Rates is the veil-of-darkness output: is_dark partition (0 or 1) to group
// value to that group's share of the partition. A partition with no
// observations is absent from the map, which keeps "no data" distinct from
// an observed zero rate.
type Rates map[int]map[string]float64

// Location is a latitude/longitude pair with its IANA timezone.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `json:"timezone"`
}

// Validate checks the coordinates and resolves the IANA timezone. Bad input
// is an ErrInvalidLocation surfaced to the caller, never a silent default.
func (l Location) Validate() (*time.Location, error) {
	if math.IsNaN(l.Latitude) || l.Latitude < -90 || l.Latitude > 90 {
		return nil, core.NewLocationError(fmt.Sprintf("latitude %v out of range", l.Latitude))
	}
	if math.IsNaN(l.Longitude) || l.Longitude < -180 || l.Longitude > 180 {
		return nil, core.NewLocationError(fmt.Sprintf("longitude %v out of range", l.Longitude))
	}
	tz, err := time.LoadLocation(l.Timezone)
	if err != nil {
		return nil, core.NewLocationError(fmt.Sprintf("timezone %q: %v", l.Timezone, err))
	}
	return tz, nil
}
