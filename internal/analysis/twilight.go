package analysis

import (
	"fmt"
	"sort"
	"time"

	"stopstats/domain/core"
	"stopstats/domain/frame"
	"stopstats/domain/solar"
	"stopstats/domain/stops"
)

// UniqueDates collects the distinct calendar dates in a stop table, in
// first-seen order. String dates must parse; a date that is neither a
// time.Time nor a parseable string is an error, since the solar calculator
// cannot be fed a date it cannot interpret.
func UniqueDates(t frame.Table, dateCol string) ([]time.Time, error) {
	if err := stops.RequireColumns(t, "stops", dateCol); err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var dates []time.Time
	for _, r := range t.Rows {
		key := solar.DateKey(r[dateCol])
		if seen[key] {
			continue
		}
		seen[key] = true
		switch d := r[dateCol].(type) {
		case time.Time:
			dates = append(dates, d)
		case string:
			parsed, err := core.ParseDate(d)
			if err != nil {
				return nil, err
			}
			dates = append(dates, parsed)
		default:
			return nil, fmt.Errorf("%w: %v (%T)", core.ErrBadDate, r[dateCol], r[dateCol])
		}
	}
	return dates, nil
}

// IntertwilightObservations joins stops to their date's solar times and
// restricts them to the intertwilight period: first the global window
// between the earliest and latest dusk across all dates, then each record's
// own sunset-to-dusk ambiguity exclusion. The two filters do not commute at
// window boundaries, so the order is fixed.
//
// The date join is a left join; records whose date never went through the
// solar calculator drop out silently.
func IntertwilightObservations(records frame.Table, times solar.Table, schema stops.Schema) ([]solar.Observation, error) {
	if err := stops.RequireColumns(records, "stops", schema.Date, schema.Time); err != nil {
		return nil, err
	}

	byDate := times.ByDate()
	obs := make([]solar.Observation, 0, records.Len())
	for _, r := range records.Rows {
		st, ok := byDate[solar.DateKey(r[schema.Date])]
		if !ok {
			continue
		}
		minute, err := stopMinute(r[schema.Time])
		if err != nil {
			return nil, err
		}
		o := solar.Observation{
			Row:              r,
			Times:            st,
			Minute:           minute,
			MinutesAfterDark: int(minute) - int(st.DuskMinute),
		}
		if minute > st.DuskMinute {
			o.IsDark = 1
		}
		obs = append(obs, o)
	}
	if len(obs) == 0 {
		return obs, nil
	}

	minDusk, maxDusk := obs[0].Times.DuskMinute, obs[0].Times.DuskMinute
	for _, o := range obs[1:] {
		if o.Times.DuskMinute < minDusk {
			minDusk = o.Times.DuskMinute
		}
		if o.Times.DuskMinute > maxDusk {
			maxDusk = o.Times.DuskMinute
		}
	}

	window := make([]solar.Observation, 0, len(obs))
	for _, o := range obs {
		if o.Minute >= minDusk && o.Minute <= maxDusk {
			window = append(window, o)
		}
	}

	out := make([]solar.Observation, 0, len(window))
	for _, o := range window {
		if o.Minute > o.Times.SunsetMinute && o.Minute < o.Times.DuskMinute {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

// stopMinute normalizes a time cell to its minute of day. Strings parse
// strictly as HH:MM:SS or HH:MM; already-structured values pass through;
// anything else surfaces as an error rather than a silent default.
func stopMinute(v any) (core.Minute, error) {
	switch x := v.(type) {
	case string:
		return core.ParseClock(x)
	case time.Time:
		return core.MinuteOf(x), nil
	case core.Minute:
		return x, nil
	case int:
		return core.Minute(x), nil
	default:
		return 0, fmt.Errorf("%w: %v (%T)", core.ErrBadClockTime, v, v)
	}
}

// SortObservations orders observations by date then minute. The filter
// itself preserves input order; this is for stable presentation.
func SortObservations(obs []solar.Observation) {
	sort.SliceStable(obs, func(i, j int) bool {
		if !obs[i].Times.Date.Equal(obs[j].Times.Date) {
			return obs[i].Times.Date.Before(obs[j].Times.Date)
		}
		return obs[i].Minute < obs[j].Minute
	})
}
