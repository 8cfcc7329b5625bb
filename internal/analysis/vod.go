package analysis

import (
	"stopstats/domain/core"
	"stopstats/domain/frame"
	"stopstats/domain/solar"
	"stopstats/domain/stops"
)

// VodRates computes, within the [start, end] clock window (inclusive both
// ends, "HH:MM"), each group's share of daylight stops and of darkness
// stops. A partition with no observations stays absent from the result
// rather than reading as zero.
//
// The gap between a minority group's daylight share and its darkness share,
// inside a window straddling the sunset-to-dusk transition, is the
// veil-of-darkness signal: stops selected on visible race inflate the
// daylight share.
func VodRates(obs []solar.Observation, start, end string, schema stops.Schema) (solar.Rates, error) {
	startMin, err := core.ParseClock(start)
	if err != nil {
		return nil, err
	}
	endMin, err := core.ParseClock(end)
	if err != nil {
		return nil, err
	}

	counts := make(map[int]map[string]int)
	totals := make(map[int]int)
	for _, o := range obs {
		if o.Minute < startMin || o.Minute > endMin {
			continue
		}
		if stops.IsMissing(o.Row[schema.Group]) {
			continue
		}
		group := frame.FormatValue(o.Row[schema.Group])
		if counts[o.IsDark] == nil {
			counts[o.IsDark] = make(map[string]int)
		}
		counts[o.IsDark][group]++
		totals[o.IsDark]++
	}

	rates := make(solar.Rates, len(counts))
	for dark, byGroup := range counts {
		total := totals[dark]
		if total == 0 {
			continue
		}
		rates[dark] = make(map[string]float64, len(byGroup))
		for group, n := range byGroup {
			rates[dark][group] = float64(n) / float64(total)
		}
	}
	return rates, nil
}
