package analysis

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"stopstats/domain/frame"
	"stopstats/domain/solar"
	"stopstats/domain/stops"
)

// DarknessProfile summarizes the minutes-after-dark distribution for one
// group over filtered veil-of-darkness observations. Negative values are
// daylight stops before dusk.
type DarknessProfile struct {
	Group  string  `json:"group"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Q25    float64 `json:"q25"`
	Median float64 `json:"median"`
	Q75    float64 `json:"q75"`
}

// DarknessProfiles computes one profile per group, ordered by group value.
// Rows with a missing group are skipped.
func DarknessProfiles(obs []solar.Observation, schema stops.Schema) []DarknessProfile {
	byGroup := make(map[string][]float64)
	for _, o := range obs {
		if stops.IsMissing(o.Row[schema.Group]) {
			continue
		}
		group := frame.FormatValue(o.Row[schema.Group])
		byGroup[group] = append(byGroup[group], float64(o.MinutesAfterDark))
	}

	groups := make([]string, 0, len(byGroup))
	for g := range byGroup {
		groups = append(groups, g)
	}
	sort.Strings(groups)

	profiles := make([]DarknessProfile, 0, len(groups))
	for _, g := range groups {
		vals := byGroup[g]
		sort.Float64s(vals)

		p := DarknessProfile{Group: g, Count: len(vals)}
		p.Mean = stat.Mean(vals, nil)
		if len(vals) > 1 {
			p.StdDev = stat.StdDev(vals, nil)
		}
		p.Q25 = stat.Quantile(0.25, stat.Empirical, vals, nil)
		p.Median = stat.Quantile(0.5, stat.Empirical, vals, nil)
		p.Q75 = stat.Quantile(0.75, stat.Empirical, vals, nil)
		profiles = append(profiles, p)
	}
	return profiles
}
