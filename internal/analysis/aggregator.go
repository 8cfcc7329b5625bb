package analysis

import (
	"github.com/montanaflynn/stats"

	"stopstats/domain/core"
	"stopstats/domain/frame"
	"stopstats/domain/stops"
)

// GroupSize counts the rows in each combination of the group-by columns.
// With includeProp, every group also reports its share of the pre-grouping
// row total. Only combinations actually observed appear; there is no
// zero-fill here.
func GroupSize(t frame.Table, by []string, includeProp bool) (frame.Table, error) {
	if len(by) == 0 {
		return frame.Table{}, core.ErrNoGroupColumns
	}
	if err := stops.RequireColumns(t, "stops", by...); err != nil {
		return frame.Table{}, err
	}

	groups, order := groupRows(t, by)

	cols := append(append([]string{}, by...), "n")
	if includeProp {
		cols = append(cols, "prop")
	}
	out := frame.New(cols...)

	total := float64(t.Len())
	for _, key := range order {
		rows := groups[key]
		row := keyRow(rows[0], by)
		row["n"] = len(rows)
		if includeProp {
			row["prop"] = float64(len(rows)) / total
		}
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}

// StopRates divides per-group stop counts by group population. The
// population join is a left join whose unmatched groups are dropped without
// error; consumers read the smaller output as "unmatched", so this loss
// stays silent on purpose.
func StopRates(records, population frame.Table, by []string, schema stops.Schema) (frame.Table, error) {
	counts, err := GroupSize(records, by, true)
	if err != nil {
		return frame.Table{}, err
	}
	popCols := append(append([]string{}, by...), schema.Population)
	if err := stops.RequireColumns(population, "population", popCols...); err != nil {
		return frame.Table{}, err
	}

	popByKey := make(map[string]frame.Row, population.Len())
	for _, r := range population.Rows {
		popByKey[frame.Key(r, by)] = r
	}

	out := frame.New(append(append([]string{}, by...), "stop_rate")...)
	for _, r := range counts.Rows {
		pop, ok := popByKey[frame.Key(r, by)]
		if !ok {
			continue
		}
		people, ok := frame.ToFloat(pop[schema.Population])
		if !ok {
			continue
		}
		n, _ := frame.ToFloat(r["n"])
		row := keyRow(r, by)
		row["stop_rate"] = n / people
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}

// SearchRates is the per-group mean of the search indicator.
func SearchRates(t frame.Table, by []string, schema stops.Schema) (frame.Table, error) {
	return meanRate(t, by, schema.Search, "search_rate")
}

// ArrestRates is the per-group mean of the arrest indicator.
func ArrestRates(t frame.Table, by []string, schema stops.Schema) (frame.Table, error) {
	return meanRate(t, by, schema.Arrest, "arrest_rate")
}

// FriskRates is the per-group mean of the frisk indicator.
func FriskRates(t frame.Table, by []string, schema stops.Schema) (frame.Table, error) {
	return meanRate(t, by, schema.Frisk, "frisk_rate")
}

// HitRates restricts to stops where a search happened, then averages the
// contraband indicator per group: the fraction of searches that found
// contraband. The search filter runs before grouping.
func HitRates(t frame.Table, by []string, schema stops.Schema) (frame.Table, error) {
	if err := stops.RequireColumns(t, "stops", schema.Search); err != nil {
		return frame.Table{}, err
	}

	searched := frame.Table{Columns: t.Columns, Rows: make([]frame.Row, 0, t.Len())}
	for _, r := range t.Rows {
		v := r[schema.Search]
		if stops.IsMissing(v) {
			continue
		}
		x, err := stops.Indicator(schema.Search, v)
		if err != nil {
			return frame.Table{}, err
		}
		if x == 1 {
			searched.Rows = append(searched.Rows, r)
		}
	}
	return meanRate(searched, by, schema.Contraband, "hit_rate")
}

// meanRate groups the table and averages a normalized indicator column.
// Missing cells are skipped; a group whose every cell is missing is dropped
// entirely rather than emitted as NaN. The comparator deliberately does the
// opposite (zero-fill) - both behaviors are load-bearing.
func meanRate(t frame.Table, by []string, valueCol, rateName string) (frame.Table, error) {
	if len(by) == 0 {
		return frame.Table{}, core.ErrNoGroupColumns
	}
	required := append(append([]string{}, by...), valueCol)
	if err := stops.RequireColumns(t, "stops", required...); err != nil {
		return frame.Table{}, err
	}

	groups, order := groupRows(t, by)
	out := frame.New(append(append([]string{}, by...), rateName)...)

	for _, key := range order {
		var vals []float64
		for _, r := range groups[key] {
			v := r[valueCol]
			if stops.IsMissing(v) {
				continue
			}
			x, err := stops.Indicator(valueCol, v)
			if err != nil {
				return frame.Table{}, err
			}
			vals = append(vals, x)
		}
		if len(vals) == 0 {
			continue
		}
		mean, err := stats.Mean(vals)
		if err != nil {
			continue
		}
		row := keyRow(groups[key][0], by)
		row[rateName] = mean
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}

// groupRows buckets rows by composite key, keeping first-seen group order.
// Rows with a missing key cell are dropped, the same way the veil-of-darkness
// shares skip them; they still count toward pre-grouping totals.
func groupRows(t frame.Table, by []string) (map[string][]frame.Row, []string) {
	groups := make(map[string][]frame.Row)
	var order []string
	for _, r := range t.Rows {
		if missingKey(r, by) {
			continue
		}
		k := frame.Key(r, by)
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], r)
	}
	return groups, order
}

func missingKey(r frame.Row, by []string) bool {
	for _, col := range by {
		if stops.IsMissing(r[col]) {
			return true
		}
	}
	return false
}

// keyRow copies just the grouping columns of a row.
func keyRow(r frame.Row, by []string) frame.Row {
	row := make(frame.Row, len(by)+2)
	for _, col := range by {
		row[col] = r[col]
	}
	return row
}
