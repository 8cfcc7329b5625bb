package analysis

import (
	"stopstats/domain/frame"
	"stopstats/domain/stops"
)

// CompareRates pivots a long rate table into majority-versus-minority rows.
// The index key is every column except the group and rate columns; each
// output row pairs the majority group's rate (column "<majority>_<rate>")
// with one minority group's rate (columns "minority_group" and
// "minority_<rate>") for one index combination.
//
// Missing group/index combinations fill with 0 instead of being dropped.
// A zero can therefore mean either "observed rate of exactly zero" or "no
// data"; callers cannot tell them apart. This differs from the aggregators'
// drop-missing policy and existing outputs depend on both staying as-is.
func CompareRates(rates frame.Table, rateCol, majority string, minorities []string, groupCol string) (frame.Table, error) {
	if err := stops.RequireColumns(rates, "rates", rateCol, groupCol); err != nil {
		return frame.Table{}, err
	}

	var indexCols []string
	for _, c := range rates.Columns {
		if c != rateCol && c != groupCol {
			indexCols = append(indexCols, c)
		}
	}

	// pivot: index key -> group value -> rate
	pivot := make(map[string]map[string]float64)
	indexRows := make(map[string]frame.Row)
	var order []string
	for _, r := range rates.Rows {
		k := frame.Key(r, indexCols)
		if _, ok := pivot[k]; !ok {
			pivot[k] = make(map[string]float64)
			indexRows[k] = r
			order = append(order, k)
		}
		if v, ok := frame.ToFloat(r[rateCol]); ok {
			pivot[k][frame.FormatValue(r[groupCol])] = v
		}
	}

	majCol := majority + "_" + rateCol
	minCol := "minority_" + rateCol
	cols := append(append([]string{}, indexCols...), majCol, "minority_group", minCol)
	out := frame.New(cols...)

	for _, minority := range minorities {
		for _, k := range order {
			row := make(frame.Row, len(cols))
			for _, c := range indexCols {
				row[c] = indexRows[k][c]
			}
			row[majCol] = pivot[k][majority]
			row["minority_group"] = minority
			row[minCol] = pivot[k][minority]
			out.Rows = append(out.Rows, row)
		}
	}

	// with no index columns the output is one row per minority value, in
	// the order the caller gave them
	if len(indexCols) > 0 {
		out = out.SortBy(indexCols...)
	}
	return out, nil
}
