package stops

import (
	"strings"

	"stopstats/domain/core"
	"stopstats/domain/frame"
)

// Indicator normalizes an outcome cell to 0 or 1. Accepted encodings are
// bools, 0/1 integers or floats, and "true"/"false"/"0"/"1" strings;
// anything else is an ErrBadIndicator. Sources mix these encodings freely,
// so normalization happens here once instead of inside each rate function.
func Indicator(column string, v any) (float64, error) {
	switch x := v.(type) {
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	case int:
		return indicatorFromFloat(column, float64(x), v)
	case int32:
		return indicatorFromFloat(column, float64(x), v)
	case int64:
		return indicatorFromFloat(column, float64(x), v)
	case float32:
		return indicatorFromFloat(column, float64(x), v)
	case float64:
		return indicatorFromFloat(column, x, v)
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "true", "1":
			return 1, nil
		case "false", "0":
			return 0, nil
		}
		return 0, core.NewIndicatorError(column, v)
	default:
		return 0, core.NewIndicatorError(column, v)
	}
}

func indicatorFromFloat(column string, f float64, raw any) (float64, error) {
	if f == 0 || f == 1 {
		return f, nil
	}
	return 0, core.NewIndicatorError(column, raw)
}

// IsMissing reports whether a cell holds no value.
func IsMissing(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

// NormalizeTable applies ingestion-time typing to a raw table: the date
// column becomes a time.Time, indicator columns become float64 0/1, and the
// population column becomes a float64. Columns the table does not carry are
// skipped; unparseable dates pass through as-is so string-keyed joins still
// work, while a bad indicator fails the whole load.
func NormalizeTable(t frame.Table, schema Schema) (frame.Table, error) {
	indicators := []string{schema.Search, schema.Arrest, schema.Frisk, schema.Contraband}

	out := frame.Table{Columns: t.Columns, Rows: make([]frame.Row, 0, t.Len())}
	for _, r := range t.Rows {
		row := make(frame.Row, len(r))
		for k, v := range r {
			row[k] = v
		}

		if schema.Date != "" && t.HasColumn(schema.Date) {
			if s, ok := row[schema.Date].(string); ok {
				if d, err := core.ParseDate(s); err == nil {
					row[schema.Date] = d
				}
			}
		}

		for _, col := range indicators {
			if col == "" || !t.HasColumn(col) {
				continue
			}
			if IsMissing(row[col]) {
				row[col] = nil
				continue
			}
			x, err := Indicator(col, row[col])
			if err != nil {
				return frame.Table{}, err
			}
			row[col] = x
		}

		if schema.Population != "" && t.HasColumn(schema.Population) && !IsMissing(row[schema.Population]) {
			if f, ok := frame.ToFloat(row[schema.Population]); ok {
				row[schema.Population] = f
			}
		}

		out.Rows = append(out.Rows, row)
	}
	return out, nil
}
