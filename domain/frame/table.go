package frame

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Row is one observation keyed by column name. Cell values are strings,
// bools, ints, float64s, time.Times, or nil for missing.
type Row map[string]any

// Table is an ordered set of named columns over rows. Tables are treated as
// immutable once loaded: every transformation returns a new Table, sharing
// row maps with its input.
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// New creates an empty table with the given column order.
func New(columns ...string) Table {
	return Table{Columns: columns}
}

// Len returns the number of rows.
func (t Table) Len() int {
	return len(t.Rows)
}

// HasColumn reports whether the table carries the named column.
func (t Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Filter returns the rows for which keep is true, preserving order.
func (t Table) Filter(keep func(Row) bool) Table {
	out := Table{Columns: t.Columns}
	for _, r := range t.Rows {
		if keep(r) {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}

// SortBy returns a copy of the table stably sorted ascending by the given
// columns. Cells that both read as numbers compare numerically, everything
// else compares as formatted strings.
func (t Table) SortBy(columns ...string) Table {
	rows := make([]Row, len(t.Rows))
	copy(rows, t.Rows)
	sort.SliceStable(rows, func(i, j int) bool {
		for _, col := range columns {
			c := compareValues(rows[i][col], rows[j][col])
			if c != 0 {
				return c < 0
			}
		}
		return false
	})
	return Table{Columns: t.Columns, Rows: rows}
}

func compareValues(a, b any) int {
	af, aok := ToFloat(a)
	bf, bok := ToFloat(b)
	if aok && bok {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(FormatValue(a), FormatValue(b))
}

// Key builds a composite grouping key for a row over the given columns.
func Key(r Row, columns []string) string {
	parts := make([]string, len(columns))
	for i, col := range columns {
		parts[i] = FormatValue(r[col])
	}
	return strings.Join(parts, "\x1f")
}

// FormatValue canonicalizes a cell for keys, pivot columns and display.
// Missing cells format as the empty string.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 {
			return x.Format("2006-01-02")
		}
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", x)
	}
}

// ToFloat reads a cell as a number when it holds one, including numeric
// strings from unparsed sources.
func ToFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
