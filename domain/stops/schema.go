package stops

import (
	"stopstats/domain/core"
	"stopstats/domain/frame"
)

// Schema maps the logical stop-record roles onto concrete column names.
// Every component takes its Schema explicitly; there are no package-level
// column defaults to mutate.
type Schema struct {
	Date       string `json:"date"`
	Time       string `json:"time"`
	Group      string `json:"group"`
	Search     string `json:"search"`
	Arrest     string `json:"arrest"`
	Frisk      string `json:"frisk"`
	Contraband string `json:"contraband"`
	Population string `json:"population"`
}

// DefaultSchema returns the documented default column names for stop
// records and population tables.
func DefaultSchema() Schema {
	return Schema{
		Date:       "date",
		Time:       "time",
		Group:      "subject_race",
		Search:     "search_conducted",
		Arrest:     "arrest_made",
		Frisk:      "frisk_performed",
		Contraband: "contraband_found",
		Population: "num_people",
	}
}

// RequireColumns fails fast when any named column is absent from the table,
// instead of letting a later group-by fabricate a malformed result.
func RequireColumns(t frame.Table, table string, columns ...string) error {
	for _, col := range columns {
		if col == "" {
			return core.NewColumnError("(empty name)", table)
		}
		if !t.HasColumn(col) {
			return core.NewColumnError(col, table)
		}
	}
	return nil
}
