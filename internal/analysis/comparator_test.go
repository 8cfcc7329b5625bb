package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stopstats/domain/core"
	"stopstats/domain/frame"
)

func TestCompareRatesZeroFill(t *testing.T) {
	rates := frame.Table{
		Columns: []string{"district", "subject_race", "search_rate"},
		Rows: []frame.Row{
			{"district": "A", "subject_race": "white", "search_rate": 0.10},
			{"district": "A", "subject_race": "black", "search_rate": 0.30},
			{"district": "B", "subject_race": "white", "search_rate": 0.20},
			// no black or hispanic rows for district B
		},
	}

	out, err := CompareRates(rates, "search_rate", "white", []string{"black", "hispanic"}, "subject_race")
	require.NoError(t, err)
	require.Equal(t, []string{"district", "white_search_rate", "minority_group", "minority_search_rate"}, out.Columns)
	require.Equal(t, 4, out.Len(), "one row per index combination per minority")

	type pair struct{ district, minority string }
	got := map[pair]frame.Row{}
	for _, r := range out.Rows {
		got[pair{r["district"].(string), r["minority_group"].(string)}] = r
	}

	assert.InDelta(t, 0.30, got[pair{"A", "black"}]["minority_search_rate"].(float64), 1e-12)
	assert.InDelta(t, 0.10, got[pair{"A", "black"}]["white_search_rate"].(float64), 1e-12)

	// absent combinations become zeros rather than dropped rows
	assert.Equal(t, 0.0, got[pair{"A", "hispanic"}]["minority_search_rate"])
	assert.Equal(t, 0.0, got[pair{"B", "black"}]["minority_search_rate"])
	assert.Equal(t, 0.0, got[pair{"B", "hispanic"}]["minority_search_rate"])
	assert.InDelta(t, 0.20, got[pair{"B", "black"}]["white_search_rate"].(float64), 1e-12)
}

func TestCompareRatesSortedByIndex(t *testing.T) {
	rates := frame.Table{
		Columns: []string{"district", "subject_race", "hit_rate"},
		Rows: []frame.Row{
			{"district": "B", "subject_race": "white", "hit_rate": 0.5},
			{"district": "A", "subject_race": "white", "hit_rate": 0.5},
			{"district": "B", "subject_race": "black", "hit_rate": 0.4},
			{"district": "A", "subject_race": "black", "hit_rate": 0.6},
		},
	}

	out, err := CompareRates(rates, "hit_rate", "white", []string{"black"}, "subject_race")
	require.NoError(t, err)
	require.Equal(t, 2, out.Len())
	assert.Equal(t, "A", out.Rows[0]["district"])
	assert.Equal(t, "B", out.Rows[1]["district"])
}

func TestCompareRatesNoIndexColumns(t *testing.T) {
	rates := frame.Table{
		Columns: []string{"subject_race", "arrest_rate"},
		Rows: []frame.Row{
			{"subject_race": "white", "arrest_rate": 0.05},
			{"subject_race": "black", "arrest_rate": 0.09},
		},
	}

	out, err := CompareRates(rates, "arrest_rate", "white", []string{"black", "asian"}, "subject_race")
	require.NoError(t, err)
	require.Equal(t, 2, out.Len())
	assert.Equal(t, "black", out.Rows[0]["minority_group"])
	assert.InDelta(t, 0.09, out.Rows[0]["minority_arrest_rate"].(float64), 1e-12)
	assert.Equal(t, "asian", out.Rows[1]["minority_group"])
	assert.Equal(t, 0.0, out.Rows[1]["minority_arrest_rate"])
}

func TestCompareRatesNeverInventsIndexCombos(t *testing.T) {
	// district C appears in the input only once; it must appear in the
	// output once per minority and no artificial cross product beyond that.
	rates := frame.Table{
		Columns: []string{"district", "subject_race", "search_rate"},
		Rows: []frame.Row{
			{"district": "C", "subject_race": "black", "search_rate": 0.1},
		},
	}

	out, err := CompareRates(rates, "search_rate", "white", []string{"black"}, "subject_race")
	require.NoError(t, err)
	require.Equal(t, 1, out.Len())
	assert.Equal(t, "C", out.Rows[0]["district"])
	assert.Equal(t, 0.0, out.Rows[0]["white_search_rate"], "majority never observed in C")
	assert.InDelta(t, 0.1, out.Rows[0]["minority_search_rate"].(float64), 1e-12)
}

func TestCompareRatesMissingColumns(t *testing.T) {
	rates := frame.Table{Columns: []string{"subject_race"}, Rows: nil}
	_, err := CompareRates(rates, "search_rate", "white", []string{"black"}, "subject_race")
	assert.ErrorIs(t, err, core.ErrUnknownColumn)
}
