package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stopstats/domain/core"
	"stopstats/domain/frame"
	"stopstats/domain/solar"
	"stopstats/domain/stops"
)

type stubSource struct {
	stops      frame.Table
	population frame.Table
}

func (s stubSource) Stops(ctx context.Context) (frame.Table, error)      { return s.stops, nil }
func (s stubSource) Population(ctx context.Context) (frame.Table, error) { return s.population, nil }

// stubCalculator hands out canned sunset/dusk minutes per date.
type stubCalculator struct {
	byDate map[string]solar.Times
}

func (c stubCalculator) Times(ctx context.Context, dates []time.Time, loc solar.Location) (solar.Table, error) {
	table := make(solar.Table, len(dates))
	for i, d := range dates {
		times := c.byDate[solar.DateKey(d)]
		times.Date = d
		table[i] = times
	}
	return table, nil
}

func testServer(t *testing.T) *Server {
	t.Helper()
	day1 := time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2020, 3, 8, 0, 0, 0, 0, time.UTC)
	src := stubSource{
		stops: frame.Table{
			Columns: []string{"date", "time", "subject_race", "search_conducted", "arrest_made", "frisk_performed", "contraband_found"},
			Rows: []frame.Row{
				{"date": day1, "time": "18:30", "subject_race": "white", "search_conducted": 1.0, "contraband_found": 1.0},
				{"date": day1, "time": "18:20", "subject_race": "white", "search_conducted": 0.0},
				{"date": day2, "time": "18:40", "subject_race": "black", "search_conducted": 1.0, "contraband_found": 0.0},
			},
		},
		population: frame.Table{
			Columns: []string{"subject_race", "num_people"},
			Rows: []frame.Row{
				{"subject_race": "white", "num_people": 100.0},
				{"subject_race": "black", "num_people": 50.0},
			},
		},
	}
	// the joined dusks span [1100, 1120], so all three stops clear the
	// intertwilight window; none fall in their date's sunset-to-dusk gap
	calc := stubCalculator{byDate: map[string]solar.Times{
		solar.DateKey(day1): {SunsetMinute: 1070, DuskMinute: 1100},
		solar.DateKey(day2): {SunsetMinute: 1090, DuskMinute: 1120},
	}}

	svc, err := NewService(context.Background(), src, calc, stops.DefaultSchema(),
		solar.Location{Latitude: 40.7, Longitude: -74.0, Timezone: "UTC"})
	require.NoError(t, err)
	return NewServer(svc)
}

func get(t *testing.T, srv *Server, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	var body map[string]any
	if rec.Body.Len() > 0 && rec.Body.Bytes()[0] == '{' {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestHandleRates(t *testing.T) {
	srv := testServer(t)

	rec, body := get(t, srv, "/api/rates/search?by=subject_race")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, body["run_id"])
	assert.Len(t, body["rows"], 2)
}

func TestHandleRatesUnknownKind(t *testing.T) {
	srv := testServer(t)

	rec, body := get(t, srv, "/api/rates/bogus?by=subject_race")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "BAD_INPUT", body["code"])
}

func TestHandleRatesMissingBy(t *testing.T) {
	srv := testServer(t)

	rec, _ := get(t, srv, "/api/rates/search")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleRatesUnknownColumn(t *testing.T) {
	srv := testServer(t)

	rec, _ := get(t, srv, "/api/rates/search?by=precinct")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleCompare(t *testing.T) {
	srv := testServer(t)

	rec, body := get(t, srv, "/api/rates/compare?kind=hit&majority=white&minorities=black")
	require.Equal(t, http.StatusOK, rec.Code)

	cols := body["columns"].([]any)
	assert.Contains(t, cols, "white_hit_rate")
	assert.Contains(t, cols, "minority_hit_rate")
	assert.Len(t, body["rows"], 1)
}

func TestHandleCompareRejectsSize(t *testing.T) {
	srv := testServer(t)

	rec, _ := get(t, srv, "/api/rates/compare?kind=size&majority=white&minorities=black")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleCompareMissingParams(t *testing.T) {
	srv := testServer(t)

	rec, _ := get(t, srv, "/api/rates/compare?kind=hit")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleVod(t *testing.T) {
	srv := testServer(t)

	// 18:30 on day1 is past that date's dusk; the other two stops are
	// still light on theirs
	rec, body := get(t, srv, "/api/vod?start=18:00&end=19:00")
	require.Equal(t, http.StatusOK, rec.Code)

	rates := body["rates"].(map[string]any)
	light := rates["0"].(map[string]any)
	dark := rates["1"].(map[string]any)
	assert.Equal(t, 0.5, light["white"])
	assert.Equal(t, 0.5, light["black"])
	assert.Equal(t, 1.0, dark["white"])
}

func TestHandleVodBadWindow(t *testing.T) {
	srv := testServer(t)

	rec, _ := get(t, srv, "/api/vod?start=18:00&end=nope")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = get(t, srv, "/api/vod")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNewServiceRejectsEmptyStops(t *testing.T) {
	src := stubSource{stops: frame.Table{Columns: []string{"date"}}}
	_, err := NewService(context.Background(), src, stubCalculator{}, stops.DefaultSchema(),
		solar.Location{Timezone: "UTC"})
	assert.ErrorIs(t, err, core.ErrEmptyTable)
}

func TestHandleSchema(t *testing.T) {
	srv := testServer(t)

	rec, _ := get(t, srv, "/api/schema")
	assert.Equal(t, http.StatusOK, rec.Code)
}
