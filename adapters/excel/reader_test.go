package excel

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stopstats/domain/stops"
)

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadCSV(t *testing.T) {
	path := writeCSV(t, "stops.csv",
		"date,time,subject_race,search_conducted\n"+
			"2020-01-01,18:30:00,white,true\n"+
			"2020-01-02, 19:00 ,black,\n")

	table, err := NewReader(path).Read()
	require.NoError(t, err)
	require.Equal(t, []string{"date", "time", "subject_race", "search_conducted"}, table.Columns)
	require.Equal(t, 2, table.Len())

	assert.Equal(t, "19:00", table.Rows[1]["time"], "cells are trimmed")
	assert.Nil(t, table.Rows[1]["search_conducted"], "empty cells load as missing")
	assert.Equal(t, "true", table.Rows[0]["search_conducted"], "typing is the normalizer's job, not the reader's")
}

func TestReadMissingFile(t *testing.T) {
	_, err := NewReader(filepath.Join(t.TempDir(), "absent.csv")).Read()
	assert.Error(t, err)
}

func TestReadEmptyFile(t *testing.T) {
	path := writeCSV(t, "empty.csv", "")
	_, err := NewReader(path).Read()
	assert.Error(t, err)
}

func TestSourceNormalizesOnLoad(t *testing.T) {
	path := writeCSV(t, "stops.csv",
		"date,time,subject_race,search_conducted,arrest_made\n"+
			"2020-01-01,18:30,white,1,false\n")

	src := NewSource(path, "", stops.DefaultSchema())
	table, err := src.Stops(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())

	date, ok := table.Rows[0]["date"].(time.Time)
	require.True(t, ok, "date strings become time.Time at load")
	assert.Equal(t, 2020, date.Year())
	assert.Equal(t, 1.0, table.Rows[0]["search_conducted"])
	assert.Equal(t, 0.0, table.Rows[0]["arrest_made"])
}

func TestSourceBadIndicatorFailsLoad(t *testing.T) {
	path := writeCSV(t, "stops.csv",
		"date,time,search_conducted\n2020-01-01,18:30,maybe\n")

	_, err := NewSource(path, "", stops.DefaultSchema()).Stops(context.Background())
	assert.Error(t, err)
}

func TestSourceEmptyPopulationPath(t *testing.T) {
	src := NewSource("unused.csv", "", stops.DefaultSchema())
	table, err := src.Population(context.Background())
	require.NoError(t, err)
	assert.Zero(t, table.Len())
}
