package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"stopstats/domain/frame"
	"stopstats/domain/stops"
	"stopstats/internal"
	apperrors "stopstats/internal/errors"
)

// Reader loads a tabular file (.xlsx or .csv) into a frame.Table.
type Reader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	log      *internal.Logger
}

// NewReader creates a reader for the given path, dispatching on extension.
func NewReader(filePath string) *Reader {
	fileType := "xlsx"
	if strings.ToLower(filepath.Ext(filePath)) == ".csv" {
		fileType = "csv"
	}
	return &Reader{filePath: filePath, fileType: fileType, log: internal.DefaultLogger}
}

// Read loads the file. Cells come back as trimmed strings, empty cells as
// missing; typing happens downstream in stops.NormalizeTable.
func (r *Reader) Read() (frame.Table, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return frame.Table{}, apperrors.New(apperrors.CodeSourceError,
			fmt.Sprintf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath))
	}

	var rows [][]string
	var err error
	switch r.fileType {
	case "csv":
		rows, err = r.readCSV()
	default:
		rows, err = r.readExcel()
	}
	if err != nil {
		return frame.Table{}, err
	}

	table, err := toTable(rows)
	if err != nil {
		return frame.Table{}, err
	}
	r.log.Debug("loaded %s: %d rows, %d columns", r.filePath, table.Len(), len(table.Columns))
	return table, nil
}

func (r *Reader) readExcel() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, apperrors.Wrapf(err, "failed to open Excel file %s", r.filePath)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, apperrors.Wrapf(err, "failed to read sheet %s", sheet)
	}
	return rows, nil
}

func (r *Reader) readCSV() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, apperrors.Wrapf(err, "failed to open CSV file %s", r.filePath)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, apperrors.Wrapf(err, "failed to read CSV file %s", r.filePath)
	}
	return rows, nil
}

// toTable converts raw string rows into a table keyed by the header row.
func toTable(rows [][]string) (frame.Table, error) {
	if len(rows) < 1 {
		return frame.Table{}, apperrors.New(apperrors.CodeBadInput, "file has no header row")
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}
	table := frame.New(headers...)

	for _, cells := range rows[1:] {
		row := make(frame.Row, len(headers))
		for i, header := range headers {
			if i >= len(cells) {
				row[header] = nil
				continue
			}
			v := strings.TrimSpace(cells[i])
			if v == "" {
				row[header] = nil
			} else {
				row[header] = v
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// Source implements ports.RecordSource over stop and population files,
// normalizing both against the schema at load time.
type Source struct {
	StopsPath      string
	PopulationPath string
	Schema         stops.Schema
}

// NewSource creates a file-backed record source.
func NewSource(stopsPath, populationPath string, schema stops.Schema) *Source {
	return &Source{StopsPath: stopsPath, PopulationPath: populationPath, Schema: schema}
}

// Stops loads and normalizes the stop-record table.
func (s *Source) Stops(ctx context.Context) (frame.Table, error) {
	t, err := NewReader(s.StopsPath).Read()
	if err != nil {
		return frame.Table{}, err
	}
	return stops.NormalizeTable(t, s.Schema)
}

// Population loads and normalizes the population table. A source with no
// population path yields an empty table: stop rates are then unavailable
// but every other analysis still runs.
func (s *Source) Population(ctx context.Context) (frame.Table, error) {
	if s.PopulationPath == "" {
		return frame.Table{}, nil
	}
	t, err := NewReader(s.PopulationPath).Read()
	if err != nil {
		return frame.Table{}, err
	}
	return stops.NormalizeTable(t, s.Schema)
}
