package storage

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"studio-finder/models"
	"studio-finder/utils"
)

// CSVSource reads rows from a spreadsheet export. Columns are matched by
// header name; unknown columns are ignored and missing ones stay empty.
type CSVSource struct {
	path   string
	logger *utils.Logger
}

// NewCSVSource creates a new CSVSource
func NewCSVSource(path string, logger *utils.Logger) *CSVSource {
	return &CSVSource{path: path, logger: logger}
}

func (s *CSVSource) Name() string { return "csv:" + s.path }

// FetchRows parses the whole file
func (s *CSVSource) FetchRows(_ context.Context) ([]models.RawRow, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrSourceUnavailable, s.path, err)
	}
	defer f.Close()

	rows, err := ReadCSVRows(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, s.path, err)
	}
	s.logger.Debug("Loaded %d rows from %s", len(rows), s.path)
	return rows, nil
}

// ReadCSVRows decodes header-keyed CSV into raw rows
func ReadCSVRows(r io.Reader) ([]models.RawRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	colIndex := make(map[string]int, len(rowColumns))
	for i, col := range rowColumns {
		colIndex[col] = i
	}
	// position in the file -> position in rowFields
	mapping := make([]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if idx, ok := colIndex[name]; ok {
			mapping[i] = idx
		} else {
			mapping[i] = -1
		}
	}

	var rows []models.RawRow
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", len(rows)+2, err)
		}
		var row models.RawRow
		fields := rowFields(&row)
		for i, v := range rec {
			if i < len(mapping) && mapping[i] >= 0 {
				*fields[mapping[i]] = models.Text(v)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
