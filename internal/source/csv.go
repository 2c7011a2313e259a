// ABOUTME: Flat-file Source reading CSV exports from a data directory.
// ABOUTME: Tolerates ragged rows, BOM-prefixed headers, and lazy quotes.
package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// CSVSource reads datasets from CSV files in a single directory.
type CSVSource struct {
	dir string
}

// Compile-time check that CSVSource implements Source.
var _ Source = (*CSVSource)(nil)

// NewCSVSource creates a Source rooted at dir.
func NewCSVSource(dir string) (*CSVSource, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("open data directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("open data directory: %s is not a directory", dir)
	}
	return &CSVSource{dir: dir}, nil
}

// Dir returns the data directory.
func (s *CSVSource) Dir() string {
	return s.dir
}

// Close is a no-op for CSVSource.
func (s *CSVSource) Close() error {
	return nil
}

// Rows reads every record of the dataset file.
func (s *CSVSource) Rows(ctx context.Context, dataset Dataset, participant string) ([]Row, error) {
	path := filepath.Join(s.dir, dataset.FileName(participant))
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	rows, err := ReadCSV(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return rows, nil
}

// ReadCSV decodes a header-first CSV stream into rows. Cells missing from a
// short record read as empty strings.
func ReadCSV(ctx context.Context, r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	columns := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		columns[i] = strings.TrimSpace(h)
	}

	var rows []Row
	for line := 2; ; line++ {
		if line%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		row := make(Row, len(columns))
		for i, col := range columns {
			if i < len(record) {
				row[col] = record[i]
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}

	return rows, ctx.Err()
}
