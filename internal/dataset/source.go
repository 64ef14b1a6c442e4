package dataset

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

// Table is a delimited table: a header row and data rows as raw strings.
type Table struct {
	Header []string
	Rows   [][]string
}

// Source produces the raw grants table. Implementations read it once.
type Source interface {
	Name() string
	ReadTable(ctx context.Context) (Table, error)
}

// CSVSource reads a comma-delimited file.
type CSVSource struct {
	Path string
}

var _ Source = CSVSource{}

func (s CSVSource) Name() string { return "csv:" + s.Path }

func (s CSVSource) ReadTable(ctx context.Context) (Table, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return Table{}, fmt.Errorf("open %s: %w", s.Path, err)
	}
	defer f.Close()
	return ReadCSV(ctx, f)
}

// ReadCSV parses a comma-delimited table from r. The first record is the
// header. Rows shorter than the header are padded with empty strings.
func ReadCSV(ctx context.Context, r io.Reader) (Table, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Table{}, errors.New("empty table: missing header row")
		}
		return Table{}, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		// Excel exports prefix the first header cell with a BOM.
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	var rows [][]string
	for {
		if err := ctx.Err(); err != nil {
			return Table{}, err
		}
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Table{}, fmt.Errorf("read row %d: %w", len(rows)+1, err)
		}
		for len(row) < len(header) {
			row = append(row, "")
		}
		rows = append(rows, row)
	}
	return Table{Header: header, Rows: rows}, nil
}

// ResolvePath resolves a relative dataset path against the directory of the
// running executable, falling back to the working directory when the file is
// not found next to the binary.
func ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	if exe, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(exe), p)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return p
}

// StaticSource serves an in-memory table. Used by tests and tooling.
type StaticSource struct {
	Label string
	Table Table
}

func (s StaticSource) Name() string {
	if s.Label == "" {
		return "static"
	}
	return s.Label
}

func (s StaticSource) ReadTable(context.Context) (Table, error) {
	return s.Table, nil
}
