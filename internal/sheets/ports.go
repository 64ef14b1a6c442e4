package sheets

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"lcgrants/internal/dataset"
)

// Ports for outbound adapters.
type (
	// ValuesReader returns the raw cell matrix of a range, first row first.
	ValuesReader interface {
		ReadValues(ctx context.Context, spreadsheetID, rng string) ([][]interface{}, error)
	}
)

var ErrEmptyRange = errors.New("sheet range has no header row")

// Source reads the grants table from a spreadsheet range.
type Source struct {
	Reader        ValuesReader
	SpreadsheetID string
	Range         string
}

var _ dataset.Source = Source{}

func (s Source) Name() string {
	return fmt.Sprintf("sheets:%s/%s", s.SpreadsheetID, s.Range)
}

func (s Source) ReadTable(ctx context.Context) (dataset.Table, error) {
	values, err := s.Reader.ReadValues(ctx, s.SpreadsheetID, s.Range)
	if err != nil {
		return dataset.Table{}, fmt.Errorf("read %s: %w", s.Range, err)
	}
	return TableFromValues(values)
}

// TableFromValues converts a cell matrix into a table. The first row is the
// header; trailing empty cells omitted by the API are restored.
func TableFromValues(values [][]interface{}) (dataset.Table, error) {
	if len(values) == 0 {
		return dataset.Table{}, ErrEmptyRange
	}
	header := toStrings(values[0])
	for len(header) > 0 && header[len(header)-1] == "" {
		header = header[:len(header)-1]
	}
	if len(header) == 0 {
		return dataset.Table{}, ErrEmptyRange
	}

	rows := make([][]string, 0, len(values)-1)
	for _, raw := range values[1:] {
		row := toStrings(raw)
		if len(row) > len(header) {
			row = row[:len(header)]
		}
		for len(row) < len(header) {
			row = append(row, "")
		}
		rows = append(rows, row)
	}
	return dataset.Table{Header: header, Rows: rows}, nil
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = cellString(v)
	}
	return out
}

// cellString renders a cell. Unformatted numeric cells arrive as float64 and
// are written without exponent or trailing zeros, so 2021 stays "2021".
func cellString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return strings.TrimSpace(fmt.Sprint(x))
	}
}
