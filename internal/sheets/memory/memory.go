// Package memory is an in-process stand-in for a spreadsheet, used when no
// Google credentials are available.
package memory

import (
	"context"
	"fmt"
	"sync"

	ports "lcgrants/internal/sheets"
)

// Store holds cell matrices keyed by "spreadsheetID/range".
type Store struct {
	mu     sync.Mutex
	ranges map[string][][]interface{}
	reads  int
}

var _ ports.ValuesReader = (*Store)(nil)

func New() *Store {
	return &Store{ranges: make(map[string][][]interface{})}
}

// Put stores values for a range, replacing earlier values.
func (s *Store) Put(spreadsheetID, rng string, values [][]interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ranges[key(spreadsheetID, rng)] = values
}

// PutTable stores a header and string rows.
func (s *Store) PutTable(spreadsheetID, rng string, header []string, rows [][]string) {
	values := make([][]interface{}, 0, len(rows)+1)
	values = append(values, toCells(header))
	for _, r := range rows {
		values = append(values, toCells(r))
	}
	s.Put(spreadsheetID, rng, values)
}

// ReadValues returns a copy of the stored matrix.
func (s *Store) ReadValues(_ context.Context, spreadsheetID, rng string) ([][]interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	v, ok := s.ranges[key(spreadsheetID, rng)]
	if !ok {
		return nil, fmt.Errorf("range %s not found in spreadsheet %s", rng, spreadsheetID)
	}
	out := make([][]interface{}, len(v))
	for i, row := range v {
		out[i] = append([]interface{}(nil), row...)
	}
	return out, nil
}

// Reads returns how many times ReadValues was called.
func (s *Store) Reads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads
}

func key(spreadsheetID, rng string) string { return spreadsheetID + "/" + rng }

func toCells(in []string) []interface{} {
	out := make([]interface{}, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}
