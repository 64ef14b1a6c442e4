// Package filter holds the per-session filter criteria and the pure engine
// that applies them to the dataset.
package filter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"lcgrants/internal/core"
	"lcgrants/internal/dataset"
)

var ErrInvalidFilter = errors.New("invalid filter")

// Limits are the dataset-derived bounds a State validates against. They are
// shared by every state created from the same dataset.
type Limits struct {
	Min        decimal.Decimal
	Max        decimal.Decimal
	Categories core.CategoryTable

	ds *dataset.Dataset
}

// NewLimits derives the limits of ds.
func NewLimits(ds *dataset.Dataset, cats core.CategoryTable) *Limits {
	lo, hi := ds.AmountBounds()
	return &Limits{Min: lo, Max: hi, Categories: cats, ds: ds}
}

// State is the set of five criteria. Slices are kept in canonical order and
// are replaced, never modified in place, so copying a State by value is safe.
type State struct {
	AmountMin   decimal.Decimal
	AmountMax   decimal.Decimal
	Tagging     []core.TaggingStatus
	Sources     []core.DataSource
	Category    string // category code, core.AllCode for every category
	Subcategory string // subcategory label or core.AllLabel

	limits *Limits
}

// NewState returns the default state: every criterion selects everything.
func NewState(limits *Limits) State {
	s := State{limits: limits}
	s.Reset()
	return s
}

// Limits returns the bounds the state validates against.
func (s *State) Limits() *Limits { return s.limits }

// Reset restores every criterion to its default.
func (s *State) Reset() {
	s.AmountMin = s.limits.Min
	s.AmountMax = s.limits.Max
	s.Tagging = core.TaggingStatuses()
	s.Sources = core.DataSources()
	s.Category = core.AllCode
	s.Subcategory = core.AllLabel
}

// SetAmountRange sets the inclusive amount bounds. A reversed range is
// swapped and both ends are clamped to the dataset bounds.
func (s *State) SetAmountRange(lo, hi decimal.Decimal) error {
	if lo.IsNegative() || hi.IsNegative() {
		return fmt.Errorf("%w: negative amount bound", ErrInvalidFilter)
	}
	if lo.GreaterThan(hi) {
		lo, hi = hi, lo
	}
	s.AmountMin = clamp(lo, s.limits.Min, s.limits.Max)
	s.AmountMax = clamp(hi, s.limits.Min, s.limits.Max)
	return nil
}

func clamp(v, lo, hi decimal.Decimal) decimal.Decimal {
	if v.LessThan(lo) {
		return lo
	}
	if v.GreaterThan(hi) {
		return hi
	}
	return v
}

// SetTagging replaces the tagging selection. An empty selection is valid.
func (s *State) SetTagging(values []string) error {
	seen := make(map[core.TaggingStatus]bool, len(values))
	for _, v := range values {
		ts, err := core.ParseTaggingStatus(v)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidFilter, err)
		}
		seen[ts] = true
	}
	out := make([]core.TaggingStatus, 0, len(seen))
	for _, ts := range core.TaggingStatuses() {
		if seen[ts] {
			out = append(out, ts)
		}
	}
	s.Tagging = out
	return nil
}

// SetSources replaces the data source selection. An empty selection is valid.
func (s *State) SetSources(values []string) error {
	seen := make(map[core.DataSource]bool, len(values))
	for _, v := range values {
		ds, err := core.ParseDataSource(v)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidFilter, err)
		}
		seen[ds] = true
	}
	out := make([]core.DataSource, 0, len(seen))
	for _, ds := range core.DataSources() {
		if seen[ds] {
			out = append(out, ds)
		}
	}
	s.Sources = out
	return nil
}

// SetCategory accepts a category code ("Med") or label ("Medical") and
// stores the code.
func (s *State) SetCategory(codeOrLabel string) error {
	code, ok := s.limits.Categories.Resolve(codeOrLabel)
	if !ok {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidFilter, codeOrLabel)
	}
	s.Category = code
	return nil
}

// SetSubcategory selects one of the dataset's subcategory options.
func (s *State) SetSubcategory(value string) error {
	v := strings.TrimSpace(value)
	if !s.limits.ds.HasSubcategoryOption(v) {
		return fmt.Errorf("%w: unknown subcategory %q", ErrInvalidFilter, value)
	}
	s.Subcategory = v
	return nil
}

// CategoryLabel returns the label of the selected category code.
func (s *State) CategoryLabel() string {
	label, _ := s.limits.Categories.Label(s.Category)
	return label
}

// HasTagging reports whether t is selected.
func (s *State) HasTagging(t core.TaggingStatus) bool {
	for _, v := range s.Tagging {
		if v == t {
			return true
		}
	}
	return false
}

// HasSource reports whether d is selected.
func (s *State) HasSource(d core.DataSource) bool {
	for _, v := range s.Sources {
		if v == d {
			return true
		}
	}
	return false
}

// Key is a canonical rendering of all five criteria, used as a memo key.
func (s State) Key() string {
	var b strings.Builder
	b.WriteString("amt=")
	b.WriteString(s.AmountMin.String())
	b.WriteString("..")
	b.WriteString(s.AmountMax.String())
	b.WriteString("|tag=")
	for i, t := range s.Tagging {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(string(t))
	}
	b.WriteString("|src=")
	for i, d := range s.Sources {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(string(d))
	}
	b.WriteString("|cat=")
	b.WriteString(s.Category)
	b.WriteString("|sub=")
	b.WriteString(s.Subcategory)
	return b.String()
}

// Equal reports whether both states select the same grants by construction.
func (s State) Equal(o State) bool {
	return s.Key() == o.Key()
}

// IsDefault reports whether s equals the default state.
func (s State) IsDefault() bool {
	return s.Equal(NewState(s.limits))
}
