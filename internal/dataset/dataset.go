// Package dataset loads the grants table once at startup and exposes it as
// an immutable, shared structure.
package dataset

import (
	"github.com/shopspring/decimal"

	"lcgrants/internal/core"
)

// Dataset is the immutable grants table plus the constants derived from it at
// load time. It has no mutators; every session reads the same instance.
type Dataset struct {
	source        string
	grants        []core.Grant
	grandTotal    decimal.Decimal
	minAmount     decimal.Decimal
	maxAmount     decimal.Decimal
	subcategories []string
	categories    []string
}

// Source names where the dataset came from.
func (d *Dataset) Source() string { return d.source }

// Len returns the number of grants.
func (d *Dataset) Len() int { return len(d.grants) }

// Grants returns the backing slice in load order. Callers must treat it as
// read-only.
func (d *Dataset) Grants() []core.Grant { return d.grants }

// At returns the grant at position i (0-based).
func (d *Dataset) At(i int) *core.Grant { return &d.grants[i] }

// ByID returns the grant with the given 1-based id.
func (d *Dataset) ByID(id int) (*core.Grant, bool) {
	if id < 1 || id > len(d.grants) {
		return nil, false
	}
	return &d.grants[id-1], true
}

// GrandTotal is the sum of every amount, computed once at load.
func (d *Dataset) GrandTotal() decimal.Decimal { return d.grandTotal }

// AmountBounds is the (min, max) amount over all grants; (0, 0) when empty.
func (d *Dataset) AmountBounds() (decimal.Decimal, decimal.Decimal) {
	return d.minAmount, d.maxAmount
}

// SubcategoryOptions returns "All" followed by the distinct subcategories
// present in the data, sorted.
func (d *Dataset) SubcategoryOptions() []string {
	return append([]string(nil), d.subcategories...)
}

// HasSubcategoryOption reports whether s is a valid subcategory selection.
func (d *Dataset) HasSubcategoryOption(s string) bool {
	for _, v := range d.subcategories {
		if v == s {
			return true
		}
	}
	return false
}

// Categories returns the distinct category labels present in the data, sorted.
func (d *Dataset) Categories() []string {
	return append([]string(nil), d.categories...)
}

// SourceStat summarises the grants of one data source.
type SourceStat struct {
	Source core.DataSource
	Count  int
	Total  decimal.Decimal
}

// SourceStats returns per-source counts and totals in display order.
func (d *Dataset) SourceStats() []SourceStat {
	idx := make(map[core.DataSource]int)
	out := make([]SourceStat, 0, len(core.DataSources()))
	for i, s := range core.DataSources() {
		idx[s] = i
		out = append(out, SourceStat{Source: s, Total: decimal.Zero})
	}
	for i := range d.grants {
		g := &d.grants[i]
		st := &out[idx[g.Source]]
		st.Count++
		st.Total = st.Total.Add(g.Amount)
	}
	return out
}
