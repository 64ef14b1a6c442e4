// Package views derives display-ready aggregates and projections from a
// filtered view. Every function accepts an empty view and returns zero
// values for it.
package views

import (
	"github.com/shopspring/decimal"

	"lcgrants/internal/core"
	"lcgrants/internal/filter"
)

// Summary holds the scalar metrics shown above the charts.
type Summary struct {
	Count                 int
	Sum                   decimal.Decimal
	Percent               decimal.Decimal
	HasPercent            bool
	DistinctOrganisations int
}

// Summarize computes the summary metrics of view. Percent is only set when
// the view is non-empty and grandTotal is positive.
func Summarize(view filter.View, grandTotal decimal.Decimal) Summary {
	s := Summary{Sum: decimal.Zero, Percent: decimal.Zero}
	orgs := make(map[string]struct{})
	for g := range view.All() {
		s.Count++
		s.Sum = s.Sum.Add(g.Amount)
		orgs[g.OrganisationName] = struct{}{}
	}
	s.DistinctOrganisations = len(orgs)
	if s.Count > 0 {
		s.Percent, s.HasPercent = core.Percent(s.Sum, grandTotal)
	}
	return s
}

// CountText renders the grant count with thousands separators.
func (s Summary) CountText() string { return core.FormatCount(s.Count) }

// SumText renders the sum in whole pounds.
func (s Summary) SumText() string { return core.FormatGBP(s.Sum) }

// OrganisationsText renders the distinct organisation count.
func (s Summary) OrganisationsText() string { return core.FormatCount(s.DistinctOrganisations) }

// PercentText renders "(12.34% of total GBP)", or "" when no percent applies.
func (s Summary) PercentText() string {
	if !s.HasPercent {
		return ""
	}
	return "(" + core.FormatPercent(s.Percent) + "% of total GBP)"
}
