package views

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"lcgrants/internal/core"
	"lcgrants/internal/dataset"
)

// DetailSeparator joins text fields when several rows are selected.
const DetailSeparator = "; "

// Detail aggregates the grants selected in the grid. Amounts are summed and
// text fields concatenated in selection order. Ids that do not resolve are
// listed in Missing.
type Detail struct {
	IDs              []int
	Missing          []int
	Grants           []*core.Grant
	OrganisationName string
	Amount           decimal.Decimal
	AwardDate        string
	Description      string
}

// ResolveDetail looks up ids in ds. It never fails: unknown or repeated ids
// are skipped and an empty selection yields a blank detail.
func ResolveDetail(ds *dataset.Dataset, ids []int) Detail {
	d := Detail{Amount: decimal.Zero}
	seen := make(map[int]bool, len(ids))
	var orgs, dates, descs []string
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		g, ok := ds.ByID(id)
		if !ok {
			d.Missing = append(d.Missing, id)
			continue
		}
		d.IDs = append(d.IDs, id)
		d.Grants = append(d.Grants, g)
		d.Amount = d.Amount.Add(g.Amount)
		orgs = append(orgs, g.OrganisationName)
		dates = append(dates, g.AwardDate)
		descs = append(descs, g.Description)
	}
	d.OrganisationName = strings.Join(orgs, DetailSeparator)
	d.AwardDate = strings.Join(dates, DetailSeparator)
	d.Description = strings.Join(descs, DetailSeparator)
	return d
}

// Empty reports whether no selected id resolved.
func (d Detail) Empty() bool { return len(d.IDs) == 0 }

// AmountText renders the summed amount as "<amount> GBP", or "" when the
// detail is empty.
func (d Detail) AmountText() string {
	if d.Empty() {
		return ""
	}
	return core.FormatAmount(d.Amount) + " GBP"
}

// Err reports the ids that did not resolve, wrapping
// core.ErrSelectionResolution. It is nil when every id resolved.
func (d Detail) Err() error {
	if len(d.Missing) == 0 {
		return nil
	}
	return fmt.Errorf("%w: ids %v", core.ErrSelectionResolution, d.Missing)
}
