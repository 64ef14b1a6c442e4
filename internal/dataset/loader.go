package dataset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"lcgrants/internal/core"
)

var ErrMissingColumn = errors.New("missing required column")

// Load reads the table from src and builds the dataset. Every failure is a
// *core.LoadError; the caller is expected to abort startup.
func Load(ctx context.Context, src Source) (*Dataset, error) {
	table, err := src.ReadTable(ctx)
	if err != nil {
		return nil, &core.LoadError{Source: src.Name(), Err: err}
	}
	ds, err := Build(src.Name(), table)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "Dataset loaded",
		"component", "dataset",
		"source", ds.source,
		"rows", ds.Len(),
		"grand_total", ds.grandTotal.String(),
		"min_amount", ds.minAmount.String(),
		"max_amount", ds.maxAmount.String(),
		"subcategories", len(ds.subcategories)-1)
	return ds, nil
}

// Build parses an already-read table. Ids are assigned 1..n in row order.
func Build(name string, table Table) (*Dataset, error) {
	cols, err := indexColumns(table.Header)
	if err != nil {
		return nil, &core.LoadError{Source: name, Err: err}
	}

	ds := &Dataset{
		source:     name,
		grants:     make([]core.Grant, 0, len(table.Rows)),
		grandTotal: decimal.Zero,
		minAmount:  decimal.Zero,
		maxAmount:  decimal.Zero,
	}
	subs := make(map[string]struct{})
	cats := make(map[string]struct{})

	for i, row := range table.Rows {
		if isBlankRow(row) {
			continue
		}
		g, err := parseRow(cols, row, len(ds.grants)+1)
		if err != nil {
			var le *core.LoadError
			if errors.As(err, &le) {
				le.Source = name
				le.Row = i + 1
				return nil, le
			}
			return nil, &core.LoadError{Source: name, Row: i + 1, Err: err}
		}
		if len(ds.grants) == 0 {
			ds.minAmount, ds.maxAmount = g.Amount, g.Amount
		} else {
			if g.Amount.LessThan(ds.minAmount) {
				ds.minAmount = g.Amount
			}
			if g.Amount.GreaterThan(ds.maxAmount) {
				ds.maxAmount = g.Amount
			}
		}
		ds.grandTotal = ds.grandTotal.Add(g.Amount)
		if g.Subcategory != "" {
			subs[g.Subcategory] = struct{}{}
		}
		cats[g.Category] = struct{}{}
		ds.grants = append(ds.grants, g)
	}

	ds.subcategories = append([]string{core.AllLabel}, sortedKeys(subs)...)
	ds.categories = sortedKeys(cats)
	return ds, nil
}

type columnIndex map[string]int

func indexColumns(header []string) (columnIndex, error) {
	cols := make(columnIndex, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(h)] = i
	}
	var missing []string
	for _, c := range RequiredColumns {
		if _, ok := cols[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return cols, nil
}

func (c columnIndex) get(row []string, name string) string {
	i, ok := c[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func parseRow(cols columnIndex, row []string, id int) (core.Grant, error) {
	fail := func(col string, err error) (core.Grant, error) {
		return core.Grant{}, &core.LoadError{Column: col, Err: err}
	}

	src, err := core.ParseDataSource(cols.get(row, ColSource))
	if err != nil {
		return fail(ColSource, err)
	}
	tag, err := core.ParseTaggingStatus(cols.get(row, ColTagging))
	if err != nil {
		return fail(ColTagging, err)
	}
	amount, err := core.ParseAmount(cols.get(row, ColAmount))
	if err != nil {
		return fail(ColAmount, err)
	}
	year, err := parseYear(cols.get(row, ColYear))
	if err != nil {
		return fail(ColYear, err)
	}
	lon, err := parseOptionalFloat(cols.get(row, ColLon))
	if err != nil {
		return fail(ColLon, err)
	}
	lat, err := parseOptionalFloat(cols.get(row, ColLat))
	if err != nil {
		return fail(ColLat, err)
	}

	g := core.Grant{
		ID:               id,
		Identifier:       cols.get(row, ColIdentifier),
		Source:           src,
		Tagging:          tag,
		Category:         cols.get(row, ColCategory),
		Subcategory:      cleanOptional(cols.get(row, ColSubcategory)),
		Amount:           amount,
		Year:             year,
		AwardDate:        cols.get(row, ColAwardDate),
		Title:            cols.get(row, ColTitle),
		Description:      cols.get(row, ColDescription),
		OrganisationName: cols.get(row, ColOrganisation),
		RecipientPostal:  cols.get(row, ColPostal),
		Org: core.OrgMeta{
			RegistrationYear: cleanOptional(cols.get(row, ColOrgRegYear)),
			Age:              cleanOptional(cols.get(row, ColOrgAge)),
			AgeGroup:         cleanOptional(cols.get(row, ColOrgAgeGroup)),
			LatestIncome:     cleanOptional(cols.get(row, ColOrgIncome)),
			IncomeGroup:      cleanOptional(cols.get(row, ColOrgIncomeGroup)),
			RegistrationDate: cleanOptional(cols.get(row, ColOrgRegDate)),
			Type:             cleanOptional(cols.get(row, ColOrgType)),
		},
		Lon: lon,
		Lat: lat,
	}
	if err := g.Validate(); err != nil {
		return fail(ColCategory, err)
	}
	return g, nil
}

// parseYear accepts "2021" and the float rendering "2021.0" some exports use.
func parseYear(s string) (int, error) {
	if y, err := strconv.Atoi(s); err == nil {
		return y, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return 0, fmt.Errorf("invalid year %q", s)
	}
	return int(f), nil
}

func parseOptionalFloat(s string) (*float64, error) {
	if cleanOptional(s) == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid coordinate %q", s)
	}
	return &f, nil
}

// cleanOptional maps the null spellings of spreadsheet exports to "".
func cleanOptional(s string) string {
	switch strings.ToLower(s) {
	case "", "nan", "na", "n/a", "null", "none":
		return ""
	}
	return s
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
