package views

import (
	"errors"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"lcgrants/internal/core"
	"lcgrants/internal/dataset"
	"lcgrants/internal/dataset/datasettest"
	"lcgrants/internal/filter"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sampleView(t *testing.T, mutate func(*filter.State) error) (*dataset.Dataset, filter.View) {
	t.Helper()
	ds := datasettest.Sample(t)
	cats := core.DefaultCategories()
	st := filter.NewState(filter.NewLimits(ds, cats))
	if mutate != nil {
		if err := mutate(&st); err != nil {
			t.Fatalf("mutate state: %v", err)
		}
	}
	return ds, filter.NewEngine(cats).Apply(ds, st)
}

func emptyView(t *testing.T) (*dataset.Dataset, filter.View) {
	t.Helper()
	return sampleView(t, func(s *filter.State) error { return s.SetSources(nil) })
}

func TestSummarizeFullDataset(t *testing.T) {
	ds, view := sampleView(t, nil)
	s := Summarize(view, ds.GrandTotal())

	if s.Count != 10 {
		t.Errorf("Count = %d, want 10", s.Count)
	}
	if !s.Sum.Equal(ds.GrandTotal()) {
		t.Errorf("Sum = %s, want grand total %s", s.Sum, ds.GrandTotal())
	}
	if s.DistinctOrganisations != 8 {
		t.Errorf("DistinctOrganisations = %d, want 8", s.DistinctOrganisations)
	}
	if got, want := s.SumText(), "33,651"; got != want {
		t.Errorf("SumText() = %q, want %q", got, want)
	}
	if got, want := s.PercentText(), "(100.00% of total GBP)"; got != want {
		t.Errorf("PercentText() = %q, want %q", got, want)
	}
}

func TestSummarizeAmountRange(t *testing.T) {
	ds, view := sampleView(t, func(s *filter.State) error {
		return s.SetAmountRange(dec("0"), dec("1000"))
	})
	s := Summarize(view, ds.GrandTotal())

	if s.Count != 7 {
		t.Errorf("Count = %d, want 7", s.Count)
	}
	if !s.Sum.Equal(dec("4449.99")) {
		t.Errorf("Sum = %s, want 4449.99", s.Sum)
	}
	if !s.Sum.LessThan(ds.GrandTotal()) {
		t.Errorf("partial Sum %s not below grand total", s.Sum)
	}
	if !s.HasPercent {
		t.Error("HasPercent = false for non-empty view")
	}
}

func TestSummarizeEmptyView(t *testing.T) {
	ds, view := emptyView(t)
	s := Summarize(view, ds.GrandTotal())

	if s.Count != 0 || !s.Sum.IsZero() || s.DistinctOrganisations != 0 {
		t.Errorf("empty summary = %+v", s)
	}
	if s.HasPercent || s.PercentText() != "" {
		t.Errorf("percent computed for empty view: %q", s.PercentText())
	}
}

func TestSummarizeZeroGrandTotal(t *testing.T) {
	ds := datasettest.New(t,
		datasettest.Row{Source: "NIHR", Tagging: "Yes", Category: "Medical", Amount: "0", Year: 2021, Organisation: "A"},
	)
	s := Summarize(filter.FullView(ds), ds.GrandTotal())
	if s.Count != 1 || s.HasPercent {
		t.Errorf("summary = %+v, want count 1 without percent", s)
	}
}

func TestYearlySeries(t *testing.T) {
	_, view := sampleView(t, nil)
	s := YearlySeries(view)

	if want := []int{2020, 2021, 2022, 2023}; !reflect.DeepEqual(s.Years, want) {
		t.Fatalf("Years = %v, want %v", s.Years, want)
	}
	want := [][]int{
		{1, 1, 2, 1}, // GrantNav
		{0, 1, 1, 1}, // NIHR
		{1, 1, 0, 0}, // UKCDR
	}
	if !reflect.DeepEqual(s.Counts, want) {
		t.Errorf("Counts = %v, want %v", s.Counts, want)
	}
	if s.Total() != view.Len() {
		t.Errorf("Total() = %d, want %d", s.Total(), view.Len())
	}
}

func TestYearlySeriesFillsGaps(t *testing.T) {
	ds := datasettest.New(t,
		datasettest.Row{Source: "NIHR", Tagging: "Yes", Category: "Medical", Amount: "1", Year: 2018},
		datasettest.Row{Source: "NIHR", Tagging: "Yes", Category: "Medical", Amount: "1", Year: 2021},
	)
	s := YearlySeries(filter.FullView(ds))
	if want := []int{2018, 2019, 2020, 2021}; !reflect.DeepEqual(s.Years, want) {
		t.Errorf("Years = %v, want %v", s.Years, want)
	}
	if want := []int{1, 0, 0, 1}; !reflect.DeepEqual(s.Counts[1], want) {
		t.Errorf("NIHR counts = %v, want %v", s.Counts[1], want)
	}
}

func TestYearlyTotals(t *testing.T) {
	_, view := sampleView(t, nil)
	tot := YearlyTotals(view)

	want := []string{"2000", "26499.99", "4150.75", "1000"}
	if len(tot.Sums) != len(want) {
		t.Fatalf("Sums = %v", tot.Sums)
	}
	for i, w := range want {
		if !tot.Sums[i].Equal(dec(w)) {
			t.Errorf("year %d sum = %s, want %s", tot.Years[i], tot.Sums[i], w)
		}
	}
}

func TestByCategory(t *testing.T) {
	_, view := sampleView(t, nil)
	b := ByCategory(view)

	var labels []string
	for _, c := range b.Categories {
		labels = append(labels, c.Label)
	}
	want := []string{"Medical", "Psychological", "Social care", "Advice", "Arts", "Awareness", "Wellbeing"}
	if !reflect.DeepEqual(labels, want) {
		t.Fatalf("categories = %v, want %v", labels, want)
	}

	med := b.Categories[0]
	if med.Count != 4 || !med.Sum.Equal(dec("28000")) {
		t.Errorf("Medical = %d / %s", med.Count, med.Sum)
	}
	var subs []string
	for _, s := range med.Subcategories {
		subs = append(subs, s.Label)
	}
	if want := []string{"Research", "Clinic", "Rehabilitation"}; !reflect.DeepEqual(subs, want) {
		t.Errorf("Medical subcategories = %v, want %v", subs, want)
	}

	for _, c := range b.Categories {
		if c.Label == "Arts" && c.Subcategories[0].Label != UnspecifiedSubcategory {
			t.Errorf("Arts subcategory = %q, want %q", c.Subcategories[0].Label, UnspecifiedSubcategory)
		}
	}
}

func TestGrid(t *testing.T) {
	_, view := sampleView(t, nil)

	tests := []struct {
		name    string
		query   GridQuery
		wantLen int
		first   int
		last    int
	}{
		{name: "default order", query: GridQuery{}, wantLen: 10, first: 1, last: 10},
		{name: "id descending", query: GridQuery{Sort: SortID, Desc: true}, wantLen: 10, first: 10, last: 1},
		{name: "title ascending", query: GridQuery{Sort: SortTitle}, wantLen: 10, first: 8, last: 7},
		{name: "search is case-insensitive", query: GridQuery{Search: "CLINIC"}, wantLen: 2, first: 1, last: 9},
		{name: "search category", query: GridQuery{Search: "social"}, wantLen: 1, first: 4, last: 4},
		{name: "search without match", query: GridQuery{Search: "zebra"}, wantLen: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := Grid(view, tt.query)
			if len(rows) != tt.wantLen {
				t.Fatalf("len = %d, want %d", len(rows), tt.wantLen)
			}
			if tt.wantLen == 0 {
				return
			}
			if rows[0].ID != tt.first || rows[len(rows)-1].ID != tt.last {
				t.Errorf("first/last = %d/%d, want %d/%d", rows[0].ID, rows[len(rows)-1].ID, tt.first, tt.last)
			}
		})
	}
}

func TestGridEmptyView(t *testing.T) {
	_, view := emptyView(t)
	if rows := Grid(view, GridQuery{Sort: SortTitle}); len(rows) != 0 {
		t.Errorf("Grid(empty) = %v", rows)
	}
}

func TestResolveDetailAggregates(t *testing.T) {
	ds := datasettest.Sample(t)
	d := ResolveDetail(ds, []int{3, 7})

	if got, want := d.AmountText(), "1700 GBP"; got != want {
		t.Errorf("AmountText() = %q, want %q", got, want)
	}
	if got, want := d.OrganisationName, "Arts Together; Sheffield Trust"; got != want {
		t.Errorf("OrganisationName = %q, want %q", got, want)
	}
	if got, want := d.AwardDate, "2021-06-10; 2020-11-11"; got != want {
		t.Errorf("AwardDate = %q, want %q", got, want)
	}
	if len(d.Missing) != 0 {
		t.Errorf("Missing = %v", d.Missing)
	}
}

func TestResolveDetailSelectionOrder(t *testing.T) {
	ds := datasettest.Sample(t)
	d := ResolveDetail(ds, []int{7, 3, 7})
	if got, want := d.OrganisationName, "Sheffield Trust; Arts Together"; got != want {
		t.Errorf("OrganisationName = %q, want %q", got, want)
	}
	if !reflect.DeepEqual(d.IDs, []int{7, 3}) {
		t.Errorf("IDs = %v, want [7 3]", d.IDs)
	}
}

func TestResolveDetailMissingIDs(t *testing.T) {
	ds := datasettest.Sample(t)
	d := ResolveDetail(ds, []int{0, 3, 42})

	if !reflect.DeepEqual(d.Missing, []int{0, 42}) {
		t.Errorf("Missing = %v, want [0 42]", d.Missing)
	}
	if err := d.Err(); !errors.Is(err, core.ErrSelectionResolution) {
		t.Errorf("Err() = %v, want ErrSelectionResolution", err)
	}
	if err := ResolveDetail(ds, []int{3, 7}).Err(); err != nil {
		t.Errorf("resolved selection Err() = %v", err)
	}
	if got, want := d.AmountText(), "500 GBP"; got != want {
		t.Errorf("AmountText() = %q, want %q", got, want)
	}

	blank := ResolveDetail(ds, []int{99})
	if !blank.Empty() || blank.AmountText() != "" || blank.Description != "" {
		t.Errorf("unresolvable selection should give blank detail: %+v", blank)
	}
	if none := ResolveDetail(ds, nil); !none.Empty() {
		t.Errorf("nil selection not empty: %+v", none)
	}
}

func TestGeoCollection(t *testing.T) {
	_, view := sampleView(t, nil)
	points := GeoCollection(view, core.MarkerColour)

	var ids []int
	for _, p := range points {
		ids = append(ids, p.ID)
	}
	if want := []int{1, 3, 5, 6, 7, 9}; !reflect.DeepEqual(ids, want) {
		t.Errorf("ids = %v, want %v", ids, want)
	}
	if points[0].Colour != "#005483" || points[1].Colour != "#006794" {
		t.Errorf("colours = %q, %q", points[0].Colour, points[1].Colour)
	}
	if points[0].Lon != -1.54 || points[0].Lat != 53.80 {
		t.Errorf("point 1 = (%v, %v)", points[0].Lon, points[0].Lat)
	}
}

func TestGeoCollectionExcludesPartialCoordinates(t *testing.T) {
	// Grant 4 passes every criterion but has no latitude.
	_, view := sampleView(t, func(s *filter.State) error { return s.SetCategory("Social") })
	if view.Len() != 1 {
		t.Fatalf("view len = %d, want 1", view.Len())
	}
	if points := GeoCollection(view, core.MarkerColour); len(points) != 0 {
		t.Errorf("GeoCollection() = %v, want empty", points)
	}
}

func TestGeoCollectionDefaultColour(t *testing.T) {
	ds := datasettest.New(t,
		datasettest.Row{Source: "NIHR", Tagging: "Yes", Category: "Gardening", Amount: "1", Year: 2021, Lon: "0.1", Lat: "51.5"},
	)
	points := GeoCollection(filter.FullView(ds), core.MarkerColour)
	if len(points) != 1 || points[0].Colour != core.DefaultMarkerColour {
		t.Errorf("points = %+v", points)
	}
}

func TestEmptyViewDerivations(t *testing.T) {
	_, view := emptyView(t)
	if s := YearlySeries(view); len(s.Years) != 0 || s.Total() != 0 {
		t.Errorf("YearlySeries(empty) = %+v", s)
	}
	if tot := YearlyTotals(view); len(tot.Years) != 0 {
		t.Errorf("YearlyTotals(empty) = %+v", tot)
	}
	if b := ByCategory(view); len(b.Categories) != 0 {
		t.Errorf("ByCategory(empty) = %+v", b)
	}
	if p := GeoCollection(view, core.MarkerColour); len(p) != 0 {
		t.Errorf("GeoCollection(empty) = %+v", p)
	}
}

func TestByOrganisation(t *testing.T) {
	ds := datasettest.New(t,
		datasettest.Row{Source: "Grantnav", Tagging: "Yes", Category: "Arts", Amount: "100", Year: 2021, AgeGroup: "5-10 years", IncomeGroup: "Under £100k"},
		datasettest.Row{Source: "Grantnav", Tagging: "Yes", Category: "Arts", Amount: "200", Year: 2021, AgeGroup: "0-5 years", IncomeGroup: "Under £100k"},
		datasettest.Row{Source: "Grantnav", Tagging: "No", Category: "Advice", Amount: "300", Year: 2022, AgeGroup: "5-10 years"},
		datasettest.Row{Source: "Grantnav", Tagging: "No", Category: "Advice", Amount: "400", Year: 2022},
		datasettest.Row{Source: "NIHR", Tagging: "Yes", Category: "Medical", Amount: "500", Year: 2022, AgeGroup: "0-5 years", IncomeGroup: "Under £100k"},
	)
	cats := core.DefaultCategories()
	view := filter.NewEngine(cats).Apply(ds, filter.NewState(filter.NewLimits(ds, cats)))

	p := ByOrganisation(view)
	if want := []string{"0-5 years", "5-10 years"}; !reflect.DeepEqual(p.AgeGroups, want) {
		t.Errorf("AgeGroups = %v, want %v", p.AgeGroups, want)
	}
	if want := []string{"Under £100k", UnknownIncomeGroup}; !reflect.DeepEqual(p.IncomeGroups, want) {
		t.Errorf("IncomeGroups = %v, want %v", p.IncomeGroups, want)
	}
	if want := [][]int{{1, 1}, {0, 1}}; !reflect.DeepEqual(p.Counts, want) {
		t.Errorf("Counts = %v, want %v", p.Counts, want)
	}
	if p.Total() != 3 {
		t.Errorf("Total() = %d, want 3", p.Total())
	}

	_, empty := emptyView(t)
	if p := ByOrganisation(empty); p.Total() != 0 || len(p.AgeGroups) != 0 {
		t.Errorf("empty profile = %+v", p)
	}
}
