// Package datasettest builds small in-memory datasets for tests.
package datasettest

import (
	"context"
	"strconv"
	"testing"

	"lcgrants/internal/dataset"
)

// Row is one grant in test shorthand. Empty Lon/Lat leave the grant without
// coordinates.
type Row struct {
	Source       string
	Tagging      string
	Category     string
	Subcategory  string
	Amount       string
	Year         int
	Title        string
	Description  string
	Organisation string
	AwardDate    string
	AgeGroup     string
	IncomeGroup  string
	Lon, Lat     string
}

// Table renders rows as a table with the full column set.
func Table(rows ...Row) dataset.Table {
	t := dataset.Table{Header: dataset.Columns()}
	pos := make(map[string]int, len(t.Header))
	for i, h := range t.Header {
		pos[h] = i
	}
	for _, r := range rows {
		rec := make([]string, len(t.Header))
		set := func(col, v string) { rec[pos[col]] = v }
		set(dataset.ColSource, r.Source)
		set(dataset.ColTagging, r.Tagging)
		set(dataset.ColCategory, r.Category)
		set(dataset.ColSubcategory, r.Subcategory)
		set(dataset.ColAmount, r.Amount)
		set(dataset.ColYear, strconv.Itoa(r.Year))
		set(dataset.ColTitle, r.Title)
		set(dataset.ColDescription, r.Description)
		set(dataset.ColOrganisation, r.Organisation)
		set(dataset.ColAwardDate, r.AwardDate)
		set(dataset.ColOrgAgeGroup, r.AgeGroup)
		set(dataset.ColOrgIncomeGroup, r.IncomeGroup)
		set(dataset.ColLon, r.Lon)
		set(dataset.ColLat, r.Lat)
		t.Rows = append(t.Rows, rec)
	}
	return t
}

// New loads rows into a dataset and fails the test on error.
func New(tb testing.TB, rows ...Row) *dataset.Dataset {
	tb.Helper()
	ds, err := dataset.Load(context.Background(), dataset.StaticSource{Label: "test", Table: Table(rows...)})
	if err != nil {
		tb.Fatalf("load test dataset: %v", err)
	}
	return ds
}

// Sample is a ten-grant dataset covering every source, tagging status and a
// mix of categories, with and without coordinates.
func Sample(tb testing.TB) *dataset.Dataset {
	tb.Helper()
	return New(tb,
		Row{Source: "Grantnav", Tagging: "Yes", Category: "Medical", Subcategory: "Clinic", Amount: "800", Year: 2020, Title: "Clinic pilot", Description: "Pilot clinic", Organisation: "Leeds Health", AwardDate: "2020-05-01", Lon: "-1.54", Lat: "53.80"},
		Row{Source: "NIHR", Tagging: "Yes", Category: "Medical", Subcategory: "Research", Amount: "25000", Year: 2021, Title: "Long Covid cohort", Description: "Cohort study", Organisation: "University of Leeds", AwardDate: "2021-02-01"},
		Row{Source: "UKCDR", Tagging: "Partially", Category: "Arts", Subcategory: "", Amount: "500", Year: 2021, Title: "Breath choir", Description: "Singing for recovery", Organisation: "Arts Together", AwardDate: "2021-06-10", Lon: "-0.12", Lat: "51.50"},
		Row{Source: "GrantNav", Tagging: "No", Category: "Social care", Subcategory: "Home support", Amount: "1000", Year: 2022, Title: "Home visits", Description: "Visiting service", Organisation: "Care Link", AwardDate: "2022-01-15", Lon: "-2.24"},
		Row{Source: "Grantnav", Tagging: "Partially", Category: "Wellbeing", Subcategory: "Peer support", Amount: "0", Year: 2023, Title: "Peer group", Description: "Weekly peer group", Organisation: "Care Link", AwardDate: "2023-03-03", Lon: "-2.24", Lat: "53.48"},
		Row{Source: "NIHR", Tagging: "Partially", Category: "Psychological", Subcategory: "Research", Amount: "3000.75", Year: 2022, Title: "Fatigue therapy", Description: "CBT trial", Organisation: "King's College", AwardDate: "2022-09-09", Lon: "-0.09", Lat: "51.50"},
		Row{Source: "UKCDR", Tagging: "Yes", Category: "Medical", Subcategory: "Rehabilitation", Amount: "1200", Year: 2020, Title: "Rehab pathway", Description: "Rehabilitation pathway", Organisation: "Sheffield Trust", AwardDate: "2020-11-11", Lon: "-1.47", Lat: "53.38"},
		Row{Source: "GrantNav", Tagging: "Yes", Category: "Advice", Subcategory: "Helpline", Amount: "999.99", Year: 2021, Title: "Advice line", Description: "Phone advice", Organisation: "Citizens Help", AwardDate: "2021-12-24"},
		Row{Source: "NIHR", Tagging: "No", Category: "Medical", Subcategory: "Clinic", Amount: "1000", Year: 2023, Title: "Clinic audit", Description: "Audit of clinics", Organisation: "Leeds Health", AwardDate: "2023-07-07", Lon: "-1.55", Lat: "53.81"},
		Row{Source: "GrantNav", Tagging: "Yes", Category: "Awareness", Subcategory: "", Amount: "150", Year: 2022, Title: "Awareness week", Description: "Campaign", Organisation: "Long Covid Support", AwardDate: "2022-04-04"},
	)
}
