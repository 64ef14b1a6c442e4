package http

import (
	"errors"
	"net/url"
	"testing"

	"github.com/shopspring/decimal"

	"lcgrants/internal/core"
	"lcgrants/internal/dataset/datasettest"
	"lcgrants/internal/filter"
	"lcgrants/internal/views"
)

func TestParseFilterForm(t *testing.T) {
	u, err := ParseFilterForm(url.Values{
		"amount_min":  {" 1,000 "},
		"tagging":     {"", "Yes", "No"},
		"category":    {"Med"},
		"subcategory": {"Clinic\x00"},
	})
	if err != nil {
		t.Fatalf("ParseFilterForm() error = %v", err)
	}
	if u.AmountMin == nil || !u.AmountMin.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("AmountMin = %v", u.AmountMin)
	}
	if u.AmountMax != nil {
		t.Error("AmountMax should be absent")
	}
	if !u.HasTagging || len(u.Tagging) != 2 {
		t.Errorf("Tagging = %v (present %v)", u.Tagging, u.HasTagging)
	}
	if u.HasSources {
		t.Error("sources were not submitted")
	}
	if *u.Subcategory != "Clinic" {
		t.Errorf("Subcategory = %q, control characters must be stripped", *u.Subcategory)
	}

	empty, err := ParseFilterForm(url.Values{})
	if err != nil || !empty.Empty() {
		t.Errorf("empty form = %+v, %v", empty, err)
	}
}

func TestParseFilterFormRejectsBadAmounts(t *testing.T) {
	for _, v := range []string{"abc", "-1", "1e"} {
		_, err := ParseFilterForm(url.Values{"amount_max": {v}})
		if !errors.Is(err, filter.ErrInvalidFilter) {
			t.Errorf("amount %q: error = %v, want ErrInvalidFilter", v, err)
		}
	}
}

func TestFilterUpdateApplyKeepsAbsentBound(t *testing.T) {
	ds := datasettest.Sample(t)
	st := filter.NewState(filter.NewLimits(ds, core.DefaultCategories()))

	hi := decimal.NewFromInt(1000)
	if err := (FilterUpdate{AmountMax: &hi}).Apply(&st); err != nil {
		t.Fatal(err)
	}
	if !st.AmountMin.IsZero() || !st.AmountMax.Equal(hi) {
		t.Errorf("range = %s..%s, want 0..1000", st.AmountMin, st.AmountMax)
	}
}

func TestParseGridQuery(t *testing.T) {
	tests := []struct {
		query   string
		want    views.GridQuery
		wantErr bool
	}{
		{"", views.GridQuery{}, false},
		{"sort=Title&dir=desc&q=clinic", views.GridQuery{Sort: views.SortTitle, Desc: true, Search: "clinic"}, false},
		{"sort=amount", views.GridQuery{}, true},
		{"dir=sideways", views.GridQuery{}, true},
	}
	for _, tt := range tests {
		q, _ := url.ParseQuery(tt.query)
		got, err := ParseGridQuery(q)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseGridQuery(%q) error = %v, wantErr %v", tt.query, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseGridQuery(%q) = %+v, want %+v", tt.query, got, tt.want)
		}
	}
}

func TestParseIDs(t *testing.T) {
	q, _ := url.ParseQuery("id=3&id=7,9&id=")
	ids, err := ParseIDs(q)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 3 || ids[0] != 3 || ids[1] != 7 || ids[2] != 9 {
		t.Errorf("ParseIDs() = %v", ids)
	}

	q, _ = url.ParseQuery("id=3,x")
	if _, err := ParseIDs(q); !errors.Is(err, core.ErrInvalidID) || !errors.Is(err, ErrInvalidQuery) {
		t.Errorf("ParseIDs(x) error = %v", err)
	}
}
