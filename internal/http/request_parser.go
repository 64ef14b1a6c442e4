// Package http provides HTTP server and handler implementations.
//
// This file implements parsing and validation of the dashboard's request
// parameters: filter forms, grid queries and detail selections.

package http

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"lcgrants/internal/core"
	"lcgrants/internal/filter"
	"lcgrants/internal/views"
)

// Form field names of the filter sidebar.
const (
	fieldAmountMin   = "amount_min"
	fieldAmountMax   = "amount_max"
	fieldTagging     = "tagging"
	fieldSource      = "source"
	fieldCategory    = "category"
	fieldSubcategory = "subcategory"
)

const maxSearchLen = 200

// ErrInvalidQuery marks malformed grid or detail parameters.
var ErrInvalidQuery = errors.New("invalid query")

// FilterUpdate is the subset of criteria present in a filter form. Absent
// criteria are left as they are.
//
// Checkbox groups carry a hidden empty input with the same name so that an
// all-unchecked group is still submitted; empty values are dropped.
type FilterUpdate struct {
	AmountMin   *decimal.Decimal
	AmountMax   *decimal.Decimal
	Tagging     []string
	HasTagging  bool
	Sources     []string
	HasSources  bool
	Category    *string
	Subcategory *string
}

// ParseFilterForm extracts a FilterUpdate from form values. Malformed
// amounts are reported as filter.ErrInvalidFilter.
func ParseFilterForm(form url.Values) (FilterUpdate, error) {
	var u FilterUpdate

	for _, f := range []struct {
		name string
		dst  **decimal.Decimal
	}{
		{fieldAmountMin, &u.AmountMin},
		{fieldAmountMax, &u.AmountMax},
	} {
		if _, ok := form[f.name]; !ok {
			continue
		}
		raw := sanitizeInput(form.Get(f.name))
		if raw == "" {
			continue
		}
		d, err := core.ParseAmount(raw)
		if err != nil {
			return FilterUpdate{}, fmt.Errorf("%w: %s %q: %v", filter.ErrInvalidFilter, f.name, raw, err)
		}
		*f.dst = &d
	}

	if _, ok := form[fieldTagging]; ok {
		u.HasTagging = true
		u.Tagging = nonEmpty(form[fieldTagging])
	}
	if _, ok := form[fieldSource]; ok {
		u.HasSources = true
		u.Sources = nonEmpty(form[fieldSource])
	}
	if _, ok := form[fieldCategory]; ok {
		v := sanitizeInput(form.Get(fieldCategory))
		u.Category = &v
	}
	if _, ok := form[fieldSubcategory]; ok {
		v := sanitizeInput(form.Get(fieldSubcategory))
		u.Subcategory = &v
	}
	return u, nil
}

// Empty reports whether the update changes nothing.
func (u FilterUpdate) Empty() bool {
	return u.AmountMin == nil && u.AmountMax == nil && !u.HasTagging && !u.HasSources &&
		u.Category == nil && u.Subcategory == nil
}

// Apply mutates st through its validating setters. It stops at the first
// rejected criterion; callers apply it to a copy.
func (u FilterUpdate) Apply(st *filter.State) error {
	if u.AmountMin != nil || u.AmountMax != nil {
		lo, hi := st.AmountMin, st.AmountMax
		if u.AmountMin != nil {
			lo = *u.AmountMin
		}
		if u.AmountMax != nil {
			hi = *u.AmountMax
		}
		if err := st.SetAmountRange(lo, hi); err != nil {
			return err
		}
	}
	if u.HasTagging {
		if err := st.SetTagging(u.Tagging); err != nil {
			return err
		}
	}
	if u.HasSources {
		if err := st.SetSources(u.Sources); err != nil {
			return err
		}
	}
	if u.Category != nil {
		if err := st.SetCategory(*u.Category); err != nil {
			return err
		}
	}
	if u.Subcategory != nil {
		if err := st.SetSubcategory(*u.Subcategory); err != nil {
			return err
		}
	}
	return nil
}

// ParseGridQuery reads sort, dir and q from the grid's query string.
func ParseGridQuery(q url.Values) (views.GridQuery, error) {
	gq := views.GridQuery{
		Sort:   strings.ToLower(sanitizeInput(q.Get("sort"))),
		Search: sanitizeInput(q.Get("q")),
	}
	if !views.ValidSortKey(gq.Sort) {
		return views.GridQuery{}, fmt.Errorf("%w: unknown sort column %q", ErrInvalidQuery, gq.Sort)
	}
	switch dir := strings.ToLower(sanitizeInput(q.Get("dir"))); dir {
	case "", "asc":
	case "desc":
		gq.Desc = true
	default:
		return views.GridQuery{}, fmt.Errorf("%w: unknown sort direction %q", ErrInvalidQuery, dir)
	}
	if len(gq.Search) > maxSearchLen {
		gq.Search = gq.Search[:maxSearchLen]
	}
	return gq, nil
}

// ParseIDs reads the selected grant ids. Both repeated (id=1&id=2) and
// comma separated (id=1,2) forms are accepted.
func ParseIDs(q url.Values) ([]int, error) {
	var ids []int
	for _, v := range q["id"] {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.Atoi(part)
			if err != nil {
				return nil, fmt.Errorf("%w: %w %q", ErrInvalidQuery, core.ErrInvalidID, part)
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = sanitizeInput(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
