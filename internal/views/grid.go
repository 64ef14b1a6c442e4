package views

import (
	"sort"
	"strings"

	"lcgrants/internal/filter"
)

// Grid sort keys.
const (
	SortID          = "id"
	SortTitle       = "title"
	SortCategory    = "category"
	SortSubcategory = "subcategory"
)

// GridQuery controls ordering and search of the grid. The zero value keeps
// dataset order and matches every row.
type GridQuery struct {
	Sort   string
	Desc   bool
	Search string
}

// GridRow is one grant projected onto the grid columns.
type GridRow struct {
	ID          int
	Title       string
	Category    string
	Subcategory string
}

// Grid projects view onto the grid columns, applying q.
func Grid(view filter.View, q GridQuery) []GridRow {
	needle := strings.ToLower(strings.TrimSpace(q.Search))
	rows := make([]GridRow, 0, view.Len())
	for g := range view.All() {
		r := GridRow{ID: g.ID, Title: g.Title, Category: g.Category, Subcategory: g.Subcategory}
		if needle != "" && !r.matches(needle) {
			continue
		}
		rows = append(rows, r)
	}

	less := rowLess(q.Sort)
	sort.SliceStable(rows, func(i, j int) bool {
		if q.Desc {
			return less(rows[j], rows[i])
		}
		return less(rows[i], rows[j])
	})
	return rows
}

func (r GridRow) matches(needle string) bool {
	return strings.Contains(strings.ToLower(r.Title), needle) ||
		strings.Contains(strings.ToLower(r.Category), needle) ||
		strings.Contains(strings.ToLower(r.Subcategory), needle)
}

// ValidSortKey reports whether key names a sortable grid column.
func ValidSortKey(key string) bool {
	switch key {
	case "", SortID, SortTitle, SortCategory, SortSubcategory:
		return true
	}
	return false
}

func rowLess(key string) func(a, b GridRow) bool {
	byID := func(a, b GridRow) bool { return a.ID < b.ID }
	text := func(f func(GridRow) string) func(a, b GridRow) bool {
		return func(a, b GridRow) bool {
			x, y := strings.ToLower(f(a)), strings.ToLower(f(b))
			if x != y {
				return x < y
			}
			return a.ID < b.ID
		}
	}
	switch key {
	case SortTitle:
		return text(func(r GridRow) string { return r.Title })
	case SortCategory:
		return text(func(r GridRow) string { return r.Category })
	case SortSubcategory:
		return text(func(r GridRow) string { return r.Subcategory })
	default:
		return byID
	}
}
