package views

import (
	"sort"

	"github.com/shopspring/decimal"

	"lcgrants/internal/filter"
)

// UnspecifiedSubcategory labels grants without a subcategory.
const UnspecifiedSubcategory = "Unspecified"

// GroupStat is the count and sum of one category or subcategory.
type GroupStat struct {
	Label string
	Count int
	Sum   decimal.Decimal
}

// CategoryStat is a category with its subcategory breakdown.
type CategoryStat struct {
	GroupStat
	Subcategories []GroupStat
}

// Breakdown lists categories by descending sum, ties broken by label.
type Breakdown struct {
	Categories []CategoryStat
}

// ByCategory groups view by category and subcategory.
func ByCategory(view filter.View) Breakdown {
	cats := make(map[string]*CategoryStat)
	subs := make(map[string]map[string]*GroupStat)
	for g := range view.All() {
		c, ok := cats[g.Category]
		if !ok {
			c = &CategoryStat{GroupStat: GroupStat{Label: g.Category, Sum: decimal.Zero}}
			cats[g.Category] = c
			subs[g.Category] = make(map[string]*GroupStat)
		}
		c.Count++
		c.Sum = c.Sum.Add(g.Amount)

		label := g.Subcategory
		if label == "" {
			label = UnspecifiedSubcategory
		}
		s, ok := subs[g.Category][label]
		if !ok {
			s = &GroupStat{Label: label, Sum: decimal.Zero}
			subs[g.Category][label] = s
		}
		s.Count++
		s.Sum = s.Sum.Add(g.Amount)
	}

	b := Breakdown{Categories: make([]CategoryStat, 0, len(cats))}
	for label, c := range cats {
		for _, s := range subs[label] {
			c.Subcategories = append(c.Subcategories, *s)
		}
		sortGroups(c.Subcategories)
		b.Categories = append(b.Categories, *c)
	}
	sort.Slice(b.Categories, func(i, j int) bool {
		return lessGroup(b.Categories[i].GroupStat, b.Categories[j].GroupStat)
	})
	return b
}

func sortGroups(gs []GroupStat) {
	sort.Slice(gs, func(i, j int) bool { return lessGroup(gs[i], gs[j]) })
}

func lessGroup(a, b GroupStat) bool {
	if c := a.Sum.Cmp(b.Sum); c != 0 {
		return c > 0
	}
	return a.Label < b.Label
}
