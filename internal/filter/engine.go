package filter

import (
	"lcgrants/internal/core"
	"lcgrants/internal/dataset"
)

// Engine applies a State to a dataset. It resolves category codes through
// its table and holds no other state, so one Engine serves every session.
type Engine struct {
	Categories core.CategoryTable
}

func NewEngine(categories core.CategoryTable) *Engine {
	return &Engine{Categories: categories}
}

type predicate func(g *core.Grant) bool

// Apply returns the grants of ds matching every criterion of st, in dataset
// order. It has no side effects.
func (e *Engine) Apply(ds *dataset.Dataset, st State) View {
	preds := e.predicates(st)
	idx := make([]int, 0, ds.Len())
	grants := ds.Grants()
outer:
	for i := range grants {
		g := &grants[i]
		for _, p := range preds {
			if !p(g) {
				continue outer
			}
		}
		idx = append(idx, i)
	}
	return View{ds: ds, idx: idx}
}

func (e *Engine) predicates(st State) []predicate {
	lo, hi := st.AmountMin, st.AmountMax
	tagging := make(map[core.TaggingStatus]bool, len(st.Tagging))
	for _, t := range st.Tagging {
		tagging[t] = true
	}
	sources := make(map[core.DataSource]bool, len(st.Sources))
	for _, s := range st.Sources {
		sources[s] = true
	}

	preds := []predicate{
		func(g *core.Grant) bool {
			return g.Amount.GreaterThanOrEqual(lo) && g.Amount.LessThanOrEqual(hi)
		},
		func(g *core.Grant) bool { return tagging[g.Tagging] },
		func(g *core.Grant) bool { return sources[g.Source] },
	}

	if !core.IsAll(st.Category) {
		label, ok := e.Categories.Label(st.Category)
		preds = append(preds, func(g *core.Grant) bool {
			return ok && g.Category == label
		})
	}
	if st.Subcategory != core.AllLabel {
		sub := st.Subcategory
		preds = append(preds, func(g *core.Grant) bool { return g.Subcategory == sub })
	}
	return preds
}
