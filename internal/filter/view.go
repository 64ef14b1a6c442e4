package filter

import (
	"iter"

	"lcgrants/internal/core"
	"lcgrants/internal/dataset"
)

// View is an ordered selection of grants. It holds positions into the shared
// dataset, never copies of the grants themselves.
type View struct {
	ds  *dataset.Dataset
	idx []int
}

// FullView selects every grant of ds.
func FullView(ds *dataset.Dataset) View {
	idx := make([]int, ds.Len())
	for i := range idx {
		idx[i] = i
	}
	return View{ds: ds, idx: idx}
}

func (v View) Len() int { return len(v.idx) }

func (v View) Empty() bool { return len(v.idx) == 0 }

// Dataset returns the dataset the view points into.
func (v View) Dataset() *dataset.Dataset { return v.ds }

// At returns the i-th grant of the view.
func (v View) At(i int) *core.Grant { return v.ds.At(v.idx[i]) }

// All yields the grants in dataset order.
func (v View) All() iter.Seq[*core.Grant] {
	return func(yield func(*core.Grant) bool) {
		for _, i := range v.idx {
			if !yield(v.ds.At(i)) {
				return
			}
		}
	}
}

// IDs returns the grant ids in view order.
func (v View) IDs() []int {
	out := make([]int, len(v.idx))
	for i, p := range v.idx {
		out[i] = v.ds.At(p).ID
	}
	return out
}

// Equal compares views by the ids they contain.
func (v View) Equal(o View) bool {
	if len(v.idx) != len(o.idx) {
		return false
	}
	for i := range v.idx {
		if v.At(i).ID != o.At(i).ID {
			return false
		}
	}
	return true
}
