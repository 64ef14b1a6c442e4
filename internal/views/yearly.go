package views

import (
	"github.com/shopspring/decimal"

	"lcgrants/internal/core"
	"lcgrants/internal/filter"
)

// Series is the number of grants per (year, source), for the stacked
// histogram. Years is contiguous from the earliest to the latest year in the
// view; Counts[s][y] is the count for Sources[s] in Years[y].
type Series struct {
	Years   []int
	Sources []core.DataSource
	Counts  [][]int
}

// Total returns the number of grants in the series.
func (s Series) Total() int {
	n := 0
	for _, row := range s.Counts {
		for _, c := range row {
			n += c
		}
	}
	return n
}

// YearlySeries groups view by year and data source.
func YearlySeries(view filter.View) Series {
	sources := core.DataSources()
	s := Series{Sources: sources, Counts: make([][]int, len(sources))}
	first, last, ok := yearSpan(view)
	if !ok {
		for i := range s.Counts {
			s.Counts[i] = []int{}
		}
		s.Years = []int{}
		return s
	}
	s.Years = yearRange(first, last)
	for i := range s.Counts {
		s.Counts[i] = make([]int, len(s.Years))
	}
	srcIdx := make(map[core.DataSource]int, len(sources))
	for i, src := range sources {
		srcIdx[src] = i
	}
	for g := range view.All() {
		s.Counts[srcIdx[g.Source]][g.Year-first]++
	}
	return s
}

// Totals is the sum of amounts awarded per year.
type Totals struct {
	Years []int
	Sums  []decimal.Decimal
}

// YearlyTotals sums amounts per year over a contiguous year range.
func YearlyTotals(view filter.View) Totals {
	first, last, ok := yearSpan(view)
	if !ok {
		return Totals{Years: []int{}, Sums: []decimal.Decimal{}}
	}
	t := Totals{Years: yearRange(first, last)}
	t.Sums = make([]decimal.Decimal, len(t.Years))
	for i := range t.Sums {
		t.Sums[i] = decimal.Zero
	}
	for g := range view.All() {
		t.Sums[g.Year-first] = t.Sums[g.Year-first].Add(g.Amount)
	}
	return t
}

func yearSpan(view filter.View) (first, last int, ok bool) {
	for g := range view.All() {
		if !ok {
			first, last, ok = g.Year, g.Year, true
			continue
		}
		if g.Year < first {
			first = g.Year
		}
		if g.Year > last {
			last = g.Year
		}
	}
	return first, last, ok
}

func yearRange(first, last int) []int {
	out := make([]int, 0, last-first+1)
	for y := first; y <= last; y++ {
		out = append(out, y)
	}
	return out
}
