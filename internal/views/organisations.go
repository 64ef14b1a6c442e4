package views

import (
	"sort"

	"lcgrants/internal/core"
	"lcgrants/internal/filter"
)

// UnknownIncomeGroup labels organisations without a latest income.
const UnknownIncomeGroup = "Unknown"

// OrgProfile cross-tabulates grants by organisation age group and latest
// income group. Only GrantNav grants carry the metadata; grants without an
// age group are left out. Counts[i][a] is the count for IncomeGroups[i] in
// AgeGroups[a].
type OrgProfile struct {
	AgeGroups    []string
	IncomeGroups []string
	Counts       [][]int
}

// Total returns the number of grants in the profile.
func (p OrgProfile) Total() int {
	n := 0
	for _, row := range p.Counts {
		for _, c := range row {
			n += c
		}
	}
	return n
}

// ByOrganisation builds the organisation profile of view.
func ByOrganisation(view filter.View) OrgProfile {
	type cell struct{ income, age string }
	cells := make(map[cell]int)
	ages := make(map[string]struct{})
	incomes := make(map[string]struct{})
	for g := range view.All() {
		if g.Source != core.GrantNav || g.Org.AgeGroup == "" {
			continue
		}
		income := g.Org.IncomeGroup
		if income == "" {
			income = UnknownIncomeGroup
		}
		cells[cell{income, g.Org.AgeGroup}]++
		ages[g.Org.AgeGroup] = struct{}{}
		incomes[income] = struct{}{}
	}

	p := OrgProfile{AgeGroups: sortedSet(ages), IncomeGroups: sortedSet(incomes)}
	p.Counts = make([][]int, len(p.IncomeGroups))
	for i, income := range p.IncomeGroups {
		p.Counts[i] = make([]int, len(p.AgeGroups))
		for a, age := range p.AgeGroups {
			p.Counts[i][a] = cells[cell{income, age}]
		}
	}
	return p
}

func sortedSet(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
