package session

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"lcgrants/internal/core"
	"lcgrants/internal/dataset"
	"lcgrants/internal/filter"
	"lcgrants/internal/views"
)

// Session is one visitor's filter state plus the derived values computed from
// it. Requests for the same session may run concurrently, so every method
// takes the session lock.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu     sync.Mutex
	ds     *dataset.Dataset
	engine *filter.Engine
	state  filter.State

	view      Memo[filter.View]
	summary   Memo[views.Summary]
	series    Memo[views.Series]
	totals    Memo[views.Totals]
	breakdown Memo[views.Breakdown]
	orgs      Memo[views.OrgProfile]
	geo       Memo[[]views.GeoPoint]
	grid      Memo[[]views.GridRow]
	detail    Memo[views.Detail]
}

func newSession(id string, ds *dataset.Dataset, engine *filter.Engine, limits *filter.Limits) *Session {
	return &Session{
		ID:        id,
		CreatedAt: time.Now(),
		ds:        ds,
		engine:    engine,
		state:     filter.NewState(limits),
	}
}

// State returns a copy of the current filter state.
func (s *Session) State() filter.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Update applies mutate to a copy of the state and commits it only when
// mutate succeeds, so a rejected update never leaves a half-applied state.
func (s *Session) Update(mutate func(*filter.State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state
	if err := mutate(&next); err != nil {
		return err
	}
	s.state = next
	return nil
}

// Reset restores the default filter state.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Reset()
}

// View returns the filtered view for the current state.
func (s *Session) View() filter.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Session) viewLocked() filter.View {
	return s.view.Get(s.state.Key(), func() filter.View {
		return s.engine.Apply(s.ds, s.state)
	})
}

func (s *Session) Summary() views.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summary.Get(s.state.Key(), func() views.Summary {
		return views.Summarize(s.viewLocked(), s.ds.GrandTotal())
	})
}

func (s *Session) YearlySeries() views.Series {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.series.Get(s.state.Key(), func() views.Series {
		return views.YearlySeries(s.viewLocked())
	})
}

func (s *Session) YearlyTotals() views.Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totals.Get(s.state.Key(), func() views.Totals {
		return views.YearlyTotals(s.viewLocked())
	})
}

func (s *Session) Categories() views.Breakdown {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.breakdown.Get(s.state.Key(), func() views.Breakdown {
		return views.ByCategory(s.viewLocked())
	})
}

func (s *Session) Organisations() views.OrgProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orgs.Get(s.state.Key(), func() views.OrgProfile {
		return views.ByOrganisation(s.viewLocked())
	})
}

func (s *Session) Geo() []views.GeoPoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.geo.Get(s.state.Key(), func() []views.GeoPoint {
		return views.GeoCollection(s.viewLocked(), core.MarkerColour)
	})
}

// Grid returns the grid rows for the current state and q.
func (s *Session) Grid(q views.GridQuery) []views.GridRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := s.state.Key() + "|sort=" + q.Sort + "|desc=" + strconv.FormatBool(q.Desc) + "|q=" + q.Search
	return s.grid.Get(key, func() []views.GridRow {
		return views.Grid(s.viewLocked(), q)
	})
}

// Detail resolves the grid selection. It depends only on the selected ids,
// not on the filter state.
func (s *Session) Detail(ids []int) views.Detail {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.detail.Get(idsKey(ids), func() views.Detail {
		return views.ResolveDetail(s.ds, ids)
	})
}

// ViewStats reports the filtered view memo's hit and miss counts.
func (s *Session) ViewStats() (hits, misses int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view.Stats()
}

func idsKey(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}
