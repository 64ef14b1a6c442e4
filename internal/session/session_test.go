package session

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"lcgrants/internal/core"
	"lcgrants/internal/dataset/datasettest"
	"lcgrants/internal/filter"
	"lcgrants/internal/views"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	ds := datasettest.Sample(t)
	return NewStore(ds, filter.NewEngine(core.DefaultCategories()), 10, time.Hour)
}

func TestMemoRecomputesOnlyOnKeyChange(t *testing.T) {
	var m Memo[int]
	calls := 0
	compute := func() int { calls++; return calls }

	if v := m.Get("a", compute); v != 1 {
		t.Errorf("first Get = %d, want 1", v)
	}
	if v := m.Get("a", compute); v != 1 {
		t.Errorf("cached Get = %d, want 1", v)
	}
	if v := m.Get("b", compute); v != 2 {
		t.Errorf("Get with new key = %d, want 2", v)
	}
	m.Invalidate()
	if v := m.Get("b", compute); v != 3 {
		t.Errorf("Get after Invalidate = %d, want 3", v)
	}
	if hits, misses := m.Stats(); hits != 1 || misses != 3 {
		t.Errorf("Stats() = %d/%d, want 1/3", hits, misses)
	}
}

func TestSessionMemoizesView(t *testing.T) {
	sess := newTestStore(t).Create()

	sess.Summary()
	sess.YearlySeries()
	sess.Geo()
	if _, misses := sess.ViewStats(); misses != 1 {
		t.Errorf("view computed %d times for one state, want 1", misses)
	}

	if err := sess.Update(func(s *filter.State) error { return s.SetCategory("Med") }); err != nil {
		t.Fatal(err)
	}
	if got := sess.Summary().Count; got != 4 {
		t.Errorf("Summary().Count = %d, want 4", got)
	}
	if _, misses := sess.ViewStats(); misses != 2 {
		t.Errorf("view misses = %d, want 2 after state change", misses)
	}
}

func TestSessionUpdateIsAtomic(t *testing.T) {
	sess := newTestStore(t).Create()
	before := sess.State().Key()

	err := sess.Update(func(s *filter.State) error {
		if err := s.SetCategory("Arts"); err != nil {
			return err
		}
		return s.SetSources([]string{"Wellcome"})
	})
	if !errors.Is(err, filter.ErrInvalidFilter) {
		t.Fatalf("Update() error = %v, want ErrInvalidFilter", err)
	}
	if after := sess.State().Key(); after != before {
		t.Errorf("state partially applied: %s", after)
	}
}

func TestSessionReset(t *testing.T) {
	sess := newTestStore(t).Create()
	_ = sess.Update(func(s *filter.State) error {
		return s.SetAmountRange(decimal.NewFromInt(0), decimal.NewFromInt(1000))
	})
	if sess.View().Len() != 7 {
		t.Fatalf("View().Len() = %d, want 7", sess.View().Len())
	}
	sess.Reset()
	if !sess.State().IsDefault() {
		t.Error("state not default after Reset()")
	}
	if sess.View().Len() != 10 {
		t.Errorf("View().Len() = %d after reset, want 10", sess.View().Len())
	}
}

func TestSessionDetail(t *testing.T) {
	sess := newTestStore(t).Create()
	d := sess.Detail([]int{3, 7})
	if d.AmountText() != "1700 GBP" {
		t.Errorf("AmountText() = %q", d.AmountText())
	}
	// The detail does not depend on the filters.
	_ = sess.Update(func(s *filter.State) error { return s.SetSources(nil) })
	if d := sess.Detail([]int{3, 7}); d.AmountText() != "1700 GBP" {
		t.Errorf("AmountText() after filter change = %q", d.AmountText())
	}
}

func TestSessionGridKeyedByQuery(t *testing.T) {
	sess := newTestStore(t).Create()
	asc := sess.Grid(views.GridQuery{Sort: views.SortID})
	desc := sess.Grid(views.GridQuery{Sort: views.SortID, Desc: true})
	if asc[0].ID != 1 || desc[0].ID != 10 {
		t.Errorf("grid first ids = %d, %d", asc[0].ID, desc[0].ID)
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	store := newTestStore(t)
	a, b := store.Create(), store.Create()
	if a.ID == b.ID {
		t.Fatal("sessions share an id")
	}
	_ = a.Update(func(s *filter.State) error { return s.SetTagging(nil) })
	if b.View().Len() != 10 {
		t.Error("mutating one session changed another")
	}
	if a.View().Len() != 0 {
		t.Error("empty tagging should give an empty view")
	}
}

func TestStoreGetOrCreate(t *testing.T) {
	store := newTestStore(t)
	sess, created := store.GetOrCreate("")
	if !created {
		t.Fatal("GetOrCreate(\"\") should create")
	}
	again, created := store.GetOrCreate(sess.ID)
	if created || again != sess {
		t.Error("GetOrCreate(id) should return the live session")
	}
	if _, created := store.GetOrCreate("not-a-session"); !created {
		t.Error("unknown id should create a session")
	}
	if store.Len() != 2 {
		t.Errorf("Len() = %d, want 2", store.Len())
	}
	store.Delete(sess.ID)
	if _, ok := store.Get(sess.ID); ok {
		t.Error("deleted session still present")
	}
}

func TestStoreEvictsOldest(t *testing.T) {
	ds := datasettest.Sample(t)
	store := NewStore(ds, filter.NewEngine(core.DefaultCategories()), 2, time.Hour)
	first := store.Create()
	store.Create()
	store.Create()
	if _, ok := store.Get(first.ID); ok {
		t.Error("oldest session should have been evicted")
	}
}

func TestSessionConcurrentRequests(t *testing.T) {
	sess := newTestStore(t).Create()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				_ = sess.Update(func(s *filter.State) error { return s.SetCategory("Med") })
			} else {
				sess.Summary()
				sess.Geo()
			}
		}(i)
	}
	wg.Wait()
	if got := sess.Summary().Count; got != 4 {
		t.Errorf("Summary().Count = %d, want 4", got)
	}
}
