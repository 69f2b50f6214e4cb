package cache

import (
	"sync"
	"testing"

	"github.com/outbreak-xyz/go-outbreak/epidemic"
	"github.com/outbreak-xyz/go-outbreak/model"
)

func testScenario() *epidemic.Scenario {
	n := 10000.0
	return &epidemic.Scenario{
		Name: "test",
		Parameters: model.Parameters{
			Bp: 0.8, Ba: 0.8, Bs: 0.8,
			TauE: 3.5, TauP: 1.5, TauI: 3.5, TauD: 14,
			F: 0.3, D: 0.05, N: n,
		},
		Initial: []float64{n - 10, 10, 0, 0, 0, 0},
		T0:      0,
		Tf:      20,
		Points:  21,
	}
}

func TestCacheHitMiss(t *testing.T) {
	c := New(10)
	s := testScenario()
	grid := s.Grid()

	if tr := c.Get(s.Parameters, s.Initial, grid); tr != nil {
		t.Fatal("expected miss on empty cache")
	}

	tr, err := s.Run()
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	c.Put(s.Parameters, s.Initial, grid, tr)

	got := c.Get(s.Parameters, s.Initial, grid)
	if got != tr {
		t.Fatal("expected cached trajectory back")
	}

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("expected 1 hit and 1 miss, got %d and %d", stats.Hits, stats.Misses)
	}
	if stats.HitRate != 0.5 {
		t.Errorf("expected hit rate 0.5, got %g", stats.HitRate)
	}
}

func TestCacheKeySensitivity(t *testing.T) {
	c := New(10)
	s := testScenario()
	grid := s.Grid()

	tr, err := s.Run()
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	c.Put(s.Parameters, s.Initial, grid, tr)

	altered := s.Parameters
	altered.Bp *= 1.1
	if got := c.Get(altered, s.Initial, grid); got != nil {
		t.Error("changed parameters should miss")
	}

	u0 := append([]float64(nil), s.Initial...)
	u0[model.E] += 1
	u0[model.S] -= 1
	if got := c.Get(s.Parameters, u0, grid); got != nil {
		t.Error("changed initial state should miss")
	}
}

func TestGetOrRun(t *testing.T) {
	c := New(10)
	s := testScenario()
	grid := s.Grid()

	calls := 0
	run := func() (*epidemic.Trajectory, error) {
		calls++
		return s.Run()
	}

	first, err := c.GetOrRun(s.Parameters, s.Initial, grid, run)
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	second, err := c.GetOrRun(s.Parameters, s.Initial, grid, run)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 compute call, got %d", calls)
	}
	if first != second {
		t.Error("expected same trajectory from cache")
	}
}

func TestEviction(t *testing.T) {
	c := New(2)
	s := testScenario()
	grid := s.Grid()
	tr, err := s.Run()
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		p := s.Parameters
		p.Bp += float64(i) * 0.01
		c.Put(p, s.Initial, grid, tr)
	}
	if c.Size() != 2 {
		t.Errorf("expected size capped at 2, got %d", c.Size())
	}
	if c.Stats().Evictions != 1 {
		t.Errorf("expected 1 eviction, got %d", c.Stats().Evictions)
	}
}

func TestRunnerConcurrent(t *testing.T) {
	r := NewRunner(10)
	s := testScenario()

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := r.Run(s); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent run failed: %v", err)
	}

	stats := r.Cache().Stats()
	if stats.Size != 1 {
		t.Errorf("expected a single cached entry, got %d", stats.Size)
	}
	if stats.Hits+stats.Misses != 8 {
		t.Errorf("expected 8 lookups, got %d", stats.Hits+stats.Misses)
	}
}

func TestClear(t *testing.T) {
	c := New(0)
	s := testScenario()
	tr, err := s.Run()
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	c.Put(s.Parameters, s.Initial, s.Grid(), tr)
	c.Clear()
	if c.Size() != 0 {
		t.Errorf("expected empty cache after clear, got %d", c.Size())
	}
}
