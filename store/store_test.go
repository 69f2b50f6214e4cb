package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/outbreak-xyz/go-outbreak/epidemic"
	"github.com/outbreak-xyz/go-outbreak/model"
	"github.com/outbreak-xyz/go-outbreak/results"
	"github.com/outbreak-xyz/go-outbreak/store"
)

func TestMemoryStore(t *testing.T) {
	runStoreTests(t, func() store.Store {
		return store.NewMemoryStore()
	})
}

func TestSQLiteStore(t *testing.T) {
	runStoreTests(t, func() store.Store {
		s, err := store.NewSQLiteStore(":memory:")
		if err != nil {
			t.Fatalf("failed to create sqlite store: %v", err)
		}
		return s
	})
}

func archivedRun(t *testing.T, name string) *results.Results {
	t.Helper()
	n := 10000.0
	s := &epidemic.Scenario{
		Name: name,
		Parameters: model.Parameters{
			Bp: 0.8, Ba: 0.8, Bs: 0.8,
			TauE: 3.5, TauP: 1.5, TauI: 3.5, TauD: 14,
			F: 0.3, D: 0.05, N: n,
		},
		Initial: []float64{n - 10, 10, 0, 0, 0, 0},
		T0:      0,
		Tf:      10,
		Points:  11,
	}
	tr, err := s.Run()
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	return results.NewBuilder().
		WithScenario(s).
		WithTrajectory(tr, "tsit5", time.Millisecond, 0).
		Build()
}

func runStoreTests(t *testing.T, newStore func() store.Store) {
	t.Run("SaveAndLoad", func(t *testing.T) {
		s := newStore()
		defer s.Close()
		ctx := context.Background()

		r := archivedRun(t, "baseline")
		if err := s.Save(ctx, r); err != nil {
			t.Fatalf("save failed: %v", err)
		}

		got, err := s.Load(ctx, r.Metadata.RunID)
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if got.Metadata.RunID != r.Metadata.RunID {
			t.Errorf("run ID %q, want %q", got.Metadata.RunID, r.Metadata.RunID)
		}
		if got.R0 != r.R0 {
			t.Errorf("r0 %g, want %g", got.R0, r.R0)
		}
		if got.Scenario == nil || got.Scenario.Name != "baseline" {
			t.Error("scenario not preserved")
		}
		if got.Data.Summary.Points != r.Data.Summary.Points {
			t.Errorf("points %d, want %d", got.Data.Summary.Points, r.Data.Summary.Points)
		}
	})

	t.Run("LoadMissing", func(t *testing.T) {
		s := newStore()
		defer s.Close()

		_, err := s.Load(context.Background(), "no-such-run")
		if !errors.Is(err, store.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got: %v", err)
		}
	})

	t.Run("List", func(t *testing.T) {
		s := newStore()
		defer s.Close()
		ctx := context.Background()

		r1 := archivedRun(t, "first")
		r2 := archivedRun(t, "second")
		r2.Metadata.Timestamp = r1.Metadata.Timestamp.Add(time.Minute)

		if err := s.Save(ctx, r1); err != nil {
			t.Fatalf("save failed: %v", err)
		}
		if err := s.Save(ctx, r2); err != nil {
			t.Fatalf("save failed: %v", err)
		}

		runs, err := s.List(ctx)
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(runs) != 2 {
			t.Fatalf("expected 2 runs, got %d", len(runs))
		}
		if runs[0].Name != "second" {
			t.Errorf("expected newest first, got %q", runs[0].Name)
		}
		if runs[0].R0 == 0 {
			t.Error("summary should carry r0")
		}
	})

	t.Run("Overwrite", func(t *testing.T) {
		s := newStore()
		defer s.Close()
		ctx := context.Background()

		r := archivedRun(t, "original")
		if err := s.Save(ctx, r); err != nil {
			t.Fatalf("save failed: %v", err)
		}
		r.Scenario.Name = "renamed"
		if err := s.Save(ctx, r); err != nil {
			t.Fatalf("overwrite failed: %v", err)
		}

		runs, err := s.List(ctx)
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(runs) != 1 {
			t.Fatalf("expected 1 run after overwrite, got %d", len(runs))
		}
		if runs[0].Name != "renamed" {
			t.Errorf("name %q, want renamed", runs[0].Name)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		s := newStore()
		defer s.Close()
		ctx := context.Background()

		r := archivedRun(t, "doomed")
		if err := s.Save(ctx, r); err != nil {
			t.Fatalf("save failed: %v", err)
		}
		if err := s.Delete(ctx, r.Metadata.RunID); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		if _, err := s.Load(ctx, r.Metadata.RunID); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got: %v", err)
		}

		// Deleting again is not an error.
		if err := s.Delete(ctx, r.Metadata.RunID); err != nil {
			t.Errorf("repeat delete failed: %v", err)
		}
	})
}
