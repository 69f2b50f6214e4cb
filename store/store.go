// Package store archives completed runs so they can be listed and
// reloaded later. Two backends exist: an in-memory store for tests and
// ephemeral use, and a SQLite store for persistence.
package store

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/outbreak-xyz/go-outbreak/results"
)

// ErrNotFound is returned when a run ID has no archived document.
var ErrNotFound = errors.New("store: run not found")

// RunSummary is the listing row for an archived run.
type RunSummary struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Created  time.Time `json:"created"`
	R0       float64   `json:"r0"`
	Status   string    `json:"status"`
	Solver   string    `json:"solver"`
	FinalDay float64   `json:"finalDay"`
}

// Store archives run documents keyed by their run ID.
type Store interface {
	// Save archives a run document. Saving an existing ID overwrites it.
	Save(ctx context.Context, r *results.Results) error

	// Load retrieves a run document by ID.
	Load(ctx context.Context, id string) (*results.Results, error)

	// List returns summaries of all archived runs, newest first.
	List(ctx context.Context) ([]RunSummary, error)

	// Delete removes an archived run. Deleting a missing ID is not an error.
	Delete(ctx context.Context, id string) error

	Close() error
}

// MemoryStore keeps archived runs in a map.
type MemoryStore struct {
	mu   sync.RWMutex
	runs map[string]*results.Results
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{runs: make(map[string]*results.Results)}
}

func (s *MemoryStore) Save(_ context.Context, r *results.Results) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[r.Metadata.RunID] = r
	return nil
}

func (s *MemoryStore) Load(_ context.Context, id string) (*results.Results, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.runs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return r, nil
}

func (s *MemoryStore) List(_ context.Context) ([]RunSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]RunSummary, 0, len(s.runs))
	for _, r := range s.runs {
		out = append(out, summarize(r))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Created.After(out[j].Created)
	})
	return out, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.runs, id)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

func summarize(r *results.Results) RunSummary {
	sum := RunSummary{
		ID:       r.Metadata.RunID,
		Created:  r.Metadata.Timestamp,
		R0:       r.R0,
		Status:   r.Metadata.Status,
		Solver:   r.Metadata.Solver,
		FinalDay: r.Data.Summary.FinalTime,
	}
	if r.Scenario != nil {
		sum.Name = r.Scenario.Name
	}
	return sum
}
