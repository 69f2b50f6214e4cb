// Package cache memoizes trajectory runs. Sweeps and comparisons often
// re-evaluate the same parameter point; runs are deterministic, so a
// cached trajectory is indistinguishable from a fresh one.
package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"math"
	"sync"

	"github.com/outbreak-xyz/go-outbreak/epidemic"
	"github.com/outbreak-xyz/go-outbreak/model"
)

// TrajectoryCache caches completed runs keyed by a hash of their inputs.
type TrajectoryCache struct {
	mu        sync.RWMutex
	cache     map[string]*epidemic.Trajectory
	maxSize   int
	hits      int64
	misses    int64
	evictions int64
}

// New creates a cache with the specified maximum size. When full, an
// arbitrary entry is evicted. Set maxSize to 0 for an unbounded cache.
func New(maxSize int) *TrajectoryCache {
	return &TrajectoryCache{
		cache:   make(map[string]*epidemic.Trajectory),
		maxSize: maxSize,
	}
}

// hashKey builds a deterministic digest of a run's inputs: the ten
// parameters, the initial state and the output grid.
func hashKey(p model.Parameters, u0, grid []float64) string {
	h := sha256.New()
	buf := make([]byte, 8)
	write := func(v float64) {
		binary.BigEndian.PutUint64(buf, math.Float64bits(v))
		h.Write(buf)
	}
	for _, v := range []float64{p.Bp, p.Ba, p.Bs, p.TauE, p.TauP, p.TauI, p.TauD, p.F, p.D, p.N} {
		write(v)
	}
	for _, v := range u0 {
		write(v)
	}
	for _, v := range grid {
		write(v)
	}
	return string(h.Sum(nil))
}

// Get retrieves a cached trajectory for the given inputs, or nil.
func (c *TrajectoryCache) Get(p model.Parameters, u0, grid []float64) *epidemic.Trajectory {
	key := hashKey(p, u0, grid)

	c.mu.Lock()
	defer c.mu.Unlock()

	if tr, ok := c.cache[key]; ok {
		c.hits++
		return tr
	}
	c.misses++
	return nil
}

// Put stores a trajectory under its input hash.
func (c *TrajectoryCache) Put(p model.Parameters, u0, grid []float64, tr *epidemic.Trajectory) {
	key := hashKey(p, u0, grid)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.maxSize > 0 && len(c.cache) >= c.maxSize {
		for k := range c.cache {
			delete(c.cache, k)
			c.evictions++
			break
		}
	}
	c.cache[key] = tr
}

// GetOrRun retrieves from the cache or runs the simulation and caches it.
func (c *TrajectoryCache) GetOrRun(p model.Parameters, u0, grid []float64, run func() (*epidemic.Trajectory, error)) (*epidemic.Trajectory, error) {
	if tr := c.Get(p, u0, grid); tr != nil {
		return tr, nil
	}
	tr, err := run()
	if err != nil {
		return nil, err
	}
	c.Put(p, u0, grid, tr)
	return tr, nil
}

// Clear removes all entries.
func (c *TrajectoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]*epidemic.Trajectory)
}

// Size returns the current number of cached entries.
func (c *TrajectoryCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

// Stats summarizes cache behavior.
type Stats struct {
	Size      int
	MaxSize   int
	Hits      int64
	Misses    int64
	Evictions int64
	HitRate   float64
}

// Stats returns a snapshot of the cache counters.
func (c *TrajectoryCache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	total := c.hits + c.misses
	hitRate := 0.0
	if total > 0 {
		hitRate = float64(c.hits) / float64(total)
	}
	return Stats{
		Size:      len(c.cache),
		MaxSize:   c.maxSize,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		HitRate:   hitRate,
	}
}

// Runner runs scenarios through a cache with fixed solver settings.
type Runner struct {
	cache *TrajectoryCache
}

// NewRunner creates a caching runner.
func NewRunner(cacheSize int) *Runner {
	return &Runner{cache: New(cacheSize)}
}

// Run executes the scenario, reusing a cached trajectory when the same
// inputs have been run before.
func (r *Runner) Run(s *epidemic.Scenario) (*epidemic.Trajectory, error) {
	return r.cache.GetOrRun(s.Parameters, s.Initial, s.Grid(), s.Run)
}

// Cache exposes the underlying cache for inspection.
func (r *Runner) Cache() *TrajectoryCache {
	return r.cache
}
