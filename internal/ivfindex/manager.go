package ivfindex

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"vecdb-go/internal/collection"
)

// Manager owns the per-collection IVF indexes, the process-wide build
// concurrency cap, and the per-collection rebuild cooldown.
type Manager struct {
	buildSlots *semaphore.Weighted
	cooldown   time.Duration

	mu        sync.Mutex
	indexes   map[string]*Index
	lastBuilt map[string]time.Time
}

// NewManager returns a Manager with the configured build concurrency cap and
// rebuild cooldown.
func NewManager() *Manager {
	return &Manager{
		buildSlots: semaphore.NewWeighted(int64(BuildMaxInFlight())),
		cooldown:   BuildCooldown(),
		indexes:    make(map[string]*Index),
		lastBuilt:  make(map[string]time.Time),
	}
}

// Get returns the cached index for name, if one exists and hasn't been
// explicitly discarded. The caller is responsible for checking
// IsCompatible against the live collection before trusting it.
func (m *Manager) Get(name string) (*Index, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx, ok := m.indexes[name]
	return idx, ok
}

// Discard drops a stale or incompatible index from the cache; an
// incompatible index is discarded on the first search attempt that notices.
func (m *Manager) Discard(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.indexes, name)
}

// TriggerBuild schedules an async rebuild of name's index unless a build is
// already in flight beyond the concurrency cap or the collection rebuilt
// more recently than the cooldown allows. It never blocks the caller.
func (m *Manager) TriggerBuild(c *collection.Collection) {
	name := c.Name()
	if !m.coolingDownExpired(name) {
		return
	}
	if !m.buildSlots.TryAcquire(1) {
		slog.Debug("ivf build skipped: no free build slot", "collection", name)
		return
	}

	go func() {
		defer m.buildSlots.Release(1)
		idx, err := Build(c)
		if err != nil {
			slog.Debug("ivf build skipped", "collection", name, "error", err)
			return
		}
		m.mu.Lock()
		m.indexes[name] = idx
		m.lastBuilt[name] = time.Now()
		m.mu.Unlock()
		slog.Info("ivf index built", "collection", name, "clusters", idx.ClusterCount(), "points", idx.len)
	}()
}

// BuildSync runs a build inline, waiting for a free build slot until ctx is
// done, and installs the result before returning. Warmup does not use it:
// warm-up schedules asynchronous builds through TriggerBuild.
func (m *Manager) BuildSync(ctx context.Context, c *collection.Collection) error {
	if err := m.buildSlots.Acquire(ctx, 1); err != nil {
		return err
	}
	defer m.buildSlots.Release(1)

	idx, err := Build(c)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.indexes[c.Name()] = idx
	m.lastBuilt[c.Name()] = time.Now()
	m.mu.Unlock()
	return nil
}

func (m *Manager) coolingDownExpired(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	last, ok := m.lastBuilt[name]
	if !ok {
		return true
	}
	return time.Since(last) >= m.cooldown
}

// Warmup schedules an index build for every collection in registry with at
// least MinIndexedPoints points. It is a no-op unless WarmupOnBoot() is true.
func (m *Manager) Warmup(registry *collection.Registry) {
	if !WarmupOnBoot() {
		return
	}
	for _, name := range registry.Names() {
		c, err := registry.Get(name)
		if err != nil {
			continue
		}
		if c.Len() < MinIndexedPoints {
			continue
		}
		m.TriggerBuild(c)
	}
}
