// Package engine is the top-level core of the database: it ties the
// collection registry, WAL, snapshot recovery, IVF index manager, resource
// budget, and write-path coordinator into the one surface internal/api
// drives.
package engine

import (
	"fmt"
	"log/slog"
	"time"

	"vecdb-go/internal/backlog"
	"vecdb-go/internal/collection"
	"vecdb-go/internal/config"
	"vecdb-go/internal/ivfindex"
	"vecdb-go/internal/resource"
	"vecdb-go/internal/snapshot"
	"vecdb-go/internal/writepath"
)

// Engine is the process-wide database instance.
type Engine struct {
	cfg       config.AppConfig
	registry  *collection.Registry
	resources *resource.Manager
	index     *ivfindex.Manager
	backlog   *backlog.Observer
	degraded  *DegradedGate
	writer    *writepath.Coordinator
}

// Open recovers (or initializes) a registry per cfg.Persistence and wires
// every collaborator around it. Before returning it hands eligible
// collections to IVF warm-up, which only schedules background builds (and
// only when WarmupOnBoot is enabled); Open does not wait for them.
func Open(cfg config.AppConfig) (*Engine, error) {
	var registry *collection.Registry
	if cfg.Persistence.Enabled {
		recovered, err := snapshot.Recover(cfg.Persistence.SnapshotPath, cfg.Persistence.WalPath, cfg.Database.MaxDimension, cfg.Database.MaxPointsPerCollection)
		if err != nil {
			return nil, fmt.Errorf("engine: recover: %w", err)
		}
		registry = recovered
	} else {
		registry = collection.NewRegistry()
	}

	resources := resource.New(cfg.Database.MemoryBudgetBytes, usedBytesOf(registry))
	indexMgr := ivfindex.NewManager()
	observer := backlog.New(cfg.Persistence.WalPath, snapshot.IncrementalsDir(cfg.Persistence.SnapshotPath))
	observer.RefreshFullScan()
	degraded := NewDegradedGate()

	writer := writepath.New(registry, resources, observer, degraded, writepath.Options{
		MaxDimension:           cfg.Database.MaxDimension,
		MaxPointsPerCollection: cfg.Database.MaxPointsPerCollection,
		PersistenceEnabled:     cfg.Persistence.Enabled,
		SnapshotPath:           cfg.Persistence.SnapshotPath,
		WalPath:                cfg.Persistence.WalPath,
		WalSyncOnWrite:         cfg.Persistence.WalSyncOnWrite,
		WalSyncEveryNWrites:    cfg.Persistence.WalSyncEveryNWrites,
		WalSyncIntervalSeconds: cfg.Persistence.WalSyncIntervalSeconds,
		GroupCommitMaxBatch:    cfg.Persistence.WalGroupCommitMaxBatch,
		GroupCommitFlushDelay:  time.Duration(cfg.Persistence.WalGroupCommitFlushDelayMs) * time.Millisecond,
		CheckpointInterval:     cfg.Persistence.CheckpointInterval,
		AsyncCheckpoints:       cfg.Persistence.AsyncCheckpoints,
		CheckpointCompactAfter: cfg.Persistence.CheckpointCompactAfter,
	})

	e := &Engine{
		cfg:       cfg,
		registry:  registry,
		resources: resources,
		index:     indexMgr,
		backlog:   observer,
		degraded:  degraded,
		writer:    writer,
	}

	indexMgr.Warmup(registry)
	slog.Info("engine opened", "collections", len(registry.Names()), "persistence_enabled", cfg.Persistence.Enabled)
	return e, nil
}

// usedBytesOf sums the estimated vector footprint of every point already in
// registry, so a recovered process doesn't under-account its resource
// budget relative to what it actually holds in memory.
func usedBytesOf(registry *collection.Registry) uint64 {
	var total uint64
	for _, name := range registry.Names() {
		c, err := registry.Get(name)
		if err != nil {
			continue
		}
		total += uint64(c.Len()) * resource.EstimatedVectorBytes(c.Dimension())
	}
	return total
}

// Close performs a final checkpoint so the next Open starts from a fresh
// base snapshot rather than replaying the full WAL again.
func (e *Engine) Close() error {
	if !e.cfg.Persistence.Enabled {
		return nil
	}
	if err := snapshot.Checkpoint(e.cfg.Persistence.SnapshotPath, e.cfg.Persistence.WalPath, e.registry, e.cfg.Persistence.CheckpointCompactAfter); err != nil {
		return fmt.Errorf("engine: close checkpoint: %w", err)
	}
	return nil
}

// DegradedGate exposes the engine's degraded-mode gate directly; /readyz
// reads it through Status instead.
func (e *Engine) DegradedGate() *DegradedGate { return e.degraded }

// Resources exposes the resource manager for introspection endpoints.
func (e *Engine) Resources() *resource.Manager { return e.resources }

// Backlog exposes the cached persistence backlog for introspection endpoints.
func (e *Engine) Backlog() *backlog.Observer { return e.backlog }
