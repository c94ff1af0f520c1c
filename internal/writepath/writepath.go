// Package writepath orchestrates the write side of the database:
// per-collection admission, WAL durability, in-memory apply, and checkpoint
// triggering, following a precheck-then-apply split around the durable WAL
// append.
package writepath

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"vecdb-go/internal/apierr"
	"vecdb-go/internal/backlog"
	"vecdb-go/internal/collection"
	"vecdb-go/internal/metrics"
	"vecdb-go/internal/resource"
	"vecdb-go/internal/snapshot"
	"vecdb-go/internal/wal"
)

// DegradedSetter is the minimal surface writepath needs from the engine's
// degraded-mode gate. Kept as an interface so this package never imports
// internal/engine, which imports writepath.
type DegradedSetter interface {
	Trip(reason string)
}

// Options configures a Coordinator.
type Options struct {
	MaxDimension           int
	MaxPointsPerCollection int
	PersistenceEnabled     bool
	SnapshotPath           string
	WalPath                string
	WalSyncOnWrite         bool
	WalSyncEveryNWrites    int
	WalSyncIntervalSeconds int
	GroupCommitMaxBatch    int
	GroupCommitFlushDelay  time.Duration
	CheckpointInterval     int
	AsyncCheckpoints       bool
	CheckpointCompactAfter int
}

// Coordinator is the single entry point write requests go through: it owns
// per-collection serialization, admission, the WAL group-commit queue, and
// checkpoint triggering.
type Coordinator struct {
	registry  *collection.Registry
	resources *resource.Manager
	queue     *wal.GroupQueue
	backlog   *backlog.Observer
	degraded  DegradedSetter
	opts      Options

	slotsMu sync.Mutex
	slots   map[string]*sync.Mutex

	counterMu              sync.Mutex
	writesSinceLastSync    int
	recordsSinceCheckpoint int
	lastSyncTime           time.Time
}

// New returns a Coordinator wired to registry, a resource budget, a backlog
// observer, and the engine's degraded-mode gate.
func New(registry *collection.Registry, resources *resource.Manager, observer *backlog.Observer, degraded DegradedSetter, opts Options) *Coordinator {
	return &Coordinator{
		registry:     registry,
		resources:    resources,
		queue:        wal.NewGroupQueue(),
		backlog:      observer,
		degraded:     degraded,
		opts:         opts,
		slots:        make(map[string]*sync.Mutex),
		lastSyncTime: time.Now(),
	}
}

func (co *Coordinator) slot(name string) *sync.Mutex {
	co.slotsMu.Lock()
	defer co.slotsMu.Unlock()
	m, ok := co.slots[name]
	if !ok {
		m = &sync.Mutex{}
		co.slots[name] = m
	}
	return m
}

// durableAppend enqueues record on the group-commit queue and blocks until
// either this caller becomes leader and performs the append itself, or a
// leader elsewhere fans the result back out.
func (co *Coordinator) durableAppend(record wal.Record) (wal.AppendState, error) {
	if !co.opts.PersistenceEnabled {
		return wal.AppendState{}, nil
	}

	isLeader, resultCh := co.queue.Enqueue(record)
	if isLeader {
		start := time.Now()
		co.queue.RunLeader(co.opts.WalPath, co.opts.GroupCommitMaxBatch, co.opts.GroupCommitFlushDelay, co.shouldSyncOnWrite())
		metrics.WalAppendLatencySeconds.Observe(time.Since(start).Seconds())
	}
	result := <-resultCh
	if result.Err != nil {
		return wal.AppendState{}, fmt.Errorf("writepath: wal append: %w", result.Err)
	}

	co.onAppendDurable()
	if co.backlog != nil {
		co.backlog.ApplyWalState(result.State)
	}
	return result.State, nil
}

// shouldSyncOnWrite resolves the dual sync-policy into a single per-append
// decision: sync if either threshold has been met since the last sync.
// wal_sync_on_write forces every append; otherwise a count or interval
// threshold can force this specific append too.
func (co *Coordinator) shouldSyncOnWrite() bool {
	if co.opts.WalSyncOnWrite {
		return true
	}
	co.counterMu.Lock()
	defer co.counterMu.Unlock()
	co.writesSinceLastSync++
	countDue := wal.ShouldSyncThisWrite(co.writesSinceLastSync, co.opts.WalSyncEveryNWrites)
	intervalDue := co.opts.WalSyncIntervalSeconds > 0 &&
		time.Since(co.lastSyncTime) >= time.Duration(co.opts.WalSyncIntervalSeconds)*time.Second
	if countDue || intervalDue {
		co.writesSinceLastSync = 0
		co.lastSyncTime = time.Now()
		return true
	}
	return false
}

// onAppendDurable increments the checkpoint counter and triggers a
// checkpoint once checkpoint_interval records have landed since the last
// one.
func (co *Coordinator) onAppendDurable() {
	co.counterMu.Lock()
	co.recordsSinceCheckpoint++
	due := co.opts.CheckpointInterval > 0 && co.recordsSinceCheckpoint >= co.opts.CheckpointInterval
	if due {
		co.recordsSinceCheckpoint = 0
	}
	co.counterMu.Unlock()

	if !due || !co.opts.PersistenceEnabled {
		return
	}
	if co.opts.AsyncCheckpoints {
		go co.checkpoint()
	} else {
		co.checkpoint()
	}
}

func (co *Coordinator) checkpoint() {
	if err := snapshot.Checkpoint(co.opts.SnapshotPath, co.opts.WalPath, co.registry, co.opts.CheckpointCompactAfter); err != nil {
		metrics.PersistenceCheckpointErrorTotal.Inc()
		slog.Error("checkpoint failed; serving in degraded persistence mode", "error", err)
		return
	}
	if co.backlog != nil {
		co.backlog.RefreshFullScan()
	}
	slog.Info("checkpoint complete")
}

func (co *Coordinator) tripDegraded(reason string) *apierr.Error {
	slog.Error("invariant violation after durable wal append; engine degraded", "reason", reason)
	if co.degraded != nil {
		co.degraded.Trip(reason)
	}
	return apierr.Internal("invariant violation after WAL commit", fmt.Errorf("%s", reason))
}
