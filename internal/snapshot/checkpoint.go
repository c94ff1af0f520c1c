package snapshot

import (
	"fmt"

	"vecdb-go/internal/collection"
	"vecdb-go/internal/wal"
)

// Checkpoint captures the full registry as a fresh base snapshot, truncates
// the WAL, and prunes incremental segments that are now fully subsumed by
// the new base. It is the operation triggered once WAL-record count since
// the last checkpoint reaches checkpoint_interval.
func Checkpoint(snapshotPath, walPath string, registry *collection.Registry, compactAfter int) error {
	if err := Write(snapshotPath, registry); err != nil {
		return fmt.Errorf("checkpoint: write snapshot: %w", err)
	}
	if err := wal.Truncate(walPath); err != nil {
		return fmt.Errorf("checkpoint: truncate wal: %w", err)
	}
	if err := PruneSegments(IncrementalsDir(snapshotPath), compactAfter); err != nil {
		return fmt.Errorf("checkpoint: prune incrementals: %w", err)
	}
	return nil
}

// Recover rebuilds a registry from disk following the recovery order: base
// snapshot, then incremental segments in ascending filename order, then the
// WAL.
func Recover(snapshotPath, walPath string, maxDimension, maxPoints int) (*collection.Registry, error) {
	registry, err := Load(snapshotPath, maxDimension, maxPoints)
	if err != nil {
		return nil, fmt.Errorf("recover: load snapshot: %w", err)
	}

	if err := ReplaySegments(IncrementalsDir(snapshotPath), registry, maxDimension, maxPoints); err != nil {
		return nil, fmt.Errorf("recover: replay incrementals: %w", err)
	}

	if err := wal.Replay(walPath, registry, maxDimension, maxPoints); err != nil {
		return nil, fmt.Errorf("recover: replay wal: %w", err)
	}

	return registry, nil
}
