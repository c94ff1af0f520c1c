// Package backlog implements a persistence backlog observer: a cached
// snapshot of WAL size/tail-openness and incremental-segment count and size,
// refreshed on WAL-state-changing writes and periodically.
package backlog

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"vecdb-go/internal/wal"
)

// Snapshot is the published backlog observation.
type Snapshot struct {
	WalSizeBytes         int64
	WalTailOpen          bool
	IncrementalSegments  int64
	IncrementalSizeBytes int64
}

// Observer caches the most recent Snapshot and knows how to recompute it
// from the filesystem.
type Observer struct {
	walPath         string
	incrementalsDir string

	mu       sync.RWMutex
	snapshot Snapshot
}

// New returns an Observer for the given WAL path and its adjacent
// incrementals directory.
func New(walPath, incrementalsDir string) *Observer {
	return &Observer{walPath: walPath, incrementalsDir: incrementalsDir}
}

// Snapshot returns the most recently cached observation.
func (o *Observer) Snapshot() Snapshot {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.snapshot
}

// ApplyWalState updates just the WAL-derived fields from a fresh append
// result, without rescanning the incrementals directory. This is the cheap
// path taken on every write, versus the full directory rescan in
// RefreshFullScan.
func (o *Observer) ApplyWalState(state wal.AppendState) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.snapshot.WalSizeBytes = state.WalSizeBytes
	o.snapshot.WalTailOpen = state.WalTailOpen
}

// RefreshFullScan recomputes the entire snapshot from disk: WAL tail-openness
// (including binary-magic detection) plus a scan of the incrementals
// directory for .jsonl segment count and aggregate size.
func (o *Observer) RefreshFullScan() {
	walSize, tailOpen := readWalState(o.walPath)
	segments, segBytes := scanIncrementals(o.incrementalsDir)

	o.mu.Lock()
	defer o.mu.Unlock()
	o.snapshot = Snapshot{
		WalSizeBytes:         walSize,
		WalTailOpen:          tailOpen,
		IncrementalSegments:  segments,
		IncrementalSizeBytes: segBytes,
	}
}

func readWalState(path string) (int64, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, false
	}
	size := info.Size()
	return size, walTailIsOpen(path, size)
}

// walTailIsOpen reports whether path's last byte is not '\n', excluding
// files that start with the reserved binary magic (treated as closed-tail).
func walTailIsOpen(path string, size int64) bool {
	if size == 0 {
		return false
	}
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	if size >= int64(len(wal.BinaryMagic)) {
		magic := make([]byte, len(wal.BinaryMagic))
		if _, err := f.ReadAt(magic, 0); err == nil && string(magic) == wal.BinaryMagic {
			return false
		}
	}

	last := make([]byte, 1)
	if _, err := f.ReadAt(last, size-1); err != nil {
		return false
	}
	return last[0] != '\n'
}

func scanIncrementals(dir string) (segments, sizeBytes int64) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, 0
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.ToLower(filepath.Ext(entry.Name())) != ".jsonl" {
			continue
		}
		segments++
		if info, err := entry.Info(); err == nil {
			sizeBytes += info.Size()
		}
	}
	return segments, sizeBytes
}
