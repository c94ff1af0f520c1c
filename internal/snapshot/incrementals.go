package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"vecdb-go/internal/collection"
	"vecdb-go/internal/wal"
)

// IncrementalsDir returns the adjacent directory a base snapshot path keeps
// its incremental segments in: "<snapshot>.incrementals".
func IncrementalsDir(snapshotPath string) string {
	return snapshotPath + ".incrementals"
}

// ListSegments returns the .jsonl segment files under dir in ascending
// filename order. A missing directory, or any non-.jsonl entry (including a
// regular file sitting where the directory should be), is ignored silently.
func ListSegments(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		if isNotADirectory(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("snapshot: list incrementals %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.ToLower(filepath.Ext(entry.Name())) != ".jsonl" {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

func isNotADirectory(err error) bool {
	return strings.Contains(err.Error(), "not a directory")
}

// ReplaySegments applies every record in every segment under dir, in
// ascending filename order, to registry.
func ReplaySegments(dir string, registry *collection.Registry, maxDimension, maxPoints int) error {
	names, err := ListSegments(dir)
	if err != nil {
		return err
	}
	for _, name := range names {
		if err := wal.Replay(filepath.Join(dir, name), registry, maxDimension, maxPoints); err != nil {
			return fmt.Errorf("snapshot: replay segment %s: %w", name, err)
		}
	}
	return nil
}

// NextSegmentPath returns the path for the next incremental segment in dir,
// numbered one past the highest existing segment (four-digit, zero-padded).
func NextSegmentPath(dir string) (string, error) {
	names, err := ListSegments(dir)
	if err != nil {
		return "", err
	}
	next := len(names)
	if n := highestSegmentNumber(names); n >= next {
		next = n + 1
	}
	return filepath.Join(dir, fmt.Sprintf("%04d.jsonl", next)), nil
}

func highestSegmentNumber(names []string) int {
	highest := -1
	for _, name := range names {
		base := strings.TrimSuffix(name, filepath.Ext(name))
		var n int
		if _, err := fmt.Sscanf(base, "%d", &n); err == nil && n > highest {
			highest = n
		}
	}
	return highest
}

// WriteSegment appends records as a new incremental segment file in dir,
// using the WAL's JSONL record encoding so replay can share wal.Replay.
func WriteSegment(dir string, records []wal.Record) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("snapshot: ensure incrementals dir: %w", err)
	}
	path, err := NextSegmentPath(dir)
	if err != nil {
		return "", err
	}
	if _, err := wal.AppendBatch(path, records, true); err != nil {
		return "", fmt.Errorf("snapshot: write segment %s: %w", path, err)
	}
	return path, nil
}

// PruneSegments removes every segment except the compactAfter most recent
// ones, used after a checkpoint has folded older deltas into the new base
// snapshot. compactAfter <= 0 disables pruning.
func PruneSegments(dir string, compactAfter int) error {
	if compactAfter <= 0 {
		return nil
	}
	names, err := ListSegments(dir)
	if err != nil {
		return err
	}
	if len(names) <= compactAfter {
		return nil
	}
	for _, name := range names[:len(names)-compactAfter] {
		if err := os.Remove(filepath.Join(dir, name)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("snapshot: prune segment %s: %w", name, err)
		}
	}
	return nil
}
