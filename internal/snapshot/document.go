// Package snapshot implements the base-snapshot + incremental-segment
// persistence layer: atomic full snapshots, append-only incremental
// segments, and the snapshot -> incrementals -> WAL recovery order.
package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"

	"vecdb-go/internal/collection"
)

// Version is the only SnapshotDocument schema version this package writes
// or accepts.
const Version = 1

// Document is the full-registry snapshot format written to snapshot.json.
type Document struct {
	Version     int                  `json:"version"`
	Collections []CollectionDocument `json:"collections"`
}

// CollectionDocument is one collection's worth of a snapshot.
type CollectionDocument struct {
	Name         string          `json:"name"`
	Dimension    int             `json:"dimension"`
	StrictFinite bool            `json:"strict_finite"`
	Points       []PointDocument `json:"points"`
}

// PointDocument is one point's worth of a snapshot, including its payload.
type PointDocument struct {
	Id      collection.PointId `json:"id"`
	Values  collection.Vector  `json:"values"`
	Payload collection.Payload `json:"payload,omitempty"`
}

// FromRegistry builds a Document from the current state of registry.
func FromRegistry(registry *collection.Registry) Document {
	names := registry.Names()
	doc := Document{Version: Version, Collections: make([]CollectionDocument, 0, len(names))}
	for _, name := range names {
		c, err := registry.Get(name)
		if err != nil {
			continue
		}
		cd := CollectionDocument{
			Name:         c.Name(),
			Dimension:    c.Dimension(),
			StrictFinite: c.StrictFinite(),
		}
		c.ForEachPoint(func(id collection.PointId, values collection.Vector, payload collection.Payload) {
			cd.Points = append(cd.Points, PointDocument{Id: id, Values: append(collection.Vector(nil), values...), Payload: payload})
		})
		doc.Collections = append(doc.Collections, cd)
	}
	return doc
}

// Restore replays doc into a fresh registry. maxDimension/maxPoints mirror
// the process-wide validation ceilings applied at write time.
func Restore(doc Document, maxDimension, maxPoints int) (*collection.Registry, error) {
	if doc.Version != Version {
		return nil, fmt.Errorf("snapshot: unsupported version %d", doc.Version)
	}

	registry := collection.NewRegistry()
	seen := make(map[string]bool, len(doc.Collections))
	for _, cd := range doc.Collections {
		if seen[cd.Name] {
			return nil, fmt.Errorf("snapshot: duplicate collection %q", cd.Name)
		}
		seen[cd.Name] = true

		c, err := registry.Create(cd.Name, collection.Config{Dimension: cd.Dimension, StrictFinite: cd.StrictFinite}, maxDimension)
		if err != nil {
			return nil, fmt.Errorf("snapshot: restore collection %q: %w", cd.Name, err)
		}
		for _, pd := range cd.Points {
			if _, err := c.UpsertPoint(pd.Id, pd.Values, pd.Payload, maxPoints); err != nil {
				return nil, fmt.Errorf("snapshot: restore point %d in %q: %w", pd.Id, cd.Name, err)
			}
		}
	}
	return registry, nil
}

// Load reads the base snapshot at path, or returns an empty registry if it
// doesn't exist.
func Load(path string, maxDimension, maxPoints int) (*collection.Registry, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return collection.NewRegistry(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("snapshot: read %s: %w", path, err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("snapshot: parse %s: %w", path, err)
	}
	return Restore(doc, maxDimension, maxPoints)
}

// Write serializes registry to path atomically: the encoded document lands
// in a temp file first, then a rename replaces path in a single syscall so
// no partial snapshot is ever observable.
func Write(path string, registry *collection.Registry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("snapshot: ensure parent dir: %w", err)
	}

	doc := FromRegistry(registry)
	encoded, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("snapshot: encode: %w", err)
	}

	if err := atomic.WriteFile(path, bytes.NewReader(encoded)); err != nil {
		return fmt.Errorf("snapshot: atomic write %s: %w", path, err)
	}
	return nil
}
