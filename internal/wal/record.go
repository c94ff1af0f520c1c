// Package wal implements the write-ahead log: append-only JSONL records,
// group-commit batching, periodic/threshold fsync policy, and replay with
// torn-tail tolerance.
package wal

import (
	"encoding/json"
	"fmt"

	"vecdb-go/internal/collection"
)

// RecordType identifies which WalRecord variant a line encodes.
type RecordType string

const (
	CreateCollection RecordType = "create_collection"
	DeleteCollection RecordType = "delete_collection"
	UpsertPoint      RecordType = "upsert_point"
	DeletePoint      RecordType = "delete_point"
)

// BinaryMagic is a reserved 8-byte sentinel set aside for a hypothetical
// non-text WAL encoding. This package never writes it; the
// backlog observer in internal/backlog recognizes it on read to treat a
// WAL as closed-tail.
const BinaryMagic = "AIONWAL1"

// Record is the tagged union appended to the WAL. Exactly one of the
// variant-specific field groups is populated, selected by Type.
type Record struct {
	Type RecordType `json:"type"`

	// CreateCollection
	Name         string `json:"name,omitempty"`
	Dimension    int    `json:"dimension,omitempty"`
	StrictFinite bool   `json:"strict_finite,omitempty"`

	// UpsertPoint / DeletePoint
	Collection string             `json:"collection,omitempty"`
	Id         collection.PointId `json:"id,omitempty"`
	Values     collection.Vector  `json:"values,omitempty"`
	Payload    collection.Payload `json:"payload,omitempty"`
}

// NewCreateCollection builds a CreateCollection record.
func NewCreateCollection(name string, dimension int, strictFinite bool) Record {
	return Record{Type: CreateCollection, Name: name, Dimension: dimension, StrictFinite: strictFinite}
}

// NewDeleteCollection builds a DeleteCollection record.
func NewDeleteCollection(name string) Record {
	return Record{Type: DeleteCollection, Name: name}
}

// NewUpsertPoint builds an UpsertPoint record.
func NewUpsertPoint(collName string, id collection.PointId, values collection.Vector, payload collection.Payload) Record {
	return Record{Type: UpsertPoint, Collection: collName, Id: id, Values: values, Payload: payload}
}

// NewDeletePoint builds a DeletePoint record.
func NewDeletePoint(collName string, id collection.PointId) Record {
	return Record{Type: DeletePoint, Collection: collName, Id: id}
}

func (r Record) encodeLine() ([]byte, error) {
	line, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("wal: encode record: %w", err)
	}
	line = append(line, '\n')
	return line, nil
}

// Apply replays a single record against the registry, mirroring the effect
// the write path already applied in memory when the record was first
// produced. maxPoints is the process-wide per-collection point ceiling used
// to re-validate UpsertPoint during recovery.
func Apply(registry *collection.Registry, maxDimension, maxPoints int, r Record) error {
	switch r.Type {
	case CreateCollection:
		_, err := registry.Create(r.Name, collection.Config{Dimension: r.Dimension, StrictFinite: r.StrictFinite}, maxDimension)
		return err

	case DeleteCollection:
		registry.Delete(r.Name)
		return nil

	case UpsertPoint:
		c, err := registry.Get(r.Collection)
		if err != nil {
			return err
		}
		_, err = c.UpsertPoint(r.Id, r.Values, r.Payload, maxPoints)
		return err

	case DeletePoint:
		c, err := registry.Get(r.Collection)
		if err != nil {
			return err
		}
		c.RemovePoint(r.Id)
		return nil

	default:
		return fmt.Errorf("wal: unknown record type %q", r.Type)
	}
}
