// Package collection implements the core data model and point-store
// operations: PointId, Vector, Payload, CollectionConfig, Collection, and
// CollectionRegistry.
package collection

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"sync"
)

// PointId addresses a single vector within a collection.
type PointId = uint64

// Vector is an ordered sequence of float32 components.
type Vector = []float32

// MetadataValue is one of: nil, bool, int64, float64, string, or []MetadataValue.
// Missing payload keys and a nil Payload are both treated as "no value".
type MetadataValue = any

// Payload maps string keys to metadata values. A nil Payload is equivalent to
// an empty one.
type Payload map[string]MetadataValue

// AsF64 attempts a numeric coercion of v, so that numeric values compare by
// numeric value regardless of encoding, the rule range filters rely on.
// Returns ok=false for non-numeric values.
func AsF64(v MetadataValue) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	default:
		return 0, false
	}
}

var (
	ErrDimensionMismatch  = errors.New("collection: vector length does not match collection dimension")
	ErrNonFinite          = errors.New("collection: vector contains a non-finite component")
	ErrPointLimitExceeded = errors.New("collection: point count would exceed the per-collection limit")
	ErrInvalidName        = errors.New("collection: invalid collection name")
	ErrAlreadyExists      = errors.New("collection: already exists")
	ErrNotFound           = errors.New("collection: not found")
)

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

// ValidateName reports whether name is a legal, canonical collection name.
func ValidateName(name string) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// Config is the immutable configuration attached to a collection at
// creation time.
type Config struct {
	Dimension    int
	StrictFinite bool
}

// Validate checks a configuration against the process-wide dimension ceiling.
func (c Config) Validate(maxDimension int) error {
	if c.Dimension <= 0 {
		return fmt.Errorf("%w: dimension must be positive, got %d", ErrDimensionMismatch, c.Dimension)
	}
	if maxDimension > 0 && c.Dimension > maxDimension {
		return fmt.Errorf("%w: dimension %d exceeds max_dimension %d", ErrDimensionMismatch, c.Dimension, maxDimension)
	}
	return nil
}

func validateVector(values Vector, dimension int, strictFinite bool) error {
	if len(values) != dimension {
		return fmt.Errorf("%w: expected %d, got %d", ErrDimensionMismatch, dimension, len(values))
	}
	if strictFinite && !allFinite(values) {
		return ErrNonFinite
	}
	return nil
}

func allFinite(values Vector) bool {
	for _, v := range values {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

// point is the stored (values, payload) pair for a single PointId.
type point struct {
	values  Vector
	payload Payload
}

// UpsertOutcome reports whether an upsert created a new point or updated an
// existing one.
type UpsertOutcome int

const (
	Created UpsertOutcome = iota
	Updated
)

// Collection owns a single named set of points sharing one Config.
type Collection struct {
	mu     sync.RWMutex
	name   string
	config Config
	points map[PointId]*point
}

// New creates an empty collection. The name is assumed already validated.
func New(name string, config Config) *Collection {
	return &Collection{
		name:   name,
		config: config,
		points: make(map[PointId]*point),
	}
}

func (c *Collection) Name() string         { return c.name }
func (c *Collection) Config() Config       { return c.config }
func (c *Collection) Dimension() int       { return c.config.Dimension }
func (c *Collection) StrictFinite() bool   { return c.config.StrictFinite }

// Len returns the current point count.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.points)
}

// UpsertPoint validates and stores (or replaces) a point. maxPoints <= 0
// means unlimited.
func (c *Collection) UpsertPoint(id PointId, values Vector, payload Payload, maxPoints int) (UpsertOutcome, error) {
	if err := validateVector(values, c.config.Dimension, c.config.StrictFinite); err != nil {
		return Created, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	existing, exists := c.points[id]
	if !exists && maxPoints > 0 && len(c.points) >= maxPoints {
		return Created, ErrPointLimitExceeded
	}

	storedValues := append(Vector(nil), values...)
	var storedPayload Payload
	if len(payload) > 0 {
		storedPayload = make(Payload, len(payload))
		for k, v := range payload {
			storedPayload[k] = v
		}
	}

	if exists {
		existing.values = storedValues
		existing.payload = storedPayload
		return Updated, nil
	}

	c.points[id] = &point{values: storedValues, payload: storedPayload}
	return Created, nil
}

// Precheck validates values against the collection's dimension/finiteness
// rules and the point-count ceiling without mutating anything, so a writer
// can reject a bad request before it ever reaches the WAL. maxPoints <= 0
// means unlimited.
func (c *Collection) Precheck(id PointId, values Vector, maxPoints int) error {
	if err := validateVector(values, c.config.Dimension, c.config.StrictFinite); err != nil {
		return err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if _, exists := c.points[id]; !exists && maxPoints > 0 && len(c.points) >= maxPoints {
		return ErrPointLimitExceeded
	}
	return nil
}

// RemovePoint deletes a point, reporting whether it existed.
func (c *Collection) RemovePoint(id PointId) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.points[id]; !ok {
		return false
	}
	delete(c.points, id)
	return true
}

// GetPoint returns a copy of the stored values and payload for id.
func (c *Collection) GetPoint(id PointId) (Vector, Payload, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.points[id]
	if !ok {
		return nil, nil, false
	}
	return append(Vector(nil), p.values...), clonePayload(p.payload), true
}

func clonePayload(p Payload) Payload {
	if len(p) == 0 {
		return nil
	}
	out := make(Payload, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// PointIds returns every point id in ascending order.
func (c *Collection) PointIds() []PointId {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]PointId, 0, len(c.points))
	for id := range c.points {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// PointIdsPage returns a deterministic, ascending-PointId page of ids.
func (c *Collection) PointIdsPage(offset, limit int) ([]PointId, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("collection: limit must be positive")
	}
	ids := c.PointIds()
	if offset > len(ids) {
		return nil, fmt.Errorf("collection: offset %d beyond %d points", offset, len(ids))
	}
	end := offset + limit
	if end > len(ids) {
		end = len(ids)
	}
	return ids[offset:end], nil
}

// ForEachPoint invokes fn for every point in ascending PointId order. fn must
// not mutate the collection.
func (c *Collection) ForEachPoint(fn func(id PointId, values Vector, payload Payload)) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]PointId, 0, len(c.points))
	for id := range c.points {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		p := c.points[id]
		fn(id, p.values, p.payload)
	}
}
