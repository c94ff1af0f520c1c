package engine

import (
	"vecdb-go/internal/apierr"
	"vecdb-go/internal/collection"
)

// CollectionInfo summarizes a collection for list/describe operations.
type CollectionInfo struct {
	Name         string
	Dimension    int
	StrictFinite bool
	PointCount   int
}

// CreateCollection creates a new collection, durably logging it first.
func (e *Engine) CreateCollection(name string, dimension int, strictFinite bool) (CollectionInfo, *apierr.Error) {
	c, err := e.writer.CreateCollection(name, dimension, strictFinite)
	if err != nil {
		return CollectionInfo{}, err
	}
	return collectionInfo(c), nil
}

// DeleteCollection removes a collection, reporting whether it existed.
func (e *Engine) DeleteCollection(name string) (bool, *apierr.Error) {
	existed, err := e.writer.DeleteCollection(name)
	if existed {
		e.index.Discard(name)
	}
	return existed, err
}

// GetCollection describes a single collection.
func (e *Engine) GetCollection(name string) (CollectionInfo, *apierr.Error) {
	c, err := e.registry.Get(name)
	if err != nil {
		return CollectionInfo{}, apierr.NotFound("collection not found: " + name)
	}
	return collectionInfo(c), nil
}

// ListCollections returns every collection name in sorted order.
func (e *Engine) ListCollections() []string {
	return e.registry.Names()
}

func collectionInfo(c *collection.Collection) CollectionInfo {
	return CollectionInfo{
		Name:         c.Name(),
		Dimension:    c.Dimension(),
		StrictFinite: c.StrictFinite(),
		PointCount:   c.Len(),
	}
}

// UpsertPoint creates or replaces a point, triggering an index rebuild once
// the collection is large enough to benefit from one.
func (e *Engine) UpsertPoint(collName string, id collection.PointId, values collection.Vector, payload collection.Payload) (collection.UpsertOutcome, *apierr.Error) {
	outcome, err := e.writer.UpsertPoint(collName, id, values, payload)
	if err == nil {
		if c, getErr := e.registry.Get(collName); getErr == nil {
			e.index.TriggerBuild(c)
		}
	}
	return outcome, err
}

// DeletePoint removes a point, reporting whether it existed.
func (e *Engine) DeletePoint(collName string, id collection.PointId) (bool, *apierr.Error) {
	removed, err := e.writer.DeletePoint(collName, id)
	if removed {
		if c, getErr := e.registry.Get(collName); getErr == nil {
			e.index.TriggerBuild(c)
		}
	}
	return removed, err
}

// GetPoint returns a single point's stored values and payload.
func (e *Engine) GetPoint(collName string, id collection.PointId) (collection.Vector, collection.Payload, *apierr.Error) {
	c, err := e.registry.Get(collName)
	if err != nil {
		return nil, nil, apierr.NotFound("collection not found: " + collName)
	}
	values, payload, ok := c.GetPoint(id)
	if !ok {
		return nil, nil, apierr.NotFound("point not found")
	}
	return values, payload, nil
}

// ListPointIds returns a page of ascending point ids. A non-positive limit
// defaults to the configured max page size, and a larger one is clamped to it.
func (e *Engine) ListPointIds(collName string, offset, limit int) ([]collection.PointId, *apierr.Error) {
	c, err := e.registry.Get(collName)
	if err != nil {
		return nil, apierr.NotFound("collection not found: " + collName)
	}
	if limit <= 0 || limit > e.cfg.Database.MaxPageLimit {
		limit = e.cfg.Database.MaxPageLimit
	}
	ids, pageErr := c.PointIdsPage(offset, limit)
	if pageErr != nil {
		return nil, apierr.InvalidArgument(pageErr.Error())
	}
	return ids, nil
}

// CountPoints returns the live point count for a collection.
func (e *Engine) CountPoints(collName string) (int, *apierr.Error) {
	c, err := e.registry.Get(collName)
	if err != nil {
		return 0, apierr.NotFound("collection not found: " + collName)
	}
	return c.Len(), nil
}
