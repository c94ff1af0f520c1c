package writepath

import (
	"errors"

	"vecdb-go/internal/apierr"
	"vecdb-go/internal/collection"
	"vecdb-go/internal/metrics"
	"vecdb-go/internal/resource"
	"vecdb-go/internal/wal"
)

// CreateCollection admits, durably logs, then applies a new collection,
// following the "WAL before in-memory" ordering every write-path operation
// in this file uses.
func (co *Coordinator) CreateCollection(name string, dimension int, strictFinite bool) (*collection.Collection, *apierr.Error) {
	mu := co.slot(name)
	mu.Lock()
	defer mu.Unlock()

	if err := collection.ValidateName(name); err != nil {
		return nil, apierr.InvalidArgument(err.Error())
	}
	cfg := collection.Config{Dimension: dimension, StrictFinite: strictFinite}
	if err := cfg.Validate(co.opts.MaxDimension); err != nil {
		return nil, apierr.InvalidArgument(err.Error())
	}
	if _, err := co.registry.Get(name); err == nil {
		metrics.WriteRequestsTotal.WithLabelValues("rejected").Inc()
		return nil, apierr.Conflict("collection already exists: " + name)
	}

	if _, err := co.durableAppend(wal.NewCreateCollection(name, dimension, strictFinite)); err != nil {
		metrics.WriteRequestsTotal.WithLabelValues("rejected").Inc()
		return nil, apierr.Internal("failed to durably log create_collection", err)
	}

	c, err := co.registry.Create(name, cfg, co.opts.MaxDimension)
	if err != nil {
		metrics.WriteRequestsTotal.WithLabelValues("degraded").Inc()
		return nil, co.tripDegraded("create_collection applied to WAL but rejected by registry: " + err.Error())
	}
	metrics.WriteRequestsTotal.WithLabelValues("applied").Inc()
	return c, nil
}

// DeleteCollection durably logs and applies removal of name, reporting
// whether it existed.
func (co *Coordinator) DeleteCollection(name string) (bool, *apierr.Error) {
	mu := co.slot(name)
	mu.Lock()
	defer mu.Unlock()

	if _, err := co.registry.Get(name); err != nil {
		return false, nil
	}

	if _, err := co.durableAppend(wal.NewDeleteCollection(name)); err != nil {
		metrics.WriteRequestsTotal.WithLabelValues("rejected").Inc()
		return false, apierr.Internal("failed to durably log delete_collection", err)
	}

	existed := co.registry.Delete(name)
	metrics.WriteRequestsTotal.WithLabelValues("applied").Inc()
	return existed, nil
}

// UpsertPoint admits, durably logs, then applies a point write. New points
// reserve resource-manager budget for their vector footprint; updates do
// not, since the dimension (and so the byte footprint) cannot change.
func (co *Coordinator) UpsertPoint(collName string, id collection.PointId, values collection.Vector, payload collection.Payload) (collection.UpsertOutcome, *apierr.Error) {
	mu := co.slot(collName)
	mu.Lock()
	defer mu.Unlock()

	c, err := co.registry.Get(collName)
	if err != nil {
		return collection.Created, apierr.NotFound("collection not found: " + collName)
	}

	if err := c.Precheck(id, values, co.opts.MaxPointsPerCollection); err != nil {
		metrics.WriteRequestsTotal.WithLabelValues("rejected").Inc()
		if errors.Is(err, collection.ErrPointLimitExceeded) {
			return collection.Created, apierr.FailedPrecondition(err.Error())
		}
		return collection.Created, apierr.InvalidArgument(err.Error())
	}

	_, _, exists := c.GetPoint(id)
	isCreate := !exists
	bytesNeeded := resource.EstimatedVectorBytes(len(values))
	if isCreate && !co.resources.TryReserve(bytesNeeded) {
		metrics.WriteRequestsTotal.WithLabelValues("rejected").Inc()
		return collection.Created, apierr.ResourceExhausted("memory budget exhausted")
	}
	metrics.ResourceManagerUsedBytes.Set(float64(co.resources.UsedBytes()))

	if _, err := co.durableAppend(wal.NewUpsertPoint(collName, id, values, payload)); err != nil {
		if isCreate {
			co.resources.Release(bytesNeeded)
		}
		metrics.WriteRequestsTotal.WithLabelValues("rejected").Inc()
		return collection.Created, apierr.Internal("failed to durably log upsert_point", err)
	}

	outcome, err := c.UpsertPoint(id, values, payload, co.opts.MaxPointsPerCollection)
	if err != nil {
		if isCreate {
			co.resources.Release(bytesNeeded)
		}
		metrics.WriteRequestsTotal.WithLabelValues("degraded").Inc()
		return collection.Created, co.tripDegraded("upsert_point applied to WAL but rejected by collection: " + err.Error())
	}
	metrics.WriteRequestsTotal.WithLabelValues("applied").Inc()
	return outcome, nil
}

// DeletePoint durably logs and applies removal of id from collName,
// releasing its reserved budget on success.
func (co *Coordinator) DeletePoint(collName string, id collection.PointId) (bool, *apierr.Error) {
	mu := co.slot(collName)
	mu.Lock()
	defer mu.Unlock()

	c, err := co.registry.Get(collName)
	if err != nil {
		return false, apierr.NotFound("collection not found: " + collName)
	}

	values, _, exists := c.GetPoint(id)
	if !exists {
		return false, nil
	}

	if _, err := co.durableAppend(wal.NewDeletePoint(collName, id)); err != nil {
		metrics.WriteRequestsTotal.WithLabelValues("rejected").Inc()
		return false, apierr.Internal("failed to durably log delete_point", err)
	}

	removed := c.RemovePoint(id)
	if removed {
		co.resources.Release(resource.EstimatedVectorBytes(len(values)))
		metrics.ResourceManagerUsedBytes.Set(float64(co.resources.UsedBytes()))
	}
	metrics.WriteRequestsTotal.WithLabelValues("applied").Inc()
	return removed, nil
}
