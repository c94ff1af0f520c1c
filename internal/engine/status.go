package engine

import "vecdb-go/internal/backlog"

// Status is the snapshot /healthz and /readyz report: liveness never
// depends on persistence state, readiness does.
type Status struct {
	Live            bool
	Ready           bool
	DegradedReason  string
	ResourceBudget  uint64
	ResourceUsed    uint64
	PersistenceLag  backlog.Snapshot
	CollectionCount int
}

// Live always reports true once the engine is constructed: the process
// accepting a liveness probe is itself the liveness signal.
func (e *Engine) Live() bool { return true }

// Ready reports false once the degraded gate has tripped.
func (e *Engine) Ready() bool { return !e.degraded.Tripped() }

// Status gathers a full status snapshot for the /readyz endpoint.
func (e *Engine) Status() Status {
	return Status{
		Live:            e.Live(),
		Ready:           e.Ready(),
		DegradedReason:  e.degraded.Reason(),
		ResourceBudget:  e.resources.BudgetBytes(),
		ResourceUsed:    e.resources.UsedBytes(),
		PersistenceLag:  e.backlog.Snapshot(),
		CollectionCount: len(e.registry.Names()),
	}
}
