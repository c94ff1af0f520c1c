package engine

import "sync/atomic"

// DegradedGate is the engine's one-way failure latch: once a write-path
// invariant is violated after a durable WAL append, the engine trips into
// degraded mode and never recovers without a restart. A failed checkpoint
// does not trip it; that is only logged and counted.
// writepath.Coordinator talks to it only through the writepath.DegradedSetter
// interface.
type DegradedGate struct {
	tripped atomic.Bool
	reason  atomic.Value
}

// NewDegradedGate returns a gate in the healthy state.
func NewDegradedGate() *DegradedGate {
	return &DegradedGate{}
}

// Trip latches the gate closed. Only the first call's reason sticks.
func (g *DegradedGate) Trip(reason string) {
	if g.tripped.CompareAndSwap(false, true) {
		g.reason.Store(reason)
	}
}

// Tripped reports whether the gate has latched.
func (g *DegradedGate) Tripped() bool {
	return g.tripped.Load()
}

// Loaded reports whether the engine is still in its normal operating state;
// the inverse of Tripped, named for parity with readiness-probe language.
func (g *DegradedGate) Loaded() bool {
	return !g.tripped.Load()
}

// Reason returns the first trip's reason, or "" if never tripped.
func (g *DegradedGate) Reason() string {
	v := g.reason.Load()
	if v == nil {
		return ""
	}
	return v.(string)
}
