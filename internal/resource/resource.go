// Package resource implements the process-wide byte budget gate writes
// check before admission.
package resource

import (
	"math"
	"sync/atomic"
)

// Manager tracks bytes reserved against a fixed budget using a lock-free
// compare-and-swap loop. A zero budget means unlimited: reservations always
// succeed and only move the usage counter for introspection.
type Manager struct {
	budgetBytes uint64
	usedBytes   atomic.Uint64
}

// New returns a Manager with the given budget and starting usage.
func New(budgetBytes, initialUsedBytes uint64) *Manager {
	m := &Manager{budgetBytes: budgetBytes}
	m.usedBytes.Store(initialUsedBytes)
	return m
}

// BudgetBytes returns the configured ceiling. Zero means unlimited.
func (m *Manager) BudgetBytes() uint64 { return m.budgetBytes }

// UsedBytes returns the current reservation total.
func (m *Manager) UsedBytes() uint64 { return m.usedBytes.Load() }

// TryReserve attempts to reserve bytes against the budget, returning false
// without side effects if doing so would exceed it.
func (m *Manager) TryReserve(bytes uint64) bool {
	if bytes == 0 {
		return true
	}
	if m.budgetBytes == 0 {
		m.usedBytes.Add(bytes)
		return true
	}

	for {
		current := m.usedBytes.Load()
		if current > math.MaxUint64-bytes {
			return false
		}
		next := current + bytes
		if next > m.budgetBytes {
			return false
		}
		if m.usedBytes.CompareAndSwap(current, next) {
			return true
		}
	}
}

// Release returns bytes to the budget, saturating at zero.
func (m *Manager) Release(bytes uint64) {
	if bytes == 0 {
		return
	}
	for {
		current := m.usedBytes.Load()
		next := current - bytes
		if bytes > current {
			next = 0
		}
		if m.usedBytes.CompareAndSwap(current, next) {
			return
		}
	}
}

// EstimatedVectorBytes returns the byte footprint a vector of the given
// dimension reserves: one float32 per component.
func EstimatedVectorBytes(dimension int) uint64 {
	if dimension < 0 {
		return 0
	}
	return uint64(dimension) * 4
}
