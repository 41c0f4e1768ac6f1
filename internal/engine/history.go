package engine

import (
	"sync"

	"advisim/internal/types"
)

// History records completed simulation results. Implementations must be
// safe for concurrent use; the Monte Carlo driver appends from multiple
// workers.
type History interface {
	Append(result *types.SimulationResult) error

	// Recent returns up to n results, newest first.
	Recent(n int) ([]*types.SimulationResult, error)

	// Len reports how many results are currently retained.
	Len() (int, error)
}

// RingHistory is a bounded in-memory history. When full, the oldest entry
// is evicted.
type RingHistory struct {
	mu       sync.Mutex
	buf      []*types.SimulationResult
	next     int
	count    int
	capacity int
}

// NewRingHistory creates a ring buffer history. Capacity must be positive;
// non-positive values fall back to 1000.
func NewRingHistory(capacity int) *RingHistory {
	if capacity <= 0 {
		capacity = 1000
	}
	return &RingHistory{
		buf:      make([]*types.SimulationResult, capacity),
		capacity: capacity,
	}
}

// Append implements History.
func (h *RingHistory) Append(result *types.SimulationResult) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.buf[h.next] = result
	h.next = (h.next + 1) % h.capacity
	if h.count < h.capacity {
		h.count++
	}
	return nil
}

// Recent implements History.
func (h *RingHistory) Recent(n int) ([]*types.SimulationResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if n > h.count {
		n = h.count
	}
	out := make([]*types.SimulationResult, 0, n)
	idx := h.next - 1
	for i := 0; i < n; i++ {
		if idx < 0 {
			idx += h.capacity
		}
		out = append(out, h.buf[idx])
		idx--
	}
	return out, nil
}

// Len implements History.
func (h *RingHistory) Len() (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.count, nil
}
