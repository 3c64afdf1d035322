package inmemory

import (
	"sync"

	"github.com/fllarpy/memory-probe/domain/memory"
)

// History is a goroutine-safe, bounded FIFO of memory snapshots. Once the
// capacity is exceeded the oldest entries are evicted first.
type History struct {
	mu       sync.Mutex
	capacity int
	snaps    []memory.MemorySnapshot
}

// NewHistory creates a history bounded to the given capacity. A capacity
// below 1 is treated as 1.
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{
		capacity: capacity,
		snaps:    make([]memory.MemorySnapshot, 0, capacity),
	}
}

// Add appends a snapshot, evicting the oldest entries to stay within
// capacity.
func (h *History) Add(snapshot memory.MemorySnapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.snaps = append(h.snaps, snapshot)
	if excess := len(h.snaps) - h.capacity; excess > 0 {
		h.snaps = append(h.snaps[:0], h.snaps[excess:]...)
	}
}

// Last returns a copy of the most recent n snapshots, oldest first. It
// returns fewer entries when the history holds fewer than n.
func (h *History) Last(n int) []memory.MemorySnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()

	if n > len(h.snaps) {
		n = len(h.snaps)
	}
	out := make([]memory.MemorySnapshot, n)
	copy(out, h.snaps[len(h.snaps)-n:])
	return out
}

// Len reports the number of retained snapshots.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.snaps)
}

// Clear drops all retained snapshots.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.snaps = h.snaps[:0]
}
