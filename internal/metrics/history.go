package metrics

import "sync"

// DefaultHistoryCapacity bounds how many snapshots are retained.
const DefaultHistoryCapacity = 100

// History is a fixed-capacity chronological buffer of snapshots. Push evicts
// the oldest entry once the buffer is full. Reads share an RWMutex with the
// single writer: any number of Snapshots calls proceed together, none overlap
// a Push. The lock is never held across I/O.
type History struct {
	mu       sync.RWMutex
	buf      []Snapshot
	start    int // index of oldest entry
	size     int
	capacity int
}

// NewHistory creates an empty buffer. Capacity must be positive; zero or
// negative falls back to DefaultHistoryCapacity.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}
	return &History{
		buf:      make([]Snapshot, capacity),
		capacity: capacity,
	}
}

// Push appends s, evicting the oldest snapshot when the buffer is full.
func (h *History) Push(s Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.size < h.capacity {
		h.buf[(h.start+h.size)%h.capacity] = s
		h.size++
		return
	}
	// Full: overwrite the oldest slot and advance the start.
	h.buf[h.start] = s
	h.start = (h.start + 1) % h.capacity
}

// Snapshots returns a defensive copy of the buffer, oldest first. Callers may
// hold the returned slice indefinitely; later pushes are never observable
// through it.
func (h *History) Snapshots() []Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]Snapshot, h.size)
	for i := 0; i < h.size; i++ {
		out[i] = h.buf[(h.start+i)%h.capacity]
	}
	return out
}

// Len returns the number of retained snapshots.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.size
}
