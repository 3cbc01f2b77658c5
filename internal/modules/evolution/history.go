// Package evolution owns the live side of the simulation: per-session Bloch
// state, the bounded snapshot history that backs scrubbing, and the manager
// that tracks sessions for the HTTP layer.
package evolution

import (
	"github.com/qubitlab/qubitlab/internal/domain"
)

// DefaultHistoryCapacity bounds each session's snapshot history. At one
// snapshot per step this covers about ten seconds of evolution at 60 steps
// per second.
const DefaultHistoryCapacity = 600

// History is a capacity-bounded, insertion-ordered snapshot buffer. On
// overflow the oldest entry is dropped, so indices are relative to the
// current buffer and must not be cached across appends.
type History struct {
	capacity int
	entries  []domain.BlochVector
}

// NewHistory creates a buffer seeded with the initial state.
func NewHistory(capacity int, seed domain.BlochVector) *History {
	if capacity < 1 {
		capacity = DefaultHistoryCapacity
	}
	h := &History{capacity: capacity}
	h.Reset(seed)
	return h
}

// Append records a snapshot, evicting the oldest entry when full.
func (h *History) Append(v domain.BlochVector) {
	if len(h.entries) >= h.capacity {
		copy(h.entries, h.entries[1:])
		h.entries[len(h.entries)-1] = v
		return
	}
	h.entries = append(h.entries, v)
}

// Reset replaces the whole buffer with a singleton containing seed.
func (h *History) Reset(seed domain.BlochVector) {
	h.entries = append(h.entries[:0], seed)
}

// At returns the snapshot at index i, clamped into the valid range.
func (h *History) At(i int) domain.BlochVector {
	if i < 0 {
		i = 0
	}
	if i >= len(h.entries) {
		i = len(h.entries) - 1
	}
	return h.entries[i]
}

// Len returns the number of stored snapshots.
func (h *History) Len() int {
	return len(h.entries)
}

// Slice returns a copy of up to limit entries starting at from, clamped to
// the buffer bounds. A non-positive limit returns everything from the offset.
func (h *History) Slice(from, limit int) []domain.BlochVector {
	if from < 0 {
		from = 0
	}
	if from >= len(h.entries) {
		return []domain.BlochVector{}
	}
	end := len(h.entries)
	if limit > 0 && from+limit < end {
		end = from + limit
	}
	out := make([]domain.BlochVector, end-from)
	copy(out, h.entries[from:end])
	return out
}
