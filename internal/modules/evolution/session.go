package evolution

import (
	"fmt"
	"sync"
	"time"

	"github.com/qubitlab/qubitlab/internal/domain"
	"github.com/qubitlab/qubitlab/internal/modules/noise"
)

// Session is one evolving qubit: current vector, noise params, running flag
// and snapshot history. All operations serialize on the session mutex, so a
// websocket ticker and REST mutations can share a session safely; within one
// Advance call stepping is synchronous end to end.
type Session struct {
	mu sync.Mutex

	id      string
	vector  domain.BlochVector
	params  noise.Params
	running bool
	history *History

	lastTouch time.Time
}

// Snapshot is the externally visible session state.
type Snapshot struct {
	ID            string             `json:"id"`
	Vector        domain.BlochVector `json:"vector"`
	Params        noise.Params       `json:"params"`
	Running       bool               `json:"running"`
	HistoryLength int                `json:"historyLength"`
}

// NewSession creates a paused session seeded with the given state.
func NewSession(id string, seed domain.BlochVector, params noise.Params) (*Session, error) {
	if !seed.IsFinite() {
		return nil, fmt.Errorf("non-finite seed vector")
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Session{
		id:        id,
		vector:    seed.Clamp(),
		params:    params,
		history:   NewHistory(DefaultHistoryCapacity, seed.Clamp()),
		lastTouch: time.Now(),
	}, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Start resumes periodic stepping. No-op if already running.
func (s *Session) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = true
	s.lastTouch = time.Now()
}

// Pause halts periodic stepping. No-op if already paused.
func (s *Session) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	s.lastTouch = time.Now()
}

// ResetTo replaces the current vector and the entire history with the given
// state, leaving the session paused.
func (s *Session) ResetTo(v domain.BlochVector) error {
	if !v.IsFinite() {
		return fmt.Errorf("non-finite reset vector")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vector = v.Clamp()
	s.history.Reset(s.vector)
	s.running = false
	s.lastTouch = time.Now()
	return nil
}

// SetParams swaps the noise configuration; it takes effect on the next step.
func (s *Session) SetParams(p noise.Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params = p
	s.lastTouch = time.Now()
	return nil
}

// ScrubToIndex pauses evolution and shows the historical snapshot at index i
// without mutating the history. Out-of-range indices clamp to the buffer.
func (s *Session) ScrubToIndex(i int) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	s.vector = s.history.At(i)
	s.lastTouch = time.Now()
	return s.snapshotLocked()
}

// Advance runs the steps owed for the elapsed wall time, appending each
// result to history. A paused session ignores the tick. Returns the resulting
// snapshot and the number of steps taken.
func (s *Session) Advance(elapsed time.Duration) (Snapshot, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return s.snapshotLocked(), 0, nil
	}

	steps := noise.StepsFor(elapsed, noise.DT, s.params.Speed)
	for i := 0; i < steps; i++ {
		next, err := noise.Step(s.vector, s.params)
		if err != nil {
			// A bad step never reaches history; pause so the UI surfaces it.
			s.running = false
			return s.snapshotLocked(), i, err
		}
		s.vector = next
		s.history.Append(next)
	}
	s.lastTouch = time.Now()
	return s.snapshotLocked(), steps, nil
}

// Snapshot returns the current session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// HistorySlice copies out a history window for the scrub UI.
func (s *Session) HistorySlice(from, limit int) []domain.BlochVector {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Slice(from, limit)
}

// IdleSince reports the last time the session was touched.
func (s *Session) IdleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastTouch
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		ID:            s.id,
		Vector:        s.vector,
		Params:        s.params,
		Running:       s.running,
		HistoryLength: s.history.Len(),
	}
}
