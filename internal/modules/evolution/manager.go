package evolution

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/qubitlab/qubitlab/internal/domain"
	"github.com/qubitlab/qubitlab/internal/modules/noise"
)

// maxSessions caps concurrent sessions so an unattended browser tab cannot
// grow the process without bound.
const maxSessions = 256

// Manager tracks live sessions by ID.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	log      zerolog.Logger
}

// NewManager creates an empty session manager.
func NewManager(log zerolog.Logger) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		log:      log.With().Str("component", "evolution").Logger(),
	}
}

// Create makes a new paused session and returns it.
func (m *Manager) Create(seed domain.BlochVector, params noise.Params) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.sessions) >= maxSessions {
		return nil, fmt.Errorf("session limit reached (%d)", maxSessions)
	}

	s, err := NewSession(uuid.New().String(), seed, params)
	if err != nil {
		return nil, err
	}
	m.sessions[s.ID()] = s
	m.log.Debug().Str("session", s.ID()).Msg("Session created")
	return s, nil
}

// Get returns the session with the given ID, or false.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Delete removes a session. Deleting an unknown ID is a no-op.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep removes sessions idle for longer than ttl and returns how many were
// dropped. Run periodically from the background scheduler.
func (m *Manager) Sweep(ttl time.Duration) int {
	cutoff := time.Now().Add(-ttl)

	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, s := range m.sessions {
		if s.IdleSince().Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		m.log.Info().Int("removed", removed).Msg("Swept idle sessions")
	}
	return removed
}
