package session

import (
	"fmt"
	"sync"

	"github.com/cory-johannsen/craps/internal/game/command"
)

// RunSummary condenses a session for reporting once play stops.
type RunSummary struct {
	SessionID string  `json:"session_id"`
	Hands     int     `json:"hands"`
	Rolls     int     `json:"rolls"`
	Bankroll  float64 `json:"bankroll"`
	Net       float64 `json:"net"`
	// OpenWagers is the money still on the layout when the run stopped.
	OpenWagers float64 `json:"open_wagers"`
}

// Summary reports the session's standing.
func (s *Session) Summary() RunSummary {
	return RunSummary{
		SessionID:  s.ID,
		Hands:      s.HandID,
		Rolls:      s.table.Dice.NRolls,
		Bankroll:   s.player.Bankroll,
		Net:        s.player.Bankroll - s.bankrollStart,
		OpenWagers: s.player.TotalWagered(),
	}
}

// Manager tracks active sessions and serializes command application.
// All methods are safe for concurrent use.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates an empty session Manager.
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Add registers a session.
//
// Postcondition: Returns an error if the session ID is already registered.
func (m *Manager) Add(s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.sessions[s.ID]; exists {
		return fmt.Errorf("session %q already registered", s.ID)
	}
	m.sessions[s.ID] = s
	return nil
}

// Remove drops a session from tracking.
//
// Postcondition: Returns an error if the session is not found.
func (m *Manager) Remove(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.sessions[id]; !exists {
		return fmt.Errorf("session %q not found", id)
	}
	delete(m.sessions, id)
	return nil
}

// Get returns the session for the given ID.
//
// Postcondition: Returns (session, true) if found, or (nil, false).
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Count returns the number of tracked sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Apply routes an envelope to its session under the manager's lock, so
// concurrent callers never interleave commands on one table.
//
// Postcondition: Returns the session's Effect, or an error if the
// session is unknown or the command was rejected.
func (m *Manager) Apply(id string, env *command.Envelope) (Effect, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return Effect{}, fmt.Errorf("session %q not found", id)
	}
	return s.Apply(env)
}
