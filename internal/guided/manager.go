package guided

import (
	"errors"
	"sync"

	"pulsefit/fitness-tracker/internal/domain"
)

var (
	ErrSessionActive   = errors.New("guided: user already has an active session")
	ErrNoActiveSession = errors.New("guided: no active session for user")
)

// Manager tracks at most one live session per user. Sessions are in-memory
// only; finish and exit both drop the entry, and nothing mid-flight is ever
// persisted.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	clock Clock
	sched Scheduler
	cue   Cue
}

// NewManager creates a session manager with the given collaborators.
func NewManager(clock Clock, sched Scheduler, cue Cue) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		clock:    clock,
		sched:    sched,
		cue:      cue,
	}
}

// Start creates a session for the user. Fails if one is already running;
// the caller must exit the old session first.
func (m *Manager) Start(userID string, exercises []domain.ExerciseRef, cfg Config, cb Callbacks) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[userID]; ok {
		return nil, ErrSessionActive
	}

	// Wrap the host callbacks so the manager forgets the session on either
	// terminal action.
	wrapped := Callbacks{
		OnComplete: func(sum Summary) {
			m.remove(userID)
			if cb.OnComplete != nil {
				cb.OnComplete(sum)
			}
		},
		OnExit: func() {
			m.remove(userID)
			if cb.OnExit != nil {
				cb.OnExit()
			}
		},
	}

	sess, err := NewSession(exercises, cfg, m.clock, m.sched, m.cue, wrapped)
	if err != nil {
		return nil, err
	}
	m.sessions[userID] = sess
	return sess, nil
}

// Get returns the user's live session.
func (m *Manager) Get(userID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[userID]
	if !ok {
		return nil, ErrNoActiveSession
	}
	return sess, nil
}

func (m *Manager) remove(userID string) {
	m.mu.Lock()
	delete(m.sessions, userID)
	m.mu.Unlock()
}
