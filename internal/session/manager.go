package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Manager keeps open sessions by id.
type Manager struct {
	svc    Tracker
	logger *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a session manager over svc.
func NewManager(svc Tracker, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Manager{
		svc:      svc,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// Open loads a project into a new session and registers it.
func (m *Manager) Open(ctx context.Context, projectID int64) (*Session, error) {
	id := uuid.NewString()
	sess, err := Open(ctx, m.svc, id, projectID, m.logger)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.sessions[id] = sess
	m.mu.Unlock()

	m.logger.Debug("session opened", "session_id", id, "project_id", projectID)
	return sess, nil
}

// Get returns an open session.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sess, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Close unregisters a session and ends its subscriptions.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	sess, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	sess.close()
	m.logger.Debug("session closed", "session_id", id)
	return nil
}

// CloseProject closes every session opened on a project. It is used after
// the project is deleted.
func (m *Manager) CloseProject(projectID int64) int {
	m.mu.Lock()
	var closing []*Session
	for id, sess := range m.sessions {
		if sess.ProjectID() == projectID {
			closing = append(closing, sess)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, sess := range closing {
		sess.close()
	}
	return len(closing)
}

// Len returns the number of open sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
