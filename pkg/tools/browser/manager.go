package browser

import (
	"sync"

	"github.com/quantfold/scout/pkg/logging"
)

// Manager is the process-wide registry of browser sessions, keyed by
// session id. Sessions are created on first reference and live until their
// close action or CloseAll.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	factory  DriverFactory
	opts     SessionOptions
	logger   *logging.Logger
}

// NewManager creates a session registry. Every session launches its own
// driver through the given factory.
func NewManager(factory DriverFactory, opts SessionOptions, logger *logging.Logger) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		factory:  factory,
		opts:     opts,
		logger:   logger,
	}
}

// Session returns the session with the given id, creating it if needed.
// An empty id maps to the default session.
func (m *Manager) Session(id string) *Session {
	if id == "" {
		id = DefaultSessionID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if session, ok := m.sessions[id]; ok {
		return session
	}

	session := NewSession(id, m.factory, m.opts, m.logger)
	m.sessions[id] = session
	return session
}

// CloseAll tears down every session. The first teardown error is returned;
// remaining sessions are still closed.
func (m *Manager) CloseAll() error {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		sessions = append(sessions, session)
	}
	m.mu.Unlock()

	var firstErr error
	for _, session := range sessions {
		if err := session.Teardown(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
