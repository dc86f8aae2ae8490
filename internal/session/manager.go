package session

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"listinha/internal/audit"
	"listinha/internal/gateway"
)

// Manager holds one Session per browser, keyed by the session cookie.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	store  gateway.Store
	audit  *audit.Publisher
	logger *slog.Logger
}

func NewManager(store gateway.Store, aud *audit.Publisher, logger *slog.Logger) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		store:    store,
		audit:    aud,
		logger:   logger,
	}
}

// Get returns the session for the given id, creating a fresh one seeded with
// prefs when the id is unknown. An empty id always creates a new session and
// returns its generated id.
func (m *Manager) Get(id string, prefs Prefs) (*Session, string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id != "" {
		if s, ok := m.sessions[id]; ok {
			return s, id
		}
	}
	if id == "" {
		id = uuid.NewString()
	}
	s := New(m.store, m.audit, m.logger.With("session_id", id), prefs)
	m.sessions[id] = s
	return s, id
}
