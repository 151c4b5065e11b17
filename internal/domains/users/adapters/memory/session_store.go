package memory

import (
	"context"
	"sync"
	"time"

	"github.com/ifan/go-mall-api/internal/domains/users/ports"
)

var _ ports.SessionStore = (*SessionStore)(nil)

// DefaultSessionTTL bounds session lifetime when none is configured.
const DefaultSessionTTL = 24 * time.Hour

type session struct {
	userID    int64
	expiresAt time.Time
}

// SessionStore is an in-memory SessionStore keyed by token. Expired entries
// are dropped lazily on lookup.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]session
	ttl      time.Duration
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{sessions: map[string]session{}, ttl: ttl}
}

func (s *SessionStore) Save(_ context.Context, token string, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = session{userID: userID, expiresAt: time.Now().Add(s.ttl)}
	return nil
}

func (s *SessionStore) Lookup(_ context.Context, token string) (int64, error) {
	s.mu.RLock()
	entry, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return 0, ports.ErrSessionNotFound
	}
	if time.Now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return 0, ports.ErrSessionNotFound
	}
	return entry.userID, nil
}

func (s *SessionStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

func (s *SessionStore) DeleteByUser(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, entry := range s.sessions {
		if entry.userID == userID {
			delete(s.sessions, token)
		}
	}
	return nil
}
