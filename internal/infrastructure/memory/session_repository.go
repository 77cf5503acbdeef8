package memory

import (
	"context"
	"sync"
	"time"

	"github.com/oksasatya/user-events-service/internal/domain/repository"
)

type session struct {
	id        string
	expiresAt time.Time
}

// SessionRepository stores one session id per user with lazy expiry.
type SessionRepository struct {
	mu       sync.Mutex
	sessions map[string]session
	now      func() time.Time
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{sessions: make(map[string]session), now: time.Now}
}

func (r *SessionRepository) Save(ctx context.Context, userID, sessionID string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[userID] = session{id: sessionID, expiresAt: r.now().Add(ttl)}
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, userID string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[userID]
	if !ok {
		return "", repository.ErrSessionNotFound
	}
	if !r.now().Before(s.expiresAt) {
		delete(r.sessions, userID)
		return "", repository.ErrSessionNotFound
	}
	return s.id, nil
}

func (r *SessionRepository) Delete(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, userID)
	return nil
}

var _ repository.SessionRepository = (*SessionRepository)(nil)
