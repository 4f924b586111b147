package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/votesafe/internal/auth/domain"
)

// MemorySessionStore keeps sessions in process memory.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]authDomain.Session
}

// NewMemorySessionStore creates an empty session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]authDomain.Session)}
}

func (s *MemorySessionStore) Put(_ context.Context, session *authDomain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.ID] = *session
	return nil
}

func (s *MemorySessionStore) Get(_ context.Context, id string) (*authDomain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, authDomain.ErrSessionNotFound
	}
	return &session, nil
}

func (s *MemorySessionStore) GetValid(_ context.Context, id string, now time.Time) (*authDomain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.getValidLocked(id, now)
}

func (s *MemorySessionStore) Extend(
	_ context.Context,
	id string,
	now, expiresAt time.Time,
) (*authDomain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.getValidLocked(id, now)
	if err != nil {
		return nil, err
	}
	session.ExpiresAt = expiresAt
	s.sessions[id] = *session
	return session, nil
}

func (s *MemorySessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

func (s *MemorySessionStore) DeleteByUser(_ context.Context, userID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, session := range s.sessions {
		if session.UserID == userID {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed, nil
}

func (s *MemorySessionStore) DeleteExpired(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, session := range s.sessions {
		if !session.IsValid(now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed, nil
}

func (s *MemorySessionStore) getValidLocked(id string, now time.Time) (*authDomain.Session, error) {
	session, ok := s.sessions[id]
	if !ok {
		return nil, authDomain.ErrSessionNotFound
	}
	if !session.IsValid(now) {
		delete(s.sessions, id)
		return nil, authDomain.ErrSessionNotFound
	}
	return &session, nil
}
