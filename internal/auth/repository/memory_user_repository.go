// Package repository provides persistence for users and the in-memory
// stores behind OTPs, OTP rate limiting and sessions.
package repository

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	authDomain "github.com/allisson/votesafe/internal/auth/domain"
)

// MemoryUserRepository keeps users in process memory.
type MemoryUserRepository struct {
	mu         sync.RWMutex
	byID       map[uuid.UUID]authDomain.User
	byUsername map[string]uuid.UUID
	byEmail    map[string]uuid.UUID
}

// NewMemoryUserRepository creates an empty in-memory user repository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		byID:       make(map[uuid.UUID]authDomain.User),
		byUsername: make(map[string]uuid.UUID),
		byEmail:    make(map[string]uuid.UUID),
	}
}

func (m *MemoryUserRepository) Create(_ context.Context, user *authDomain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	email := strings.ToLower(user.Email)
	if _, ok := m.byUsername[user.Username]; ok {
		return authDomain.ErrUserAlreadyExists
	}
	if _, ok := m.byEmail[email]; ok {
		return authDomain.ErrUserAlreadyExists
	}

	m.byID[user.ID] = cloneUser(user)
	m.byUsername[user.Username] = user.ID
	m.byEmail[email] = user.ID
	return nil
}

func (m *MemoryUserRepository) Update(_ context.Context, user *authDomain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.byID[user.ID]
	if !ok {
		return authDomain.ErrUserNotFound
	}

	// Username and email are immutable.
	updated := cloneUser(user)
	updated.Username = current.Username
	updated.Email = current.Email
	updated.CreatedAt = current.CreatedAt
	m.byID[user.ID] = updated
	return nil
}

func (m *MemoryUserRepository) GetByID(_ context.Context, id uuid.UUID) (*authDomain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.byID[id]
	if !ok {
		return nil, authDomain.ErrUserNotFound
	}
	out := cloneUser(&user)
	return &out, nil
}

func (m *MemoryUserRepository) GetByUsername(ctx context.Context, username string) (*authDomain.User, error) {
	m.mu.RLock()
	id, ok := m.byUsername[username]
	m.mu.RUnlock()
	if !ok {
		return nil, authDomain.ErrUserNotFound
	}
	return m.GetByID(ctx, id)
}

func (m *MemoryUserRepository) GetByEmail(ctx context.Context, email string) (*authDomain.User, error) {
	m.mu.RLock()
	id, ok := m.byEmail[strings.ToLower(email)]
	m.mu.RUnlock()
	if !ok {
		return nil, authDomain.ErrUserNotFound
	}
	return m.GetByID(ctx, id)
}

func cloneUser(user *authDomain.User) authDomain.User {
	out := *user
	out.OTPSecret = append([]byte(nil), user.OTPSecret...)
	out.OTPSecretNonce = append([]byte(nil), user.OTPSecretNonce...)
	return out
}
