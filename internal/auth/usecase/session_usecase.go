package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/votesafe/internal/auth/domain"
	authService "github.com/allisson/votesafe/internal/auth/service"
	"github.com/allisson/votesafe/internal/config"
)

type sessionUseCase struct {
	store     SessionStore
	idService authService.SessionIDService
	timeout   time.Duration
	now       func() time.Time
}

// NewSessionUseCase creates a SessionUseCase with the configured session timeout.
func NewSessionUseCase(
	cfg *config.Config,
	store SessionStore,
	idService authService.SessionIDService,
) SessionUseCase {
	return &sessionUseCase{
		store:     store,
		idService: idService,
		timeout:   durationOr(cfg.SessionTimeout, authDomain.DefaultSessionTimeout),
		now:       time.Now,
	}
}

func (s *sessionUseCase) Create(ctx context.Context, userID uuid.UUID) (*authDomain.Session, error) {
	id, err := s.idService.GenerateSessionID()
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	session := &authDomain.Session{
		ID:        id,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.timeout),
		Active:    true,
	}
	if err := s.store.Put(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *sessionUseCase) Get(ctx context.Context, sessionID string) (*authDomain.Session, error) {
	return s.store.Get(ctx, sessionID)
}

func (s *sessionUseCase) Invalidate(ctx context.Context, sessionID string) error {
	return s.store.Delete(ctx, sessionID)
}

func (s *sessionUseCase) IsValid(ctx context.Context, sessionID string) (bool, error) {
	_, err := s.store.GetValid(ctx, sessionID, s.now().UTC())
	if err != nil {
		if errors.Is(err, authDomain.ErrSessionNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *sessionUseCase) Extend(ctx context.Context, sessionID string) (*authDomain.Session, error) {
	now := s.now().UTC()
	return s.store.Extend(ctx, sessionID, now, now.Add(s.timeout))
}

func (s *sessionUseCase) InvalidateAllForUser(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.store.DeleteByUser(ctx, userID)
}

func (s *sessionUseCase) GetUserID(ctx context.Context, sessionID string) (uuid.UUID, error) {
	session, err := s.store.GetValid(ctx, sessionID, s.now().UTC())
	if err != nil {
		return uuid.Nil, err
	}
	return session.UserID, nil
}

func (s *sessionUseCase) CleanupExpired(ctx context.Context) (int, error) {
	return s.store.DeleteExpired(ctx, s.now().UTC())
}
