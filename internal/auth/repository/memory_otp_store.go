package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/votesafe/internal/auth/domain"
)

// MemoryOTPStore keeps the live OTP of each user in process memory.
type MemoryOTPStore struct {
	mu   sync.Mutex
	otps map[uuid.UUID]authDomain.OneTimePassword
}

// NewMemoryOTPStore creates an empty OTP store.
func NewMemoryOTPStore() *MemoryOTPStore {
	return &MemoryOTPStore{otps: make(map[uuid.UUID]authDomain.OneTimePassword)}
}

func (s *MemoryOTPStore) Put(_ context.Context, otp *authDomain.OneTimePassword) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *otp
	stored.Code = ""
	s.otps[otp.UserID] = stored
	return nil
}

func (s *MemoryOTPStore) Get(_ context.Context, userID uuid.UUID) (*authDomain.OneTimePassword, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	otp, ok := s.otps[userID]
	if !ok {
		return nil, authDomain.ErrOTPNotFound
	}
	return &otp, nil
}

// Attempt holds the store lock while match runs; match must not call back into the store.
func (s *MemoryOTPStore) Attempt(
	_ context.Context,
	userID uuid.UUID,
	now time.Time,
	maxAttempts int,
	match func() (bool, error),
) (authDomain.OTPVerdict, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	otp, ok := s.otps[userID]
	if !ok {
		return authDomain.OTPNotFound, nil
	}
	if otp.AttemptCount >= maxAttempts {
		delete(s.otps, userID)
		return authDomain.OTPAttemptsExceeded, nil
	}
	if otp.IsExpired(now) {
		delete(s.otps, userID)
		return authDomain.OTPExpired, nil
	}

	matched, err := match()
	if err != nil {
		return authDomain.OTPRejected, err
	}

	if matched {
		delete(s.otps, userID)
		return authDomain.OTPAccepted, nil
	}

	otp.AttemptCount++
	s.otps[userID] = otp
	return authDomain.OTPRejected, nil
}

func (s *MemoryOTPStore) Delete(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.otps, userID)
	return nil
}

func (s *MemoryOTPStore) DeleteExpired(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for userID, otp := range s.otps {
		if otp.IsExpired(now) {
			delete(s.otps, userID)
			removed++
		}
	}
	return removed, nil
}

// MemoryOTPIssueStore keeps the last OTP issuance time of each user.
type MemoryOTPIssueStore struct {
	mu     sync.Mutex
	issued map[uuid.UUID]time.Time
}

// NewMemoryOTPIssueStore creates an empty issuance store.
func NewMemoryOTPIssueStore() *MemoryOTPIssueStore {
	return &MemoryOTPIssueStore{issued: make(map[uuid.UUID]time.Time)}
}

func (s *MemoryOTPIssueStore) Reserve(
	_ context.Context,
	userID uuid.UUID,
	now time.Time,
	window time.Duration,
) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if last, ok := s.issued[userID]; ok && now.Before(last.Add(window)) {
		return false, nil
	}
	s.issued[userID] = now
	return true, nil
}

func (s *MemoryOTPIssueStore) LastIssued(_ context.Context, userID uuid.UUID) (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	last, ok := s.issued[userID]
	return last, ok, nil
}

func (s *MemoryOTPIssueStore) DeleteBefore(_ context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for userID, last := range s.issued {
		if last.Before(cutoff) {
			delete(s.issued, userID)
			removed++
		}
	}
	return removed, nil
}
