package repository

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/votesafe/internal/auth/domain"
)

func putOTP(t *testing.T, store *MemoryOTPStore, userID uuid.UUID, issuedAt time.Time) {
	t.Helper()
	require.NoError(t, store.Put(context.Background(), &authDomain.OneTimePassword{
		UserID:    userID,
		Code:      "123456",
		IssuedAt:  issuedAt,
		ExpiresAt: issuedAt.Add(5 * time.Minute),
	}))
}

func matchWith(ok bool) func() (bool, error) {
	return func() (bool, error) { return ok, nil }
}

func TestMemoryOTPStore_PutGet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryOTPStore()
	userID := uuid.New()
	now := time.Now()

	_, err := store.Get(ctx, userID)
	assert.ErrorIs(t, err, authDomain.ErrOTPNotFound)

	putOTP(t, store, userID, now)
	got, err := store.Get(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, got.Code)
	assert.Equal(t, now.Add(5*time.Minute), got.ExpiresAt)

	// A new OTP replaces the live one and its attempt count.
	_, err = store.Attempt(ctx, userID, now, 3, matchWith(false))
	require.NoError(t, err)
	putOTP(t, store, userID, now.Add(time.Minute))
	got, err = store.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.AttemptCount)
	assert.Equal(t, now.Add(time.Minute), got.IssuedAt)
}

func TestMemoryOTPStore_Attempt(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("Success_AcceptedConsumes", func(t *testing.T) {
		store := NewMemoryOTPStore()
		userID := uuid.New()
		putOTP(t, store, userID, now)

		verdict, err := store.Attempt(ctx, userID, now, 3, matchWith(true))
		require.NoError(t, err)
		assert.Equal(t, authDomain.OTPAccepted, verdict)

		verdict, err = store.Attempt(ctx, userID, now, 3, matchWith(true))
		require.NoError(t, err)
		assert.Equal(t, authDomain.OTPNotFound, verdict)
	})

	t.Run("Error_LockoutAfterMaxAttempts", func(t *testing.T) {
		store := NewMemoryOTPStore()
		userID := uuid.New()
		putOTP(t, store, userID, now)

		for range 3 {
			verdict, err := store.Attempt(ctx, userID, now, 3, matchWith(false))
			require.NoError(t, err)
			assert.Equal(t, authDomain.OTPRejected, verdict)
		}

		called := false
		verdict, err := store.Attempt(ctx, userID, now, 3, func() (bool, error) {
			called = true
			return true, nil
		})
		require.NoError(t, err)
		assert.Equal(t, authDomain.OTPAttemptsExceeded, verdict)
		assert.False(t, called)

		_, err = store.Get(ctx, userID)
		assert.ErrorIs(t, err, authDomain.ErrOTPNotFound)
	})

	t.Run("Error_ExpiredDiscarded", func(t *testing.T) {
		store := NewMemoryOTPStore()
		userID := uuid.New()
		putOTP(t, store, userID, now)

		verdict, err := store.Attempt(ctx, userID, now.Add(5*time.Minute), 3, matchWith(true))
		require.NoError(t, err)
		assert.Equal(t, authDomain.OTPExpired, verdict)

		_, err = store.Get(ctx, userID)
		assert.ErrorIs(t, err, authDomain.ErrOTPNotFound)
	})

	t.Run("Error_MatchFailureNotCounted", func(t *testing.T) {
		store := NewMemoryOTPStore()
		userID := uuid.New()
		putOTP(t, store, userID, now)

		_, err := store.Attempt(ctx, userID, now, 3, func() (bool, error) {
			return false, errors.New("secret unavailable")
		})
		assert.ErrorContains(t, err, "secret unavailable")

		got, err := store.Get(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, 0, got.AttemptCount)
	})

	t.Run("Success_ConcurrentSingleUse", func(t *testing.T) {
		store := NewMemoryOTPStore()
		userID := uuid.New()
		putOTP(t, store, userID, now)

		var accepted atomic.Int32
		var wg sync.WaitGroup
		for range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				verdict, err := store.Attempt(ctx, userID, now, 3, matchWith(true))
				if err == nil && verdict == authDomain.OTPAccepted {
					accepted.Add(1)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(1), accepted.Load())
	})
}

func TestMemoryOTPStore_DeleteExpired(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryOTPStore()
	now := time.Now()

	putOTP(t, store, uuid.New(), now.Add(-10*time.Minute))
	putOTP(t, store, uuid.New(), now.Add(-6*time.Minute))
	live := uuid.New()
	putOTP(t, store, live, now)

	removed, err := store.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	_, err = store.Get(ctx, live)
	assert.NoError(t, err)

	require.NoError(t, store.Delete(ctx, live))
	require.NoError(t, store.Delete(ctx, live))
	_, err = store.Get(ctx, live)
	assert.ErrorIs(t, err, authDomain.ErrOTPNotFound)
}

func TestMemoryOTPIssueStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryOTPIssueStore()
	userID := uuid.New()
	now := time.Now()

	_, ok, err := store.LastIssued(ctx, userID)
	require.NoError(t, err)
	assert.False(t, ok)

	reserved, err := store.Reserve(ctx, userID, now, time.Minute)
	require.NoError(t, err)
	assert.True(t, reserved)

	reserved, err = store.Reserve(ctx, userID, now.Add(59*time.Second), time.Minute)
	require.NoError(t, err)
	assert.False(t, reserved)

	last, ok, err := store.LastIssued(ctx, userID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, now, last)

	reserved, err = store.Reserve(ctx, userID, now.Add(time.Minute), time.Minute)
	require.NoError(t, err)
	assert.True(t, reserved)

	t.Run("Success_ConcurrentReserve", func(t *testing.T) {
		other := uuid.New()
		var granted atomic.Int32
		var wg sync.WaitGroup
		for range 20 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if ok, _ := store.Reserve(ctx, other, now, time.Minute); ok {
					granted.Add(1)
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, int32(1), granted.Load())
	})

	t.Run("Success_DeleteBefore", func(t *testing.T) {
		removed, err := store.DeleteBefore(ctx, now.Add(30*time.Second))
		require.NoError(t, err)
		assert.Equal(t, 1, removed)

		_, ok, err := store.LastIssued(ctx, userID)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}
