package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/votesafe/internal/auth/domain"
)

func newTestSession(userID uuid.UUID, now time.Time) *authDomain.Session {
	return &authDomain.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(30 * time.Minute),
		Active:    true,
	}
}

func TestMemorySessionStore_GetValid(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("Success_Valid", func(t *testing.T) {
		store := NewMemorySessionStore()
		session := newTestSession(uuid.New(), now)
		require.NoError(t, store.Put(ctx, session))

		got, err := store.GetValid(ctx, session.ID, now.Add(time.Minute))
		require.NoError(t, err)
		assert.Equal(t, session, got)
	})

	t.Run("Error_ExpiredEvicted", func(t *testing.T) {
		store := NewMemorySessionStore()
		session := newTestSession(uuid.New(), now)
		require.NoError(t, store.Put(ctx, session))

		_, err := store.GetValid(ctx, session.ID, session.ExpiresAt)
		assert.ErrorIs(t, err, authDomain.ErrSessionNotFound)

		_, err = store.Get(ctx, session.ID)
		assert.ErrorIs(t, err, authDomain.ErrSessionNotFound)
	})

	t.Run("Error_InactiveEvicted", func(t *testing.T) {
		store := NewMemorySessionStore()
		session := newTestSession(uuid.New(), now)
		session.Active = false
		require.NoError(t, store.Put(ctx, session))

		_, err := store.GetValid(ctx, session.ID, now)
		assert.ErrorIs(t, err, authDomain.ErrSessionNotFound)
	})

	t.Run("Error_Missing", func(t *testing.T) {
		_, err := NewMemorySessionStore().GetValid(ctx, "nope", now)
		assert.ErrorIs(t, err, authDomain.ErrSessionNotFound)
	})
}

func TestMemorySessionStore_Extend(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	store := NewMemorySessionStore()
	session := newTestSession(uuid.New(), now)
	require.NoError(t, store.Put(ctx, session))

	extended, err := store.Extend(ctx, session.ID, now.Add(20*time.Minute), now.Add(50*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, now.Add(50*time.Minute), extended.ExpiresAt)

	got, err := store.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, now.Add(50*time.Minute), got.ExpiresAt)

	_, err = store.Extend(ctx, session.ID, now.Add(time.Hour), now.Add(2*time.Hour))
	assert.ErrorIs(t, err, authDomain.ErrSessionNotFound)
}

func TestMemorySessionStore_Delete(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	store := NewMemorySessionStore()
	alice := uuid.New()
	bob := uuid.New()

	s1 := newTestSession(alice, now)
	s2 := newTestSession(alice, now)
	s3 := newTestSession(bob, now)
	for _, s := range []*authDomain.Session{s1, s2, s3} {
		require.NoError(t, store.Put(ctx, s))
	}

	removed, err := store.DeleteByUser(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	require.NoError(t, store.Delete(ctx, s3.ID))
	require.NoError(t, store.Delete(ctx, s3.ID))
	_, err = store.Get(ctx, s3.ID)
	assert.ErrorIs(t, err, authDomain.ErrSessionNotFound)
}

func TestMemorySessionStore_DeleteExpired(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	store := NewMemorySessionStore()

	expired := newTestSession(uuid.New(), now.Add(-time.Hour))
	inactive := newTestSession(uuid.New(), now)
	inactive.Active = false
	live := newTestSession(uuid.New(), now)
	for _, s := range []*authDomain.Session{expired, inactive, live} {
		require.NoError(t, store.Put(ctx, s))
	}

	removed, err := store.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	_, err = store.Get(ctx, live.ID)
	assert.NoError(t, err)
}
