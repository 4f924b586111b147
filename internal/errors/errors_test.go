package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type declineError struct {
	Reason string
}

func (e *declineError) Error() string { return "declined: " + e.Reason }

func TestWrap(t *testing.T) {
	t.Run("keeps sentinel in chain", func(t *testing.T) {
		err := Wrap(ErrConflict, "voter already participated")

		require.Error(t, err)
		assert.Equal(t, "voter already participated: conflict", err.Error())
		assert.True(t, Is(err, ErrConflict))
		assert.False(t, Is(err, ErrNotFound))
	})

	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, "ignored"))
		assert.NoError(t, Wrapf(nil, "ignored %d", 1))
	})

	t.Run("formatted context", func(t *testing.T) {
		err := Wrapf(ErrNotFound, "election key %s v%d", "board-2026", 2)

		assert.Equal(t, "election key board-2026 v2: not found", err.Error())
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("nested wraps", func(t *testing.T) {
		err := Wrap(Wrap(ErrLocked, "otp attempts exhausted"), "validate otp")

		assert.Equal(t, "validate otp: otp attempts exhausted: locked", err.Error())
		assert.True(t, Is(err, ErrLocked))
	})
}

func TestAs(t *testing.T) {
	err := Wrap(&declineError{Reason: "qr expired"}, "verify qr")

	var target *declineError
	require.True(t, As(err, &target))
	assert.Equal(t, "qr expired", target.Reason)
}

func TestNew(t *testing.T) {
	err := New("ballot sealed")

	assert.EqualError(t, err, "ballot sealed")
	assert.False(t, Is(err, New("ballot sealed")))
}

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := []error{
		ErrNotFound,
		ErrConflict,
		ErrInvalidInput,
		ErrUnauthorized,
		ErrForbidden,
		ErrLocked,
		ErrTooManyRequests,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				continue
			}
			assert.False(t, Is(a, b), "%v should not match %v", a, b)
		}
	}
}
