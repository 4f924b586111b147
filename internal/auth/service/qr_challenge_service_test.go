package service

import (
	"bytes"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/votesafe/internal/auth/domain"
	cryptoDomain "github.com/allisson/votesafe/internal/crypto/domain"
)

func newTestMasterKey(fill byte) *cryptoDomain.MasterKey {
	key := make([]byte, cryptoDomain.KeySize)
	for i := range key {
		key[i] = fill
	}
	return &cryptoDomain.MasterKey{ID: "master-1", Key: key}
}

func TestNewQRChallengeService(t *testing.T) {
	t.Run("Error_NilMasterKey", func(t *testing.T) {
		_, err := NewQRChallengeService(nil, time.Minute)
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKeySize)
	})

	t.Run("Error_ShortMasterKey", func(t *testing.T) {
		_, err := NewQRChallengeService(&cryptoDomain.MasterKey{ID: "m", Key: []byte("short")}, time.Minute)
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKeySize)
	})
}

func TestQRChallengeService(t *testing.T) {
	svc, err := NewQRChallengeService(newTestMasterKey(7), 5*time.Minute)
	require.NoError(t, err)

	alice := uuid.Must(uuid.NewV7())
	bob := uuid.Must(uuid.NewV7())
	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	payload := svc.Generate(alice, issuedAt).String()

	t.Run("Success_RoundTrip", func(t *testing.T) {
		assert.Equal(t, authDomain.QRValid, svc.Validate(payload, alice, issuedAt.Add(time.Minute)))
	})

	t.Run("Success_Deterministic", func(t *testing.T) {
		assert.Equal(t, payload, svc.Generate(alice, issuedAt).String())
	})

	t.Run("Error_OtherUser", func(t *testing.T) {
		assert.Equal(t, authDomain.QRInvalid, svc.Validate(payload, bob, issuedAt))
	})

	t.Run("Error_TamperedChecksum", func(t *testing.T) {
		idx := strings.LastIndex(payload, "|") + 1
		for i := idx; i < len(payload); i++ {
			replacement := byte('A')
			if payload[i] == 'A' {
				replacement = 'B'
			}
			tampered := payload[:i] + string(replacement) + payload[i+1:]
			assert.Equal(t, authDomain.QRInvalid, svc.Validate(tampered, alice, issuedAt), "position %d", i)
		}
	})

	t.Run("Error_ForgedForOtherUser", func(t *testing.T) {
		forged := strings.Replace(payload, alice.String(), bob.String(), 1)
		assert.Equal(t, authDomain.QRInvalid, svc.Validate(forged, bob, issuedAt))
	})

	t.Run("Error_TamperedTimestamp", func(t *testing.T) {
		later := svc.Generate(alice, issuedAt.Add(time.Hour))
		forged := &authDomain.QRChallenge{UserID: alice, IssuedAt: later.IssuedAt, Checksum: svc.Generate(alice, issuedAt).Checksum}
		assert.Equal(t, authDomain.QRInvalid, svc.Validate(forged.String(), alice, issuedAt.Add(time.Hour)))
	})

	t.Run("Error_OtherMasterKey", func(t *testing.T) {
		other, err := NewQRChallengeService(newTestMasterKey(8), 5*time.Minute)
		require.NoError(t, err)
		assert.Equal(t, authDomain.QRInvalid, other.Validate(payload, alice, issuedAt))
	})

	t.Run("Error_Malformed", func(t *testing.T) {
		assert.Equal(t, authDomain.QRInvalid, svc.Validate("garbage", alice, issuedAt))
	})

	t.Run("Error_Expired", func(t *testing.T) {
		assert.Equal(t, authDomain.QRValid, svc.Validate(payload, alice, issuedAt.Add(5*time.Minute)))
		assert.Equal(t, authDomain.QRExpired, svc.Validate(payload, alice, issuedAt.Add(5*time.Minute+time.Second)))
	})

	t.Run("Success_IsExpired", func(t *testing.T) {
		assert.False(t, svc.IsExpired(payload, issuedAt.Add(time.Minute)))
		assert.True(t, svc.IsExpired(payload, issuedAt.Add(6*time.Minute)))
		assert.True(t, svc.IsExpired("garbage", issuedAt))
	})
}

func TestQRChallengeService_RenderPNG(t *testing.T) {
	svc, err := NewQRChallengeService(newTestMasterKey(1), time.Minute)
	require.NoError(t, err)

	payload := svc.Generate(uuid.New(), time.Now()).String()
	data, err := svc.RenderPNG(payload, 256)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 256, img.Bounds().Dx())
	assert.Equal(t, 256, img.Bounds().Dy())

	t.Run("Error_SizeTooSmall", func(t *testing.T) {
		_, err := svc.RenderPNG(payload, 1)
		assert.Error(t, err)
	})
}
