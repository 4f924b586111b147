package domain_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/votesafe/internal/crypto/domain"
	apperrors "github.com/allisson/votesafe/internal/errors"
)

func TestEncryptedVote_RoundTrip(t *testing.T) {
	vote := domain.EncryptedVote{
		Algorithm:     domain.ChaCha20,
		KeyVersion:    3,
		Nonce:         bytes.Repeat([]byte{7}, domain.NonceSize),
		Ciphertext:    []byte("sealed-bytes-with-tag"),
		IntegrityHash: "abc123",
	}

	parsed, err := domain.ParseEncryptedVote(vote.String())

	require.NoError(t, err)
	assert.Equal(t, vote, parsed)
}

func TestParseEncryptedVote_Errors(t *testing.T) {
	nonce := "BwcHBwcHBwcHBwcH"

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"WrongPartCount", "aes-gcm:1:abc", domain.ErrInvalidEncryptedVote},
		{"UnknownAlgorithm", "rot13:1:" + nonce + ":YQ==:h", domain.ErrUnsupportedAlgorithm},
		{"ZeroVersion", "aes-gcm:0:" + nonce + ":YQ==:h", domain.ErrInvalidEncryptedVote},
		{"BadVersion", "aes-gcm:x:" + nonce + ":YQ==:h", domain.ErrInvalidEncryptedVote},
		{"ShortNonce", "aes-gcm:1:YQ==:YQ==:h", domain.ErrInvalidEncryptedVote},
		{"EmptyCiphertext", "aes-gcm:1:" + nonce + "::h", domain.ErrInvalidEncryptedVote},
		{"MissingHash", "aes-gcm:1:" + nonce + ":YQ==:", domain.ErrInvalidEncryptedVote},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := domain.ParseEncryptedVote(tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		})
	}
}

func TestElectionKey_AAD(t *testing.T) {
	key := &domain.ElectionKey{ElectionID: "election-2026", Version: 2}

	assert.Equal(t, "election-2026|2", key.CacheKey())
	assert.Equal(t, []byte("election-2026|2"), key.AAD())
}

func TestErrorTaxonomy(t *testing.T) {
	assert.ErrorIs(t, domain.ErrVoteIntegrityMismatch, domain.ErrDecryptionFailed)
	assert.ErrorIs(t, domain.ErrKeyNotFound, apperrors.ErrNotFound)
	assert.NotErrorIs(t, domain.ErrDecryptionFailed, domain.ErrVoteIntegrityMismatch)
}

func TestParseAlgorithm(t *testing.T) {
	alg, err := domain.ParseAlgorithm("aes-gcm")
	require.NoError(t, err)
	assert.Equal(t, domain.AESGCM, alg)

	_, err = domain.ParseAlgorithm("des")
	assert.ErrorIs(t, err, domain.ErrUnsupportedAlgorithm)
}
