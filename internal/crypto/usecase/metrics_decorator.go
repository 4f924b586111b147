package usecase

import (
	"context"
	"time"

	cryptoDomain "github.com/allisson/votesafe/internal/crypto/domain"
	apperrors "github.com/allisson/votesafe/internal/errors"
	"github.com/allisson/votesafe/internal/metrics"
)

type voteCryptoUseCaseWithMetrics struct {
	next    VoteCryptoUseCase
	metrics metrics.BusinessMetrics
}

// NewVoteCryptoUseCaseWithMetrics wraps a VoteCryptoUseCase with metrics recording.
func NewVoteCryptoUseCaseWithMetrics(useCase VoteCryptoUseCase, m metrics.BusinessMetrics) VoteCryptoUseCase {
	return &voteCryptoUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (v *voteCryptoUseCaseWithMetrics) record(ctx context.Context, op string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	v.metrics.RecordOperation(ctx, "crypto", op, status)
	v.metrics.RecordDuration(ctx, "crypto", op, time.Since(start), status)
}

func (v *voteCryptoUseCaseWithMetrics) Encrypt(
	ctx context.Context,
	plaintext []byte,
	electionID string,
) (*cryptoDomain.EncryptedVote, error) {
	start := time.Now()
	vote, err := v.next.Encrypt(ctx, plaintext, electionID)
	v.record(ctx, "vote_encrypt", start, err)
	return vote, err
}

func (v *voteCryptoUseCaseWithMetrics) Decrypt(
	ctx context.Context,
	vote *cryptoDomain.EncryptedVote,
	electionID string,
) ([]byte, error) {
	start := time.Now()
	plaintext, err := v.next.Decrypt(ctx, vote, electionID)
	v.record(ctx, "vote_decrypt", start, err)
	if apperrors.Is(err, cryptoDomain.ErrDecryptionFailed) {
		v.metrics.RecordSecurityEvent(ctx, "vote_integrity", "decryption_failed")
	}
	return plaintext, err
}

func (v *voteCryptoUseCaseWithMetrics) RotateElectionKey(
	ctx context.Context,
	electionID string,
) (*cryptoDomain.ElectionKey, error) {
	start := time.Now()
	key, err := v.next.RotateElectionKey(ctx, electionID)
	v.record(ctx, "election_key_rotate", start, err)
	return key, err
}

func (v *voteCryptoUseCaseWithMetrics) ListKeyVersions(
	ctx context.Context,
	electionID string,
) ([]*cryptoDomain.ElectionKey, error) {
	start := time.Now()
	keys, err := v.next.ListKeyVersions(ctx, electionID)
	v.record(ctx, "election_key_list", start, err)
	return keys, err
}

func (v *voteCryptoUseCaseWithMetrics) Hash(data []byte) string {
	return v.next.Hash(data)
}

func (v *voteCryptoUseCaseWithMetrics) VerifyHash(data []byte, hash string) bool {
	return v.next.VerifyHash(data, hash)
}
