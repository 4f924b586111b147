package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	ballotDomain "github.com/allisson/votesafe/internal/ballot/domain"
	"github.com/allisson/votesafe/internal/metrics"
)

// ballotUseCaseWithMetrics decorates BallotUseCase with metrics instrumentation.
type ballotUseCaseWithMetrics struct {
	next    BallotUseCase
	metrics metrics.BusinessMetrics
}

// NewBallotUseCaseWithMetrics wraps a BallotUseCase with metrics recording.
// Every ballot rejected by a tally is also counted as a security event.
func NewBallotUseCaseWithMetrics(useCase BallotUseCase, m metrics.BusinessMetrics) BallotUseCase {
	return &ballotUseCaseWithMetrics{next: useCase, metrics: m}
}

func (b *ballotUseCaseWithMetrics) record(ctx context.Context, op string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	b.metrics.RecordOperation(ctx, "ballot", op, status)
	b.metrics.RecordDuration(ctx, "ballot", op, time.Since(start), status)
}

func (b *ballotUseCaseWithMetrics) Cast(
	ctx context.Context,
	input *ballotDomain.CastInput,
) (*ballotDomain.Receipt, error) {
	start := time.Now()
	receipt, err := b.next.Cast(ctx, input)
	b.record(ctx, "ballot_cast", start, err)
	return receipt, err
}

func (b *ballotUseCaseWithMetrics) HasVoted(ctx context.Context, electionID string, userID uuid.UUID) (bool, error) {
	return b.next.HasVoted(ctx, electionID, userID)
}

func (b *ballotUseCaseWithMetrics) Turnout(ctx context.Context, electionID string) (int, error) {
	return b.next.Turnout(ctx, electionID)
}

func (b *ballotUseCaseWithMetrics) Tally(
	ctx context.Context,
	electionID, actorID string,
) (*ballotDomain.TallyResult, error) {
	start := time.Now()
	result, err := b.next.Tally(ctx, electionID, actorID)
	b.record(ctx, "ballot_tally", start, err)
	if result != nil {
		for _, rejected := range result.Rejected {
			b.metrics.RecordSecurityEvent(ctx, "ballot_rejected", rejected.Reason)
		}
	}
	return result, err
}
