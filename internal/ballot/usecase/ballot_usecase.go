package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	auditDomain "github.com/allisson/votesafe/internal/audit/domain"
	ballotDomain "github.com/allisson/votesafe/internal/ballot/domain"
	cryptoDomain "github.com/allisson/votesafe/internal/crypto/domain"
	cryptoUseCase "github.com/allisson/votesafe/internal/crypto/usecase"
	"github.com/allisson/votesafe/internal/database"
	apperrors "github.com/allisson/votesafe/internal/errors"
	customValidation "github.com/allisson/votesafe/internal/validation"
)

// Audit actions recorded by ballot operations.
const (
	ActionBallotCast     = "ballot_cast"
	ActionBallotRejected = "ballot_rejected"
	ActionTallyCompleted = "tally_completed"
)

const ballotTimeResolution = time.Hour

type ballotUseCase struct {
	txManager      database.TxManager
	ballots        BallotRepository
	participations ParticipationRepository
	voteCrypto     cryptoUseCase.VoteCryptoUseCase
	audit          AuditRecorder
	logger         *slog.Logger
	now            func() time.Time
}

// NewBallotUseCase creates a BallotUseCase.
func NewBallotUseCase(
	txManager database.TxManager,
	ballots BallotRepository,
	participations ParticipationRepository,
	voteCrypto cryptoUseCase.VoteCryptoUseCase,
	audit AuditRecorder,
	logger *slog.Logger,
) BallotUseCase {
	return &ballotUseCase{
		txManager:      txManager,
		ballots:        ballots,
		participations: participations,
		voteCrypto:     voteCrypto,
		audit:          audit,
		logger:         logger,
		now:            time.Now,
	}
}

func validateCastInput(input *ballotDomain.CastInput) error {
	err := validation.ValidateStruct(input,
		validation.Field(&input.ElectionID,
			validation.Required,
			customValidation.NotBlank,
			customValidation.Identifier,
			validation.Length(1, 128),
		),
		validation.Field(&input.CandidateID,
			validation.Required,
			customValidation.NotBlank,
			customValidation.Identifier,
			validation.Length(1, 128),
		),
	)
	if err != nil {
		return customValidation.WrapValidationError(err)
	}
	if input.UserID == uuid.Nil {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "user id is required")
	}
	return nil
}

func (b *ballotUseCase) Cast(ctx context.Context, input *ballotDomain.CastInput) (*ballotDomain.Receipt, error) {
	if err := validateCastInput(input); err != nil {
		return nil, err
	}

	now := b.now().UTC()
	// Random ids and a coarse timestamp keep ballots from being ordered
	// against the participation records and the audit trail.
	ballotID := uuid.New()
	castAt := now.Truncate(ballotTimeResolution)

	vote, err := b.voteCrypto.Encrypt(ctx, []byte(input.CandidateID), input.ElectionID)
	if err != nil {
		b.logger.Error("ballot encryption failed",
			slog.String("election_id", input.ElectionID),
			slog.Any("error", err),
		)
		return nil, err
	}

	var receipt *ballotDomain.Receipt
	err = b.txManager.WithTx(ctx, func(ctx context.Context) error {
		err := b.participations.Create(ctx, &ballotDomain.Participation{
			ElectionID: input.ElectionID,
			UserID:     input.UserID,
			CastAt:     now,
		})
		if err != nil {
			return err
		}

		if err := b.ballots.Create(ctx, &ballotDomain.Ballot{
			ID:            ballotID,
			ElectionID:    input.ElectionID,
			EncryptedVote: vote.String(),
			CastAt:        castAt,
		}); err != nil {
			return err
		}

		// The audit entry names the voter and the election but not the ballot.
		if _, err := b.audit.Record(ctx, &auditDomain.RecordInput{
			ActorID:   input.UserID.String(),
			Action:    ActionBallotCast,
			Details:   "election=" + input.ElectionID,
			EventType: auditDomain.EventVote,
		}); err != nil {
			return apperrors.Wrap(err, "failed to audit ballot cast")
		}

		receipt = &ballotDomain.Receipt{
			BallotID:   ballotID,
			ElectionID: input.ElectionID,
			KeyVersion: vote.KeyVersion,
			CastAt:     castAt,
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ballotDomain.ErrAlreadyVoted) {
			b.logger.Error("ballot cast failed",
				slog.String("election_id", input.ElectionID),
				slog.Any("error", err),
			)
		}
		return nil, err
	}

	return receipt, nil
}

func (b *ballotUseCase) HasVoted(ctx context.Context, electionID string, userID uuid.UUID) (bool, error) {
	return b.participations.Exists(ctx, electionID, userID)
}

func (b *ballotUseCase) Turnout(ctx context.Context, electionID string) (int, error) {
	return b.ballots.CountByElection(ctx, electionID)
}

func (b *ballotUseCase) Tally(ctx context.Context, electionID, actorID string) (*ballotDomain.TallyResult, error) {
	if electionID == "" {
		return nil, cryptoDomain.ErrInvalidElectionID
	}
	if actorID == "" {
		actorID = auditDomain.ActorSystem
	}

	ballots, err := b.ballots.ListByElection(ctx, electionID)
	if err != nil {
		return nil, err
	}

	result := &ballotDomain.TallyResult{
		ElectionID: electionID,
		Counts:     make(map[string]int),
	}

	for _, ballot := range ballots {
		choice, reason, err := b.open(ctx, ballot)
		if err != nil {
			return nil, err
		}
		if reason != "" {
			result.Rejected = append(result.Rejected, ballotDomain.RejectedBallot{BallotID: ballot.ID, Reason: reason})
			if err := b.reject(ctx, electionID, ballot.ID, reason); err != nil {
				return nil, err
			}
			continue
		}
		result.Counts[choice]++
		result.Counted++
	}

	result.TalliedAt = b.now().UTC()

	if _, err := b.audit.Record(ctx, &auditDomain.RecordInput{
		ActorID: actorID,
		Action:  ActionTallyCompleted,
		Details: fmt.Sprintf("election=%s counted=%d rejected=%d",
			electionID, result.Counted, len(result.Rejected)),
		EventType: auditDomain.EventAdministrative,
	}); err != nil {
		return nil, apperrors.Wrap(err, "failed to audit tally")
	}

	return result, nil
}

// open decrypts a ballot. A ballot that cannot be trusted yields a reject
// reason; only infrastructure failures are returned as errors.
func (b *ballotUseCase) open(ctx context.Context, ballot *ballotDomain.Ballot) (string, string, error) {
	vote, err := cryptoDomain.ParseEncryptedVote(ballot.EncryptedVote)
	if err != nil {
		return "", ballotDomain.RejectMalformed, nil
	}

	plaintext, err := b.voteCrypto.Decrypt(ctx, &vote, ballot.ElectionID)
	switch {
	case err == nil:
		choice := string(plaintext)
		cryptoDomain.Zero(plaintext)
		return choice, "", nil
	case errors.Is(err, cryptoDomain.ErrVoteIntegrityMismatch):
		return "", ballotDomain.RejectIntegrityMismatch, nil
	case errors.Is(err, cryptoDomain.ErrDecryptionFailed):
		return "", ballotDomain.RejectDecryptionFailed, nil
	case errors.Is(err, cryptoDomain.ErrKeyNotFound):
		return "", ballotDomain.RejectKeyNotFound, nil
	case errors.Is(err, apperrors.ErrInvalidInput):
		return "", ballotDomain.RejectMalformed, nil
	default:
		return "", "", err
	}
}

func (b *ballotUseCase) reject(ctx context.Context, electionID string, ballotID uuid.UUID, reason string) error {
	b.logger.Warn("ballot rejected by tally",
		slog.String("election_id", electionID),
		slog.String("ballot_id", ballotID.String()),
		slog.String("reason", reason),
	)

	_, err := b.audit.Record(ctx, &auditDomain.RecordInput{
		ActorID:   auditDomain.ActorSystem,
		Action:    ActionBallotRejected,
		Details:   fmt.Sprintf("election=%s ballot=%s reason=%s", electionID, ballotID, reason),
		EventType: auditDomain.EventSecurityViolation,
	})
	if err != nil {
		return apperrors.Wrap(err, "failed to audit rejected ballot")
	}
	return nil
}
