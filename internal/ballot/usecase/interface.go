// Package usecase casts and tallies encrypted ballots.
package usecase

import (
	"context"

	"github.com/google/uuid"

	auditDomain "github.com/allisson/votesafe/internal/audit/domain"
	ballotDomain "github.com/allisson/votesafe/internal/ballot/domain"
)

// BallotRepository persists ballots. Ballots are append-only.
type BallotRepository interface {
	Create(ctx context.Context, ballot *ballotDomain.Ballot) error

	// Get returns the ballot or ErrBallotNotFound.
	Get(ctx context.Context, id uuid.UUID) (*ballotDomain.Ballot, error)

	// ListByElection returns the ballots of an election ordered by cast time.
	ListByElection(ctx context.Context, electionID string) ([]*ballotDomain.Ballot, error)

	CountByElection(ctx context.Context, electionID string) (int, error)
}

// ParticipationRepository records who voted in which election.
type ParticipationRepository interface {
	// Create returns ErrAlreadyVoted when the voter already participated.
	Create(ctx context.Context, participation *ballotDomain.Participation) error

	Exists(ctx context.Context, electionID string, userID uuid.UUID) (bool, error)
}

// AuditRecorder appends entries to the audit trail.
type AuditRecorder interface {
	Record(ctx context.Context, input *auditDomain.RecordInput) (*auditDomain.AuditEntry, error)
}

// BallotUseCase casts and tallies ballots.
type BallotUseCase interface {
	// Cast encrypts the candidate id under the election key and stores the
	// ballot, the participation mark and a vote audit entry atomically.
	// Returns ErrAlreadyVoted on a second cast by the same voter.
	Cast(ctx context.Context, input *ballotDomain.CastInput) (*ballotDomain.Receipt, error)

	// HasVoted reports whether the voter participated in the election.
	HasVoted(ctx context.Context, electionID string, userID uuid.UUID) (bool, error)

	// Tally decrypts every ballot of the election and counts per candidate.
	// Ballots that fail to parse, decrypt or verify are not counted; each is
	// reported in the result and recorded as a security violation.
	Tally(ctx context.Context, electionID, actorID string) (*ballotDomain.TallyResult, error)

	// Turnout returns the number of ballots cast in the election.
	Turnout(ctx context.Context, electionID string) (int, error)
}
