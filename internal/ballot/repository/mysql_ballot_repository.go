package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	ballotDomain "github.com/allisson/votesafe/internal/ballot/domain"
	"github.com/allisson/votesafe/internal/database"
	apperrors "github.com/allisson/votesafe/internal/errors"
)

// MySQLBallotRepository stores ballots in MySQL, with ids as BINARY(16).
type MySQLBallotRepository struct {
	db *sql.DB
}

// NewMySQLBallotRepository creates a new MySQL ballot repository.
func NewMySQLBallotRepository(db *sql.DB) *MySQLBallotRepository {
	return &MySQLBallotRepository{db: db}
}

func (m *MySQLBallotRepository) Create(ctx context.Context, ballot *ballotDomain.Ballot) error {
	querier := database.GetTx(ctx, m.db)

	id, err := ballot.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal ballot id")
	}

	query := `INSERT INTO ballots (id, election_id, encrypted_vote, cast_at) VALUES (?, ?, ?, ?)`

	if _, err := querier.ExecContext(ctx, query, id, ballot.ElectionID, ballot.EncryptedVote, ballot.CastAt); err != nil {
		return apperrors.Wrap(err, "failed to create ballot")
	}
	return nil
}

func (m *MySQLBallotRepository) Get(ctx context.Context, id uuid.UUID) (*ballotDomain.Ballot, error) {
	rawID, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal ballot id")
	}

	query := `SELECT id, election_id, encrypted_vote, cast_at FROM ballots WHERE id = ?`

	ballot, err := scanMySQLBallot(database.GetTx(ctx, m.db).QueryRowContext(ctx, query, rawID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ballotDomain.ErrBallotNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get ballot")
	}
	return ballot, nil
}

func (m *MySQLBallotRepository) ListByElection(
	ctx context.Context,
	electionID string,
) ([]*ballotDomain.Ballot, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, election_id, encrypted_vote, cast_at FROM ballots
			  WHERE election_id = ? ORDER BY cast_at ASC, id ASC`

	rows, err := querier.QueryContext(ctx, query, electionID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list ballots")
	}
	defer func() {
		_ = rows.Close()
	}()

	ballots := make([]*ballotDomain.Ballot, 0)
	for rows.Next() {
		ballot, err := scanMySQLBallot(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan ballot")
		}
		ballots = append(ballots, ballot)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate ballots")
	}
	return ballots, nil
}

func (m *MySQLBallotRepository) CountByElection(ctx context.Context, electionID string) (int, error) {
	query := `SELECT COUNT(*) FROM ballots WHERE election_id = ?`

	var count int
	if err := database.GetTx(ctx, m.db).QueryRowContext(ctx, query, electionID).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count ballots")
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMySQLBallot(row rowScanner) (*ballotDomain.Ballot, error) {
	var (
		ballot ballotDomain.Ballot
		rawID  []byte
	)
	if err := row.Scan(&rawID, &ballot.ElectionID, &ballot.EncryptedVote, &ballot.CastAt); err != nil {
		return nil, err
	}
	if err := ballot.ID.UnmarshalBinary(rawID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal ballot id")
	}
	return &ballot, nil
}

// MySQLParticipationRepository stores participation marks in MySQL.
type MySQLParticipationRepository struct {
	db *sql.DB
}

// NewMySQLParticipationRepository creates a new MySQL participation repository.
func NewMySQLParticipationRepository(db *sql.DB) *MySQLParticipationRepository {
	return &MySQLParticipationRepository{db: db}
}

func (m *MySQLParticipationRepository) Create(
	ctx context.Context,
	participation *ballotDomain.Participation,
) error {
	querier := database.GetTx(ctx, m.db)

	userID, err := participation.UserID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal user id")
	}

	query := `INSERT INTO participations (election_id, user_id, cast_at) VALUES (?, ?, ?)`

	if _, err := querier.ExecContext(ctx, query, participation.ElectionID, userID, participation.CastAt); err != nil {
		if database.IsUniqueViolation(err) {
			return ballotDomain.ErrAlreadyVoted
		}
		return apperrors.Wrap(err, "failed to create participation")
	}
	return nil
}

func (m *MySQLParticipationRepository) Exists(
	ctx context.Context,
	electionID string,
	userID uuid.UUID,
) (bool, error) {
	rawUserID, err := userID.MarshalBinary()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to marshal user id")
	}

	query := `SELECT EXISTS (SELECT 1 FROM participations WHERE election_id = ? AND user_id = ?)`

	var exists bool
	if err := database.GetTx(ctx, m.db).QueryRowContext(ctx, query, electionID, rawUserID).Scan(&exists); err != nil {
		return false, apperrors.Wrap(err, "failed to check participation")
	}
	return exists, nil
}
