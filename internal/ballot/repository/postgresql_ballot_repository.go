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

// PostgreSQLBallotRepository stores ballots in the ballots table.
//
// Schema: id UUID, election_id VARCHAR, encrypted_vote TEXT, cast_at TIMESTAMPTZ.
type PostgreSQLBallotRepository struct {
	db *sql.DB
}

// NewPostgreSQLBallotRepository creates a new PostgreSQL ballot repository.
func NewPostgreSQLBallotRepository(db *sql.DB) *PostgreSQLBallotRepository {
	return &PostgreSQLBallotRepository{db: db}
}

func (p *PostgreSQLBallotRepository) Create(ctx context.Context, ballot *ballotDomain.Ballot) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO ballots (id, election_id, encrypted_vote, cast_at) VALUES ($1, $2, $3, $4)`

	_, err := querier.ExecContext(ctx, query, ballot.ID, ballot.ElectionID, ballot.EncryptedVote, ballot.CastAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to create ballot")
	}
	return nil
}

func (p *PostgreSQLBallotRepository) Get(ctx context.Context, id uuid.UUID) (*ballotDomain.Ballot, error) {
	query := `SELECT id, election_id, encrypted_vote, cast_at FROM ballots WHERE id = $1`

	var ballot ballotDomain.Ballot
	err := database.GetTx(ctx, p.db).QueryRowContext(ctx, query, id).Scan(
		&ballot.ID,
		&ballot.ElectionID,
		&ballot.EncryptedVote,
		&ballot.CastAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ballotDomain.ErrBallotNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get ballot")
	}
	return &ballot, nil
}

func (p *PostgreSQLBallotRepository) ListByElection(
	ctx context.Context,
	electionID string,
) ([]*ballotDomain.Ballot, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, election_id, encrypted_vote, cast_at FROM ballots
			  WHERE election_id = $1 ORDER BY cast_at ASC, id ASC`

	rows, err := querier.QueryContext(ctx, query, electionID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list ballots")
	}
	defer func() {
		_ = rows.Close()
	}()

	ballots := make([]*ballotDomain.Ballot, 0)
	for rows.Next() {
		var ballot ballotDomain.Ballot
		if err := rows.Scan(&ballot.ID, &ballot.ElectionID, &ballot.EncryptedVote, &ballot.CastAt); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan ballot")
		}
		ballots = append(ballots, &ballot)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate ballots")
	}
	return ballots, nil
}

func (p *PostgreSQLBallotRepository) CountByElection(ctx context.Context, electionID string) (int, error) {
	query := `SELECT COUNT(*) FROM ballots WHERE election_id = $1`

	var count int
	if err := database.GetTx(ctx, p.db).QueryRowContext(ctx, query, electionID).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count ballots")
	}
	return count, nil
}

// PostgreSQLParticipationRepository stores participation marks in the
// participations table, with PRIMARY KEY (election_id, user_id).
type PostgreSQLParticipationRepository struct {
	db *sql.DB
}

// NewPostgreSQLParticipationRepository creates a new PostgreSQL participation repository.
func NewPostgreSQLParticipationRepository(db *sql.DB) *PostgreSQLParticipationRepository {
	return &PostgreSQLParticipationRepository{db: db}
}

func (p *PostgreSQLParticipationRepository) Create(
	ctx context.Context,
	participation *ballotDomain.Participation,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO participations (election_id, user_id, cast_at) VALUES ($1, $2, $3)`

	_, err := querier.ExecContext(ctx, query, participation.ElectionID, participation.UserID, participation.CastAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return ballotDomain.ErrAlreadyVoted
		}
		return apperrors.Wrap(err, "failed to create participation")
	}
	return nil
}

func (p *PostgreSQLParticipationRepository) Exists(
	ctx context.Context,
	electionID string,
	userID uuid.UUID,
) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM participations WHERE election_id = $1 AND user_id = $2)`

	var exists bool
	if err := database.GetTx(ctx, p.db).QueryRowContext(ctx, query, electionID, userID).Scan(&exists); err != nil {
		return false, apperrors.Wrap(err, "failed to check participation")
	}
	return exists, nil
}
