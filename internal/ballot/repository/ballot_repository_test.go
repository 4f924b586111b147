package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ballotDomain "github.com/allisson/votesafe/internal/ballot/domain"
)

var ballotColumns = []string{"id", "election_id", "encrypted_vote", "cast_at"}

func newTestBallot(electionID string, castAt time.Time) *ballotDomain.Ballot {
	return &ballotDomain.Ballot{
		ID:            uuid.New(),
		ElectionID:    electionID,
		EncryptedVote: "aes-gcm:1:bm9uY2U=:Y2lwaGVy:abcd",
		CastAt:        castAt,
	}
}

func TestMemoryBallotRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryBallotRepository()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	late := newTestBallot("e1", base.Add(time.Hour))
	early := newTestBallot("e1", base)
	other := newTestBallot("e2", base)
	for _, b := range []*ballotDomain.Ballot{late, early, other} {
		require.NoError(t, repo.Create(ctx, b))
	}

	t.Run("Error_DuplicateID", func(t *testing.T) {
		assert.Error(t, repo.Create(ctx, early))
	})

	t.Run("Success_Get", func(t *testing.T) {
		got, err := repo.Get(ctx, early.ID)
		require.NoError(t, err)
		assert.Equal(t, early, got)
	})

	t.Run("Error_GetNotFound", func(t *testing.T) {
		_, err := repo.Get(ctx, uuid.New())
		assert.ErrorIs(t, err, ballotDomain.ErrBallotNotFound)
	})

	t.Run("Success_ListByElectionOrdered", func(t *testing.T) {
		ballots, err := repo.ListByElection(ctx, "e1")
		require.NoError(t, err)
		require.Len(t, ballots, 2)
		assert.Equal(t, early.ID, ballots[0].ID)
		assert.Equal(t, late.ID, ballots[1].ID)

		empty, err := repo.ListByElection(ctx, "missing")
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("Success_Count", func(t *testing.T) {
		count, err := repo.CountByElection(ctx, "e1")
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("Success_Replace", func(t *testing.T) {
		tampered := *other
		tampered.EncryptedVote = "garbage"
		assert.True(t, repo.Replace(&tampered))
		assert.False(t, repo.Replace(newTestBallot("e2", base)))

		got, err := repo.Get(ctx, other.ID)
		require.NoError(t, err)
		assert.Equal(t, "garbage", got.EncryptedVote)
	})
}

func TestMemoryParticipationRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryParticipationRepository()
	userID := uuid.New()

	require.NoError(t, repo.Create(ctx, &ballotDomain.Participation{ElectionID: "e1", UserID: userID}))

	err := repo.Create(ctx, &ballotDomain.Participation{ElectionID: "e1", UserID: userID})
	assert.ErrorIs(t, err, ballotDomain.ErrAlreadyVoted)

	require.NoError(t, repo.Create(ctx, &ballotDomain.Participation{ElectionID: "e2", UserID: userID}))

	ok, err := repo.Exists(ctx, "e1", userID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Exists(ctx, "e1", uuid.New())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPostgreSQLBallotRepository(t *testing.T) {
	ctx := context.Background()
	ballot := newTestBallot("e1", time.Now().UTC())

	t.Run("Success_Create", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectExec("INSERT INTO ballots").
			WithArgs(ballot.ID, ballot.ElectionID, ballot.EncryptedVote, ballot.CastAt).
			WillReturnResult(sqlmock.NewResult(1, 1))

		require.NoError(t, NewPostgreSQLBallotRepository(db).Create(ctx, ballot))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success_Get", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectQuery("SELECT (.+) FROM ballots WHERE id = \\$1").
			WithArgs(ballot.ID).
			WillReturnRows(sqlmock.NewRows(ballotColumns).
				AddRow(ballot.ID.String(), ballot.ElectionID, ballot.EncryptedVote, ballot.CastAt))

		got, err := NewPostgreSQLBallotRepository(db).Get(ctx, ballot.ID)
		require.NoError(t, err)
		assert.Equal(t, ballot.ID, got.ID)
		assert.Equal(t, ballot.EncryptedVote, got.EncryptedVote)
	})

	t.Run("Error_GetNotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectQuery("SELECT (.+) FROM ballots").WillReturnRows(sqlmock.NewRows(ballotColumns))

		_, err = NewPostgreSQLBallotRepository(db).Get(ctx, ballot.ID)
		assert.ErrorIs(t, err, ballotDomain.ErrBallotNotFound)
	})

	t.Run("Success_ListByElection", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		second := newTestBallot("e1", ballot.CastAt.Add(time.Hour))
		mock.ExpectQuery("SELECT (.+) FROM ballots\\s+WHERE election_id = \\$1 ORDER BY cast_at ASC, id ASC").
			WithArgs("e1").
			WillReturnRows(sqlmock.NewRows(ballotColumns).
				AddRow(ballot.ID.String(), "e1", ballot.EncryptedVote, ballot.CastAt).
				AddRow(second.ID.String(), "e1", second.EncryptedVote, second.CastAt))

		ballots, err := NewPostgreSQLBallotRepository(db).ListByElection(ctx, "e1")
		require.NoError(t, err)
		require.Len(t, ballots, 2)
		assert.Equal(t, second.ID, ballots[1].ID)
	})

	t.Run("Error_ListQueryFails", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectQuery("SELECT (.+) FROM ballots").WillReturnError(errors.New("connection reset"))

		_, err = NewPostgreSQLBallotRepository(db).ListByElection(ctx, "e1")
		assert.ErrorContains(t, err, "failed to list ballots")
	})

	t.Run("Success_Count", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM ballots WHERE election_id = \\$1").
			WithArgs("e1").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

		count, err := NewPostgreSQLBallotRepository(db).CountByElection(ctx, "e1")
		require.NoError(t, err)
		assert.Equal(t, 7, count)
	})
}

func TestPostgreSQLParticipationRepository(t *testing.T) {
	ctx := context.Background()
	participation := &ballotDomain.Participation{ElectionID: "e1", UserID: uuid.New(), CastAt: time.Now().UTC()}

	t.Run("Success_Create", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectExec("INSERT INTO participations").
			WithArgs("e1", participation.UserID, participation.CastAt).
			WillReturnResult(sqlmock.NewResult(1, 1))

		require.NoError(t, NewPostgreSQLParticipationRepository(db).Create(ctx, participation))
	})

	t.Run("Error_AlreadyVoted", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectExec("INSERT INTO participations").WillReturnError(&pq.Error{Code: "23505"})

		err = NewPostgreSQLParticipationRepository(db).Create(ctx, participation)
		assert.ErrorIs(t, err, ballotDomain.ErrAlreadyVoted)
	})

	t.Run("Success_Exists", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectQuery("SELECT EXISTS").
			WithArgs("e1", participation.UserID).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		ok, err := NewPostgreSQLParticipationRepository(db).Exists(ctx, "e1", participation.UserID)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestMySQLBallotRepository(t *testing.T) {
	ctx := context.Background()
	ballot := newTestBallot("e1", time.Now().UTC())
	rawID, err := ballot.ID.MarshalBinary()
	require.NoError(t, err)

	t.Run("Success_Create", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectExec("INSERT INTO ballots").
			WithArgs(rawID, "e1", ballot.EncryptedVote, ballot.CastAt).
			WillReturnResult(sqlmock.NewResult(1, 1))

		require.NoError(t, NewMySQLBallotRepository(db).Create(ctx, ballot))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success_Get", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectQuery("SELECT (.+) FROM ballots WHERE id = \\?").
			WithArgs(rawID).
			WillReturnRows(sqlmock.NewRows(ballotColumns).AddRow(rawID, "e1", ballot.EncryptedVote, ballot.CastAt))

		got, err := NewMySQLBallotRepository(db).Get(ctx, ballot.ID)
		require.NoError(t, err)
		assert.Equal(t, ballot.ID, got.ID)
	})

	t.Run("Error_GetNotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectQuery("SELECT (.+) FROM ballots").WillReturnRows(sqlmock.NewRows(ballotColumns))

		_, err = NewMySQLBallotRepository(db).Get(ctx, ballot.ID)
		assert.ErrorIs(t, err, ballotDomain.ErrBallotNotFound)
	})

	t.Run("Success_ListByElection", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectQuery("SELECT (.+) FROM ballots\\s+WHERE election_id = \\?").
			WithArgs("e1").
			WillReturnRows(sqlmock.NewRows(ballotColumns).AddRow(rawID, "e1", ballot.EncryptedVote, ballot.CastAt))

		ballots, err := NewMySQLBallotRepository(db).ListByElection(ctx, "e1")
		require.NoError(t, err)
		require.Len(t, ballots, 1)
		assert.Equal(t, ballot.ID, ballots[0].ID)
	})
}

func TestMySQLParticipationRepository(t *testing.T) {
	ctx := context.Background()
	participation := &ballotDomain.Participation{ElectionID: "e1", UserID: uuid.New(), CastAt: time.Now().UTC()}
	rawUserID, err := participation.UserID.MarshalBinary()
	require.NoError(t, err)

	t.Run("Success_Create", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectExec("INSERT INTO participations").
			WithArgs("e1", rawUserID, participation.CastAt).
			WillReturnResult(sqlmock.NewResult(1, 1))

		require.NoError(t, NewMySQLParticipationRepository(db).Create(ctx, participation))
	})

	t.Run("Error_AlreadyVoted", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectExec("INSERT INTO participations").WillReturnError(&mysql.MySQLError{Number: 1062})

		err = NewMySQLParticipationRepository(db).Create(ctx, participation)
		assert.ErrorIs(t, err, ballotDomain.ErrAlreadyVoted)
	})

	t.Run("Success_ExistsFalse", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectQuery("SELECT EXISTS").
			WithArgs("e1", rawUserID).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		ok, err := NewMySQLParticipationRepository(db).Exists(ctx, "e1", participation.UserID)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
