package repository

import (
	"context"
	"database/sql"
	"errors"

	cryptoDomain "github.com/allisson/votesafe/internal/crypto/domain"
	"github.com/allisson/votesafe/internal/database"
	apperrors "github.com/allisson/votesafe/internal/errors"
)

// PostgreSQLElectionKeyRepository stores election keys in the election_keys table.
//
// Schema: id UUID, election_id VARCHAR, version INTEGER, algorithm VARCHAR,
// master_key_id VARCHAR, encrypted_key BYTEA, nonce BYTEA, created_at TIMESTAMPTZ,
// UNIQUE (election_id, version).
type PostgreSQLElectionKeyRepository struct {
	db *sql.DB
}

// NewPostgreSQLElectionKeyRepository creates a new PostgreSQL election key repository.
func NewPostgreSQLElectionKeyRepository(db *sql.DB) *PostgreSQLElectionKeyRepository {
	return &PostgreSQLElectionKeyRepository{db: db}
}

func (p *PostgreSQLElectionKeyRepository) Create(ctx context.Context, key *cryptoDomain.ElectionKey) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO election_keys (id, election_id, version, algorithm, master_key_id, encrypted_key, nonce, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := querier.ExecContext(
		ctx,
		query,
		key.ID,
		key.ElectionID,
		key.Version,
		key.Algorithm,
		key.MasterKeyID,
		key.EncryptedKey,
		key.Nonce,
		key.CreatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return apperrors.Wrap(apperrors.ErrConflict, "election key version already exists")
		}
		return apperrors.Wrap(err, "failed to create election key")
	}
	return nil
}

func (p *PostgreSQLElectionKeyRepository) Get(
	ctx context.Context,
	electionID string,
	version uint,
) (*cryptoDomain.ElectionKey, error) {
	query := `SELECT id, election_id, version, algorithm, master_key_id, encrypted_key, nonce, created_at
			  FROM election_keys WHERE election_id = $1 AND version = $2`

	return p.scanOne(database.GetTx(ctx, p.db).QueryRowContext(ctx, query, electionID, version))
}

func (p *PostgreSQLElectionKeyRepository) GetLatest(
	ctx context.Context,
	electionID string,
) (*cryptoDomain.ElectionKey, error) {
	query := `SELECT id, election_id, version, algorithm, master_key_id, encrypted_key, nonce, created_at
			  FROM election_keys WHERE election_id = $1 ORDER BY version DESC LIMIT 1`

	return p.scanOne(database.GetTx(ctx, p.db).QueryRowContext(ctx, query, electionID))
}

func (p *PostgreSQLElectionKeyRepository) ListVersions(
	ctx context.Context,
	electionID string,
) ([]*cryptoDomain.ElectionKey, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, election_id, version, algorithm, master_key_id, encrypted_key, nonce, created_at
			  FROM election_keys WHERE election_id = $1 ORDER BY version ASC`

	rows, err := querier.QueryContext(ctx, query, electionID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list election keys")
	}
	defer func() {
		_ = rows.Close()
	}()

	var keys []*cryptoDomain.ElectionKey
	for rows.Next() {
		var key cryptoDomain.ElectionKey
		if err := rows.Scan(
			&key.ID,
			&key.ElectionID,
			&key.Version,
			&key.Algorithm,
			&key.MasterKeyID,
			&key.EncryptedKey,
			&key.Nonce,
			&key.CreatedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan election key")
		}
		keys = append(keys, &key)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate election keys")
	}
	return keys, nil
}

func (p *PostgreSQLElectionKeyRepository) scanOne(row *sql.Row) (*cryptoDomain.ElectionKey, error) {
	var key cryptoDomain.ElectionKey
	err := row.Scan(
		&key.ID,
		&key.ElectionID,
		&key.Version,
		&key.Algorithm,
		&key.MasterKeyID,
		&key.EncryptedKey,
		&key.Nonce,
		&key.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, cryptoDomain.ErrKeyNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get election key")
	}
	return &key, nil
}
