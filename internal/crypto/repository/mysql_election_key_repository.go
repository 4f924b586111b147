package repository

import (
	"context"
	"database/sql"
	"errors"

	cryptoDomain "github.com/allisson/votesafe/internal/crypto/domain"
	"github.com/allisson/votesafe/internal/database"
	apperrors "github.com/allisson/votesafe/internal/errors"
)

// MySQLElectionKeyRepository stores election keys in MySQL, with ids as BINARY(16).
type MySQLElectionKeyRepository struct {
	db *sql.DB
}

// NewMySQLElectionKeyRepository creates a new MySQL election key repository.
func NewMySQLElectionKeyRepository(db *sql.DB) *MySQLElectionKeyRepository {
	return &MySQLElectionKeyRepository{db: db}
}

func (m *MySQLElectionKeyRepository) Create(ctx context.Context, key *cryptoDomain.ElectionKey) error {
	querier := database.GetTx(ctx, m.db)

	id, err := key.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal election key id")
	}

	query := `INSERT INTO election_keys (id, election_id, version, algorithm, master_key_id, encrypted_key, nonce, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
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

func (m *MySQLElectionKeyRepository) Get(
	ctx context.Context,
	electionID string,
	version uint,
) (*cryptoDomain.ElectionKey, error) {
	query := `SELECT id, election_id, version, algorithm, master_key_id, encrypted_key, nonce, created_at
			  FROM election_keys WHERE election_id = ? AND version = ?`

	return m.scan(database.GetTx(ctx, m.db).QueryRowContext(ctx, query, electionID, version))
}

func (m *MySQLElectionKeyRepository) GetLatest(
	ctx context.Context,
	electionID string,
) (*cryptoDomain.ElectionKey, error) {
	query := `SELECT id, election_id, version, algorithm, master_key_id, encrypted_key, nonce, created_at
			  FROM election_keys WHERE election_id = ? ORDER BY version DESC LIMIT 1`

	return m.scan(database.GetTx(ctx, m.db).QueryRowContext(ctx, query, electionID))
}

func (m *MySQLElectionKeyRepository) ListVersions(
	ctx context.Context,
	electionID string,
) ([]*cryptoDomain.ElectionKey, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, election_id, version, algorithm, master_key_id, encrypted_key, nonce, created_at
			  FROM election_keys WHERE election_id = ? ORDER BY version ASC`

	rows, err := querier.QueryContext(ctx, query, electionID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list election keys")
	}
	defer func() {
		_ = rows.Close()
	}()

	var keys []*cryptoDomain.ElectionKey
	for rows.Next() {
		key, err := m.scan(rows)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate election keys")
	}
	return keys, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (m *MySQLElectionKeyRepository) scan(row rowScanner) (*cryptoDomain.ElectionKey, error) {
	var key cryptoDomain.ElectionKey
	var id []byte

	err := row.Scan(
		&id,
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

	if err := key.ID.UnmarshalBinary(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal election key id")
	}
	return &key, nil
}
