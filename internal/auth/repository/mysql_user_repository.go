package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	authDomain "github.com/allisson/votesafe/internal/auth/domain"
	"github.com/allisson/votesafe/internal/database"
	apperrors "github.com/allisson/votesafe/internal/errors"
)

// MySQLUserRepository stores users in MySQL, with ids as BINARY(16).
type MySQLUserRepository struct {
	db *sql.DB
}

// NewMySQLUserRepository creates a new MySQL user repository.
func NewMySQLUserRepository(db *sql.DB) *MySQLUserRepository {
	return &MySQLUserRepository{db: db}
}

func (m *MySQLUserRepository) Create(ctx context.Context, user *authDomain.User) error {
	querier := database.GetTx(ctx, m.db)

	id, err := user.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal user id")
	}

	query := `INSERT INTO users (` + userColumns + `)
			  VALUES (?, ?, LOWER(?), ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.OTPSecret,
		user.OTPSecretNonce,
		user.MasterKeyID,
		user.Enabled,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return authDomain.ErrUserAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create user")
	}
	return nil
}

func (m *MySQLUserRepository) Update(ctx context.Context, user *authDomain.User) error {
	querier := database.GetTx(ctx, m.db)

	id, err := user.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal user id")
	}

	query := `UPDATE users SET password_hash = ?, otp_secret = ?, otp_secret_nonce = ?,
			  master_key_id = ?, enabled = ?, updated_at = ? WHERE id = ?`

	result, err := querier.ExecContext(
		ctx,
		query,
		user.PasswordHash,
		user.OTPSecret,
		user.OTPSecretNonce,
		user.MasterKeyID,
		user.Enabled,
		user.UpdatedAt,
		id,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update user")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rows == 0 {
		return authDomain.ErrUserNotFound
	}
	return nil
}

func (m *MySQLUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*authDomain.User, error) {
	idBytes, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal user id")
	}
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return m.scan(database.GetTx(ctx, m.db).QueryRowContext(ctx, query, idBytes))
}

func (m *MySQLUserRepository) GetByUsername(ctx context.Context, username string) (*authDomain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = ?`
	return m.scan(database.GetTx(ctx, m.db).QueryRowContext(ctx, query, username))
}

func (m *MySQLUserRepository) GetByEmail(ctx context.Context, email string) (*authDomain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = LOWER(?)`
	return m.scan(database.GetTx(ctx, m.db).QueryRowContext(ctx, query, email))
}

func (m *MySQLUserRepository) scan(row *sql.Row) (*authDomain.User, error) {
	var user authDomain.User
	var id []byte

	err := row.Scan(
		&id,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.OTPSecret,
		&user.OTPSecretNonce,
		&user.MasterKeyID,
		&user.Enabled,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authDomain.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get user")
	}

	if err := user.ID.UnmarshalBinary(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal user id")
	}
	return &user, nil
}
