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

// userColumns is the column list shared by every user query.
const userColumns = `id, username, email, password_hash, otp_secret, otp_secret_nonce, master_key_id, enabled, created_at, updated_at`

// PostgreSQLUserRepository stores users in the users table.
type PostgreSQLUserRepository struct {
	db *sql.DB
}

// NewPostgreSQLUserRepository creates a new PostgreSQL user repository.
func NewPostgreSQLUserRepository(db *sql.DB) *PostgreSQLUserRepository {
	return &PostgreSQLUserRepository{db: db}
}

func (p *PostgreSQLUserRepository) Create(ctx context.Context, user *authDomain.User) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO users (` + userColumns + `)
			  VALUES ($1, $2, LOWER($3), $4, $5, $6, $7, $8, $9, $10)`

	_, err := querier.ExecContext(
		ctx,
		query,
		user.ID,
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

func (p *PostgreSQLUserRepository) Update(ctx context.Context, user *authDomain.User) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE users SET password_hash = $1, otp_secret = $2, otp_secret_nonce = $3,
			  master_key_id = $4, enabled = $5, updated_at = $6 WHERE id = $7`

	result, err := querier.ExecContext(
		ctx,
		query,
		user.PasswordHash,
		user.OTPSecret,
		user.OTPSecretNonce,
		user.MasterKeyID,
		user.Enabled,
		user.UpdatedAt,
		user.ID,
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

func (p *PostgreSQLUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*authDomain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return p.scan(database.GetTx(ctx, p.db).QueryRowContext(ctx, query, id))
}

func (p *PostgreSQLUserRepository) GetByUsername(ctx context.Context, username string) (*authDomain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return p.scan(database.GetTx(ctx, p.db).QueryRowContext(ctx, query, username))
}

func (p *PostgreSQLUserRepository) GetByEmail(ctx context.Context, email string) (*authDomain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = LOWER($1)`
	return p.scan(database.GetTx(ctx, p.db).QueryRowContext(ctx, query, email))
}

func (p *PostgreSQLUserRepository) scan(row *sql.Row) (*authDomain.User, error) {
	var user authDomain.User
	err := row.Scan(
		&user.ID,
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
	return &user, nil
}
