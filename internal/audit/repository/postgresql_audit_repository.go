package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	auditDomain "github.com/allisson/votesafe/internal/audit/domain"
	"github.com/allisson/votesafe/internal/database"
	apperrors "github.com/allisson/votesafe/internal/errors"
)

// PostgreSQLAuditRepository stores audit entries in the audit_entries table.
type PostgreSQLAuditRepository struct {
	db *sql.DB
}

// NewPostgreSQLAuditRepository creates a new PostgreSQL audit repository.
func NewPostgreSQLAuditRepository(db *sql.DB) *PostgreSQLAuditRepository {
	return &PostgreSQLAuditRepository{db: db}
}

func (p *PostgreSQLAuditRepository) Create(ctx context.Context, entry *auditDomain.AuditEntry) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO audit_entries (id, actor_id, action, details, ip_address, occurred_at, event_type, integrity_hash)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := querier.ExecContext(
		ctx,
		query,
		entry.ID,
		entry.ActorID,
		entry.Action,
		entry.Details,
		entry.IPAddress,
		entry.Timestamp,
		string(entry.EventType),
		entry.IntegrityHash,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create audit entry")
	}
	return nil
}

func (p *PostgreSQLAuditRepository) Get(ctx context.Context, id uuid.UUID) (*auditDomain.AuditEntry, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + auditEntryColumns + ` FROM audit_entries WHERE id = $1`

	var entry auditDomain.AuditEntry
	var eventType string
	err := querier.QueryRowContext(ctx, query, id).Scan(
		&entry.ID,
		&entry.ActorID,
		&entry.Action,
		&entry.Details,
		&entry.IPAddress,
		&entry.Timestamp,
		&eventType,
		&entry.IntegrityHash,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auditDomain.ErrAuditEntryNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get audit entry")
	}
	entry.EventType = auditDomain.EventType(eventType)
	return &entry, nil
}

func (p *PostgreSQLAuditRepository) List(
	ctx context.Context,
	filter auditDomain.Filter,
) ([]*auditDomain.AuditEntry, error) {
	querier := database.GetTx(ctx, p.db)

	query, args := buildListQuery(filter, postgresPlaceholder)
	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit entries")
	}
	defer func() {
		_ = rows.Close()
	}()

	entries := make([]*auditDomain.AuditEntry, 0)
	for rows.Next() {
		var entry auditDomain.AuditEntry
		var eventType string
		if err := rows.Scan(
			&entry.ID,
			&entry.ActorID,
			&entry.Action,
			&entry.Details,
			&entry.IPAddress,
			&entry.Timestamp,
			&eventType,
			&entry.IntegrityHash,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan audit entry")
		}
		entry.EventType = auditDomain.EventType(eventType)
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate audit entries")
	}
	return entries, nil
}
