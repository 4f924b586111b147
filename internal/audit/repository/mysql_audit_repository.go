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

// MySQLAuditRepository stores audit entries in MySQL with BINARY(16) ids and
// DATETIME(6) timestamps. The DSN must set parseTime=true and loc=UTC.
type MySQLAuditRepository struct {
	db *sql.DB
}

// NewMySQLAuditRepository creates a new MySQL audit repository.
func NewMySQLAuditRepository(db *sql.DB) *MySQLAuditRepository {
	return &MySQLAuditRepository{db: db}
}

func (m *MySQLAuditRepository) Create(ctx context.Context, entry *auditDomain.AuditEntry) error {
	querier := database.GetTx(ctx, m.db)

	id, err := entry.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal audit entry id")
	}

	query := `INSERT INTO audit_entries (id, actor_id, action, details, ip_address, occurred_at, event_type, integrity_hash)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
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

func (m *MySQLAuditRepository) Get(ctx context.Context, id uuid.UUID) (*auditDomain.AuditEntry, error) {
	querier := database.GetTx(ctx, m.db)

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal audit entry id")
	}

	query := `SELECT ` + auditEntryColumns + ` FROM audit_entries WHERE id = ?`

	entry, err := scanMySQLAuditEntry(querier.QueryRowContext(ctx, query, idBytes))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auditDomain.ErrAuditEntryNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get audit entry")
	}
	return entry, nil
}

func (m *MySQLAuditRepository) List(
	ctx context.Context,
	filter auditDomain.Filter,
) ([]*auditDomain.AuditEntry, error) {
	querier := database.GetTx(ctx, m.db)

	query, args := buildListQuery(filter, mysqlPlaceholder)
	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit entries")
	}
	defer func() {
		_ = rows.Close()
	}()

	entries := make([]*auditDomain.AuditEntry, 0)
	for rows.Next() {
		entry, err := scanMySQLAuditEntry(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan audit entry")
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate audit entries")
	}
	return entries, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMySQLAuditEntry(row rowScanner) (*auditDomain.AuditEntry, error) {
	var entry auditDomain.AuditEntry
	var idBytes []byte
	var eventType string
	if err := row.Scan(
		&idBytes,
		&entry.ActorID,
		&entry.Action,
		&entry.Details,
		&entry.IPAddress,
		&entry.Timestamp,
		&eventType,
		&entry.IntegrityHash,
	); err != nil {
		return nil, err
	}
	if err := entry.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal audit entry id")
	}
	entry.EventType = auditDomain.EventType(eventType)
	return &entry, nil
}
