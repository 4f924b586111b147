// Package usecase implements the audit integrity logger.
package usecase

import (
	"context"

	"github.com/google/uuid"

	auditDomain "github.com/allisson/votesafe/internal/audit/domain"
)

// AuditRepository persists audit entries. Entries are never updated.
type AuditRepository interface {
	// Create appends an entry.
	Create(ctx context.Context, entry *auditDomain.AuditEntry) error

	// Get returns an entry or ErrAuditEntryNotFound.
	Get(ctx context.Context, id uuid.UUID) (*auditDomain.AuditEntry, error)

	// List returns entries matching filter ordered by timestamp ascending.
	List(ctx context.Context, filter auditDomain.Filter) ([]*auditDomain.AuditEntry, error)
}

// AuditUseCase records and verifies audit entries.
type AuditUseCase interface {
	// Record builds, fingerprints and persists an entry. An empty IPAddress is
	// filled from the request context.
	Record(ctx context.Context, input *auditDomain.RecordInput) (*auditDomain.AuditEntry, error)

	// Verify reloads an entry and recomputes its hash. On mismatch it records
	// exactly one security_violation entry and returns false.
	Verify(ctx context.Context, id uuid.UUID) (bool, error)

	// VerifyBatch verifies every entry matching filter. Each tampered entry
	// yields one security_violation entry.
	VerifyBatch(ctx context.Context, filter auditDomain.Filter) (*auditDomain.VerifyReport, error)

	// Get returns a single entry.
	Get(ctx context.Context, id uuid.UUID) (*auditDomain.AuditEntry, error)

	// List returns entries matching filter.
	List(ctx context.Context, filter auditDomain.Filter) ([]*auditDomain.AuditEntry, error)
}
