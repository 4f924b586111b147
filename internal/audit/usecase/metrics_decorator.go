package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/allisson/votesafe/internal/audit/domain"
	"github.com/allisson/votesafe/internal/metrics"
)

type auditUseCaseWithMetrics struct {
	next    AuditUseCase
	metrics metrics.BusinessMetrics
}

// NewAuditUseCaseWithMetrics wraps an AuditUseCase with metrics recording.
// Every tampered entry found by Verify or VerifyBatch is also counted as a security event.
func NewAuditUseCaseWithMetrics(useCase AuditUseCase, m metrics.BusinessMetrics) AuditUseCase {
	return &auditUseCaseWithMetrics{next: useCase, metrics: m}
}

func (a *auditUseCaseWithMetrics) record(ctx context.Context, op string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	a.metrics.RecordOperation(ctx, "audit", op, status)
	a.metrics.RecordDuration(ctx, "audit", op, time.Since(start), status)
}

func (a *auditUseCaseWithMetrics) Record(
	ctx context.Context,
	input *auditDomain.RecordInput,
) (*auditDomain.AuditEntry, error) {
	start := time.Now()
	entry, err := a.next.Record(ctx, input)
	a.record(ctx, "audit_record", start, err)
	return entry, err
}

func (a *auditUseCaseWithMetrics) Verify(ctx context.Context, id uuid.UUID) (bool, error) {
	start := time.Now()
	ok, err := a.next.Verify(ctx, id)
	a.record(ctx, "audit_verify", start, err)
	if err == nil && !ok {
		a.metrics.RecordSecurityEvent(ctx, "audit_tamper", "hash_mismatch")
	}
	return ok, err
}

func (a *auditUseCaseWithMetrics) VerifyBatch(
	ctx context.Context,
	filter auditDomain.Filter,
) (*auditDomain.VerifyReport, error) {
	start := time.Now()
	report, err := a.next.VerifyBatch(ctx, filter)
	a.record(ctx, "audit_verify_batch", start, err)
	if report != nil {
		for range report.Tampered {
			a.metrics.RecordSecurityEvent(ctx, "audit_tamper", "hash_mismatch")
		}
	}
	return report, err
}

func (a *auditUseCaseWithMetrics) Get(ctx context.Context, id uuid.UUID) (*auditDomain.AuditEntry, error) {
	start := time.Now()
	entry, err := a.next.Get(ctx, id)
	a.record(ctx, "audit_get", start, err)
	return entry, err
}

func (a *auditUseCaseWithMetrics) List(
	ctx context.Context,
	filter auditDomain.Filter,
) ([]*auditDomain.AuditEntry, error) {
	start := time.Now()
	entries, err := a.next.List(ctx, filter)
	a.record(ctx, "audit_list", start, err)
	return entries, err
}
