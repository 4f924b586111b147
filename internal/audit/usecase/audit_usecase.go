package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/allisson/votesafe/internal/audit/domain"
	auditService "github.com/allisson/votesafe/internal/audit/service"
	apperrors "github.com/allisson/votesafe/internal/errors"
)

// tamperAction is the action recorded when verification detects a modified entry.
const tamperAction = "audit_tamper_detected"

type auditUseCase struct {
	repo      AuditRepository
	integrity auditService.IntegrityService
	logger    *slog.Logger
	now       func() time.Time
}

// NewAuditUseCase creates an AuditUseCase.
func NewAuditUseCase(
	repo AuditRepository,
	integrity auditService.IntegrityService,
	logger *slog.Logger,
) AuditUseCase {
	return &auditUseCase{
		repo:      repo,
		integrity: integrity,
		logger:    logger,
		now:       time.Now,
	}
}

func (a *auditUseCase) Record(
	ctx context.Context,
	input *auditDomain.RecordInput,
) (*auditDomain.AuditEntry, error) {
	if !input.EventType.Valid() {
		return nil, auditDomain.ErrInvalidEventType
	}
	if strings.TrimSpace(input.Action) == "" {
		return nil, auditDomain.ErrActionRequired
	}

	actorID := input.ActorID
	if actorID == "" {
		actorID = auditDomain.ActorAnonymous
	}
	ip := input.IPAddress
	if ip == "" {
		ip = auditDomain.ClientIP(ctx)
	}

	entry := &auditDomain.AuditEntry{
		ID:        uuid.Must(uuid.NewV7()),
		ActorID:   actorID,
		Action:    input.Action,
		Details:   input.Details,
		IPAddress: ip,
		// SQL timestamps keep microseconds; hashing a finer value would fail verification after a reload.
		Timestamp: a.now().UTC().Truncate(time.Microsecond),
		EventType: input.EventType,
	}
	entry.IntegrityHash = a.integrity.Compute(entry)

	if err := a.repo.Create(ctx, entry); err != nil {
		return nil, apperrors.Wrap(err, "failed to record audit entry")
	}

	return entry, nil
}

func (a *auditUseCase) Verify(ctx context.Context, id uuid.UUID) (bool, error) {
	entry, err := a.repo.Get(ctx, id)
	if err != nil {
		return false, err
	}

	if a.integrity.Verify(entry) {
		return true, nil
	}

	if err := a.reportTamper(ctx, entry); err != nil {
		return false, err
	}
	return false, nil
}

func (a *auditUseCase) VerifyBatch(
	ctx context.Context,
	filter auditDomain.Filter,
) (*auditDomain.VerifyReport, error) {
	entries, err := a.repo.List(ctx, filter)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit entries")
	}

	report := &auditDomain.VerifyReport{Tampered: make([]uuid.UUID, 0)}
	for _, entry := range entries {
		report.Checked++
		if a.integrity.Verify(entry) {
			continue
		}
		report.Tampered = append(report.Tampered, entry.ID)
		if err := a.reportTamper(ctx, entry); err != nil {
			return report, err
		}
	}

	return report, nil
}

func (a *auditUseCase) Get(ctx context.Context, id uuid.UUID) (*auditDomain.AuditEntry, error) {
	return a.repo.Get(ctx, id)
}

func (a *auditUseCase) List(
	ctx context.Context,
	filter auditDomain.Filter,
) ([]*auditDomain.AuditEntry, error) {
	if filter.EventType != "" && !filter.EventType.Valid() {
		return nil, auditDomain.ErrInvalidEventType
	}
	entries, err := a.repo.List(ctx, filter)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit entries")
	}
	return entries, nil
}

// reportTamper records the security violation for a modified entry.
func (a *auditUseCase) reportTamper(ctx context.Context, entry *auditDomain.AuditEntry) error {
	a.logger.Error("audit entry failed integrity verification",
		slog.String("audit_entry_id", entry.ID.String()),
		slog.String("event_type", string(entry.EventType)),
	)

	_, err := a.Record(ctx, &auditDomain.RecordInput{
		ActorID:   auditDomain.ActorSystem,
		Action:    tamperAction,
		Details:   fmt.Sprintf("audit entry %s failed integrity verification", entry.ID),
		EventType: auditDomain.EventSecurityViolation,
	})
	if err != nil {
		return apperrors.Wrap(err, "failed to record audit tamper violation")
	}
	return nil
}
