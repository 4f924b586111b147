// Package http provides HTTP handlers for the audit trail.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	auditDomain "github.com/allisson/votesafe/internal/audit/domain"
	"github.com/allisson/votesafe/internal/audit/http/dto"
	auditUseCase "github.com/allisson/votesafe/internal/audit/usecase"
	"github.com/allisson/votesafe/internal/httputil"
)

// AuditHandler handles HTTP requests for audit entries.
type AuditHandler struct {
	auditUseCase auditUseCase.AuditUseCase
	logger       *slog.Logger
}

// NewAuditHandler creates a new audit handler.
func NewAuditHandler(auditUseCase auditUseCase.AuditUseCase, logger *slog.Logger) *AuditHandler {
	return &AuditHandler{
		auditUseCase: auditUseCase,
		logger:       logger,
	}
}

// ListHandler lists audit entries in chronological order.
// GET /v1/admin/audit?offset=0&limit=50&actor_id=alice&event_type=vote&from=...&to=...
// from and to are RFC3339 and inclusive.
func (h *AuditHandler) ListHandler(c *gin.Context) {
	filter, err := h.parseFilter(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	entries, err := h.auditUseCase.List(c.Request.Context(), filter)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAuditEntriesToListResponse(entries))
}

// GetHandler returns one audit entry.
// GET /v1/admin/audit/:id
func (h *AuditHandler) GetHandler(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid audit entry id: must be a valid UUID"), h.logger)
		return
	}

	entry, err := h.auditUseCase.Get(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAuditEntryToResponse(entry))
}

// VerifyHandler recomputes the integrity hash of one entry.
// POST /v1/admin/audit/:id/verify
// A tampered entry answers 200 with valid=false; the violation itself is audited.
func (h *AuditHandler) VerifyHandler(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid audit entry id: must be a valid UUID"), h.logger)
		return
	}

	ok, err := h.auditUseCase.Verify(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.VerifyEntryResponse{ID: id.String(), Valid: ok})
}

// VerifyBatchHandler verifies every entry matching the query filter.
// POST /v1/admin/audit/verify?event_type=vote&from=...&to=...
func (h *AuditHandler) VerifyBatchHandler(c *gin.Context) {
	filter, err := h.parseFilter(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	// Verification covers the whole range unless the caller paginates explicitly.
	if c.Query("limit") == "" {
		filter.Limit = 0
	}

	report, err := h.auditUseCase.VerifyBatch(c.Request.Context(), filter)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapVerifyReportToResponse(report))
}

func (h *AuditHandler) parseFilter(c *gin.Context) (auditDomain.Filter, error) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		return auditDomain.Filter{}, err
	}

	filter := auditDomain.Filter{
		ActorID:   c.Query("actor_id"),
		EventType: auditDomain.EventType(c.Query("event_type")),
		Offset:    offset,
		Limit:     limit,
	}

	if filter.EventType != "" && !filter.EventType.Valid() {
		return auditDomain.Filter{}, fmt.Errorf(
			"invalid event_type: must be one of authentication, vote, administrative, security_violation",
		)
	}

	filter.From, filter.To, err = httputil.ParseTimeRange(c)
	if err != nil {
		return auditDomain.Filter{}, err
	}

	return filter, nil
}
