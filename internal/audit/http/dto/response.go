// Package dto provides data transfer objects for audit HTTP endpoints.
package dto

import (
	"time"

	auditDomain "github.com/allisson/votesafe/internal/audit/domain"
)

// AuditEntryResponse represents an audit entry in API responses.
type AuditEntryResponse struct {
	ID            string    `json:"id"`
	ActorID       string    `json:"actor_id"`
	Action        string    `json:"action"`
	Details       string    `json:"details"`
	IPAddress     string    `json:"ip_address"`
	Timestamp     time.Time `json:"timestamp"`
	EventType     string    `json:"event_type"`
	IntegrityHash string    `json:"integrity_hash"`
}

// MapAuditEntryToResponse converts a domain entry to an API response.
func MapAuditEntryToResponse(entry *auditDomain.AuditEntry) AuditEntryResponse {
	return AuditEntryResponse{
		ID:            entry.ID.String(),
		ActorID:       entry.ActorID,
		Action:        entry.Action,
		Details:       entry.Details,
		IPAddress:     entry.IPAddress,
		Timestamp:     entry.Timestamp,
		EventType:     string(entry.EventType),
		IntegrityHash: entry.IntegrityHash,
	}
}

// ListAuditEntriesResponse represents a page of audit entries.
type ListAuditEntriesResponse struct {
	Data []AuditEntryResponse `json:"data"`
}

// MapAuditEntriesToListResponse converts domain entries to a list response.
func MapAuditEntriesToListResponse(entries []*auditDomain.AuditEntry) ListAuditEntriesResponse {
	out := make([]AuditEntryResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, MapAuditEntryToResponse(entry))
	}
	return ListAuditEntriesResponse{Data: out}
}

// VerifyEntryResponse reports the result of verifying one entry.
type VerifyEntryResponse struct {
	ID    string `json:"id"`
	Valid bool   `json:"valid"`
}

// VerifyBatchResponse reports the result of verifying a range of entries.
type VerifyBatchResponse struct {
	Checked  int      `json:"checked"`
	Valid    bool     `json:"valid"`
	Tampered []string `json:"tampered"`
}

// MapVerifyReportToResponse converts a verification report to an API response.
func MapVerifyReportToResponse(report *auditDomain.VerifyReport) VerifyBatchResponse {
	tampered := make([]string, 0, len(report.Tampered))
	for _, id := range report.Tampered {
		tampered = append(tampered, id.String())
	}
	return VerifyBatchResponse{
		Checked:  report.Checked,
		Valid:    report.Valid(),
		Tampered: tampered,
	}
}
