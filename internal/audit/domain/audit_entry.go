// Package domain defines the tamper-evident audit trail: entries whose
// integrity hash covers every other field, recomputed on verification.
package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventType classifies an audit entry.
type EventType string

const (
	EventAuthentication    EventType = "authentication"
	EventVote              EventType = "vote"
	EventAdministrative    EventType = "administrative"
	EventSecurityViolation EventType = "security_violation"
)

// Valid reports whether e is a known event type.
func (e EventType) Valid() bool {
	switch e {
	case EventAuthentication, EventVote, EventAdministrative, EventSecurityViolation:
		return true
	default:
		return false
	}
}

// Well-known actor identifiers for entries not attributable to a user.
const (
	ActorSystem    = "system"
	ActorAnonymous = "anonymous"
)

// AuditEntry is append-only. IntegrityHash is computed over all other fields
// when the entry is recorded and is never updated afterwards.
type AuditEntry struct {
	ID            uuid.UUID
	ActorID       string
	Action        string
	Details       string
	IPAddress     string
	Timestamp     time.Time
	EventType     EventType
	IntegrityHash string
}

// RecordInput holds the caller-supplied fields of a new entry.
type RecordInput struct {
	ActorID   string
	Action    string
	Details   string
	IPAddress string
	EventType EventType
}

// Filter narrows audit queries. Zero values mean "no filter". From and To are inclusive.
type Filter struct {
	ActorID   string
	EventType EventType
	From      *time.Time
	To        *time.Time
	Offset    int
	Limit     int
}

// VerifyReport summarises a batch verification.
type VerifyReport struct {
	Checked  int
	Tampered []uuid.UUID
}

// Valid reports whether every checked entry verified.
func (r *VerifyReport) Valid() bool {
	return len(r.Tampered) == 0
}

type clientIPKey struct{}

// WithClientIP stores the caller's IP address for audit entries recorded while serving ctx.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey{}, ip)
}

// ClientIP returns the IP address stored by WithClientIP, or "" when absent.
func ClientIP(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey{}).(string)
	return ip
}
