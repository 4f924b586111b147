// Package repository persists audit entries in memory, PostgreSQL or MySQL.
package repository

import (
	"fmt"
	"strings"

	auditDomain "github.com/allisson/votesafe/internal/audit/domain"
)

const auditEntryColumns = `id, actor_id, action, details, ip_address, occurred_at, event_type, integrity_hash`

// buildListQuery renders the filtered SELECT for audit_entries. placeholder
// returns the dialect's bind marker for the n-th argument (1-based).
func buildListQuery(filter auditDomain.Filter, placeholder func(n int) string) (string, []any) {
	var (
		conditions []string
		args       []any
	)
	add := func(expr string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(expr, placeholder(len(args))))
	}

	if filter.ActorID != "" {
		add("actor_id = %s", filter.ActorID)
	}
	if filter.EventType != "" {
		add("event_type = %s", string(filter.EventType))
	}
	if filter.From != nil {
		add("occurred_at >= %s", filter.From.UTC())
	}
	if filter.To != nil {
		add("occurred_at <= %s", filter.To.UTC())
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(auditEntryColumns)
	sb.WriteString(" FROM audit_entries")
	if len(conditions) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conditions, " AND "))
	}
	sb.WriteString(" ORDER BY occurred_at ASC, id ASC")

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		fmt.Fprintf(&sb, " LIMIT %s", placeholder(len(args)))
		args = append(args, filter.Offset)
		fmt.Fprintf(&sb, " OFFSET %s", placeholder(len(args)))
	}

	return sb.String(), args
}

func postgresPlaceholder(n int) string {
	return fmt.Sprintf("$%d", n)
}

func mysqlPlaceholder(int) string {
	return "?"
}
