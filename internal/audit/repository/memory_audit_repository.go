package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"

	auditDomain "github.com/allisson/votesafe/internal/audit/domain"
)

// MemoryAuditRepository keeps audit entries in insertion order in process memory.
type MemoryAuditRepository struct {
	mu      sync.RWMutex
	entries []auditDomain.AuditEntry
	index   map[uuid.UUID]int
}

// NewMemoryAuditRepository creates an empty in-memory audit repository.
func NewMemoryAuditRepository() *MemoryAuditRepository {
	return &MemoryAuditRepository{index: make(map[uuid.UUID]int)}
}

func (m *MemoryAuditRepository) Create(_ context.Context, entry *auditDomain.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.index[entry.ID] = len(m.entries)
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *MemoryAuditRepository) Get(_ context.Context, id uuid.UUID) (*auditDomain.AuditEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i, ok := m.index[id]
	if !ok {
		return nil, auditDomain.ErrAuditEntryNotFound
	}
	entry := m.entries[i]
	return &entry, nil
}

func (m *MemoryAuditRepository) List(
	_ context.Context,
	filter auditDomain.Filter,
) ([]*auditDomain.AuditEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*auditDomain.AuditEntry, 0)
	skipped := 0
	for _, entry := range m.entries {
		if !matches(&entry, filter) {
			continue
		}
		if skipped < filter.Offset {
			skipped++
			continue
		}
		if filter.Limit > 0 && len(out) >= filter.Limit {
			break
		}
		e := entry
		out = append(out, &e)
	}
	return out, nil
}

// Replace overwrites a stored entry in place, bypassing the append-only
// contract. Used to simulate tampering.
func (m *MemoryAuditRepository) Replace(entry *auditDomain.AuditEntry) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	i, ok := m.index[entry.ID]
	if ok {
		m.entries[i] = *entry
	}
	return ok
}

func matches(entry *auditDomain.AuditEntry, filter auditDomain.Filter) bool {
	if filter.ActorID != "" && entry.ActorID != filter.ActorID {
		return false
	}
	if filter.EventType != "" && entry.EventType != filter.EventType {
		return false
	}
	if filter.From != nil && entry.Timestamp.Before(*filter.From) {
		return false
	}
	if filter.To != nil && entry.Timestamp.After(*filter.To) {
		return false
	}
	return true
}
