// Package repository persists wrapped election keys in memory, PostgreSQL or MySQL.
package repository

import (
	"context"
	"sort"
	"sync"

	cryptoDomain "github.com/allisson/votesafe/internal/crypto/domain"
	apperrors "github.com/allisson/votesafe/internal/errors"
)

// MemoryElectionKeyRepository keeps wrapped election keys in process memory.
type MemoryElectionKeyRepository struct {
	mu   sync.RWMutex
	keys map[string]map[uint]cryptoDomain.ElectionKey
}

// NewMemoryElectionKeyRepository creates an empty in-memory repository.
func NewMemoryElectionKeyRepository() *MemoryElectionKeyRepository {
	return &MemoryElectionKeyRepository{keys: make(map[string]map[uint]cryptoDomain.ElectionKey)}
}

func (m *MemoryElectionKeyRepository) Create(_ context.Context, key *cryptoDomain.ElectionKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	versions, ok := m.keys[key.ElectionID]
	if !ok {
		versions = make(map[uint]cryptoDomain.ElectionKey)
		m.keys[key.ElectionID] = versions
	}
	if _, exists := versions[key.Version]; exists {
		return apperrors.Wrap(apperrors.ErrConflict, "election key version already exists")
	}

	stored := *key
	stored.Key = nil
	versions[key.Version] = stored
	return nil
}

func (m *MemoryElectionKeyRepository) Get(
	_ context.Context,
	electionID string,
	version uint,
) (*cryptoDomain.ElectionKey, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	key, ok := m.keys[electionID][version]
	if !ok {
		return nil, cryptoDomain.ErrKeyNotFound
	}
	return &key, nil
}

func (m *MemoryElectionKeyRepository) GetLatest(
	_ context.Context,
	electionID string,
) (*cryptoDomain.ElectionKey, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var latest *cryptoDomain.ElectionKey
	for _, key := range m.keys[electionID] {
		if latest == nil || key.Version > latest.Version {
			k := key
			latest = &k
		}
	}
	if latest == nil {
		return nil, cryptoDomain.ErrKeyNotFound
	}
	return latest, nil
}

func (m *MemoryElectionKeyRepository) ListVersions(
	_ context.Context,
	electionID string,
) ([]*cryptoDomain.ElectionKey, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*cryptoDomain.ElectionKey, 0, len(m.keys[electionID]))
	for _, key := range m.keys[electionID] {
		k := key
		out = append(out, &k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}
