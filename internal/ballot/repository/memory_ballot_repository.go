// Package repository persists ballots and participation marks in memory, PostgreSQL or MySQL.
package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	ballotDomain "github.com/allisson/votesafe/internal/ballot/domain"
	apperrors "github.com/allisson/votesafe/internal/errors"
)

// MemoryBallotRepository keeps ballots in process memory.
type MemoryBallotRepository struct {
	mu         sync.RWMutex
	byID       map[uuid.UUID]ballotDomain.Ballot
	byElection map[string][]uuid.UUID
}

// NewMemoryBallotRepository creates an empty in-memory ballot repository.
func NewMemoryBallotRepository() *MemoryBallotRepository {
	return &MemoryBallotRepository{
		byID:       make(map[uuid.UUID]ballotDomain.Ballot),
		byElection: make(map[string][]uuid.UUID),
	}
}

func (m *MemoryBallotRepository) Create(_ context.Context, ballot *ballotDomain.Ballot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byID[ballot.ID]; exists {
		return apperrors.Wrap(apperrors.ErrConflict, "ballot already exists")
	}
	m.byID[ballot.ID] = *ballot
	m.byElection[ballot.ElectionID] = append(m.byElection[ballot.ElectionID], ballot.ID)
	return nil
}

func (m *MemoryBallotRepository) Get(_ context.Context, id uuid.UUID) (*ballotDomain.Ballot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ballot, ok := m.byID[id]
	if !ok {
		return nil, ballotDomain.ErrBallotNotFound
	}
	return &ballot, nil
}

func (m *MemoryBallotRepository) ListByElection(
	_ context.Context,
	electionID string,
) ([]*ballotDomain.Ballot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := m.byElection[electionID]
	out := make([]*ballotDomain.Ballot, 0, len(ids))
	for _, id := range ids {
		ballot := m.byID[id]
		out = append(out, &ballot)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CastAt.Equal(out[j].CastAt) {
			return out[i].CastAt.Before(out[j].CastAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (m *MemoryBallotRepository) CountByElection(_ context.Context, electionID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byElection[electionID]), nil
}

// Replace overwrites a stored ballot. Used to simulate tampering in tests.
func (m *MemoryBallotRepository) Replace(ballot *ballotDomain.Ballot) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[ballot.ID]; !ok {
		return false
	}
	m.byID[ballot.ID] = *ballot
	return true
}

type participationKey struct {
	electionID string
	userID     uuid.UUID
}

// MemoryParticipationRepository keeps participation marks in process memory.
type MemoryParticipationRepository struct {
	mu      sync.RWMutex
	entries map[participationKey]ballotDomain.Participation
}

// NewMemoryParticipationRepository creates an empty in-memory participation repository.
func NewMemoryParticipationRepository() *MemoryParticipationRepository {
	return &MemoryParticipationRepository{entries: make(map[participationKey]ballotDomain.Participation)}
}

func (m *MemoryParticipationRepository) Create(_ context.Context, participation *ballotDomain.Participation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := participationKey{electionID: participation.ElectionID, userID: participation.UserID}
	if _, exists := m.entries[key]; exists {
		return ballotDomain.ErrAlreadyVoted
	}
	m.entries[key] = *participation
	return nil
}

func (m *MemoryParticipationRepository) Exists(_ context.Context, electionID string, userID uuid.UUID) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.entries[participationKey{electionID: electionID, userID: userID}]
	return ok, nil
}
