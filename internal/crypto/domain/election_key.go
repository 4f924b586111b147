// Package domain defines the vote cryptography models.
//
// Key hierarchy: Master Key → Election Key → Ballot. Every election gets its
// own 256-bit key, wrapped with a master key before it is persisted, so a
// compromised election key exposes exactly one election. Election keys are
// versioned; rotation adds a version and never overwrites an older one, so
// ballots encrypted before a rotation remain decryptable.
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ElectionKey is one version of the symmetric key bound to an election.
type ElectionKey struct {
	ID           uuid.UUID // Unique identifier (UUIDv7)
	ElectionID   string    // Election this key belongs to
	Version      uint      // Starts at 1, incremented on rotation
	Algorithm    Algorithm // AEAD used with this key
	MasterKeyID  string    // Master key that wraps EncryptedKey
	EncryptedKey []byte    // Key wrapped with the master key
	Nonce        []byte    // Nonce used to wrap the key
	Key          []byte    // Plaintext key (populated after unwrap, never persisted)
	CreatedAt    time.Time
}

// CacheKey identifies an election key version in lookup tables.
func (k *ElectionKey) CacheKey() string {
	return ElectionKeyRef(k.ElectionID, k.Version)
}

// AAD returns the associated data bound into every ballot encrypted under this key.
// A ballot moved to another election, or relabelled with another version, fails to open.
func (k *ElectionKey) AAD() []byte {
	return []byte(ElectionKeyRef(k.ElectionID, k.Version))
}

// ElectionKeyRef formats the election/version pair used for caching and AAD.
func ElectionKeyRef(electionID string, version uint) string {
	return fmt.Sprintf("%s|%d", electionID, version)
}
