// Package usecase implements the vote cryptography engine: per-election,
// versioned keys and AEAD encryption of ballot payloads with a separate
// plaintext integrity hash.
package usecase

import (
	"context"

	cryptoDomain "github.com/allisson/votesafe/internal/crypto/domain"
)

// ElectionKeyRepository persists wrapped election keys.
type ElectionKeyRepository interface {
	// Create stores a new key version. Returns ErrConflict when the
	// (election, version) pair already exists.
	Create(ctx context.Context, key *cryptoDomain.ElectionKey) error

	// Get returns a specific version or ErrKeyNotFound.
	Get(ctx context.Context, electionID string, version uint) (*cryptoDomain.ElectionKey, error)

	// GetLatest returns the highest version for the election or ErrKeyNotFound.
	GetLatest(ctx context.Context, electionID string) (*cryptoDomain.ElectionKey, error)

	// ListVersions returns every version for the election ordered by version ascending.
	ListVersions(ctx context.Context, electionID string) ([]*cryptoDomain.ElectionKey, error)
}

// VoteCryptoUseCase encrypts and decrypts ballot payloads per election.
type VoteCryptoUseCase interface {
	// Encrypt seals plaintext under the latest key of the election, creating
	// version 1 on first use. Each call uses a fresh random nonce.
	Encrypt(ctx context.Context, plaintext []byte, electionID string) (*cryptoDomain.EncryptedVote, error)

	// Decrypt opens a vote with the key version recorded in it.
	//
	// Errors:
	//   - ErrKeyNotFound when the election has no such key version
	//   - ErrDecryptionFailed when the AEAD tag does not verify
	//   - ErrVoteIntegrityMismatch when the plaintext hash does not match
	Decrypt(ctx context.Context, vote *cryptoDomain.EncryptedVote, electionID string) ([]byte, error)

	// RotateElectionKey adds a new key version for the election. Older
	// versions remain available for decryption. The returned key carries
	// metadata only.
	RotateElectionKey(ctx context.Context, electionID string) (*cryptoDomain.ElectionKey, error)

	// ListKeyVersions returns metadata for every key version of the election.
	ListKeyVersions(ctx context.Context, electionID string) ([]*cryptoDomain.ElectionKey, error)

	// Hash returns the hex SHA-256 digest of data.
	Hash(data []byte) string

	// VerifyHash compares data against a hex SHA-256 digest in constant time.
	VerifyHash(data []byte, hash string) bool
}
