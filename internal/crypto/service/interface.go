// Package service provides the cryptographic primitives behind vote
// confidentiality: AEAD ciphers, master-key wrapping of election keys and
// secrets, SHA-256 integrity hashing, and KMS access.
package service

import (
	"context"

	cryptoDomain "github.com/allisson/votesafe/internal/crypto/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext and a fresh random nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext using the provided nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}

// KeyManager creates and unwraps election keys, and seals arbitrary secrets,
// under a master key.
type KeyManager interface {
	// CreateElectionKey generates a random 256-bit key for the election version
	// and wraps it with the master key.
	CreateElectionKey(
		masterKey *cryptoDomain.MasterKey,
		electionID string,
		version uint,
		alg cryptoDomain.Algorithm,
	) (cryptoDomain.ElectionKey, error)

	// DecryptElectionKey unwraps an election key with the master key that wrapped it.
	DecryptElectionKey(key *cryptoDomain.ElectionKey, masterKey *cryptoDomain.MasterKey) ([]byte, error)

	// Seal encrypts a secret with the master key, binding aad.
	Seal(masterKey *cryptoDomain.MasterKey, plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Open reverses Seal.
	Open(masterKey *cryptoDomain.MasterKey, ciphertext, nonce, aad []byte) ([]byte, error)
}

// HashService computes and verifies hex-encoded SHA-256 digests.
type HashService interface {
	Hash(data []byte) string
	Verify(data []byte, hash string) bool
}

// KMSService opens KMS keepers used to unwrap master keys.
type KMSService interface {
	// OpenKeeper opens a keeper for the provider URI.
	OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error)
}
