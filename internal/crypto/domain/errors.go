package domain

import (
	"github.com/allisson/votesafe/internal/errors"
)

// Cryptographic operation error definitions.
//
// These wrap the standard errors from internal/errors so the HTTP layer can
// map them to status codes. Decryption and integrity failures share
// ErrDecryptionFailed as their root so callers that only care about "the
// ballot cannot be trusted" can match a single sentinel, while callers that
// need to distinguish an AEAD failure from a hash mismatch can match
// ErrVoteIntegrityMismatch first.
var (
	// ErrUnsupportedAlgorithm indicates the requested AEAD algorithm is not supported.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates a key is not exactly 32 bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrEmptyPlaintext indicates encrypt was called without a payload.
	ErrEmptyPlaintext = errors.Wrap(errors.ErrInvalidInput, "plaintext is required")

	// ErrInvalidElectionID indicates encrypt or decrypt was called without an election id.
	ErrInvalidElectionID = errors.Wrap(errors.ErrInvalidInput, "election id is required")

	// ErrInvalidEncryptedVote indicates the serialized vote is malformed.
	ErrInvalidEncryptedVote = errors.Wrap(errors.ErrInvalidInput, "invalid encrypted vote format")

	// ErrEncryptionFailed indicates the AEAD primitive or the random source failed.
	ErrEncryptionFailed = errors.New("encryption failed")

	// ErrDecryptionFailed indicates the AEAD tag did not verify.
	//
	// The specific cause (wrong key, wrong nonce, modified ciphertext or
	// associated data) is deliberately not disclosed.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrVoteIntegrityMismatch indicates the AEAD succeeded but the stored
	// plaintext hash does not match the decrypted plaintext.
	ErrVoteIntegrityMismatch = errors.Wrap(ErrDecryptionFailed, "vote integrity hash mismatch")

	// ErrKeyNotFound indicates no election key exists for the requested election and version.
	ErrKeyNotFound = errors.Wrap(errors.ErrNotFound, "election key not found")

	// ErrMasterKeysNotSet indicates MASTER_KEYS is empty.
	ErrMasterKeysNotSet = errors.New("MASTER_KEYS not set")

	// ErrActiveMasterKeyIDNotSet indicates ACTIVE_MASTER_KEY_ID is empty.
	ErrActiveMasterKeyIDNotSet = errors.New("ACTIVE_MASTER_KEY_ID not set")

	// ErrInvalidMasterKeysFormat indicates a MASTER_KEYS entry is not "id:value".
	ErrInvalidMasterKeysFormat = errors.New("invalid MASTER_KEYS format")

	// ErrInvalidMasterKeyBase64 indicates a MASTER_KEYS value is not valid base64.
	ErrInvalidMasterKeyBase64 = errors.New("invalid master key base64")

	// ErrActiveMasterKeyNotFound indicates ACTIVE_MASTER_KEY_ID does not name a loaded key.
	ErrActiveMasterKeyNotFound = errors.New("active master key not found")
)
