package domain

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

// EncryptedVote is the sealed form of one ballot choice.
//
// It is produced once per cast ballot and never modified. IntegrityHash is a
// SHA-256 over the plaintext, checked after AEAD decryption as a second,
// independent integrity layer.
//
// Serialized form: "algorithm:version:nonce-base64:ciphertext-base64:hash-hex".
type EncryptedVote struct {
	Algorithm     Algorithm
	KeyVersion    uint
	Nonce         []byte
	Ciphertext    []byte
	IntegrityHash string
}

// ParseEncryptedVote parses the serialized form produced by String.
func ParseEncryptedVote(content string) (EncryptedVote, error) {
	parts := strings.Split(content, ":")
	if len(parts) != 5 {
		return EncryptedVote{}, fmt.Errorf(
			"%w: expected 5 parts, got %d",
			ErrInvalidEncryptedVote,
			len(parts),
		)
	}

	alg, err := ParseAlgorithm(parts[0])
	if err != nil {
		return EncryptedVote{}, err
	}

	version, err := strconv.ParseUint(parts[1], 10, 0)
	if err != nil || version == 0 {
		return EncryptedVote{}, fmt.Errorf("%w: invalid key version %q", ErrInvalidEncryptedVote, parts[1])
	}

	nonce, err := base64.StdEncoding.DecodeString(parts[2])
	if err != nil || len(nonce) != NonceSize {
		return EncryptedVote{}, fmt.Errorf("%w: invalid nonce", ErrInvalidEncryptedVote)
	}

	ciphertext, err := base64.StdEncoding.DecodeString(parts[3])
	if err != nil || len(ciphertext) == 0 {
		return EncryptedVote{}, fmt.Errorf("%w: invalid ciphertext", ErrInvalidEncryptedVote)
	}

	if parts[4] == "" {
		return EncryptedVote{}, fmt.Errorf("%w: missing integrity hash", ErrInvalidEncryptedVote)
	}

	return EncryptedVote{
		Algorithm:     alg,
		KeyVersion:    uint(version),
		Nonce:         nonce,
		Ciphertext:    ciphertext,
		IntegrityHash: parts[4],
	}, nil
}

// String serializes the vote. Round-trips with ParseEncryptedVote.
func (v EncryptedVote) String() string {
	return fmt.Sprintf(
		"%s:%d:%s:%s:%s",
		v.Algorithm,
		v.KeyVersion,
		base64.StdEncoding.EncodeToString(v.Nonce),
		base64.StdEncoding.EncodeToString(v.Ciphertext),
		v.IntegrityHash,
	)
}
