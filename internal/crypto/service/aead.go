package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"

	cryptoDomain "github.com/allisson/votesafe/internal/crypto/domain"
)

// cipherConstructors builds the stdlib AEAD for each supported algorithm.
// Both use a 12-byte nonce and a 16-byte tag.
var cipherConstructors = map[cryptoDomain.Algorithm]func(key []byte) (cipher.AEAD, error){
	cryptoDomain.AESGCM: func(key []byte) (cipher.AEAD, error) {
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, err
		}
		return cipher.NewGCM(block)
	},
	cryptoDomain.ChaCha20: chacha20poly1305.New,
}

// Cipher seals and opens data with one key under one algorithm. Each
// Encrypt draws a fresh random nonce. Safe for concurrent use.
type Cipher struct {
	alg  cryptoDomain.Algorithm
	aead cipher.AEAD
}

// Algorithm reports the AEAD construction in use.
func (c *Cipher) Algorithm() cryptoDomain.Algorithm {
	return c.alg
}

// Encrypt seals plaintext, binding aad into the tag.
func (c *Cipher) Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error) {
	nonce = make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return c.aead.Seal(nil, nonce, plaintext, aad), nonce, nil
}

// Decrypt opens ciphertext. A tag, nonce or AAD mismatch yields no plaintext.
func (c *Cipher) Decrypt(ciphertext, nonce, aad []byte) ([]byte, error) {
	if len(nonce) != c.aead.NonceSize() {
		return nil, fmt.Errorf("failed to decrypt: invalid nonce size %d", len(nonce))
	}
	plaintext, err := c.aead.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt with %s: %w", c.alg, err)
	}
	return plaintext, nil
}

// AEADManagerService implements AEADManager.
type AEADManagerService struct{}

// NewAEADManager creates a new AEADManagerService.
func NewAEADManager() *AEADManagerService {
	return &AEADManagerService{}
}

// CreateCipher returns ErrInvalidKeySize unless key is 32 bytes and
// ErrUnsupportedAlgorithm for an unknown alg.
func (am *AEADManagerService) CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error) {
	if len(key) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}
	construct, ok := cipherConstructors[alg]
	if !ok {
		return nil, cryptoDomain.ErrUnsupportedAlgorithm
	}
	aead, err := construct(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s cipher: %w", alg, err)
	}
	return &Cipher{alg: alg, aead: aead}, nil
}
