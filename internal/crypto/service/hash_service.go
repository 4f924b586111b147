package service

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

type sha256HashService struct{}

// NewSHA256HashService creates a new SHA-256 hash service.
func NewSHA256HashService() HashService {
	return &sha256HashService{}
}

// Hash returns the lowercase hex SHA-256 of data.
func (s *sha256HashService) Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Verify recomputes the digest and compares in constant time.
func (s *sha256HashService) Verify(data []byte, hash string) bool {
	expected := s.Hash(data)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(hash)) == 1
}
