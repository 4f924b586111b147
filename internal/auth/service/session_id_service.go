package service

import (
	"crypto/rand"
	"encoding/base64"

	apperrors "github.com/allisson/votesafe/internal/errors"
)

type sessionIDService struct{}

// NewSessionIDService creates a SessionIDService backed by crypto/rand.
func NewSessionIDService() SessionIDService {
	return &sessionIDService{}
}

func (s *sessionIDService) GenerateSessionID() (string, error) {
	randomBytes := make([]byte, 32)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", apperrors.Wrap(err, "failed to generate session id")
	}
	return base64.RawURLEncoding.EncodeToString(randomBytes), nil
}
