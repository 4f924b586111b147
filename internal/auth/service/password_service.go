package service

import (
	"github.com/allisson/go-pwdhash"

	apperrors "github.com/allisson/votesafe/internal/errors"
)

// passwordService implements PasswordService using Argon2id.
type passwordService struct {
	hasher *pwdhash.PasswordHasher
}

// NewPasswordService creates a PasswordService using the interactive Argon2id policy.
func NewPasswordService() (PasswordService, error) {
	hasher, err := pwdhash.New(pwdhash.WithPolicy(pwdhash.PolicyInteractive))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create password hasher")
	}
	return &passwordService{hasher: hasher}, nil
}

func (p *passwordService) Hash(password string) (string, error) {
	hash, err := p.hasher.Hash([]byte(password))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash password")
	}
	return hash, nil
}

func (p *passwordService) Compare(password, hash string) bool {
	ok, err := p.hasher.Verify([]byte(password), hash)
	if err != nil {
		return false
	}
	return ok
}
