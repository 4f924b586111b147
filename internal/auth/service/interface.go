// Package service provides the primitives behind the voter login flow:
// password hashing, TOTP codes, signed QR challenges and session identifiers.
package service

import (
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/votesafe/internal/auth/domain"
)

// PasswordService hashes and verifies voter passwords.
type PasswordService interface {
	// Hash returns an Argon2id PHC string for password.
	Hash(password string) (string, error)

	// Compare reports whether password matches hash. Comparison is constant-time.
	Compare(password, hash string) bool
}

// TOTPService implements RFC 6238 codes over HMAC-SHA256.
type TOTPService interface {
	// GenerateSecret creates a random base32 secret and its otpauth:// provisioning URI.
	GenerateSecret(accountName string) (secret string, provisioningURI string, err error)

	// GenerateCode returns the 6-digit code for the time step containing t.
	GenerateCode(secret string, t time.Time) (string, error)

	// ValidateCode accepts codes for the time step containing t and one step
	// either side. A code of the wrong length is a mismatch, not an error.
	ValidateCode(code, secret string, t time.Time) (bool, error)
}

// QRChallengeService issues and checks QR login challenges.
type QRChallengeService interface {
	// Generate signs a challenge for userID issued at issuedAt.
	Generate(userID uuid.UUID, issuedAt time.Time) *authDomain.QRChallenge

	// Validate checks format, addressee, checksum and freshness. Every
	// failure other than expiry of an otherwise valid payload is QRInvalid.
	Validate(payload string, userID uuid.UUID, now time.Time) authDomain.QRVerdict

	// IsExpired reports whether the payload timestamp is outside the expiry
	// window. Unparseable payloads are reported as expired.
	IsExpired(payload string, now time.Time) bool

	// Expiry is the window during which a challenge is accepted.
	Expiry() time.Duration

	// RenderPNG encodes payload as a size x size QR code PNG.
	RenderPNG(payload string, size int) ([]byte, error)
}

// SessionIDService generates session identifiers.
type SessionIDService interface {
	// GenerateSessionID returns 256 random bits, base64url encoded without padding.
	GenerateSessionID() (string, error)
}
