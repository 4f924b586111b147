package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const qrChallengeSeparator = "|"

// QRChallenge binds a user to an issuance time. It is not stored; the encoded
// payload travels inside the QR image and comes back on the next login step.
type QRChallenge struct {
	UserID   uuid.UUID
	IssuedAt time.Time
	Checksum string
}

// SignedContent returns the bytes covered by the checksum: "userID|issuedAt".
func (c *QRChallenge) SignedContent() []byte {
	return []byte(c.UserID.String() + qrChallengeSeparator + c.issuedAt())
}

// String encodes the challenge as "userID|issuedAt|checksum" with issuedAt in
// RFC 3339 UTC form.
func (c *QRChallenge) String() string {
	return strings.Join([]string{c.UserID.String(), c.issuedAt(), c.Checksum}, qrChallengeSeparator)
}

// ExpiresAt returns the last instant at which the challenge is accepted.
func (c *QRChallenge) ExpiresAt(window time.Duration) time.Time {
	return c.IssuedAt.Add(window)
}

// IsExpired reports whether more than window has elapsed since issuance.
func (c *QRChallenge) IsExpired(now time.Time, window time.Duration) bool {
	return now.Sub(c.IssuedAt) > window
}

func (c *QRChallenge) issuedAt() string {
	return c.IssuedAt.UTC().Format(time.RFC3339Nano)
}

// ParseQRChallenge decodes a payload produced by QRChallenge.String. Any
// structural problem yields ErrChallengeInvalid.
func ParseQRChallenge(payload string) (*QRChallenge, error) {
	parts := strings.Split(payload, qrChallengeSeparator)
	if len(parts) != 3 {
		return nil, ErrChallengeInvalid
	}

	userID, err := uuid.Parse(parts[0])
	if err != nil {
		return nil, ErrChallengeInvalid
	}

	issuedAt, err := time.Parse(time.RFC3339Nano, parts[1])
	if err != nil {
		return nil, ErrChallengeInvalid
	}

	if parts[2] == "" {
		return nil, ErrChallengeInvalid
	}

	return &QRChallenge{UserID: userID, IssuedAt: issuedAt.UTC(), Checksum: parts[2]}, nil
}

// QRVerdict is the outcome of validating a QR payload.
type QRVerdict int

const (
	// QRValid means the payload is well formed, addressed to the user, authentic and fresh.
	QRValid QRVerdict = iota
	// QRInvalid means bad format, user mismatch or checksum mismatch.
	QRInvalid
	// QRExpired means the payload is authentic but older than the expiry window.
	QRExpired
)

func (v QRVerdict) String() string {
	switch v {
	case QRValid:
		return "valid"
	case QRInvalid:
		return "invalid"
	case QRExpired:
		return "expired"
	default:
		return "unknown"
	}
}
