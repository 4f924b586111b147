package domain

import (
	"time"

	"github.com/google/uuid"
)

// OneTimePassword is the live OTP record for a user. At most one exists per user.
//
// Code is only populated on the value returned at issuance; stores keep the
// record without it because validation recomputes codes from the TOTP secret.
type OneTimePassword struct {
	UserID       uuid.UUID
	Code         string
	IssuedAt     time.Time
	ExpiresAt    time.Time
	AttemptCount int
}

// IsExpired reports whether the OTP can no longer be validated at now.
func (o *OneTimePassword) IsExpired(now time.Time) bool {
	return !now.Before(o.ExpiresAt)
}

// OTPVerdict is the outcome of one validation attempt.
type OTPVerdict int

const (
	// OTPAccepted means the code matched and the OTP was consumed.
	OTPAccepted OTPVerdict = iota
	// OTPRejected means the code did not match. The attempt was counted.
	OTPRejected
	// OTPNotFound means no live OTP exists for the user.
	OTPNotFound
	// OTPExpired means the live OTP expired and was discarded.
	OTPExpired
	// OTPAttemptsExceeded means the attempt budget was spent and the OTP was discarded.
	OTPAttemptsExceeded
)

func (v OTPVerdict) String() string {
	switch v {
	case OTPAccepted:
		return "accepted"
	case OTPRejected:
		return "rejected"
	case OTPNotFound:
		return "not_found"
	case OTPExpired:
		return "expired"
	case OTPAttemptsExceeded:
		return "attempts_exceeded"
	default:
		return "unknown"
	}
}
