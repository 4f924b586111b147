package domain

import (
	"time"

	"github.com/google/uuid"
)

// DeclineReason says why a login step was declined. It is logged and audited
// but never shown to the caller, who only sees PublicMessage.
type DeclineReason string

const (
	ReasonNone                   DeclineReason = ""
	ReasonInvalidCredentials     DeclineReason = "invalid_credentials"
	ReasonUserNotFoundOrDisabled DeclineReason = "user_not_found_or_disabled"
	ReasonRateLimitExceeded      DeclineReason = "rate_limit_exceeded"
	ReasonChallengeExpired       DeclineReason = "challenge_expired"
	ReasonChallengeInvalid       DeclineReason = "challenge_invalid"
	ReasonOTPInvalidOrExpired    DeclineReason = "otp_invalid_or_expired"
	ReasonOTPAttemptsExceeded    DeclineReason = "otp_attempts_exceeded"
)

// PublicMessage is the only failure text a caller receives for a declined step.
const PublicMessage = "authentication failed"

// RateLimitMessage is shown when an OTP was requested too soon after the previous one.
const RateLimitMessage = "too many attempts, please retry later"

// AuthResult is the outcome of a login step. A declined step is an expected
// result and is reported here; faults travel on the error return instead.
type AuthResult struct {
	State  AuthState
	UserID uuid.UUID
	Reason DeclineReason

	// Challenge is set by IssueChallenge.
	Challenge          string
	ChallengeExpiresAt time.Time

	// OTPExpiresAt is set once an OTP has been issued after a valid QR challenge.
	OTPExpiresAt time.Time

	// Session is set when State is StateFullyAuthenticated.
	Session *Session
}

// Declined builds a result that returns the principal to StateUnauthenticated.
func Declined(userID uuid.UUID, reason DeclineReason) *AuthResult {
	return &AuthResult{State: StateUnauthenticated, UserID: userID, Reason: reason}
}

// IsDeclined reports whether the step failed.
func (r *AuthResult) IsDeclined() bool {
	return r.Reason != ReasonNone
}

// Message returns the caller-facing text for a declined result.
func (r *AuthResult) Message() string {
	if r.Reason == ReasonRateLimitExceeded {
		return RateLimitMessage
	}
	return PublicMessage
}

// Err maps the decline reason to its sentinel error, or nil when the step succeeded.
func (r *AuthResult) Err() error {
	switch r.Reason {
	case ReasonNone:
		return nil
	case ReasonInvalidCredentials:
		return ErrInvalidCredentials
	case ReasonUserNotFoundOrDisabled:
		return ErrUserNotFoundOrDisabled
	case ReasonRateLimitExceeded:
		return ErrRateLimitExceeded
	case ReasonChallengeExpired:
		return ErrChallengeExpired
	case ReasonChallengeInvalid:
		return ErrChallengeInvalid
	case ReasonOTPAttemptsExceeded:
		return ErrOTPAttemptsExceeded
	default:
		return ErrOTPInvalidOrExpired
	}
}
