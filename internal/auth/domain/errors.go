package domain

import (
	"github.com/allisson/votesafe/internal/errors"
)

// Authentication errors.
var (
	// ErrUserNotFound indicates a user with the specified ID or identifier was not found.
	ErrUserNotFound = errors.Wrap(errors.ErrNotFound, "user not found")

	// ErrUserAlreadyExists indicates the username or email is already registered.
	ErrUserAlreadyExists = errors.Wrap(errors.ErrConflict, "user already exists")

	// ErrInvalidCredentials is returned for an unknown identifier, a disabled
	// user or a wrong password alike.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid credentials")

	// ErrUserNotFoundOrDisabled indicates the principal cannot continue the login flow.
	ErrUserNotFoundOrDisabled = errors.Wrap(errors.ErrUnauthorized, "user not found or disabled")

	// ErrRateLimitExceeded indicates an OTP was issued to the user too recently.
	ErrRateLimitExceeded = errors.Wrap(errors.ErrTooManyRequests, "otp rate limit exceeded")

	// ErrChallengeExpired indicates the QR payload is older than the expiry window.
	ErrChallengeExpired = errors.Wrap(errors.ErrUnauthorized, "qr challenge expired")

	// ErrChallengeInvalid covers a malformed payload, a user mismatch and a bad checksum.
	ErrChallengeInvalid = errors.Wrap(errors.ErrUnauthorized, "qr challenge invalid")

	// ErrOTPInvalidOrExpired indicates no live OTP matched the submitted code.
	ErrOTPInvalidOrExpired = errors.Wrap(errors.ErrUnauthorized, "otp invalid or expired")

	// ErrOTPAttemptsExceeded indicates the live OTP was discarded after too many attempts.
	ErrOTPAttemptsExceeded = errors.Wrap(errors.ErrLocked, "otp attempts exceeded")

	// ErrOTPNotFound indicates no live OTP exists for the user.
	ErrOTPNotFound = errors.Wrap(errors.ErrNotFound, "otp not found")

	// ErrSessionNotFound indicates the session does not exist, was invalidated or expired.
	ErrSessionNotFound = errors.Wrap(errors.ErrNotFound, "session not found")

	// ErrOTPSecretUnavailable indicates the sealed TOTP secret could not be opened.
	ErrOTPSecretUnavailable = errors.New("otp secret unavailable")
)
