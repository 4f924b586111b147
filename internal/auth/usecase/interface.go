// Package usecase implements the two-factor voter login: user registration,
// the OTP engine, the session store facade and the orchestrator that drives
// credentials → QR challenge → OTP → session.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/allisson/votesafe/internal/audit/domain"
	authDomain "github.com/allisson/votesafe/internal/auth/domain"
)

// UserRepository persists voters.
type UserRepository interface {
	// Create stores a new user. Returns ErrUserAlreadyExists on a duplicate username or email.
	Create(ctx context.Context, user *authDomain.User) error

	// Update stores the mutable fields (enabled flag, password hash, sealed secret).
	Update(ctx context.Context, user *authDomain.User) error

	// GetByID returns ErrUserNotFound when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*authDomain.User, error)

	// GetByUsername returns ErrUserNotFound when absent.
	GetByUsername(ctx context.Context, username string) (*authDomain.User, error)

	// GetByEmail returns ErrUserNotFound when absent. Matching is case-insensitive.
	GetByEmail(ctx context.Context, email string) (*authDomain.User, error)
}

// OTPStore holds at most one live OTP per user.
//
// Implementations must make Attempt atomic per user so two concurrent
// validations cannot both consume one OTP.
type OTPStore interface {
	// Put replaces any live OTP for the user.
	Put(ctx context.Context, otp *authDomain.OneTimePassword) error

	// Get returns ErrOTPNotFound when the user has no live OTP.
	Get(ctx context.Context, userID uuid.UUID) (*authDomain.OneTimePassword, error)

	// Attempt runs one validation attempt against the live OTP:
	//   - no live OTP: OTPNotFound
	//   - attempts already spent: the OTP is discarded, OTPAttemptsExceeded
	//   - expired at now: the OTP is discarded, OTPExpired
	//   - otherwise the attempt is counted and match decides; a match consumes
	//     the OTP (OTPAccepted), a miss keeps it (OTPRejected)
	// An error from match is returned without counting the attempt.
	Attempt(
		ctx context.Context,
		userID uuid.UUID,
		now time.Time,
		maxAttempts int,
		match func() (bool, error),
	) (authDomain.OTPVerdict, error)

	// Delete removes the live OTP. Removing a missing OTP is a no-op.
	Delete(ctx context.Context, userID uuid.UUID) error

	// DeleteExpired removes every OTP expired at now and returns how many were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

// OTPIssueStore tracks the last issuance time per user for rate limiting.
type OTPIssueStore interface {
	// Reserve records now as the issuance time unless the previous issuance
	// is still inside window, in which case it returns false and changes nothing.
	Reserve(ctx context.Context, userID uuid.UUID, now time.Time, window time.Duration) (bool, error)

	// LastIssued returns the last recorded issuance time.
	LastIssued(ctx context.Context, userID uuid.UUID) (time.Time, bool, error)

	// DeleteBefore removes issuance times older than cutoff.
	DeleteBefore(ctx context.Context, cutoff time.Time) (int, error)
}

// SessionStore holds authenticated sessions.
type SessionStore interface {
	Put(ctx context.Context, session *authDomain.Session) error

	// Get returns ErrSessionNotFound when absent.
	Get(ctx context.Context, id string) (*authDomain.Session, error)

	// GetValid returns the session when it is valid at now. An invalid session
	// is evicted and reported as ErrSessionNotFound.
	GetValid(ctx context.Context, id string, now time.Time) (*authDomain.Session, error)

	// Extend moves the expiry of a session that is valid at now.
	Extend(ctx context.Context, id string, now, expiresAt time.Time) (*authDomain.Session, error)

	// Delete removes a session. Removing a missing session is a no-op.
	Delete(ctx context.Context, id string) error

	// DeleteByUser removes every session of the user.
	DeleteByUser(ctx context.Context, userID uuid.UUID) (int, error)

	// DeleteExpired removes inactive sessions and sessions expired at now.
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

// AuditRecorder records authentication events to the audit trail.
type AuditRecorder interface {
	Record(ctx context.Context, input *auditDomain.RecordInput) (*auditDomain.AuditEntry, error)
}

// UserUseCase registers and looks up voters.
type UserUseCase interface {
	// RegisterUser validates the input, hashes the password, generates and
	// seals a random TOTP secret and stores the user. The provisioning URI is
	// returned only here.
	RegisterUser(ctx context.Context, input *authDomain.RegisterUserInput) (*authDomain.RegisterUserOutput, error)

	GetByID(ctx context.Context, id uuid.UUID) (*authDomain.User, error)

	// GetByIdentifier looks up by email when identifier contains '@', by username otherwise.
	GetByIdentifier(ctx context.Context, identifier string) (*authDomain.User, error)

	// OTPSecret opens the sealed TOTP secret of the user.
	OTPSecret(ctx context.Context, userID uuid.UUID) (string, error)

	// SetEnabled enables or disables login for the user.
	SetEnabled(ctx context.Context, userID uuid.UUID, enabled bool) (*authDomain.User, error)
}

// OTPUseCase issues and validates one-time passwords.
type OTPUseCase interface {
	// Generate issues a fresh OTP, replacing any live one. Returns
	// ErrRateLimitExceeded when the previous issuance is inside the window.
	// The returned value carries the code; the stored record does not.
	Generate(ctx context.Context, userID uuid.UUID) (*authDomain.OneTimePassword, error)

	// Validate reports whether code is accepted. Declines are false, not errors.
	Validate(ctx context.Context, userID uuid.UUID, code string) (bool, error)

	// Verify is Validate with the detailed verdict.
	Verify(ctx context.Context, userID uuid.UUID, code string) (authDomain.OTPVerdict, error)

	// IsRateLimitExceeded reports whether Generate would be refused now.
	IsRateLimitExceeded(ctx context.Context, userID uuid.UUID) (bool, error)

	// CleanupExpired removes expired OTPs and stale issuance times.
	CleanupExpired(ctx context.Context) (int, error)
}

// SessionUseCase manages authenticated sessions.
type SessionUseCase interface {
	// Create mints a session for userID expiring after the configured timeout.
	Create(ctx context.Context, userID uuid.UUID) (*authDomain.Session, error)

	Get(ctx context.Context, sessionID string) (*authDomain.Session, error)

	// Invalidate removes the session. Unknown ids are ignored.
	Invalidate(ctx context.Context, sessionID string) error

	// IsValid is false for missing, inactive and expired sessions; an expired
	// session is evicted by the check.
	IsValid(ctx context.Context, sessionID string) (bool, error)

	// Extend resets the expiry to now plus the timeout.
	Extend(ctx context.Context, sessionID string) (*authDomain.Session, error)

	InvalidateAllForUser(ctx context.Context, userID uuid.UUID) (int, error)

	// GetUserID returns the owner of a valid session or ErrSessionNotFound.
	GetUserID(ctx context.Context, sessionID string) (uuid.UUID, error)

	CleanupExpired(ctx context.Context) (int, error)
}

// AuthUseCase drives the two-factor login state machine. Declined steps come
// back as an AuthResult with a DeclineReason; the error return is reserved for faults.
type AuthUseCase interface {
	// ValidateCredentials checks identifier (username or email) and password.
	ValidateCredentials(ctx context.Context, identifier, password string) (*authDomain.AuthResult, error)

	// IssueChallenge signs a QR challenge for an enabled user.
	IssueChallenge(ctx context.Context, userID uuid.UUID) (*authDomain.AuthResult, error)

	// AuthenticateWithQR validates the QR payload and issues an OTP.
	AuthenticateWithQR(ctx context.Context, userID uuid.UUID, payload string) (*authDomain.AuthResult, error)

	// AuthenticateWithOTP validates the code and mints a session.
	AuthenticateWithOTP(ctx context.Context, userID uuid.UUID, code string) (*authDomain.AuthResult, error)

	// Logout invalidates the session.
	Logout(ctx context.Context, sessionID string) error
}
