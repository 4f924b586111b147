package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/allisson/votesafe/internal/audit/domain"
	authDomain "github.com/allisson/votesafe/internal/auth/domain"
	authService "github.com/allisson/votesafe/internal/auth/service"
	apperrors "github.com/allisson/votesafe/internal/errors"
)

// Audit actions recorded by the login flow.
const (
	ActionCredentialsChecked = "credentials_checked"
	ActionChallengeIssued    = "qr_challenge_issued"
	ActionChallengeVerified  = "qr_challenge_verified"
	ActionOTPVerified        = "otp_verified"
	ActionLogout             = "logout"
)

// decoyPassword is hashed once and compared against when no usable hash
// exists, so unknown identifiers cost the same Argon2id run as known ones.
const decoyPassword = "votesafe-decoy-password"

type authUseCase struct {
	users           UserUseCase
	passwordService authService.PasswordService
	qrService       authService.QRChallengeService
	otps            OTPUseCase
	sessions        SessionUseCase
	audit           AuditRecorder
	logger          *slog.Logger
	now             func() time.Time
	decoyHash       func() string
}

// NewAuthUseCase creates the login orchestrator.
func NewAuthUseCase(
	users UserUseCase,
	passwordService authService.PasswordService,
	qrService authService.QRChallengeService,
	otps OTPUseCase,
	sessions SessionUseCase,
	audit AuditRecorder,
	logger *slog.Logger,
) AuthUseCase {
	return &authUseCase{
		users:           users,
		passwordService: passwordService,
		qrService:       qrService,
		otps:            otps,
		sessions:        sessions,
		audit:           audit,
		logger:          logger,
		now:             time.Now,
		decoyHash: sync.OnceValue(func() string {
			hash, err := passwordService.Hash(decoyPassword)
			if err != nil {
				logger.Error("failed to hash decoy password", slog.Any("error", err))
				return ""
			}
			return hash
		}),
	}
}

func (a *authUseCase) ValidateCredentials(
	ctx context.Context,
	identifier, password string,
) (*authDomain.AuthResult, error) {
	user, err := a.users.GetByIdentifier(ctx, identifier)
	if err != nil && !errors.Is(err, authDomain.ErrUserNotFound) {
		return nil, err
	}

	if user == nil {
		a.passwordService.Compare(password, a.decoyHash())
		return a.decline(ctx, ActionCredentialsChecked, uuid.Nil, authDomain.ReasonInvalidCredentials,
			fmt.Sprintf("identifier_length=%d", len(identifier)))
	}
	// The hash is checked before the enabled flag so a disabled account
	// answers no faster than a wrong password.
	if matched := a.passwordService.Compare(password, user.PasswordHash); !matched || !user.Enabled {
		return a.decline(ctx, ActionCredentialsChecked, user.ID, authDomain.ReasonInvalidCredentials, "")
	}

	if err := a.record(ctx, user.ID, ActionCredentialsChecked, "accepted"); err != nil {
		return nil, err
	}
	return &authDomain.AuthResult{State: authDomain.StateFirstFactorComplete, UserID: user.ID}, nil
}

func (a *authUseCase) IssueChallenge(ctx context.Context, userID uuid.UUID) (*authDomain.AuthResult, error) {
	ok, err := a.activeUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return a.decline(ctx, ActionChallengeIssued, userID, authDomain.ReasonUserNotFoundOrDisabled, "")
	}

	challenge := a.qrService.Generate(userID, a.now())

	if err := a.record(ctx, userID, ActionChallengeIssued, "issued"); err != nil {
		return nil, err
	}
	return &authDomain.AuthResult{
		State:              authDomain.StateFirstFactorComplete,
		UserID:             userID,
		Challenge:          challenge.String(),
		ChallengeExpiresAt: challenge.ExpiresAt(a.qrService.Expiry()),
	}, nil
}

func (a *authUseCase) AuthenticateWithQR(
	ctx context.Context,
	userID uuid.UUID,
	payload string,
) (*authDomain.AuthResult, error) {
	ok, err := a.activeUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return a.decline(ctx, ActionChallengeVerified, userID, authDomain.ReasonUserNotFoundOrDisabled, "")
	}

	switch a.qrService.Validate(payload, userID, a.now()) {
	case authDomain.QRExpired:
		return a.decline(ctx, ActionChallengeVerified, userID, authDomain.ReasonChallengeExpired, "")
	case authDomain.QRInvalid:
		return a.decline(ctx, ActionChallengeVerified, userID, authDomain.ReasonChallengeInvalid, "")
	}

	otp, err := a.otps.Generate(ctx, userID)
	if err != nil {
		if errors.Is(err, authDomain.ErrRateLimitExceeded) {
			return a.decline(ctx, ActionChallengeVerified, userID, authDomain.ReasonRateLimitExceeded, "")
		}
		return nil, a.fault(ActionChallengeVerified, userID, err)
	}

	if err := a.record(ctx, userID, ActionChallengeVerified, "accepted, otp issued"); err != nil {
		return nil, err
	}
	return &authDomain.AuthResult{
		State:        authDomain.StateFirstFactorComplete,
		UserID:       userID,
		OTPExpiresAt: otp.ExpiresAt,
	}, nil
}

func (a *authUseCase) AuthenticateWithOTP(
	ctx context.Context,
	userID uuid.UUID,
	code string,
) (*authDomain.AuthResult, error) {
	ok, err := a.activeUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return a.decline(ctx, ActionOTPVerified, userID, authDomain.ReasonUserNotFoundOrDisabled, "")
	}

	verdict, err := a.otps.Verify(ctx, userID, code)
	if err != nil {
		return nil, a.fault(ActionOTPVerified, userID, err)
	}

	switch verdict {
	case authDomain.OTPAccepted:
	case authDomain.OTPAttemptsExceeded:
		return a.decline(ctx, ActionOTPVerified, userID, authDomain.ReasonOTPAttemptsExceeded, verdict.String())
	default:
		return a.decline(ctx, ActionOTPVerified, userID, authDomain.ReasonOTPInvalidOrExpired, verdict.String())
	}

	session, err := a.sessions.Create(ctx, userID)
	if err != nil {
		return nil, a.fault(ActionOTPVerified, userID, err)
	}

	if err := a.record(ctx, userID, ActionOTPVerified, "accepted, session created"); err != nil {
		return nil, err
	}
	return &authDomain.AuthResult{
		State:   authDomain.StateFullyAuthenticated,
		UserID:  userID,
		Session: session,
	}, nil
}

func (a *authUseCase) Logout(ctx context.Context, sessionID string) error {
	session, err := a.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, authDomain.ErrSessionNotFound) {
			return nil
		}
		return err
	}

	if err := a.sessions.Invalidate(ctx, sessionID); err != nil {
		return err
	}
	return a.record(ctx, session.UserID, ActionLogout, "session invalidated")
}

// activeUser reports whether userID names an enabled user.
func (a *authUseCase) activeUser(ctx context.Context, userID uuid.UUID) (bool, error) {
	user, err := a.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, authDomain.ErrUserNotFound) {
			return false, nil
		}
		return false, err
	}
	return user.Enabled, nil
}

// decline logs and audits a declined step. Only an audit failure produces an error.
func (a *authUseCase) decline(
	ctx context.Context,
	action string,
	userID uuid.UUID,
	reason authDomain.DeclineReason,
	details string,
) (*authDomain.AuthResult, error) {
	a.logger.Warn("authentication step declined",
		slog.String("action", action),
		slog.String("user_id", userID.String()),
		slog.String("reason", string(reason)),
	)

	msg := "declined: " + string(reason)
	if details != "" {
		msg += " (" + details + ")"
	}
	if err := a.record(ctx, userID, action, msg); err != nil {
		return nil, err
	}
	return authDomain.Declined(userID, reason), nil
}

func (a *authUseCase) fault(action string, userID uuid.UUID, err error) error {
	a.logger.Error("authentication step failed",
		slog.String("action", action),
		slog.String("user_id", userID.String()),
		slog.Any("error", err),
	)
	return err
}

func (a *authUseCase) record(ctx context.Context, userID uuid.UUID, action, details string) error {
	actor := auditDomain.ActorAnonymous
	if userID != uuid.Nil {
		actor = userID.String()
	}

	_, err := a.audit.Record(ctx, &auditDomain.RecordInput{
		ActorID:   actor,
		Action:    action,
		Details:   details,
		EventType: auditDomain.EventAuthentication,
	})
	if err != nil {
		return apperrors.Wrapf(err, "failed to audit %s", action)
	}
	return nil
}
