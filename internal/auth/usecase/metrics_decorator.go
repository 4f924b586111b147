package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/votesafe/internal/auth/domain"
	"github.com/allisson/votesafe/internal/metrics"
)

// authUseCaseWithMetrics decorates AuthUseCase with metrics instrumentation.
type authUseCaseWithMetrics struct {
	next    AuthUseCase
	metrics metrics.BusinessMetrics
}

// NewAuthUseCaseWithMetrics wraps an AuthUseCase with metrics recording.
// Declined steps are recorded with status "declined"; lockouts and expired
// or forged challenges are also counted as security events.
func NewAuthUseCaseWithMetrics(useCase AuthUseCase, m metrics.BusinessMetrics) AuthUseCase {
	return &authUseCaseWithMetrics{next: useCase, metrics: m}
}

func (a *authUseCaseWithMetrics) observe(
	ctx context.Context,
	op string,
	start time.Time,
	result *authDomain.AuthResult,
	err error,
) {
	status := "success"
	switch {
	case err != nil:
		status = "error"
	case result != nil && result.IsDeclined():
		status = "declined"
		switch result.Reason {
		case authDomain.ReasonOTPAttemptsExceeded, authDomain.ReasonChallengeInvalid,
			authDomain.ReasonRateLimitExceeded:
			a.metrics.RecordSecurityEvent(ctx, "auth_"+op, string(result.Reason))
		}
	}

	a.metrics.RecordOperation(ctx, "auth", op, status)
	a.metrics.RecordDuration(ctx, "auth", op, time.Since(start), status)
}

func (a *authUseCaseWithMetrics) ValidateCredentials(
	ctx context.Context,
	identifier, password string,
) (*authDomain.AuthResult, error) {
	start := time.Now()
	result, err := a.next.ValidateCredentials(ctx, identifier, password)
	a.observe(ctx, "credentials", start, result, err)
	return result, err
}

func (a *authUseCaseWithMetrics) IssueChallenge(
	ctx context.Context,
	userID uuid.UUID,
) (*authDomain.AuthResult, error) {
	start := time.Now()
	result, err := a.next.IssueChallenge(ctx, userID)
	a.observe(ctx, "qr_issue", start, result, err)
	return result, err
}

func (a *authUseCaseWithMetrics) AuthenticateWithQR(
	ctx context.Context,
	userID uuid.UUID,
	payload string,
) (*authDomain.AuthResult, error) {
	start := time.Now()
	result, err := a.next.AuthenticateWithQR(ctx, userID, payload)
	a.observe(ctx, "qr_verify", start, result, err)
	return result, err
}

func (a *authUseCaseWithMetrics) AuthenticateWithOTP(
	ctx context.Context,
	userID uuid.UUID,
	code string,
) (*authDomain.AuthResult, error) {
	start := time.Now()
	result, err := a.next.AuthenticateWithOTP(ctx, userID, code)
	a.observe(ctx, "otp_verify", start, result, err)
	return result, err
}

func (a *authUseCaseWithMetrics) Logout(ctx context.Context, sessionID string) error {
	start := time.Now()
	err := a.next.Logout(ctx, sessionID)
	a.observe(ctx, "logout", start, nil, err)
	return err
}

// userUseCaseWithMetrics decorates UserUseCase with metrics instrumentation.
type userUseCaseWithMetrics struct {
	next    UserUseCase
	metrics metrics.BusinessMetrics
}

// NewUserUseCaseWithMetrics wraps a UserUseCase with metrics recording.
func NewUserUseCaseWithMetrics(useCase UserUseCase, m metrics.BusinessMetrics) UserUseCase {
	return &userUseCaseWithMetrics{next: useCase, metrics: m}
}

func (u *userUseCaseWithMetrics) record(ctx context.Context, op string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	u.metrics.RecordOperation(ctx, "auth", op, status)
	u.metrics.RecordDuration(ctx, "auth", op, time.Since(start), status)
}

func (u *userUseCaseWithMetrics) RegisterUser(
	ctx context.Context,
	input *authDomain.RegisterUserInput,
) (*authDomain.RegisterUserOutput, error) {
	start := time.Now()
	output, err := u.next.RegisterUser(ctx, input)
	u.record(ctx, "user_register", start, err)
	return output, err
}

func (u *userUseCaseWithMetrics) GetByID(ctx context.Context, id uuid.UUID) (*authDomain.User, error) {
	return u.next.GetByID(ctx, id)
}

func (u *userUseCaseWithMetrics) GetByIdentifier(ctx context.Context, identifier string) (*authDomain.User, error) {
	return u.next.GetByIdentifier(ctx, identifier)
}

func (u *userUseCaseWithMetrics) OTPSecret(ctx context.Context, userID uuid.UUID) (string, error) {
	start := time.Now()
	secret, err := u.next.OTPSecret(ctx, userID)
	u.record(ctx, "otp_secret_open", start, err)
	return secret, err
}

func (u *userUseCaseWithMetrics) SetEnabled(
	ctx context.Context,
	userID uuid.UUID,
	enabled bool,
) (*authDomain.User, error) {
	start := time.Now()
	user, err := u.next.SetEnabled(ctx, userID, enabled)
	u.record(ctx, "user_set_enabled", start, err)
	return user, err
}
