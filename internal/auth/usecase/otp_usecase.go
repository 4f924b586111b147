package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/votesafe/internal/auth/domain"
	authService "github.com/allisson/votesafe/internal/auth/service"
	"github.com/allisson/votesafe/internal/config"
)

type otpUseCase struct {
	otpStore    OTPStore
	issueStore  OTPIssueStore
	secrets     OTPSecretProvider
	totpService authService.TOTPService

	validity    time.Duration
	rateLimit   time.Duration
	maxAttempts int
	now         func() time.Time
}

// OTPSecretProvider opens the TOTP secret of a user. UserUseCase satisfies it.
type OTPSecretProvider interface {
	OTPSecret(ctx context.Context, userID uuid.UUID) (string, error)
}

// NewOTPUseCase creates an OTPUseCase. Zero configuration values fall back
// to the package defaults.
func NewOTPUseCase(
	cfg *config.Config,
	otpStore OTPStore,
	issueStore OTPIssueStore,
	secrets OTPSecretProvider,
	totpService authService.TOTPService,
) OTPUseCase {
	return &otpUseCase{
		otpStore:    otpStore,
		issueStore:  issueStore,
		secrets:     secrets,
		totpService: totpService,
		validity:    durationOr(cfg.OTPValidity, authDomain.DefaultOTPValidity),
		rateLimit:   durationOr(cfg.OTPRateLimitWindow, authDomain.DefaultOTPRateLimitWindow),
		maxAttempts: intOr(cfg.OTPMaxAttempts, authDomain.DefaultOTPMaxAttempts),
		now:         time.Now,
	}
}

func (o *otpUseCase) Generate(ctx context.Context, userID uuid.UUID) (*authDomain.OneTimePassword, error) {
	// Open the secret before reserving so a broken user record does not burn the rate limit.
	secret, err := o.secrets.OTPSecret(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := o.now().UTC()
	reserved, err := o.issueStore.Reserve(ctx, userID, now, o.rateLimit)
	if err != nil {
		return nil, err
	}
	if !reserved {
		return nil, authDomain.ErrRateLimitExceeded
	}

	code, err := o.totpService.GenerateCode(secret, now)
	if err != nil {
		return nil, err
	}

	otp := &authDomain.OneTimePassword{
		UserID:    userID,
		Code:      code,
		IssuedAt:  now,
		ExpiresAt: now.Add(o.validity),
	}
	if err := o.otpStore.Put(ctx, otp); err != nil {
		return nil, err
	}
	return otp, nil
}

func (o *otpUseCase) Validate(ctx context.Context, userID uuid.UUID, code string) (bool, error) {
	verdict, err := o.Verify(ctx, userID, code)
	if err != nil {
		return false, err
	}
	return verdict == authDomain.OTPAccepted, nil
}

func (o *otpUseCase) Verify(ctx context.Context, userID uuid.UUID, code string) (authDomain.OTPVerdict, error) {
	now := o.now().UTC()
	return o.otpStore.Attempt(ctx, userID, now, o.maxAttempts, func() (bool, error) {
		secret, err := o.secrets.OTPSecret(ctx, userID)
		if err != nil {
			return false, err
		}
		return o.totpService.ValidateCode(code, secret, now)
	})
}

func (o *otpUseCase) IsRateLimitExceeded(ctx context.Context, userID uuid.UUID) (bool, error) {
	last, ok, err := o.issueStore.LastIssued(ctx, userID)
	if err != nil || !ok {
		return false, err
	}
	return o.now().UTC().Before(last.Add(o.rateLimit)), nil
}

func (o *otpUseCase) CleanupExpired(ctx context.Context) (int, error) {
	now := o.now().UTC()

	expired, err := o.otpStore.DeleteExpired(ctx, now)
	if err != nil {
		return 0, err
	}
	stale, err := o.issueStore.DeleteBefore(ctx, now.Add(-o.rateLimit))
	if err != nil {
		return expired, err
	}
	return expired + stale, nil
}

func durationOr(v, fallback time.Duration) time.Duration {
	if v <= 0 {
		return fallback
	}
	return v
}

func intOr(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return v
}
