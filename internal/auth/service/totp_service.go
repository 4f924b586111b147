package service

import (
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	authDomain "github.com/allisson/votesafe/internal/auth/domain"
	apperrors "github.com/allisson/votesafe/internal/errors"
)

// totpSecretSize is the raw secret length in bytes before base32 encoding.
const totpSecretSize = 20

type totpService struct {
	issuer string
	opts   totp.ValidateOpts
}

// NewTOTPService creates a TOTPService with 6 digits, HMAC-SHA256 and a skew
// of one step. A zero period falls back to 30 seconds.
func NewTOTPService(issuer string, period time.Duration) TOTPService {
	if period <= 0 {
		period = authDomain.DefaultOTPPeriod
	}
	return &totpService{
		issuer: issuer,
		opts: totp.ValidateOpts{
			Period:    uint(period / time.Second),
			Skew:      authDomain.DefaultOTPSkew,
			Digits:    otp.DigitsSix,
			Algorithm: otp.AlgorithmSHA256,
		},
	}
}

func (s *totpService) GenerateSecret(accountName string) (string, string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.issuer,
		AccountName: accountName,
		Period:      s.opts.Period,
		SecretSize:  totpSecretSize,
		Digits:      s.opts.Digits,
		Algorithm:   s.opts.Algorithm,
	})
	if err != nil {
		return "", "", apperrors.Wrap(err, "failed to generate totp secret")
	}
	return key.Secret(), key.URL(), nil
}

func (s *totpService) GenerateCode(secret string, t time.Time) (string, error) {
	code, err := totp.GenerateCodeCustom(secret, t, s.opts)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to generate totp code")
	}
	return code, nil
}

func (s *totpService) ValidateCode(code, secret string, t time.Time) (bool, error) {
	if len(code) != s.opts.Digits.Length() {
		return false, nil
	}
	ok, err := totp.ValidateCustom(code, secret, t, s.opts)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to validate totp code")
	}
	return ok, nil
}
