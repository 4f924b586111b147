package usecase

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	auditDomain "github.com/allisson/votesafe/internal/audit/domain"
	auditRepository "github.com/allisson/votesafe/internal/audit/repository"
	auditService "github.com/allisson/votesafe/internal/audit/service"
	auditUseCase "github.com/allisson/votesafe/internal/audit/usecase"
	authDomain "github.com/allisson/votesafe/internal/auth/domain"
	authRepository "github.com/allisson/votesafe/internal/auth/repository"
	authService "github.com/allisson/votesafe/internal/auth/service"
	"github.com/allisson/votesafe/internal/config"
	cryptoDomain "github.com/allisson/votesafe/internal/crypto/domain"
	cryptoService "github.com/allisson/votesafe/internal/crypto/service"
)

// testClock is a settable clock shared by the use cases under test.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	// Middle of a 30s TOTP step.
	return &testClock{now: time.Unix(1_700_000_015, 0).UTC()}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type sha256Hasher struct {
	svc cryptoService.HashService
}

func (h sha256Hasher) Hash(data []byte) string { return h.svc.Hash(data) }

func (h sha256Hasher) VerifyHash(data []byte, hash string) bool { return h.svc.Verify(data, hash) }

type authFixture struct {
	clock      *testClock
	cfg        *config.Config
	chain      *cryptoDomain.MasterKeyChain
	keyManager cryptoService.KeyManager
	userRepo   *authRepository.MemoryUserRepository
	otpStore   *authRepository.MemoryOTPStore
	sessions   *authRepository.MemorySessionStore
	auditRepo  *auditRepository.MemoryAuditRepository
	totp       authService.TOTPService
	qr         authService.QRChallengeService

	users     UserUseCase
	otp       *otpUseCase
	sessionUC *sessionUseCase
	auth      *authUseCase
	auditUC   auditUseCase.AuditUseCase
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	cfg := &config.Config{
		OTPValidity:        5 * time.Minute,
		OTPRateLimitWindow: time.Minute,
		OTPMaxAttempts:     3,
		OTPPeriod:          30 * time.Second,
		OTPIssuer:          "votesafe",
		QRExpiry:           5 * time.Minute,
		SessionTimeout:     30 * time.Minute,
	}

	chain, err := cryptoDomain.NewMasterKeyChain("key1", &cryptoDomain.MasterKey{
		ID:  "key1",
		Key: bytes.Repeat([]byte{0x42}, cryptoDomain.KeySize),
	})
	require.NoError(t, err)
	t.Cleanup(chain.Close)

	masterKey, _ := chain.Active()
	qr, err := authService.NewQRChallengeService(masterKey, cfg.QRExpiry)
	require.NoError(t, err)

	passwords, err := authService.NewPasswordService()
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clock := newTestClock()

	f := &authFixture{
		clock:      clock,
		cfg:        cfg,
		chain:      chain,
		keyManager: cryptoService.NewKeyManager(cryptoService.NewAEADManager()),
		userRepo:   authRepository.NewMemoryUserRepository(),
		otpStore:   authRepository.NewMemoryOTPStore(),
		sessions:   authRepository.NewMemorySessionStore(),
		auditRepo:  auditRepository.NewMemoryAuditRepository(),
		totp:       authService.NewTOTPService(cfg.OTPIssuer, cfg.OTPPeriod),
		qr:         qr,
	}

	f.users = NewUserUseCase(f.userRepo, passwords, f.totp, f.keyManager, chain)
	f.otp = NewOTPUseCase(cfg, f.otpStore, authRepository.NewMemoryOTPIssueStore(), f.users, f.totp).(*otpUseCase)
	f.otp.now = clock.Now
	f.sessionUC = NewSessionUseCase(cfg, f.sessions, authService.NewSessionIDService()).(*sessionUseCase)
	f.sessionUC.now = clock.Now

	integrity := auditService.NewIntegrityService(sha256Hasher{svc: cryptoService.NewSHA256HashService()})
	f.auditUC = auditUseCase.NewAuditUseCase(f.auditRepo, integrity, logger)

	f.auth = NewAuthUseCase(f.users, passwords, qr, f.otp, f.sessionUC, f.auditUC, logger).(*authUseCase)
	f.auth.now = clock.Now

	return f
}

// register creates a voter and returns it with its plaintext TOTP secret.
func (f *authFixture) register(t *testing.T, username, email, password string) (*authDomain.User, string) {
	t.Helper()

	out, err := f.users.RegisterUser(context.Background(), &authDomain.RegisterUserInput{
		Username: username,
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)

	uri, err := url.Parse(out.ProvisioningURI)
	require.NoError(t, err)
	return out.User, uri.Query().Get("secret")
}

// code returns the TOTP code for secret at the fixture clock.
func (f *authFixture) code(t *testing.T, secret string) string {
	t.Helper()
	code, err := f.totp.GenerateCode(secret, f.clock.Now())
	require.NoError(t, err)
	return code
}

// wrongCode returns a 6-digit code that is rejected at the fixture clock.
func (f *authFixture) wrongCode(t *testing.T, secret string) string {
	t.Helper()
	for _, candidate := range []string{"000000", "111111", "222222", "333333", "444444"} {
		ok, err := f.totp.ValidateCode(candidate, secret, f.clock.Now())
		require.NoError(t, err)
		if !ok {
			return candidate
		}
	}
	t.Fatal("no rejected candidate code")
	return ""
}

func (f *authFixture) auditEntries(t *testing.T, filter auditDomain.Filter) []*auditDomain.AuditEntry {
	t.Helper()
	entries, err := f.auditRepo.List(context.Background(), filter)
	require.NoError(t, err)
	return entries
}
