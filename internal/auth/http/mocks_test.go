package http

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	authDomain "github.com/allisson/votesafe/internal/auth/domain"
)

type mockAuthUseCase struct {
	mock.Mock
}

func authResult(args mock.Arguments) (*authDomain.AuthResult, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.AuthResult), args.Error(1)
}

func (m *mockAuthUseCase) ValidateCredentials(
	ctx context.Context,
	identifier, password string,
) (*authDomain.AuthResult, error) {
	return authResult(m.Called(ctx, identifier, password))
}

func (m *mockAuthUseCase) IssueChallenge(ctx context.Context, userID uuid.UUID) (*authDomain.AuthResult, error) {
	return authResult(m.Called(ctx, userID))
}

func (m *mockAuthUseCase) AuthenticateWithQR(
	ctx context.Context,
	userID uuid.UUID,
	payload string,
) (*authDomain.AuthResult, error) {
	return authResult(m.Called(ctx, userID, payload))
}

func (m *mockAuthUseCase) AuthenticateWithOTP(
	ctx context.Context,
	userID uuid.UUID,
	code string,
) (*authDomain.AuthResult, error) {
	return authResult(m.Called(ctx, userID, code))
}

func (m *mockAuthUseCase) Logout(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

type mockUserUseCase struct {
	mock.Mock
}

func (m *mockUserUseCase) RegisterUser(
	ctx context.Context,
	input *authDomain.RegisterUserInput,
) (*authDomain.RegisterUserOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.RegisterUserOutput), args.Error(1)
}

func (m *mockUserUseCase) GetByID(ctx context.Context, id uuid.UUID) (*authDomain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.User), args.Error(1)
}

func (m *mockUserUseCase) GetByIdentifier(ctx context.Context, identifier string) (*authDomain.User, error) {
	args := m.Called(ctx, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.User), args.Error(1)
}

func (m *mockUserUseCase) OTPSecret(ctx context.Context, userID uuid.UUID) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *mockUserUseCase) SetEnabled(ctx context.Context, userID uuid.UUID, enabled bool) (*authDomain.User, error) {
	args := m.Called(ctx, userID, enabled)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.User), args.Error(1)
}

type mockSessionUseCase struct {
	mock.Mock
}

func sessionResult(args mock.Arguments) (*authDomain.Session, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Session), args.Error(1)
}

func (m *mockSessionUseCase) Create(ctx context.Context, userID uuid.UUID) (*authDomain.Session, error) {
	return sessionResult(m.Called(ctx, userID))
}

func (m *mockSessionUseCase) Get(ctx context.Context, sessionID string) (*authDomain.Session, error) {
	return sessionResult(m.Called(ctx, sessionID))
}

func (m *mockSessionUseCase) Invalidate(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

func (m *mockSessionUseCase) IsValid(ctx context.Context, sessionID string) (bool, error) {
	args := m.Called(ctx, sessionID)
	return args.Bool(0), args.Error(1)
}

func (m *mockSessionUseCase) Extend(ctx context.Context, sessionID string) (*authDomain.Session, error) {
	return sessionResult(m.Called(ctx, sessionID))
}

func (m *mockSessionUseCase) InvalidateAllForUser(ctx context.Context, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *mockSessionUseCase) GetUserID(ctx context.Context, sessionID string) (uuid.UUID, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *mockSessionUseCase) CleanupExpired(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type mockQRChallengeService struct {
	mock.Mock
}

func (m *mockQRChallengeService) Generate(userID uuid.UUID, issuedAt time.Time) *authDomain.QRChallenge {
	return m.Called(userID, issuedAt).Get(0).(*authDomain.QRChallenge)
}

func (m *mockQRChallengeService) Validate(payload string, userID uuid.UUID, now time.Time) authDomain.QRVerdict {
	return m.Called(payload, userID, now).Get(0).(authDomain.QRVerdict)
}

func (m *mockQRChallengeService) IsExpired(payload string, now time.Time) bool {
	return m.Called(payload, now).Bool(0)
}

func (m *mockQRChallengeService) Expiry() time.Duration {
	return m.Called().Get(0).(time.Duration)
}

func (m *mockQRChallengeService) RenderPNG(payload string, size int) ([]byte, error) {
	args := m.Called(payload, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
