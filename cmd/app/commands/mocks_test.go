package commands

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	auditDomain "github.com/allisson/votesafe/internal/audit/domain"
	authDomain "github.com/allisson/votesafe/internal/auth/domain"
	ballotDomain "github.com/allisson/votesafe/internal/ballot/domain"
	cryptoDomain "github.com/allisson/votesafe/internal/crypto/domain"
)

// Manual mocks for KMS since they might not be generated in all environments
type mockKMSService struct {
	mock.Mock
}

func (m *mockKMSService) OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error) {
	args := m.Called(ctx, keyURI)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(cryptoDomain.KMSKeeper), args.Error(1)
}

type mockKMSKeeper struct {
	mock.Mock
}

func (m *mockKMSKeeper) Encrypt(ctx context.Context, plaintext []byte) ([]byte, error) {
	args := m.Called(ctx, plaintext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *mockKMSKeeper) Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error) {
	args := m.Called(ctx, ciphertext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *mockKMSKeeper) Close() error {
	return m.Called().Error(0)
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

type mockVoteCryptoUseCase struct {
	mock.Mock
}

func (m *mockVoteCryptoUseCase) Encrypt(
	ctx context.Context,
	plaintext []byte,
	electionID string,
) (*cryptoDomain.EncryptedVote, error) {
	args := m.Called(ctx, plaintext, electionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cryptoDomain.EncryptedVote), args.Error(1)
}

func (m *mockVoteCryptoUseCase) Decrypt(
	ctx context.Context,
	vote *cryptoDomain.EncryptedVote,
	electionID string,
) ([]byte, error) {
	args := m.Called(ctx, vote, electionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *mockVoteCryptoUseCase) RotateElectionKey(
	ctx context.Context,
	electionID string,
) (*cryptoDomain.ElectionKey, error) {
	args := m.Called(ctx, electionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cryptoDomain.ElectionKey), args.Error(1)
}

func (m *mockVoteCryptoUseCase) ListKeyVersions(
	ctx context.Context,
	electionID string,
) ([]*cryptoDomain.ElectionKey, error) {
	args := m.Called(ctx, electionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*cryptoDomain.ElectionKey), args.Error(1)
}

func (m *mockVoteCryptoUseCase) Hash(data []byte) string {
	return m.Called(data).String(0)
}

func (m *mockVoteCryptoUseCase) VerifyHash(data []byte, hash string) bool {
	return m.Called(data, hash).Bool(0)
}

type mockAuditUseCase struct {
	mock.Mock
}

func (m *mockAuditUseCase) Record(
	ctx context.Context,
	input *auditDomain.RecordInput,
) (*auditDomain.AuditEntry, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auditDomain.AuditEntry), args.Error(1)
}

func (m *mockAuditUseCase) Verify(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockAuditUseCase) VerifyBatch(
	ctx context.Context,
	filter auditDomain.Filter,
) (*auditDomain.VerifyReport, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auditDomain.VerifyReport), args.Error(1)
}

func (m *mockAuditUseCase) Get(ctx context.Context, id uuid.UUID) (*auditDomain.AuditEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auditDomain.AuditEntry), args.Error(1)
}

func (m *mockAuditUseCase) List(
	ctx context.Context,
	filter auditDomain.Filter,
) ([]*auditDomain.AuditEntry, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*auditDomain.AuditEntry), args.Error(1)
}

type mockBallotUseCase struct {
	mock.Mock
}

func (m *mockBallotUseCase) Cast(ctx context.Context, input *ballotDomain.CastInput) (*ballotDomain.Receipt, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ballotDomain.Receipt), args.Error(1)
}

func (m *mockBallotUseCase) HasVoted(ctx context.Context, electionID string, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, electionID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *mockBallotUseCase) Tally(
	ctx context.Context,
	electionID, actorID string,
) (*ballotDomain.TallyResult, error) {
	args := m.Called(ctx, electionID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ballotDomain.TallyResult), args.Error(1)
}

func (m *mockBallotUseCase) Turnout(ctx context.Context, electionID string) (int, error) {
	args := m.Called(ctx, electionID)
	return args.Int(0), args.Error(1)
}
