package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/votesafe/internal/crypto/domain"
	cryptoRepository "github.com/allisson/votesafe/internal/crypto/repository"
	cryptoService "github.com/allisson/votesafe/internal/crypto/service"
)

type mockElectionKeyRepository struct {
	mock.Mock
}

func (m *mockElectionKeyRepository) Create(ctx context.Context, key *cryptoDomain.ElectionKey) error {
	return m.Called(ctx, key).Error(0)
}

func (m *mockElectionKeyRepository) Get(
	ctx context.Context,
	electionID string,
	version uint,
) (*cryptoDomain.ElectionKey, error) {
	args := m.Called(ctx, electionID, version)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cryptoDomain.ElectionKey), args.Error(1)
}

func (m *mockElectionKeyRepository) GetLatest(ctx context.Context, electionID string) (*cryptoDomain.ElectionKey, error) {
	args := m.Called(ctx, electionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cryptoDomain.ElectionKey), args.Error(1)
}

func (m *mockElectionKeyRepository) ListVersions(
	ctx context.Context,
	electionID string,
) ([]*cryptoDomain.ElectionKey, error) {
	args := m.Called(ctx, electionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*cryptoDomain.ElectionKey), args.Error(1)
}

func newMasterKeyChain(t *testing.T, ids ...string) *cryptoDomain.MasterKeyChain {
	t.Helper()
	keys := make([]*cryptoDomain.MasterKey, 0, len(ids))
	for i, id := range ids {
		key := make([]byte, 32)
		key[0] = byte(i + 1)
		keys = append(keys, &cryptoDomain.MasterKey{ID: id, Key: key})
	}
	chain, err := cryptoDomain.NewMasterKeyChain(ids[0], keys...)
	require.NoError(t, err)
	t.Cleanup(chain.Close)
	return chain
}

func newTestVoteCrypto(t *testing.T, repo ElectionKeyRepository) VoteCryptoUseCase {
	t.Helper()
	aeadManager := cryptoService.NewAEADManager()
	return NewVoteCryptoUseCase(
		repo,
		cryptoService.NewKeyManager(aeadManager),
		aeadManager,
		cryptoService.NewSHA256HashService(),
		newMasterKeyChain(t, "master-1"),
		cryptoDomain.AESGCM,
	)
}

func TestVoteCryptoUseCase_RoundTrip(t *testing.T) {
	ctx := context.Background()
	uc := newTestVoteCrypto(t, cryptoRepository.NewMemoryElectionKeyRepository())

	inputs := []string{"candidate-1", "c", "候補者", "a much longer write-in candidate name with spaces"}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			vote, err := uc.Encrypt(ctx, []byte(in), "election-1")
			require.NoError(t, err)
			assert.Equal(t, uint(1), vote.KeyVersion)
			assert.Len(t, vote.Nonce, 12)
			assert.Equal(t, uc.Hash([]byte(in)), vote.IntegrityHash)

			plaintext, err := uc.Decrypt(ctx, vote, "election-1")
			require.NoError(t, err)
			assert.Equal(t, in, string(plaintext))
		})
	}
}

func TestVoteCryptoUseCase_Encrypt(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_FreshNonceEveryCall", func(t *testing.T) {
		uc := newTestVoteCrypto(t, cryptoRepository.NewMemoryElectionKeyRepository())

		v1, err := uc.Encrypt(ctx, []byte("candidate-1"), "election-1")
		require.NoError(t, err)
		v2, err := uc.Encrypt(ctx, []byte("candidate-1"), "election-1")
		require.NoError(t, err)

		assert.NotEqual(t, v1.Nonce, v2.Nonce)
		assert.NotEqual(t, v1.Ciphertext, v2.Ciphertext)
		assert.Equal(t, v1.IntegrityHash, v2.IntegrityHash)
	})

	t.Run("Success_KeyCreatedOncePerElection", func(t *testing.T) {
		repo := cryptoRepository.NewMemoryElectionKeyRepository()
		uc := newTestVoteCrypto(t, repo)

		var wg sync.WaitGroup
		for range 20 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := uc.Encrypt(ctx, []byte("candidate-1"), "election-1")
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		versions, err := repo.ListVersions(ctx, "election-1")
		require.NoError(t, err)
		assert.Len(t, versions, 1)
	})

	t.Run("Error_EmptyPlaintext", func(t *testing.T) {
		uc := newTestVoteCrypto(t, cryptoRepository.NewMemoryElectionKeyRepository())
		_, err := uc.Encrypt(ctx, nil, "election-1")
		assert.ErrorIs(t, err, cryptoDomain.ErrEmptyPlaintext)
	})

	t.Run("Error_EmptyElection", func(t *testing.T) {
		uc := newTestVoteCrypto(t, cryptoRepository.NewMemoryElectionKeyRepository())
		_, err := uc.Encrypt(ctx, []byte("candidate-1"), " ")
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidElectionID)
	})

	t.Run("Error_RepositoryFailure", func(t *testing.T) {
		repo := &mockElectionKeyRepository{}
		repo.On("GetLatest", mock.Anything, "election-1").Return(nil, errors.New("db down")).Once()
		uc := newTestVoteCrypto(t, repo)

		_, err := uc.Encrypt(ctx, []byte("candidate-1"), "election-1")
		assert.ErrorContains(t, err, "db down")
		repo.AssertExpectations(t)
	})
}

func TestVoteCryptoUseCase_Decrypt(t *testing.T) {
	ctx := context.Background()

	t.Run("Error_OtherElectionWithoutKey", func(t *testing.T) {
		uc := newTestVoteCrypto(t, cryptoRepository.NewMemoryElectionKeyRepository())
		vote, err := uc.Encrypt(ctx, []byte("candidate-1"), "election-1")
		require.NoError(t, err)

		_, err = uc.Decrypt(ctx, vote, "election-2")
		assert.ErrorIs(t, err, cryptoDomain.ErrKeyNotFound)
	})

	t.Run("Error_OtherElectionWithKey", func(t *testing.T) {
		uc := newTestVoteCrypto(t, cryptoRepository.NewMemoryElectionKeyRepository())
		vote, err := uc.Encrypt(ctx, []byte("candidate-1"), "election-1")
		require.NoError(t, err)
		_, err = uc.Encrypt(ctx, []byte("candidate-9"), "election-2")
		require.NoError(t, err)

		plaintext, err := uc.Decrypt(ctx, vote, "election-2")
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
		assert.Nil(t, plaintext)
	})

	t.Run("Error_TamperedCiphertext", func(t *testing.T) {
		uc := newTestVoteCrypto(t, cryptoRepository.NewMemoryElectionKeyRepository())
		vote, err := uc.Encrypt(ctx, []byte("candidate-1"), "election-1")
		require.NoError(t, err)
		vote.Ciphertext[0] ^= 0x01

		_, err = uc.Decrypt(ctx, vote, "election-1")
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
		assert.NotErrorIs(t, err, cryptoDomain.ErrVoteIntegrityMismatch)
	})

	t.Run("Error_TamperedIntegrityHash", func(t *testing.T) {
		uc := newTestVoteCrypto(t, cryptoRepository.NewMemoryElectionKeyRepository())
		vote, err := uc.Encrypt(ctx, []byte("candidate-1"), "election-1")
		require.NoError(t, err)
		vote.IntegrityHash = uc.Hash([]byte("candidate-2"))

		_, err = uc.Decrypt(ctx, vote, "election-1")
		assert.ErrorIs(t, err, cryptoDomain.ErrVoteIntegrityMismatch)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("Error_AlgorithmRelabelled", func(t *testing.T) {
		uc := newTestVoteCrypto(t, cryptoRepository.NewMemoryElectionKeyRepository())
		vote, err := uc.Encrypt(ctx, []byte("candidate-1"), "election-1")
		require.NoError(t, err)
		vote.Algorithm = cryptoDomain.ChaCha20

		_, err = uc.Decrypt(ctx, vote, "election-1")
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("Error_InvalidVote", func(t *testing.T) {
		uc := newTestVoteCrypto(t, cryptoRepository.NewMemoryElectionKeyRepository())
		_, err := uc.Decrypt(ctx, nil, "election-1")
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidEncryptedVote)
	})

	t.Run("Success_ColdCacheLoadsFromRepository", func(t *testing.T) {
		repo := cryptoRepository.NewMemoryElectionKeyRepository()
		aeadManager := cryptoService.NewAEADManager()
		chain := newMasterKeyChain(t, "master-1")
		build := func() VoteCryptoUseCase {
			return NewVoteCryptoUseCase(repo, cryptoService.NewKeyManager(aeadManager), aeadManager,
				cryptoService.NewSHA256HashService(), chain, cryptoDomain.ChaCha20)
		}

		vote, err := build().Encrypt(ctx, []byte("candidate-3"), "election-1")
		require.NoError(t, err)

		plaintext, err := build().Decrypt(ctx, vote, "election-1")
		require.NoError(t, err)
		assert.Equal(t, "candidate-3", string(plaintext))
	})
}

func TestVoteCryptoUseCase_RotateElectionKey(t *testing.T) {
	ctx := context.Background()
	uc := newTestVoteCrypto(t, cryptoRepository.NewMemoryElectionKeyRepository())

	before, err := uc.Encrypt(ctx, []byte("candidate-1"), "election-1")
	require.NoError(t, err)

	rotated, err := uc.RotateElectionKey(ctx, "election-1")
	require.NoError(t, err)
	assert.Equal(t, uint(2), rotated.Version)
	assert.Nil(t, rotated.Key)

	after, err := uc.Encrypt(ctx, []byte("candidate-2"), "election-1")
	require.NoError(t, err)
	assert.Equal(t, uint(2), after.KeyVersion)

	plaintext, err := uc.Decrypt(ctx, before, "election-1")
	require.NoError(t, err)
	assert.Equal(t, "candidate-1", string(plaintext))

	plaintext, err = uc.Decrypt(ctx, after, "election-1")
	require.NoError(t, err)
	assert.Equal(t, "candidate-2", string(plaintext))

	versions, err := uc.ListKeyVersions(ctx, "election-1")
	require.NoError(t, err)
	require.Len(t, versions, 2)
	for _, v := range versions {
		assert.Nil(t, v.Key)
	}

	t.Run("Success_RotateUnusedElection", func(t *testing.T) {
		key, err := uc.RotateElectionKey(ctx, "election-new")
		require.NoError(t, err)
		assert.Equal(t, uint(1), key.Version)
	})

	t.Run("Error_EmptyElection", func(t *testing.T) {
		_, err := uc.RotateElectionKey(ctx, "")
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidElectionID)
	})
}

func TestVoteCryptoUseCase_Hash(t *testing.T) {
	uc := newTestVoteCrypto(t, cryptoRepository.NewMemoryElectionKeyRepository())

	hash := uc.Hash([]byte("audit-entry"))
	assert.Len(t, hash, 64)
	assert.True(t, uc.VerifyHash([]byte("audit-entry"), hash))
	assert.False(t, uc.VerifyHash([]byte("audit-entry!"), hash))
}
