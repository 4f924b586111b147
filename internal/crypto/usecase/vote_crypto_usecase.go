package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	cryptoDomain "github.com/allisson/votesafe/internal/crypto/domain"
	cryptoService "github.com/allisson/votesafe/internal/crypto/service"
	apperrors "github.com/allisson/votesafe/internal/errors"
)

type voteCryptoUseCase struct {
	keyRepo        ElectionKeyRepository
	keyManager     cryptoService.KeyManager
	aeadManager    cryptoService.AEADManager
	hashService    cryptoService.HashService
	masterKeyChain *cryptoDomain.MasterKeyChain
	algorithm      cryptoDomain.Algorithm

	// keys caches unwrapped keys by "election|version"; latest maps an
	// election id to its highest known version.
	keys   sync.Map
	latest sync.Map
	group  singleflight.Group

	rotateMu sync.Mutex
}

// NewVoteCryptoUseCase creates a VoteCryptoUseCase. New election keys use alg.
func NewVoteCryptoUseCase(
	keyRepo ElectionKeyRepository,
	keyManager cryptoService.KeyManager,
	aeadManager cryptoService.AEADManager,
	hashService cryptoService.HashService,
	masterKeyChain *cryptoDomain.MasterKeyChain,
	alg cryptoDomain.Algorithm,
) VoteCryptoUseCase {
	return &voteCryptoUseCase{
		keyRepo:        keyRepo,
		keyManager:     keyManager,
		aeadManager:    aeadManager,
		hashService:    hashService,
		masterKeyChain: masterKeyChain,
		algorithm:      alg,
	}
}

func (v *voteCryptoUseCase) Encrypt(
	ctx context.Context,
	plaintext []byte,
	electionID string,
) (*cryptoDomain.EncryptedVote, error) {
	if len(plaintext) == 0 {
		return nil, cryptoDomain.ErrEmptyPlaintext
	}
	if strings.TrimSpace(electionID) == "" {
		return nil, cryptoDomain.ErrInvalidElectionID
	}

	key, err := v.activeKey(ctx, electionID)
	if err != nil {
		return nil, err
	}

	aead, err := v.aeadManager.CreateCipher(key.Key, key.Algorithm)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrEncryptionFailed, err)
	}

	ciphertext, nonce, err := aead.Encrypt(plaintext, key.AAD())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrEncryptionFailed, err)
	}

	return &cryptoDomain.EncryptedVote{
		Algorithm:     key.Algorithm,
		KeyVersion:    key.Version,
		Nonce:         nonce,
		Ciphertext:    ciphertext,
		IntegrityHash: v.hashService.Hash(plaintext),
	}, nil
}

func (v *voteCryptoUseCase) Decrypt(
	ctx context.Context,
	vote *cryptoDomain.EncryptedVote,
	electionID string,
) ([]byte, error) {
	if strings.TrimSpace(electionID) == "" {
		return nil, cryptoDomain.ErrInvalidElectionID
	}
	if vote == nil || vote.KeyVersion == 0 || len(vote.Ciphertext) == 0 {
		return nil, cryptoDomain.ErrInvalidEncryptedVote
	}

	key, err := v.keyFor(ctx, electionID, vote.KeyVersion)
	if err != nil {
		return nil, err
	}

	if vote.Algorithm != key.Algorithm {
		return nil, cryptoDomain.ErrDecryptionFailed
	}

	aead, err := v.aeadManager.CreateCipher(key.Key, key.Algorithm)
	if err != nil {
		return nil, err
	}

	plaintext, err := aead.Decrypt(vote.Ciphertext, vote.Nonce, key.AAD())
	if err != nil {
		return nil, cryptoDomain.ErrDecryptionFailed
	}

	if !v.hashService.Verify(plaintext, vote.IntegrityHash) {
		cryptoDomain.Zero(plaintext)
		return nil, cryptoDomain.ErrVoteIntegrityMismatch
	}

	return plaintext, nil
}

func (v *voteCryptoUseCase) RotateElectionKey(
	ctx context.Context,
	electionID string,
) (*cryptoDomain.ElectionKey, error) {
	if strings.TrimSpace(electionID) == "" {
		return nil, cryptoDomain.ErrInvalidElectionID
	}

	v.rotateMu.Lock()
	defer v.rotateMu.Unlock()

	var next uint = 1
	current, err := v.keyRepo.GetLatest(ctx, electionID)
	switch {
	case err == nil:
		next = current.Version + 1
	case apperrors.Is(err, cryptoDomain.ErrKeyNotFound):
	default:
		return nil, err
	}

	key, err := v.createKey(ctx, electionID, next)
	if err != nil {
		return nil, err
	}

	return metadataOnly(key), nil
}

func (v *voteCryptoUseCase) ListKeyVersions(
	ctx context.Context,
	electionID string,
) ([]*cryptoDomain.ElectionKey, error) {
	keys, err := v.keyRepo.ListVersions(ctx, electionID)
	if err != nil {
		return nil, err
	}
	out := make([]*cryptoDomain.ElectionKey, 0, len(keys))
	for _, k := range keys {
		out = append(out, metadataOnly(k))
	}
	return out, nil
}

func (v *voteCryptoUseCase) Hash(data []byte) string {
	return v.hashService.Hash(data)
}

func (v *voteCryptoUseCase) VerifyHash(data []byte, hash string) bool {
	return v.hashService.Verify(data, hash)
}

// activeKey returns the latest key for the election, creating version 1
// exactly once when none exists yet.
func (v *voteCryptoUseCase) activeKey(ctx context.Context, electionID string) (*cryptoDomain.ElectionKey, error) {
	if version, ok := v.latest.Load(electionID); ok {
		if key, ok := v.keys.Load(cryptoDomain.ElectionKeyRef(electionID, version.(uint))); ok {
			return key.(*cryptoDomain.ElectionKey), nil
		}
	}

	result, err, _ := v.group.Do("latest:"+electionID, func() (any, error) {
		stored, err := v.keyRepo.GetLatest(ctx, electionID)
		if err == nil {
			return v.unwrapAndCache(stored)
		}
		if !apperrors.Is(err, cryptoDomain.ErrKeyNotFound) {
			return nil, err
		}

		key, err := v.createKey(ctx, electionID, 1)
		if apperrors.Is(err, apperrors.ErrConflict) {
			// Another instance created version 1 first.
			stored, err = v.keyRepo.GetLatest(ctx, electionID)
			if err != nil {
				return nil, err
			}
			return v.unwrapAndCache(stored)
		}
		return key, err
	})
	if err != nil {
		return nil, err
	}
	return result.(*cryptoDomain.ElectionKey), nil
}

// keyFor returns a specific version, loading and unwrapping it on a cache miss.
func (v *voteCryptoUseCase) keyFor(
	ctx context.Context,
	electionID string,
	version uint,
) (*cryptoDomain.ElectionKey, error) {
	ref := cryptoDomain.ElectionKeyRef(electionID, version)
	if key, ok := v.keys.Load(ref); ok {
		return key.(*cryptoDomain.ElectionKey), nil
	}

	result, err, _ := v.group.Do("get:"+ref, func() (any, error) {
		stored, err := v.keyRepo.Get(ctx, electionID, version)
		if err != nil {
			return nil, err
		}
		return v.unwrapAndCache(stored)
	})
	if err != nil {
		return nil, err
	}
	return result.(*cryptoDomain.ElectionKey), nil
}

func (v *voteCryptoUseCase) createKey(
	ctx context.Context,
	electionID string,
	version uint,
) (*cryptoDomain.ElectionKey, error) {
	masterKey, ok := v.masterKeyChain.Active()
	if !ok {
		return nil, cryptoDomain.ErrActiveMasterKeyNotFound
	}

	key, err := v.keyManager.CreateElectionKey(masterKey, electionID, version, v.algorithm)
	if err != nil {
		return nil, err
	}

	if err := v.keyRepo.Create(ctx, &key); err != nil {
		cryptoDomain.Zero(key.Key)
		return nil, err
	}

	v.cache(&key)
	return &key, nil
}

func (v *voteCryptoUseCase) unwrapAndCache(stored *cryptoDomain.ElectionKey) (*cryptoDomain.ElectionKey, error) {
	masterKey, ok := v.masterKeyChain.Get(stored.MasterKeyID)
	if !ok {
		return nil, fmt.Errorf(
			"%w: master key %s for election %s is not loaded",
			cryptoDomain.ErrKeyNotFound,
			stored.MasterKeyID,
			stored.ElectionID,
		)
	}

	plain, err := v.keyManager.DecryptElectionKey(stored, masterKey)
	if err != nil {
		return nil, err
	}

	key := *stored
	key.Key = plain
	v.cache(&key)
	return &key, nil
}

func (v *voteCryptoUseCase) cache(key *cryptoDomain.ElectionKey) {
	v.keys.Store(key.CacheKey(), key)
	for {
		current, loaded := v.latest.LoadOrStore(key.ElectionID, key.Version)
		if !loaded || current.(uint) >= key.Version {
			return
		}
		if v.latest.CompareAndSwap(key.ElectionID, current, key.Version) {
			return
		}
	}
}

func metadataOnly(key *cryptoDomain.ElectionKey) *cryptoDomain.ElectionKey {
	out := *key
	out.Key = nil
	return &out
}
