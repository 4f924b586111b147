package service

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/votesafe/internal/crypto/domain"
)

// masterKeyAlgorithm wraps every key and secret sealed under a master key.
const masterKeyAlgorithm = cryptoDomain.AESGCM

// KeyManagerService implements KeyManager on top of an AEADManager.
type KeyManagerService struct {
	aeadManager AEADManager
}

// NewKeyManager creates a new KeyManagerService instance with the provided AEADManager.
func NewKeyManager(aeadManager AEADManager) *KeyManagerService {
	return &KeyManagerService{
		aeadManager: aeadManager,
	}
}

// CreateElectionKey generates a random 32-byte election key and wraps it with
// the master key. The wrap binds the election id and version as AAD, so a
// wrapped key copied onto another election row fails to unwrap.
//
// The returned key has Key populated; callers must Zero it when done.
func (km *KeyManagerService) CreateElectionKey(
	masterKey *cryptoDomain.MasterKey,
	electionID string,
	version uint,
	alg cryptoDomain.Algorithm,
) (cryptoDomain.ElectionKey, error) {
	if _, err := cryptoDomain.ParseAlgorithm(string(alg)); err != nil {
		return cryptoDomain.ElectionKey{}, err
	}

	key := make([]byte, cryptoDomain.KeySize)
	if _, err := rand.Read(key); err != nil {
		return cryptoDomain.ElectionKey{}, fmt.Errorf("failed to generate election key: %w", err)
	}

	electionKey := cryptoDomain.ElectionKey{
		ID:          uuid.Must(uuid.NewV7()),
		ElectionID:  electionID,
		Version:     version,
		Algorithm:   alg,
		MasterKeyID: masterKey.ID,
		Key:         key,
		CreatedAt:   time.Now().UTC(),
	}

	encryptedKey, nonce, err := km.Seal(masterKey, key, electionKey.AAD())
	if err != nil {
		cryptoDomain.Zero(key)
		return cryptoDomain.ElectionKey{}, fmt.Errorf("failed to encrypt election key: %w", err)
	}
	electionKey.EncryptedKey = encryptedKey
	electionKey.Nonce = nonce

	return electionKey, nil
}

// DecryptElectionKey unwraps an election key.
func (km *KeyManagerService) DecryptElectionKey(
	key *cryptoDomain.ElectionKey,
	masterKey *cryptoDomain.MasterKey,
) ([]byte, error) {
	return km.Open(masterKey, key.EncryptedKey, key.Nonce, key.AAD())
}

// Seal encrypts plaintext with the master key.
func (km *KeyManagerService) Seal(
	masterKey *cryptoDomain.MasterKey,
	plaintext, aad []byte,
) (ciphertext, nonce []byte, err error) {
	aead, err := km.aeadManager.CreateCipher(masterKey.Key, masterKeyAlgorithm)
	if err != nil {
		return nil, nil, err
	}
	return aead.Encrypt(plaintext, aad)
}

// Open decrypts a value sealed with Seal. Any failure is reported as ErrDecryptionFailed.
func (km *KeyManagerService) Open(
	masterKey *cryptoDomain.MasterKey,
	ciphertext, nonce, aad []byte,
) ([]byte, error) {
	aead, err := km.aeadManager.CreateCipher(masterKey.Key, masterKeyAlgorithm)
	if err != nil {
		return nil, err
	}

	plaintext, err := aead.Decrypt(ciphertext, nonce, aad)
	if err != nil {
		return nil, cryptoDomain.ErrDecryptionFailed
	}
	return plaintext, nil
}
