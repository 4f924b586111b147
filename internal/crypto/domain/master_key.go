package domain

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// MasterKey is the root key that wraps election keys and sealed OTP secrets.
//
// Master keys never touch the database. They are loaded at startup from
// MASTER_KEYS, optionally KMS-encrypted, and kept only in memory.
type MasterKey struct {
	ID  string
	Key []byte
}

// MasterKeyChain holds every configured master key with one designated as active.
//
// New election keys and OTP secrets are always sealed with the active key;
// older keys stay loaded so material sealed before a rotation still opens.
type MasterKeyChain struct {
	activeID string
	keys     sync.Map
}

// KMSKeeper is the subset of *secrets.Keeper used to unwrap master keys.
type KMSKeeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}

// KeeperOpener opens a KMSKeeper for a provider URI.
type KeeperOpener interface {
	OpenKeeper(ctx context.Context, keyURI string) (KMSKeeper, error)
}

// NewMasterKeyChain builds a chain from already decoded keys. Key bytes are copied.
func NewMasterKeyChain(activeID string, keys ...*MasterKey) (*MasterKeyChain, error) {
	mkc := &MasterKeyChain{activeID: activeID}
	for _, k := range keys {
		if len(k.Key) != KeySize {
			mkc.Close()
			return nil, ErrInvalidKeySize
		}
		mkc.store(k.ID, k.Key)
	}
	if _, ok := mkc.Get(activeID); !ok {
		mkc.Close()
		return nil, fmt.Errorf("%w: %s", ErrActiveMasterKeyNotFound, activeID)
	}
	return mkc, nil
}

// ActiveMasterKeyID returns the ID of the currently active master key.
func (m *MasterKeyChain) ActiveMasterKeyID() string {
	return m.activeID
}

// Active returns the active master key.
func (m *MasterKeyChain) Active() (*MasterKey, bool) {
	return m.Get(m.activeID)
}

// Get retrieves a master key by ID.
func (m *MasterKeyChain) Get(id string) (*MasterKey, bool) {
	if masterKey, ok := m.keys.Load(id); ok {
		return masterKey.(*MasterKey), ok
	}

	return nil, false
}

// Close zeroes all key material and empties the chain.
func (m *MasterKeyChain) Close() {
	m.keys.Range(func(_, value any) bool {
		if mk, ok := value.(*MasterKey); ok {
			Zero(mk.Key)
		}
		return true
	})
	m.activeID = ""
	m.keys.Clear()
}

func (m *MasterKeyChain) store(id string, key []byte) {
	owned := make([]byte, len(key))
	copy(owned, key)
	m.keys.Store(id, &MasterKey{ID: id, Key: owned})
}

// LoadMasterKeyChainFromEnv loads plaintext master keys from the environment.
//
// Format:
//
//	MASTER_KEYS="key1:<base64 32 bytes>,key2:<base64 32 bytes>"
//	ACTIVE_MASTER_KEY_ID="key2"
//
// Intended for development and tests. Production deployments should use
// LoadMasterKeyChain with a KMS provider.
func LoadMasterKeyChainFromEnv() (*MasterKeyChain, error) {
	return loadMasterKeyChain(func(id string, raw []byte) ([]byte, error) {
		return raw, nil
	})
}

// LoadMasterKeyChain loads master keys, unwrapping each MASTER_KEYS value with
// the KMS keeper when kmsKeyURI is set. Without a KMS URI it falls back to
// plaintext keys and logs a warning.
func LoadMasterKeyChain(
	ctx context.Context,
	kmsProvider string,
	kmsKeyURI string,
	opener KeeperOpener,
	logger *slog.Logger,
) (*MasterKeyChain, error) {
	if kmsKeyURI == "" {
		if logger != nil {
			logger.Warn("KMS not configured, loading plaintext master keys from environment")
		}
		return LoadMasterKeyChainFromEnv()
	}

	keeper, err := opener.OpenKeeper(ctx, kmsKeyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	defer func() {
		_ = keeper.Close()
	}()

	if logger != nil {
		logger.Info("loading master keys through KMS", slog.String("kms_provider", kmsProvider))
	}

	return loadMasterKeyChain(func(id string, raw []byte) ([]byte, error) {
		plaintext, err := keeper.Decrypt(ctx, raw)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt master key %s with KMS: %w", id, err)
		}
		return plaintext, nil
	})
}

func loadMasterKeyChain(unwrap func(id string, raw []byte) ([]byte, error)) (*MasterKeyChain, error) {
	raw := os.Getenv("MASTER_KEYS")
	if raw == "" {
		return nil, ErrMasterKeysNotSet
	}

	active := os.Getenv("ACTIVE_MASTER_KEY_ID")
	if active == "" {
		return nil, ErrActiveMasterKeyIDNotSet
	}

	mkc := &MasterKeyChain{activeID: active}

	for part := range strings.SplitSeq(raw, ",") {
		p := strings.SplitN(strings.TrimSpace(part), ":", 2)
		if len(p) != 2 || p[0] == "" {
			mkc.Close()
			return nil, fmt.Errorf("%w: %q", ErrInvalidMasterKeysFormat, part)
		}
		id := p[0]
		decoded, err := base64.StdEncoding.DecodeString(p[1])
		if err != nil {
			mkc.Close()
			return nil, fmt.Errorf("%w for %s: %v", ErrInvalidMasterKeyBase64, id, err)
		}
		key, err := unwrap(id, decoded)
		if err != nil {
			mkc.Close()
			return nil, err
		}
		if len(key) != KeySize {
			Zero(key)
			mkc.Close()
			return nil, fmt.Errorf(
				"%w: master key %s must be %d bytes, got %d",
				ErrInvalidKeySize,
				id,
				KeySize,
				len(key),
			)
		}
		mkc.store(id, key)
		Zero(key)
	}

	if _, ok := mkc.Get(active); !ok {
		mkc.Close()
		return nil, fmt.Errorf("%w: ACTIVE_MASTER_KEY_ID=%s", ErrActiveMasterKeyNotFound, active)
	}

	return mkc, nil
}
