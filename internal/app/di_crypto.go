package app

import (
	"context"
	"fmt"

	cryptoDomain "github.com/allisson/votesafe/internal/crypto/domain"
	cryptoRepository "github.com/allisson/votesafe/internal/crypto/repository"
	cryptoService "github.com/allisson/votesafe/internal/crypto/service"
	cryptoUseCase "github.com/allisson/votesafe/internal/crypto/usecase"
	"github.com/allisson/votesafe/internal/database"
)

// MasterKeyChain returns the master key chain loaded from environment variables,
// unwrapped through KMS when KMS_KEY_URI is set.
func (c *Container) MasterKeyChain() (*cryptoDomain.MasterKeyChain, error) {
	var err error
	c.masterKeyChainInit.Do(func() {
		c.masterKeyChain, err = c.initMasterKeyChain()
		if err != nil {
			c.initErrors["masterKeyChain"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["masterKeyChain"]; exists {
		return nil, storedErr
	}
	return c.masterKeyChain, nil
}

// AEADManager returns the AEAD manager service.
func (c *Container) AEADManager() cryptoService.AEADManager {
	c.aeadManagerInit.Do(func() {
		c.aeadManager = cryptoService.NewAEADManager()
	})
	return c.aeadManager
}

// KeyManager returns the key manager service.
func (c *Container) KeyManager() cryptoService.KeyManager {
	c.keyManagerInit.Do(func() {
		c.keyManager = cryptoService.NewKeyManager(c.AEADManager())
	})
	return c.keyManager
}

// HashService returns the SHA-256 hash service.
func (c *Container) HashService() cryptoService.HashService {
	c.hashServiceInit.Do(func() {
		c.hashService = cryptoService.NewSHA256HashService()
	})
	return c.hashService
}

// KMSService returns the KMS service.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = cryptoService.NewKMSService()
	})
	return c.kmsService
}

// ElectionKeyRepository returns the election key repository based on database driver.
func (c *Container) ElectionKeyRepository() (cryptoUseCase.ElectionKeyRepository, error) {
	var err error
	c.electionKeyRepositoryInit.Do(func() {
		c.electionKeyRepository, err = c.initElectionKeyRepository()
		if err != nil {
			c.initErrors["electionKeyRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["electionKeyRepository"]; exists {
		return nil, storedErr
	}
	return c.electionKeyRepository, nil
}

// VoteCryptoUseCase returns the vote cryptography engine.
func (c *Container) VoteCryptoUseCase() (cryptoUseCase.VoteCryptoUseCase, error) {
	var err error
	c.voteCryptoUseCaseInit.Do(func() {
		c.voteCryptoUseCase, err = c.initVoteCryptoUseCase()
		if err != nil {
			c.initErrors["voteCryptoUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["voteCryptoUseCase"]; exists {
		return nil, storedErr
	}
	return c.voteCryptoUseCase, nil
}

// initMasterKeyChain loads the master key chain with fail-fast validation.
func (c *Container) initMasterKeyChain() (*cryptoDomain.MasterKeyChain, error) {
	masterKeyChain, err := cryptoDomain.LoadMasterKeyChain(
		context.Background(),
		c.config.KMSProvider,
		c.config.KMSKeyURI,
		c.KMSService(),
		c.Logger(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load master key chain: %w", err)
	}
	return masterKeyChain, nil
}

// initElectionKeyRepository creates the election key repository based on the database driver.
func (c *Container) initElectionKeyRepository() (cryptoUseCase.ElectionKeyRepository, error) {
	if c.InMemory() {
		return cryptoRepository.NewMemoryElectionKeyRepository(), nil
	}

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for election key repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverPostgres:
		return cryptoRepository.NewPostgreSQLElectionKeyRepository(db), nil
	case database.DriverMySQL:
		return cryptoRepository.NewMySQLElectionKeyRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initVoteCryptoUseCase creates the vote cryptography engine with all its dependencies.
func (c *Container) initVoteCryptoUseCase() (cryptoUseCase.VoteCryptoUseCase, error) {
	algorithm, err := cryptoDomain.ParseAlgorithm(c.config.VoteAlgorithm)
	if err != nil {
		return nil, fmt.Errorf("invalid VOTE_ALGORITHM: %w", err)
	}

	keyRepository, err := c.ElectionKeyRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get election key repository for vote crypto use case: %w", err)
	}

	masterKeyChain, err := c.MasterKeyChain()
	if err != nil {
		return nil, fmt.Errorf("failed to get master key chain for vote crypto use case: %w", err)
	}

	baseUseCase := cryptoUseCase.NewVoteCryptoUseCase(
		keyRepository,
		c.KeyManager(),
		c.AEADManager(),
		c.HashService(),
		masterKeyChain,
		algorithm,
	)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for vote crypto use case: %w", err)
		}
		return cryptoUseCase.NewVoteCryptoUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}
