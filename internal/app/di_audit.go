package app

import (
	"fmt"

	auditHTTP "github.com/allisson/votesafe/internal/audit/http"
	auditRepository "github.com/allisson/votesafe/internal/audit/repository"
	auditService "github.com/allisson/votesafe/internal/audit/service"
	auditUseCase "github.com/allisson/votesafe/internal/audit/usecase"
	"github.com/allisson/votesafe/internal/database"
)

// AuditRepository returns the audit repository based on database driver.
func (c *Container) AuditRepository() (auditUseCase.AuditRepository, error) {
	var err error
	c.auditRepositoryInit.Do(func() {
		c.auditRepository, err = c.initAuditRepository()
		if err != nil {
			c.initErrors["auditRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["auditRepository"]; exists {
		return nil, storedErr
	}
	return c.auditRepository, nil
}

// AuditUseCase returns the audit integrity logger.
func (c *Container) AuditUseCase() (auditUseCase.AuditUseCase, error) {
	var err error
	c.auditUseCaseInit.Do(func() {
		c.auditUseCase, err = c.initAuditUseCase()
		if err != nil {
			c.initErrors["auditUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["auditUseCase"]; exists {
		return nil, storedErr
	}
	return c.auditUseCase, nil
}

// AuditHandler returns the HTTP handler for audit entries.
func (c *Container) AuditHandler() (*auditHTTP.AuditHandler, error) {
	useCase, err := c.AuditUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit use case for audit handler: %w", err)
	}
	return auditHTTP.NewAuditHandler(useCase, c.Logger()), nil
}

// initAuditRepository creates the audit repository based on the database driver.
func (c *Container) initAuditRepository() (auditUseCase.AuditRepository, error) {
	if c.InMemory() {
		return auditRepository.NewMemoryAuditRepository(), nil
	}

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for audit repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverPostgres:
		return auditRepository.NewPostgreSQLAuditRepository(db), nil
	case database.DriverMySQL:
		return auditRepository.NewMySQLAuditRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initAuditUseCase creates the audit use case. Integrity hashes come from
// the vote cryptography engine's SHA-256.
func (c *Container) initAuditUseCase() (auditUseCase.AuditUseCase, error) {
	repository, err := c.AuditRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit repository for audit use case: %w", err)
	}

	voteCrypto, err := c.VoteCryptoUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get vote crypto use case for audit use case: %w", err)
	}

	baseUseCase := auditUseCase.NewAuditUseCase(
		repository,
		auditService.NewIntegrityService(voteCrypto),
		c.Logger(),
	)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for audit use case: %w", err)
		}
		return auditUseCase.NewAuditUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}
