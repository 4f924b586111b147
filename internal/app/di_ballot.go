package app

import (
	"fmt"

	ballotHTTP "github.com/allisson/votesafe/internal/ballot/http"
	ballotRepository "github.com/allisson/votesafe/internal/ballot/repository"
	ballotUseCase "github.com/allisson/votesafe/internal/ballot/usecase"
	"github.com/allisson/votesafe/internal/database"
)

// BallotRepository returns the ballot repository based on database driver.
func (c *Container) BallotRepository() (ballotUseCase.BallotRepository, error) {
	var err error
	c.ballotRepositoryInit.Do(func() {
		c.ballotRepository, err = c.initBallotRepository()
		if err != nil {
			c.initErrors["ballotRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["ballotRepository"]; exists {
		return nil, storedErr
	}
	return c.ballotRepository, nil
}

// ParticipationRepository returns the participation repository based on database driver.
func (c *Container) ParticipationRepository() (ballotUseCase.ParticipationRepository, error) {
	var err error
	c.participationRepositoryInit.Do(func() {
		c.participationRepository, err = c.initParticipationRepository()
		if err != nil {
			c.initErrors["participationRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["participationRepository"]; exists {
		return nil, storedErr
	}
	return c.participationRepository, nil
}

// BallotUseCase returns the ballot use case.
func (c *Container) BallotUseCase() (ballotUseCase.BallotUseCase, error) {
	var err error
	c.ballotUseCaseInit.Do(func() {
		c.ballotUseCase, err = c.initBallotUseCase()
		if err != nil {
			c.initErrors["ballotUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["ballotUseCase"]; exists {
		return nil, storedErr
	}
	return c.ballotUseCase, nil
}

// BallotHandler returns the HTTP handler for ballots.
func (c *Container) BallotHandler() (*ballotHTTP.BallotHandler, error) {
	useCase, err := c.BallotUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get ballot use case for ballot handler: %w", err)
	}
	return ballotHTTP.NewBallotHandler(useCase, c.Logger()), nil
}

func (c *Container) initBallotRepository() (ballotUseCase.BallotRepository, error) {
	if c.InMemory() {
		return ballotRepository.NewMemoryBallotRepository(), nil
	}

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for ballot repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverPostgres:
		return ballotRepository.NewPostgreSQLBallotRepository(db), nil
	case database.DriverMySQL:
		return ballotRepository.NewMySQLBallotRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initParticipationRepository() (ballotUseCase.ParticipationRepository, error) {
	if c.InMemory() {
		return ballotRepository.NewMemoryParticipationRepository(), nil
	}

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for participation repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverPostgres:
		return ballotRepository.NewPostgreSQLParticipationRepository(db), nil
	case database.DriverMySQL:
		return ballotRepository.NewMySQLParticipationRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initBallotUseCase creates the ballot use case with all its dependencies.
func (c *Container) initBallotUseCase() (ballotUseCase.BallotUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for ballot use case: %w", err)
	}

	ballots, err := c.BallotRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get ballot repository for ballot use case: %w", err)
	}

	participations, err := c.ParticipationRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get participation repository for ballot use case: %w", err)
	}

	voteCrypto, err := c.VoteCryptoUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get vote crypto use case for ballot use case: %w", err)
	}

	auditUseCase, err := c.AuditUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit use case for ballot use case: %w", err)
	}

	baseUseCase := ballotUseCase.NewBallotUseCase(
		txManager,
		ballots,
		participations,
		voteCrypto,
		auditUseCase,
		c.Logger(),
	)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for ballot use case: %w", err)
		}
		return ballotUseCase.NewBallotUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}
