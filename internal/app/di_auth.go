package app

import (
	"fmt"

	authHTTP "github.com/allisson/votesafe/internal/auth/http"
	authRepository "github.com/allisson/votesafe/internal/auth/repository"
	authService "github.com/allisson/votesafe/internal/auth/service"
	authUseCase "github.com/allisson/votesafe/internal/auth/usecase"
	cryptoDomain "github.com/allisson/votesafe/internal/crypto/domain"
	"github.com/allisson/votesafe/internal/database"
)

// UserRepository returns the user repository based on database driver.
func (c *Container) UserRepository() (authUseCase.UserRepository, error) {
	var err error
	c.userRepositoryInit.Do(func() {
		c.userRepository, err = c.initUserRepository()
		if err != nil {
			c.initErrors["userRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["userRepository"]; exists {
		return nil, storedErr
	}
	return c.userRepository, nil
}

// OTPStore returns the one-time password store.
func (c *Container) OTPStore() authUseCase.OTPStore {
	c.initOTPStores()
	return c.otpStore
}

// OTPIssueStore returns the store of last OTP issuance times.
func (c *Container) OTPIssueStore() authUseCase.OTPIssueStore {
	c.initOTPStores()
	return c.otpIssueStore
}

// SessionStore returns the session store.
func (c *Container) SessionStore() authUseCase.SessionStore {
	c.sessionStoreInit.Do(func() {
		c.sessionStore = authRepository.NewMemorySessionStore()
	})
	return c.sessionStore
}

// PasswordService returns the Argon2id password service.
func (c *Container) PasswordService() (authService.PasswordService, error) {
	var err error
	c.passwordServiceInit.Do(func() {
		c.passwordService, err = authService.NewPasswordService()
		if err != nil {
			c.initErrors["passwordService"] = fmt.Errorf("failed to create password service: %w", err)
		}
	})
	if storedErr, exists := c.initErrors["passwordService"]; exists {
		return nil, storedErr
	}
	return c.passwordService, nil
}

// QRChallengeService returns the QR challenge signer keyed by the active master key.
func (c *Container) QRChallengeService() (authService.QRChallengeService, error) {
	var err error
	c.qrServiceInit.Do(func() {
		c.qrService, err = c.initQRChallengeService()
		if err != nil {
			c.initErrors["qrService"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["qrService"]; exists {
		return nil, storedErr
	}
	return c.qrService, nil
}

// UserUseCase returns the user use case.
func (c *Container) UserUseCase() (authUseCase.UserUseCase, error) {
	var err error
	c.userUseCaseInit.Do(func() {
		c.userUseCase, err = c.initUserUseCase()
		if err != nil {
			c.initErrors["userUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["userUseCase"]; exists {
		return nil, storedErr
	}
	return c.userUseCase, nil
}

// OTPUseCase returns the one-time password manager.
func (c *Container) OTPUseCase() (authUseCase.OTPUseCase, error) {
	var err error
	c.otpUseCaseInit.Do(func() {
		c.otpUseCase, err = c.initOTPUseCase()
		if err != nil {
			c.initErrors["otpUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["otpUseCase"]; exists {
		return nil, storedErr
	}
	return c.otpUseCase, nil
}

// SessionUseCase returns the session manager.
func (c *Container) SessionUseCase() authUseCase.SessionUseCase {
	c.sessionUseCaseInit.Do(func() {
		c.sessionUseCase = authUseCase.NewSessionUseCase(
			c.config,
			c.SessionStore(),
			authService.NewSessionIDService(),
		)
	})
	return c.sessionUseCase
}

// AuthUseCase returns the login orchestrator.
func (c *Container) AuthUseCase() (authUseCase.AuthUseCase, error) {
	var err error
	c.authUseCaseInit.Do(func() {
		c.authUseCase, err = c.initAuthUseCase()
		if err != nil {
			c.initErrors["authUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["authUseCase"]; exists {
		return nil, storedErr
	}
	return c.authUseCase, nil
}

// AuthHandler returns the HTTP handler for the login flow.
func (c *Container) AuthHandler() (*authHTTP.AuthHandler, error) {
	authUC, err := c.AuthUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get auth use case for auth handler: %w", err)
	}

	userUC, err := c.UserUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get user use case for auth handler: %w", err)
	}

	qrService, err := c.QRChallengeService()
	if err != nil {
		return nil, fmt.Errorf("failed to get qr challenge service for auth handler: %w", err)
	}

	return authHTTP.NewAuthHandler(authUC, userUC, c.SessionUseCase(), qrService, c.Logger()), nil
}

func (c *Container) totpService() authService.TOTPService {
	return authService.NewTOTPService(c.config.OTPIssuer, c.config.OTPPeriod)
}

func (c *Container) initOTPStores() {
	c.otpStoresInit.Do(func() {
		c.otpStore = authRepository.NewMemoryOTPStore()
		c.otpIssueStore = authRepository.NewMemoryOTPIssueStore()
	})
}

// initUserRepository creates the user repository based on the database driver.
func (c *Container) initUserRepository() (authUseCase.UserRepository, error) {
	if c.InMemory() {
		return authRepository.NewMemoryUserRepository(), nil
	}

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for user repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverPostgres:
		return authRepository.NewPostgreSQLUserRepository(db), nil
	case database.DriverMySQL:
		return authRepository.NewMySQLUserRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initQRChallengeService() (authService.QRChallengeService, error) {
	masterKeyChain, err := c.MasterKeyChain()
	if err != nil {
		return nil, fmt.Errorf("failed to get master key chain for qr challenge service: %w", err)
	}

	activeKey, ok := masterKeyChain.Active()
	if !ok {
		return nil, cryptoDomain.ErrActiveMasterKeyNotFound
	}

	qrService, err := authService.NewQRChallengeService(activeKey, c.config.QRExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to create qr challenge service: %w", err)
	}
	return qrService, nil
}

// initUserUseCase creates the user use case with all its dependencies.
func (c *Container) initUserUseCase() (authUseCase.UserUseCase, error) {
	userRepository, err := c.UserRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get user repository for user use case: %w", err)
	}

	passwordService, err := c.PasswordService()
	if err != nil {
		return nil, fmt.Errorf("failed to get password service for user use case: %w", err)
	}

	masterKeyChain, err := c.MasterKeyChain()
	if err != nil {
		return nil, fmt.Errorf("failed to get master key chain for user use case: %w", err)
	}

	baseUseCase := authUseCase.NewUserUseCase(
		userRepository,
		passwordService,
		c.totpService(),
		c.KeyManager(),
		masterKeyChain,
	)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for user use case: %w", err)
		}
		return authUseCase.NewUserUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initOTPUseCase creates the OTP use case. TOTP secrets are opened through the user use case.
func (c *Container) initOTPUseCase() (authUseCase.OTPUseCase, error) {
	userUseCase, err := c.UserUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get user use case for otp use case: %w", err)
	}

	return authUseCase.NewOTPUseCase(
		c.config,
		c.OTPStore(),
		c.OTPIssueStore(),
		userUseCase,
		c.totpService(),
	), nil
}

// initAuthUseCase creates the login orchestrator with all its dependencies.
func (c *Container) initAuthUseCase() (authUseCase.AuthUseCase, error) {
	userUseCase, err := c.UserUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get user use case for auth use case: %w", err)
	}

	passwordService, err := c.PasswordService()
	if err != nil {
		return nil, fmt.Errorf("failed to get password service for auth use case: %w", err)
	}

	qrService, err := c.QRChallengeService()
	if err != nil {
		return nil, fmt.Errorf("failed to get qr challenge service for auth use case: %w", err)
	}

	otpUseCase, err := c.OTPUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get otp use case for auth use case: %w", err)
	}

	auditUseCase, err := c.AuditUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit use case for auth use case: %w", err)
	}

	baseUseCase := authUseCase.NewAuthUseCase(
		userUseCase,
		passwordService,
		qrService,
		otpUseCase,
		c.SessionUseCase(),
		auditUseCase,
		c.Logger(),
	)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for auth use case: %w", err)
		}
		return authUseCase.NewAuthUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}
