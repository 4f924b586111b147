// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	auditUseCase "github.com/allisson/votesafe/internal/audit/usecase"
	authService "github.com/allisson/votesafe/internal/auth/service"
	authUseCase "github.com/allisson/votesafe/internal/auth/usecase"
	ballotUseCase "github.com/allisson/votesafe/internal/ballot/usecase"
	"github.com/allisson/votesafe/internal/config"
	cryptoDomain "github.com/allisson/votesafe/internal/crypto/domain"
	cryptoService "github.com/allisson/votesafe/internal/crypto/service"
	cryptoUseCase "github.com/allisson/votesafe/internal/crypto/usecase"
	"github.com/allisson/votesafe/internal/database"
	"github.com/allisson/votesafe/internal/http"
	"github.com/allisson/votesafe/internal/metrics"
	"github.com/allisson/votesafe/internal/worker"
)

// ErrNoDatabase is returned by DB when the memory driver is configured.
var ErrNoDatabase = errors.New("memory driver has no database connection")

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	db              *sql.DB
	txManager       database.TxManager
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Crypto
	masterKeyChain        *cryptoDomain.MasterKeyChain
	aeadManager           cryptoService.AEADManager
	keyManager            cryptoService.KeyManager
	hashService           cryptoService.HashService
	kmsService            cryptoService.KMSService
	electionKeyRepository cryptoUseCase.ElectionKeyRepository
	voteCryptoUseCase     cryptoUseCase.VoteCryptoUseCase

	// Audit
	auditRepository auditUseCase.AuditRepository
	auditUseCase    auditUseCase.AuditUseCase

	// Auth
	userRepository  authUseCase.UserRepository
	otpStore        authUseCase.OTPStore
	otpIssueStore   authUseCase.OTPIssueStore
	sessionStore    authUseCase.SessionStore
	passwordService authService.PasswordService
	qrService       authService.QRChallengeService
	userUseCase     authUseCase.UserUseCase
	otpUseCase      authUseCase.OTPUseCase
	sessionUseCase  authUseCase.SessionUseCase
	authUseCase     authUseCase.AuthUseCase

	// Ballot
	ballotRepository        ballotUseCase.BallotRepository
	participationRepository ballotUseCase.ParticipationRepository
	ballotUseCase           ballotUseCase.BallotUseCase

	// Servers and Workers
	httpServer    *http.Server
	metricsServer *http.MetricsServer
	cleanupWorker *worker.CleanupWorker

	// Initialization flags and mutex for thread-safety
	mu                          sync.Mutex
	loggerInit                  sync.Once
	dbInit                      sync.Once
	txManagerInit               sync.Once
	metricsProviderInit         sync.Once
	businessMetricsInit         sync.Once
	masterKeyChainInit          sync.Once
	aeadManagerInit             sync.Once
	keyManagerInit              sync.Once
	hashServiceInit             sync.Once
	kmsServiceInit              sync.Once
	electionKeyRepositoryInit   sync.Once
	voteCryptoUseCaseInit       sync.Once
	auditRepositoryInit         sync.Once
	auditUseCaseInit            sync.Once
	userRepositoryInit          sync.Once
	otpStoresInit               sync.Once
	sessionStoreInit            sync.Once
	passwordServiceInit         sync.Once
	qrServiceInit               sync.Once
	userUseCaseInit             sync.Once
	otpUseCaseInit              sync.Once
	sessionUseCaseInit          sync.Once
	authUseCaseInit             sync.Once
	ballotRepositoryInit        sync.Once
	participationRepositoryInit sync.Once
	ballotUseCaseInit           sync.Once
	httpServerInit              sync.Once
	metricsServerInit           sync.Once
	cleanupWorkerInit           sync.Once
	initErrors                  map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// InMemory reports whether every store lives in process memory.
func (c *Container) InMemory() bool {
	return c.config.DBDriver == database.DriverMemory
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
// It creates and configures the database connection on first access.
func (c *Container) DB() (*sql.DB, error) {
	var err error
	c.dbInit.Do(func() {
		c.db, err = c.initDB()
		if err != nil {
			c.initErrors["db"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// TxManager returns the transaction manager. The memory driver gets a
// manager that runs the function without a transaction.
func (c *Container) TxManager() (database.TxManager, error) {
	var err error
	c.txManagerInit.Do(func() {
		c.txManager, err = c.initTxManager()
		if err != nil {
			c.initErrors["txManager"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["txManager"]; exists {
		return nil, storedErr
	}
	return c.txManager, nil
}

// MetricsProvider returns the OpenTelemetry provider, or nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	var err error
	c.metricsProviderInit.Do(func() {
		c.metricsProvider, err = c.initMetricsProvider()
		if err != nil {
			c.initErrors["metricsProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	var err error
	c.businessMetricsInit.Do(func() {
		c.businessMetrics, err = c.initBusinessMetrics()
		if err != nil {
			c.initErrors["businessMetrics"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// HTTPServer returns the API server with its router set up. ctx bounds the
// background work started by the router's middleware.
func (c *Container) HTTPServer(ctx context.Context) (*http.Server, error) {
	var err error
	c.httpServerInit.Do(func() {
		c.httpServer, err = c.initHTTPServer(ctx)
		if err != nil {
			c.initErrors["httpServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the Prometheus server, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	var err error
	c.metricsServerInit.Do(func() {
		c.metricsServer, err = c.initMetricsServer()
		if err != nil {
			c.initErrors["metricsServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// CleanupWorker returns the worker sweeping expired OTPs and sessions.
func (c *Container) CleanupWorker() (*worker.CleanupWorker, error) {
	var err error
	c.cleanupWorkerInit.Do(func() {
		c.cleanupWorker, err = c.initCleanupWorker()
		if err != nil {
			c.initErrors["cleanupWorker"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["cleanupWorker"]; exists {
		return nil, storedErr
	}
	return c.cleanupWorker, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	// Zero master key material last; nothing above needs it.
	if c.masterKeyChain != nil {
		c.masterKeyChain.Close()
	}

	return errors.Join(shutdownErrors...)
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initDB creates and configures the database connection.
func (c *Container) initDB() (*sql.DB, error) {
	if c.InMemory() {
		return nil, ErrNoDatabase
	}

	db, err := database.Connect(context.Background(), database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// initTxManager creates the transaction manager using the database connection.
func (c *Container) initTxManager() (database.TxManager, error) {
	if c.InMemory() {
		return database.NewNoopTxManager(), nil
	}

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for tx manager: %w", err)
	}
	return database.NewTxManager(db), nil
}

// initMetricsProvider creates the Prometheus-backed meter provider.
func (c *Container) initMetricsProvider() (*metrics.Provider, error) {
	if !c.config.MetricsEnabled {
		return nil, nil
	}

	provider, err := metrics.NewProvider(c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics provider: %w", err)
	}
	return provider, nil
}

// initBusinessMetrics creates business metrics, or a no-op recorder when metrics are disabled.
func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return metrics.NewNoOpBusinessMetrics(), nil
	}

	businessMetrics, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}
	return businessMetrics, nil
}

// initHTTPServer creates the API server and mounts every handler.
func (c *Container) initHTTPServer(ctx context.Context) (*http.Server, error) {
	logger := c.Logger()

	var db *sql.DB
	if !c.InMemory() {
		var err error
		db, err = c.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database for http server: %w", err)
		}
	}

	authHandler, err := c.AuthHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get auth handler for http server: %w", err)
	}

	auditHandler, err := c.AuditHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit handler for http server: %w", err)
	}

	ballotHandler, err := c.BallotHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get ballot handler for http server: %w", err)
	}

	sessionUseCase := c.SessionUseCase()

	userUseCase, err := c.UserUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get user use case for http server: %w", err)
	}

	cleanupWorker, err := c.CleanupWorker()
	if err != nil {
		return nil, fmt.Errorf("failed to get cleanup worker for http server: %w", err)
	}

	metricsProvider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	server := http.NewServer(db, c.config.ServerHost, c.config.ServerPort, logger)
	if c.InMemory() {
		server.UseInMemoryStorage()
	}
	server.SetupRouter(ctx, c.config, http.Handlers{
		Auth:    authHandler,
		Audit:   auditHandler,
		Ballot:  ballotHandler,
		Sweeper: cleanupWorker,
	}, sessionUseCase, userUseCase, metricsProvider)

	return server, nil
}

// initMetricsServer creates the metrics server when metrics are enabled.
func (c *Container) initMetricsServer() (*http.MetricsServer, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for metrics server: %w", err)
	}
	if provider == nil {
		return nil, nil
	}

	return http.NewMetricsServer(c.config.ServerHost, c.config.MetricsPort, c.Logger(), provider), nil
}

// initCleanupWorker registers the OTP and session sweeps.
func (c *Container) initCleanupWorker() (*worker.CleanupWorker, error) {
	otpUseCase, err := c.OTPUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get otp use case for cleanup worker: %w", err)
	}

	sessionUseCase := c.SessionUseCase()

	cleanupWorker := worker.NewCleanupWorker(worker.Config{Interval: c.config.CleanupInterval}, c.Logger()).
		Register("otp", otpUseCase).
		Register("session", sessionUseCase)

	return cleanupWorker, nil
}
