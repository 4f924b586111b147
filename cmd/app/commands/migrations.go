package commands

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/allisson/votesafe/internal/database"
)

// RunMigrations applies every pending migration for the configured driver.
// The memory driver has no schema and is skipped.
func RunMigrations(logger *slog.Logger, dbDriver, dbConnectionString string) error {
	if dbDriver == database.DriverMemory {
		logger.Info("memory driver configured, no migrations to run")
		return nil
	}

	logger.Info("running database migrations",
		slog.String("driver", dbDriver),
	)

	// Determine migration path based on driver
	migrationsPath := "file://migrations/postgresql"
	if dbDriver == database.DriverMySQL {
		migrationsPath = "file://migrations/mysql"
	}

	m, err := migrate.New(migrationsPath, dbConnectionString)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer closeMigrate(m, logger)

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("migrations completed successfully")
	return nil
}
