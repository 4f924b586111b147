package testutil

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestDSNs(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("TEST_POSTGRES_DSN", "")
		t.Setenv("TEST_MYSQL_DSN", "")

		assert.Equal(t, defaultPostgresTestDSN, GetPostgresTestDSN())
		assert.Equal(t, defaultMySQLTestDSN, GetMySQLTestDSN())
	})

	t.Run("environment overrides", func(t *testing.T) {
		//nolint:gosec // test credentials
		t.Setenv("TEST_POSTGRES_DSN", "postgres://ci:ci@db:5432/votes")
		t.Setenv("TEST_MYSQL_DSN", "ci:ci@tcp(db:3306)/votes")

		assert.Equal(t, "postgres://ci:ci@db:5432/votes", GetPostgresTestDSN())
		assert.Equal(t, "ci:ci@tcp(db:3306)/votes", GetMySQLTestDSN())
	})
}

func TestGetMigrationsPath(t *testing.T) {
	for _, dbType := range []string{"postgresql", "mysql"} {
		t.Run(dbType, func(t *testing.T) {
			path, err := getMigrationsPath(dbType)
			require.NoError(t, err)
			assert.Equal(t, dbType, filepath.Base(path))

			entries, err := os.ReadDir(path)
			require.NoError(t, err)
			assert.NotEmpty(t, entries)
		})
	}

	t.Run("unknown type", func(t *testing.T) {
		path, err := getMigrationsPath("sqlite")
		assert.ErrorContains(t, err, "migrations directory not found for sqlite")
		assert.Empty(t, path)
	})

	t.Run("from nested directory", func(t *testing.T) {
		nested := filepath.Join(t.TempDir(), "a", "b")
		require.NoError(t, os.MkdirAll(nested, 0o750))
		// Link the repository migrations under the temp tree so the walk has something to find.
		repoMigrations, err := getMigrationsPath("postgresql")
		require.NoError(t, err)
		require.NoError(t, os.Symlink(filepath.Dir(repoMigrations), filepath.Join(nested, "..", "migrations")))

		t.Chdir(nested)
		path, err := getMigrationsPath("postgresql")
		require.NoError(t, err)
		assert.Contains(t, path, filepath.Join("a", "migrations", "postgresql"))
	})
}

func TestRebind(t *testing.T) {
	query := "SELECT 1 FROM users WHERE id = ? AND enabled = ?"

	assert.Equal(t, "SELECT 1 FROM users WHERE id = $1 AND enabled = $2", rebind("postgres", query))
	assert.Equal(t, query, rebind("mysql", query))
}

func TestUUIDToDriverValue(t *testing.T) {
	id := uuid.Must(uuid.NewV7())

	pg, err := uuidToDriverValue(id, "postgres")
	require.NoError(t, err)
	assert.Equal(t, id, pg)

	my, err := uuidToDriverValue(id, "mysql")
	require.NoError(t, err)
	raw, ok := my.([]byte)
	require.True(t, ok)
	assert.Equal(t, id[:], raw)
}

func TestTeardownDB_Nil(t *testing.T) {
	assert.NotPanics(t, func() { TeardownDB(t, nil) })
}

// dialectCases drives the tests that need a live database.
var dialectCases = []struct {
	name   string
	driver string
	skip   func(t *testing.T)
	setup  func(t *testing.T) *sql.DB
	clean  func(t *testing.T, db *sql.DB)
}{
	{"postgres", "postgres", SkipIfNoPostgres, SetupPostgresDB, CleanupPostgresDB},
	{"mysql", "mysql", SkipIfNoMySQL, SetupMySQLDB, CleanupMySQLDB},
}

func TestSetupDB(t *testing.T) {
	for _, tc := range dialectCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.skip(t)

			db := tc.setup(t)
			defer TeardownDB(t, db)

			require.NoError(t, db.Ping())
			for _, table := range votingTables {
				assert.Zero(t, CountRows(t, db, table), table)
			}
		})
	}
}

func TestFixturesAndCleanup(t *testing.T) {
	for _, tc := range dialectCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.skip(t)

			db := tc.setup(t)
			defer TeardownDB(t, db)

			userID := CreateTestUser(t, db, tc.driver, "alice")
			CreateTestParticipation(t, db, tc.driver, "board-2026", userID)

			assert.True(t, ValidateTestUser(t, db, tc.driver, userID))
			assert.False(t, ValidateTestUser(t, db, tc.driver, uuid.Must(uuid.NewV7())))
			assert.Equal(t, 1, CountRows(t, db, "participations"))

			tc.clean(t, db)

			assert.Zero(t, CountRows(t, db, "users"))
			assert.Zero(t, CountRows(t, db, "participations"))
		})
	}
}

func TestTeardownDB_Closes(t *testing.T) {
	SkipIfNoPostgres(t)

	db := SetupPostgresDB(t)
	TeardownDB(t, db)

	assert.Error(t, db.Ping())
}
