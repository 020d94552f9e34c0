package database

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/clinical-scoring-mcp-server/internal/audit"
	"github.com/clinical-scoring-mcp-server/internal/content"
	"github.com/clinical-scoring-mcp-server/internal/domain"
)

func TestConfigFrom(t *testing.T) {
	cfg := ConfigFrom(domain.DatabaseConfig{
		Host:            "db",
		Port:            5433,
		Database:        "scores",
		Username:        "u",
		Password:        "p",
		SSLMode:         "require",
		MaxOpenConns:    20,
		MaxIdleConns:    -1,
		ConnMaxLifetime: time.Minute,
	})

	assert.Equal(t, "db", cfg.Host)
	assert.Equal(t, 5433, cfg.Port)
	assert.Equal(t, int32(20), cfg.MaxConns)
	assert.Equal(t, int32(0), cfg.MinConns)
	assert.Equal(t, time.Minute, cfg.MaxConnLife)
	assert.Equal(t, "require", cfg.SSLMode)
}

func TestNewConnection_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	_, err := NewConnection(ctx, Config{Host: "127.0.0.1", Port: 1, Database: "x", Username: "x", SSLMode: "disable"}, logger)
	assert.Error(t, err)
}

func TestNewMigrationRunner_BadURL(t *testing.T) {
	_, err := NewMigrationRunner("not-a-url", "", logrus.New())
	assert.Error(t, err)
}

func TestDatabaseIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)
	defer func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate PostgreSQL container: %v", err)
		}
	}()

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	port, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)
	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	runner, err := NewMigrationRunner(dsn, "", logger)
	require.NoError(t, err)
	require.NoError(t, runner.Up(ctx))
	version, dirty, err := runner.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)
	assert.False(t, dirty)
	// A second run is a no-op.
	require.NoError(t, runner.Up(ctx))
	require.NoError(t, runner.Close())

	db, err := NewConnection(ctx, Config{
		Host:        host,
		Port:        port.Int(),
		Database:    "testdb",
		Username:    "testuser",
		Password:    "testpass",
		MaxConns:    10,
		MinConns:    2,
		MaxConnLife: time.Hour,
		MaxConnIdle: 30 * time.Minute,
		SSLMode:     "disable",
	}, logger)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Health(ctx))
	assert.Positive(t, db.Stats().TotalConns())

	t.Run("trial repository", func(t *testing.T) {
		repo := content.NewPostgresRepository(db.Pool, logger)
		catalog, err := content.DefaultCatalog()
		require.NoError(t, err)
		records, err := catalog.List(ctx)
		require.NoError(t, err)
		require.NoError(t, repo.Seed(ctx, records))

		got, err := repo.Get(ctx, "defuse-3")
		require.NoError(t, err)
		assert.Equal(t, "45%", got.TreatmentRate)

		all, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, all, len(records))

		_, err = repo.Get(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("audit store", func(t *testing.T) {
		store, err := audit.NewPostgresStoreFromURL(dsn)
		require.NoError(t, err)
		defer store.Close()

		rec, err := audit.NewRecord(audit.KindEvaluation, "gcs", map[string]string{"eye": "4"}, map[string]int{"score": 15}, "GCS: 15 points", "corr")
		require.NoError(t, err)
		require.NoError(t, store.Append(ctx, rec))

		got, err := store.Get(ctx, rec.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.JSONEq(t, `{"eye":"4"}`, string(got.Input))

		n, err := store.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	runner, err = NewMigrationRunner(dsn, "", logger)
	require.NoError(t, err)
	defer runner.Close()
	require.NoError(t, runner.Down(ctx))
	version, _, err = runner.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
}
