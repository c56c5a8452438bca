//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/turtacn/refsign-check/internal/config"
	"github.com/turtacn/refsign-check/internal/domain/reference"
	"github.com/turtacn/refsign-check/internal/infrastructure/database/postgres"
	"github.com/turtacn/refsign-check/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/refsign-check/pkg/errors"
)

// startPostgres launches a PostgreSQL 16 container and returns a migrated
// connection.
func startPostgres(t *testing.T) *postgres.Connection {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "refcheck_test",
		},
		WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	var conn *postgres.Connection
	// the port opens before the server accepts logins
	require.Eventually(t, func() bool {
		conn, err = postgres.NewConnection(ctx, config.PostgresConfig{
			Host:     host,
			Port:     port.Int(),
			Database: "refcheck_test",
			Username: "test",
			Password: "test",
			SSLMode:  "disable",
		}, logging.NewNopLogger())
		return err == nil
	}, 30*time.Second, 500*time.Millisecond)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, conn.RunMigrations(ctx))
	return conn
}

func TestOverrideStore_Postgres(t *testing.T) {
	conn := startPostgres(t)
	ctx := context.Background()
	store := postgres.NewOverrideStore(conn, logging.NewNopLogger(), time.Hour)

	_, err := store.Load(ctx, "s1")
	assert.True(t, errors.IsNotFound(err))

	want := reference.Overrides{
		Language:         "de",
		ManualMultiWord:  []string{"lager"},
		ClearedErrors:    []string{"10"},
		ClearedPositions: []reference.Span{{Start: 4, End: 12}},
	}
	require.NoError(t, store.Save(ctx, "s1", want))
	got, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// upsert replaces the document
	want.ClearedErrors = nil
	require.NoError(t, store.Save(ctx, "s1", want))
	got, err = store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, got.ClearedErrors)

	require.NoError(t, store.Delete(ctx, "s1"))
	require.NoError(t, store.Delete(ctx, "s1"))
	_, err = store.Load(ctx, "s1")
	assert.True(t, errors.IsNotFound(err))
}

func TestOverrideStore_Postgres_Expiry(t *testing.T) {
	conn := startPostgres(t)
	ctx := context.Background()
	store := postgres.NewOverrideStore(conn, logging.NewNopLogger(), time.Millisecond)

	require.NoError(t, store.Save(ctx, "short", reference.Overrides{ClearedErrors: []string{"5"}}))
	time.Sleep(20 * time.Millisecond)

	_, err := store.Load(ctx, "short")
	assert.True(t, errors.IsNotFound(err))

	n, err := store.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestMigrations_Postgres(t *testing.T) {
	conn := startPostgres(t)
	ctx := context.Background()

	version, dirty, err := conn.MigrationStatus(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, version)
	assert.False(t, dirty)

	// running again is a no-op
	require.NoError(t, conn.RunMigrations(ctx))

	require.NoError(t, conn.RollbackMigration(ctx, 1))
	version, _, err = conn.MigrationStatus(ctx)
	require.NoError(t, err)
	assert.Zero(t, version)

	require.NoError(t, conn.RunMigrations(ctx))
	assert.NoError(t, conn.HealthCheck(ctx))
}

//Personal.AI order the ending
