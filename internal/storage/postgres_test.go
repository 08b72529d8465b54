package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startPostgres(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	ctx := context.Background()

	var container *postgres.PostgresContainer
	var err error
	func() {
		// testcontainers panics when no docker daemon is reachable
		defer func() {
			if r := recover(); r != nil {
				t.Skipf("docker unavailable: %v", r)
			}
		}()
		container, err = postgres.Run(ctx,
			"postgres:15-alpine",
			postgres.WithDatabase("forkify"),
			postgres.WithUsername("forkify"),
			postgres.WithPassword("forkify"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(30*time.Second)),
		)
	}()
	if err != nil {
		t.Skipf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return connStr
}

func TestPostgresStore(t *testing.T) {
	connStr := startPostgres(t)

	store, err := NewPostgresStore(connStr)
	require.NoError(t, err)
	defer store.Close()

	exerciseStore(t, store)

	// bootstrapping twice must not fail
	again, err := NewPostgresStore(connStr)
	require.NoError(t, err)
	v, ok, err := again.Get(context.Background(), "likes")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "[]", v)
	require.NoError(t, again.Close())
}
