package postgres_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/duelcore/internal/config"
	"github.com/cory-johannsen/duelcore/internal/server"
	"github.com/cory-johannsen/duelcore/internal/storage/postgres"
	"github.com/cory-johannsen/duelcore/internal/testutil"
)

var _ server.Service = (*postgres.Pool)(nil)

// closedPort returns a local port with nothing listening on it.
func closedPort(t *testing.T) int {
	t.Helper()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := lis.Addr().(*net.TCPAddr).Port
	require.NoError(t, lis.Close())
	return port
}

func TestConnect_UnreachableDatabase(t *testing.T) {
	cfg := config.DatabaseConfig{
		Host: "127.0.0.1", Port: closedPort(t), User: "mud", Password: "mud", Name: "mud",
		SSLMode: "disable", MaxConns: 1, MinConns: 0,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := postgres.Connect(ctx, cfg, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pinging database")
}

func TestPool_HealthServiceRunsUntilStopped(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}
	pc := testutil.NewPostgresContainer(t)
	cfg := pc.Config
	cfg.HealthInterval = 10 * time.Millisecond

	pool, err := postgres.Connect(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	assert.True(t, pool.Healthy())

	done := make(chan error, 1)
	go func() { done <- pool.Start() }()
	time.Sleep(50 * time.Millisecond)
	assert.True(t, pool.Healthy())

	pool.Stop()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after Stop")
	}
	assert.False(t, pool.Healthy())
	assert.Error(t, pool.Ping(context.Background()))
	assert.NotPanics(t, pool.Stop)
}

func TestPool_ZeroIntervalOnlyWaitsForStop(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}
	pc := testutil.NewPostgresContainer(t)
	cfg := pc.Config
	cfg.HealthInterval = 0

	pool, err := postgres.Connect(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- pool.Start() }()
	pool.Stop()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after Stop")
	}
}
