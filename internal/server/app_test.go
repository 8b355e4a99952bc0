package server

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/worktracker/internal/logging"
	"github.com/dmitrijs2005/worktracker/internal/server/config"
	"github.com/stretchr/testify/require"
)

func sqliteConfig(name string) *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.EndpointAddrGRPC = "127.0.0.1:0"
	c.DatabaseDriver = config.DriverSQLite
	c.DatabaseDSN = "file:" + name + "?mode=memory&cache=shared"
	c.ShutdownTimeout = time.Second
	return c
}

func TestNewApp_UnsupportedDriver(t *testing.T) {
	c := sqliteConfig("unsupported")
	c.DatabaseDriver = "mysql"

	_, err := NewApp(context.Background(), c, logging.Discard())
	require.ErrorContains(t, err, "db init error")
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	app, err := NewApp(context.Background(), sqliteConfig("app_run"), logging.Discard())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("app did not stop")
	}
	require.Error(t, app.db.Ping())
}

func TestApp_RunReturnsListenError(t *testing.T) {
	c := sqliteConfig("app_bad_addr")
	c.EndpointAddrGRPC = "127.0.0.1:99999"
	app, err := NewApp(context.Background(), c, logging.Discard())
	require.NoError(t, err)

	require.Error(t, app.Run(context.Background()))
}
