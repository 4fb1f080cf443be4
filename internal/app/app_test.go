package app

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/MKhiriev/mint-sync/internal/adapter"
	"github.com/MKhiriev/mint-sync/internal/config"
	"github.com/MKhiriev/mint-sync/internal/logger"
	"github.com/MKhiriev/mint-sync/internal/store"
	"github.com/MKhiriev/mint-sync/internal/workers"
	"github.com/MKhiriev/mint-sync/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var buildInfo = models.NewAppBuildInfo("1.0.0", "2026-10-01", "abc")

func testConfig() *config.StructuredConfig {
	cfg := config.Defaults()
	cfg.Server.HTTPAddress = "127.0.0.1:0"
	return cfg
}

func TestNewServer_ProviderDisabled(t *testing.T) {
	s, err := newServer(&store.Storages{}, testConfig(), buildInfo, logger.Nop())

	require.NoError(t, err)
	// only the event dispatcher runs
	assert.NotNil(t, s.workers)
}

func TestNewServer_InvalidProviderAddress(t *testing.T) {
	cfg := testConfig()
	cfg.Provider.BaseURL = "http://"
	cfg.App.TokenEncryptionKey = "passphrase"

	_, err := newServer(&store.Storages{}, cfg, buildInfo, logger.Nop())
	assert.ErrorIs(t, err, adapter.ErrInvalidAddress)
}

func TestNewServer_MissingVersion(t *testing.T) {
	cfg := testConfig()
	cfg.App.Version = ""

	_, err := newServer(&store.Storages{}, cfg, buildInfo, logger.Nop())
	assert.Error(t, err)
}

func TestNewProvider_Enabled(t *testing.T) {
	cfg := testConfig()
	cfg.Provider.BaseURL = "https://sandbox.plaid.com"
	cfg.App.TokenEncryptionKey = "passphrase"

	provider, cipher, err := newProvider(*cfg, logger.Nop())

	require.NoError(t, err)
	assert.NotNil(t, provider)
	require.NotNil(t, cipher)

	sealed, err := cipher.Seal("access-sandbox-1", "item-1")
	require.NoError(t, err)
	opened, err := cipher.Open(sealed, "item-1")
	require.NoError(t, err)
	assert.Equal(t, "access-sandbox-1", opened)
}

func TestServer_RunStopsOnCancel(t *testing.T) {
	s, err := newServer(&store.Storages{}, testConfig(), buildInfo, logger.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

type stubTransport struct{}

func (stubTransport) Run(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

func TestServer_RunGivesWorkersALogger(t *testing.T) {
	var buf bytes.Buffer
	logged := make(chan struct{})
	worker := workers.WorkerFunc(func(ctx context.Context) {
		logger.FromContext(ctx).Info().Msg("worker started")
		close(logged)
		<-ctx.Done()
	})

	s := &Server{
		server:   stubTransport{},
		workers:  workers.NewWorkers(worker),
		storages: &store.Storages{},
		logger:   &logger.Logger{Logger: zerolog.New(&buf)},
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	select {
	case <-logged:
	case <-time.After(time.Second):
		t.Fatal("worker did not start")
	}
	cancel()
	require.NoError(t, <-done)

	assert.Contains(t, buf.String(), "worker started")
}
