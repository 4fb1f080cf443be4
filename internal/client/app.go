package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/mint-sync/internal/adapter"
	"github.com/MKhiriev/mint-sync/internal/config"
	"github.com/MKhiriev/mint-sync/internal/logger"
	"github.com/MKhiriev/mint-sync/internal/service"
	"github.com/MKhiriev/mint-sync/internal/store"
)

// App owns the resources of one client process.
type App struct {
	Services *service.ClientServices
	Adapter  adapter.ServerAdapter

	cfg      *config.ClientConfig
	storages *store.ClientStorages
	logger   *logger.Logger
}

// NewApp opens the local store and builds the client services.
func NewApp(ctx context.Context, cfg *config.ClientConfig, clientVersion string, logger *logger.Logger) (*App, error) {
	serverAdapter, err := adapter.NewHTTPServerAdapter(*cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("create server adapter: %w", err)
	}

	storages, err := store.NewClientStorages(ctx, cfg.DBPath, logger)
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}

	return &App{
		Services: service.NewClientServices(storages.LocalRepository, serverAdapter, clientVersion, logger),
		Adapter:  serverAdapter,
		cfg:      cfg,
		storages: storages,
		logger:   logger,
	}, nil
}

// RunDaemon syncs every entity type once, then keeps syncing in the
// background until ctx is done.
func (a *App) RunDaemon(ctx context.Context) error {
	ctx = a.logger.WithContext(ctx)
	if _, err := a.Services.SyncService.SyncAll(ctx); err != nil {
		if errors.Is(err, service.ErrTokenIsExpiredOrInvalid) {
			return err
		}
		a.logger.Warn().Err(err).Msg("initial sync finished with errors")
	}

	a.Services.SyncJob.Start(ctx, a.cfg.SyncInterval)
	defer a.Services.SyncJob.Stop()

	<-ctx.Done()
	return nil
}

func (a *App) Close() error {
	return a.storages.Close()
}
