package service

import (
	"fmt"

	"github.com/MKhiriev/mint-sync/internal/adapter"
	"github.com/MKhiriev/mint-sync/internal/config"
	"github.com/MKhiriev/mint-sync/internal/crypto"
	"github.com/MKhiriev/mint-sync/internal/events"
	"github.com/MKhiriev/mint-sync/internal/logger"
	"github.com/MKhiriev/mint-sync/internal/store"
	"github.com/MKhiriev/mint-sync/internal/validators"
	"github.com/MKhiriev/mint-sync/models"
)

type Services struct {
	SyncService      SyncService
	ConflictService  ConflictService
	EntityService    EntityService
	IngestionService IngestionService
	AuthService      AuthService
	AppInfoService   AppInfoService
}

// Dependencies are the collaborators built outside the service layer.
// Provider and Cipher may be nil when the aggregator is not configured.
type Dependencies struct {
	Storages  *store.Storages
	Provider  adapter.ProviderClient
	Cipher    crypto.TokenCipher
	Sink      events.Sink
	BuildInfo models.AppBuildInfo
}

func NewServices(deps Dependencies, cfg config.StructuredConfig, logger *logger.Logger) (*Services, error) {
	validator := validators.NewSyncValidator()
	locks := NewUserLocks()

	appInfoService, err := NewAppInfoService(cfg.App, deps.BuildInfo, deps.Storages.AppInfoRepository, logger)
	if err != nil {
		return nil, fmt.Errorf("error creating app info service: %w", err)
	}

	syncService := NewSyncService(deps.Storages.ChangeStorage, validator, locks, deps.Sink, cfg.Sync, logger)

	return &Services{
		SyncService:     syncService,
		ConflictService: NewConflictService(deps.Storages.ChangeStorage, validator, locks, deps.Sink, logger),
		EntityService:   NewEntityService(deps.Storages.ChangeStorage, validator, logger),
		IngestionService: NewIngestionService(
			deps.Provider,
			deps.Storages.ProviderLinkRepository,
			deps.Storages.ChangeStorage,
			syncService,
			deps.Cipher,
			validator,
			deps.Sink,
			cfg.Provider,
			logger,
		),
		AuthService:    NewAuthService(cfg.App, logger),
		AppInfoService: appInfoService,
	}, nil
}
