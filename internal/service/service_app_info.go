package service

import (
	"context"

	"github.com/MKhiriev/mint-sync/internal/config"
	"github.com/MKhiriev/mint-sync/internal/logger"
	"github.com/MKhiriev/mint-sync/internal/store"
	"github.com/MKhiriev/mint-sync/models"
)

type appInfoService struct {
	appVersion string
	buildInfo  models.AppBuildInfo
	repository store.AppInfoRepository

	logger *logger.Logger
}

func NewAppInfoService(cfg config.App, buildInfo models.AppBuildInfo, repository store.AppInfoRepository, logger *logger.Logger) (AppInfoService, error) {
	if cfg.Version == "" {
		return nil, ErrVersionIsNotSpecified
	}

	return &appInfoService{
		appVersion: cfg.Version,
		buildInfo:  buildInfo,
		repository: repository,
		logger:     logger,
	}, nil
}

func (s *appInfoService) GetAppVersion(ctx context.Context) models.VersionResponse {
	version := s.buildInfo.Version()
	version.Version = s.appVersion
	return version
}

// Health pings the authoritative store. A service without a repository is
// always healthy.
func (s *appInfoService) Health(ctx context.Context) error {
	if s.repository == nil {
		return nil
	}
	return s.repository.Ping(ctx)
}
