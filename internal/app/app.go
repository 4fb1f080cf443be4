// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app assembles the sync server from its configuration: storages,
// provider client, event sinks, services, transports and workers.
package app

import (
	"context"
	"fmt"

	"github.com/MKhiriev/mint-sync/internal/adapter"
	"github.com/MKhiriev/mint-sync/internal/config"
	"github.com/MKhiriev/mint-sync/internal/crypto"
	"github.com/MKhiriev/mint-sync/internal/events"
	"github.com/MKhiriev/mint-sync/internal/handler"
	"github.com/MKhiriev/mint-sync/internal/logger"
	"github.com/MKhiriev/mint-sync/internal/server"
	"github.com/MKhiriev/mint-sync/internal/service"
	"github.com/MKhiriev/mint-sync/internal/store"
	"github.com/MKhiriev/mint-sync/internal/workers"
	"github.com/MKhiriev/mint-sync/models"
)

// Server is a fully wired sync server.
type Server struct {
	server   server.Server
	workers  *workers.Workers
	storages *store.Storages
	logger   *logger.Logger
}

// NewServer connects to the database and builds every component.
func NewServer(ctx context.Context, cfg *config.StructuredConfig, buildInfo models.AppBuildInfo, logger *logger.Logger) (*Server, error) {
	storages, err := store.NewStorages(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("error creating storages: %w", err)
	}

	s, err := newServer(storages, cfg, buildInfo, logger)
	if err != nil {
		_ = storages.Close()
		return nil, err
	}
	return s, nil
}

func newServer(storages *store.Storages, cfg *config.StructuredConfig, buildInfo models.AppBuildInfo, logger *logger.Logger) (*Server, error) {
	provider, cipher, err := newProvider(*cfg, logger)
	if err != nil {
		return nil, err
	}

	asyncSink := events.NewAsyncSink(events.NewLogSink(logger), cfg.Workers.EventBuffer, logger)

	services, err := service.NewServices(service.Dependencies{
		Storages:  storages,
		Provider:  provider,
		Cipher:    cipher,
		Sink:      asyncSink,
		BuildInfo: buildInfo,
	}, *cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("error creating services: %w", err)
	}

	handlers, err := handler.NewHandlers(services, cfg.Server, logger)
	if err != nil {
		return nil, fmt.Errorf("error creating handlers: %w", err)
	}

	srv, err := server.NewServer(handlers, cfg.Server, logger)
	if err != nil {
		return nil, fmt.Errorf("error creating server: %w", err)
	}

	background := workers.NewWorkers(asyncSink)
	if provider != nil {
		background.Add(workers.NewIngestionWorker(services.IngestionService, cfg.Workers.IngestionInterval, logger))
	}

	return &Server{
		server:   srv,
		workers:  background,
		storages: storages,
		logger:   logger,
	}, nil
}

// newProvider returns nil clients when the aggregator is not configured.
func newProvider(cfg config.StructuredConfig, logger *logger.Logger) (adapter.ProviderClient, crypto.TokenCipher, error) {
	if !cfg.Provider.Enabled() {
		logger.Info().Msg("provider integration disabled")
		return nil, nil, nil
	}

	provider, err := adapter.NewPlaidClient(cfg.Provider, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("error creating provider client: %w", err)
	}

	cipher, err := crypto.NewTokenCipher(cfg.App.TokenEncryptionKey)
	if err != nil {
		return nil, nil, fmt.Errorf("error creating token cipher: %w", err)
	}

	return provider, cipher, nil
}

// Run serves until ctx is done. Workers drain after the transports stop so
// events of the last rounds are still written.
func (s *Server) Run(ctx context.Context) error {
	ctx = s.logger.WithContext(ctx)
	workersCtx, stopWorkers := context.WithCancel(context.WithoutCancel(ctx))
	workersDone := make(chan struct{})
	go func() {
		s.workers.Run(workersCtx)
		close(workersDone)
	}()

	err := s.server.Run(ctx)

	stopWorkers()
	<-workersDone

	if closeErr := s.storages.Close(); closeErr != nil {
		s.logger.Err(closeErr).Msg("error closing storages")
	}

	return err
}
