package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/mint-sync/internal/config"
	"github.com/MKhiriev/mint-sync/internal/handler"
	"github.com/MKhiriev/mint-sync/internal/logger"
)

const shutdownTimeout = 15 * time.Second

type server struct {
	transports []transport
	logger     *logger.Logger
}

func NewServer(handlers *handler.Handlers, cfg config.Server, logger *logger.Logger) (Server, error) {
	logger.Info().Msg("creating new server...")
	servers := &server{logger: logger}

	if cfg.HTTPAddress != "" {
		if handlers.HTTP == nil {
			return nil, fmt.Errorf("%w: http", errMissingHandler)
		}
		servers.transports = append(servers.transports, newHTTPServer(handlers.HTTP.Init(), cfg))
	}
	if cfg.GRPCAddress != "" {
		if handlers.GRPC == nil {
			return nil, fmt.Errorf("%w: grpc", errMissingHandler)
		}
		servers.transports = append(servers.transports, newGRPCServer(handlers.GRPC, cfg))
	}

	if len(servers.transports) == 0 {
		return nil, errNoServersAreCreated
	}

	return servers, nil
}

func (s *server) Run(ctx context.Context) error {
	failed := make(chan error, len(s.transports))

	// launch all created servers
	for _, t := range s.transports {
		s.logger.Info().Str("transport", t.Name()).Msg("launching server")
		go func() {
			if err := t.RunServer(); err != nil {
				failed <- fmt.Errorf("%s server: %w", t.Name(), err)
			}
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-failed:
		s.logger.Err(runErr).Msg("server stopped unexpectedly")
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	errs := []error{runErr}
	for _, t := range s.transports {
		if err := t.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("%s shutdown: %w", t.Name(), err))
		}
	}

	s.logger.Info().Msg("server Shutdown gracefully")
	return errors.Join(errs...)
}
