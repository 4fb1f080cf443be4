// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/mint-sync/internal/logger"
)

// Ingester is the part of the ingestion service the worker drives.
type Ingester interface {
	IngestAll(ctx context.Context) error
}

type ingestionWorker struct {
	ingester Ingester
	interval time.Duration
	logger   *logger.Logger
}

// NewIngestionWorker refreshes every provider link each interval.
// The first pass starts one interval after Run.
func NewIngestionWorker(ingester Ingester, interval time.Duration, logger *logger.Logger) Worker {
	return &ingestionWorker{ingester: ingester, interval: interval, logger: logger}
}

func (w *ingestionWorker) Run(ctx context.Context) {
	if w.interval <= 0 {
		w.logger.Info().Msg("provider ingestion worker disabled")
		return
	}

	ctx = w.logger.WithContext(ctx)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			started := time.Now()
			if err := w.ingester.IngestAll(ctx); err != nil && ctx.Err() == nil {
				w.logger.Err(err).Str("func", "ingestionWorker.Run").Msg("provider ingestion pass failed")
				continue
			}
			w.logger.Debug().Dur("duration", time.Since(started)).Msg("provider ingestion pass finished")
		}
	}
}
