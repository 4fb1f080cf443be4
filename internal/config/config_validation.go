// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"fmt"
)

// validate checks the merged server configuration before startup.
// All violations are reported together.
func (cfg *StructuredConfig) validate() error {
	var errs []error

	if cfg.App.TokenSignKey == "" || cfg.App.TokenIssuer == "" {
		errs = append(errs, fmt.Errorf("%w: token sign key and issuer are required", ErrInvalidAppConfigs))
	}

	if cfg.Storage.DB.DSN == "" {
		errs = append(errs, fmt.Errorf("%w: database DSN is required", ErrInvalidStorageConfigs))
	}

	if cfg.Server.HTTPAddress == "" {
		errs = append(errs, fmt.Errorf("%w: http address is required", ErrInvalidServerConfigs))
	}
	if cfg.Server.RequestTimeout < 0 {
		errs = append(errs, fmt.Errorf("%w: negative request timeout", ErrInvalidServerConfigs))
	}

	if cfg.Sync.RoundTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%w: round timeout must be positive", ErrInvalidSyncConfigs))
	}

	if cfg.Provider.Enabled() {
		if cfg.Provider.ClientID == "" || cfg.Provider.Secret == "" {
			errs = append(errs, fmt.Errorf("%w: client id and secret are required", ErrInvalidProviderConfigs))
		}
		if cfg.App.TokenEncryptionKey == "" {
			errs = append(errs, fmt.Errorf("%w: token encryption key is required when the provider is enabled", ErrInvalidAppConfigs))
		}
		if cfg.Provider.WindowDays <= 0 {
			errs = append(errs, fmt.Errorf("%w: window days must be positive", ErrInvalidProviderConfigs))
		}
	}

	if cfg.Workers.IngestionInterval < 0 || cfg.Workers.EventBuffer < 0 {
		errs = append(errs, fmt.Errorf("%w: negative interval or buffer", ErrInvalidWorkerConfigs))
	}

	return errors.Join(errs...)
}
