package config

import "errors"

// Validation errors returned when a required configuration group is
// incomplete or invalid.
var (
	ErrInvalidAppConfigs      = errors.New("invalid app configuration")
	ErrInvalidStorageConfigs  = errors.New("invalid storage configuration")
	ErrInvalidServerConfigs   = errors.New("invalid server configuration")
	ErrInvalidSyncConfigs     = errors.New("invalid sync configuration")
	ErrInvalidProviderConfigs = errors.New("invalid provider configuration")
	ErrInvalidWorkerConfigs   = errors.New("invalid worker configuration")
	ErrInvalidClientConfigs   = errors.New("invalid client configuration")
)
