package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/mint-sync/internal/config"
	"github.com/MKhiriev/mint-sync/internal/logger"
)

// Storages groups the server-side repositories.
type Storages struct {
	ChangeStorage          ChangeStorage
	ProviderLinkRepository ProviderLinkRepository
	AppInfoRepository      AppInfoRepository

	db *DB
}

// NewStorages connects to PostgreSQL, applies migrations and wires the
// repositories.
func NewStorages(ctx context.Context, cfg config.Storage, logger *logger.Logger) (*Storages, error) {
	logger.Info().Msg("creating new storages...")

	db, err := NewConnectPostgres(ctx, cfg.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("postgres connection error: %w", err)
	}

	if err = db.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return newStoragesFromDB(db, logger), nil
}

func newStoragesFromDB(db *DB, logger *logger.Logger) *Storages {
	return &Storages{
		ChangeStorage:          NewChangeStorage(db, logger),
		ProviderLinkRepository: NewProviderLinkRepository(db, logger),
		AppInfoRepository:      NewAppInfoRepository(db),
		db:                     db,
	}
}

func (s *Storages) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// ClientStorages groups the client-side repositories.
type ClientStorages struct {
	LocalRepository LocalRepository

	db *DB
}

// NewClientStorages opens the SQLite file at path, creating it if needed,
// and applies migrations. Returns an error if the database cannot be opened
// or migrated.
func NewClientStorages(ctx context.Context, path string, logger *logger.Logger) (*ClientStorages, error) {
	logger.Info().Msg("creating new client storages...")

	db, err := NewConnectSQLite(ctx, path, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err = db.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &ClientStorages{
		LocalRepository: NewLocalRepository(db, logger),
		db:              db,
	}, nil
}

func (s *ClientStorages) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
