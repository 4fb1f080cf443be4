package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/mint-sync/internal/logger"
	"github.com/MKhiriev/mint-sync/models"
)

// providerLinkRepository is the PostgreSQL implementation of
// [ProviderLinkRepository] over the provider_links table.
type providerLinkRepository struct {
	*DB
	logger *logger.Logger
}

func NewProviderLinkRepository(db *DB, logger *logger.Logger) ProviderLinkRepository {
	return &providerLinkRepository{
		DB:     db,
		logger: logger,
	}
}

// CreateLink stores link and returns it with the generated id. A second link
// of the same item by the same user fails with [ErrLinkAlreadyExists].
func (p *providerLinkRepository) CreateLink(ctx context.Context, link models.ProviderLink) (models.ProviderLink, error) {
	log := logger.FromContext(ctx)

	err := p.DB.QueryRowContext(ctx, createProviderLink, link.UserID, link.ItemID, link.Institution, link.AccessToken).
		Scan(&link.ID, &link.LastIngestedAt, &link.CreatedAt)
	if isUniqueViolation(err) {
		log.Warn().Str("func", "providerLinkRepository.CreateLink").Int64("user_id", link.UserID).Str("item_id", link.ItemID).Msg("item already linked")
		return models.ProviderLink{}, ErrLinkAlreadyExists
	}
	if err != nil {
		log.Err(err).Str("func", "providerLinkRepository.CreateLink").Int64("user_id", link.UserID).Msg("failed to create provider link")
		return models.ProviderLink{}, p.wrap(ErrExecutingQuery, err)
	}

	return link, nil
}

func (p *providerLinkRepository) GetLink(ctx context.Context, userID, linkID int64) (models.ProviderLink, error) {
	log := logger.FromContext(ctx)

	link, err := scanProviderLink(p.DB.QueryRowContext(ctx, getProviderLink, linkID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.ProviderLink{}, ErrLinkNotFound
	}
	if err != nil {
		log.Err(err).Str("func", "providerLinkRepository.GetLink").Int64("user_id", userID).Int64("link_id", linkID).Msg("failed to get provider link")
		return models.ProviderLink{}, p.wrap(ErrScanningRow, err)
	}

	return link, nil
}

// ListLinks returns the links of every user. Used by the ingestion worker.
func (p *providerLinkRepository) ListLinks(ctx context.Context) ([]models.ProviderLink, error) {
	log := logger.FromContext(ctx)

	rows, err := p.DB.QueryContext(ctx, listProviderLinks)
	if err != nil {
		log.Err(err).Str("func", "providerLinkRepository.ListLinks").Msg("failed to execute query for provider links")
		return nil, p.wrap(ErrExecutingQuery, err)
	}
	defer rows.Close()

	links := make([]models.ProviderLink, 0)
	for rows.Next() {
		link, scanErr := scanProviderLink(rows)
		if scanErr != nil {
			log.Err(scanErr).Str("func", "providerLinkRepository.ListLinks").Msg("failed to scan provider link row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		links = append(links, link)
	}

	if err = rows.Err(); err != nil {
		log.Err(err).Str("func", "providerLinkRepository.ListLinks").Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return links, nil
}

func (p *providerLinkRepository) UpdateLinkCursor(ctx context.Context, linkID int64, cursor int64) error {
	log := logger.FromContext(ctx)

	result, err := p.DB.ExecContext(ctx, updateProviderLinkCursor, linkID, cursor)
	if err != nil {
		log.Err(err).Str("func", "providerLinkRepository.UpdateLinkCursor").Int64("link_id", linkID).Msg("failed to update link cursor")
		return p.wrap(ErrExecutingStatement, err)
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrLinkNotFound
	}

	return nil
}

func scanProviderLink(row rowScanner) (models.ProviderLink, error) {
	var link models.ProviderLink
	err := row.Scan(
		&link.ID,
		&link.UserID,
		&link.ItemID,
		&link.Institution,
		&link.AccessToken,
		&link.LastIngestedAt,
		&link.CreatedAt,
	)
	return link, err
}

// appInfoRepository answers health checks.
type appInfoRepository struct {
	*DB
}

func NewAppInfoRepository(db *DB) AppInfoRepository {
	return &appInfoRepository{DB: db}
}

func (a *appInfoRepository) Ping(ctx context.Context) error {
	if _, err := a.DB.ExecContext(ctx, pingQuery); err != nil {
		return a.wrap(ErrExecutingQuery, err)
	}
	return nil
}
