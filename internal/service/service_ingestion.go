// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"time"

	"github.com/MKhiriev/mint-sync/internal/adapter"
	"github.com/MKhiriev/mint-sync/internal/config"
	"github.com/MKhiriev/mint-sync/internal/crypto"
	"github.com/MKhiriev/mint-sync/internal/events"
	"github.com/MKhiriev/mint-sync/internal/logger"
	"github.com/MKhiriev/mint-sync/internal/store"
	"github.com/MKhiriev/mint-sync/internal/utils"
	"github.com/MKhiriev/mint-sync/internal/validators"
	"github.com/MKhiriev/mint-sync/models"
)

const providerDevicePrefix = "provider:"

// ingestionService turns aggregator snapshots into provider-origin changes
// and pushes them through the regular sync pipeline.
type ingestionService struct {
	provider  adapter.ProviderClient
	links     store.ProviderLinkRepository
	changes   store.ChangeStorage
	syncer    SyncService
	cipher    crypto.TokenCipher
	validator validators.Validator
	sink      events.Sink

	ids        *utils.UUIDGenerator
	now        func() time.Time
	windowDays int

	logger *logger.Logger
}

// NewIngestionService wires the ingestion adapter. A nil provider keeps the
// service usable for everything but Link and Ingest, which return
// [ErrProviderDisabled].
func NewIngestionService(
	provider adapter.ProviderClient,
	links store.ProviderLinkRepository,
	changes store.ChangeStorage,
	syncer SyncService,
	cipher crypto.TokenCipher,
	validator validators.Validator,
	sink events.Sink,
	cfg config.Provider,
	logger *logger.Logger,
) IngestionService {
	if sink == nil {
		sink = events.Nop{}
	}

	return &ingestionService{
		provider:   provider,
		links:      links,
		changes:    changes,
		syncer:     syncer,
		cipher:     cipher,
		validator:  validator,
		sink:       sink,
		ids:        utils.NewUUIDGenerator(),
		now:        time.Now,
		windowDays: cfg.WindowDays,
		logger:     logger,
	}
}

func (s *ingestionService) Link(ctx context.Context, userID int64, req models.LinkRequest) (models.ProviderLink, error) {
	log := logger.FromContext(ctx).With().
		Str("func", "ingestionService.Link").
		Int64("user_id", userID).
		Logger()

	if err := s.validator.Validate(ctx, req); err != nil {
		return models.ProviderLink{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if s.provider == nil || s.cipher == nil {
		return models.ProviderLink{}, ErrProviderDisabled
	}

	item, err := s.provider.ExchangePublicToken(ctx, req.PublicToken)
	if err != nil {
		log.Err(err).Msg("public token exchange failed")
		return models.ProviderLink{}, fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
	}

	sealed, err := s.cipher.Seal(item.AccessToken, item.ItemID)
	if err != nil {
		log.Err(err).Msg("failed to seal access token")
		return models.ProviderLink{}, fmt.Errorf("error sealing access token: %w", err)
	}

	link, err := s.links.CreateLink(ctx, models.ProviderLink{
		UserID:      userID,
		ItemID:      item.ItemID,
		Institution: req.Institution,
		AccessToken: sealed,
	})
	if errors.Is(err, store.ErrLinkAlreadyExists) {
		return models.ProviderLink{}, ErrLinkExists
	}
	if err != nil {
		log.Err(err).Str("item_id", item.ItemID).Msg("failed to save provider link")
		return models.ProviderLink{}, wrapStoreError(err)
	}

	log.Info().Int64("link_id", link.ID).Str("item_id", link.ItemID).Msg("provider item linked")
	link.AccessToken = ""
	return link, nil
}

func (s *ingestionService) Ingest(ctx context.Context, userID, linkID int64) (models.IngestionReport, error) {
	if s.provider == nil || s.cipher == nil {
		return models.IngestionReport{}, ErrProviderDisabled
	}

	link, err := s.links.GetLink(ctx, userID, linkID)
	if errors.Is(err, store.ErrLinkNotFound) {
		return models.IngestionReport{}, ErrLinkNotFound
	}
	if err != nil {
		return models.IngestionReport{}, wrapStoreError(err)
	}

	return s.ingestLink(ctx, link)
}

// IngestAll runs every stored link. A failing link does not stop the rest.
func (s *ingestionService) IngestAll(ctx context.Context) error {
	if s.provider == nil || s.cipher == nil {
		return ErrProviderDisabled
	}

	log := logger.FromContext(ctx).With().Str("func", "ingestionService.IngestAll").Logger()

	links, err := s.links.ListLinks(ctx)
	if err != nil {
		log.Err(err).Msg("failed to list provider links")
		return wrapStoreError(err)
	}

	var errs []error
	for _, link := range links {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}

		if _, err = s.ingestLink(ctx, link); err != nil {
			log.Err(err).Int64("link_id", link.ID).Int64("user_id", link.UserID).Msg("link ingestion failed")
			errs = append(errs, fmt.Errorf("link %d: %w", link.ID, err))
		}
	}

	return errors.Join(errs...)
}

// ingestLink fetches the whole snapshot before writing anything, so an
// upstream failure leaves the store as it was.
func (s *ingestionService) ingestLink(ctx context.Context, link models.ProviderLink) (report models.IngestionReport, err error) {
	log := logger.FromContext(ctx).With().
		Str("func", "ingestionService.ingestLink").
		Int64("user_id", link.UserID).
		Int64("link_id", link.ID).
		Str("item_id", link.ItemID).
		Logger()

	started := s.now()
	event := events.Event{
		UserID:   link.UserID,
		DeviceID: providerDevicePrefix + link.ItemID,
		Origin:   models.OriginProvider,
		LinkID:   link.ID,
	}
	s.emit(ctx, event, events.KindIngestionStarted, started)

	defer func() {
		event.Duration = s.now().Sub(started)
		if err != nil {
			event.Err = err
			s.emit(ctx, event, events.KindIngestionFailed, s.now())
			return
		}
		event.Submitted = report.Submitted
		event.Conflicts = report.Conflicts
		event.Cursor = report.Cursor
		s.emit(ctx, event, events.KindIngestionSucceeded, s.now())
	}()

	accessToken, err := s.cipher.Open(link.AccessToken, link.ItemID)
	if err != nil {
		log.Err(err).Msg("failed to open access token")
		return models.IngestionReport{}, fmt.Errorf("error opening access token: %w", err)
	}

	snapshot, err := s.fetch(ctx, accessToken)
	if err != nil {
		log.Err(err).Msg("failed to fetch provider snapshot")
		return models.IngestionReport{}, fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
	}

	report = models.IngestionReport{
		LinkID:  link.ID,
		ItemID:  link.ItemID,
		Fetched: len(snapshot.Accounts) + len(snapshot.Transactions),
		Cursor:  link.LastIngestedAt,
	}

	ts := s.now().UnixMilli()
	deviceID := providerDevicePrefix + link.ItemID

	accounts, err := normalizeAccounts(snapshot.Accounts)
	if err != nil {
		return models.IngestionReport{}, err
	}
	transactions, err := normalizeTransactions(snapshot.Transactions)
	if err != nil {
		return models.IngestionReport{}, err
	}

	batches := []struct {
		entityType models.EntityType
		records    []normalizedRecord
	}{
		{entityType: models.EntityAccount, records: accounts},
		{entityType: models.EntityTransaction, records: transactions},
	}

	for _, batch := range batches {
		changes, skipped, err := s.diff(ctx, link.UserID, batch.entityType, batch.records, deviceID, ts)
		if err != nil {
			return models.IngestionReport{}, err
		}
		report.Skipped += skipped
		if len(changes) == 0 {
			continue
		}

		// each chunk continues from the cursor of the previous one
		since := link.LastIngestedAt
		for round := range slices.Chunk(changes, validators.MaxChangesPerRound) {
			resp, err := s.syncer.Synchronize(ctx, link.UserID, models.SyncRequest{
				DeviceID:          deviceID,
				LastSyncTimestamp: since,
				EntityType:        batch.entityType,
				Changes:           round,
			})
			if err != nil {
				log.Err(err).Str("entity_type", string(batch.entityType)).Msg("provider round failed")
				return models.IngestionReport{}, err
			}

			report.Submitted += len(round)
			report.Conflicts += len(resp.Conflicts)
			report.Rounds = append(report.Rounds, resp)
			report.Cursor = max(report.Cursor, resp.Timestamp)
			since = resp.Timestamp
		}
	}

	if report.Cursor != link.LastIngestedAt {
		if err = s.links.UpdateLinkCursor(ctx, link.ID, report.Cursor); err != nil {
			log.Err(err).Msg("failed to advance link cursor")
			return models.IngestionReport{}, wrapStoreError(err)
		}
	}

	log.Info().
		Int("fetched", report.Fetched).
		Int("submitted", report.Submitted).
		Int("skipped", report.Skipped).
		Int("conflicts", report.Conflicts).
		Int64("cursor", report.Cursor).
		Msg("provider link ingested")

	return report, nil
}

func (s *ingestionService) fetch(ctx context.Context, accessToken string) (models.ProviderSnapshot, error) {
	accounts, err := s.provider.GetAccounts(ctx, accessToken)
	if err != nil {
		return models.ProviderSnapshot{}, err
	}

	end := s.now().UTC()
	start := end.AddDate(0, 0, -s.windowDays)

	transactions, err := s.provider.GetTransactions(ctx, accessToken, start, end)
	if err != nil {
		return models.ProviderSnapshot{}, err
	}

	return models.ProviderSnapshot{Accounts: accounts, Transactions: transactions}, nil
}

// diff compares normalized records with current entity state. Unknown and
// deleted entities become CREATE, changed ones UPDATE, equal ones are skipped.
func (s *ingestionService) diff(
	ctx context.Context,
	userID int64,
	entityType models.EntityType,
	records []normalizedRecord,
	deviceID string,
	ts int64,
) ([]models.Change, int, error) {
	if len(records) == 0 {
		return nil, 0, nil
	}

	states, err := s.changes.ListEntityStates(ctx, userID, entityType)
	if err != nil {
		return nil, 0, wrapStoreError(err)
	}

	current := make(map[string]models.EntityState, len(states))
	for _, state := range states {
		current[state.EntityID] = state
	}

	changes := make([]models.Change, 0, len(records))
	skipped := 0
	for _, record := range records {
		op := models.OperationCreate
		if state, ok := current[record.entityID]; ok && !state.Deleted {
			if samePayload(state.Payload, record.payload) {
				skipped++
				continue
			}
			op = models.OperationUpdate
		}

		changes = append(changes, models.Change{
			ID:         s.ids.Generate(),
			EntityID:   record.entityID,
			EntityType: entityType,
			Operation:  op,
			Timestamp:  ts,
			Payload:    record.payload,
			Origin:     models.OriginProvider,
			DeviceID:   deviceID,
		})
	}

	return changes, skipped, nil
}

func (s *ingestionService) emit(ctx context.Context, event events.Event, kind events.Kind, at time.Time) {
	event.Kind = kind
	event.At = at
	s.sink.Emit(ctx, event)
}

// samePayload compares JSON documents by value, ignoring key order and
// whitespace.
func samePayload(a, b json.RawMessage) bool {
	var left, right any
	if json.Unmarshal(a, &left) != nil || json.Unmarshal(b, &right) != nil {
		return false
	}
	return reflect.DeepEqual(left, right)
}

type normalizedRecord struct {
	entityID string
	payload  json.RawMessage
}

type accountBalance struct {
	Available *float64 `json:"available,omitempty"`
	Current   *float64 `json:"current,omitempty"`
	Limit     *float64 `json:"limit,omitempty"`
	Currency  string   `json:"currency,omitempty"`
}

type accountPayload struct {
	Name         string         `json:"name"`
	OfficialName string         `json:"officialName,omitempty"`
	Mask         string         `json:"mask,omitempty"`
	Type         string         `json:"type"`
	Subtype      string         `json:"subtype,omitempty"`
	Balance      accountBalance `json:"balance"`
}

type transactionPayload struct {
	AccountID    string   `json:"accountId"`
	Amount       float64  `json:"amount"`
	Currency     string   `json:"currency,omitempty"`
	Date         string   `json:"date"`
	Name         string   `json:"name"`
	MerchantName string   `json:"merchantName,omitempty"`
	Category     []string `json:"category,omitempty"`
	Pending      bool     `json:"pending"`
}

func normalizeAccounts(accounts []models.ProviderAccount) ([]normalizedRecord, error) {
	records := make([]normalizedRecord, 0, len(accounts))
	for _, a := range accounts {
		payload, err := json.Marshal(accountPayload{
			Name:         a.Name,
			OfficialName: a.OfficialName,
			Mask:         a.Mask,
			Type:         a.Type,
			Subtype:      a.Subtype,
			Balance: accountBalance{
				Available: a.Balances.Available,
				Current:   a.Balances.Current,
				Limit:     a.Balances.Limit,
				Currency:  a.Balances.Currency,
			},
		})
		if err != nil {
			return nil, fmt.Errorf("error encoding account %s: %w", a.AccountID, err)
		}
		records = append(records, normalizedRecord{entityID: a.AccountID, payload: payload})
	}
	return records, nil
}

func normalizeTransactions(transactions []models.ProviderTransaction) ([]normalizedRecord, error) {
	records := make([]normalizedRecord, 0, len(transactions))
	for _, t := range transactions {
		payload, err := json.Marshal(transactionPayload{
			AccountID:    t.AccountID,
			Amount:       t.Amount,
			Currency:     t.Currency,
			Date:         t.Date,
			Name:         t.Name,
			MerchantName: t.MerchantName,
			Category:     t.Category,
			Pending:      t.Pending,
		})
		if err != nil {
			return nil, fmt.Errorf("error encoding transaction %s: %w", t.TransactionID, err)
		}
		records = append(records, normalizedRecord{entityID: t.TransactionID, payload: payload})
	}
	return records, nil
}
