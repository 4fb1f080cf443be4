package adapter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/mint-sync/internal/config"
	"github.com/MKhiriev/mint-sync/internal/logger"
	"github.com/MKhiriev/mint-sync/internal/utils"
	"github.com/MKhiriev/mint-sync/models"
	"github.com/go-resty/resty/v2"
)

// transactionsPageSize is the largest page the aggregator accepts.
const transactionsPageSize = 500

const plaidDateLayout = "2006-01-02"

// plaidClient implements [ProviderClient] over the Plaid REST API.
type plaidClient struct {
	client   *utils.HTTPClient
	clientID string
	secret   string
	logger   *logger.Logger
}

func NewPlaidClient(cfg config.Provider, logger *logger.Logger) (ProviderClient, error) {
	baseURL, err := normalizeBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}

	return &plaidClient{
		client:   utils.NewHTTPClient(baseURL, cfg.RequestTimeout),
		clientID: cfg.ClientID,
		secret:   cfg.Secret,
		logger:   logger,
	}, nil
}

// plaidError is the error object of every failed Plaid call.
type plaidError struct {
	ErrorType      string `json:"error_type"`
	ErrorCode      string `json:"error_code"`
	ErrorMessage   string `json:"error_message"`
	DisplayMessage string `json:"display_message"`
	RequestID      string `json:"request_id"`
}

type plaidCredentials struct {
	ClientID string `json:"client_id"`
	Secret   string `json:"secret"`
}

type exchangeRequest struct {
	plaidCredentials
	PublicToken string `json:"public_token"`
}

type exchangeResponse struct {
	AccessToken string `json:"access_token"`
	ItemID      string `json:"item_id"`
}

type accountsRequest struct {
	plaidCredentials
	AccessToken string `json:"access_token"`
}

type accountsResponse struct {
	Accounts []models.ProviderAccount `json:"accounts"`
}

type transactionsOptions struct {
	Count  int `json:"count"`
	Offset int `json:"offset"`
}

type transactionsRequest struct {
	plaidCredentials
	AccessToken string              `json:"access_token"`
	StartDate   string              `json:"start_date"`
	EndDate     string              `json:"end_date"`
	Options     transactionsOptions `json:"options"`
}

type transactionsResponse struct {
	Transactions      []models.ProviderTransaction `json:"transactions"`
	TotalTransactions int                          `json:"total_transactions"`
}

func (p *plaidClient) ExchangePublicToken(ctx context.Context, publicToken string) (models.ProviderItem, error) {
	var result exchangeResponse

	err := p.post(ctx, "/item/public_token/exchange", exchangeRequest{
		plaidCredentials: p.credentials(),
		PublicToken:      publicToken,
	}, &result)
	if err != nil {
		return models.ProviderItem{}, err
	}

	return models.ProviderItem{ItemID: result.ItemID, AccessToken: result.AccessToken}, nil
}

func (p *plaidClient) GetAccounts(ctx context.Context, accessToken string) ([]models.ProviderAccount, error) {
	var result accountsResponse

	err := p.post(ctx, "/accounts/get", accountsRequest{
		plaidCredentials: p.credentials(),
		AccessToken:      accessToken,
	}, &result)
	if err != nil {
		return nil, err
	}

	return result.Accounts, nil
}

func (p *plaidClient) GetTransactions(ctx context.Context, accessToken string, start, end time.Time) ([]models.ProviderTransaction, error) {
	log := logger.FromContext(ctx)

	var all []models.ProviderTransaction
	for {
		var page transactionsResponse

		err := p.post(ctx, "/transactions/get", transactionsRequest{
			plaidCredentials: p.credentials(),
			AccessToken:      accessToken,
			StartDate:        start.Format(plaidDateLayout),
			EndDate:          end.Format(plaidDateLayout),
			Options:          transactionsOptions{Count: transactionsPageSize, Offset: len(all)},
		}, &page)
		if err != nil {
			return nil, err
		}

		all = append(all, page.Transactions...)
		log.Debug().
			Str("func", "plaidClient.GetTransactions").
			Int("fetched", len(all)).
			Int("total", page.TotalTransactions).
			Msg("transactions page received")

		if len(page.Transactions) == 0 || len(all) >= page.TotalTransactions {
			return all, nil
		}
	}
}

func (p *plaidClient) credentials() plaidCredentials {
	return plaidCredentials{ClientID: p.clientID, Secret: p.secret}
}

func (p *plaidClient) post(ctx context.Context, path string, body, result any) error {
	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(result).
		SetError(&plaidError{}).
		Post(path)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "plaidClient.post").Str("path", path).Msg("provider request failed")
		return fmt.Errorf("%w: %s: %w", ErrTransport, path, err)
	}

	if resp.IsError() {
		return mapPlaidError(path, resp)
	}
	return nil
}

// mapPlaidError keeps the status sentinel and adds the aggregator's error
// code, e.g. "provider api error: /accounts/get: ITEM_LOGIN_REQUIRED: ...".
func mapPlaidError(path string, resp *resty.Response) error {
	statusErr := mapHTTPError(resp)

	pe, ok := resp.Error().(*plaidError)
	if !ok || pe == nil || pe.ErrorCode == "" {
		return fmt.Errorf("%w: %s: %w", ErrProviderAPI, path, statusErr)
	}

	msg := strings.TrimSpace(pe.ErrorMessage)
	return fmt.Errorf("%w: %s: %s: %s: %w", ErrProviderAPI, path, pe.ErrorCode, msg, statusErr)
}
