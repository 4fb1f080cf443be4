package adapter

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/MKhiriev/mint-sync/internal/config"
	"github.com/MKhiriev/mint-sync/internal/logger"
	"github.com/MKhiriev/mint-sync/internal/utils"
	"github.com/MKhiriev/mint-sync/models"
	"github.com/go-resty/resty/v2"
)

type httpServerAdapter struct {
	client *utils.HTTPClient

	mu    sync.RWMutex
	token string

	logger *logger.Logger
}

// NewHTTPServerAdapter builds the REST implementation of [ServerAdapter]
// from the client configuration. A scheme-less server URL is treated as
// http.
func NewHTTPServerAdapter(cfg config.ClientConfig, logger *logger.Logger) (ServerAdapter, error) {
	baseURL, err := normalizeBaseURL(cfg.ServerURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}

	a := &httpServerAdapter{
		client: utils.NewHTTPClient(baseURL, cfg.RequestTimeout),
		logger: logger,
	}
	a.SetToken(cfg.Token)

	return a, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

func (h *httpServerAdapter) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

func (h *httpServerAdapter) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

func (h *httpServerAdapter) Sync(ctx context.Context, req models.SyncRequest) (models.SyncResponse, error) {
	var result models.SyncResponse

	resp, err := h.authedRequest(ctx).
		SetBody(req).
		SetResult(&result).
		Post("/api/sync")
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "httpServerAdapter.Sync").Str("entity_type", string(req.EntityType)).Msg("sync request failed")
		return models.SyncResponse{}, fmt.Errorf("%w: sync request: %w", ErrTransport, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.SyncResponse{}, err
	}

	return result, nil
}

func (h *httpServerAdapter) ListConflicts(ctx context.Context) (models.ConflictList, error) {
	var result models.ConflictList

	resp, err := h.authedRequest(ctx).
		SetResult(&result).
		Get("/api/sync/conflicts")
	if err != nil {
		return models.ConflictList{}, fmt.Errorf("%w: list conflicts request: %w", ErrTransport, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.ConflictList{}, err
	}

	return result, nil
}

func (h *httpServerAdapter) ResolveConflict(ctx context.Context, conflictID string, req models.ResolveConflictRequest) (models.StoredConflict, error) {
	var result models.StoredConflict

	resp, err := h.authedRequest(ctx).
		SetPathParam("conflictID", conflictID).
		SetBody(req).
		SetResult(&result).
		Post("/api/sync/conflicts/{conflictID}/resolve")
	if err != nil {
		return models.StoredConflict{}, fmt.Errorf("%w: resolve conflict request: %w", ErrTransport, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.StoredConflict{}, err
	}

	return result, nil
}

func (h *httpServerAdapter) Version(ctx context.Context) (models.VersionResponse, error) {
	var result models.VersionResponse

	resp, err := h.client.R().
		SetContext(ctx).
		SetError(&models.ErrorResponse{}).
		SetResult(&result).
		Get("/api/version")
	if err != nil {
		return models.VersionResponse{}, fmt.Errorf("%w: version request: %w", ErrTransport, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.VersionResponse{}, err
	}

	return result, nil
}

func (h *httpServerAdapter) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().
		SetContext(ctx).
		SetError(&models.ErrorResponse{})

	if token := h.Token(); token != "" {
		req.SetAuthToken(token)
	}
	return req
}
