package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MKhiriev/mint-sync/internal/config"
	"github.com/MKhiriev/mint-sync/internal/logger"
	"github.com/MKhiriev/mint-sync/internal/service"
	"github.com/MKhiriev/mint-sync/models"
)

// ── fakes ────────────────────────────────────────────────────────────────────

type fakeAuth struct{ err error }

func (f *fakeAuth) ParseToken(_ context.Context, token string) (models.Token, error) {
	if f.err != nil {
		return models.Token{}, f.err
	}
	return models.Token{UserID: 42, SignedString: token}, nil
}

type fakeAppInfo struct{ healthErr error }

func (f *fakeAppInfo) GetAppVersion(_ context.Context) models.VersionResponse {
	return models.VersionResponse{Version: "1.0.0", Commit: "abc"}
}

func (f *fakeAppInfo) Health(_ context.Context) error { return f.healthErr }

type fakeSync struct {
	gotUser int64
	gotReq  models.SyncRequest
	resp    models.SyncResponse
	err     error
}

func (f *fakeSync) Synchronize(_ context.Context, userID int64, req models.SyncRequest) (models.SyncResponse, error) {
	f.gotUser, f.gotReq = userID, req
	return f.resp, f.err
}

type fakeConflicts struct {
	list       []models.StoredConflict
	resolved   models.StoredConflict
	gotID      string
	gotRequest models.ResolveConflictRequest
	err        error
}

func (f *fakeConflicts) ListConflicts(_ context.Context, _ int64) ([]models.StoredConflict, error) {
	return f.list, f.err
}

func (f *fakeConflicts) ResolveConflict(_ context.Context, _ int64, conflictID string, req models.ResolveConflictRequest) (models.StoredConflict, error) {
	f.gotID, f.gotRequest = conflictID, req
	return f.resolved, f.err
}

type fakeEntities struct {
	gotType models.EntityType
	err     error
}

func (f *fakeEntities) ListEntities(_ context.Context, _ int64, entityType models.EntityType) (models.EntityList, error) {
	f.gotType = entityType
	return models.EntityList{EntityType: entityType, Entities: []models.EntityState{}}, f.err
}

type fakeIngestion struct {
	gotLinkID int64
	err       error
}

func (f *fakeIngestion) Link(_ context.Context, userID int64, req models.LinkRequest) (models.ProviderLink, error) {
	return models.ProviderLink{ID: 1, UserID: userID, ItemID: "item-1", Institution: req.Institution, AccessToken: "secret"}, f.err
}

func (f *fakeIngestion) Ingest(_ context.Context, _ int64, linkID int64) (models.IngestionReport, error) {
	f.gotLinkID = linkID
	return models.IngestionReport{LinkID: linkID, Submitted: 3}, f.err
}

func (f *fakeIngestion) IngestAll(_ context.Context) error { return f.err }

type fixture struct {
	auth      *fakeAuth
	appInfo   *fakeAppInfo
	sync      *fakeSync
	conflicts *fakeConflicts
	entities  *fakeEntities
	ingestion *fakeIngestion
	router    http.Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		auth:      &fakeAuth{},
		appInfo:   &fakeAppInfo{},
		sync:      &fakeSync{},
		conflicts: &fakeConflicts{},
		entities:  &fakeEntities{},
		ingestion: &fakeIngestion{},
	}
	h := NewHandler(&service.Services{
		SyncService:      f.sync,
		ConflictService:  f.conflicts,
		EntityService:    f.entities,
		IngestionService: f.ingestion,
		AuthService:      f.auth,
		AppInfoService:   f.appInfo,
	}, config.Server{AllowedOrigins: []string{"https://app.example"}}, logger.Nop())
	f.router = h.Init()
	return f
}

func (f *fixture) do(method, path, body string, authorized bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if authorized {
		req.Header.Set("Authorization", "Bearer good-token")
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}
