package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ivibez/portal/internal/clients/geocoding"
	"github.com/ivibez/portal/internal/config"
	"github.com/ivibez/portal/internal/di"
	"github.com/ivibez/portal/internal/modules/feasibility"
	"github.com/ivibez/portal/internal/modules/history"
	"github.com/ivibez/portal/internal/reliability"
	testingpkg "github.com/ivibez/portal/internal/testing"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticGeocoder struct{}

func (staticGeocoder) Geocode(address string) (*geocoding.Result, error) {
	return &geocoding.Result{
		FormattedAddress: "100 Main St, Rockville, MD 20850, USA",
		Lat:              39.084,
		Lng:              -77.152,
		State:            "MD",
	}, nil
}

type fakeBackup struct {
	info *reliability.BackupInfo
	err  error
}

func (f *fakeBackup) CreateAndUploadBackup(context.Context) (*reliability.BackupInfo, error) {
	return f.info, f.err
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	db, _ := testingpkg.NewTestDB(t, "history")
	repo := history.NewRepository(db.Conn(), zerolog.Nop())
	service := feasibility.NewService(staticGeocoder{}, zerolog.Nop())
	service.SetRecorder(repo)

	return New(Config{
		Log: zerolog.Nop(),
		Config: &config.Config{
			Port:           8080,
			DevMode:        true,
			AllowedOrigins: config.DefaultAllowedOrigins,
		},
		Container: &di.Container{
			HistoryDB:          db,
			HistoryRepo:        repo,
			FeasibilityService: service,
		},
	})
}

func do(t *testing.T, s *Server, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestEvaluateThenListHistory(t *testing.T) {
	s := newTestServer(t)

	body := `{"address":"100 Main St, Rockville MD","developmentOptions":{"propertyType":"single-family","squareFeet":2000,"stories":1,"finishQuality":"standard"},"strategy":"flip"}`
	req := httptest.NewRequest(http.MethodPost, "/api/evaluate-property", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := do(t, s, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var report map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, 76800.0, report["landValue"])

	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/api/evaluations", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var list struct {
		Count       int               `json:"count"`
		Evaluations []history.Summary `json:"evaluations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Equal(t, 1, list.Count)
	assert.Equal(t, "MD", list.Evaluations[0].State)
}

func TestCORS(t *testing.T) {
	s := newTestServer(t)

	preflight := func(origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/api/evaluate-property", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		req.Header.Set("Access-Control-Request-Headers", "Content-Type")
		return do(t, s, req)
	}

	allowed := preflight("https://ivibezsolutions.com")
	assert.Equal(t, "https://ivibezsolutions.com", allowed.Header().Get("Access-Control-Allow-Origin"))

	denied := preflight("https://evil.example")
	assert.Empty(t, denied.Header().Get("Access-Control-Allow-Origin"))
}

func TestSystemStatus(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/api/system/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var status SystemStatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "healthy", status.Status)
	assert.True(t, status.Database.OK)
	assert.Equal(t, "history", status.Database.Name)
	assert.NotEmpty(t, status.GoVersion)
	assert.Positive(t, status.NumCPU)
}

func TestSystemStatus_DatabaseClosed(t *testing.T) {
	db, _ := testingpkg.NewTestDB(t, "history")
	require.NoError(t, db.Close())
	h := NewSystemHandlers(zerolog.Nop(), db, nil)

	rec := httptest.NewRecorder()
	h.HandleSystemStatus(rec, httptest.NewRequest(http.MethodGet, "/api/system/status", nil))

	var status SystemStatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "degraded", status.Status)
	assert.False(t, status.Database.OK)
	assert.NotEmpty(t, status.Database.Error)
}

func TestTriggerBackup_NotConfigured(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, httptest.NewRequest(http.MethodPost, "/api/system/backup", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestTriggerBackup(t *testing.T) {
	h := NewSystemHandlers(zerolog.Nop(), nil, &fakeBackup{info: &reliability.BackupInfo{Filename: "portal-backup-2026-01-01-030000.tar.gz", SizeBytes: 42}})

	rec := httptest.NewRecorder()
	h.HandleTriggerBackup(rec, httptest.NewRequest(http.MethodPost, "/api/system/backup", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var info reliability.BackupInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, "portal-backup-2026-01-01-030000.tar.gz", info.Filename)
	assert.Equal(t, int64(42), info.SizeBytes)
}

func TestTriggerBackup_Failure(t *testing.T) {
	h := NewSystemHandlers(zerolog.Nop(), nil, &fakeBackup{err: errors.New("bucket not found")})

	rec := httptest.NewRecorder()
	h.HandleTriggerBackup(rec, httptest.NewRequest(http.MethodPost, "/api/system/backup", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "bucket")
}
