package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jmales/channelvault/internal/config"
	"github.com/jmales/channelvault/internal/models"
	"github.com/jmales/channelvault/internal/service"
	"github.com/jmales/channelvault/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubStore backs routing tests; unimplemented Store methods panic via
// the embedded nil interface.
type stubStore struct {
	store.Store

	channels  map[string]*models.Channel
	exportM3U []models.M3UExportRow
}

func (f *stubStore) ListChannels(context.Context, store.StreamFilter) ([]models.Channel, int, error) {
	return nil, 0, nil
}

func (f *stubStore) GetChannel(_ context.Context, id string) (*models.Channel, error) {
	ch, ok := f.channels[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return ch, nil
}

func (f *stubStore) ListM3UExport(context.Context, models.StreamKind) ([]models.M3UExportRow, error) {
	return f.exportM3U, nil
}

func (f *stubStore) ListGroupTitles(context.Context, models.StreamKind) ([]models.GroupTitle, error) {
	return nil, nil
}

func newTestServer(st store.Store) *Server {
	cfg := &config.Config{ServerPort: "8080", CORSOrigins: "*"}
	return New(st, service.New(st), cfg, nil, nil)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(&stubStore{})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestListChannelsEmptyPage(t *testing.T) {
	srv := newTestServer(&stubStore{})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/channels?active=true", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	// nil rows marshal as an empty array, never null.
	assert.JSONEq(t, `{"data":[],"total":0}`, rec.Body.String())
}

func TestListChannelsBadFilter(t *testing.T) {
	srv := newTestServer(&stubStore{})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/channels?active=maybe", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetChannelNotFound(t *testing.T) {
	srv := newTestServer(&stubStore{channels: map[string]*models.Channel{}})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/channels/nope", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)

	var apiErr APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Not Found", apiErr.Error)
}

func TestCreateChannelValidation(t *testing.T) {
	srv := newTestServer(&stubStore{})

	body := strings.NewReader(`{"tvgName":"","countryCode":"ZZ"}`)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/channels", body))

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var apiErr APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	assert.Contains(t, apiErr.Fields, "tvgName")
	assert.Contains(t, apiErr.Fields, "countryCode")
}

func TestExportChannelsM3U(t *testing.T) {
	url := "http://example.com/live/cnn"
	srv := newTestServer(&stubStore{exportM3U: []models.M3UExportRow{
		{TvgName: "CNN", StreamURL: &url},
	}})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/export/channels.m3u", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "audio/x-mpegurl", rec.Header().Get("Content-Type"))
	assert.Equal(t, "1", rec.Header().Get("X-Entry-Count"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "#EXTM3U\n"))
	assert.Contains(t, rec.Body.String(), url)
}

func TestSyncWithoutKodiConfigured(t *testing.T) {
	srv := newTestServer(&stubStore{})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/sync/kodi", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGroupTitlesRejectsUnknownKind(t *testing.T) {
	srv := newTestServer(&stubStore{})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/group-titles?kind=sources", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
