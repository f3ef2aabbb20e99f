package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moi-restaurants/tracker/core/analytics"
	"github.com/moi-restaurants/tracker/core/logger"
	"github.com/moi-restaurants/tracker/core/recordstore"
)

type failingStore struct{ recordstore.Store }

func (failingStore) Select(context.Context, string, recordstore.Query) ([]recordstore.Record, error) {
	return nil, errors.New("connection reset")
}

func newAPI(t *testing.T, records recordstore.Store, maxLimit int) http.Handler {
	t.Helper()
	return newRouter(routeDeps{
		log:          logger.Discard(),
		bridge:       http.NotFoundHandler(),
		metrics:      http.NotFoundHandler(),
		records:      records,
		maxPageViews: maxLimit,
	})
}

func seedPageViews(t *testing.T, store *recordstore.Memory, sessionID string, paths ...string) {
	t.Helper()
	base := time.Date(2026, 5, 17, 18, 0, 0, 0, time.UTC)
	for i, p := range paths {
		require.NoError(t, store.Insert(context.Background(), analytics.TablePageViews, recordstore.Record{
			"id":         p,
			"session_id": sessionID,
			"page_path":  p,
			"created_at": base.Add(time.Duration(i) * time.Minute),
		}))
	}
}

func get(t *testing.T, mux http.Handler, target string) (int, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestListPageViews(t *testing.T) {
	t.Parallel()

	store := recordstore.NewMemory()
	seedPageViews(t, store, "s1", "/", "/menu", "/order")
	seedPageViews(t, store, "s2", "/elsewhere")
	mux := newAPI(t, store, 2)

	code, body := get(t, mux, "/api/sessions/s1/page-views")
	require.Equal(t, http.StatusOK, code)
	views, _ := body["page_views"].([]any)
	require.Len(t, views, 2)
	assert.Equal(t, "/order", views[0].(map[string]any)["page_path"])
	assert.Equal(t, "/menu", views[1].(map[string]any)["page_path"])

	code, body = get(t, mux, "/api/sessions/s1/page-views?limit=1")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["page_views"], 1)

	code, body = get(t, mux, "/api/sessions/unknown/page-views")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []any{}, body["page_views"])
}

func TestListPageViews_Errors(t *testing.T) {
	t.Parallel()

	code, body := get(t, newAPI(t, recordstore.NewMemory(), 0), "/api/sessions/s1/page-views?limit=zero")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "bad_request", body["code"])
	assert.Equal(t, map[string]any{"limit": "zero"}, body["details"])

	code, body = get(t, newAPI(t, failingStore{}, 0), "/api/sessions/s1/page-views")
	assert.Equal(t, http.StatusBadGateway, code)
	assert.Equal(t, "record store unavailable", body["message"])
}
