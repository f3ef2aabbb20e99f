package middleware_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moi-restaurants/tracker/core/handler"
	"github.com/moi-restaurants/tracker/core/response"
	"github.com/moi-restaurants/tracker/core/router"
	"github.com/moi-restaurants/tracker/middleware"
)

type ctx = *router.Context

func do(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRequestID(t *testing.T) {
	t.Parallel()

	r := router.New[ctx]()
	r.Use(middleware.RequestID[ctx]())
	r.Get("/", func(c ctx) handler.Response {
		id, ok := middleware.GetRequestID(c)
		if !ok {
			return response.Error(errors.New("no request id"))
		}
		return response.String(id)
	})

	t.Run("generated", func(t *testing.T) {
		t.Parallel()

		rec := do(r, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, rec.Body.String(), 36)
		assert.Equal(t, rec.Body.String(), rec.Header().Get("X-Request-ID"))
	})

	t.Run("incoming id is kept", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "lb-42")
		rec := do(r, req)
		assert.Equal(t, "lb-42", rec.Body.String())
		assert.Equal(t, "lb-42", rec.Header().Get("X-Request-ID"))
	})

	t.Run("custom generator ignores incoming", func(t *testing.T) {
		t.Parallel()

		r := router.New[ctx]()
		r.Use(middleware.RequestIDWithConfig[ctx](middleware.RequestIDConfig{
			Generator:  func() string { return "fixed" },
			HeaderName: "X-Trace",
		}))
		r.Get("/", func(c ctx) handler.Response { return response.Status(http.StatusNoContent) })

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Trace", "incoming")
		assert.Equal(t, "fixed", do(r, req).Header().Get("X-Trace"))
	})
}

func TestClientIP(t *testing.T) {
	t.Parallel()

	r := router.New[ctx]()
	r.Use(middleware.ClientIPWithConfig[ctx](middleware.ClientIPConfig{
		StoreInHeader: true,
		ValidateFunc: func(_ handler.Context, ip string) error {
			if strings.HasPrefix(ip, "198.51.100.") {
				return errors.New("blocked range")
			}
			return nil
		},
	}))
	r.Get("/", func(c ctx) handler.Response {
		ip, _ := middleware.GetClientIP(c)
		return response.String(ip)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	rec := do(r, req)
	assert.Equal(t, "203.0.113.9", rec.Body.String())
	assert.Equal(t, "203.0.113.9", rec.Header().Get("X-Client-IP"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Real-IP", "198.51.100.3")
	assert.Equal(t, http.StatusForbidden, do(r, req).Code)
}

func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		out = append(out, rec)
	}
	return out
}

func TestLogging(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	r := router.New[ctx]()
	r.Use(middleware.RequestID[ctx](), middleware.ClientIP[ctx]())
	api := r.With(middleware.LoggingWithConfig[ctx](middleware.LoggingConfig{
		Logger:     log,
		LogHeaders: true,
		Skip:       func(c handler.Context) bool { return c.Request().URL.Path == "/health" },
	}))
	api.Get("/ok", func(c ctx) handler.Response { return response.JSON(map[string]int{"n": 1}) })
	api.Get("/bad", func(c ctx) handler.Response { return response.StringWithStatus("nope", http.StatusBadRequest) })
	api.Get("/fail", func(c ctx) handler.Response { return response.Error(errors.New("store down")) })
	api.Get("/health", func(c ctx) handler.Response { return response.String("ALIVE") })

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set("X-Request-ID", "req-7")
	req.Header.Set("Authorization", "Bearer secret")
	req.RemoteAddr = "192.0.2.10:5555"
	do(r, req)
	do(r, httptest.NewRequest(http.MethodGet, "/bad", nil))
	do(r, httptest.NewRequest(http.MethodGet, "/fail", nil))
	do(r, httptest.NewRequest(http.MethodGet, "/health", nil))

	lines := logLines(t, &buf)
	require.Len(t, lines, 3)

	ok := lines[0]
	assert.Equal(t, "HTTP request completed", ok["msg"])
	assert.Equal(t, "INFO", ok["level"])
	assert.Equal(t, "/ok", ok["path"])
	assert.Equal(t, "req-7", ok["request_id"])
	assert.Equal(t, "192.0.2.10", ok["client_ip"])
	assert.EqualValues(t, http.StatusOK, ok["status_code"])
	assert.Greater(t, ok["bytes_out"], float64(0))
	headers := ok["request_headers"].(map[string]any)
	assert.Equal(t, "[REDACTED]", headers["Authorization"])

	assert.Equal(t, "WARN", lines[1]["level"])
	assert.EqualValues(t, http.StatusBadRequest, lines[1]["status_code"])

	assert.Equal(t, "ERROR", lines[2]["level"])
	assert.Equal(t, "store down", lines[2]["error"])
}
