package middleware

import (
	"bufio"
	"log/slog"
	"net"
	"net/http"
	"slices"
	"time"

	"github.com/moi-restaurants/tracker/core/handler"
	"github.com/moi-restaurants/tracker/core/logger"
)

// LoggingConfig configures LoggingWithConfig.
type LoggingConfig struct {
	Skip func(ctx handler.Context) bool
	// Logger defaults to slog.Default().
	Logger *slog.Logger
	// Level for successful requests; 4xx log at Warn and 5xx at Error. Default Info.
	Level slog.Level
	// LogRequest adds a "request started" record before the handler runs.
	LogRequest bool
	// LogHeaders adds request headers, with SensitiveHeaders redacted.
	LogHeaders       bool
	SensitiveHeaders []string
	// SlowRequestThreshold promotes slow successes to Warn. Default 5s.
	SlowRequestThreshold time.Duration
	Component            string
}

// Logging logs one record per completed request.
func Logging[C handler.Context]() handler.Middleware[C] {
	return LoggingWithConfig[C](LoggingConfig{})
}

func LoggingWithLogger[C handler.Context](log *slog.Logger) handler.Middleware[C] {
	return LoggingWithConfig[C](LoggingConfig{Logger: log})
}

func LoggingWithConfig[C handler.Context](cfg LoggingConfig) handler.Middleware[C] {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.SensitiveHeaders == nil {
		cfg.SensitiveHeaders = []string{"Authorization", "Cookie", "Set-Cookie", "Apikey", "X-Api-Key"}
	}
	if cfg.SlowRequestThreshold <= 0 {
		cfg.SlowRequestThreshold = 5 * time.Second
	}
	if cfg.Component == "" {
		cfg.Component = "http"
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			start := time.Now()
			req := ctx.Request()
			requestID, _ := GetRequestID(ctx)
			ip, _ := GetClientIP(ctx)

			attrs := []slog.Attr{
				logger.Component(cfg.Component),
				logger.Method(req.Method),
				logger.Path(req.URL.Path),
				logger.RequestID(requestID),
				logger.ClientIP(ip),
			}
			if cfg.LogHeaders {
				attrs = append(attrs, slog.Any("request_headers", redact(req.Header, cfg.SensitiveHeaders)))
			}
			if cfg.LogRequest {
				cfg.Logger.LogAttrs(req.Context(), cfg.Level, "HTTP request started", attrs...)
			}

			resp := next(ctx)
			if resp == nil {
				return nil
			}

			return func(w http.ResponseWriter, r *http.Request) error {
				rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
				err := resp(rw, r)
				duration := time.Since(start)

				out := append(slices.Clone(attrs),
					logger.StatusCode(rw.status),
					logger.BytesOut(rw.size),
					logger.Duration(duration),
				)

				level := cfg.Level
				switch {
				case err != nil || rw.status >= http.StatusInternalServerError:
					level = slog.LevelError
					out = append(out, logger.Error(err))
				case rw.status >= http.StatusBadRequest:
					level = slog.LevelWarn
				case duration > cfg.SlowRequestThreshold && !rw.hijacked:
					level = slog.LevelWarn
					out = append(out, slog.Bool("slow_request", true))
				}
				cfg.Logger.LogAttrs(req.Context(), level, "HTTP request completed", out...)
				return err
			}
		}
	}
}

func redact(h http.Header, sensitive []string) map[string]any {
	out := make(map[string]any, len(h))
	for key, values := range h {
		switch {
		case slices.Contains(sensitive, key):
			out[key] = "[REDACTED]"
		case len(values) == 1:
			out[key] = values[0]
		default:
			out[key] = values
		}
	}
	return out
}

// statusRecorder captures status and size and passes hijacking through for WebSocket routes.
type statusRecorder struct {
	http.ResponseWriter
	status   int
	size     int64
	wrote    bool
	hijacked bool
}

func (w *statusRecorder) WriteHeader(status int) {
	if !w.wrote {
		w.status = status
		w.wrote = true
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusRecorder) Write(b []byte) (int, error) {
	if !w.wrote {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.size += int64(n)
	return n, err
}

func (w *statusRecorder) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, http.ErrNotSupported
	}
	conn, rw, err := hj.Hijack()
	if err == nil {
		w.hijacked = true
		w.wrote = true
		w.status = http.StatusSwitchingProtocols
	}
	return conn, rw, err
}

// Written mirrors the router's writer so error handlers see a started response.
func (w *statusRecorder) Written() bool {
	if ww, ok := w.ResponseWriter.(interface{ Written() bool }); ok {
		return ww.Written()
	}
	return w.wrote
}

func (w *statusRecorder) Unwrap() http.ResponseWriter { return w.ResponseWriter }
