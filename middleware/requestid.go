package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/moi-restaurants/tracker/core/handler"
)

type requestIDKey struct{}

// RequestIDConfig configures RequestIDWithConfig.
type RequestIDConfig struct {
	Skip func(ctx handler.Context) bool
	// Generator creates ids; UUID v4 by default.
	Generator func() string
	// HeaderName is read from the request and echoed on the response. Default X-Request-ID.
	HeaderName string
	// UseExisting keeps an id the load balancer already assigned.
	UseExisting bool
}

// RequestID tags each request with a fresh id, reusing an incoming one.
func RequestID[C handler.Context]() handler.Middleware[C] {
	return RequestIDWithConfig[C](RequestIDConfig{UseExisting: true})
}

func RequestIDWithConfig[C handler.Context](cfg RequestIDConfig) handler.Middleware[C] {
	if cfg.HeaderName == "" {
		cfg.HeaderName = "X-Request-ID"
	}
	if cfg.Generator == nil {
		cfg.Generator = func() string { return uuid.New().String() }
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			id := ""
			if cfg.UseExisting {
				id = ctx.Request().Header.Get(cfg.HeaderName)
			}
			if id == "" || len(id) > 128 {
				id = cfg.Generator()
			}
			ctx.SetValue(requestIDKey{}, id)

			resp := next(ctx)
			if resp == nil {
				return nil
			}
			return func(w http.ResponseWriter, r *http.Request) error {
				w.Header().Set(cfg.HeaderName, id)
				return resp(w, r)
			}
		}
	}
}

// GetRequestID returns the id RequestID attached.
func GetRequestID(ctx handler.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey{}).(string)
	return id, ok
}
