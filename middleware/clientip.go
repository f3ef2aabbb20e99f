package middleware

import (
	"net/http"

	"github.com/moi-restaurants/tracker/core/handler"
	"github.com/moi-restaurants/tracker/core/response"
	"github.com/moi-restaurants/tracker/pkg/clientip"
)

type clientIPKey struct{}

// ClientIPConfig configures ClientIPWithConfig.
type ClientIPConfig struct {
	Skip func(ctx handler.Context) bool
	// HeaderName, when StoreInHeader is set, echoes the address on the response. Default X-Client-IP.
	HeaderName    string
	StoreInHeader bool
	// ValidateFunc rejects a request with 403 when it returns an error.
	ValidateFunc func(ctx handler.Context, ip string) error
}

// ClientIP stores the resolved client address on the request context.
func ClientIP[C handler.Context]() handler.Middleware[C] {
	return ClientIPWithConfig[C](ClientIPConfig{})
}

func ClientIPWithConfig[C handler.Context](cfg ClientIPConfig) handler.Middleware[C] {
	if cfg.HeaderName == "" {
		cfg.HeaderName = "X-Client-IP"
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			ip := clientip.GetIP(ctx.Request())
			ctx.SetValue(clientIPKey{}, ip)

			if cfg.ValidateFunc != nil {
				if err := cfg.ValidateFunc(ctx, ip); err != nil {
					return response.Error(response.ErrForbidden.WithError(err))
				}
			}

			resp := next(ctx)
			if !cfg.StoreInHeader || resp == nil {
				return resp
			}
			return func(w http.ResponseWriter, r *http.Request) error {
				w.Header().Set(cfg.HeaderName, ip)
				return resp(w, r)
			}
		}
	}
}

// GetClientIP returns the address ClientIP attached.
func GetClientIP(ctx handler.Context) (string, bool) {
	ip, ok := ctx.Value(clientIPKey{}).(string)
	return ip, ok
}
