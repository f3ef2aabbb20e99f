package health

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/moi-restaurants/tracker/core/logger"
)

// Check probes one dependency.
type Check func(context.Context) error

// Readiness returns "READY" when every check passes, 503 otherwise. Each check gets
// timeout; zero means the request context alone.
func Readiness(log *slog.Logger, timeout time.Duration, checks ...Check) http.Handler {
	if log == nil {
		log = logger.Discard()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		for _, check := range checks {
			if err := run(r.Context(), timeout, check); err != nil {
				log.ErrorContext(r.Context(), "Readiness check failed", logger.Error(err))
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = io.WriteString(w, http.StatusText(http.StatusServiceUnavailable))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "READY")
	})
}

func run(ctx context.Context, timeout time.Duration, check Check) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return check(ctx)
}
