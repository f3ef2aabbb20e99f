package response

import (
	"errors"
	"net/http"

	"github.com/moi-restaurants/tracker/core/handler"
)

type statusCode interface {
	StatusCode() int
}

// toHTTPError keeps an HTTPError as is. Other errors map by their StatusCode, defaulting
// to 500, and travel as the "cause" detail.
func toHTTPError(err error) HTTPError {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	status := http.StatusInternalServerError
	var sc statusCode
	if errors.As(err, &sc) {
		status = sc.StatusCode()
	}
	base, ok := httpErrorsByStatus[status]
	if !ok {
		base = newHTTPError(status, "error")
		if http.StatusText(status) == "" {
			base = ErrInternalServerError
		}
	}
	return base.WithError(err)
}

// started reports whether the router already began the response.
func started(w http.ResponseWriter) bool {
	ww, ok := w.(interface{ Written() bool })
	return ok && ww.Written()
}

// ErrorHandler answers in plain text.
func ErrorHandler[C handler.Context](ctx C, err error) {
	if started(ctx.ResponseWriter()) {
		return
	}
	httpErr := toHTTPError(err)
	Render(ctx, StringWithStatus(httpErr.Message, httpErr.Status))
}

// JSONErrorHandler answers with the HTTPError as JSON.
func JSONErrorHandler[C handler.Context](ctx C, err error) {
	if started(ctx.ResponseWriter()) {
		return
	}
	httpErr := toHTTPError(err)
	Render(ctx, JSONWithStatus(httpErr, httpErr.Status))
}
