package router

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/moi-restaurants/tracker/core/handler"
)

// routeError carries the status the error handler should answer with.
type routeError struct {
	msg    string
	status int
}

func (e *routeError) Error() string   { return e.msg }
func (e *routeError) StatusCode() int { return e.status }

var (
	ErrNotFound         error = &routeError{msg: "not found", status: http.StatusNotFound}
	ErrMethodNotAllowed error = &routeError{msg: "method not allowed", status: http.StatusMethodNotAllowed}
	ErrNilResponse            = errors.New("nil response")

	ErrNoContextFactory  = errors.New("no context factory provided")
	ErrInvalidPattern    = errors.New("invalid route pattern")
	ErrInvalidMethod     = errors.New("invalid http method")
	ErrDuplicateRoute    = errors.New("route already registered")
	ErrLateMiddleware    = errors.New("middleware must be added before routes")
	ErrHijackUnsupported = errors.New("response writer does not support hijacking")
)

type statusCode interface {
	StatusCode() int
}

// defaultErrorHandler answers in plain text unless a response was already started.
func defaultErrorHandler[C handler.Context](ctx C, err error) {
	w := ctx.ResponseWriter()
	if ww, ok := w.(*responseWriter); ok && ww.Written() {
		return
	}

	status := http.StatusInternalServerError
	var sc statusCode
	if errors.As(err, &sc) {
		status = sc.StatusCode()
	}
	http.Error(w, err.Error(), status)
}

// PanicError is what the error handler receives when a handler panics.
type PanicError interface {
	error
	Value() any
	Stack() []byte
}

type panicError struct {
	value any
	stack []byte
}

func (e *panicError) Error() string { return fmt.Sprintf("panic: %v", e.value) }
func (e *panicError) Value() any    { return e.value }
func (e *panicError) Stack() []byte { return e.stack }

func (e *panicError) Unwrap() error {
	if err, ok := e.value.(error); ok {
		return err
	}
	return nil
}
