package handler

import (
	"context"
	"net/http"
)

// Context is the per-request value handlers and middleware receive.
type Context interface {
	context.Context
	Request() *http.Request
	ResponseWriter() http.ResponseWriter
	// Param returns a path wildcard such as {id}.
	Param(key string) string
	// SetValue stores val on the request context so later middleware and the handler see it.
	SetValue(key, val any)
}
