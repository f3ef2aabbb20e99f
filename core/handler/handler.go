package handler

import "net/http"

// Response renders a reply: headers, status and body. A returned error goes to the
// router's error handler.
type Response func(w http.ResponseWriter, r *http.Request) error

// HandlerFunc handles a request within context C.
type HandlerFunc[C Context] func(ctx C) Response

// ErrorHandler renders err for a request that failed.
type ErrorHandler[C Context] func(ctx C, err error)

// Middleware wraps a HandlerFunc.
type Middleware[C Context] func(next HandlerFunc[C]) HandlerFunc[C]

// Chain wraps h so that mws[0] runs first.
func Chain[C Context](h HandlerFunc[C], mws ...Middleware[C]) HandlerFunc[C] {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
