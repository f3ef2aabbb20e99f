package router

import (
	"net/http"

	"github.com/moi-restaurants/tracker/core/handler"
)

// Router dispatches requests to HandlerFuncs by method and path pattern. Patterns use
// net/http wildcard syntax, so "/api/sessions/{id}" exposes ctx.Param("id").
type Router[C handler.Context] interface {
	http.Handler

	Get(pattern string, h handler.HandlerFunc[C])
	Post(pattern string, h handler.HandlerFunc[C])
	Put(pattern string, h handler.HandlerFunc[C])
	Patch(pattern string, h handler.HandlerFunc[C])
	Delete(pattern string, h handler.HandlerFunc[C])

	// Handle registers h for every method.
	Handle(pattern string, h handler.HandlerFunc[C])
	Method(pattern string, h handler.HandlerFunc[C], methods ...string)

	// Use appends middleware that runs for every route. It must precede route registration.
	Use(middlewares ...handler.Middleware[C])
	// With returns a router whose routes also run middlewares.
	With(middlewares ...handler.Middleware[C]) Router[C]
	Group(fn func(r Router[C])) Router[C]

	Routes() []Route
}

// Route is a registered method and pattern.
type Route struct {
	Method  string
	Pattern string
}

// New creates a router. Contexts other than *Context need WithContextFactory.
func New[C handler.Context](opts ...Option[C]) Router[C] {
	return newMux(opts...)
}
