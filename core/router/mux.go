package router

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"
	"slices"
	"strings"

	"github.com/moi-restaurants/tracker/core/handler"
)

const anyMethod = "*"

var knownMethods = []string{
	http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut, http.MethodPatch,
	http.MethodDelete, http.MethodConnect, http.MethodOptions, http.MethodTrace,
}

// table is shared by a mux and the inline routers derived from it.
type table[C handler.Context] struct {
	std    *http.ServeMux
	paths  map[string]map[string]handler.HandlerFunc[C]
	routes []Route
}

// mux routes on an http.ServeMux keyed by path pattern and dispatches methods itself,
// so unknown paths and methods reach the error handler.
type mux[C handler.Context] struct {
	tbl          *table[C]
	middlewares  []handler.Middleware[C]
	errorHandler handler.ErrorHandler[C]
	newContext   func(http.ResponseWriter, *http.Request) C
	logger       *slog.Logger
	root         *mux[C] // nil for the root mux
}

func newMux[C handler.Context](opts ...Option[C]) *mux[C] {
	m := &mux[C]{
		tbl: &table[C]{
			std:   http.NewServeMux(),
			paths: make(map[string]map[string]handler.HandlerFunc[C]),
		},
		errorHandler: defaultErrorHandler[C],
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}

	if m.newContext == nil {
		var zero C
		if _, ok := any(zero).(*Context); !ok {
			panic(ErrNoContextFactory)
		}
		m.newContext = func(w http.ResponseWriter, r *http.Request) C {
			return any(NewContext(w, r)).(C)
		}
	}

	// Catch-all that a route on "/" replaces.
	m.tbl.std.HandleFunc("/", m.dispatch("/"))
	return m
}

func (m *mux[C]) top() *mux[C] {
	if m.root != nil {
		return m.root
	}
	return m
}

func (m *mux[C]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.tbl.std.ServeHTTP(newResponseWriter(w), r)
}

// dispatch runs the handler registered for path and r.Method.
func (m *mux[C]) dispatch(path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		root := m.top()
		ww, ok := w.(*responseWriter)
		if !ok {
			ww = newResponseWriter(w)
		}

		methods := root.tbl.paths[path]
		if len(methods) == 0 {
			root.errorHandler(root.newContext(ww, r), ErrNotFound)
			return
		}

		h := methods[r.Method]
		if h == nil && r.Method == http.MethodHead {
			h = methods[http.MethodGet]
		}
		if h == nil {
			h = methods[anyMethod]
		}
		if h == nil {
			allowed := make([]string, 0, len(methods))
			for _, method := range knownMethods {
				if methods[method] != nil {
					allowed = append(allowed, method)
				}
			}
			ww.Header().Set("Allow", strings.Join(allowed, ", "))
			root.errorHandler(root.newContext(ww, r), ErrMethodNotAllowed)
			return
		}

		root.serve(ww, r, h)
	}
}

func (m *mux[C]) serve(w *responseWriter, r *http.Request, h handler.HandlerFunc[C]) {
	ctx := m.newContext(w, r)

	defer func() {
		p := recover()
		if p == nil {
			return
		}
		err := &panicError{value: p, stack: debug.Stack()}
		if w.Written() {
			m.logger.Error("panic after response written",
				slog.Any("value", p),
				slog.String("stack", string(err.stack)),
				slog.String("path", r.URL.Path),
				slog.String("method", r.Method),
				slog.Int("status", w.Status()),
			)
			return
		}
		m.errorHandler(ctx, err)
	}()

	if len(m.middlewares) > 0 {
		h = handler.Chain(h, m.middlewares...)
	}

	resp := h(ctx)
	if resp == nil {
		m.errorHandler(ctx, ErrNilResponse)
		return
	}
	// Middleware may have attached values to the request.
	if err := resp(w, ctx.Request()); err != nil {
		m.errorHandler(ctx, err)
	}
}

func (m *mux[C]) Get(pattern string, h handler.HandlerFunc[C]) {
	m.handle(pattern, h, http.MethodGet)
}

func (m *mux[C]) Post(pattern string, h handler.HandlerFunc[C]) {
	m.handle(pattern, h, http.MethodPost)
}

func (m *mux[C]) Put(pattern string, h handler.HandlerFunc[C]) {
	m.handle(pattern, h, http.MethodPut)
}

func (m *mux[C]) Patch(pattern string, h handler.HandlerFunc[C]) {
	m.handle(pattern, h, http.MethodPatch)
}

func (m *mux[C]) Delete(pattern string, h handler.HandlerFunc[C]) {
	m.handle(pattern, h, http.MethodDelete)
}

func (m *mux[C]) Handle(pattern string, h handler.HandlerFunc[C]) {
	m.handle(pattern, h, anyMethod)
}

func (m *mux[C]) Method(pattern string, h handler.HandlerFunc[C], methods ...string) {
	if len(methods) == 0 {
		panic(fmt.Errorf("%w: no methods for %q", ErrInvalidMethod, pattern))
	}
	for _, method := range methods {
		method = strings.ToUpper(method)
		if !slices.Contains(knownMethods, method) {
			panic(fmt.Errorf("%w: %s", ErrInvalidMethod, method))
		}
		m.handle(pattern, h, method)
	}
}

func (m *mux[C]) Use(middlewares ...handler.Middleware[C]) {
	if m.root == nil && len(m.tbl.routes) > 0 {
		panic(ErrLateMiddleware)
	}
	m.middlewares = append(m.middlewares, middlewares...)
}

func (m *mux[C]) With(middlewares ...handler.Middleware[C]) Router[C] {
	inherited := []handler.Middleware[C](nil)
	if m.root != nil {
		inherited = slices.Clone(m.middlewares)
	}
	return &mux[C]{
		tbl:         m.tbl,
		middlewares: append(inherited, middlewares...),
		root:        m.top(),
	}
}

func (m *mux[C]) Group(fn func(r Router[C])) Router[C] {
	im := m.With()
	if fn != nil {
		fn(im)
	}
	return im
}

func (m *mux[C]) Routes() []Route {
	return slices.Clone(m.tbl.routes)
}

func (m *mux[C]) handle(pattern string, h handler.HandlerFunc[C], method string) {
	if pattern == "" || pattern[0] != '/' {
		panic(fmt.Errorf("%w: %q", ErrInvalidPattern, pattern))
	}
	if h == nil {
		panic(fmt.Errorf("%w: nil handler for %q", ErrInvalidPattern, pattern))
	}

	// Inline routers apply their middleware at registration; the root's run per request.
	if m.root != nil && len(m.middlewares) > 0 {
		h = handler.Chain(h, m.middlewares...)
	}

	methods, ok := m.tbl.paths[pattern]
	if !ok {
		methods = make(map[string]handler.HandlerFunc[C])
		m.tbl.paths[pattern] = methods
		if pattern != "/" {
			m.tbl.std.HandleFunc(pattern, m.top().dispatch(pattern))
		}
	}
	if methods[method] != nil {
		panic(fmt.Errorf("%w: %s %s", ErrDuplicateRoute, method, pattern))
	}
	methods[method] = h
	m.tbl.routes = append(m.tbl.routes, Route{Method: method, Pattern: pattern})
}
