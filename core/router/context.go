package router

import (
	"context"
	"net/http"
	"time"
)

// Context is the default handler.Context. Its context.Context methods delegate to the request.
type Context struct {
	w http.ResponseWriter
	r *http.Request
}

// NewContext wraps w and r.
func NewContext(w http.ResponseWriter, r *http.Request) *Context {
	return &Context{w: w, r: r}
}

func (c *Context) Deadline() (time.Time, bool)         { return c.r.Context().Deadline() }
func (c *Context) Done() <-chan struct{}               { return c.r.Context().Done() }
func (c *Context) Err() error                          { return c.r.Context().Err() }
func (c *Context) Value(key any) any                   { return c.r.Context().Value(key) }
func (c *Context) Request() *http.Request              { return c.r }
func (c *Context) ResponseWriter() http.ResponseWriter { return c.w }

// Param returns the path wildcard key, or "".
func (c *Context) Param(key string) string {
	return c.r.PathValue(key)
}

func (c *Context) SetValue(key, val any) {
	c.r = c.r.WithContext(context.WithValue(c.r.Context(), key, val))
}
