package beacon

import (
	"sync"

	"github.com/moi-restaurants/tracker/core/analytics"
)

// client is the analytics.Browser of one connection. Its ambient state comes from the
// hello message; navigation messages move its location.
type client struct {
	id    string
	hello helloMessage

	mu       sync.Mutex
	location analytics.Location
	nextSub  int
	handlers map[int]analytics.Handlers
	routes   map[int]func(string)
}

var (
	_ analytics.Browser       = (*client)(nil)
	_ analytics.EventSource   = (*client)(nil)
	_ analytics.RouteNotifier = (*client)(nil)
)

func newClient(id string, hello helloMessage) *client {
	path := hello.Path
	if path == "" {
		path = "/"
	}
	return &client{
		id:       id,
		hello:    hello,
		location: analytics.Location{Origin: hello.Origin, Path: path},
		handlers: make(map[int]analytics.Handlers),
		routes:   make(map[int]func(string)),
	}
}

func (c *client) UserAgent() string { return c.hello.UserAgent }
func (c *client) Language() string  { return c.hello.Language }
func (c *client) Referrer() string  { return c.hello.Referrer }

func (c *client) Screen() analytics.Screen {
	return analytics.Screen{Width: c.hello.Screen.Width, Height: c.hello.Screen.Height}
}

func (c *client) Location() analytics.Location {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.location
}

func (c *client) Subscribe(h analytics.Handlers) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextSub
	c.nextSub++
	c.handlers[id] = h
	return func() {
		c.mu.Lock()
		delete(c.handlers, id)
		c.mu.Unlock()
	}
}

func (c *client) OnRouteChange(fn func(path string)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextSub
	c.nextSub++
	c.routes[id] = fn
	return func() {
		c.mu.Lock()
		delete(c.routes, id)
		c.mu.Unlock()
	}
}

// Handlers run without c.mu held: they call back into Location.

func (c *client) navigate(path string) {
	c.mu.Lock()
	c.location.Path = path
	fns := make([]func(string), 0, len(c.routes))
	for _, fn := range c.routes {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(path)
	}
}

func (c *client) popState(path string) {
	c.mu.Lock()
	if path != "" {
		c.location.Path = path
	}
	c.mu.Unlock()

	for _, h := range c.subscribers() {
		if h.PopState != nil {
			h.PopState()
		}
	}
}

func (c *client) click(ev analytics.ClickEvent) {
	for _, h := range c.subscribers() {
		if h.Click != nil {
			h.Click(ev)
		}
	}
}

func (c *client) scroll(pos analytics.ScrollPosition) {
	for _, h := range c.subscribers() {
		if h.Scroll != nil {
			h.Scroll(pos)
		}
	}
}

func (c *client) subscribers() []analytics.Handlers {
	c.mu.Lock()
	defer c.mu.Unlock()
	hs := make([]analytics.Handlers, 0, len(c.handlers))
	for _, h := range c.handlers {
		hs = append(hs, h)
	}
	return hs
}
