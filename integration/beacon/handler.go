package beacon

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/oklog/ulid/v2"

	"github.com/moi-restaurants/tracker/core/analytics"
	"github.com/moi-restaurants/tracker/core/localstore"
	"github.com/moi-restaurants/tracker/core/logger"
	"github.com/moi-restaurants/tracker/core/recordstore"
)

// ConnectionObserver is told about opened and closed connections.
type ConnectionObserver interface {
	ClientConnected()
	ClientDisconnected()
}

// Handler upgrades requests to WebSocket connections and runs one analytics.Tracker
// per connection.
type Handler struct {
	cfg         Config
	local       localstore.Store
	records     recordstore.Store
	log         *slog.Logger
	trackerOpts []analytics.Option
	connObs     ConnectionObserver
	upgrader    websocket.Upgrader

	mu      sync.Mutex
	conns   map[*websocket.Conn]struct{}
	closing bool
	wg      sync.WaitGroup
}

// Option configures a Handler.
type Option func(*Handler)

func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.log = l
		}
	}
}

// WithTrackerOptions are applied to every tracker the handler creates.
func WithTrackerOptions(opts ...analytics.Option) Option {
	return func(h *Handler) {
		h.trackerOpts = append(h.trackerOpts, opts...)
	}
}

func WithConnectionObserver(o ConnectionObserver) Option {
	return func(h *Handler) { h.connObs = o }
}

// NewHandler builds a bridge. Every client's local storage lives in shared under the
// prefix "client:<id>:"; records receives the remote writes of all clients.
func NewHandler(cfg Config, shared localstore.Store, records recordstore.Store, opts ...Option) *Handler {
	if shared == nil {
		shared = localstore.NewMemory()
	}
	h := &Handler{
		cfg:     cfg.withDefaults(),
		local:   shared,
		records: records,
		log:     logger.Discard(),
		conns:   make(map[*websocket.Conn]struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.log = h.log.With(logger.Component("beacon"))
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		HandshakeTimeout: h.cfg.WriteWait,
		CheckOrigin:      h.checkOrigin,
	}
	return h
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	origins := h.cfg.AllowedOrigins
	if len(origins) == 0 {
		return sameHost(r)
	}
	if len(origins) == 1 && origins[0] == "*" {
		return true
	}
	return slices.Contains(origins, r.Header.Get("Origin"))
}

func sameHost(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	// Same rule as the gorilla default check.
	for _, scheme := range []string{"http://", "https://"} {
		if origin == scheme+r.Host {
			return true
		}
	}
	return false
}

// Connections reports the number of open connections.
func (h *Handler) Connections() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	closing := h.closing
	h.mu.Unlock()
	if closing {
		http.Error(w, ErrShuttingDown.Error(), http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied with an HTTP error.
		h.log.DebugContext(r.Context(), "websocket upgrade failed", logger.Error(err))
		return
	}
	if !h.register(conn) {
		h.closeWith(conn, websocket.CloseGoingAway, ErrShuttingDown.Error())
		_ = conn.Close()
		return
	}
	defer h.unregister(conn)

	h.serve(context.WithoutCancel(r.Context()), conn)
}

func (h *Handler) register(conn *websocket.Conn) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closing {
		return false
	}
	h.conns[conn] = struct{}{}
	h.wg.Add(1)
	if h.connObs != nil {
		h.connObs.ClientConnected()
	}
	return true
}

func (h *Handler) unregister(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, conn)
	if h.connObs != nil {
		h.connObs.ClientDisconnected()
	}
	h.mu.Unlock()
	h.wg.Done()
}

// Shutdown refuses new connections, asks every open one to close and waits until their
// trackers have stopped. Connections still open when ctx ends are dropped.
func (h *Handler) Shutdown(ctx context.Context) error {
	h.mu.Lock()
	h.closing = true
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	h.log.InfoContext(ctx, "closing browser connections", logger.Count("connections", len(conns)))
	for _, c := range conns {
		h.closeWith(c, websocket.CloseGoingAway, "server shutting down")
	}

	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		for _, c := range conns {
			_ = c.Close()
		}
		return ctx.Err()
	}
}

func (h *Handler) serve(ctx context.Context, conn *websocket.Conn) {
	defer conn.Close()

	conn.SetReadLimit(h.cfg.MaxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(h.cfg.HelloTimeout))

	c, err := h.handshake(conn)
	if err != nil {
		h.log.DebugContext(ctx, "handshake rejected", logger.Error(err))
		h.reply(conn, replyMessage{Type: MsgError, Error: err.Error()})
		h.closeWith(conn, websocket.ClosePolicyViolation, err.Error())
		return
	}

	log := h.log.With(logger.ClientID(c.id))
	opts := append([]analytics.Option{analytics.WithLogger(log)}, h.trackerOpts...)
	tracker := analytics.New(c, localstore.Prefixed(h.local, "client:"+c.id+":"), h.records, opts...)
	if err := tracker.Start(ctx); err != nil {
		log.WarnContext(ctx, "tracker did not start", logger.Error(err))
		h.reply(conn, replyMessage{Type: MsgError, Error: err.Error()})
		h.closeWith(conn, websocket.CloseInternalServerErr, "tracking unavailable")
		return
	}
	defer func() {
		if err := tracker.Stop(ctx); err != nil {
			log.WarnContext(ctx, "tracker stopped with pending writes", logger.Error(err))
		}
	}()

	sess, _ := tracker.Session()
	h.reply(conn, welcomeMessage{Type: MsgWelcome, ClientID: c.id, SessionID: sess.ID, Returning: sess.IsReturning})

	_ = conn.SetReadDeadline(time.Now().Add(h.cfg.PongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(h.cfg.PongWait))
	})
	stopPing := h.keepAlive(conn)
	defer stopPing()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.DebugContext(ctx, "connection lost", logger.Error(err))
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(h.cfg.PongWait))

		if h.dispatch(ctx, conn, c, tracker, data) {
			return
		}
	}
}

// handshake reads the hello message and resolves the client id.
func (h *Handler) handshake(conn *websocket.Conn) (*client, error) {
	_, data, err := conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	typ, err := messageType(data)
	if err != nil {
		return nil, err
	}
	if typ != MsgHello {
		return nil, ErrHelloRequired
	}
	hello, err := decodeHello(data)
	if err != nil {
		return nil, err
	}

	id := hello.ClientID
	if _, err := ulid.ParseStrict(id); err != nil {
		id = ulid.Make().String()
	}
	return newClient(id, hello), nil
}

// dispatch handles one message and reports whether the connection should end.
func (h *Handler) dispatch(ctx context.Context, conn *websocket.Conn, c *client, tracker *analytics.Tracker, data []byte) bool {
	typ, err := messageType(data)
	if err != nil {
		h.reply(conn, replyMessage{Type: MsgError, Error: err.Error()})
		return false
	}

	switch typ {
	case MsgNavigate:
		c.navigate(decodePath(data))
	case MsgPopState:
		c.popState(decodePath(data))
	case MsgClick:
		ev, err := decodeClick(data)
		if err != nil {
			h.reply(conn, replyMessage{Type: MsgError, Error: err.Error()})
			return false
		}
		c.click(ev)
	case MsgScroll:
		c.scroll(decodeScroll(data))
	case MsgEvent:
		eventType, eventName, metadata, err := decodeEvent(data)
		if err != nil {
			h.reply(conn, replyMessage{Type: MsgError, Error: err.Error()})
			return false
		}
		tracker.TrackEvent(eventType, eventName, metadata)
	case MsgStop:
		if err := tracker.Stop(ctx); err != nil {
			h.log.WarnContext(ctx, "tracker stopped with pending writes", logger.ClientID(c.id), logger.Error(err))
		}
		h.reply(conn, replyMessage{Type: MsgStopped})
		h.closeWith(conn, websocket.CloseNormalClosure, "")
		return true
	case MsgHello:
		h.reply(conn, replyMessage{Type: MsgError, Error: ErrAlreadyGreeted.Error()})
	default:
		h.reply(conn, replyMessage{Type: MsgError, Error: ErrUnknownMessage.Error() + ": " + typ})
	}
	return false
}

// keepAlive pings conn until the returned function is called.
func (h *Handler) keepAlive(conn *websocket.Conn) func() {
	if h.cfg.PingInterval <= 0 {
		return func() {}
	}
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(h.cfg.PingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(h.cfg.WriteWait)); err != nil {
					return
				}
			}
		}
	}()
	return func() { close(done) }
}

// reply must only be called from the connection's serve goroutine.
func (h *Handler) reply(conn *websocket.Conn, v any) {
	_ = conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteWait))
	if err := conn.WriteJSON(v); err != nil && !errors.Is(err, websocket.ErrCloseSent) {
		h.log.Debug("reply failed", logger.Error(err))
	}
}

func (h *Handler) closeWith(conn *websocket.Conn, code int, text string) {
	msg := websocket.FormatCloseMessage(code, text)
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(h.cfg.WriteWait))
}
