package beacon_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moi-restaurants/tracker/core/analytics"
	"github.com/moi-restaurants/tracker/core/localstore"
	"github.com/moi-restaurants/tracker/core/recordstore"
	"github.com/moi-restaurants/tracker/integration/beacon"
)

type env struct {
	handler *beacon.Handler
	server  *httptest.Server
	local   *localstore.Memory
	records *recordstore.Memory
	conns   *countingObserver
}

type countingObserver struct {
	open atomic.Int32
}

func (c *countingObserver) ClientConnected()    { c.open.Add(1) }
func (c *countingObserver) ClientDisconnected() { c.open.Add(-1) }

func newEnv(t *testing.T) *env {
	t.Helper()

	e := &env{
		local:   localstore.NewMemory(),
		records: recordstore.NewMemory(),
		conns:   &countingObserver{},
	}
	cfg := beacon.DefaultConfig()
	cfg.PingInterval = 0
	e.handler = beacon.NewHandler(cfg, e.local, e.records,
		beacon.WithConnectionObserver(e.conns),
		beacon.WithTrackerOptions(
			analytics.WithHeartbeatInterval(0),
			analytics.WithPopStateDelay(time.Millisecond),
			analytics.WithScrollDebounce(5*time.Millisecond),
		),
	)
	e.server = httptest.NewServer(e.handler)
	t.Cleanup(e.server.Close)
	return e
}

func (e *env) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(e.server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, msg map[string]any) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(msg))
}

func receive(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg map[string]any
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func hello(clientID string) map[string]any {
	return map[string]any{
		"type":      "hello",
		"clientId":  clientID,
		"userAgent": "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1",
		"screen":    map[string]any{"width": 390, "height": 844},
		"language":  "de-DE",
		"referrer":  "https://www.google.com/",
		"origin":    "https://moi.example",
		"path":      "/",
	}
}

func rows(t *testing.T, store *recordstore.Memory, table string) []recordstore.Record {
	t.Helper()
	out, err := store.Select(context.Background(), table, recordstore.Query{})
	require.NoError(t, err)
	return out
}

func TestHandler_TracksAConnection(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	conn := e.dial(t)

	send(t, conn, hello(""))
	welcome := receive(t, conn)
	require.Equal(t, "welcome", welcome["type"])
	clientID, _ := welcome["clientId"].(string)
	_, err := ulid.ParseStrict(clientID)
	require.NoError(t, err)
	sessionID, _ := welcome["sessionId"].(string)
	require.NotEmpty(t, sessionID)
	assert.Equal(t, false, welcome["returning"])

	send(t, conn, map[string]any{"type": "navigate", "path": "/menu"})
	send(t, conn, map[string]any{
		"type": "click",
		"target": map[string]any{
			"tag":  "span",
			"text": "Pizza",
			"parent": map[string]any{
				"tag":  "a",
				"href": "https://moi.example/menu/pizza",
				"text": "  Pizza  ",
			},
		},
	})
	send(t, conn, map[string]any{
		"type":      "event",
		"eventType": "menu",
		"eventName": "item_click",
		"metadata":  map[string]any{"item_name": "Margherita", "category": "pizza"},
	})
	send(t, conn, map[string]any{"type": "stop"})

	assert.Equal(t, "stopped", receive(t, conn)["type"])

	sessions := rows(t, e.records, analytics.TableSessions)
	require.Len(t, sessions, 1)
	assert.Equal(t, sessionID, sessions[0]["session_id"])
	assert.Equal(t, "mobile", sessions[0]["device_type"])
	assert.Equal(t, "390x844", sessions[0]["screen_resolution"])
	assert.Equal(t, false, sessions[0]["is_active"])

	views := rows(t, e.records, analytics.TablePageViews)
	require.Len(t, views, 2)
	assert.Equal(t, "/", views[0]["page_path"])
	assert.Equal(t, "/menu", views[1]["page_path"])
	assert.Equal(t, "/", views[1]["referrer"])

	events := rows(t, e.records, analytics.TableEvents)
	require.Len(t, events, 2)
	assert.Equal(t, "link_click", events[0]["event_name"])
	assert.Equal(t, "/menu", events[0]["page_path"])
	assert.Equal(t, "item_click", events[1]["event_name"])
	meta, _ := events[1]["metadata"].(map[string]any)
	assert.Equal(t, "Margherita", meta["item_name"])

	stored, err := e.local.Get(context.Background(), "client:"+clientID+":"+analytics.DefaultSessionKey)
	require.NoError(t, err)
	assert.Contains(t, stored, sessionID)
}

func TestHandler_ResumesSessionForKnownClient(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	first := e.dial(t)
	send(t, first, hello(""))
	welcome := receive(t, first)
	send(t, first, map[string]any{"type": "stop"})
	require.Equal(t, "stopped", receive(t, first)["type"])
	stopped := rows(t, e.records, analytics.TableSessions)
	require.Len(t, stopped, 1)
	require.Equal(t, false, stopped[0]["is_active"])

	second := e.dial(t)
	send(t, second, hello(welcome["clientId"].(string)))
	again := receive(t, second)

	assert.Equal(t, welcome["clientId"], again["clientId"])
	assert.Equal(t, welcome["sessionId"], again["sessionId"])
	assert.Equal(t, true, again["returning"])

	// The reconnect reopens the row the stop closed.
	assert.Eventually(t, func() bool {
		sessions := rows(t, e.records, analytics.TableSessions)
		return len(sessions) == 1 && sessions[0]["is_active"] == true && sessions[0]["ended_at"] == nil
	}, 2*time.Second, 10*time.Millisecond)
}

func TestHandler_RequiresHello(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	conn := e.dial(t)

	send(t, conn, map[string]any{"type": "navigate", "path": "/menu"})
	msg := receive(t, conn)
	assert.Equal(t, "error", msg["type"])
	assert.Equal(t, beacon.ErrHelloRequired.Error(), msg["error"])

	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.ClosePolicyViolation))
	assert.Empty(t, rows(t, e.records, analytics.TableSessions))
}

func TestHandler_RejectsBadMessagesWithoutDropping(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	conn := e.dial(t)

	send(t, conn, hello(""))
	require.Equal(t, "welcome", receive(t, conn)["type"])

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":`)))
	assert.Equal(t, "error", receive(t, conn)["type"])

	send(t, conn, map[string]any{"type": "teleport"})
	msg := receive(t, conn)
	assert.Contains(t, msg["error"], "teleport")

	send(t, conn, map[string]any{"type": "event", "eventType": "menu"})
	assert.Equal(t, beacon.ErrInvalidEvent.Error(), receive(t, conn)["error"])

	send(t, conn, hello(""))
	assert.Equal(t, beacon.ErrAlreadyGreeted.Error(), receive(t, conn)["error"])

	send(t, conn, map[string]any{"type": "stop"})
	assert.Equal(t, "stopped", receive(t, conn)["type"])
	assert.Empty(t, rows(t, e.records, analytics.TableEvents))
}

func TestHandler_ScrollAndPopState(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	conn := e.dial(t)

	send(t, conn, hello(""))
	receive(t, conn)

	send(t, conn, map[string]any{"type": "scroll", "top": 500, "documentHeight": 2000, "viewportHeight": 1000})
	require.Eventually(t, func() bool {
		return e.records.Count(analytics.TableEvents) == 1
	}, time.Second, 5*time.Millisecond)

	send(t, conn, map[string]any{"type": "navigate", "path": "/order"})
	send(t, conn, map[string]any{"type": "popstate", "path": "/"})
	require.Eventually(t, func() bool {
		return e.records.Count(analytics.TablePageViews) == 3
	}, time.Second, 5*time.Millisecond)

	send(t, conn, map[string]any{"type": "stop"})
	receive(t, conn)

	events := rows(t, e.records, analytics.TableEvents)
	meta, _ := events[0]["metadata"].(map[string]any)
	assert.EqualValues(t, 50, meta["depth"])
}

func TestHandler_Shutdown(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	conn := e.dial(t)

	send(t, conn, hello(""))
	receive(t, conn)
	require.Eventually(t, func() bool { return e.conns.open.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, e.handler.Connections())

	// The client keeps reading so it answers the close handshake.
	closed := make(chan error, 1)
	go func() {
		_, _, err := conn.ReadMessage()
		closed <- err
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, e.handler.Shutdown(ctx))

	err := <-closed
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway))
	assert.Equal(t, 0, e.handler.Connections())
	assert.Equal(t, int32(0), e.conns.open.Load())

	sessions := rows(t, e.records, analytics.TableSessions)
	require.Len(t, sessions, 1)
	assert.Equal(t, false, sessions[0]["is_active"])

	url := "ws" + strings.TrimPrefix(e.server.URL, "http")
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestHandler_OriginCheck(t *testing.T) {
	t.Parallel()

	cfg := beacon.DefaultConfig()
	cfg.AllowedOrigins = []string{"https://moi.example"}
	srv := httptest.NewServer(beacon.NewHandler(cfg, nil, recordstore.NewMemory()))
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	conn, _, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {"https://moi.example"}})
	require.NoError(t, err)
	_ = conn.Close()

	_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {"https://evil.example"}})
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
