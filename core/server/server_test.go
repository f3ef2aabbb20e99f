package server_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moi-restaurants/tracker/core/server"
)

func waitListening(t *testing.T, srv *server.Server) string {
	t.Helper()
	var addr string
	require.Eventually(t, func() bool {
		addr = srv.Addr()
		return addr != "127.0.0.1:0"
	}, 2*time.Second, 5*time.Millisecond)
	return addr
}

func TestServer_Run(t *testing.T) {
	t.Parallel()

	var hookCalls atomic.Int32
	srv := server.New("127.0.0.1:0",
		server.WithShutdownTimeout(time.Second),
		server.WithShutdownHook(func(ctx context.Context) error {
			_, hasDeadline := ctx.Deadline()
			assert.True(t, hasDeadline)
			hookCalls.Add(1)
			return nil
		}),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, "ALIVE")
		}))()
	}()

	addr := waitListening(t, srv)
	resp, err := http.Get("http://" + addr + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, "ALIVE", string(body))

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
	assert.Equal(t, int32(1), hookCalls.Load())
}

func TestServer_StartTwice(t *testing.T) {
	t.Parallel()

	srv := server.New("127.0.0.1:0")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() { _ = srv.Start(ctx, http.NotFoundHandler()) }()
	waitListening(t, srv)

	assert.ErrorIs(t, srv.Start(ctx, http.NotFoundHandler()), server.ErrServerAlreadyRunning)
	require.NoError(t, srv.Stop())
	require.NoError(t, srv.Stop())
}

func TestServer_HookFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("bridge stuck")
	srv := server.New("127.0.0.1:0", server.WithShutdownHook(func(context.Context) error { return boom }))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, http.NotFoundHandler())() }()
	waitListening(t, srv)
	cancel()

	err := <-done
	assert.ErrorIs(t, err, server.ErrShutdownHook)
	assert.ErrorIs(t, err, boom)
}

func TestServer_ListenError(t *testing.T) {
	t.Parallel()

	srv := server.New("256.0.0.1:99999")
	err := srv.Run(context.Background(), http.NotFoundHandler())()
	assert.Error(t, err)
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	_, err := server.NewFromConfig(server.Config{})
	assert.ErrorIs(t, err, server.ErrMissingAddress)

	srv, err := server.NewFromConfig(server.Config{Addr: ":9090", ReadTimeout: time.Second})
	require.NoError(t, err)
	assert.Equal(t, ":9090", srv.Addr())
}
