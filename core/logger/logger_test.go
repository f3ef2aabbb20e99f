package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moi-restaurants/tracker/core/logger"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("production preset writes json with service attribute", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(logger.WithProduction("beacon"), logger.WithOutput(&buf))
		log.Info("started", logger.Component("server"))

		var rec map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
		assert.Equal(t, "started", rec["msg"])
		assert.Equal(t, "beacon", rec["service"])
		assert.Equal(t, "production", rec["env"])
		assert.Equal(t, "server", rec["component"])
	})

	t.Run("development preset logs debug as text", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(logger.WithDevelopment("beacon"), logger.WithOutput(&buf))
		log.Debug("tick")

		assert.Contains(t, buf.String(), "msg=tick")
		assert.Contains(t, buf.String(), "service=beacon")
	})

	t.Run("level option filters lower records", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(logger.WithLevel(slog.LevelWarn), logger.WithOutput(&buf))
		log.Info("hidden")
		log.Warn("shown")

		out := buf.String()
		assert.NotContains(t, out, "hidden")
		assert.Contains(t, out, "shown")
	})
}

func TestLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.LevelDebug, logger.Level("debug"))
	assert.Equal(t, slog.LevelWarn, logger.Level("WARN"))
	assert.Equal(t, slog.LevelInfo, logger.Level("nonsense"))
}

func TestAttributes(t *testing.T) {
	t.Parallel()

	err := errors.New("boom")
	assert.Equal(t, err, logger.Error(err).Value.Any())
	assert.True(t, logger.Error(nil).Equal(slog.Attr{}))

	errs := logger.Errors(err, nil, errors.New("second"))
	require.Equal(t, slog.KindGroup, errs.Value.Kind())
	assert.Len(t, errs.Value.Group(), 2)
	assert.True(t, logger.Errors(nil, nil).Equal(slog.Attr{}))

	assert.True(t, logger.SessionID("").Equal(slog.Attr{}))
	assert.Equal(t, "s-1", logger.SessionID("s-1").Value.String())
	assert.True(t, logger.ClientIP("").Equal(slog.Attr{}))
	assert.True(t, logger.RequestID("").Equal(slog.Attr{}))
	assert.Equal(t, "req-1", logger.RequestID("req-1").Value.String())
	assert.Equal(t, int64(512), logger.BytesOut(512).Value.Int64())
	assert.Equal(t, "events", logger.Table("events").Value.String())
	assert.Equal(t, 2*time.Second, logger.Duration(2*time.Second).Value.Duration())

	g := logger.Group("req", slog.String("id", "1"))
	assert.Equal(t, "req", g.Key)
}

func TestDiscard(t *testing.T) {
	t.Parallel()

	log := logger.Discard()
	require.NotNil(t, log)
	assert.NotPanics(t, func() {
		log.Error("dropped", logger.Error(errors.New("x")))
	})
}
