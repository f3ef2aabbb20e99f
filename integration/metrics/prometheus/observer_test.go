package prometheus_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moi-restaurants/tracker/core/analytics"
	trackerprom "github.com/moi-restaurants/tracker/integration/metrics/prometheus"
)

func TestObserver(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	obs, err := trackerprom.NewObserver(reg)
	require.NoError(t, err)

	obs.ObserveWrite(analytics.TableSessions, analytics.OpInsert, 12*time.Millisecond, nil)
	obs.ObserveWrite(analytics.TablePageViews, analytics.OpUpdate, 3*time.Millisecond, errors.New("timeout"))
	obs.ObserveWrite(analytics.TablePageViews, analytics.OpUpdate, 4*time.Millisecond, errors.New("timeout"))
	obs.ObserveSession(analytics.SessionNew)
	obs.ObserveSession(analytics.SessionReturning)
	obs.ObserveEvent("click", "link_click")
	obs.ClientConnected()
	obs.ClientConnected()
	obs.ClientDisconnected()

	expected := `
# HELP tracker_writes_total Remote store writes by table, operation and status.
# TYPE tracker_writes_total counter
tracker_writes_total{op="insert",status="ok",table="sessions"} 1
tracker_writes_total{op="update",status="error",table="page_views"} 2
# HELP tracker_sessions_total Sessions started, split into new, returning and resumed.
# TYPE tracker_sessions_total counter
tracker_sessions_total{kind="new"} 1
tracker_sessions_total{kind="returning"} 1
# HELP tracker_events_total Interaction events recorded.
# TYPE tracker_events_total counter
tracker_events_total{event_name="link_click",event_type="click"} 1
# HELP tracker_connected_clients Browser bridge connections currently open.
# TYPE tracker_connected_clients gauge
tracker_connected_clients 1
`
	err = testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"tracker_writes_total", "tracker_sessions_total", "tracker_events_total", "tracker_connected_clients")
	require.NoError(t, err)

	n, err := testutil.GatherAndCount(reg, "tracker_write_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestNewObserver_DuplicateRegistration(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	_, err := trackerprom.NewObserver(reg)
	require.NoError(t, err)

	_, err = trackerprom.NewObserver(reg)
	var already prometheus.AlreadyRegisteredError
	assert.ErrorAs(t, err, &already)
}
