package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/moi-restaurants/tracker/core/analytics"
)

const namespace = "tracker"

// Observer exports tracker activity as Prometheus metrics.
// It satisfies analytics.Observer.
type Observer struct {
	writes        *prometheus.CounterVec
	writeDuration *prometheus.HistogramVec
	sessions      *prometheus.CounterVec
	events        *prometheus.CounterVec
	clients       prometheus.Gauge
}

var _ analytics.Observer = (*Observer)(nil)

// NewObserver creates the collectors and registers them with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func NewObserver(reg prometheus.Registerer) (*Observer, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	o := &Observer{
		writes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "writes_total",
			Help:      "Remote store writes by table, operation and status.",
		}, []string{"table", "op", "status"}),
		writeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "write_duration_seconds",
			Help:      "Remote store write latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"table", "op"}),
		sessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_total",
			Help:      "Sessions started, split into new, returning and resumed.",
		}, []string{"kind"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Interaction events recorded.",
		}, []string{"event_type", "event_name"}),
		clients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connected_clients",
			Help:      "Browser bridge connections currently open.",
		}),
	}

	for _, c := range []prometheus.Collector{o.writes, o.writeDuration, o.sessions, o.events, o.clients} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return o, nil
}

func (o *Observer) ObserveWrite(table, op string, elapsed time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	o.writes.WithLabelValues(table, op, status).Inc()
	o.writeDuration.WithLabelValues(table, op).Observe(elapsed.Seconds())
}

func (o *Observer) ObserveSession(kind string) {
	o.sessions.WithLabelValues(kind).Inc()
}

func (o *Observer) ObserveEvent(eventType, eventName string) {
	o.events.WithLabelValues(eventType, eventName).Inc()
}

// ClientConnected and ClientDisconnected track open bridge connections.
func (o *Observer) ClientConnected()    { o.clients.Inc() }
func (o *Observer) ClientDisconnected() { o.clients.Dec() }
