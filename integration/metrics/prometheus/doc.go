// Package prometheus exports tracker activity through prometheus/client_golang.
//
//	reg := prometheus.NewRegistry()
//	obs, err := trackerprom.NewObserver(reg)
//	if err != nil {
//		return err
//	}
//	tracker := analytics.New(browser, local, records, analytics.WithObserver(obs))
//	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
//
// Metrics, all under the "tracker" namespace:
//
//	tracker_writes_total{table,op,status}
//	tracker_write_duration_seconds{table,op}
//	tracker_sessions_total{kind}
//	tracker_events_total{event_type,event_name}
//	tracker_connected_clients
package prometheus
