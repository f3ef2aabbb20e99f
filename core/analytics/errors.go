package analytics

import "errors"

var (
	// ErrNotTracking is returned by tracking calls while the tracker is stopped or degraded.
	ErrNotTracking = errors.New("analytics: tracking is not active")
	// ErrNoStore is returned by Start when no record store was configured.
	ErrNoStore = errors.New("analytics: record store is not configured")
	// ErrNoBrowser is returned by Start outside a browser context.
	ErrNoBrowser = errors.New("analytics: no browser context")
	// ErrFlushTimeout is returned when in-flight writes outlive the flush deadline.
	ErrFlushTimeout = errors.New("analytics: pending writes did not finish in time")
)
