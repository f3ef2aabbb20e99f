package analytics

import "time"

// Write operations reported to an Observer.
const (
	OpInsert = "insert"
	OpUpdate = "update"
)

// Session kinds reported to an Observer.
const (
	SessionNew       = "new"
	SessionReturning = "returning"
	SessionResumed   = "resumed"
)

// Observer receives tracker activity, typically to export metrics.
// Methods are called from tracker goroutines and must not block.
type Observer interface {
	ObserveWrite(table, op string, elapsed time.Duration, err error)
	ObserveSession(kind string)
	ObserveEvent(eventType, eventName string)
}

type nopObserver struct{}

func (nopObserver) ObserveWrite(string, string, time.Duration, error) {}
func (nopObserver) ObserveSession(string)                             {}
func (nopObserver) ObserveEvent(string, string)                       {}
