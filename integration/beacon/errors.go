package beacon

import "errors"

var (
	ErrMalformedMessage = errors.New("beacon: malformed message")
	ErrUnknownMessage   = errors.New("beacon: unknown message type")
	ErrHelloRequired    = errors.New("beacon: first message must be hello")
	ErrAlreadyGreeted   = errors.New("beacon: hello already received")
	ErrInvalidEvent     = errors.New("beacon: event type and name are required")
	ErrShuttingDown     = errors.New("beacon: shutting down")
)
