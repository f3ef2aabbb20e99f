package postgrest

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingURL     = errors.New("postgrest: base URL is required")
	ErrMissingAnonKey = errors.New("postgrest: anon key is required")
	ErrRequestFailed  = errors.New("postgrest: request failed")
)

// APIError is an error response from the REST endpoint, decoded from the
// "(code) message" form the client library reports.
type APIError struct {
	Op      string
	Table   string
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("postgrest: %s %s: %s: %s", e.Op, e.Table, e.Code, e.Message)
	}
	return fmt.Sprintf("postgrest: %s %s: %s", e.Op, e.Table, e.Message)
}

func (e *APIError) Unwrap() error {
	return ErrRequestFailed
}

// wrapError turns a library error into an *APIError when it carries a PostgREST
// error body, and into an ErrRequestFailed chain otherwise.
func wrapError(op, table string, err error) error {
	msg := err.Error()
	if rest, ok := strings.CutPrefix(msg, "("); ok {
		if code, message, ok := strings.Cut(rest, ") "); ok {
			return &APIError{Op: op, Table: table, Code: code, Message: message}
		}
	}
	return fmt.Errorf("%w: %s %s: %w", ErrRequestFailed, op, table, err)
}
