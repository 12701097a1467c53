// Package apperr holds the error taxonomy shared by the gateway, the stores
// and the reference backend.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Error categories. Use errors.Is against these; the concrete types below
// unwrap to one of them.
var (
	ErrValidation = errors.New("validation failed")
	ErrAuth       = errors.New("authentication failed")
	ErrNotFound   = errors.New("not found")
	ErrNetwork    = errors.New("backend unreachable")
	ErrTimeout    = errors.New("request timed out")
	ErrServer     = errors.New("server error")
)

// HTTPError is a non-2xx response from the backend.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("HTTP error! status: %d", e.Status)
	}
	return e.Message
}

// Unwrap classifies the response by status code.
func (e *HTTPError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrAuth
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return ErrServer
	}
}

// ValidationError is a local precondition or form failure. It never
// reaches the network.
type ValidationError struct {
	Message string
	Fields  map[string]string // field name -> message, may be nil
}

// NewValidation creates a ValidationError without field details.
func NewValidation(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}

	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}

	msg := e.Message
	if msg == "" {
		msg = "invalid input"
	}
	return msg + " (" + strings.Join(parts, "; ") + ")"
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Field returns the message for one field, or "".
func (e *ValidationError) Field(name string) string {
	return e.Fields[name]
}

// NetworkError is a transport-level failure.
type NetworkError struct {
	Op      string
	Err     error
	Timeout bool
}

func (e *NetworkError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("%s: request timeout: backend server is taking too long to respond", e.Op)
	}
	return fmt.Sprintf("%s: network error: backend server is not reachable: %v", e.Op, e.Err)
}

// Unwrap exposes both the category and the underlying cause.
func (e *NetworkError) Unwrap() []error {
	if e.Timeout {
		return []error{ErrTimeout, ErrNetwork, e.Err}
	}
	return []error{ErrNetwork, e.Err}
}

// UserMessage turns an error into text suitable for a banner or status line.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var verr *ValidationError
	var herr *HTTPError
	switch {
	case errors.As(err, &verr):
		return verr.Error()
	case errors.Is(err, ErrTimeout):
		return "Server is taking too long to respond. Please try again."
	case errors.Is(err, ErrNetwork):
		return "Cannot reach server. Please check your connection."
	case errors.As(err, &herr):
		return herr.Error()
	default:
		return err.Error()
	}
}
