package eventapi

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNetwork means the request could not complete or its response could not be read.
	ErrNetwork = errors.New("network error")
	// ErrNotFound is a 404 from the platform.
	ErrNotFound = errors.New("not found")
	// ErrServerRejected is any other non-2xx, or a 2xx without the expected result marker.
	ErrServerRejected = errors.New("rejected by server")
	// ErrAlreadyRegistered is a 409 on registration.
	ErrAlreadyRegistered = errors.New("already registered")
	ErrInvalidInput      = errors.New("invalid input")
)

type APIError struct {
	Op      string
	Status  int
	Message string
	Kind    error
	Cause   error
}

func (e *APIError) Error() string {
	msg := e.Kind.Error()
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return e.Op + ": " + msg
}

func (e *APIError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

func kindForStatus(status int) error {
	switch {
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusConflict:
		return ErrAlreadyRegistered
	default:
		return ErrServerRejected
	}
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrAlreadyRegistered):
		return "conflict"
	case errors.Is(err, ErrServerRejected):
		return "rejected"
	default:
		return "network"
	}
}

// retryable reports whether a read may be repeated. Only transport failures
// and 5xx qualify; a 404 or 4xx is an answer, not a glitch.
func retryable(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.Kind == ErrNetwork {
		return true
	}
	return apiErr.Status >= 500
}
