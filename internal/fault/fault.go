// Package fault classifies failures into the three classes the UI reports
// differently: transport, non-success status and local validation.
package fault

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindOther Kind = iota
	KindTransport
	KindStatus
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindValidation:
		return "validation"
	default:
		return "other"
	}
}

var (
	ErrTransport         = errors.New("transport failure")
	ErrMalformedResponse = errors.New("malformed response body")

	ErrNotAdmin       = errors.New("admin session required")
	ErrInFlight       = errors.New("operation already in progress")
	ErrUnmounted      = errors.New("controller is no longer mounted")
	ErrNothingToClean = errors.New("no orphaned files to clean up")
)

// StatusError is a response that arrived but was not 2xx.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
}

// Retryable reports whether the server side failed rather than rejected the request.
func (e *StatusError) Retryable() bool {
	return e.StatusCode >= 500
}

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func KindOf(err error) Kind {
	if err == nil {
		return KindOther
	}

	var verr *ValidationError
	if errors.As(err, &verr) {
		return KindValidation
	}

	var serr *StatusError
	if errors.As(err, &serr) {
		return KindStatus
	}

	if errors.Is(err, ErrTransport) || errors.Is(err, ErrMalformedResponse) {
		return KindTransport
	}
	return KindOther
}

// Retryable is true for transport failures and 5xx responses.
func Retryable(err error) bool {
	var serr *StatusError
	if errors.As(err, &serr) {
		return serr.Retryable()
	}
	return errors.Is(err, ErrTransport)
}
