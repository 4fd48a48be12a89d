package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrSessionExpired is returned when a protected request came back 401.
// By the time a caller sees it the session has already been cleared.
var ErrSessionExpired = errors.New("session expired")

// HTTPError represents a non-2xx HTTP response from the API.
type HTTPError struct {
	StatusCode int
	Message    string
	// Detail is the server-provided error message, if the body carried one.
	Detail string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// IsStatus returns true if err (or any wrapped error) is an HTTPError with the given status code.
func IsStatus(err error, code int) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == code
	}
	return false
}

// RejectedError is an in-band refusal: the server answered 200 with an
// "error" field instead of a result.
type RejectedError struct {
	Reason string
}

func (e *RejectedError) Error() string {
	return e.Reason
}

// Outcome is the closed set of request results a view has to handle.
type Outcome int

const (
	OutcomeOK Outcome = iota
	// OutcomeRejected covers in-band errors and 4xx responses a view shows.
	OutcomeRejected
	// OutcomeUnauthorized means the session was force-cleared.
	OutcomeUnauthorized
	// OutcomeTransport covers network failures, undecodable bodies and 5xx.
	OutcomeTransport
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeRejected:
		return "rejected"
	case OutcomeUnauthorized:
		return "unauthorized"
	default:
		return "transport"
	}
}

// Classify maps an error returned by the client onto an Outcome.
func Classify(err error) Outcome {
	if err == nil {
		return OutcomeOK
	}
	if errors.Is(err, ErrSessionExpired) {
		return OutcomeUnauthorized
	}
	var rejected *RejectedError
	if errors.As(err, &rejected) {
		return OutcomeRejected
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) && httpErr.StatusCode >= 400 && httpErr.StatusCode < 500 {
		return OutcomeRejected
	}
	return OutcomeTransport
}

// Message returns the server's explanation for err, or fallback when the
// server did not provide one.
func Message(err error, fallback string) string {
	var rejected *RejectedError
	if errors.As(err, &rejected) && rejected.Reason != "" {
		return rejected.Reason
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) && httpErr.Detail != "" {
		return httpErr.Detail
	}
	return fallback
}

// IsCanceled reports whether err came from a cancelled or expired context.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func statusText(code int) string {
	if t := http.StatusText(code); t != "" {
		return t
	}
	return "unexpected status"
}
