package api

import (
	"errors"
	"fmt"
)

const (
	unreachableMessage = "Could not reach the MediRAG API. Make sure the server is running."
	unexpectedMessage  = "An unexpected error occurred."
)

// TransportError means no usable reply came back: the backend was
// unreachable or a success body could not be decoded.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// StatusError is a non-2xx reply. Detail is the server message, if any.
type StatusError struct {
	StatusCode int
	Detail     string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("query failed with status %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("query failed with status %d", e.StatusCode)
}

// UserMessage converts a query error into the line shown in place of the
// answer.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		if statusErr.Detail != "" {
			return statusErr.Detail
		}
		return fmt.Sprintf("Request failed (HTTP %d)", statusErr.StatusCode)
	}

	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return unreachableMessage
	}

	return unexpectedMessage
}
