package client

import (
	"errors"
	"fmt"
)

// ErrAuthExpired reports that the server rejected a call as unauthorized.
// The caller re-authenticates; the pending mutation is not silently dropped.
var ErrAuthExpired = errors.New("authorization expired")

// NetworkError is a transient failure: transport-level errors and
// server-class (5xx) responses. These are the only errors worth retrying.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// APIError is a non-retryable client-class (4xx) response other than 401.
type APIError struct {
	Op      string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Message)
}
