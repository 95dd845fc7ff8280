// Copyright (c) 2025 the fieldcheck authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package api

import (
	"errors"
	"fmt"
)

// ErrAuthExpired is returned for any call the backend rejected with 401 or
// 403. By the time a caller sees it the session has already been invalidated
// by the transport.
var ErrAuthExpired = errors.New("session expired, please log in again")

// StatusError is a non-auth backend rejection. Message carries the backend's
// own error text when the response body provided one.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("backend returned %d", e.Code)
}

// PersistenceFailure is returned by SaveSection after all retry attempts are
// exhausted. It wraps the error from the final attempt.
type PersistenceFailure struct {
	Attempts int
	Err      error
}

func (e *PersistenceFailure) Error() string {
	return fmt.Sprintf("saving section failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *PersistenceFailure) Unwrap() error { return e.Err }
