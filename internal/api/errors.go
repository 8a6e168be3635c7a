// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Error variables for common gateway failures.
var (
	// ErrMissingArgument indicates a required argument was empty.
	// The call fails synchronously, before any network activity.
	ErrMissingArgument = errors.New("missing required argument")

	// ErrNotFound indicates the requested resource does not exist (HTTP 404).
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates the bearer token was rejected (HTTP 401).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUnreachable indicates the backend could not be reached at all.
	ErrUnreachable = errors.New("backend unreachable")
)

// APIError represents a failed request, normalized to a single
// human-readable message regardless of what the backend returned.
type APIError struct {
	Status  int    // HTTP status code, 0 for transport-level failures
	Message string // best-effort message extracted from the response
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("api error (HTTP %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error: %s", e.Message)
}

// Unwrap maps well-known statuses onto sentinel errors so callers can use
// errors.Is without inspecting status codes.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusUnauthorized:
		return ErrUnauthorized
	}
	return nil
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUnauthorized reports whether err is an auth rejection.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
