// Copyright 2026 The Citydesk Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a structured rejection from the platform API. Callers use
// errors.As to extract it:
//
//	var apiErr *api.Error
//	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound { ... }
type Error struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int `json:"-"`
	// Detail is the server-supplied human-readable message. The UI
	// surfaces it verbatim, with a generic fallback when empty.
	Detail string `json:"detail"`
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("api: request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("api: %s (%d)", e.Detail, e.StatusCode)
}

// Message returns the server detail, or a generic fallback so the UI
// never shows an empty error line.
func (e *Error) Message() string {
	if e.Detail == "" {
		return "request failed"
	}
	return e.Detail
}

// statusIs reports whether err is a *Error with the given HTTP status.
func statusIs(err error, status int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

// IsAuth reports whether err is a credential failure (401): bad login,
// missing or expired token.
func IsAuth(err error) bool { return statusIs(err, http.StatusUnauthorized) }

// IsForbidden reports whether err is an authorization failure (403):
// the action needs a role or ownership the session does not have.
func IsForbidden(err error) bool { return statusIs(err, http.StatusForbidden) }

// IsNotFound reports whether err is a vanished-resource failure (404):
// the record was deleted between fetch and action.
func IsNotFound(err error) bool { return statusIs(err, http.StatusNotFound) }

// IsValidation reports whether err is an input rejection (400 or 422).
func IsValidation(err error) bool {
	return statusIs(err, http.StatusBadRequest) || statusIs(err, http.StatusUnprocessableEntity)
}

// IsTransport reports whether err is a network-level failure with no
// server response at all — the service was unreachable or the
// connection broke mid-request.
func IsTransport(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *Error
	return !errors.As(err, &apiErr)
}
