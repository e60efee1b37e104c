// Copyright 2026 The Citydesk Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/citydesk-project/citydesk/lib/api"
)

// ErrorCategory classifies tool errors so scripts can make
// programmatic decisions (retry, fix input, re-authenticate) without
// parsing error message text.
type ErrorCategory string

const (
	// CategoryValidation indicates the caller provided invalid input:
	// missing arguments, unknown status names, unparseable values.
	// The caller should fix the input and retry.
	CategoryValidation ErrorCategory = "validation"

	// CategoryAuth indicates a missing or rejected credential. The
	// caller should log in (again) and retry.
	CategoryAuth ErrorCategory = "auth"

	// CategoryForbidden indicates the caller lacks permission for the
	// requested operation: a citizen acting on another's record, or a
	// status change without the authority role.
	CategoryForbidden ErrorCategory = "forbidden"

	// CategoryNotFound indicates a referenced resource does not
	// exist: an unknown record ID, or one already deleted elsewhere.
	// Retrying with the same parameters will not help.
	CategoryNotFound ErrorCategory = "not_found"

	// CategoryTransient indicates a temporary failure: network error,
	// server overload. The caller should back off and retry.
	CategoryTransient ErrorCategory = "transient"

	// CategoryInternal indicates an unexpected error: bugs, I/O
	// failures, malformed data from the service. The caller should
	// report the error rather than retry.
	CategoryInternal ErrorCategory = "internal"
)

// ToolError is a categorized error returned by CLI commands. It wraps
// an inner error, preserving the chain for errors.Is / errors.As,
// while adding a category for programmatic handling and exit codes.
type ToolError struct {
	Category ErrorCategory
	Err      error
}

// Error returns the underlying error message; the category travels
// separately (exit code, log field), not in the text.
func (e *ToolError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error.
func (e *ToolError) Unwrap() error { return e.Err }

// Validation creates a validation error: the caller provided bad input.
func Validation(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryValidation, Err: fmt.Errorf(format, args...)}
}

// Auth creates an auth error: the credential is missing or rejected.
func Auth(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryAuth, Err: fmt.Errorf(format, args...)}
}

// Forbidden creates a forbidden error: the caller lacks permission.
func Forbidden(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryForbidden, Err: fmt.Errorf(format, args...)}
}

// NotFound creates a not-found error: a referenced resource does not exist.
func NotFound(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryNotFound, Err: fmt.Errorf(format, args...)}
}

// Transient creates a transient error: a temporary failure that may
// succeed on retry.
func Transient(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryTransient, Err: fmt.Errorf(format, args...)}
}

// Internal creates an internal error: an unexpected failure, bug, or
// I/O error.
func Internal(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryInternal, Err: fmt.Errorf(format, args...)}
}

// FromAPI maps an API-layer error onto a categorized ToolError,
// preserving the original in the chain. The server's own detail
// message is used verbatim when present.
func FromAPI(err error) *ToolError {
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		return &ToolError{Category: CategoryTransient, Err: err}
	}
	category := CategoryInternal
	switch {
	case apiErr.StatusCode == http.StatusUnauthorized:
		category = CategoryAuth
	case apiErr.StatusCode == http.StatusForbidden:
		category = CategoryForbidden
	case apiErr.StatusCode == http.StatusNotFound:
		category = CategoryNotFound
	case apiErr.StatusCode == http.StatusBadRequest,
		apiErr.StatusCode == http.StatusUnprocessableEntity:
		category = CategoryValidation
	case apiErr.StatusCode >= 500:
		category = CategoryTransient
	}
	return &ToolError{Category: category, Err: err}
}
