// Copyright 2026 The Citydesk Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/citydesk-project/citydesk/lib/api"
)

func TestToolErrorUnwrap(t *testing.T) {
	inner := errors.New("record rec-7 not found")
	wrapped := NotFound("remove: %w", inner)

	if !errors.Is(wrapped, inner) {
		t.Error("errors.Is should reach the inner error through ToolError")
	}
	var toolErr *ToolError
	if !errors.As(error(wrapped), &toolErr) {
		t.Fatal("errors.As should find the ToolError")
	}
	if toolErr.Category != CategoryNotFound {
		t.Errorf("category = %q, want %q", toolErr.Category, CategoryNotFound)
	}
}

func TestFromAPICategories(t *testing.T) {
	tests := []struct {
		status int
		want   ErrorCategory
	}{
		{http.StatusUnauthorized, CategoryAuth},
		{http.StatusForbidden, CategoryForbidden},
		{http.StatusNotFound, CategoryNotFound},
		{http.StatusBadRequest, CategoryValidation},
		{http.StatusUnprocessableEntity, CategoryValidation},
		{http.StatusBadGateway, CategoryTransient},
		{http.StatusTeapot, CategoryInternal},
	}
	for _, test := range tests {
		err := fmt.Errorf("wrapped: %w", &api.Error{StatusCode: test.status, Detail: "boom"})
		mapped := FromAPI(err)
		if mapped.Category != test.want {
			t.Errorf("status %d mapped to %q, want %q", test.status, mapped.Category, test.want)
		}
		if !errors.Is(mapped, err) {
			t.Errorf("status %d: chain to the original error lost", test.status)
		}
	}
}

func TestFromAPITransportError(t *testing.T) {
	err := errors.New("dial tcp: connection refused")
	mapped := FromAPI(err)
	if mapped.Category != CategoryTransient {
		t.Errorf("transport failure mapped to %q, want %q", mapped.Category, CategoryTransient)
	}
}
