// Copyright 2026 The Citydesk Authors
// SPDX-License-Identifier: Apache-2.0

package civic

import (
	"fmt"
	"strconv"
	"strings"
)

// Draft is the ephemeral, client-only state of the issue submission
// form. It is discarded on successful submit and preserved verbatim on
// failure so the user never loses input. Drafts are never persisted.
//
// Latitude and Longitude are kept as raw strings because they come
// straight from text inputs; Validate parses them. Image is the raw
// attachment bytes, transmitted as a binary multipart field — never
// JSON-encoded.
type Draft struct {
	Title       string
	Description string
	Category    Category
	Latitude    string
	Longitude   string

	Image     []byte
	ImageName string
}

// EmptyDraft returns a fresh draft with the first category
// pre-selected, matching the submission form's initial state.
func EmptyDraft() Draft {
	return Draft{Category: Categories[0]}
}

// FieldError reports a validation failure attached to a single form
// field, so the UI can surface it next to the offending input.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the draft against the submission rules: title and
// description non-empty, category in the closed set, and coordinates
// (optional) numeric and in range when present. Returns the first
// failure as a *FieldError, or nil when the draft is submittable.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return &FieldError{Field: "title", Message: "title is required"}
	}
	if strings.TrimSpace(d.Description) == "" {
		return &FieldError{Field: "description", Message: "description is required"}
	}
	if !d.Category.Valid() {
		return &FieldError{Field: "category", Message: fmt.Sprintf("unknown category %q", string(d.Category))}
	}

	// Coordinates are optional, but must be supplied as a pair and
	// parse as numbers when present.
	hasLatitude := strings.TrimSpace(d.Latitude) != ""
	hasLongitude := strings.TrimSpace(d.Longitude) != ""
	if hasLatitude != hasLongitude {
		return &FieldError{Field: "latitude", Message: "latitude and longitude must be given together"}
	}
	if hasLatitude {
		latitude, err := strconv.ParseFloat(strings.TrimSpace(d.Latitude), 64)
		if err != nil {
			return &FieldError{Field: "latitude", Message: "latitude must be numeric"}
		}
		if latitude < -90 || latitude > 90 {
			return &FieldError{Field: "latitude", Message: "latitude must be between -90 and 90"}
		}
		longitude, err := strconv.ParseFloat(strings.TrimSpace(d.Longitude), 64)
		if err != nil {
			return &FieldError{Field: "longitude", Message: "longitude must be numeric"}
		}
		if longitude < -180 || longitude > 180 {
			return &FieldError{Field: "longitude", Message: "longitude must be between -180 and 180"}
		}
	}
	return nil
}

// Coordinates returns the parsed coordinate pair, or (nil, nil) when
// the draft has none. Call Validate first; Coordinates assumes the
// fields parse.
func (d Draft) Coordinates() (latitude, longitude *float64) {
	if strings.TrimSpace(d.Latitude) == "" || strings.TrimSpace(d.Longitude) == "" {
		return nil, nil
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(d.Latitude), 64)
	if err != nil {
		return nil, nil
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(d.Longitude), 64)
	if err != nil {
		return nil, nil
	}
	return &lat, &lon
}
