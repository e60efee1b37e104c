// Copyright 2026 The Citydesk Authors
// SPDX-License-Identifier: Apache-2.0

package civic

import "time"

// Record is a single issue report as returned by the listing and
// mutation endpoints. The client never owns an authoritative copy —
// every Record is a fetched snapshot that is stale the moment another
// actor mutates it server-side.
//
// Status and Category are declared with their enum types but are NOT
// guaranteed to be in the closed sets: a backend running newer code
// can return values this client does not know. Callers that act on
// them (status transitions, category filters) must check Valid first;
// callers that only display them render the raw value.
type Record struct {
	ID          string   `json:"id"`
	OwnerID     string   `json:"user_id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	Status      Status   `json:"status"`

	// Latitude and Longitude are pointers because coordinates are
	// optional on submission; records created without them carry
	// nulls.
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`

	// ImageRef is the server-side path of the attached photo, empty
	// when the report had no image.
	ImageRef string `json:"image_path"`

	// Resolution fields are set by an authority when completing the
	// record.
	ResolutionImageRef string `json:"resolution_image_path"`
	ResolutionComment  string `json:"resolution_comment"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Reporter identity, denormalized by the listing endpoint so the
	// client does not join against a user store it cannot see.
	OwnerDisplayName string `json:"reporter_name"`
	OwnerEmail       string `json:"reporter_email"`
}

// HasCoordinates reports whether the record carries a usable location.
func (r Record) HasCoordinates() bool {
	return r.Latitude != nil && r.Longitude != nil
}

// StatusUpdate is one entry of a record's status history timeline.
type StatusUpdate struct {
	ID        string    `json:"id"`
	OldStatus Status    `json:"old_status"`
	NewStatus Status    `json:"new_status"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// AnalyticsSummary is the server-computed aggregate over the FULL
// dataset. It is never derived from the fetched page (the page is a
// subset) — the client's only contract is to refetch it after any
// mutation that could change counts.
type AnalyticsSummary struct {
	TotalCount     int `json:"total_issues"`
	PendingCount   int `json:"pending"`
	CompletedCount int `json:"completed"`
}

// Identity is the authenticated user attached to a session.
type Identity struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"name"`
	Email       string    `json:"email"`
	Role        Role      `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
}

// Complaint is a classified free-text complaint shown in the triage
// variant's table.
type Complaint struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Text      string    `json:"text"`
	Category  Category  `json:"category"`
	Urgency   Urgency   `json:"urgency"`
}

// Classification is the prediction returned for a submitted complaint:
// a category and urgency, a citizen-facing acknowledgment, and
// authority-facing suggested resolution steps.
type Classification struct {
	Category       Category `json:"category"`
	Urgency        Urgency  `json:"urgency"`
	Acknowledgment string   `json:"acknowledgment"`
	Suggestion     string   `json:"suggestion"`
}
