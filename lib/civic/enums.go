// Copyright 2026 The Citydesk Authors
// SPDX-License-Identifier: Apache-2.0

package civic

import "fmt"

// Status is the triage state of a record. Statuses are mutated only by
// authority users; citizens only ever create records (which start as
// Pending) or delete their own.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusProcessing Status = "Processing"
	StatusCompleted  Status = "Completed"
)

// Statuses lists the closed status set in display order.
var Statuses = []Status{StatusPending, StatusProcessing, StatusCompleted}

// Valid reports whether the status is one of the closed set.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted:
		return true
	}
	return false
}

// ParseStatus validates a wire or user-supplied status string.
func ParseStatus(value string) (Status, error) {
	status := Status(value)
	if !status.Valid() {
		return "", fmt.Errorf("civic: unknown status %q", value)
	}
	return status, nil
}

// Category classifies a record by the municipal department responsible
// for it.
type Category string

const (
	CategoryRoad        Category = "Road & Infrastructure"
	CategoryWater       Category = "Water & Drainage"
	CategorySanitation  Category = "Sanitation"
	CategoryElectricity Category = "Electricity"
	CategorySafety      Category = "Public Safety"
	CategoryOther       Category = "Other"
)

// Categories lists the closed category set in display order. The
// classification service never predicts Other — it is reserved for
// manual submission.
var Categories = []Category{
	CategoryRoad,
	CategoryWater,
	CategorySanitation,
	CategoryElectricity,
	CategorySafety,
	CategoryOther,
}

// Valid reports whether the category is one of the closed set.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory validates a wire or user-supplied category string.
func ParseCategory(value string) (Category, error) {
	category := Category(value)
	if !category.Valid() {
		return "", fmt.Errorf("civic: unknown category %q", value)
	}
	return category, nil
}

// Role distinguishes citizens (report and delete their own records)
// from authorities (moderate every record and drive status changes).
type Role string

const (
	RoleCitizen   Role = "citizen"
	RoleAuthority Role = "authority"
)

// Valid reports whether the role is one of the closed set.
func (r Role) Valid() bool {
	return r == RoleCitizen || r == RoleAuthority
}

// ParseRole validates a wire or user-supplied role string.
func ParseRole(value string) (Role, error) {
	role := Role(value)
	if !role.Valid() {
		return "", fmt.Errorf("civic: unknown role %q", value)
	}
	return role, nil
}

// Urgency is the predicted priority of a classified complaint.
type Urgency string

const (
	UrgencyHigh   Urgency = "High"
	UrgencyMedium Urgency = "Medium"
	UrgencyLow    Urgency = "Low"
)

// Valid reports whether the urgency is one of the closed set.
func (u Urgency) Valid() bool {
	switch u {
	case UrgencyHigh, UrgencyMedium, UrgencyLow:
		return true
	}
	return false
}
