// Copyright 2026 The Citydesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package authorization decides which moderation actions the current
// session may take on a record. It is a pure function of session and
// record — no I/O, no caching — and is consulted per render, because
// identity and role can change between renders via login and logout.
//
// The gate is a UX convenience, not a security boundary: it controls
// which controls appear, while the server remains the enforcement
// point. A server-side 403 or 404 is authoritative even when the gate
// optimistically allowed the attempt.
package authorization

import "github.com/citydesk-project/citydesk/lib/civic"

// Actions is the set of mutation controls to offer for one record.
type Actions struct {
	// CanDelete: the record's owner may delete it, and any authority
	// may delete anything (moderation power).
	CanDelete bool

	// CanChangeStatus: authorities only.
	CanChangeStatus bool
}

// Permitted evaluates the gate for the given identity (nil when
// logged out) against one record.
func Permitted(identity *civic.Identity, record civic.Record) Actions {
	if identity == nil {
		return Actions{}
	}
	isAuthority := identity.Role == civic.RoleAuthority
	return Actions{
		CanDelete:       isAuthority || identity.ID == record.OwnerID,
		CanChangeStatus: isAuthority,
	}
}
