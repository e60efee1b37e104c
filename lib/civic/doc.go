// Copyright 2026 The Citydesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package civic defines the domain types shared by every layer of the
// client: the closed Category, Status, Role, and Urgency enumerations,
// the Record and AnalyticsSummary types fetched from the platform API,
// and the Complaint type used by the triage variant.
//
// The enumerations are closed sets. Values received from the backend
// that fall outside a set are preserved verbatim for display but are
// non-actionable: rendering code must not offer transition controls
// for an unrecognized status, and validation rejects them on input.
package civic
