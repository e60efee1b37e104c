// Copyright 2026 The Citydesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package triageui is the terminal client for the complaint triage
// service. It pairs a free-text complaint draft with the
// classification result (predicted category and urgency, an
// acknowledgment for the citizen, suggested resolution steps for the
// authority) and a browsable table of previously classified
// complaints.
//
// Submission is a small state machine: idle, submitting, succeeded,
// failed. The draft survives a failed submission unchanged, and
// resubmitting clears the previous result the moment the new request
// leaves — a stale prediction is never shown next to a newer draft.
package triageui
