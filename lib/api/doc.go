// Copyright 2026 The Citydesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package api is the typed HTTP client for the civic platform's
// boundary services: authentication, record listing and mutation,
// the analytics summary, status history, and complaint classification.
//
// Every call takes a context and returns an explicit error. Server
// rejections surface as *Error carrying the HTTP status and the
// server's human-readable detail message; use errors.As (or the
// IsAuth/IsForbidden/IsNotFound/IsValidation helpers) to classify
// them. Network-level failures come back as wrapped transport errors
// with no *Error in the chain.
//
// The client enforces no timeouts and performs no retries of its own —
// callers own both policies (the TUIs deliberately run without
// timeouts; the CLI wraps calls in context.WithTimeout).
package api
