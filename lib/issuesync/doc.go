// Copyright 2026 The Citydesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package issuesync keeps the remote-backed record list, the analytics
// summary, and role-gated mutations consistent with user-controlled
// filter state and the current session.
//
// The package is deliberately transport-free. Each component is a
// state machine that issues fetch intents and reconciles delivered
// results; the caller (a bubbletea model, a CLI command, a test) owns
// the actual I/O. This mirrors the client's cooperative event loop:
// intents become commands, results come back as messages, and the
// state machines decide what to do with them.
//
//   - QueryState: the current filter/pagination selection. Applying a
//     filter always resets the page to 1 so a filter change can never
//     land on an out-of-range page of the new result set.
//   - ListSync: derives a server query from QueryState and reconciles
//     fetched pages wholesale, with last-request-wins discarding —
//     only the most recently issued fetch may replace the list, so a
//     slow stale response can never overwrite newer state.
//   - AnalyticsSync: the filter-independent aggregate. Refreshed at
//     startup and after every successful mutation, never after filter
//     or page changes. Failures degrade to a stale summary and never
//     block anything else.
//   - Controller: executes create/remove/set-status against the API
//     using the session store's credential, fast-failing locally when
//     no credential is present, and — on success — arms a refetch of
//     the list and then the analytics summary, exactly once per
//     mutation.
package issuesync
