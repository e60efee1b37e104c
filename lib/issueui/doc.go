// Copyright 2026 The Citydesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package issueui is the interactive issue board: a bubbletea TUI over
// the record list with filtering, pagination, a detail pane with
// status history and map links, role-gated mutations, and the issue
// submission form.
//
// All I/O happens through tea.Cmd values; results come back as
// messages tagged with the generation of the fetch that produced
// them, and the issuesync state machines discard anything stale. The
// single-threaded Update loop is the only writer of model state.
package issueui
