// Copyright 2026 The Citydesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package issue implements the issue-reporting commands of the
// citydesk CLI: authentication (login, register, logout, whoami),
// scriptable record operations (list, report, remove, status,
// updates, analytics), and the interactive board TUI.
package issue
