// Copyright 2026 The Citydesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-tree infrastructure for the
// citydesk CLI: the Command type with dispatch, flag parsing, and
// structured help; categorized tool errors mapped onto exit behavior;
// logger construction; and the shared environment (config, API
// client, session store) that every command loads.
package cli
