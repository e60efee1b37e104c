// Copyright 2026 The Citydesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package tui provides shared terminal user interface components for
// citydesk's interactive views. Built on bubbletea (Elm architecture),
// it covers the patterns both variants share: the color theme keyed to
// record status and complaint urgency, dropdown overlays spliced over
// a rendered view, and markdown-to-ANSI rendering for free text.
//
// The board and triage views import this package for consistent look
// and behavior; each owns its own data flow and layout.
package tui
