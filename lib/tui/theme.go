// Copyright 2026 The Citydesk Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/citydesk-project/citydesk/lib/civic"
)

// Theme defines the color palette for citydesk's terminal UIs. All
// colors use lipgloss ANSI 256-color codes for broad terminal
// compatibility.
//
// The fields cover universal chrome (text, selection, borders) and the
// two semantic scales that recur across both variants: record status
// and complaint urgency.
type Theme struct {
	// Text colors.
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Selected row.
	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// Record status colors.
	StatusPending    lipgloss.Color
	StatusProcessing lipgloss.Color
	StatusCompleted  lipgloss.Color

	// Complaint urgency colors.
	UrgencyHigh   lipgloss.Color
	UrgencyMedium lipgloss.Color
	UrgencyLow    lipgloss.Color

	// UI chrome.
	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color
	ErrorText        lipgloss.Color

	// Links to external map views.
	LinkForeground lipgloss.Color

	// Dropdown overlays.
	OverlayForeground lipgloss.Color
	OverlayBackground lipgloss.Color
}

// StatusColor returns the color for a record status. Unknown values
// (a newer backend can send them) render faint rather than breaking.
func (theme Theme) StatusColor(status civic.Status) lipgloss.Color {
	switch status {
	case civic.StatusPending:
		return theme.StatusPending
	case civic.StatusProcessing:
		return theme.StatusProcessing
	case civic.StatusCompleted:
		return theme.StatusCompleted
	default:
		return theme.FaintText
	}
}

// UrgencyColor returns the color for a complaint urgency, FaintText
// for unknown values.
func (theme Theme) UrgencyColor(urgency civic.Urgency) lipgloss.Color {
	switch urgency {
	case civic.UrgencyHigh:
		return theme.UrgencyHigh
	case civic.UrgencyMedium:
		return theme.UrgencyMedium
	case civic.UrgencyLow:
		return theme.UrgencyLow
	default:
		return theme.FaintText
	}
}

// DefaultTheme is the built-in dark-terminal color scheme, designed
// for 256-color terminals with a dark background.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	StatusPending:    lipgloss.Color("220"), // amber: awaiting triage
	StatusProcessing: lipgloss.Color("75"),  // blue: in the works
	StatusCompleted:  lipgloss.Color("114"), // green: resolved

	UrgencyHigh:   lipgloss.Color("196"),
	UrgencyMedium: lipgloss.Color("208"),
	UrgencyLow:    lipgloss.Color("245"),

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),
	ErrorText:        lipgloss.Color("203"),

	LinkForeground: lipgloss.Color("75"),

	OverlayForeground: lipgloss.Color("252"),
	OverlayBackground: lipgloss.Color("237"),
}
