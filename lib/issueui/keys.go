// Copyright 2026 The Citydesk Authors
// SPDX-License-Identifier: Apache-2.0

package issueui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the issue board.
type KeyMap struct {
	// List navigation.
	Up       key.Binding
	Down     key.Binding
	PrevPage key.Binding
	NextPage key.Binding

	// Filters.
	Search         key.Binding // Focus the free-text filter input.
	StatusFilter   key.Binding // Open the status filter dropdown.
	CategoryFilter key.Binding // Open the category filter dropdown.
	ClearFilters   key.Binding

	// Actions.
	Open       key.Binding // Open the detail pane for the selected record.
	Report     key.Binding // Open the submission form.
	Delete     key.Binding // Delete the selected record (gate permitting).
	Transition key.Binding // Open the status dropdown (authority only).
	Refresh    key.Binding

	// Forms and overlays.
	Submit key.Binding // Submit the active form.
	Back   key.Binding // Dismiss overlay / leave detail / cancel form.

	Quit key.Binding
}

// DefaultKeyMap is the built-in key binding set. Vim-style movement
// alongside the arrow keys.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	PrevPage: key.NewBinding(
		key.WithKeys("h", "left", "["),
		key.WithHelp("h/←", "prev page"),
	),
	NextPage: key.NewBinding(
		key.WithKeys("l", "right", "]"),
		key.WithHelp("l/→", "next page"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	StatusFilter: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "status filter"),
	),
	CategoryFilter: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "category filter"),
	),
	ClearFilters: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "clear filters"),
	),
	Open: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "detail"),
	),
	Report: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new report"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete"),
	),
	Transition: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "set status"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Submit: key.NewBinding(
		key.WithKeys("ctrl+d"),
		key.WithHelp("C-d", "submit"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
