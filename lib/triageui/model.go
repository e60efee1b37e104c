// Copyright 2026 The Citydesk Authors
// SPDX-License-Identifier: Apache-2.0

package triageui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/citydesk-project/citydesk/lib/api"
	"github.com/citydesk-project/citydesk/lib/civic"
	"github.com/citydesk-project/citydesk/lib/tui"
)

// submitState is the lifecycle of one classification request.
type submitState int

const (
	stateIdle submitState = iota
	stateSubmitting
	stateSucceeded
	stateFailed
)

// pane identifies which half of the screen has keyboard focus.
type pane int

const (
	paneDraft pane = iota
	paneTable
)

type classifyResultMsg struct {
	generation uint64
	result     *civic.Classification
	err        error
}

type complaintsResultMsg struct {
	complaints []civic.Complaint
	err        error
}

// urgencyFilters is the cycle order of the table filter; the empty
// value means no filter.
var urgencyFilters = []civic.Urgency{"", civic.UrgencyHigh, civic.UrgencyMedium, civic.UrgencyLow}

// Model is the top-level bubbletea model for the triage client.
type Model struct {
	client *api.Client
	theme  tui.Theme

	width  int
	height int

	focus pane

	draft      textarea.Model
	state      submitState
	generation uint64
	result     *civic.Classification
	submitErr  string
	guardErr   string

	complaints    []civic.Complaint
	complaintsErr error
	loaded        bool
	cursor        int
	filterIndex   int

	spin spinner.Model
}

// NewModel creates the triage client. The complaint table loads on
// Init; nothing is classified until the user submits.
func NewModel(client *api.Client) Model {
	draft := textarea.New()
	draft.Placeholder = "Describe the problem in your own words"
	draft.SetHeight(5)
	draft.CharLimit = 2000
	draft.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return Model{
		client: client,
		theme:  tui.DefaultTheme,
		draft:  draft,
		spin:   spin,
	}
}

func (model Model) Init() tea.Cmd {
	return tea.Batch(model.fetchComplaintsCmd(), textarea.Blink)
}

func (model Model) fetchComplaintsCmd() tea.Cmd {
	client := model.client
	return func() tea.Msg {
		list, err := client.ListComplaints(context.Background())
		if err != nil {
			return complaintsResultMsg{err: err}
		}
		return complaintsResultMsg{complaints: list.Items}
	}
}

func (model Model) classifyCmd(generation uint64, complaint string) tea.Cmd {
	client := model.client
	return func() tea.Msg {
		result, err := client.Classify(context.Background(), complaint)
		return classifyResultMsg{generation: generation, result: result, err: err}
	}
}

// visibleComplaints applies the urgency filter locally; the endpoint
// has no filter parameters and the table is small.
func (model *Model) visibleComplaints() []civic.Complaint {
	filter := urgencyFilters[model.filterIndex]
	if filter == "" {
		return model.complaints
	}
	var matched []civic.Complaint
	for _, complaint := range model.complaints {
		if complaint.Urgency == filter {
			matched = append(matched, complaint)
		}
	}
	return matched
}

func (model *Model) clampCursor() {
	visible := len(model.visibleComplaints())
	if model.cursor >= visible {
		model.cursor = visible - 1
	}
	if model.cursor < 0 {
		model.cursor = 0
	}
}

func (model Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		model.width = msg.Width
		model.height = msg.Height
		model.draft.SetWidth(max(msg.Width-6, 20))
		return model, nil

	case spinner.TickMsg:
		if model.state != stateSubmitting {
			return model, nil
		}
		var cmd tea.Cmd
		model.spin, cmd = model.spin.Update(msg)
		return model, cmd

	case classifyResultMsg:
		// A result from a superseded submission never touches the
		// screen, success or failure alike.
		if msg.generation != model.generation {
			return model, nil
		}
		if msg.err != nil {
			model.state = stateFailed
			model.submitErr = errorLine(msg.err)
			return model, nil
		}
		model.state = stateSucceeded
		model.result = msg.result
		model.submitErr = ""
		// The service records every classified complaint; refresh
		// the table so the new row appears without a manual reload.
		return model, model.fetchComplaintsCmd()

	case complaintsResultMsg:
		if msg.err != nil {
			// Keep whatever table we had; surface the failure.
			model.complaintsErr = msg.err
			return model, nil
		}
		model.complaints = msg.complaints
		model.complaintsErr = nil
		model.loaded = true
		model.clampCursor()
		return model, nil

	case tea.KeyMsg:
		return model.handleKey(msg)
	}

	return model, nil
}

func (model Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return model, tea.Quit

	case "tab":
		if model.focus == paneDraft {
			model.focus = paneTable
			model.draft.Blur()
			return model, nil
		}
		model.focus = paneDraft
		return model, model.draft.Focus()

	case "ctrl+d":
		return model.submit()
	}

	if model.focus == paneTable {
		return model.handleTableKey(msg)
	}

	var cmd tea.Cmd
	model.draft, cmd = model.draft.Update(msg)
	if model.guardErr != "" && len(strings.TrimSpace(model.draft.Value())) >= api.MinComplaintLength {
		model.guardErr = ""
	}
	return model, cmd
}

// submit starts a classification. The guard mirrors the server's
// minimum-length rule so an obviously short draft never costs a
// round trip; while a request is in flight further submits are
// ignored rather than queued.
func (model Model) submit() (tea.Model, tea.Cmd) {
	if model.state == stateSubmitting {
		return model, nil
	}
	complaint := model.draft.Value()
	if len(strings.TrimSpace(complaint)) < api.MinComplaintLength {
		model.guardErr = "complaint needs at least 3 characters"
		return model, nil
	}
	model.guardErr = ""
	model.submitErr = ""
	model.result = nil // A stale prediction never outlives a resubmission.
	model.state = stateSubmitting
	model.generation++
	return model, tea.Batch(
		model.classifyCmd(model.generation, complaint),
		model.spin.Tick,
	)
}

func (model Model) handleTableKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return model, tea.Quit
	case "up", "k":
		if model.cursor > 0 {
			model.cursor--
		}
	case "down", "j":
		if model.cursor < len(model.visibleComplaints())-1 {
			model.cursor++
		}
	case "u":
		model.filterIndex = (model.filterIndex + 1) % len(urgencyFilters)
		model.cursor = 0
	case "r":
		return model, model.fetchComplaintsCmd()
	}
	return model, nil
}

func errorLine(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr.Message()
	}
	return err.Error()
}
