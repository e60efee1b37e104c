// Copyright 2026 The Citydesk Authors
// SPDX-License-Identifier: Apache-2.0

package triageui

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/citydesk-project/citydesk/lib/api"
	"github.com/citydesk-project/citydesk/lib/civic"
	"github.com/citydesk-project/citydesk/lib/testutil"
)

func newFixture(t *testing.T) (*testutil.Backend, Model) {
	t.Helper()
	backend := testutil.NewBackend(t)
	client, err := api.NewClient(api.ClientConfig{
		BaseURL: backend.Server.URL,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	model := NewModel(client)
	updated, _ := model.Update(tea.WindowSizeMsg{Width: 100, Height: 32})
	model = deliver(t, updated.(Model), model.Init())
	return backend, model
}

// seedComplaints adds backend records, which the fake service mirrors
// into its complaint table.
func seedComplaints(t *testing.T, backend *testutil.Backend) {
	t.Helper()
	owner := backend.AddAccount("seed@example.com", "secret", "Seed", civic.RoleCitizen)
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for index, text := range []string{
		"Water main leaking on Oak Street.",
		"Broken glass on the bike path.",
		"Street sign knocked over at the roundabout.",
	} {
		backend.AddRecord(civic.Record{
			OwnerID:     owner.ID,
			Title:       "seed",
			Description: text,
			Category:    civic.CategoryRoad,
			CreatedAt:   base.Add(time.Duration(index) * time.Minute),
		})
	}
}

func deliver(t *testing.T, model Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return model
	}
	msg := cmd()
	if msg == nil {
		return model
	}
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, sub := range batch {
			model = deliver(t, model, sub)
		}
		return model
	}
	if _, ok := msg.(spinner.TickMsg); ok {
		return model
	}
	updated, next := model.Update(msg)
	return deliver(t, updated.(Model), next)
}

func press(t *testing.T, model Model, keys ...string) Model {
	t.Helper()
	for _, pressed := range keys {
		var msg tea.KeyMsg
		switch pressed {
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "ctrl+d":
			msg = tea.KeyMsg{Type: tea.KeyCtrlD}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(pressed)}
		}
		updated, cmd := model.Update(msg)
		model = deliver(t, updated.(Model), cmd)
	}
	return model
}

func typeText(t *testing.T, model Model, text string) Model {
	t.Helper()
	for _, r := range text {
		updated, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		model = deliver(t, updated.(Model), cmd)
	}
	return model
}

func TestGuardBlocksShortDraft(t *testing.T) {
	backend, model := newFixture(t)

	model = typeText(t, model, "  a ")
	model = press(t, model, "ctrl+d")

	if model.state != stateIdle {
		t.Fatalf("short draft must stay idle, got state %d", model.state)
	}
	if model.guardErr == "" {
		t.Error("expected an inline guard notice")
	}
	if backend.ClassifyCalls() != 0 {
		t.Errorf("short draft must not reach the network: %d calls", backend.ClassifyCalls())
	}

	// Typing past the bound clears the notice without a submit.
	model = typeText(t, model, "bc")
	if model.guardErr != "" {
		t.Errorf("guard notice should clear once the draft is long enough, got %q", model.guardErr)
	}
}

func TestClassifySucceeds(t *testing.T) {
	backend, model := newFixture(t)
	backend.Classify = func(string) civic.Classification {
		return civic.Classification{
			Category:       civic.CategoryWater,
			Urgency:        civic.UrgencyHigh,
			Acknowledgment: "We have logged your report.",
			Suggestion:     "Send the water crew within 24 hours.",
		}
	}

	model = typeText(t, model, "Burst pipe flooding the intersection")
	model = press(t, model, "ctrl+d")

	if model.state != stateSucceeded {
		t.Fatalf("expected Succeeded, got state %d (err %q)", model.state, model.submitErr)
	}
	if model.result == nil || model.result.Urgency != civic.UrgencyHigh {
		t.Fatalf("expected the high-urgency prediction, got %+v", model.result)
	}
	if backend.ClassifyCalls() != 1 {
		t.Errorf("expected one classify call, got %d", backend.ClassifyCalls())
	}

	// Styling splits rendered sentences into multiple SGR runs, so
	// containment checks run against the stripped view.
	view := ansi.Strip(model.View())
	if !strings.Contains(view, "We have logged your report.") {
		t.Error("view should render the acknowledgment")
	}
	if !strings.Contains(view, "Send the water crew within 24 hours.") {
		t.Error("view should render the suggestion")
	}
}

func TestResubmissionClearsStaleResult(t *testing.T) {
	_, model := newFixture(t)

	model = typeText(t, model, "Pothole outside the school")
	model = press(t, model, "ctrl+d")
	if model.result == nil {
		t.Fatal("first submission should have produced a result")
	}

	// Start the second submission but do not execute its command:
	// the old result must already be gone while the request is in
	// flight.
	updated, cmd := model.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	model = updated.(Model)
	if cmd == nil {
		t.Fatal("resubmit should issue a request")
	}
	if model.state != stateSubmitting {
		t.Fatalf("expected Submitting, got state %d", model.state)
	}
	if model.result != nil {
		t.Error("stale result must be cleared on resubmission")
	}
}

func TestSubmitIgnoredWhileInFlight(t *testing.T) {
	_, model := newFixture(t)

	model = typeText(t, model, "Fallen tree blocking the lane")
	updated, _ := model.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	model = updated.(Model)
	first := model.generation

	updated, cmd := model.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	model = updated.(Model)
	if cmd != nil {
		t.Error("submit while submitting must not issue another request")
	}
	if model.generation != first {
		t.Errorf("generation moved from %d to %d", first, model.generation)
	}
}

func TestStaleClassifyResultDiscarded(t *testing.T) {
	_, model := newFixture(t)

	model = typeText(t, model, "Noise complaint about the depot")
	updated, _ := model.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	model = updated.(Model)

	stale := classifyResultMsg{
		generation: model.generation - 1,
		result:     &civic.Classification{Acknowledgment: "old"},
	}
	updated, _ = model.Update(stale)
	model = updated.(Model)
	if model.result != nil {
		t.Error("stale result must be discarded")
	}
	if model.state != stateSubmitting {
		t.Errorf("stale result must not change the state, got %d", model.state)
	}
}

func TestFailureKeepsDraft(t *testing.T) {
	_, model := newFixture(t)

	draft := "Graffiti on the underpass"
	model = typeText(t, model, draft)
	updated, _ := model.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	model = updated.(Model)

	updated, _ = model.Update(classifyResultMsg{
		generation: model.generation,
		err:        errors.New("connection reset"),
	})
	model = updated.(Model)

	if model.state != stateFailed {
		t.Fatalf("expected Failed, got state %d", model.state)
	}
	if model.draft.Value() != draft {
		t.Errorf("draft must survive a failure, got %q", model.draft.Value())
	}
	if !strings.Contains(ansi.Strip(model.View()), "connection reset") {
		t.Error("view should surface the failure")
	}
}

func TestTableFilterAndNavigation(t *testing.T) {
	backend, model := newFixture(t)
	seedComplaints(t, backend)

	model = press(t, model, "tab") // Focus the table.
	model = press(t, model, "r")   // Reload with the seeded rows.
	if got := len(model.complaints); got != 3 {
		t.Fatalf("expected 3 complaints, got %d", got)
	}

	model = press(t, model, "j", "j")
	if model.cursor != 2 {
		t.Errorf("cursor should be 2, got %d", model.cursor)
	}
	model = press(t, model, "j")
	if model.cursor != 2 {
		t.Errorf("cursor should stop at the last row, got %d", model.cursor)
	}

	// The fake backend marks every complaint Medium: the High filter
	// shows nothing, the Medium filter shows everything.
	model = press(t, model, "u") // High.
	if got := len(model.visibleComplaints()); got != 0 {
		t.Errorf("expected no high-urgency rows, got %d", got)
	}
	model = press(t, model, "u") // Medium.
	if got := len(model.visibleComplaints()); got != 3 {
		t.Errorf("expected all rows under the Medium filter, got %d", got)
	}
	if model.cursor != 0 {
		t.Errorf("filter change should reset the cursor, got %d", model.cursor)
	}
}

func TestComplaintsFailureKeepsTable(t *testing.T) {
	backend, model := newFixture(t)
	seedComplaints(t, backend)
	model = press(t, model, "tab", "r")
	if len(model.complaints) != 3 {
		t.Fatalf("expected 3 complaints, got %d", len(model.complaints))
	}

	updated, _ := model.Update(complaintsResultMsg{err: errors.New("backend down")})
	model = updated.(Model)
	if len(model.complaints) != 3 {
		t.Error("a failed reload must keep the previous table")
	}
	if !strings.Contains(ansi.Strip(model.View()), "backend down") {
		t.Error("view should surface the reload failure")
	}
}

func TestQuitFromTable(t *testing.T) {
	_, model := newFixture(t)
	model = press(t, model, "tab")

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, isQuit := cmd().(tea.QuitMsg); !isQuit {
		t.Error("expected tea.QuitMsg")
	}
}
