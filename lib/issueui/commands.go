// Copyright 2026 The Citydesk Authors
// SPDX-License-Identifier: Apache-2.0

package issueui

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/citydesk-project/citydesk/lib/api"
	"github.com/citydesk-project/citydesk/lib/civic"
	"github.com/citydesk-project/citydesk/lib/geo"
	"github.com/citydesk-project/citydesk/lib/issuesync"
	"github.com/citydesk-project/citydesk/lib/session"
)

// listResultMsg delivers the outcome of a record page fetch, tagged
// with the generation of the intent that started it.
type listResultMsg struct {
	generation uint64
	records    []civic.Record
	err        error
}

// analyticsResultMsg delivers the outcome of an analytics refresh.
type analyticsResultMsg struct {
	generation uint64
	summary    civic.AnalyticsSummary
	err        error
}

// createResultMsg delivers the outcome of a draft submission. On
// success plan carries the armed refetch pair; on failure the form
// stays up with the draft untouched.
type createResultMsg struct {
	record *civic.Record
	plan   issuesync.Refetch
	err    error
}

// deleteResultMsg delivers the outcome of a record deletion. The
// record rides along so a 404 can be reconciled against it.
type deleteResultMsg struct {
	record civic.Record
	plan   issuesync.Refetch
	err    error
}

// statusResultMsg delivers the outcome of a status transition.
type statusResultMsg struct {
	record civic.Record
	status civic.Status
	plan   issuesync.Refetch
	err    error
}

// updatesResultMsg delivers a record's status history for the detail
// pane.
type updatesResultMsg struct {
	recordID string
	updates  []civic.StatusUpdate
	err      error
}

// authResultMsg delivers the outcome of a login or registration.
type authResultMsg struct {
	established *session.Session
	err         error
}

// locateResultMsg delivers the outcome of a geolocation request for
// the submission form.
type locateResultMsg struct {
	position geo.Position
	err      error
}

// imageResultMsg delivers an image file read from disk for the
// submission form.
type imageResultMsg struct {
	name  string
	bytes []byte
	err   error
}

// Requests deliberately carry no deadline: the platform API has no
// client-side timeout policy, and a user-visible spinner plus the
// last-request-wins discipline make slow responses harmless.

func fetchListCmd(client *api.Client, fetch issuesync.Fetch) tea.Cmd {
	return func() tea.Msg {
		page, err := client.ListRecords(context.Background(), fetch.Query)
		if err != nil {
			return listResultMsg{generation: fetch.Generation, err: err}
		}
		return listResultMsg{generation: fetch.Generation, records: page.Items}
	}
}

func fetchAnalyticsCmd(client *api.Client, fetch issuesync.AnalyticsFetch) tea.Cmd {
	return func() tea.Msg {
		summary, err := client.Analytics(context.Background())
		if err != nil {
			return analyticsResultMsg{generation: fetch.Generation, err: err}
		}
		return analyticsResultMsg{generation: fetch.Generation, summary: *summary}
	}
}

// runRefetchCmd executes a post-mutation plan: the list fetch first,
// then the analytics refresh, strictly in that order.
func runRefetchCmd(client *api.Client, plan issuesync.Refetch) tea.Cmd {
	return tea.Sequence(
		fetchListCmd(client, plan.List),
		fetchAnalyticsCmd(client, plan.Analytics),
	)
}

func createCmd(controller *issuesync.Controller, draft civic.Draft) tea.Cmd {
	return func() tea.Msg {
		record, plan, err := controller.Create(context.Background(), draft)
		return createResultMsg{record: record, plan: plan, err: err}
	}
}

func deleteCmd(controller *issuesync.Controller, record civic.Record) tea.Cmd {
	return func() tea.Msg {
		plan, err := controller.Remove(context.Background(), record)
		return deleteResultMsg{record: record, plan: plan, err: err}
	}
}

func setStatusCmd(controller *issuesync.Controller, record civic.Record, status civic.Status, comment string) tea.Cmd {
	return func() tea.Msg {
		plan, err := controller.SetStatus(context.Background(), record, status, comment)
		return statusResultMsg{record: record, status: status, plan: plan, err: err}
	}
}

func fetchUpdatesCmd(client *api.Client, recordID string) tea.Cmd {
	return func() tea.Msg {
		updates, err := client.StatusUpdates(context.Background(), recordID)
		return updatesResultMsg{recordID: recordID, updates: updates, err: err}
	}
}

func loginCmd(sessions *session.Store, credentials api.Credentials) tea.Cmd {
	return func() tea.Msg {
		established, err := sessions.Login(context.Background(), credentials)
		return authResultMsg{established: established, err: err}
	}
}

func registerCmd(sessions *session.Store, profile api.Profile) tea.Cmd {
	return func() tea.Msg {
		established, err := sessions.Register(context.Background(), profile)
		return authResultMsg{established: established, err: err}
	}
}

func locateCmd(provider geo.Provider) tea.Cmd {
	return func() tea.Msg {
		position, err := provider.Locate(context.Background())
		return locateResultMsg{position: position, err: err}
	}
}

func readImageCmd(path string) tea.Cmd {
	return func() tea.Msg {
		bytes, err := os.ReadFile(path)
		return imageResultMsg{name: path, bytes: bytes, err: err}
	}
}
