// Copyright 2026 The Citydesk Authors
// SPDX-License-Identifier: Apache-2.0

package issueui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/citydesk-project/citydesk/lib/api"
	"github.com/citydesk-project/citydesk/lib/authorization"
	"github.com/citydesk-project/citydesk/lib/civic"
	"github.com/citydesk-project/citydesk/lib/geo"
	"github.com/citydesk-project/citydesk/lib/issuesync"
	"github.com/citydesk-project/citydesk/lib/session"
	"github.com/citydesk-project/citydesk/lib/tui"
)

// mode identifies which screen owns keyboard input.
type mode int

const (
	// modeList is the record list (with or without the detail pane).
	modeList mode = iota
	// modeAuth is the login/registration form.
	modeAuth
	// modeForm is the issue submission form.
	modeForm
	// modeComment is the one-line comment prompt shown after picking
	// a status transition.
	modeComment
)

// Dropdown field identifiers: which selection the open dropdown
// feeds.
const (
	dropdownStatusFilter   = "status-filter"
	dropdownCategoryFilter = "category-filter"
	dropdownTransition     = "transition"
)

// ModelConfig wires the board to its collaborators.
type ModelConfig struct {
	Client     *api.Client
	Sessions   *session.Store
	Controller *issuesync.Controller
	List       *issuesync.ListSync
	Analytics  *issuesync.AnalyticsSync
	Locator    geo.Provider // Nil when geolocation is not configured.
}

// Model is the top-level bubbletea model for the issue board.
type Model struct {
	client     *api.Client
	sessions   *session.Store
	controller *issuesync.Controller
	list       *issuesync.ListSync
	analytics  *issuesync.AnalyticsSync
	locator    geo.Provider

	theme tui.Theme
	keys  KeyMap

	width  int
	height int

	mode   mode
	cursor int

	// Detail pane: open for one record, with its lazily fetched
	// status history.
	detailOpen bool
	detail     viewport.Model
	detailID   string
	updates    []civic.StatusUpdate
	updatesErr error

	// Free-text filter input. While focused, all keystrokes go here.
	searching   bool
	searchInput textinput.Model

	// Dropdown overlay for filters and status transitions.
	dropdown *tui.DropdownOverlay

	// Status transition in progress: the record and target chosen
	// from the dropdown, awaiting the optional comment.
	pendingRecord civic.Record
	pendingStatus civic.Status
	commentInput  textinput.Model

	auth authForm
	form submitForm

	spin     spinner.Model
	fetching bool

	// One-line notice under the list: mutation errors, gate refusals.
	statusMessage string
}

// NewModel creates the board. Nothing is fetched until Init runs.
func NewModel(config ModelConfig) Model {
	search := textinput.New()
	search.Placeholder = "search title and description"
	search.CharLimit = 200

	comment := textinput.New()
	comment.Placeholder = "comment (optional)"
	comment.CharLimit = 500

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	model := Model{
		client:       config.Client,
		sessions:     config.Sessions,
		controller:   config.Controller,
		list:         config.List,
		analytics:    config.Analytics,
		locator:      config.Locator,
		theme:        tui.DefaultTheme,
		keys:         DefaultKeyMap,
		searchInput:  search,
		commentInput: comment,
		spin:         spin,
		auth:         newAuthForm(),
		form:         newSubmitForm(config.Locator),
	}
	// Browsing is open to everyone: the board starts on the list even
	// without a session, and the auth form appears only when an action
	// needs one.
	return model
}

// Init implements tea.Model: issue the startup fetch pair. The list
// and the summary load independently; analytics failure degrades to
// an empty strip without blocking the board.
func (model Model) Init() tea.Cmd {
	return tea.Batch(
		fetchListCmd(model.client, model.list.Refetch()),
		fetchAnalyticsCmd(model.client, model.analytics.Refresh()),
		model.spin.Tick,
	)
}

// visibleRecords is the current page, bounds-checked for the cursor.
func (model *Model) visibleRecords() []civic.Record {
	return model.list.Records()
}

func (model *Model) clampCursor() {
	records := model.visibleRecords()
	if model.cursor >= len(records) {
		model.cursor = len(records) - 1
	}
	if model.cursor < 0 {
		model.cursor = 0
	}
}

func (model *Model) selectedRecord() (civic.Record, bool) {
	records := model.visibleRecords()
	if len(records) == 0 || model.cursor >= len(records) {
		return civic.Record{}, false
	}
	return records[model.cursor], true
}

// identity re-reads the session every time it is consulted, so login
// and logout take effect on the very next render.
func (model *Model) identity() *civic.Identity {
	current := model.sessions.Current()
	if current == nil {
		return nil
	}
	return &current.Identity
}

func (model Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		model.width = msg.Width
		model.height = msg.Height
		model.detail = viewport.New(msg.Width-4, msg.Height-6)
		if model.detailOpen {
			model.refreshDetail()
		}
		return model, nil

	case spinner.TickMsg:
		if !model.fetching && !model.auth.busy && !model.form.busy {
			return model, nil
		}
		var cmd tea.Cmd
		model.spin, cmd = model.spin.Update(msg)
		return model, cmd

	case listResultMsg:
		if msg.err != nil {
			if model.list.Reject(msg.generation, msg.err) {
				model.fetching = false
			}
			return model, nil
		}
		if model.list.Apply(msg.generation, msg.records) {
			model.fetching = false
			model.clampCursor()
			if model.detailOpen {
				model.refreshDetail()
			}
		}
		return model, nil

	case analyticsResultMsg:
		// A failed refresh keeps the last good summary; no banner,
		// the strip just stays as it was.
		if msg.err == nil {
			model.analytics.Apply(msg.generation, msg.summary)
		}
		return model, nil

	case createResultMsg:
		model.form.busy = false
		if msg.err != nil {
			// The form keeps every field for correction.
			model.form.errorText = errorLine(msg.err)
			return model, nil
		}
		model.form = newSubmitForm(model.locator)
		model.mode = modeList
		model.statusMessage = "report submitted"
		model.fetching = true
		return model, tea.Batch(runRefetchCmd(model.client, msg.plan), model.spin.Tick)

	case deleteResultMsg:
		if msg.err != nil {
			if fetch, stale := model.controller.RemoveStale(msg.err); stale {
				model.statusMessage = "record was already gone; refreshed"
				model.fetching = true
				return model, tea.Batch(fetchListCmd(model.client, fetch), model.spin.Tick)
			}
			model.statusMessage = errorLine(msg.err)
			return model, nil
		}
		if model.detailOpen && model.detailID == msg.record.ID {
			model.closeDetail()
		}
		model.statusMessage = "record deleted"
		model.fetching = true
		return model, tea.Batch(runRefetchCmd(model.client, msg.plan), model.spin.Tick)

	case statusResultMsg:
		if msg.err != nil {
			model.statusMessage = errorLine(msg.err)
			return model, nil
		}
		model.statusMessage = "status set to " + string(msg.status)
		model.fetching = true
		cmds := []tea.Cmd{runRefetchCmd(model.client, msg.plan), model.spin.Tick}
		if model.detailOpen && model.detailID == msg.record.ID {
			cmds = append(cmds, fetchUpdatesCmd(model.client, msg.record.ID))
		}
		return model, tea.Batch(cmds...)

	case updatesResultMsg:
		// Stale history (detail switched records meanwhile) is
		// dropped the same way stale fetches are.
		if model.detailID != msg.recordID {
			return model, nil
		}
		model.updates = msg.updates
		model.updatesErr = msg.err
		model.refreshDetail()
		return model, nil

	case authResultMsg:
		model.auth.busy = false
		if msg.err != nil {
			model.auth.errorText = errorLine(msg.err)
			return model, nil
		}
		model.auth = newAuthForm()
		model.mode = modeList
		model.statusMessage = "logged in as " + msg.established.Identity.DisplayName
		return model, nil

	case locateResultMsg:
		if msg.err != nil {
			// Geolocation is best-effort; the fields stay editable.
			model.form.noticeText = "location unavailable: " + errorLine(msg.err)
			return model, nil
		}
		model.form.applyPosition(msg.position)
		return model, nil

	case imageResultMsg:
		if msg.err != nil {
			model.form.noticeText = "cannot read photo: " + errorLine(msg.err)
			return model, nil
		}
		model.form.attachImage(msg.name, msg.bytes)
		return model, nil

	case tea.KeyMsg:
		return model.handleKey(msg)
	}

	return model, nil
}

func (model Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The dropdown captures everything while open.
	if model.dropdown != nil {
		return model.handleDropdownKey(msg)
	}

	switch model.mode {
	case modeAuth:
		return model.handleAuthKey(msg)
	case modeForm:
		return model.handleFormKey(msg)
	case modeComment:
		return model.handleCommentKey(msg)
	}

	if model.searching {
		return model.handleSearchKey(msg)
	}
	return model.handleListKey(msg)
}

func (model Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := model.keys
	switch {
	case key.Matches(msg, keys.Quit):
		return model, tea.Quit

	case key.Matches(msg, keys.Up):
		if model.detailOpen {
			var cmd tea.Cmd
			model.detail, cmd = model.detail.Update(msg)
			return model, cmd
		}
		if model.cursor > 0 {
			model.cursor--
		}
		return model, nil

	case key.Matches(msg, keys.Down):
		if model.detailOpen {
			var cmd tea.Cmd
			model.detail, cmd = model.detail.Update(msg)
			return model, cmd
		}
		if model.cursor < len(model.visibleRecords())-1 {
			model.cursor++
		}
		return model, nil

	case key.Matches(msg, keys.PrevPage):
		page := model.list.Query().Page
		if page <= 1 {
			return model, nil
		}
		model.fetching = true
		return model, tea.Batch(
			fetchListCmd(model.client, model.list.SetPage(page-1)),
			model.spin.Tick,
		)

	case key.Matches(msg, keys.NextPage):
		// The listing endpoint reports no total; a short page means
		// there is nothing further.
		if len(model.visibleRecords()) < model.list.Query().PageSize {
			return model, nil
		}
		model.fetching = true
		return model, tea.Batch(
			fetchListCmd(model.client, model.list.SetPage(model.list.Query().Page+1)),
			model.spin.Tick,
		)

	case key.Matches(msg, keys.Refresh):
		model.fetching = true
		return model, tea.Batch(
			fetchListCmd(model.client, model.list.Refetch()),
			model.spin.Tick,
		)

	case key.Matches(msg, keys.Search):
		model.searching = true
		model.searchInput.SetValue(model.list.Query().Search)
		return model, model.searchInput.Focus()

	case key.Matches(msg, keys.StatusFilter):
		model.dropdown = statusFilterDropdown(model.list.Query().Status)
		return model, nil

	case key.Matches(msg, keys.CategoryFilter):
		model.dropdown = categoryFilterDropdown(model.list.Query().Category)
		return model, nil

	case key.Matches(msg, keys.ClearFilters):
		empty := ""
		noStatus := civic.Status("")
		noCategory := civic.Category("")
		model.fetching = true
		return model, tea.Batch(fetchListCmd(model.client, model.list.SetFilter(issuesync.FilterChange{
			Status:   &noStatus,
			Category: &noCategory,
			Search:   &empty,
		})), model.spin.Tick)

	case key.Matches(msg, keys.Open):
		if model.detailOpen {
			return model, nil
		}
		record, ok := model.selectedRecord()
		if !ok {
			return model, nil
		}
		model.openDetail(record)
		return model, fetchUpdatesCmd(model.client, record.ID)

	case key.Matches(msg, keys.Back):
		if model.detailOpen {
			model.closeDetail()
		}
		return model, nil

	case key.Matches(msg, keys.Report):
		if model.identity() == nil {
			model.mode = modeAuth
			return model, nil
		}
		model.mode = modeForm
		return model, model.form.setFocus(submitFieldTitle)

	case key.Matches(msg, keys.Delete):
		record, ok := model.selectedRecord()
		if !ok {
			return model, nil
		}
		if !authorization.Permitted(model.identity(), record).CanDelete {
			model.statusMessage = "you cannot delete this record"
			return model, nil
		}
		return model, deleteCmd(model.controller, record)

	case key.Matches(msg, keys.Transition):
		record, ok := model.selectedRecord()
		if !ok {
			return model, nil
		}
		if !authorization.Permitted(model.identity(), record).CanChangeStatus {
			model.statusMessage = "status changes need the authority role"
			return model, nil
		}
		if !record.Status.Valid() {
			model.statusMessage = fmt.Sprintf("status %q is not transitionable", record.Status)
			return model, nil
		}
		model.dropdown = transitionDropdown(record)
		return model, nil
	}

	return model, nil
}

func (model Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		model.searching = false
		model.searchInput.Blur()
		search := model.searchInput.Value()
		model.fetching = true
		return model, tea.Batch(fetchListCmd(model.client, model.list.SetFilter(issuesync.FilterChange{
			Search: &search,
		})), model.spin.Tick)
	case "esc":
		model.searching = false
		model.searchInput.Blur()
		return model, nil
	}
	var cmd tea.Cmd
	model.searchInput, cmd = model.searchInput.Update(msg)
	return model, cmd
}

func (model Model) handleDropdownKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	dropdown := model.dropdown
	switch msg.String() {
	case "up", "k":
		dropdown.MoveUp()
		return model, nil
	case "down", "j":
		dropdown.MoveDown()
		return model, nil
	case "esc":
		model.dropdown = nil
		return model, nil
	case "enter":
		selected := dropdown.Selected()
		field := dropdown.Field
		model.dropdown = nil
		switch field {
		case dropdownStatusFilter:
			status := civic.Status(selected.Value)
			model.fetching = true
			return model, tea.Batch(fetchListCmd(model.client, model.list.SetFilter(issuesync.FilterChange{
				Status: &status,
			})), model.spin.Tick)
		case dropdownCategoryFilter:
			category := civic.Category(selected.Value)
			model.fetching = true
			return model, tea.Batch(fetchListCmd(model.client, model.list.SetFilter(issuesync.FilterChange{
				Category: &category,
			})), model.spin.Tick)
		case dropdownTransition:
			record, ok := model.selectedRecord()
			if !ok || record.ID != dropdown.RecordID {
				model.statusMessage = "record changed under the dropdown; try again"
				return model, nil
			}
			model.pendingRecord = record
			model.pendingStatus = civic.Status(selected.Value)
			model.commentInput.SetValue("")
			model.mode = modeComment
			return model, model.commentInput.Focus()
		}
	}
	return model, nil
}

func (model Model) handleCommentKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		model.mode = modeList
		model.commentInput.Blur()
		return model, setStatusCmd(model.controller, model.pendingRecord, model.pendingStatus,
			model.commentInput.Value())
	case "esc":
		model.mode = modeList
		model.commentInput.Blur()
		return model, nil
	}
	var cmd tea.Cmd
	model.commentInput, cmd = model.commentInput.Update(msg)
	return model, cmd
}

func (model Model) handleAuthKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if model.auth.busy {
		return model, nil
	}
	switch msg.String() {
	case "esc":
		// Browsing is open to everyone; only mutations need login.
		model.mode = modeList
		return model, nil
	case "tab", "down":
		model.auth.cycleFocus(1)
		return model, nil
	case "shift+tab", "up":
		model.auth.cycleFocus(-1)
		return model, nil
	case "ctrl+t":
		model.auth.toggleMode()
		return model, nil
	case "ctrl+r":
		if model.auth.registering {
			model.auth.toggleRole()
		}
		return model, nil
	case "enter":
		if !model.auth.validate() {
			return model, nil
		}
		model.auth.busy = true
		if model.auth.registering {
			return model, tea.Batch(
				registerCmd(model.sessions, model.auth.profile()),
				model.spin.Tick,
			)
		}
		return model, tea.Batch(
			loginCmd(model.sessions, model.auth.credentials()),
			model.spin.Tick,
		)
	case "ctrl+c":
		return model, tea.Quit
	}
	return model, model.auth.updateInputs(msg)
}

func (model Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if model.form.busy {
		return model, nil
	}
	switch msg.String() {
	case "esc":
		// Cancel discards the draft by design; the form is rebuilt
		// fresh next time.
		model.form = newSubmitForm(model.locator)
		model.mode = modeList
		return model, nil
	case "tab":
		return model, model.form.cycleFocus(1)
	case "shift+tab":
		return model, model.form.cycleFocus(-1)
	case "ctrl+d":
		draft := model.form.draft()
		if err := draft.Validate(); err != nil {
			model.form.errorText = errorLine(err)
			return model, nil
		}
		model.form.busy = true
		model.form.errorText = ""
		return model, tea.Batch(
			createCmd(model.controller, draft),
			model.spin.Tick,
		)
	case "ctrl+g":
		if model.locator == nil {
			model.form.noticeText = "no geolocation source configured"
			return model, nil
		}
		return model, locateCmd(model.locator)
	case "ctrl+o":
		path := model.form.imagePath.Value()
		if path == "" {
			model.form.noticeText = "enter a photo path first"
			return model, nil
		}
		return model, readImageCmd(path)
	case "ctrl+c":
		return model, tea.Quit
	}

	if model.form.focus == submitFieldCategory {
		switch msg.String() {
		case "left", "h":
			model.form.cycleCategory(-1)
			return model, nil
		case "right", "l", " ":
			model.form.cycleCategory(1)
			return model, nil
		}
	}
	return model, model.form.updateInputs(msg)
}

// errorLine flattens an error for the one-line notice areas,
// preferring the server's own message when there is one.
func errorLine(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr.Message()
	}
	return err.Error()
}

// statusFilterDropdown offers "all" plus the closed status set.
func statusFilterDropdown(active civic.Status) *tui.DropdownOverlay {
	options := []tui.DropdownOption{{Label: "All statuses", Value: ""}}
	cursor := 0
	for index, status := range civic.Statuses {
		options = append(options, tui.DropdownOption{Label: string(status), Value: string(status)})
		if status == active {
			cursor = index + 1
		}
	}
	return &tui.DropdownOverlay{
		Options: options,
		Cursor:  cursor,
		AnchorX: 2, AnchorY: 3,
		Field: dropdownStatusFilter,
	}
}

// categoryFilterDropdown offers "all" plus the closed category set.
func categoryFilterDropdown(active civic.Category) *tui.DropdownOverlay {
	options := []tui.DropdownOption{{Label: "All categories", Value: ""}}
	cursor := 0
	for index, category := range civic.Categories {
		options = append(options, tui.DropdownOption{Label: string(category), Value: string(category)})
		if category == active {
			cursor = index + 1
		}
	}
	return &tui.DropdownOverlay{
		Options: options,
		Cursor:  cursor,
		AnchorX: 2, AnchorY: 3,
		Field: dropdownCategoryFilter,
	}
}

// transitionDropdown offers the closed status set for one record.
// Callers gate on Status.Valid first: an unrecognized status is shown
// verbatim but never transitioned from.
func transitionDropdown(record civic.Record) *tui.DropdownOverlay {
	var options []tui.DropdownOption
	cursor := 0
	for index, status := range civic.Statuses {
		options = append(options, tui.DropdownOption{Label: string(status), Value: string(status)})
		if status == record.Status {
			cursor = index
		}
	}
	return &tui.DropdownOverlay{
		Options: options,
		Cursor:  cursor,
		AnchorX: 2, AnchorY: 3,
		Field:    dropdownTransition,
		RecordID: record.ID,
	}
}
