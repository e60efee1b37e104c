// Copyright 2026 The Citydesk Authors
// SPDX-License-Identifier: Apache-2.0

package issueui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/citydesk-project/citydesk/lib/authorization"
	"github.com/citydesk-project/citydesk/lib/civic"
	"github.com/citydesk-project/citydesk/lib/mappreview"
	"github.com/citydesk-project/citydesk/lib/tui"
)

func (model Model) View() string {
	width := model.width
	if width <= 0 {
		width = 80
	}

	var body string
	switch model.mode {
	case modeAuth:
		body = model.auth.render(model.theme, width)
	case modeForm:
		body = model.form.render(model.theme, width)
	default:
		if model.detailOpen {
			body = model.renderDetail(width)
		} else {
			body = model.renderList(width)
			if model.mode == modeComment {
				body = lipgloss.JoinVertical(lipgloss.Left, body, "",
					lipgloss.NewStyle().Padding(0, 2).Render(model.renderCommentPrompt()))
			}
		}
	}

	view := lipgloss.JoinVertical(lipgloss.Left,
		model.renderHeader(width),
		body,
		model.renderFooter(width),
	)

	if model.dropdown != nil {
		view = tui.SpliceOverlay(view, model.dropdown.Render(model.theme),
			model.dropdown.AnchorX, model.dropdown.AnchorY)
	}
	return view
}

// renderHeader is the title bar plus the analytics strip. The strip
// shows the server-side aggregate, never counts derived from the
// visible page.
func (model Model) renderHeader(width int) string {
	theme := model.theme
	titleStyle := lipgloss.NewStyle().Foreground(theme.HeaderForeground).Bold(true)
	faint := lipgloss.NewStyle().Foreground(theme.FaintText)

	left := titleStyle.Render("citydesk")
	if identity := model.identity(); identity != nil {
		left += faint.Render(fmt.Sprintf("  %s (%s)", identity.DisplayName, identity.Role))
	} else {
		left += faint.Render("  browsing anonymously")
	}

	strip := faint.Render("analytics pending")
	if summary, ok := model.analytics.Summary(); ok {
		strip = fmt.Sprintf("%s %d  %s %d  %s %d",
			faint.Render("Total"), summary.TotalCount,
			lipgloss.NewStyle().Foreground(theme.StatusPending).Render("Pending"), summary.PendingCount,
			lipgloss.NewStyle().Foreground(theme.StatusCompleted).Render("Completed"), summary.CompletedCount,
		)
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(strip) - 2
	if gap < 1 {
		gap = 1
	}
	return " " + left + strings.Repeat(" ", gap) + strip
}

// renderFilterBar shows the active selection and the search input
// while it is focused.
func (model Model) renderFilterBar(width int) string {
	theme := model.theme
	faint := lipgloss.NewStyle().Foreground(theme.FaintText)

	var parts []string
	query := model.list.Query()
	if query.Status != "" {
		parts = append(parts, "status: "+string(query.Status))
	}
	if query.Category != "" {
		parts = append(parts, "category: "+string(query.Category))
	}
	if query.Search != "" && !model.searching {
		parts = append(parts, "search: "+query.Search)
	}
	parts = append(parts, fmt.Sprintf("page %d", query.Page))

	line := faint.Render(strings.Join(parts, "  ·  "))
	if model.searching {
		line = "search: " + model.searchInput.View()
	}
	if model.fetching {
		line += "  " + model.spin.View()
	}
	return lipgloss.NewStyle().Padding(0, 2).MaxWidth(width).Render(line)
}

func (model Model) renderList(width int) string {
	theme := model.theme
	records := model.visibleRecords()

	var rows []string
	rows = append(rows, model.renderFilterBar(width), "")

	if err := model.list.Err(); err != nil {
		rows = append(rows, lipgloss.NewStyle().Foreground(theme.ErrorText).
			Padding(0, 2).Render("fetch failed: "+errorLine(err)+" (showing last good list)"), "")
	}

	if len(records) == 0 {
		notice := "no records match the current filters"
		if !model.list.Loaded() {
			notice = "loading records"
		}
		rows = append(rows, lipgloss.NewStyle().Foreground(theme.FaintText).
			Padding(0, 2).Render(notice))
	}

	for index, record := range records {
		rows = append(rows, model.renderRow(record, index == model.cursor, width))
	}

	if model.statusMessage != "" {
		rows = append(rows, "", lipgloss.NewStyle().Foreground(theme.FaintText).
			Padding(0, 2).Render(model.statusMessage))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderRow is one record card: status-colored marker, title, and a
// one-line excerpt of the description.
func (model Model) renderRow(record civic.Record, selected bool, width int) string {
	theme := model.theme
	statusStyle := lipgloss.NewStyle().Foreground(theme.StatusColor(record.Status))
	faint := lipgloss.NewStyle().Foreground(theme.FaintText)

	marker := "  "
	titleStyle := lipgloss.NewStyle().Foreground(theme.NormalText)
	if selected {
		marker = "> "
		titleStyle = titleStyle.
			Foreground(theme.SelectedForeground).
			Background(theme.SelectedBackground)
	}

	header := marker + statusStyle.Render("● ") + titleStyle.Render(record.Title) +
		faint.Render(fmt.Sprintf("  %s · %s · %s",
			record.Status, record.Category, record.CreatedAt.Format("2006-01-02")))

	excerptWidth := width - 6
	if excerptWidth < 10 {
		excerptWidth = 10
	}
	lines := []string{header}
	for _, line := range tui.Excerpt(record.Description, excerptWidth, 1) {
		lines = append(lines, "    "+faint.Render(line))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (model *Model) openDetail(record civic.Record) {
	model.detailOpen = true
	model.detailID = record.ID
	model.updates = nil
	model.updatesErr = nil
	if model.detail.Width == 0 {
		model.detail = viewport.New(max(model.width-4, 40), max(model.height-6, 10))
	}
	model.refreshDetail()
}

func (model *Model) closeDetail() {
	model.detailOpen = false
	model.detailID = ""
	model.updates = nil
	model.updatesErr = nil
}

// refreshDetail rebuilds the viewport content from the CURRENT list
// snapshot, so a refetch that changed the record re-renders the open
// pane rather than showing the stale copy.
func (model *Model) refreshDetail() {
	record, ok := model.recordByID(model.detailID)
	if !ok {
		// The record fell off the page (deleted elsewhere, filter
		// change). Keep the pane open with a note; esc closes it.
		model.detail.SetContent("record no longer in the current page")
		return
	}
	model.detail.SetContent(model.detailContent(record))
}

func (model *Model) recordByID(id string) (civic.Record, bool) {
	for _, record := range model.list.Records() {
		if record.ID == id {
			return record, true
		}
	}
	return civic.Record{}, false
}

func (model *Model) detailContent(record civic.Record) string {
	theme := model.theme
	faint := lipgloss.NewStyle().Foreground(theme.FaintText)
	heading := lipgloss.NewStyle().Foreground(theme.HeaderForeground).Bold(true)
	link := lipgloss.NewStyle().Foreground(theme.LinkForeground)
	width := model.detail.Width
	if width <= 0 {
		width = 76
	}

	statusStyle := lipgloss.NewStyle().Foreground(theme.StatusColor(record.Status))
	var sections []string
	sections = append(sections,
		heading.Render(record.Title),
		statusStyle.Render(string(record.Status))+
			faint.Render(fmt.Sprintf("  ·  %s  ·  updated %s",
				record.Category, record.UpdatedAt.Format("2006-01-02 15:04"))),
		"",
	)

	if record.OwnerDisplayName != "" {
		sections = append(sections,
			faint.Render("reported by ")+record.OwnerDisplayName+
				faint.Render(" <"+record.OwnerEmail+">"),
			"")
	}

	sections = append(sections, tui.RenderMarkdown(record.Description, theme, width))

	if record.HasCoordinates() {
		latitude, longitude := *record.Latitude, *record.Longitude
		sections = append(sections,
			heading.Render("Location"),
			fmt.Sprintf("  %.6f, %.6f", latitude, longitude),
			"  "+link.Render(mappreview.GoogleMapsLink(latitude, longitude)),
			"  "+link.Render(mappreview.OpenStreetMapEmbed(latitude, longitude)),
			"",
		)
	}

	if record.ImageRef != "" {
		sections = append(sections,
			faint.Render("photo: ")+record.ImageRef, "")
	}
	if record.ResolutionComment != "" {
		sections = append(sections,
			heading.Render("Resolution"),
			"  "+record.ResolutionComment,
			"")
	}

	sections = append(sections, heading.Render("History"))
	switch {
	case model.updatesErr != nil:
		sections = append(sections,
			lipgloss.NewStyle().Foreground(theme.ErrorText).
				Render("  history unavailable: "+errorLine(model.updatesErr)))
	case len(model.updates) == 0:
		sections = append(sections, faint.Render("  no status changes yet"))
	default:
		for _, update := range model.updates {
			line := fmt.Sprintf("  %s  %s → %s",
				update.CreatedAt.Format("2006-01-02 15:04"),
				update.OldStatus, update.NewStatus)
			sections = append(sections, line)
			if update.Comment != "" {
				sections = append(sections, faint.Render("      "+update.Comment))
			}
		}
	}

	// Action hints reflect what the gate actually allows.
	permissions := authorization.Permitted(model.identity(), record)
	var actions []string
	if permissions.CanDelete {
		actions = append(actions, "d delete")
	}
	if permissions.CanChangeStatus {
		actions = append(actions, "t set status")
	}
	if len(actions) > 0 {
		sections = append(sections, "", faint.Render(strings.Join(actions, "  ·  ")))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (model Model) renderDetail(width int) string {
	pane := lipgloss.NewStyle().
		Padding(0, 2).
		MaxWidth(width).
		Render(model.detail.View())
	if model.mode == modeComment {
		pane = lipgloss.JoinVertical(lipgloss.Left, pane, "",
			lipgloss.NewStyle().Padding(0, 2).Render(model.renderCommentPrompt()))
	}
	return pane
}

func (model Model) renderCommentPrompt() string {
	return fmt.Sprintf("set %q to %s: %s",
		model.pendingRecord.Title, model.pendingStatus, model.commentInput.View())
}

func (model Model) renderFooter(width int) string {
	theme := model.theme
	help := lipgloss.NewStyle().Foreground(theme.HelpText)

	var text string
	switch {
	case model.dropdown != nil:
		text = "↑/↓ choose · enter apply · esc dismiss"
	case model.mode == modeComment:
		text = "enter apply status · esc cancel"
	case model.mode == modeAuth, model.mode == modeForm:
		return "" // Those panes carry their own help line.
	case model.detailOpen:
		text = "↑/↓ scroll · esc back · q quit"
	default:
		text = "↑/↓ select · h/l page · enter open · / search · s/c filter · x clear · n report · r refresh · q quit"
	}
	return lipgloss.NewStyle().Padding(0, 1).MaxWidth(width).Render(help.Render(text))
}
