// Copyright 2026 The Citydesk Authors
// SPDX-License-Identifier: Apache-2.0

package triageui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/citydesk-project/citydesk/lib/civic"
	"github.com/citydesk-project/citydesk/lib/tui"
)

func (model Model) View() string {
	width := model.width
	if width <= 0 {
		width = 80
	}

	sections := []string{
		model.renderHeader(),
		model.renderDraft(width),
		model.renderResult(width),
		model.renderTable(width),
		model.renderFooter(),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (model Model) renderHeader() string {
	title := lipgloss.NewStyle().
		Foreground(model.theme.HeaderForeground).
		Bold(true).
		Render("citydesk triage")
	return " " + title
}

func (model Model) renderDraft(width int) string {
	theme := model.theme
	faint := lipgloss.NewStyle().Foreground(theme.FaintText)
	errorStyle := lipgloss.NewStyle().Foreground(theme.ErrorText)

	label := "Complaint"
	if model.focus == paneDraft {
		label = "Complaint (editing)"
	}
	lines := []string{faint.Render(label), model.draft.View()}

	if model.guardErr != "" {
		lines = append(lines, errorStyle.Render(model.guardErr))
	}
	if model.state == stateSubmitting {
		lines = append(lines, model.spin.View()+faint.Render(" classifying"))
	}
	if model.state == stateFailed && model.submitErr != "" {
		lines = append(lines, errorStyle.Render("classification failed: "+model.submitErr),
			faint.Render("your draft is unchanged; edit and resubmit"))
	}
	return lipgloss.NewStyle().Padding(0, 2).MaxWidth(width).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// renderResult shows the most recent prediction. Absent result means
// idle or in flight; the pane collapses rather than showing a shell.
func (model Model) renderResult(width int) string {
	if model.result == nil {
		return ""
	}
	theme := model.theme
	heading := lipgloss.NewStyle().Foreground(theme.HeaderForeground).Bold(true)
	urgencyStyle := lipgloss.NewStyle().Foreground(theme.UrgencyColor(model.result.Urgency))

	markdownWidth := max(width-8, 20)
	lines := []string{
		heading.Render("Prediction"),
		fmt.Sprintf("  %s · ", model.result.Category) +
			urgencyStyle.Render(string(model.result.Urgency)+" urgency"),
		"",
		tui.RenderMarkdown(model.result.Acknowledgment, theme, markdownWidth),
	}
	if model.result.Suggestion != "" {
		lines = append(lines,
			heading.Render("Suggested steps"),
			tui.RenderMarkdown(model.result.Suggestion, theme, markdownWidth),
		)
	}
	return lipgloss.NewStyle().Padding(0, 2).MaxWidth(width).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (model Model) renderTable(width int) string {
	theme := model.theme
	faint := lipgloss.NewStyle().Foreground(theme.FaintText)
	heading := lipgloss.NewStyle().Foreground(theme.HeaderForeground).Bold(true)

	label := "Recent complaints"
	if filter := urgencyFilters[model.filterIndex]; filter != "" {
		label += " · " + string(filter) + " only"
	}
	lines := []string{heading.Render(label)}

	if model.complaintsErr != nil {
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.ErrorText).
			Render("table unavailable: "+errorLine(model.complaintsErr)))
	}

	visible := model.visibleComplaints()
	switch {
	case !model.loaded && model.complaintsErr == nil:
		lines = append(lines, faint.Render("loading complaints"))
	case len(visible) == 0:
		lines = append(lines, faint.Render("no complaints match"))
	}

	for index, complaint := range visible {
		lines = append(lines, model.renderComplaintRow(complaint, index == model.cursor, width))
	}
	return lipgloss.NewStyle().Padding(0, 2).MaxWidth(width).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (model Model) renderComplaintRow(complaint civic.Complaint, selected bool, width int) string {
	theme := model.theme
	urgencyStyle := lipgloss.NewStyle().Foreground(theme.UrgencyColor(complaint.Urgency))
	faint := lipgloss.NewStyle().Foreground(theme.FaintText)

	marker := "  "
	textStyle := lipgloss.NewStyle().Foreground(theme.NormalText)
	if selected && model.focus == paneTable {
		marker = "> "
		textStyle = textStyle.
			Foreground(theme.SelectedForeground).
			Background(theme.SelectedBackground)
	}

	excerptWidth := max(width-30, 20)
	text := complaint.Text
	if excerpt := tui.Excerpt(text, excerptWidth, 1); len(excerpt) > 0 {
		text = excerpt[0]
	}
	return marker +
		urgencyStyle.Render(fmt.Sprintf("%-6s", complaint.Urgency)) + " " +
		textStyle.Render(text) +
		faint.Render(fmt.Sprintf("  %s · %s",
			complaint.Category, complaint.CreatedAt.Format("2006-01-02")))
}

func (model Model) renderFooter() string {
	help := lipgloss.NewStyle().Foreground(model.theme.HelpText)
	parts := []string{"C-d classify", "tab switch pane"}
	if model.focus == paneTable {
		parts = append(parts, "j/k select", "u urgency filter", "r refresh", "q quit")
	}
	parts = append(parts, "C-c quit")
	return " " + help.Render(strings.Join(parts, " · "))
}
