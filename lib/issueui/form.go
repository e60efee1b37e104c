// Copyright 2026 The Citydesk Authors
// SPDX-License-Identifier: Apache-2.0

package issueui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/citydesk-project/citydesk/lib/civic"
	"github.com/citydesk-project/citydesk/lib/geo"
	"github.com/citydesk-project/citydesk/lib/tui"
)

// submitField indexes the submission form inputs in focus order. The
// category row sits between description and latitude but is not a
// text input; it cycles with left/right while focused.
type submitField int

const (
	submitFieldTitle submitField = iota
	submitFieldDescription
	submitFieldCategory
	submitFieldLatitude
	submitFieldLongitude
	submitFieldImage
	submitFieldCount
)

// submitForm is the issue submission form. Its state is exactly the
// draft being edited: on a failed submit nothing here is reset, so
// the user corrects in place; on success the parent discards the
// whole form.
type submitForm struct {
	title       textinput.Model
	description textarea.Model
	latitude    textinput.Model
	longitude   textinput.Model
	imagePath   textinput.Model

	categoryIndex int
	focus         submitField

	// Attached image, loaded from imagePath via imageResultMsg.
	imageBytes []byte
	imageName  string

	errorText  string
	noticeText string
	busy       bool

	locator geo.Provider // Nil when geolocation is not configured.
}

func newSubmitForm(locator geo.Provider) submitForm {
	title := textinput.New()
	title.Placeholder = "Title"
	title.CharLimit = 200
	title.Focus()

	description := textarea.New()
	description.Placeholder = "Describe the issue…"
	description.SetHeight(5)

	latitude := textinput.New()
	latitude.Placeholder = "Latitude (optional)"
	latitude.CharLimit = 24

	longitude := textinput.New()
	longitude.Placeholder = "Longitude (optional)"
	longitude.CharLimit = 24

	imagePath := textinput.New()
	imagePath.Placeholder = "Photo path (optional)"
	imagePath.CharLimit = 512

	return submitForm{
		title:       title,
		description: description,
		latitude:    latitude,
		longitude:   longitude,
		imagePath:   imagePath,
		locator:     locator,
	}
}

func (form *submitForm) blurAll() {
	form.title.Blur()
	form.description.Blur()
	form.latitude.Blur()
	form.longitude.Blur()
	form.imagePath.Blur()
}

func (form *submitForm) setFocus(field submitField) tea.Cmd {
	form.blurAll()
	form.focus = field
	switch field {
	case submitFieldTitle:
		return form.title.Focus()
	case submitFieldDescription:
		return form.description.Focus()
	case submitFieldLatitude:
		return form.latitude.Focus()
	case submitFieldLongitude:
		return form.longitude.Focus()
	case submitFieldImage:
		return form.imagePath.Focus()
	}
	return nil
}

func (form *submitForm) cycleFocus(delta int) tea.Cmd {
	next := (int(form.focus) + delta + int(submitFieldCount)) % int(submitFieldCount)
	return form.setFocus(submitField(next))
}

func (form *submitForm) cycleCategory(delta int) {
	count := len(civic.Categories)
	form.categoryIndex = (form.categoryIndex + delta + count) % count
}

// draft assembles the current field values. Validation happens in
// civic.Draft.Validate via the mutation controller, not here.
func (form *submitForm) draft() civic.Draft {
	return civic.Draft{
		Title:       form.title.Value(),
		Description: form.description.Value(),
		Category:    civic.Categories[form.categoryIndex],
		Latitude:    strings.TrimSpace(form.latitude.Value()),
		Longitude:   strings.TrimSpace(form.longitude.Value()),
		Image:       form.imageBytes,
		ImageName:   form.imageName,
	}
}

// applyPosition fills the coordinate fields from a geolocation
// result, overwriting whatever was typed.
func (form *submitForm) applyPosition(position geo.Position) {
	form.latitude.SetValue(strconv.FormatFloat(position.Latitude, 'f', 6, 64))
	form.longitude.SetValue(strconv.FormatFloat(position.Longitude, 'f', 6, 64))
	form.noticeText = "location filled"
}

// attachImage records a loaded photo on the draft.
func (form *submitForm) attachImage(name string, bytes []byte) {
	form.imageBytes = bytes
	form.imageName = name
	form.noticeText = fmt.Sprintf("attached %s (%d bytes)", name, len(bytes))
}

// updateInputs routes a message to the focused input.
func (form *submitForm) updateInputs(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch form.focus {
	case submitFieldTitle:
		form.title, cmd = form.title.Update(msg)
	case submitFieldDescription:
		form.description, cmd = form.description.Update(msg)
	case submitFieldLatitude:
		form.latitude, cmd = form.latitude.Update(msg)
	case submitFieldLongitude:
		form.longitude, cmd = form.longitude.Update(msg)
	case submitFieldImage:
		form.imagePath, cmd = form.imagePath.Update(msg)
	}
	return cmd
}

func (form *submitForm) render(theme tui.Theme, width int) string {
	labelStyle := lipgloss.NewStyle().Foreground(theme.FaintText)
	titleStyle := lipgloss.NewStyle().Foreground(theme.HeaderForeground).Bold(true)
	errorStyle := lipgloss.NewStyle().Foreground(theme.ErrorText)
	helpStyle := lipgloss.NewStyle().Foreground(theme.HelpText)

	category := string(civic.Categories[form.categoryIndex])
	categoryLine := "  " + category
	if form.focus == submitFieldCategory {
		categoryLine = "> " + category + "  (←/→ to change)"
	}

	lines := []string{
		titleStyle.Render("Report an issue"),
		"",
		labelStyle.Render("Title"),
		form.title.View(),
		labelStyle.Render("Description"),
		form.description.View(),
		labelStyle.Render("Category"),
		categoryLine,
		labelStyle.Render("Location"),
		form.latitude.View(),
		form.longitude.View(),
		labelStyle.Render("Photo"),
		form.imagePath.View(),
	}

	if form.imageName != "" {
		lines = append(lines, labelStyle.Render(
			fmt.Sprintf("attached: %s (%d bytes)", form.imageName, len(form.imageBytes))))
	}
	if form.noticeText != "" {
		lines = append(lines, "", labelStyle.Render(form.noticeText))
	}
	if form.errorText != "" {
		lines = append(lines, "", errorStyle.Render(form.errorText))
	}
	if form.busy {
		lines = append(lines, "", labelStyle.Render("submitting…"))
	}

	help := "C-d submit · tab next field · C-o attach photo · esc cancel"
	if form.locator != nil {
		help = "C-d submit · tab next field · C-g locate · C-o attach photo · esc cancel"
	}
	lines = append(lines, "", helpStyle.Render(help))

	pane := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return lipgloss.NewStyle().Padding(1, 2).MaxWidth(width).Render(pane)
}
