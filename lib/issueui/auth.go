// Copyright 2026 The Citydesk Authors
// SPDX-License-Identifier: Apache-2.0

package issueui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/citydesk-project/citydesk/lib/api"
	"github.com/citydesk-project/citydesk/lib/civic"
	"github.com/citydesk-project/citydesk/lib/tui"
)

// authField indexes the auth form inputs in focus order.
type authField int

const (
	authFieldName authField = iota // Register mode only.
	authFieldEmail
	authFieldPassword
	authFieldCount
)

// authForm is the login/registration pane. It owns its inputs and
// error line; submission itself is the parent model's job, which
// reads the values off the form and issues the command.
type authForm struct {
	inputs      [authFieldCount]textinput.Model
	focus       authField
	registering bool
	role        civic.Role
	errorText   string
	busy        bool
}

func newAuthForm() authForm {
	form := authForm{role: civic.RoleCitizen}

	name := textinput.New()
	name.Placeholder = "Full name"
	name.CharLimit = 120
	form.inputs[authFieldName] = name

	email := textinput.New()
	email.Placeholder = "Email"
	email.CharLimit = 254
	form.inputs[authFieldEmail] = email

	password := textinput.New()
	password.Placeholder = "Password"
	password.EchoMode = textinput.EchoPassword
	password.CharLimit = 254
	form.inputs[authFieldPassword] = password

	form.focus = authFieldEmail
	form.inputs[authFieldEmail].Focus()
	return form
}

// firstField is the first visible input: name when registering, email
// otherwise.
func (form *authForm) firstField() authField {
	if form.registering {
		return authFieldName
	}
	return authFieldEmail
}

func (form *authForm) setFocus(field authField) {
	for index := range form.inputs {
		form.inputs[index].Blur()
	}
	form.focus = field
	form.inputs[field].Focus()
}

// cycleFocus advances focus by delta (+1 or -1), skipping the name
// field in login mode.
func (form *authForm) cycleFocus(delta int) {
	first := form.firstField()
	span := int(authFieldCount - first)
	position := (int(form.focus-first) + delta + span) % span
	form.setFocus(first + authField(position))
}

// toggleMode switches between login and registration, keeping typed
// values.
func (form *authForm) toggleMode() {
	form.registering = !form.registering
	form.errorText = ""
	if !form.registering && form.focus == authFieldName {
		form.setFocus(authFieldEmail)
	}
}

func (form *authForm) toggleRole() {
	if form.role == civic.RoleCitizen {
		form.role = civic.RoleAuthority
	} else {
		form.role = civic.RoleCitizen
	}
}

// validate checks the visible fields, setting errorText and returning
// false when submission should not proceed.
func (form *authForm) validate() bool {
	if form.registering && strings.TrimSpace(form.inputs[authFieldName].Value()) == "" {
		form.errorText = "name is required"
		return false
	}
	if strings.TrimSpace(form.inputs[authFieldEmail].Value()) == "" {
		form.errorText = "email is required"
		return false
	}
	if form.inputs[authFieldPassword].Value() == "" {
		form.errorText = "password is required"
		return false
	}
	form.errorText = ""
	return true
}

func (form *authForm) credentials() api.Credentials {
	return api.Credentials{
		Email:    strings.TrimSpace(form.inputs[authFieldEmail].Value()),
		Password: form.inputs[authFieldPassword].Value(),
	}
}

func (form *authForm) profile() api.Profile {
	return api.Profile{
		DisplayName: strings.TrimSpace(form.inputs[authFieldName].Value()),
		Email:       strings.TrimSpace(form.inputs[authFieldEmail].Value()),
		Password:    form.inputs[authFieldPassword].Value(),
		Role:        form.role,
	}
}

// updateInputs routes a message to the focused input.
func (form *authForm) updateInputs(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	form.inputs[form.focus], cmd = form.inputs[form.focus].Update(msg)
	return cmd
}

// render draws the auth pane.
func (form *authForm) render(theme tui.Theme, width int) string {
	labelStyle := lipgloss.NewStyle().Foreground(theme.FaintText)
	titleStyle := lipgloss.NewStyle().Foreground(theme.HeaderForeground).Bold(true)
	errorStyle := lipgloss.NewStyle().Foreground(theme.ErrorText)
	helpStyle := lipgloss.NewStyle().Foreground(theme.HelpText)

	var lines []string
	if form.registering {
		lines = append(lines, titleStyle.Render("Create an account"))
		lines = append(lines, "")
		lines = append(lines, labelStyle.Render("Name"))
		lines = append(lines, form.inputs[authFieldName].View())
	} else {
		lines = append(lines, titleStyle.Render("Log in"))
		lines = append(lines, "")
	}
	lines = append(lines, labelStyle.Render("Email"))
	lines = append(lines, form.inputs[authFieldEmail].View())
	lines = append(lines, labelStyle.Render("Password"))
	lines = append(lines, form.inputs[authFieldPassword].View())

	if form.registering {
		lines = append(lines, "")
		lines = append(lines, labelStyle.Render("Role (ctrl+r to switch): ")+string(form.role))
	}

	if form.errorText != "" {
		lines = append(lines, "")
		lines = append(lines, errorStyle.Render(form.errorText))
	}
	if form.busy {
		lines = append(lines, "")
		lines = append(lines, labelStyle.Render("signing in…"))
	}

	lines = append(lines, "")
	mode := "register"
	if form.registering {
		mode = "log in"
	}
	lines = append(lines, helpStyle.Render(
		"enter submit · tab next field · ctrl+t "+mode+" instead · esc back"))

	pane := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return lipgloss.NewStyle().Padding(1, 2).MaxWidth(width).Render(pane)
}
