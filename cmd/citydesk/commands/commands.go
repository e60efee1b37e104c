// Copyright 2026 The Citydesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the complete citydesk CLI command tree.
package commands

import (
	"github.com/citydesk-project/citydesk/cmd/citydesk/cli"
	"github.com/citydesk-project/citydesk/cmd/citydesk/issue"
	"github.com/citydesk-project/citydesk/cmd/citydesk/triage"
)

// Root builds and returns the complete citydesk CLI command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name: "citydesk",
		Description: `citydesk: civic issue reporting from the terminal.

Report and browse civic issues (potholes, streetlights, drainage),
track their triage status, and classify free-text complaints.
Interactive boards for day-to-day use, flag-driven commands for
scripting.`,
		Subcommands: []*cli.Command{
			issue.BoardCommand(),
			issue.ListCommand(),
			issue.ReportCommand(),
			issue.RemoveCommand(),
			issue.StatusCommand(),
			issue.UpdatesCommand(),
			issue.AnalyticsCommand(),
			triage.Command(),
			issue.LoginCommand(),
			issue.RegisterCommand(),
			issue.LogoutCommand(),
			issue.WhoAmICommand(),
		},
	}
}
