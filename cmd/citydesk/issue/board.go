// Copyright 2026 The Citydesk Authors
// SPDX-License-Identifier: Apache-2.0

package issue

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/citydesk-project/citydesk/cmd/citydesk/cli"
	"github.com/citydesk-project/citydesk/lib/geo"
	"github.com/citydesk-project/citydesk/lib/issuesync"
	"github.com/citydesk-project/citydesk/lib/issueui"
)

// BoardCommand returns the "board" command that launches the
// interactive issue board TUI.
func BoardCommand() *cli.Command {
	var configPath string

	return &cli.Command{
		Name:    "board",
		Summary: "Interactive issue board",
		Description: `Launch the interactive issue board: browse and filter reports, open
details with status history, submit new reports, and (with the
authority role) transition statuses.

Browsing works without a session; mutations prompt for login. If the
config defines a geolocate command or static coordinates, the
submission form can fill in the location with one keystroke.`,
		Usage: "citydesk board [flags]",
		Examples: []cli.Example{
			{
				Description: "Open the board",
				Command:     "citydesk board",
			},
			{
				Description: "Open against a non-default deployment",
				Command:     "citydesk board --config ./staging.yaml",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("board", pflag.ContinueOnError)
			flagSet.StringVar(&configPath, "config", "", "path to config file (default: $CITYDESK_CONFIG)")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			env, err := cli.LoadEnv(configPath)
			if err != nil {
				return err
			}

			list := issuesync.NewListSync(env.Config.Board.PageSize)
			analytics := &issuesync.AnalyticsSync{}
			controller := issuesync.NewController(env.Client, env.Sessions, list, analytics, env.Logger)

			var locator geo.Provider
			if provider, ok := geo.FromConfig(env.Config.Geolocate); ok {
				locator = provider
			}

			model := issueui.NewModel(issueui.ModelConfig{
				Client:     env.Client,
				Sessions:   env.Sessions,
				Controller: controller,
				List:       list,
				Analytics:  analytics,
				Locator:    locator,
			})
			program := tea.NewProgram(model, tea.WithAltScreen())
			_, err = program.Run()
			return err
		},
	}
}
