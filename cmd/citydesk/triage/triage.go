// Copyright 2026 The Citydesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package triage implements the complaint-triage commands of the
// citydesk CLI: the interactive triage TUI plus scriptable classify
// and complaints subcommands.
package triage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/citydesk-project/citydesk/cmd/citydesk/cli"
	"github.com/citydesk-project/citydesk/lib/triageui"
)

// Command returns the "triage" command tree. Bare "citydesk triage"
// launches the TUI; classify and complaints are one-shot subcommands.
func Command() *cli.Command {
	var configPath string

	return &cli.Command{
		Name:    "triage",
		Summary: "Complaint triage: classify free text, browse complaints",
		Description: `Work with the complaint classification service. Without a
subcommand, launches the interactive triage client: draft a
complaint, submit it for classification, and browse previously
classified complaints by urgency.

Classification is open to everyone; no login is required.`,
		Usage: "citydesk triage [command] [flags]",
		Examples: []cli.Example{
			{
				Description: "Open the interactive triage client",
				Command:     "citydesk triage",
			},
			{
				Description: "Classify a complaint from the command line",
				Command:     "citydesk triage classify \"water main leaking on Oak Street\"",
			},
		},
		Subcommands: []*cli.Command{
			ClassifyCommand(),
			ComplaintsCommand(),
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("triage", pflag.ContinueOnError)
			flagSet.StringVar(&configPath, "config", "", "path to config file (default: $CITYDESK_CONFIG)")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return cli.Validation("unknown command %q", args[0])
			}
			env, err := cli.LoadEnv(configPath)
			if err != nil {
				return err
			}
			model := triageui.NewModel(env.Client)
			program := tea.NewProgram(model, tea.WithAltScreen())
			_, err = program.Run()
			return err
		},
	}
}

// ClassifyCommand returns the "classify" subcommand: one-shot
// classification of free-text complaint from the arguments.
func ClassifyCommand() *cli.Command {
	var configPath string
	var asJSON bool

	return &cli.Command{
		Name:    "classify",
		Summary: "Classify a complaint from the command line",
		Usage:   "citydesk triage classify <complaint text...> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("classify", pflag.ContinueOnError)
			flagSet.StringVar(&configPath, "config", "", "path to config file (default: $CITYDESK_CONFIG)")
			flagSet.BoolVar(&asJSON, "json", false, "emit JSON instead of text")
			return flagSet
		},
		Run: func(args []string) error {
			complaint := strings.TrimSpace(strings.Join(args, " "))
			if len(complaint) < 3 {
				return cli.Validation("complaint needs at least 3 characters")
			}
			env, err := cli.LoadEnv(configPath)
			if err != nil {
				return err
			}
			result, err := env.Client.Classify(context.Background(), complaint)
			if err != nil {
				return cli.FromAPI(err)
			}

			if asJSON {
				return emitJSON(result)
			}
			fmt.Printf("category: %s\nurgency:  %s\n\n%s\n", result.Category, result.Urgency, result.Acknowledgment)
			if result.Suggestion != "" {
				fmt.Printf("\nsuggested steps:\n%s\n", result.Suggestion)
			}
			return nil
		},
	}
}

// ComplaintsCommand returns the "complaints" subcommand: the table of
// previously classified complaints.
func ComplaintsCommand() *cli.Command {
	var configPath string
	var asJSON bool

	return &cli.Command{
		Name:    "complaints",
		Summary: "List previously classified complaints",
		Usage:   "citydesk triage complaints [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("complaints", pflag.ContinueOnError)
			flagSet.StringVar(&configPath, "config", "", "path to config file (default: $CITYDESK_CONFIG)")
			flagSet.BoolVar(&asJSON, "json", false, "emit JSON instead of a table")
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
			list, err := env.Client.ListComplaints(context.Background())
			if err != nil {
				return cli.FromAPI(err)
			}

			if asJSON {
				return emitJSON(list.Items)
			}
			if len(list.Items) == 0 {
				fmt.Println("no complaints recorded")
				return nil
			}
			tw := tabwriter.NewWriter(os.Stdout, 2, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "WHEN\tURGENCY\tCATEGORY\tTEXT")
			for _, complaint := range list.Items {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
					complaint.CreatedAt.Format("2006-01-02"),
					complaint.Urgency, complaint.Category, complaint.Text)
			}
			return tw.Flush()
		},
	}
}

func emitJSON(value any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(value); err != nil {
		return cli.Internal("encode JSON: %w", err)
	}
	return nil
}
