// Copyright 2026 The Citydesk Authors
// SPDX-License-Identifier: Apache-2.0

package issue

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/citydesk-project/citydesk/cmd/citydesk/cli"
	"github.com/citydesk-project/citydesk/lib/api"
	"github.com/citydesk-project/citydesk/lib/civic"
)

// ListCommand returns the "list" command: one page of records,
// filtered the same way the board filters, as a table or JSON.
func ListCommand() *cli.Command {
	var configPath string
	var status string
	var category string
	var search string
	var page int
	var pageSize int
	var asJSON bool

	return &cli.Command{
		Name:    "list",
		Summary: "List reported issues",
		Description: `List one page of issue reports, newest first. Filters combine; an
absent filter matches everything.`,
		Usage: "citydesk list [flags]",
		Examples: []cli.Example{
			{
				Description: "Pending road issues mentioning \"pothole\"",
				Command:     "citydesk list --status Pending --search pothole",
			},
			{
				Description: "Second page, as JSON for scripting",
				Command:     "citydesk list --page 2 --json",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("list", pflag.ContinueOnError)
			flagSet.StringVar(&configPath, "config", "", "path to config file (default: $CITYDESK_CONFIG)")
			flagSet.StringVar(&status, "status", "", "filter by status (Pending, Processing, Completed)")
			flagSet.StringVar(&category, "category", "", "filter by category")
			flagSet.StringVar(&search, "search", "", "free-text filter on title and description")
			flagSet.IntVar(&page, "page", 1, "page number (1-based)")
			flagSet.IntVar(&pageSize, "page-size", 0, "records per page (default: from config)")
			flagSet.BoolVar(&asJSON, "json", false, "emit JSON instead of a table")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			query := api.ListQuery{Search: search, Page: page}
			if status != "" {
				parsed, err := civic.ParseStatus(status)
				if err != nil {
					return cli.Validation("%v", err)
				}
				query.Status = parsed
			}
			if category != "" {
				parsed, err := civic.ParseCategory(category)
				if err != nil {
					return cli.Validation("%v", err)
				}
				query.Category = parsed
			}

			env, err := cli.LoadEnv(configPath)
			if err != nil {
				return err
			}
			query.PageSize = pageSize
			if query.PageSize <= 0 {
				query.PageSize = env.Config.Board.PageSize
			}

			result, err := env.Client.ListRecords(context.Background(), query)
			if err != nil {
				return cli.FromAPI(err)
			}

			if asJSON {
				return emitJSON(result.Items)
			}
			if len(result.Items) == 0 {
				fmt.Println("no records match")
				return nil
			}
			tw := tabwriter.NewWriter(os.Stdout, 2, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSTATUS\tCATEGORY\tTITLE\tREPORTED")
			for _, record := range result.Items {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					record.ID, record.Status, record.Category, record.Title,
					record.CreatedAt.Format("2006-01-02"))
			}
			return tw.Flush()
		},
	}
}

// UpdatesCommand returns the "updates" command: a record's status
// history timeline.
func UpdatesCommand() *cli.Command {
	var configPath string
	var asJSON bool

	return &cli.Command{
		Name:    "updates",
		Summary: "Show a record's status history",
		Usage:   "citydesk updates <record-id> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("updates", pflag.ContinueOnError)
			flagSet.StringVar(&configPath, "config", "", "path to config file (default: $CITYDESK_CONFIG)")
			flagSet.BoolVar(&asJSON, "json", false, "emit JSON instead of a table")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return cli.Validation("usage: citydesk updates <record-id>")
			}
			env, err := cli.LoadEnv(configPath)
			if err != nil {
				return err
			}
			updates, err := env.Client.StatusUpdates(context.Background(), args[0])
			if err != nil {
				return cli.FromAPI(err)
			}

			if asJSON {
				return emitJSON(updates)
			}
			if len(updates) == 0 {
				fmt.Println("no status changes yet")
				return nil
			}
			tw := tabwriter.NewWriter(os.Stdout, 2, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "WHEN\tFROM\tTO\tCOMMENT")
			for _, update := range updates {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
					update.CreatedAt.Format("2006-01-02 15:04"),
					update.OldStatus, update.NewStatus, update.Comment)
			}
			return tw.Flush()
		},
	}
}

// AnalyticsCommand returns the "analytics" command: the server-side
// aggregate counts over the full dataset.
func AnalyticsCommand() *cli.Command {
	var configPath string
	var asJSON bool

	return &cli.Command{
		Name:    "analytics",
		Summary: "Show platform-wide issue counts",
		Usage:   "citydesk analytics [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("analytics", pflag.ContinueOnError)
			flagSet.StringVar(&configPath, "config", "", "path to config file (default: $CITYDESK_CONFIG)")
			flagSet.BoolVar(&asJSON, "json", false, "emit JSON instead of text")
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
			summary, err := env.Client.Analytics(context.Background())
			if err != nil {
				return cli.FromAPI(err)
			}

			if asJSON {
				return emitJSON(summary)
			}
			fmt.Printf("total:     %d\npending:   %d\ncompleted: %d\n",
				summary.TotalCount, summary.PendingCount, summary.CompletedCount)
			return nil
		},
	}
}

// emitJSON writes indented JSON to stdout for the --json flag.
func emitJSON(value any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(value); err != nil {
		return cli.Internal("encode JSON: %w", err)
	}
	return nil
}
