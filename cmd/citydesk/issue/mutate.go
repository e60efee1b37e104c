// Copyright 2026 The Citydesk Authors
// SPDX-License-Identifier: Apache-2.0

package issue

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/citydesk-project/citydesk/cmd/citydesk/cli"
	"github.com/citydesk-project/citydesk/lib/api"
	"github.com/citydesk-project/citydesk/lib/civic"
)

// ReportCommand returns the "report" command: submit a new issue
// report from flags, mirroring what the board's submission form does
// interactively.
func ReportCommand() *cli.Command {
	var configPath string
	var title string
	var description string
	var category string
	var latitude string
	var longitude string
	var imagePath string

	return &cli.Command{
		Name:    "report",
		Summary: "Submit a new issue report",
		Description: `Submit a new issue report. Coordinates are optional but must come as
a pair; an attached photo is uploaded under a content-derived name.`,
		Usage: "citydesk report --title <title> --description <text> [flags]",
		Examples: []cli.Example{
			{
				Description: "Report a pothole with location and photo",
				Command:     "citydesk report --title \"Pothole on 5th\" --description \"Deep pothole near the crosswalk\" --category \"Road & Infrastructure\" --latitude 12.9716 --longitude 77.5946 --image pothole.jpg",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("report", pflag.ContinueOnError)
			flagSet.StringVar(&configPath, "config", "", "path to config file (default: $CITYDESK_CONFIG)")
			flagSet.StringVar(&title, "title", "", "short title of the issue")
			flagSet.StringVar(&description, "description", "", "detailed description (markdown supported)")
			flagSet.StringVar(&category, "category", string(civic.Categories[0]), "issue category")
			flagSet.StringVar(&latitude, "latitude", "", "latitude of the issue location")
			flagSet.StringVar(&longitude, "longitude", "", "longitude of the issue location")
			flagSet.StringVar(&imagePath, "image", "", "path to a photo to attach")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			parsedCategory, err := civic.ParseCategory(category)
			if err != nil {
				return cli.Validation("%v", err)
			}

			draft := civic.Draft{
				Title:       title,
				Description: description,
				Category:    parsedCategory,
				Latitude:    latitude,
				Longitude:   longitude,
			}
			if imagePath != "" {
				data, err := os.ReadFile(imagePath)
				if err != nil {
					return cli.Validation("read image: %v", err)
				}
				draft.Image = data
				draft.ImageName = filepath.Base(imagePath)
			}
			if err := draft.Validate(); err != nil {
				return cli.Validation("%v", err)
			}

			env, err := cli.LoadEnv(configPath)
			if err != nil {
				return err
			}
			current, err := env.RequireSession()
			if err != nil {
				return err
			}

			record, err := env.Client.CreateRecord(context.Background(), current.Credential, draft)
			if err != nil {
				return cli.FromAPI(err)
			}
			fmt.Printf("reported %s: %s\n", record.ID, record.Title)
			return nil
		},
	}
}

// RemoveCommand returns the "remove" command. The server enforces
// the same rule the board's gate does: owners delete their own
// records, authorities delete any.
func RemoveCommand() *cli.Command {
	var configPath string

	return &cli.Command{
		Name:    "remove",
		Summary: "Delete an issue report",
		Usage:   "citydesk remove <record-id>",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("remove", pflag.ContinueOnError)
			flagSet.StringVar(&configPath, "config", "", "path to config file (default: $CITYDESK_CONFIG)")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return cli.Validation("usage: citydesk remove <record-id>")
			}
			env, err := cli.LoadEnv(configPath)
			if err != nil {
				return err
			}
			current, err := env.RequireSession()
			if err != nil {
				return err
			}
			if err := env.Client.DeleteRecord(context.Background(), current.Credential, args[0]); err != nil {
				return cli.FromAPI(err)
			}
			fmt.Printf("removed %s\n", args[0])
			return nil
		},
	}
}

// StatusCommand returns the "status" command: an authority-only
// transition with an optional comment recorded in the history.
func StatusCommand() *cli.Command {
	var configPath string
	var comment string

	return &cli.Command{
		Name:    "status",
		Summary: "Set a record's triage status (authority only)",
		Usage:   "citydesk status <record-id> <status> [flags]",
		Examples: []cli.Example{
			{
				Description: "Mark a record as being worked",
				Command:     "citydesk status rec-12 Processing --comment \"crew dispatched\"",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("status", pflag.ContinueOnError)
			flagSet.StringVar(&configPath, "config", "", "path to config file (default: $CITYDESK_CONFIG)")
			flagSet.StringVar(&comment, "comment", "", "note recorded alongside the transition")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 2 {
				return cli.Validation("usage: citydesk status <record-id> <status>")
			}
			status, err := civic.ParseStatus(args[1])
			if err != nil {
				return cli.Validation("%v", err)
			}
			env, err := cli.LoadEnv(configPath)
			if err != nil {
				return err
			}
			current, err := env.RequireSession()
			if err != nil {
				return err
			}
			if current.Identity.Role != civic.RoleAuthority {
				return cli.Forbidden("status changes need the authority role")
			}

			record, err := env.Client.UpdateStatus(context.Background(), current.Credential,
				args[0], api.StatusChange{Status: status, Comment: comment})
			if err != nil {
				if api.IsNotFound(err) {
					// The record vanished under us; say so plainly
					// instead of a bare 404.
					return cli.NotFound("record %s no longer exists: %w", args[0], err)
				}
				return cli.FromAPI(err)
			}
			fmt.Printf("%s is now %s\n", record.ID, record.Status)
			return nil
		},
	}
}
