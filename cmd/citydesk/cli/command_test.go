// Copyright 2026 The Citydesk Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestCommand_Execute_DispatchesToSubcommand(t *testing.T) {
	var called string

	root := &Command{
		Name: "citydesk",
		Subcommands: []*Command{
			{
				Name: "list",
				Run: func(args []string) error {
					called = "list"
					return nil
				},
			},
			{
				Name: "report",
				Run: func(args []string) error {
					called = "report"
					return nil
				},
			},
		},
	}

	if err := root.Execute([]string{"report"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "report" {
		t.Errorf("dispatched to %q, want %q", called, "report")
	}
}

func TestCommand_Execute_NestedSubcommands(t *testing.T) {
	var called string
	var receivedArgs []string

	root := &Command{
		Name: "citydesk",
		Subcommands: []*Command{
			{
				Name: "triage",
				Subcommands: []*Command{
					{
						Name: "classify",
						Run: func(args []string) error {
							called = "triage classify"
							receivedArgs = args
							return nil
						},
					},
				},
			},
		},
	}

	if err := root.Execute([]string{"triage", "classify", "leaking main"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "triage classify" {
		t.Errorf("dispatched to %q, want %q", called, "triage classify")
	}
	if len(receivedArgs) != 1 || receivedArgs[0] != "leaking main" {
		t.Errorf("args = %v, want [leaking main]", receivedArgs)
	}
}

func TestCommand_Execute_RunFallbackWithSubcommands(t *testing.T) {
	var ran bool

	root := &Command{
		Name: "triage",
		Subcommands: []*Command{
			{Name: "classify", Run: func(args []string) error { return nil }},
		},
		Run: func(args []string) error {
			ran = true
			return nil
		},
	}

	if err := root.Execute(nil); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !ran {
		t.Error("bare invocation should fall back to Run")
	}
}

func TestCommand_Execute_FlagParsing(t *testing.T) {
	var status string
	var page int

	command := &Command{
		Name: "list",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("list", pflag.ContinueOnError)
			flagSet.StringVar(&status, "status", "", "")
			flagSet.IntVar(&page, "page", 1, "")
			return flagSet
		},
		Run: func(args []string) error { return nil },
	}

	if err := command.Execute([]string{"--status", "Pending", "--page", "3"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if status != "Pending" {
		t.Errorf("status = %q, want Pending", status)
	}
	if page != 3 {
		t.Errorf("page = %d, want 3", page)
	}
}

func TestCommand_Execute_UnknownSubcommandSuggests(t *testing.T) {
	root := &Command{
		Name: "citydesk",
		Subcommands: []*Command{
			{Name: "analytics", Run: func(args []string) error { return nil }},
			{Name: "list", Run: func(args []string) error { return nil }},
		},
	}

	err := root.Execute([]string{"analytcs"})
	if err == nil {
		t.Fatal("expected an error for an unknown command")
	}
	if !strings.Contains(err.Error(), `did you mean "analytics"`) {
		t.Errorf("error should suggest the close match, got: %v", err)
	}
}

func TestCommand_Execute_UnknownFlagSuggests(t *testing.T) {
	command := &Command{
		Name: "list",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("list", pflag.ContinueOnError)
			flagSet.String("status", "", "")
			return flagSet
		},
		Run: func(args []string) error { return nil },
	}

	err := command.Execute([]string{"--stauts", "Pending"})
	if err == nil {
		t.Fatal("expected an error for an unknown flag")
	}
	if !strings.Contains(err.Error(), "--status") {
		t.Errorf("error should suggest --status, got: %v", err)
	}
}

func TestCommand_PrintHelp(t *testing.T) {
	root := &Command{
		Name:        "citydesk",
		Description: "civic issue reporting from the terminal.",
		Subcommands: []*Command{
			{Name: "list", Summary: "List reported issues"},
			{Name: "report", Summary: "Submit a new issue report"},
		},
	}

	var buffer bytes.Buffer
	root.PrintHelp(&buffer)
	help := buffer.String()

	for _, want := range []string{
		"civic issue reporting",
		"citydesk <command> [flags]",
		"list",
		"List reported issues",
		"report",
		"Run 'citydesk <command> --help'",
	} {
		if !strings.Contains(help, want) {
			t.Errorf("help missing %q:\n%s", want, help)
		}
	}
}

func TestCommand_Execute_HelpFlag(t *testing.T) {
	command := &Command{
		Name:    "list",
		Summary: "List reported issues",
		Run: func(args []string) error {
			t.Fatal("Run must not execute for --help")
			return nil
		},
	}

	if err := command.Execute([]string{"--help"}); err != nil {
		t.Fatalf("--help should not error, got: %v", err)
	}
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"list", "list", 0},
		{"lst", "list", 1},
		{"analytcs", "analytics", 1},
		{"borad", "board", 2},
		{"xyz", "list", 4},
	}
	for _, test := range tests {
		if got := levenshtein(test.a, test.b); got != test.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", test.a, test.b, got, test.want)
		}
	}
}
