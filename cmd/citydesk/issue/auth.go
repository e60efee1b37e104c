// Copyright 2026 The Citydesk Authors
// SPDX-License-Identifier: Apache-2.0

package issue

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/citydesk-project/citydesk/cmd/citydesk/cli"
	"github.com/citydesk-project/citydesk/lib/api"
	"github.com/citydesk-project/citydesk/lib/civic"
)

// LoginCommand returns the "login" command. On success the session
// (identity + bearer token) is persisted to the session file with
// mode 0600; subsequent commands use it transparently.
func LoginCommand() *cli.Command {
	var configPath string
	var passwordFile string

	return &cli.Command{
		Name:    "login",
		Summary: "Authenticate and save the session locally",
		Description: `Log in to the civic platform and save the session locally.

The session file is stored at ~/.config/citydesk/session.json (or
$CITYDESK_SESSION_FILE if set). A failed login leaves any existing
session untouched.`,
		Usage: "citydesk login <email> [flags]",
		Examples: []cli.Example{
			{
				Description: "Log in interactively (prompts for password)",
				Command:     "citydesk login ada@example.com",
			},
			{
				Description: "Log in with password from a file",
				Command:     "citydesk login ada@example.com --password-file ~/.citydesk-pass",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("login", pflag.ContinueOnError)
			flagSet.StringVar(&configPath, "config", "", "path to config file (default: $CITYDESK_CONFIG)")
			flagSet.StringVar(&passwordFile, "password-file", "", "path to file containing the password, or - to prompt")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return cli.Validation("usage: citydesk login <email>")
			}
			env, err := cli.LoadEnv(configPath)
			if err != nil {
				return err
			}
			password, err := cli.ReadPassword(passwordFile)
			if err != nil {
				return cli.Internal("read password: %w", err)
			}

			established, err := env.Sessions.Login(context.Background(), api.Credentials{
				Email:    args[0],
				Password: password,
			})
			if err != nil {
				return cli.FromAPI(err)
			}
			fmt.Printf("logged in as %s (%s)\n",
				established.Identity.DisplayName, established.Identity.Role)
			return nil
		},
	}
}

// RegisterCommand returns the "register" command.
func RegisterCommand() *cli.Command {
	var configPath string
	var passwordFile string
	var displayName string
	var role string

	return &cli.Command{
		Name:    "register",
		Summary: "Create an account and log in",
		Description: `Register a new account on the civic platform. On success the new
session is established and persisted, exactly as with login.`,
		Usage: "citydesk register <email> --name <name> [flags]",
		Examples: []cli.Example{
			{
				Description: "Register a citizen account",
				Command:     "citydesk register ada@example.com --name \"Ada L.\"",
			},
			{
				Description: "Register an authority account",
				Command:     "citydesk register clerk@example.gov --name Clerk --role authority",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("register", pflag.ContinueOnError)
			flagSet.StringVar(&configPath, "config", "", "path to config file (default: $CITYDESK_CONFIG)")
			flagSet.StringVar(&passwordFile, "password-file", "", "path to file containing the password, or - to prompt")
			flagSet.StringVar(&displayName, "name", "", "display name shown on your reports")
			flagSet.StringVar(&role, "role", string(civic.RoleCitizen), "account role: citizen or authority")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return cli.Validation("usage: citydesk register <email> --name <name>")
			}
			if displayName == "" {
				return cli.Validation("--name is required")
			}
			parsedRole, err := civic.ParseRole(role)
			if err != nil {
				return cli.Validation("%v", err)
			}
			env, err := cli.LoadEnv(configPath)
			if err != nil {
				return err
			}
			password, err := cli.ReadPassword(passwordFile)
			if err != nil {
				return cli.Internal("read password: %w", err)
			}

			established, err := env.Sessions.Register(context.Background(), api.Profile{
				DisplayName: displayName,
				Email:       args[0],
				Password:    password,
				Role:        parsedRole,
			})
			if err != nil {
				return cli.FromAPI(err)
			}
			fmt.Printf("registered and logged in as %s (%s)\n",
				established.Identity.DisplayName, established.Identity.Role)
			return nil
		},
	}
}

// LogoutCommand returns the "logout" command: clear the in-memory
// session and remove the session file in one step.
func LogoutCommand() *cli.Command {
	var configPath string

	return &cli.Command{
		Name:    "logout",
		Summary: "Discard the saved session",
		Usage:   "citydesk logout",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("logout", pflag.ContinueOnError)
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
			if err := env.Sessions.Logout(); err != nil {
				return cli.Internal("logout: %w", err)
			}
			fmt.Println("logged out")
			return nil
		},
	}
}

// WhoAmICommand returns the "whoami" command. Exits 1 when logged
// out, so scripts can test authentication state without parsing.
func WhoAmICommand() *cli.Command {
	var configPath string

	return &cli.Command{
		Name:    "whoami",
		Summary: "Show the active session identity",
		Usage:   "citydesk whoami",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("whoami", pflag.ContinueOnError)
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
			current := env.Sessions.Current()
			if current == nil {
				fmt.Fprintln(os.Stderr, "not logged in")
				return &cli.ExitError{Code: 1}
			}
			fmt.Printf("%s <%s> (%s)\n",
				current.Identity.DisplayName, current.Identity.Email, current.Identity.Role)
			return nil
		},
	}
}
