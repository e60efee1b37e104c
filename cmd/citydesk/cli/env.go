// Copyright 2026 The Citydesk Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"log/slog"

	"github.com/citydesk-project/citydesk/lib/api"
	"github.com/citydesk-project/citydesk/lib/config"
	"github.com/citydesk-project/citydesk/lib/session"
)

// Env is the shared environment every command operates in:
// configuration, a configured API client, and the persisted session.
type Env struct {
	Config   *config.Config
	Logger   *slog.Logger
	Client   *api.Client
	Sessions *session.Store
}

// LoadEnv builds the environment from configuration. configPath
// overrides the CITYDESK_CONFIG discovery when non-empty (the --config
// flag). The persisted session, if any, is rehydrated; commands check
// Sessions.Current() for authentication state.
func LoadEnv(configPath string) (*Env, error) {
	logger := NewCommandLogger()

	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, Validation("load configuration: %w", err)
	}

	client, err := api.NewClient(api.ClientConfig{
		BaseURL: cfg.API.BaseURL,
		Logger:  logger,
	})
	if err != nil {
		return nil, Internal("create API client: %w", err)
	}

	sessions := session.NewStore(client, session.FilePath(), logger)
	if err := sessions.Load(); err != nil {
		return nil, Internal("load session: %w", err)
	}

	return &Env{
		Config:   cfg,
		Logger:   logger,
		Client:   client,
		Sessions: sessions,
	}, nil
}

// RequireSession returns the active session or a categorized error
// telling the user to log in. Commands that mutate call this before
// doing anything else, matching the fast-fail rule in the sync layer.
func (e *Env) RequireSession() (*session.Session, error) {
	current := e.Sessions.Current()
	if current == nil {
		return nil, Auth("not logged in; run 'citydesk login' first")
	}
	return current, nil
}
