// Copyright 2026 The Citydesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package session owns the client's identity and credential. The Store
// is the single source of credential truth: every authenticated
// request reads the token from here, and there is no secondary cache.
//
// State changes are whole-session swaps. Login and Register replace
// identity and credential together on success and touch nothing on
// failure; Logout clears both (and the persisted file) in one step.
// There is never an observable state with a credential but no
// identity, or the reverse.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/citydesk-project/citydesk/lib/api"
	"github.com/citydesk-project/citydesk/lib/civic"
)

// Session is the authenticated state: who the user is and the opaque
// bearer credential proving it.
type Session struct {
	Identity   civic.Identity `json:"identity"`
	Credential string         `json:"credential"`
}

// Store holds the current session and persists it across runs. It is
// owned by the application's event loop and mutated only from there —
// the UI serializes input handling, so no locking is required.
type Store struct {
	client  *api.Client
	path    string
	logger  *slog.Logger
	current *Session
}

// FilePath returns the session file location: $CITYDESK_SESSION_FILE
// if set, otherwise ~/.config/citydesk/session.json (respecting
// XDG_CONFIG_HOME). The file holds a bearer token, so it is written
// with mode 0600.
func FilePath() string {
	if envPath := os.Getenv("CITYDESK_SESSION_FILE"); envPath != "" {
		return envPath
	}
	configDirectory := os.Getenv("XDG_CONFIG_HOME")
	if configDirectory == "" {
		homeDirectory, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), "citydesk-session.json")
		}
		configDirectory = filepath.Join(homeDirectory, ".config")
	}
	return filepath.Join(configDirectory, "citydesk", "session.json")
}

// NewStore creates a Store backed by the given API client and session
// file path (FilePath() for the default). The store starts without a
// session; call Load to rehydrate a persisted one.
func NewStore(client *api.Client, path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{client: client, path: path, logger: logger}
}

// Load rehydrates a persisted session from disk. An absent or
// malformed file means "no session" — never an error. Only I/O
// failures other than non-existence are reported, and even then the
// store is left in the no-session state so startup proceeds.
func (s *Store) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("session: reading %s: %w", s.path, err)
	}

	var loaded Session
	if err := json.Unmarshal(data, &loaded); err != nil {
		s.logger.Warn("ignoring malformed session file", "path", s.path)
		return nil
	}
	// A partial file (token without identity or vice versa) is as
	// unusable as a corrupt one.
	if loaded.Credential == "" || loaded.Identity.ID == "" {
		s.logger.Warn("ignoring incomplete session file", "path", s.path)
		return nil
	}

	s.current = &loaded
	return nil
}

// Current returns the active session, or nil when logged out. Callers
// must not retain the pointer across mutations; re-read per action.
func (s *Store) Current() *Session {
	return s.current
}

// Login authenticates with the platform and, on success, atomically
// replaces the current session and persists it. On failure the
// existing state — logged in or not — is untouched and the server's
// message is returned.
func (s *Store) Login(ctx context.Context, credentials api.Credentials) (*Session, error) {
	result, err := s.client.Login(ctx, credentials)
	if err != nil {
		return nil, err
	}
	return s.install(result)
}

// Register creates an account and installs the resulting session,
// with the same atomicity as Login.
func (s *Store) Register(ctx context.Context, profile api.Profile) (*Session, error) {
	result, err := s.client.Register(ctx, profile)
	if err != nil {
		return nil, err
	}
	return s.install(result)
}

func (s *Store) install(result *api.AuthResult) (*Session, error) {
	next := &Session{
		Identity:   result.Identity,
		Credential: result.Credential,
	}
	if err := s.save(next); err != nil {
		// Persistence failed, but the login itself succeeded. Keep
		// the in-memory session usable for this run.
		s.current = next
		return next, fmt.Errorf("session: logged in but could not persist: %w", err)
	}
	s.current = next
	s.logger.Info("session established",
		"user", next.Identity.DisplayName,
		"role", string(next.Identity.Role),
	)
	return next, nil
}

// Logout clears identity, credential, and the persisted file in one
// step. The in-memory session is dropped unconditionally; a failure
// removing the file is reported but never leaves a half-logged-out
// state visible to the UI.
func (s *Store) Logout() error {
	s.current = nil
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("session: removing %s: %w", s.path, err)
	}
	return nil
}

// save writes the session file with owner-only permissions, creating
// the parent directory if needed.
func (s *Store) save(session *Session) error {
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("session: marshaling: %w", err)
	}
	data = append(data, '\n')

	directory := filepath.Dir(s.path)
	if err := os.MkdirAll(directory, 0700); err != nil {
		return fmt.Errorf("session: creating %s: %w", directory, err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("session: writing %s: %w", s.path, err)
	}
	return nil
}
