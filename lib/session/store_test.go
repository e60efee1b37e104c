// Copyright 2026 The Citydesk Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/citydesk-project/citydesk/lib/api"
	"github.com/citydesk-project/citydesk/lib/civic"
	"github.com/citydesk-project/citydesk/lib/testutil"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testStore(t *testing.T) (*Store, *testutil.Backend, string) {
	t.Helper()
	backend := testutil.NewBackend(t)
	client, err := api.NewClient(api.ClientConfig{
		BaseURL: backend.Server.URL,
		Logger:  testLogger(),
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	path := filepath.Join(t.TempDir(), "session.json")
	return NewStore(client, path, testLogger()), backend, path
}

func TestFilePathOverride(t *testing.T) {
	t.Setenv("CITYDESK_SESSION_FILE", "/tmp/custom-session.json")
	if got := FilePath(); got != "/tmp/custom-session.json" {
		t.Errorf("FilePath = %q", got)
	}

	t.Setenv("CITYDESK_SESSION_FILE", "")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	want := filepath.Join("/tmp/xdg", "citydesk", "session.json")
	if got := FilePath(); got != want {
		t.Errorf("FilePath = %q, want %q", got, want)
	}
}

func TestLoadAbsentFile(t *testing.T) {
	store, _, _ := testStore(t)
	if err := store.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if store.Current() != nil {
		t.Error("expected no session")
	}
}

func TestLoadMalformedFile(t *testing.T) {
	store, _, path := testStore(t)
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := store.Load(); err != nil {
		t.Fatalf("malformed file surfaced as error: %v", err)
	}
	if store.Current() != nil {
		t.Error("malformed file produced a session")
	}
}

func TestLoadIncompleteFile(t *testing.T) {
	store, _, path := testStore(t)
	// Credential without identity: unusable, treated as no session.
	if err := os.WriteFile(path, []byte(`{"credential": "token-1"}`), 0600); err != nil {
		t.Fatal(err)
	}
	if err := store.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if store.Current() != nil {
		t.Error("incomplete file produced a session")
	}
}

func TestLoginPersistsSession(t *testing.T) {
	store, backend, path := testStore(t)
	backend.AddAccount("citizen@example.com", "secret", "Citizen One", civic.RoleCitizen)

	established, err := store.Login(context.Background(), api.Credentials{
		Email:    "citizen@example.com",
		Password: "secret",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if established.Identity.Email != "citizen@example.com" {
		t.Errorf("identity = %+v", established.Identity)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("session file not written: %v", err)
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		t.Errorf("session file mode = %o, want 0600", mode)
	}

	// A fresh store on the same path rehydrates the session.
	fresh := NewStore(nil, path, testLogger())
	if err := fresh.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	loaded := fresh.Current()
	if loaded == nil {
		t.Fatal("persisted session not loaded")
	}
	if loaded.Credential != established.Credential {
		t.Error("credential not round-tripped")
	}
	if loaded.Identity.Role != civic.RoleCitizen {
		t.Errorf("role = %q", loaded.Identity.Role)
	}
}

func TestLoginFailureLeavesStateUntouched(t *testing.T) {
	store, backend, _ := testStore(t)
	backend.AddAccount("citizen@example.com", "secret", "Citizen One", civic.RoleCitizen)

	if _, err := store.Login(context.Background(), api.Credentials{
		Email:    "citizen@example.com",
		Password: "secret",
	}); err != nil {
		t.Fatalf("Login: %v", err)
	}
	before := store.Current()

	_, err := store.Login(context.Background(), api.Credentials{
		Email:    "citizen@example.com",
		Password: "wrong",
	})
	if !api.IsAuth(err) {
		t.Fatalf("expected auth error, got %v", err)
	}
	if store.Current() != before {
		t.Error("failed login disturbed the existing session")
	}
}

func TestRegisterEstablishesSession(t *testing.T) {
	store, _, _ := testStore(t)
	established, err := store.Register(context.Background(), api.Profile{
		DisplayName: "New User",
		Email:       "new@example.com",
		Password:    "secret",
		Role:        civic.RoleAuthority,
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if established.Identity.Role != civic.RoleAuthority {
		t.Errorf("role = %q", established.Identity.Role)
	}
	if store.Current() == nil {
		t.Error("no session after registration")
	}
}

func TestLogout(t *testing.T) {
	store, backend, path := testStore(t)
	backend.AddAccount("citizen@example.com", "secret", "Citizen One", civic.RoleCitizen)
	if _, err := store.Login(context.Background(), api.Credentials{
		Email:    "citizen@example.com",
		Password: "secret",
	}); err != nil {
		t.Fatalf("Login: %v", err)
	}

	if err := store.Logout(); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if store.Current() != nil {
		t.Error("session survives logout")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("session file survives logout")
	}

	// Logging out with no persisted file is not an error.
	if err := store.Logout(); err != nil {
		t.Fatalf("repeated Logout: %v", err)
	}
}
