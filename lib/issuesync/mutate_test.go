// Copyright 2026 The Citydesk Authors
// SPDX-License-Identifier: Apache-2.0

package issuesync

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/citydesk-project/citydesk/lib/api"
	"github.com/citydesk-project/citydesk/lib/civic"
	"github.com/citydesk-project/citydesk/lib/session"
	"github.com/citydesk-project/citydesk/lib/testutil"
)

// harness wires a Controller to a fake backend the way the board does.
type harness struct {
	backend   *testutil.Backend
	client    *api.Client
	sessions  *session.Store
	list      *ListSync
	analytics *AnalyticsSync
	control   *Controller
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	backend := testutil.NewBackend(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client, err := api.NewClient(api.ClientConfig{
		BaseURL: backend.Server.URL,
		Logger:  logger,
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	sessions := session.NewStore(client, filepath.Join(t.TempDir(), "session.json"), logger)
	list := NewListSync(6)
	analytics := &AnalyticsSync{}
	return &harness{
		backend:   backend,
		client:    client,
		sessions:  sessions,
		list:      list,
		analytics: analytics,
		control:   NewController(client, sessions, list, analytics, logger),
	}
}

// login registers an account on the backend and establishes a session.
func (h *harness) login(t *testing.T, email string, role civic.Role) {
	t.Helper()
	h.backend.AddAccount(email, "secret", "Test User", role)
	if _, err := h.sessions.Login(context.Background(), api.Credentials{
		Email:    email,
		Password: "secret",
	}); err != nil {
		t.Fatalf("login: %v", err)
	}
}

// execute runs a refetch plan the way the event loop would: list
// first, then analytics, delivering each result back to its sync.
func (h *harness) execute(t *testing.T, plan Refetch) {
	t.Helper()
	page, err := h.client.ListRecords(context.Background(), plan.List.Query)
	if err != nil {
		t.Fatalf("executing list fetch: %v", err)
	}
	h.list.Apply(plan.List.Generation, page.Items)

	summary, err := h.client.Analytics(context.Background())
	if err != nil {
		t.Fatalf("executing analytics fetch: %v", err)
	}
	h.analytics.Apply(plan.Analytics.Generation, *summary)
}

func draft() civic.Draft {
	d := civic.EmptyDraft()
	d.Title = "Streetlight out"
	d.Description = "The light at 5th and Main has been dark for a week."
	return d
}

func TestCreateUnauthenticatedFastFail(t *testing.T) {
	h := newHarness(t)

	_, _, err := h.control.Create(context.Background(), draft())
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	// The fast-fail happens before any request is built.
	if calls := h.backend.CreateCalls(); calls != 0 {
		t.Errorf("unauthenticated create reached the network: %d calls", calls)
	}
	if calls := h.backend.ListCalls(); calls != 0 {
		t.Errorf("failed create triggered a refetch: %d list calls", calls)
	}
}

func TestCreateRefetchesListThenAnalytics(t *testing.T) {
	h := newHarness(t)
	h.login(t, "citizen@example.com", civic.RoleCitizen)

	record, plan, err := h.control.Create(context.Background(), draft())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if record.Status != civic.StatusPending {
		t.Errorf("new record status = %q, want Pending", record.Status)
	}

	h.execute(t, plan)

	if len(h.list.Records()) != 1 {
		t.Errorf("list not refreshed: %d records", len(h.list.Records()))
	}
	summary, loaded := h.analytics.Summary()
	if !loaded {
		t.Fatal("analytics not refreshed")
	}
	if summary.TotalCount != 1 || summary.PendingCount != 1 {
		t.Errorf("summary = %+v, want total 1 pending 1", summary)
	}
	if h.backend.ListCalls() != 1 || h.backend.AnalyticsCalls() != 1 {
		t.Errorf("refetch fan-out wrong: %d list, %d analytics calls",
			h.backend.ListCalls(), h.backend.AnalyticsCalls())
	}
}

func TestCreateSupersedesInFlightFetch(t *testing.T) {
	h := newHarness(t)
	h.login(t, "citizen@example.com", civic.RoleCitizen)

	// A fetch is in flight when the mutation lands. Arming the
	// refetch plan must supersede it so its late result is discarded.
	stale := h.list.Refetch()

	_, plan, err := h.control.Create(context.Background(), draft())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if h.list.Apply(stale.Generation, []civic.Record{}) {
		t.Error("superseded fetch result was applied")
	}
	if !h.list.Apply(plan.List.Generation, []civic.Record{{ID: "rec-1"}}) {
		t.Error("armed refetch result was discarded")
	}
}

func TestCreateInvalidDraftNoNetwork(t *testing.T) {
	h := newHarness(t)
	h.login(t, "citizen@example.com", civic.RoleCitizen)

	bad := draft()
	bad.Title = ""
	_, _, err := h.control.Create(context.Background(), bad)
	var fieldErr *civic.FieldError
	if !errors.As(err, &fieldErr) || fieldErr.Field != "title" {
		t.Fatalf("expected title FieldError, got %v", err)
	}
	if h.backend.CreateCalls() != 0 {
		t.Error("invalid draft reached the network")
	}
}

func TestRemoveOwnRecord(t *testing.T) {
	h := newHarness(t)
	h.login(t, "citizen@example.com", civic.RoleCitizen)

	record, _, err := h.control.Create(context.Background(), draft())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	plan, err := h.control.Remove(context.Background(), *record)
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	h.execute(t, plan)

	if len(h.backend.Records()) != 0 {
		t.Error("record not deleted server-side")
	}
	if len(h.list.Records()) != 0 {
		t.Error("list not refreshed after delete")
	}
	summary, _ := h.analytics.Summary()
	if summary.TotalCount != 0 {
		t.Errorf("summary not refreshed: %+v", summary)
	}
}

func TestRemoveDeniedByGate(t *testing.T) {
	h := newHarness(t)
	owner := h.backend.AddAccount("owner@example.com", "secret", "Owner", civic.RoleCitizen)
	record := h.backend.AddRecord(civic.Record{
		OwnerID:     owner.ID,
		Title:       "Blocked drain",
		Description: "Standing water on Oak Avenue.",
		Category:    civic.CategoryWater,
	})

	h.login(t, "other@example.com", civic.RoleCitizen)

	_, err := h.control.Remove(context.Background(), record)
	if !errors.Is(err, ErrNotPermitted) {
		t.Fatalf("expected ErrNotPermitted, got %v", err)
	}
	if len(h.backend.Records()) != 1 {
		t.Error("gate-denied delete reached the server")
	}
}

func TestAuthorityRemovesAnyRecord(t *testing.T) {
	h := newHarness(t)
	owner := h.backend.AddAccount("owner@example.com", "secret", "Owner", civic.RoleCitizen)
	record := h.backend.AddRecord(civic.Record{
		OwnerID:     owner.ID,
		Title:       "Fallen tree",
		Description: "Tree across the bike lane.",
		Category:    civic.CategoryRoad,
	})

	h.login(t, "moderator@example.com", civic.RoleAuthority)

	if _, err := h.control.Remove(context.Background(), record); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if len(h.backend.Records()) != 0 {
		t.Error("record not deleted")
	}
}

func TestRemoveStale(t *testing.T) {
	h := newHarness(t)
	h.login(t, "citizen@example.com", civic.RoleCitizen)

	record, _, err := h.control.Create(context.Background(), draft())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := h.control.Remove(context.Background(), *record); err != nil {
		t.Fatalf("first Remove: %v", err)
	}

	// Another actor (here: the first delete) removed the record; the
	// retry's 404 proves the visible list is stale.
	_, err = h.control.Remove(context.Background(), *record)
	if !api.IsNotFound(err) {
		t.Fatalf("expected 404, got %v", err)
	}

	before := h.backend.AnalyticsCalls()
	fetch, ok := h.control.RemoveStale(err)
	if !ok {
		t.Fatal("RemoveStale did not recognize the 404")
	}
	page, err := h.client.ListRecords(context.Background(), fetch.Query)
	if err != nil {
		t.Fatalf("executing stale-list fetch: %v", err)
	}
	if !h.list.Apply(fetch.Generation, page.Items) {
		t.Error("stale-list refetch was discarded")
	}
	// Only the list is refetched; nothing changed server-side.
	if h.backend.AnalyticsCalls() != before {
		t.Error("RemoveStale triggered an analytics refresh")
	}

	// Other failures do not trigger reconciliation.
	if _, ok := h.control.RemoveStale(errors.New("timeout")); ok {
		t.Error("RemoveStale matched a non-404 error")
	}
}

func TestSetStatusAuthorityOnly(t *testing.T) {
	h := newHarness(t)
	owner := h.backend.AddAccount("owner@example.com", "secret", "Owner", civic.RoleCitizen)
	record := h.backend.AddRecord(civic.Record{
		OwnerID:     owner.ID,
		Title:       "Exposed wiring",
		Description: "Junction box open at the bus stop.",
		Category:    civic.CategoryElectricity,
	})

	t.Run("citizen denied", func(t *testing.T) {
		h.login(t, "citizen@example.com", civic.RoleCitizen)
		_, err := h.control.SetStatus(context.Background(), record, civic.StatusCompleted, "")
		if !errors.Is(err, ErrNotPermitted) {
			t.Fatalf("expected ErrNotPermitted, got %v", err)
		}
	})

	t.Run("authority allowed", func(t *testing.T) {
		h.login(t, "moderator@example.com", civic.RoleAuthority)
		plan, err := h.control.SetStatus(context.Background(), record, civic.StatusCompleted, "crew dispatched")
		if err != nil {
			t.Fatalf("SetStatus: %v", err)
		}
		h.execute(t, plan)

		records := h.backend.Records()
		if records[0].Status != civic.StatusCompleted {
			t.Errorf("status = %q", records[0].Status)
		}
		summary, _ := h.analytics.Summary()
		if summary.CompletedCount != 1 || summary.PendingCount != 0 {
			t.Errorf("summary not refreshed: %+v", summary)
		}

		updates, err := h.client.StatusUpdates(context.Background(), record.ID)
		if err != nil {
			t.Fatalf("StatusUpdates: %v", err)
		}
		if len(updates) != 1 || updates[0].Comment != "crew dispatched" {
			t.Errorf("status history = %+v", updates)
		}
	})

	t.Run("unknown status rejected locally", func(t *testing.T) {
		h.login(t, "moderator2@example.com", civic.RoleAuthority)
		_, err := h.control.SetStatus(context.Background(), record, "Archived", "")
		var fieldErr *civic.FieldError
		if !errors.As(err, &fieldErr) || fieldErr.Field != "status" {
			t.Fatalf("expected status FieldError, got %v", err)
		}
	})
}
