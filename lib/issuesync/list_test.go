// Copyright 2026 The Citydesk Authors
// SPDX-License-Identifier: Apache-2.0

package issuesync

import (
	"errors"
	"testing"

	"github.com/citydesk-project/citydesk/lib/civic"
)

func TestNewListSync(t *testing.T) {
	sync := NewListSync(0)
	if sync.Query().PageSize != DefaultPageSize {
		t.Errorf("expected default page size, got %d", sync.Query().PageSize)
	}
	if sync.Query().Page != 1 {
		t.Errorf("expected initial page 1, got %d", sync.Query().Page)
	}
	if sync.Loaded() {
		t.Error("fresh sync reported loaded")
	}
}

func TestFilterChangeResetsPage(t *testing.T) {
	sync := NewListSync(6)
	sync.SetPage(4)

	status := civic.StatusPending
	fetch := sync.SetFilter(FilterChange{Status: &status})
	if sync.Query().Page != 1 {
		t.Errorf("expected page reset to 1, got %d", sync.Query().Page)
	}
	if fetch.Query.Page != 1 {
		t.Errorf("issued fetch carries page %d", fetch.Query.Page)
	}
	if fetch.Query.Status != civic.StatusPending {
		t.Errorf("issued fetch carries status %q", fetch.Query.Status)
	}
}

func TestFilterChangePartialMerge(t *testing.T) {
	sync := NewListSync(6)
	status := civic.StatusPending
	sync.SetFilter(FilterChange{Status: &status})

	// Changing only the search must keep the status filter.
	search := "pothole"
	fetch := sync.SetFilter(FilterChange{Search: &search})
	if fetch.Query.Status != civic.StatusPending {
		t.Errorf("status filter lost: %q", fetch.Query.Status)
	}
	if fetch.Query.Search != "pothole" {
		t.Errorf("search filter not applied: %q", fetch.Query.Search)
	}

	// A pointer to the zero value clears a filter.
	clear := civic.Status("")
	fetch = sync.SetFilter(FilterChange{Status: &clear})
	if fetch.Query.Status != "" {
		t.Errorf("status filter not cleared: %q", fetch.Query.Status)
	}
	if fetch.Query.Search != "pothole" {
		t.Errorf("search filter lost on unrelated change: %q", fetch.Query.Search)
	}
}

func TestSetPageClamped(t *testing.T) {
	sync := NewListSync(6)
	fetch := sync.SetPage(0)
	if fetch.Query.Page != 1 {
		t.Errorf("expected clamp to page 1, got %d", fetch.Query.Page)
	}
	fetch = sync.SetPage(-3)
	if fetch.Query.Page != 1 {
		t.Errorf("expected clamp to page 1, got %d", fetch.Query.Page)
	}
}

func TestLastRequestWins(t *testing.T) {
	sync := NewListSync(6)

	first := sync.SetPage(1)
	second := sync.SetPage(2)

	pageTwo := []civic.Record{{ID: "rec-7"}}
	if !sync.Apply(second.Generation, pageTwo) {
		t.Fatal("current fetch result was discarded")
	}

	// The slower first response arrives after the second; it must be
	// discarded without disturbing the visible list.
	pageOne := []civic.Record{{ID: "rec-1"}}
	if sync.Apply(first.Generation, pageOne) {
		t.Fatal("stale fetch result was applied")
	}
	if len(sync.Records()) != 1 || sync.Records()[0].ID != "rec-7" {
		t.Errorf("visible list corrupted: %+v", sync.Records())
	}
}

func TestStaleFailureDiscarded(t *testing.T) {
	sync := NewListSync(6)

	first := sync.Refetch()
	second := sync.Refetch()

	sync.Apply(second.Generation, []civic.Record{{ID: "rec-1"}})
	if sync.Reject(first.Generation, errors.New("timeout")) {
		t.Fatal("stale failure was recorded")
	}
	if sync.Err() != nil {
		t.Errorf("stale failure surfaced: %v", sync.Err())
	}
}

func TestCurrentFailureKeepsList(t *testing.T) {
	sync := NewListSync(6)

	fetch := sync.Refetch()
	sync.Apply(fetch.Generation, []civic.Record{{ID: "rec-1"}})

	fetch = sync.Refetch()
	failure := errors.New("connection refused")
	if !sync.Reject(fetch.Generation, failure) {
		t.Fatal("current failure was discarded")
	}
	if len(sync.Records()) != 1 {
		t.Error("failure cleared the visible list")
	}
	if !errors.Is(sync.Err(), failure) {
		t.Errorf("Err = %v", sync.Err())
	}

	// The next success clears the surfaced error.
	fetch = sync.Refetch()
	sync.Apply(fetch.Generation, nil)
	if sync.Err() != nil {
		t.Errorf("error not cleared by success: %v", sync.Err())
	}
	if sync.Records() == nil {
		t.Error("nil result not normalized to empty slice")
	}
}

func TestRefetchKeepsSelection(t *testing.T) {
	sync := NewListSync(6)
	category := civic.CategoryWater
	sync.SetFilter(FilterChange{Category: &category})
	sync.SetPage(3)

	fetch := sync.Refetch()
	if fetch.Query.Category != civic.CategoryWater || fetch.Query.Page != 3 {
		t.Errorf("refetch altered selection: %+v", fetch.Query)
	}
}
