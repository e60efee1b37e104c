// Copyright 2026 The Citydesk Authors
// SPDX-License-Identifier: Apache-2.0

package issuesync

import (
	"testing"

	"github.com/citydesk-project/citydesk/lib/civic"
)

func TestAnalyticsSyncInitialState(t *testing.T) {
	var sync AnalyticsSync
	summary, loaded := sync.Summary()
	if loaded {
		t.Error("fresh sync reported loaded")
	}
	if summary != (civic.AnalyticsSummary{}) {
		t.Errorf("expected zero summary, got %+v", summary)
	}
}

func TestAnalyticsLastRequestWins(t *testing.T) {
	var sync AnalyticsSync

	first := sync.Refresh()
	second := sync.Refresh()

	current := civic.AnalyticsSummary{TotalCount: 10, PendingCount: 4, CompletedCount: 3}
	if !sync.Apply(second.Generation, current) {
		t.Fatal("current refresh was discarded")
	}
	if sync.Apply(first.Generation, civic.AnalyticsSummary{TotalCount: 9}) {
		t.Fatal("stale refresh was applied")
	}

	summary, loaded := sync.Summary()
	if !loaded {
		t.Error("sync not loaded after apply")
	}
	if summary.TotalCount != 10 {
		t.Errorf("summary corrupted by stale result: %+v", summary)
	}
}

func TestAnalyticsFailureKeepsLastGood(t *testing.T) {
	// A failed refresh simply never calls Apply; the last good
	// summary must remain visible.
	var sync AnalyticsSync
	fetch := sync.Refresh()
	sync.Apply(fetch.Generation, civic.AnalyticsSummary{TotalCount: 5})

	sync.Refresh() // outcome lost to a network error

	summary, loaded := sync.Summary()
	if !loaded || summary.TotalCount != 5 {
		t.Errorf("last good summary lost: loaded=%v %+v", loaded, summary)
	}
}
