// Copyright 2026 The Citydesk Authors
// SPDX-License-Identifier: Apache-2.0

package issuesync

import "github.com/citydesk-project/citydesk/lib/civic"

// AnalyticsFetch is an intent to load the aggregate summary, tagged
// with a generation for the same last-request-wins discipline as list
// fetches (two quick mutations can leave two refreshes in flight).
type AnalyticsFetch struct {
	Generation uint64
}

// AnalyticsSync owns the aggregate summary panel state. The summary is
// fetched once at startup and refreshed after every successful
// mutation — never after filter or page changes, since the aggregate
// is filter-independent by design. A failed refresh leaves the last
// good (possibly stale, possibly zero) summary in place; analytics
// failures must never block the rest of the UI.
type AnalyticsSync struct {
	generation uint64
	summary    civic.AnalyticsSummary
	loaded     bool
}

// Summary returns the current aggregate and whether any refresh has
// succeeded yet. Before the first success the zero summary is shown.
func (s *AnalyticsSync) Summary() (civic.AnalyticsSummary, bool) {
	return s.summary, s.loaded
}

// Refresh issues a new fetch intent, superseding any in flight.
func (s *AnalyticsSync) Refresh() AnalyticsFetch {
	s.generation++
	return AnalyticsFetch{Generation: s.generation}
}

// Apply replaces the summary wholesale if the result is current.
func (s *AnalyticsSync) Apply(generation uint64, summary civic.AnalyticsSummary) bool {
	if generation != s.generation {
		return false
	}
	s.summary = summary
	s.loaded = true
	return true
}
