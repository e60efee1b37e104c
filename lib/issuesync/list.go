// Copyright 2026 The Citydesk Authors
// SPDX-License-Identifier: Apache-2.0

package issuesync

import (
	"github.com/citydesk-project/citydesk/lib/api"
	"github.com/citydesk-project/citydesk/lib/civic"
)

// Fetch is an intent to load one page of records. The caller executes
// it (api.Client.ListRecords with Query) and delivers the outcome back
// through Apply or Reject, tagged with the same Generation.
type Fetch struct {
	// Generation identifies which issued fetch this is. Only the most
	// recently issued generation may change visible state.
	Generation uint64
	// Query is the snapshot of the selection at issue time.
	Query api.ListQuery
}

// ListSync owns QueryState and the visible record list. Every state
// change that affects the server query issues a new Fetch; delivered
// results replace the list wholesale — there is no incremental merge,
// so a page transition can never show a mixture of two pages.
type ListSync struct {
	query      QueryState
	generation uint64

	records []civic.Record
	loaded  bool
	lastErr error
}

// NewListSync creates a ListSync with the initial selection. Nothing
// is fetched until the caller executes the first intent (Refetch).
func NewListSync(pageSize int) *ListSync {
	return &ListSync{query: NewQueryState(pageSize)}
}

// Query returns the current selection.
func (s *ListSync) Query() QueryState { return s.query }

// Records returns the visible list. Empty until the first fetch is
// applied; a zero-length page is a valid state, not an error.
func (s *ListSync) Records() []civic.Record { return s.records }

// Loaded reports whether any fetch has ever been applied.
func (s *ListSync) Loaded() bool { return s.loaded }

// Err returns the error of the most recent non-discarded fetch, nil
// after any success. Surfaced by the UI next to the (unchanged) list.
func (s *ListSync) Err() error { return s.lastErr }

// SetFilter merges a partial filter change into the selection, resets
// the page to 1, and issues a fetch for the new selection.
func (s *ListSync) SetFilter(change FilterChange) Fetch {
	s.query = s.query.merge(change)
	return s.issue()
}

// SetPage moves to the given page (clamped to >= 1) without touching
// the filters, and issues a fetch.
func (s *ListSync) SetPage(page int) Fetch {
	if page < 1 {
		page = 1
	}
	s.query.Page = page
	return s.issue()
}

// Refetch re-issues the fetch for the current selection unchanged.
// Used at startup, after mutations, and for explicit user refresh.
// Idempotent with respect to the selection; each call supersedes any
// in-flight fetch.
func (s *ListSync) Refetch() Fetch {
	return s.issue()
}

func (s *ListSync) issue() Fetch {
	s.generation++
	return Fetch{Generation: s.generation, Query: s.query.listQuery()}
}

// Apply reconciles a successful fetch result. Returns true when the
// result was applied; false when it belonged to a superseded fetch
// and was discarded (last-request-wins).
func (s *ListSync) Apply(generation uint64, records []civic.Record) bool {
	if generation != s.generation {
		return false
	}
	if records == nil {
		records = []civic.Record{}
	}
	s.records = records
	s.loaded = true
	s.lastErr = nil
	return true
}

// Reject records a failed fetch. Stale failures are discarded the
// same way stale successes are; a current failure keeps the existing
// list on screen and surfaces the error.
func (s *ListSync) Reject(generation uint64, err error) bool {
	if generation != s.generation {
		return false
	}
	s.lastErr = err
	return true
}
