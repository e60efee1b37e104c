// Copyright 2026 The Citydesk Authors
// SPDX-License-Identifier: Apache-2.0

package issuesync

import (
	"github.com/citydesk-project/citydesk/lib/api"
	"github.com/citydesk-project/citydesk/lib/civic"
)

// DefaultPageSize matches the board's six-card page.
const DefaultPageSize = 6

// QueryState is the user's current filter and pagination selection
// over the record list. It is mutated only through ListSync's entry
// points (SetFilter, SetPage) and is not persisted across runs.
//
// Invariant: Page >= 1 always, and any filter change resets Page to 1.
type QueryState struct {
	// Status filters by triage state; empty means no status filter.
	Status civic.Status
	// Category filters by department; empty means no category filter.
	Category civic.Category
	// Search matches against title and description; empty means no
	// text filter.
	Search string

	Page     int
	PageSize int
}

// NewQueryState returns the initial selection: no filters, first page.
// A pageSize < 1 falls back to DefaultPageSize.
func NewQueryState(pageSize int) QueryState {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return QueryState{Page: 1, PageSize: pageSize}
}

// listQuery translates the selection into the API's query type.
// Absent filters stay zero-valued and are omitted from the wire query.
func (q QueryState) listQuery() api.ListQuery {
	return api.ListQuery{
		Status:   q.Status,
		Category: q.Category,
		Search:   q.Search,
		Page:     q.Page,
		PageSize: q.PageSize,
	}
}

// FilterChange is a partial update to the filter portion of a
// QueryState. Nil fields are left unchanged; a pointer to the zero
// value clears that filter. Page is deliberately absent — pagination
// moves through SetPage, and every filter change snaps back to page 1.
type FilterChange struct {
	Status   *civic.Status
	Category *civic.Category
	Search   *string
}

// merge applies the change to a copy of q and resets the page.
func (q QueryState) merge(change FilterChange) QueryState {
	next := q
	if change.Status != nil {
		next.Status = *change.Status
	}
	if change.Category != nil {
		next.Category = *change.Category
	}
	if change.Search != nil {
		next.Search = *change.Search
	}
	next.Page = 1
	return next
}
