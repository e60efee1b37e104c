// Copyright 2026 The Citydesk Authors
// SPDX-License-Identifier: Apache-2.0

package issuesync

import (
	"context"
	"errors"
	"log/slog"

	"github.com/citydesk-project/citydesk/lib/api"
	"github.com/citydesk-project/citydesk/lib/authorization"
	"github.com/citydesk-project/citydesk/lib/civic"
	"github.com/citydesk-project/citydesk/lib/session"
)

// ErrUnauthenticated is returned when a mutation is attempted with no
// credential. Checked locally — no request leaves the client.
var ErrUnauthenticated = errors.New("issuesync: not logged in")

// ErrNotPermitted is returned when the authorization gate denies the
// action for the current session. Like the gate itself this is a UX
// fast-path; the server's own 403/404 remains authoritative.
var ErrNotPermitted = errors.New("issuesync: action not permitted")

// Refetch is the post-mutation synchronization plan: re-load the list,
// then the analytics summary, in that order. The Controller arms both
// intents at mutation success, so they are issued exactly once per
// mutation regardless of when the caller gets around to executing
// them; any older in-flight fetch is superseded at the same moment.
//
// Execution is fire-and-forget from the mutation's perspective — the
// caller sequences the two fetches but does not block the user-facing
// action on their completion.
type Refetch struct {
	List      Fetch
	Analytics AnalyticsFetch
}

// Controller executes mutations against the API on behalf of the
// current session and keeps the two derived views (list, analytics)
// in sync afterwards. On any failure no local state changes: the list
// keeps its snapshot, the summary stays, and — for Create — the
// caller's draft is preserved for correction.
type Controller struct {
	client    *api.Client
	sessions  *session.Store
	list      *ListSync
	analytics *AnalyticsSync
	logger    *slog.Logger
}

// NewController wires a Controller to its collaborators.
func NewController(client *api.Client, sessions *session.Store, list *ListSync, analytics *AnalyticsSync, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		client:    client,
		sessions:  sessions,
		list:      list,
		analytics: analytics,
		logger:    logger,
	}
}

// arm issues the list-then-analytics refetch pair for a successful
// mutation.
func (c *Controller) arm() Refetch {
	return Refetch{
		List:      c.list.Refetch(),
		Analytics: c.analytics.Refresh(),
	}
}

// credential returns the session token, or ErrUnauthenticated without
// touching the network.
func (c *Controller) credential() (string, error) {
	current := c.sessions.Current()
	if current == nil || current.Credential == "" {
		return "", ErrUnauthenticated
	}
	return current.Credential, nil
}

// Create validates and submits a draft. The draft itself is never
// mutated — on failure the caller re-renders it untouched so no input
// is lost.
func (c *Controller) Create(ctx context.Context, draft civic.Draft) (*civic.Record, Refetch, error) {
	credential, err := c.credential()
	if err != nil {
		return nil, Refetch{}, err
	}
	if err := draft.Validate(); err != nil {
		return nil, Refetch{}, err
	}

	record, err := c.client.CreateRecord(ctx, credential, draft)
	if err != nil {
		return nil, Refetch{}, err
	}
	return record, c.arm(), nil
}

// Remove deletes a record. The gate must grant delete for the current
// session; the server still has the final word, and its 403/404 is
// surfaced as-is (a 404 additionally means the visible list is stale —
// callers should execute the refetch plan carried by the error path's
// companion, see RemoveStale).
func (c *Controller) Remove(ctx context.Context, record civic.Record) (Refetch, error) {
	credential, err := c.credential()
	if err != nil {
		return Refetch{}, err
	}
	identity := &c.sessions.Current().Identity
	if !authorization.Permitted(identity, record).CanDelete {
		return Refetch{}, ErrNotPermitted
	}

	if err := c.client.DeleteRecord(ctx, credential, record.ID); err != nil {
		return Refetch{}, err
	}
	c.logger.Info("deleted record", "id", record.ID)
	return c.arm(), nil
}

// RemoveStale reconciles after a failed Remove whose error indicates
// the record vanished server-side (404): the mutation failed, but the
// visible list is provably stale, so a list refetch alone is issued.
// The analytics summary is untouched — nothing changed remotely.
func (c *Controller) RemoveStale(err error) (Fetch, bool) {
	if !api.IsNotFound(err) {
		return Fetch{}, false
	}
	return c.list.Refetch(), true
}

// SetStatus transitions a record to a new status, authority only. The
// status must be in the closed set; this is checked before the role so
// a bad wire value never reaches the server.
func (c *Controller) SetStatus(ctx context.Context, record civic.Record, status civic.Status, comment string) (Refetch, error) {
	credential, err := c.credential()
	if err != nil {
		return Refetch{}, err
	}
	if !status.Valid() {
		return Refetch{}, &civic.FieldError{Field: "status", Message: "unknown status " + string(status)}
	}
	identity := &c.sessions.Current().Identity
	if !authorization.Permitted(identity, record).CanChangeStatus {
		return Refetch{}, ErrNotPermitted
	}

	if _, err := c.client.UpdateStatus(ctx, credential, record.ID, api.StatusChange{Status: status, Comment: comment}); err != nil {
		return Refetch{}, err
	}
	c.logger.Info("changed record status",
		"id", record.ID,
		"status", string(status),
	)
	return c.arm(), nil
}
