// Copyright 2026 The Citydesk Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/zeebo/blake3"

	"github.com/citydesk-project/citydesk/lib/civic"
)

// ListQuery selects a page of records. Zero-valued filters are omitted
// from the outgoing query string entirely — they are never sent as
// empty-string wildcards the server could misread.
type ListQuery struct {
	Status   civic.Status
	Category civic.Category
	Search   string
	Page     int
	PageSize int
}

// values encodes the query, omitting absent filters.
func (q ListQuery) values() url.Values {
	values := url.Values{}
	if q.Status != "" {
		values.Set("status", string(q.Status))
	}
	if q.Category != "" {
		values.Set("category", string(q.Category))
	}
	if q.Search != "" {
		values.Set("search", q.Search)
	}
	values.Set("page", strconv.Itoa(q.Page))
	values.Set("page_size", strconv.Itoa(q.PageSize))
	return values
}

// RecordPage is one page of the filtered record list.
type RecordPage struct {
	Items    []civic.Record `json:"items"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

// ListRecords fetches the page selected by query. Listing is public —
// no credential. An empty result set is a zero-length Items slice,
// not an error.
func (c *Client) ListRecords(ctx context.Context, query ListQuery) (*RecordPage, error) {
	if query.Page < 1 {
		return nil, fmt.Errorf("api: list page must be >= 1, got %d", query.Page)
	}
	if query.PageSize < 1 {
		return nil, fmt.Errorf("api: list page size must be >= 1, got %d", query.PageSize)
	}

	body, err := c.doJSON(ctx, http.MethodGet, "/issues", "", nil, query.values())
	if err != nil {
		return nil, err
	}
	var page RecordPage
	if err := decode(body, &page, "issue list"); err != nil {
		return nil, err
	}
	if page.Items == nil {
		page.Items = []civic.Record{}
	}
	return &page, nil
}

// CreateRecord submits a new issue report. The draft's structured
// fields and its optional image travel in one multipart request — the
// image is a binary part, never base64-in-JSON. The draft must already
// have passed Validate; the credential must be non-empty (the caller
// fast-fails unauthenticated submission before reaching the client).
func (c *Client) CreateRecord(ctx context.Context, credential string, draft civic.Draft) (*civic.Record, error) {
	if credential == "" {
		return nil, fmt.Errorf("api: create requires a credential")
	}
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	var buffer bytes.Buffer
	writer := multipart.NewWriter(&buffer)

	fields := map[string]string{
		"title":       draft.Title,
		"description": draft.Description,
		"category":    string(draft.Category),
	}
	if latitude, longitude := draft.Coordinates(); latitude != nil {
		fields["latitude"] = strconv.FormatFloat(*latitude, 'f', 6, 64)
		fields["longitude"] = strconv.FormatFloat(*longitude, 'f', 6, 64)
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("api: writing form field %s: %w", name, err)
		}
	}

	if len(draft.Image) > 0 {
		part, err := writer.CreateFormFile("image", uploadName(draft))
		if err != nil {
			return nil, fmt.Errorf("api: creating image part: %w", err)
		}
		if _, err := part.Write(draft.Image); err != nil {
			return nil, fmt.Errorf("api: writing image part: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("api: finalizing multipart body: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, "/issues", credential, writer.FormDataContentType(), &buffer, nil)
	if err != nil {
		return nil, err
	}
	var record civic.Record
	if err := decode(body, &record, "issue create"); err != nil {
		return nil, err
	}
	c.logger.Info("submitted issue report",
		"id", record.ID,
		"category", string(record.Category),
		"image_bytes", len(draft.Image),
	)
	return &record, nil
}

// uploadName derives a stable filename for an attached image from its
// content hash. The server stores uploads under the submitted name;
// content addressing keeps re-submissions of the same photo from
// piling up distinct copies.
func uploadName(draft civic.Draft) string {
	sum := blake3.Sum256(draft.Image)
	extension := ".bin"
	if draft.ImageName != "" {
		for i := len(draft.ImageName) - 1; i >= 0 && len(draft.ImageName)-i <= 6; i-- {
			if draft.ImageName[i] == '.' {
				extension = draft.ImageName[i:]
				break
			}
		}
	}
	return fmt.Sprintf("%x%s", sum[:12], extension)
}

// DeleteRecord removes a record. The server enforces ownership and
// role; a 403 or 404 from here is authoritative regardless of what
// the client-side gate predicted.
func (c *Client) DeleteRecord(ctx context.Context, credential, recordID string) error {
	if credential == "" {
		return fmt.Errorf("api: delete requires a credential")
	}
	_, err := c.doJSON(ctx, http.MethodDelete, "/issues/"+url.PathEscape(recordID), credential, nil, nil)
	return err
}

// StatusChange is the body of a status transition. Comment is an
// optional authority note recorded in the status history.
type StatusChange struct {
	Status  civic.Status `json:"status"`
	Comment string       `json:"comment,omitempty"`
}

// UpdateStatus transitions a record to a new status. Authority only;
// the status must be in the closed set — this client refuses to send
// values it does not recognize.
func (c *Client) UpdateStatus(ctx context.Context, credential, recordID string, change StatusChange) (*civic.Record, error) {
	if credential == "" {
		return nil, fmt.Errorf("api: status update requires a credential")
	}
	if !change.Status.Valid() {
		return nil, fmt.Errorf("api: unknown status %q", string(change.Status))
	}

	body, err := c.doJSON(ctx, http.MethodPatch, "/issues/"+url.PathEscape(recordID)+"/status", credential, change, nil)
	if err != nil {
		return nil, err
	}
	var record civic.Record
	if err := decode(body, &record, "status update"); err != nil {
		return nil, err
	}
	return &record, nil
}

// StatusUpdates fetches a record's status history timeline, oldest
// first.
func (c *Client) StatusUpdates(ctx context.Context, recordID string) ([]civic.StatusUpdate, error) {
	body, err := c.doJSON(ctx, http.MethodGet, "/issues/"+url.PathEscape(recordID)+"/updates", "", nil, nil)
	if err != nil {
		return nil, err
	}
	var updates []civic.StatusUpdate
	if err := decode(body, &updates, "status history"); err != nil {
		return nil, err
	}
	return updates, nil
}
