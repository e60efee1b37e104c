// Copyright 2026 The Citydesk Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/citydesk-project/citydesk/lib/civic"
)

// MinComplaintLength is the minimum trimmed length of a complaint the
// classification service accepts. The triage form enforces the same
// bound as a submit guard; this client-side check is a convenience,
// not a substitute for the server's validation.
const MinComplaintLength = 3

// Classify submits free-text complaint and returns the predicted
// category, urgency, acknowledgment, and suggested resolution steps.
func (c *Client) Classify(ctx context.Context, complaint string) (*civic.Classification, error) {
	if len(strings.TrimSpace(complaint)) < MinComplaintLength {
		return nil, fmt.Errorf("api: complaint must be at least %d characters", MinComplaintLength)
	}

	request := struct {
		Complaint string `json:"complaint"`
	}{Complaint: complaint}

	body, err := c.doJSON(ctx, http.MethodPost, "/ml/predict", "", request, nil)
	if err != nil {
		return nil, err
	}
	var classification civic.Classification
	if err := decode(body, &classification, "classification"); err != nil {
		return nil, err
	}
	return &classification, nil
}

// ComplaintList is the triage variant's browse table.
type ComplaintList struct {
	Items []civic.Complaint `json:"items"`
}

// ListComplaints fetches previously classified complaints for the
// triage table.
func (c *Client) ListComplaints(ctx context.Context) (*ComplaintList, error) {
	body, err := c.doJSON(ctx, http.MethodGet, "/ml/complaints", "", nil, nil)
	if err != nil {
		return nil, err
	}
	var list ComplaintList
	if err := decode(body, &list, "complaint list"); err != nil {
		return nil, err
	}
	if list.Items == nil {
		list.Items = []civic.Complaint{}
	}
	return &list, nil
}
