// Copyright 2026 The Citydesk Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"net/http"

	"github.com/citydesk-project/citydesk/lib/civic"
)

// Analytics fetches the server-computed aggregate summary. The summary
// covers the entire dataset, not the currently visible page, and is
// filter-independent by design.
func (c *Client) Analytics(ctx context.Context) (*civic.AnalyticsSummary, error) {
	body, err := c.doJSON(ctx, http.MethodGet, "/dashboard/analytics", "", nil, nil)
	if err != nil {
		return nil, err
	}
	var summary civic.AnalyticsSummary
	if err := decode(body, &summary, "analytics"); err != nil {
		return nil, err
	}
	return &summary, nil
}
