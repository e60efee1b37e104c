// Copyright 2026 The Citydesk Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// maxResponseBytes bounds how much of a response body the client will
// read. The listing endpoint returns at most a page of records; a
// larger body indicates a misbehaving server, not a bigger dataset.
const maxResponseBytes = 8 << 20

// ClientConfig holds configuration for creating a Client.
type ClientConfig struct {
	// BaseURL is the platform API root including the version prefix
	// (e.g. "http://localhost:8000/api/v1").
	BaseURL string
	// HTTPClient is used for all requests. If nil, http.DefaultClient
	// is used.
	HTTPClient *http.Client
	// Logger is used for structured logging. If nil, slog.Default()
	// is used.
	Logger *slog.Logger
}

// Client talks to the civic platform API. It is stateless with respect
// to identity: authenticated calls take the credential as an argument
// so the session store remains the single source of credential truth.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a Client for the given platform API.
func NewClient(config ClientConfig) (*Client, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("api: BaseURL is required")
	}
	if _, err := url.Parse(config.BaseURL); err != nil {
		return nil, fmt.Errorf("api: invalid BaseURL %q: %w", config.BaseURL, err)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// doJSON performs a request with an optional JSON body and returns the
// response body. On 2xx the body is returned. On any other status the
// error is a *Error built from the server's {"detail": ...} payload.
// credential may be empty for unauthenticated endpoints. query may be
// nil for endpoints without query parameters.
func (c *Client) doJSON(ctx context.Context, method, path, credential string, requestBody any, query url.Values) ([]byte, error) {
	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return nil, fmt.Errorf("api: encoding request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	contentType := ""
	if requestBody != nil {
		contentType = "application/json"
	}
	return c.do(ctx, method, path, credential, contentType, bodyReader, query)
}

// do performs a request with a raw body (used directly by the
// multipart record-creation path).
func (c *Client) do(ctx context.Context, method, path, credential, contentType string, body io.Reader, query url.Values) ([]byte, error) {
	requestURL := c.baseURL + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	request, err := http.NewRequestWithContext(ctx, method, requestURL, body)
	if err != nil {
		return nil, fmt.Errorf("api: creating request: %w", err)
	}
	if contentType != "" {
		request.Header.Set("Content-Type", contentType)
	}
	if credential != "" {
		request.Header.Set("Authorization", "Bearer "+credential)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("api: request to %s %s failed: %w", method, path, err)
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("api: reading response body: %w", err)
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return responseBody, nil
	}

	// All platform error responses share the {"detail": ...} shape.
	apiErr := &Error{StatusCode: response.StatusCode}
	if err := json.Unmarshal(responseBody, apiErr); err != nil || apiErr.Detail == "" {
		// Non-JSON or detail-less error body. Keep whatever text the
		// server sent so the failure is still diagnosable.
		apiErr.Detail = strings.TrimSpace(string(responseBody))
	}
	c.logger.Debug("api request rejected",
		"method", method,
		"path", path,
		"status", response.StatusCode,
	)
	return nil, apiErr
}

// decode unmarshals a response body into target, wrapping parse
// failures with the originating endpoint for diagnosis.
func decode(body []byte, target any, endpoint string) error {
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("api: parsing %s response: %w", endpoint, err)
	}
	return nil
}
