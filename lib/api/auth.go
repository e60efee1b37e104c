// Copyright 2026 The Citydesk Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/citydesk-project/citydesk/lib/civic"
)

// Credentials are the inputs to login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Profile are the inputs to registration.
type Profile struct {
	DisplayName string     `json:"name"`
	Email       string     `json:"email"`
	Password    string     `json:"password"`
	Role        civic.Role `json:"role"`
}

// AuthResult is the successful response of both auth endpoints: the
// opaque bearer credential plus the authenticated identity.
type AuthResult struct {
	Credential string         `json:"access_token"`
	TokenType  string         `json:"token_type"`
	Identity   civic.Identity `json:"user"`
}

// Login exchanges credentials for a session. A 4xx response surfaces
// as *Error carrying the server's message (bad credentials, unknown
// account) without any session side effects — the caller decides what
// to do with existing state.
func (c *Client) Login(ctx context.Context, credentials Credentials) (*AuthResult, error) {
	body, err := c.doJSON(ctx, http.MethodPost, "/auth/login", "", credentials, nil)
	if err != nil {
		return nil, err
	}
	var result AuthResult
	if err := decode(body, &result, "login"); err != nil {
		return nil, err
	}
	if result.Credential == "" {
		return nil, fmt.Errorf("api: login response missing access token")
	}
	return &result, nil
}

// Register creates an account and returns a live session for it, the
// same shape as Login.
func (c *Client) Register(ctx context.Context, profile Profile) (*AuthResult, error) {
	if !profile.Role.Valid() {
		return nil, fmt.Errorf("api: register: unknown role %q", string(profile.Role))
	}
	body, err := c.doJSON(ctx, http.MethodPost, "/auth/register", "", profile, nil)
	if err != nil {
		return nil, err
	}
	var result AuthResult
	if err := decode(body, &result, "register"); err != nil {
		return nil, err
	}
	if result.Credential == "" {
		return nil, fmt.Errorf("api: register response missing access token")
	}
	return &result, nil
}
