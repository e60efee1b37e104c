// Copyright 2026 The Citydesk Authors
// SPDX-License-Identifier: Apache-2.0

package mappreview

import (
	"net/url"
	"strings"
	"testing"
)

func TestOpenStreetMapEmbed(t *testing.T) {
	link := OpenStreetMapEmbed(12.9716, 77.5946)
	parsed, err := url.Parse(link)
	if err != nil {
		t.Fatalf("invalid URL: %v", err)
	}
	if parsed.Host != "www.openstreetmap.org" {
		t.Errorf("host = %q", parsed.Host)
	}
	query := parsed.Query()
	if query.Get("marker") != "12.971600,77.594600" {
		t.Errorf("marker = %q", query.Get("marker"))
	}
	bbox := query.Get("bbox")
	if !strings.HasPrefix(bbox, "77.584600,12.961600,") {
		t.Errorf("bbox = %q", bbox)
	}
}

func TestGoogleMapsLink(t *testing.T) {
	link := GoogleMapsLink(-33.8688, 151.2093)
	parsed, err := url.Parse(link)
	if err != nil {
		t.Fatalf("invalid URL: %v", err)
	}
	if parsed.Query().Get("query") != "-33.868800,151.209300" {
		t.Errorf("query = %q", parsed.Query().Get("query"))
	}
}
