// Copyright 2026 The Citydesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package mappreview builds external map URLs for a record's
// coordinates. The terminal cannot embed a map, so the detail pane
// shows links the user opens in a browser: an OpenStreetMap embed
// framing the location and a Google Maps pin.
package mappreview

import (
	"fmt"
	"net/url"
)

// embedSpan is the half-width, in degrees, of the OpenStreetMap embed
// bounding box on each side of the center. Roughly a neighborhood at
// city latitudes.
const embedSpan = 0.01

// OpenStreetMapEmbed returns an embed URL with a bounding box
// centered on the coordinate and a marker at it.
func OpenStreetMapEmbed(latitude, longitude float64) string {
	bbox := fmt.Sprintf("%.6f,%.6f,%.6f,%.6f",
		longitude-embedSpan, latitude-embedSpan,
		longitude+embedSpan, latitude+embedSpan,
	)
	values := url.Values{}
	values.Set("bbox", bbox)
	values.Set("layer", "mapnik")
	values.Set("marker", fmt.Sprintf("%.6f,%.6f", latitude, longitude))
	return "https://www.openstreetmap.org/export/embed.html?" + values.Encode()
}

// GoogleMapsLink returns a search link pinned to the coordinate.
func GoogleMapsLink(latitude, longitude float64) string {
	values := url.Values{}
	values.Set("api", "1")
	values.Set("query", fmt.Sprintf("%.6f,%.6f", latitude, longitude))
	return "https://www.google.com/maps/search/?" + values.Encode()
}
