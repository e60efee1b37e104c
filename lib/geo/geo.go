// Copyright 2026 The Citydesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package geo provides one-shot geolocation for the submission form.
// A Provider is asked for coordinates exactly when the user requests
// them; failures surface as a message next to the coordinate fields
// and never block manual entry.
package geo

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/citydesk-project/citydesk/lib/config"
)

// Position is a decimal-degree coordinate pair.
type Position struct {
	Latitude  float64
	Longitude float64
}

// Provider obtains the device position once per call.
type Provider interface {
	Locate(ctx context.Context) (Position, error)
}

// FromConfig builds the configured provider. A command takes
// precedence over static coordinates; with neither configured there
// is no provider and the form hides its locate control.
func FromConfig(configuration config.GeolocateConfig) (Provider, bool) {
	if len(configuration.Command) > 0 {
		return &CommandProvider{Argv: configuration.Command}, true
	}
	if configuration.Latitude != nil && configuration.Longitude != nil {
		return StaticProvider{Position: Position{
			Latitude:  *configuration.Latitude,
			Longitude: *configuration.Longitude,
		}}, true
	}
	return nil, false
}

// StaticProvider returns a fixed position from configuration.
type StaticProvider struct {
	Position Position
}

func (provider StaticProvider) Locate(ctx context.Context) (Position, error) {
	return provider.Position, nil
}

// CommandProvider runs an external command that prints
// "latitude longitude" on stdout. The command is expected to finish
// quickly; the caller's context bounds it.
type CommandProvider struct {
	Argv []string
}

func (provider *CommandProvider) Locate(ctx context.Context) (Position, error) {
	if len(provider.Argv) == 0 {
		return Position{}, fmt.Errorf("geo: empty locate command")
	}
	command := exec.CommandContext(ctx, provider.Argv[0], provider.Argv[1:]...)
	output, err := command.Output()
	if err != nil {
		return Position{}, fmt.Errorf("geo: running %s: %w", provider.Argv[0], err)
	}
	return parsePosition(string(output))
}

// parsePosition reads "latitude longitude" from command output,
// tolerating surrounding whitespace and a trailing newline.
func parsePosition(output string) (Position, error) {
	fields := strings.Fields(output)
	if len(fields) != 2 {
		return Position{}, fmt.Errorf("geo: expected \"latitude longitude\", got %q", strings.TrimSpace(output))
	}
	latitude, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return Position{}, fmt.Errorf("geo: latitude %q: %w", fields[0], err)
	}
	longitude, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return Position{}, fmt.Errorf("geo: longitude %q: %w", fields[1], err)
	}
	if latitude < -90 || latitude > 90 || longitude < -180 || longitude > 180 {
		return Position{}, fmt.Errorf("geo: coordinates out of range: %v %v", latitude, longitude)
	}
	return Position{Latitude: latitude, Longitude: longitude}, nil
}
