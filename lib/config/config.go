// Copyright 2026 The Citydesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for the citydesk
// client.
//
// Configuration comes from a single YAML file specified by the
// CITYDESK_CONFIG environment variable or the --config flag. There is
// no discovery of implicit locations: when neither is set, the
// built-in defaults apply unchanged. Environment variables never
// override file values.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the citydesk client configuration.
type Config struct {
	// API configures the platform endpoint.
	API APIConfig `yaml:"api"`

	// Board configures the record list view.
	Board BoardConfig `yaml:"board"`

	// Geolocate configures how the submission form fills coordinates.
	Geolocate GeolocateConfig `yaml:"geolocate"`
}

// APIConfig configures the platform endpoint.
type APIConfig struct {
	// BaseURL is the API root including the version prefix.
	// Default: http://localhost:8000/api/v1
	BaseURL string `yaml:"base_url"`
}

// BoardConfig configures the record list view.
type BoardConfig struct {
	// PageSize is the number of records fetched per page.
	// Default: 6
	PageSize int `yaml:"page_size"`
}

// GeolocateConfig configures coordinate acquisition for the
// submission form. At most one source applies: a command takes
// precedence over static coordinates.
type GeolocateConfig struct {
	// Command is an argv vector run to obtain the device location.
	// It must print "latitude longitude" (decimal degrees) on stdout.
	Command []string `yaml:"command"`

	// Latitude and Longitude are a fixed fallback location (a city
	// hall kiosk, a field office) used when no command is configured.
	Latitude  *float64 `yaml:"latitude"`
	Longitude *float64 `yaml:"longitude"`
}

// Default returns the built-in configuration: local development
// backend, six-card pages, no geolocation source.
func Default() *Config {
	return &Config{
		API:   APIConfig{BaseURL: "http://localhost:8000/api/v1"},
		Board: BoardConfig{PageSize: 6},
	}
}

// Load loads configuration from the CITYDESK_CONFIG environment
// variable, falling back to Default when it is unset. An unreadable
// or invalid file is always an error — a present-but-broken config is
// never silently ignored.
func Load() (*Config, error) {
	path := os.Getenv("CITYDESK_CONFIG")
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile loads configuration from a specific file path, merging
// over the defaults.
func LoadFile(path string) (*Config, error) {
	configuration := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, configuration); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if err := configuration.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return configuration, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.API.BaseURL == "" {
		errs = append(errs, fmt.Errorf("api.base_url is required"))
	}
	if c.Board.PageSize < 1 {
		errs = append(errs, fmt.Errorf("board.page_size must be >= 1, got %d", c.Board.PageSize))
	}

	// Static coordinates come as a pair or not at all.
	if (c.Geolocate.Latitude == nil) != (c.Geolocate.Longitude == nil) {
		errs = append(errs, fmt.Errorf("geolocate.latitude and geolocate.longitude must be set together"))
	}
	if c.Geolocate.Latitude != nil && c.Geolocate.Longitude != nil {
		if *c.Geolocate.Latitude < -90 || *c.Geolocate.Latitude > 90 {
			errs = append(errs, fmt.Errorf("geolocate.latitude out of range: %v", *c.Geolocate.Latitude))
		}
		if *c.Geolocate.Longitude < -180 || *c.Geolocate.Longitude > 180 {
			errs = append(errs, fmt.Errorf("geolocate.longitude out of range: %v", *c.Geolocate.Longitude))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
