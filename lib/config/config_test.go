// Copyright 2026 The Citydesk Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	configuration := Default()
	if configuration.API.BaseURL != "http://localhost:8000/api/v1" {
		t.Errorf("base_url = %q", configuration.API.BaseURL)
	}
	if configuration.Board.PageSize != 6 {
		t.Errorf("page_size = %d", configuration.Board.PageSize)
	}
	if err := configuration.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestLoadWithoutEnv(t *testing.T) {
	t.Setenv("CITYDESK_CONFIG", "")
	configuration, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if configuration.API.BaseURL != Default().API.BaseURL {
		t.Error("unset env did not yield defaults")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "citydesk.yaml")
	content := `
api:
  base_url: https://civic.example.org/api/v1
board:
  page_size: 10
geolocate:
  command: ["where-am-i", "--decimal"]
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	configuration, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if configuration.API.BaseURL != "https://civic.example.org/api/v1" {
		t.Errorf("base_url = %q", configuration.API.BaseURL)
	}
	if configuration.Board.PageSize != 10 {
		t.Errorf("page_size = %d", configuration.Board.PageSize)
	}
	if len(configuration.Geolocate.Command) != 2 {
		t.Errorf("geolocate command = %v", configuration.Geolocate.Command)
	}
}

func TestLoadFilePartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "citydesk.yaml")
	if err := os.WriteFile(path, []byte("board:\n  page_size: 12\n"), 0644); err != nil {
		t.Fatal(err)
	}
	configuration, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if configuration.API.BaseURL != Default().API.BaseURL {
		t.Error("partial file dropped the default base URL")
	}
	if configuration.Board.PageSize != 12 {
		t.Errorf("page_size = %d", configuration.Board.PageSize)
	}
}

func TestValidate(t *testing.T) {
	latitude := 12.0
	tests := []struct {
		name   string
		mutate func(*Config)
		valid  bool
	}{
		{"missing base URL", func(c *Config) { c.API.BaseURL = "" }, false},
		{"zero page size", func(c *Config) { c.Board.PageSize = 0 }, false},
		{"latitude without longitude", func(c *Config) { c.Geolocate.Latitude = &latitude }, false},
		{"longitude without latitude", func(c *Config) {
			longitude := 77.5
			c.Geolocate.Longitude = &longitude
		}, false},
		{"out-of-range latitude", func(c *Config) {
			bad := 91.0
			longitude := 10.0
			c.Geolocate.Latitude = &bad
			c.Geolocate.Longitude = &longitude
		}, false},
		{"static pair", func(c *Config) {
			longitude := 77.5
			c.Geolocate.Latitude = &latitude
			c.Geolocate.Longitude = &longitude
		}, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			configuration := Default()
			test.mutate(configuration)
			err := configuration.Validate()
			if test.valid && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !test.valid && err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "citydesk.yaml")
	if err := os.WriteFile(path, []byte("api: ["), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("malformed file loaded without error")
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("missing file loaded without error")
	}
}
