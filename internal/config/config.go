// Package config holds runtime settings for the Rapport client. Values are
// layered: compiled-in defaults, then an optional JSON file, then whatever
// command-line flags the caller applies on top.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rapport-app/rapport/internal/timex"
)

// Config holds runtime settings.
//
// Fields:
//   - APIBaseURL: base URL of the hosted entity service.
//   - APIToken: bearer token sent on every request ("" for none).
//   - DatabasePath: path of the local SQLite mirror.
//   - OnlineCheckInterval: how long a connectivity probe result is cached.
type Config struct {
	APIBaseURL          string
	APIToken            string
	DatabasePath        string
	OnlineCheckInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8787"
	c.APIToken = ""
	c.DatabasePath = "rapport.db"
	c.OnlineCheckInterval = 3 * time.Second
}

// jsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so intervals can be written either as strings like "3s" or
// as integer nanoseconds.
type jsonConfig struct {
	APIBaseURL          string         `json:"api_base_url"`
	APIToken            string         `json:"api_token"`
	DatabasePath        string         `json:"database_path"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
}

// Load constructs a Config from defaults, overlaid with the JSON file at
// path when path is non-empty. Only fields present in the file override
// defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.APIToken != "" {
		cfg.APIToken = jc.APIToken
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.OnlineCheckInterval.Duration != 0 {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	return cfg, nil
}
