// Package config holds runtime settings for the field client.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Config for the CLI.
//
// Fields:
//   - ServerBaseURL: base URL of the inspection API.
//   - DatabasePath: local SQLite file holding the snapshot and the queue.
//   - VerifySecret: shared HMAC secret validating one-shot verified tokens.
//   - RequestTimeout: per-request HTTP deadline.
//   - OnlineCheckInterval: how often the watcher probes reachability.
type Config struct {
	ServerBaseURL       string        `json:"serverBaseUrl"`
	DatabasePath        string        `json:"databasePath"`
	VerifySecret        string        `json:"verifySecret"`
	RequestTimeout      time.Duration `json:"-"`
	OnlineCheckInterval time.Duration `json:"-"`

	// JSON carries durations as seconds for hand-edited config files.
	RequestTimeoutSec      int `json:"requestTimeoutSec,omitempty"`
	OnlineCheckIntervalSec int `json:"onlineCheckIntervalSec,omitempty"`
}

func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8080"
	c.DatabasePath = "fieldcheck.db"
	c.VerifySecret = ""
	c.RequestTimeout = 12 * time.Second
	c.OnlineCheckInterval = 5 * time.Second
}

// Load constructs a Config: defaults, then the JSON file (if path is
// non-empty and present), then environment variables. Later sources win.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if path == "" {
		path = os.Getenv("FIELDCHECK_CONFIG")
	}
	if path != "" {
		if err := cfg.overlayJSON(path); err != nil {
			return nil, err
		}
	}
	cfg.overlayEnv()
	return cfg, nil
}

func (c *Config) overlayJSON(path string) error {
	buf, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := json.Unmarshal(buf, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	if c.RequestTimeoutSec > 0 {
		c.RequestTimeout = time.Duration(c.RequestTimeoutSec) * time.Second
	}
	if c.OnlineCheckIntervalSec > 0 {
		c.OnlineCheckInterval = time.Duration(c.OnlineCheckIntervalSec) * time.Second
	}
	return nil
}

func (c *Config) overlayEnv() {
	if v := os.Getenv("FIELDCHECK_SERVER"); v != "" {
		c.ServerBaseURL = v
	}
	if v := os.Getenv("FIELDCHECK_DB"); v != "" {
		c.DatabasePath = v
	}
	if v := os.Getenv("FIELDCHECK_VERIFY_SECRET"); v != "" {
		c.VerifySecret = v
	}
}
