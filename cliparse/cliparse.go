// Copyright (c) 2025 the fieldcheck authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Client settings
	APIBaseURL     string
	RequestTimeout time.Duration
	SessionPath    string
	BeaconURL      string

	// Stub backend settings (dev/test only)
	StubPort     int
	DatabaseURL  string
	DatabaseType string
}

// Load builds the configuration from environment variables with defaults.
// Command-line flags are bound on top of the returned Config by the CLI.
func Load() (Config, error) {
	cfg := Config{
		APIBaseURL:   os.Getenv("FIELDCHECK_API"),
		SessionPath:  os.Getenv("FIELDCHECK_SESSION"),
		BeaconURL:    os.Getenv("FIELDCHECK_BEACON"),
		StubPort:     3319,
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseType: os.Getenv("DATABASE_TYPE"),
	}

	cfg.RequestTimeout = 30 * time.Second
	if s := os.Getenv("FIELDCHECK_TIMEOUT_SECONDS"); s != "" {
		secs, err := strconv.Atoi(s)
		if err != nil || secs <= 0 {
			return Config{}, errors.New("invalid FIELDCHECK_TIMEOUT_SECONDS env variable")
		}
		cfg.RequestTimeout = time.Duration(secs) * time.Second
	}

	if s := os.Getenv("FIELDCHECK_STUB_PORT"); s != "" {
		port, err := strconv.Atoi(s)
		if err != nil {
			return Config{}, errors.New("invalid FIELDCHECK_STUB_PORT env variable")
		}
		cfg.StubPort = port
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = "sqlite"
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "fieldcheck-stub.db"
	}

	return cfg, nil
}

// RequireAPI validates that a backend URL was configured. Commands that talk
// to the inspection backend call this; the stub command does not.
func (c Config) RequireAPI() error {
	if c.APIBaseURL == "" {
		return errors.New("backend URL required (use --api or FIELDCHECK_API env)")
	}
	return nil
}
