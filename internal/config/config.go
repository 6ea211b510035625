// Package config loads the application configuration from a TOML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Defaults applied when the config file is absent or leaves a field
// unset.
const (
	DefaultStorage           = "sqlite"
	DefaultBaseURL           = "https://data.riksdagen.se"
	DefaultPageSize          = 20
	DefaultRequestsPerSecond = 2.0
)

// DefaultModels is the summarisation model fallback chain.
var DefaultModels = []string{"gemini-1.5-flash", "gemini-1.5-pro"}

// Config holds all application settings.
type Config struct {
	// DataDir is where documents are persisted. Defaults to
	// ~/.partikollen/data.
	DataDir string `toml:"data_dir"`

	// Storage selects the persistence backend: "sqlite" or "file".
	Storage string `toml:"storage"`

	API    APIConfig    `toml:"api"`
	Gemini GeminiConfig `toml:"gemini"`
}

// APIConfig holds settings for the open data API.
type APIConfig struct {
	BaseURL           string  `toml:"base_url"`
	PageSize          int     `toml:"page_size"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// GeminiConfig holds settings for AI summarisation.
type GeminiConfig struct {
	// APIKey authenticates against the Gemini API. The GEMINI_API_KEY
	// environment variable takes precedence over the file value.
	APIKey string `toml:"api_key"`

	// Models are tried in order; the first that answers wins.
	Models []string `toml:"models"`
}

// Load reads the configuration from path. An empty path means the
// default location (~/.partikollen/config.toml); a missing file yields
// the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(home, ".partikollen", "config.toml")
	}

	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults fills unset fields.
func (c *Config) applyDefaults() {
	if c.DataDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.DataDir = filepath.Join(home, ".partikollen", "data")
		} else {
			c.DataDir = "data"
		}
	}
	if c.Storage == "" {
		c.Storage = DefaultStorage
	}
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	if c.API.PageSize <= 0 {
		c.API.PageSize = DefaultPageSize
	}
	if c.API.RequestsPerSecond <= 0 {
		c.API.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.Gemini.APIKey = key
	}
	if len(c.Gemini.Models) == 0 {
		c.Gemini.Models = append([]string(nil), DefaultModels...)
	}
}

// Validate checks field values that have a closed set of options.
func (c *Config) Validate() error {
	switch c.Storage {
	case "sqlite", "file":
		return nil
	default:
		return fmt.Errorf("unknown storage backend %q (want sqlite or file)", c.Storage)
	}
}
