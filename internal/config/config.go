// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Catalog  CatalogConfig  `toml:"catalog"`
	Hosting  HostingConfig  `toml:"hosting"`
	Player   PlayerConfig   `toml:"player"`
	Events   EventsConfig   `toml:"events"`
}

type ServerConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	LogLevel string `toml:"log_level"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
	// CacheRetention prunes cached result lists older than this; 0 keeps them.
	CacheRetention time.Duration `toml:"cache_retention"`
}

// CatalogConfig configures the film catalog client. An empty UserAgent uses
// the client's built-in browser string.
type CatalogConfig struct {
	BaseURL            string        `toml:"base_url"`
	UserAgent          string        `toml:"user_agent"`
	Timeout            time.Duration `toml:"timeout"`
	ListingCacheTTL    time.Duration `toml:"listing_cache_ttl"`
	ListingCacheSizeMB int           `toml:"listing_cache_size_mb"`
	MinScore           int           `toml:"min_score"`
	MaxResults         int           `toml:"max_results"`
}

// HostingConfig configures the video hosting client.
type HostingConfig struct {
	BaseURL     string        `toml:"base_url"`
	UserAgent   string        `toml:"user_agent"`
	Timeout     time.Duration `toml:"timeout"`
	Concurrency int           `toml:"concurrency"`
}

type PlayerConfig struct {
	CheckpointThreshold time.Duration `toml:"checkpoint_threshold"`
	TrustEmptyCache     bool          `toml:"trust_empty_cache"`
	HistoryLimit        int           `toml:"history_limit"`
}

type EventsConfig struct {
	Retention     time.Duration `toml:"retention"`
	PruneInterval time.Duration `toml:"prune_interval"`
}

// Load reads, parses and validates the configuration file.
// Unresolved environment variables and validation problems are reported
// together in a *ConfigError.
func Load(path string) (*Config, error) {
	cfg, missing, err := load(path)
	if err != nil {
		return nil, err
	}

	cfgErr := &ConfigError{Path: path, Missing: missing, Errors: cfg.Validate()}
	if cfgErr.HasErrors() {
		return nil, cfgErr
	}
	return cfg, nil
}

// LoadWithoutValidation reads and parses the configuration file, applying
// defaults but skipping validation.
func LoadWithoutValidation(path string) (*Config, error) {
	cfg, _, err := load(path)
	return cfg, err
}

func load(path string) (*Config, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading config: %w", err)
	}

	// Substitute environment variables
	content, missing := substituteEnvVars(string(data))

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, missing, nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8585
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}
	if c.Database.Path == "" {
		c.Database.Path = "./data/streamcz.db"
	}

	if c.Catalog.BaseURL == "" {
		c.Catalog.BaseURL = "https://www.csfd.cz"
	}
	if c.Catalog.Timeout == 0 {
		c.Catalog.Timeout = 30 * time.Second
	}
	if c.Catalog.ListingCacheTTL == 0 {
		c.Catalog.ListingCacheTTL = 10 * time.Minute
	}
	if c.Catalog.ListingCacheSizeMB == 0 {
		c.Catalog.ListingCacheSizeMB = 16
	}
	if c.Catalog.MinScore == 0 {
		c.Catalog.MinScore = 30
	}
	if c.Catalog.MaxResults == 0 {
		c.Catalog.MaxResults = 10
	}

	if c.Hosting.BaseURL == "" {
		c.Hosting.BaseURL = "https://prehraj.to"
	}
	if c.Hosting.Timeout == 0 {
		c.Hosting.Timeout = 30 * time.Second
	}
	if c.Hosting.Concurrency == 0 {
		c.Hosting.Concurrency = 4
	}

	if c.Player.CheckpointThreshold == 0 {
		c.Player.CheckpointThreshold = 5 * time.Second
	}
	if c.Player.HistoryLimit == 0 {
		c.Player.HistoryLimit = 10
	}

	if c.Events.Retention == 0 {
		c.Events.Retention = 7 * 24 * time.Hour
	}
	if c.Events.PruneInterval == 0 {
		c.Events.PruneInterval = time.Hour
	}
}

// envVarPattern matches ${VAR}, ${VAR:-default} and ${VAR:?message}.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::([-?])([^}]*))?\}`)

// substituteEnvVars replaces variable references with environment values.
// Unresolved references are left in place and reported in missing.
func substituteEnvVars(content string) (string, []string) {
	var missing []string
	out := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		m := envVarPattern.FindStringSubmatch(match)
		name, op, arg := m[1], m[2], m[3]
		value, ok := os.LookupEnv(name)

		switch op {
		case "-":
			if !ok || value == "" {
				return arg
			}
			return value
		case "?":
			if !ok || value == "" {
				missing = append(missing, name+": "+arg)
				return match
			}
			return value
		}

		if !ok {
			missing = append(missing, name)
			return match
		}
		return value
	})
	return out, missing
}
