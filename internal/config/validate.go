package config

import (
	"fmt"
	"net/url"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	// Server validation
	if c.Server.Port != 0 && (c.Server.Port < 1 || c.Server.Port > 65535) {
		errs = append(errs, fmt.Sprintf("server.port: must be between 1 and 65535, got %d", c.Server.Port))
	}
	if !validLogLevels[c.Server.LogLevel] {
		errs = append(errs, fmt.Sprintf("server.log_level: must be one of debug, info, warn, error; got %q", c.Server.LogLevel))
	}

	if c.Database.Path == "" {
		errs = append(errs, "database.path: required")
	}
	if c.Database.CacheRetention < 0 {
		errs = append(errs, "database.cache_retention: must not be negative")
	}

	// Catalog validation
	errs = append(errs, checkBaseURL("catalog.base_url", c.Catalog.BaseURL)...)
	if c.Catalog.Timeout < 0 {
		errs = append(errs, "catalog.timeout: must not be negative")
	}
	if c.Catalog.ListingCacheTTL < 0 {
		errs = append(errs, "catalog.listing_cache_ttl: must not be negative")
	}
	if c.Catalog.ListingCacheSizeMB < 0 {
		errs = append(errs, fmt.Sprintf("catalog.listing_cache_size_mb: must not be negative, got %d", c.Catalog.ListingCacheSizeMB))
	}
	if c.Catalog.MinScore < 0 || c.Catalog.MinScore > 100 {
		errs = append(errs, fmt.Sprintf("catalog.min_score: must be between 0 and 100, got %d", c.Catalog.MinScore))
	}
	if c.Catalog.MaxResults < 0 {
		errs = append(errs, fmt.Sprintf("catalog.max_results: must not be negative, got %d", c.Catalog.MaxResults))
	}

	// Hosting validation
	errs = append(errs, checkBaseURL("hosting.base_url", c.Hosting.BaseURL)...)
	if c.Hosting.Timeout < 0 {
		errs = append(errs, "hosting.timeout: must not be negative")
	}
	if c.Hosting.Concurrency < 0 || c.Hosting.Concurrency > 16 {
		errs = append(errs, fmt.Sprintf("hosting.concurrency: must be between 1 and 16, got %d", c.Hosting.Concurrency))
	}

	// Player validation
	if c.Player.CheckpointThreshold < 0 {
		errs = append(errs, "player.checkpoint_threshold: must not be negative")
	}
	if c.Player.HistoryLimit < 0 {
		errs = append(errs, fmt.Sprintf("player.history_limit: must not be negative, got %d", c.Player.HistoryLimit))
	}

	// Events validation
	if c.Events.Retention < 0 {
		errs = append(errs, "events.retention: must not be negative")
	}
	if c.Events.PruneInterval < 0 {
		errs = append(errs, "events.prune_interval: must not be negative")
	}

	return errs
}

func checkBaseURL(key, raw string) []string {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return []string{fmt.Sprintf("%s: must be an absolute http(s) URL, got %q", key, raw)}
	}
	return nil
}
