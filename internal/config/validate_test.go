package config

import (
	"strings"
	"testing"
	"time"
)

func TestValidate_Default(t *testing.T) {
	if errs := Default().Validate(); len(errs) != 0 {
		t.Errorf("default config should be valid, got %v", errs)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"bad log level", func(c *Config) { c.Server.LogLevel = "verbose" }, "server.log_level"},
		{"empty db path", func(c *Config) { c.Database.Path = "" }, "database.path"},
		{"negative cache retention", func(c *Config) { c.Database.CacheRetention = -time.Hour }, "database.cache_retention"},
		{"relative catalog url", func(c *Config) { c.Catalog.BaseURL = "www.csfd.cz" }, "catalog.base_url"},
		{"ftp catalog url", func(c *Config) { c.Catalog.BaseURL = "ftp://www.csfd.cz" }, "catalog.base_url"},
		{"negative listing ttl", func(c *Config) { c.Catalog.ListingCacheTTL = -time.Second }, "catalog.listing_cache_ttl"},
		{"min score over 100", func(c *Config) { c.Catalog.MinScore = 101 }, "catalog.min_score"},
		{"negative max results", func(c *Config) { c.Catalog.MaxResults = -1 }, "catalog.max_results"},
		{"bad hosting url", func(c *Config) { c.Hosting.BaseURL = "prehraj" }, "hosting.base_url"},
		{"too much concurrency", func(c *Config) { c.Hosting.Concurrency = 32 }, "hosting.concurrency"},
		{"negative threshold", func(c *Config) { c.Player.CheckpointThreshold = -time.Second }, "player.checkpoint_threshold"},
		{"negative history limit", func(c *Config) { c.Player.HistoryLimit = -1 }, "player.history_limit"},
		{"negative retention", func(c *Config) { c.Events.Retention = -time.Hour }, "events.retention"},
		{"negative prune interval", func(c *Config) { c.Events.PruneInterval = -time.Hour }, "events.prune_interval"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			errs := cfg.Validate()
			if len(errs) != 1 {
				t.Fatalf("expected 1 error, got %v", errs)
			}
			if !strings.HasPrefix(errs[0], tt.want+":") {
				t.Errorf("expected error for %s, got %q", tt.want, errs[0])
			}
		})
	}
}

func TestValidate_CollectsAll(t *testing.T) {
	cfg := Default()
	cfg.Server.Port = -1
	cfg.Catalog.MinScore = -5
	cfg.Hosting.BaseURL = "::"

	if errs := cfg.Validate(); len(errs) != 3 {
		t.Errorf("expected 3 errors, got %d: %v", len(errs), errs)
	}
}
