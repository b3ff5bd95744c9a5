package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("server.port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Feeds.BridgeURL != "https://api.rss2json.com/v1/api.json" {
		t.Errorf("feeds.bridge_url = %q", cfg.Feeds.BridgeURL)
	}
	if cfg.Cache.TTL != 15*time.Minute {
		t.Errorf("cache.ttl = %s, want 15m", cfg.Cache.TTL)
	}
	if cfg.Limits.DisplayLimit != 10 || cfg.Limits.SelectionCap != 30 || cfg.Limits.MaxDepth != 10 {
		t.Errorf("limits = %+v", cfg.Limits)
	}
	if cfg.Limits.PriorityBatch != 3 || cfg.Limits.SyndicationN != 20 {
		t.Errorf("batching limits = %+v", cfg.Limits)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("TAHO_SERVER_PORT", "9090")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("server.port = %d, want env override 9090", cfg.Server.Port)
	}
}

func TestLoadGeminiKeyFromConventionalVariable(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AI.APIKey != "test-key" {
		t.Errorf("ai.api_key = %q, want value from GEMINI_API_KEY", cfg.AI.APIKey)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tahofeed.yaml")
	content := `server:
  port: 3000
cache:
  ttl: 5m
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%q): %v", path, err)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("server.port = %d, want 3000 from file", cfg.Server.Port)
	}
	if cfg.Cache.TTL != 5*time.Minute {
		t.Errorf("cache.ttl = %s, want 5m from file", cfg.Cache.TTL)
	}
	// Untouched keys keep their defaults.
	if cfg.Limits.DisplayLimit != 10 {
		t.Errorf("limits.display_limit = %d, want default 10", cfg.Limits.DisplayLimit)
	}
}

func TestLoadMissingConfigFileErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for explicitly named missing config file")
	}
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*Config)
		valid  bool
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
			valid:  true,
		},
		{
			name:   "zero display limit rejected",
			mutate: func(c *Config) { c.Limits.DisplayLimit = 0 },
			valid:  false,
		},
		{
			name:   "priority batch larger than display limit rejected",
			mutate: func(c *Config) { c.Limits.PriorityBatch = 50 },
			valid:  false,
		},
		{
			name:   "non-positive ttl rejected",
			mutate: func(c *Config) { c.Cache.TTL = 0 },
			valid:  false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Load("")
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			tc.mutate(cfg)
			err = cfg.Validate()
			if tc.valid && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tc.valid && err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}
