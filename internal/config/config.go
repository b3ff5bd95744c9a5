// Package config loads application configuration from file, environment, and
// defaults using viper. A .env file is honored for local development.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server Server `mapstructure:"server"`
	Feeds  Feeds  `mapstructure:"feeds"`
	Cache  Cache  `mapstructure:"cache"`
	AI     AI     `mapstructure:"ai"`
	Limits Limits `mapstructure:"limits"`
}

// Server holds HTTP server configuration.
type Server struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	SiteURL      string        `mapstructure:"site_url"`
	CORS         CORS          `mapstructure:"cors"`
}

// CORS holds cross-origin configuration for the API endpoints.
type CORS struct {
	Enabled        bool     `mapstructure:"enabled"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Feeds holds upstream fetching configuration.
type Feeds struct {
	BridgeURL      string        `mapstructure:"bridge_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	OverrideFile   string        `mapstructure:"override_file"`
	CacheBust      bool          `mapstructure:"cache_bust"`
}

// Cache holds feed cache configuration.
type Cache struct {
	Path string        `mapstructure:"path"`
	TTL  time.Duration `mapstructure:"ttl"`
}

// AI holds Gemini configuration. An empty APIKey disables enrichment; the
// pipeline then serves extracted summaries only.
type AI struct {
	APIKey         string        `mapstructure:"api_key"`
	Model          string        `mapstructure:"model"`
	StreamingModel string        `mapstructure:"streaming_model"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// Limits holds selection and batching bounds for the pipeline.
type Limits struct {
	DisplayLimit  int `mapstructure:"display_limit"`
	SelectionCap  int `mapstructure:"selection_cap"`
	MaxDepth      int `mapstructure:"max_depth"`
	PriorityBatch int `mapstructure:"priority_batch"`
	SyndicationN  int `mapstructure:"syndication_n"`
}

// Load reads configuration from the optional config file, the environment
// (TAHO_ prefix), and built-in defaults, in increasing precedence of env over
// file over defaults.
func Load(cfgFile string) (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load(".env")
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("TAHO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
		}
	} else {
		v.SetConfigName("tahofeed")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/tahofeed")
		// Missing default config file is fine; env and defaults apply.
		_ = v.ReadInConfig()
	}

	// The Gemini key follows the conventional variable name rather than the
	// TAHO_ prefix, so shared deployment secrets work unchanged.
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		v.Set("ai.api_key", key)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.site_url", "https://daily-taho.vercel.app")
	v.SetDefault("server.cors.enabled", true)
	v.SetDefault("server.cors.allowed_origins", []string{"*"})

	v.SetDefault("feeds.bridge_url", "https://api.rss2json.com/v1/api.json")
	v.SetDefault("feeds.request_timeout", 30*time.Second)
	v.SetDefault("feeds.cache_bust", true)

	v.SetDefault("cache.path", "data")
	v.SetDefault("cache.ttl", 15*time.Minute)

	v.SetDefault("ai.model", "gemini-1.5-flash")
	v.SetDefault("ai.streaming_model", "gemini-2.0-flash")
	v.SetDefault("ai.request_timeout", 60*time.Second)

	v.SetDefault("limits.display_limit", 10)
	v.SetDefault("limits.selection_cap", 30)
	v.SetDefault("limits.max_depth", 10)
	v.SetDefault("limits.priority_batch", 3)
	v.SetDefault("limits.syndication_n", 20)
}

// Validate checks bounds that would otherwise fail deep inside the pipeline.
func (c *Config) Validate() error {
	if c.Limits.DisplayLimit <= 0 {
		return fmt.Errorf("limits.display_limit must be positive, got %d", c.Limits.DisplayLimit)
	}
	if c.Limits.PriorityBatch > c.Limits.DisplayLimit {
		return fmt.Errorf("limits.priority_batch (%d) cannot exceed limits.display_limit (%d)",
			c.Limits.PriorityBatch, c.Limits.DisplayLimit)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive, got %s", c.Cache.TTL)
	}
	return nil
}
