package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Scraper   ScraperConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Relevance RelevanceConfig
	Watch     WatchConfig
	Sources   map[string]SourceConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ScraperConfig holds settings shared by every source adapter
type ScraperConfig struct {
	Timeout             time.Duration `mapstructure:"timeout"`
	RequestDelay        time.Duration `mapstructure:"request_delay"`
	UserAgent           string        `mapstructure:"user_agent"`
	RetryAttempts       int           `mapstructure:"retry_attempts"`
	RetryInitialBackoff time.Duration `mapstructure:"retry_initial_backoff"`
	RetryMaxBackoff     time.Duration `mapstructure:"retry_max_backoff"`
	AggregateTimeout    time.Duration `mapstructure:"aggregate_timeout"`
	DefaultLimit        int           `mapstructure:"default_limit"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type     string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // search requests per minute
}

// RelevanceConfig holds the relevance scoring heuristics
type RelevanceConfig struct {
	MinScore              float64 `mapstructure:"min_score"`
	AccessoryPenalty      float64 `mapstructure:"accessory_penalty"`
	ForPenalty            float64 `mapstructure:"for_penalty"`
	NoiseThreshold        float64 `mapstructure:"noise_threshold"`
	NoisePenalty          float64 `mapstructure:"noise_penalty"`
	NumericMissPenalty    float64 `mapstructure:"numeric_miss_penalty"`
	NumericPartialPenalty float64 `mapstructure:"numeric_partial_penalty"`
}

// WatchConfig holds the scheduled watch check settings
type WatchConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	Interval       time.Duration `mapstructure:"interval"`
	Pause          time.Duration `mapstructure:"pause"`
	LimitPerSource int           `mapstructure:"limit_per_source"`
	Watches        []WatchSeed   `mapstructure:"watches"`
}

// WatchSeed is a watch declared in the config file
type WatchSeed struct {
	ID          string   `mapstructure:"id"`
	Query       string   `mapstructure:"query"`
	TargetPrice string   `mapstructure:"target_price"`
	Stores      []string `mapstructure:"stores"`
	Category    string   `mapstructure:"category"`
}

// SourceConfig overrides one entry of the built-in source catalog
type SourceConfig struct {
	Enabled *bool  `mapstructure:"enabled"`
	BaseURL string `mapstructure:"base_url"`
	APIURL  string `mapstructure:"api_url"`
}

// Load loads configuration from a .env file, environment variables and config files
func Load() (*Config, error) {
	// .env is optional; real environment variables take precedence
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/ucuzbot/")

	// Environment variable settings: UCUZBOT_SCRAPER_REQUEST_DELAY -> scraper.request_delay
	v.SetEnvPrefix("UCUZBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Scraper defaults
	v.SetDefault("scraper.timeout", "15s")
	v.SetDefault("scraper.request_delay", "2s")
	v.SetDefault("scraper.user_agent", "")
	v.SetDefault("scraper.retry_attempts", 3)
	v.SetDefault("scraper.retry_initial_backoff", "2s")
	v.SetDefault("scraper.retry_max_backoff", "8s")
	v.SetDefault("scraper.aggregate_timeout", "60s")
	v.SetDefault("scraper.default_limit", 10)

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", "10m")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 30)

	// Relevance defaults
	v.SetDefault("relevance.min_score", 0.4)
	v.SetDefault("relevance.accessory_penalty", 0.1)
	v.SetDefault("relevance.for_penalty", 0.2)
	v.SetDefault("relevance.noise_threshold", 0.7)
	v.SetDefault("relevance.noise_penalty", 0.6)
	v.SetDefault("relevance.numeric_miss_penalty", 0.1)
	v.SetDefault("relevance.numeric_partial_penalty", 0.5)

	// Watch defaults
	v.SetDefault("watch.enabled", false)
	v.SetDefault("watch.interval", "30m")
	v.SetDefault("watch.pause", "1s")
	v.SetDefault("watch.limit_per_source", 5)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when cache type is 'redis'")
	}

	if config.Scraper.RetryAttempts < 1 {
		return fmt.Errorf("scraper retry attempts must be at least 1, got: %d", config.Scraper.RetryAttempts)
	}

	if config.Scraper.AggregateTimeout <= 0 {
		return fmt.Errorf("scraper aggregate timeout must be positive")
	}

	r := config.Relevance
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"min score", r.MinScore},
		{"accessory penalty", r.AccessoryPenalty},
		{"for penalty", r.ForPenalty},
		{"noise threshold", r.NoiseThreshold},
		{"noise penalty", r.NoisePenalty},
		{"numeric miss penalty", r.NumericMissPenalty},
		{"numeric partial penalty", r.NumericPartialPenalty},
	} {
		if f.value < 0 || f.value > 1 {
			return fmt.Errorf("relevance %s must be within [0,1], got: %v", f.name, f.value)
		}
	}

	if config.Watch.Enabled && config.Watch.Interval <= 0 {
		return fmt.Errorf("watch interval must be positive when watches are enabled")
	}

	for i, w := range config.Watch.Watches {
		if w.ID == "" || strings.TrimSpace(w.Query) == "" {
			return fmt.Errorf("watch #%d needs an id and a query", i+1)
		}
		price, err := decimal.NewFromString(w.TargetPrice)
		if err != nil || !price.IsPositive() {
			return fmt.Errorf("watch %s: target price must be a positive number, got: %q", w.ID, w.TargetPrice)
		}
	}

	return nil
}
