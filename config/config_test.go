package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolate runs the test from an empty directory so no stray config.yaml or .env is read
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd() error = %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir(%s) error = %v", dir, err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoad(t *testing.T) {
	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		isolate(t)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if cfg.Scraper.Timeout != 15*time.Second {
			t.Errorf("Scraper.Timeout = %v, want 15s", cfg.Scraper.Timeout)
		}
		if cfg.Scraper.RequestDelay != 2*time.Second {
			t.Errorf("Scraper.RequestDelay = %v, want 2s", cfg.Scraper.RequestDelay)
		}
		if cfg.Scraper.RetryAttempts != 3 {
			t.Errorf("Scraper.RetryAttempts = %d, want 3", cfg.Scraper.RetryAttempts)
		}
		if cfg.Scraper.RetryMaxBackoff != 8*time.Second {
			t.Errorf("Scraper.RetryMaxBackoff = %v, want 8s", cfg.Scraper.RetryMaxBackoff)
		}
		if cfg.Scraper.AggregateTimeout != 60*time.Second {
			t.Errorf("Scraper.AggregateTimeout = %v, want 60s", cfg.Scraper.AggregateTimeout)
		}
		if cfg.Cache.Type != "memory" {
			t.Errorf("Cache.Type = %s, want memory", cfg.Cache.Type)
		}
		if cfg.Cache.TTL != 10*time.Minute {
			t.Errorf("Cache.TTL = %v, want 10m", cfg.Cache.TTL)
		}
		if cfg.RateLimit.PerIP != 30 {
			t.Errorf("RateLimit.PerIP = %d, want 30", cfg.RateLimit.PerIP)
		}
		if cfg.Relevance.MinScore != 0.4 {
			t.Errorf("Relevance.MinScore = %v, want 0.4", cfg.Relevance.MinScore)
		}
		if cfg.Relevance.NumericPartialPenalty != 0.5 {
			t.Errorf("Relevance.NumericPartialPenalty = %v, want 0.5", cfg.Relevance.NumericPartialPenalty)
		}
		if cfg.Watch.Enabled {
			t.Errorf("Watch.Enabled = true, want false")
		}
		if cfg.Watch.LimitPerSource != 5 {
			t.Errorf("Watch.LimitPerSource = %d, want 5", cfg.Watch.LimitPerSource)
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		isolate(t)
		t.Setenv("UCUZBOT_SERVER_PORT", "9090")
		t.Setenv("UCUZBOT_SERVER_ENVIRONMENT", "production")
		t.Setenv("UCUZBOT_SCRAPER_REQUEST_DELAY", "500ms")
		t.Setenv("UCUZBOT_SCRAPER_AGGREGATE_TIMEOUT", "20s")
		t.Setenv("UCUZBOT_CACHE_TYPE", "redis")
		t.Setenv("UCUZBOT_CACHE_REDIS_URL", "redis://localhost:6379")
		t.Setenv("UCUZBOT_CACHE_TTL", "1h")
		t.Setenv("UCUZBOT_RATELIMIT_PER_IP", "60")
		t.Setenv("UCUZBOT_RELEVANCE_MIN_SCORE", "0.25")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Server.Environment != "production" {
			t.Errorf("Server.Environment = %s, want production", cfg.Server.Environment)
		}
		if cfg.Scraper.RequestDelay != 500*time.Millisecond {
			t.Errorf("Scraper.RequestDelay = %v, want 500ms", cfg.Scraper.RequestDelay)
		}
		if cfg.Scraper.AggregateTimeout != 20*time.Second {
			t.Errorf("Scraper.AggregateTimeout = %v, want 20s", cfg.Scraper.AggregateTimeout)
		}
		if cfg.Cache.Type != "redis" {
			t.Errorf("Cache.Type = %s, want redis", cfg.Cache.Type)
		}
		if cfg.Cache.RedisURL != "redis://localhost:6379" {
			t.Errorf("Cache.RedisURL = %s, want redis://localhost:6379", cfg.Cache.RedisURL)
		}
		if cfg.Cache.TTL != time.Hour {
			t.Errorf("Cache.TTL = %v, want 1h", cfg.Cache.TTL)
		}
		if cfg.RateLimit.PerIP != 60 {
			t.Errorf("RateLimit.PerIP = %d, want 60", cfg.RateLimit.PerIP)
		}
		if cfg.Relevance.MinScore != 0.25 {
			t.Errorf("Relevance.MinScore = %v, want 0.25", cfg.Relevance.MinScore)
		}
	})

	t.Run("reads .env file", func(t *testing.T) {
		dir := isolate(t)
		if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("UCUZBOT_SERVER_PORT=7070\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { os.Unsetenv("UCUZBOT_SERVER_PORT") })

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}
		if cfg.Server.Port != "7070" {
			t.Errorf("Server.Port = %s, want 7070", cfg.Server.Port)
		}
	})

	t.Run("reads watches and source overrides from config file", func(t *testing.T) {
		dir := isolate(t)
		yaml := `
watch:
  enabled: true
  interval: 15m
  watches:
    - id: iphone
      query: iphone 15
      target_price: "1500.00"
      stores: [kontakt, irshad]
      category: phone
sources:
  maxi:
    enabled: false
  umico:
    api_url: http://localhost:9001/suggests
`
		if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600); err != nil {
			t.Fatal(err)
		}

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if !cfg.Watch.Enabled || cfg.Watch.Interval != 15*time.Minute {
			t.Errorf("Watch = %+v, want enabled with 15m interval", cfg.Watch)
		}
		if len(cfg.Watch.Watches) != 1 {
			t.Fatalf("len(Watch.Watches) = %d, want 1", len(cfg.Watch.Watches))
		}
		w := cfg.Watch.Watches[0]
		if w.ID != "iphone" || w.TargetPrice != "1500.00" || len(w.Stores) != 2 || w.Category != "phone" {
			t.Errorf("Watch.Watches[0] = %+v", w)
		}

		maxi, ok := cfg.Sources["maxi"]
		if !ok || maxi.Enabled == nil || *maxi.Enabled {
			t.Errorf("Sources[maxi] = %+v, want disabled", maxi)
		}
		if cfg.Sources["umico"].APIURL != "http://localhost:9001/suggests" {
			t.Errorf("Sources[umico].APIURL = %s", cfg.Sources["umico"].APIURL)
		}
	})
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Cache:     CacheConfig{Type: "memory"},
			Scraper:   ScraperConfig{RetryAttempts: 3, AggregateTimeout: time.Minute},
			Relevance: RelevanceConfig{MinScore: 0.4},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"unknown cache type", func(c *Config) { c.Cache.Type = "memcached" }, "cache type"},
		{"redis without url", func(c *Config) { c.Cache.Type = "redis" }, "Redis URL"},
		{"no attempts", func(c *Config) { c.Scraper.RetryAttempts = 0 }, "retry attempts"},
		{"no aggregate timeout", func(c *Config) { c.Scraper.AggregateTimeout = 0 }, "aggregate timeout"},
		{"min score above one", func(c *Config) { c.Relevance.MinScore = 1.5 }, "min score"},
		{"zero min score keeps everything", func(c *Config) { c.Relevance.MinScore = 0 }, ""},
		{"zero penalty is a veto", func(c *Config) { c.Relevance.AccessoryPenalty = 0 }, ""},
		{"negative penalty", func(c *Config) { c.Relevance.NoisePenalty = -0.1 }, "noise penalty"},
		{"penalty above one", func(c *Config) { c.Relevance.ForPenalty = 2 }, "for penalty"},
		{"enabled watches without interval", func(c *Config) { c.Watch.Enabled = true }, "watch interval"},
		{"watch without query", func(c *Config) {
			c.Watch.Watches = []WatchSeed{{ID: "x", TargetPrice: "10"}}
		}, "needs an id and a query"},
		{"watch with bad price", func(c *Config) {
			c.Watch.Watches = []WatchSeed{{ID: "x", Query: "tv", TargetPrice: "cheap"}}
		}, "target price"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := validate(&cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
