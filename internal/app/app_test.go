package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ucuzbot/backend/config"
	"github.com/ucuzbot/backend/internal/infrastructure/cache"
	"github.com/ucuzbot/backend/internal/infrastructure/sources"
)

func TestCatalog_AppliesOverrides(t *testing.T) {
	disabled := false
	cfg := &config.Config{
		Sources: map[string]config.SourceConfig{
			sources.Maxi:    {Enabled: &disabled},
			sources.Kontakt: {BaseURL: "http://127.0.0.1:9000/"},
		},
	}

	catalog := Catalog(cfg)

	_, ok := catalog.Lookup(sources.Maxi)
	assert.False(t, ok, "disabled source should be dropped")

	kontakt, ok := catalog.Lookup(sources.Kontakt)
	require.True(t, ok)
	assert.Equal(t, "http://127.0.0.1:9000", kontakt.BaseURL)
	assert.Len(t, catalog, len(sources.DefaultCatalog())-1)
}

func TestClientOptions(t *testing.T) {
	cfg := &config.Config{Scraper: config.ScraperConfig{
		Timeout:             5 * time.Second,
		RequestDelay:        time.Second,
		UserAgent:           "ucuzbot-test",
		RetryAttempts:       2,
		RetryInitialBackoff: time.Second,
		RetryMaxBackoff:     4 * time.Second,
	}}

	opts := ClientOptions(cfg)

	assert.Equal(t, 5*time.Second, opts.Timeout)
	assert.Equal(t, "ucuzbot-test", opts.UserAgent)
	assert.Equal(t, sources.RetryPolicy{Attempts: 2, InitialBackoff: time.Second, MaxBackoff: 4 * time.Second}, opts.Retry)
}

func TestRelevanceFilter(t *testing.T) {
	t.Run("unset section takes defaults", func(t *testing.T) {
		got := RelevanceFilter(&config.Config{}).Config()
		assert.Equal(t, 0.4, got.MinScore)
		assert.Equal(t, 0.1, got.AccessoryPenalty)
	})

	t.Run("configured zeros are honoured", func(t *testing.T) {
		cfg := &config.Config{Relevance: config.RelevanceConfig{
			MinScore:              0,
			AccessoryPenalty:      0,
			ForPenalty:            0.2,
			NoiseThreshold:        0.7,
			NoisePenalty:          0.6,
			NumericMissPenalty:    0.1,
			NumericPartialPenalty: 0.5,
		}}

		got := RelevanceFilter(cfg).Config()

		assert.Equal(t, 0.0, got.MinScore)
		assert.Equal(t, 0.0, got.AccessoryPenalty)
		assert.Equal(t, 0.6, got.NoisePenalty)
	})
}

func TestNewCache(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		c, err := NewCache(context.Background(), &config.Config{Cache: config.CacheConfig{Type: "memory"}})
		require.NoError(t, err)
		defer c.Close()
		assert.IsType(t, &cache.MemoryCache{}, c)
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := NewCache(context.Background(), &config.Config{Cache: config.CacheConfig{Type: "memcached"}})
		assert.Error(t, err)
	})
}

func TestWatches(t *testing.T) {
	watches, err := Watches([]config.WatchSeed{
		{ID: "w1", Query: "iphone 15", TargetPrice: "1500.50", Stores: []string{"kontakt"}, Category: "phone"},
	})
	require.NoError(t, err)
	require.Len(t, watches, 1)

	w := watches[0]
	assert.Equal(t, "w1", w.ID)
	assert.Equal(t, "1500.50", w.TargetPrice.StringFixed(2))
	assert.Equal(t, []string{"kontakt"}, w.SourceIDs)
	assert.Equal(t, "phone", w.CategorySlug)
	assert.True(t, w.Active)

	_, err = Watches([]config.WatchSeed{{ID: "bad", Query: "x", TargetPrice: "cheap"}})
	assert.Error(t, err)
}
