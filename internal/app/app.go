// Package app wires configuration into the search and watch services shared
// by the server and the command line tool.
package app

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/ucuzbot/backend/config"
	"github.com/ucuzbot/backend/internal/domain"
	"github.com/ucuzbot/backend/internal/infrastructure/cache"
	"github.com/ucuzbot/backend/internal/infrastructure/sources"
	"github.com/ucuzbot/backend/internal/usecase"
)

const redisKeyPrefix = "ucuzbot:"

// Catalog applies the configured source overrides to the built-in catalog
func Catalog(cfg *config.Config) sources.Catalog {
	overrides := make(map[string]sources.Override, len(cfg.Sources))
	for id, sc := range cfg.Sources {
		overrides[id] = sources.Override{
			Enabled: sc.Enabled,
			BaseURL: sc.BaseURL,
			APIURL:  sc.APIURL,
		}
	}
	return sources.DefaultCatalog().WithOverrides(overrides)
}

// ClientOptions maps the scraper settings onto adapter client options
func ClientOptions(cfg *config.Config) sources.ClientOptions {
	return sources.ClientOptions{
		Timeout:      cfg.Scraper.Timeout,
		UserAgent:    cfg.Scraper.UserAgent,
		RequestDelay: cfg.Scraper.RequestDelay,
		Retry: sources.RetryPolicy{
			Attempts:       cfg.Scraper.RetryAttempts,
			InitialBackoff: cfg.Scraper.RetryInitialBackoff,
			MaxBackoff:     cfg.Scraper.RetryMaxBackoff,
		},
	}
}

// RelevanceFilter builds the filter from the configured heuristics
func RelevanceFilter(cfg *config.Config) *usecase.RelevanceFilter {
	r := cfg.Relevance
	return usecase.NewRelevanceFilter(usecase.RelevanceConfig{
		MinScore:              r.MinScore,
		AccessoryPenalty:      r.AccessoryPenalty,
		ForPenalty:            r.ForPenalty,
		NoiseThreshold:        r.NoiseThreshold,
		NoisePenalty:          r.NoisePenalty,
		NumericMissPenalty:    r.NumericMissPenalty,
		NumericPartialPenalty: r.NumericPartialPenalty,
	})
}

// CacheCloser is a search cache that holds resources
type CacheCloser interface {
	domain.CacheRepository
	Close() error
}

// NewCache opens the configured cache backend
func NewCache(ctx context.Context, cfg *config.Config) (CacheCloser, error) {
	switch cfg.Cache.Type {
	case "redis":
		redisCache, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			URL:    cfg.Cache.RedisURL,
			Prefix: redisKeyPrefix,
		})
		if err != nil {
			return nil, err
		}
		return redisCache, nil
	case "memory", "":
		return cache.NewMemoryCache(), nil
	default:
		return nil, fmt.Errorf("unsupported cache type %q", cfg.Cache.Type)
	}
}

// NewSearchService builds the registry, aggregator and filter behind a search
// service. searchCache may be nil.
func NewSearchService(cfg *config.Config, catalog sources.Catalog, searchCache domain.CacheRepository) *usecase.SearchService {
	registry := sources.NewDefaultRegistry(catalog, ClientOptions(cfg))
	aggregator := usecase.NewAggregator(registry, usecase.AggregatorConfig{
		Timeout:      cfg.Scraper.AggregateTimeout,
		DefaultLimit: cfg.Scraper.DefaultLimit,
	})
	return usecase.NewSearchService(aggregator, RelevanceFilter(cfg), searchCache, usecase.SearchServiceConfig{
		CacheTTL: cfg.Cache.TTL,
	})
}

// Watches converts the configured watch seeds into active watches
func Watches(seeds []config.WatchSeed) ([]domain.Watch, error) {
	watches := make([]domain.Watch, 0, len(seeds))
	for _, s := range seeds {
		target, err := decimal.NewFromString(s.TargetPrice)
		if err != nil {
			return nil, fmt.Errorf("watch %s: %w", s.ID, err)
		}
		watches = append(watches, domain.Watch{
			ID:           s.ID,
			Query:        s.Query,
			TargetPrice:  target,
			SourceIDs:    s.Stores,
			CategorySlug: s.Category,
			Active:       true,
		})
	}
	return watches, nil
}
