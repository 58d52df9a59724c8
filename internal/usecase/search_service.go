package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ucuzbot/backend/internal/domain"
	"github.com/ucuzbot/backend/internal/metrics"
	"github.com/ucuzbot/backend/pkg/logger"
)

const (
	MinQueryLength = 2
	MaxQueryLength = 200

	defaultSearchCacheTTL = 10 * time.Minute
)

// SearchServiceConfig holds configuration for the search service
type SearchServiceConfig struct {
	CacheTTL time.Duration
}

// SearchService is the aggregate-and-filter entry point shared by the API,
// the CLI and watch checks
type SearchService struct {
	aggregator *Aggregator
	filter     *RelevanceFilter
	cache      domain.CacheRepository
	cacheTTL   time.Duration
}

// NewSearchService creates a search service. cache may be nil.
func NewSearchService(aggregator *Aggregator, filter *RelevanceFilter, cache domain.CacheRepository, config SearchServiceConfig) *SearchService {
	ttl := config.CacheTTL
	if ttl <= 0 {
		ttl = defaultSearchCacheTTL
	}

	return &SearchService{
		aggregator: aggregator,
		filter:     filter,
		cache:      cache,
		cacheTTL:   ttl,
	}
}

// Search aggregates the query across sources and drops irrelevant records.
// Flow: validate -> check cache -> aggregate -> filter -> cache -> return
func (s *SearchService) Search(ctx context.Context, request domain.SearchRequest) (*domain.SearchResult, error) {
	query := strings.TrimSpace(request.Query)
	if n := utf8.RuneCountInString(query); n < MinQueryLength || n > MaxQueryLength {
		return nil, fmt.Errorf("%w: query must be %d to %d characters", domain.ErrInvalidRequest, MinQueryLength, MaxQueryLength)
	}
	request.Query = query

	var category *domain.Category
	if request.CategorySlug != "" {
		if c, ok := LookupCategory(request.CategorySlug); ok {
			category = &c
		}
	}

	useCache := s.cache != nil && !request.NoCache
	cacheKey := searchCacheKey(request)

	if useCache {
		if cached, err := s.getFromCache(ctx, cacheKey); err == nil {
			metrics.RecordCacheLookup(true)
			cached.Cached = true
			return cached, nil
		}
		metrics.RecordCacheLookup(false)
	}

	products, errs := s.aggregator.Aggregate(ctx, query, request.SourceIDs, request.LimitPerSource)
	filtered := s.filter.Filter(products, query, category)

	result := &domain.SearchResult{
		Query:        query,
		TotalResults: len(filtered),
		Results:      filtered,
		Errors:       errs,
		SearchedAt:   time.Now().UTC(),
	}
	if category != nil {
		result.Category = category.Slug
	}

	// Partial results are not cached so a flaky source is retried on the next search
	if useCache && len(errs) == 0 {
		if err := s.setInCache(ctx, cacheKey, result); err != nil {
			logger.Warn().Err(err).Str("query", query).Msg("failed to cache search result")
		}
	}

	return result, nil
}

// searchCacheKey builds "search:{query}:{sources}:{limit}:{category}" with the
// query normalized and the sources sorted
func searchCacheKey(request domain.SearchRequest) string {
	ids := append([]string(nil), request.SourceIDs...)
	sort.Strings(ids)
	return fmt.Sprintf("search:%s:%s:%d:%s",
		normalizeQuery(request.Query),
		strings.Join(ids, ","),
		request.LimitPerSource,
		request.CategorySlug,
	)
}

func (s *SearchService) getFromCache(ctx context.Context, key string) (*domain.SearchResult, error) {
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	var result domain.SearchResult
	if err := json.Unmarshal(data, &result); err != nil {
		// a corrupt entry is as good as a miss
		_ = s.cache.Delete(ctx, key)
		return nil, errors.Join(domain.ErrCacheMiss, err)
	}
	// JSON drops trailing zeros; restore the two fraction digits of a price
	for i := range result.Results {
		result.Results[i].Price = result.Results[i].Price.Round(2)
	}
	return &result, nil
}

func (s *SearchService) setInCache(ctx context.Context, key string, result *domain.SearchResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, key, data, s.cacheTTL)
}
