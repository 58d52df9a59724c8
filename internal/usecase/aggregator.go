package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/ucuzbot/backend/internal/domain"
	"github.com/ucuzbot/backend/internal/infrastructure/sources"
	"github.com/ucuzbot/backend/internal/metrics"
	"github.com/ucuzbot/backend/pkg/logger"
)

const (
	defaultAggregateTimeout = 60 * time.Second
	defaultLimitPerSource   = 10
)

// AggregatorConfig holds fan-out settings
type AggregatorConfig struct {
	// Timeout bounds the whole aggregate call. Sources still running at the
	// deadline are reported as timed out.
	Timeout time.Duration
	// DefaultLimit is used when a caller passes a non-positive per-source limit
	DefaultLimit int
}

// Aggregator queries every selected source concurrently and merges the results
type Aggregator struct {
	provider     domain.SourceProvider
	timeout      time.Duration
	defaultLimit int
}

// NewAggregator creates an aggregator over the sources of provider
func NewAggregator(provider domain.SourceProvider, config AggregatorConfig) *Aggregator {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = defaultAggregateTimeout
	}

	limit := config.DefaultLimit
	if limit <= 0 {
		limit = defaultLimitPerSource
	}

	return &Aggregator{
		provider:     provider,
		timeout:      timeout,
		defaultLimit: limit,
	}
}

type sourceOutcome struct {
	index    int
	products []domain.Product
	err      error
}

// Aggregate searches the selected sources (all registered ones when sourceIDs
// is empty) and returns their records sorted by price ascending, ties in
// fan-out order, plus one "<id>: <message>" entry per failed source.
func (a *Aggregator) Aggregate(ctx context.Context, query string, sourceIDs []string, perSourceLimit int) ([]domain.Product, []string) {
	if perSourceLimit <= 0 {
		perSourceLimit = a.defaultLimit
	}

	targets := a.resolveTargets(sourceIDs)
	if len(targets) == 0 {
		return []domain.Product{}, []string{}
	}

	parent := ctx
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	results := make(chan sourceOutcome, len(targets))
	for i, id := range targets {
		constructor, _ := a.provider.Get(id)
		go func(index int, id string, constructor domain.SourceConstructor) {
			started := time.Now()
			products, err := runSource(ctx, constructor, query, perSourceLimit)

			// past the deadline the outcome is recorded as a timeout by the collector
			if ctx.Err() == nil {
				outcome := metrics.OutcomeSuccess
				if err != nil {
					outcome = metrics.OutcomeError
				}
				metrics.RecordSourceSearch(id, outcome, time.Since(started))
			}

			results <- sourceOutcome{index: index, products: products, err: err}
		}(i, id, constructor)
	}

	outcomes := make([]*sourceOutcome, len(targets))
	pending := len(targets)
wait:
	for pending > 0 {
		select {
		case r := <-results:
			outcomes[r.index] = &r
			pending--
		case <-ctx.Done():
			break wait
		}
	}

	var merged []domain.Product
	errs := []string{}
	for i, id := range targets {
		o := outcomes[i]
		switch {
		case o == nil && errors.Is(parent.Err(), context.Canceled):
			metrics.RecordSourceSearch(id, metrics.OutcomeError, 0)
			logger.Warn().Str("store", id).Str("query", query).Msg("search cancelled before source finished")
			errs = append(errs, fmt.Sprintf("%s: %s", id, parent.Err()))
		case o == nil:
			metrics.RecordSourceSearch(id, metrics.OutcomeTimeout, a.timeout)
			logger.Warn().Str("store", id).Str("query", query).Dur("timeout", a.timeout).Msg("source did not finish before deadline")
			errs = append(errs, fmt.Sprintf("%s: %s", id, domain.ErrSourceTimeout))
		case o.err != nil:
			errs = append(errs, fmt.Sprintf("%s: %s", id, o.err))
		default:
			merged = append(merged, o.products...)
		}
	}

	if merged == nil {
		merged = []domain.Product{}
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Price.LessThan(merged[j].Price)
	})

	logger.Info().Str("query", query).Int("sources", len(targets)).Int("results", len(merged)).Int("errors", len(errs)).Msg("aggregate search finished")
	return merged, errs
}

// runSource builds a fresh adapter and invokes it through the safe wrapper.
// A panicking constructor is contained the same way as a panicking search.
func runSource(ctx context.Context, constructor domain.SourceConstructor, query string, limit int) (products []domain.Product, err error) {
	defer func() {
		if r := recover(); r != nil {
			products, err = []domain.Product{}, fmt.Errorf("panic: %v", r)
		}
	}()
	return sources.SafeSearch(ctx, constructor(), query, limit)
}

// resolveTargets returns the registered IDs in registration order, restricted
// to sourceIDs when given. Unknown IDs are ignored.
func (a *Aggregator) resolveTargets(sourceIDs []string) []string {
	registered := a.provider.IDs()
	if len(sourceIDs) == 0 {
		return registered
	}

	wanted := make(map[string]bool, len(sourceIDs))
	for _, id := range sourceIDs {
		wanted[id] = true
	}

	targets := make([]string, 0, len(sourceIDs))
	for _, id := range registered {
		if wanted[id] {
			targets = append(targets, id)
		}
	}
	return targets
}
