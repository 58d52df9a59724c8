package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/ucuzbot/backend/internal/domain"
	"github.com/ucuzbot/backend/internal/metrics"
	"github.com/ucuzbot/backend/pkg/logger"
)

const defaultWatchLimitPerSource = 5

// WatchServiceConfig holds configuration for watch checks
type WatchServiceConfig struct {
	LimitPerSource int
}

// WatchService checks a single watch against live prices
type WatchService struct {
	search   *SearchService
	notifier domain.Notifier
	limit    int
}

// NewWatchService creates a watch service. notifier may be nil, in which case
// triggered checks are only reported.
func NewWatchService(search *SearchService, notifier domain.Notifier, config WatchServiceConfig) *WatchService {
	limit := config.LimitPerSource
	if limit <= 0 {
		limit = defaultWatchLimitPerSource
	}

	return &WatchService{
		search:   search,
		notifier: notifier,
		limit:    limit,
	}
}

// Check runs a fresh search for the watch and decides whether the lowest
// relevant price reached the target. A triggered check is handed to the
// notifier; a notification failure is returned together with the check.
func (s *WatchService) Check(ctx context.Context, watch domain.Watch) (*domain.WatchCheck, error) {
	if !watch.TargetPrice.IsPositive() {
		metrics.RecordWatchCheck(metrics.WatchFailed)
		return nil, fmt.Errorf("%w: target price must be positive", domain.ErrInvalidRequest)
	}

	result, err := s.search.Search(ctx, domain.SearchRequest{
		Query:          watch.Query,
		SourceIDs:      watch.SourceIDs,
		LimitPerSource: s.limit,
		CategorySlug:   watch.CategorySlug,
		NoCache:        true,
	})
	if err != nil {
		metrics.RecordWatchCheck(metrics.WatchFailed)
		return nil, err
	}

	check := &domain.WatchCheck{
		WatchID:      watch.ID,
		Query:        result.Query,
		TargetPrice:  watch.TargetPrice.StringFixed(2),
		ProductCount: len(result.Results),
		Errors:       result.Errors,
		CheckedAt:    time.Now().UTC(),
	}

	if len(result.Results) == 0 {
		metrics.RecordWatchCheck(metrics.WatchIdle)
		return check, nil
	}

	lowest := result.Results[0]
	check.Lowest = &lowest
	check.Triggered = ShouldTrigger(watch.TargetPrice, lowest.Price)

	if !check.Triggered {
		metrics.RecordWatchCheck(metrics.WatchIdle)
		return check, nil
	}

	metrics.RecordWatchCheck(metrics.WatchTriggered)
	logger.Info().
		Str("watch_id", watch.ID).
		Str("query", watch.Query).
		Str("target", check.TargetPrice).
		Str("price", lowest.Price.StringFixed(2)).
		Str("store", lowest.SourceID).
		Msg("watch triggered")

	if s.notifier == nil {
		return check, nil
	}

	err = s.notifier.Notify(ctx, domain.Notification{
		WatchID:     watch.ID,
		Query:       watch.Query,
		TargetPrice: watch.TargetPrice,
		Product:     lowest,
	})
	if err != nil {
		return check, fmt.Errorf("notify watch %s: %w", watch.ID, err)
	}
	return check, nil
}
