package jobs

import (
	"context"
	"time"

	"github.com/ucuzbot/backend/internal/domain"
	"github.com/ucuzbot/backend/pkg/logger"
)

// WatchCheckFunc checks one watch, see usecase.WatchService.Check
type WatchCheckFunc func(ctx context.Context, watch domain.Watch) (*domain.WatchCheck, error)

// WatchChecker periodically checks every active watch against live prices
type WatchChecker struct {
	repo     domain.WatchRepository
	check    WatchCheckFunc
	interval time.Duration
	pause    time.Duration
}

// NewWatchChecker creates a new watch checker. pause is the delay between two
// watches of one round.
func NewWatchChecker(repo domain.WatchRepository, check WatchCheckFunc, interval, pause time.Duration) *WatchChecker {
	return &WatchChecker{
		repo:     repo,
		check:    check,
		interval: interval,
		pause:    pause,
	}
}

// Start runs a round immediately and then on every tick until ctx is done
func (w *WatchChecker) Start(ctx context.Context) {
	logger.Info().Dur("interval", w.interval).Msg("watch checker started")

	w.CheckAll(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("watch checker stopped")
			return
		case <-ticker.C:
			w.CheckAll(ctx)
		}
	}
}

// CheckAll checks every active watch once. A failing watch is logged and
// skipped; it never stops the round.
func (w *WatchChecker) CheckAll(ctx context.Context) {
	watches, err := w.repo.ListActive(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("watch checker: failed to list watches")
		return
	}

	if len(watches) == 0 {
		return
	}

	logger.Info().Int("watches", len(watches)).Msg("watch checker: checking watches")

	for i, watch := range watches {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if i > 0 && w.pause > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(w.pause):
			}
		}

		check, err := w.check(ctx, watch)
		if check == nil {
			logger.Error().Err(err).Str("watch_id", watch.ID).Msg("watch checker: check failed")
			continue
		}
		if err != nil {
			logger.Warn().Err(err).Str("watch_id", watch.ID).Msg("watch checker: check finished with error")
		}

		if err := w.repo.RecordCheck(ctx, *check); err != nil {
			logger.Error().Err(err).Str("watch_id", watch.ID).Msg("watch checker: failed to record check")
			continue
		}

		if check.Triggered {
			if err := w.repo.MarkTriggered(ctx, watch.ID, check.CheckedAt); err != nil {
				logger.Error().Err(err).Str("watch_id", watch.ID).Msg("watch checker: failed to mark watch triggered")
			}
		}
	}
}
