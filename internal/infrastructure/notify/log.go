package notify

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/ucuzbot/backend/internal/domain"
	"github.com/ucuzbot/backend/pkg/logger"
)

// LogNotifier hands notifications to the log. It stands in for a real
// dispatcher (bot message, web push) which lives outside this service.
type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{log: logger.With("notify")}
}

func (n *LogNotifier) Notify(ctx context.Context, msg domain.Notification) error {
	n.log.Info().
		Str("watch_id", msg.WatchID).
		Str("query", msg.Query).
		Str("target", msg.TargetPrice.StringFixed(2)).
		Str("price", msg.Product.Price.StringFixed(2)).
		Str("store", msg.Product.SourceName).
		Str("url", msg.Product.URL).
		Msg("price alert")
	return nil
}
