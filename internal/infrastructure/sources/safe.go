package sources

import (
	"context"
	"fmt"

	"github.com/ucuzbot/backend/internal/domain"
	"github.com/ucuzbot/backend/pkg/logger"
)

// SafeSearch runs src.Search without ever panicking. On failure it logs and
// returns an empty slice together with the error, so callers can count the
// source as zero results and still report why.
func SafeSearch(ctx context.Context, src domain.Source, query string, maxResults int) (products []domain.Product, err error) {
	log := logger.With("sources")

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
			products = []domain.Product{}
			log.Error().Str("store", src.ID()).Str("query", query).Err(err).Msg("scraper search panicked")
		}
	}()

	products, err = src.Search(ctx, query, maxResults)
	if err != nil {
		log.Error().Str("store", src.ID()).Str("query", query).Err(err).Msg("scraper search failed")
		return []domain.Product{}, err
	}

	if products == nil {
		products = []domain.Product{}
	}
	if maxResults > 0 && len(products) > maxResults {
		products = products[:maxResults]
	}

	log.Info().Str("store", src.ID()).Str("query", query).Int("results", len(products)).Msg("scraper search succeeded")
	return products, nil
}
