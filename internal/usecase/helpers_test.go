package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/ucuzbot/backend/internal/domain"
	"github.com/ucuzbot/backend/internal/infrastructure/sources"
)

// fakeSource is a scripted adapter for fan-out tests
type fakeSource struct {
	id       string
	products []domain.Product
	err      error
	delay    time.Duration
	block    <-chan struct{}
	panicMsg string
	calls    *int
}

func (f *fakeSource) ID() string          { return f.id }
func (f *fakeSource) DisplayName() string { return f.id }

func (f *fakeSource) Search(ctx context.Context, query string, maxResults int) ([]domain.Product, error) {
	if f.calls != nil {
		*f.calls++
	}
	if f.block != nil {
		<-f.block
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	return f.products, f.err
}

func product(source, name, price string) domain.Product {
	return domain.Product{
		Name:       name,
		Price:      decimal.RequireFromString(price),
		URL:        "https://" + source + ".az/p",
		SourceID:   source,
		SourceName: source,
		InStock:    true,
	}
}

// newFakeRegistry registers the fakes in order
func newFakeRegistry(fakes ...*fakeSource) *sources.Registry {
	return sources.NewRegistry(func(r *sources.Registry) {
		for _, f := range fakes {
			f := f
			r.Register(f.id, func() domain.Source { return f })
		}
	})
}

var errUpstream = errors.New("source request failed: status 503")

func prices(products []domain.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Price.StringFixed(2)
	}
	return out
}
