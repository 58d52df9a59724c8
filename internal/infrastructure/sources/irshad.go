package sources

import (
	"bytes"
	"context"
	"fmt"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"github.com/ucuzbot/backend/internal/domain"
	"github.com/ucuzbot/backend/pkg/logger"
)

// irshadPriceSelectors are tried in order: discounted price first
var irshadPriceSelectors = []string{".new-price", ".old-price", ".product__price__current"}

// IrshadSource parses the AJAX product grid Irshad renders for a search
type IrshadSource struct {
	desc   domain.SourceDescriptor
	client *Client
}

func NewIrshad(desc domain.SourceDescriptor, opts ClientOptions) *IrshadSource {
	return &IrshadSource{desc: desc, client: NewClient(opts)}
}

func (s *IrshadSource) ID() string          { return s.desc.ID }
func (s *IrshadSource) DisplayName() string { return s.desc.DisplayName }

func (s *IrshadSource) Search(ctx context.Context, query string, maxResults int) ([]domain.Product, error) {
	searchURL := fmt.Sprintf("%s/az/products/list?q=%s", s.desc.BaseURL, url.QueryEscape(query))

	body, err := s.client.GetPage(ctx, searchURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	grid := doc.Find("#productGridItems").First()
	if grid.Length() == 0 {
		logger.Warn().Str("store", s.desc.ID).Msg("irshad product grid not found")
		return []domain.Product{}, nil
	}

	products := make([]domain.Product, 0, maxResults)
	grid.Find(".product").EachWithBreak(func(_ int, item *goquery.Selection) bool {
		if len(products) >= maxResults {
			return false
		}

		nameEl := item.Find("a.product__name").First()
		if nameEl.Length() == 0 {
			return true
		}
		href, _ := nameEl.Attr("href")

		priceText := firstText(item, irshadPriceSelectors...)
		if priceText == "" {
			return true
		}
		price, err := ParsePrice(priceText)
		if err != nil {
			return true
		}

		image := imageSource(item.Find(".product__img img").First())

		if p, ok := newProduct(s.desc, nameEl.Text(), price, href, image); ok {
			products = append(products, p)
		}
		return true
	})

	return products, nil
}
