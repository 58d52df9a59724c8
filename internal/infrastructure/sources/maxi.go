package sources

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/ucuzbot/backend/internal/domain"
	"github.com/ucuzbot/backend/pkg/logger"
)

const (
	maxiTimeout = 10 * time.Second

	// maxiMinPageText is the shortest body text of a real result page
	maxiMinPageText = 100
)

// Maxi changes its markup often, so every field has several candidate selectors
const (
	maxiItemSelector  = ".product-card, .product-item, .catalog-item, .product-list__item, .products .item"
	maxiNameSelector  = ".product-card__name, .product-name, .product-title, h3 a, h4 a, .product-card__title"
	maxiPriceSelector = ".product-card__price, .product-price, .price, .current-price"
)

// MaxiSource scrapes Maxi.az. The site is down more often than up, so it gets a
// single attempt with a short timeout and a maintenance page counts as no results.
type MaxiSource struct {
	desc   domain.SourceDescriptor
	client *Client
}

func NewMaxi(desc domain.SourceDescriptor, opts ClientOptions) *MaxiSource {
	opts.Retry = SingleAttempt()
	if opts.Timeout <= 0 || opts.Timeout > maxiTimeout {
		opts.Timeout = maxiTimeout
	}
	return &MaxiSource{desc: desc, client: NewClient(opts)}
}

func (s *MaxiSource) ID() string          { return s.desc.ID }
func (s *MaxiSource) DisplayName() string { return s.desc.DisplayName }

func (s *MaxiSource) Search(ctx context.Context, query string, maxResults int) ([]domain.Product, error) {
	searchURL := fmt.Sprintf("%s/axtaris?q=%s", s.desc.BaseURL, url.QueryEscape(query))

	body, err := s.client.GetPage(ctx, searchURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	if isMaintenancePage(doc) {
		logger.Warn().Str("store", s.desc.ID).Msg("maxi is showing a maintenance page")
		return []domain.Product{}, nil
	}

	products := make([]domain.Product, 0, maxResults)
	doc.Find(maxiItemSelector).EachWithBreak(func(_ int, item *goquery.Selection) bool {
		if len(products) >= maxResults {
			return false
		}

		name := strings.TrimSpace(item.Find(maxiNameSelector).First().Text())
		priceText := strings.TrimSpace(item.Find(maxiPriceSelector).First().Text())
		if name == "" || priceText == "" {
			return true
		}

		price, err := ParsePrice(priceText)
		if err != nil {
			return true
		}

		href, _ := item.Find("a[href]").First().Attr("href")
		image := imageSource(item.Find("img[src], img[data-src]").First())

		if p, ok := newProduct(s.desc, name, price, href, image); ok {
			products = append(products, p)
		}
		return true
	})

	return products, nil
}

func isMaintenancePage(doc *goquery.Document) bool {
	text := strings.TrimSpace(doc.Find("body").Text())
	if text == "" {
		text = strings.TrimSpace(doc.Text())
	}
	return strings.Contains(strings.ToLower(text), "proxy") || len([]rune(text)) < maxiMinPageText
}
