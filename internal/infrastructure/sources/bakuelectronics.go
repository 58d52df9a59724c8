package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ucuzbot/backend/internal/domain"
	"github.com/ucuzbot/backend/pkg/logger"
)

// bakuNextData mirrors the part of the Next.js page state holding search results
type bakuNextData struct {
	Props struct {
		PageProps struct {
			Products struct {
				Products struct {
					Items []struct {
						Name     string `json:"name"`
						Slug     string `json:"slug"`
						Price    amount `json:"price"`
						Discount amount `json:"discount"`
						Image    string `json:"image"`
					} `json:"items"`
				} `json:"products"`
			} `json:"products"`
		} `json:"pageProps"`
	} `json:"props"`
}

// BakuElectronicsSource reads the __NEXT_DATA__ blob embedded in the search page
type BakuElectronicsSource struct {
	desc   domain.SourceDescriptor
	client *Client
}

func NewBakuElectronics(desc domain.SourceDescriptor, opts ClientOptions) *BakuElectronicsSource {
	return &BakuElectronicsSource{desc: desc, client: NewClient(opts)}
}

func (s *BakuElectronicsSource) ID() string          { return s.desc.ID }
func (s *BakuElectronicsSource) DisplayName() string { return s.desc.DisplayName }

func (s *BakuElectronicsSource) Search(ctx context.Context, query string, maxResults int) ([]domain.Product, error) {
	searchURL := fmt.Sprintf("%s/axtaris-neticesi?name=%s", s.desc.BaseURL, url.QueryEscape(query))

	body, err := s.client.GetPage(ctx, searchURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	blob := strings.TrimSpace(doc.Find("script#__NEXT_DATA__").First().Text())
	if blob == "" {
		logger.Warn().Str("store", s.desc.ID).Msg("baku electronics page has no __NEXT_DATA__")
		return []domain.Product{}, nil
	}

	var data bakuNextData
	if err := json.Unmarshal([]byte(blob), &data); err != nil {
		return nil, fmt.Errorf("failed to decode __NEXT_DATA__: %w", err)
	}

	items := data.Props.PageProps.Products.Products.Items
	products := make([]domain.Product, 0, min(len(items), maxResults))
	for _, item := range items {
		if len(products) >= maxResults {
			break
		}

		price, ok := amountFromJSON(item.Price)
		if !ok {
			continue
		}
		// discount is an absolute amount off the list price
		if discount, ok := amountFromJSON(item.Discount); ok && discount.IsPositive() {
			price = price.Sub(discount)
		}

		p, ok := newProduct(s.desc, item.Name, price, "/mehsul/"+item.Slug, item.Image)
		if !ok {
			continue
		}
		products = append(products, p)
	}

	return products, nil
}
