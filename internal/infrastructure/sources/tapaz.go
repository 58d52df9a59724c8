package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ucuzbot/backend/internal/domain"
)

const (
	tapAzAdsQuery = `{
  ads(keywords: %s, first: %d, source: DESKTOP) {
    nodes {
      id
      title
      price
      path
      region
      photo { url }
      shop { id }
    }
  }
}`

	// tapAzOverFetch compensates for ads dropped by the title pre-filter
	tapAzOverFetch = 3

	// tapAzMinWordShare is the share of query words an ad title must contain
	tapAzMinWordShare = 0.6

	tapAzShopBadge = "[Mağaza] "
)

type tapAzResponse struct {
	Data struct {
		Ads struct {
			Nodes []struct {
				Title string `json:"title"`
				Price amount `json:"price"`
				Path  string `json:"path"`
				Photo *struct {
					URL string `json:"url"`
				} `json:"photo"`
				Shop *struct {
					ID json.RawMessage `json:"id"`
				} `json:"shop"`
			} `json:"nodes"`
		} `json:"ads"`
	} `json:"data"`
}

// TapAzSource searches classified ads on Tap.az. Ads from registered shops get a badge.
type TapAzSource struct {
	desc   domain.SourceDescriptor
	client *Client
}

func NewTapAz(desc domain.SourceDescriptor, opts ClientOptions) *TapAzSource {
	return &TapAzSource{desc: desc, client: NewClient(opts)}
}

func (s *TapAzSource) ID() string          { return s.desc.ID }
func (s *TapAzSource) DisplayName() string { return s.desc.DisplayName }

func (s *TapAzSource) Search(ctx context.Context, query string, maxResults int) ([]domain.Product, error) {
	quoted, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("failed to quote query: %w", err)
	}

	payload := map[string]string{
		"query": fmt.Sprintf(tapAzAdsQuery, quoted, maxResults*tapAzOverFetch),
	}

	var resp tapAzResponse
	if err := s.client.PostJSON(ctx, s.desc.BaseURL+"/graphql", payload, nil, &resp); err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, maxResults)
	for _, node := range resp.Data.Ads.Nodes {
		if node.Title == "" || !titleMatchesQuery(node.Title, query) {
			continue
		}

		price, ok := amountFromJSON(node.Price)
		if !ok {
			continue
		}

		var image string
		if node.Photo != nil {
			image = node.Photo.URL
		}

		name := node.Title
		if node.Shop != nil && hasShopID(node.Shop.ID) {
			name = tapAzShopBadge + name
		}

		p, ok := newProduct(s.desc, name, price, node.Path, image)
		if !ok {
			continue
		}
		products = append(products, p)

		if len(products) >= maxResults {
			break
		}
	}

	return products, nil
}

// titleMatchesQuery keeps ads whose title contains most of the query words
func titleMatchesQuery(title, query string) bool {
	words := strings.Fields(strings.ToLower(query))
	if len(words) == 0 {
		return true
	}

	titleLower := strings.ToLower(title)
	matched := 0
	for _, w := range words {
		if strings.Contains(titleLower, w) {
			matched++
		}
	}
	return float64(matched) >= float64(len(words))*tapAzMinWordShare
}

func hasShopID(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return s != "" && s != "null" && s != `""` && s != "0"
}
