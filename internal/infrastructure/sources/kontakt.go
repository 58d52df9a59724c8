package sources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ucuzbot/backend/internal/domain"
)

const kontaktProductsQuery = `{
  products(search: %s, pageSize: %d) {
    items {
      name
      url_key
      price_range { minimum_price { final_price { value currency } } }
      small_image { url }
    }
    total_count
  }
}`

type kontaktResponse struct {
	Data struct {
		Products struct {
			Items []struct {
				Name       string `json:"name"`
				URLKey     string `json:"url_key"`
				PriceRange struct {
					MinimumPrice struct {
						FinalPrice struct {
							Value    amount `json:"value"`
							Currency string `json:"currency"`
						} `json:"final_price"`
					} `json:"minimum_price"`
				} `json:"price_range"`
				SmallImage *struct {
					URL string `json:"url"`
				} `json:"small_image"`
			} `json:"items"`
		} `json:"products"`
	} `json:"data"`
}

// KontaktSource searches Kontakt Home through its Magento GraphQL endpoint
type KontaktSource struct {
	desc   domain.SourceDescriptor
	client *Client
}

func NewKontakt(desc domain.SourceDescriptor, opts ClientOptions) *KontaktSource {
	return &KontaktSource{desc: desc, client: NewClient(opts)}
}

func (s *KontaktSource) ID() string          { return s.desc.ID }
func (s *KontaktSource) DisplayName() string { return s.desc.DisplayName }

func (s *KontaktSource) Search(ctx context.Context, query string, maxResults int) ([]domain.Product, error) {
	// JSON string escaping is valid GraphQL string syntax
	quoted, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("failed to quote query: %w", err)
	}

	payload := map[string]string{
		"query": fmt.Sprintf(kontaktProductsQuery, quoted, maxResults),
	}
	headers := map[string]string{
		"Origin":         s.desc.BaseURL,
		"Referer":        s.desc.BaseURL + "/",
		"Sec-Fetch-Dest": "empty",
		"Sec-Fetch-Mode": "cors",
		"Sec-Fetch-Site": "same-origin",
	}

	var resp kontaktResponse
	if err := s.client.PostJSON(ctx, s.desc.BaseURL+"/graphql", payload, headers, &resp); err != nil {
		return nil, err
	}

	items := resp.Data.Products.Items
	products := make([]domain.Product, 0, min(len(items), maxResults))
	for _, item := range items {
		if len(products) >= maxResults {
			break
		}

		price, ok := amountFromJSON(item.PriceRange.MinimumPrice.FinalPrice.Value)
		if !ok {
			continue
		}

		var image string
		if item.SmallImage != nil {
			image = item.SmallImage.URL
		}

		var link string
		if item.URLKey != "" {
			link = "/" + item.URLKey + ".html"
		}

		p, ok := newProduct(s.desc, item.Name, price, link, image)
		if !ok {
			continue
		}
		products = append(products, p)
	}

	return products, nil
}
