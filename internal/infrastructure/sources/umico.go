package sources

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/ucuzbot/backend/internal/domain"
)

type umicoResponse struct {
	Products []struct {
		ID          amount `json:"id"`
		Name        string `json:"name"`
		SluggedName string `json:"slugged_name"`
		RetailPrice amount `json:"retail_price"`
		MainImg     *struct {
			Small  string `json:"small"`
			Medium string `json:"medium"`
			Big    string `json:"big"`
		} `json:"main_img"`
	} `json:"products"`
}

// UmicoSource queries the Birmarket (Umico) catalog suggest API
type UmicoSource struct {
	desc   domain.SourceDescriptor
	client *Client
}

func NewUmico(desc domain.SourceDescriptor, opts ClientOptions) *UmicoSource {
	if desc.APIURL == "" {
		desc.APIURL = desc.BaseURL + "/api/v1/suggests"
	}
	return &UmicoSource{desc: desc, client: NewClient(opts)}
}

func (s *UmicoSource) ID() string          { return s.desc.ID }
func (s *UmicoSource) DisplayName() string { return s.desc.DisplayName }

func (s *UmicoSource) Search(ctx context.Context, query string, maxResults int) ([]domain.Product, error) {
	params := url.Values{}
	params.Set("full_text", query)
	params.Set("per_page", strconv.Itoa(maxResults))

	var resp umicoResponse
	if err := s.client.GetJSON(ctx, s.desc.APIURL, params, nil, &resp); err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, min(len(resp.Products), maxResults))
	for _, item := range resp.Products {
		if len(products) >= maxResults {
			break
		}

		price, ok := amountFromJSON(item.RetailPrice)
		if !ok {
			continue
		}

		var image string
		if item.MainImg != nil {
			image = firstNonEmpty(item.MainImg.Medium, item.MainImg.Small, item.MainImg.Big)
		}

		var link string
		if item.ID != "" && item.SluggedName != "" {
			link = fmt.Sprintf("/product/%s-%s", item.ID, item.SluggedName)
		}

		p, ok := newProduct(s.desc, item.Name, price, link, image)
		if !ok {
			continue
		}
		products = append(products, p)
	}

	return products, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
