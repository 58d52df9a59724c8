package sources

import (
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/ucuzbot/backend/internal/domain"
)

// newProduct builds a normalized record, rejecting nameless or non-positive entries
func newProduct(desc domain.SourceDescriptor, name string, price decimal.Decimal, link, image string) (domain.Product, bool) {
	name = strings.TrimSpace(name)
	if name == "" || !price.IsPositive() {
		return domain.Product{}, false
	}

	productURL := resolveURL(desc.BaseURL, link)
	if productURL == "" {
		productURL = desc.BaseURL
	}

	return domain.Product{
		Name:       name,
		Price:      price.Round(2),
		URL:        productURL,
		SourceID:   desc.ID,
		SourceName: desc.DisplayName,
		ImageURL:   resolveURL(desc.BaseURL, image),
		InStock:    true,
		ScrapedAt:  time.Now().UTC(),
	}, true
}

// resolveURL makes href absolute against base. Empty input stays empty.
func resolveURL(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}

	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	if ref.IsAbs() {
		return ref.String()
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}
	return baseURL.ResolveReference(ref).String()
}

// amountFromJSON converts a JSON scalar price into a decimal
func amountFromJSON(a amount) (decimal.Decimal, bool) {
	s := strings.TrimSpace(string(a))
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// amount accepts a JSON number, a numeric string or null
type amount string

func (a *amount) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*a = ""
		return nil
	}
	*a = amount(strings.Trim(s, `"`))
	return nil
}
