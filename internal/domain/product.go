package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the normalized record every source adapter produces
type Product struct {
	Name       string          `json:"product_name"`
	Price      decimal.Decimal `json:"price"`
	URL        string          `json:"product_url"`
	SourceID   string          `json:"store_slug"`
	SourceName string          `json:"store_name"`
	ImageURL   string          `json:"image_url,omitempty"`
	InStock    bool            `json:"in_stock"`
	ScrapedAt  time.Time       `json:"scraped_at"`
}

// SourceDescriptor describes one external catalog in the source configuration catalog
type SourceDescriptor struct {
	ID                string `json:"slug"`
	DisplayName       string `json:"name"`
	BaseURL           string `json:"base_url"`
	SearchURLTemplate string `json:"search_url_template,omitempty"`
	// APIURL is set for sources whose search API is not served from BaseURL
	APIURL string `json:"-"`
}

// Category is a product class used to veto wrong results during relevance filtering
type Category struct {
	Slug            string   `json:"slug"`
	DisplayName     string   `json:"name"`
	TriggerKeywords []string `json:"-"`
	ExcludeWords    []string `json:"-"`
	Universal       bool     `json:"-"`
}
