package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SearchRequest represents an aggregated search across sources
type SearchRequest struct {
	Query          string   `json:"query" binding:"required"`
	SourceIDs      []string `json:"stores,omitempty"`
	LimitPerSource int      `json:"limit,omitempty"`
	CategorySlug   string   `json:"category,omitempty"`
	// NoCache forces a live search; scheduled watch checks always set it
	NoCache bool `json:"-"`
}

// SearchResult is the sorted, relevance-filtered outcome of a search
type SearchResult struct {
	Query        string    `json:"query"`
	Category     string    `json:"category,omitempty"`
	TotalResults int       `json:"total_results"`
	Results      []Product `json:"results"`
	Errors       []string  `json:"errors"`
	SearchedAt   time.Time `json:"searched_at"`
	Cached       bool      `json:"cached"`
}

// Watch is a user's standing request to be told when a product drops to a price
type Watch struct {
	ID           string          `json:"id"`
	Query        string          `json:"query"`
	TargetPrice  decimal.Decimal `json:"target_price"`
	SourceIDs    []string        `json:"stores,omitempty"`
	CategorySlug string          `json:"category,omitempty"`
	Active       bool            `json:"active"`
}

// WatchCheck records the outcome of checking one watch against live sources
type WatchCheck struct {
	WatchID      string    `json:"watch_id,omitempty"`
	Query        string    `json:"query"`
	TargetPrice  string    `json:"target_price"`
	Lowest       *Product  `json:"lowest,omitempty"`
	ProductCount int       `json:"product_count"`
	Errors       []string  `json:"errors"`
	Triggered    bool      `json:"triggered"`
	CheckedAt    time.Time `json:"checked_at"`
}

// Notification is handed to the dispatcher once a watch fires
type Notification struct {
	WatchID     string          `json:"watch_id"`
	Query       string          `json:"query"`
	TargetPrice decimal.Decimal `json:"target_price"`
	Product     Product         `json:"product"`
}
