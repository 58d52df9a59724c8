package main

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/ucuzbot/backend/internal/domain"
)

func sampleResult() *domain.SearchResult {
	return &domain.SearchResult{
		Query:        "iphone 15",
		TotalResults: 2,
		Results: []domain.Product{
			{Name: "Apple iPhone 15 128GB Black", Price: decimal.RequireFromString("1749"), SourceName: "Birmarket", URL: "https://birmarket.az/product/1"},
			{Name: "Apple iPhone 15 128GB", Price: decimal.RequireFromString("1799"), SourceName: "Kontakt Home", URL: "https://kontakt.az/p"},
		},
		Errors: []string{"maxi: timed out"},
	}
}

func TestPrintResult(t *testing.T) {
	var out bytes.Buffer
	printResult(&out, sampleResult())

	got := out.String()
	assert.Contains(t, got, `2 offers for "iphone 15"`)
	assert.Contains(t, got, "1749.00 AZN")
	assert.Contains(t, got, "maxi: timed out")
	assert.Less(t, bytes.Index(out.Bytes(), []byte("1749.00")), bytes.Index(out.Bytes(), []byte("1799.00")))
}

func TestPrintDecision(t *testing.T) {
	tests := []struct {
		name   string
		result *domain.SearchResult
		target string
		want   string
	}{
		{"reached", sampleResult(), "1749", "TARGET REACHED: 1749.00 AZN at Birmarket"},
		{"above", sampleResult(), "1500", "above target: 1749.00 AZN"},
		{"nothing found", &domain.SearchResult{}, "1500", "no offers to compare"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			printDecision(&out, tt.result, decimal.RequireFromString(tt.target))
			assert.Contains(t, out.String(), tt.want)
		})
	}
}

func TestRun_RejectsBadTarget(t *testing.T) {
	err := run(Options{Query: "iphone", Target: "-5"}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "target must be a positive number")
}
