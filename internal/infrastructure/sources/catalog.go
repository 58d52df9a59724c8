package sources

import (
	"strings"

	"github.com/ucuzbot/backend/internal/domain"
)

// Source identifiers of the built-in adapters
const (
	Kontakt         = "kontakt"
	BakuElectronics = "baku_electronics"
	Irshad          = "irshad"
	Maxi            = "maxi"
	TapAz           = "tap_az"
	Umico           = "umico"
)

// Catalog is the ordered source configuration catalog
type Catalog []domain.SourceDescriptor

// Override adjusts a catalog entry from configuration
type Override struct {
	Enabled *bool
	BaseURL string
	APIURL  string
}

// DefaultCatalog returns the built-in source descriptors
func DefaultCatalog() Catalog {
	return Catalog{
		{
			ID:                Kontakt,
			DisplayName:       "Kontakt Home",
			BaseURL:           "https://kontakt.az",
			SearchURLTemplate: "https://kontakt.az/catalogsearch/result/?q={query}",
		},
		{
			ID:                BakuElectronics,
			DisplayName:       "Baku Electronics",
			BaseURL:           "https://www.bakuelectronics.az",
			SearchURLTemplate: "https://www.bakuelectronics.az/axtaris-neticesi?name={query}",
		},
		{
			ID:                Irshad,
			DisplayName:       "Irshad",
			BaseURL:           "https://irshad.az",
			SearchURLTemplate: "https://irshad.az/az/products/list?q={query}",
		},
		{
			ID:                Maxi,
			DisplayName:       "Maxi.az",
			BaseURL:           "https://maxi.az",
			SearchURLTemplate: "https://maxi.az/axtaris?q={query}",
		},
		{
			ID:                TapAz,
			DisplayName:       "Tap.az",
			BaseURL:           "https://tap.az",
			SearchURLTemplate: "https://tap.az/elanlar?keywords={query}",
		},
		{
			ID:                Umico,
			DisplayName:       "Birmarket",
			BaseURL:           "https://birmarket.az",
			SearchURLTemplate: "https://birmarket.az/search?q={query}",
			APIURL:            "https://mp-catalog.umico.az/api/v1/suggests",
		},
	}
}

// Lookup finds a descriptor by source ID
func (c Catalog) Lookup(id string) (domain.SourceDescriptor, bool) {
	for _, d := range c {
		if d.ID == id {
			return d, true
		}
	}
	return domain.SourceDescriptor{}, false
}

// WithOverrides returns a copy with config overrides applied and disabled sources removed
func (c Catalog) WithOverrides(overrides map[string]Override) Catalog {
	out := make(Catalog, 0, len(c))
	for _, d := range c {
		o, ok := overrides[d.ID]
		if !ok {
			out = append(out, d)
			continue
		}
		if o.Enabled != nil && !*o.Enabled {
			continue
		}
		if o.BaseURL != "" {
			d.BaseURL = strings.TrimRight(o.BaseURL, "/")
		}
		if o.APIURL != "" {
			d.APIURL = o.APIURL
		}
		out = append(out, d)
	}
	return out
}
