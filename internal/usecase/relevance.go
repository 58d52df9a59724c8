package usecase

import (
	"strings"
	"unicode/utf8"

	"github.com/ucuzbot/backend/internal/domain"
)

// accessoryWords mark peripherals and add-ons in Azerbaijani, Turkish, English
// and Russian. They are substring matched so suffixed forms ("çexollar") hit.
var accessoryWords = []string{
	// cases and covers
	"çexol", "keys", "case", "cover", "qab", "kabura", "kılıf", "bumper", "sleeve", "pouch",
	// screen protection
	"qoruyucu", "koruyucu", "protector", "tempered", "ekran şüşə",
	// cables, chargers, adapters
	"kabel", "cable", "cord", "adapter", "adaptör", "şarj", "charger", "naqil", "şnur",
	// generic
	"aksesuar", "aksessuar", "accessory", "accessories",
	// holders and mounts
	"tutacaq", "holder", "stand", "mount", "tripod",
	// stickers and skins
	"sticker", "yapışqan", "skin", "decal",
	// straps and bags
	"strap", "qayış", "band", "çanta",
}

// forWords mean "for" and are matched as whole tokens ("for" is inside "format")
var forWords = map[string]struct{}{
	"üçün":  {},
	"uchun": {},
	"for":   {},
	"для":   {},
}

// RelevanceConfig holds the scoring heuristics. The values are empirical.
type RelevanceConfig struct {
	MinScore              float64
	AccessoryPenalty      float64
	ForPenalty            float64
	NoiseThreshold        float64
	NoisePenalty          float64
	NumericMissPenalty    float64
	NumericPartialPenalty float64
}

// DefaultRelevanceConfig returns the tuned defaults
func DefaultRelevanceConfig() RelevanceConfig {
	return RelevanceConfig{
		MinScore:              0.4,
		AccessoryPenalty:      0.1,
		ForPenalty:            0.2,
		NoiseThreshold:        0.7,
		NoisePenalty:          0.6,
		NumericMissPenalty:    0.1,
		NumericPartialPenalty: 0.5,
	}
}

// withDefaults fills negative fields from the defaults. Zero is a valid
// setting (a zero penalty vetoes); only the zero value config as a whole
// means "all defaults".
func (c RelevanceConfig) withDefaults() RelevanceConfig {
	d := DefaultRelevanceConfig()
	if c == (RelevanceConfig{}) {
		return d
	}
	pick := func(v, def float64) float64 {
		if v < 0 {
			return def
		}
		return v
	}
	return RelevanceConfig{
		MinScore:              pick(c.MinScore, d.MinScore),
		AccessoryPenalty:      pick(c.AccessoryPenalty, d.AccessoryPenalty),
		ForPenalty:            pick(c.ForPenalty, d.ForPenalty),
		NoiseThreshold:        pick(c.NoiseThreshold, d.NoiseThreshold),
		NoisePenalty:          pick(c.NoisePenalty, d.NoisePenalty),
		NumericMissPenalty:    pick(c.NumericMissPenalty, d.NumericMissPenalty),
		NumericPartialPenalty: pick(c.NumericPartialPenalty, d.NumericPartialPenalty),
	}
}

// RelevanceFilter scores product names against a query and drops the ones
// that are probably a different product, typically accessories for it
type RelevanceFilter struct {
	cfg RelevanceConfig
}

// NewRelevanceFilter creates a filter; a zero config or negative fields take the defaults
func NewRelevanceFilter(cfg RelevanceConfig) *RelevanceFilter {
	return &RelevanceFilter{cfg: cfg.withDefaults()}
}

// Config returns the effective heuristics
func (f *RelevanceFilter) Config() RelevanceConfig {
	return f.cfg
}

// Score rates in [0,1] how likely productName is the thing query asks for.
// A nil or universal category disables the hard exclusion step.
//
// Numeric tokens match by prefix when followed by a non-digit, so "512"
// matches "512gb" and also any unrelated number like "512azn" printed in the
// name. That is a known limitation of the heuristic.
func (f *RelevanceFilter) Score(query, productName string, category *domain.Category) float64 {
	productLower := foldText(productName)
	queryLower := foldText(query)

	if category != nil && !category.Universal && containsAny(productLower, category.ExcludeWords) {
		return 0
	}

	queryTokens := tokenize(query)
	if len(queryTokens) == 0 {
		return 0
	}
	productTokens := tokenize(productName)

	matched := 0
	numericTotal, numericMatched := 0, 0
	for _, qt := range queryTokens {
		ok := tokenMatches(qt, productTokens, productLower)
		if ok {
			matched++
		}
		if isNumericToken(qt) {
			numericTotal++
			if ok {
				numericMatched++
			}
		}
	}
	score := float64(matched) / float64(len(queryTokens))

	if containsAny(productLower, accessoryWords) && !containsAny(queryLower, accessoryWords) {
		score *= f.cfg.AccessoryPenalty
	}

	if hasForWord(productTokens) && !hasForWord(queryTokens) {
		score *= f.cfg.ForPenalty
	}

	if matched > 0 && len(productTokens) > 3 {
		if unrelatedShare(productTokens, queryTokens) > f.cfg.NoiseThreshold {
			score *= f.cfg.NoisePenalty
		}
	}

	if numericTotal > 0 {
		switch {
		case numericMatched == 0:
			score *= f.cfg.NumericMissPenalty
		case numericMatched < numericTotal:
			score *= f.cfg.NumericPartialPenalty
		}
	}

	return score
}

// Filter keeps products scoring at least MinScore, preserving their order.
// An empty result is a valid answer: nothing relevant was found.
func (f *RelevanceFilter) Filter(products []domain.Product, query string, category *domain.Category) []domain.Product {
	kept := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if f.Score(query, p.Name, category) >= f.cfg.MinScore {
			kept = append(kept, p)
		}
	}
	return kept
}

// tokenMatches applies the per-token rule: numbers match exactly or as a
// prefix followed by a non-digit, short tokens match exactly, longer tokens
// match anywhere in the name to tolerate suffixes.
func tokenMatches(qt string, productTokens []string, productLower string) bool {
	switch {
	case isNumericToken(qt):
		for _, pt := range productTokens {
			if pt == qt {
				return true
			}
			if strings.HasPrefix(pt, qt) {
				next, _ := utf8.DecodeRuneInString(pt[len(qt):])
				if next < '0' || next > '9' {
					return true
				}
			}
		}
		return false
	case utf8.RuneCountInString(qt) <= 2:
		for _, pt := range productTokens {
			if pt == qt {
				return true
			}
		}
		return false
	default:
		return strings.Contains(productLower, qt)
	}
}

// unrelatedShare is the fraction of product tokens that neither contain nor
// are contained by any query token
func unrelatedShare(productTokens, queryTokens []string) float64 {
	unrelated := 0
	for _, pt := range productTokens {
		related := false
		for _, qt := range queryTokens {
			if strings.Contains(pt, qt) || strings.Contains(qt, pt) {
				related = true
				break
			}
		}
		if !related {
			unrelated++
		}
	}
	return float64(unrelated) / float64(len(productTokens))
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func hasForWord(tokens []string) bool {
	for _, t := range tokens {
		if _, ok := forWords[t]; ok {
			return true
		}
	}
	return false
}
