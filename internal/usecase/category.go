package usecase

import (
	"sort"
	"strings"

	"github.com/ucuzbot/backend/internal/domain"
)

// Category slugs
const (
	CategoryPhone       = "phone"
	CategoryLaptop      = "laptop"
	CategoryTV          = "tv"
	CategoryTablet      = "tablet"
	CategoryHeadphones  = "headphones"
	CategoryConsole     = "console"
	CategoryAppliance   = "appliance"
	CategoryMainProduct = "main_product"
	CategoryAccessory   = "accessory"
	CategoryAll         = "all"
)

var (
	phoneTerms  = []string{"telefon", "smartfon", "iphone", "samsung", "xiaomi", "redmi", "poco", "pixel", "huawei", "honor", "oneplus"}
	laptopTerms = []string{"laptop", "noutbuk", "notebook", "macbook", "thinkpad", "ideapad", "vivobook", "zenbook"}
	tvTerms     = []string{"televizor", "tv", "oled", "qled"}
	tabletTerms = []string{"planset", "tablet", "ipad", "galaxy tab"}
)

func wordSet(lists ...[]string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, list := range lists {
		for _, w := range list {
			if _, ok := seen[w]; ok {
				continue
			}
			seen[w] = struct{}{}
			out = append(out, w)
		}
	}
	return out
}

// categories is the static category table in display order
var categories = []domain.Category{
	{
		Slug:        CategoryPhone,
		DisplayName: "Telefon",
		TriggerKeywords: []string{
			"iphone", "samsung galaxy", "xiaomi", "redmi", "poco",
			"pixel", "huawei", "honor", "oneplus", "telefon", "smartfon",
		},
		ExcludeWords: wordSet(accessoryWords),
	},
	{
		Slug:        CategoryLaptop,
		DisplayName: "Noutbuk",
		TriggerKeywords: []string{
			"macbook", "laptop", "noutbuk", "notebook",
			"thinkpad", "ideapad", "vivobook", "zenbook",
		},
		ExcludeWords: wordSet(accessoryWords, phoneTerms, tvTerms, tabletTerms),
	},
	{
		Slug:            CategoryTV,
		DisplayName:     "Televizor",
		TriggerKeywords: []string{"televizor", "tv", "oled", "qled"},
		ExcludeWords:    wordSet(accessoryWords, phoneTerms, laptopTerms, tabletTerms),
	},
	{
		Slug:            CategoryTablet,
		DisplayName:     "Planşet",
		TriggerKeywords: []string{"ipad", "planset", "tablet", "galaxy tab"},
		ExcludeWords:    wordSet(accessoryWords, phoneTerms, laptopTerms, tvTerms),
	},
	{
		Slug:        CategoryHeadphones,
		DisplayName: "Qulaqlıq",
		TriggerKeywords: []string{
			"airpods", "qulaqliq", "nausnik", "headphone",
			"earbuds", "buds", "jbl",
		},
		ExcludeWords: wordSet(accessoryWords),
	},
	{
		Slug:            CategoryConsole,
		DisplayName:     "Oyun Konsolu",
		TriggerKeywords: []string{"playstation", "ps5", "ps4", "xbox", "nintendo", "switch"},
		ExcludeWords:    wordSet(accessoryWords),
	},
	{
		Slug:            CategoryAppliance,
		DisplayName:     "Məişət Texnikası",
		TriggerKeywords: []string{"paltaryuyan", "soyuducu", "kondisioner", "tozsoran", "qabyuyan"},
		ExcludeWords:    wordSet(accessoryWords),
	},
	{
		Slug:         CategoryMainProduct,
		DisplayName:  "Əsas məhsul",
		ExcludeWords: wordSet(accessoryWords),
	},
	{
		Slug:        CategoryAccessory,
		DisplayName: "Aksessuar",
		Universal:   true,
	},
	{
		Slug:        CategoryAll,
		DisplayName: "Hamısı",
		Universal:   true,
	},
}

type keywordEntry struct {
	keyword  string
	category int
}

// keywordIndex lists every trigger keyword, longest first, so "galaxy tab"
// is tried before shorter keywords that are substrings of it
var keywordIndex = buildKeywordIndex()

func buildKeywordIndex() []keywordEntry {
	var entries []keywordEntry
	for i, c := range categories {
		for _, kw := range c.TriggerKeywords {
			entries = append(entries, keywordEntry{keyword: kw, category: i})
		}
	}
	sort.SliceStable(entries, func(a, b int) bool {
		return len([]rune(entries[a].keyword)) > len([]rune(entries[b].keyword))
	})
	return entries
}

// Categories returns a copy of the category table
func Categories() []domain.Category {
	return append([]domain.Category(nil), categories...)
}

// LookupCategory finds a category by slug. Unknown slugs are not an error.
func LookupCategory(slug string) (domain.Category, bool) {
	for _, c := range categories {
		if c.Slug == slug {
			return c, true
		}
	}
	return domain.Category{}, false
}

// DetectCategories guesses which product classes a query is about. The result
// holds each detected category once, or main_product when none matched,
// followed by accessory and all.
func DetectCategories(query string) []domain.Category {
	q := foldText(query)

	var detected []domain.Category
	seen := make(map[int]bool)
	for _, e := range keywordIndex {
		if seen[e.category] {
			continue
		}
		if strings.Contains(q, e.keyword) {
			detected = append(detected, categories[e.category])
			seen[e.category] = true
		}
	}

	if len(detected) == 0 {
		main, _ := LookupCategory(CategoryMainProduct)
		detected = append(detected, main)
	}

	accessory, _ := LookupCategory(CategoryAccessory)
	all, _ := LookupCategory(CategoryAll)
	return append(detected, accessory, all)
}
