package sources

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// firstText returns the trimmed text of the first selector that matches inside sel
func firstText(sel *goquery.Selection, selectors ...string) string {
	for _, selector := range selectors {
		el := sel.Find(selector).First()
		if el.Length() == 0 {
			continue
		}
		if text := strings.TrimSpace(el.Text()); text != "" {
			return text
		}
	}
	return ""
}

// imageSource prefers src and falls back to the lazy-loading data-src attribute
func imageSource(img *goquery.Selection) string {
	if img.Length() == 0 {
		return ""
	}
	if src, ok := img.Attr("src"); ok && strings.TrimSpace(src) != "" {
		return src
	}
	src, _ := img.Attr("data-src")
	return src
}
