package usecase

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// foldText lowercases s after NFC normalization so precomposed and combining
// forms of letters like "ş" and "ə" compare equal. cases.Caser is not safe
// for concurrent use, so a fresh one is built per call.
func foldText(s string) string {
	return cases.Lower(language.Und).String(norm.NFC.String(strings.TrimSpace(s)))
}

// tokenize folds text and splits it on whitespace and punctuation, dropping empties
func tokenize(s string) []string {
	return strings.FieldsFunc(foldText(s), isTokenSeparator)
}

func isTokenSeparator(r rune) bool {
	return unicode.IsSpace(r) || unicode.IsPunct(r)
}

// isNumericToken reports whether every rune of tok is a decimal digit
func isNumericToken(tok string) bool {
	if tok == "" {
		return false
	}
	for _, r := range tok {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// normalizeQuery collapses whitespace and folds case, used for cache keys
func normalizeQuery(q string) string {
	return strings.Join(strings.Fields(foldText(q)), " ")
}
