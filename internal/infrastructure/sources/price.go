package sources

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"github.com/ucuzbot/backend/internal/domain"
)

// ParseError is returned by ParsePrice when no numeric value is recoverable
type ParseError struct {
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %q", domain.ErrPriceParse, e.Input)
}

func (e *ParseError) Unwrap() error {
	return domain.ErrPriceParse
}

// Price formats, tried in order. They are mutually exclusive for well-formed input.
var (
	dotThousandsPattern   = regexp.MustCompile(`^\d{1,3}(\.\d{3})+(,\d{2})?$`)   // 1.299,00
	commaThousandsPattern = regexp.MustCompile(`^\d{1,3}(,\d{3})+(\.\d{2})?$`)   // 1,299.00
	spaceThousandsPattern = regexp.MustCompile(`^\d{1,3}( \d{3})+([.,]\d{2})?$`) // 1 299,00
	plainNumberPattern    = regexp.MustCompile(`^\d+(\.\d+)?$`)                  // 1299.99
	commaDecimalPattern   = regexp.MustCompile(`^\d+,\d+$`)                      // 1299,99
)

// ParsePrice converts a locale formatted price string ("1 299,99 ₼", "1.299 AZN",
// "1,299.00") into a decimal with exactly two fraction digits.
func ParsePrice(raw string) (decimal.Decimal, error) {
	cleaned := stripCurrency(raw)
	if cleaned == "" {
		return decimal.Zero, &ParseError{Input: raw}
	}

	switch {
	case dotThousandsPattern.MatchString(cleaned):
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	case commaThousandsPattern.MatchString(cleaned):
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	case spaceThousandsPattern.MatchString(cleaned):
		cleaned = strings.ReplaceAll(cleaned, " ", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	case plainNumberPattern.MatchString(cleaned):
	case commaDecimalPattern.MatchString(cleaned):
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	default:
		cleaned = normalizeSeparators(cleaned)
	}

	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, &ParseError{Input: raw}
	}

	return value.Round(2), nil
}

// stripCurrency drops currency symbols and letters, keeping digits, separators
// and inner spaces. Non-breaking and thin spaces become plain spaces.
func stripCurrency(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))

	for _, r := range raw {
		switch {
		case isASCIIDigit(r), r == '.', r == ',':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}

	return strings.TrimSpace(b.String())
}

// normalizeSeparators is the catch-all for degenerate formats: the rightmost of
// comma and dot is the decimal separator, a lone comma is a decimal separator.
func normalizeSeparators(s string) string {
	s = strings.Map(func(r rune) rune {
		if isASCIIDigit(r) || r == '.' || r == ',' {
			return r
		}
		return -1
	}, s)

	hasComma := strings.Contains(s, ",")
	hasDot := strings.Contains(s, ".")

	switch {
	case hasComma && hasDot:
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case hasComma:
		s = strings.ReplaceAll(s, ",", ".")
	}

	return s
}

func isASCIIDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
