package usecase

import "github.com/shopspring/decimal"

// ShouldTrigger reports whether candidate has reached the target price.
// Equality triggers.
func ShouldTrigger(target, candidate decimal.Decimal) bool {
	return candidate.LessThanOrEqual(target)
}
