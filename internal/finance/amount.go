package finance

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// Integer digits the numeric(12,2) money columns hold.
	maxAmountDigits = 10
	// Smallest exponent accepted; anything finer is not money.
	maxAmountScale = 20
	// Coefficient digits accepted, and the longest numeric text parsed.
	maxAmountPrecision = 32
	maxAmountText      = 64
)

// AmountInRange reports whether d lies in (-10^10, 10^10) with a bounded
// exponent. Every check reads the coefficient and exponent only, so it is
// cheap even for values like 1e20000000 that arithmetic would have to expand.
func AmountInRange(d decimal.Decimal) bool {
	digits := d.NumDigits()
	if digits > maxAmountPrecision {
		return false
	}
	exp := int(d.Exponent())
	return exp >= -maxAmountScale && digits+exp <= maxAmountDigits
}

// ParseBoundedDecimal parses s as a number inside AmountInRange.
func ParseBoundedDecimal(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > maxAmountText {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !AmountInRange(d) {
		return decimal.Zero, false
	}
	return d, true
}

// ParseID parses a whole number that fits an int32.
func ParseID(s string) (int, bool) {
	d, ok := ParseBoundedDecimal(s)
	if !ok || !d.IsInteger() {
		return 0, false
	}
	id := d.IntPart()
	if id > math.MaxInt32 || id < math.MinInt32 {
		return 0, false
	}
	return int(id), true
}

var percentLimit = decimal.NewFromInt(math.MaxInt32)

// percentOf returns num/den as a rounded whole percentage, clamped to
// ±MaxInt32 before leaving the decimal domain.
func percentOf(num, den decimal.Decimal) int64 {
	p := num.Div(den).Mul(hundred).Round(0)
	switch {
	case p.GreaterThan(percentLimit):
		return math.MaxInt32
	case p.LessThan(percentLimit.Neg()):
		return -math.MaxInt32
	}
	return p.IntPart()
}
