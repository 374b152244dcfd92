package finance

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const nbsp = "\u00a0"

// FormatCurrency renders whole rubles the way ru-RU locales do: "1 500 ₽"
// with non-breaking spaces.
func FormatCurrency(amount decimal.Decimal) string {
	s := amount.Round(0).String()

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}

	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteString(nbsp)
		}
		b.WriteRune(r)
	}
	return sign + b.String() + nbsp + "₽"
}

// FormatDate renders dd.mm.yyyy, or "" for a missing date.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02.01.2006")
}
