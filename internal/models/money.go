package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// Hundred converts multipliers and APRs expressed as percentages.
	Hundred = decimal.NewFromInt(100)
	// MonthsPerYear annualises monthly figures.
	MonthsPerYear = decimal.NewFromInt(12)
)

// FormatUSD renders an amount as "$1,234.56". Negative amounts get a leading
// minus sign.
func FormatUSD(d decimal.Decimal) string {
	fixed := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	return fmt.Sprintf("%s$%s.%s", sign, b.String(), frac)
}

// FormatMultiplier renders a multiplier as "4x" or "1.5x".
func FormatMultiplier(m float64) string {
	return decimal.NewFromFloat(m).String() + "x"
}
