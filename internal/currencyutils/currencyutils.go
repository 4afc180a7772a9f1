// Package currencyutils parses purchase amounts typed by users.
package currencyutils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var currencyMarks = regexp.MustCompile(`(?i)USD|EUR|GBP|CHF|[€$£¥\s]`)

// ParseAmount parses a string representation of an amount into a decimal value.
// It handles formats like "1,234.56", "1.234,56", "1'234.56" and "$1,234".
// An empty string is zero.
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	if strings.TrimSpace(amountStr) == "" {
		return decimal.Zero, nil
	}

	amount, err := decimal.NewFromString(StandardizeAmount(amountStr))
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}
	return amount, nil
}

// StandardizeAmount converts various currency string formats to a standard
// format that can be parsed by decimal.NewFromString.
func StandardizeAmount(amountStr string) string {
	amountStr = currencyMarks.ReplaceAllString(amountStr, "")
	amountStr = strings.ReplaceAll(amountStr, "'", "")

	lastComma := strings.LastIndex(amountStr, ",")
	lastDot := strings.LastIndex(amountStr, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0 && lastDot < lastComma:
		// European format (1.234,56)
		amountStr = strings.ReplaceAll(amountStr, ".", "")
		amountStr = strings.ReplaceAll(amountStr, ",", ".")
	case lastComma >= 0 && lastDot >= 0:
		// US format (1,234.56)
		amountStr = strings.ReplaceAll(amountStr, ",", "")
	case lastComma >= 0:
		parts := strings.Split(amountStr, ",")
		if len(parts) == 2 && len(parts[1]) <= 2 {
			// Comma used as decimal separator (1234,56)
			amountStr = strings.Replace(amountStr, ",", ".", 1)
		} else {
			// Comma used as thousand separator (1,234)
			amountStr = strings.ReplaceAll(amountStr, ",", "")
		}
	case strings.Count(amountStr, ".") > 1 && lastDot == len(amountStr)-4:
		// Dots as thousand separators (1.234.567)
		amountStr = strings.ReplaceAll(amountStr, ".", "")
	}

	return amountStr
}
