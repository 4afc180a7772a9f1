// Package common contains shared functionality for command handlers
package common

import (
	"fmt"
	"strings"
	"time"

	"fjacquet/card-advisor/internal/cardstore"
	"fjacquet/card-advisor/internal/currencyutils"
	"fjacquet/card-advisor/internal/dateutils"
	"fjacquet/card-advisor/internal/logging"
	"fjacquet/card-advisor/internal/models"
	"fjacquet/card-advisor/internal/validation"

	"github.com/shopspring/decimal"
)

// LoadCards reads the candidate cards from path.
func LoadCards(store *cardstore.CardStore, path string, log logging.Logger) ([]models.Card, error) {
	if path == "" {
		return nil, fmt.Errorf("no cards file given (use --cards or data.cards_file)")
	}
	if err := validation.IsValidInputFile(path, ".yaml", ".yml", ".csv"); err != nil {
		return nil, fmt.Errorf("invalid cards file: %w", err)
	}
	cards, err := store.Load(path)
	if err != nil {
		return nil, fmt.Errorf("error loading cards: %w", err)
	}
	if len(cards) == 0 {
		return nil, fmt.Errorf("no cards found in %s", path)
	}
	log.Debug("Cards loaded",
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(cards)})
	return cards, nil
}

// ParseAmount parses a purchase amount such as "42.50", "$1,200" or "1'200".
func ParseAmount(s string) (decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.Zero, fmt.Errorf("amount is required")
	}
	amount, err := currencyutils.ParseAmount(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("amount must not be negative: %s", s)
	}
	return amount, nil
}

// ParseDate parses an optional date flag. An empty value yields the zero
// time, which the advisor reads as today.
func ParseDate(s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, nil
	}
	return dateutils.ParseDate(s)
}

// ExportResults writes scored cards to a CSV file when output is set.
func ExportResults(store *cardstore.CardStore, output string, scored []models.ScoredCard) error {
	if output == "" {
		return nil
	}
	if err := validation.IsValidOutputFile(output, ".csv"); err != nil {
		return fmt.Errorf("invalid output file: %w", err)
	}
	if err := store.ExportScoredCSV(output, scored); err != nil {
		return fmt.Errorf("error writing results: %w", err)
	}
	return nil
}
