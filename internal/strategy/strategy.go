// Package strategy ranks candidate cards for a purchase. Every scorer is a
// pure function of its inputs: higher scores are better, and cards that must
// not be recommended sort after every recommendable card without being
// dropped from the result.
package strategy

import (
	"fmt"
	"sort"
	"time"

	"fjacquet/card-advisor/internal/dateutils"
	"fjacquet/card-advisor/internal/models"

	"github.com/shopspring/decimal"
)

// SentinelScore forces a card to the bottom of a ranking.
const SentinelScore = -1_000_000.0

// Purchase is the context of a prospective purchase.
type Purchase struct {
	CategoryID    string
	SubcategoryID string
	Amount        decimal.Decimal
	Date          time.Time
}

// amount returns the purchase amount, treating non-positive amounts as zero.
func (p Purchase) amount() decimal.Decimal {
	if !p.Amount.IsPositive() {
		return decimal.Zero
	}
	return p.Amount
}

// MultiplierFinder resolves a card's reward multiplier for a category.
type MultiplierFinder interface {
	FindMultiplier(card models.Card, categoryID, subcategoryID string) models.RewardMatch
}

// Sort orders scored cards in place: recommendable first, then by descending
// score. Equal cards keep their input order.
func Sort(scored []models.ScoredCard) {
	sort.SliceStable(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.Recommendable != b.Recommendable {
			return a.Recommendable
		}
		return a.Score > b.Score
	})
}

// Best returns the first recommendable card of a sorted list.
func Best(scored []models.ScoredCard) (models.ScoredCard, bool) {
	if len(scored) > 0 && scored[0].Recommendable {
		return scored[0], true
	}
	return models.ScoredCard{}, false
}

func balanceWarning(card models.Card) string {
	return fmt.Sprintf("%s carries a balance of %s; new purchases accrue interest immediately with no grace period",
		card.DisplayName(), models.FormatUSD(card.Balance))
}

// exceedsCredit reports whether amount is more than the card's unused credit.
// Cards without a known limit are not checked.
func exceedsCredit(card models.Card, amount decimal.Decimal) (string, bool) {
	available, known := card.AvailableCredit()
	if !known || amount.LessThanOrEqual(available) {
		return "", false
	}
	return fmt.Sprintf("%s has only %s of available credit for a %s purchase",
		card.DisplayName(), models.FormatUSD(available), models.FormatUSD(amount)), true
}

func withhold(sc models.ScoredCard, warning string) models.ScoredCard {
	sc.Recommendable = false
	sc.Score = SentinelScore
	sc.Warning = warning
	return sc
}

func formatDate(t time.Time) string {
	return dateutils.ToISODate(t)
}
