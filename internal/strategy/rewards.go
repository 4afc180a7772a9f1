package strategy

import (
	"fmt"

	"fjacquet/card-advisor/internal/models"

	"github.com/shopspring/decimal"
)

// Rewards ranks cards by cashback earned on the purchase:
// amount × multiplier / 100. The annual value assumes the same purchase every
// month. Cards carrying a balance, or without enough credit, are withheld.
func Rewards(cards []models.Card, p Purchase, matcher MultiplierFinder) []models.ScoredCard {
	amount := p.amount()
	scored := make([]models.ScoredCard, 0, len(cards))

	for _, card := range cards {
		match := matcher.FindMultiplier(card, p.CategoryID, p.SubcategoryID)
		cashback := amount.Mul(decimal.NewFromFloat(match.Multiplier)).Div(models.Hundred)

		sc := models.ScoredCard{
			Card:          card,
			Strategy:      models.StrategyRewards,
			Multiplier:    match.Multiplier,
			MatchSource:   match.Source,
			Cashback:      cashback,
			AnnualValue:   cashback.Mul(models.MonthsPerYear),
			Score:         cashback.InexactFloat64(),
			Recommendable: true,
			Explanation: fmt.Sprintf("%s: %s back on %s (%s per year if repeated monthly)",
				match.Explanation, models.FormatUSD(cashback), models.FormatUSD(amount),
				models.FormatUSD(cashback.Mul(models.MonthsPerYear))),
		}

		if card.CarriesBalance() {
			sc = withhold(sc, balanceWarning(card))
		} else if warning, over := exceedsCredit(card, amount); over {
			sc = withhold(sc, warning)
		}
		scored = append(scored, sc)
	}

	Sort(scored)
	return scored
}
