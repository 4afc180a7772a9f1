package strategy

import (
	"fmt"

	"fjacquet/card-advisor/internal/models"

	"github.com/shopspring/decimal"
)

// APR ranks cards by the interest a carried balance of the purchase amount
// would cost: amount × (apr/12) / 100 per month and amount × apr / 100 per
// year. Balance state is ignored. A card with an unknown APR is ranked last.
func APR(cards []models.Card, p Purchase) []models.ScoredCard {
	amount := p.amount()
	scored := make([]models.ScoredCard, 0, len(cards))

	for _, card := range cards {
		sc := models.ScoredCard{
			Card:     card,
			Strategy: models.StrategyAPR,
		}

		if !card.HasAPR() {
			sc = withhold(sc, fmt.Sprintf("%s has no APR on file", card.DisplayName()))
			sc.Explanation = fmt.Sprintf("Interest on %s cannot be estimated without an APR", card.DisplayName())
			scored = append(scored, sc)
			continue
		}

		apr := decimal.NewFromFloat(*card.APR)
		annual := amount.Mul(apr).Div(models.Hundred)
		monthly := amount.Mul(apr.Div(models.MonthsPerYear)).Div(models.Hundred)

		sc.MonthlyInterest = monthly
		sc.AnnualInterest = annual
		sc.Score = -monthly.InexactFloat64()
		sc.Recommendable = true
		sc.Explanation = fmt.Sprintf("Carrying %s on %s at %s%% APR costs about %s per month (%s per year)",
			models.FormatUSD(amount), card.DisplayName(), apr.String(),
			models.FormatUSD(monthly), models.FormatUSD(annual))
		scored = append(scored, sc)
	}

	Sort(scored)
	return scored
}
