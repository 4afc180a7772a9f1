package strategy

import (
	"fmt"

	"fjacquet/card-advisor/internal/cycle"
	"fjacquet/card-advisor/internal/models"
)

// GracePeriod ranks cards by float days: the whole days between the purchase
// and the due date of the statement it lands on. Only cards with no carried
// balance have a grace period; others are withheld with the sentinel score.
func GracePeriod(cards []models.Card, p Purchase, opts cycle.Options) []models.ScoredCard {
	amount := p.amount()
	scored := make([]models.ScoredCard, 0, len(cards))

	for _, card := range cards {
		sc := models.ScoredCard{
			Card:     card,
			Strategy: models.StrategyGracePeriod,
		}

		if card.CarriesBalance() {
			sc = withhold(sc, balanceWarning(card))
			sc.Explanation = fmt.Sprintf("%s offers no interest-free float while a balance is carried", card.DisplayName())
			scored = append(scored, sc)
			continue
		}

		calc := cycle.ForCard(card, p.Date, opts)
		if !calc.Valid() {
			sc.Warning = fmt.Sprintf("%s has no statement close day on file", card.DisplayName())
			sc.Explanation = fmt.Sprintf("Float for %s cannot be computed without a statement close day", card.DisplayName())
			scored = append(scored, sc)
			continue
		}

		sc.DueDate = calc.DueDateForFloat(p.Date)
		sc.FloatDays = calc.FloatDays(p.Date)
		sc.Score = float64(sc.FloatDays)
		sc.Recommendable = true
		sc.Explanation = fmt.Sprintf("A purchase with %s on %s is due %s, giving %d days of interest-free float",
			card.DisplayName(), formatDate(p.Date), formatDate(sc.DueDate), sc.FloatDays)

		if warning, over := exceedsCredit(card, amount); over {
			sc = withhold(sc, warning)
		}
		scored = append(scored, sc)
	}

	Sort(scored)
	return scored
}
