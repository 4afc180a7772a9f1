package strategy

import (
	"fmt"

	"fjacquet/card-advisor/internal/cycle"
	"fjacquet/card-advisor/internal/models"
)

// Comparison holds every strategy's ranking for one purchase.
type Comparison struct {
	Purchase Purchase
	Results  map[models.StrategyName][]models.ScoredCard
}

// Best returns the top recommendable card under a strategy.
func (c Comparison) Best(name models.StrategyName) (models.ScoredCard, bool) {
	return Best(c.Results[name])
}

// Score ranks cards under a single named strategy.
func Score(name models.StrategyName, cards []models.Card, p Purchase, matcher MultiplierFinder, opts cycle.Options) ([]models.ScoredCard, error) {
	switch name {
	case models.StrategyRewards:
		return Rewards(cards, p, matcher), nil
	case models.StrategyAPR:
		return APR(cards, p), nil
	case models.StrategyGracePeriod:
		return GracePeriod(cards, p, opts), nil
	}
	return nil, fmt.Errorf("unknown strategy %q", name)
}

// Compare ranks cards under every strategy side by side.
func Compare(cards []models.Card, p Purchase, matcher MultiplierFinder, opts cycle.Options) Comparison {
	results := make(map[models.StrategyName][]models.ScoredCard, len(models.AllStrategies))
	for _, name := range models.AllStrategies {
		scored, _ := Score(name, cards, p, matcher, opts)
		results[name] = scored
	}
	return Comparison{Purchase: p, Results: results}
}
