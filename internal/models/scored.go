package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// StrategyName identifies a scoring strategy.
type StrategyName string

const (
	StrategyRewards     StrategyName = "rewards"
	StrategyAPR         StrategyName = "apr"
	StrategyGracePeriod StrategyName = "grace_period"
)

// AllStrategies lists the strategies in presentation order.
var AllStrategies = []StrategyName{StrategyRewards, StrategyAPR, StrategyGracePeriod}

// ParseStrategyName maps user input ("rewards", "interest", "float", ...) to a
// strategy. The second result is false for unknown names.
func ParseStrategyName(s string) (StrategyName, bool) {
	switch s {
	case "rewards", "reward", "cashback":
		return StrategyRewards, true
	case "apr", "interest":
		return StrategyAPR, true
	case "grace_period", "grace-period", "grace", "float":
		return StrategyGracePeriod, true
	}
	return "", false
}

// ScoredCard is one card's result under one strategy. It is computed fresh for
// every request.
//
// Score convention: higher is better under every strategy. Rewards scores the
// cashback, APR scores the negated monthly interest and the grace-period
// strategy scores float days.
type ScoredCard struct {
	Card            Card            `json:"card"`
	Strategy        StrategyName    `json:"strategy"`
	Multiplier      float64         `json:"multiplier,omitempty"`
	MatchSource     MatchSource     `json:"match_source,omitempty"`
	Cashback        decimal.Decimal `json:"cashback"`
	AnnualValue     decimal.Decimal `json:"annual_value"`
	MonthlyInterest decimal.Decimal `json:"monthly_interest"`
	AnnualInterest  decimal.Decimal `json:"annual_interest"`
	FloatDays       int             `json:"float_days"`
	DueDate         time.Time       `json:"due_date,omitempty"`
	Score           float64         `json:"score"`
	Recommendable   bool            `json:"recommendable"`
	Warning         string          `json:"warning,omitempty"`
	Explanation     string          `json:"explanation"`
}
