package models

import (
	"math"

	"github.com/shopspring/decimal"
)

// Card is a candidate payment card as supplied by the persistence layer.
//
// APR is nil when unknown. StatementCloseDay, DueDay and GracePeriodDays are
// zero when unknown; a card configures either a due day or a grace period.
type Card struct {
	ID                string           `json:"id"`
	Name              string           `json:"name"`
	Rewards           RewardDefinition `json:"rewards"`
	APR               *float64         `json:"apr,omitempty"`
	CreditLimit       decimal.Decimal  `json:"credit_limit"`
	Balance           decimal.Decimal  `json:"balance"`
	PlannedPayment    decimal.Decimal  `json:"planned_payment"`
	StatementCloseDay int              `json:"statement_close_day,omitempty"`
	DueDay            int              `json:"due_day,omitempty"`
	GracePeriodDays   int              `json:"grace_period_days,omitempty"`
}

// DisplayName returns the card's name, falling back to its ID.
func (c Card) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.ID
}

// CarriesBalance reports whether the card has an outstanding balance. A
// negative balance is a credit in the cardholder's favour and does not count.
func (c Card) CarriesBalance() bool {
	return c.Balance.IsPositive()
}

// HasGracePeriod reports whether new purchases enjoy an interest-free grace
// period. A card carrying a balance never does.
func (c Card) HasGracePeriod() bool {
	return !c.CarriesBalance()
}

// AvailableCredit returns the unused credit line. The second result is false
// when the credit limit is unknown.
func (c Card) AvailableCredit() (decimal.Decimal, bool) {
	if !c.CreditLimit.IsPositive() {
		return decimal.Zero, false
	}
	available := c.CreditLimit.Sub(decimal.Max(c.Balance, decimal.Zero))
	return decimal.Max(available, decimal.Zero), true
}

// AmountOwed is the planned payment when one is set, else the balance.
func (c Card) AmountOwed() decimal.Decimal {
	if c.PlannedPayment.IsPositive() {
		return c.PlannedPayment
	}
	return decimal.Max(c.Balance, decimal.Zero)
}

// HasAPR reports whether the card's APR is known and finite.
func (c Card) HasAPR() bool {
	if c.APR == nil || math.IsNaN(*c.APR) || math.IsInf(*c.APR, 0) {
		return false
	}
	return *c.APR >= 0
}

// Float64Ptr is a convenience for building cards with a known APR.
func Float64Ptr(f float64) *float64 {
	return &f
}
