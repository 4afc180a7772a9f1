package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ObligationStatus summarises how urgent a payment obligation is.
type ObligationStatus string

const (
	StatusOverdue  ObligationStatus = "OVERDUE"
	StatusDueSoon  ObligationStatus = "DUE_SOON"
	StatusUpcoming ObligationStatus = "UPCOMING"
)

// PaymentObligation is the payment owed for one statement.
type PaymentObligation struct {
	StatementClose time.Time        `json:"statement_close"`
	DueDate        time.Time        `json:"due_date"`
	DaysUntilDue   int              `json:"days_until_due"`
	Overdue        bool             `json:"overdue"`
	DueSoon        bool             `json:"due_soon"`
	AmountOwed     decimal.Decimal  `json:"amount_owed"`
	Status         ObligationStatus `json:"status"`
}
