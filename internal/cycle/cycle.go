// Package cycle computes statement-close and payment-due dates for a card's
// billing cycle.
//
// Days of the month beyond the length of a month clamp to its last day, so a
// close day of 31 falls on February 28 or 29. An explicit due day always falls
// in the month after the statement close. Dates are civil dates in UTC.
package cycle

import (
	"time"

	"fjacquet/card-advisor/internal/dateutils"
	"fjacquet/card-advisor/internal/models"

	"github.com/shopspring/decimal"
)

// Defaults for Options fields left at zero.
const (
	DefaultDueSoonDays = 7
	DefaultGraceDays   = 21
)

// Options tunes obligation flags and the grace fallback.
type Options struct {
	// DueSoonDays is the window, in days, in which an obligation is due soon.
	DueSoonDays int
	// DefaultGraceDays applies when a card has neither a due day nor a grace period.
	DefaultGraceDays int
}

// DefaultOptions returns the reference settings.
func DefaultOptions() Options {
	return Options{DueSoonDays: DefaultDueSoonDays, DefaultGraceDays: DefaultGraceDays}
}

func (o Options) withDefaults() Options {
	if o.DueSoonDays <= 0 {
		o.DueSoonDays = DefaultDueSoonDays
	}
	if o.DefaultGraceDays <= 0 {
		o.DefaultGraceDays = DefaultGraceDays
	}
	return o
}

// Calculator answers billing-cycle questions relative to a reference date. It
// is a value type and safe to share.
type Calculator struct {
	closeDay  int
	dueDay    int
	graceDays int
	reference time.Time
	opts      Options
}

// New creates a calculator with default options. A dueDay of 0 means the due
// date is graceDays after the close.
func New(closeDay, dueDay, graceDays int, reference time.Time) Calculator {
	return NewWithOptions(closeDay, dueDay, graceDays, reference, DefaultOptions())
}

// NewWithOptions creates a calculator with explicit options.
func NewWithOptions(closeDay, dueDay, graceDays int, reference time.Time, opts Options) Calculator {
	return Calculator{
		closeDay:  clampDay(closeDay),
		dueDay:    clampDay(dueDay),
		graceDays: max(graceDays, 0),
		reference: dateutils.Civil(reference),
		opts:      opts.withDefaults(),
	}
}

// ForCard creates a calculator from a card's cycle settings.
func ForCard(card models.Card, reference time.Time, opts Options) Calculator {
	return NewWithOptions(card.StatementCloseDay, card.DueDay, card.GracePeriodDays, reference, opts)
}

func clampDay(day int) int {
	switch {
	case day < 0:
		return 0
	case day > 31:
		return 31
	}
	return day
}

// Valid reports whether the statement close day is known. Every other method
// returns zero values when it is not.
func (c Calculator) Valid() bool {
	return c.closeDay > 0
}

// Reference returns the calculator's reference date.
func (c Calculator) Reference() time.Time {
	return c.reference
}

// At returns a copy of the calculator anchored at a different reference date.
func (c Calculator) At(reference time.Time) Calculator {
	c.reference = dateutils.Civil(reference)
	return c
}

// MostRecentStatementClose returns the latest close on or before the reference
// date.
func (c Calculator) MostRecentStatementClose() time.Time {
	if !c.Valid() {
		return time.Time{}
	}
	return c.closeOnOrBefore(c.reference)
}

// PreviousStatementClose returns the close one month before the most recent.
func (c Calculator) PreviousStatementClose() time.Time {
	if !c.Valid() {
		return time.Time{}
	}
	return dateutils.AddMonthsClamped(c.MostRecentStatementClose(), -1, c.closeDay)
}

// NextStatementClose returns the first close after the reference date.
func (c Calculator) NextStatementClose() time.Time {
	if !c.Valid() {
		return time.Time{}
	}
	return dateutils.AddMonthsClamped(c.MostRecentStatementClose(), 1, c.closeDay)
}

// DueDateForStatement returns the payment due date for a statement closing
// on closeDate.
func (c Calculator) DueDateForStatement(closeDate time.Time) time.Time {
	if closeDate.IsZero() {
		return time.Time{}
	}
	closeDate = dateutils.Civil(closeDate)
	if c.dueDay > 0 {
		return dateutils.AddMonthsClamped(closeDate, 1, c.dueDay)
	}
	return closeDate.AddDate(0, 0, c.GraceDays())
}

// GraceDays returns the grace length used when no due day is configured.
func (c Calculator) GraceDays() int {
	if c.graceDays > 0 {
		return c.graceDays
	}
	return c.opts.DefaultGraceDays
}

// ActiveObligations returns the previous and the most recent statement's
// obligations as of reference, in that order. Both are reported even when the
// previous one is long settled; owed applies to each.
func (c Calculator) ActiveObligations(reference time.Time, owed decimal.Decimal) []models.PaymentObligation {
	at := c.At(reference)
	if !at.Valid() {
		return nil
	}
	closes := []time.Time{at.PreviousStatementClose(), at.MostRecentStatementClose()}

	obligations := make([]models.PaymentObligation, 0, len(closes))
	for _, closeDate := range closes {
		obligations = append(obligations, at.obligation(closeDate, owed))
	}
	return obligations
}

func (c Calculator) obligation(closeDate time.Time, owed decimal.Decimal) models.PaymentObligation {
	due := c.DueDateForStatement(closeDate)
	days := dateutils.DaysBetween(c.reference, due)

	o := models.PaymentObligation{
		StatementClose: closeDate,
		DueDate:        due,
		DaysUntilDue:   days,
		Overdue:        days < 0,
		DueSoon:        days >= 0 && days <= c.opts.DueSoonDays,
		AmountOwed:     owed,
		Status:         models.StatusUpcoming,
	}
	switch {
	case o.Overdue:
		o.Status = models.StatusOverdue
	case o.DueSoon:
		o.Status = models.StatusDueSoon
	}
	return o
}

// DueDateForFloat returns the due date of the statement a purchase on
// purchaseDate would appear on. A purchase after the most recent close lands
// on a later statement; a purchase on a close day lands on that statement.
// The result is never before the purchase nor before the reference date.
func (c Calculator) DueDateForFloat(purchaseDate time.Time) time.Time {
	if !c.Valid() {
		return time.Time{}
	}
	purchase := dateutils.Civil(purchaseDate)

	closeDate := c.MostRecentStatementClose()
	for dateutils.CompareDates(closeDate, purchase) < 0 {
		closeDate = dateutils.AddMonthsClamped(closeDate, 1, c.closeDay)
	}
	due := c.DueDateForStatement(closeDate)
	for dateutils.CompareDates(due, c.reference) < 0 || dateutils.CompareDates(due, purchase) < 0 {
		closeDate = dateutils.AddMonthsClamped(closeDate, 1, c.closeDay)
		due = c.DueDateForStatement(closeDate)
	}
	return due
}

// FloatDays returns the whole days between purchaseDate and its due date,
// floored at zero.
func (c Calculator) FloatDays(purchaseDate time.Time) int {
	due := c.DueDateForFloat(purchaseDate)
	if due.IsZero() {
		return 0
	}
	return max(dateutils.DaysBetween(purchaseDate, due), 0)
}

func (c Calculator) closeOnOrBefore(date time.Time) time.Time {
	candidate := dateutils.ClampedDate(date.Year(), date.Month(), c.closeDay)
	if candidate.After(date) {
		return dateutils.AddMonthsClamped(candidate, -1, c.closeDay)
	}
	return candidate
}
