package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Installments is the repayment state shared by credits and mortgages.
//
// Lifecycle: a record is Active from disbursement until the last payment or
// an early payoff closes it. While active, every missed due date increments
// LatePaymentCount once. LateCountedThrough is the last due date counted and
// Overdue tells whether the next due date has passed unpaid.
type Installments struct {
	MonthlyPayment     decimal.Decimal `json:"monthly_payment"`
	TermMonths         int             `json:"term_months"`
	PaymentsMade       int             `json:"payments_made"`
	IsActive           bool            `json:"is_active"`
	LatePaymentCount   int             `json:"late_payment_count"`
	Overdue            bool            `json:"overdue"`
	NextPaymentDueAt   time.Time       `json:"next_payment_due_at"`
	LateCountedThrough *time.Time      `json:"late_counted_through,omitempty"` // nil until a late payment is counted
	ClosedAt           *time.Time      `json:"closed_at,omitempty"`
}

func newInstallments(monthly decimal.Decimal, termMonths int, now time.Time) Installments {
	return Installments{
		MonthlyPayment:   monthly,
		TermMonths:       termMonths,
		IsActive:         true,
		NextPaymentDueAt: now.AddDate(0, 1, 0),
	}
}

// PastDue reports whether an active record has a due date before now.
func (i *Installments) PastDue(now time.Time) bool {
	return i.IsActive && i.NextPaymentDueAt.Before(now)
}

// MarkLate counts every unpaid due date before now that was not counted
// before and returns how many it counted. Unpaid due dates follow
// NextPaymentDueAt monthly until the end of the term.
func (i *Installments) MarkLate(now time.Time) int {
	if !i.PastDue(now) {
		return 0
	}
	i.Overdue = true

	counted := 0
	for k := 0; k < i.RemainingPayments(); k++ {
		due := i.NextPaymentDueAt.AddDate(0, k, 0)
		if !due.Before(now) {
			break
		}
		if i.LateCountedThrough != nil && !due.After(*i.LateCountedThrough) {
			continue
		}
		i.LatePaymentCount++
		i.LateCountedThrough = &due
		counted++
	}
	return counted
}

// RecordPayment registers one monthly payment and closes the record after
// the last one.
func (i *Installments) RecordPayment(now time.Time) {
	i.PaymentsMade++
	i.NextPaymentDueAt = i.NextPaymentDueAt.AddDate(0, 1, 0)
	i.Overdue = i.NextPaymentDueAt.Before(now)
	if i.PaymentsMade >= i.TermMonths {
		i.Close(now)
	}
}

// Close moves an active record to closed.
func (i *Installments) Close(now time.Time) {
	if !i.IsActive {
		return
	}
	i.IsActive = false
	i.Overdue = false
	closed := now
	i.ClosedAt = &closed
}

// RemainingPayments is the number of scheduled payments not yet made.
func (i *Installments) RemainingPayments() int {
	if i.PaymentsMade >= i.TermMonths {
		return 0
	}
	return i.TermMonths - i.PaymentsMade
}
