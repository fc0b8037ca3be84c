package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	LoanStatusActive        = "active"
	LoanStatusPartiallyPaid = "partially_paid"
	LoanStatusOverdue       = "overdue"
	LoanStatusClosed        = "closed"
	LoanStatusDefaulted     = "defaulted"
)

const (
	DirectionGiven = "given" // money lent out, receivable
	DirectionTaken = "taken" // money borrowed, payable
)

// Loan represents a lending relationship. All monetary fields are integer
// paise; direction decides which party the caller labels as payer, never
// the arithmetic.
type Loan struct {
	ID               uuid.UUID       `json:"id" db:"id"`
	LoanID           string          `json:"loan_id" db:"loan_id"`
	Direction        string          `json:"direction" db:"direction"`
	PrincipalPaise   int64           `json:"principal_paise" db:"principal_paise"`
	OutstandingPaise int64           `json:"outstanding_paise" db:"outstanding_paise"`
	MonthlyRatePct   decimal.Decimal `json:"monthly_rate_pct" db:"monthly_rate_pct"`
	StartDate        time.Time       `json:"start_date" db:"start_date"`
	DueDate          *time.Time      `json:"due_date,omitempty" db:"due_date"`
	Status           string          `json:"status" db:"status"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at" db:"updated_at"`

	// Loaded alongside the row, not columns of the loans table.
	Items    []*CollateralItem `json:"collateral_items,omitempty" db:"-"`
	Payments []*Payment        `json:"payment_history,omitempty" db:"-"`
}

// Unsecured reports whether the loan carries no pledged collateral.
func (l *Loan) Unsecured() bool {
	return len(l.Items) == 0
}

// AllItemsReturned reports whether every pledged item has been handed back.
// True for unsecured loans.
func (l *Loan) AllItemsReturned() bool {
	for _, item := range l.Items {
		if item.ReturnDate == nil {
			return false
		}
	}
	return true
}

// HeldItems returns the collateral items still pledged against the loan.
func (l *Loan) HeldItems() []*CollateralItem {
	held := make([]*CollateralItem, 0, len(l.Items))
	for _, item := range l.Items {
		if item.ReturnDate == nil {
			held = append(held, item)
		}
	}
	return held
}

// InterestPaidPaise sums interest settled across the payment history.
func (l *Loan) InterestPaidPaise() int64 {
	var total int64
	for _, p := range l.Payments {
		total += p.InterestPaise
	}
	return total
}

// DTOs for requests and responses

type CreateLoanRequest struct {
	LoanID         string                 `json:"loan_id" validate:"required"`
	Direction      string                 `json:"direction" validate:"required,oneof=given taken"`
	PrincipalPaise int64                  `json:"principal_paise" validate:"required,gt=0"`
	MonthlyRatePct *decimal.Decimal       `json:"monthly_rate_pct,omitempty"`
	StartDate      time.Time              `json:"start_date" validate:"required"`
	DueDate        *time.Time             `json:"due_date,omitempty"`
	Items          []PledgeCollateralItem `json:"collateral_items,omitempty" validate:"dive"`
}

type PledgeCollateralItem struct {
	Metal             string          `json:"metal" validate:"required,oneof=gold silver"`
	Description       string          `json:"description"`
	WeightGrams       decimal.Decimal `json:"weight_grams" validate:"required"`
	Purity            decimal.Decimal `json:"purity" validate:"required"`
	PledgedValuePaise int64           `json:"pledged_value_paise" validate:"gte=0"`
}

type LoanFilter struct {
	Status    string
	Direction string
}

// LoanSummary is the financial snapshot handed to the operator screens.
type LoanSummary struct {
	LoanID               string       `json:"loan_id"`
	Status               string       `json:"status"`
	Direction            string       `json:"direction"`
	PrincipalPaise       int64        `json:"principal_paise"`
	OutstandingPaise     int64        `json:"outstanding_paise"`
	MonthsElapsed        int64        `json:"months_elapsed"`
	AccruedInterestPaise int64        `json:"accrued_interest_paise"`
	PendingInterestPaise int64        `json:"pending_interest_paise"`
	TotalDuePaise        int64        `json:"total_due_paise"`
	Items                []*ItemValue `json:"collateral_items,omitempty"`
}

// ItemValue pairs a collateral item with its value at the current spot price.
type ItemValue struct {
	Item              *CollateralItem `json:"item"`
	CurrentValuePaise int64           `json:"current_value_paise"`
}
