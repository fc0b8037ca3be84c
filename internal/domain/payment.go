package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	PaymentMethodCash       = "cash"
	PaymentMethodUPI        = "upi"
	PaymentMethodBank       = "bank"
	PaymentMethodItemReturn = "item_return"
)

// Payment is an immutable, append-only audit record of money or collateral
// value moving against a loan. Never updated or deleted.
type Payment struct {
	ID             uuid.UUID   `json:"id" db:"id"`
	LoanID         string      `json:"loan_id" db:"loan_id"`
	PaidAt         time.Time   `json:"paid_at" db:"paid_at"`
	PrincipalPaise int64       `json:"principal_paise" db:"principal_paise"`
	InterestPaise  int64       `json:"interest_paise" db:"interest_paise"`
	Method         string      `json:"method" db:"method"`
	Note           string      `json:"note" db:"note"`
	CreatedAt      time.Time   `json:"created_at" db:"created_at"`
	ItemsReturned  []uuid.UUID `json:"items_returned,omitempty" db:"-"`
}

// DTOs for requests and responses

type RecordPaymentRequest struct {
	AmountPaise int64      `json:"amount_paise" validate:"required"`
	Method      string     `json:"method" validate:"required,oneof=cash upi bank"`
	Note        string     `json:"note"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
}

type RecordPaymentResponse struct {
	Payment          *Payment `json:"payment"`
	OutstandingPaise int64    `json:"outstanding_paise"`
	OverpaymentPaise int64    `json:"overpayment_paise"`
	Status           string   `json:"status"`
}

type RedeemCollateralRequest struct {
	ItemIDs     []uuid.UUID `json:"item_ids"`
	CashPaise   int64       `json:"cash_paise" validate:"gte=0"`
	Method      string      `json:"method" validate:"omitempty,oneof=cash upi bank"`
	Note        string      `json:"note"`
	RedeemedAt  *time.Time  `json:"redeemed_at,omitempty"`
}

// RepaymentCommit bundles the rows a redemption or payment writes so the
// repository can apply them in one transaction.
type RepaymentCommit struct {
	LoanID              string
	Payment             *Payment
	NewOutstandingPaise int64
	NewStatus           string
	ReturnedItemIDs     []uuid.UUID
	ReturnDate          time.Time
}
