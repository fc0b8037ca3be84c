package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	MetalGold   = "gold"
	MetalSilver = "silver"
)

// CollateralItem is a pledged physical asset. Purity is karats (of 24) for
// gold and fineness (of 1000) for silver. Created at loan origination and
// mutated exactly once, by setting ReturnDate during a redemption.
type CollateralItem struct {
	ID                uuid.UUID       `json:"id" db:"id"`
	LoanID            string          `json:"loan_id" db:"loan_id"`
	Metal             string          `json:"metal" db:"metal"`
	Description       string          `json:"description" db:"description"`
	WeightGrams       decimal.Decimal `json:"weight_grams" db:"weight_grams"`
	Purity            decimal.Decimal `json:"purity" db:"purity"`
	PledgedValuePaise int64           `json:"pledged_value_paise" db:"pledged_value_paise"`
	ReturnDate        *time.Time      `json:"return_date,omitempty" db:"return_date"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`
}

// Returned reports whether the item has been handed back to the customer.
func (c *CollateralItem) Returned() bool {
	return c.ReturnDate != nil
}
