// Package ledger implements the loan ledger calculation engine: interest
// accrual, payment allocation, collateral valuation and status derivation.
// Every function is a pure computation over a loan snapshot, an evaluation
// date and (where relevant) a market price snapshot; commits are owned by
// the service layer. Money is int64 paise throughout; decimals appear only
// for rates, weights and display conversion.
package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	customError "github.com/pawnbook/ledger-engine/pkg/errors"
)

const daysPerMonth = 30

var paisePerRupee = decimal.NewFromInt(100)

// MonthsElapsed counts billing months between two dates as
// max(1, ceil(days/30)). The 30-day month and the one-month floor match the
// shop's billing practice: a loan accrues a full month of interest the day
// it is written. Fails when asOf precedes start.
func MonthsElapsed(start, asOf time.Time) (int64, error) {
	s := dateOnly(start)
	a := dateOnly(asOf)
	if a.Before(s) {
		return 0, customError.ErrInvalidDateRange
	}

	days := int64(a.Sub(s).Hours() / 24)
	months := (days + daysPerMonth - 1) / daysPerMonth
	if months < 1 {
		months = 1
	}
	return months, nil
}

func dateOnly(t time.Time) time.Time {
	return t.UTC().Truncate(24 * time.Hour)
}

// ToRupees converts paise to rupees for display, two places, round half up.
func ToRupees(paise int64) decimal.Decimal {
	return decimal.NewFromInt(paise).Div(paisePerRupee).Round(2)
}

// FromRupees converts a rupee amount to paise, round half up. Only ever
// called at input boundaries; the engine itself never sees rupee decimals.
func FromRupees(rupees decimal.Decimal) int64 {
	return rupees.Mul(paisePerRupee).Round(0).IntPart()
}
