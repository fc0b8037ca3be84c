package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/pawnbook/ledger-engine/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// AccruedInterest computes simple monthly interest on the outstanding
// principal as of a date, floored to the paise. Interest owed is never
// rounded up. Direction (given/taken) does not change the arithmetic.
func AccruedInterest(loan *domain.Loan, asOf time.Time) (int64, error) {
	if loan.OutstandingPaise == 0 {
		return 0, nil
	}

	months, err := MonthsElapsed(loan.StartDate, asOf)
	if err != nil {
		return 0, err
	}

	interest := decimal.NewFromInt(loan.OutstandingPaise).
		Mul(loan.MonthlyRatePct).
		Div(hundred).
		Mul(decimal.NewFromInt(months))

	return interest.Floor().IntPart(), nil
}

// PendingInterest is the cumulative accrued interest minus interest already
// settled through the payment history, clamped at zero. It is a running
// balance: it never resets at month boundaries.
func PendingInterest(loan *domain.Loan, asOf time.Time) (int64, error) {
	accrued, err := AccruedInterest(loan, asOf)
	if err != nil {
		return 0, err
	}

	pending := accrued - loan.InterestPaidPaise()
	if pending < 0 {
		pending = 0
	}
	return pending, nil
}
