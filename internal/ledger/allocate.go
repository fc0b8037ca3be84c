package ledger

import (
	customError "github.com/pawnbook/ledger-engine/pkg/errors"
)

// Allocation is the interest-first split of an incoming amount. The three
// parts always sum to the amount exactly; overpayment is surfaced for the
// caller to decide on, never dropped.
type Allocation struct {
	InterestPaise    int64 `json:"interest_paise"`
	PrincipalPaise   int64 `json:"principal_paise"`
	OverpaymentPaise int64 `json:"overpayment_paise"`
}

// Allocate splits a payment between pending interest and outstanding
// principal, interest first. Principal is capped at the outstanding balance;
// whatever exceeds full settlement comes back as overpayment.
func Allocate(amountPaise, pendingInterestPaise, outstandingPaise int64) (Allocation, error) {
	if amountPaise <= 0 {
		return Allocation{}, customError.ErrInvalidAmount
	}
	return splitCredit(amountPaise, pendingInterestPaise, outstandingPaise), nil
}

// splitCredit carries the interest-first policy without the positive-amount
// precondition, so redemption evaluation can reuse it on a combined
// items-plus-cash credit.
func splitCredit(creditPaise, pendingInterestPaise, outstandingPaise int64) Allocation {
	interest := min(creditPaise, pendingInterestPaise)
	rest := creditPaise - interest
	principal := min(rest, outstandingPaise)

	return Allocation{
		InterestPaise:    interest,
		PrincipalPaise:   principal,
		OverpaymentPaise: rest - principal,
	}
}
