package ledger

import (
	"time"

	"github.com/pawnbook/ledger-engine/internal/domain"
)

// ClosurePolicy decides what zero outstanding principal means for a loan
// that still holds pledged items. The shop's books are ambiguous on this,
// so it is configuration rather than a hardcoded rule.
type ClosurePolicy string

const (
	// CloseOnZeroBalance closes the loan as soon as principal reaches zero,
	// even if some items were never returned.
	CloseOnZeroBalance ClosurePolicy = "zero_balance"

	// CloseRequiresAllItemsReturned keeps the loan open until every pledged
	// item has been handed back.
	CloseRequiresAllItemsReturned ClosurePolicy = "all_items_returned"
)

// DeriveStatus re-derives a loan's status from its balances, re-evaluated
// after every payment or redemption commit. Closed and defaulted are
// terminal. Overdue is not sticky: a loan past its due date that is later
// paid current derives back out of overdue on the next evaluation.
// Defaulted is only ever set by explicit manual action, never here.
func DeriveStatus(loan *domain.Loan, asOf time.Time, policy ClosurePolicy) string {
	switch loan.Status {
	case domain.LoanStatusClosed, domain.LoanStatusDefaulted:
		return loan.Status
	}

	if loan.OutstandingPaise == 0 {
		if policy == CloseRequiresAllItemsReturned && !loan.AllItemsReturned() {
			return domain.LoanStatusPartiallyPaid
		}
		return domain.LoanStatusClosed
	}

	if loan.DueDate != nil && dateOnly(asOf).After(dateOnly(*loan.DueDate)) {
		return domain.LoanStatusOverdue
	}

	if loan.OutstandingPaise < loan.PrincipalPaise {
		return domain.LoanStatusPartiallyPaid
	}

	return domain.LoanStatusActive
}
