package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pawnbook/ledger-engine/internal/domain"
)

func TestDeriveStatus(t *testing.T) {
	due := testStart.AddDate(0, 3, 0)

	tests := []struct {
		name     string
		loan     *domain.Loan
		asOf     time.Time
		policy   ClosurePolicy
		expected string
	}{
		{
			name:     "untouched loan stays active",
			loan:     testLoan(10000, 10000, "2.5"),
			asOf:     testStart,
			policy:   CloseOnZeroBalance,
			expected: domain.LoanStatusActive,
		},
		{
			name:     "partial principal repayment",
			loan:     testLoan(10000, 9950, "2.5"),
			asOf:     testStart,
			policy:   CloseOnZeroBalance,
			expected: domain.LoanStatusPartiallyPaid,
		},
		{
			name:     "zero outstanding closes",
			loan:     testLoan(10000, 0, "2.5"),
			asOf:     testStart,
			policy:   CloseOnZeroBalance,
			expected: domain.LoanStatusClosed,
		},
		{
			name: "past due date with balance is overdue",
			loan: func() *domain.Loan {
				l := testLoan(10000, 10000, "2.5")
				l.DueDate = &due
				return l
			}(),
			asOf:     due.AddDate(0, 0, 1),
			policy:   CloseOnZeroBalance,
			expected: domain.LoanStatusOverdue,
		},
		{
			name: "on the due date itself is not overdue",
			loan: func() *domain.Loan {
				l := testLoan(10000, 10000, "2.5")
				l.DueDate = &due
				return l
			}(),
			asOf:     due,
			policy:   CloseOnZeroBalance,
			expected: domain.LoanStatusActive,
		},
		{
			name: "paid off past due date closes, not overdue",
			loan: func() *domain.Loan {
				l := testLoan(10000, 0, "2.5")
				l.DueDate = &due
				return l
			}(),
			asOf:     due.AddDate(0, 1, 0),
			policy:   CloseOnZeroBalance,
			expected: domain.LoanStatusClosed,
		},
		{
			name: "closed is terminal",
			loan: func() *domain.Loan {
				l := testLoan(10000, 0, "2.5")
				l.Status = domain.LoanStatusClosed
				return l
			}(),
			asOf:     testStart,
			policy:   CloseOnZeroBalance,
			expected: domain.LoanStatusClosed,
		},
		{
			name: "defaulted is terminal",
			loan: func() *domain.Loan {
				l := testLoan(10000, 5000, "2.5")
				l.Status = domain.LoanStatusDefaulted
				return l
			}(),
			asOf:     testStart,
			policy:   CloseOnZeroBalance,
			expected: domain.LoanStatusDefaulted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DeriveStatus(tt.loan, tt.asOf, tt.policy))
		})
	}
}

func TestDeriveStatus_ClosurePolicy(t *testing.T) {
	held := goldItem("10", "22")
	loan := testLoan(10000, 0, "2.5")
	loan.Items = []*domain.CollateralItem{held}

	// Zero balance with an unreturned item: the two policies disagree.
	assert.Equal(t, domain.LoanStatusClosed,
		DeriveStatus(loan, testStart, CloseOnZeroBalance))
	assert.Equal(t, domain.LoanStatusPartiallyPaid,
		DeriveStatus(loan, testStart, CloseRequiresAllItemsReturned))

	// Once the item is back, both close.
	now := testStart
	held.ReturnDate = &now
	assert.Equal(t, domain.LoanStatusClosed,
		DeriveStatus(loan, testStart, CloseRequiresAllItemsReturned))
}

func TestDeriveStatus_OverdueNotSticky(t *testing.T) {
	due := testStart.AddDate(0, 1, 0)
	loan := testLoan(10000, 10000, "2.5")
	loan.DueDate = &due
	loan.Status = domain.LoanStatusOverdue

	// Re-derivation past the due date keeps it overdue while a balance
	// remains, and closes it the moment the balance clears.
	asOf := due.AddDate(0, 0, 10)
	assert.Equal(t, domain.LoanStatusOverdue, DeriveStatus(loan, asOf, CloseOnZeroBalance))

	loan.OutstandingPaise = 0
	assert.Equal(t, domain.LoanStatusClosed, DeriveStatus(loan, asOf, CloseOnZeroBalance))
}
