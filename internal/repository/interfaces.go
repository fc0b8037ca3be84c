package repository

import (
	"context"

	"github.com/pawnbook/ledger-engine/internal/domain"
)

// LoanRepository defines the interface for loan data operations
type LoanRepository interface {
	// Create persists a new loan together with its pledged collateral
	Create(ctx context.Context, loan *domain.Loan) error

	// GetByLoanID retrieves a loan and its collateral items by loan ID
	GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error)

	// List retrieves loans matching the filter, without collateral or payments
	List(ctx context.Context, filter domain.LoanFilter) ([]*domain.Loan, error)

	// UpdateStatus updates only the derived status of a loan
	UpdateStatus(ctx context.Context, loanID string, status string) error
}

// PaymentRepository defines the interface for the append-only payment ledger
type PaymentRepository interface {
	// GetByLoanID retrieves all payments for a loan in chronological order
	GetByLoanID(ctx context.Context, loanID string) ([]*domain.Payment, error)

	// Commit applies a repayment atomically: appends the payment record,
	// marks returned collateral, and updates the loan's balance and status
	Commit(ctx context.Context, commit *domain.RepaymentCommit) error
}
