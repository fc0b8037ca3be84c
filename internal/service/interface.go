package service

import (
	"context"
	"time"

	"github.com/pawnbook/ledger-engine/internal/domain"
	"github.com/pawnbook/ledger-engine/internal/ledger"
)

// Service is the application-facing surface of the ledger engine. The pure
// calculations live in internal/ledger; this layer owns loading snapshots,
// committing results and re-deriving statuses. Callers must serialize
// concurrent commits per loan ID; the engine assumes at most one in-flight
// mutation per loan.
type Service interface {
	CreateLoan(ctx context.Context, req *domain.CreateLoanRequest) (*domain.Loan, error)
	GetLoan(ctx context.Context, loanID string) (*domain.Loan, error)
	ListLoans(ctx context.Context, filter domain.LoanFilter) ([]*domain.Loan, error)
	Summary(ctx context.Context, loanID string, asOf time.Time) (*domain.LoanSummary, error)
	RecordPayment(ctx context.Context, loanID string, req *domain.RecordPaymentRequest) (*domain.RecordPaymentResponse, error)
	PreviewRedemption(ctx context.Context, loanID string, req *domain.RedeemCollateralRequest) (*ledger.RedemptionSummary, error)
	RedeemCollateral(ctx context.Context, loanID string, req *domain.RedeemCollateralRequest) (*RedemptionResult, error)
	MarkDefaulted(ctx context.Context, loanID string) error
}

// RedemptionResult is what a committed redemption hands back to the caller.
type RedemptionResult struct {
	Summary          *ledger.RedemptionSummary `json:"summary"`
	Payment          *domain.Payment           `json:"payment"`
	OutstandingPaise int64                     `json:"outstanding_paise"`
	Status           string                    `json:"status"`
}
