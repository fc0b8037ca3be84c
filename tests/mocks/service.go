package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/pawnbook/ledger-engine/internal/domain"
	"github.com/pawnbook/ledger-engine/internal/ledger"
	"github.com/pawnbook/ledger-engine/internal/service"
)

type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) CreateLoan(ctx context.Context, req *domain.CreateLoanRequest) (*domain.Loan, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLedgerService) GetLoan(ctx context.Context, loanID string) (*domain.Loan, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLedgerService) ListLoans(ctx context.Context, filter domain.LoanFilter) ([]*domain.Loan, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Loan), args.Error(1)
}

func (m *MockLedgerService) Summary(ctx context.Context, loanID string, asOf time.Time) (*domain.LoanSummary, error) {
	args := m.Called(ctx, loanID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanSummary), args.Error(1)
}

func (m *MockLedgerService) RecordPayment(ctx context.Context, loanID string, req *domain.RecordPaymentRequest) (*domain.RecordPaymentResponse, error) {
	args := m.Called(ctx, loanID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecordPaymentResponse), args.Error(1)
}

func (m *MockLedgerService) PreviewRedemption(ctx context.Context, loanID string, req *domain.RedeemCollateralRequest) (*ledger.RedemptionSummary, error) {
	args := m.Called(ctx, loanID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.RedemptionSummary), args.Error(1)
}

func (m *MockLedgerService) RedeemCollateral(ctx context.Context, loanID string, req *domain.RedeemCollateralRequest) (*service.RedemptionResult, error) {
	args := m.Called(ctx, loanID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RedemptionResult), args.Error(1)
}

func (m *MockLedgerService) MarkDefaulted(ctx context.Context, loanID string) error {
	args := m.Called(ctx, loanID)
	return args.Error(0)
}
