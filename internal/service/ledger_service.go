package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/pawnbook/ledger-engine/internal/config"
	"github.com/pawnbook/ledger-engine/internal/domain"
	"github.com/pawnbook/ledger-engine/internal/ledger"
	"github.com/pawnbook/ledger-engine/internal/pricefeed"
	"github.com/pawnbook/ledger-engine/internal/repository"
	customError "github.com/pawnbook/ledger-engine/pkg/errors"
)

type LedgerService struct {
	loanRepo    repository.LoanRepository
	paymentRepo repository.PaymentRepository
	feed        pricefeed.Feed
	config      *config.Config
}

func NewLedgerService(
	loanRepo repository.LoanRepository,
	paymentRepo repository.PaymentRepository,
	feed pricefeed.Feed,
	config *config.Config,
) *LedgerService {
	return &LedgerService{
		loanRepo:    loanRepo,
		paymentRepo: paymentRepo,
		feed:        feed,
		config:      config,
	}
}

// CreateLoan registers a loan and its pledged collateral. The loan starts
// active with the full principal outstanding and an empty payment history.
func (s *LedgerService) CreateLoan(ctx context.Context, req *domain.CreateLoanRequest) (*domain.Loan, error) {
	existing, err := s.loanRepo.GetByLoanID(ctx, req.LoanID)
	if err == nil && existing != nil {
		return nil, customError.WrapLoanAlreadyExists(req.LoanID)
	}
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapDatabaseError(err)
	}

	rate := s.config.GetDefaultMonthlyRate()
	if req.MonthlyRatePct != nil {
		if req.MonthlyRatePct.IsNegative() {
			return nil, customError.ErrNegativeAmount
		}
		rate = *req.MonthlyRatePct
	}

	// The shop writes gold loans and silver loans as separate products;
	// one loan never mixes metals.
	for i := 1; i < len(req.Items); i++ {
		if req.Items[i].Metal != req.Items[0].Metal {
			return nil, customError.ErrMixedCollateral
		}
	}

	now := time.Now()
	loan := &domain.Loan{
		ID:               uuid.New(),
		LoanID:           req.LoanID,
		Direction:        req.Direction,
		PrincipalPaise:   req.PrincipalPaise,
		OutstandingPaise: req.PrincipalPaise,
		MonthlyRatePct:   rate,
		StartDate:        req.StartDate,
		DueDate:          req.DueDate,
		Status:           domain.LoanStatusActive,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	for _, pledge := range req.Items {
		loan.Items = append(loan.Items, &domain.CollateralItem{
			ID:                uuid.New(),
			LoanID:            req.LoanID,
			Metal:             pledge.Metal,
			Description:       pledge.Description,
			WeightGrams:       pledge.WeightGrams,
			Purity:            pledge.Purity,
			PledgedValuePaise: pledge.PledgedValuePaise,
			CreatedAt:         now,
		})
	}

	if err := s.loanRepo.Create(ctx, loan); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return loan, nil
}

// GetLoan returns the full loan snapshot: collateral and payment history.
func (s *LedgerService) GetLoan(ctx context.Context, loanID string) (*domain.Loan, error) {
	return s.loadLoan(ctx, loanID)
}

func (s *LedgerService) ListLoans(ctx context.Context, filter domain.LoanFilter) ([]*domain.Loan, error) {
	loans, err := s.loanRepo.List(ctx, filter)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return loans, nil
}

// Summary computes the financial snapshot the operator screens show:
// balances, accrued and pending interest, and the current value of every
// held item at today's spot price.
func (s *LedgerService) Summary(ctx context.Context, loanID string, asOf time.Time) (*domain.LoanSummary, error) {
	loan, err := s.loadLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}

	months, err := ledger.MonthsElapsed(loan.StartDate, asOf)
	if err != nil {
		return nil, customError.WrapInvalidDateRange(loanID)
	}

	accrued, err := ledger.AccruedInterest(loan, asOf)
	if err != nil {
		return nil, customError.WrapInvalidDateRange(loanID)
	}

	pending, err := ledger.PendingInterest(loan, asOf)
	if err != nil {
		return nil, customError.WrapInvalidDateRange(loanID)
	}

	summary := &domain.LoanSummary{
		LoanID:               loan.LoanID,
		Status:               ledger.DeriveStatus(loan, asOf, s.config.GetClosurePolicy()),
		Direction:            loan.Direction,
		PrincipalPaise:       loan.PrincipalPaise,
		OutstandingPaise:     loan.OutstandingPaise,
		MonthsElapsed:        months,
		AccruedInterestPaise: accrued,
		PendingInterestPaise: pending,
		TotalDuePaise:        loan.OutstandingPaise + pending,
	}

	held := loan.HeldItems()
	if len(held) > 0 {
		price, err := s.feed.Spot(ctx, held[0].Metal)
		if err != nil {
			return nil, err
		}
		for _, item := range held {
			summary.Items = append(summary.Items, &domain.ItemValue{
				Item:              item,
				CurrentValuePaise: ledger.ItemValue(item, price),
			})
		}
	}

	return summary, nil
}

// RecordPayment allocates a cash payment interest-first, appends the
// immutable payment record and re-derives the loan status, all committed
// atomically. Overpayment beyond full settlement is returned to the caller
// to decide on, never kept silently.
func (s *LedgerService) RecordPayment(ctx context.Context, loanID string, req *domain.RecordPaymentRequest) (*domain.RecordPaymentResponse, error) {
	loan, err := s.loadLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}

	if loan.Status == domain.LoanStatusClosed || loan.Status == domain.LoanStatusDefaulted {
		return nil, customError.WrapLoanClosed(loanID)
	}

	paidAt := time.Now()
	if req.PaidAt != nil {
		paidAt = *req.PaidAt
	}

	pending, err := ledger.PendingInterest(loan, paidAt)
	if err != nil {
		return nil, customError.WrapInvalidDateRange(loanID)
	}

	alloc, err := ledger.Allocate(req.AmountPaise, pending, loan.OutstandingPaise)
	if err != nil {
		return nil, customError.WrapInvalidAmount(req.AmountPaise)
	}

	newOutstanding := loan.OutstandingPaise - alloc.PrincipalPaise

	after := *loan
	after.OutstandingPaise = newOutstanding
	newStatus := ledger.DeriveStatus(&after, paidAt, s.config.GetClosurePolicy())

	now := time.Now()
	payment := &domain.Payment{
		ID:             uuid.New(),
		LoanID:         loanID,
		PaidAt:         paidAt,
		PrincipalPaise: alloc.PrincipalPaise,
		InterestPaise:  alloc.InterestPaise,
		Method:         req.Method,
		Note:           req.Note,
		CreatedAt:      now,
	}

	commit := &domain.RepaymentCommit{
		LoanID:              loanID,
		Payment:             payment,
		NewOutstandingPaise: newOutstanding,
		NewStatus:           newStatus,
	}

	if err := s.paymentRepo.Commit(ctx, commit); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return &domain.RecordPaymentResponse{
		Payment:          payment,
		OutstandingPaise: newOutstanding,
		OverpaymentPaise: alloc.OverpaymentPaise,
		Status:           newStatus,
	}, nil
}

// PreviewRedemption evaluates a redemption without committing anything, so
// the operator can show the customer the numbers first.
func (s *LedgerService) PreviewRedemption(ctx context.Context, loanID string, req *domain.RedeemCollateralRequest) (*ledger.RedemptionSummary, error) {
	loan, err := s.loadLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}
	return s.evaluateRedemption(ctx, loan, req)
}

// RedeemCollateral evaluates and commits a redemption: selected items are
// marked returned, a payment record with the item ids is appended, the
// outstanding principal drops by the allocated amount and the status is
// re-derived. Validation failures leave the loan untouched.
func (s *LedgerService) RedeemCollateral(ctx context.Context, loanID string, req *domain.RedeemCollateralRequest) (*RedemptionResult, error) {
	loan, err := s.loadLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}

	if loan.Status == domain.LoanStatusClosed || loan.Status == domain.LoanStatusDefaulted {
		return nil, customError.WrapLoanClosed(loanID)
	}

	summary, err := s.evaluateRedemption(ctx, loan, req)
	if err != nil {
		return nil, err
	}

	redeemedAt := time.Now()
	if req.RedeemedAt != nil {
		redeemedAt = *req.RedeemedAt
	}

	returnedIDs := dedupe(req.ItemIDs)
	newOutstanding := loan.OutstandingPaise - summary.Allocation.PrincipalPaise
	newStatus := s.statusAfterRedemption(loan, returnedIDs, newOutstanding, redeemedAt)

	method := req.Method
	if len(returnedIDs) > 0 {
		method = domain.PaymentMethodItemReturn
	}

	payment := &domain.Payment{
		ID:             uuid.New(),
		LoanID:         loanID,
		PaidAt:         redeemedAt,
		PrincipalPaise: summary.Allocation.PrincipalPaise,
		InterestPaise:  summary.Allocation.InterestPaise,
		Method:         method,
		Note:           req.Note,
		CreatedAt:      time.Now(),
		ItemsReturned:  returnedIDs,
	}

	commit := &domain.RepaymentCommit{
		LoanID:              loanID,
		Payment:             payment,
		NewOutstandingPaise: newOutstanding,
		NewStatus:           newStatus,
		ReturnedItemIDs:     returnedIDs,
		ReturnDate:          redeemedAt,
	}

	if err := s.paymentRepo.Commit(ctx, commit); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return &RedemptionResult{
		Summary:          summary,
		Payment:          payment,
		OutstandingPaise: newOutstanding,
		Status:           newStatus,
	}, nil
}

// MarkDefaulted is the one manual status transition; it is never derived.
func (s *LedgerService) MarkDefaulted(ctx context.Context, loanID string) error {
	loan, err := s.loadLoan(ctx, loanID)
	if err != nil {
		return err
	}

	if loan.Status == domain.LoanStatusClosed || loan.Status == domain.LoanStatusDefaulted {
		return customError.WrapLoanClosed(loanID)
	}

	if err := s.loanRepo.UpdateStatus(ctx, loanID, domain.LoanStatusDefaulted); err != nil {
		return customError.WrapDatabaseError(err)
	}
	return nil
}

// SweepStatuses re-derives and persists the status of every open loan as of
// the given date. Run daily by the scheduler so list views reflect overdue
// transitions without a read-time derivation. Returns the number of loans
// whose status changed.
func (s *LedgerService) SweepStatuses(ctx context.Context, asOf time.Time) (int, error) {
	open, err := s.loanRepo.List(ctx, domain.LoanFilter{})
	if err != nil {
		return 0, customError.WrapDatabaseError(err)
	}

	policy := s.config.GetClosurePolicy()
	changed := 0
	for _, stub := range open {
		switch stub.Status {
		case domain.LoanStatusClosed, domain.LoanStatusDefaulted:
			continue
		}

		// Reload with collateral so the closure policy sees item state.
		loan, err := s.loadLoan(ctx, stub.LoanID)
		if err != nil {
			return changed, err
		}

		derived := ledger.DeriveStatus(loan, asOf, policy)
		if derived == loan.Status {
			continue
		}

		if err := s.loanRepo.UpdateStatus(ctx, loan.LoanID, derived); err != nil {
			return changed, customError.WrapDatabaseError(err)
		}
		changed++
	}

	return changed, nil
}

func (s *LedgerService) evaluateRedemption(ctx context.Context, loan *domain.Loan, req *domain.RedeemCollateralRequest) (*ledger.RedemptionSummary, error) {
	asOf := time.Now()
	if req.RedeemedAt != nil {
		asOf = *req.RedeemedAt
	}

	// Cash-only settlements need no spot price; anything returning items
	// is valued at the loan's metal's current rate.
	var price domain.MarketPrice
	if len(req.ItemIDs) > 0 && len(loan.Items) > 0 {
		var err error
		price, err = s.feed.Spot(ctx, loan.Items[0].Metal)
		if err != nil {
			return nil, err
		}
	}

	return ledger.EvaluateRedemption(loan, req.ItemIDs, req.CashPaise, price, asOf)
}

// statusAfterRedemption derives the post-commit status against a copy of
// the loan with the balance decremented and the selected items marked
// returned, without touching the caller's snapshot.
func (s *LedgerService) statusAfterRedemption(loan *domain.Loan, returnedIDs []uuid.UUID, newOutstanding int64, redeemedAt time.Time) string {
	returned := make(map[uuid.UUID]bool, len(returnedIDs))
	for _, id := range returnedIDs {
		returned[id] = true
	}

	after := *loan
	after.OutstandingPaise = newOutstanding
	after.Items = make([]*domain.CollateralItem, 0, len(loan.Items))
	for _, item := range loan.Items {
		copied := *item
		if returned[item.ID] && copied.ReturnDate == nil {
			copied.ReturnDate = &redeemedAt
		}
		after.Items = append(after.Items, &copied)
	}

	return ledger.DeriveStatus(&after, redeemedAt, s.config.GetClosurePolicy())
}

func (s *LedgerService) loadLoan(ctx context.Context, loanID string) (*domain.Loan, error) {
	loan, err := s.loanRepo.GetByLoanID(ctx, loanID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapLoanNotFound(loanID)
		}
		return nil, customError.WrapDatabaseError(err)
	}

	payments, err := s.paymentRepo.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	loan.Payments = payments

	return loan, nil
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
