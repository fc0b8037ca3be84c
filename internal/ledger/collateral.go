package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pawnbook/ledger-engine/internal/domain"
	customError "github.com/pawnbook/ledger-engine/pkg/errors"
)

var (
	goldKarats     = decimal.NewFromInt(24)
	silverFineness = decimal.NewFromInt(1000)
)

// ItemValue prices a pledged item at the current spot price, floored to the
// paise: weight * purity-fraction * price per gram of pure metal. Purity is
// karats out of 24 for gold, fineness out of 1000 for silver. Valuation uses
// the current price, not the pledge-time value, so appreciation since pledge
// accrues to whoever redeems.
func ItemValue(item *domain.CollateralItem, price domain.MarketPrice) int64 {
	denominator := goldKarats
	if item.Metal == domain.MetalSilver {
		denominator = silverFineness
	}

	value := item.WeightGrams.
		Mul(item.Purity).
		Div(denominator).
		Mul(decimal.NewFromInt(price.PricePerGramPaise))

	return value.Floor().IntPart()
}

// RedemptionSummary is everything the operator screen shows before a
// redemption commit: dues, credit, remainder/excess and the interest-first
// split of the credit.
type RedemptionSummary struct {
	SelectedItemsPaise   int64      `json:"selected_items_paise"`
	CashPaise            int64      `json:"cash_paise"`
	OutstandingPaise     int64      `json:"outstanding_paise"`
	PendingInterestPaise int64      `json:"pending_interest_paise"`
	TotalDuePaise        int64      `json:"total_due_paise"`
	TotalCreditPaise     int64      `json:"total_credit_paise"`
	RemainingPaise       int64      `json:"remaining_paise"`
	ExcessPaise          int64      `json:"excess_paise"`
	CanClose             bool       `json:"can_close"`
	Allocation           Allocation `json:"allocation"`
}

// EvaluateRedemption values the selected collateral at the spot price and
// works out whether items plus cash settle the loan's dues as of a date.
// Pure: identical inputs give identical summaries, and nothing is mutated.
// Selected ids are treated as a set; an id that is not held by the loan, or
// was already returned, fails the whole evaluation before any commit.
func EvaluateRedemption(loan *domain.Loan, selectedIDs []uuid.UUID, cashPaise int64, price domain.MarketPrice, asOf time.Time) (*RedemptionSummary, error) {
	if cashPaise < 0 {
		return nil, customError.ErrNegativeAmount
	}
	if len(selectedIDs) == 0 && cashPaise == 0 {
		return nil, customError.ErrNoSelectionOrPayment
	}

	held := make(map[uuid.UUID]*domain.CollateralItem, len(loan.Items))
	for _, item := range loan.Items {
		if !item.Returned() {
			held[item.ID] = item
		}
	}

	var selectedValue int64
	seen := make(map[uuid.UUID]bool, len(selectedIDs))
	for _, id := range selectedIDs {
		if seen[id] {
			continue
		}
		seen[id] = true

		item, ok := held[id]
		if !ok {
			return nil, customError.WrapUnknownItem(id.String())
		}
		selectedValue += ItemValue(item, price)
	}

	pending, err := PendingInterest(loan, asOf)
	if err != nil {
		return nil, err
	}

	totalDue := loan.OutstandingPaise + pending
	totalCredit := selectedValue + cashPaise

	remaining := totalDue - totalCredit
	if remaining < 0 {
		remaining = 0
	}
	excess := totalCredit - totalDue
	if excess < 0 {
		excess = 0
	}

	return &RedemptionSummary{
		SelectedItemsPaise:   selectedValue,
		CashPaise:            cashPaise,
		OutstandingPaise:     loan.OutstandingPaise,
		PendingInterestPaise: pending,
		TotalDuePaise:        totalDue,
		TotalCreditPaise:     totalCredit,
		RemainingPaise:       remaining,
		ExcessPaise:          excess,
		CanClose:             remaining == 0,
		Allocation:           splitCredit(totalCredit, pending, loan.OutstandingPaise),
	}, nil
}
