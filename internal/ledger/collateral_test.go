package ledger

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawnbook/ledger-engine/internal/domain"
	customError "github.com/pawnbook/ledger-engine/pkg/errors"
)

func goldItem(weight, karat string) *domain.CollateralItem {
	return &domain.CollateralItem{
		ID:          uuid.New(),
		Metal:       domain.MetalGold,
		WeightGrams: decimal.RequireFromString(weight),
		Purity:      decimal.RequireFromString(karat),
	}
}

func silverItem(weight, fineness string) *domain.CollateralItem {
	return &domain.CollateralItem{
		ID:          uuid.New(),
		Metal:       domain.MetalSilver,
		WeightGrams: decimal.RequireFromString(weight),
		Purity:      decimal.RequireFromString(fineness),
	}
}

func spot(metal string, pricePerGram int64) domain.MarketPrice {
	return domain.MarketPrice{Metal: metal, PricePerGramPaise: pricePerGram, AsOf: testStart}
}

func TestItemValue(t *testing.T) {
	tests := []struct {
		name     string
		item     *domain.CollateralItem
		price    domain.MarketPrice
		expected int64
	}{
		{
			name: "22 karat gold, value floored",
			// 10 * 22/24 * 5000 = 45833.33 -> 45833
			item:     goldItem("10", "22"),
			price:    spot(domain.MetalGold, 5000),
			expected: 45833,
		},
		{
			name:     "pure 24 karat gold",
			item:     goldItem("5", "24"),
			price:    spot(domain.MetalGold, 6000),
			expected: 30000,
		},
		{
			name: "sterling silver by fineness",
			// 100 * 925/1000 * 80 = 7400
			item:     silverItem("100", "925"),
			price:    spot(domain.MetalSilver, 80),
			expected: 7400,
		},
		{
			name:     "fractional weight",
			item:     goldItem("2.5", "18"),
			price:    spot(domain.MetalGold, 5000),
			expected: 9375,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ItemValue(tt.item, tt.price))
		})
	}
}

func collateralLoan(outstanding int64, items ...*domain.CollateralItem) *domain.Loan {
	loan := testLoan(outstanding, outstanding, "0")
	loan.Items = items
	return loan
}

func TestEvaluateRedemption_ItemCoversDues(t *testing.T) {
	item := goldItem("10", "22")
	loan := collateralLoan(40000, item)

	summary, err := EvaluateRedemption(loan, []uuid.UUID{item.ID}, 0, spot(domain.MetalGold, 5000), testStart)
	require.NoError(t, err)

	assert.Equal(t, int64(45833), summary.SelectedItemsPaise)
	assert.Equal(t, int64(40000), summary.TotalDuePaise)
	assert.Equal(t, int64(45833), summary.TotalCreditPaise)
	assert.Equal(t, int64(0), summary.RemainingPaise)
	assert.Equal(t, int64(5833), summary.ExcessPaise)
	assert.True(t, summary.CanClose)

	assert.Equal(t, int64(40000), summary.Allocation.PrincipalPaise)
	assert.Equal(t, int64(5833), summary.Allocation.OverpaymentPaise)
}

func TestEvaluateRedemption_ShortfallNeedsCash(t *testing.T) {
	item := goldItem("5", "22")
	loan := collateralLoan(40000, item)
	price := spot(domain.MetalGold, 5000)

	// Item alone: 5 * 22/24 * 5000 = 22916
	summary, err := EvaluateRedemption(loan, []uuid.UUID{item.ID}, 0, price, testStart)
	require.NoError(t, err)
	assert.Equal(t, int64(17084), summary.RemainingPaise)
	assert.False(t, summary.CanClose)

	// Topping up with cash settles it.
	summary, err = EvaluateRedemption(loan, []uuid.UUID{item.ID}, 17084, price, testStart)
	require.NoError(t, err)
	assert.Equal(t, int64(0), summary.RemainingPaise)
	assert.Equal(t, int64(0), summary.ExcessPaise)
	assert.True(t, summary.CanClose)
}

func TestEvaluateRedemption_InterestFirstSplit(t *testing.T) {
	item := goldItem("10", "24")
	loan := testLoan(40000, 40000, "2.5")
	loan.Items = []*domain.CollateralItem{item}

	// One month pending interest: 40000 * 0.025 = 1000.
	summary, err := EvaluateRedemption(loan, []uuid.UUID{item.ID}, 0, spot(domain.MetalGold, 5000), testStart)
	require.NoError(t, err)

	assert.Equal(t, int64(1000), summary.PendingInterestPaise)
	assert.Equal(t, int64(41000), summary.TotalDuePaise)
	assert.Equal(t, int64(1000), summary.Allocation.InterestPaise)
	assert.Equal(t, int64(40000), summary.Allocation.PrincipalPaise)
	assert.Equal(t, int64(9000), summary.Allocation.OverpaymentPaise)
}

func TestEvaluateRedemption_CashOnly(t *testing.T) {
	item := goldItem("10", "22")
	loan := collateralLoan(40000, item)

	summary, err := EvaluateRedemption(loan, nil, 40000, spot(domain.MetalGold, 5000), testStart)
	require.NoError(t, err)
	assert.True(t, summary.CanClose)
	assert.Equal(t, int64(0), summary.SelectedItemsPaise)
}

func TestEvaluateRedemption_Validation(t *testing.T) {
	item := goldItem("10", "22")
	loan := collateralLoan(40000, item)
	price := spot(domain.MetalGold, 5000)

	t.Run("nothing selected and no cash", func(t *testing.T) {
		_, err := EvaluateRedemption(loan, nil, 0, price, testStart)
		assert.ErrorIs(t, err, customError.ErrNoSelectionOrPayment)
	})

	t.Run("negative cash", func(t *testing.T) {
		_, err := EvaluateRedemption(loan, []uuid.UUID{item.ID}, -1, price, testStart)
		assert.ErrorIs(t, err, customError.ErrNegativeAmount)
	})

	t.Run("item from another loan", func(t *testing.T) {
		_, err := EvaluateRedemption(loan, []uuid.UUID{uuid.New()}, 0, price, testStart)
		assert.ErrorIs(t, err, customError.ErrUnknownItem)
	})

	t.Run("item already returned", func(t *testing.T) {
		returned := goldItem("10", "22")
		now := testStart
		returned.ReturnDate = &now
		loanWithReturned := collateralLoan(40000, returned)

		_, err := EvaluateRedemption(loanWithReturned, []uuid.UUID{returned.ID}, 0, price, testStart)
		assert.ErrorIs(t, err, customError.ErrUnknownItem)
	})
}

func TestEvaluateRedemption_Pure(t *testing.T) {
	item := goldItem("10", "22")
	loan := collateralLoan(40000, item)
	price := spot(domain.MetalGold, 5000)
	asOf := testStart.AddDate(0, 0, 45)

	first, err := EvaluateRedemption(loan, []uuid.UUID{item.ID}, 500, price, asOf)
	require.NoError(t, err)
	second, err := EvaluateRedemption(loan, []uuid.UUID{item.ID}, 500, price, asOf)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Nil(t, item.ReturnDate, "evaluation must not mutate the item")
	assert.Equal(t, int64(40000), loan.OutstandingPaise, "evaluation must not mutate the loan")
}

func TestEvaluateRedemption_DuplicateSelectionCountedOnce(t *testing.T) {
	item := goldItem("10", "22")
	loan := collateralLoan(40000, item)

	summary, err := EvaluateRedemption(loan, []uuid.UUID{item.ID, item.ID}, 0, spot(domain.MetalGold, 5000), testStart)
	require.NoError(t, err)
	assert.Equal(t, int64(45833), summary.SelectedItemsPaise)
}

func TestEvaluateRedemption_PriceSwingMovesValue(t *testing.T) {
	item := goldItem("10", "22")
	loan := collateralLoan(40000, item)
	loan.Items[0].PledgedValuePaise = 45833

	// The pledge-time value is irrelevant; a falling spot price drops the
	// credit below the dues even though the pledge once covered them.
	summary, err := EvaluateRedemption(loan, []uuid.UUID{item.ID}, 0, spot(domain.MetalGold, 4000), testStart)
	require.NoError(t, err)
	assert.Equal(t, int64(36666), summary.SelectedItemsPaise)
	assert.False(t, summary.CanClose)
}
