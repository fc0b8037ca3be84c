package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	customError "github.com/pawnbook/ledger-engine/pkg/errors"
)

func TestAllocate(t *testing.T) {
	tests := []struct {
		name            string
		amount          int64
		pendingInterest int64
		outstanding     int64
		expected        Allocation
	}{
		{
			name:            "interest first then principal",
			amount:          300,
			pendingInterest: 250,
			outstanding:     10000,
			expected:        Allocation{InterestPaise: 250, PrincipalPaise: 50},
		},
		{
			name:            "amount smaller than pending interest",
			amount:          100,
			pendingInterest: 250,
			outstanding:     10000,
			expected:        Allocation{InterestPaise: 100},
		},
		{
			name:            "no pending interest goes straight to principal",
			amount:          400,
			pendingInterest: 0,
			outstanding:     10000,
			expected:        Allocation{PrincipalPaise: 400},
		},
		{
			name:            "principal capped at outstanding, rest is overpayment",
			amount:          1000,
			pendingInterest: 250,
			outstanding:     500,
			expected:        Allocation{InterestPaise: 250, PrincipalPaise: 500, OverpaymentPaise: 250},
		},
		{
			name:            "exact settlement",
			amount:          750,
			pendingInterest: 250,
			outstanding:     500,
			expected:        Allocation{InterestPaise: 250, PrincipalPaise: 500},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Allocate(tt.amount, tt.pendingInterest, tt.outstanding)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)

			// Conservation: nothing lost to integer arithmetic.
			assert.Equal(t, tt.amount, got.InterestPaise+got.PrincipalPaise+got.OverpaymentPaise)
		})
	}
}

func TestAllocate_InvalidAmount(t *testing.T) {
	for _, amount := range []int64{0, -5} {
		_, err := Allocate(amount, 250, 10000)
		assert.ErrorIs(t, err, customError.ErrInvalidAmount, "amount %d", amount)
	}
}

func TestAllocate_PrincipalNeverNegative(t *testing.T) {
	// Sweep a grid of inputs: allocated principal never exceeds outstanding
	// and every part stays non-negative.
	for amount := int64(1); amount <= 1200; amount += 97 {
		for _, pending := range []int64{0, 50, 250, 800} {
			for _, outstanding := range []int64{0, 100, 500, 1000} {
				got, err := Allocate(amount, pending, outstanding)
				require.NoError(t, err)

				assert.GreaterOrEqual(t, got.InterestPaise, int64(0))
				assert.GreaterOrEqual(t, got.PrincipalPaise, int64(0))
				assert.GreaterOrEqual(t, got.OverpaymentPaise, int64(0))
				assert.LessOrEqual(t, got.PrincipalPaise, outstanding)
				assert.Equal(t, amount, got.InterestPaise+got.PrincipalPaise+got.OverpaymentPaise)
			}
		}
	}
}
