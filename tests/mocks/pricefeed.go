package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pawnbook/ledger-engine/internal/domain"
)

type MockPriceFeed struct {
	mock.Mock
}

func (m *MockPriceFeed) Spot(ctx context.Context, metal string) (domain.MarketPrice, error) {
	args := m.Called(ctx, metal)
	return args.Get(0).(domain.MarketPrice), args.Error(1)
}

func (m *MockPriceFeed) SetSpot(ctx context.Context, price domain.MarketPrice) error {
	args := m.Called(ctx, price)
	return args.Error(0)
}
