// Package pricefeed supplies per-gram spot prices for pledged metals. The
// calculation engine never fetches prices itself; callers take a snapshot
// from a Feed and pass it in.
package pricefeed

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pawnbook/ledger-engine/internal/domain"
	customError "github.com/pawnbook/ledger-engine/pkg/errors"
)

// Feed provides spot price snapshots for gold and silver.
type Feed interface {
	// Spot returns the current price per gram of pure metal
	Spot(ctx context.Context, metal string) (domain.MarketPrice, error)

	// SetSpot records an operator-entered spot price
	SetSpot(ctx context.Context, price domain.MarketPrice) error
}

type redisFeed struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisFeed returns a Feed backed by Redis. Prices expire after the TTL
// so a stale quote is rejected rather than silently used for valuation; the
// operator re-enters the day's rate when the shop opens.
func NewRedisFeed(client *redis.Client, ttl time.Duration) Feed {
	return &redisFeed{client: client, ttl: ttl}
}

func spotKey(metal string) string {
	return "spot:" + metal
}

func (f *redisFeed) Spot(ctx context.Context, metal string) (domain.MarketPrice, error) {
	raw, err := f.client.Get(ctx, spotKey(metal)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.MarketPrice{}, customError.WrapPriceUnavailable(metal)
	}
	if err != nil {
		return domain.MarketPrice{}, customError.WrapCacheError(err)
	}

	var price domain.MarketPrice
	if err := json.Unmarshal(raw, &price); err != nil {
		return domain.MarketPrice{}, customError.WrapCacheError(err)
	}

	return price, nil
}

func (f *redisFeed) SetSpot(ctx context.Context, price domain.MarketPrice) error {
	raw, err := json.Marshal(price)
	if err != nil {
		return customError.WrapCacheError(err)
	}

	if err := f.client.Set(ctx, spotKey(price.Metal), raw, f.ttl).Err(); err != nil {
		return customError.WrapCacheError(err)
	}

	return nil
}
