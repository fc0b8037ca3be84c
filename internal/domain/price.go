package domain

import "time"

// MarketPrice is a spot price snapshot per gram of pure metal, supplied by
// the price feed. The engine never fetches one itself.
type MarketPrice struct {
	Metal             string    `json:"metal"`
	PricePerGramPaise int64     `json:"price_per_gram_paise"`
	AsOf              time.Time `json:"as_of"`
}

type SetPriceRequest struct {
	PricePerGramPaise int64 `json:"price_per_gram_paise" validate:"required,gt=0"`
}
