package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Price source values for holdings and quote responses.
const (
	PriceSourceLive     = "live"
	PriceSourceEstimate = "estimate"
)

// Quote is a cached last-traded-price for a scrip. FetchedAt drives the
// TTL check; stale quotes are refreshed from the market-data API.
type Quote struct {
	Scrip           string          `json:"scrip"`
	CompanyName     string          `json:"companyName,omitempty"`
	LastTradedPrice decimal.Decimal `json:"lastTradedPrice"`
	FetchedAt       time.Time       `json:"fetchedAt"`
}

// QuoteResponse is a quote with its provenance: a live market price or a
// WACC-derived estimate when no quote is available.
type QuoteResponse struct {
	Scrip  string          `json:"scrip"`
	Price  decimal.Decimal `json:"price"`
	Source string          `json:"source"`
}
