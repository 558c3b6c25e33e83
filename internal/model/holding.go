package model

import "github.com/shopspring/decimal"

// Holding is the consolidated position for one scrip: every lot the user ever
// bought rolled up, priced at the current quote (or a WACC-derived estimate).
type Holding struct {
	Scrip          string          `json:"scrip"`
	TotalUnits     int64           `json:"totalUnits"`
	RemainingUnits int64           `json:"remainingUnits"`
	WACC           decimal.Decimal `json:"wacc"`
	InvestedValue  decimal.Decimal `json:"investedValue"`
	CurrentPrice   decimal.Decimal `json:"currentPrice"`
	PriceSource    string          `json:"priceSource"`
	CurrentValue   decimal.Decimal `json:"currentValue"`
	UnrealizedPnL  decimal.Decimal `json:"unrealizedPnl"`
	RealizedPnL    decimal.Decimal `json:"realizedPnl"`
	TotalTax       decimal.Decimal `json:"totalTax"`
}

// PortfolioSummary is the dashboard rollup across every holding of a user.
type PortfolioSummary struct {
	Holdings           []Holding       `json:"holdings"`
	TotalInvestedValue decimal.Decimal `json:"totalInvestedValue"`
	TotalCurrentValue  decimal.Decimal `json:"totalCurrentValue"`
	TotalUnrealizedPnL decimal.Decimal `json:"totalUnrealizedPnl"`
	TotalRealizedPnL   decimal.Decimal `json:"totalRealizedPnl"`
}

// HoldingDetail is the drill-down view for one scrip: the individual lots and
// the aggregated sale events with their reports.
type HoldingDetail struct {
	Holding
	Lots  []LotResponse       `json:"lots"`
	Sales []SaleEventResponse `json:"sales"`
}
