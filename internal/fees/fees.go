// Package fees implements the NEPSE brokerage and regulatory fee schedule.
// All arithmetic uses exact decimals; the schedule is pure and total for any
// non-negative gross amount. Non-positive amounts are a caller contract
// violation and are rejected by request validation upstream.
package fees

import "github.com/shopspring/decimal"

var (
	// sebonRate is the SEBON regulatory fee rate applied to the gross amount.
	sebonRate = decimal.RequireFromString("0.00015")

	// DPCharge is the flat depository-participant charge, levied exactly once
	// per transaction regardless of how many lots the transaction touches.
	DPCharge = decimal.RequireFromString("25.00")

	hundred = decimal.NewFromInt(100)
)

// brokerBands are the non-overlapping commission bands on the gross amount.
// Bands are closed-upper, evaluated ascending, first match wins.
var brokerBands = []struct {
	upTo    decimal.Decimal
	ratePct decimal.Decimal
}{
	{decimal.NewFromInt(50_000), decimal.RequireFromString("0.36")},
	{decimal.NewFromInt(500_000), decimal.RequireFromString("0.33")},
	{decimal.NewFromInt(2_000_000), decimal.RequireFromString("0.31")},
	{decimal.NewFromInt(10_000_000), decimal.RequireFromString("0.27")},
}

// topBandRatePct applies above the last band boundary.
var topBandRatePct = decimal.RequireFromString("0.24")

// Fees is the complete fee breakdown for one transaction's gross amount.
type Fees struct {
	BrokerRatePct    decimal.Decimal `json:"brokerRatePct"`
	BrokerCommission decimal.Decimal `json:"brokerCommission"`
	SebonFee         decimal.Decimal `json:"sebonFee"`
	DPCharge         decimal.Decimal `json:"dpCharge"`
}

// Total returns the sum of all fee components.
func (f Fees) Total() decimal.Decimal {
	return f.BrokerCommission.Add(f.SebonFee).Add(f.DPCharge)
}

// BrokerRatePct returns the commission rate (in percent) for a gross amount.
func BrokerRatePct(gross decimal.Decimal) decimal.Decimal {
	for _, band := range brokerBands {
		if gross.LessThanOrEqual(band.upTo) {
			return band.ratePct
		}
	}
	return topBandRatePct
}

// Calculate computes the full fee breakdown for a single transaction with the
// given gross amount.
func Calculate(gross decimal.Decimal) Fees {
	ratePct := BrokerRatePct(gross)
	return Fees{
		BrokerRatePct:    ratePct,
		BrokerCommission: gross.Mul(ratePct).Div(hundred),
		SebonFee:         gross.Mul(sebonRate),
		DPCharge:         DPCharge,
	}
}
