package service

import (
	"github.com/shopspring/decimal"

	"github.com/sharehub/nepse-ledger-backend/internal/fees"
	"github.com/sharehub/nepse-ledger-backend/internal/model"
)

// CalculateLotCosts computes the full acquisition cost of one lot: the gross
// purchase amount plus the fee schedule applied to that lot's own gross.
func CalculateLotCosts(lot model.Lot) model.LotCosts {
	gross := lot.Price.Mul(decimal.NewFromInt(lot.Units))
	f := fees.Calculate(gross)
	totalCost := gross.Add(f.SebonFee).Add(f.DPCharge).Add(f.BrokerCommission)

	return model.LotCosts{
		Gross:            gross,
		SebonFee:         f.SebonFee,
		DPCharge:         f.DPCharge,
		BrokerRatePct:    f.BrokerRatePct,
		BrokerCommission: f.BrokerCommission,
		TotalCost:        totalCost,
		CostPerUnit:      totalCost.Div(decimal.NewFromInt(lot.Units)),
	}
}

// ComputeWACC computes the weighted average cost for a scrip from its full
// purchase history: total acquisition cost of every lot ever bought divided by
// total units ever bought. Sold units stay in both sums, so selling never
// moves the WACC; only editing a lot's own quantity or price does.
// Returns zero when no units were ever purchased.
func ComputeWACC(lots []model.Lot) decimal.Decimal {
	totalCost := decimal.Zero
	var totalUnits int64

	for _, lot := range lots {
		totalCost = totalCost.Add(CalculateLotCosts(lot).TotalCost)
		totalUnits += lot.Units
	}

	if totalUnits == 0 {
		return decimal.Zero
	}
	return totalCost.Div(decimal.NewFromInt(totalUnits))
}
