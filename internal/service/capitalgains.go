package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sharehub/nepse-ledger-backend/internal/fees"
	"github.com/sharehub/nepse-ledger-backend/internal/model"
)

// LongTermHoldingDays is the holding period at which the long-term capital
// gains rate applies. The boundary itself is long-term.
const LongTermHoldingDays = 365

var (
	longTermTaxRate  = decimal.RequireFromString("0.05")
	shortTermTaxRate = decimal.RequireFromString("0.075")
)

// BuildSaleReport computes the complete economic report for one aggregated
// sale event. Fees are applied once to the aggregate gross; tax applies only
// to positive profit (losses carry no relief, tax saturates at zero).
func BuildSaleReport(event model.SaleEvent, wacc decimal.Decimal) model.SaleReport {
	gross := event.SellingPrice.Mul(decimal.NewFromInt(event.UnitsSold))
	f := fees.Calculate(gross)

	netSale := gross.Sub(f.SebonFee).Sub(f.DPCharge).Sub(f.BrokerCommission)
	costBasis := wacc.Mul(decimal.NewFromInt(event.UnitsSold))
	profitBeforeTax := netSale.Sub(costBasis)

	holdingDays := holdingPeriodDays(event.RepresentativePurchaseDate, event.SaleDate)
	longTerm := holdingDays >= LongTermHoldingDays

	taxRate := shortTermTaxRate
	if longTerm {
		taxRate = longTermTaxRate
	}

	tax := decimal.Zero
	if profitBeforeTax.IsPositive() {
		tax = profitBeforeTax.Mul(taxRate)
	}

	return model.SaleReport{
		Scrip:             event.Scrip,
		UnitsSold:         event.UnitsSold,
		SellingPrice:      event.SellingPrice,
		SaleDate:          event.SaleDate,
		WACC:              wacc,
		GrossSale:         gross,
		SebonFee:          f.SebonFee,
		DPCharge:          f.DPCharge,
		BrokerRatePct:     f.BrokerRatePct,
		BrokerCommission:  f.BrokerCommission,
		NetSale:           netSale,
		CostBasis:         costBasis,
		ProfitBeforeTax:   profitBeforeTax,
		HoldingPeriodDays: holdingDays,
		LongTerm:          longTerm,
		TaxRatePct:        taxRate.Mul(decimal.NewFromInt(100)),
		Tax:               tax,
		FinalProfit:       profitBeforeTax.Sub(tax),
		Receivable:        netSale.Sub(tax),
	}
}

// holdingPeriodDays counts whole days between two date-only values.
func holdingPeriodDays(purchase, sale time.Time) int64 {
	return int64(sale.Sub(purchase).Hours() / 24)
}
