package service_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sharehub/nepse-ledger-backend/internal/model"
	"github.com/sharehub/nepse-ledger-backend/internal/service"
	"github.com/sharehub/nepse-ledger-backend/internal/testutil"
)

func date(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatalf("Invalid test date %q: %v", value, err)
	}
	return parsed
}

// TestBuildSaleReport tests the capital gains report in isolation.
//
// WHY: The tax rate depends on an exact day-count boundary and tax must
// never go negative; both are easy to get subtly wrong.
func TestBuildSaleReport(t *testing.T) {
	event := func(t *testing.T, purchase, sale string, units int64, price string) model.SaleEvent {
		t.Helper()
		return model.SaleEvent{
			Scrip:                      "NABIL",
			UnitsSold:                  units,
			SellingPrice:               decimal.RequireFromString(price),
			SaleDate:                   date(t, sale),
			RepresentativePurchaseDate: date(t, purchase),
		}
	}

	t.Run("applies the short-term rate below the boundary", func(t *testing.T) {
		report := service.BuildSaleReport(
			event(t, "2024-01-01", "2024-12-30", 50, "250"),
			decimal.RequireFromString("201"),
		)

		if report.HoldingPeriodDays != 364 {
			t.Fatalf("Expected 364 days, got %d", report.HoldingPeriodDays)
		}
		if report.LongTerm {
			t.Error("Expected short-term at 364 days")
		}
		testutil.AssertDecimalEqual(t, "taxRatePct", "7.5", report.TaxRatePct)
	})

	t.Run("treats exactly 365 days as long-term", func(t *testing.T) {
		report := service.BuildSaleReport(
			event(t, "2024-01-01", "2024-12-31", 50, "250"),
			decimal.RequireFromString("201"),
		)

		if report.HoldingPeriodDays != 365 {
			t.Fatalf("Expected 365 days, got %d", report.HoldingPeriodDays)
		}
		if !report.LongTerm {
			t.Error("Expected long-term at exactly 365 days")
		}
		testutil.AssertDecimalEqual(t, "taxRatePct", "5", report.TaxRatePct)
	})

	t.Run("charges no tax on a loss", func(t *testing.T) {
		// Sold below cost: profit is negative
		report := service.BuildSaleReport(
			event(t, "2024-01-01", "2024-06-01", 50, "150"),
			decimal.RequireFromString("201"),
		)

		if !report.ProfitBeforeTax.IsNegative() {
			t.Fatalf("Expected a loss, got profit %s", report.ProfitBeforeTax)
		}
		testutil.AssertDecimalEqual(t, "tax", "0", report.Tax)
		if !report.FinalProfit.Equal(report.ProfitBeforeTax) {
			t.Errorf("Expected final profit %s to equal pre-tax loss %s",
				report.FinalProfit, report.ProfitBeforeTax)
		}
		// The receivable is still the net proceeds
		if !report.Receivable.Equal(report.NetSale) {
			t.Errorf("Expected receivable %s to equal net sale %s on a loss",
				report.Receivable, report.NetSale)
		}
	})

	t.Run("produces the full breakdown for a profitable sale", func(t *testing.T) {
		report := service.BuildSaleReport(
			event(t, "2024-01-01", "2024-07-19", 50, "250"),
			decimal.RequireFromString("201"),
		)

		testutil.AssertDecimalEqual(t, "grossSale", "12500", report.GrossSale)
		testutil.AssertDecimalEqual(t, "sebonFee", "1.875", report.SebonFee)
		testutil.AssertDecimalEqual(t, "dpCharge", "25.00", report.DPCharge)
		testutil.AssertDecimalEqual(t, "brokerRatePct", "0.36", report.BrokerRatePct)
		testutil.AssertDecimalEqual(t, "brokerCommission", "45.00", report.BrokerCommission)
		testutil.AssertDecimalEqual(t, "netSale", "12428.125", report.NetSale)
		testutil.AssertDecimalEqual(t, "costBasis", "10050", report.CostBasis)
		testutil.AssertDecimalEqual(t, "profitBeforeTax", "2378.125", report.ProfitBeforeTax)
		testutil.AssertDecimalEqual(t, "tax", "178.359375", report.Tax)
		testutil.AssertDecimalEqual(t, "finalProfit", "2199.765625", report.FinalProfit)
		testutil.AssertDecimalEqual(t, "receivable", "12249.765625", report.Receivable)
	})
}

// TestComputeWACC tests the average cost computation over purchase history.
func TestComputeWACC(t *testing.T) {
	lot := func(units int64, price string) model.Lot {
		return model.Lot{
			Units:          units,
			Price:          decimal.RequireFromString(price),
			RemainingUnits: units,
		}
	}

	t.Run("returns zero with no purchase history", func(t *testing.T) {
		wacc := service.ComputeWACC(nil)
		testutil.AssertDecimalEqual(t, "wacc", "0", wacc)
	})

	t.Run("includes acquisition fees in the average", func(t *testing.T) {
		// 100 at 200 costs 20100 in total, so the per-unit cost is 201
		wacc := service.ComputeWACC([]model.Lot{lot(100, "200")})
		testutil.AssertDecimalEqual(t, "wacc", "201", wacc)
	})

	t.Run("weights sold-out lots the same as open ones", func(t *testing.T) {
		open := lot(100, "200")
		exhausted := lot(100, "200")
		exhausted.RemainingUnits = 0

		withOpen := service.ComputeWACC([]model.Lot{open, lot(50, "300")})
		withExhausted := service.ComputeWACC([]model.Lot{exhausted, lot(50, "300")})

		if !withOpen.Equal(withExhausted) {
			t.Errorf("Expected identical WACC regardless of remaining units, got %s and %s",
				withOpen, withExhausted)
		}
	})
}
