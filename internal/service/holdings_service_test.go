package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sharehub/nepse-ledger-backend/internal/model"
	"github.com/sharehub/nepse-ledger-backend/internal/nepse"
	"github.com/sharehub/nepse-ledger-backend/internal/repository"
	"github.com/sharehub/nepse-ledger-backend/internal/service"
	"github.com/sharehub/nepse-ledger-backend/internal/testutil"
)

func setupHoldings(t *testing.T, fetcher service.PriceFetcher) (*service.HoldingsService, *service.LedgerService, string) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	ledger := testutil.NewTestLedgerService(t, db)
	quotes := service.NewQuoteService(
		repository.NewQuoteRepository(db),
		repository.NewLotRepository(db),
		fetcher,
		time.Hour,
	)
	return service.NewHoldingsService(ledger, quotes), ledger, testutil.MakeID()
}

// TestHoldingsService_PortfolioSummary tests position rollups and valuation.
//
// WHY: Live and estimated prices follow different paths; the summary must
// label which one it used and keep the totals consistent with the parts.
func TestHoldingsService_PortfolioSummary(t *testing.T) {
	t.Run("values a position at the live quote", func(t *testing.T) {
		fetcher := &fakeFetcher{rows: []nepse.PriceVolume{
			{Symbol: "NABIL", LastTradedPrice: 250},
		}}
		svc, ledger, userID := setupHoldings(t, fetcher)

		mustCreateLot(t, ledger, userID, "NABIL", 100, "200", "2024-01-01")

		summary, err := svc.PortfolioSummary(context.Background(), userID)
		if err != nil {
			t.Fatalf("PortfolioSummary() returned unexpected error: %v", err)
		}
		if len(summary.Holdings) != 1 {
			t.Fatalf("Expected 1 holding, got %d", len(summary.Holdings))
		}

		h := summary.Holdings[0]
		if h.PriceSource != model.PriceSourceLive {
			t.Errorf("Expected live price source, got %s", h.PriceSource)
		}
		testutil.AssertDecimalEqual(t, "currentPrice", "250", h.CurrentPrice)
		testutil.AssertDecimalEqual(t, "wacc", "201", h.WACC)
		testutil.AssertDecimalEqual(t, "investedValue", "20100", h.InvestedValue)
		testutil.AssertDecimalEqual(t, "currentValue", "25000", h.CurrentValue)
		testutil.AssertDecimalEqual(t, "unrealizedPnl", "4900", h.UnrealizedPnL)
	})

	t.Run("estimates from average cost when no quote exists", func(t *testing.T) {
		fetcher := &fakeFetcher{err: errors.New("connection refused")}
		svc, ledger, userID := setupHoldings(t, fetcher)

		mustCreateLot(t, ledger, userID, "NABIL", 100, "200", "2024-01-01")

		summary, err := svc.PortfolioSummary(context.Background(), userID)
		if err != nil {
			t.Fatalf("PortfolioSummary() returned unexpected error: %v", err)
		}

		h := summary.Holdings[0]
		if h.PriceSource != model.PriceSourceEstimate {
			t.Errorf("Expected estimated price source, got %s", h.PriceSource)
		}
		// WACC 201 scaled by the estimate factor
		testutil.AssertDecimalEqual(t, "currentPrice", "217.08", h.CurrentPrice)
	})

	t.Run("keeps fully sold positions for their realized result", func(t *testing.T) {
		fetcher := &fakeFetcher{err: errors.New("connection refused")}
		svc, ledger, userID := setupHoldings(t, fetcher)

		mustCreateLot(t, ledger, userID, "NABIL", 100, "200", "2024-01-01")
		event := mustSell(t, ledger, userID, "NABIL", 100, "250", "2024-07-19")

		summary, err := svc.PortfolioSummary(context.Background(), userID)
		if err != nil {
			t.Fatalf("PortfolioSummary() returned unexpected error: %v", err)
		}
		if len(summary.Holdings) != 1 {
			t.Fatalf("Expected the sold-out position still listed, got %d holdings", len(summary.Holdings))
		}

		h := summary.Holdings[0]
		if h.RemainingUnits != 0 {
			t.Errorf("Expected 0 remaining units, got %d", h.RemainingUnits)
		}
		if !h.RealizedPnL.Equal(event.Report.FinalProfit) {
			t.Errorf("Expected realized PnL %s, got %s", event.Report.FinalProfit, h.RealizedPnL)
		}
		if !summary.TotalRealizedPnL.Equal(event.Report.FinalProfit) {
			t.Errorf("Expected total realized PnL %s, got %s", event.Report.FinalProfit, summary.TotalRealizedPnL)
		}
		if !h.TotalTax.Equal(event.Report.Tax) {
			t.Errorf("Expected total tax %s, got %s", event.Report.Tax, h.TotalTax)
		}
	})

	t.Run("sums totals across holdings", func(t *testing.T) {
		fetcher := &fakeFetcher{rows: []nepse.PriceVolume{
			{Symbol: "NABIL", LastTradedPrice: 250},
			{Symbol: "NICA", LastTradedPrice: 600},
		}}
		svc, ledger, userID := setupHoldings(t, fetcher)

		mustCreateLot(t, ledger, userID, "NABIL", 100, "200", "2024-01-01")
		mustCreateLot(t, ledger, userID, "NICA", 10, "500", "2024-02-01")

		summary, err := svc.PortfolioSummary(context.Background(), userID)
		if err != nil {
			t.Fatalf("PortfolioSummary() returned unexpected error: %v", err)
		}
		if len(summary.Holdings) != 2 {
			t.Fatalf("Expected 2 holdings, got %d", len(summary.Holdings))
		}

		invested := summary.Holdings[0].InvestedValue.Add(summary.Holdings[1].InvestedValue)
		if !summary.TotalInvestedValue.Equal(invested) {
			t.Errorf("Expected total invested %s, got %s", invested, summary.TotalInvestedValue)
		}
		current := summary.Holdings[0].CurrentValue.Add(summary.Holdings[1].CurrentValue)
		if !summary.TotalCurrentValue.Equal(current) {
			t.Errorf("Expected total current %s, got %s", current, summary.TotalCurrentValue)
		}
	})
}

// TestHoldingsService_HoldingDetail tests the single-scrip drill-down.
func TestHoldingsService_HoldingDetail(t *testing.T) {
	t.Run("returns lots and sale events for the scrip", func(t *testing.T) {
		fetcher := &fakeFetcher{err: errors.New("connection refused")}
		svc, ledger, userID := setupHoldings(t, fetcher)

		mustCreateLot(t, ledger, userID, "NABIL", 100, "200", "2024-01-01")
		mustCreateLot(t, ledger, userID, "NABIL", 50, "300", "2024-02-01")
		mustSell(t, ledger, userID, "NABIL", 120, "250", "2024-06-01")

		detail, err := svc.HoldingDetail(context.Background(), userID, "NABIL")
		if err != nil {
			t.Fatalf("HoldingDetail() returned unexpected error: %v", err)
		}

		if len(detail.Lots) != 2 {
			t.Errorf("Expected 2 lots, got %d", len(detail.Lots))
		}
		if len(detail.Sales) != 1 {
			t.Errorf("Expected 1 sale event, got %d", len(detail.Sales))
		}
		if detail.RemainingUnits != 30 {
			t.Errorf("Expected 30 remaining units, got %d", detail.RemainingUnits)
		}
	})

	t.Run("reports not found for an unknown scrip", func(t *testing.T) {
		fetcher := &fakeFetcher{}
		svc, _, userID := setupHoldings(t, fetcher)

		_, err := svc.HoldingDetail(context.Background(), userID, "NABIL")
		if err == nil {
			t.Fatal("Expected an error for a scrip with no lots")
		}
	})
}
