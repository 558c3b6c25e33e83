package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/sharehub/nepse-ledger-backend/internal/apperrors"
	"github.com/sharehub/nepse-ledger-backend/internal/model"
)

// estimateMarkup is the factor applied to WACC when no live quote exists.
// Inherited placeholder with no documented rationale; pending product
// clarification it stays an estimate, clearly labeled as such in responses.
var estimateMarkup = decimal.RequireFromString("1.08")

// HoldingsService produces the consolidated portfolio views: per-scrip
// positions valued at live quotes where available, realized P&L from the
// aggregated sale events.
type HoldingsService struct {
	ledger *LedgerService
	quotes *QuoteService
}

// NewHoldingsService creates a new HoldingsService with the provided service dependencies.
func NewHoldingsService(ledger *LedgerService, quotes *QuoteService) *HoldingsService {
	return &HoldingsService{
		ledger: ledger,
		quotes: quotes,
	}
}

// PortfolioSummary rolls up every scrip the user ever bought, including fully
// sold positions (their realized P&L still counts toward the totals).
func (s *HoldingsService) PortfolioSummary(ctx context.Context, userID string) (model.PortfolioSummary, error) {
	scrips, err := s.ledger.lots.ListScrips(userID)
	if err != nil {
		return model.PortfolioSummary{}, err
	}

	summary := model.PortfolioSummary{
		Holdings:           []model.Holding{},
		TotalInvestedValue: decimal.Zero,
		TotalCurrentValue:  decimal.Zero,
		TotalUnrealizedPnL: decimal.Zero,
		TotalRealizedPnL:   decimal.Zero,
	}

	for _, scrip := range scrips {
		holding, err := s.buildHolding(ctx, userID, scrip)
		if err != nil {
			return model.PortfolioSummary{}, err
		}

		summary.Holdings = append(summary.Holdings, holding)
		summary.TotalInvestedValue = summary.TotalInvestedValue.Add(holding.InvestedValue)
		summary.TotalCurrentValue = summary.TotalCurrentValue.Add(holding.CurrentValue)
		summary.TotalUnrealizedPnL = summary.TotalUnrealizedPnL.Add(holding.UnrealizedPnL)
		summary.TotalRealizedPnL = summary.TotalRealizedPnL.Add(holding.RealizedPnL)
	}

	return summary, nil
}

// HoldingDetail is the drill-down for one scrip: the position plus its lots
// and aggregated sale events.
func (s *HoldingsService) HoldingDetail(ctx context.Context, userID, scrip string) (model.HoldingDetail, error) {
	lots, err := s.ledger.ListLots(userID, scrip)
	if err != nil {
		return model.HoldingDetail{}, err
	}
	if len(lots) == 0 {
		return model.HoldingDetail{}, apperrors.ErrLotNotFound
	}

	// ListLots normalized the scrip; reuse its spelling.
	scrip = lots[0].Scrip

	holding, err := s.buildHolding(ctx, userID, scrip)
	if err != nil {
		return model.HoldingDetail{}, err
	}

	sales, err := s.ledger.ListSaleEventsByScrip(userID, scrip)
	if err != nil {
		return model.HoldingDetail{}, err
	}

	return model.HoldingDetail{
		Holding: holding,
		Lots:    lots,
		Sales:   sales,
	}, nil
}

// CurrentQuote resolves the price used to value a scrip, with its provenance.
// Without a live quote the price is estimated off the user's WACC, so a scrip
// the user never bought has nothing to estimate from.
func (s *HoldingsService) CurrentQuote(ctx context.Context, userID, scrip string) (model.QuoteResponse, error) {
	lots, err := s.ledger.lots.ListAllForScrip(s.ledger.db, userID, scrip)
	if err != nil {
		return model.QuoteResponse{}, err
	}

	wacc := ComputeWACC(lots)
	price, source, err := s.currentPrice(ctx, scrip, wacc)
	if err != nil {
		return model.QuoteResponse{}, err
	}
	if source == model.PriceSourceEstimate && !wacc.IsPositive() {
		return model.QuoteResponse{}, apperrors.ErrQuoteNotFound
	}

	return model.QuoteResponse{
		Scrip:  scrip,
		Price:  price,
		Source: source,
	}, nil
}

func (s *HoldingsService) buildHolding(ctx context.Context, userID, scrip string) (model.Holding, error) {
	lots, err := s.ledger.lots.ListAllForScrip(s.ledger.db, userID, scrip)
	if err != nil {
		return model.Holding{}, err
	}

	var totalUnits, remainingUnits int64
	for _, lot := range lots {
		totalUnits += lot.Units
		remainingUnits += lot.RemainingUnits
	}

	wacc := ComputeWACC(lots)
	remaining := decimal.NewFromInt(remainingUnits)
	invested := wacc.Mul(remaining)

	price, source, err := s.currentPrice(ctx, scrip, wacc)
	if err != nil {
		return model.Holding{}, err
	}
	currentValue := price.Mul(remaining)

	realized, totalTax, err := s.realizedPnL(userID, scrip)
	if err != nil {
		return model.Holding{}, err
	}

	return model.Holding{
		Scrip:          scrip,
		TotalUnits:     totalUnits,
		RemainingUnits: remainingUnits,
		WACC:           wacc,
		InvestedValue:  invested,
		CurrentPrice:   price,
		PriceSource:    source,
		CurrentValue:   currentValue,
		UnrealizedPnL:  currentValue.Sub(invested),
		RealizedPnL:    realized,
		TotalTax:       totalTax,
	}, nil
}

// currentPrice prefers a live quote and falls back to the WACC-derived
// estimate. A missing quote is not an error for valuation purposes.
func (s *HoldingsService) currentPrice(ctx context.Context, scrip string, wacc decimal.Decimal) (decimal.Decimal, string, error) {
	price, err := s.quotes.LastTradedPrice(ctx, scrip)
	if err == nil {
		return price, model.PriceSourceLive, nil
	}
	if !errors.Is(err, apperrors.ErrQuoteNotFound) {
		return decimal.Decimal{}, "", err
	}

	if wacc.IsPositive() {
		return wacc.Mul(estimateMarkup), model.PriceSourceEstimate, nil
	}
	return decimal.Zero, model.PriceSourceEstimate, nil
}

func (s *HoldingsService) realizedPnL(userID, scrip string) (realized, totalTax decimal.Decimal, err error) {
	events, err := s.ledger.ListSaleEventsByScrip(userID, scrip)
	if err != nil {
		return decimal.Decimal{}, decimal.Decimal{}, err
	}

	realized = decimal.Zero
	totalTax = decimal.Zero
	for _, event := range events {
		realized = realized.Add(event.Report.FinalProfit)
		totalTax = totalTax.Add(event.Report.Tax)
	}
	return realized, totalTax, nil
}
