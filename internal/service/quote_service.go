package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"github.com/sharehub/nepse-ledger-backend/internal/apperrors"
	"github.com/sharehub/nepse-ledger-backend/internal/model"
	"github.com/sharehub/nepse-ledger-backend/internal/nepse"
	"github.com/sharehub/nepse-ledger-backend/internal/repository"
)

// PriceFetcher fetches the market-wide price snapshot. Implemented by
// nepse.Client; tests substitute their own.
type PriceFetcher interface {
	FetchPriceVolume(ctx context.Context) ([]nepse.PriceVolume, error)
}

// QuoteService maintains the last-traded-price cache. Quotes older than the
// TTL trigger a refresh; overlapping refreshes collapse into a single API
// call via singleflight. The costing engine never calls this service; quotes
// only feed portfolio valuation.
type QuoteService struct {
	quotes  *repository.QuoteRepository
	lots    *repository.LotRepository
	fetcher PriceFetcher
	ttl     time.Duration
	group   singleflight.Group
}

// NewQuoteService creates a new QuoteService with the provided dependencies.
func NewQuoteService(quotes *repository.QuoteRepository, lots *repository.LotRepository, fetcher PriceFetcher, ttl time.Duration) *QuoteService {
	return &QuoteService{
		quotes:  quotes,
		lots:    lots,
		fetcher: fetcher,
		ttl:     ttl,
	}
}

// LastTradedPrice returns the cached price for a scrip, refreshing the cache
// first when the entry is stale or missing. When the API is down a stale
// cached price inside a second TTL window would be better than nothing, but
// a price is still a price: any cached entry is served as last resort before
// giving up with ErrQuoteNotFound.
func (s *QuoteService) LastTradedPrice(ctx context.Context, scrip string) (decimal.Decimal, error) {
	quote, err := s.quotes.GetQuote(scrip)
	if err == nil && time.Since(quote.FetchedAt) < s.ttl {
		return quote.LastTradedPrice, nil
	}
	if err != nil && !errors.Is(err, apperrors.ErrQuoteNotFound) {
		return decimal.Decimal{}, err
	}

	if refreshErr := s.RefreshAll(ctx); refreshErr != nil {
		// API down: fall back to whatever the cache still holds.
		if err == nil {
			return quote.LastTradedPrice, nil
		}
		return decimal.Decimal{}, fmt.Errorf("%w: %s", apperrors.ErrQuoteNotFound, scrip)
	}

	quote, err = s.quotes.GetQuote(scrip)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return quote.LastTradedPrice, nil
}

// RefreshAll fetches the market snapshot once and caches prices for every
// scrip currently held by any user. Concurrent callers share one fetch.
func (s *QuoteService) RefreshAll(ctx context.Context) error {
	_, err, _ := s.group.Do("refresh", func() (any, error) {
		held, err := s.lots.AllHeldScrips()
		if err != nil {
			return nil, err
		}
		if len(held) == 0 {
			return nil, nil
		}

		heldSet := make(map[string]bool, len(held))
		for _, scrip := range held {
			heldSet[scrip] = true
		}

		rows, err := s.fetcher.FetchPriceVolume(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrFailedToRefreshQuotes, err)
		}

		now := time.Now().UTC()
		quotes := make([]model.Quote, 0, len(held))
		for _, row := range rows {
			if !heldSet[row.Symbol] || row.LastTradedPrice <= 0 {
				continue
			}
			quotes = append(quotes, model.Quote{
				Scrip:           row.Symbol,
				CompanyName:     row.SecurityName,
				LastTradedPrice: decimal.NewFromFloat(row.LastTradedPrice),
				FetchedAt:       now,
			})
		}

		return nil, s.quotes.UpsertQuotes(quotes)
	})
	return err
}
