package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sharehub/nepse-ledger-backend/internal/apperrors"
	"github.com/sharehub/nepse-ledger-backend/internal/nepse"
	"github.com/sharehub/nepse-ledger-backend/internal/repository"
	"github.com/sharehub/nepse-ledger-backend/internal/service"
	"github.com/sharehub/nepse-ledger-backend/internal/testutil"
)

// fakeFetcher implements service.PriceFetcher with canned data.
type fakeFetcher struct {
	rows  []nepse.PriceVolume
	err   error
	calls int
}

func (f *fakeFetcher) FetchPriceVolume(_ context.Context) ([]nepse.PriceVolume, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.rows, nil
}

// TestQuoteService_LastTradedPrice tests cache fills, TTL behavior, and the
// stale fallback when the market-data API is unavailable.
func TestQuoteService_LastTradedPrice(t *testing.T) {
	setup := func(t *testing.T, fetcher *fakeFetcher, ttl time.Duration) (*service.QuoteService, string) {
		t.Helper()

		db := testutil.SetupTestDB(t)
		userID := testutil.MakeID()
		testutil.NewLot().ForUser(userID).WithScrip("NABIL").Build(t, db)

		svc := service.NewQuoteService(
			repository.NewQuoteRepository(db),
			repository.NewLotRepository(db),
			fetcher,
			ttl,
		)
		return svc, userID
	}

	t.Run("fetches and caches a missing quote", func(t *testing.T) {
		fetcher := &fakeFetcher{rows: []nepse.PriceVolume{
			{Symbol: "NABIL", SecurityName: "Nabil Bank", LastTradedPrice: 512.5},
			{Symbol: "NICA", SecurityName: "NIC Asia", LastTradedPrice: 330},
		}}
		svc, _ := setup(t, fetcher, time.Hour)

		price, err := svc.LastTradedPrice(context.Background(), "NABIL")
		if err != nil {
			t.Fatalf("LastTradedPrice() returned unexpected error: %v", err)
		}
		testutil.AssertDecimalEqual(t, "price", "512.5", price)

		// Second read must come from the cache
		if _, err := svc.LastTradedPrice(context.Background(), "NABIL"); err != nil {
			t.Fatalf("LastTradedPrice() returned unexpected error: %v", err)
		}
		if fetcher.calls != 1 {
			t.Errorf("Expected 1 API call, got %d", fetcher.calls)
		}
	})

	t.Run("refreshes once the TTL expires", func(t *testing.T) {
		fetcher := &fakeFetcher{rows: []nepse.PriceVolume{
			{Symbol: "NABIL", LastTradedPrice: 512.5},
		}}
		svc, _ := setup(t, fetcher, time.Nanosecond)

		if _, err := svc.LastTradedPrice(context.Background(), "NABIL"); err != nil {
			t.Fatalf("LastTradedPrice() returned unexpected error: %v", err)
		}
		if _, err := svc.LastTradedPrice(context.Background(), "NABIL"); err != nil {
			t.Fatalf("LastTradedPrice() returned unexpected error: %v", err)
		}

		if fetcher.calls != 2 {
			t.Errorf("Expected a second API call after TTL expiry, got %d", fetcher.calls)
		}
	})

	t.Run("serves a stale quote when the API is down", func(t *testing.T) {
		fetcher := &fakeFetcher{rows: []nepse.PriceVolume{
			{Symbol: "NABIL", LastTradedPrice: 512.5},
		}}
		svc, _ := setup(t, fetcher, time.Nanosecond)

		// Warm the cache, then break the API
		if _, err := svc.LastTradedPrice(context.Background(), "NABIL"); err != nil {
			t.Fatalf("LastTradedPrice() returned unexpected error: %v", err)
		}
		fetcher.err = errors.New("connection refused")

		price, err := svc.LastTradedPrice(context.Background(), "NABIL")
		if err != nil {
			t.Fatalf("Expected stale fallback, got error: %v", err)
		}
		testutil.AssertDecimalEqual(t, "price", "512.5", price)
	})

	t.Run("reports quote not found when nothing is cached and the API is down", func(t *testing.T) {
		fetcher := &fakeFetcher{err: errors.New("connection refused")}
		svc, _ := setup(t, fetcher, time.Hour)

		_, err := svc.LastTradedPrice(context.Background(), "NABIL")
		if !errors.Is(err, apperrors.ErrQuoteNotFound) {
			t.Fatalf("Expected ErrQuoteNotFound, got %v", err)
		}
	})

	t.Run("ignores scrips nobody holds and non-positive prices", func(t *testing.T) {
		fetcher := &fakeFetcher{rows: []nepse.PriceVolume{
			{Symbol: "NABIL", LastTradedPrice: 0},
			{Symbol: "UNHELD", LastTradedPrice: 100},
		}}
		svc, _ := setup(t, fetcher, time.Hour)

		if err := svc.RefreshAll(context.Background()); err != nil {
			t.Fatalf("RefreshAll() returned unexpected error: %v", err)
		}

		_, err := svc.LastTradedPrice(context.Background(), "UNHELD")
		if !errors.Is(err, apperrors.ErrQuoteNotFound) {
			t.Fatalf("Expected unheld scrip to stay uncached, got %v", err)
		}
	})
}
