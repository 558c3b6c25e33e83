package repository_test

import (
	"errors"
	"testing"

	"github.com/sharehub/nepse-ledger-backend/internal/apperrors"
	"github.com/sharehub/nepse-ledger-backend/internal/repository"
	"github.com/sharehub/nepse-ledger-backend/internal/testutil"
)

// TestLotRepository_ListAvailable tests the consumption ordering.
//
// WHY: The allocation engine trusts this ordering completely; a wrong tie
// break would silently change which lots a sale consumes.
func TestLotRepository_ListAvailable(t *testing.T) {
	t.Run("orders by purchase date then insertion order", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewLotRepository(db)
		userID := testutil.MakeID()

		newer := testutil.NewLot().ForUser(userID).PurchasedOn("2024-02-01").Build(t, db)
		sameDayFirst := testutil.NewLot().ForUser(userID).PurchasedOn("2024-01-01").Build(t, db)
		sameDaySecond := testutil.NewLot().ForUser(userID).PurchasedOn("2024-01-01").Build(t, db)

		lots, err := repo.ListAvailable(db, userID, "NABIL")
		if err != nil {
			t.Fatalf("ListAvailable() returned unexpected error: %v", err)
		}

		if len(lots) != 3 {
			t.Fatalf("Expected 3 lots, got %d", len(lots))
		}
		if lots[0].ID != sameDayFirst.ID {
			t.Errorf("Expected the earlier-recorded same-day lot first, got %s", lots[0].ID)
		}
		if lots[1].ID != sameDaySecond.ID {
			t.Errorf("Expected the later-recorded same-day lot second, got %s", lots[1].ID)
		}
		if lots[2].ID != newer.ID {
			t.Errorf("Expected the newer lot last, got %s", lots[2].ID)
		}
	})

	t.Run("excludes exhausted lots", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewLotRepository(db)
		userID := testutil.MakeID()

		testutil.NewLot().ForUser(userID).WithRemaining(0).Build(t, db)
		open := testutil.NewLot().ForUser(userID).Build(t, db)

		lots, err := repo.ListAvailable(db, userID, "NABIL")
		if err != nil {
			t.Fatalf("ListAvailable() returned unexpected error: %v", err)
		}

		if len(lots) != 1 || lots[0].ID != open.ID {
			t.Errorf("Expected only the open lot, got %d lots", len(lots))
		}
	})
}

// TestLotRepository_DecrementRemaining tests the guarded decrement.
func TestLotRepository_DecrementRemaining(t *testing.T) {
	t.Run("decrements within the remaining quantity", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewLotRepository(db)
		userID := testutil.MakeID()

		lot := testutil.NewLot().ForUser(userID).WithUnits(100).Build(t, db)

		if err := repo.DecrementRemaining(db, lot.ID, 60); err != nil {
			t.Fatalf("DecrementRemaining() returned unexpected error: %v", err)
		}

		fetched, err := repo.GetLot(lot.ID, userID)
		if err != nil {
			t.Fatalf("GetLot() returned unexpected error: %v", err)
		}
		if fetched.RemainingUnits != 40 {
			t.Errorf("Expected 40 remaining units, got %d", fetched.RemainingUnits)
		}
	})

	t.Run("refuses to overdraw", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewLotRepository(db)
		userID := testutil.MakeID()

		lot := testutil.NewLot().ForUser(userID).WithUnits(100).WithRemaining(30).Build(t, db)

		err := repo.DecrementRemaining(db, lot.ID, 31)
		if !errors.Is(err, apperrors.ErrInsufficientInventory) {
			t.Fatalf("Expected ErrInsufficientInventory, got %v", err)
		}

		fetched, _ := repo.GetLot(lot.ID, userID)
		if fetched.RemainingUnits != 30 {
			t.Errorf("Expected remaining units untouched at 30, got %d", fetched.RemainingUnits)
		}
	})
}

// TestLotRepository_RestoreRemaining tests the guarded restore.
func TestLotRepository_RestoreRemaining(t *testing.T) {
	t.Run("restores previously allocated units", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewLotRepository(db)
		userID := testutil.MakeID()

		lot := testutil.NewLot().ForUser(userID).WithUnits(100).WithRemaining(40).Build(t, db)

		if err := repo.RestoreRemaining(db, lot.ID, 60); err != nil {
			t.Fatalf("RestoreRemaining() returned unexpected error: %v", err)
		}

		fetched, _ := repo.GetLot(lot.ID, userID)
		if fetched.RemainingUnits != 100 {
			t.Errorf("Expected 100 remaining units, got %d", fetched.RemainingUnits)
		}
	})

	t.Run("flags a restore past the bought quantity as corruption", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewLotRepository(db)
		userID := testutil.MakeID()

		lot := testutil.NewLot().ForUser(userID).WithUnits(100).WithRemaining(90).Build(t, db)

		err := repo.RestoreRemaining(db, lot.ID, 20)
		if !errors.Is(err, apperrors.ErrInconsistentState) {
			t.Fatalf("Expected ErrInconsistentState, got %v", err)
		}
	})
}

// TestLotRepository_GetLot tests lookup scoping.
func TestLotRepository_GetLot(t *testing.T) {
	t.Run("does not cross user boundaries", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewLotRepository(db)

		lot := testutil.NewLot().Build(t, db)

		_, err := repo.GetLot(lot.ID, testutil.MakeID())
		if !errors.Is(err, apperrors.ErrLotNotFound) {
			t.Fatalf("Expected ErrLotNotFound for another user, got %v", err)
		}
	})
}
