package service_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/sharehub/nepse-ledger-backend/internal/api/request"
	"github.com/sharehub/nepse-ledger-backend/internal/apperrors"
	"github.com/sharehub/nepse-ledger-backend/internal/testutil"
)

// TestImportService_ImportCandidates tests the idempotent batch import.
//
// WHY: Broker imports are re-run routinely; re-importing the same statement
// must never duplicate lots or change the portfolio.
func TestImportService_ImportCandidates(t *testing.T) {
	candidates := []request.ImportCandidate{
		{Scrip: "NABIL", Units: 100, Price: decimal.NewFromInt(200), Date: "2024-01-01"},
		{Scrip: "NICA", Units: 50, Price: decimal.RequireFromString("512.50"), Date: "2024-02-15"},
	}

	t.Run("imports fresh candidates", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestImportService(t, db)
		userID := testutil.MakeID()

		result, err := svc.ImportCandidates(userID, candidates)
		if err != nil {
			t.Fatalf("ImportCandidates() returned unexpected error: %v", err)
		}

		if result.Found != 2 || result.Imported != 2 || result.Skipped != 0 {
			t.Errorf("Expected found=2 imported=2 skipped=0, got %+v", result)
		}
		testutil.AssertRowCount(t, db, "lot", 2)
	})

	t.Run("re-running the same import changes nothing", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestImportService(t, db)
		userID := testutil.MakeID()

		if _, err := svc.ImportCandidates(userID, candidates); err != nil {
			t.Fatalf("ImportCandidates() returned unexpected error: %v", err)
		}

		result, err := svc.ImportCandidates(userID, candidates)
		if err != nil {
			t.Fatalf("ImportCandidates() returned unexpected error: %v", err)
		}

		if result.Imported != 0 || result.Skipped != 2 {
			t.Errorf("Expected imported=0 skipped=2 on re-run, got %+v", result)
		}
		testutil.AssertRowCount(t, db, "lot", 2)
	})

	t.Run("matches manually entered lots too", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		ledger := testutil.NewTestLedgerService(t, db)
		svc := testutil.NewTestImportService(t, db)
		userID := testutil.MakeID()

		// The same purchase already entered by hand
		mustCreateLot(t, ledger, userID, "NABIL", 100, "200", "2024-01-01")

		result, err := svc.ImportCandidates(userID, candidates[:1])
		if err != nil {
			t.Fatalf("ImportCandidates() returned unexpected error: %v", err)
		}

		if result.Skipped != 1 {
			t.Errorf("Expected the candidate skipped against the manual lot, got %+v", result)
		}
		testutil.AssertRowCount(t, db, "lot", 1)
	})

	t.Run("does not skip across users", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestImportService(t, db)

		if _, err := svc.ImportCandidates(testutil.MakeID(), candidates); err != nil {
			t.Fatalf("ImportCandidates() returned unexpected error: %v", err)
		}

		result, err := svc.ImportCandidates(testutil.MakeID(), candidates)
		if err != nil {
			t.Fatalf("ImportCandidates() returned unexpected error: %v", err)
		}

		if result.Imported != 2 {
			t.Errorf("Expected both candidates imported for a different user, got %+v", result)
		}
		testutil.AssertRowCount(t, db, "lot", 4)
	})
}

// TestImportService_Config tests the import-source configuration and the
// encrypted token round trip.
func TestImportService_Config(t *testing.T) {
	t.Run("returns not found before any configuration", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestImportService(t, db)

		_, err := svc.GetConfig(testutil.MakeID())
		if !errors.Is(err, apperrors.ErrImportConfigNotFound) {
			t.Fatalf("Expected ErrImportConfigNotFound, got %v", err)
		}
	})

	t.Run("stores the token encrypted and never returns it", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestImportService(t, db)
		userID := testutil.MakeID()

		token := "broker-portal-token"
		cfg, err := svc.UpdateConfig(userID, request.UpdateImportConfigRequest{AccessToken: &token})
		if err != nil {
			t.Fatalf("UpdateConfig() returned unexpected error: %v", err)
		}
		if !cfg.HasToken {
			t.Error("Expected HasToken after storing a token")
		}
		if cfg.AccessToken != "" {
			t.Error("Expected the token to be withheld from config responses")
		}

		// Stored form must not be the plaintext
		var stored string
		if err := db.QueryRow("SELECT access_token FROM import_config WHERE user_id = ?", userID).Scan(&stored); err != nil {
			t.Fatalf("Failed to read stored token: %v", err)
		}
		if stored == token {
			t.Error("Expected the stored token to be encrypted")
		}

		// The collaborator path decrypts it back
		decrypted, err := svc.AccessToken(userID)
		if err != nil {
			t.Fatalf("AccessToken() returned unexpected error: %v", err)
		}
		if decrypted != token {
			t.Errorf("Expected decrypted token %q, got %q", token, decrypted)
		}
	})

	t.Run("updates the source server independently of the token", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestImportService(t, db)
		userID := testutil.MakeID()

		server := 49
		cfg, err := svc.UpdateConfig(userID, request.UpdateImportConfigRequest{SourceServer: &server})
		if err != nil {
			t.Fatalf("UpdateConfig() returned unexpected error: %v", err)
		}

		if cfg.SourceServer != 49 {
			t.Errorf("Expected source server 49, got %d", cfg.SourceServer)
		}
		if cfg.HasToken {
			t.Error("Expected no token on a server-only update")
		}
	})
}
