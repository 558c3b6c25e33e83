package testutil

import (
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sharehub/nepse-ledger-backend/internal/repository"
	"github.com/sharehub/nepse-ledger-backend/internal/service"
)

// TestFernetKey is a fixed, valid fernet key for import service tests.
// Generated once for test use only.
const TestFernetKey = "cw64XyI8nT9PBpmZLLrkV1br5vJDBQkzXringNJBe04="

func NewTestLedgerService(t *testing.T, db *sql.DB) *service.LedgerService {
	t.Helper()

	lotRepo := repository.NewLotRepository(db)
	saleRepo := repository.NewSaleRepository(db)

	return service.NewLedgerService(db, lotRepo, saleRepo)
}

func NewTestImportService(t *testing.T, db *sql.DB) *service.ImportService {
	t.Helper()

	lotRepo := repository.NewLotRepository(db)
	configRepo := repository.NewImportConfigRepository(db)

	importService, err := service.NewImportService(db, lotRepo, configRepo, TestFernetKey)
	if err != nil {
		t.Fatalf("Failed to create test import service: %v", err)
	}
	return importService
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db)
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// AssertRowCount fails the test when the table does not hold exactly the
// expected number of rows.
func AssertRowCount(t *testing.T, db *sql.DB, table string, expected int) {
	t.Helper()

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
		t.Fatalf("Failed to count rows in %s: %v", table, err)
	}
	if count != expected {
		t.Errorf("Expected %d rows in %s, got %d", expected, table, count)
	}
}

// AssertDecimalEqual fails the test when got is not numerically equal to the
// expected decimal string. Comparison ignores representation differences
// such as trailing zeros.
func AssertDecimalEqual(t *testing.T, field, expected string, got decimal.Decimal) {
	t.Helper()

	want := decimal.RequireFromString(expected)
	if !got.Equal(want) {
		t.Errorf("Expected %s = %s, got %s", field, want, got)
	}
}
