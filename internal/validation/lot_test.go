package validation_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/sharehub/nepse-ledger-backend/internal/api/request"
	"github.com/sharehub/nepse-ledger-backend/internal/validation"
)

func validCreateLot() request.CreateLotRequest {
	return request.CreateLotRequest{
		Scrip: "NABIL",
		Units: 100,
		Price: decimal.NewFromInt(200),
		Date:  "2024-01-01",
	}
}

// fieldError extracts the field map from a validation error, failing the test
// when the error is of the wrong type.
func fieldError(t *testing.T, err error) map[string]string {
	t.Helper()

	if err == nil {
		t.Fatal("Expected a validation error, got nil")
	}
	verr, ok := err.(*validation.Error)
	if !ok {
		t.Fatalf("Expected *validation.Error, got %T", err)
	}
	return verr.Fields
}

func TestValidateCreateLot(t *testing.T) {
	t.Run("accepts a valid request", func(t *testing.T) {
		if err := validation.ValidateCreateLot(validCreateLot()); err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	})

	t.Run("rejects non-positive units", func(t *testing.T) {
		req := validCreateLot()
		req.Units = 0

		fields := fieldError(t, validation.ValidateCreateLot(req))
		if _, ok := fields["units"]; !ok {
			t.Errorf("Expected a units error, got %v", fields)
		}
	})

	t.Run("rejects non-positive price", func(t *testing.T) {
		req := validCreateLot()
		req.Price = decimal.Zero

		fields := fieldError(t, validation.ValidateCreateLot(req))
		if _, ok := fields["price"]; !ok {
			t.Errorf("Expected a price error, got %v", fields)
		}
	})

	t.Run("rejects a malformed date", func(t *testing.T) {
		req := validCreateLot()
		req.Date = "01/01/2024"

		fields := fieldError(t, validation.ValidateCreateLot(req))
		if _, ok := fields["date"]; !ok {
			t.Errorf("Expected a date error, got %v", fields)
		}
	})

	t.Run("rejects a blank scrip", func(t *testing.T) {
		req := validCreateLot()
		req.Scrip = "   "

		fields := fieldError(t, validation.ValidateCreateLot(req))
		if _, ok := fields["scrip"]; !ok {
			t.Errorf("Expected a scrip error, got %v", fields)
		}
	})

	t.Run("collects all failing fields at once", func(t *testing.T) {
		fields := fieldError(t, validation.ValidateCreateLot(request.CreateLotRequest{}))
		for _, field := range []string{"scrip", "units", "price", "date"} {
			if _, ok := fields[field]; !ok {
				t.Errorf("Expected an error for %s, got %v", field, fields)
			}
		}
	})
}

func TestNormalizeScrip(t *testing.T) {
	t.Run("trims and upper-cases", func(t *testing.T) {
		got, err := validation.NormalizeScrip("  nabil ")
		if err != nil {
			t.Fatalf("NormalizeScrip() returned unexpected error: %v", err)
		}
		if got != "NABIL" {
			t.Errorf("Expected NABIL, got %s", got)
		}
	})

	t.Run("rejects over-long symbols", func(t *testing.T) {
		if _, err := validation.NormalizeScrip("ABCDEFGHIJKLMNOPQRSTU"); err == nil {
			t.Error("Expected an error for a 21-character symbol")
		}
	})
}

func TestValidateImportRequest(t *testing.T) {
	t.Run("pinpoints the failing candidate", func(t *testing.T) {
		req := request.ImportRequest{Candidates: []request.ImportCandidate{
			{Scrip: "NABIL", Units: 100, Price: decimal.NewFromInt(200), Date: "2024-01-01"},
			{Scrip: "NICA", Units: -1, Price: decimal.NewFromInt(300), Date: "2024-01-02"},
		}}

		fields := fieldError(t, validation.ValidateImportRequest(req))
		if _, ok := fields["candidates[1].units"]; !ok {
			t.Errorf("Expected an error keyed to candidates[1].units, got %v", fields)
		}
	})

	t.Run("rejects an empty batch", func(t *testing.T) {
		fields := fieldError(t, validation.ValidateImportRequest(request.ImportRequest{}))
		if _, ok := fields["candidates"]; !ok {
			t.Errorf("Expected a candidates error, got %v", fields)
		}
	})
}
