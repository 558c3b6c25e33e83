package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sharehub/nepse-ledger-backend/internal/model"
)

// LotBuilder provides a fluent interface for creating test purchase lots.
//
// Example usage:
//
//	// Simple creation with defaults
//	lot := testutil.NewLot().Build(t, db)
//
//	// Customized lot
//	lot := testutil.NewLot().
//	    ForUser(userID).
//	    WithScrip("NABIL").
//	    WithUnits(100).
//	    WithPrice("200").
//	    PurchasedOn("2024-01-15").
//	    Build(t, db)
type LotBuilder struct {
	ID             string
	UserID         string
	Scrip          string
	Units          int64
	Price          decimal.Decimal
	PurchaseDate   string
	RemainingUnits int64

	remainingSet bool
}

// NewLot creates a LotBuilder with sensible defaults.
func NewLot() *LotBuilder {
	return &LotBuilder{
		ID:           MakeID(),
		UserID:       MakeID(),
		Scrip:        "NABIL",
		Units:        100,
		Price:        decimal.NewFromInt(200),
		PurchaseDate: "2024-01-15",
	}
}

// WithID sets a custom ID.
func (b *LotBuilder) WithID(id string) *LotBuilder {
	b.ID = id
	return b
}

// ForUser sets the owning user.
func (b *LotBuilder) ForUser(userID string) *LotBuilder {
	b.UserID = userID
	return b
}

// WithScrip sets the security symbol.
func (b *LotBuilder) WithScrip(scrip string) *LotBuilder {
	b.Scrip = scrip
	return b
}

// WithUnits sets the purchased unit count.
func (b *LotBuilder) WithUnits(units int64) *LotBuilder {
	b.Units = units
	return b
}

// WithPrice sets the per-unit purchase price from a decimal string.
func (b *LotBuilder) WithPrice(price string) *LotBuilder {
	b.Price = decimal.RequireFromString(price)
	return b
}

// PurchasedOn sets the purchase date (YYYY-MM-DD).
func (b *LotBuilder) PurchasedOn(date string) *LotBuilder {
	b.PurchaseDate = date
	return b
}

// WithRemaining sets remaining units independently of the purchased count,
// for lots that have already been partially sold.
func (b *LotBuilder) WithRemaining(remaining int64) *LotBuilder {
	b.RemainingUnits = remaining
	b.remainingSet = true
	return b
}

// Build creates the lot in the database and returns it.
func (b *LotBuilder) Build(t *testing.T, db *sql.DB) model.Lot {
	t.Helper()

	remaining := b.Units
	if b.remainingSet {
		remaining = b.RemainingUnits
	}

	createdAt := time.Now().UTC()

	query := `
		INSERT INTO lot (id, user_id, scrip, units, price, purchase_date, remaining_units, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query,
		b.ID, b.UserID, b.Scrip, b.Units, b.Price.String(),
		b.PurchaseDate, remaining, createdAt.Format(time.RFC3339),
	)
	if err != nil {
		t.Fatalf("Failed to create test lot: %v", err)
	}

	purchaseDate, err := time.Parse("2006-01-02", b.PurchaseDate)
	if err != nil {
		t.Fatalf("Invalid purchase date in test lot: %v", err)
	}

	return model.Lot{
		ID:             b.ID,
		UserID:         b.UserID,
		Scrip:          b.Scrip,
		Units:          b.Units,
		Price:          b.Price,
		PurchaseDate:   purchaseDate,
		RemainingUnits: remaining,
		CreatedAt:      createdAt,
	}
}

// AllocationBuilder provides a fluent interface for creating test sale
// allocation rows directly, bypassing the allocation engine. Useful for
// seeding legacy data without a sale group.
type AllocationBuilder struct {
	ID           string
	UserID       string
	LotID        string
	UnitsSold    int64
	SellingPrice decimal.Decimal
	SaleDate     string
	SaleGroup    string
}

// NewAllocation creates an AllocationBuilder with sensible defaults.
// The lot ID must be supplied; the foreign key is enforced.
func NewAllocation(lotID string) *AllocationBuilder {
	return &AllocationBuilder{
		ID:           MakeID(),
		UserID:       MakeID(),
		LotID:        lotID,
		UnitsSold:    10,
		SellingPrice: decimal.NewFromInt(250),
		SaleDate:     "2024-06-15",
	}
}

// ForUser sets the owning user.
func (b *AllocationBuilder) ForUser(userID string) *AllocationBuilder {
	b.UserID = userID
	return b
}

// WithUnitsSold sets the allocated unit count.
func (b *AllocationBuilder) WithUnitsSold(units int64) *AllocationBuilder {
	b.UnitsSold = units
	return b
}

// WithSellingPrice sets the per-unit selling price from a decimal string.
func (b *AllocationBuilder) WithSellingPrice(price string) *AllocationBuilder {
	b.SellingPrice = decimal.RequireFromString(price)
	return b
}

// SoldOn sets the sale date (YYYY-MM-DD).
func (b *AllocationBuilder) SoldOn(date string) *AllocationBuilder {
	b.SaleDate = date
	return b
}

// InGroup sets the sale group. Left unset, the row is stored with a NULL
// group like pre-grouping legacy data.
func (b *AllocationBuilder) InGroup(groupID string) *AllocationBuilder {
	b.SaleGroup = groupID
	return b
}

// Build creates the allocation row in the database and returns it.
func (b *AllocationBuilder) Build(t *testing.T, db *sql.DB) model.Allocation {
	t.Helper()

	var saleGroup interface{}
	if b.SaleGroup != "" {
		saleGroup = b.SaleGroup
	}

	createdAt := time.Now().UTC()

	query := `
		INSERT INTO sale (id, user_id, lot_id, units_sold, selling_price, sale_date, sale_group, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query,
		b.ID, b.UserID, b.LotID, b.UnitsSold, b.SellingPrice.String(),
		b.SaleDate, saleGroup, createdAt.Format(time.RFC3339),
	)
	if err != nil {
		t.Fatalf("Failed to create test allocation: %v", err)
	}

	saleDate, err := time.Parse("2006-01-02", b.SaleDate)
	if err != nil {
		t.Fatalf("Invalid sale date in test allocation: %v", err)
	}

	return model.Allocation{
		ID:           b.ID,
		UserID:       b.UserID,
		LotID:        b.LotID,
		UnitsSold:    b.UnitsSold,
		SellingPrice: b.SellingPrice,
		SaleDate:     saleDate,
		SaleGroup:    b.SaleGroup,
		CreatedAt:    createdAt,
	}
}
