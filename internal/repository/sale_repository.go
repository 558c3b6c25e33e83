package repository

import (
	"database/sql"
	"fmt"

	"github.com/sharehub/nepse-ledger-backend/internal/model"
)

// SaleRepository provides data access methods for the sale table, which
// stores one row per FIFO allocation. Aggregation back into sale events is
// the aggregator's job; this layer only reads and writes the split rows.
type SaleRepository struct {
	db *sql.DB
}

// NewSaleRepository creates a new SaleRepository with the provided database connection.
func NewSaleRepository(db *sql.DB) *SaleRepository {
	return &SaleRepository{db: db}
}

const allocationColumns = `
	s.id, s.user_id, s.lot_id, s.units_sold, s.selling_price, s.sale_date,
	s.sale_group, s.created_at, l.scrip, l.purchase_date`

// InsertAllocation persists one FIFO split row.
func (r *SaleRepository) InsertAllocation(q Queryer, alloc *model.Allocation) error {
	_, err := q.Exec(`
		INSERT INTO sale (id, user_id, lot_id, units_sold, selling_price, sale_date, sale_group, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		alloc.ID,
		alloc.UserID,
		alloc.LotID,
		alloc.UnitsSold,
		alloc.SellingPrice.String(),
		alloc.SaleDate.Format(dateLayout),
		nullableString(alloc.SaleGroup),
		alloc.CreatedAt.UTC().Format(timestampLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to insert sale allocation: %w", err)
	}
	return nil
}

// ListByUser retrieves every allocation row for a user, joined with the lot
// for scrip and purchase date, in sale-date then insertion order.
func (r *SaleRepository) ListByUser(userID string) ([]model.Allocation, error) {
	return r.queryAllocations(r.db, `
		SELECT `+allocationColumns+`
		FROM sale s
		JOIN lot l ON s.lot_id = l.id
		WHERE s.user_id = ?
		ORDER BY s.sale_date ASC, s.created_at ASC, s.rowid ASC
	`, userID)
}

// ListByScrip retrieves a user's allocation rows for one scrip.
func (r *SaleRepository) ListByScrip(userID, scrip string) ([]model.Allocation, error) {
	return r.queryAllocations(r.db, `
		SELECT `+allocationColumns+`
		FROM sale s
		JOIN lot l ON s.lot_id = l.id
		WHERE s.user_id = ? AND l.scrip = ?
		ORDER BY s.sale_date ASC, s.created_at ASC, s.rowid ASC
	`, userID, scrip)
}

// ListByGroup retrieves the allocation rows of one sale event.
func (r *SaleRepository) ListByGroup(q Queryer, userID, groupID string) ([]model.Allocation, error) {
	return r.queryAllocations(q, `
		SELECT `+allocationColumns+`
		FROM sale s
		JOIN lot l ON s.lot_id = l.id
		WHERE s.user_id = ? AND s.sale_group = ?
		ORDER BY l.purchase_date ASC, l.rowid ASC
	`, userID, groupID)
}

// DeleteGroup removes all allocation rows of one sale event and returns how
// many rows were removed.
func (r *SaleRepository) DeleteGroup(q Queryer, userID, groupID string) (int64, error) {
	result, err := q.Exec(`
		DELETE FROM sale WHERE user_id = ? AND sale_group = ?
	`, userID, groupID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete sale group: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected, nil
}

// LotHasAllocations reports whether any allocation still references a lot.
// Lots with allocations cannot be deleted.
func (r *SaleRepository) LotHasAllocations(q Queryer, lotID string) (bool, error) {
	var count int
	err := q.QueryRow(`SELECT COUNT(*) FROM sale WHERE lot_id = ?`, lotID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to count lot allocations: %w", err)
	}
	return count > 0, nil
}

// AllocatedUnits returns the total units taken from a lot across all of its
// allocations. Used for defensive conservation checks on lot edits.
func (r *SaleRepository) AllocatedUnits(q Queryer, lotID string) (int64, error) {
	var units sql.NullInt64
	err := q.QueryRow(`SELECT SUM(units_sold) FROM sale WHERE lot_id = ?`, lotID).Scan(&units)
	if err != nil {
		return 0, fmt.Errorf("failed to sum lot allocations: %w", err)
	}
	return units.Int64, nil
}

func (r *SaleRepository) queryAllocations(q Queryer, query string, args ...any) ([]model.Allocation, error) {
	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sale table: %w", err)
	}
	defer rows.Close()

	allocs := []model.Allocation{}
	for rows.Next() {
		var (
			alloc           model.Allocation
			priceStr        string
			saleDateStr     string
			saleGroup       sql.NullString
			createdAtStr    string
			purchaseDateStr string
		)

		err := rows.Scan(
			&alloc.ID,
			&alloc.UserID,
			&alloc.LotID,
			&alloc.UnitsSold,
			&priceStr,
			&saleDateStr,
			&saleGroup,
			&createdAtStr,
			&alloc.Scrip,
			&purchaseDateStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sale table results: %w", err)
		}

		if alloc.SellingPrice, err = ParseDecimal(priceStr); err != nil {
			return nil, err
		}
		if alloc.SaleDate, err = ParseTime(saleDateStr); err != nil {
			return nil, err
		}
		if alloc.CreatedAt, err = ParseTime(createdAtStr); err != nil {
			return nil, err
		}
		if alloc.LotPurchaseDate, err = ParseTime(purchaseDateStr); err != nil {
			return nil, err
		}

		// sale_group is nullable for rows predating grouped sales.
		if saleGroup.Valid {
			alloc.SaleGroup = saleGroup.String
		}

		allocs = append(allocs, alloc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sale table: %w", err)
	}
	return allocs, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
