package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sharehub/nepse-ledger-backend/internal/apperrors"
	"github.com/sharehub/nepse-ledger-backend/internal/model"
)

// LotRepository provides data access methods for the lot table.
// Mutating methods used inside sale allocation take a Queryer so they can run
// in the caller's transaction.
type LotRepository struct {
	db *sql.DB
}

// NewLotRepository creates a new LotRepository with the provided database connection.
func NewLotRepository(db *sql.DB) *LotRepository {
	return &LotRepository{db: db}
}

const lotColumns = "id, user_id, scrip, units, price, purchase_date, remaining_units, created_at"

// InsertLot persists a new lot. The lot's remaining units must already be
// initialized (equal to units for a fresh purchase).
func (r *LotRepository) InsertLot(q Queryer, lot *model.Lot) error {
	_, err := q.Exec(`
		INSERT INTO lot (id, user_id, scrip, units, price, purchase_date, remaining_units, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		lot.ID,
		lot.UserID,
		lot.Scrip,
		lot.Units,
		lot.Price.String(),
		lot.PurchaseDate.Format(dateLayout),
		lot.RemainingUnits,
		lot.CreatedAt.UTC().Format(timestampLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to insert lot: %w", err)
	}
	return nil
}

// GetLot retrieves a single lot by ID, scoped to the owning user.
// Returns apperrors.ErrLotNotFound if no such lot exists.
func (r *LotRepository) GetLot(lotID, userID string) (model.Lot, error) {
	row := r.db.QueryRow(`
		SELECT `+lotColumns+`
		FROM lot
		WHERE id = ? AND user_id = ?
	`, lotID, userID)

	lot, err := scanLot(row)
	if err == sql.ErrNoRows {
		return model.Lot{}, apperrors.ErrLotNotFound
	}
	if err != nil {
		return model.Lot{}, fmt.Errorf("failed to scan lot: %w", err)
	}
	return lot, nil
}

// ListLots retrieves a user's lots, optionally filtered by scrip, ordered by
// purchase date then insertion order.
func (r *LotRepository) ListLots(userID, scrip string) ([]model.Lot, error) {
	query := `
		SELECT ` + lotColumns + `
		FROM lot
		WHERE user_id = ?
	`
	args := []any{userID}

	if scrip != "" {
		query += ` AND scrip = ?`
		args = append(args, scrip)
	}
	query += ` ORDER BY scrip ASC, purchase_date ASC, rowid ASC`

	return r.queryLots(r.db, query, args...)
}

// ListAvailable returns lots with remaining units for a scrip in FIFO order:
// purchase date ascending, then insertion order (rowid) ascending so lots
// bought the same day consume in the order they were recorded.
func (r *LotRepository) ListAvailable(q Queryer, userID, scrip string) ([]model.Lot, error) {
	return r.queryLots(q, `
		SELECT `+lotColumns+`
		FROM lot
		WHERE user_id = ? AND scrip = ? AND remaining_units > 0
		ORDER BY purchase_date ASC, rowid ASC
	`, userID, scrip)
}

// ListAllForScrip returns every lot ever purchased for a scrip, sold out or
// not. Weighted-average cost is computed over this full history.
func (r *LotRepository) ListAllForScrip(q Queryer, userID, scrip string) ([]model.Lot, error) {
	return r.queryLots(q, `
		SELECT `+lotColumns+`
		FROM lot
		WHERE user_id = ? AND scrip = ?
		ORDER BY purchase_date ASC, rowid ASC
	`, userID, scrip)
}

// ListScrips returns the distinct scrips a user has ever purchased.
func (r *LotRepository) ListScrips(userID string) ([]string, error) {
	rows, err := r.db.Query(`
		SELECT DISTINCT scrip FROM lot WHERE user_id = ? ORDER BY scrip ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query scrips: %w", err)
	}
	defer rows.Close()

	var scrips []string
	for rows.Next() {
		var scrip string
		if err := rows.Scan(&scrip); err != nil {
			return nil, fmt.Errorf("failed to scan scrip: %w", err)
		}
		scrips = append(scrips, scrip)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating scrips: %w", err)
	}
	return scrips, nil
}

// AllHeldScrips returns the distinct scrips with remaining units across all
// users. The quote refresh job uses this as its fetch universe.
func (r *LotRepository) AllHeldScrips() ([]string, error) {
	rows, err := r.db.Query(`
		SELECT DISTINCT scrip FROM lot WHERE remaining_units > 0 ORDER BY scrip ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query held scrips: %w", err)
	}
	defer rows.Close()

	var scrips []string
	for rows.Next() {
		var scrip string
		if err := rows.Scan(&scrip); err != nil {
			return nil, fmt.Errorf("failed to scan scrip: %w", err)
		}
		scrips = append(scrips, scrip)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating held scrips: %w", err)
	}
	return scrips, nil
}

// DecrementRemaining takes units out of a lot's remaining quantity. The guard
// is in the UPDATE itself so a concurrent writer can never push remaining
// negative. Returns apperrors.ErrInsufficientInventory when the lot holds
// fewer remaining units than requested.
func (r *LotRepository) DecrementRemaining(q Queryer, lotID string, units int64) error {
	result, err := q.Exec(`
		UPDATE lot
		SET remaining_units = remaining_units - ?
		WHERE id = ? AND remaining_units >= ?
	`, units, lotID, units)
	if err != nil {
		return fmt.Errorf("failed to decrement remaining units: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrInsufficientInventory
	}
	return nil
}

// RestoreRemaining puts units back on a lot when a sale is reversed. Restoring
// beyond the bought quantity means the ledger is corrupt, so the guard failure
// surfaces as an inconsistency, never a silent clamp.
func (r *LotRepository) RestoreRemaining(q Queryer, lotID string, units int64) error {
	result, err := q.Exec(`
		UPDATE lot
		SET remaining_units = remaining_units + ?
		WHERE id = ? AND remaining_units + ? <= units
	`, units, lotID, units)
	if err != nil {
		return fmt.Errorf("failed to restore remaining units: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: restoring %d units on lot %s would exceed units bought",
			apperrors.ErrInconsistentState, units, lotID)
	}
	return nil
}

// UpdateLot rewrites a lot's bought quantity, price, date, and recomputed
// remaining units. The already-sold guard is enforced by the ledger service
// before calling this.
func (r *LotRepository) UpdateLot(q Queryer, lot *model.Lot) error {
	result, err := q.Exec(`
		UPDATE lot
		SET units = ?, price = ?, purchase_date = ?, remaining_units = ?
		WHERE id = ? AND user_id = ?
	`,
		lot.Units,
		lot.Price.String(),
		lot.PurchaseDate.Format(dateLayout),
		lot.RemainingUnits,
		lot.ID,
		lot.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update lot: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrLotNotFound
	}
	return nil
}

// DeleteLot removes a lot. Callers must first verify no allocation references it.
func (r *LotRepository) DeleteLot(q Queryer, lotID, userID string) error {
	result, err := q.Exec(`DELETE FROM lot WHERE id = ? AND user_id = ?`, lotID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete lot: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrLotNotFound
	}
	return nil
}

// CandidateExists reports whether a lot already exists matching an import
// candidate on (user, scrip, units, price, date). Runs inside the import
// transaction so the dedup check and the insert are atomic.
func (r *LotRepository) CandidateExists(q Queryer, userID, scrip string, units int64, price decimal.Decimal, date time.Time) (bool, error) {
	var count int
	err := q.QueryRow(`
		SELECT COUNT(*)
		FROM lot
		WHERE user_id = ? AND scrip = ? AND units = ? AND price = ? AND purchase_date = ?
	`, userID, scrip, units, price.String(), date.Format(dateLayout)).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check candidate existence: %w", err)
	}
	return count > 0, nil
}

func (r *LotRepository) queryLots(q Queryer, query string, args ...any) ([]model.Lot, error) {
	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query lot table: %w", err)
	}
	defer rows.Close()

	lots := []model.Lot{}
	for rows.Next() {
		lot, err := scanLot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lot table results: %w", err)
		}
		lots = append(lots, lot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating lot table: %w", err)
	}
	return lots, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLot(row rowScanner) (model.Lot, error) {
	var (
		lot          model.Lot
		priceStr     string
		dateStr      string
		createdAtStr string
	)

	err := row.Scan(
		&lot.ID,
		&lot.UserID,
		&lot.Scrip,
		&lot.Units,
		&priceStr,
		&dateStr,
		&lot.RemainingUnits,
		&createdAtStr,
	)
	if err != nil {
		return model.Lot{}, err
	}

	if lot.Price, err = ParseDecimal(priceStr); err != nil {
		return model.Lot{}, err
	}
	if lot.PurchaseDate, err = ParseTime(dateStr); err != nil {
		return model.Lot{}, err
	}
	if lot.CreatedAt, err = ParseTime(createdAtStr); err != nil {
		return model.Lot{}, err
	}

	// Defensive invariant check: a lot outside 0 <= remaining <= units means
	// the storage layer is corrupt. Never repaired here.
	if lot.RemainingUnits < 0 || lot.RemainingUnits > lot.Units {
		return model.Lot{}, fmt.Errorf("%w: lot %s has remaining %d of %d units",
			apperrors.ErrInconsistentState, lot.ID, lot.RemainingUnits, lot.Units)
	}

	return lot, nil
}
