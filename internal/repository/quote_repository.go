package repository

import (
	"database/sql"
	"fmt"

	"github.com/sharehub/nepse-ledger-backend/internal/apperrors"
	"github.com/sharehub/nepse-ledger-backend/internal/model"
)

// QuoteRepository provides data access methods for the quote cache table.
// Freshness is decided by the quote service against its TTL; this layer just
// stores prices with their fetch timestamps.
type QuoteRepository struct {
	db *sql.DB
}

// NewQuoteRepository creates a new QuoteRepository with the provided database connection.
func NewQuoteRepository(db *sql.DB) *QuoteRepository {
	return &QuoteRepository{db: db}
}

// GetQuote retrieves the cached quote for a scrip.
// Returns apperrors.ErrQuoteNotFound when no quote has ever been cached.
func (r *QuoteRepository) GetQuote(scrip string) (model.Quote, error) {
	var (
		quote        model.Quote
		companyName  sql.NullString
		priceStr     string
		fetchedAtStr string
	)

	err := r.db.QueryRow(`
		SELECT scrip, company_name, last_traded_price, fetched_at
		FROM quote
		WHERE scrip = ?
	`, scrip).Scan(&quote.Scrip, &companyName, &priceStr, &fetchedAtStr)
	if err == sql.ErrNoRows {
		return model.Quote{}, apperrors.ErrQuoteNotFound
	}
	if err != nil {
		return model.Quote{}, fmt.Errorf("failed to scan quote: %w", err)
	}

	if companyName.Valid {
		quote.CompanyName = companyName.String
	}
	if quote.LastTradedPrice, err = ParseDecimal(priceStr); err != nil {
		return model.Quote{}, err
	}
	if quote.FetchedAt, err = ParseTime(fetchedAtStr); err != nil {
		return model.Quote{}, err
	}

	return quote, nil
}

// UpsertQuotes writes a batch of quotes in one transaction, replacing any
// previous price per scrip.
func (r *QuoteRepository) UpsertQuotes(quotes []model.Quote) error {
	if len(quotes) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin quote upsert: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	for _, quote := range quotes {
		_, err := tx.Exec(`
			INSERT INTO quote (scrip, company_name, last_traded_price, fetched_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(scrip) DO UPDATE SET
				company_name = excluded.company_name,
				last_traded_price = excluded.last_traded_price,
				fetched_at = excluded.fetched_at
		`,
			quote.Scrip,
			nullableString(quote.CompanyName),
			quote.LastTradedPrice.String(),
			quote.FetchedAt.UTC().Format(timestampLayout),
		)
		if err != nil {
			return fmt.Errorf("failed to upsert quote for %s: %w", quote.Scrip, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit quote upsert: %w", err)
	}
	return nil
}
