package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/sharehub/nepse-ledger-backend/internal/apperrors"
	"github.com/sharehub/nepse-ledger-backend/internal/model"
)

// ImportConfigRepository provides data access methods for the import_config
// table. Tokens arrive here already encrypted; this layer never sees plaintext.
type ImportConfigRepository struct {
	db *sql.DB
}

// NewImportConfigRepository creates a new ImportConfigRepository with the provided database connection.
func NewImportConfigRepository(db *sql.DB) *ImportConfigRepository {
	return &ImportConfigRepository{db: db}
}

// GetConfig retrieves the import configuration for a user. The returned
// AccessToken field holds the encrypted token as stored.
// Returns apperrors.ErrImportConfigNotFound when the user has no configuration.
func (r *ImportConfigRepository) GetConfig(userID string) (model.ImportConfig, error) {
	var (
		cfg           model.ImportConfig
		token         sql.NullString
		lastImportStr sql.NullString
		updatedAtStr  sql.NullString
	)

	err := r.db.QueryRow(`
		SELECT id, user_id, source_server, access_token, last_import_at, updated_at
		FROM import_config
		WHERE user_id = ?
	`, userID).Scan(&cfg.ID, &cfg.UserID, &cfg.SourceServer, &token, &lastImportStr, &updatedAtStr)
	if err == sql.ErrNoRows {
		return model.ImportConfig{}, apperrors.ErrImportConfigNotFound
	}
	if err != nil {
		return model.ImportConfig{}, fmt.Errorf("failed to scan import config: %w", err)
	}

	if token.Valid {
		cfg.AccessToken = token.String
		cfg.HasToken = true
	}
	if lastImportStr.Valid {
		t, err := ParseTime(lastImportStr.String)
		if err != nil {
			return model.ImportConfig{}, err
		}
		cfg.LastImportAt = &t
	}
	if updatedAtStr.Valid {
		t, err := ParseTime(updatedAtStr.String)
		if err != nil {
			return model.ImportConfig{}, err
		}
		cfg.UpdatedAt = &t
	}

	return cfg, nil
}

// UpsertConfig creates or replaces a user's import configuration.
func (r *ImportConfigRepository) UpsertConfig(cfg *model.ImportConfig) error {
	now := time.Now().UTC().Format(timestampLayout)

	_, err := r.db.Exec(`
		INSERT INTO import_config (id, user_id, source_server, access_token, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			source_server = excluded.source_server,
			access_token = excluded.access_token,
			updated_at = excluded.updated_at
	`, cfg.ID, cfg.UserID, cfg.SourceServer, nullableString(cfg.AccessToken), now)
	if err != nil {
		return fmt.Errorf("failed to upsert import config: %w", err)
	}
	return nil
}

// TouchLastImport records a successful import run.
func (r *ImportConfigRepository) TouchLastImport(userID string, at time.Time) error {
	_, err := r.db.Exec(`
		UPDATE import_config SET last_import_at = ? WHERE user_id = ?
	`, at.UTC().Format(timestampLayout), userID)
	if err != nil {
		return fmt.Errorf("failed to update last import time: %w", err)
	}
	return nil
}
