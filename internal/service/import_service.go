package service

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/fernet/fernet-go"
	"github.com/google/uuid"

	"github.com/sharehub/nepse-ledger-backend/internal/api/request"
	"github.com/sharehub/nepse-ledger-backend/internal/apperrors"
	"github.com/sharehub/nepse-ledger-backend/internal/model"
	"github.com/sharehub/nepse-ledger-backend/internal/repository"
	"github.com/sharehub/nepse-ledger-backend/internal/validation"
)

// ImportService handles batch import of scraped purchase candidates and the
// per-user import-source configuration. Imports are idempotent: a candidate
// matching an existing lot on (scrip, units, price, date) is skipped, and the
// dedup check runs in the same transaction as the insert so concurrent imports
// for one user cannot double-insert.
type ImportService struct {
	db      *sql.DB
	lots    *repository.LotRepository
	configs *repository.ImportConfigRepository
	key     *fernet.Key
	locks   *scripLocks
}

// NewImportService creates a new ImportService. fernetKey is the base64 key
// used to encrypt stored access tokens; pass "" to disable token storage.
func NewImportService(db *sql.DB, lots *repository.LotRepository, configs *repository.ImportConfigRepository, fernetKey string) (*ImportService, error) {
	s := &ImportService{
		db:      db,
		lots:    lots,
		configs: configs,
		locks:   newScripLocks(),
	}

	if fernetKey != "" {
		key, err := fernet.DecodeKey(fernetKey)
		if err != nil {
			return nil, fmt.Errorf("invalid fernet key: %w", err)
		}
		s.key = key
	}

	return s, nil
}

// ImportCandidates inserts the candidates that do not already exist as lots
// and reports how many were imported versus skipped as duplicates.
func (s *ImportService) ImportCandidates(userID string, candidates []request.ImportCandidate) (model.ImportResult, error) {
	// Serialize imports per user so dedup stays race-free.
	unlock := s.locks.acquire(userID, "import")
	defer unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return model.ImportResult{}, fmt.Errorf("failed to begin import transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	result := model.ImportResult{Found: len(candidates)}
	now := time.Now().UTC()

	for _, candidate := range candidates {
		scrip, err := validation.NormalizeScrip(candidate.Scrip)
		if err != nil {
			return model.ImportResult{}, err
		}
		date, err := validation.ParseDate(candidate.Date)
		if err != nil {
			return model.ImportResult{}, err
		}

		exists, err := s.lots.CandidateExists(tx, userID, scrip, candidate.Units, candidate.Price, date)
		if err != nil {
			return model.ImportResult{}, err
		}
		if exists {
			result.Skipped++
			continue
		}

		lot := model.Lot{
			ID:             uuid.New().String(),
			UserID:         userID,
			Scrip:          scrip,
			Units:          candidate.Units,
			Price:          candidate.Price,
			PurchaseDate:   date,
			RemainingUnits: candidate.Units,
			CreatedAt:      now,
		}
		if err := s.lots.InsertLot(tx, &lot); err != nil {
			return model.ImportResult{}, err
		}
		result.Imported++
	}

	if err := tx.Commit(); err != nil {
		return model.ImportResult{}, fmt.Errorf("failed to commit import: %w", err)
	}

	if err := s.configs.TouchLastImport(userID, now); err != nil {
		// The lots are committed; a failed bookkeeping update is not worth
		// failing the import over.
		return result, nil
	}

	return result, nil
}

// GetConfig retrieves a user's import configuration. The stored token is
// never decrypted here; callers only learn whether one exists.
func (s *ImportService) GetConfig(userID string) (model.ImportConfig, error) {
	cfg, err := s.configs.GetConfig(userID)
	if err != nil {
		return model.ImportConfig{}, err
	}
	cfg.AccessToken = ""
	return cfg, nil
}

// UpdateConfig creates or updates a user's import configuration. A provided
// access token is encrypted before it is stored.
func (s *ImportService) UpdateConfig(userID string, req request.UpdateImportConfigRequest) (model.ImportConfig, error) {
	cfg, err := s.configs.GetConfig(userID)
	if err == apperrors.ErrImportConfigNotFound {
		cfg = model.ImportConfig{
			ID:           uuid.New().String(),
			UserID:       userID,
			SourceServer: 52,
		}
	} else if err != nil {
		return model.ImportConfig{}, err
	}

	if req.SourceServer != nil {
		cfg.SourceServer = *req.SourceServer
	}

	if req.AccessToken != nil {
		if s.key == nil {
			return model.ImportConfig{}, fmt.Errorf("token storage is disabled: no encryption key configured")
		}
		encrypted, err := fernet.EncryptAndSign([]byte(*req.AccessToken), s.key)
		if err != nil {
			return model.ImportConfig{}, fmt.Errorf("failed to encrypt access token: %w", err)
		}
		cfg.AccessToken = string(encrypted)
		cfg.HasToken = true
	}

	if err := s.configs.UpsertConfig(&cfg); err != nil {
		return model.ImportConfig{}, err
	}

	cfg.AccessToken = ""
	return cfg, nil
}

// AccessToken decrypts and returns the stored token for the scraping
// collaborator. Tokens never travel through the HTTP surface.
func (s *ImportService) AccessToken(userID string) (string, error) {
	if s.key == nil {
		return "", fmt.Errorf("token storage is disabled: no encryption key configured")
	}

	cfg, err := s.configs.GetConfig(userID)
	if err != nil {
		return "", err
	}
	if !cfg.HasToken {
		return "", apperrors.ErrImportConfigNotFound
	}

	plaintext := fernet.VerifyAndDecrypt([]byte(cfg.AccessToken), 0, []*fernet.Key{s.key})
	if plaintext == nil {
		return "", fmt.Errorf("stored access token failed verification")
	}
	return string(plaintext), nil
}
