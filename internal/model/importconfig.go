package model

import "time"

// ImportConfig holds per-user configuration for the external trade-management
// import source. The access token is stored encrypted at rest; this struct
// carries the decrypted value and it is never serialized back to clients.
type ImportConfig struct {
	ID           string     `json:"id"`
	UserID       string     `json:"-"`
	SourceServer int        `json:"sourceServer"`
	AccessToken  string     `json:"-"`
	HasToken     bool       `json:"hasToken"`
	LastImportAt *time.Time `json:"lastImportAt,omitempty"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty"`
}

// ImportResult summarizes one batch import of scraped purchase candidates.
type ImportResult struct {
	Found    int `json:"found"`
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}
