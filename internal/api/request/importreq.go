package request

import "github.com/shopspring/decimal"

// ImportCandidate is one scraped purchase candidate handed over by the
// import collaborator. Candidates that match an existing lot on
// (scrip, units, price, date) are skipped, not re-inserted.
type ImportCandidate struct {
	Scrip string          `json:"scrip"`
	Units int64           `json:"units"`
	Price decimal.Decimal `json:"price"`
	Date  string          `json:"date"`
}

// ImportRequest represents the JSON request body for a batch candidate import.
type ImportRequest struct {
	Candidates []ImportCandidate `json:"candidates"`
}

// UpdateImportConfigRequest represents the JSON request body for configuring
// the import source. AccessToken, when present, replaces the stored token.
type UpdateImportConfigRequest struct {
	SourceServer *int    `json:"sourceServer,omitempty"`
	AccessToken  *string `json:"accessToken,omitempty"`
}
