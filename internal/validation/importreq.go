package validation

import (
	"fmt"
	"strings"

	"github.com/sharehub/nepse-ledger-backend/internal/api/request"
)

// ValidateImportRequest validates a batch import of purchase candidates.
// Every candidate must pass the same checks as a manual lot creation; a single
// malformed candidate rejects the whole batch so partial imports never happen.
func ValidateImportRequest(req request.ImportRequest) error {
	errors := make(map[string]string)

	if len(req.Candidates) == 0 {
		errors["candidates"] = "at least one candidate is required"
	}

	for i, c := range req.Candidates {
		prefix := fmt.Sprintf("candidates[%d]", i)

		if _, err := NormalizeScrip(c.Scrip); err != nil {
			errors[prefix+".scrip"] = err.Error()
		}
		if c.Units <= 0 {
			errors[prefix+".units"] = "units must be positive"
		}
		if !c.Price.IsPositive() {
			errors[prefix+".price"] = "price must be positive"
		}
		if strings.TrimSpace(c.Date) == "" {
			errors[prefix+".date"] = "date is required"
		} else if _, err := ParseDate(c.Date); err != nil {
			errors[prefix+".date"] = err.Error()
		}
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

// ValidateUpdateImportConfig validates an import-source configuration update.
func ValidateUpdateImportConfig(req request.UpdateImportConfigRequest) error {
	errors := make(map[string]string)

	if req.SourceServer != nil && (*req.SourceServer < 1 || *req.SourceServer > 99) {
		errors["sourceServer"] = "source server must be between 1 and 99"
	}

	if req.AccessToken != nil && strings.TrimSpace(*req.AccessToken) == "" {
		errors["accessToken"] = "access token cannot be blank"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
