package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrLotNotFound indicates that a purchase lot with the given ID does not exist.
	ErrLotNotFound = errors.New("lot not found")

	// ErrSaleNotFound indicates that a sale event with the given group ID does not exist.
	ErrSaleNotFound = errors.New("sale not found")

	// ErrQuoteNotFound indicates no cached or live quote is available for a scrip.
	ErrQuoteNotFound = errors.New("quote not found")

	// ErrImportConfigNotFound indicates import-source configuration has not been set up.
	ErrImportConfigNotFound = errors.New("import configuration not found")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrInsufficientInventory indicates that a sale request exceeds the total
	// remaining units across every available lot for the scrip.
	ErrInsufficientInventory = errors.New("insufficient inventory for sale")

	// ErrInvalidEdit indicates that a lot edit would shrink the bought quantity
	// below the number of units already sold out of that lot.
	ErrInvalidEdit = errors.New("lot edit would shrink units below already-sold quantity")

	// ErrLotInUse indicates that a lot cannot be deleted because sale allocations
	// still reference it.
	ErrLotInUse = errors.New("lot has sale allocations referencing it")

	// ErrDuplicateImport indicates that an imported purchase candidate matches an
	// existing lot. Import treats this as a skip, not a failure.
	ErrDuplicateImport = errors.New("duplicate import candidate")

	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrMissingUser indicates that the user scoping header is absent.
	ErrMissingUser = errors.New("user ID is required")
)

// Operation failure errors represent system-level failures when retrieving or processing data.
var (
	ErrFailedToRetrieveLots     = errors.New("failed to retrieve lots")
	ErrFailedToRetrieveLot      = errors.New("failed to retrieve lot")
	ErrFailedToRetrieveSales    = errors.New("failed to retrieve sales")
	ErrFailedToRetrieveSale     = errors.New("failed to retrieve sale")
	ErrFailedToRetrieveHoldings = errors.New("failed to retrieve holdings")
	ErrFailedToRetrieveQuote    = errors.New("failed to retrieve quote")
	ErrFailedToRefreshQuotes    = errors.New("failed to refresh quotes")
	ErrFailedToImportCandidates = errors.New("failed to import purchase candidates")
)

// Data integrity errors represent inconsistencies or corruption in the ledger.
var (
	// ErrInconsistentState indicates that a ledger invariant no longer holds
	// (e.g. remaining units would go negative or exceed units bought). This is
	// fatal for the operation: it points at a storage-layer bug and must never
	// be silently corrected.
	ErrInconsistentState = errors.New("ledger state inconsistency detected")
)
