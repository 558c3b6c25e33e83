package service

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sharehub/nepse-ledger-backend/internal/apperrors"
	"github.com/sharehub/nepse-ledger-backend/internal/api/request"
	"github.com/sharehub/nepse-ledger-backend/internal/model"
	"github.com/sharehub/nepse-ledger-backend/internal/repository"
	"github.com/sharehub/nepse-ledger-backend/internal/validation"
)

// LedgerService owns the lot ledger: recording purchases, allocating sales
// across lots FIFO, reversing sales, and the lot edit/delete guards. Every
// mutation of a (user, scrip) pair is serialized through a keyed lock and
// committed in a single database transaction, so a sale either fully commits
// or leaves no trace.
type LedgerService struct {
	db    *sql.DB
	lots  *repository.LotRepository
	sales *repository.SaleRepository
	locks *scripLocks
}

// NewLedgerService creates a new LedgerService with the provided repository dependencies.
func NewLedgerService(db *sql.DB, lots *repository.LotRepository, sales *repository.SaleRepository) *LedgerService {
	return &LedgerService{
		db:    db,
		lots:  lots,
		sales: sales,
		locks: newScripLocks(),
	}
}

// CreateLot records a manual purchase. Remaining units start at the full
// bought quantity.
func (s *LedgerService) CreateLot(userID string, req request.CreateLotRequest) (model.LotResponse, error) {
	scrip, err := validation.NormalizeScrip(req.Scrip)
	if err != nil {
		return model.LotResponse{}, err
	}
	date, err := validation.ParseDate(req.Date)
	if err != nil {
		return model.LotResponse{}, err
	}

	lot := model.Lot{
		ID:             uuid.New().String(),
		UserID:         userID,
		Scrip:          scrip,
		Units:          req.Units,
		Price:          req.Price,
		PurchaseDate:   date,
		RemainingUnits: req.Units,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.lots.InsertLot(s.db, &lot); err != nil {
		return model.LotResponse{}, fmt.Errorf("failed to create lot: %w", err)
	}

	return model.LotResponse{Lot: lot, Costs: CalculateLotCosts(lot)}, nil
}

// GetLot retrieves one lot with its cost breakdown.
func (s *LedgerService) GetLot(userID, lotID string) (model.LotResponse, error) {
	lot, err := s.lots.GetLot(lotID, userID)
	if err != nil {
		return model.LotResponse{}, err
	}
	return model.LotResponse{Lot: lot, Costs: CalculateLotCosts(lot)}, nil
}

// ListLots retrieves a user's lots with cost breakdowns, optionally filtered
// by scrip.
func (s *LedgerService) ListLots(userID, scrip string) ([]model.LotResponse, error) {
	if scrip != "" {
		normalized, err := validation.NormalizeScrip(scrip)
		if err != nil {
			return nil, err
		}
		scrip = normalized
	}

	lots, err := s.lots.ListLots(userID, scrip)
	if err != nil {
		return nil, err
	}

	responses := make([]model.LotResponse, 0, len(lots))
	for _, lot := range lots {
		responses = append(responses, model.LotResponse{Lot: lot, Costs: CalculateLotCosts(lot)})
	}
	return responses, nil
}

// EditLot rewrites a lot's bought quantity, price, and purchase date.
// Shrinking the bought quantity below the units already sold out of the lot
// would break conservation, so that edit fails with ErrInvalidEdit. Remaining
// units are recomputed as newUnits minus units already sold.
func (s *LedgerService) EditLot(userID, lotID string, req request.UpdateLotRequest) (model.LotResponse, error) {
	lot, err := s.lots.GetLot(lotID, userID)
	if err != nil {
		return model.LotResponse{}, err
	}

	unlock := s.locks.acquire(userID, lot.Scrip)
	defer unlock()

	// Re-read under the lock: a concurrent sale may have moved remaining.
	lot, err = s.lots.GetLot(lotID, userID)
	if err != nil {
		return model.LotResponse{}, err
	}

	sold := lot.SoldUnits()

	// Cross-check against the allocation rows before trusting the counter.
	allocated, err := s.sales.AllocatedUnits(s.db, lotID)
	if err != nil {
		return model.LotResponse{}, err
	}
	if allocated != sold {
		return model.LotResponse{}, fmt.Errorf(
			"%w: lot %s reports %d sold units but allocations sum to %d",
			apperrors.ErrInconsistentState, lotID, sold, allocated)
	}

	if req.Units != nil {
		if *req.Units < sold {
			return model.LotResponse{}, fmt.Errorf(
				"%w: %d units already sold from this lot", apperrors.ErrInvalidEdit, sold)
		}
		lot.Units = *req.Units
	}
	if req.Price != nil {
		lot.Price = *req.Price
	}
	if req.Date != nil {
		date, err := validation.ParseDate(*req.Date)
		if err != nil {
			return model.LotResponse{}, err
		}
		lot.PurchaseDate = date
	}

	lot.RemainingUnits = lot.Units - sold

	if err := s.lots.UpdateLot(s.db, &lot); err != nil {
		return model.LotResponse{}, err
	}

	return model.LotResponse{Lot: lot, Costs: CalculateLotCosts(lot)}, nil
}

// DeleteLot removes a lot that no sale allocation references. Lots with
// allocations must have their sales reversed first.
func (s *LedgerService) DeleteLot(userID, lotID string) error {
	lot, err := s.lots.GetLot(lotID, userID)
	if err != nil {
		return err
	}

	unlock := s.locks.acquire(userID, lot.Scrip)
	defer unlock()

	inUse, err := s.sales.LotHasAllocations(s.db, lotID)
	if err != nil {
		return err
	}
	if inUse {
		return apperrors.ErrLotInUse
	}

	return s.lots.DeleteLot(s.db, lotID, userID)
}

// WACC computes the weighted average cost for a scrip from the user's full
// purchase history. Always recomputed on demand, never cached.
func (s *LedgerService) WACC(userID, scrip string) (decimal.Decimal, error) {
	lots, err := s.lots.ListAllForScrip(s.db, userID, scrip)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return ComputeWACC(lots), nil
}

// Sell executes one user sale action: allocate the requested units across the
// user's lots oldest-first, persist one allocation row per lot touched, and
// return the aggregated sale event with its full economic report.
//
// The operation is all-or-nothing. When the total remaining units across all
// lots fall short of the request, nothing is mutated and
// ErrInsufficientInventory is returned.
func (s *LedgerService) Sell(userID string, req request.CreateSaleRequest) (model.SaleEventResponse, error) {
	scrip, err := validation.NormalizeScrip(req.Scrip)
	if err != nil {
		return model.SaleEventResponse{}, err
	}
	saleDate, err := validation.ParseDate(req.Date)
	if err != nil {
		return model.SaleEventResponse{}, err
	}

	unlock := s.locks.acquire(userID, scrip)
	defer unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return model.SaleEventResponse{}, fmt.Errorf("failed to begin sale transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	available, err := s.lots.ListAvailable(tx, userID, scrip)
	if err != nil {
		return model.SaleEventResponse{}, err
	}

	var totalAvailable int64
	for _, lot := range available {
		totalAvailable += lot.RemainingUnits
	}
	if totalAvailable < req.Units {
		return model.SaleEventResponse{}, fmt.Errorf(
			"%w: requested %d units of %s, %d available",
			apperrors.ErrInsufficientInventory, req.Units, scrip, totalAvailable)
	}

	groupID := uuid.New().String()
	now := time.Now().UTC()
	needed := req.Units
	allocations := make([]model.Allocation, 0, len(available))

	for _, lot := range available {
		if needed == 0 {
			break
		}

		take := lot.RemainingUnits
		if needed < take {
			take = needed
		}

		if err := s.lots.DecrementRemaining(tx, lot.ID, take); err != nil {
			// The plan was validated against this snapshot; a failing
			// decrement means the snapshot lied.
			if errors.Is(err, apperrors.ErrInsufficientInventory) {
				return model.SaleEventResponse{}, fmt.Errorf(
					"%w: lot %s changed during allocation", apperrors.ErrInconsistentState, lot.ID)
			}
			return model.SaleEventResponse{}, err
		}

		alloc := model.Allocation{
			ID:              uuid.New().String(),
			UserID:          userID,
			LotID:           lot.ID,
			UnitsSold:       take,
			SellingPrice:    req.Price,
			SaleDate:        saleDate,
			SaleGroup:       groupID,
			CreatedAt:       now,
			Scrip:           scrip,
			LotPurchaseDate: lot.PurchaseDate,
		}
		if err := s.sales.InsertAllocation(tx, &alloc); err != nil {
			return model.SaleEventResponse{}, err
		}

		allocations = append(allocations, alloc)
		needed -= take
	}

	// WACC is read in the same transaction so the report reflects the ledger
	// the sale committed against.
	allLots, err := s.lots.ListAllForScrip(tx, userID, scrip)
	if err != nil {
		return model.SaleEventResponse{}, err
	}
	wacc := ComputeWACC(allLots)

	if err := tx.Commit(); err != nil {
		return model.SaleEventResponse{}, fmt.Errorf("failed to commit sale: %w", err)
	}

	event := BuildSaleEvents(allocations)[0]
	return model.SaleEventResponse{
		SaleEvent: event,
		Report:    BuildSaleReport(event, wacc),
	}, nil
}

// ReverseSale undoes one sale event: every touched lot gets its units back and
// the allocation rows are removed, atomically.
func (s *LedgerService) ReverseSale(userID, groupID string) error {
	// Peek outside the lock to learn the scrip, then serialize with sales.
	allocs, err := s.sales.ListByGroup(s.db, userID, groupID)
	if err != nil {
		return err
	}
	if len(allocs) == 0 {
		return apperrors.ErrSaleNotFound
	}

	unlock := s.locks.acquire(userID, allocs[0].Scrip)
	defer unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin reversal transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	allocs, err = s.sales.ListByGroup(tx, userID, groupID)
	if err != nil {
		return err
	}
	if len(allocs) == 0 {
		return apperrors.ErrSaleNotFound
	}

	for _, alloc := range allocs {
		if err := s.lots.RestoreRemaining(tx, alloc.LotID, alloc.UnitsSold); err != nil {
			return err
		}
	}

	if _, err := s.sales.DeleteGroup(tx, userID, groupID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reversal: %w", err)
	}
	return nil
}

// GetSaleEvent retrieves one aggregated sale event with its report.
func (s *LedgerService) GetSaleEvent(userID, groupID string) (model.SaleEventResponse, error) {
	allocs, err := s.sales.ListByGroup(s.db, userID, groupID)
	if err != nil {
		return model.SaleEventResponse{}, err
	}
	if len(allocs) == 0 {
		return model.SaleEventResponse{}, apperrors.ErrSaleNotFound
	}

	event := BuildSaleEvents(allocs)[0]
	wacc, err := s.WACC(userID, event.Scrip)
	if err != nil {
		return model.SaleEventResponse{}, err
	}

	return model.SaleEventResponse{
		SaleEvent: event,
		Report:    BuildSaleReport(event, wacc),
	}, nil
}

// ListSaleEvents retrieves every aggregated sale event for a user in
// chronological order, legacy ungrouped rows included.
func (s *LedgerService) ListSaleEvents(userID string) ([]model.SaleEventResponse, error) {
	allocs, err := s.sales.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	return s.buildEventResponses(userID, allocs)
}

// ListSaleEventsByScrip retrieves a user's aggregated sale events for one scrip.
func (s *LedgerService) ListSaleEventsByScrip(userID, scrip string) ([]model.SaleEventResponse, error) {
	allocs, err := s.sales.ListByScrip(userID, scrip)
	if err != nil {
		return nil, err
	}
	return s.buildEventResponses(userID, allocs)
}

func (s *LedgerService) buildEventResponses(userID string, allocs []model.Allocation) ([]model.SaleEventResponse, error) {
	events := BuildSaleEvents(allocs)
	responses := make([]model.SaleEventResponse, 0, len(events))

	// One WACC computation per scrip, shared across its events.
	waccByScrip := make(map[string]decimal.Decimal)
	for _, event := range events {
		wacc, ok := waccByScrip[event.Scrip]
		if !ok {
			var err error
			wacc, err = s.WACC(userID, event.Scrip)
			if err != nil {
				return nil, err
			}
			waccByScrip[event.Scrip] = wacc
		}
		responses = append(responses, model.SaleEventResponse{
			SaleEvent: event,
			Report:    BuildSaleReport(event, wacc),
		})
	}
	return responses, nil
}
