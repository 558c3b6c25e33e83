package service

import (
	"fmt"

	"github.com/sharehub/nepse-ledger-backend/internal/model"
)

// BuildSaleEvents re-aggregates persisted per-lot allocation rows into the
// logical sale events they came from. Rows sharing a sale group belong to one
// event; rows without a group (legacy data) are grouped by
// (scrip, sale date, selling price) as a best-effort compatibility fallback.
//
// Events keep the first-seen order of the input rows, so callers that want
// chronological events should pass rows ordered by sale date.
func BuildSaleEvents(allocs []model.Allocation) []model.SaleEvent {
	events := []model.SaleEvent{}
	index := make(map[string]int)

	for _, alloc := range allocs {
		key := alloc.SaleGroup
		if key == "" {
			key = fmt.Sprintf("legacy|%s|%s|%s",
				alloc.Scrip, alloc.SaleDate.Format("2006-01-02"), alloc.SellingPrice.String())
		}

		i, ok := index[key]
		if !ok {
			index[key] = len(events)
			events = append(events, model.SaleEvent{
				GroupID:                    alloc.SaleGroup,
				UserID:                     alloc.UserID,
				Scrip:                      alloc.Scrip,
				SellingPrice:               alloc.SellingPrice,
				SaleDate:                   alloc.SaleDate,
				RepresentativePurchaseDate: alloc.LotPurchaseDate,
			})
			i = len(events) - 1
		}

		event := &events[i]
		event.UnitsSold += alloc.UnitsSold
		event.Allocations = append(event.Allocations, alloc)

		// Earliest purchase date across the allocated lots; conservative, the
		// long-term rate applies only when the oldest lot has aged past the
		// threshold.
		if alloc.LotPurchaseDate.Before(event.RepresentativePurchaseDate) {
			event.RepresentativePurchaseDate = alloc.LotPurchaseDate
		}
	}

	return events
}
