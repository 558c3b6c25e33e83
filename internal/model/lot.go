package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lot represents one purchase batch of a scrip. RemainingUnits tracks how many
// of the bought units have not yet been allocated to a sale; it is only ever
// changed by sale allocation, sale reversal, or a lot edit.
type Lot struct {
	ID             string          `json:"id"`
	UserID         string          `json:"-"`
	Scrip          string          `json:"scrip"`
	Units          int64           `json:"units"`
	Price          decimal.Decimal `json:"price"`
	PurchaseDate   time.Time       `json:"purchaseDate"`
	RemainingUnits int64           `json:"remainingUnits"`
	CreatedAt      time.Time       `json:"createdAt,omitempty"`
}

// SoldUnits returns how many units have been allocated to sales out of this lot.
func (l Lot) SoldUnits() int64 {
	return l.Units - l.RemainingUnits
}

// LotCosts is the full acquisition-cost breakdown for a single lot, with fees
// computed on that lot's own gross amount.
type LotCosts struct {
	Gross            decimal.Decimal `json:"gross"`
	SebonFee         decimal.Decimal `json:"sebonFee"`
	DPCharge         decimal.Decimal `json:"dpCharge"`
	BrokerRatePct    decimal.Decimal `json:"brokerRatePct"`
	BrokerCommission decimal.Decimal `json:"brokerCommission"`
	TotalCost        decimal.Decimal `json:"totalCost"`
	CostPerUnit      decimal.Decimal `json:"costPerUnit"`
}

// LotResponse is a lot enriched with its cost breakdown for API responses.
type LotResponse struct {
	Lot
	Costs LotCosts `json:"costs"`
}
