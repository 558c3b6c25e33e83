package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Allocation is one FIFO split of a user sale action: the units taken from a
// single lot. One row per allocation is persisted for bookkeeping, but all
// monetary figures are computed on the aggregated SaleEvent, never per row.
type Allocation struct {
	ID           string          `json:"id"`
	UserID       string          `json:"-"`
	LotID        string          `json:"lotId"`
	UnitsSold    int64           `json:"unitsSold"`
	SellingPrice decimal.Decimal `json:"sellingPrice"`
	SaleDate     time.Time       `json:"saleDate"`
	SaleGroup    string          `json:"saleGroup,omitempty"`
	CreatedAt    time.Time       `json:"createdAt,omitempty"`

	// Denormalized from the referenced lot.
	Scrip           string    `json:"scrip"`
	LotPurchaseDate time.Time `json:"lotPurchaseDate"`
}

// SaleEvent is the economically singular result of one user sale action,
// regardless of how many lots it drew from. RepresentativePurchaseDate is the
// earliest purchase date among the allocated lots and drives the holding-period
// tax classification.
type SaleEvent struct {
	GroupID                    string          `json:"groupId"`
	UserID                     string          `json:"-"`
	Scrip                      string          `json:"scrip"`
	UnitsSold                  int64           `json:"unitsSold"`
	SellingPrice               decimal.Decimal `json:"sellingPrice"`
	SaleDate                   time.Time       `json:"saleDate"`
	RepresentativePurchaseDate time.Time       `json:"representativePurchaseDate"`
	Allocations                []Allocation    `json:"allocations"`
}

// SaleReport is the full economic report for one SaleEvent. Fees are levied
// exactly once on the aggregate gross; the flat DP charge never multiplies
// with the number of lots touched.
type SaleReport struct {
	Scrip             string          `json:"scrip"`
	UnitsSold         int64           `json:"unitsSold"`
	SellingPrice      decimal.Decimal `json:"sellingPrice"`
	SaleDate          time.Time       `json:"saleDate"`
	WACC              decimal.Decimal `json:"wacc"`
	GrossSale         decimal.Decimal `json:"grossSale"`
	SebonFee          decimal.Decimal `json:"sebonFee"`
	DPCharge          decimal.Decimal `json:"dpCharge"`
	BrokerRatePct     decimal.Decimal `json:"brokerRatePct"`
	BrokerCommission  decimal.Decimal `json:"brokerCommission"`
	NetSale           decimal.Decimal `json:"netSale"`
	CostBasis         decimal.Decimal `json:"costBasis"`
	ProfitBeforeTax   decimal.Decimal `json:"profitBeforeTax"`
	HoldingPeriodDays int64           `json:"holdingPeriodDays"`
	LongTerm          bool            `json:"longTerm"`
	TaxRatePct        decimal.Decimal `json:"taxRatePct"`
	Tax               decimal.Decimal `json:"tax"`
	FinalProfit       decimal.Decimal `json:"finalProfit"`
	Receivable        decimal.Decimal `json:"receivable"`
}

// SaleEventResponse pairs a sale event with its economic report.
type SaleEventResponse struct {
	SaleEvent
	Report SaleReport `json:"report"`
}
