package nepse

// PriceVolume is one row of the PriceVolume endpoint: the latest trading
// snapshot for a single listed security.
type PriceVolume struct {
	Symbol             string  `json:"symbol"`
	SecurityName       string  `json:"securityName"`
	LastTradedPrice    float64 `json:"lastTradedPrice"`
	PreviousClose      float64 `json:"previousClose"`
	ClosePrice         float64 `json:"closePrice"`
	PercentageChange   float64 `json:"percentageChange"`
	TotalTradeQuantity int64   `json:"totalTradeQuantity"`
}
