package structs

// TickerPrice is the body of GET /api/v3/ticker/price.
type TickerPrice struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}
