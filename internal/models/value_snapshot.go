package models

// PortfolioItem is one collection line valued at the latest known price
type PortfolioItem struct {
	CollectionItemID uint     `json:"collection_item_id"`
	CardID           string   `json:"card_id"`
	CardName         string   `json:"card_name"`
	Quantity         int      `json:"quantity"`
	PurchasePrice    *float64 `json:"purchase_price"`
	CurrentPrice     *float64 `json:"current_price"`
	ItemPL           float64  `json:"item_pl"`
}

// PortfolioValue totals a user's collection against purchase cost
type PortfolioValue struct {
	TotalValue        float64         `json:"total_value"`
	TotalCost         float64         `json:"total_cost"`
	ProfitLoss        float64         `json:"profit_loss"`
	ProfitLossPercent float64         `json:"profit_loss_percent"`
	Items             []PortfolioItem `json:"items"`
}

// PortfolioChartPoint is the summed collection value on one snapshot date
type PortfolioChartPoint struct {
	Date       string  `json:"date"`
	TotalValue float64 `json:"total_value"`
}

// ValueHistoryResponse is the API response for portfolio value history
type ValueHistoryResponse struct {
	Points []PortfolioChartPoint `json:"points"`
	Range  string                `json:"range"` // "d", "w", "m", "3m", "6m", "y", "all"
}
