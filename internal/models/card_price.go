package models

import (
	"time"
)

// PriceSourceMock marks prices produced by the simulated ingestion job
const PriceSourceMock = "mock"

// PriceSnapshot is one observed raw (ungraded) market price for a card on a given day.
// The series for a card is append-only; readers take the newest by snapshot date.
type PriceSnapshot struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	CardID       string    `json:"card_id" gorm:"not null;index:idx_price_card_date"`
	PriceUSD     float64   `json:"price_usd" gorm:"not null"`
	Source       string    `json:"source"`
	SnapshotDate time.Time `json:"snapshot_date" gorm:"not null;index:idx_price_card_date"`
	CreatedAt    time.Time `json:"created_at"`
}

// PricePoint is the chart-friendly projection of a PriceSnapshot
type PricePoint struct {
	PriceUSD     float64 `json:"price_usd"`
	SnapshotDate string  `json:"snapshot_date"`
}

// PriceChartResponse is the API response for a card's price history
type PriceChartResponse struct {
	CardID string       `json:"card_id"`
	Range  string       `json:"range"`
	Prices []PricePoint `json:"prices"`
}
