package models

import (
	"time"
)

// ROISignal is one append-only row of ROI history for a card
type ROISignal struct {
	ID                   string    `json:"id" gorm:"primaryKey"`
	CardID               string    `json:"card_id" gorm:"not null;index:idx_roi_card_created"`
	RawPrice             float64   `json:"raw_price"`
	EstimatedGradingCost float64   `json:"estimated_grading_cost"`
	EstimatedGradedValue float64   `json:"estimated_graded_value"`
	ExpectedValue        float64   `json:"expected_value"`
	ROIPercentage        float64   `json:"roi_percentage" gorm:"column:roi_percentage;index"`
	CreatedAt            time.Time `json:"created_at" gorm:"index:idx_roi_card_created"`
}

// ROISignalView is a signal joined with the catalog fields shown next to it
type ROISignalView struct {
	ROISignal
	Name    string `json:"name"`
	SetCode string `json:"set_code"`
	Rarity  Rarity `json:"rarity"`
}

// ROIBreakdown is the contribution of one outcome grade to the expected value
type ROIBreakdown struct {
	Grade          int     `json:"grade"`
	Probability    float64 `json:"probability"`
	EstimatedValue float64 `json:"estimated_value"`
}

// ROIResult is the outcome of computing ROI for a card with a known price
type ROIResult struct {
	CardID        string         `json:"card_id"`
	RawPrice      float64        `json:"raw_price"`
	GradingCost   float64        `json:"grading_cost"`
	ExpectedValue float64        `json:"expected_value"`
	ROI           float64        `json:"roi"`
	WorthGrading  bool           `json:"worth_grading"`
	Breakdown     []ROIBreakdown `json:"breakdown"`
}

// ROIBatchResult summarizes a run over the whole catalog
type ROIBatchResult struct {
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
}
