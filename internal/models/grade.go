package models

import (
	"time"
)

// PreGradeDisclaimer accompanies every pre-grade estimate
const PreGradeDisclaimer = "Visual pre-grade estimate only"

// ConditionMeasurements are the physical-condition readings a pre-grade is derived from.
// Centering values are the larger-side percentage of a border split (50 = perfect 50/50);
// the three quality scores are normalized to [0,1].
type ConditionMeasurements struct {
	CenteringLR    float64 `json:"centering_lr"`
	CenteringTB    float64 `json:"centering_tb"`
	EdgeScore      float64 `json:"edge_score"`
	CornerScore    float64 `json:"corner_score"`
	WhiteningScore float64 `json:"whitening_score"`
}

// IntRange brackets an integer-scale grade
type IntRange struct {
	Low  int `json:"low"`
	High int `json:"high"`
}

// DecimalRange brackets a decimal-scale grade
type DecimalRange struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// GradeResult is the persisted outcome of one pre-grade run
type GradeResult struct {
	ID                string            `json:"id" gorm:"primaryKey"`
	CollectionItemID  uint              `json:"collection_item_id" gorm:"not null;index"`
	EstimatedPSAGrade int               `json:"estimated_psa_grade"`
	PSARangeLow       int               `json:"estimated_psa_range_low"`
	PSARangeHigh      int               `json:"estimated_psa_range_high"`
	EstimatedBGSGrade float64           `json:"estimated_bgs_grade"`
	BGSRangeLow       float64           `json:"estimated_bgs_range_low"`
	BGSRangeHigh      float64           `json:"estimated_bgs_range_high"`
	ConfidenceScore   float64           `json:"confidence_score"`
	ImagePath         string            `json:"image_path"`
	CreatedAt         time.Time         `json:"created_at" gorm:"index"`
	Measurement       *GradeMeasurement `json:"measurement,omitempty" gorm:"foreignKey:GradeResultID"`
}

// GradeMeasurement holds the readings a GradeResult was computed from
type GradeMeasurement struct {
	ID            string `json:"id" gorm:"primaryKey"`
	GradeResultID string `json:"grade_result_id" gorm:"not null;uniqueIndex"`
	ConditionMeasurements
	CreatedAt time.Time `json:"created_at"`
}

// GradeReport is returned to the caller of a pre-grade
type GradeReport struct {
	GradeResultID string                `json:"grade_result_id"`
	EstimatedPSA  int                   `json:"estimated_psa"`
	PSARange      IntRange              `json:"psa_range"`
	EstimatedBGS  float64               `json:"estimated_bgs"`
	BGSRange      DecimalRange          `json:"bgs_range"`
	Confidence    float64               `json:"confidence"`
	Measurements  ConditionMeasurements `json:"measurements"`
	Disclaimer    string                `json:"disclaimer"`
}
