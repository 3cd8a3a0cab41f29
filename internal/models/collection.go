package models

import (
	"time"
)

type Condition string

const (
	ConditionMint      Condition = "M"
	ConditionNearMint  Condition = "NM"
	ConditionExcellent Condition = "EX"
	ConditionGood      Condition = "GD"
	ConditionLightPlay Condition = "LP"
	ConditionPlayed    Condition = "PL"
	ConditionPoor      Condition = "PR"
)

// IsValid reports whether c is one of the known conditions
func (c Condition) IsValid() bool {
	switch c {
	case ConditionMint, ConditionNearMint, ConditionExcellent, ConditionGood,
		ConditionLightPlay, ConditionPlayed, ConditionPoor:
		return true
	}
	return false
}

type CollectionItem struct {
	ID               uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID           string    `json:"user_id" gorm:"not null;index"`
	CardID           string    `json:"card_id" gorm:"not null;index"`
	Card             Card      `json:"card" gorm:"foreignKey:CardID"`
	Quantity         int       `json:"quantity" gorm:"default:1"`
	Condition        Condition `json:"condition" gorm:"default:'NM'"`
	PurchasePrice    *float64  `json:"purchase_price"`
	Notes            string    `json:"notes"`
	AddedAt          time.Time `json:"added_at"`
	ScannedImagePath string    `json:"scanned_image_path" gorm:"default:null"`
}

type AddToCollectionRequest struct {
	CardID        string    `json:"card_id" binding:"required"`
	Quantity      int       `json:"quantity"`
	Condition     Condition `json:"condition"`
	PurchasePrice *float64  `json:"purchase_price"`
	Notes         string    `json:"notes"`
}

type UpdateCollectionRequest struct {
	Quantity      *int       `json:"quantity"`
	Condition     *Condition `json:"condition"`
	PurchasePrice *float64   `json:"purchase_price"`
	Notes         *string    `json:"notes"`
}
