package models

import (
	"time"
)

// Favorite marks a card a user is watching. A user favorites a card at most once.
type Favorite struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"not null;uniqueIndex:idx_favorite_user_card"`
	CardID    string    `json:"card_id" gorm:"not null;uniqueIndex:idx_favorite_user_card"`
	Card      Card      `json:"card" gorm:"foreignKey:CardID"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

// FavoriteView is a favorite with the card's latest observed price, nil when unpriced
type FavoriteView struct {
	Favorite
	CurrentPrice *float64 `json:"current_price"`
}
