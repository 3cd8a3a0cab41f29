package models

import "time"

// User is the minimal account record the trade matcher needs for display.
// Credentials and sessions belong to the external auth layer.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username" gorm:"not null;uniqueIndex"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
