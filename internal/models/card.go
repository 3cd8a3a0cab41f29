package models

import (
	"strings"
	"time"
)

// Rarity is the printed rarity tier of a catalog card
type Rarity string

const (
	RarityCommon     Rarity = "common"
	RarityUncommon   Rarity = "uncommon"
	RarityRare       Rarity = "rare"
	RarityHoloRare   Rarity = "holo rare"
	RarityUltraRare  Rarity = "ultra rare"
	RaritySecretRare Rarity = "secret rare"
)

// AllRarities returns every rarity tier, lowest first
func AllRarities() []Rarity {
	return []Rarity{
		RarityCommon,
		RarityUncommon,
		RarityRare,
		RarityHoloRare,
		RarityUltraRare,
		RaritySecretRare,
	}
}

// NormalizeRarity maps loose rarity strings ("Rare Holo", "holo-rare", "SR") to a Rarity.
// Returns "" for empty or unknown values, which callers treat as "no rarity on record".
func NormalizeRarity(s string) Rarity {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("-", " ", "_", " ").Replace(key)
	switch key {
	case "common", "c":
		return RarityCommon
	case "uncommon", "u", "unc":
		return RarityUncommon
	case "rare", "r":
		return RarityRare
	case "holo rare", "rare holo", "holo":
		return RarityHoloRare
	case "ultra rare", "rare ultra", "ur":
		return RarityUltraRare
	case "secret rare", "rare secret", "sr":
		return RaritySecretRare
	default:
		return ""
	}
}

// Card is an immutable catalog entry. Number and Rarity are optional and empty when unknown.
type Card struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null;index"`
	Number    string    `json:"number"`
	SetName   string    `json:"set_name"`
	SetCode   string    `json:"set_code" gorm:"index"`
	Rarity    Rarity    `json:"rarity"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
}

// CardFilter narrows a catalog listing
type CardFilter struct {
	SetCode string
	Rarity  Rarity
	Search  string
	Page    int
	Limit   int
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

type CardSearchResult struct {
	Cards      []Card     `json:"data"`
	Pagination Pagination `json:"pagination"`
}
