package models

import (
	"time"
)

// IntentType is the direction of a trade intent
type IntentType string

const (
	IntentLookingFor        IntentType = "looking_for"
	IntentAvailableForTrade IntentType = "available_for_trade"
)

// IsValid reports whether t is a known direction
func (t IntentType) IsValid() bool {
	return t == IntentLookingFor || t == IntentAvailableForTrade
}

// Opposite returns the direction a counterparty must hold for a match
func (t IntentType) Opposite() IntentType {
	if t == IntentLookingFor {
		return IntentAvailableForTrade
	}
	return IntentLookingFor
}

// MatchType labels a match from the holder of an intent of direction t:
// someone looking for a card is matched with people who have it, and vice versa.
func (t IntentType) MatchType() MatchType {
	if t == IntentLookingFor {
		return MatchTheyHave
	}
	return MatchTheyWant
}

type MatchType string

const (
	MatchTheyHave MatchType = "they_have"
	MatchTheyWant MatchType = "they_want"
)

// IntentStatusActive is the only status the matcher considers
const IntentStatusActive = "active"

// TradeIntent is a user's declared willingness to acquire or give up a card.
// Duplicate (user, card, direction) rows are allowed.
type TradeIntent struct {
	ID         string     `json:"id" gorm:"primaryKey"`
	UserID     string     `json:"user_id" gorm:"not null;index"`
	User       User       `json:"-" gorm:"foreignKey:UserID"`
	CardID     string     `json:"card_id" gorm:"not null;index:idx_intent_card_type"`
	Card       Card       `json:"card" gorm:"foreignKey:CardID"`
	IntentType IntentType `json:"intent_type" gorm:"not null;index:idx_intent_card_type"`
	Status     string     `json:"status" gorm:"not null;default:'active'"`
	CreatedAt  time.Time  `json:"created_at"`
}

type MatchedUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type MatchedCard struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	SetCode string `json:"set_code"`
	Rarity  Rarity `json:"rarity"`
}

// TradeMatch pairs one of the caller's intents with a counterparty's opposite intent
type TradeMatch struct {
	MyIntent    TradeIntent `json:"my_intent"`
	MatchedUser MatchedUser `json:"matched_user"`
	MatchedCard MatchedCard `json:"matched_card"`
	MatchType   MatchType   `json:"match_type"`
}

type CreateTradeIntentRequest struct {
	CardID     string     `json:"card_id" binding:"required"`
	IntentType IntentType `json:"intent_type" binding:"required"`
}
