package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/codyseavey/tcg-portfolio/internal/metrics"
	"github.com/codyseavey/tcg-portfolio/internal/models"
	"github.com/codyseavey/tcg-portfolio/internal/store"
)

// ErrInvalidIntentType is returned for intent types other than
// looking_for and available_for_trade.
var ErrInvalidIntentType = errors.New("intent_type must be looking_for or available_for_trade")

// TradeService manages trade intents and pairs users with complementary ones.
type TradeService struct {
	intents store.TradeIntentStore
	catalog store.CatalogStore
}

func NewTradeService(intents store.TradeIntentStore, catalog store.CatalogStore) *TradeService {
	return &TradeService{intents: intents, catalog: catalog}
}

// CreateIntent records an active intent. Duplicates are allowed.
func (s *TradeService) CreateIntent(ctx context.Context, userID, cardID string, intentType models.IntentType) (*models.TradeIntent, error) {
	if !intentType.IsValid() {
		return nil, ErrInvalidIntentType
	}
	card, err := s.catalog.GetCard(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if err := s.intents.EnsureUser(ctx, userID); err != nil {
		return nil, err
	}

	intent := &models.TradeIntent{
		ID:         uuid.New().String(),
		UserID:     userID,
		CardID:     cardID,
		IntentType: intentType,
		Status:     models.IntentStatusActive,
		CreatedAt:  time.Now(),
	}
	if err := s.intents.CreateIntent(ctx, intent); err != nil {
		return nil, err
	}
	intent.Card = *card
	return intent, nil
}

// ListIntents returns the user's active intents, newest first.
func (s *TradeService) ListIntents(ctx context.Context, userID string) ([]models.TradeIntent, error) {
	return s.intents.ActiveIntentsByUser(ctx, userID)
}

// DeleteIntent removes an intent owned by userID. It reports false when no
// such intent exists for that user.
func (s *TradeService) DeleteIntent(ctx context.Context, intentID, userID string) (bool, error) {
	return s.intents.DeleteIntent(ctx, intentID, userID)
}

// FindMatches pairs each of the user's active intents with every other user's
// active intent on the same card in the opposite direction. Results follow the
// user's intent order, then the counterpart order.
func (s *TradeService) FindMatches(ctx context.Context, userID string) ([]models.TradeMatch, error) {
	mine, err := s.intents.ActiveIntentsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load intents: %w", err)
	}

	matches := []models.TradeMatch{}
	for _, intent := range mine {
		others, err := s.intents.OppositeIntents(ctx, intent.CardID, intent.IntentType.Opposite(), userID)
		if err != nil {
			return nil, fmt.Errorf("find counterparts for %s: %w", intent.ID, err)
		}

		matchType := intent.IntentType.MatchType()
		for _, other := range others {
			matches = append(matches, models.TradeMatch{
				MyIntent: intent,
				MatchedUser: models.MatchedUser{
					ID:       other.User.ID,
					Username: other.User.Username,
				},
				MatchedCard: models.MatchedCard{
					ID:      other.Card.ID,
					Name:    other.Card.Name,
					SetCode: other.Card.SetCode,
					Rarity:  other.Card.Rarity,
				},
				MatchType: matchType,
			})
			metrics.TradeMatchesTotal.WithLabelValues(string(matchType)).Inc()
		}
	}
	return matches, nil
}
