package services

import (
	"context"
	"errors"
	"testing"

	"github.com/codyseavey/tcg-portfolio/internal/models"
	"github.com/codyseavey/tcg-portfolio/internal/store"
)

func newTradeFixture(t *testing.T) (*TradeService, *store.MemoryStore) {
	t.Helper()
	mem := store.NewMemoryStore()
	mem.AddCards(
		models.Card{ID: "c1", Name: "Charizard", SetCode: "BS", Rarity: models.RarityHoloRare},
		models.Card{ID: "c2", Name: "Blastoise", SetCode: "BS", Rarity: models.RarityHoloRare},
	)
	for _, u := range []models.User{
		{ID: "u1", Username: "ash"},
		{ID: "u2", Username: "misty"},
		{ID: "u3", Username: "brock"},
	} {
		mem.AddUser(u)
	}
	return NewTradeService(mem, mem), mem
}

func mustIntent(t *testing.T, svc *TradeService, user, card string, typ models.IntentType) *models.TradeIntent {
	t.Helper()
	in, err := svc.CreateIntent(context.Background(), user, card, typ)
	if err != nil {
		t.Fatalf("CreateIntent(%s, %s, %s): %v", user, card, typ, err)
	}
	return in
}

func TestFindMatches_Symmetric(t *testing.T) {
	svc, _ := newTradeFixture(t)
	ctx := context.Background()

	mustIntent(t, svc, "u1", "c1", models.IntentLookingFor)
	mustIntent(t, svc, "u2", "c1", models.IntentAvailableForTrade)

	u1, err := svc.FindMatches(ctx, "u1")
	if err != nil {
		t.Fatalf("FindMatches u1: %v", err)
	}
	if len(u1) != 1 {
		t.Fatalf("u1 got %d matches, want 1", len(u1))
	}
	if u1[0].MatchType != models.MatchTheyHave || u1[0].MatchedUser.Username != "misty" {
		t.Errorf("u1 match = %+v", u1[0])
	}
	if u1[0].MatchedCard.Name != "Charizard" {
		t.Errorf("matched card = %+v", u1[0].MatchedCard)
	}

	u2, err := svc.FindMatches(ctx, "u2")
	if err != nil {
		t.Fatalf("FindMatches u2: %v", err)
	}
	if len(u2) != 1 {
		t.Fatalf("u2 got %d matches, want 1", len(u2))
	}
	if u2[0].MatchType != models.MatchTheyWant || u2[0].MatchedUser.ID != "u1" {
		t.Errorf("u2 match = %+v", u2[0])
	}
}

func TestFindMatches_Filters(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, svc *TradeService)
	}{
		{"same direction", func(t *testing.T, svc *TradeService) {
			mustIntent(t, svc, "u1", "c1", models.IntentLookingFor)
			mustIntent(t, svc, "u2", "c1", models.IntentLookingFor)
		}},
		{"different card", func(t *testing.T, svc *TradeService) {
			mustIntent(t, svc, "u1", "c1", models.IntentLookingFor)
			mustIntent(t, svc, "u2", "c2", models.IntentAvailableForTrade)
		}},
		{"own opposite intent", func(t *testing.T, svc *TradeService) {
			mustIntent(t, svc, "u1", "c1", models.IntentLookingFor)
			mustIntent(t, svc, "u1", "c1", models.IntentAvailableForTrade)
		}},
		{"counterpart deleted", func(t *testing.T, svc *TradeService) {
			mustIntent(t, svc, "u1", "c1", models.IntentLookingFor)
			other := mustIntent(t, svc, "u2", "c1", models.IntentAvailableForTrade)
			if ok, err := svc.DeleteIntent(context.Background(), other.ID, "u2"); err != nil || !ok {
				t.Fatalf("DeleteIntent = %v, %v", ok, err)
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTradeFixture(t)
			tt.setup(t, svc)
			matches, err := svc.FindMatches(context.Background(), "u1")
			if err != nil {
				t.Fatalf("FindMatches: %v", err)
			}
			if len(matches) != 0 {
				t.Errorf("expected no matches, got %+v", matches)
			}
		})
	}
}

func TestFindMatches_OnePerPair(t *testing.T) {
	svc, _ := newTradeFixture(t)

	mustIntent(t, svc, "u1", "c1", models.IntentLookingFor)
	mustIntent(t, svc, "u1", "c2", models.IntentAvailableForTrade)
	mustIntent(t, svc, "u2", "c1", models.IntentAvailableForTrade)
	mustIntent(t, svc, "u3", "c1", models.IntentAvailableForTrade)
	mustIntent(t, svc, "u3", "c2", models.IntentLookingFor)
	// duplicates are not collapsed
	mustIntent(t, svc, "u3", "c2", models.IntentLookingFor)

	matches, err := svc.FindMatches(context.Background(), "u1")
	if err != nil {
		t.Fatalf("FindMatches: %v", err)
	}
	if len(matches) != 4 {
		t.Fatalf("got %d matches, want 4", len(matches))
	}

	counts := map[models.MatchType]int{}
	for _, m := range matches {
		counts[m.MatchType]++
		if m.MatchedUser.ID == "u1" {
			t.Errorf("user matched with self: %+v", m)
		}
	}
	if counts[models.MatchTheyHave] != 2 || counts[models.MatchTheyWant] != 2 {
		t.Errorf("match types = %v", counts)
	}
}

func TestFindMatches_NoIntents(t *testing.T) {
	svc, _ := newTradeFixture(t)
	matches, err := svc.FindMatches(context.Background(), "u1")
	if err != nil {
		t.Fatalf("FindMatches: %v", err)
	}
	if matches == nil || len(matches) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", matches)
	}
}

func TestCreateIntent_Validation(t *testing.T) {
	svc, _ := newTradeFixture(t)
	ctx := context.Background()

	if _, err := svc.CreateIntent(ctx, "u1", "c1", "wishlist"); !errors.Is(err, ErrInvalidIntentType) {
		t.Errorf("expected ErrInvalidIntentType, got %v", err)
	}
	if _, err := svc.CreateIntent(ctx, "u1", "missing", models.IntentLookingFor); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown card, got %v", err)
	}
}

func TestListAndDeleteIntents(t *testing.T) {
	svc, _ := newTradeFixture(t)
	ctx := context.Background()

	first := mustIntent(t, svc, "u1", "c1", models.IntentLookingFor)
	second := mustIntent(t, svc, "u1", "c2", models.IntentAvailableForTrade)

	list, err := svc.ListIntents(ctx, "u1")
	if err != nil {
		t.Fatalf("ListIntents: %v", err)
	}
	if len(list) != 2 || list[0].ID != second.ID {
		t.Fatalf("list = %+v, want newest first", list)
	}
	if list[0].Card.Name != "Blastoise" {
		t.Errorf("card not attached: %+v", list[0].Card)
	}

	if ok, _ := svc.DeleteIntent(ctx, first.ID, "u2"); ok {
		t.Error("another user must not delete the intent")
	}
	if ok, err := svc.DeleteIntent(ctx, first.ID, "u1"); err != nil || !ok {
		t.Errorf("DeleteIntent = %v, %v", ok, err)
	}
	list, _ = svc.ListIntents(ctx, "u1")
	if len(list) != 1 {
		t.Errorf("got %d intents after delete, want 1", len(list))
	}
}
