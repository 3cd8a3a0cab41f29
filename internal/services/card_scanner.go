package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/codyseavey/tcg-portfolio/internal/metrics"
	"github.com/codyseavey/tcg-portfolio/internal/models"
	"github.com/codyseavey/tcg-portfolio/internal/store"
)

// Identification thresholds on the top similarity score.
const (
	MatchAmbiguousThreshold = 0.40
	MatchConfidentThreshold = 0.70
	MaxScanCandidates       = 5
)

// ScannerService identifies cards from scan hints and files confident matches
// into the caller's collection.
type ScannerService struct {
	catalog    store.CatalogStore
	collection store.CollectionStore
}

func NewScannerService(catalog store.CatalogStore, collection store.CollectionStore) *ScannerService {
	return &ScannerService{catalog: catalog, collection: collection}
}

// Identify matches hints against the full catalog. Blank hints return a
// no-match result without touching the catalog.
func (s *ScannerService) Identify(ctx context.Context, hints models.ScanHints) (*models.ScanResult, error) {
	if hintString(hints) == "" {
		metrics.ScanResultsTotal.WithLabelValues("empty").Inc()
		return noMatch(0), nil
	}

	cards, err := s.catalog.ListCards(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	result := IdentifyCard(hints, cards)
	metrics.ScanResultsTotal.WithLabelValues(scanOutcome(result)).Inc()
	metrics.ScanConfidence.Observe(result.Confidence)
	return result, nil
}

// ScanAndCollect identifies the card and, on a confident match, adds one copy
// to the user's collection.
func (s *ScannerService) ScanAndCollect(ctx context.Context, userID string, hints models.ScanHints) (*models.ScanResponse, error) {
	result, err := s.Identify(ctx, hints)
	if err != nil {
		return nil, err
	}
	return s.collect(ctx, userID, hints, result)
}

func (s *ScannerService) collect(ctx context.Context, userID string, hints models.ScanHints, result *models.ScanResult) (*models.ScanResponse, error) {
	resp := &models.ScanResponse{ScanResult: *result, Hints: hints}
	if !result.Matched {
		return resp, nil
	}

	item, err := s.addScanned(ctx, userID, *result.Card)
	if err != nil {
		return nil, err
	}
	resp.CollectionItem = item
	log.Printf("Scanner: matched %s (%s %s) at %.2f for user %s",
		result.Card.Name, result.Card.SetCode, result.Card.Number, result.Confidence, userID)
	return resp, nil
}

// ConfirmScan adds a user-selected candidate to the collection.
func (s *ScannerService) ConfirmScan(ctx context.Context, userID, cardID string) (*models.CollectionItem, error) {
	card, err := s.catalog.GetCard(ctx, cardID)
	if err != nil {
		return nil, err
	}
	return s.addScanned(ctx, userID, *card)
}

func (s *ScannerService) addScanned(ctx context.Context, userID string, card models.Card) (*models.CollectionItem, error) {
	item := &models.CollectionItem{
		UserID:    userID,
		CardID:    card.ID,
		Quantity:  1,
		Condition: models.ConditionNearMint,
		AddedAt:   time.Now(),
	}
	if err := s.collection.AddItem(ctx, item); err != nil {
		return nil, err
	}
	item.Card = card
	return item, nil
}

// IdentifyCard scores every catalog card against the hints and classifies the
// best score. Ties keep catalog order.
func IdentifyCard(hints models.ScanHints, catalog []models.Card) *models.ScanResult {
	query := hintString(hints)
	if query == "" {
		return noMatch(0)
	}

	scored := make([]models.ScanCandidate, 0, len(catalog))
	for _, card := range catalog {
		score := DiceSimilarity(query, cardString(card))
		if score > 0 {
			scored = append(scored, models.ScanCandidate{Card: card, Confidence: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Confidence > scored[j].Confidence
	})

	if len(scored) == 0 {
		return noMatch(0)
	}

	top := scored[0]
	switch {
	case top.Confidence < MatchAmbiguousThreshold:
		return noMatch(top.Confidence)
	case top.Confidence > MatchConfidentThreshold:
		card := top.Card
		return &models.ScanResult{
			Matched:    true,
			Confidence: top.Confidence,
			Card:       &card,
			Candidates: []models.ScanCandidate{},
		}
	default:
		n := min(len(scored), MaxScanCandidates)
		return &models.ScanResult{
			Matched:    false,
			Confidence: top.Confidence,
			Candidates: scored[:n:n],
		}
	}
}

func noMatch(confidence float64) *models.ScanResult {
	return &models.ScanResult{
		Confidence: confidence,
		Candidates: []models.ScanCandidate{},
	}
}

func hintString(h models.ScanHints) string {
	return joinLower(h.CardName, h.CardNumber, h.SetCode)
}

func cardString(c models.Card) string {
	return joinLower(c.Name, c.Number, c.SetCode)
}

// joinLower space-joins the non-blank trimmed parts and lowercases the result.
func joinLower(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.ToLower(strings.Join(kept, " "))
}

func scanOutcome(r *models.ScanResult) string {
	switch {
	case r.Matched:
		return "matched"
	case len(r.Candidates) > 0:
		return "ambiguous"
	default:
		return "no_match"
	}
}
