package services

import (
	"context"
	"fmt"
	"log"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/codyseavey/tcg-portfolio/internal/metrics"
	"github.com/codyseavey/tcg-portfolio/internal/models"
	"github.com/codyseavey/tcg-portfolio/internal/store"
)

// DefaultPriceVariance is the ± fraction applied around each generated base price.
const DefaultPriceVariance = 0.05

type priceRange struct {
	min, max float64
}

// rarityPriceRanges bounds simulated raw prices in USD.
var rarityPriceRanges = map[models.Rarity]priceRange{
	models.RarityCommon:     {0.10, 2.00},
	models.RarityUncommon:   {0.25, 5.00},
	models.RarityRare:       {1.00, 20.00},
	models.RarityHoloRare:   {5.00, 100.00},
	models.RarityUltraRare:  {20.00, 300.00},
	models.RaritySecretRare: {50.00, 500.00},
}

// PriceRangeFor returns the simulated price bounds for a rarity. Unknown
// rarities price like commons.
func PriceRangeFor(r models.Rarity) (float64, float64) {
	pr, ok := rarityPriceRanges[models.NormalizeRarity(string(r))]
	if !ok {
		pr = rarityPriceRanges[models.RarityCommon]
	}
	return pr.min, pr.max
}

// PriceService records daily raw price snapshots and serves price history.
type PriceService struct {
	catalog  store.CatalogStore
	prices   store.PriceStore
	variance float64
	rand     func() float64
	now      func() time.Time
}

func NewPriceService(catalog store.CatalogStore, prices store.PriceStore, variance float64) *PriceService {
	return &PriceService{
		catalog:  catalog,
		prices:   prices,
		variance: variance,
		rand:     rand.Float64,
		now:      time.Now,
	}
}

// GeneratePrice draws a price for the rarity: a uniform base inside the rarity
// range, then a uniform ±variance adjustment, rounded to cents.
func (s *PriceService) GeneratePrice(r models.Rarity) float64 {
	lo, hi := PriceRangeFor(r)
	base := lo + s.rand()*(hi-lo)
	adjusted := base * (1 - s.variance + s.rand()*2*s.variance)
	return decimal.NewFromFloat(adjusted).Round(2).InexactFloat64()
}

// Ingest writes one snapshot per catalog card dated today (UTC), all in one
// transaction. It returns the number of snapshots written.
func (s *PriceService) Ingest(ctx context.Context) (int, error) {
	return s.IngestOn(ctx, s.now())
}

// IngestOn is Ingest for the UTC day containing at. Used to backfill history.
func (s *PriceService) IngestOn(ctx context.Context, at time.Time) (int, error) {
	start := time.Now()

	cards, err := s.catalog.ListCards(ctx)
	if err != nil {
		return 0, fmt.Errorf("load catalog: %w", err)
	}

	now := s.now()
	today := startOfDay(at)
	snaps := make([]models.PriceSnapshot, 0, len(cards))
	for _, card := range cards {
		snaps = append(snaps, models.PriceSnapshot{
			ID:           uuid.New().String(),
			CardID:       card.ID,
			PriceUSD:     s.GeneratePrice(card.Rarity),
			Source:       models.PriceSourceMock,
			SnapshotDate: today,
			CreatedAt:    now,
		})
	}

	if err := s.prices.InsertPrices(ctx, snaps); err != nil {
		return 0, err
	}

	metrics.PriceUpdatesTotal.Add(float64(len(snaps)))
	metrics.PriceBatchDuration.Observe(time.Since(start).Seconds())
	metrics.CardDatabaseSize.Set(float64(len(cards)))
	log.Printf("Price service: ingested %d prices for %s", len(snaps), today.Format(dateLayout))
	return len(snaps), nil
}

// LatestPrice returns the card's newest snapshot or store.ErrNotFound.
func (s *PriceService) LatestPrice(ctx context.Context, cardID string) (*models.PriceSnapshot, error) {
	return s.prices.LatestPrice(ctx, cardID)
}

// History returns the card's price points within the named range.
func (s *PriceService) History(ctx context.Context, cardID, rangeKey string) (*models.PriceChartResponse, error) {
	rangeKey = NormalizeRange(rangeKey)
	snaps, err := s.prices.PriceHistory(ctx, cardID, RangeStart(rangeKey, s.now()))
	if err != nil {
		return nil, err
	}

	points := make([]models.PricePoint, 0, len(snaps))
	for _, snap := range snaps {
		points = append(points, models.PricePoint{
			PriceUSD:     snap.PriceUSD,
			SnapshotDate: snap.SnapshotDate.Format(dateLayout),
		})
	}
	return &models.PriceChartResponse{CardID: cardID, Range: rangeKey, Prices: points}, nil
}
