package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/codyseavey/tcg-portfolio/internal/metrics"
	"github.com/codyseavey/tcg-portfolio/internal/models"
	"github.com/codyseavey/tcg-portfolio/internal/store"
)

// Money is carried as decimal.Decimal throughout; floats appear only at the
// model boundary.

type GradingAuthority string

const (
	AuthorityPSA GradingAuthority = "PSA"
	AuthorityBGS GradingAuthority = "BGS"
)

type GradingTier string

const (
	TierEconomy GradingTier = "economy"
	TierRegular GradingTier = "regular"
	TierExpress GradingTier = "express"
)

// GradingCosts is the per-card submission fee in USD.
var GradingCosts = map[GradingAuthority]map[GradingTier]decimal.Decimal{
	AuthorityPSA: {
		TierEconomy: decimal.NewFromInt(20),
		TierRegular: decimal.NewFromInt(50),
		TierExpress: decimal.NewFromInt(150),
	},
	AuthorityBGS: {
		TierEconomy: decimal.NewFromInt(25),
		TierRegular: decimal.NewFromInt(50),
		TierExpress: decimal.NewFromInt(150),
	},
}

// DefaultGradingCost is PSA economy.
var DefaultGradingCost = GradingCosts[AuthorityPSA][TierEconomy]

// worthGradingROI is the ROI percentage a card must exceed to be flagged.
var worthGradingROI = decimal.NewFromInt(20)

// ResolveGradingCost picks the submission fee: a positive override wins,
// otherwise the authority/tier table is consulted.
func ResolveGradingCost(authority, tier string, override float64) (decimal.Decimal, error) {
	if override > 0 {
		return decimal.NewFromFloat(override).Round(2), nil
	}
	tiers, ok := GradingCosts[GradingAuthority(strings.ToUpper(authority))]
	if !ok {
		return decimal.Zero, fmt.Errorf("unknown grading authority %q", authority)
	}
	cost, ok := tiers[GradingTier(strings.ToLower(tier))]
	if !ok {
		return decimal.Zero, fmt.Errorf("unknown grading tier %q", tier)
	}
	return cost, nil
}

type gradeOutcome struct {
	grade       int
	probability decimal.Decimal
	multMin     decimal.Decimal
	multMax     decimal.Decimal
}

// gradeDistribution is the assumed outcome of submitting a raw card.
var gradeDistribution = []gradeOutcome{
	{grade: 10, probability: decimal.RequireFromString("0.05"), multMin: decimal.NewFromInt(10), multMax: decimal.NewFromInt(20)},
	{grade: 9, probability: decimal.RequireFromString("0.25"), multMin: decimal.NewFromInt(4), multMax: decimal.NewFromInt(8)},
	{grade: 8, probability: decimal.RequireFromString("0.40"), multMin: decimal.NewFromInt(2), multMax: decimal.NewFromInt(3)},
	{grade: 7, probability: decimal.RequireFromString("0.30"), multMin: decimal.RequireFromString("1.2"), multMax: decimal.RequireFromString("1.8")},
}

var two = decimal.NewFromInt(2)

// ProbabilitySum returns the total probability mass of the grade distribution.
func ProbabilitySum() decimal.Decimal {
	sum := decimal.Zero
	for _, o := range gradeDistribution {
		sum = sum.Add(o.probability)
	}
	return sum
}

// Valuation is the decimal form of an ROI evaluation.
type Valuation struct {
	RawPrice      decimal.Decimal
	GradingCost   decimal.Decimal
	ExpectedValue decimal.Decimal
	ROI           decimal.Decimal
	Breakdown     []models.ROIBreakdown
}

func (v Valuation) WorthGrading() bool {
	return v.ROI.GreaterThan(worthGradingROI)
}

// EvaluateROI computes the probability-weighted graded value of a raw card.
// Each grade's value is rounded to cents before weighting.
func EvaluateROI(rawPrice, gradingCost decimal.Decimal) Valuation {
	ev := decimal.Zero
	breakdown := make([]models.ROIBreakdown, 0, len(gradeDistribution))

	for _, o := range gradeDistribution {
		meanMult := o.multMin.Add(o.multMax).Div(two)
		value := rawPrice.Mul(meanMult).Round(2)
		ev = ev.Add(o.probability.Mul(value))

		breakdown = append(breakdown, models.ROIBreakdown{
			Grade:          o.grade,
			Probability:    o.probability.InexactFloat64(),
			EstimatedValue: value.InexactFloat64(),
		})
	}
	ev = ev.Round(2)

	roi := decimal.Zero
	outlay := rawPrice.Add(gradingCost)
	if !outlay.IsZero() {
		roi = ev.Sub(outlay).Div(outlay).Mul(decimal.NewFromInt(100)).Round(2)
	}

	return Valuation{
		RawPrice:      rawPrice,
		GradingCost:   gradingCost,
		ExpectedValue: ev,
		ROI:           roi,
		Breakdown:     breakdown,
	}
}

// ROIEngine evaluates whether cards are worth submitting for grading and
// records each evaluation as an ROI signal.
type ROIEngine struct {
	catalog     store.CatalogStore
	prices      store.PriceStore
	signals     store.ROISignalStore
	gradingCost decimal.Decimal
}

func NewROIEngine(catalog store.CatalogStore, prices store.PriceStore, signals store.ROISignalStore, gradingCost decimal.Decimal) *ROIEngine {
	return &ROIEngine{
		catalog:     catalog,
		prices:      prices,
		signals:     signals,
		gradingCost: gradingCost,
	}
}

// GradingCost returns the fee assumed for every evaluation.
func (e *ROIEngine) GradingCost() decimal.Decimal {
	return e.gradingCost
}

// ComputeROI evaluates the card at its latest raw price and appends a signal.
// A card with no price history yields (nil, nil).
func (e *ROIEngine) ComputeROI(ctx context.Context, cardID string) (*models.ROIResult, error) {
	price, err := e.prices.LatestPrice(ctx, cardID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest price for %s: %w", cardID, err)
	}

	v := EvaluateROI(decimal.NewFromFloat(price.PriceUSD), e.gradingCost)

	signal := &models.ROISignal{
		ID:                   uuid.New().String(),
		CardID:               cardID,
		RawPrice:             v.RawPrice.InexactFloat64(),
		EstimatedGradingCost: v.GradingCost.InexactFloat64(),
		EstimatedGradedValue: v.ExpectedValue.InexactFloat64(),
		ExpectedValue:        v.ExpectedValue.InexactFloat64(),
		ROIPercentage:        v.ROI.InexactFloat64(),
		CreatedAt:            time.Now(),
	}
	if err := e.signals.AppendROISignal(ctx, signal); err != nil {
		return nil, err
	}

	return &models.ROIResult{
		CardID:        cardID,
		RawPrice:      signal.RawPrice,
		GradingCost:   signal.EstimatedGradingCost,
		ExpectedValue: signal.ExpectedValue,
		ROI:           signal.ROIPercentage,
		WorthGrading:  v.WorthGrading(),
		Breakdown:     v.Breakdown,
	}, nil
}

// ComputeAllROI evaluates every catalog card. Unpriced cards are skipped; the
// first store error stops the run. observe, if set, is called after each card.
func (e *ROIEngine) ComputeAllROI(ctx context.Context, observe func(done, total int)) (*models.ROIBatchResult, error) {
	start := time.Now()
	defer func() {
		metrics.ROIBatchDuration.Observe(time.Since(start).Seconds())
	}()

	cards, err := e.catalog.ListCards(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	result := &models.ROIBatchResult{}
	for i, card := range cards {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		roi, err := e.ComputeROI(ctx, card.ID)
		if err != nil {
			metrics.ROIComputationsTotal.WithLabelValues("error").Inc()
			return nil, err
		}
		if roi == nil {
			result.Skipped++
			metrics.ROIComputationsTotal.WithLabelValues("skipped").Inc()
		} else {
			result.Processed++
			metrics.ROIComputationsTotal.WithLabelValues("processed").Inc()
		}

		if observe != nil {
			observe(i+1, len(cards))
		}
	}

	log.Printf("ROI engine: processed %d, skipped %d in %v", result.Processed, result.Skipped, time.Since(start).Round(time.Millisecond))
	return result, nil
}

// TopROI ranks cards by their most recent ROI signal.
func (e *ROIEngine) TopROI(ctx context.Context, limit int) ([]models.ROISignalView, error) {
	return e.signals.TopROISignals(ctx, limit)
}

// CardROI returns the card's most recent signal, or (nil, nil) if it has none.
func (e *ROIEngine) CardROI(ctx context.Context, cardID string) (*models.ROISignalView, error) {
	view, err := e.signals.LatestROISignal(ctx, cardID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	return view, err
}
