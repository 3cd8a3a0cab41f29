package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/codyseavey/tcg-portfolio/internal/metrics"
	"github.com/codyseavey/tcg-portfolio/internal/models"
	"github.com/codyseavey/tcg-portfolio/internal/store"
)

// PortfolioService values a user's collection from raw price snapshots.
type PortfolioService struct {
	collection store.CollectionStore
	prices     *PriceService
}

func NewPortfolioService(collection store.CollectionStore, prices *PriceService) *PortfolioService {
	return &PortfolioService{collection: collection, prices: prices}
}

// Value prices every collection item at its card's latest snapshot. Items
// without a price or purchase price contribute zero to the respective total.
func (s *PortfolioService) Value(ctx context.Context, userID string) (*models.PortfolioValue, error) {
	items, err := s.collection.ListItems(ctx, userID)
	if err != nil {
		return nil, err
	}

	totalValue := decimal.Zero
	totalCost := decimal.Zero
	lines := make([]models.PortfolioItem, 0, len(items))

	for _, item := range items {
		qty := decimal.NewFromInt(int64(item.Quantity))
		line := models.PortfolioItem{
			CollectionItemID: item.ID,
			CardID:           item.CardID,
			CardName:         item.Card.Name,
			Quantity:         item.Quantity,
			PurchasePrice:    item.PurchasePrice,
		}

		current := decimal.Zero
		snap, err := s.prices.LatestPrice(ctx, item.CardID)
		switch {
		case err == nil:
			price := snap.PriceUSD
			line.CurrentPrice = &price
			current = decimal.NewFromFloat(price).Mul(qty)
		case !errors.Is(err, store.ErrNotFound):
			return nil, fmt.Errorf("latest price for %s: %w", item.CardID, err)
		}

		cost := decimal.Zero
		if item.PurchasePrice != nil {
			cost = decimal.NewFromFloat(*item.PurchasePrice).Mul(qty)
		}

		line.ItemPL = current.Sub(cost).Round(2).InexactFloat64()
		totalValue = totalValue.Add(current)
		totalCost = totalCost.Add(cost)
		lines = append(lines, line)
	}

	profitLoss := totalValue.Sub(totalCost)
	percent := decimal.Zero
	if totalCost.IsPositive() {
		percent = profitLoss.Div(totalCost).Mul(decimal.NewFromInt(100))
	}

	metrics.CollectionValueUSD.Set(totalValue.InexactFloat64())

	return &models.PortfolioValue{
		TotalValue:        totalValue.Round(2).InexactFloat64(),
		TotalCost:         totalCost.Round(2).InexactFloat64(),
		ProfitLoss:        profitLoss.Round(2).InexactFloat64(),
		ProfitLossPercent: percent.Round(2).InexactFloat64(),
		Items:             lines,
	}, nil
}

// Chart sums price × quantity over the user's items for each snapshot date in
// the range, oldest first. Dates where only some cards were priced still count.
func (s *PortfolioService) Chart(ctx context.Context, userID, rangeKey string) (*models.ValueHistoryResponse, error) {
	rangeKey = NormalizeRange(rangeKey)
	since := RangeStart(rangeKey, s.prices.now())

	items, err := s.collection.ListItems(ctx, userID)
	if err != nil {
		return nil, err
	}

	history := make(map[string][]models.PriceSnapshot)
	totals := make(map[string]decimal.Decimal)

	for _, item := range items {
		snaps, ok := history[item.CardID]
		if !ok {
			snaps, err = s.prices.prices.PriceHistory(ctx, item.CardID, since)
			if err != nil {
				return nil, fmt.Errorf("price history for %s: %w", item.CardID, err)
			}
			history[item.CardID] = snaps
		}

		// last snapshot of a day wins when prices were ingested more than once
		daily := make(map[string]float64, len(snaps))
		for _, snap := range snaps {
			daily[snap.SnapshotDate.Format(dateLayout)] = snap.PriceUSD
		}

		qty := decimal.NewFromInt(int64(item.Quantity))
		for date, price := range daily {
			totals[date] = totals[date].Add(decimal.NewFromFloat(price).Mul(qty))
		}
	}

	dates := make([]string, 0, len(totals))
	for d := range totals {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	points := make([]models.PortfolioChartPoint, 0, len(dates))
	for _, d := range dates {
		points = append(points, models.PortfolioChartPoint{
			Date:       d,
			TotalValue: totals[d].Round(2).InexactFloat64(),
		})
	}
	return &models.ValueHistoryResponse{Points: points, Range: rangeKey}, nil
}
