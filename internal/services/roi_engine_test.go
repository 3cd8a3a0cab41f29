package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/codyseavey/tcg-portfolio/internal/models"
	"github.com/codyseavey/tcg-portfolio/internal/store"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestProbabilitySum(t *testing.T) {
	if !ProbabilitySum().Equal(decimal.NewFromInt(1)) {
		t.Errorf("probabilities sum to %s, want 1", ProbabilitySum())
	}
}

func TestEvaluateROI(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		cost      string
		wantEV    string
		wantROI   string
		wantWorth bool
	}{
		{"ten dollar card", "10", "20", "37", "23.33", true},
		{"hundred dollar card", "100", "20", "370", "208.33", true},
		{"bulk common", "0.10", "20", "0.37", "-98.16", false},
		{"exactly twenty percent is not worth it", "9.6", "20", "35.52", "20", false},
		{"bgs economy", "10", "25", "37", "5.71", false},
		{"free card, free grading", "0", "0", "0", "0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := EvaluateROI(dec(tt.raw), dec(tt.cost))
			if !v.ExpectedValue.Equal(dec(tt.wantEV)) {
				t.Errorf("EV = %s, want %s", v.ExpectedValue, tt.wantEV)
			}
			if !v.ROI.Equal(dec(tt.wantROI)) {
				t.Errorf("ROI = %s, want %s", v.ROI, tt.wantROI)
			}
			if v.WorthGrading() != tt.wantWorth {
				t.Errorf("worth = %v, want %v", v.WorthGrading(), tt.wantWorth)
			}
		})
	}
}

func TestEvaluateROI_Breakdown(t *testing.T) {
	v := EvaluateROI(dec("10"), DefaultGradingCost)
	want := []models.ROIBreakdown{
		{Grade: 10, Probability: 0.05, EstimatedValue: 150},
		{Grade: 9, Probability: 0.25, EstimatedValue: 60},
		{Grade: 8, Probability: 0.40, EstimatedValue: 25},
		{Grade: 7, Probability: 0.30, EstimatedValue: 15},
	}
	if len(v.Breakdown) != len(want) {
		t.Fatalf("got %d tiers, want %d", len(v.Breakdown), len(want))
	}
	for i := range want {
		if v.Breakdown[i] != want[i] {
			t.Errorf("tier %d = %+v, want %+v", i, v.Breakdown[i], want[i])
		}
	}
}

func TestResolveGradingCost(t *testing.T) {
	tests := []struct {
		name      string
		authority string
		tier      string
		override  float64
		want      string
		wantErr   bool
	}{
		{"default", "PSA", "economy", 0, "20", false},
		{"case insensitive", "bgs", "ECONOMY", 0, "25", false},
		{"psa express", "PSA", "express", 0, "150", false},
		{"override wins", "PSA", "economy", 35.5, "35.5", false},
		{"unknown authority", "CGC", "economy", 0, "", true},
		{"unknown tier", "PSA", "overnight", 0, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveGradingCost(tt.authority, tt.tier, tt.override)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(dec(tt.want)) {
				t.Errorf("cost = %s, want %s", got, tt.want)
			}
		})
	}
}

func newROIFixture(t *testing.T) (*ROIEngine, *store.MemoryStore) {
	t.Helper()
	mem := store.NewMemoryStore()
	mem.AddCards(
		models.Card{ID: "c1", Name: "Charizard", SetCode: "BS", Number: "4", Rarity: models.RarityHoloRare},
		models.Card{ID: "c2", Name: "Pikachu", SetCode: "BS", Number: "58", Rarity: models.RarityCommon},
		models.Card{ID: "c3", Name: "Unpriced", SetCode: "BS", Number: "99", Rarity: models.RarityRare},
	)
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	err := mem.InsertPrices(context.Background(), []models.PriceSnapshot{
		{ID: "p1", CardID: "c1", PriceUSD: 5, SnapshotDate: day},
		{ID: "p2", CardID: "c1", PriceUSD: 10, SnapshotDate: day.AddDate(0, 0, 1)},
		{ID: "p3", CardID: "c2", PriceUSD: 0.10, SnapshotDate: day},
	})
	if err != nil {
		t.Fatal(err)
	}
	return NewROIEngine(mem, mem, mem, DefaultGradingCost), mem
}

func TestComputeROI(t *testing.T) {
	engine, mem := newROIFixture(t)
	ctx := context.Background()

	result, err := engine.ComputeROI(ctx, "c1")
	if err != nil {
		t.Fatalf("ComputeROI: %v", err)
	}
	if result == nil {
		t.Fatal("expected result for priced card")
	}
	if result.RawPrice != 10 || result.GradingCost != 20 {
		t.Errorf("inputs = %v/%v, want latest price 10 and cost 20", result.RawPrice, result.GradingCost)
	}
	if result.ExpectedValue != 37 || result.ROI != 23.33 || !result.WorthGrading {
		t.Errorf("result = %+v", result)
	}

	signals := mem.Signals()
	if len(signals) != 1 {
		t.Fatalf("got %d signals, want 1", len(signals))
	}
	if signals[0].EstimatedGradedValue != 37 || signals[0].ROIPercentage != 23.33 {
		t.Errorf("signal = %+v", signals[0])
	}

	if _, err := engine.ComputeROI(ctx, "c1"); err != nil {
		t.Fatalf("second ComputeROI: %v", err)
	}
	if got := len(mem.Signals()); got != 2 {
		t.Errorf("each call appends a signal: got %d, want 2", got)
	}
}

func TestComputeROI_NoPrice(t *testing.T) {
	engine, mem := newROIFixture(t)

	result, err := engine.ComputeROI(context.Background(), "c3")
	if err != nil {
		t.Fatalf("unpriced card should not error: %v", err)
	}
	if result != nil {
		t.Errorf("expected nil result, got %+v", result)
	}
	if len(mem.Signals()) != 0 {
		t.Error("no signal should be written for an unpriced card")
	}
}

func TestComputeROI_StoreError(t *testing.T) {
	engine, mem := newROIFixture(t)
	boom := errors.New("db locked")
	mem.Fail("LatestPrice", boom)

	if _, err := engine.ComputeROI(context.Background(), "c1"); !errors.Is(err, boom) {
		t.Errorf("expected store error, got %v", err)
	}
}

func TestComputeAllROI(t *testing.T) {
	engine, mem := newROIFixture(t)

	var calls []int
	result, err := engine.ComputeAllROI(context.Background(), func(done, total int) {
		if total != 3 {
			t.Errorf("total = %d, want 3", total)
		}
		calls = append(calls, done)
	})
	if err != nil {
		t.Fatalf("ComputeAllROI: %v", err)
	}
	if result.Processed != 2 || result.Skipped != 1 {
		t.Errorf("result = %+v, want 2 processed 1 skipped", result)
	}
	if len(calls) != 3 || calls[2] != 3 {
		t.Errorf("observe calls = %v", calls)
	}
	if len(mem.Signals()) != 2 {
		t.Errorf("got %d signals, want 2", len(mem.Signals()))
	}
}

func TestComputeAllROI_HaltsOnStoreError(t *testing.T) {
	engine, mem := newROIFixture(t)
	mem.Fail("AppendROISignal", errors.New("disk full"))

	if _, err := engine.ComputeAllROI(context.Background(), nil); err == nil {
		t.Error("expected store error to halt the batch")
	}
	if got := mem.Calls("AppendROISignal"); got != 1 {
		t.Errorf("batch continued after error: %d append attempts", got)
	}
}

func TestTopROIAndCardROI(t *testing.T) {
	engine, _ := newROIFixture(t)
	ctx := context.Background()

	if _, err := engine.ComputeAllROI(ctx, nil); err != nil {
		t.Fatal(err)
	}

	top, err := engine.TopROI(ctx, 10)
	if err != nil {
		t.Fatalf("TopROI: %v", err)
	}
	if len(top) != 2 || top[0].CardID != "c1" {
		t.Fatalf("top = %+v, want c1 first", top)
	}
	if top[0].Name != "Charizard" {
		t.Errorf("card details not joined: %+v", top[0])
	}

	view, err := engine.CardROI(ctx, "c2")
	if err != nil || view == nil {
		t.Fatalf("CardROI = %v, %v", view, err)
	}
	if view.ROIPercentage != -98.16 {
		t.Errorf("roi = %v, want -98.16", view.ROIPercentage)
	}

	none, err := engine.CardROI(ctx, "c3")
	if err != nil || none != nil {
		t.Errorf("CardROI for unpriced card = %v, %v; want nil, nil", none, err)
	}
}
