package services

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/codyseavey/tcg-portfolio/internal/models"
	"github.com/codyseavey/tcg-portfolio/internal/store"
)

func TestPriceRangeFor(t *testing.T) {
	tests := []struct {
		rarity models.Rarity
		lo, hi float64
	}{
		{models.RarityCommon, 0.10, 2.00},
		{models.RarityUncommon, 0.25, 5.00},
		{models.RarityRare, 1.00, 20.00},
		{models.RarityHoloRare, 5.00, 100.00},
		{models.RarityUltraRare, 20.00, 300.00},
		{models.RaritySecretRare, 50.00, 500.00},
		{"Rare Holo", 5.00, 100.00},
		{"", 0.10, 2.00},
		{"promo", 0.10, 2.00},
	}

	for _, tt := range tests {
		t.Run(string(tt.rarity), func(t *testing.T) {
			lo, hi := PriceRangeFor(tt.rarity)
			if lo != tt.lo || hi != tt.hi {
				t.Errorf("range = [%v, %v], want [%v, %v]", lo, hi, tt.lo, tt.hi)
			}
		})
	}
}

func TestGeneratePrice_Bounds(t *testing.T) {
	svc := NewPriceService(store.NewMemoryStore(), store.NewMemoryStore(), DefaultPriceVariance)

	for _, r := range models.AllRarities() {
		lo, hi := PriceRangeFor(r)
		for i := 0; i < 200; i++ {
			p := svc.GeneratePrice(r)
			// variance can push a draw 5% past either edge, plus half a cent of rounding
			if p < lo*0.95-0.005 || p > hi*1.05+0.005 {
				t.Fatalf("%s price %v outside [%v, %v] ±5%%", r, p, lo, hi)
			}
			if math.Abs(p*100-math.Round(p*100)) > 1e-6 {
				t.Fatalf("price %v not rounded to cents", p)
			}
		}
	}
}

func TestGeneratePrice_Deterministic(t *testing.T) {
	svc := NewPriceService(store.NewMemoryStore(), store.NewMemoryStore(), DefaultPriceVariance)

	// base at midpoint, variance draw at midpoint: no adjustment
	svc.rand = func() float64 { return 0.5 }
	if got := svc.GeneratePrice(models.RarityRare); got != 10.5 {
		t.Errorf("midpoint rare = %v, want 10.5", got)
	}

	// base at minimum, variance draw at minimum: -5%
	svc.rand = func() float64 { return 0 }
	if got := svc.GeneratePrice(models.RarityHoloRare); got != 4.75 {
		t.Errorf("minimum holo = %v, want 4.75", got)
	}
}

func TestIngest(t *testing.T) {
	mem := store.NewMemoryStore()
	mem.AddCards(
		models.Card{ID: "c1", Rarity: models.RarityCommon},
		models.Card{ID: "c2", Rarity: models.RaritySecretRare},
	)
	svc := NewPriceService(mem, mem, DefaultPriceVariance)
	fixed := time.Date(2024, 6, 15, 17, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	n, err := svc.Ingest(context.Background())
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if n != 2 {
		t.Errorf("ingested %d, want 2", n)
	}

	prices := mem.Prices()
	if len(prices) != 2 {
		t.Fatalf("stored %d prices, want 2", len(prices))
	}
	for _, p := range prices {
		if p.Source != models.PriceSourceMock {
			t.Errorf("source = %q", p.Source)
		}
		if !p.SnapshotDate.Equal(time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("snapshot date = %v, want start of day", p.SnapshotDate)
		}
	}
}

func TestIngest_StoreError(t *testing.T) {
	mem := store.NewMemoryStore()
	mem.AddCards(models.Card{ID: "c1"})
	mem.Fail("InsertPrices", errors.New("tx aborted"))
	svc := NewPriceService(mem, mem, DefaultPriceVariance)

	if _, err := svc.Ingest(context.Background()); err == nil {
		t.Error("expected error")
	}
	if len(mem.Prices()) != 0 {
		t.Error("no prices should be stored on failure")
	}
}

func TestIngestOn_Backfill(t *testing.T) {
	mem := store.NewMemoryStore()
	mem.AddCards(models.Card{ID: "c1", Rarity: models.RarityRare})
	svc := NewPriceService(mem, mem, DefaultPriceVariance)
	now := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	for offset := 2; offset >= 0; offset-- {
		if _, err := svc.IngestOn(context.Background(), now.AddDate(0, 0, -offset)); err != nil {
			t.Fatalf("IngestOn: %v", err)
		}
	}

	prices := mem.Prices()
	if len(prices) != 3 {
		t.Fatalf("stored %d prices, want 3", len(prices))
	}
	want := time.Date(2024, 6, 13, 0, 0, 0, 0, time.UTC)
	if !prices[0].SnapshotDate.Equal(want) {
		t.Errorf("first snapshot dated %v, want %v", prices[0].SnapshotDate, want)
	}
}

func TestHistory(t *testing.T) {
	mem := store.NewMemoryStore()
	now := time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)
	day := func(offset int) time.Time {
		return time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
	}
	_ = mem.InsertPrices(context.Background(), []models.PriceSnapshot{
		{ID: "old", CardID: "c1", PriceUSD: 1, SnapshotDate: day(-400)},
		{ID: "month", CardID: "c1", PriceUSD: 2, SnapshotDate: day(-20)},
		{ID: "week", CardID: "c1", PriceUSD: 3, SnapshotDate: day(-7)},
		{ID: "today", CardID: "c1", PriceUSD: 4, SnapshotDate: day(0)},
	})
	svc := NewPriceService(mem, mem, DefaultPriceVariance)
	svc.now = func() time.Time { return now }

	tests := []struct {
		rangeKey  string
		wantRange string
		wantLen   int
	}{
		{"d", "d", 1},
		{"w", "w", 2},
		{"m", "m", 3},
		{"", "m", 3},
		{"bogus", "m", 3},
		{"y", "y", 3},
		{"all", "all", 4},
	}

	for _, tt := range tests {
		t.Run(tt.rangeKey, func(t *testing.T) {
			resp, err := svc.History(context.Background(), "c1", tt.rangeKey)
			if err != nil {
				t.Fatalf("History: %v", err)
			}
			if resp.Range != tt.wantRange {
				t.Errorf("range = %q, want %q", resp.Range, tt.wantRange)
			}
			if len(resp.Prices) != tt.wantLen {
				t.Errorf("got %d points, want %d", len(resp.Prices), tt.wantLen)
			}
		})
	}

	resp, _ := svc.History(context.Background(), "c1", "all")
	if resp.Prices[0].SnapshotDate != "2023-05-27" {
		t.Errorf("first date = %s", resp.Prices[0].SnapshotDate)
	}
}
