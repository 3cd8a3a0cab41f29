package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/codyseavey/tcg-portfolio/internal/models"
	"github.com/codyseavey/tcg-portfolio/internal/store"
)

func newWorkerFixture() (*PriceWorker, *store.MemoryStore) {
	mem := store.NewMemoryStore()
	mem.AddCards(
		models.Card{ID: "c1", Rarity: models.RarityRare},
		models.Card{ID: "c2", Rarity: models.RarityCommon},
	)
	prices := NewPriceService(mem, mem, DefaultPriceVariance)
	roi := NewROIEngine(mem, mem, mem, DefaultGradingCost)
	return NewPriceWorker(prices, roi, time.Hour), mem
}

func TestPriceWorker_RunOnce(t *testing.T) {
	worker, mem := newWorkerFixture()

	if status := worker.GetStatus(); !status.NextUpdateTime.IsZero() || status.Runs != 0 {
		t.Errorf("fresh worker status = %+v", status)
	}

	if err := worker.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}

	status := worker.GetStatus()
	if status.LastIngested != 2 || status.LastROI.Processed != 2 || status.LastROI.Skipped != 0 {
		t.Errorf("status = %+v", status)
	}
	if status.NextUpdateTime.Sub(status.LastUpdateTime) != time.Hour {
		t.Errorf("next update should be one interval after last")
	}
	if len(mem.Signals()) != 2 {
		t.Errorf("got %d ROI signals, want 2", len(mem.Signals()))
	}
}

func TestPriceWorker_RecordsFailure(t *testing.T) {
	worker, mem := newWorkerFixture()
	mem.Fail("InsertPrices", errors.New("locked"))

	if err := worker.RunOnce(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	status := worker.GetStatus()
	if status.LastError == "" || status.Runs != 0 {
		t.Errorf("status = %+v", status)
	}
	if mem.Calls("AppendROISignal") != 0 {
		t.Error("ROI should not run when ingestion fails")
	}
}

func TestPriceWorker_StopsOnCancel(t *testing.T) {
	worker, _ := newWorkerFixture()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(done)
	}()

	deadline := time.After(5 * time.Second)
	for worker.GetStatus().Runs == 0 {
		select {
		case <-deadline:
			t.Fatal("initial run did not complete")
		case <-time.After(10 * time.Millisecond):
		}
	}
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}
