package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/codyseavey/tcg-portfolio/internal/models"
)

// PriceWorker periodically ingests prices and then refreshes ROI signals for
// the whole catalog.
type PriceWorker struct {
	prices         *PriceService
	roi            *ROIEngine
	updateInterval time.Duration

	runMu sync.Mutex // serializes runs from the ticker and the admin endpoint

	mu             sync.RWMutex
	lastUpdateTime time.Time
	lastIngested   int
	lastROI        models.ROIBatchResult
	lastError      string
	runs           int
}

type PriceStatus struct {
	LastUpdateTime time.Time             `json:"last_update_time"`
	NextUpdateTime time.Time             `json:"next_update_time"`
	Interval       string                `json:"interval"`
	LastIngested   int                   `json:"last_ingested"`
	LastROI        models.ROIBatchResult `json:"last_roi"`
	LastError      string                `json:"last_error,omitempty"`
	Runs           int                   `json:"runs"`
}

func NewPriceWorker(prices *PriceService, roi *ROIEngine, interval time.Duration) *PriceWorker {
	return &PriceWorker{
		prices:         prices,
		roi:            roi,
		updateInterval: interval,
	}
}

// Start runs once immediately and then on every tick until ctx is cancelled
func (w *PriceWorker) Start(ctx context.Context) {
	log.Printf("Price worker started: will refresh prices and ROI every %v", w.updateInterval)

	if err := w.RunOnce(ctx); err != nil {
		log.Printf("Price worker: initial run failed: %v", err)
	}

	ticker := time.NewTicker(w.updateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Price worker stopping...")
			return
		case <-ticker.C:
			if err := w.RunOnce(ctx); err != nil {
				log.Printf("Price worker: run failed: %v", err)
			}
		}
	}
}

// RunOnce ingests today's prices and recomputes ROI for every card
func (w *PriceWorker) RunOnce(ctx context.Context) error {
	w.runMu.Lock()
	defer w.runMu.Unlock()

	ingested, err := w.prices.Ingest(ctx)
	if err != nil {
		w.recordFailure(err)
		return fmt.Errorf("ingest prices: %w", err)
	}

	batch, err := w.roi.ComputeAllROI(ctx, nil)
	if err != nil {
		w.recordFailure(err)
		return fmt.Errorf("compute roi: %w", err)
	}

	w.mu.Lock()
	w.lastUpdateTime = time.Now()
	w.lastIngested = ingested
	w.lastROI = *batch
	w.lastError = ""
	w.runs++
	w.mu.Unlock()

	log.Printf("Price worker: ingested %d prices, ROI processed %d skipped %d",
		ingested, batch.Processed, batch.Skipped)
	return nil
}

func (w *PriceWorker) recordFailure(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastError = err.Error()
}

// GetStatus returns the current status
func (w *PriceWorker) GetStatus() PriceStatus {
	w.mu.RLock()
	defer w.mu.RUnlock()

	status := PriceStatus{
		LastUpdateTime: w.lastUpdateTime,
		Interval:       w.updateInterval.String(),
		LastIngested:   w.lastIngested,
		LastROI:        w.lastROI,
		LastError:      w.lastError,
		Runs:           w.runs,
	}
	if !w.lastUpdateTime.IsZero() {
		status.NextUpdateTime = w.lastUpdateTime.Add(w.updateInterval)
	}
	return status
}
