package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/codyseavey/tcg-portfolio/internal/api"
	"github.com/codyseavey/tcg-portfolio/internal/database"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the background price worker",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve() error {
	a, err := newApp(cfg)
	if err != nil {
		return err
	}

	if cfg.Database.Seed {
		if _, err := database.Seed(a.sql.DB()); err != nil {
			return err
		}
	}

	// Create a cancellable context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Prices.WorkerEnabled {
		// Start price worker in background with panic recovery
		go func() {
			for {
				func() {
					defer func() {
						if r := recover(); r != nil {
							log.Printf("PANIC in price worker: %v - restarting in 30 seconds", r)
						}
					}()
					a.priceWorker.Start(ctx)
				}()

				select {
				case <-ctx.Done():
					return // Graceful shutdown
				case <-time.After(30 * time.Second):
					log.Println("Price worker restarting after panic recovery...")
				}
			}
		}()
	}

	router, err := api.SetupRouter(cfg, api.Services{
		Store:        a.store,
		Scanner:      a.scanner,
		PreGrade:     a.preGrade,
		ROI:          a.roi,
		Trades:       a.trades,
		Prices:       a.prices,
		PriceWorker:  a.priceWorker,
		Portfolio:    a.portfolio,
		ImageStorage: a.images,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Cancel the context to stop the price worker
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
	return nil
}
