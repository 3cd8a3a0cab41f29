// Command tcg-portfolio runs the collection tracker API and its maintenance jobs.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/codyseavey/tcg-portfolio/internal/config"
	"github.com/codyseavey/tcg-portfolio/internal/database"
	"github.com/codyseavey/tcg-portfolio/internal/services"
	"github.com/codyseavey/tcg-portfolio/internal/store"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "tcg-portfolio",
	Short: "Trading card collection tracker",
	Long: `tcg-portfolio serves the collection tracker API: card identification,
visual pre-grading, grading ROI signals, portfolio value and trade matching.

Maintenance jobs (seeding, price ingestion, ROI recomputation) are available
as subcommands and share the same configuration.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if err := loaded.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		cfg = loaded
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML); TCG_* environment variables override it")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app holds the wired services shared by every subcommand.
type app struct {
	store       store.Store
	sql         *store.SQLStore
	images      *services.ImageStorageService
	scanner     *services.ScannerService
	preGrade    *services.PreGradeService
	roi         *services.ROIEngine
	trades      *services.TradeService
	prices      *services.PriceService
	priceWorker *services.PriceWorker
	portfolio   *services.PortfolioService
}

func newApp(cfg *config.Config) (*app, error) {
	if err := database.Initialize(cfg.Database); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gradingCost, err := services.ResolveGradingCost(cfg.ROI.GradingAuthority, cfg.ROI.GradingTier, cfg.ROI.CostOverride)
	if err != nil {
		return nil, err
	}

	sqlStore := store.NewSQLStore(database.GetDB())
	st := store.WithCatalogCache(sqlStore, cfg.Catalog.CacheSize)

	images := services.NewImageStorageService(cfg.Storage.ImageDir)
	prices := services.NewPriceService(st, st, cfg.Prices.Variance)
	roi := services.NewROIEngine(st, st, st, gradingCost)
	log.Printf("ROI engine: grading cost $%s (%s %s)", gradingCost.StringFixed(2), cfg.ROI.GradingAuthority, cfg.ROI.GradingTier)

	return &app{
		store:       st,
		sql:         sqlStore,
		images:      images,
		scanner:     services.NewScannerService(st, st),
		preGrade:    services.NewPreGradeService(st, services.NewSimulatedMeasurementSource(), images),
		roi:         roi,
		trades:      services.NewTradeService(st, st),
		prices:      prices,
		priceWorker: services.NewPriceWorker(prices, roi, cfg.Prices.Interval),
		portfolio:   services.NewPortfolioService(st, prices),
	}, nil
}
