package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/codyseavey/tcg-portfolio/internal/database"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the demo catalog, trade users and price history",
	RunE: func(cmd *cobra.Command, args []string) error {
		days, _ := cmd.Flags().GetInt("price-days")
		return seed(cmd.Context(), days)
	},
}

var ingestCmd = &cobra.Command{
	Use:   "ingest-prices",
	Short: "Write today's simulated prices for every catalog card",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		n, err := a.prices.Ingest(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Ingested %d prices\n", n)
		return nil
	},
}

var computeROICmd = &cobra.Command{
	Use:   "compute-roi",
	Short: "Recompute grading ROI signals for every catalog card",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cfg)
		if err != nil {
			return err
		}

		var bar *progressbar.ProgressBar
		result, err := a.roi.ComputeAllROI(cmd.Context(), func(done, total int) {
			if bar == nil {
				bar = progressbar.NewOptions(total,
					progressbar.OptionSetWriter(cmd.ErrOrStderr()),
					progressbar.OptionShowCount(),
					progressbar.OptionSetWidth(40),
					progressbar.OptionSetDescription("Computing ROI"),
					progressbar.OptionClearOnFinish(),
				)
			}
			_ = bar.Set(done)
		})
		if bar != nil {
			_ = bar.Finish()
		}
		if err != nil {
			return err
		}

		fmt.Printf("Processed %d cards, skipped %d without a price\n", result.Processed, result.Skipped)
		return nil
	},
}

func init() {
	seedCmd.Flags().Int("price-days", 3, "days of price history to backfill, ending today")

	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(computeROICmd)
}

func seed(ctx context.Context, days int) error {
	a, err := newApp(cfg)
	if err != nil {
		return err
	}

	result, err := database.Seed(a.sql.DB())
	if err != nil {
		return err
	}

	today := time.Now()
	for offset := days - 1; offset >= 0; offset-- {
		if _, err := a.prices.IngestOn(ctx, today.AddDate(0, 0, -offset)); err != nil {
			return fmt.Errorf("backfill prices: %w", err)
		}
	}

	batch, err := a.roi.ComputeAllROI(ctx, nil)
	if err != nil {
		return err
	}

	log.Printf("Seeded %d cards, %d users, %d trade intents; %d days of prices; ROI for %d cards",
		result.CardsInserted, result.UsersInserted, result.IntentsInserted, days, batch.Processed)
	return nil
}
