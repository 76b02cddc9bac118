//go:build ignore

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"promo-admin/internal/config"
	"promo-admin/internal/database"
	"promo-admin/internal/model"
	"promo-admin/internal/repository"
)

// Connects with the server's DB_* settings, applies the schema and inserts
// a few sample promotions.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to load configuration: %v\n", err)
		os.Exit(1)
	}
	logger := config.NewLogger(cfg.Logger, os.Stdout)

	ctx := context.Background()
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
		os.Exit(1)
	}

	repo := repository.NewPromotionRepository(pool, logger)
	year := time.Now().Year()
	samples := []model.Promotion{
		{Name: "Spring welcome", Date: model.NewDate(year, time.March, 1), SentGifts: 50, DaysToTakeGift: 7, DaysToReceiveGift: 14, Description: "New customers"},
		{Name: "Summer sale", Date: model.NewDate(year, time.June, 21), SentGifts: 200, DaysToTakeGift: 3, DaysToReceiveGift: 10},
		{Name: "Back to school", Date: model.NewDate(year, time.September, 1), SentGifts: 75, DaysToTakeGift: 5, DaysToReceiveGift: 7, CardNumbers: "4000,4001"},
		{Name: "Black Friday", Date: model.NewDate(year, time.November, 27), SentGifts: 500, DaysToTakeGift: 2, DaysToReceiveGift: 5},
		{Name: "Winter holidays", Date: model.NewDate(year, time.December, 20), SentGifts: 300, DaysToTakeGift: 10, DaysToReceiveGift: 21, Description: "Loyalty card holders"},
	}

	for _, p := range samples {
		created, err := repo.Create(ctx, p)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Insert failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("  - %d %s\n", created.ID, created.Name)
	}

	fmt.Printf("\nInserted %d promotions into %s\n", len(samples), cfg.Database.Database)
}
