//go:build ignore

package main

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"promo-admin/internal/model"

	"github.com/shopspring/decimal"
)

// Creates sample gift catalog files for local runs. Gift 3 appears in both
// files; the copy in gifts2.gz wins because later files override earlier ones.
//
//	GIFT_CATALOG_FILES=gifts1.gz,gifts2.gz
func main() {
	dataDir := "data/gifts"

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	expiry := model.NewDate(time.Now().Year()+1, time.December, 31)
	catalogs := map[string][]model.Gift{
		"gifts1.gz": {
			{ID: 1, Name: "Coffee mug", Remaining: 120, ExpiryDate: expiry, Value: decimal.RequireFromString("7.50")},
			{ID: 2, Name: "Tote bag", Remaining: 80, ExpiryDate: expiry, Value: decimal.RequireFromString("12.00")},
			{ID: 3, Name: "Gift card", Remaining: 10, ExpiryDate: expiry, Value: decimal.RequireFromString("20.00")},
		},
		"gifts2.gz": {
			{ID: 3, Name: "Gift card", Remaining: 25, ExpiryDate: expiry, Value: decimal.RequireFromString("25.00")},
			{ID: 4, Name: "Notebook", Remaining: 200, ExpiryDate: expiry, Value: decimal.RequireFromString("4.99")},
			{ID: 5, Name: "Umbrella", Remaining: 0, ExpiryDate: expiry, Value: decimal.RequireFromString("15.00")},
		},
	}

	for filename, gifts := range catalogs {
		filePath := filepath.Join(dataDir, filename)

		if err := createGiftFile(filePath, gifts); err != nil {
			log.Fatalf("Failed to create %s: %v", filename, err)
		}

		fmt.Printf("Created %s with %d gifts\n", filePath, len(gifts))
	}

	fmt.Println("\nSample gift files created successfully!")
	fmt.Printf("Run the server with GIFT_CATALOG_FILES=%s,%s\n",
		filepath.Join(dataDir, "gifts1.gz"), filepath.Join(dataDir, "gifts2.gz"))
}

func createGiftFile(filePath string, gifts []model.Gift) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	enc := json.NewEncoder(gzipWriter)
	for _, g := range gifts {
		if err := enc.Encode(g); err != nil {
			return fmt.Errorf("failed to write gift: %w", err)
		}
	}

	return nil
}
