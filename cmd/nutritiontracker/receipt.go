package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhiatluri/NutritionTracker/internal/config"
	"github.com/abhiatluri/NutritionTracker/internal/database"
	applog "github.com/abhiatluri/NutritionTracker/internal/log"
	"github.com/abhiatluri/NutritionTracker/internal/model"
	"github.com/abhiatluri/NutritionTracker/internal/nutrition"
	"github.com/abhiatluri/NutritionTracker/internal/ocr"
	"github.com/abhiatluri/NutritionTracker/internal/receipt"
)

// NewReceiptCmd creates the receipt command.
func NewReceiptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "receipt <image>",
		Short: "Parse a receipt photo into nutrition-enriched items",
		Long: `Receipt runs OCR over a receipt photo, parses the line items, and
resolves each item's per-serving nutrition by name. Items whose
nutrition cannot be resolved are dropped from the output.

Requires the tesseract binary on PATH (or NUTRITION_TESSERACT).

Examples:
  # Print enriched items as JSON
  nutritiontracker receipt photo.jpg

  # Log the items as lunch meal entries
  nutritiontracker receipt photo.jpg --log --meal lunch`,
		Args: cobra.ExactArgs(1),
		RunE: runReceiptCmd,
	}

	cmd.Flags().Bool("log", false,
		"Log resolved items as meal entries in the local food store")
	cmd.Flags().String("meal", database.MealSnack,
		"Meal type for logged entries (breakfast|lunch|dinner|snack)")
	cmd.Flags().Int64("user", 1,
		"User ID for logged entries")
	cmd.Flags().String("entry-date", "",
		"Entry date for logged entries in YYYY-MM-DD format (default: today)")
	cmd.Flags().String("tesseract", "",
		"Path to the tesseract binary (default: PATH lookup)")

	return cmd
}

// runReceiptCmd executes the receipt command.
func runReceiptCmd(cmd *cobra.Command, args []string) error {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)
	config.LoadEnv(cfg)

	tesseract, err := cmd.Flags().GetString("tesseract")
	if err != nil {
		return err
	}
	if tesseract != "" {
		cfg.TesseractPath = tesseract
	}
	if cfg.DBDir == "" {
		cfg.DBDir = config.XDGDataDir()
	}

	logger := applog.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	ctx, cancel := signalContext(logger)
	defer cancel()

	items := runReceiptPipeline(ctx, cfg, args[0], logger)

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(items); err != nil {
		return err
	}

	logEntries, err := cmd.Flags().GetBool("log")
	if err != nil {
		return err
	}
	if !logEntries {
		return nil
	}
	return logReceiptItems(ctx, cmd, cfg, items, logger)
}

// runReceiptPipeline assembles and runs the receipt pipeline.
func runReceiptPipeline(ctx context.Context, cfg *config.Config, imagePath string, logger *slog.Logger) []model.EnrichedItem {
	backend := ocr.NewTesseractBackend(cfg.TesseractPath)
	extractor := ocr.NewTextExtractor(backend, ocr.WithLogger(logger))

	siteClient := nutrition.NewSiteClient(&http.Client{}, cfg.NutritionSearchURL,
		nutrition.WithSiteLogger(logger),
		nutrition.WithSiteUserAgent(cfg.UserAgent),
		nutrition.WithSiteTimeout(cfg.ItemTimeout),
		nutrition.WithSiteMaxBodySize(cfg.MaxBodySize),
	)
	resolver := nutrition.NewCachingResolver(siteClient, logger)

	pipeline := receipt.NewPipeline(extractor, resolver, logger)
	return pipeline.Process(ctx, imagePath)
}

// logReceiptItems records enriched items as meal entries.
func logReceiptItems(ctx context.Context, cmd *cobra.Command, cfg *config.Config, items []model.EnrichedItem, logger *slog.Logger) error {
	if len(items) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Nothing to log.")
		return nil
	}

	mealType, err := cmd.Flags().GetString("meal")
	if err != nil {
		return err
	}
	userID, err := cmd.Flags().GetInt64("user")
	if err != nil {
		return err
	}
	entryDate, err := cmd.Flags().GetString("entry-date")
	if err != nil {
		return err
	}
	if entryDate == "" {
		entryDate = time.Now().Format("2006-01-02")
	}

	store, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	logged := 0
	for _, item := range items {
		foodID, err := store.UpsertFood(ctx, item.Name, item.NutritionPerServing)
		if err != nil {
			logger.Error("failed to upsert food", "food", item.Name, "error", err)
			continue
		}
		if _, err := store.InsertMealEntry(ctx, database.MealEntry{
			UserID:           userID,
			FoodID:           foodID,
			QuantityServings: item.Quantity,
			MealType:         mealType,
			Source:           database.SourceReceipt,
			EntryDate:        entryDate,
		}); err != nil {
			return fmt.Errorf("failed to log %q: %w", item.Name, err)
		}
		logged++
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Logged %d item(s) for %s.\n", logged, entryDate)
	return nil
}
