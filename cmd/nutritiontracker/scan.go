package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhiatluri/NutritionTracker/internal/config"
	"github.com/abhiatluri/NutritionTracker/internal/database"
	applog "github.com/abhiatluri/NutritionTracker/internal/log"
	"github.com/abhiatluri/NutritionTracker/internal/menu"
	"github.com/abhiatluri/NutritionTracker/internal/model"
	"github.com/abhiatluri/NutritionTracker/internal/nutrition"
	"github.com/abhiatluri/NutritionTracker/internal/report"
	"github.com/abhiatluri/NutritionTracker/internal/scrape"
)

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scrape dining menus and build the nutrition dictionary",
		Long: `Scan fetches every configured dining location's menu for a date,
resolves per-serving nutrition for each listed item, and reports the
aggregate nutrition dictionary together with per-location outcomes.

Locations are scraped concurrently; a location that fails to fetch is
reported with an error status and never disturbs the others.

Examples:
  # Scrape today's menus for the default locations
  nutritiontracker scan

  # Scrape a specific date and subset of locations
  nutritiontracker scan --date 01-15-2026 --locations Wiley,Earhart

  # Write a pretty-printed JSON envelope to a file
  nutritiontracker scan --json -o nutrition.json

  # Human-readable Markdown summary
  nutritiontracker scan --markdown

Configuration file (.nutritiontracker) example:
  locations:
    - Wiley
    - Earhart
  concurrency: 3`,
		Args: cobra.NoArgs,
		RunE: runScanCmd,
	}

	cmd.Flags().StringP("date", "d", "",
		"Menu date in MM-DD-YYYY format (default: today)")
	cmd.Flags().StringSliceP("locations", "l", nil,
		"Dining locations to scrape (default: all dining courts)")
	cmd.Flags().IntP("concurrency", "b", config.DefaultConcurrency,
		"Number of locations scraped concurrently")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each menu fetch")
	cmd.Flags().Duration("item-timeout", config.DefaultItemTimeout,
		"Timeout for each per-item nutrition fetch")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .nutritiontracker in current or home directory)")

	cmd.Flags().BoolP("json", "j", false,
		"Output JSON envelope (default; mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown summary (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().Bool("no-db", false,
		"Skip saving results to the local food store")

	return cmd
}

// runScanCmd executes the scan command.
func runScanCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildScanConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := applog.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	ctx, cancel := signalContext(logger)
	defer cancel()

	return runScrape(ctx, cfg, logger)
}

// signalContext returns a context cancelled by SIGINT or SIGTERM.
func signalContext(logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return ctx, cancel
}

// buildScanConfig creates a Config from scan command flags, the
// optional config file, and environment overrides.
func buildScanConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// File values apply first so explicit flags can override them.
	if err := applyConfigFile(cfg); err != nil {
		return nil, err
	}
	config.LoadEnv(cfg)

	if cmd.Flags().Changed("date") {
		if cfg.Date, err = cmd.Flags().GetString("date"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("locations") {
		if cfg.Locations, err = cmd.Flags().GetStringSlice("locations"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("concurrency") {
		if cfg.Concurrency, err = cmd.Flags().GetInt("concurrency"); err != nil {
			return nil, err
		}
	}
	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}
	cfg.ItemTimeout, err = cmd.Flags().GetDuration("item-timeout")
	if err != nil {
		return nil, err
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}
	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}
	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	noDB, err := cmd.Flags().GetBool("no-db")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noDB
	if cfg.DBDir == "" {
		cfg.DBDir = config.XDGDataDir()
	}

	return cfg, nil
}

// applyConfigFile overlays the config file onto cfg. An explicitly
// specified file must exist; the default file is optional.
func applyConfigFile(cfg *config.Config) error {
	explicit := cfg.ConfigFilePath != ""
	path := config.FindConfigFile(cfg.ConfigFilePath)

	if path == "" {
		if explicit {
			return fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
		}
		return nil
	}

	cf, err := config.LoadConfigFile(path)
	if err != nil {
		return fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	cf.Apply(cfg)
	return nil
}

// runScrape executes the scrape and writes the report.
func runScrape(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	httpClient := &http.Client{}

	menuClient := menu.NewClient(httpClient, cfg.MenuAPIBaseURL,
		menu.WithLogger(logger),
		menu.WithUserAgent(cfg.UserAgent),
		menu.WithMenuTimeout(cfg.Timeout),
		menu.WithItemTimeout(cfg.ItemTimeout),
		menu.WithMaxBodySize(cfg.MaxBodySize),
	)
	siteClient := nutrition.NewSiteClient(httpClient, cfg.NutritionSearchURL,
		nutrition.WithSiteLogger(logger),
		nutrition.WithSiteUserAgent(cfg.UserAgent),
		nutrition.WithSiteTimeout(cfg.ItemTimeout),
		nutrition.WithSiteMaxBodySize(cfg.MaxBodySize),
	)
	resolver := nutrition.NewCachingResolver(siteClient, logger)
	fetcher := menu.NewFetcher(menuClient, resolver, logger)
	coordinator := scrape.NewCoordinator(fetcher,
		scrape.WithConcurrency(cfg.Concurrency),
		scrape.WithCoordinatorLogger(logger),
	)

	fmt.Printf("Scraping %d locations for %s...\n", len(cfg.Locations), cfg.Date)
	startTime := time.Now()

	results := coordinator.ScrapeAll(ctx, cfg.Locations, cfg.Date)
	dict := scrape.BuildDictionary(results)
	envelope := model.NewScrapeReport(results, dict)

	fmt.Printf("Scrape completed in %s: %d food items, %d/%d locations succeeded\n\n",
		time.Since(startTime).Round(time.Millisecond),
		envelope.TotalFoodItems,
		envelope.SuccessCount(),
		envelope.TotalLocations,
	)

	if err := writeScrapeReport(cfg, envelope); err != nil {
		return err
	}

	if cfg.SaveToDB {
		if err := persistScrape(ctx, cfg, envelope, dict, logger); err != nil {
			logger.Error("failed to persist scrape", "error", err)
		}
	}
	return nil
}

// writeScrapeReport outputs the envelope in the requested format.
func writeScrapeReport(cfg *config.Config, envelope *model.ScrapeReport) error {
	var output *os.File
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	var writer report.Writer
	if cfg.MarkdownReport {
		writer = report.NewMarkdownWriter(output)
	} else {
		writer = report.NewJSONWriter(output, report.WithPrettyPrint())
	}
	_, err := writer.Write(envelope)
	return err
}

// persistScrape archives the envelope and upserts every resolved food
// into the local catalog.
func persistScrape(ctx context.Context, cfg *config.Config, envelope *model.ScrapeReport, dict model.NutritionDictionary, logger *slog.Logger) error {
	store, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	if err := store.SaveScrapeReport(ctx, cfg.Date, envelope); err != nil {
		return err
	}

	for _, foods := range dict {
		for name, n := range foods {
			if _, err := store.UpsertFood(ctx, name, n); err != nil {
				logger.Warn("failed to upsert food", "food", name, "error", err)
			}
		}
	}

	logger.Info("scrape persisted", "db", store.Path(), "foods", dict.TotalFoods())
	return nil
}
