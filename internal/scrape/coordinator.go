package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/abhiatluri/NutritionTracker/internal/model"
)

// LocationFetcher scrapes one dining location for one date.
type LocationFetcher interface {
	FetchLocationMenu(ctx context.Context, location, date string) model.LocationResult
}

// Coordinator fans per-location fetches out over a bounded pool of
// workers and collects every result, failed locations included. A
// location failure never cancels the other workers: workers report
// failure inside the result and always return nil to the group.
type Coordinator struct {
	// fetcher performs each per-location scrape.
	fetcher LocationFetcher

	// concurrency is the maximum number of locations scraped at once.
	concurrency int

	// logger is used for run-level logging.
	logger *slog.Logger

	// results collects completed location results, keyed by location.
	// Access is synchronized via mutex.
	results map[string]model.LocationResult
	mu      sync.Mutex
}

// CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithCoordinatorLogger sets a custom logger.
func WithCoordinatorLogger(logger *slog.Logger) CoordinatorOption {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent location
// scrapes. Default is 5 if not specified.
func WithConcurrency(n int) CoordinatorOption {
	return func(c *Coordinator) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// NewCoordinator creates a Coordinator around the given fetcher.
func NewCoordinator(fetcher LocationFetcher, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		fetcher:     fetcher,
		concurrency: 5,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// ScrapeAll scrapes every location for the given MM-DD-YYYY date and
// returns one result per distinct location. Duplicate location names
// are scraped once. The map always holds an entry for every location
// passed in: fetch failures, context cancellation, and worker panics
// all land as error-status results.
func (c *Coordinator) ScrapeAll(ctx context.Context, locations []string, date string) map[string]model.LocationResult {
	distinct := dedupe(locations)

	c.logger.Info("starting scrape",
		"total_locations", len(distinct),
		"date", date,
		"concurrency", c.concurrency,
	)
	startTime := time.Now()

	c.mu.Lock()
	c.results = make(map[string]model.LocationResult, len(distinct))
	c.mu.Unlock()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for _, location := range distinct {
		location := location
		g.Go(func() error {
			c.store(c.scrapeOne(ctx, location, date))
			return nil
		})
	}
	_ = g.Wait()

	c.mu.Lock()
	results := make(map[string]model.LocationResult, len(c.results))
	for location, result := range c.results {
		results[location] = result
	}
	c.mu.Unlock()

	c.logger.Info("scrape finished",
		"duration", time.Since(startTime),
		"locations", len(results),
	)
	return results
}

// scrapeOne runs a single location fetch, converting cancellation and
// fetcher panics into error-status results.
func (c *Coordinator) scrapeOne(ctx context.Context, location, date string) (result model.LocationResult) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("scrape worker panicked", "location", location, "panic", r)
			result = model.NewErrorResult(location, date, fmt.Sprintf("panic: %v", r))
		}
	}()

	select {
	case <-ctx.Done():
		return model.NewErrorResult(location, date, ctx.Err().Error())
	default:
	}

	c.logger.Info("scraping location", "location", location, "date", date)
	return c.fetcher.FetchLocationMenu(ctx, location, date)
}

func (c *Coordinator) store(result model.LocationResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results[result.Location] = result
}

// dedupe returns the locations with duplicates removed, first
// occurrence order preserved.
func dedupe(locations []string) []string {
	seen := make(map[string]struct{}, len(locations))
	distinct := make([]string, 0, len(locations))
	for _, location := range locations {
		if _, ok := seen[location]; ok {
			continue
		}
		seen[location] = struct{}{}
		distinct = append(distinct, location)
	}
	return distinct
}

// BuildDictionary folds successful location results into a nutrition
// dictionary. Items without resolved nutrition and error-status results
// contribute nothing. Locations are folded in sorted order and items in
// menu order, so the first-wins merge is deterministic for a given
// result set.
func BuildDictionary(results map[string]model.LocationResult) model.NutritionDictionary {
	locations := make([]string, 0, len(results))
	for location := range results {
		locations = append(locations, location)
	}
	sort.Strings(locations)

	dict := make(model.NutritionDictionary, len(results))
	for _, location := range locations {
		result := results[location]
		if result.Status != model.StatusSuccess {
			continue
		}
		for _, item := range result.Items {
			if item.Nutrition == nil {
				continue
			}
			dict.Insert(result.Location, item.Name, *item.Nutrition)
		}
	}
	return dict
}
