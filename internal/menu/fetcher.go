package menu

import (
	"context"
	"log/slog"

	"github.com/abhiatluri/NutritionTracker/internal/model"
	"github.com/abhiatluri/NutritionTracker/internal/nutrition"
)

// API is the slice of the menu client the fetcher needs.
type API interface {
	FetchMenu(ctx context.Context, location, date string) (*Menu, error)
	ItemNutrition(ctx context.Context, itemID string) (model.NutritionPerServing, error)
}

var _ API = (*Client)(nil)

// Fetcher turns one location's raw menu into a LocationResult. Item
// nutrition comes from the item endpoint when the menu marks the item
// ready; otherwise, and when the item endpoint fails, the item is
// resolved by name. An item that cannot be resolved either way is kept
// with nil nutrition rather than dropped, so the menu listing stays
// complete.
type Fetcher struct {
	api      API
	resolver nutrition.Resolver
	logger   *slog.Logger
}

// NewFetcher creates a Fetcher. The resolver may be nil, disabling the
// by-name fallback.
func NewFetcher(api API, resolver nutrition.Resolver, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		api:      api,
		resolver: resolver,
		logger:   logger,
	}
}

// FetchLocationMenu scrapes one dining location for one date. The date
// is in MM-DD-YYYY format. A menu fetch failure yields an error-status
// result carrying the failure text; per-item nutrition failures never
// fail the location. Items appear in menu (meal, station) order.
func (f *Fetcher) FetchLocationMenu(ctx context.Context, location, date string) model.LocationResult {
	menu, err := f.api.FetchMenu(ctx, location, date)
	if err != nil {
		f.logger.Warn("menu fetch failed", "location", location, "date", date, "error", err)
		return model.NewErrorResult(location, date, err.Error())
	}

	items := make([]model.MenuItemRecord, 0, 32)
	for _, meal := range menu.Meals {
		for _, station := range meal.Stations {
			for _, item := range station.Items {
				if item.Name == "" {
					continue
				}
				items = append(items, model.MenuItemRecord{
					Name:      item.Name,
					Location:  location,
					Nutrition: f.itemNutrition(ctx, item),
				})
			}
		}
	}

	f.logger.Info("location scraped",
		"location", location,
		"date", date,
		"items", len(items),
	)
	return model.LocationResult{
		Location: location,
		Date:     date,
		Items:    items,
		Status:   model.StatusSuccess,
	}
}

// itemNutrition resolves one item's nutrition, or returns nil when
// neither the item endpoint nor the by-name fallback can.
func (f *Fetcher) itemNutrition(ctx context.Context, item Item) *model.NutritionPerServing {
	if item.NutritionReady && item.ID != "" {
		n, err := f.api.ItemNutrition(ctx, item.ID)
		if err == nil {
			return &n
		}
		f.logger.Debug("item nutrition fetch failed, falling back to name",
			"item", item.Name, "id", item.ID, "error", err)
	}

	if f.resolver == nil {
		return nil
	}
	n, err := f.resolver.Resolve(ctx, item.Name)
	if err != nil {
		f.logger.Debug("item nutrition unresolved", "item", item.Name, "error", err)
		return nil
	}
	return &n
}
