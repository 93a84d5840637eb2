package menu

import (
	"context"
	"fmt"
	"testing"

	"github.com/abhiatluri/NutritionTracker/internal/model"
	"github.com/abhiatluri/NutritionTracker/internal/nutrition"
)

// fakeAPI serves canned menus and item nutrition.
type fakeAPI struct {
	menu     *Menu
	menuErr  error
	items    map[string]model.NutritionPerServing
	itemErrs map[string]error
}

func (f *fakeAPI) FetchMenu(_ context.Context, _, _ string) (*Menu, error) {
	return f.menu, f.menuErr
}

func (f *fakeAPI) ItemNutrition(_ context.Context, itemID string) (model.NutritionPerServing, error) {
	if err, ok := f.itemErrs[itemID]; ok {
		return model.NutritionPerServing{}, err
	}
	if n, ok := f.items[itemID]; ok {
		return n, nil
	}
	return model.NutritionPerServing{}, fmt.Errorf("%w: item %s: unknown", ErrFetch, itemID)
}

// nameResolver resolves by name from a fixed map.
type nameResolver struct {
	known map[string]model.NutritionPerServing
}

func (r *nameResolver) Resolve(_ context.Context, name string) (model.NutritionPerServing, error) {
	if n, ok := r.known[nutrition.NormalizeName(name)]; ok {
		return n, nil
	}
	return model.NutritionPerServing{}, nutrition.ErrNotFound
}

// TestFetchLocationMenu tests per-location scraping.
func TestFetchLocationMenu(t *testing.T) {
	t.Parallel()

	t.Run("ready items use the item endpoint, others fall back by name", func(t *testing.T) {
		t.Parallel()

		api := &fakeAPI{
			menu: &Menu{
				Location: "Wiley",
				Meals: []Meal{{
					Name: "Lunch",
					Stations: []Station{{
						Name: "Grill",
						Items: []Item{
							{Name: "Grilled Chicken", ID: "id-1", NutritionReady: true},
							{Name: "House Salad", ID: "id-2", NutritionReady: false},
							{Name: "Mystery Casserole", ID: "id-3", NutritionReady: false},
						},
					}},
				}},
			},
			items: map[string]model.NutritionPerServing{
				"id-1": {CaloriesPerServing: 220, ProteinG: 30},
			},
		}
		resolver := &nameResolver{known: map[string]model.NutritionPerServing{
			"house salad": {CaloriesPerServing: 50},
		}}

		fetcher := NewFetcher(api, resolver, nil)
		result := fetcher.FetchLocationMenu(context.Background(), "Wiley", "01-15-2026")

		if result.Status != model.StatusSuccess {
			t.Fatalf("status = %q, want success (%s)", result.Status, result.ErrorDetail)
		}
		if result.Location != "Wiley" || result.Date != "01-15-2026" {
			t.Errorf("location/date = %q/%q", result.Location, result.Date)
		}
		if len(result.Items) != 3 {
			t.Fatalf("items = %d, want 3", len(result.Items))
		}

		if result.Items[0].Name != "Grilled Chicken" || result.Items[0].Nutrition == nil ||
			result.Items[0].Nutrition.CaloriesPerServing != 220 {
			t.Errorf("ready item not resolved via endpoint: %+v", result.Items[0])
		}
		if result.Items[1].Nutrition == nil || result.Items[1].Nutrition.CaloriesPerServing != 50 {
			t.Errorf("fallback item not resolved by name: %+v", result.Items[1])
		}
		if result.Items[2].Nutrition != nil {
			t.Errorf("unresolvable item should have nil nutrition: %+v", result.Items[2])
		}
		if result.ResolvedCount() != 2 {
			t.Errorf("ResolvedCount() = %d, want 2", result.ResolvedCount())
		}
	})

	t.Run("item endpoint failure falls back to name resolution", func(t *testing.T) {
		t.Parallel()

		api := &fakeAPI{
			menu: &Menu{Meals: []Meal{{Stations: []Station{{Items: []Item{
				{Name: "Grilled Chicken", ID: "id-1", NutritionReady: true},
			}}}}}},
			itemErrs: map[string]error{"id-1": ErrFetch},
		}
		resolver := &nameResolver{known: map[string]model.NutritionPerServing{
			"grilled chicken": {CaloriesPerServing: 200},
		}}

		fetcher := NewFetcher(api, resolver, nil)
		result := fetcher.FetchLocationMenu(context.Background(), "Wiley", "01-15-2026")

		if len(result.Items) != 1 || result.Items[0].Nutrition == nil {
			t.Fatalf("expected by-name fallback to resolve, got %+v", result.Items)
		}
		if result.Items[0].Nutrition.CaloriesPerServing != 200 {
			t.Errorf("calories = %v, want 200", result.Items[0].Nutrition.CaloriesPerServing)
		}
	})

	t.Run("menu fetch failure yields error result, not a panic or error return", func(t *testing.T) {
		t.Parallel()

		api := &fakeAPI{menuErr: fmt.Errorf("%w: connection refused", ErrFetch)}
		fetcher := NewFetcher(api, nil, nil)

		result := fetcher.FetchLocationMenu(context.Background(), "Ford", "01-15-2026")

		if result.Status != model.StatusError {
			t.Fatalf("status = %q, want error", result.Status)
		}
		if result.ErrorDetail == "" {
			t.Error("expected error detail to be set")
		}
		if result.Items == nil || len(result.Items) != 0 {
			t.Errorf("error result items = %v, want empty non-nil", result.Items)
		}
	})

	t.Run("nil resolver leaves unready items unresolved", func(t *testing.T) {
		t.Parallel()

		api := &fakeAPI{
			menu: &Menu{Meals: []Meal{{Stations: []Station{{Items: []Item{
				{Name: "House Salad", NutritionReady: false},
			}}}}}},
		}
		fetcher := NewFetcher(api, nil, nil)

		result := fetcher.FetchLocationMenu(context.Background(), "Wiley", "01-15-2026")

		if result.Status != model.StatusSuccess {
			t.Fatalf("status = %q, want success", result.Status)
		}
		if len(result.Items) != 1 || result.Items[0].Nutrition != nil {
			t.Errorf("expected one unresolved item, got %+v", result.Items)
		}
	})

	t.Run("empty menu yields success with no items", func(t *testing.T) {
		t.Parallel()

		api := &fakeAPI{menu: &Menu{Location: "Windsor"}}
		fetcher := NewFetcher(api, nil, nil)

		result := fetcher.FetchLocationMenu(context.Background(), "Windsor", "01-15-2026")

		if result.Status != model.StatusSuccess {
			t.Fatalf("status = %q, want success", result.Status)
		}
		if len(result.Items) != 0 {
			t.Errorf("items = %v, want empty", result.Items)
		}
	})

	t.Run("nameless items are skipped", func(t *testing.T) {
		t.Parallel()

		api := &fakeAPI{
			menu: &Menu{Meals: []Meal{{Stations: []Station{{Items: []Item{
				{Name: "", ID: "id-9", NutritionReady: true},
				{Name: "Banana", NutritionReady: false},
			}}}}}},
		}
		fetcher := NewFetcher(api, nil, nil)

		result := fetcher.FetchLocationMenu(context.Background(), "Earhart", "01-15-2026")

		if len(result.Items) != 1 || result.Items[0].Name != "Banana" {
			t.Errorf("items = %+v, want just Banana", result.Items)
		}
	})
}
