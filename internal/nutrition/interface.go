package nutrition

import (
	"context"
	"errors"

	"github.com/abhiatluri/NutritionTracker/internal/model"
)

// ErrNotFound is returned when a food name has no resolvable nutrition.
// The lookup source explicitly signals "not found" rather than zero
// nutrition, so callers never record false zero-calorie entries.
// Network failures and timeouts also resolve to ErrNotFound: the
// resolver does not retry, and whether retrying a batch item is
// worthwhile is the caller's decision.
var ErrNotFound = errors.New("nutrition not found")

// Resolver is the abstraction for food-name nutrition lookup.
// Implementations must be safe for concurrent use; the scrape
// coordinator shares one resolver across all location workers for
// cross-location deduplication.
type Resolver interface {
	// Resolve returns the nutrition per serving for the food name, or
	// an error satisfying errors.Is(err, ErrNotFound) when nutrition
	// cannot be resolved.
	Resolve(ctx context.Context, foodName string) (model.NutritionPerServing, error)
}
