package model

// ScrapeStatus marks a per-location scrape outcome.
type ScrapeStatus string

// Per-location scrape statuses. A location either yielded a menu
// (possibly with items that failed nutrition resolution) or failed
// entirely at the menu fetch.
const (
	StatusSuccess ScrapeStatus = "success"
	StatusError   ScrapeStatus = "error"
)

// MenuItemRecord is one listed menu item at one dining location.
// Nutrition is nil when resolution failed for the item; the listing is
// still retained because a menu entry is useful without macros, but
// nil-nutrition records never enter the aggregate nutrition dictionary.
type MenuItemRecord struct {
	// Name is the menu item name as listed by the API.
	Name string `json:"name"`

	// Location is the dining location that listed the item.
	Location string `json:"location"`

	// Nutrition holds the resolved per-serving nutrition, or nil when
	// the item could not be resolved.
	Nutrition *NutritionPerServing `json:"nutrition,omitempty"`
}

// LocationResult is the complete outcome of scraping one dining location
// for one date. Failure is represented as data: a result never carries a
// Go error across the coordinator boundary. Results are handed to the
// coordinator by value, so no locking is needed on the result itself.
type LocationResult struct {
	// Location is the dining location name.
	Location string `json:"location"`

	// Date is the menu date in MM-DD-YYYY format.
	Date string `json:"date"`

	// Items holds the menu items in menu (meal, station) order.
	// Empty when Status is StatusError.
	Items []MenuItemRecord `json:"items"`

	// Status reports whether the menu fetch succeeded.
	Status ScrapeStatus `json:"status"`

	// ErrorDetail is a human-readable failure description, set only when
	// Status is StatusError.
	ErrorDetail string `json:"errorDetail,omitempty"`
}

// NewErrorResult builds a LocationResult describing a failed scrape.
func NewErrorResult(location, date, detail string) LocationResult {
	return LocationResult{
		Location:    location,
		Date:        date,
		Items:       []MenuItemRecord{},
		Status:      StatusError,
		ErrorDetail: detail,
	}
}

// ResolvedCount returns the number of items with resolved nutrition.
func (r LocationResult) ResolvedCount() int {
	n := 0
	for _, item := range r.Items {
		if item.Nutrition != nil {
			n++
		}
	}
	return n
}
