package model

import (
	"sort"
	"time"
)

// ScrapeTimestampLayout is the human-readable timestamp format used in
// the scrape envelope.
const ScrapeTimestampLayout = "2006-01-02 15:04:05"

// ScrapeReport is the JSON envelope for one complete scrape run.
// It is suitable for direct file persistence and carries both the
// aggregate nutrition dictionary and the per-location detail needed to
// report which sources failed and why.
type ScrapeReport struct {
	// ScrapeTimestamp is when the report was assembled.
	ScrapeTimestamp string `json:"scrapeTimestamp"`

	// TotalLocations is the number of locations attempted, including
	// failed ones.
	TotalLocations int `json:"totalLocations"`

	// TotalFoodItems is the number of food entries in the dictionary.
	TotalFoodItems int `json:"totalFoodItems"`

	// NutritionDictionary is the aggregate location -> food -> nutrition
	// mapping built from successful results only.
	NutritionDictionary NutritionDictionary `json:"nutritionDictionary"`

	// DetailedResults lists every per-location outcome, sorted by
	// location name. Workers complete in arbitrary order, so sorting
	// here gives callers a stable presentation order.
	DetailedResults []LocationResult `json:"detailedResults"`
}

// NewScrapeReport assembles the envelope from per-location results and
// the derived dictionary. Results are sorted by location name.
func NewScrapeReport(results map[string]LocationResult, dict NutritionDictionary) *ScrapeReport {
	detailed := make([]LocationResult, 0, len(results))
	for _, r := range results {
		detailed = append(detailed, r)
	}
	sort.Slice(detailed, func(i, j int) bool {
		return detailed[i].Location < detailed[j].Location
	})

	return &ScrapeReport{
		ScrapeTimestamp:     time.Now().Format(ScrapeTimestampLayout),
		TotalLocations:      len(results),
		TotalFoodItems:      dict.TotalFoods(),
		NutritionDictionary: dict,
		DetailedResults:     detailed,
	}
}

// SuccessCount returns the number of locations that scraped successfully.
func (r *ScrapeReport) SuccessCount() int {
	n := 0
	for _, lr := range r.DetailedResults {
		if lr.Status == StatusSuccess {
			n++
		}
	}
	return n
}

// ErrorCount returns the number of locations that failed.
func (r *ScrapeReport) ErrorCount() int {
	return len(r.DetailedResults) - r.SuccessCount()
}
