package model

// NutritionPerServing is the canonical nutrition fact for one food name.
// All macro values are per single serving; consumers multiply by the
// quantity of servings. A value is immutable once resolved within a run.
type NutritionPerServing struct {
	// ServingSizeValue is the numeric part of the serving size (e.g., 1.0).
	ServingSizeValue float64 `json:"servingSizeValue"`

	// ServingSizeUnit is the reference unit for one serving
	// (e.g., "serving", "slice", "cup").
	ServingSizeUnit string `json:"servingSizeUnit"`

	// CaloriesPerServing is the energy per serving in kcal. Never negative.
	CaloriesPerServing float64 `json:"caloriesPerServing"`

	// ProteinG is grams of protein per serving. Never negative.
	ProteinG float64 `json:"proteinG"`

	// CarbsG is grams of carbohydrate per serving. Never negative.
	CarbsG float64 `json:"carbsG"`

	// FatG is grams of fat per serving. Never negative.
	FatG float64 `json:"fatG"`

	// Unparsed lists the nutrition labels whose value was structurally
	// missing from the source. The corresponding field holds zero, which
	// is otherwise indistinguishable from a genuine zero value. An empty
	// or nil slice means every field was read from the source.
	Unparsed []string `json:"unparsed,omitempty"`
}

// Complete reports whether every nutrition field was read from the
// source, i.e. no field was defaulted because its label was missing.
func (n NutritionPerServing) Complete() bool {
	return len(n.Unparsed) == 0
}
