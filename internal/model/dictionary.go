package model

// NutritionDictionary maps a location name to a map of food name to
// nutrition facts. Insertion is first-wins: once a (location, food) pair
// holds a value, later inserts for the same pair are discarded. A retried
// lookup can produce a worse record than the one already held, so the
// earliest successful resolution is kept.
type NutritionDictionary map[string]map[string]NutritionPerServing

// Insert records nutrition for a (location, food) pair using first-wins
// semantics. It reports whether the value was stored.
func (d NutritionDictionary) Insert(location, food string, n NutritionPerServing) bool {
	foods, ok := d[location]
	if !ok {
		foods = make(map[string]NutritionPerServing)
		d[location] = foods
	}
	if _, exists := foods[food]; exists {
		return false
	}
	foods[food] = n
	return true
}

// Lookup returns the nutrition for a (location, food) pair.
func (d NutritionDictionary) Lookup(location, food string) (NutritionPerServing, bool) {
	n, ok := d[location][food]
	return n, ok
}

// TotalFoods returns the number of food entries across all locations.
func (d NutritionDictionary) TotalFoods() int {
	total := 0
	for _, foods := range d {
		total += len(foods)
	}
	return total
}
