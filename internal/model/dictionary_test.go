package model

import "testing"

// TestNutritionDictionaryInsert tests first-wins insertion semantics.
func TestNutritionDictionaryInsert(t *testing.T) {
	t.Parallel()

	t.Run("stores first value for a new pair", func(t *testing.T) {
		t.Parallel()

		d := make(NutritionDictionary)
		n := NutritionPerServing{CaloriesPerServing: 200, ProteinG: 30}

		if !d.Insert("Earhart", "Grilled Chicken", n) {
			t.Fatal("expected first insert to be stored")
		}

		got, ok := d.Lookup("Earhart", "Grilled Chicken")
		if !ok {
			t.Fatal("expected entry to exist after insert")
		}
		if got.CaloriesPerServing != 200 {
			t.Errorf("expected calories 200, got %v", got.CaloriesPerServing)
		}
	})

	t.Run("discards later values for the same pair", func(t *testing.T) {
		t.Parallel()

		d := make(NutritionDictionary)
		first := NutritionPerServing{CaloriesPerServing: 200}
		second := NutritionPerServing{CaloriesPerServing: 999}

		d.Insert("Earhart", "Grilled Chicken", first)
		if d.Insert("Earhart", "Grilled Chicken", second) {
			t.Error("expected duplicate insert to be discarded")
		}

		got, _ := d.Lookup("Earhart", "Grilled Chicken")
		if got.CaloriesPerServing != 200 {
			t.Errorf("expected first value to win, got calories %v", got.CaloriesPerServing)
		}
	})

	t.Run("same food at different locations is independent", func(t *testing.T) {
		t.Parallel()

		d := make(NutritionDictionary)
		d.Insert("Earhart", "Apple", NutritionPerServing{CaloriesPerServing: 80})
		d.Insert("Ford", "Apple", NutritionPerServing{CaloriesPerServing: 85})

		if d.TotalFoods() != 2 {
			t.Errorf("expected 2 entries, got %d", d.TotalFoods())
		}
	})
}

// TestNutritionDictionaryTotalFoods tests entry counting.
func TestNutritionDictionaryTotalFoods(t *testing.T) {
	t.Parallel()

	d := make(NutritionDictionary)
	if d.TotalFoods() != 0 {
		t.Errorf("expected 0 for empty dictionary, got %d", d.TotalFoods())
	}

	d.Insert("Earhart", "Apple", NutritionPerServing{})
	d.Insert("Earhart", "Orange", NutritionPerServing{})
	d.Insert("Wiley", "Pizza", NutritionPerServing{})

	if d.TotalFoods() != 3 {
		t.Errorf("expected 3 entries, got %d", d.TotalFoods())
	}
}
