package shopping

import (
	"fmt"
	"testing"

	"meal-planner/internal/planner"
	"meal-planner/internal/recipe"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

// sequentialIDs returns a generator yielding id-1, id-2, ...
func sequentialIDs() IDGenerator {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func meal(id, day, recipeID string) planner.PlannedMeal {
	return planner.PlannedMeal{ID: id, Day: day, Meal: planner.MealDinner, RecipeID: recipeID}
}

var (
	pancakes = recipe.Recipe{
		ID:       "r-pancakes",
		Title:    "Naleśniki",
		Category: &recipe.Category{ID: "c-breakfast", Name: "Śniadania"},
		Ingredients: []recipe.Ingredient{
			{Name: "Mąka", Quantity: "200", Unit: "g"},
			{Name: "Mleko", Quantity: "0,5", Unit: "l"},
		},
	}
	dumplings = recipe.Recipe{
		ID:    "r-dumplings",
		Title: "Pierogi",
		Ingredients: []recipe.Ingredient{
			{Name: "Mąka", Quantity: "300", Unit: "g"},
			{Name: "Sól", Quantity: "do smaku", Unit: ""},
		},
	}
)

func TestAggregate_EmptyPlan(t *testing.T) {
	for name, plan := range map[string]planner.WeeklyPlan{
		"nil":        nil,
		"empty":      {},
		"empty days": {planner.Monday: {}, planner.Friday: nil},
	} {
		t.Run(name, func(t *testing.T) {
			got := Aggregate(plan, recipe.NewCatalog([]recipe.Recipe{pancakes}), sequentialIDs())
			if got == nil || len(got) != 0 {
				t.Errorf("Expected empty non-nil list, got %#v", got)
			}
		})
	}
}

func TestAggregate_NumericMergeIsOrderIndependent(t *testing.T) {
	catalog := recipe.NewCatalog([]recipe.Recipe{pancakes, dumplings})

	t.Run("pancakes first", func(t *testing.T) {
		plan := planner.WeeklyPlan{
			planner.Monday:  {meal("m1", planner.Monday, pancakes.ID)},
			planner.Tuesday: {meal("m2", planner.Tuesday, dumplings.ID)},
		}
		got := Aggregate(plan, catalog, sequentialIDs())

		want := []Item{
			{ID: "id-1", Name: "Mąka", Quantity: "500 g", Unit: "g", CategoryID: "c-breakfast", CategoryName: "Śniadania", RecipeSources: []string{"Naleśniki", "Pierogi"}},
			{ID: "id-2", Name: "Mleko", Quantity: "0.5 l", Unit: "l", CategoryID: "c-breakfast", CategoryName: "Śniadania", RecipeSources: []string{"Naleśniki"}},
			{ID: "id-3", Name: "Sól", Quantity: "do smaku", Unit: "", CategoryName: "Inne", RecipeSources: []string{"Pierogi"}},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Aggregate() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("dumplings first", func(t *testing.T) {
		plan := planner.WeeklyPlan{
			planner.Sunday: {meal("m1", planner.Sunday, pancakes.ID)},
			planner.Monday: {meal("m2", planner.Monday, dumplings.ID)},
		}
		got := Aggregate(plan, catalog, sequentialIDs())

		flour := got[0]
		if flour.Name != "Mąka" || flour.Quantity != "500 g" {
			t.Fatalf("Expected merged flour first, got %+v", flour)
		}
		if diff := cmp.Diff([]string{"Pierogi", "Naleśniki"}, flour.RecipeSources); diff != "" {
			t.Errorf("RecipeSources should follow encounter order (-want +got):\n%s", diff)
		}
		// First writer wins the category.
		if flour.CategoryName != FallbackCategory || flour.CategoryID != "" {
			t.Errorf("Expected category of the creating recipe, got %q/%q", flour.CategoryID, flour.CategoryName)
		}
	})
}

func TestAggregate_UnitDistinguishesItems(t *testing.T) {
	bread := recipe.Recipe{ID: "r1", Title: "Chleb", Ingredients: []recipe.Ingredient{{Name: "Mąka", Quantity: "200", Unit: "g"}}}
	cake := recipe.Recipe{ID: "r2", Title: "Ciasto", Ingredients: []recipe.Ingredient{{Name: "Mąka", Quantity: "1", Unit: "kg"}}}
	plan := planner.WeeklyPlan{planner.Monday: {meal("m1", planner.Monday, "r1"), meal("m2", planner.Monday, "r2")}}

	got := Aggregate(plan, recipe.NewCatalog([]recipe.Recipe{bread, cake}), sequentialIDs())

	if len(got) != 2 {
		t.Fatalf("Expected 2 items, got %d: %+v", len(got), got)
	}
	if got[0].Quantity != "200 g" || got[1].Quantity != "1 kg" {
		t.Errorf("Unexpected quantities %q, %q", got[0].Quantity, got[1].Quantity)
	}
}

func TestAggregate_NonNumericFallback(t *testing.T) {
	tests := []struct {
		name        string
		ingredients []recipe.Ingredient
		want        []string
	}{
		{
			name: "text then number",
			ingredients: []recipe.Ingredient{
				{Name: "Sól", Quantity: "do smaku"},
				{Name: "Sól", Quantity: "1"},
			},
			want: []string{"do smaku; 1"},
		},
		{
			name: "number then text keeps the unit once",
			ingredients: []recipe.Ingredient{
				{Name: "Cukier", Quantity: "200", Unit: "g"},
				{Name: "Cukier", Quantity: "do posypania", Unit: "g"},
			},
			want: []string{"200 g; do posypania"},
		},
		{
			name: "unit appended when missing",
			ingredients: []recipe.Ingredient{
				{Name: "Pieprz", Quantity: "do smaku", Unit: "szczypta"},
				{Name: "Pieprz", Quantity: "1", Unit: "szczypta"},
			},
			want: []string{"do smaku szczypta; 1"},
		},
		{
			name: "unit already in text is not repeated",
			ingredients: []recipe.Ingredient{
				{Name: "Masło", Quantity: "pół kostki", Unit: "Kostka"},
			},
			want: []string{"pół kostki"},
		},
		{
			name: "concatenated line is never summed again",
			ingredients: []recipe.Ingredient{
				{Name: "Jajka", Quantity: "2"},
				{Name: "Jajka", Quantity: "kilka"},
				{Name: "Jajka", Quantity: "3"},
			},
			want: []string{"2; kilka; 3"},
		},
		{
			name: "different units stay apart",
			ingredients: []recipe.Ingredient{
				{Name: "Sól", Quantity: "do smaku", Unit: ""},
				{Name: "Sól", Quantity: "1", Unit: "szczypta"},
			},
			want: []string{"do smaku", "1 szczypta"},
		},
		{
			name: "numeric create keeps only the number",
			ingredients: []recipe.Ingredient{
				{Name: "Oliwa", Quantity: "2 łyżki"},
				{Name: "Oliwa", Quantity: "1"},
			},
			want: []string{"3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := recipe.Recipe{ID: "r1", Title: "Test", Ingredients: tt.ingredients}
			plan := planner.WeeklyPlan{planner.Monday: {meal("m1", planner.Monday, "r1")}}

			got := Aggregate(plan, recipe.NewCatalog([]recipe.Recipe{rec}), sequentialIDs())

			var quantities []string
			for _, it := range got {
				quantities = append(quantities, it.Quantity)
			}
			if diff := cmp.Diff(tt.want, quantities); diff != "" {
				t.Errorf("Quantities mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAggregate_SkipsMealsWithoutRecipe(t *testing.T) {
	plan := planner.WeeklyPlan{
		planner.Monday: {
			meal("m1", planner.Monday, "deleted-recipe"),
			{ID: "m2", Day: planner.Monday, Meal: planner.MealLunch, CustomName: "Pizza na mieście"},
			meal("m3", planner.Monday, pancakes.ID),
		},
	}

	got := Aggregate(plan, recipe.NewCatalog([]recipe.Recipe{pancakes}), sequentialIDs())

	want := Aggregate(planner.WeeklyPlan{planner.Monday: {meal("m3", planner.Monday, pancakes.ID)}},
		recipe.NewCatalog([]recipe.Recipe{pancakes}), sequentialIDs())
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Stale and custom meals should contribute nothing (-want +got):\n%s", diff)
	}
}

func TestAggregate_RecipeSourcesHaveNoDuplicates(t *testing.T) {
	plan := planner.WeeklyPlan{
		planner.Monday:    {meal("m1", planner.Monday, pancakes.ID)},
		planner.Wednesday: {meal("m2", planner.Wednesday, pancakes.ID), meal("m3", planner.Wednesday, pancakes.ID)},
	}

	got := Aggregate(plan, recipe.NewCatalog([]recipe.Recipe{pancakes}), sequentialIDs())

	if got[0].Quantity != "600 g" {
		t.Errorf("Expected 600 g of flour, got %q", got[0].Quantity)
	}
	for _, it := range got {
		if diff := cmp.Diff([]string{"Naleśniki"}, it.RecipeSources); diff != "" {
			t.Errorf("%s: duplicate sources (-want +got):\n%s", it.Name, diff)
		}
	}
}

func TestAggregate_FirstSpellingWins(t *testing.T) {
	a := recipe.Recipe{ID: "a", Title: "A", Ingredients: []recipe.Ingredient{{Name: " Mąka ", Quantity: "100", Unit: "G"}}}
	b := recipe.Recipe{ID: "b", Title: "B", Ingredients: []recipe.Ingredient{{Name: "mąka", Quantity: "50", Unit: "g"}}}
	plan := planner.WeeklyPlan{planner.Monday: {meal("m1", planner.Monday, "a"), meal("m2", planner.Monday, "b")}}

	got := Aggregate(plan, recipe.NewCatalog([]recipe.Recipe{a, b}), sequentialIDs())

	want := []Item{{ID: "id-1", Name: "Mąka", Quantity: "150 G", Unit: "G", CategoryName: "Inne", RecipeSources: []string{"A", "B"}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Aggregate() mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregate_EmptyRecipeContributesNothing(t *testing.T) {
	empty := recipe.Recipe{ID: "empty", Title: "Woda"}
	plan := planner.WeeklyPlan{planner.Monday: {meal("m1", planner.Monday, "empty")}}

	if got := Aggregate(plan, recipe.NewCatalog([]recipe.Recipe{empty}), nil); len(got) != 0 {
		t.Errorf("Expected no items, got %+v", got)
	}
}

func TestAggregate_DoesNotMutateInputs(t *testing.T) {
	plan := planner.WeeklyPlan{
		planner.Monday:  {meal("m1", planner.Monday, pancakes.ID)},
		planner.Tuesday: {meal("m2", planner.Tuesday, dumplings.ID)},
	}
	catalog := recipe.NewCatalog([]recipe.Recipe{pancakes, dumplings})
	planBefore := plan.Clone()
	catalogBefore := recipe.NewCatalog([]recipe.Recipe{pancakes, dumplings})

	Aggregate(plan, catalog, nil)

	if diff := cmp.Diff(planBefore, plan); diff != "" {
		t.Errorf("Plan was modified (-before +after):\n%s", diff)
	}
	if diff := cmp.Diff(catalogBefore, catalog); diff != "" {
		t.Errorf("Catalog was modified (-before +after):\n%s", diff)
	}
}

func TestAggregate_DefaultIDs(t *testing.T) {
	plan := planner.WeeklyPlan{planner.Monday: {meal("m1", planner.Monday, pancakes.ID)}}

	got := Aggregate(plan, recipe.NewCatalog([]recipe.Recipe{pancakes}), nil)

	seen := make(map[string]bool)
	for _, it := range got {
		if _, err := uuid.Parse(it.ID); err != nil {
			t.Errorf("Expected uuid id, got %q", it.ID)
		}
		if seen[it.ID] {
			t.Errorf("Duplicate id %q", it.ID)
		}
		seen[it.ID] = true
	}
}
