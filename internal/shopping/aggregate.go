package shopping

import (
	"slices"
	"strings"

	"meal-planner/internal/planner"
	"meal-planner/internal/recipe"
)

// Aggregate folds every ingredient of every recipe planned for the week into
// a deduplicated shopping list. Items come back in the order they were first
// created; use SortForDisplay for presentation order.
//
// Ingredients sharing a name and unit are merged. Numeric quantities are
// summed; anything else is concatenated with "; " so nothing is lost. Merging
// always re-reads the item's stored quantity string, so a line that fell back
// to concatenation stays textual even if later contributions are numeric.
//
// Meals without a recipe and meals whose recipe is missing from the catalog
// are skipped. Neither input is modified.
func Aggregate(plan planner.WeeklyPlan, catalog recipe.Catalog, newID IDGenerator) []Item {
	newID = newID.orDefault()

	var items []*Item
	byKey := make(map[string]*Item)

	for _, meal := range plan.Meals() {
		if !meal.HasRecipe() {
			continue
		}
		rec, ok := catalog.Lookup(meal.RecipeID)
		if !ok {
			continue
		}

		category := ResolveCategory(rec)
		for _, ing := range rec.Ingredients {
			key := BuildKey(ing.Name, ing.Unit)
			newValue, numeric := ParseLeadingNumber(ing.Quantity)

			existing, found := byKey[key]
			if !found {
				item := &Item{
					ID:            newID(),
					Name:          strings.TrimSpace(ing.Name),
					Unit:          strings.TrimSpace(ing.Unit),
					CategoryID:    category.ID,
					CategoryName:  category.Name,
					RecipeSources: []string{rec.Title},
				}
				if numeric {
					item.Quantity = joinQuantity(formatNumber(newValue), item.Unit)
				} else {
					item.Quantity = appendUnit(strings.TrimSpace(ing.Quantity), item.Unit)
				}
				byKey[key] = item
				items = append(items, item)
				continue
			}

			mergeQuantity(existing, ing.Quantity, newValue, numeric)
			if !slices.Contains(existing.RecipeSources, rec.Title) {
				existing.RecipeSources = append(existing.RecipeSources, rec.Title)
			}
		}
	}

	out := make([]Item, len(items))
	for i, item := range items {
		out[i] = *item
	}
	return out
}

func mergeQuantity(item *Item, quantity string, newValue float64, numeric bool) {
	existingValue, existingNumeric := ParseLeadingNumber(item.Quantity)
	if numeric && existingNumeric {
		item.Quantity = joinQuantity(formatNumber(existingValue+newValue), item.Unit)
		return
	}
	merged := item.Quantity + "; " + strings.TrimSpace(quantity)
	item.Quantity = appendUnit(merged, item.Unit)
}

// joinQuantity renders "<amount> <unit>", dropping the space for an empty unit.
func joinQuantity(amount, unit string) string {
	return strings.TrimSpace(amount + " " + unit)
}

// appendUnit adds unit to text unless it is empty or text already mentions
// it, ignoring case.
func appendUnit(text, unit string) string {
	if unit == "" || strings.Contains(strings.ToLower(text), strings.ToLower(unit)) {
		return strings.TrimSpace(text)
	}
	return joinQuantity(text, unit)
}
