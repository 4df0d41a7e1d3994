package shopping

import "meal-planner/internal/recipe"

// FallbackCategory labels items whose recipe has no category.
const FallbackCategory = "Inne"

// CategoryRef is the category an item is filed under. ID is empty for the
// fallback category.
type CategoryRef struct {
	ID   string
	Name string
}

// ResolveCategory returns the category of a recipe, or the fallback category
// when the recipe has none.
func ResolveCategory(r recipe.Recipe) CategoryRef {
	if !r.HasCategory() {
		return CategoryRef{Name: FallbackCategory}
	}
	return CategoryRef{ID: r.Category.ID, Name: r.Category.Name}
}
