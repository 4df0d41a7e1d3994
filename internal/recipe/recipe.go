package recipe

import (
	"fmt"
	"strings"
)

// Category groups recipes on the shopping list ("Obiady", "Desery", ...).
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Ingredient is a single line of a recipe. Quantity and Unit are free text:
// "200" + "g", "1,5" + "kg", "do smaku" + "".
type Ingredient struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Unit     string `json:"unit"`
}

// Recipe represents a recipe in the household catalog.
type Recipe struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Category     *Category    `json:"category,omitempty"`
	Ingredients  []Ingredient `json:"ingredients"`
	Instructions string       `json:"instructions,omitempty"`
	PrepTime     string       `json:"prep_time,omitempty"`
	Servings     string       `json:"servings,omitempty"`
	Calories     int          `json:"calories,omitempty"`
	SourceURL    string       `json:"source_url,omitempty"`
	UpdatedAt    string       `json:"updated_at,omitempty"`
}

// HasCategory reports whether the recipe is associated with a category.
func (r Recipe) HasCategory() bool {
	return r.Category != nil && (r.Category.ID != "" || r.Category.Name != "")
}

// String formats the ingredient the way it is read aloud: "200 g Mąka".
func (i Ingredient) String() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{i.Quantity, i.Unit, i.Name} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// Validate checks the fields required to store a recipe.
func (r Recipe) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("recipe id is required")
	}
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("recipe %s: title is required", r.ID)
	}
	for i, ing := range r.Ingredients {
		if strings.TrimSpace(ing.Name) == "" {
			return fmt.Errorf("recipe %s: ingredient %d has no name", r.ID, i+1)
		}
	}
	return nil
}

// Catalog is a read-only snapshot of recipes addressable by id.
type Catalog map[string]Recipe

// NewCatalog indexes recipes by id. Later duplicates replace earlier ones.
func NewCatalog(recipes []Recipe) Catalog {
	c := make(Catalog, len(recipes))
	for _, r := range recipes {
		c[r.ID] = r
	}
	return c
}

// Lookup returns the recipe with the given id.
func (c Catalog) Lookup(id string) (Recipe, bool) {
	r, ok := c[id]
	return r, ok
}
