package shopping

import "github.com/google/uuid"

// Item is a single line of the shopping list.
type Item struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Quantity      string   `json:"quantity"`
	Unit          string   `json:"unit"`
	CategoryID    string   `json:"category_id,omitempty"`
	CategoryName  string   `json:"category_name"`
	Checked       bool     `json:"checked"`
	RecipeSources []string `json:"recipe_sources"`
}

// IDGenerator returns a fresh unique id for a shopping list item.
type IDGenerator func() string

// NewUUID is the default IDGenerator.
func NewUUID() string {
	return uuid.NewString()
}

func (g IDGenerator) orDefault() IDGenerator {
	if g == nil {
		return NewUUID
	}
	return g
}
