package shopping

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

// ManualSource is the recipe source recorded on items added by hand.
const ManualSource = "ręcznie dodane"

// ErrItemNotFound is returned when an item id is not on the list.
var ErrItemNotFound = errors.New("shopping list item not found")

// ErrInvalidItem is returned when an edit would leave an item without a name.
var ErrInvalidItem = errors.New("invalid shopping list item")

// List is the user's working copy of a week's shopping list. Edits made here
// (checking items off, manual additions, removals) are never fed back into
// Aggregate; a refresh replaces the list wholesale.
type List struct {
	UserID    string    `json:"user_id"`
	WeekStart time.Time `json:"week_start"`
	Items     []Item    `json:"items"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ItemPatch carries the editable fields of an item. Nil fields are left as is.
type ItemPatch struct {
	Name         *string `json:"name,omitempty"`
	Quantity     *string `json:"quantity,omitempty"`
	Unit         *string `json:"unit,omitempty"`
	CategoryName *string `json:"category_name,omitempty"`
	Checked      *bool   `json:"checked,omitempty"`
}

// NewList wraps freshly aggregated items for a user and week.
func NewList(userID string, weekStart time.Time, items []Item) *List {
	if items == nil {
		items = []Item{}
	}
	return &List{
		UserID:    userID,
		WeekStart: weekStart,
		Items:     items,
		UpdatedAt: time.Now().UTC(),
	}
}

func (l *List) index(id string) int {
	return slices.IndexFunc(l.Items, func(it Item) bool { return it.ID == id })
}

// Find returns the item with the given id.
func (l *List) Find(id string) (Item, error) {
	idx := l.index(id)
	if idx < 0 {
		return Item{}, ErrItemNotFound
	}
	return l.Items[idx], nil
}

// Toggle flips the checked state of an item and returns the updated item.
func (l *List) Toggle(id string) (Item, error) {
	idx := l.index(id)
	if idx < 0 {
		return Item{}, ErrItemNotFound
	}
	l.Items[idx].Checked = !l.Items[idx].Checked
	l.touch()
	return l.Items[idx], nil
}

// Add appends a manual item. An empty category files it under the fallback
// category.
func (l *List) Add(name, quantity, unit, category string, newID IDGenerator) (Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Item{}, fmt.Errorf("%w: name is required", ErrInvalidItem)
	}
	category = strings.TrimSpace(category)
	if category == "" {
		category = FallbackCategory
	}

	item := Item{
		ID:            newID.orDefault()(),
		Name:          name,
		Quantity:      strings.TrimSpace(quantity),
		Unit:          strings.TrimSpace(unit),
		CategoryName:  category,
		RecipeSources: []string{ManualSource},
	}
	l.Items = append(l.Items, item)
	l.touch()
	return item, nil
}

// Update applies a patch to an item and returns the updated item.
func (l *List) Update(id string, patch ItemPatch) (Item, error) {
	idx := l.index(id)
	if idx < 0 {
		return Item{}, ErrItemNotFound
	}
	it := &l.Items[idx]
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return Item{}, fmt.Errorf("%w: name cannot be empty", ErrInvalidItem)
		}
		it.Name = name
	}
	if patch.Quantity != nil {
		it.Quantity = strings.TrimSpace(*patch.Quantity)
	}
	if patch.Unit != nil {
		it.Unit = strings.TrimSpace(*patch.Unit)
	}
	if patch.CategoryName != nil {
		it.CategoryName = strings.TrimSpace(*patch.CategoryName)
		if it.CategoryName == "" {
			it.CategoryName = FallbackCategory
		}
		it.CategoryID = ""
	}
	if patch.Checked != nil {
		it.Checked = *patch.Checked
	}
	l.touch()
	return *it, nil
}

// Remove deletes an item from the list.
func (l *List) Remove(id string) error {
	idx := l.index(id)
	if idx < 0 {
		return ErrItemNotFound
	}
	l.Items = slices.Delete(l.Items, idx, idx+1)
	l.touch()
	return nil
}

// Remaining returns the items that are not checked yet.
func (l *List) Remaining() []Item {
	var out []Item
	for _, it := range l.Items {
		if !it.Checked {
			out = append(out, it)
		}
	}
	return out
}

func (l *List) touch() {
	l.UpdatedAt = time.Now().UTC()
}
