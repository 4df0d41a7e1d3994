package planner

import (
	"slices"
	"sort"
	"strings"
)

// MealType is the slot of a planned meal within a day.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealBrunch    MealType = "brunch"
	MealLunch     MealType = "lunch"
	MealSnack     MealType = "snack"
	MealDinner    MealType = "dinner"
)

// MealTypes lists the meal slots in the order they happen during a day.
var MealTypes = []MealType{MealBreakfast, MealBrunch, MealLunch, MealSnack, MealDinner}

// Day labels used as keys of a WeeklyPlan.
const (
	Monday    = "monday"
	Tuesday   = "tuesday"
	Wednesday = "wednesday"
	Thursday  = "thursday"
	Friday    = "friday"
	Saturday  = "saturday"
	Sunday    = "sunday"
)

// Days lists the day labels in calendar order.
var Days = []string{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// PlannedMeal is one calendar slot. RecipeID is empty for custom entries
// ("pizza na mieście") that are not backed by a recipe.
type PlannedMeal struct {
	ID         string   `json:"id"`
	Day        string   `json:"day"`
	Meal       MealType `json:"meal"`
	RecipeID   string   `json:"recipe_id,omitempty"`
	CustomName string   `json:"custom_name,omitempty"`
	Note       string   `json:"note,omitempty"`
}

// HasRecipe reports whether the meal references a recipe.
func (m PlannedMeal) HasRecipe() bool {
	return strings.TrimSpace(m.RecipeID) != ""
}

// WeeklyPlan maps a day label to the meals planned on that day.
type WeeklyPlan map[string][]PlannedMeal

// IsValidDay reports whether label is one of the known day labels.
func IsValidDay(label string) bool {
	return slices.Contains(Days, label)
}

// IsValidMealType reports whether m is one of the known meal slots.
func IsValidMealType(m MealType) bool {
	return slices.Contains(MealTypes, m)
}

// OrderedDays returns the day labels present in the plan: known days in
// calendar order first, then any other labels sorted lexically.
func (p WeeklyPlan) OrderedDays() []string {
	days := make([]string, 0, len(p))
	for _, d := range Days {
		if _, ok := p[d]; ok {
			days = append(days, d)
		}
	}

	var extra []string
	for d := range p {
		if !IsValidDay(d) {
			extra = append(extra, d)
		}
	}
	sort.Strings(extra)
	return append(days, extra...)
}

// Meals flattens the plan into one sequence, walking days in OrderedDays
// order and keeping each day's slot order.
func (p WeeklyPlan) Meals() []PlannedMeal {
	var meals []PlannedMeal
	for _, d := range p.OrderedDays() {
		meals = append(meals, p[d]...)
	}
	return meals
}

// RecipeIDs returns the distinct recipe ids referenced by the plan in
// encounter order.
func (p WeeklyPlan) RecipeIDs() []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, m := range p.Meals() {
		if !m.HasRecipe() {
			continue
		}
		if _, ok := seen[m.RecipeID]; ok {
			continue
		}
		seen[m.RecipeID] = struct{}{}
		ids = append(ids, m.RecipeID)
	}
	return ids
}

// Clone returns a deep copy of the plan.
func (p WeeklyPlan) Clone() WeeklyPlan {
	out := make(WeeklyPlan, len(p))
	for d, meals := range p {
		out[d] = slices.Clone(meals)
	}
	return out
}

// Assign adds or replaces a meal in the plan, keyed by meal id.
func (p WeeklyPlan) Assign(meal PlannedMeal) {
	p.Remove(meal.ID)
	p[meal.Day] = append(p[meal.Day], meal)
}

// Remove deletes the meal with the given id. It reports whether a meal was
// removed.
func (p WeeklyPlan) Remove(mealID string) bool {
	for d, meals := range p {
		idx := slices.IndexFunc(meals, func(m PlannedMeal) bool { return m.ID == mealID })
		if idx < 0 {
			continue
		}
		p[d] = slices.Delete(meals, idx, idx+1)
		if len(p[d]) == 0 {
			delete(p, d)
		}
		return true
	}
	return false
}
