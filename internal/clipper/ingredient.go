package clipper

import (
	"strings"
	"unicode"

	"meal-planner/internal/recipe"
	"meal-planner/internal/shopping"
)

// knownUnits are unit words recognised right after a leading quantity.
var knownUnits = map[string]struct{}{
	"g": {}, "dag": {}, "kg": {}, "mg": {},
	"ml": {}, "l": {}, "dl": {},
	"szt": {}, "szt.": {}, "sztuka": {}, "sztuki": {}, "sztuk": {},
	"łyżka": {}, "łyżki": {}, "łyżek": {}, "łyżeczka": {}, "łyżeczki": {}, "łyżeczek": {},
	"szklanka": {}, "szklanki": {}, "szklanek": {},
	"szczypta": {}, "szczypty": {},
	"ząbek": {}, "ząbki": {}, "ząbków": {},
	"opakowanie": {}, "opakowania": {}, "puszka": {}, "puszki": {},
	"pęczek": {}, "pęczki": {}, "plaster": {}, "plastry": {},
	"tsp": {}, "tbsp": {}, "cup": {}, "cups": {}, "oz": {}, "lb": {},
	"pinch": {}, "clove": {}, "cloves": {}, "can": {}, "cans": {},
}

// ParseIngredientLine splits a scraped line such as "200 g mąki pszennej"
// into quantity "200", unit "g" and name "mąki pszennej". Lines without a
// leading amount ("sól do smaku") become a name with no quantity. Empty
// lines are rejected.
func ParseIngredientLine(line string) (recipe.Ingredient, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return recipe.Ingredient{}, false
	}

	if !looksLikeAmount(fields[0]) {
		return recipe.Ingredient{Name: strings.Join(fields, " ")}, true
	}

	ing := recipe.Ingredient{Quantity: fields[0]}
	rest := fields[1:]
	if len(rest) > 1 {
		if _, ok := knownUnits[strings.ToLower(rest[0])]; ok {
			ing.Unit = rest[0]
			rest = rest[1:]
		}
	}
	if len(rest) == 0 {
		// Only an amount: keep the line as the name rather than lose it.
		return recipe.Ingredient{Name: strings.Join(fields, " ")}, true
	}
	ing.Name = strings.Join(rest, " ")
	return ing, true
}

// looksLikeAmount accepts decimal numbers as well as forms the engine will
// keep as text, like "1/2" or "2-3".
func looksLikeAmount(token string) bool {
	if _, ok := shopping.ParseLeadingNumber(token); ok {
		return true
	}
	if !unicode.IsDigit([]rune(token)[0]) {
		return false
	}
	return strings.IndexFunc(token, func(r rune) bool {
		return !unicode.IsDigit(r) && r != '/' && r != '-' && r != ',' && r != '.'
	}) < 0
}
