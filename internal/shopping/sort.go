package shopping

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// DisplayLocale drives the collation of category and item names.
var DisplayLocale = language.Polish

// SortForDisplay returns a copy of items ordered by category name, then item
// name, using locale-aware collation ("Ś" sorts after "S", not after "Z").
// Items equal on both keys are ordered by unit and id so the result does not
// depend on the input order. The fallback category gets no special place.
func SortForDisplay(items []Item) []Item {
	// Collators keep internal buffers; one per call keeps concurrent use safe.
	col := collate.New(DisplayLocale)

	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b Item) int {
		if c := col.CompareString(a.CategoryName, b.CategoryName); c != 0 {
			return c
		}
		if c := col.CompareString(a.Name, b.Name); c != 0 {
			return c
		}
		if c := col.CompareString(a.Unit, b.Unit); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out
}
