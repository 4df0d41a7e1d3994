package shopping

import (
	"strconv"
	"strings"
)

const keySeparator = "\x1f"

// BuildKey returns the aggregation key for an ingredient: its normalized
// name and normalized unit. Two mentions land on the same shopping list line
// only when both parts match. The name is length-prefixed, so no choice of
// name and unit can produce another pair's key.
func BuildKey(name, unit string) string {
	n := normalizeKeyPart(name)
	return strconv.Itoa(len(n)) + ":" + n + keySeparator + normalizeKeyPart(unit)
}

func normalizeKeyPart(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
