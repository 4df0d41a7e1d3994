package shopping

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var decimalToken = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// ParseLeadingNumber extracts the numeric magnitude from the first
// whitespace-separated token of a free-form quantity such as "200", "1,5 kg"
// or "2 łyżki". The second return value is false when the token is not a
// finite decimal number ("do smaku", "1/2", "") and the quantity has to be
// handled as plain text.
func ParseLeadingNumber(quantity string) (float64, bool) {
	q := strings.ReplaceAll(strings.TrimSpace(quantity), ",", ".")
	fields := strings.Fields(q)
	if len(fields) == 0 {
		return 0, false
	}

	token := fields[0]
	if !decimalToken.MatchString(token) {
		return 0, false
	}

	v, err := strconv.ParseFloat(token, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// formatNumber renders v in its shortest round-trip form: 500, 0.5, 1.25.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
