package clean

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Amount converts a raw amount cell to a finite float64.
//
// Numeric cells cast directly. String cells are stripped of currency symbols
// (£, $, €), internal whitespace and thousands-separator commas; accounting
// negatives "(X)" become "-X". The failure message echoes the original raw
// value, not the partially cleaned string.
func Amount(v any) (float64, error) {
	switch n := v.(type) {
	case nil:
		return 0, &Error{Reason: "Amount is missing"}
	case float64:
		if math.IsNaN(n) {
			return 0, &Error{Reason: "Amount is missing"}
		}
		if math.IsInf(n, 0) {
			return 0, &Error{Reason: fmt.Sprintf("Cannot convert '%v' to number", n)}
		}
		return n, nil
	case float32:
		return Amount(float64(n))
	case int:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case string:
		return amountFromString(n)
	default:
		return amountFromString(fmt.Sprint(v))
	}
}

func amountFromString(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, &Error{Reason: "Amount is empty"}
	}

	cleaned := strings.Map(func(r rune) rune {
		if r == '£' || r == '$' || r == '€' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	cleaned = strings.ReplaceAll(cleaned, ",", "")

	// Accounting notation: (45.30) means -45.30.
	if strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") && len(cleaned) > 2 {
		cleaned = "-" + cleaned[1:len(cleaned)-1]
	}

	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, &Error{Reason: fmt.Sprintf("Cannot convert '%s' to number", raw)}
	}
	return f, nil
}
