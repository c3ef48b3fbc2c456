package render

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Baht formats a price with exactly two decimals. Halves round away from zero.
func Baht(v float64) string {
	return fmt.Sprintf("฿%.2f", roundHalfUp(v, 100))
}

// Percent formats a [0,1] fraction as a percentage with one decimal.
func Percent(fraction float64) string {
	return fmt.Sprintf("%.1f%%", roundHalfUp(fraction*100, 10))
}

// roundHalfUp rounds v to 1/scale; fmt alone would round exact halves to even.
func roundHalfUp(v, scale float64) float64 {
	return math.Round(v*scale) / scale
}

// Plain renders a scalar the way it arrived. Numbers keep their original
// digits; nil renders empty.
func Plain(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}

// PlainBaht prefixes a raw price with the currency sign, or renders empty.
func PlainBaht(v any) string {
	s := Plain(v)
	if s == "" {
		return ""
	}
	return "฿" + s
}
