// Package display converts full-precision values into presentation form.
// Rounding and "N/A" substitution happen here and nowhere in the core.
package display

import (
	"math"
	"strconv"
	"strings"
)

// Decimals is the number of decimal places shown for derived values.
const Decimals = 2

// NA is shown in place of a value that is missing or not computable.
const NA = "N/A"

// Undefined reports whether v cannot be shown as a number.
func Undefined(v float64) bool { return math.IsNaN(v) || math.IsInf(v, 0) }

// Round rounds v to Decimals places, half away from zero.
func Round(v float64) float64 {
	if Undefined(v) {
		return v
	}
	p := math.Pow(10, Decimals)
	return math.Round(v*p) / p
}

// Nullable rounds v for JSON output; undefined values become nil.
func Nullable(v float64) *float64 {
	if Undefined(v) {
		return nil
	}
	r := Round(v)
	return &r
}

// Number formats v with the given decimals and thousands separators.
func Number(v float64, decimals int) string {
	if Undefined(v) {
		return NA
	}
	s := strconv.FormatFloat(v, 'f', decimals, 64)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	b.WriteString(frac)
	return b.String()
}

// Fixed formats v with Decimals places.
func Fixed(v float64) string { return Number(v, Decimals) }

// Percent formats v (already in percent) with the given decimals.
func Percent(v float64, decimals int) string {
	if Undefined(v) {
		return NA
	}
	return strconv.FormatFloat(v, 'f', decimals, 64) + "%"
}

// Signed formats a delta with an explicit sign.
func Signed(v float64) string {
	if Undefined(v) {
		return NA
	}
	s := Fixed(v)
	if v >= 0 {
		return "+" + s
	}
	return s
}
