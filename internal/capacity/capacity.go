// Package capacity turns free-form production capacity text into a numeric
// magnitude used to size map markers.
//
// Recognized units, checked in order (the first match wins):
//
//	million           x 1 000 000   "1 million EVs per year"
//	GWh               x 100 000     "60 GWh per year (planned)"
//	kt, kilotonne(s)  x 1 000       "25 kt/year"
//	tonne(s)          x 1           "10 000+ tonnes of black mass"
//	(none)            x 1           "3500"
//
// Number modifiers: a range "a-b" counts as its midpoint and a trailing "+"
// multiplies by 1.1. Numbers may group thousands with spaces and use a comma as
// decimal separator ("1,5 million").
package capacity

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// MinMagnitude is the floor applied to any non-empty capacity so markers stay visible.
const MinMagnitude = 10

const numberPattern = `\d+(?:[ \x{00a0}\x{202f}]\d{3})*(?:[.,]\d+)?`

var (
	rangeRe  = regexp.MustCompile(`(` + numberPattern + `)[\s\x{00a0}]*[-–][\s\x{00a0}]*(` + numberPattern + `)`)
	plusRe   = regexp.MustCompile(`(` + numberPattern + `)[\s\x{00a0}]*\+`)
	numberRe = regexp.MustCompile(numberPattern)
)

type unit struct {
	name       string
	re         *regexp.Regexp
	multiplier float64
}

var units = []unit{
	{name: "million", re: regexp.MustCompile(`(?i)million`), multiplier: 1_000_000},
	{name: "gwh", re: regexp.MustCompile(`(?i)gwh`), multiplier: 100_000},
	{name: "kilotonne", re: regexp.MustCompile(`(?i)\bkt\b|kilotonne`), multiplier: 1_000},
	{name: "tonne", re: regexp.MustCompile(`(?i)tonne`), multiplier: 1},
}

// ParseMagnitude returns the magnitude of a capacity string. Empty and "N/A"
// yield 0; anything else is at least MinMagnitude.
func ParseMagnitude(text string) float64 {
	text = strings.TrimSpace(text)
	if text == "" || strings.EqualFold(text, "n/a") {
		return 0
	}

	base, ok := leadingQuantity(text)
	if !ok {
		return MinMagnitude
	}
	return math.Max(base*multiplier(text), MinMagnitude)
}

// MarkerSize maps a magnitude to a marker radius in pixels.
func MarkerSize(magnitude float64) int {
	switch {
	case magnitude < 100:
		return 6
	case magnitude < 1_000:
		return 8
	case magnitude < 10_000:
		return 12
	case magnitude < 100_000:
		return 18
	case magnitude < 1_000_000:
		return 22
	default:
		return 24
	}
}

func multiplier(text string) float64 {
	for _, u := range units {
		if u.re.MatchString(text) {
			return u.multiplier
		}
	}
	return 1
}

// leadingQuantity reads the first quantity of text, honoring ranges and "+".
func leadingQuantity(text string) (float64, bool) {
	first := numberRe.FindStringIndex(text)
	if first == nil {
		return 0, false
	}

	if m := rangeRe.FindStringSubmatchIndex(text); m != nil && m[0] == first[0] {
		lo, errLo := parseNumber(text[m[2]:m[3]])
		hi, errHi := parseNumber(text[m[4]:m[5]])
		if errLo == nil && errHi == nil {
			return (lo + hi) / 2, true
		}
	}

	n, err := parseNumber(text[first[0]:first[1]])
	if err != nil {
		return 0, false
	}
	if m := plusRe.FindStringIndex(text); m != nil && m[0] == first[0] {
		n *= 1.1
	}
	return n, true
}

func parseNumber(s string) (float64, error) {
	s = strings.NewReplacer(" ", "", "\u00a0", "", "\u202f", "", ",", ".").Replace(s)
	return strconv.ParseFloat(s, 64)
}
