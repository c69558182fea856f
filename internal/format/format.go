// Package format renders recipe quantities for display: SI-normalised
// power and water figures and compact durations.
package format

import (
	"math"
	"strconv"
	"strings"
)

type siPrefix struct {
	symbol     string
	multiplier float64
}

// parsePrefixes is the order existing prefixes are recognised in. The
// two-letter deka prefix is checked before anything else.
var parsePrefixes = []siPrefix{
	{"Q", 1e30}, {"R", 1e27}, {"Y", 1e24}, {"Z", 1e21}, {"E", 1e18},
	{"P", 1e15}, {"T", 1e12}, {"G", 1e9}, {"M", 1e6}, {"k", 1e3},
	{"h", 1e2}, {"d", 1e-1}, {"c", 1e-2}, {"m", 1e-3}, {"μ", 1e-6},
	{"n", 1e-9}, {"p", 1e-12}, {"f", 1e-15}, {"a", 1e-18}, {"z", 1e-21},
	{"y", 1e-24}, {"r", 1e-27}, {"q", 1e-30},
}

// displayPrefixes are the candidates for output, largest first
var displayPrefixes = []siPrefix{
	{"Q", 1e30}, {"R", 1e27}, {"Y", 1e24}, {"Z", 1e21}, {"E", 1e18},
	{"P", 1e15}, {"T", 1e12}, {"G", 1e9}, {"M", 1e6}, {"k", 1e3},
	{"h", 1e2}, {"da", 1e1}, {"", 1}, {"d", 1e-1}, {"c", 1e-2},
	{"m", 1e-3}, {"μ", 1e-6}, {"n", 1e-9}, {"p", 1e-12}, {"f", 1e-15},
	{"a", 1e-18}, {"z", 1e-21}, {"y", 1e-24}, {"r", 1e-27}, {"q", 1e-30},
}

// NormalizeSI expresses value (measured in unit) with the largest SI prefix
// that brings it into [1, 1000), hecto and deka included, so 500 Wh is
// "5 hWh". A prefix already present on unit is folded into the value
// first: NormalizeSI(1500, "kWh") is "1.5 MWh".
func NormalizeSI(value float64, unit string) string {
	if value == 0 {
		return "0 " + unit
	}

	actual, base := splitPrefix(value, unit)

	best := siPrefix{"", 1}
	for _, p := range displayPrefixes {
		n := actual / p.multiplier
		if n >= 1 && n < 1000 {
			best = p
			break
		}
	}

	return formatNumber(actual/best.multiplier) + " " + best.symbol + base
}

func splitPrefix(value float64, unit string) (float64, string) {
	if strings.HasPrefix(unit, "da") {
		return value * 1e1, unit[2:]
	}
	for _, p := range parsePrefixes {
		if strings.HasPrefix(unit, p.symbol) {
			return value * p.multiplier, unit[len(p.symbol):]
		}
	}
	return value, unit
}

func formatNumber(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	decimals := 1
	if v < 10 {
		decimals = 2
	}
	return trimZeros(strconv.FormatFloat(v, 'f', decimals, 64))
}

func trimZeros(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

var durationUnits = []struct {
	name    string
	seconds float64
}{
	{"d", 86400},
	{"h", 3600},
	{"m", 60},
	{"s", 1},
}

// Duration renders a number of seconds using at most two units, largest
// first: 90 is "1m 30s", 86400 is "1d", 3700 is "1h 1m".
func Duration(seconds float64) string {
	if seconds == 0 {
		return "0s"
	}

	for i, u := range durationUnits {
		if seconds < u.seconds {
			continue
		}
		value := math.Floor(seconds / u.seconds)
		remainder := math.Mod(seconds, u.seconds)
		out := strconv.FormatFloat(value, 'f', -1, 64) + u.name
		if remainder == 0 || i+1 >= len(durationUnits) {
			return out
		}
		next := durationUnits[i+1]
		if remainder >= next.seconds {
			nextValue := math.Floor(remainder / next.seconds)
			out += " " + strconv.FormatFloat(nextValue, 'f', -1, 64) + next.name
		}
		return out
	}

	return strconv.FormatFloat(seconds, 'f', -1, 64) + "s"
}
