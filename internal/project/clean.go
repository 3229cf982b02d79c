package project

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// amountPattern captures the first number and an optional scale word or
// letter directly after it.
var amountPattern = regexp.MustCompile(`(?i)(\d+\.?\d*)(?:\s*(thousand|million|billion|k|m|b)\b)?`)

var scaleMultipliers = map[string]float64{
	"k": 1e3, "thousand": 1e3,
	"m": 1e6, "million": 1e6,
	"b": 1e9, "billion": 1e9,
}

// ParseFunding converts a free-form currency string into base units.
// Currency symbols and thousands separators are dropped, a scale word or
// letter (K/thousand, M/million, B/billion) following the first number
// multiplies it, and anything unparseable yields 0.
func ParseFunding(value string) float64 {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" || cleaned == "-" {
		return 0
	}
	cleaned = strings.NewReplacer("$", "", ",", "").Replace(cleaned)

	m := amountPattern.FindStringSubmatch(cleaned)
	if m == nil {
		return 0
	}
	amount, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	if multiplier, ok := scaleMultipliers[strings.ToLower(m[2])]; ok {
		amount *= multiplier
	}
	return amount
}

// ParseCoordinate parses a decimal-degree value; failures and non-finite
// values yield 0 (unknown).
func ParseCoordinate(value string) float64 {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0
	}
	parsed, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return 0
	}
	return parsed
}
