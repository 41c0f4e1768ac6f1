package agents

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// =============================================================================
// DURATION / INVESTMENT PARSING
// =============================================================================

// unitDays converts a duration unit to days. Fixed business convention:
// months are 30 days, years 365, regardless of calendar.
var unitDays = map[string]float64{
	"day":   1,
	"week":  7,
	"month": 30,
	"year":  365,
}

var durationRe = regexp.MustCompile(`(\d+)(?:\s*-\s*(\d+))?\s*(day|week|month|year)s?`)

// DurationToDays parses timeline text like "10 days" or "2-3 months" into a
// day count. Ranges take the midpoint. Unparseable input returns ok=false
// and the caller must treat the value as missing, never as zero.
func DurationToDays(text string) (float64, bool) {
	m := durationRe.FindStringSubmatch(strings.ToLower(text))
	if m == nil {
		return 0, false
	}

	lo, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	value := lo
	if m[2] != "" {
		hi, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return 0, false
		}
		value = (lo + hi) / 2
	}
	return value * unitDays[m[3]], true
}

var investmentRe = regexp.MustCompile(`^\s*([0-9]+(?:\.[0-9]+)?)\s*([KMBkmb])?`)

// ParseInvestmentValue parses a leading numeric literal with an optional
// K/M/B suffix (1e3/1e6/1e9). No suffix leaves the literal unscaled.
// Unparseable input returns 0.
func ParseInvestmentValue(text string) float64 {
	m := investmentRe.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	switch strings.ToUpper(m[2]) {
	case "K":
		value *= 1e3
	case "M":
		value *= 1e6
	case "B":
		value *= 1e9
	}
	return value
}

// FormatInvestment renders an IDR amount with the largest applicable
// suffix: billions, then millions, else the raw value. One decimal place,
// trailing ".0" stripped.
func FormatInvestment(amount float64) string {
	switch {
	case amount >= 1e9:
		return trimDecimal(amount/1e9) + "B IDR"
	case amount >= 1e6:
		return trimDecimal(amount/1e6) + "M IDR"
	default:
		return trimDecimal(amount) + " IDR"
	}
}

func trimDecimal(v float64) string {
	s := fmt.Sprintf("%.1f", v)
	return strings.TrimSuffix(s, ".0")
}

// =============================================================================
// CATEGORY DETERMINATION
// =============================================================================

// categoryRule pairs a predicate with the knowledge-base key it selects.
// Rules are evaluated in order and the first match wins; reordering a rule
// list changes provider behavior, so order is part of the contract.
type categoryRule struct {
	pattern  *regexp.Regexp
	category string
}

func rule(pattern, category string) categoryRule {
	return categoryRule{
		pattern:  regexp.MustCompile(pattern),
		category: category,
	}
}

// matchCategory evaluates the ordered rules against a lowercased case
// description. No match returns "" and the caller falls through to the
// knowledge snapshot's default-or-first resolution.
func matchCategory(rules []categoryRule, description string) string {
	lower := strings.ToLower(description)
	for _, r := range rules {
		if r.pattern.MatchString(lower) {
			return r.category
		}
	}
	return ""
}
