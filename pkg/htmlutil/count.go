package htmlutil

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	countPattern = regexp.MustCompile(`^(\d[\d,]*(?:\.\d+)?)\s*([kmbKMB])?$`)

	multipliers = map[string]float64{
		"":  1,
		"k": 1e3,
		"m": 1e6,
		"b": 1e9,
	}
)

// ParseCount parses a display count such as "12,345", "3K", "1.2M" or "2B".
// Anything it cannot read yields 0.
func ParseCount(s string) int {
	m := countPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0
	}
	n, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return 0
	}
	return int(math.Round(n * multipliers[strings.ToLower(m[2])]))
}

// LabeledCount finds the count written directly before label in text,
// e.g. LabeledCount("12,345 Followers, 67 Following", "following") returns 67.
// The label must match a whole word; matching ignores case.
func LabeledCount(text, label string) int {
	re, err := regexp.Compile(`(?i)(?:^|[^\d.,])(\d[\d,]*(?:\.\d+)?\s*[kmb]?)\s+` + regexp.QuoteMeta(label) + `\b`)
	if err != nil {
		return 0
	}
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	return ParseCount(m[1])
}
