package scoring

import (
	"math"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Similarity returns how closely the recognized text matches the expected
// phrase on a 0-100 scale, rounded to two decimals. Comparison is
// case-insensitive and runs over characters using the longest matching
// blocks ratio (2*M / T). Two empty strings score 100.
func Similarity(recognized, expected string) float64 {
	a := splitRunes(strings.ToLower(recognized))
	b := splitRunes(strings.ToLower(expected))
	ratio := difflib.NewMatcher(a, b).Ratio()
	return round2(ratio * 100)
}

func splitRunes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
