// Package scoring compares model extractions with ground truth using a
// token-set similarity and threshold matching.
package scoring

import "strings"

// MatchThreshold is the minimum similarity for a predicted item to count as
// a match for an expected item.
const MatchThreshold = 0.6

// Normalize lower-cases s, replaces every character outside [a-z0-9] and
// whitespace with a space, collapses runs of whitespace and trims the result.
func Normalize(s string) string {
	return strings.Join(strings.Fields(scrub(s)), " ")
}

// Similarity returns |A ∩ B| / max(|A|, |B|) over the normalized token sets
// of a and b. The denominator is the larger set, not the union. Returns 0
// when either side has no tokens.
func Similarity(a, b string) float64 {
	aTokens := tokenSet(a)
	bTokens := tokenSet(b)
	if len(aTokens) == 0 || len(bTokens) == 0 {
		return 0
	}

	overlap := 0
	for tok := range aTokens {
		if _, ok := bTokens[tok]; ok {
			overlap++
		}
	}

	return float64(overlap) / float64(max(len(aTokens), len(bTokens)))
}

func tokenSet(s string) map[string]struct{} {
	fields := strings.Fields(scrub(s))
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

// scrub lower-cases s and blanks out everything but ASCII letters, digits
// and whitespace.
func scrub(s string) string {
	lowered := strings.ToLower(s)
	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}
	return b.String()
}
