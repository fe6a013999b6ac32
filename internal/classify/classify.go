// Package classify infers ratings from observed site facts: free-text
// notes via keyword tiers, and numeric facts (commission, foot traffic)
// via fixed bucket tables.
package classify

import (
	"strings"

	"github.com/kettlevend/sitescout/internal/rating"
)

// DefaultScore is returned when no keyword tier matches or the text is
// empty. A moderate 3 keeps missing notes from skewing inferred scores
// in either direction.
const DefaultScore rating.Value = 3

// Tier pairs a score with the keywords that imply it. Tiers are checked
// in order; list higher scores first so stronger signals win.
type Tier struct {
	Score    rating.Value `json:"score"`
	Keywords []string     `json:"keywords"`
}

// Classify maps free text to an inferred 1-5 score by case-insensitive
// substring matching against the ordered tiers. Returns DefaultScore
// when the text is empty or no keyword matches.
//
// Deterministic and side-effect free; the inferred score is
// informational only and never feeds the weighted overall score.
func Classify(text string, tiers []Tier) rating.Value {
	if strings.TrimSpace(text) == "" {
		return DefaultScore
	}

	lower := strings.ToLower(text)
	for _, tier := range tiers {
		for _, kw := range tier.Keywords {
			if strings.Contains(lower, kw) {
				return tier.Score
			}
		}
	}

	return DefaultScore
}

// Commission buckets a host commission fraction (0..1) into a rating.
// Lower commission means more margin retained, so it scores higher.
func Commission(fraction float64) rating.Value {
	pct := fraction * 100
	switch {
	case pct <= 5:
		return 5
	case pct <= 10:
		return 4
	case pct <= 15:
		return 3
	case pct <= 20:
		return 2
	default:
		return 1
	}
}

// FootTraffic buckets a daily foot traffic count into a rating.
// A count of zero means no data and maps to the unrated sentinel.
func FootTraffic(dailyCount int) rating.Value {
	switch {
	case dailyCount >= 500:
		return 5
	case dailyCount >= 350:
		return 4
	case dailyCount >= 200:
		return 3
	case dailyCount >= 100:
		return 2
	case dailyCount >= 1:
		return 1
	default:
		return rating.Unrated
	}
}
