package classify

import (
	"testing"

	"github.com/kettlevend/sitescout/internal/rating"
)

// TestClassify tests keyword tier matching with the competition table.
func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected rating.Value
	}{
		{
			name:     "empty text returns default",
			text:     "",
			expected: DefaultScore,
		},
		{
			name:     "whitespace-only text returns default",
			text:     "   ",
			expected: DefaultScore,
		},
		{
			name:     "no keyword match returns default",
			text:     "two snack machines on the third floor",
			expected: DefaultScore,
		},
		{
			name:     "no competition scores five",
			text:     "Zero competing machines in the building",
			expected: 5,
		},
		{
			name:     "minimal competition scores four",
			text:     "minimal competition, one old machine",
			expected: 4,
		},
		{
			name:     "moderate competition scores three",
			text:     "Some competition from the cafe downstairs",
			expected: 3,
		},
		{
			name:     "strong competition scores two",
			text:     "strong competition nearby",
			expected: 2,
		},
		{
			name:     "case-insensitive match",
			text:     "SATURATED market",
			expected: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.text, CompetitionTiers); got != tt.expected {
				t.Errorf("Classify(%q) = %d, want %d", tt.text, got, tt.expected)
			}
		})
	}
}

// TestClassifyTierOrder verifies the first matching tier wins when text
// contains keywords from multiple tiers.
func TestClassifyTierOrder(t *testing.T) {
	// "very high" contains "high"; the higher-priority tier listed
	// first in the table must win.
	tiers := []Tier{
		{Score: 1, Keywords: []string{"very high"}},
		{Score: 2, Keywords: []string{"high"}},
	}
	if got := Classify("very high competition", tiers); got != 1 {
		t.Errorf("expected first tier to win, got %d", got)
	}
}

// TestCommission tests the commission fraction buckets.
func TestCommission(t *testing.T) {
	tests := []struct {
		fraction float64
		expected rating.Value
	}{
		{0.0, 5},
		{0.05, 5},
		{0.10, 4},
		{0.15, 3},
		{0.20, 2},
		{0.25, 1},
		{0.50, 1},
	}

	for _, tt := range tests {
		if got := Commission(tt.fraction); got != tt.expected {
			t.Errorf("Commission(%v) = %d, want %d", tt.fraction, got, tt.expected)
		}
	}
}

// TestFootTraffic tests the daily count buckets, including the half-open
// boundaries mapping to the higher tier.
func TestFootTraffic(t *testing.T) {
	tests := []struct {
		count    int
		expected rating.Value
	}{
		{0, 0},
		{50, 1},
		{99, 1},
		{100, 2},
		{150, 2},
		{200, 3},
		{250, 3},
		{350, 4},
		{400, 4},
		{500, 5},
		{600, 5},
	}

	for _, tt := range tests {
		if got := FootTraffic(tt.count); got != tt.expected {
			t.Errorf("FootTraffic(%d) = %d, want %d", tt.count, got, tt.expected)
		}
	}
}
