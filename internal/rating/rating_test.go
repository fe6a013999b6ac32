package rating

import "testing"

// TestClamp tests clamping of arbitrary integers into the rating scale.
func TestClamp(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected Value
	}{
		{
			name:     "negative clamps to zero",
			input:    -3,
			expected: 0,
		},
		{
			name:     "zero passes through",
			input:    0,
			expected: 0,
		},
		{
			name:     "in-range value unchanged",
			input:    3,
			expected: 3,
		},
		{
			name:     "max value unchanged",
			input:    5,
			expected: 5,
		},
		{
			name:     "above max clamps to five",
			input:    9,
			expected: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clamp(tt.input); got != tt.expected {
				t.Errorf("Clamp(%d) = %d, want %d", tt.input, got, tt.expected)
			}
		})
	}
}

// TestRated tests the unrated sentinel behavior.
func TestRated(t *testing.T) {
	if Unrated.Rated() {
		t.Error("Unrated should not report as rated")
	}
	if !Value(1).Rated() {
		t.Error("Value(1) should report as rated")
	}
	if !Max.Rated() {
		t.Error("Max should report as rated")
	}
}

// TestInRange tests the strict 1-5 validation used at the aggregate boundary.
func TestInRange(t *testing.T) {
	tests := []struct {
		input    int
		expected bool
	}{
		{0, false},
		{1, true},
		{5, true},
		{6, false},
		{-1, false},
	}

	for _, tt := range tests {
		if got := InRange(tt.input); got != tt.expected {
			t.Errorf("InRange(%d) = %t, want %t", tt.input, got, tt.expected)
		}
	}
}
