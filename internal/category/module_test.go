package category

import (
	"errors"
	"math"
	"testing"
)

// TestNewModule tests variant construction per site type.
func TestNewModule(t *testing.T) {
	for _, mt := range []ModuleType{Office, Hospital, School, Residential} {
		m, err := NewModule(mt)
		if err != nil {
			t.Fatalf("NewModule(%s) error: %v", mt, err)
		}
		if m.Type() != mt {
			t.Errorf("Type = %s, want %s", m.Type(), mt)
		}
		if len(m.Dimensions()) != 6 {
			t.Errorf("%s has %d dimensions, want 6", mt, len(m.Dimensions()))
		}
		if m.RatedCount() != 0 {
			t.Errorf("fresh %s module RatedCount = %d, want 0", mt, m.RatedCount())
		}
	}

	if _, err := NewModule("warehouse"); !errors.Is(err, ErrUnknownModuleType) {
		t.Errorf("NewModule(warehouse) error = %v, want ErrUnknownModuleType", err)
	}
}

// TestModuleSetRating tests clamping and the fixed key set.
func TestModuleSetRating(t *testing.T) {
	m, err := NewModule(Office)
	if err != nil {
		t.Fatal(err)
	}

	if err := m.SetRating("common_areas", 7, "large atrium"); err != nil {
		t.Fatalf("SetRating error: %v", err)
	}
	if got := m.Rating("common_areas"); got != 5 {
		t.Errorf("rating = %d, want clamped to 5", got)
	}
	if got := m.Notes("common_areas"); got != "large atrium" {
		t.Errorf("notes = %q, want stored verbatim", got)
	}

	if err := m.SetRating("waiting_areas", 3, ""); !errors.Is(err, ErrUnknownDimension) {
		t.Errorf("hospital key on office module error = %v, want ErrUnknownDimension", err)
	}
}

// TestModuleAverage verifies no minimum-rated policy: any count >= 1
// produces an average, none rated produces 0.0.
func TestModuleAverage(t *testing.T) {
	m, err := NewModule(Residential)
	if err != nil {
		t.Fatal(err)
	}

	if got := m.Average(); got != 0.0 {
		t.Errorf("Average with no ratings = %f, want 0.0", got)
	}

	if err := m.SetRating("laundry_rooms", 4, ""); err != nil {
		t.Fatal(err)
	}
	if got := m.Average(); math.Abs(got-4.0) > 0.001 {
		t.Errorf("Average with one rating = %f, want 4.0", got)
	}

	if err := m.SetRating("unit_count", 1, ""); err != nil {
		t.Fatal(err)
	}
	if got := m.Average(); math.Abs(got-2.5) > 0.001 {
		t.Errorf("Average = %f, want 2.5", got)
	}
}

// TestModuleInferred tests the generic quality tier inference.
func TestModuleInferred(t *testing.T) {
	m, err := NewModule(School)
	if err != nil {
		t.Fatal(err)
	}

	if err := m.SetRating("vending_policy", 0, "strong support from admin"); err != nil {
		t.Fatal(err)
	}
	if got := m.Inferred("vending_policy"); got != 4 {
		t.Errorf("inferred = %d, want 4", got)
	}
	// No notes: moderate default.
	if got := m.Inferred("summer_dropoff"); got != 3 {
		t.Errorf("inferred with no notes = %d, want default 3", got)
	}
}
