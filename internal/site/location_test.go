package site

import (
	"errors"
	"math"
	"testing"

	"github.com/kettlevend/sitescout/internal/category"
	"github.com/kettlevend/sitescout/internal/finance"
	"github.com/kettlevend/sitescout/internal/scoring"
)

// newTestLocation creates an office location or fails the test.
func newTestLocation(t *testing.T) *Location {
	t.Helper()
	loc, err := New("Harbor Point Tower", "100 Harbor Point Dr", category.Office)
	if err != nil {
		t.Fatal(err)
	}
	return loc
}

// rateAllGeneral sets every General sub-metric to the given value.
func rateAllGeneral(loc *Location, value int) {
	for _, d := range category.GeneralDimensions {
		loc.SetGeneralRating(d, value, "")
	}
}

// TestNew tests aggregate construction and defaults.
func TestNew(t *testing.T) {
	loc := newTestLocation(t)

	if loc.ID == "" {
		t.Error("expected generated id")
	}
	if loc.ModuleType != category.Office {
		t.Errorf("module type = %s, want office", loc.ModuleType)
	}
	if loc.Financials != finance.DefaultInputs() {
		t.Errorf("financials = %+v, want documented defaults", loc.Financials)
	}
	if loc.General.RatedCount() != 0 || loc.Module.RatedCount() != 0 {
		t.Error("new location must start unrated")
	}
	if loc.CreatedAt.IsZero() || loc.UpdatedAt.IsZero() {
		t.Error("timestamps must be set")
	}

	if _, err := New("", "addr", category.Office); !errors.Is(err, ErrEmptyName) {
		t.Errorf("empty name error = %v, want ErrEmptyName", err)
	}
	if _, err := New("name", " ", category.Office); !errors.Is(err, ErrEmptyAddress) {
		t.Errorf("blank address error = %v, want ErrEmptyAddress", err)
	}
	if _, err := New("name", "addr", "mall"); !errors.Is(err, category.ErrUnknownModuleType) {
		t.Errorf("bad type error = %v, want ErrUnknownModuleType", err)
	}
}

// TestOverallScore tests the 0-5 restatement of the normalized score.
func TestOverallScore(t *testing.T) {
	loc := newTestLocation(t)
	policy := scoring.DefaultPolicy()

	rateAllGeneral(loc, 4)
	for _, key := range loc.Module.Dimensions() {
		if err := loc.SetModuleRating(key, 4, ""); err != nil {
			t.Fatal(err)
		}
	}

	// Normalized 0.776 restated on the display scale.
	if got := loc.OverallScore(policy); math.Abs(got-3.88) > 0.001 {
		t.Errorf("OverallScore = %f, want 3.88", got)
	}
	if got := loc.Decision(policy); got != scoring.Greenlight {
		t.Errorf("Decision = %s, want greenlight", got)
	}

	loc.General = nil
	if got := loc.OverallScore(policy); got != 0.0 {
		t.Errorf("OverallScore without General = %f, want 0.0", got)
	}
}

// TestIsComplete tests the five-primary-dimensions-plus-module signal.
func TestIsComplete(t *testing.T) {
	loc := newTestLocation(t)

	if loc.IsComplete() {
		t.Error("fresh location must not be complete")
	}

	loc.SetGeneralRating(category.FootTraffic, 4, "")
	loc.SetGeneralRating(category.TargetDemographic, 3, "")
	loc.SetGeneralRating(category.Competition, 4, "")
	loc.SetGeneralRating(category.Visibility, 5, "")
	if err := loc.SetModuleRating("common_areas", 4, ""); err != nil {
		t.Fatal(err)
	}

	// Security still unrated.
	if loc.IsComplete() {
		t.Error("incomplete with an unrated primary dimension")
	}

	loc.SetGeneralRating(category.Security, 3, "")
	if !loc.IsComplete() {
		t.Error("complete once five primaries and one module metric are rated")
	}

	// Financial completeness is irrelevant to the signal.
	loc.SetFinancials(finance.Inputs{})
	if !loc.IsComplete() {
		t.Error("completeness must ignore financial inputs")
	}
}

// TestReplaceModule verifies a module swap recomputes with no residual
// influence from the old module's ratings.
func TestReplaceModule(t *testing.T) {
	loc := newTestLocation(t)
	policy := scoring.DefaultPolicy()
	rateAllGeneral(loc, 4)

	for _, key := range loc.Module.Dimensions() {
		if err := loc.SetModuleRating(key, 5, ""); err != nil {
			t.Fatal(err)
		}
	}
	officeScore := loc.OverallScore(policy)

	residential, err := category.NewModule(category.Residential)
	if err != nil {
		t.Fatal(err)
	}
	if err := residential.SetRating("laundry_rooms", 1, ""); err != nil {
		t.Fatal(err)
	}
	loc.ReplaceModule(residential)

	if loc.ModuleType != category.Residential {
		t.Errorf("declared type = %s, want residential after swap", loc.ModuleType)
	}
	if got := loc.ModuleScore(); math.Abs(got-1.0) > 0.001 {
		t.Errorf("module score = %f, want 1.0 from new module only", got)
	}

	swappedScore := loc.OverallScore(policy)
	if swappedScore >= officeScore {
		t.Errorf("score after downgrade swap = %f, want below %f", swappedScore, officeScore)
	}

	// Exact recomputation: 4*0.63 + 3*0.12 + 1*0.25 = 3.13 => 0.626 => 3.13
	if math.Abs(swappedScore-3.13) > 0.001 {
		t.Errorf("score = %f, want 3.13", swappedScore)
	}
}

// TestEvaluate tests the snapshot surface and the structural hard
// failure.
func TestEvaluate(t *testing.T) {
	loc := newTestLocation(t)
	rateAllGeneral(loc, 4)
	loc.SetFootTraffic(500)
	if err := loc.SetModuleRating("hours_access", 4, ""); err != nil {
		t.Fatal(err)
	}

	eval, err := loc.Evaluate(nil)
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	if eval.LocationID != loc.ID {
		t.Error("evaluation must carry the location id")
	}
	if math.Abs(eval.Score-eval.NormalizedScore*5.0) > 0.0001 {
		t.Error("display score must be the normalized score restated on 0-5")
	}
	if eval.Decision != scoring.MapToDecision(eval.NormalizedScore, scoring.DefaultPolicy().Bands) {
		t.Error("decision must derive from the same score in the snapshot")
	}
	if eval.Projection.TransactionsPerDay != 25 {
		t.Errorf("projection tx/day = %f, want 25 from 500 traffic at default capture", eval.Projection.TransactionsPerDay)
	}

	// Structural misuse: module category not matching the declared type.
	hospital, err := category.NewModule(category.Hospital)
	if err != nil {
		t.Fatal(err)
	}
	loc.Module = hospital // bypass ReplaceModule on purpose
	if _, err := loc.Evaluate(nil); !errors.Is(err, ErrModuleTypeMismatch) {
		t.Errorf("mismatch error = %v, want ErrModuleTypeMismatch", err)
	}
}

// TestClone verifies deep copy isolation.
func TestClone(t *testing.T) {
	loc := newTestLocation(t)
	loc.SetGeneralRating(category.Visibility, 4, "front lobby")

	clone := loc.Clone()
	clone.SetGeneralRating(category.Visibility, 1, "changed")

	if got := loc.General.Rating(category.Visibility); got != 4 {
		t.Errorf("original rating = %d after clone mutation, want 4", got)
	}
	if got := loc.General.Notes(category.Visibility); got != "front lobby" {
		t.Errorf("original notes = %q after clone mutation", got)
	}
}
