package scoring

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

// TestDefaultPolicy verifies the default weight table sums to 1.0 and
// the placeholder defaults are moderate.
func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()

	if total := p.Weights.Total(); math.Abs(total-1.0) > 0.0001 {
		t.Errorf("default weights sum to %f, want 1.0", total)
	}

	if p.Placeholders.PaybackVsTarget != 3.0 ||
		p.Placeholders.RouteFit != 3.0 ||
		p.Placeholders.InstallComplexity != 3.0 {
		t.Errorf("placeholder defaults = %+v, want all 3.0", p.Placeholders)
	}

	if p.Bands.Greenlight != 0.75 || p.Bands.Watchlist != 0.60 {
		t.Errorf("default bands = %+v, want 0.75/0.60", p.Bands)
	}

	if p.Bands.Greenlight <= p.Bands.Watchlist {
		t.Error("greenlight band must be above watchlist band")
	}
}

// TestMergeCalibration tests partial override merging.
func TestMergeCalibration(t *testing.T) {
	t.Run("nil override returns base copy", func(t *testing.T) {
		base := DefaultPolicy()
		merged := MergeCalibration(base, nil)
		if *merged != *base {
			t.Error("merged policy differs from base")
		}
		merged.Weights.FootTraffic = 0.99
		if base.Weights.FootTraffic == 0.99 {
			t.Error("merge must return a copy, not the base")
		}
	})

	t.Run("nil base falls back to defaults", func(t *testing.T) {
		merged := MergeCalibration(nil, &Policy{})
		if *merged != *DefaultPolicy() {
			t.Error("nil base did not yield defaults")
		}
	})

	t.Run("only non-zero overrides apply", func(t *testing.T) {
		override := &Policy{}
		override.Weights.FootTraffic = 0.30
		override.Placeholders.RouteFit = 2.0
		override.Bands.Watchlist = 0.55

		merged := MergeCalibration(DefaultPolicy(), override)

		if merged.Weights.FootTraffic != 0.30 {
			t.Errorf("foot traffic weight = %f, want 0.30", merged.Weights.FootTraffic)
		}
		if merged.Placeholders.RouteFit != 2.0 {
			t.Errorf("route fit placeholder = %f, want 2.0", merged.Placeholders.RouteFit)
		}
		if merged.Bands.Watchlist != 0.55 {
			t.Errorf("watchlist band = %f, want 0.55", merged.Bands.Watchlist)
		}
		// Untouched fields keep defaults.
		if merged.Weights.ModuleScore != 0.25 {
			t.Errorf("module score weight = %f, want default 0.25", merged.Weights.ModuleScore)
		}
		if merged.Bands.Greenlight != 0.75 {
			t.Errorf("greenlight band = %f, want default 0.75", merged.Bands.Greenlight)
		}
	})
}

// TestLoadCalibration tests file loading with graceful degradation.
func TestLoadCalibration(t *testing.T) {
	t.Run("empty path returns defaults", func(t *testing.T) {
		p, err := LoadCalibration("")
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if *p != *DefaultPolicy() {
			t.Error("empty path did not yield defaults")
		}
	})

	t.Run("missing file returns defaults with error", func(t *testing.T) {
		p, err := LoadCalibration("/nonexistent/calibration.json")
		if err == nil {
			t.Error("expected error for missing file")
		}
		if p == nil || *p != *DefaultPolicy() {
			t.Error("missing file did not degrade to defaults")
		}
	})

	t.Run("malformed JSON returns defaults with error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "calibration.json")
		if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
			t.Fatal(err)
		}
		p, err := LoadCalibration(path)
		if err == nil {
			t.Error("expected error for malformed file")
		}
		if p == nil || *p != *DefaultPolicy() {
			t.Error("malformed file did not degrade to defaults")
		}
	})

	t.Run("partial file merges with defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "calibration.json")
		content := `{
			"version": "1",
			"policy": {
				"weights": {"foot_traffic": 0.25},
				"placeholders": {"install_complexity": 2.5}
			}
		}`
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}

		p, err := LoadCalibration(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Weights.FootTraffic != 0.25 {
			t.Errorf("foot traffic weight = %f, want 0.25", p.Weights.FootTraffic)
		}
		if p.Placeholders.InstallComplexity != 2.5 {
			t.Errorf("install complexity placeholder = %f, want 2.5", p.Placeholders.InstallComplexity)
		}
		if p.Weights.ModuleScore != 0.25 {
			t.Errorf("module score weight = %f, want default 0.25", p.Weights.ModuleScore)
		}
		if p.Bands.Greenlight != 0.75 {
			t.Errorf("greenlight band = %f, want default 0.75", p.Bands.Greenlight)
		}
	})
}
