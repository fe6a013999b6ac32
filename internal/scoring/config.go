package scoring

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
)

// Weights defines the contribution of each dimension to the overall
// score. Values are fractions of the whole and sum to 1.0 by default.
type Weights struct {
	FootTraffic       float64 `json:"foot_traffic"`       // Weight for daily foot traffic rating (default: 0.20)
	TargetDemographic float64 `json:"target_demographic"` // Weight for demographic fit rating (default: 0.10)
	Competition       float64 `json:"competition"`        // Weight for nearby competition rating (default: 0.10)
	Visibility        float64 `json:"visibility"`         // Weight for placement visibility rating (default: 0.05)
	ParkingTransit    float64 `json:"parking_transit"`    // Weight for restock access rating (default: 0.04)
	Security          float64 `json:"security"`           // Weight for site security rating (default: 0.04)
	Amenities         float64 `json:"amenities"`          // Weight for adjacent amenities rating (default: 0.02)
	HostCommission    float64 `json:"host_commission"`    // Weight for commission terms rating (default: 0.08)
	PaybackVsTarget   float64 `json:"payback_vs_target"`  // Weight for payback-vs-target (default: 0.06, placeholder-fed)
	RouteFit          float64 `json:"route_fit"`          // Weight for route/cluster fit (default: 0.04, placeholder-fed)
	InstallComplexity float64 `json:"install_complexity"` // Weight for install complexity (default: 0.02, placeholder-fed)
	ModuleScore       float64 `json:"module_score"`       // Weight for the module category average (default: 0.25)
}

// Total returns the sum of all weights, the denominator of the
// normalized score.
func (w Weights) Total() float64 {
	return w.FootTraffic + w.TargetDemographic + w.Competition +
		w.Visibility + w.ParkingTransit + w.Security + w.Amenities +
		w.HostCommission + w.PaybackVsTarget + w.RouteFit +
		w.InstallComplexity + w.ModuleScore
}

// Placeholders carries the fixed ratings for dimensions not yet wired
// to live inputs. Payback-vs-target, route fit, and install complexity
// currently have no rated source and default to a moderate 3.0; the
// calibration file can tune them per fleet.
type Placeholders struct {
	PaybackVsTarget   float64 `json:"payback_vs_target"`
	RouteFit          float64 `json:"route_fit"`
	InstallComplexity float64 `json:"install_complexity"`
}

// Bands defines the decision thresholds on the normalized [0, 1] score.
// Each band is inclusive on its lower bound.
type Bands struct {
	Greenlight float64 `json:"greenlight"` // score >= Greenlight (default: 0.75)
	Watchlist  float64 `json:"watchlist"`  // Watchlist <= score < Greenlight (default: 0.60)
}

// Policy holds the complete scoring configuration: weights, placeholder
// defaults, and decision bands. A Policy is a plain value constructed
// once by the caller and passed through compute calls.
type Policy struct {
	Weights      Weights      `json:"weights"`
	Placeholders Placeholders `json:"placeholders"`
	Bands        Bands        `json:"bands"`
}

// CalibrationConfig represents the JSON structure of the calibration file.
type CalibrationConfig struct {
	Version string `json:"version"` // Config version for future compatibility
	Policy  Policy `json:"policy"`  // Policy overrides
}

// DefaultPolicy returns the default scoring policy. The weight split
// reflects placement priority: transaction volume signals (foot
// traffic, module score) carry more than half the total.
func DefaultPolicy() *Policy {
	return &Policy{
		Weights: Weights{
			FootTraffic:       0.20,
			TargetDemographic: 0.10,
			Competition:       0.10,
			Visibility:        0.05,
			ParkingTransit:    0.04,
			Security:          0.04,
			Amenities:         0.02,
			HostCommission:    0.08,
			PaybackVsTarget:   0.06,
			RouteFit:          0.04,
			InstallComplexity: 0.02,
			ModuleScore:       0.25,
		},
		Placeholders: Placeholders{
			PaybackVsTarget:   3.0,
			RouteFit:          3.0,
			InstallComplexity: 3.0,
		},
		Bands: Bands{
			Greenlight: 0.75,
			Watchlist:  0.60,
		},
	}
}

// LoadCalibration loads a scoring policy from a JSON calibration file.
// Partial configurations are merged with defaults for graceful
// degradation; on any read or parse failure the defaults are returned
// alongside the error.
func LoadCalibration(filePath string) (*Policy, error) {
	if filePath == "" {
		return DefaultPolicy(), nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		slog.Warn("failed to read calibration file, using defaults",
			"path", filePath,
			"error", err)
		return DefaultPolicy(), fmt.Errorf("failed to read calibration file: %w", err)
	}

	var config CalibrationConfig
	if err := json.Unmarshal(data, &config); err != nil {
		slog.Warn("failed to parse calibration file, using defaults",
			"path", filePath,
			"error", err)
		return DefaultPolicy(), fmt.Errorf("failed to parse calibration file: %w", err)
	}

	defaults := DefaultPolicy()
	merged := MergeCalibration(defaults, &config.Policy)
	logCalibrationOverrides(defaults, merged)

	return merged, nil
}

// MergeCalibration merges an override policy onto a base policy.
// Only non-zero override values are applied, allowing partial
// calibration files.
func MergeCalibration(base *Policy, override *Policy) *Policy {
	if base == nil {
		return DefaultPolicy()
	}
	if override == nil {
		result := *base
		return &result
	}

	result := *base

	for _, f := range policyFields(&result, override) {
		if *f.override != 0 {
			*f.target = *f.override
		}
	}

	return &result
}

// policyField pairs a target float with its override for merge and
// override logging.
type policyField struct {
	name     string
	target   *float64
	override *float64
}

// policyFields enumerates every tunable float in a policy pair. Keeping
// the field list in one place means merge and logging cannot drift.
func policyFields(a *Policy, b *Policy) []policyField {
	return []policyField{
		{"weights.foot_traffic", &a.Weights.FootTraffic, &b.Weights.FootTraffic},
		{"weights.target_demographic", &a.Weights.TargetDemographic, &b.Weights.TargetDemographic},
		{"weights.competition", &a.Weights.Competition, &b.Weights.Competition},
		{"weights.visibility", &a.Weights.Visibility, &b.Weights.Visibility},
		{"weights.parking_transit", &a.Weights.ParkingTransit, &b.Weights.ParkingTransit},
		{"weights.security", &a.Weights.Security, &b.Weights.Security},
		{"weights.amenities", &a.Weights.Amenities, &b.Weights.Amenities},
		{"weights.host_commission", &a.Weights.HostCommission, &b.Weights.HostCommission},
		{"weights.payback_vs_target", &a.Weights.PaybackVsTarget, &b.Weights.PaybackVsTarget},
		{"weights.route_fit", &a.Weights.RouteFit, &b.Weights.RouteFit},
		{"weights.install_complexity", &a.Weights.InstallComplexity, &b.Weights.InstallComplexity},
		{"weights.module_score", &a.Weights.ModuleScore, &b.Weights.ModuleScore},
		{"placeholders.payback_vs_target", &a.Placeholders.PaybackVsTarget, &b.Placeholders.PaybackVsTarget},
		{"placeholders.route_fit", &a.Placeholders.RouteFit, &b.Placeholders.RouteFit},
		{"placeholders.install_complexity", &a.Placeholders.InstallComplexity, &b.Placeholders.InstallComplexity},
		{"bands.greenlight", &a.Bands.Greenlight, &b.Bands.Greenlight},
		{"bands.watchlist", &a.Bands.Watchlist, &b.Bands.Watchlist},
	}
}

// logCalibrationOverrides logs which policy values were overridden from
// defaults.
func logCalibrationOverrides(defaults *Policy, loaded *Policy) {
	var overrides []string

	for _, f := range policyFields(defaults, loaded) {
		if *f.target != *f.override {
			overrides = append(overrides, fmt.Sprintf("%s: %.2f -> %.2f", f.name, *f.target, *f.override))
		}
	}

	if len(overrides) > 0 {
		slog.Info("loaded scoring calibration with overrides",
			"overrides", overrides)
	} else {
		slog.Info("loaded scoring calibration (using all defaults)")
	}
}
