package scoring

import (
	"github.com/kettlevend/sitescout/internal/category"
)

// Decision is the three-tier placement recommendation derived from the
// overall score. It is never stored independently of the score that
// produced it.
type Decision string

// Placement decisions.
const (
	Greenlight Decision = "greenlight"
	Watchlist  Decision = "watchlist"
	Pass       Decision = "pass"
)

// ComputeModuleScore returns the module category's average over rated
// sub-metrics, 0.0 when nothing is rated or the category is absent.
func ComputeModuleScore(m *category.Module) float64 {
	if m == nil {
		return 0.0
	}
	return m.Average()
}

// ComputeOverallScore combines the General category's manual ratings,
// the placeholder-fed dimensions, and the module score into a
// normalized [0, 1] score.
//
// weightedSum = sum(rating_i * weight_i); result = weightedSum / totalWeight / 5.
// The division by 5 restates the 0-5 rating scale onto [0, 1]. An
// unrated dimension adds 0 to the sum but its weight stays in the
// denominator, so missing ratings depress the score.
func ComputeOverallScore(general *category.General, moduleScore float64, policy *Policy) float64 {
	if general == nil {
		return 0.0
	}
	if policy == nil {
		policy = DefaultPolicy()
	}

	w := policy.Weights
	weightedSum := float64(general.Rating(category.FootTraffic))*w.FootTraffic +
		float64(general.Rating(category.TargetDemographic))*w.TargetDemographic +
		float64(general.Rating(category.Competition))*w.Competition +
		float64(general.Rating(category.Visibility))*w.Visibility +
		float64(general.Rating(category.ParkingTransit))*w.ParkingTransit +
		float64(general.Rating(category.Security))*w.Security +
		float64(general.Rating(category.Amenities))*w.Amenities +
		float64(general.Rating(category.HostCommission))*w.HostCommission

	weightedSum += policy.Placeholders.PaybackVsTarget * w.PaybackVsTarget
	weightedSum += policy.Placeholders.RouteFit * w.RouteFit
	weightedSum += policy.Placeholders.InstallComplexity * w.InstallComplexity

	weightedSum += moduleScore * w.ModuleScore

	total := w.Total()
	if total <= 0 {
		return 0.0
	}

	return weightedSum / total / 5.0
}

// MapToDecision maps a normalized [0, 1] score onto the placement
// decision. Bands are inclusive on their lower bound.
func MapToDecision(score float64, bands Bands) Decision {
	switch {
	case score >= bands.Greenlight:
		return Greenlight
	case score >= bands.Watchlist:
		return Watchlist
	default:
		return Pass
	}
}
