// Package category provides the rateable metric groups for a site:
// the module-independent General category and the per-module-type
// variants. Each holds a fixed set of named sub-metrics carrying a
// manual rating and free-text notes, with an inferred score derived
// from the notes for display alongside the manual value.
package category

import (
	"github.com/kettlevend/sitescout/internal/classify"
	"github.com/kettlevend/sitescout/internal/rating"
)

// Dimension identifies a General category sub-metric.
type Dimension string

// The eight General sub-metrics.
const (
	FootTraffic       Dimension = "foot_traffic"
	TargetDemographic Dimension = "target_demographic"
	HostCommission    Dimension = "host_commission"
	Competition       Dimension = "competition"
	Visibility        Dimension = "visibility"
	Security          Dimension = "security"
	ParkingTransit    Dimension = "parking_transit"
	Amenities         Dimension = "amenities"
)

// GeneralDimensions lists all General sub-metrics in display order.
var GeneralDimensions = []Dimension{
	FootTraffic,
	TargetDemographic,
	HostCommission,
	Competition,
	Visibility,
	Security,
	ParkingTransit,
	Amenities,
}

// generalTiers maps text-inferred dimensions to their keyword tables.
// Foot traffic and host commission are inferred from numeric facts
// instead and are absent here.
var generalTiers = map[Dimension][]classify.Tier{
	TargetDemographic: classify.DemographicTiers,
	Competition:       classify.CompetitionTiers,
	Visibility:        classify.VisibilityTiers,
	Security:          classify.SecurityTiers,
	ParkingTransit:    classify.ParkingTransitTiers,
	Amenities:         classify.AmenityTiers,
}

// MinRatedForAverage is the minimum number of rated General sub-metrics
// required before Average reports a value. Below it the category reports
// 0.0 rather than a misleadingly confident partial average.
const MinRatedForAverage = 3

// Metric is one rateable sub-metric: a manual rating plus verbatim notes.
type Metric struct {
	Manual rating.Value `json:"manual"`
	Notes  string       `json:"notes"`
}

// General holds the module-independent facts and sub-metrics for a site.
type General struct {
	// FootTrafficDaily is the single source of truth for traffic
	// volume, observed people per day. Never negative.
	FootTrafficDaily int `json:"foot_traffic_daily"`

	// DemographicText and CompetitionText are observed free-text facts
	// used for inference when the sub-metric notes are empty.
	DemographicText string `json:"demographic_text"`
	CompetitionText string `json:"competition_text"`

	// CommissionFraction is the host's revenue share, in [0, 1].
	CommissionFraction float64 `json:"commission_fraction"`

	metrics map[Dimension]*Metric
}

// NewGeneral creates a General category with all sub-metrics unrated.
func NewGeneral() *General {
	g := &General{metrics: make(map[Dimension]*Metric, len(GeneralDimensions))}
	for _, d := range GeneralDimensions {
		g.metrics[d] = &Metric{}
	}
	return g
}

// SetRating stores a manual rating and notes for a sub-metric. The
// rating is clamped into [0, 5]; notes are stored verbatim. Unknown
// dimensions are ignored (the dimension set is fixed).
func (g *General) SetRating(dim Dimension, value int, notes string) {
	m, ok := g.metrics[dim]
	if !ok {
		return
	}
	m.Manual = rating.Clamp(value)
	m.Notes = notes
}

// Rating returns the manual rating for a sub-metric, Unrated if unknown.
func (g *General) Rating(dim Dimension) rating.Value {
	if m, ok := g.metrics[dim]; ok {
		return m.Manual
	}
	return rating.Unrated
}

// Notes returns the stored notes for a sub-metric.
func (g *General) Notes(dim Dimension) string {
	if m, ok := g.metrics[dim]; ok {
		return m.Notes
	}
	return ""
}

// SetFootTrafficDaily records the observed daily count, floored at zero.
func (g *General) SetFootTrafficDaily(count int) {
	if count < 0 {
		count = 0
	}
	g.FootTrafficDaily = count
}

// SetCommissionFraction records the host commission share, clamped
// into [0, 1].
func (g *General) SetCommissionFraction(fraction float64) {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	g.CommissionFraction = fraction
}

// Inferred computes the heuristic score for a sub-metric. Foot traffic
// and commission derive from their numeric facts; the rest derive from
// notes text (falling back to the category-level text fields). Inferred
// scores are informational and never feed the weighted overall score.
func (g *General) Inferred(dim Dimension) rating.Value {
	switch dim {
	case FootTraffic:
		return classify.FootTraffic(g.FootTrafficDaily)
	case HostCommission:
		return classify.Commission(g.CommissionFraction)
	}

	tiers, ok := generalTiers[dim]
	if !ok {
		return rating.Unrated
	}

	text := g.Notes(dim)
	if text == "" {
		switch dim {
		case TargetDemographic:
			text = g.DemographicText
		case Competition:
			text = g.CompetitionText
		}
	}
	return classify.Classify(text, tiers)
}

// RatedCount returns how many sub-metrics carry a manual rating.
func (g *General) RatedCount() int {
	n := 0
	for _, m := range g.metrics {
		if m.Manual.Rated() {
			n++
		}
	}
	return n
}

// Average returns the arithmetic mean of the rated sub-metrics.
// Fewer than MinRatedForAverage rated sub-metrics reports 0.0
// (insufficient data), not a partial average.
func (g *General) Average() float64 {
	var sum, count int
	for _, m := range g.metrics {
		if m.Manual.Rated() {
			sum += int(m.Manual)
			count++
		}
	}
	if count < MinRatedForAverage {
		return 0.0
	}
	return float64(sum) / float64(count)
}

// Clone returns a deep copy of the category.
func (g *General) Clone() *General {
	out := NewGeneral()
	out.FootTrafficDaily = g.FootTrafficDaily
	out.DemographicText = g.DemographicText
	out.CompetitionText = g.CompetitionText
	out.CommissionFraction = g.CommissionFraction
	for d, m := range g.metrics {
		copied := *m
		out.metrics[d] = &copied
	}
	return out
}

// Metrics returns a copy of the sub-metric map for persistence.
func (g *General) Metrics() map[Dimension]Metric {
	out := make(map[Dimension]Metric, len(g.metrics))
	for d, m := range g.metrics {
		out[d] = *m
	}
	return out
}
