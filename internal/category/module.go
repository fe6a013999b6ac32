package category

import (
	"errors"

	"github.com/kettlevend/sitescout/internal/classify"
	"github.com/kettlevend/sitescout/internal/rating"
)

// ModuleType is the site-type variant determining which module
// sub-metrics apply. Chosen at site creation and immutable; changing
// type means replacing the module category instance.
type ModuleType string

// Supported module types.
const (
	Office      ModuleType = "office"
	Hospital    ModuleType = "hospital"
	School      ModuleType = "school"
	Residential ModuleType = "residential"
)

// Module category errors.
var (
	ErrUnknownModuleType = errors.New("unknown module type: must be office, hospital, school, or residential")
	ErrUnknownDimension  = errors.New("unknown dimension for module type")
)

// moduleDimensions fixes the sub-metric set per module type. A single
// table keeps the variant dispatch in one place instead of scattered
// type switches.
var moduleDimensions = map[ModuleType][]string{
	Office: {
		"common_areas",
		"hours_access",
		"tenant_amenities",
		"proximity_hub_transit",
		"branding_restrictions",
		"layout_type",
	},
	Hospital: {
		"waiting_areas",
		"staff_break_rooms",
		"visitor_traffic",
		"cafeteria_gap",
		"round_the_clock_access",
		"procurement_restrictions",
	},
	School: {
		"student_footfall",
		"campus_housing",
		"athletic_facilities",
		"vending_policy",
		"summer_dropoff",
		"admin_approval",
	},
	Residential: {
		"unit_count",
		"common_room_access",
		"package_area_traffic",
		"laundry_rooms",
		"hoa_restrictions",
		"guest_traffic",
	},
}

// ValidModuleType reports whether t is a supported site type.
func ValidModuleType(t ModuleType) bool {
	_, ok := moduleDimensions[t]
	return ok
}

// Module is one site-type variant of the rateable category: a fixed set
// of named sub-metrics for the declared type.
type Module struct {
	moduleType ModuleType
	metrics    map[string]*Metric
}

// NewModule creates a zeroed module category for the given site type.
func NewModule(t ModuleType) (*Module, error) {
	dims, ok := moduleDimensions[t]
	if !ok {
		return nil, ErrUnknownModuleType
	}
	m := &Module{
		moduleType: t,
		metrics:    make(map[string]*Metric, len(dims)),
	}
	for _, d := range dims {
		m.metrics[d] = &Metric{}
	}
	return m, nil
}

// Type returns the module's site type.
func (m *Module) Type() ModuleType {
	return m.moduleType
}

// Dimensions returns the fixed sub-metric keys for this module type,
// in display order.
func (m *Module) Dimensions() []string {
	dims := moduleDimensions[m.moduleType]
	out := make([]string, len(dims))
	copy(out, dims)
	return out
}

// SetRating stores a manual rating and notes for a sub-metric, clamping
// the rating into [0, 5]. Returns ErrUnknownDimension for keys outside
// this module type's fixed set.
func (m *Module) SetRating(key string, value int, notes string) error {
	metric, ok := m.metrics[key]
	if !ok {
		return ErrUnknownDimension
	}
	metric.Manual = rating.Clamp(value)
	metric.Notes = notes
	return nil
}

// Rating returns the manual rating for a sub-metric, Unrated if unknown.
func (m *Module) Rating(key string) rating.Value {
	if metric, ok := m.metrics[key]; ok {
		return metric.Manual
	}
	return rating.Unrated
}

// Notes returns the stored notes for a sub-metric.
func (m *Module) Notes(key string) string {
	if metric, ok := m.metrics[key]; ok {
		return metric.Notes
	}
	return ""
}

// Inferred computes the heuristic score for a sub-metric from its notes
// using the generic quality tiers. Informational only.
func (m *Module) Inferred(key string) rating.Value {
	metric, ok := m.metrics[key]
	if !ok {
		return rating.Unrated
	}
	return classify.Classify(metric.Notes, classify.QualityTiers)
}

// RatedCount returns how many sub-metrics carry a manual rating.
func (m *Module) RatedCount() int {
	n := 0
	for _, metric := range m.metrics {
		if metric.Manual.Rated() {
			n++
		}
	}
	return n
}

// Average returns the arithmetic mean of the rated sub-metrics, 0.0 if
// none are rated. Unlike General, module variants report an average
// from any rated count.
func (m *Module) Average() float64 {
	var sum, count int
	for _, metric := range m.metrics {
		if metric.Manual.Rated() {
			sum += int(metric.Manual)
			count++
		}
	}
	if count == 0 {
		return 0.0
	}
	return float64(sum) / float64(count)
}

// Clone returns a deep copy of the module category.
func (m *Module) Clone() *Module {
	out := &Module{
		moduleType: m.moduleType,
		metrics:    make(map[string]*Metric, len(m.metrics)),
	}
	for k, metric := range m.metrics {
		copied := *metric
		out.metrics[k] = &copied
	}
	return out
}

// Metrics returns a copy of the sub-metric map for persistence.
func (m *Module) Metrics() map[string]Metric {
	out := make(map[string]Metric, len(m.metrics))
	for k, metric := range m.metrics {
		out[k] = *metric
	}
	return out
}
