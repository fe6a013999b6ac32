// Package site ties one General category, one module category, and one
// financial snapshot together per candidate site, and exposes the
// evaluation surface consumed by storage, UI, and export collaborators.
//
// A Location is owned and mutated by a single logical session at a
// time; callers serialize concurrent edits to the same aggregate.
// Evaluations of distinct aggregates share no mutable state and may run
// concurrently.
package site

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kettlevend/sitescout/internal/category"
	"github.com/kettlevend/sitescout/internal/finance"
	"github.com/kettlevend/sitescout/internal/scoring"
)

// Aggregate errors.
var (
	ErrEmptyName          = errors.New("location name is required")
	ErrEmptyAddress       = errors.New("location address is required")
	ErrModuleTypeMismatch = errors.New("module category type does not match the location's declared type")
	ErrNotFound           = errors.New("location not found")
)

// Location is the per-site aggregate: identity plus the owned General
// category, module category, and financial inputs. Owned records live
// and die with the aggregate.
type Location struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	Address    string              `json:"address"`
	ModuleType category.ModuleType `json:"module_type"`

	General    *category.General `json:"general"`
	Module     *category.Module  `json:"-"`
	Financials finance.Inputs    `json:"financials"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// New creates a Location for the declared module type with all
// sub-records defaulted: General zeroed, financials at documented
// defaults, module category zeroed for the chosen type.
func New(name, address string, moduleType category.ModuleType) (*Location, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyName
	}
	if strings.TrimSpace(address) == "" {
		return nil, ErrEmptyAddress
	}
	module, err := category.NewModule(moduleType)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Location{
		ID:         uuid.New().String(),
		Name:       name,
		Address:    address,
		ModuleType: moduleType,
		General:    category.NewGeneral(),
		Module:     module,
		Financials: finance.DefaultInputs(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// touch advances the updated timestamp after a mutation.
func (l *Location) touch() {
	l.UpdatedAt = time.Now().UTC()
}

// SetGeneralRating stores a manual rating and notes on a General
// sub-metric (permissive clamping).
func (l *Location) SetGeneralRating(dim category.Dimension, value int, notes string) {
	l.General.SetRating(dim, value, notes)
	l.touch()
}

// SetModuleRating stores a manual rating and notes on a module
// sub-metric. Fails for keys outside the declared type's fixed set.
func (l *Location) SetModuleRating(key string, value int, notes string) error {
	if err := l.Module.SetRating(key, value, notes); err != nil {
		return err
	}
	l.touch()
	return nil
}

// SetFinancials replaces the financial inputs snapshot.
func (l *Location) SetFinancials(in finance.Inputs) {
	l.Financials = in
	l.touch()
}

// SetFootTraffic records the observed daily foot traffic count.
func (l *Location) SetFootTraffic(dailyCount int) {
	l.General.SetFootTrafficDaily(dailyCount)
	l.touch()
}

// ReplaceModule swaps in a new module category, changing the declared
// type with it. This is the only way to change a location's type; the
// old module's ratings carry no residual influence.
func (l *Location) ReplaceModule(m *category.Module) {
	l.Module = m
	l.ModuleType = m.Type()
	l.touch()
}

// ModuleScore returns the module category average over rated
// sub-metrics.
func (l *Location) ModuleScore() float64 {
	return scoring.ComputeModuleScore(l.Module)
}

// OverallScore computes the weighted overall score restated on the 0-5
// scale for display consistency with sub-ratings. Returns 0.0 if the
// General category is absent.
func (l *Location) OverallScore(policy *scoring.Policy) float64 {
	if l.General == nil {
		return 0.0
	}
	return scoring.ComputeOverallScore(l.General, l.ModuleScore(), policy) * 5.0
}

// Decision maps the normalized overall score onto the placement tiers.
func (l *Location) Decision(policy *scoring.Policy) scoring.Decision {
	if policy == nil {
		policy = scoring.DefaultPolicy()
	}
	score := scoring.ComputeOverallScore(l.General, l.ModuleScore(), policy)
	return scoring.MapToDecision(score, policy.Bands)
}

// Projection computes the monthly P&L for the current financial inputs
// and observed foot traffic.
func (l *Location) Projection() finance.Projection {
	footTraffic := 0
	if l.General != nil {
		footTraffic = l.General.FootTrafficDaily
	}
	return finance.Project(l.Financials, footTraffic)
}

// primaryDimensions are the General ratings required for completeness.
var primaryDimensions = []category.Dimension{
	category.FootTraffic,
	category.TargetDemographic,
	category.Competition,
	category.Visibility,
	category.Security,
}

// IsComplete reports whether the five primary General dimensions are
// all rated and the module category has at least one rated sub-metric.
// A completeness signal for the UI, not a gate: an incomplete aggregate
// still produces a score, possibly depressed.
func (l *Location) IsComplete() bool {
	if l.General == nil || l.Module == nil {
		return false
	}
	for _, d := range primaryDimensions {
		if !l.General.Rating(d).Rated() {
			return false
		}
	}
	return l.Module.RatedCount() >= 1
}

// Evaluation is the read snapshot handed to collaborators: the score
// and the decision it produced are always carried together.
type Evaluation struct {
	LocationID      string             `json:"location_id"`
	Score           float64            `json:"score"`            // 0-5 display scale
	NormalizedScore float64            `json:"normalized_score"` // 0-1
	Decision        scoring.Decision   `json:"decision"`
	Projection      finance.Projection `json:"projection"`
	Complete        bool               `json:"complete"`
	Warnings        []string           `json:"warnings,omitempty"`
	ComputedAt      time.Time          `json:"computed_at"`
}

// Evaluate computes the full read snapshot. The only hard failure is
// structural misuse: a module category whose type does not match the
// location's declared type.
func (l *Location) Evaluate(policy *scoring.Policy) (*Evaluation, error) {
	if l.Module != nil && l.Module.Type() != l.ModuleType {
		return nil, ErrModuleTypeMismatch
	}
	if policy == nil {
		policy = scoring.DefaultPolicy()
	}

	normalized := scoring.ComputeOverallScore(l.General, l.ModuleScore(), policy)

	return &Evaluation{
		LocationID:      l.ID,
		Score:           normalized * 5.0,
		NormalizedScore: normalized,
		Decision:        scoring.MapToDecision(normalized, policy.Bands),
		Projection:      l.Projection(),
		Complete:        l.IsComplete(),
		Warnings:        l.Validate().Warnings,
		ComputedAt:      time.Now().UTC(),
	}, nil
}

// Clone returns a deep copy of the aggregate.
func (l *Location) Clone() *Location {
	out := *l
	if l.General != nil {
		out.General = l.General.Clone()
	}
	if l.Module != nil {
		out.Module = l.Module.Clone()
	}
	return &out
}
