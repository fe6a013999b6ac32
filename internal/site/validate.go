package site

import (
	"fmt"
	"strings"

	"github.com/kettlevend/sitescout/internal/category"
)

// ValidationResult collects all problems found in an aggregate so a
// caller can display them at once instead of failing per-field. Saving
// is expected to proceed with warnings but not with errors.
type ValidationResult struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// Valid reports whether the aggregate may be persisted.
func (r ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// Validate re-checks the aggregate's business rules before persistence.
// The rating setters clamp permissively; this boundary pass reports the
// conditions a caller should act on. Cross-field rule violations are
// errors; sparse-data conditions are warnings.
func (l *Location) Validate() ValidationResult {
	var res ValidationResult

	if strings.TrimSpace(l.Name) == "" {
		res.Errors = append(res.Errors, "name is required")
	}
	if strings.TrimSpace(l.Address) == "" {
		res.Errors = append(res.Errors, "address is required")
	}
	if !category.ValidModuleType(l.ModuleType) {
		res.Errors = append(res.Errors, fmt.Sprintf("unknown module type %q", l.ModuleType))
	}
	if l.Module != nil && l.Module.Type() != l.ModuleType {
		res.Errors = append(res.Errors, fmt.Sprintf("module category type %q does not match declared type %q", l.Module.Type(), l.ModuleType))
	}

	res.Errors = append(res.Errors, l.financialErrors()...)

	if l.General != nil {
		if l.General.CommissionFraction < 0 || l.General.CommissionFraction > 1 {
			res.Errors = append(res.Errors, "general commission fraction must be between 0 and 1")
		}
		if l.General.FootTrafficDaily < 0 {
			res.Errors = append(res.Errors, "foot traffic daily count must not be negative")
		}

		if l.General.FootTrafficDaily == 0 {
			res.Warnings = append(res.Warnings, "no foot traffic data recorded")
		}
		if l.General.RatedCount() < category.MinRatedForAverage {
			res.Warnings = append(res.Warnings, fmt.Sprintf("fewer than %d general sub-metrics rated; overall score reads as insufficient data", category.MinRatedForAverage))
		}
		for _, d := range primaryDimensions {
			if !l.General.Rating(d).Rated() {
				res.Warnings = append(res.Warnings, fmt.Sprintf("primary dimension %s is unrated and depresses the score", d))
			}
		}
	}

	if l.Module != nil && l.Module.RatedCount() == 0 {
		res.Warnings = append(res.Warnings, "module category has no rated sub-metrics")
	}

	return res
}

// financialErrors checks the financial inputs' range invariants.
func (l *Location) financialErrors() []string {
	var errs []string
	f := l.Financials

	nonNegative := []struct {
		name  string
		value float64
	}{
		{"avg_ticket_price", f.AvgTicketPrice},
		{"cost_of_goods_per_unit", f.CostOfGoodsPerUnit},
		{"variable_cost_per_unit", f.VariableCostPerUnit},
		{"route_cost_per_visit", f.RouteCostPerVisit},
		{"route_visits_per_month", f.RouteVisitsPerMonth},
		{"capital_expense", f.CapitalExpense},
	}
	for _, field := range nonNegative {
		if field.value < 0 {
			errs = append(errs, fmt.Sprintf("%s must not be negative", field.name))
		}
	}

	if f.DaysOpenPerMonth <= 0 {
		errs = append(errs, "days_open_per_month must be positive")
	}
	if f.CaptureRate < 0 || f.CaptureRate > 1 {
		errs = append(errs, "capture_rate must be between 0 and 1")
	}
	if f.HostCommission < 0 || f.HostCommission > 1 {
		errs = append(errs, "host_commission must be between 0 and 1")
	}

	return errs
}
