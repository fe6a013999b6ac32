package site

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kettlevend/sitescout/internal/category"
	"github.com/kettlevend/sitescout/internal/finance"
	"github.com/kettlevend/sitescout/internal/tracing"
)

// generalCategoryKey is the ratings-table category value for General
// sub-metrics; module sub-metrics use the module type as the key.
const generalCategoryKey = "general"

// PostgresRepository implements Repository using PostgreSQL with full
// transaction support: the location row, its rating rows, and its
// financial row are written all-or-nothing.
type PostgresRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresRepository creates a new PostgresRepository.
func NewPostgresRepository(db *sql.DB, logger *slog.Logger) *PostgresRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresRepository{db: db, logger: logger}
}

// Save stores or replaces the aggregate inside one transaction.
func (r *PostgresRepository) Save(ctx context.Context, loc *Location) (err error) {
	ctx, endSpan := tracing.StartDBSpan(ctx, "locations", tracing.DBOperationInsert)
	defer func() { endSpan(err) }()

	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		r.logger.Error("failed to begin transaction",
			slog.String("error", err.Error()),
			slog.String("location_id", loc.ID))
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	// Always attempt rollback on function exit (no-op after commit).
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			r.logger.Warn("failed to rollback transaction",
				slog.String("error", err.Error()))
		}
	}()

	const upsertLocation = `
		INSERT INTO locations (
			id, name, address, module_type,
			foot_traffic_daily, demographic_text, competition_text,
			commission_fraction, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			address = EXCLUDED.address,
			module_type = EXCLUDED.module_type,
			foot_traffic_daily = EXCLUDED.foot_traffic_daily,
			demographic_text = EXCLUDED.demographic_text,
			competition_text = EXCLUDED.competition_text,
			commission_fraction = EXCLUDED.commission_fraction,
			updated_at = EXCLUDED.updated_at`

	g := loc.General
	if g == nil {
		g = category.NewGeneral()
	}
	if _, err := tx.ExecContext(ctx, upsertLocation,
		loc.ID, loc.Name, loc.Address, string(loc.ModuleType),
		g.FootTrafficDaily, g.DemographicText, g.CompetitionText,
		g.CommissionFraction, loc.CreatedAt, loc.UpdatedAt,
	); err != nil {
		return fmt.Errorf("failed to upsert location: %w", err)
	}

	// Replace the rating rows wholesale; the fixed dimension sets are
	// small and this keeps deletes of unrated metrics correct.
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM location_ratings WHERE location_id = $1`, loc.ID); err != nil {
		return fmt.Errorf("failed to clear ratings: %w", err)
	}

	const insertRating = `
		INSERT INTO location_ratings (location_id, category, dimension, rating, notes)
		VALUES ($1, $2, $3, $4, $5)`

	for dim, metric := range g.Metrics() {
		if _, err := tx.ExecContext(ctx, insertRating,
			loc.ID, generalCategoryKey, string(dim), int(metric.Manual), metric.Notes); err != nil {
			return fmt.Errorf("failed to insert general rating: %w", err)
		}
	}
	if loc.Module != nil {
		for key, metric := range loc.Module.Metrics() {
			if _, err := tx.ExecContext(ctx, insertRating,
				loc.ID, string(loc.Module.Type()), key, int(metric.Manual), metric.Notes); err != nil {
				return fmt.Errorf("failed to insert module rating: %w", err)
			}
		}
	}

	const upsertFinancials = `
		INSERT INTO location_financials (
			location_id, avg_ticket_price, capture_rate, days_open_per_month,
			cost_of_goods_per_unit, variable_cost_per_unit,
			route_cost_per_visit, route_visits_per_month,
			host_commission, capital_expense
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (location_id) DO UPDATE SET
			avg_ticket_price = EXCLUDED.avg_ticket_price,
			capture_rate = EXCLUDED.capture_rate,
			days_open_per_month = EXCLUDED.days_open_per_month,
			cost_of_goods_per_unit = EXCLUDED.cost_of_goods_per_unit,
			variable_cost_per_unit = EXCLUDED.variable_cost_per_unit,
			route_cost_per_visit = EXCLUDED.route_cost_per_visit,
			route_visits_per_month = EXCLUDED.route_visits_per_month,
			host_commission = EXCLUDED.host_commission,
			capital_expense = EXCLUDED.capital_expense`

	f := loc.Financials
	if _, err := tx.ExecContext(ctx, upsertFinancials,
		loc.ID, f.AvgTicketPrice, f.CaptureRate, f.DaysOpenPerMonth,
		f.CostOfGoodsPerUnit, f.VariableCostPerUnit,
		f.RouteCostPerVisit, f.RouteVisitsPerMonth,
		f.HostCommission, f.CapitalExpense,
	); err != nil {
		return fmt.Errorf("failed to upsert financials: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetByID rehydrates the full aggregate.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (loc *Location, err error) {
	ctx, endSpan := tracing.StartDBSpan(ctx, "locations", tracing.DBOperationQuery)
	defer func() { endSpan(err) }()

	const selectLocation = `
		SELECT id, name, address, module_type,
		       foot_traffic_daily, demographic_text, competition_text,
		       commission_fraction, created_at, updated_at
		FROM locations WHERE id = $1`

	loc = &Location{General: category.NewGeneral()}
	var moduleType string
	err = r.db.QueryRowContext(ctx, selectLocation, id).Scan(
		&loc.ID, &loc.Name, &loc.Address, &moduleType,
		&loc.General.FootTrafficDaily, &loc.General.DemographicText,
		&loc.General.CompetitionText, &loc.General.CommissionFraction,
		&loc.CreatedAt, &loc.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load location: %w", err)
	}

	loc.ModuleType = category.ModuleType(moduleType)
	module, err := category.NewModule(loc.ModuleType)
	if err != nil {
		return nil, fmt.Errorf("stored module type %q: %w", moduleType, err)
	}
	loc.Module = module

	const selectFinancials = `
		SELECT avg_ticket_price, capture_rate, days_open_per_month,
		       cost_of_goods_per_unit, variable_cost_per_unit,
		       route_cost_per_visit, route_visits_per_month,
		       host_commission, capital_expense
		FROM location_financials WHERE location_id = $1`

	var f finance.Inputs
	err = r.db.QueryRowContext(ctx, selectFinancials, id).Scan(
		&f.AvgTicketPrice, &f.CaptureRate, &f.DaysOpenPerMonth,
		&f.CostOfGoodsPerUnit, &f.VariableCostPerUnit,
		&f.RouteCostPerVisit, &f.RouteVisitsPerMonth,
		&f.HostCommission, &f.CapitalExpense,
	)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		f = finance.DefaultInputs()
	case err != nil:
		return nil, fmt.Errorf("failed to load financials: %w", err)
	}
	loc.Financials = f

	const selectRatings = `
		SELECT category, dimension, rating, notes
		FROM location_ratings WHERE location_id = $1`

	rows, err := r.db.QueryContext(ctx, selectRatings, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load ratings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var cat, dim, notes string
		var ratingValue int
		if err := rows.Scan(&cat, &dim, &ratingValue, &notes); err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}

		if cat == generalCategoryKey {
			loc.General.SetRating(category.Dimension(dim), ratingValue, notes)
			continue
		}
		if err := loc.Module.SetRating(dim, ratingValue, notes); err != nil {
			// A row from an older dimension set; drop it rather than
			// fail the whole load.
			r.logger.Warn("skipping rating with unknown dimension",
				slog.String("location_id", id),
				slog.String("category", cat),
				slog.String("dimension", dim))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ratings: %w", err)
	}

	return loc, nil
}

// Delete removes the aggregate; rating and financial rows cascade via
// foreign keys.
func (r *PostgresRepository) Delete(ctx context.Context, id string) (err error) {
	ctx, endSpan := tracing.StartDBSpan(ctx, "locations", tracing.DBOperationDelete)
	defer func() { endSpan(err) }()

	result, err := r.db.ExecContext(ctx, `DELETE FROM locations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete location: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns location summaries, most recently updated first.
func (r *PostgresRepository) List(ctx context.Context) (summaries []Summary, err error) {
	ctx, endSpan := tracing.StartDBSpan(ctx, "locations", tracing.DBOperationQuery)
	defer func() { endSpan(err) }()

	const query = `
		SELECT id, name, address, module_type, updated_at
		FROM locations ORDER BY updated_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s Summary
		var moduleType string
		if err := rows.Scan(&s.ID, &s.Name, &s.Address, &moduleType, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan summary: %w", err)
		}
		s.ModuleType = category.ModuleType(moduleType)
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate summaries: %w", err)
	}
	return summaries, nil
}
