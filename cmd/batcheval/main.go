// Package main is the entry point for the batch evaluation tool. It
// scores every stored location and prints a ranked report, for route
// planning runs outside the API server.
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/kettlevend/sitescout/internal/config"
	"github.com/kettlevend/sitescout/internal/middleware"
	"github.com/kettlevend/sitescout/internal/scoring"
	"github.com/kettlevend/sitescout/internal/site"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file (env vars take precedence)")
	workers := flag.Int("workers", site.DefaultBatchWorkers, "number of concurrent evaluation workers")
	jsonOut := flag.Bool("json", false, "emit JSON instead of a table")
	help := flag.Bool("help", false, "display help message")
	flag.Parse()

	if *help {
		fmt.Println("SiteScout Batch Evaluator")
		fmt.Println()
		fmt.Println("Usage: batcheval [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		os.Exit(0)
	}

	cfg, errs := config.Load(*configPath)
	if len(errs) > 0 {
		for _, err := range errs {
			fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		}
		os.Exit(1)
	}

	logger := middleware.NewLogger(cfg.Env)
	slog.SetDefault(logger)

	policy := scoring.DefaultPolicy()
	if cfg.CalibrationPath != "" {
		var err error
		policy, err = scoring.LoadCalibration(cfg.CalibrationPath)
		if err != nil {
			logger.Error("failed to load calibration", "path", cfg.CalibrationPath, "error", err)
			os.Exit(1)
		}
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}

	repo := site.NewPostgresRepository(db, logger)
	results, err := evaluateAll(ctx, repo, policy, *workers)
	if err != nil {
		logger.Error("batch evaluation failed", "error", err)
		os.Exit(1)
	}

	if *jsonOut {
		printJSON(results)
		return
	}
	printTable(results)
}

// reportRow is one evaluated location in the batch report.
type reportRow struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	ModuleType string  `json:"module_type"`
	Score      float64 `json:"score"`
	Decision   string  `json:"decision"`
	NetMonthly float64 `json:"net_monthly"`
	Complete   bool    `json:"complete"`
	Error      string  `json:"error,omitempty"`
}

// evaluateAll loads every stored aggregate and scores the set
// concurrently, returning rows ordered best score first.
func evaluateAll(ctx context.Context, repo site.Repository, policy *scoring.Policy, workers int) ([]reportRow, error) {
	summaries, err := repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}

	locations := make([]*site.Location, 0, len(summaries))
	for _, s := range summaries {
		loc, err := repo.GetByID(ctx, s.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load location %s: %w", s.ID, err)
		}
		locations = append(locations, loc)
	}

	results := site.EvaluateAll(ctx, locations, policy, workers)

	rows := make([]reportRow, 0, len(results))
	for _, res := range results {
		row := reportRow{
			ID:         res.Location.ID,
			Name:       res.Location.Name,
			ModuleType: string(res.Location.ModuleType),
		}
		if res.Err != nil {
			row.Error = res.Err.Error()
		} else {
			row.Score = res.Evaluation.Score
			row.Decision = string(res.Evaluation.Decision)
			row.NetMonthly = res.Evaluation.Projection.NetMonthly
			row.Complete = res.Evaluation.Complete
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Score > rows[j].Score
	})
	return rows, nil
}

func printJSON(rows []reportRow) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rows); err != nil {
		slog.Error("failed to encode report", "error", err)
		os.Exit(1)
	}
}

func printTable(rows []reportRow) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SCORE\tDECISION\tNET/MO\tCOMPLETE\tMODULE\tNAME")
	for _, row := range rows {
		if row.Error != "" {
			fmt.Fprintf(w, "-\terror\t-\t-\t%s\t%s\t(%s)\n", row.ModuleType, row.Name, row.Error)
			continue
		}
		fmt.Fprintf(w, "%.2f\t%s\t%.2f\t%t\t%s\t%s\n",
			row.Score, row.Decision, row.NetMonthly, row.Complete, row.ModuleType, row.Name)
	}
	if err := w.Flush(); err != nil {
		slog.Error("failed to write report", "error", err)
	}
}
