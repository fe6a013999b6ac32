package site

import (
	"context"
	"sync"

	"github.com/kettlevend/sitescout/internal/scoring"
)

// DefaultBatchWorkers bounds concurrent evaluations in a batch run.
const DefaultBatchWorkers = 8

// BatchResult pairs one location with its evaluation outcome.
type BatchResult struct {
	Location   *Location
	Evaluation *Evaluation
	Err        error
}

// EvaluateAll scores a set of aggregates concurrently. Every
// aggregate's computation is independent with no shared mutable state,
// so the batch is embarrassingly parallel; workers bounds the
// concurrency. Results are returned in input order. A cancelled context
// leaves the remaining results with ctx.Err().
func EvaluateAll(ctx context.Context, locations []*Location, policy *scoring.Policy, workers int) []BatchResult {
	if workers <= 0 {
		workers = DefaultBatchWorkers
	}
	if policy == nil {
		policy = scoring.DefaultPolicy()
	}

	results := make([]BatchResult, len(locations))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i, loc := range locations {
		if err := ctx.Err(); err != nil {
			results[i] = BatchResult{Location: loc, Err: err}
			continue
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(i int, loc *Location) {
			defer wg.Done()
			defer func() { <-sem }()

			eval, err := loc.Evaluate(policy)
			results[i] = BatchResult{Location: loc, Evaluation: eval, Err: err}
		}(i, loc)
	}

	wg.Wait()
	return results
}
