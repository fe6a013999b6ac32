package scoring

import (
	"testing"

	"github.com/kettlevend/sitescout/internal/category"
)

// BenchmarkComputeOverallScore measures the full weighted combination
// for a fully rated General category.
func BenchmarkComputeOverallScore(b *testing.B) {
	g := category.NewGeneral()
	for _, d := range category.GeneralDimensions {
		g.SetRating(d, 4, "benchmark notes")
	}
	policy := DefaultPolicy()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ComputeOverallScore(g, 4.0, policy)
	}
}

// BenchmarkMapToDecision measures the decision band lookup.
func BenchmarkMapToDecision(b *testing.B) {
	bands := DefaultPolicy().Bands

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		MapToDecision(0.72, bands)
	}
}
