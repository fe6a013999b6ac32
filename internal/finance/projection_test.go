package finance

import (
	"math"
	"testing"
)

const tolerance = 0.0001

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < tolerance
}

// TestProjectWorkedExample reproduces the reference scenario exactly:
// 25 transactions/day at a 3.00 ticket over 30 days with a 10% host cut.
func TestProjectWorkedExample(t *testing.T) {
	in := Inputs{
		AvgTicketPrice:      3.0,
		CaptureRate:         0.05,
		DaysOpenPerMonth:    30,
		CostOfGoodsPerUnit:  1.2,
		VariableCostPerUnit: 0.2,
		RouteCostPerVisit:   15,
		RouteVisitsPerMonth: 6,
		HostCommission:      0.10,
	}

	p := Project(in, 500) // 500 * 0.05 = 25 tx/day

	if !almostEqual(p.TransactionsPerDay, 25) {
		t.Errorf("TransactionsPerDay = %f, want 25", p.TransactionsPerDay)
	}
	if !almostEqual(p.GrossMonthly, 2250.00) {
		t.Errorf("GrossMonthly = %f, want 2250.00", p.GrossMonthly)
	}
	if !almostEqual(p.ProductCosts, 1050.00) {
		t.Errorf("ProductCosts = %f, want 1050.00", p.ProductCosts)
	}
	if !almostEqual(p.RouteCosts, 90.00) {
		t.Errorf("RouteCosts = %f, want 90.00", p.RouteCosts)
	}
	if !almostEqual(p.Commission, 225.00) {
		t.Errorf("Commission = %f, want 225.00", p.Commission)
	}
	if !almostEqual(p.NetMonthly, 885.00) {
		t.Errorf("NetMonthly = %f, want 885.00", p.NetMonthly)
	}

	// Per-vend margin: (3*0.9 - 1.4) / 3 = 1.3/3
	if !almostEqual(p.PerVendMargin, 1.3/3.0) {
		t.Errorf("PerVendMargin = %f, want %f", p.PerVendMargin, 1.3/3.0)
	}

	// Breakeven: 90 / (30 * 1.3) = 2.3077 tx/day
	if !almostEqual(p.BreakevenPerDay, 90.0/39.0) {
		t.Errorf("BreakevenPerDay = %f, want %f", p.BreakevenPerDay, 90.0/39.0)
	}
}

// TestProjectDegenerateCases tests the division guards.
func TestProjectDegenerateCases(t *testing.T) {
	t.Run("zero ticket price", func(t *testing.T) {
		in := DefaultInputs()
		in.AvgTicketPrice = 0

		p := Project(in, 300)
		if p.PerVendMargin != 0 {
			t.Errorf("PerVendMargin = %f, want 0", p.PerVendMargin)
		}
		if p.GrossMonthly != 0 {
			t.Errorf("GrossMonthly = %f, want 0", p.GrossMonthly)
		}
	})

	t.Run("non-positive breakeven denominator", func(t *testing.T) {
		in := DefaultInputs()
		in.AvgTicketPrice = 1.0
		in.CostOfGoodsPerUnit = 2.0 // unit margin negative
		in.RouteCostPerVisit = 10
		in.RouteVisitsPerMonth = 4

		p := Project(in, 300)
		if p.BreakevenPerDay != 0 {
			t.Errorf("BreakevenPerDay = %f, want 0", p.BreakevenPerDay)
		}
	})

	t.Run("payback floor on zero net", func(t *testing.T) {
		in := Inputs{
			DaysOpenPerMonth: 30,
			CapitalExpense:   1000,
		}

		p := Project(in, 0)
		if p.NetMonthly != 0 {
			t.Fatalf("NetMonthly = %f, want 0", p.NetMonthly)
		}
		if !almostEqual(p.PaybackMonths, 100000.0) {
			t.Errorf("PaybackMonths = %f, want 100000 via 0.01 floor", p.PaybackMonths)
		}
		if math.IsInf(p.PaybackMonths, 0) || math.IsNaN(p.PaybackMonths) {
			t.Error("PaybackMonths must be finite")
		}
	})

	t.Run("negative net is reportable", func(t *testing.T) {
		in := DefaultInputs()
		in.RouteCostPerVisit = 50
		in.RouteVisitsPerMonth = 8

		p := Project(in, 0) // no traffic, only route costs
		if !almostEqual(p.NetMonthly, -400.0) {
			t.Errorf("NetMonthly = %f, want -400.00", p.NetMonthly)
		}
	})
}

// TestDefaultInputs verifies the documented defaults.
func TestDefaultInputs(t *testing.T) {
	in := DefaultInputs()
	if in.AvgTicketPrice != 2.50 {
		t.Errorf("AvgTicketPrice = %f, want 2.50", in.AvgTicketPrice)
	}
	if in.CaptureRate != 0.05 {
		t.Errorf("CaptureRate = %f, want 0.05", in.CaptureRate)
	}
	if in.DaysOpenPerMonth != 30 {
		t.Errorf("DaysOpenPerMonth = %d, want 30", in.DaysOpenPerMonth)
	}
}
