// Package finance provides monthly profit/loss projections for a
// candidate site from its transaction economics.
//
// Project is a pure function over an Inputs snapshot and a daily foot
// traffic count. All monetary outputs are plain decimal amounts;
// currency rounding belongs to the presentation layer. A negative net
// monthly figure is a valid, reportable outcome, not an error:
// degenerate divisions return 0 or use a floored divisor so a
// projection always yields numbers.
package finance

// Input defaults, documented operating assumptions for a new site.
const (
	DefaultAvgTicketPrice   = 2.50
	DefaultCaptureRate      = 0.05
	DefaultDaysOpenPerMonth = 30

	// paybackFloor replaces a non-positive net monthly figure in the
	// payback division so the result stays finite.
	paybackFloor = 0.01
)

// Inputs is the transaction-economics snapshot for one site.
type Inputs struct {
	// AvgTicketPrice is the average transaction amount. Non-negative.
	AvgTicketPrice float64 `json:"avg_ticket_price"`

	// CaptureRate is the fraction of daily foot traffic converted to a
	// transaction, in [0, 1].
	CaptureRate float64 `json:"capture_rate"`

	// DaysOpenPerMonth is the number of selling days per month.
	DaysOpenPerMonth int `json:"days_open_per_month"`

	// Per-unit costs, non-negative.
	CostOfGoodsPerUnit  float64 `json:"cost_of_goods_per_unit"`
	VariableCostPerUnit float64 `json:"variable_cost_per_unit"`

	// Route servicing costs.
	RouteCostPerVisit   float64 `json:"route_cost_per_visit"`
	RouteVisitsPerMonth float64 `json:"route_visits_per_month"`

	// HostCommission is the host's share of gross revenue, in [0, 1].
	HostCommission float64 `json:"host_commission"`

	// CapitalExpense is the one-time machine and install cost.
	CapitalExpense float64 `json:"capital_expense"`
}

// DefaultInputs returns an Inputs with the documented defaults applied
// and every cost zeroed.
func DefaultInputs() Inputs {
	return Inputs{
		AvgTicketPrice:   DefaultAvgTicketPrice,
		CaptureRate:      DefaultCaptureRate,
		DaysOpenPerMonth: DefaultDaysOpenPerMonth,
	}
}

// Projection holds the derived monthly P&L figures for one site.
type Projection struct {
	TransactionsPerDay float64 `json:"transactions_per_day"`
	GrossMonthly       float64 `json:"gross_monthly"`
	ProductCosts       float64 `json:"product_costs"`
	RouteCosts         float64 `json:"route_costs"`
	Commission         float64 `json:"commission"`
	NetMonthly         float64 `json:"net_monthly"`

	// PerVendMargin is the retained margin fraction per transaction
	// after commission and unit costs.
	PerVendMargin float64 `json:"per_vend_margin"`

	// BreakevenPerDay is the daily transaction volume at which route
	// costs are exactly offset by per-transaction margin.
	BreakevenPerDay float64 `json:"breakeven_per_day"`

	// PaybackMonths is the months of net profit needed to repay the
	// capital expense.
	PaybackMonths float64 `json:"payback_months"`
}

// Project computes the monthly projection for the given inputs and
// daily foot traffic count.
func Project(in Inputs, footTrafficDaily int) Projection {
	txPerDay := float64(footTrafficDaily) * in.CaptureRate
	days := float64(in.DaysOpenPerMonth)

	gross := in.AvgTicketPrice * txPerDay * days
	productCosts := (in.CostOfGoodsPerUnit + in.VariableCostPerUnit) * txPerDay * days
	routeCosts := in.RouteCostPerVisit * in.RouteVisitsPerMonth
	commission := in.HostCommission * gross
	net := gross - productCosts - routeCosts - commission

	// Retained amount per transaction after the host's cut and unit costs.
	unitMargin := in.AvgTicketPrice*(1-in.HostCommission) - (in.CostOfGoodsPerUnit + in.VariableCostPerUnit)

	perVendMargin := 0.0
	if in.AvgTicketPrice > 0 {
		perVendMargin = unitMargin / in.AvgTicketPrice
	}

	breakeven := 0.0
	if denom := days * unitMargin; denom > 0 {
		breakeven = routeCosts / denom
	}

	floored := net
	if floored < paybackFloor {
		floored = paybackFloor
	}
	payback := in.CapitalExpense / floored

	return Projection{
		TransactionsPerDay: txPerDay,
		GrossMonthly:       gross,
		ProductCosts:       productCosts,
		RouteCosts:         routeCosts,
		Commission:         commission,
		NetMonthly:         net,
		PerVendMargin:      perVendMargin,
		BreakevenPerDay:    breakeven,
		PaybackMonths:      payback,
	}
}
