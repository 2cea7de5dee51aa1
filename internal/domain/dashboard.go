package domain

import "github.com/shopspring/decimal"

// DashboardFilter selects the periods a dashboard is computed for. Dates are
// YYYY-MM-DD; empty comparison dates mean no comparison.
type DashboardFilter struct {
	StartDate           string `json:"start_date"`
	EndDate             string `json:"end_date"`
	ComparisonStartDate string `json:"comparison_start_date"`
	ComparisonEndDate   string `json:"comparison_end_date"`
	TopProducts         int    `json:"top_products"`
}

// KPI holds the headline figures of the primary period and, when a
// comparison is active, its evolution in percent.
type KPI struct {
	Revenue           decimal.Decimal  `json:"revenue"`
	Units             int64            `json:"units"`
	AverageBasket     decimal.Decimal  `json:"average_basket"`
	ComparisonRevenue *decimal.Decimal `json:"comparison_revenue,omitempty"`
	ComparisonUnits   *int64           `json:"comparison_units,omitempty"`
	RevenueEvolution  *decimal.Decimal `json:"revenue_evolution,omitempty"`
	UnitsEvolution    *decimal.Decimal `json:"units_evolution,omitempty"`
}

// Breakdown is one row of a segment or laboratory table.
type Breakdown struct {
	Name      string           `json:"name"`
	Revenue   decimal.Decimal  `json:"revenue"`
	Units     int64            `json:"units"`
	Share     decimal.Decimal  `json:"share"`
	Evolution *decimal.Decimal `json:"evolution,omitempty"`
}

// ProductSales is a product row of the top products table.
type ProductSales struct {
	CIP        string          `json:"cip"`
	Name       string          `json:"name"`
	Laboratory string          `json:"laboratory"`
	Segment    string          `json:"segment"`
	Revenue    decimal.Decimal `json:"revenue"`
	Units      int64           `json:"units"`
}

// Dashboard aggregates all dashboard data
type Dashboard struct {
	Filter       DashboardFilter `json:"filter"`
	KPI          KPI             `json:"kpi"`
	Segments     []Breakdown     `json:"segments"`
	Laboratories []Breakdown     `json:"laboratories"`
	TopProducts  []ProductSales  `json:"top_products"`
}
