package core

import "time"

// Derived dashboard payloads. All of these are recomputed on every request
// from the current store contents; none are persisted or cached.

// Summary holds the headline totals for one date window.
type Summary struct {
	Income               Money   `json:"income"`
	Expenses             Money   `json:"expenses"`
	Balance              Money   `json:"balance"`
	TransactionCount     int     `json:"transactionCount"`
	ExpenseChangePercent float64 `json:"expenseChange"`
}

// CategoryBreakdown is one row of the per-category expense aggregation.
// Rows are keyed by category ID so two categories sharing a display name
// never merge; the name and color are carried for rendering.
type CategoryBreakdown struct {
	CategoryID string `json:"categoryId"`
	Name       string `json:"name"`
	Amount     Money  `json:"amount"`
	Color      string `json:"color"`
	Count      int    `json:"count"`
}

// TrendPoint is one calendar month's income/expense totals within a
// trailing series.
type TrendPoint struct {
	Month    string `json:"month"`
	Income   Money  `json:"income"`
	Expenses Money  `json:"expenses"`
}

// DateRange is the resolved inclusive window a summary was computed over.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// DashboardSummary is the full summary payload for one request.
type DashboardSummary struct {
	Summary            Summary             `json:"summary"`
	CategoryBreakdown  []CategoryBreakdown `json:"categoryBreakdown"`
	RecentTransactions []Transaction       `json:"recentTransactions"`
	DateRange          DateRange           `json:"dateRange"`
}
