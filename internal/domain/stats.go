package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatsFilter bounds the record set an aggregation runs over. Both
// bounds are inclusive; nil means unbounded.
type StatsFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
}

// CategoryAggregate is one GROUP BY category row.
type CategoryAggregate struct {
	Category ExpenseCategory
	Total    decimal.Decimal
	Count    int64
}

// MonthlyAggregate is one calendar-month rollup row.
type MonthlyAggregate struct {
	Month string // YYYY-MM
	Total decimal.Decimal
	Count int64
}

// StatsSummary holds the headline aggregate figures.
type StatsSummary struct {
	TotalAmount    decimal.Decimal
	TotalCount     int64
	AverageAmount  decimal.Decimal
	HighestExpense *Expense
}

// CategoryBreakdown is a category aggregate with its share of the
// filtered total.
type CategoryBreakdown struct {
	Category   ExpenseCategory
	Total      decimal.Decimal
	Count      int64
	Percentage decimal.Decimal
}

// ExpenseStats is the full statistics payload.
type ExpenseStats struct {
	Summary           StatsSummary
	CategoryBreakdown []*CategoryBreakdown
	MonthlySpending   []*MonthlyAggregate
	RecentExpenses    []*Expense
}
