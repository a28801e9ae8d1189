package service

import (
	"testing"
	"time"

	"github.com/expenso/expenso-backend/internal/domain"
	"github.com/expenso/expenso-backend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStatsService() (*StatsService, *testutil.MockExpenseRepository) {
	expenseRepo := testutil.NewMockExpenseRepository()
	return NewStatsService(expenseRepo), expenseRepo
}

func addStatsExpense(repo *testutil.MockExpenseRepository, title string, amount float64, category domain.ExpenseCategory, date time.Time) {
	repo.AddExpense(&domain.Expense{
		Title:     title,
		Amount:    decimal.NewFromFloat(amount),
		Category:  category,
		Date:      date,
		CreatedAt: date,
		UpdatedAt: date,
	})
}

func TestGetStats_EmptyDataset(t *testing.T) {
	statsService, _ := setupStatsService()

	stats, err := statsService.GetStats(nil)
	require.NoError(t, err)

	assert.True(t, stats.Summary.TotalAmount.IsZero())
	assert.Equal(t, int64(0), stats.Summary.TotalCount)
	assert.True(t, stats.Summary.AverageAmount.IsZero())
	assert.Nil(t, stats.Summary.HighestExpense)
	assert.Empty(t, stats.CategoryBreakdown)
	assert.Empty(t, stats.MonthlySpending)
	assert.Empty(t, stats.RecentExpenses)
}

func TestGetStats_Summary(t *testing.T) {
	statsService, expenseRepo := setupStatsService()

	now := time.Now()
	addStatsExpense(expenseRepo, "A", 10, domain.CategoryFood, now)
	addStatsExpense(expenseRepo, "B", 20, domain.CategoryFood, now)
	addStatsExpense(expenseRepo, "C", 30, domain.CategoryTransport, now)

	stats, err := statsService.GetStats(nil)
	require.NoError(t, err)

	assert.True(t, stats.Summary.TotalAmount.Equal(decimal.NewFromInt(60)),
		"expected total 60, got %s", stats.Summary.TotalAmount)
	assert.Equal(t, int64(3), stats.Summary.TotalCount)
	assert.True(t, stats.Summary.AverageAmount.Equal(decimal.NewFromInt(20)),
		"expected average 20, got %s", stats.Summary.AverageAmount)

	require.NotNil(t, stats.Summary.HighestExpense)
	assert.Equal(t, "C", stats.Summary.HighestExpense.Title)
}

func TestGetStats_CategoryBreakdown(t *testing.T) {
	statsService, expenseRepo := setupStatsService()

	now := time.Now()
	addStatsExpense(expenseRepo, "Groceries", 75, domain.CategoryFood, now)
	addStatsExpense(expenseRepo, "Bus", 25, domain.CategoryTransport, now)

	stats, err := statsService.GetStats(nil)
	require.NoError(t, err)
	require.Len(t, stats.CategoryBreakdown, 2)

	// Sorted by total descending, so FOOD first.
	first := stats.CategoryBreakdown[0]
	assert.Equal(t, domain.CategoryFood, first.Category)
	assert.True(t, first.Percentage.Equal(decimal.NewFromInt(75)),
		"expected FOOD percentage 75, got %s", first.Percentage)

	percentageSum := decimal.Zero
	breakdownTotal := decimal.Zero
	for _, entry := range stats.CategoryBreakdown {
		percentageSum = percentageSum.Add(entry.Percentage)
		breakdownTotal = breakdownTotal.Add(entry.Total)
	}

	assert.True(t, percentageSum.Equal(decimal.NewFromInt(100)),
		"expected percentages to sum to 100, got %s", percentageSum)
	assert.True(t, breakdownTotal.Equal(stats.Summary.TotalAmount),
		"expected breakdown total %s to equal summary total %s", breakdownTotal, stats.Summary.TotalAmount)
}

func TestGetStats_MonthlySpendingWindow(t *testing.T) {
	statsService, expenseRepo := setupStatsService()

	now := time.Now()
	lastMonth := time.Date(now.Year(), now.Month(), 1, 12, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	addStatsExpense(expenseRepo, "This month", 40, domain.CategoryFood, now)
	addStatsExpense(expenseRepo, "Also this month", 10, domain.CategoryFood, now)
	addStatsExpense(expenseRepo, "Last month", 20, domain.CategoryFood, lastMonth)
	addStatsExpense(expenseRepo, "Two years ago", 99, domain.CategoryFood, now.AddDate(-2, 0, 0))

	stats, err := statsService.GetStats(nil)
	require.NoError(t, err)
	require.Len(t, stats.MonthlySpending, 2, "expected 2 months inside the window")

	// Most recent month first.
	current := stats.MonthlySpending[0]
	assert.True(t, current.Total.Equal(decimal.NewFromInt(50)),
		"expected current month total 50, got %s", current.Total)
	assert.Equal(t, int64(2), current.Count)
	assert.Greater(t, stats.MonthlySpending[0].Month, stats.MonthlySpending[1].Month,
		"expected months in descending order")
}

func TestGetStats_RecentExpensesLimit(t *testing.T) {
	statsService, expenseRepo := setupStatsService()

	now := time.Now()
	for i := 0; i < 8; i++ {
		addStatsExpense(expenseRepo, "Expense", 10, domain.CategoryOther, now.Add(time.Duration(i)*time.Minute))
	}

	stats, err := statsService.GetStats(nil)
	require.NoError(t, err)
	require.Len(t, stats.RecentExpenses, RecentExpenseCount)

	for i := 1; i < len(stats.RecentExpenses); i++ {
		assert.False(t, stats.RecentExpenses[i].CreatedAt.After(stats.RecentExpenses[i-1].CreatedAt),
			"expected recent expenses in reverse chronological order")
	}
}

func TestGetStats_DateRangeFilter(t *testing.T) {
	statsService, expenseRepo := setupStatsService()

	now := time.Now()
	addStatsExpense(expenseRepo, "Inside", 30, domain.CategoryFood, now)
	addStatsExpense(expenseRepo, "Before", 99, domain.CategoryFood, now.AddDate(0, 0, -20))

	start := now.AddDate(0, 0, -7)
	stats, err := statsService.GetStats(&domain.StatsFilter{StartDate: &start})
	require.NoError(t, err)

	assert.Equal(t, int64(1), stats.Summary.TotalCount)
	assert.True(t, stats.Summary.TotalAmount.Equal(decimal.NewFromInt(30)),
		"expected total 30, got %s", stats.Summary.TotalAmount)

	require.NotNil(t, stats.Summary.HighestExpense)
	assert.Equal(t, "Inside", stats.Summary.HighestExpense.Title)
}
