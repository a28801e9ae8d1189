package service

import (
	"sort"
	"time"

	"github.com/expenso/expenso-backend/internal/domain"
	"github.com/expenso/expenso-backend/internal/util"
	"github.com/shopspring/decimal"
)

const (
	// MonthlyWindowMonths is the size of the monthly trend window
	MonthlyWindowMonths = 12
	// RecentExpenseCount is how many recent expenses the stats include
	RecentExpenseCount = 5
)

var oneHundred = decimal.NewFromInt(100)

// StatsService computes aggregate statistics over a filtered expense set
type StatsService struct {
	expenseRepo domain.ExpenseRepository
}

// NewStatsService creates a new StatsService
func NewStatsService(expenseRepo domain.ExpenseRepository) *StatsService {
	return &StatsService{expenseRepo: expenseRepo}
}

// GetStats computes the full statistics payload for the filtered set.
// An empty set yields zeros, a nil highest expense and empty slices
// rather than an error.
func (s *StatsService) GetStats(filter *domain.StatsFilter) (*domain.ExpenseStats, error) {
	totalAmount, totalCount, err := s.expenseRepo.SumAndCount(filter)
	if err != nil {
		return nil, err
	}

	averageAmount := decimal.Zero
	if totalCount > 0 {
		averageAmount = totalAmount.Div(decimal.NewFromInt(totalCount))
	}

	highest, err := s.expenseRepo.Highest(filter)
	if err != nil {
		return nil, err
	}

	aggregates, err := s.expenseRepo.GroupByCategory(filter)
	if err != nil {
		return nil, err
	}

	breakdown := make([]*domain.CategoryBreakdown, len(aggregates))
	for i, agg := range aggregates {
		percentage := decimal.Zero
		if totalAmount.IsPositive() {
			percentage = agg.Total.Div(totalAmount).Mul(oneHundred)
		}
		breakdown[i] = &domain.CategoryBreakdown{
			Category:   agg.Category,
			Total:      agg.Total,
			Count:      agg.Count,
			Percentage: percentage,
		}
	}
	// GROUP BY row order is unspecified; present largest share first.
	sort.Slice(breakdown, func(i, j int) bool {
		return breakdown[i].Total.GreaterThan(breakdown[j].Total)
	})

	since := util.StartOfTrailingWindow(time.Now(), MonthlyWindowMonths)
	monthly, err := s.expenseRepo.MonthlySpending(filter, since, MonthlyWindowMonths)
	if err != nil {
		return nil, err
	}

	recent, err := s.expenseRepo.Recent(filter, RecentExpenseCount)
	if err != nil {
		return nil, err
	}

	return &domain.ExpenseStats{
		Summary: domain.StatsSummary{
			TotalAmount:    totalAmount,
			TotalCount:     totalCount,
			AverageAmount:  averageAmount,
			HighestExpense: highest,
		},
		CategoryBreakdown: breakdown,
		MonthlySpending:   monthly,
		RecentExpenses:    recent,
	}, nil
}
