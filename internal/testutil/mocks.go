package testutil

import (
	"sort"
	"strings"
	"time"

	"github.com/expenso/expenso-backend/internal/domain"
	"github.com/expenso/expenso-backend/internal/util"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MockExpenseRepository is a map-backed implementation of
// domain.ExpenseRepository. It honors the full filter, sort, pagination
// and aggregation contract so tests can exercise query semantics without
// a database.
type MockExpenseRepository struct {
	Expenses map[uuid.UUID]*domain.Expense
	CreateFn func(expense *domain.Expense) (*domain.Expense, error)
	ListFn   func(filters *domain.ExpenseFilters) (*domain.PaginatedExpenses, error)
	clock    int // monotonic counter for distinct CreatedAt ordering
}

// NewMockExpenseRepository creates a new MockExpenseRepository
func NewMockExpenseRepository() *MockExpenseRepository {
	return &MockExpenseRepository{
		Expenses: make(map[uuid.UUID]*domain.Expense),
	}
}

// AddExpense inserts an expense directly (helper for tests)
func (m *MockExpenseRepository) AddExpense(expense *domain.Expense) {
	if expense.ID == uuid.Nil {
		expense.ID = uuid.New()
	}
	m.Expenses[expense.ID] = expense
}

// Create stores a new expense
func (m *MockExpenseRepository) Create(expense *domain.Expense) (*domain.Expense, error) {
	if m.CreateFn != nil {
		return m.CreateFn(expense)
	}
	expense.ID = uuid.New()
	now := time.Now().Add(time.Duration(m.clock) * time.Millisecond)
	m.clock++
	expense.CreatedAt = now
	expense.UpdatedAt = now
	m.Expenses[expense.ID] = expense
	return expense, nil
}

// GetByID retrieves an expense by ID
func (m *MockExpenseRepository) GetByID(id uuid.UUID) (*domain.Expense, error) {
	if expense, ok := m.Expenses[id]; ok {
		return expense, nil
	}
	return nil, domain.ErrExpenseNotFound
}

// List returns a filtered, sorted page of expenses
func (m *MockExpenseRepository) List(filters *domain.ExpenseFilters) (*domain.PaginatedExpenses, error) {
	if m.ListFn != nil {
		return m.ListFn(filters)
	}

	if filters == nil {
		filters = &domain.ExpenseFilters{}
	}
	filters.Normalize()

	matched := m.match(filters.Category, filters.Search, filters.StartDate, filters.EndDate)
	sortExpenses(matched, filters.SortBy, filters.SortOrder)

	total := int64(len(matched))
	totalPages := int32(total / int64(filters.Limit))
	if total%int64(filters.Limit) > 0 {
		totalPages++
	}

	start := (int64(filters.Page) - 1) * int64(filters.Limit)
	end := start + int64(filters.Limit)
	if start > int64(len(matched)) {
		start = int64(len(matched))
	}
	if end > int64(len(matched)) {
		end = int64(len(matched))
	}

	return &domain.PaginatedExpenses{
		Data:       matched[start:end],
		Page:       filters.Page,
		Limit:      filters.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    filters.Page < totalPages,
		HasPrev:    filters.Page > 1,
	}, nil
}

// Update applies a partial patch
func (m *MockExpenseRepository) Update(id uuid.UUID, patch *domain.ExpenseUpdate) (*domain.Expense, error) {
	expense, ok := m.Expenses[id]
	if !ok {
		return nil, domain.ErrExpenseNotFound
	}

	if patch.Title != nil {
		expense.Title = *patch.Title
	}
	if patch.Description != nil {
		expense.Description = patch.Description
	}
	if patch.Amount != nil {
		expense.Amount = *patch.Amount
	}
	if patch.Category != nil {
		expense.Category = *patch.Category
	}
	if patch.Date != nil {
		expense.Date = *patch.Date
	}
	if patch.Location != nil {
		expense.Location = patch.Location
	}
	if patch.Tags != nil {
		expense.Tags = patch.Tags
	}
	if patch.IsRecurring != nil {
		expense.IsRecurring = *patch.IsRecurring
	}
	expense.UpdatedAt = time.Now()

	return expense, nil
}

// Delete removes an expense by ID
func (m *MockExpenseRepository) Delete(id uuid.UUID) error {
	if _, ok := m.Expenses[id]; !ok {
		return domain.ErrExpenseNotFound
	}
	delete(m.Expenses, id)
	return nil
}

// SumAndCount returns the amount total and count over the filtered set
func (m *MockExpenseRepository) SumAndCount(filter *domain.StatsFilter) (decimal.Decimal, int64, error) {
	matched := m.matchStats(filter)
	sum := decimal.Zero
	for _, e := range matched {
		sum = sum.Add(e.Amount)
	}
	return sum, int64(len(matched)), nil
}

// GroupByCategory returns per-category totals and counts
func (m *MockExpenseRepository) GroupByCategory(filter *domain.StatsFilter) ([]*domain.CategoryAggregate, error) {
	matched := m.matchStats(filter)

	byCategory := make(map[domain.ExpenseCategory]*domain.CategoryAggregate)
	for _, e := range matched {
		agg, ok := byCategory[e.Category]
		if !ok {
			agg = &domain.CategoryAggregate{Category: e.Category, Total: decimal.Zero}
			byCategory[e.Category] = agg
		}
		agg.Total = agg.Total.Add(e.Amount)
		agg.Count++
	}

	aggregates := make([]*domain.CategoryAggregate, 0, len(byCategory))
	for _, agg := range byCategory {
		aggregates = append(aggregates, agg)
	}
	sort.Slice(aggregates, func(i, j int) bool {
		return aggregates[i].Category < aggregates[j].Category
	})
	return aggregates, nil
}

// MonthlySpending returns per-month totals restricted to dates on or
// after since, most recent first
func (m *MockExpenseRepository) MonthlySpending(filter *domain.StatsFilter, since time.Time, limit int) ([]*domain.MonthlyAggregate, error) {
	matched := m.matchStats(filter)

	byMonth := make(map[string]*domain.MonthlyAggregate)
	for _, e := range matched {
		if e.Date.Before(since) {
			continue
		}
		key := util.MonthKey(e.Date)
		agg, ok := byMonth[key]
		if !ok {
			agg = &domain.MonthlyAggregate{Month: key, Total: decimal.Zero}
			byMonth[key] = agg
		}
		agg.Total = agg.Total.Add(e.Amount)
		agg.Count++
	}

	months := make([]*domain.MonthlyAggregate, 0, len(byMonth))
	for _, agg := range byMonth {
		months = append(months, agg)
	}
	sort.Slice(months, func(i, j int) bool {
		return months[i].Month > months[j].Month
	})
	if len(months) > limit {
		months = months[:limit]
	}
	return months, nil
}

// Recent returns the most recently created matching expenses
func (m *MockExpenseRepository) Recent(filter *domain.StatsFilter, limit int) ([]*domain.Expense, error) {
	matched := m.matchStats(filter)
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

// Highest returns the matching expense with the greatest amount, or nil
func (m *MockExpenseRepository) Highest(filter *domain.StatsFilter) (*domain.Expense, error) {
	matched := m.matchStats(filter)
	var highest *domain.Expense
	for _, e := range matched {
		if highest == nil || e.Amount.GreaterThan(highest.Amount) {
			highest = e
		}
	}
	return highest, nil
}

func (m *MockExpenseRepository) matchStats(filter *domain.StatsFilter) []*domain.Expense {
	if filter == nil {
		filter = &domain.StatsFilter{}
	}
	return m.match(nil, nil, filter.StartDate, filter.EndDate)
}

func (m *MockExpenseRepository) match(category *domain.ExpenseCategory, search *string, startDate, endDate *time.Time) []*domain.Expense {
	var matched []*domain.Expense
	for _, e := range m.Expenses {
		if category != nil && e.Category != *category {
			continue
		}
		if search != nil && *search != "" && !matchesSearch(e, *search) {
			continue
		}
		if startDate != nil && e.Date.Before(*startDate) {
			continue
		}
		if endDate != nil && e.Date.After(*endDate) {
			continue
		}
		matched = append(matched, e)
	}
	return matched
}

func matchesSearch(e *domain.Expense, search string) bool {
	needle := strings.ToLower(search)
	if strings.Contains(strings.ToLower(e.Title), needle) {
		return true
	}
	if e.Description != nil && strings.Contains(strings.ToLower(*e.Description), needle) {
		return true
	}
	if e.Location != nil && strings.Contains(strings.ToLower(*e.Location), needle) {
		return true
	}
	return false
}

func sortExpenses(expenses []*domain.Expense, field domain.SortField, order domain.SortOrder) {
	sort.SliceStable(expenses, func(i, j int) bool {
		a, b := expenses[i], expenses[j]
		if order == domain.SortDesc {
			a, b = b, a
		}
		switch field {
		case domain.SortByAmount:
			return a.Amount.LessThan(b.Amount)
		case domain.SortByTitle:
			return a.Title < b.Title
		case domain.SortByCategory:
			return a.Category < b.Category
		default:
			return a.Date.Before(b.Date)
		}
	})
}
