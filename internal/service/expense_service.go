package service

import (
	"strings"
	"time"

	"github.com/expenso/expenso-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseService handles expense business logic
type ExpenseService struct {
	expenseRepo domain.ExpenseRepository
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(expenseRepo domain.ExpenseRepository) *ExpenseService {
	return &ExpenseService{expenseRepo: expenseRepo}
}

// CreateExpenseInput holds the fields for creating an expense
type CreateExpenseInput struct {
	Title       string
	Description *string
	Amount      decimal.Decimal
	Category    domain.ExpenseCategory
	Date        *time.Time
	Location    *string
	Tags        []string
	IsRecurring bool
}

// CreateExpense validates the input and stores a new expense
func (s *ExpenseService) CreateExpense(input CreateExpenseInput) (*domain.Expense, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, domain.ErrTitleRequired
	}
	if len(title) > domain.MaxTitleLength {
		return nil, domain.ErrTitleTooLong
	}
	if !input.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	if !input.Category.IsValid() {
		return nil, domain.ErrInvalidCategory
	}

	date := time.Now()
	if input.Date != nil {
		date = *input.Date
	}

	expense := &domain.Expense{
		Title:       title,
		Description: input.Description,
		Amount:      input.Amount,
		Category:    input.Category,
		Date:        date,
		Location:    input.Location,
		Tags:        domain.JoinTags(input.Tags),
		IsRecurring: input.IsRecurring,
	}

	return s.expenseRepo.Create(expense)
}

// GetExpense retrieves a single expense by ID
func (s *ExpenseService) GetExpense(id uuid.UUID) (*domain.Expense, error) {
	return s.expenseRepo.GetByID(id)
}

// GetExpenses retrieves a filtered, sorted page of expenses
func (s *ExpenseService) GetExpenses(filters *domain.ExpenseFilters) (*domain.PaginatedExpenses, error) {
	if filters == nil {
		filters = &domain.ExpenseFilters{}
	}
	if filters.SortBy != "" && !filters.SortBy.IsValid() {
		return nil, domain.ErrInvalidSortField
	}
	if filters.SortOrder != "" && !filters.SortOrder.IsValid() {
		return nil, domain.ErrInvalidSortOrder
	}
	if filters.Category != nil && !filters.Category.IsValid() {
		return nil, domain.ErrInvalidCategory
	}
	return s.expenseRepo.List(filters)
}

// UpdateExpenseInput is a partial patch. Nil fields are left unchanged.
type UpdateExpenseInput struct {
	Title       *string
	Description *string
	Amount      *decimal.Decimal
	Category    *domain.ExpenseCategory
	Date        *time.Time
	Location    *string
	Tags        *[]string
	IsRecurring *bool
}

// UpdateExpense applies a partial patch to an existing expense,
// re-validating any supplied fields
func (s *ExpenseService) UpdateExpense(id uuid.UUID, input UpdateExpenseInput) (*domain.Expense, error) {
	patch := &domain.ExpenseUpdate{
		Description: input.Description,
		Date:        input.Date,
		Location:    input.Location,
		IsRecurring: input.IsRecurring,
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, domain.ErrTitleRequired
		}
		if len(title) > domain.MaxTitleLength {
			return nil, domain.ErrTitleTooLong
		}
		patch.Title = &title
	}
	if input.Amount != nil {
		if !input.Amount.IsPositive() {
			return nil, domain.ErrInvalidAmount
		}
		patch.Amount = input.Amount
	}
	if input.Category != nil {
		if !input.Category.IsValid() {
			return nil, domain.ErrInvalidCategory
		}
		patch.Category = input.Category
	}
	if input.Tags != nil {
		// An explicit empty list clears the stored tags.
		joined := domain.JoinTags(*input.Tags)
		if joined == nil {
			empty := ""
			joined = &empty
		}
		patch.Tags = joined
	}

	return s.expenseRepo.Update(id, patch)
}

// DeleteExpense removes an expense by ID
func (s *ExpenseService) DeleteExpense(id uuid.UUID) error {
	return s.expenseRepo.Delete(id)
}
