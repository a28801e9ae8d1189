package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/expenso/expenso-backend/internal/domain"
	"github.com/expenso/expenso-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ExpenseHandler handles expense-related HTTP requests
type ExpenseHandler struct {
	expenseService *service.ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(expenseService *service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// CreateExpenseRequest represents the create expense request body
type CreateExpenseRequest struct {
	Title       string          `json:"title"`
	Description *string         `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Date        *string         `json:"date,omitempty"`
	Location    *string         `json:"location,omitempty"`
	Tags        []string        `json:"tags,omitempty"`
	IsRecurring *bool           `json:"isRecurring,omitempty"`
}

// UpdateExpenseRequest represents the partial update request body.
// Absent fields leave the stored values unchanged.
type UpdateExpenseRequest struct {
	Title       *string          `json:"title,omitempty"`
	Description *string          `json:"description,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Date        *string          `json:"date,omitempty"`
	Location    *string          `json:"location,omitempty"`
	Tags        *[]string        `json:"tags,omitempty"`
	IsRecurring *bool            `json:"isRecurring,omitempty"`
}

// ExpenseResponse represents an expense in API responses
type ExpenseResponse struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description *string  `json:"description,omitempty"`
	Amount      string   `json:"amount"`
	Category    string   `json:"category"`
	Date        string   `json:"date"`
	Location    *string  `json:"location,omitempty"`
	Tags        []string `json:"tags"`
	IsRecurring bool     `json:"isRecurring"`
	CreatedAt   string   `json:"createdAt"`
	UpdatedAt   string   `json:"updatedAt"`
}

// ExpenseEnvelope wraps a single expense in the success envelope
type ExpenseEnvelope struct {
	Success bool            `json:"success"`
	Data    ExpenseResponse `json:"data"`
}

// PaginationResponse reports the page bookkeeping for list responses
type PaginationResponse struct {
	Page       int32 `json:"page"`
	Limit      int32 `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int32 `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// ExpenseListEnvelope wraps a page of expenses in the success envelope
type ExpenseListEnvelope struct {
	Success    bool               `json:"success"`
	Data       []ExpenseResponse  `json:"data"`
	Pagination PaginationResponse `json:"pagination"`
}

// CreateExpense godoc
// @Summary Create an expense
// @Description Create a new expense record
// @Tags expenses
// @Accept json
// @Produce json
// @Param request body CreateExpenseRequest true "Expense creation request"
// @Success 201 {object} ExpenseEnvelope
// @Failure 400 {object} ErrorResponse
// @Router /expenses [post]
func (h *ExpenseHandler) CreateExpense(c echo.Context) error {
	var req CreateExpenseRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body")
	}

	var date *time.Time
	if req.Date != nil && *req.Date != "" {
		parsed, err := parseDate(*req.Date)
		if err != nil {
			return NewValidationError(c, "Invalid date (use YYYY-MM-DD)")
		}
		date = &parsed
	}

	input := service.CreateExpenseInput{
		Title:       req.Title,
		Description: req.Description,
		Amount:      req.Amount,
		Category:    domain.ExpenseCategory(req.Category),
		Date:        date,
		Location:    req.Location,
		Tags:        req.Tags,
	}
	if req.IsRecurring != nil {
		input.IsRecurring = *req.IsRecurring
	}

	expense, err := h.expenseService.CreateExpense(input)
	if err != nil {
		if errors.Is(err, domain.ErrTitleRequired) {
			return NewValidationError(c, "Title is required")
		}
		if errors.Is(err, domain.ErrTitleTooLong) {
			return NewValidationError(c, "Title must be 255 characters or less")
		}
		if errors.Is(err, domain.ErrInvalidAmount) {
			return NewValidationError(c, "Amount must be positive")
		}
		if errors.Is(err, domain.ErrInvalidCategory) {
			return NewValidationError(c, "Valid category is required")
		}
		log.Error().Err(err).Msg("Failed to create expense")
		return NewInternalError(c, "Failed to create expense")
	}

	log.Info().Str("expense_id", expense.ID.String()).Str("title", expense.Title).Msg("Expense created")

	return c.JSON(http.StatusCreated, ExpenseEnvelope{Success: true, Data: toExpenseResponse(expense)})
}

// GetExpenses godoc
// @Summary List expenses
// @Description Get a filtered, sorted, paginated list of expenses
// @Tags expenses
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Param category query string false "Filter by category"
// @Param search query string false "Substring match on title, description or location"
// @Param startDate query string false "Start date (YYYY-MM-DD, inclusive)"
// @Param endDate query string false "End date (YYYY-MM-DD, inclusive)"
// @Param sortBy query string false "Sort field (date, amount, title, category)" default(date)
// @Param sortOrder query string false "Sort order (asc, desc)" default(desc)
// @Success 200 {object} ExpenseListEnvelope
// @Failure 400 {object} ErrorResponse
// @Router /expenses [get]
func (h *ExpenseHandler) GetExpenses(c echo.Context) error {
	filters := &domain.ExpenseFilters{}

	// Malformed page/limit values degrade to defaults rather than fail.
	if v, err := strconv.ParseInt(c.QueryParam("page"), 10, 32); err == nil && v > 0 {
		filters.Page = int32(v)
	}
	if v, err := strconv.ParseInt(c.QueryParam("limit"), 10, 32); err == nil && v > 0 {
		filters.Limit = int32(v)
	}

	if s := c.QueryParam("category"); s != "" {
		category := domain.ExpenseCategory(s)
		filters.Category = &category
	}

	if s := c.QueryParam("search"); s != "" {
		filters.Search = &s
	}

	// Malformed dates degrade to an unbounded range.
	if s := c.QueryParam("startDate"); s != "" {
		if parsed, err := parseDate(s); err == nil {
			filters.StartDate = &parsed
		}
	}
	if s := c.QueryParam("endDate"); s != "" {
		if parsed, err := parseDate(s); err == nil {
			filters.EndDate = &parsed
		}
	}

	if s := c.QueryParam("sortBy"); s != "" {
		filters.SortBy = domain.SortField(s)
	}
	if s := c.QueryParam("sortOrder"); s != "" {
		filters.SortOrder = domain.SortOrder(s)
	}

	result, err := h.expenseService.GetExpenses(filters)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCategory) {
			return NewValidationError(c, "Invalid category")
		}
		if errors.Is(err, domain.ErrInvalidSortField) {
			return NewValidationError(c, "Invalid sortBy (must be one of: date, amount, title, category)")
		}
		if errors.Is(err, domain.ErrInvalidSortOrder) {
			return NewValidationError(c, "Invalid sortOrder (must be 'asc' or 'desc')")
		}
		log.Error().Err(err).Msg("Failed to list expenses")
		return NewInternalError(c, "Failed to fetch expenses")
	}

	response := ExpenseListEnvelope{
		Success: true,
		Data:    make([]ExpenseResponse, len(result.Data)),
		Pagination: PaginationResponse{
			Page:       result.Page,
			Limit:      result.Limit,
			Total:      result.Total,
			TotalPages: result.TotalPages,
			HasNext:    result.HasNext,
			HasPrev:    result.HasPrev,
		},
	}
	for i, expense := range result.Data {
		response.Data[i] = toExpenseResponse(expense)
	}

	return c.JSON(http.StatusOK, response)
}

// GetExpense godoc
// @Summary Get an expense
// @Description Get a single expense by ID
// @Tags expenses
// @Accept json
// @Produce json
// @Param id path string true "Expense ID"
// @Success 200 {object} ExpenseEnvelope
// @Failure 404 {object} ErrorResponse
// @Router /expenses/{id} [get]
func (h *ExpenseHandler) GetExpense(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewNotFoundError(c, "Expense not found")
	}

	expense, err := h.expenseService.GetExpense(id)
	if err != nil {
		if errors.Is(err, domain.ErrExpenseNotFound) {
			return NewNotFoundError(c, "Expense not found")
		}
		log.Error().Err(err).Str("expense_id", id.String()).Msg("Failed to fetch expense")
		return NewInternalError(c, "Failed to fetch expense")
	}

	return c.JSON(http.StatusOK, ExpenseEnvelope{Success: true, Data: toExpenseResponse(expense)})
}

// UpdateExpense godoc
// @Summary Update an expense
// @Description Apply a partial update to an existing expense
// @Tags expenses
// @Accept json
// @Produce json
// @Param id path string true "Expense ID"
// @Param request body UpdateExpenseRequest true "Fields to update"
// @Success 200 {object} ExpenseEnvelope
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /expenses/{id} [put]
func (h *ExpenseHandler) UpdateExpense(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewNotFoundError(c, "Expense not found")
	}

	var req UpdateExpenseRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body")
	}

	input := service.UpdateExpenseInput{
		Title:       req.Title,
		Description: req.Description,
		Amount:      req.Amount,
		Location:    req.Location,
		Tags:        req.Tags,
		IsRecurring: req.IsRecurring,
	}

	if req.Category != nil {
		category := domain.ExpenseCategory(*req.Category)
		input.Category = &category
	}
	if req.Date != nil && *req.Date != "" {
		parsed, err := parseDate(*req.Date)
		if err != nil {
			return NewValidationError(c, "Invalid date (use YYYY-MM-DD)")
		}
		input.Date = &parsed
	}

	expense, err := h.expenseService.UpdateExpense(id, input)
	if err != nil {
		if errors.Is(err, domain.ErrExpenseNotFound) {
			return NewNotFoundError(c, "Expense not found")
		}
		if errors.Is(err, domain.ErrTitleRequired) {
			return NewValidationError(c, "Title is required")
		}
		if errors.Is(err, domain.ErrTitleTooLong) {
			return NewValidationError(c, "Title must be 255 characters or less")
		}
		if errors.Is(err, domain.ErrInvalidAmount) {
			return NewValidationError(c, "Amount must be positive")
		}
		if errors.Is(err, domain.ErrInvalidCategory) {
			return NewValidationError(c, "Valid category is required")
		}
		log.Error().Err(err).Str("expense_id", id.String()).Msg("Failed to update expense")
		return NewInternalError(c, "Failed to update expense")
	}

	log.Info().Str("expense_id", expense.ID.String()).Msg("Expense updated")

	return c.JSON(http.StatusOK, ExpenseEnvelope{Success: true, Data: toExpenseResponse(expense)})
}

// DeleteExpense godoc
// @Summary Delete an expense
// @Description Delete an expense by ID
// @Tags expenses
// @Accept json
// @Produce json
// @Param id path string true "Expense ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Router /expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewNotFoundError(c, "Expense not found")
	}

	if err := h.expenseService.DeleteExpense(id); err != nil {
		if errors.Is(err, domain.ErrExpenseNotFound) {
			return NewNotFoundError(c, "Expense not found")
		}
		log.Error().Err(err).Str("expense_id", id.String()).Msg("Failed to delete expense")
		return NewInternalError(c, "Failed to delete expense")
	}

	log.Info().Str("expense_id", id.String()).Msg("Expense deleted")

	return c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "Expense deleted successfully"})
}

// CategoryResponse represents a category and its display metadata
type CategoryResponse struct {
	Category string `json:"category"`
	Label    string `json:"label"`
	Icon     string `json:"icon"`
	Color    string `json:"color"`
}

// CategoryListEnvelope wraps the category list in the success envelope
type CategoryListEnvelope struct {
	Success bool               `json:"success"`
	Data    []CategoryResponse `json:"data"`
}

// GetCategories godoc
// @Summary List categories
// @Description Get the fixed expense category set with display metadata
// @Tags categories
// @Produce json
// @Success 200 {object} CategoryListEnvelope
// @Router /categories [get]
func (h *ExpenseHandler) GetCategories(c echo.Context) error {
	categories := domain.Categories()
	response := CategoryListEnvelope{
		Success: true,
		Data:    make([]CategoryResponse, len(categories)),
	}
	for i, category := range categories {
		cfg := category.Config()
		response.Data[i] = CategoryResponse{
			Category: string(category),
			Label:    cfg.Label,
			Icon:     cfg.Icon,
			Color:    cfg.Color,
		}
	}
	return c.JSON(http.StatusOK, response)
}

// parseDate accepts YYYY-MM-DD or a full RFC 3339 timestamp
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// toExpenseResponse converts domain.Expense to ExpenseResponse
func toExpenseResponse(expense *domain.Expense) ExpenseResponse {
	tags := expense.TagList()
	if tags == nil {
		tags = []string{}
	}
	return ExpenseResponse{
		ID:          expense.ID.String(),
		Title:       expense.Title,
		Description: expense.Description,
		Amount:      expense.Amount.StringFixed(2),
		Category:    string(expense.Category),
		Date:        expense.Date.Format(time.RFC3339),
		Location:    expense.Location,
		Tags:        tags,
		IsRecurring: expense.IsRecurring,
		CreatedAt:   expense.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   expense.UpdatedAt.Format(time.RFC3339),
	}
}
