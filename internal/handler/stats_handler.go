package handler

import (
	"net/http"

	"github.com/expenso/expenso-backend/internal/domain"
	"github.com/expenso/expenso-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// StatsHandler handles expense statistics HTTP requests
type StatsHandler struct {
	statsService *service.StatsService
}

// NewStatsHandler creates a new StatsHandler
func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// StatsSummaryResponse holds the headline figures
type StatsSummaryResponse struct {
	TotalAmount    string           `json:"totalAmount"`
	TotalCount     int64            `json:"totalCount"`
	AverageAmount  string           `json:"averageAmount"`
	HighestExpense *ExpenseResponse `json:"highestExpense"`
}

// CategoryBreakdownResponse is one per-category aggregate row
type CategoryBreakdownResponse struct {
	Category   string `json:"category"`
	Total      string `json:"total"`
	Count      int64  `json:"count"`
	Percentage string `json:"percentage"`
}

// MonthlySpendingResponse is one calendar-month rollup row
type MonthlySpendingResponse struct {
	Month string `json:"month"`
	Total string `json:"total"`
	Count int64  `json:"count"`
}

// StatsResponse is the statistics payload
type StatsResponse struct {
	Summary           StatsSummaryResponse        `json:"summary"`
	CategoryBreakdown []CategoryBreakdownResponse `json:"categoryBreakdown"`
	MonthlySpending   []MonthlySpendingResponse   `json:"monthlySpending"`
	RecentExpenses    []ExpenseResponse           `json:"recentExpenses"`
}

// StatsEnvelope wraps the statistics payload in the success envelope
type StatsEnvelope struct {
	Success bool          `json:"success"`
	Data    StatsResponse `json:"data"`
}

// GetStats godoc
// @Summary Expense statistics
// @Description Get summary, per-category breakdown, monthly trend and recent expenses
// @Tags expenses
// @Accept json
// @Produce json
// @Param startDate query string false "Start date (YYYY-MM-DD, inclusive)"
// @Param endDate query string false "End date (YYYY-MM-DD, inclusive)"
// @Success 200 {object} StatsEnvelope
// @Failure 500 {object} ErrorResponse
// @Router /expenses/stats [get]
func (h *StatsHandler) GetStats(c echo.Context) error {
	filter := &domain.StatsFilter{}

	// Malformed dates degrade to an unbounded range.
	if s := c.QueryParam("startDate"); s != "" {
		if parsed, err := parseDate(s); err == nil {
			filter.StartDate = &parsed
		}
	}
	if s := c.QueryParam("endDate"); s != "" {
		if parsed, err := parseDate(s); err == nil {
			filter.EndDate = &parsed
		}
	}

	stats, err := h.statsService.GetStats(filter)
	if err != nil {
		log.Error().Err(err).Msg("Failed to compute expense statistics")
		return NewInternalError(c, "Failed to fetch expense statistics")
	}

	return c.JSON(http.StatusOK, StatsEnvelope{Success: true, Data: toStatsResponse(stats)})
}

func toStatsResponse(stats *domain.ExpenseStats) StatsResponse {
	response := StatsResponse{
		Summary: StatsSummaryResponse{
			TotalAmount:   stats.Summary.TotalAmount.StringFixed(2),
			TotalCount:    stats.Summary.TotalCount,
			AverageAmount: stats.Summary.AverageAmount.StringFixed(2),
		},
		CategoryBreakdown: make([]CategoryBreakdownResponse, len(stats.CategoryBreakdown)),
		MonthlySpending:   make([]MonthlySpendingResponse, len(stats.MonthlySpending)),
		RecentExpenses:    make([]ExpenseResponse, len(stats.RecentExpenses)),
	}

	if stats.Summary.HighestExpense != nil {
		highest := toExpenseResponse(stats.Summary.HighestExpense)
		response.Summary.HighestExpense = &highest
	}

	for i, b := range stats.CategoryBreakdown {
		response.CategoryBreakdown[i] = CategoryBreakdownResponse{
			Category:   string(b.Category),
			Total:      b.Total.StringFixed(2),
			Count:      b.Count,
			Percentage: b.Percentage.StringFixed(2),
		}
	}
	for i, m := range stats.MonthlySpending {
		response.MonthlySpending[i] = MonthlySpendingResponse{
			Month: m.Month,
			Total: m.Total.StringFixed(2),
			Count: m.Count,
		}
	}
	for i, e := range stats.RecentExpenses {
		response.RecentExpenses[i] = toExpenseResponse(e)
	}

	return response
}
