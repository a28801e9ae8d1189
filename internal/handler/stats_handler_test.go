package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/expenso/expenso-backend/internal/domain"
	"github.com/expenso/expenso-backend/internal/service"
	"github.com/expenso/expenso-backend/internal/testutil"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

func newStatsHandler() (*StatsHandler, *testutil.MockExpenseRepository) {
	repo := testutil.NewMockExpenseRepository()
	return NewStatsHandler(service.NewStatsService(repo)), repo
}

func TestGetStats_Success(t *testing.T) {
	e := echo.New()
	handler, repo := newStatsHandler()

	now := time.Now()
	repo.AddExpense(&domain.Expense{
		Title:     "Groceries",
		Amount:    decimal.NewFromInt(10),
		Category:  domain.CategoryFood,
		Date:      now,
		CreatedAt: now,
	})
	repo.AddExpense(&domain.Expense{
		Title:     "Bus",
		Amount:    decimal.NewFromInt(20),
		Category:  domain.CategoryTransport,
		Date:      now,
		CreatedAt: now.Add(time.Minute),
	})
	repo.AddExpense(&domain.Expense{
		Title:     "Cinema",
		Amount:    decimal.NewFromInt(30),
		Category:  domain.CategoryEntertainment,
		Date:      now,
		CreatedAt: now.Add(2 * time.Minute),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/expenses/stats", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.GetStats(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response StatsEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if !response.Success {
		t.Error("Expected success to be true")
	}
	if response.Data.Summary.TotalAmount != "60.00" {
		t.Errorf("Expected total '60.00', got %s", response.Data.Summary.TotalAmount)
	}
	if response.Data.Summary.TotalCount != 3 {
		t.Errorf("Expected count 3, got %d", response.Data.Summary.TotalCount)
	}
	if response.Data.Summary.AverageAmount != "20.00" {
		t.Errorf("Expected average '20.00', got %s", response.Data.Summary.AverageAmount)
	}
	if response.Data.Summary.HighestExpense == nil {
		t.Fatal("Expected a highest expense")
	}
	if response.Data.Summary.HighestExpense.Title != "Cinema" {
		t.Errorf("Expected highest expense 'Cinema', got %s", response.Data.Summary.HighestExpense.Title)
	}

	if len(response.Data.CategoryBreakdown) != 3 {
		t.Fatalf("Expected 3 breakdown entries, got %d", len(response.Data.CategoryBreakdown))
	}
	if response.Data.CategoryBreakdown[0].Category != "ENTERTAINMENT" {
		t.Errorf("Expected largest category first, got %s", response.Data.CategoryBreakdown[0].Category)
	}
	if response.Data.CategoryBreakdown[0].Percentage != "50.00" {
		t.Errorf("Expected percentage '50.00', got %s", response.Data.CategoryBreakdown[0].Percentage)
	}

	if len(response.Data.MonthlySpending) != 1 {
		t.Fatalf("Expected 1 month of spending, got %d", len(response.Data.MonthlySpending))
	}
	if response.Data.MonthlySpending[0].Total != "60.00" {
		t.Errorf("Expected monthly total '60.00', got %s", response.Data.MonthlySpending[0].Total)
	}

	if len(response.Data.RecentExpenses) != 3 {
		t.Fatalf("Expected 3 recent expenses, got %d", len(response.Data.RecentExpenses))
	}
	if response.Data.RecentExpenses[0].Title != "Cinema" {
		t.Errorf("Expected most recent expense first, got %s", response.Data.RecentExpenses[0].Title)
	}
}

func TestGetStats_EmptyDataset(t *testing.T) {
	e := echo.New()
	handler, _ := newStatsHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/expenses/stats", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.GetStats(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response StatsEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if response.Data.Summary.TotalAmount != "0.00" {
		t.Errorf("Expected total '0.00', got %s", response.Data.Summary.TotalAmount)
	}
	if response.Data.Summary.HighestExpense != nil {
		t.Errorf("Expected null highest expense, got %v", response.Data.Summary.HighestExpense)
	}
	if response.Data.CategoryBreakdown == nil {
		t.Error("Expected empty breakdown array, got null")
	}
	if response.Data.MonthlySpending == nil {
		t.Error("Expected empty monthly spending array, got null")
	}
	if response.Data.RecentExpenses == nil {
		t.Error("Expected empty recent expenses array, got null")
	}
}

func TestGetStats_DateRange(t *testing.T) {
	e := echo.New()
	handler, repo := newStatsHandler()

	now := time.Now()
	repo.AddExpense(&domain.Expense{
		Title:     "Recent",
		Amount:    decimal.NewFromInt(25),
		Category:  domain.CategoryFood,
		Date:      now,
		CreatedAt: now,
	})
	repo.AddExpense(&domain.Expense{
		Title:     "Old",
		Amount:    decimal.NewFromInt(75),
		Category:  domain.CategoryFood,
		Date:      now.AddDate(0, 0, -30),
		CreatedAt: now.AddDate(0, 0, -30),
	})

	start := now.AddDate(0, 0, -7).Format("2006-01-02")
	req := httptest.NewRequest(http.MethodGet, "/api/v1/expenses/stats?startDate="+start, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.GetStats(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var response StatsEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if response.Data.Summary.TotalCount != 1 {
		t.Errorf("Expected 1 expense in range, got %d", response.Data.Summary.TotalCount)
	}
	if response.Data.Summary.TotalAmount != "25.00" {
		t.Errorf("Expected total '25.00', got %s", response.Data.Summary.TotalAmount)
	}
}

func TestGetStats_MalformedDateIgnored(t *testing.T) {
	e := echo.New()
	handler, repo := newStatsHandler()

	now := time.Now()
	repo.AddExpense(&domain.Expense{
		Title:     "Expense",
		Amount:    decimal.NewFromInt(10),
		Category:  domain.CategoryOther,
		Date:      now,
		CreatedAt: now,
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/expenses/stats?startDate=not-a-date", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.GetStats(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response StatsEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if response.Data.Summary.TotalCount != 1 {
		t.Errorf("Expected the filter to be ignored, got count %d", response.Data.Summary.TotalCount)
	}
}
