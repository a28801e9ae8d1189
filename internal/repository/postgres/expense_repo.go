package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/expenso/expenso-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const expenseColumns = "id, title, description, amount, category, date, location, tags, is_recurring, created_at, updated_at"

// ExpenseRepository implements domain.ExpenseRepository using PostgreSQL
type ExpenseRepository struct {
	pool *pgxpool.Pool
}

// NewExpenseRepository creates a new ExpenseRepository
func NewExpenseRepository(pool *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{pool: pool}
}

// Create inserts a new expense and returns the stored row
func (r *ExpenseRepository) Create(expense *domain.Expense) (*domain.Expense, error) {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(expense.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	query := `
		INSERT INTO expenses (title, description, amount, category, date, location, tags, is_recurring)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + expenseColumns

	row := r.pool.QueryRow(ctx, query,
		expense.Title,
		textOrNull(expense.Description),
		amount,
		string(expense.Category),
		pgtype.Timestamptz{Time: expense.Date, Valid: true},
		textOrNull(expense.Location),
		textOrNull(expense.Tags),
		expense.IsRecurring,
	)
	return scanExpense(row)
}

// GetByID retrieves an expense by its ID
func (r *ExpenseRepository) GetByID(id uuid.UUID) (*domain.Expense, error) {
	ctx := context.Background()

	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE id = $1`

	expense, err := scanExpense(r.pool.QueryRow(ctx, query, pgtype.UUID{Bytes: id, Valid: true}))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, err
	}
	return expense, nil
}

// List retrieves expenses matching the filters, ordered and paginated,
// together with the total number of matching rows
func (r *ExpenseRepository) List(filters *domain.ExpenseFilters) (*domain.PaginatedExpenses, error) {
	ctx := context.Background()

	if filters == nil {
		filters = &domain.ExpenseFilters{}
	}
	filters.Normalize()

	where, args := buildWhere(filters.Category, filters.Search, filters.StartDate, filters.EndDate)
	// int64 so page values near MaxInt32 cannot wrap into a negative OFFSET.
	offset := (int64(filters.Page) - 1) * int64(filters.Limit)

	var total int64
	countQuery := "SELECT COUNT(*) FROM expenses" + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count expenses: %w", err)
	}

	query := fmt.Sprintf(
		"SELECT %s FROM expenses%s ORDER BY %s %s LIMIT $%d OFFSET $%d",
		expenseColumns, where, sortColumn(filters.SortBy), sortDirection(filters.SortOrder),
		len(args)+1, len(args)+2,
	)
	rows, err := r.pool.Query(ctx, query, append(args, filters.Limit, offset)...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	expenses, err := collectExpenses(rows)
	if err != nil {
		return nil, err
	}

	totalPages := int32(total / int64(filters.Limit))
	if total%int64(filters.Limit) > 0 {
		totalPages++
	}

	return &domain.PaginatedExpenses{
		Data:       expenses,
		Page:       filters.Page,
		Limit:      filters.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    filters.Page < totalPages,
		HasPrev:    filters.Page > 1,
	}, nil
}

// Update applies a partial patch and returns the updated row
func (r *ExpenseRepository) Update(id uuid.UUID, patch *domain.ExpenseUpdate) (*domain.Expense, error) {
	ctx := context.Background()

	sets := []string{}
	args := []any{}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Amount != nil {
		amount, err := decimalToPgNumeric(*patch.Amount)
		if err != nil {
			return nil, fmt.Errorf("invalid amount: %w", err)
		}
		add("amount", amount)
	}
	if patch.Category != nil {
		add("category", string(*patch.Category))
	}
	if patch.Date != nil {
		add("date", pgtype.Timestamptz{Time: *patch.Date, Valid: true})
	}
	if patch.Location != nil {
		add("location", *patch.Location)
	}
	if patch.Tags != nil {
		add("tags", *patch.Tags)
	}
	if patch.IsRecurring != nil {
		add("is_recurring", *patch.IsRecurring)
	}

	if len(sets) == 0 {
		return r.GetByID(id)
	}

	sets = append(sets, "updated_at = NOW()")
	args = append(args, pgtype.UUID{Bytes: id, Valid: true})

	query := fmt.Sprintf(
		"UPDATE expenses SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args), expenseColumns,
	)

	expense, err := scanExpense(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, err
	}
	return expense, nil
}

// Delete removes an expense by ID
func (r *ExpenseRepository) Delete(id uuid.UUID) error {
	ctx := context.Background()

	cmd, err := r.pool.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, pgtype.UUID{Bytes: id, Valid: true})
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrExpenseNotFound
	}
	return nil
}

// SumAndCount returns the amount total and row count over the filtered set
func (r *ExpenseRepository) SumAndCount(filter *domain.StatsFilter) (decimal.Decimal, int64, error) {
	ctx := context.Background()

	where, args := statsWhere(filter)
	query := "SELECT COALESCE(SUM(amount), 0), COUNT(*) FROM expenses" + where

	var sum pgtype.Numeric
	var count int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&sum, &count); err != nil {
		return decimal.Zero, 0, fmt.Errorf("sum expenses: %w", err)
	}
	return pgNumericToDecimal(sum), count, nil
}

// GroupByCategory returns per-category totals and counts over the filtered set
func (r *ExpenseRepository) GroupByCategory(filter *domain.StatsFilter) ([]*domain.CategoryAggregate, error) {
	ctx := context.Background()

	where, args := statsWhere(filter)
	query := "SELECT category, COALESCE(SUM(amount), 0), COUNT(*) FROM expenses" + where + " GROUP BY category"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("group expenses by category: %w", err)
	}
	defer rows.Close()

	var aggregates []*domain.CategoryAggregate
	for rows.Next() {
		var category string
		var total pgtype.Numeric
		var count int64
		if err := rows.Scan(&category, &total, &count); err != nil {
			return nil, err
		}
		aggregates = append(aggregates, &domain.CategoryAggregate{
			Category: domain.ExpenseCategory(category),
			Total:    pgNumericToDecimal(total),
			Count:    count,
		})
	}
	return aggregates, rows.Err()
}

// MonthlySpending returns per-calendar-month totals and counts over the
// filtered set, restricted to dates on or after since, most recent first
func (r *ExpenseRepository) MonthlySpending(filter *domain.StatsFilter, since time.Time, limit int) ([]*domain.MonthlyAggregate, error) {
	ctx := context.Background()

	where, args := statsWhere(filter)
	args = append(args, pgtype.Timestamptz{Time: since, Valid: true})
	if where == "" {
		where = fmt.Sprintf(" WHERE date >= $%d", len(args))
	} else {
		where += fmt.Sprintf(" AND date >= $%d", len(args))
	}

	query := fmt.Sprintf(`
		SELECT TO_CHAR(date, 'YYYY-MM') AS month, COALESCE(SUM(amount), 0), COUNT(*)
		FROM expenses%s
		GROUP BY TO_CHAR(date, 'YYYY-MM')
		ORDER BY month DESC
		LIMIT %d`, where, limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("monthly spending: %w", err)
	}
	defer rows.Close()

	var months []*domain.MonthlyAggregate
	for rows.Next() {
		var month string
		var total pgtype.Numeric
		var count int64
		if err := rows.Scan(&month, &total, &count); err != nil {
			return nil, err
		}
		months = append(months, &domain.MonthlyAggregate{
			Month: month,
			Total: pgNumericToDecimal(total),
			Count: count,
		})
	}
	return months, rows.Err()
}

// Recent returns the most recently created expenses in the filtered set
func (r *ExpenseRepository) Recent(filter *domain.StatsFilter, limit int) ([]*domain.Expense, error) {
	ctx := context.Background()

	where, args := statsWhere(filter)
	query := fmt.Sprintf(
		"SELECT %s FROM expenses%s ORDER BY created_at DESC LIMIT %d",
		expenseColumns, where, limit,
	)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("recent expenses: %w", err)
	}
	defer rows.Close()

	return collectExpenses(rows)
}

// Highest returns the expense with the greatest amount in the filtered
// set, or nil when the set is empty
func (r *ExpenseRepository) Highest(filter *domain.StatsFilter) (*domain.Expense, error) {
	ctx := context.Background()

	where, args := statsWhere(filter)
	query := fmt.Sprintf(
		"SELECT %s FROM expenses%s ORDER BY amount DESC LIMIT 1",
		expenseColumns, where,
	)

	expense, err := scanExpense(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("highest expense: %w", err)
	}
	return expense, nil
}

// buildWhere assembles the WHERE clause shared by the list and count
// queries. Returned clause is "" or " WHERE ..."; args line up with the
// $n placeholders inside it.
func buildWhere(category *domain.ExpenseCategory, search *string, startDate, endDate *time.Time) (string, []any) {
	conditions := []string{}
	args := []any{}

	if category != nil {
		args = append(args, string(*category))
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}
	if search != nil && *search != "" {
		args = append(args, "%"+*search+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf(
			"(title ILIKE $%d OR description ILIKE $%d OR location ILIKE $%d)", n, n, n))
	}
	if startDate != nil {
		args = append(args, pgtype.Timestamptz{Time: *startDate, Valid: true})
		conditions = append(conditions, fmt.Sprintf("date >= $%d", len(args)))
	}
	if endDate != nil {
		args = append(args, pgtype.Timestamptz{Time: *endDate, Valid: true})
		conditions = append(conditions, fmt.Sprintf("date <= $%d", len(args)))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func statsWhere(filter *domain.StatsFilter) (string, []any) {
	if filter == nil {
		return "", nil
	}
	return buildWhere(nil, nil, filter.StartDate, filter.EndDate)
}

// sortColumn maps a whitelisted sort field to its column. Filters are
// validated upstream; anything unrecognized falls back to date.
func sortColumn(field domain.SortField) string {
	switch field {
	case domain.SortByAmount:
		return "amount"
	case domain.SortByTitle:
		return "title"
	case domain.SortByCategory:
		return "category"
	default:
		return "date"
	}
}

func sortDirection(order domain.SortOrder) string {
	if order == domain.SortAsc {
		return "ASC"
	}
	return "DESC"
}

func collectExpenses(rows pgx.Rows) ([]*domain.Expense, error) {
	expenses := []*domain.Expense{}
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}
	return expenses, rows.Err()
}

func scanExpense(row pgx.Row) (*domain.Expense, error) {
	var (
		id          pgtype.UUID
		title       string
		description pgtype.Text
		amount      pgtype.Numeric
		category    string
		date        pgtype.Timestamptz
		location    pgtype.Text
		tags        pgtype.Text
		isRecurring bool
		createdAt   pgtype.Timestamptz
		updatedAt   pgtype.Timestamptz
	)

	if err := row.Scan(&id, &title, &description, &amount, &category, &date,
		&location, &tags, &isRecurring, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	expense := &domain.Expense{
		ID:          uuid.UUID(id.Bytes),
		Title:       title,
		Amount:      pgNumericToDecimal(amount),
		Category:    domain.ExpenseCategory(category),
		Date:        date.Time,
		IsRecurring: isRecurring,
		CreatedAt:   createdAt.Time,
		UpdatedAt:   updatedAt.Time,
	}
	if description.Valid {
		expense.Description = &description.String
	}
	if location.Valid {
		expense.Location = &location.String
	}
	if tags.Valid {
		expense.Tags = &tags.String
	}
	return expense, nil
}

// Helper functions

func textOrNull(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}

func decimalToPgNumeric(d decimal.Decimal) (pgtype.Numeric, error) {
	var num pgtype.Numeric
	if err := num.Scan(d.String()); err != nil {
		return pgtype.Numeric{}, err
	}
	return num, nil
}

func pgNumericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	if n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}
