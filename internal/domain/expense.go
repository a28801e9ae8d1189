package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseCategory classifies an expense into one of a fixed set of
// spending types.
type ExpenseCategory string

const (
	CategoryFood          ExpenseCategory = "FOOD"
	CategoryTransport     ExpenseCategory = "TRANSPORT"
	CategoryEntertainment ExpenseCategory = "ENTERTAINMENT"
	CategoryUtilities     ExpenseCategory = "UTILITIES"
	CategoryHealthcare    ExpenseCategory = "HEALTHCARE"
	CategoryShopping      ExpenseCategory = "SHOPPING"
	CategoryEducation     ExpenseCategory = "EDUCATION"
	CategoryTravel        ExpenseCategory = "TRAVEL"
	CategoryBusiness      ExpenseCategory = "BUSINESS"
	CategoryOther         ExpenseCategory = "OTHER"
)

// Categories lists every valid category in display order.
func Categories() []ExpenseCategory {
	return []ExpenseCategory{
		CategoryFood,
		CategoryTransport,
		CategoryEntertainment,
		CategoryUtilities,
		CategoryHealthcare,
		CategoryShopping,
		CategoryEducation,
		CategoryTravel,
		CategoryBusiness,
		CategoryOther,
	}
}

// IsValid reports whether c is a member of the fixed category set.
func (c ExpenseCategory) IsValid() bool {
	switch c {
	case CategoryFood, CategoryTransport, CategoryEntertainment,
		CategoryUtilities, CategoryHealthcare, CategoryShopping,
		CategoryEducation, CategoryTravel, CategoryBusiness, CategoryOther:
		return true
	}
	return false
}

// CategoryConfig holds display metadata for a category.
type CategoryConfig struct {
	Label string `json:"label"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// Config returns the display metadata for a category. The switch is
// exhaustive over the category set; unknown values fall back to OTHER.
func (c ExpenseCategory) Config() CategoryConfig {
	switch c {
	case CategoryFood:
		return CategoryConfig{Label: "Food & Dining", Icon: "🍽️", Color: "bg-emerald-500"}
	case CategoryTransport:
		return CategoryConfig{Label: "Transportation", Icon: "🚗", Color: "bg-blue-500"}
	case CategoryEntertainment:
		return CategoryConfig{Label: "Entertainment", Icon: "🎬", Color: "bg-purple-500"}
	case CategoryUtilities:
		return CategoryConfig{Label: "Utilities", Icon: "⚡", Color: "bg-orange-500"}
	case CategoryHealthcare:
		return CategoryConfig{Label: "Healthcare", Icon: "🏥", Color: "bg-red-500"}
	case CategoryShopping:
		return CategoryConfig{Label: "Shopping", Icon: "🛍️", Color: "bg-pink-500"}
	case CategoryEducation:
		return CategoryConfig{Label: "Education", Icon: "📚", Color: "bg-indigo-500"}
	case CategoryTravel:
		return CategoryConfig{Label: "Travel", Icon: "✈️", Color: "bg-cyan-500"}
	case CategoryBusiness:
		return CategoryConfig{Label: "Business", Icon: "💼", Color: "bg-gray-500"}
	default:
		return CategoryConfig{Label: "Other", Icon: "📦", Color: "bg-slate-500"}
	}
}

// Expense is a single spending record.
type Expense struct {
	ID          uuid.UUID       `json:"id"`
	Title       string          `json:"title"`
	Description *string         `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Category    ExpenseCategory `json:"category"`
	Date        time.Time       `json:"date"`
	Location    *string         `json:"location,omitempty"`
	Tags        *string         `json:"tags,omitempty"`
	IsRecurring bool            `json:"isRecurring"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// TagList decodes the stored delimited tag string into a list.
func (e *Expense) TagList() []string {
	if e.Tags == nil {
		return nil
	}
	return SplitTags(*e.Tags)
}

// SplitTags parses a comma-delimited tag string. Whitespace around each
// entry is trimmed and empty entries are dropped; order is preserved.
func SplitTags(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	if len(tags) == 0 {
		return nil
	}
	return tags
}

// JoinTags encodes a tag list into the stored comma-delimited form.
// Empty and whitespace-only entries are dropped. Returns nil when no
// tags remain so the column stays NULL.
func JoinTags(tags []string) *string {
	cleaned := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			cleaned = append(cleaned, t)
		}
	}
	if len(cleaned) == 0 {
		return nil
	}
	joined := strings.Join(cleaned, ",")
	return &joined
}

// SortField is a whitelisted sortable column.
type SortField string

const (
	SortByDate     SortField = "date"
	SortByAmount   SortField = "amount"
	SortByTitle    SortField = "title"
	SortByCategory SortField = "category"
)

// IsValid reports whether f names a sortable field.
func (f SortField) IsValid() bool {
	switch f {
	case SortByDate, SortByAmount, SortByTitle, SortByCategory:
		return true
	}
	return false
}

// SortOrder is a sort direction.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// IsValid reports whether o is a recognized direction.
func (o SortOrder) IsValid() bool {
	return o == SortAsc || o == SortDesc
}

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// ExpenseFilters selects and orders a subset of expenses. Nil pointer
// fields leave the corresponding predicate out of the query.
type ExpenseFilters struct {
	Category  *ExpenseCategory
	Search    *string
	StartDate *time.Time
	EndDate   *time.Time
	SortBy    SortField
	SortOrder SortOrder
	Page      int32
	Limit     int32
}

// Normalize fills zero-valued pagination and sort fields with defaults
// and caps the page size.
func (f *ExpenseFilters) Normalize() {
	if f.Page < 1 {
		f.Page = DefaultPage
	}
	if f.Limit < 1 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	if f.SortBy == "" {
		f.SortBy = SortByDate
	}
	if f.SortOrder == "" {
		f.SortOrder = SortDesc
	}
}

// PaginatedExpenses is one page of results plus pagination bookkeeping.
type PaginatedExpenses struct {
	Data       []*Expense
	Page       int32
	Limit      int32
	Total      int64
	TotalPages int32
	HasNext    bool
	HasPrev    bool
}

// ExpenseUpdate is a partial patch. Only non-nil fields are applied.
type ExpenseUpdate struct {
	Title       *string
	Description *string
	Amount      *decimal.Decimal
	Category    *ExpenseCategory
	Date        *time.Time
	Location    *string
	Tags        *string
	IsRecurring *bool
}

// ExpenseRepository is the persistence contract for expenses.
type ExpenseRepository interface {
	Create(expense *Expense) (*Expense, error)
	GetByID(id uuid.UUID) (*Expense, error)
	List(filters *ExpenseFilters) (*PaginatedExpenses, error)
	Update(id uuid.UUID, patch *ExpenseUpdate) (*Expense, error)
	Delete(id uuid.UUID) error

	SumAndCount(filter *StatsFilter) (decimal.Decimal, int64, error)
	GroupByCategory(filter *StatsFilter) ([]*CategoryAggregate, error)
	MonthlySpending(filter *StatsFilter, since time.Time, limit int) ([]*MonthlyAggregate, error)
	Recent(filter *StatsFilter, limit int) ([]*Expense, error)
	Highest(filter *StatsFilter) (*Expense, error)
}
