package domain

import "errors"

// Domain errors
var (
	ErrExpenseNotFound  = errors.New("expense not found")
	ErrTitleRequired    = errors.New("title is required")
	ErrTitleTooLong     = errors.New("title exceeds maximum length")
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrInvalidSortField = errors.New("invalid sort field")
	ErrInvalidSortOrder = errors.New("invalid sort order")
)

// Validation constants
const (
	MaxTitleLength = 255
)
