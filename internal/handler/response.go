package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorResponse is the uniform failure envelope
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// MessageResponse is the envelope for operations with no data payload
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// NewValidationError responds with 400 and the failure envelope
func NewValidationError(c echo.Context, detail string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: detail})
}

// NewNotFoundError responds with 404 and the failure envelope
func NewNotFoundError(c echo.Context, detail string) error {
	return c.JSON(http.StatusNotFound, ErrorResponse{Error: detail})
}

// NewInternalError responds with 500 and the failure envelope. The
// detail is a generic message; the underlying error is logged, not sent.
func NewInternalError(c echo.Context, detail string) error {
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: detail})
}
