package httputil

import (
	"errors"
	"log"
	"net/http"

	"catalog-service/internal/domain"

	"github.com/labstack/echo/v4"
)

// HTTPError represents a structured error response.
type HTTPError struct {
	StatusCode       int          `json:"status"`
	Title            string       `json:"error"`
	Message          string       `json:"message"`
	Path             string       `json:"path,omitempty"` // Originating request path, filled in by SendErrorResponse
	ValidationErrors []FieldError `json:"validationErrors,omitempty"`
}

// FieldError is a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// NewHTTPError creates a new HTTPError instance.
func NewHTTPError(statusCode int, title, message string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Title:      title,
		Message:    message,
	}
}

// WithValidationErrors attaches field-level failures to the error.
func (e *HTTPError) WithValidationErrors(fields []FieldError) *HTTPError {
	e.ValidationErrors = fields
	return e
}

// Error implements the error interface so an HTTPError can travel through
// echo's error chain and be picked up by the central error handler.
func (e *HTTPError) Error() string {
	return e.Message
}

// SendErrorResponse sends a standardized JSON error response, stamping the
// request path onto it. Server errors are logged for monitoring.
func SendErrorResponse(c echo.Context, err *HTTPError) error {
	err.Path = c.Request().URL.Path
	if err.StatusCode >= 500 {
		log.Printf("Server Error: Status %d, Message: %s, Path: %s",
			err.StatusCode, err.Message, err.Path)
	}
	return c.JSON(err.StatusCode, err)
}

// --- Common Error Constructors ---

func BadRequestError(message string) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, "Invalid Item Data", message)
}

func ValidationError(fields []FieldError) *HTTPError {
	err := NewHTTPError(http.StatusBadRequest, "Validation Failed", "Request validation failed")
	return err.WithValidationErrors(fields)
}

func NotFoundError(message string) *HTTPError {
	return NewHTTPError(http.StatusNotFound, "Item Not Found", message)
}

func ConflictError(message string) *HTTPError {
	return NewHTTPError(http.StatusConflict, "Item Already Exists", message)
}

// StoreAccessError hides the underlying transient cause from the caller.
func StoreAccessError() *HTTPError {
	return NewHTTPError(http.StatusInternalServerError, "Catalog Access Error",
		"An error occurred while accessing the catalog. Please try again later.")
}

func InternalServerError(message string) *HTTPError {
	if message == "" {
		message = "An unexpected error occurred. Please try again later."
	}
	return NewHTTPError(http.StatusInternalServerError, "Internal Server Error", message)
}

// FromDomainError translates a domain failure into its response shape.
// The mapping is total: every failure kind the store can produce has exactly
// one response, and anything uncategorized becomes a generic 500.
func FromDomainError(err error) *HTTPError {
	switch {
	case errors.Is(err, domain.ErrItemNotFound):
		return NotFoundError(err.Error())
	case errors.Is(err, domain.ErrItemAlreadyExists):
		return ConflictError(err.Error())
	case errors.Is(err, domain.ErrInvalidItemData), errors.Is(err, domain.ErrInvalidItemID):
		return BadRequestError(err.Error())
	case errors.Is(err, domain.ErrStoreUnavailable):
		// The transient cause is deliberately not exposed to the caller.
		return StoreAccessError()
	default:
		return InternalServerError("")
	}
}
