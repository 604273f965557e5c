package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes surfaced to clients. The client uses the category to decide
// whether to let the user retry (5xx) or fix input (4xx).
const (
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeValidationError = "VALIDATION_ERROR"
	CodeConflict        = "CONFLICT"
	CodeGenerationError = "GENERATION_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeInternalError   = "INTERNAL_ERROR"
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error   string   `json:"error"`
	Code    string   `json:"code,omitempty"`
	Fields  []string `json:"fields,omitempty"`
	Details string   `json:"details,omitempty"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Fields  []string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Status maps the error code to its HTTP status.
func (e *AppError) Status() int {
	switch e.Code {
	case CodeUnauthorized:
		return fiber.StatusUnauthorized
	case CodeValidationError:
		return fiber.StatusBadRequest
	case CodeConflict:
		return fiber.StatusConflict
	case CodeGenerationError:
		return fiber.StatusBadGateway
	case CodeNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// Predefined error constructors
func NewUnauthorizedError(message string) *AppError {
	return &AppError{Code: CodeUnauthorized, Message: message}
}

func NewValidationError(message string, fields ...string) *AppError {
	return &AppError{Code: CodeValidationError, Message: message, Fields: fields}
}

func NewConflictError(message string) *AppError {
	return &AppError{Code: CodeConflict, Message: message}
}

func NewGenerationError(err error) *AppError {
	return &AppError{Code: CodeGenerationError, Message: "Description generation failed", Err: err}
}

func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{Code: CodeNotFound, Message: fmt.Sprintf("%s with ID %v not found", resource, id)}
}

func NewInternalError(err error) *AppError {
	return &AppError{Code: CodeInternalError, Message: "Internal server error", Err: err}
}

// RespondWithError serializes an error as a standardized JSON response,
// deriving the HTTP status from the AppError code. Unrecognized errors are
// treated as internal and their details are not leaked to the client.
func RespondWithError(c *fiber.Ctx, err error) error {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = NewInternalError(err)
	}

	response := ErrorResponse{
		Error:  appErr.Message,
		Code:   appErr.Code,
		Fields: appErr.Fields,
	}
	if appErr.Err != nil && appErr.Code == CodeValidationError {
		response.Details = appErr.Err.Error()
	}

	return c.Status(appErr.Status()).JSON(response)
}
