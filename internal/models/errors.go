package models

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// FieldError describes a single violated validation rule.
type FieldError struct {
	Param string `json:"param"`
	Msg   string `json:"msg"`
}

// ErrorResponse represents a standardized API error response.
type ErrorResponse struct {
	Error  string       `json:"error"`
	Code   string       `json:"code,omitempty"`
	Errors []FieldError `json:"errors,omitempty"`
}

// AppError represents a custom application error.
type AppError struct {
	Code    string
	Message string
	Fields  []FieldError
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

// Predefined error constructors
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    "VALIDATION_ERROR",
		Message: message,
	}
}

// NewFieldValidationError reports the violated rule for a named body field.
func NewFieldValidationError(param, msg string) *AppError {
	return &AppError{
		Code:    "VALIDATION_ERROR",
		Message: msg,
		Fields:  []FieldError{{Param: param, Msg: msg}},
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: message,
	}
}

func NewAlreadyLikedError() *AppError {
	return &AppError{
		Code:    "ALREADY_LIKED",
		Message: "Post already liked",
	}
}

func NewNotLikedError() *AppError {
	return &AppError{
		Code:    "NOT_LIKED",
		Message: "Post has not yet been liked",
	}
}

func NewAlreadyExistsError(message string) *AppError {
	return &AppError{
		Code:    "ALREADY_EXISTS",
		Message: message,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "Internal server error",
		Err:     err,
	}
}

// RespondWithError creates a standardized error response. Wrapped error
// detail is never echoed to the caller; internal errors surface as an opaque
// message and the detail stays in the logs.
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	response := ErrorResponse{Error: "Internal server error"}

	if appErr, ok := err.(*AppError); ok {
		response.Code = appErr.Code
		response.Errors = appErr.Fields
		if appErr.Code != "INTERNAL_ERROR" {
			response.Error = appErr.Message
		}
	}

	return c.Status(status).JSON(response)
}
