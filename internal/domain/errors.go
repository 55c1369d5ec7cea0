package domain

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	ErrInternal     ErrorCode = "INTERNAL_ERROR"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Survey specific errors
	ErrInvalidRole      ErrorCode = "INVALID_ROLE"
	ErrResponseNotFound ErrorCode = "RESPONSE_NOT_FOUND"
	ErrInvalidRating    ErrorCode = "INVALID_RATING"
	ErrEmptyChart       ErrorCode = "EMPTY_CHART"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Helper functions for common errors
func NewNotFoundError(message string) *DomainError {
	return NewError(ErrNotFound, message, nil)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(ErrInvalidInput, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(ErrInternal, message, err)
}

func NewInvalidRoleError(role string) *DomainError {
	return NewError(ErrInvalidRole, fmt.Sprintf("Invalid role: %s", role), nil)
}

func NewResponseNotFoundError(responseID string) *DomainError {
	return NewError(ErrResponseNotFound, fmt.Sprintf("Response not found with ID: %s", responseID), nil)
}

func NewInvalidRatingError(category string, value int) *DomainError {
	return NewError(ErrInvalidRating,
		fmt.Sprintf("Rating %d for category %s is outside the %d-%d scale", value, category, RatingMin, RatingMax), nil)
}

func NewEmptyChartError() *DomainError {
	return NewError(ErrEmptyChart, "Cannot render a chart without categories", nil)
}
