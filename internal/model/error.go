package model

import (
	"fmt"
	"strings"
)

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON        = "INVALID_JSON"
	ErrCodeInvalidQuery       = "INVALID_QUERY"
	ErrCodeInvalidPromotionID = "INVALID_PROMOTION_ID"
	ErrCodeValidationFailed   = "VALIDATION_FAILED"
	ErrCodePromotionNotFound  = "PROMOTION_NOT_FOUND"
	ErrCodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	ErrCodeUnauthorised       = "UNAUTHORIZED"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)

// DomainError is a business rule failure carrying an API error code.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrPromotionNotFound  = NewDomainError(ErrCodePromotionNotFound, "Promotion not found")
	ErrInvalidPromotionID = NewDomainError(ErrCodeInvalidPromotionID, "Promotion ID must be a positive integer")
	ErrInvalidQuery       = NewDomainError(ErrCodeInvalidQuery, "Invalid list query parameters")
)

// FieldError describes one rule a field failed.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

func (f FieldError) String() string {
	switch f.Rule {
	case "required", "notblank":
		return f.Field + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s", f.Field, f.Param)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", f.Field, f.Param)
	case "cardnumbers":
		return f.Field + " may contain only digits and commas"
	default:
		return fmt.Sprintf("%s failed %s", f.Field, f.Rule)
	}
}

// ValidationError lists every field of a promotion that broke a rule.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.String()
	}
	return "invalid promotion: " + strings.Join(parts, "; ")
}

// Has reports whether the given field failed validation.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}
