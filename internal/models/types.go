package models

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices travel as JSON numbers in both directions.
	decimal.MarshalJSONWithoutQuotes = true
}

// ErrorResponse represents the standard error response format
type ErrorResponse struct {
	Code    string        `json:"code"`
	Message string        `json:"message"`
	Details []ErrorDetail `json:"details,omitempty"`
}

type ErrorDetail struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

// ErrInvalidDTO is wrapped by every Validate failure.
var ErrInvalidDTO = errors.New("invalid data transfer object")

// FieldError reports the first missing or malformed field of a DTO.
type FieldError struct {
	Type  string
	Field string
	Issue string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s.%s: %s", e.Type, e.Field, e.Issue)
}

func (e *FieldError) Unwrap() error {
	return ErrInvalidDTO
}

func missing(typ, field string) error {
	return &FieldError{Type: typ, Field: field, Issue: "is required"}
}

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status   string `json:"status"`
	Upstream string `json:"upstream,omitempty"`
}
