package checkout

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyCheckout is returned when there is nothing to buy.
	ErrEmptyCheckout = errors.New("nothing to check out")
	// ErrSubmissionInFlight is returned to a second submit for the same session.
	ErrSubmissionInFlight = errors.New("a checkout is already being submitted")
	// ErrLoginRequired is returned when a guest tries to place an order.
	ErrLoginRequired = errors.New("login required to place an order")
	// ErrInvalidMode is returned for an unknown checkout mode.
	ErrInvalidMode = errors.New("invalid checkout mode")
)

// FieldError is one field-level validation failure.
type FieldError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

// ValidationError carries the failing fields in rule order.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Issue
	}
	return "checkout validation failed: " + strings.Join(parts, "; ")
}

// First returns the failure shown to the user.
func (e *ValidationError) First() FieldError {
	if len(e.Fields) == 0 {
		return FieldError{}
	}
	return e.Fields[0]
}

// ItemError rejects the items of a buy-now or cart checkout.
type ItemError struct {
	ProductID string
	Issue     string
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("item %s: %s", e.ProductID, e.Issue)
}

// SubmitError wraps a failure from the order service.
type SubmitError struct {
	Message string
	Err     error
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("failed to submit order: %v", e.Err)
}

func (e *SubmitError) Unwrap() error {
	return e.Err
}
