package model

import "fmt"

// ErrorCode represents a structured API error code.
type ErrorCode string

const (
	ErrValidation  ErrorCode = "VALIDATION_ERROR"
	ErrDuplicate   ErrorCode = "DUPLICATE_ID"
	ErrUnsupported ErrorCode = "UNSUPPORTED_POLICY"
	ErrNotFound    ErrorCode = "NOT_FOUND"
	ErrInternal    ErrorCode = "INTERNAL_ERROR"
)

// Sentinels for errors.Is matching. An *APIError matches the sentinel
// carrying the same code.
var (
	ErrInvalidInput      = &APIError{Code: ErrValidation, Message: "invalid input"}
	ErrDuplicateID       = &APIError{Code: ErrDuplicate, Message: "duplicate id"}
	ErrUnsupportedPolicy = &APIError{Code: ErrUnsupported, Message: "unsupported policy"}
	ErrMissing           = &APIError{Code: ErrNotFound, Message: "not found"}
)

// APIError is a structured, user-visible error.
type APIError struct {
	Code    ErrorCode    `json:"code"`
	Message string       `json:"message"`
	Details []FieldError `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is reports whether target is an *APIError with the same code.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	return ok && t.Code == e.Code
}

// FieldError describes a validation error on a specific field.
type FieldError struct {
	Field   string `json:"field,omitempty"`
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
}

// NewValidationError creates an APIError with validation details.
func NewValidationError(msg string, details ...FieldError) *APIError {
	return &APIError{Code: ErrValidation, Message: msg, Details: details}
}

// NewDuplicateError creates a DUPLICATE_ID APIError.
func NewDuplicateError(id string) *APIError {
	return &APIError{
		Code:    ErrDuplicate,
		Message: "A process with this ID already exists",
		Details: []FieldError{{Field: "id", Message: fmt.Sprintf("process %q already exists", id)}},
	}
}

// NewUnsupportedPolicyError creates an UNSUPPORTED_POLICY APIError.
func NewUnsupportedPolicyError(policy string) *APIError {
	return &APIError{
		Code:    ErrUnsupported,
		Message: "Selected algorithm not implemented yet",
		Details: []FieldError{{Field: "policy", Message: fmt.Sprintf("policy %q is not available", policy)}},
	}
}

// NewNotFoundError creates a NOT_FOUND APIError.
func NewNotFoundError(resource, id string) *APIError {
	return &APIError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s '%s' not found", resource, id),
	}
}

// InvalidTransitionError is returned when a process state transition is invalid.
type InvalidTransitionError struct {
	ID   string
	From ProcessState
	To   ProcessState
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid process state transition: %s → %s (process %s)", e.From, e.To, e.ID)
}
