package model

import (
	"errors"
	"fmt"
	"testing"
)

func TestAPIError_Error(t *testing.T) {
	err := &APIError{Code: ErrNotFound, Message: "Workspace 'ws_123' not found"}
	want := "NOT_FOUND: Workspace 'ws_123' not found"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestNewNotFoundError(t *testing.T) {
	err := NewNotFoundError("Workspace", "ws_abc")
	if err.Code != ErrNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrNotFound)
	}
	if err.Message != "Workspace 'ws_abc' not found" {
		t.Errorf("Message = %q, want %q", err.Message, "Workspace 'ws_abc' not found")
	}
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("Please fill in all required fields",
		FieldError{Field: "arrival_time", Message: "required"},
		FieldError{Field: "burst_time", Message: "required"},
	)
	if err.Code != ErrValidation {
		t.Errorf("Code = %q, want %q", err.Code, ErrValidation)
	}
	if len(err.Details) != 2 {
		t.Errorf("Details length = %d, want 2", len(err.Details))
	}
}

func TestUserFacingMessages(t *testing.T) {
	if got := NewDuplicateError("3").Message; got != "A process with this ID already exists" {
		t.Errorf("duplicate message = %q", got)
	}
	if got := NewUnsupportedPolicyError("lottery").Message; got != "Selected algorithm not implemented yet" {
		t.Errorf("unsupported message = %q", got)
	}
}

func TestAPIError_Is(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{"validation", NewValidationError("bad"), ErrInvalidInput, true},
		{"duplicate", NewDuplicateError("1"), ErrDuplicateID, true},
		{"unsupported", NewUnsupportedPolicyError("x"), ErrUnsupportedPolicy, true},
		{"not found", NewNotFoundError("Workspace", "ws_1"), ErrMissing, true},
		{"wrapped", fmt.Errorf("add: %w", NewDuplicateError("1")), ErrDuplicateID, true},
		{"code mismatch", NewDuplicateError("1"), ErrInvalidInput, false},
		{"plain error", errors.New("boom"), ErrInvalidInput, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, tt.target); got != tt.want {
				t.Errorf("errors.Is = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInvalidTransitionError(t *testing.T) {
	err := &InvalidTransitionError{
		ID:   "P1",
		From: ProcessStateTerminated,
		To:   ProcessStateReady,
	}
	want := "invalid process state transition: Terminated → Ready (process P1)"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
