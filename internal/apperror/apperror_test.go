package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorsIs(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		target    error
		wantMatch bool
	}{
		{
			name:      "NotFound wraps ErrNotFound",
			err:       NotFound("user", 7),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "ValidationFailed wraps ErrValidation",
			err:       ValidationFailed("name", "name is required"),
			target:    ErrValidation,
			wantMatch: true,
		},
		{
			name:      "DuplicateEmail wraps ErrConflict",
			err:       DuplicateEmail("a@b.co"),
			target:    ErrConflict,
			wantMatch: true,
		},
		{
			name:      "InvalidJSON wraps ErrInvalidJSON",
			err:       InvalidJSON("expected a JSON object"),
			target:    ErrInvalidJSON,
			wantMatch: true,
		},
		{
			name:      "BadRequest wraps ErrBadRequest",
			err:       BadRequest("page must be an integer"),
			target:    ErrBadRequest,
			wantMatch: true,
		},
		{
			name:      "NotFound does NOT match ErrValidation",
			err:       NotFound("user", 7),
			target:    ErrValidation,
			wantMatch: false,
		},
		{
			name:      "wrapped with fmt.Errorf still matches",
			err:       fmt.Errorf("creating user: %w", DuplicateEmail("a@b.co")),
			target:    ErrConflict,
			wantMatch: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errors.Is(tt.err, tt.target)
			if got != tt.wantMatch {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.wantMatch)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name        string
		err         *AppError
		wantMessage string
		wantCode    string
	}{
		{
			name:        "user NotFound uses user_not_found code",
			err:         NotFound("user", 42),
			wantMessage: "user not found with id 42",
			wantCode:    CodeUserNotFound,
		},
		{
			name:        "other NotFound uses generic code",
			err:         NotFound("order", 3),
			wantMessage: "order not found with id 3",
			wantCode:    CodeNotFound,
		},
		{
			name:        "DuplicateEmail names the email",
			err:         DuplicateEmail("jane@x.com"),
			wantMessage: "email jane@x.com already exists",
			wantCode:    CodeDuplicateEmail,
		},
		{
			name:        "ValidationFailed keeps custom message",
			err:         ValidationFailed("amount", "amount must be greater than 0"),
			wantMessage: "amount must be greater than 0",
			wantCode:    CodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMessage {
				t.Errorf("Error() = %q, want %q", got, tt.wantMessage)
			}
			if tt.err.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", tt.err.Code, tt.wantCode)
			}
		})
	}
}

func TestValidationFailedDetails(t *testing.T) {
	err := ValidationFailed("email", "invalid email format")

	if err.Field != "email" {
		t.Errorf("Field = %q, want %q", err.Field, "email")
	}
	details, ok := err.Details.(map[string]string)
	if !ok || details["field"] != "email" {
		t.Errorf("Details = %#v, want field=email", err.Details)
	}

	if ValidationFailed("", "bad").Details != nil {
		t.Error("Details should be nil when no field is given")
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(fmt.Errorf("wrap: %w", NotFound("user", 1))); got != CodeUserNotFound {
		t.Errorf("CodeOf(NotFound) = %q, want %q", got, CodeUserNotFound)
	}
	if got := CodeOf(errors.New("disk on fire")); got != CodeServerError {
		t.Errorf("CodeOf(plain) = %q, want %q", got, CodeServerError)
	}
}
