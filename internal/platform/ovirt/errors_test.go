package ovirt

import (
	"context"
	"errors"
	"fmt"
	"testing"

	ovirtsdk4 "github.com/ovirt/go-ovirt"
)

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: false,
		},
		{
			name:     "generic error",
			err:      errors.New("connection reset by peer"),
			expected: true,
		},
		{
			name:     "context canceled",
			err:      context.Canceled,
			expected: false,
		},
		{
			name:     "auth fault",
			err:      &ovirtsdk4.AuthError{},
			expected: false,
		},
		{
			name:     "wrapped not found fault",
			err:      fmt.Errorf("get pool: %w", &ovirtsdk4.NotFoundError{}),
			expected: false,
		},
		{
			name:     "auth fault inside APIError",
			err:      wrap("list pools", &ovirtsdk4.AuthError{}),
			expected: false,
		},
		{
			name:     "wrapped deadline exceeded",
			err:      fmt.Errorf("request failed: %w", context.DeadlineExceeded),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := isRetryable(tt.err)
			if result != tt.expected {
				t.Errorf("isRetryable(%v) = %v, want %v", tt.err, result, tt.expected)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	if err := wrap("list pools", nil); err != nil {
		t.Errorf("wrap(nil) = %v, want nil", err)
	}

	cause := errors.New("boom")
	err := wrap("list pools", cause)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.Op != "list pools" {
		t.Errorf("Op = %q, want %q", apiErr.Op, "list pools")
	}
	if !errors.Is(err, cause) {
		t.Error("expected wrapped error to match cause")
	}
	if err.Error() != "ovirt list pools: boom" {
		t.Errorf("Error() = %q", err.Error())
	}

	// Re-wrapping keeps the innermost operation.
	again := wrap("connect", fmt.Errorf("outer: %w", err))
	if !errors.As(again, &apiErr) || apiErr.Op != "list pools" {
		t.Errorf("expected original op to survive re-wrap, got %v", again)
	}
}

func TestIsAPIError(t *testing.T) {
	if IsAPIError(errors.New("plain")) {
		t.Error("plain error reported as APIError")
	}
	if !IsAPIError(fmt.Errorf("failed to create pool: %w", &APIError{Op: "create pool", Err: errors.New("x")})) {
		t.Error("wrapped APIError not detected")
	}
}
