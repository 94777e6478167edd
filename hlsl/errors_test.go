// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorKind_String(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{ErrMissingBinding, "MissingBinding"},
		{ErrInvalidShaderModel, "InvalidShaderModel"},
		{ErrInvalidEntryPoint, "InvalidEntryPoint"},
		{ErrorKind(255), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := tt.kind.String()
			if got != tt.want {
				t.Errorf("ErrorKind.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestError_Error(t *testing.T) {
	err := &Error{
		Kind:    ErrMissingBinding,
		Message: "resource 'albedo' has no binding",
	}
	got := err.Error()
	if !strings.Contains(got, "MissingBinding") {
		t.Errorf("Error() should contain kind, got %q", got)
	}
	if !strings.Contains(got, "resource 'albedo'") {
		t.Errorf("Error() should contain message, got %q", got)
	}
}

func TestNewError(t *testing.T) {
	err := NewError(ErrInvalidEntryPoint, "entry point \"float\" is reserved")

	if err.Kind != ErrInvalidEntryPoint {
		t.Errorf("Kind = %v, want ErrInvalidEntryPoint", err.Kind)
	}
	if err.Message != "entry point \"float\" is reserved" {
		t.Errorf("Message = %q", err.Message)
	}
}

func TestError_Is(t *testing.T) {
	wrapped := fmt.Errorf("hlsl: %w", NewError(ErrMissingBinding, "albedo"))

	if !errors.Is(wrapped, &Error{Kind: ErrMissingBinding}) {
		t.Error("errors.Is should match the same kind through wrapping")
	}
	if errors.Is(wrapped, &Error{Kind: ErrInvalidShaderModel}) {
		t.Error("errors.Is should not match a different kind")
	}
}
