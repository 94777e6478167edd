// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import "fmt"

// ErrorKind categorizes HLSL compilation errors.
type ErrorKind uint8

const (
	// ErrMissingBinding indicates a resource binding was not found in BindingMap.
	ErrMissingBinding ErrorKind = iota

	// ErrInvalidShaderModel indicates an invalid or unsupported shader model.
	ErrInvalidShaderModel

	// ErrInvalidEntryPoint indicates an entry point name that is not a usable identifier.
	ErrInvalidEntryPoint
)

// String returns a human-readable error kind name.
func (k ErrorKind) String() string {
	switch k {
	case ErrMissingBinding:
		return "MissingBinding"
	case ErrInvalidShaderModel:
		return "InvalidShaderModel"
	case ErrInvalidEntryPoint:
		return "InvalidEntryPoint"
	default:
		return "Unknown"
	}
}

// Error represents an HLSL compilation error.
type Error struct {
	// Kind categorizes the error.
	Kind ErrorKind

	// Message provides details about the error.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("hlsl %s: %s", e.Kind, e.Message)
}

// Is matches any *Error of the same kind, so callers can test
// errors.Is(err, &hlsl.Error{Kind: hlsl.ErrMissingBinding}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// NewError creates a new HLSL error.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
	}
}
