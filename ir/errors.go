package ir

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes graph errors.
type ErrorKind uint8

const (
	// KindInvalidNodeSpec indicates malformed node construction parameters.
	KindInvalidNodeSpec ErrorKind = iota

	// KindTypeMismatch indicates an edge or node input with an incompatible type.
	KindTypeMismatch

	// KindCycleDetected indicates an edge that would break acyclicity.
	KindCycleDetected

	// KindUnknownNode indicates a handle that does not resolve.
	KindUnknownNode

	// KindUnknownPin indicates a pin slot that does not exist on its node.
	KindUnknownPin

	// KindUnboundInput indicates a required input with no edge and no default.
	KindUnboundInput

	// KindMissingOutput indicates a script without any output variable.
	KindMissingOutput

	// KindInvalidBinding indicates conflicting or misplaced variable bindings.
	KindInvalidBinding

	// KindInternalInvariantViolation indicates a bug: a check that must never trip did.
	KindInternalInvariantViolation
)

// Sentinel errors, one per kind, for errors.Is.
var (
	ErrInvalidNodeSpec            = errors.New("invalid node spec")
	ErrTypeMismatch               = errors.New("type mismatch")
	ErrCycleDetected              = errors.New("cycle detected")
	ErrUnknownNode                = errors.New("unknown node")
	ErrUnknownPin                 = errors.New("unknown pin")
	ErrUnboundInput               = errors.New("unbound input")
	ErrMissingOutput              = errors.New("missing output")
	ErrInvalidBinding             = errors.New("invalid binding")
	ErrInternalInvariantViolation = errors.New("internal invariant violation")
)

var kindSentinels = [...]error{
	KindInvalidNodeSpec:            ErrInvalidNodeSpec,
	KindTypeMismatch:               ErrTypeMismatch,
	KindCycleDetected:              ErrCycleDetected,
	KindUnknownNode:                ErrUnknownNode,
	KindUnknownPin:                 ErrUnknownPin,
	KindUnboundInput:               ErrUnboundInput,
	KindMissingOutput:              ErrMissingOutput,
	KindInvalidBinding:             ErrInvalidBinding,
	KindInternalInvariantViolation: ErrInternalInvariantViolation,
}

// String returns a human-readable error kind name.
func (k ErrorKind) String() string {
	switch k {
	case KindInvalidNodeSpec:
		return "InvalidNodeSpec"
	case KindTypeMismatch:
		return "TypeMismatch"
	case KindCycleDetected:
		return "CycleDetected"
	case KindUnknownNode:
		return "UnknownNode"
	case KindUnknownPin:
		return "UnknownPin"
	case KindUnboundInput:
		return "UnboundInput"
	case KindMissingOutput:
		return "MissingOutput"
	case KindInvalidBinding:
		return "InvalidBinding"
	case KindInternalInvariantViolation:
		return "InternalInvariantViolation"
	default:
		return "Unknown"
	}
}

// Error is a graph error. It unwraps to the sentinel of its kind.
type Error struct {
	Kind    ErrorKind
	Message string
	// Optional context
	Node *NodeHandle
	Pin  *PinRef
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Pin != nil:
		return fmt.Sprintf("%s at %s: %s", e.Kind, e.Pin, e.Message)
	case e.Node != nil:
		return fmt.Sprintf("%s at %s: %s", e.Kind, e.Node, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the sentinel for the error's kind.
func (e *Error) Unwrap() error {
	if int(e.Kind) < len(kindSentinels) {
		return kindSentinels[e.Kind]
	}
	return nil
}

// NewError creates an error without node or pin context.
func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NodeError creates an error attached to node h.
func NodeError(kind ErrorKind, h NodeHandle, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Node: &h}
}

// PinError creates an error attached to pin p.
func PinError(kind ErrorKind, p PinRef, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Pin: &p}
}

// KindOf extracts the ErrorKind from err. ok is false when err does not
// wrap an *Error.
func KindOf(err error) (kind ErrorKind, ok bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// IsKind reports whether err wraps an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
