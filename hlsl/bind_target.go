// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import "fmt"

// BindTarget specifies the HLSL register binding for a resource.
// HLSL uses register(x#, space#) syntax for resource binding.
type BindTarget struct {
	// Space is the register space (0-based).
	// Spaces allow multiple resources to use the same register index.
	Space uint8

	// Register is the register index within the space.
	Register uint32
}

// ResourceBinding identifies a uniform block or texture slot in the
// script. Textures claim the same slot for their paired sampler.
type ResourceBinding struct {
	// Group corresponds to WGSL @group.
	Group uint32

	// Binding corresponds to WGSL @binding.
	Binding uint32
}

// RegisterType represents the HLSL register type.
type RegisterType uint8

const (
	// RegisterTypeB is for constant buffers (cbuffer).
	RegisterTypeB RegisterType = iota

	// RegisterTypeT is for textures and shader resource views.
	RegisterTypeT

	// RegisterTypeS is for samplers.
	RegisterTypeS
)

// String returns the single-character register prefix.
func (rt RegisterType) String() string {
	switch rt {
	case RegisterTypeB:
		return "b"
	case RegisterTypeT:
		return "t"
	case RegisterTypeS:
		return "s"
	default:
		return "b"
	}
}

// DefaultBindTarget returns a BindTarget with default values.
// Defaults to space 0, register 0.
func DefaultBindTarget() BindTarget {
	return BindTarget{
		Space:    0,
		Register: 0,
	}
}

// WithSpace returns a copy of the BindTarget with the specified space.
func (bt BindTarget) WithSpace(space uint8) BindTarget {
	bt.Space = space
	return bt
}

// WithRegister returns a copy of the BindTarget with the specified register.
func (bt BindTarget) WithRegister(register uint32) BindTarget {
	bt.Register = register
	return bt
}

// fakeBindTarget maps a slot without an explicit target: the group
// becomes the register space and the binding the register index.
func fakeBindTarget(rb ResourceBinding) BindTarget {
	return BindTarget{Space: uint8(rb.Group), Register: rb.Binding} //nolint:gosec // G115: groups are small
}

// register returns the register clause, such as "register(t1, space0)".
// Shader models without register spaces only accept space 0.
func (bt BindTarget) register(rt RegisterType, sm ShaderModel) (string, error) {
	if !sm.SupportsRegisterSpaces() {
		if bt.Space != 0 {
			return "", NewError(ErrInvalidShaderModel,
				fmt.Sprintf("register space %d requires SM 5.1, target is %s", bt.Space, sm))
		}
		return fmt.Sprintf("register(%s%d)", rt, bt.Register), nil
	}
	return fmt.Sprintf("register(%s%d, space%d)", rt, bt.Register, bt.Space), nil
}
