// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package wgsl

import "github.com/gogpu/shadergraph/ir"

// typeName returns the WGSL spelling of a value type.
func typeName(t ir.ValueType) string {
	return t.String()
}

// needsFlat reports whether a varying must be declared
// @interpolate(flat). Integer varyings cannot be interpolated.
func needsFlat(t ir.ValueType) bool {
	return t.Kind() == ir.ScalarSint || t.Kind() == ir.ScalarUint
}

// builtinName returns the @builtin attribute value of b.
func builtinName(b ir.BuiltinValue) string {
	switch b {
	case ir.BuiltinPosition, ir.BuiltinFragCoord:
		return "position"
	case ir.BuiltinVertexIndex:
		return "vertex_index"
	case ir.BuiltinInstanceIndex:
		return "instance_index"
	case ir.BuiltinFrontFacing:
		return "front_facing"
	case ir.BuiltinFragDepth:
		return "frag_depth"
	}
	return "unknown"
}
