// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"fmt"

	"github.com/gogpu/shadergraph/ir"
)

// typeToHLSL returns the HLSL type name for a value type.
func typeToHLSL(t ir.ValueType) string {
	switch {
	case t == ir.Texture2D:
		return "Texture2D<float4>"
	case t.IsMatrix():
		// Square matrices only: floatNxN
		return fmt.Sprintf("float%dx%d", t.Size(), t.Size())
	case t.IsVector():
		return fmt.Sprintf("%s%d", scalarToHLSL(t.Kind()), t.Size())
	}
	return scalarToHLSL(t.Kind())
}

// scalarToHLSL returns the HLSL name for a scalar kind.
func scalarToHLSL(kind ir.ScalarKind) string {
	switch kind {
	case ir.ScalarBool:
		return "bool"
	case ir.ScalarSint:
		return "int"
	case ir.ScalarUint:
		return "uint"
	default:
		return "float"
	}
}

// needsNoInterpolation reports whether a varying of type t must be
// declared nointerpolation. Integer varyings cannot be interpolated.
func needsNoInterpolation(t ir.ValueType) bool {
	return t.Kind() == ir.ScalarSint || t.Kind() == ir.ScalarUint
}

// builtinSemantic returns the system-value semantic of a built-in.
func builtinSemantic(b ir.BuiltinValue) string {
	switch b {
	case ir.BuiltinPosition, ir.BuiltinFragCoord:
		return "SV_Position"
	case ir.BuiltinVertexIndex:
		return "SV_VertexID"
	case ir.BuiltinInstanceIndex:
		return "SV_InstanceID"
	case ir.BuiltinFrontFacing:
		return "SV_IsFrontFace"
	case ir.BuiltinFragDepth:
		return "SV_Depth"
	}
	return "SV_Unknown"
}
