// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"fmt"

	"github.com/gogpu/shadergraph/ir"
)

// typeToGLSL returns the GLSL type name for a value type.
func typeToGLSL(t ir.ValueType) string {
	switch {
	case t == ir.Texture2D:
		return "sampler2D"
	case t.IsMatrix():
		return matrixToGLSL(t.Size())
	case t.IsVector():
		return vectorToGLSL(t.Kind(), t.Size())
	}
	return scalarToGLSL(t.Kind())
}

// scalarToGLSL returns the GLSL name for a scalar kind.
func scalarToGLSL(kind ir.ScalarKind) string {
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

// vectorToGLSL returns the GLSL name for a vector type.
func vectorToGLSL(kind ir.ScalarKind, size int) string {
	switch kind {
	case ir.ScalarBool:
		return fmt.Sprintf("bvec%d", size)
	case ir.ScalarSint:
		return fmt.Sprintf("ivec%d", size)
	case ir.ScalarUint:
		return fmt.Sprintf("uvec%d", size)
	default:
		return fmt.Sprintf("vec%d", size)
	}
}

// matrixToGLSL returns the GLSL name for a square float matrix.
func matrixToGLSL(order int) string {
	return fmt.Sprintf("mat%d", order)
}

// needsFlat reports whether a varying of type t must be declared flat.
// Integer varyings cannot be interpolated.
func needsFlat(t ir.ValueType) bool {
	return t.Kind() == ir.ScalarSint || t.Kind() == ir.ScalarUint
}
