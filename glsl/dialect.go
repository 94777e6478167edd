// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"fmt"
	"math"
	"strings"

	"github.com/gogpu/shadergraph/ir"
	"github.com/gogpu/shadergraph/lower"
)

// Dialect renders GLSL expressions for the lowering pass.
type Dialect struct{}

var _ lower.Dialect = Dialect{}

// Name implements lower.Dialect.
func (Dialect) Name() string { return "glsl" }

// TypeName implements lower.Dialect.
func (Dialect) TypeName(t ir.ValueType) string { return typeToGLSL(t) }

// Literal implements lower.Dialect.
func (Dialect) Literal(v ir.Value) string {
	if v.Type.IsScalar() {
		return scalarLiteral(v.Type.Kind(), v.Data[0])
	}
	parts := make([]string, len(v.Data))
	for i, c := range v.Data {
		parts[i] = scalarLiteral(v.Type.Kind(), c)
	}
	return fmt.Sprintf("%s(%s)", typeToGLSL(v.Type), strings.Join(parts, ", "))
}

func scalarLiteral(kind ir.ScalarKind, c float64) string {
	switch kind {
	case ir.ScalarBool:
		if c != 0 {
			return "true"
		}
		return "false"
	case ir.ScalarSint:
		if int32(c) == math.MinInt32 {
			return "int(-2147483647 - 1)"
		}
		return fmt.Sprintf("%d", int32(c))
	case ir.ScalarUint:
		return fmt.Sprintf("%du", uint32(c))
	default:
		return formatFloat(float32(c))
	}
}

// formatFloat formats a float32 for GLSL output.
func formatFloat(f float32) string {
	s := fmt.Sprintf("%g", f)
	// Ensure it has a decimal point or exponent
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// Binary implements lower.Dialect.
func (Dialect) Binary(op ir.OperatorType, operand ir.ValueType, left, right string) string {
	if op == ir.OpMod {
		switch operand.Kind() {
		case ir.ScalarFloat:
			// mod() floors; the remainder truncates like WGSL.
			return fmt.Sprintf("(%s - %s * trunc(%s / %s))", left, right, left, right)
		case ir.ScalarSint:
			// % is undefined for negative operands.
			return fmt.Sprintf("(%s - %s * (%s / %s))", left, right, left, right)
		}
	}
	return fmt.Sprintf("(%s %s %s)", left, op.Symbol(), right)
}

var glslFunctions = map[ir.FunctionType]string{
	ir.FuncMin: "min", ir.FuncMax: "max", ir.FuncClamp: "clamp", ir.FuncAbs: "abs",
	ir.FuncFloor: "floor", ir.FuncCeil: "ceil", ir.FuncFract: "fract", ir.FuncSqrt: "sqrt",
	ir.FuncInverseSqrt: "inversesqrt", ir.FuncSin: "sin", ir.FuncCos: "cos", ir.FuncTan: "tan",
	ir.FuncExp: "exp", ir.FuncLog: "log", ir.FuncPow: "pow", ir.FuncStep: "step",
	ir.FuncMix: "mix", ir.FuncSmoothStep: "smoothstep", ir.FuncDot: "dot",
	ir.FuncLength: "length", ir.FuncDistance: "distance", ir.FuncNormalize: "normalize",
	ir.FuncReflect: "reflect", ir.FuncCross: "cross",
}

// Call implements lower.Dialect.
func (Dialect) Call(fn ir.FunctionType, _ ir.ValueType, args []string) string {
	switch fn {
	case ir.FuncSaturate:
		return fmt.Sprintf("clamp(%s, 0.0, 1.0)", args[0])
	case ir.FuncTransform:
		return fmt.Sprintf("(%s * %s)", args[0], args[1])
	}
	return fmt.Sprintf("%s(%s)", glslFunctions[fn], strings.Join(args, ", "))
}

// Cast implements lower.Dialect.
func (Dialect) Cast(_, to ir.ValueType, expr string) string {
	return fmt.Sprintf("%s(%s)", typeToGLSL(to), expr)
}

// Component implements lower.Dialect.
func (Dialect) Component(expr string, index int) string {
	return expr + "." + "xyzw"[index:index+1]
}

// Construct implements lower.Dialect.
func (Dialect) Construct(t ir.ValueType, args []string) string {
	return fmt.Sprintf("%s(%s)", typeToGLSL(t), strings.Join(args, ", "))
}

// Sample implements lower.Dialect. Textures and samplers are combined in
// GLSL, so the sampler name is not used. Implicit derivatives only exist
// in fragment shaders.
func (Dialect) Sample(texture lower.Variable, uv string, stage ir.ShaderStage) string {
	if stage == ir.StageFragment {
		return fmt.Sprintf("texture(%s, %s)", texture.Name, uv)
	}
	return fmt.Sprintf("textureLod(%s, %s, 0.0)", texture.Name, uv)
}

// InputRef implements lower.Dialect. Uniform block members are declared
// without an instance name and read directly.
func (Dialect) InputRef(v lower.Variable) string {
	if b, ok := v.Builtin(); ok {
		return builtinInput(b)
	}
	return v.Name
}

// IsReserved implements lower.Dialect.
func (Dialect) IsReserved(name string) bool {
	return isKeyword(name) || strings.HasPrefix(name, "gl_")
}

func builtinInput(b ir.BuiltinValue) string {
	switch b {
	case ir.BuiltinVertexIndex:
		return "uint(gl_VertexID)"
	case ir.BuiltinInstanceIndex:
		return "uint(gl_InstanceID)"
	case ir.BuiltinFragCoord:
		return "gl_FragCoord"
	case ir.BuiltinFrontFacing:
		return "gl_FrontFacing"
	}
	return builtinOutput(b)
}

func builtinOutput(b ir.BuiltinValue) string {
	switch b {
	case ir.BuiltinPosition:
		return "gl_Position"
	case ir.BuiltinFragDepth:
		return "gl_FragDepth"
	}
	return "gl_UNKNOWN"
}
