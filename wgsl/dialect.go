// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package wgsl

import (
	"fmt"
	"math"
	"strings"

	"github.com/gogpu/shadergraph/ir"
	"github.com/gogpu/shadergraph/lower"
)

const (
	inputVar  = "input"
	outputVar = "output"
)

// Dialect renders WGSL expressions for the lowering pass.
type Dialect struct {
	// EntryPoint is the entry function name. Empty reserves both
	// default names.
	EntryPoint string
}

var _ lower.Dialect = Dialect{}

// Name implements lower.Dialect.
func (Dialect) Name() string { return "wgsl" }

// TypeName implements lower.Dialect.
func (Dialect) TypeName(t ir.ValueType) string { return typeName(t) }

// Literal implements lower.Dialect. Matrix data is already column-major,
// which is the constructor order WGSL expects.
func (Dialect) Literal(v ir.Value) string {
	if v.Type.IsScalar() {
		return scalarLiteral(v.Type.Kind(), v.Data[0])
	}
	parts := make([]string, len(v.Data))
	for i, c := range v.Data {
		parts[i] = scalarLiteral(v.Type.Kind(), c)
	}
	return fmt.Sprintf("%s(%s)", typeName(v.Type), strings.Join(parts, ", "))
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
			// The literal is negated after parsing and 2147483648 overflows.
			return "i32(-2147483647 - 1)"
		}
		return fmt.Sprintf("%di", int32(c))
	case ir.ScalarUint:
		return fmt.Sprintf("%du", uint32(c))
	default:
		return formatFloat(float32(c))
	}
}

// formatFloat formats a float32 for WGSL output.
func formatFloat(f float32) string {
	s := fmt.Sprintf("%g", f)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// Binary implements lower.Dialect. WGSL % truncates for floats and
// integers alike, and * multiplies matrices.
func (Dialect) Binary(op ir.OperatorType, _ ir.ValueType, left, right string) string {
	return fmt.Sprintf("(%s %s %s)", left, op.Symbol(), right)
}

var wgslFunctions = map[ir.FunctionType]string{
	ir.FuncMin: "min", ir.FuncMax: "max", ir.FuncClamp: "clamp", ir.FuncAbs: "abs",
	ir.FuncFloor: "floor", ir.FuncCeil: "ceil", ir.FuncFract: "fract", ir.FuncSqrt: "sqrt",
	ir.FuncInverseSqrt: "inverseSqrt", ir.FuncSin: "sin", ir.FuncCos: "cos", ir.FuncTan: "tan",
	ir.FuncExp: "exp", ir.FuncLog: "log", ir.FuncSaturate: "saturate", ir.FuncPow: "pow",
	ir.FuncStep: "step", ir.FuncMix: "mix", ir.FuncSmoothStep: "smoothstep", ir.FuncDot: "dot",
	ir.FuncLength: "length", ir.FuncDistance: "distance", ir.FuncNormalize: "normalize",
	ir.FuncReflect: "reflect", ir.FuncCross: "cross",
}

// Call implements lower.Dialect.
func (Dialect) Call(fn ir.FunctionType, _ ir.ValueType, args []string) string {
	if fn == ir.FuncTransform {
		return fmt.Sprintf("(%s * %s)", args[0], args[1])
	}
	return fmt.Sprintf("%s(%s)", wgslFunctions[fn], strings.Join(args, ", "))
}

// Cast implements lower.Dialect.
func (Dialect) Cast(_, to ir.ValueType, expr string) string {
	return fmt.Sprintf("%s(%s)", typeName(to), expr)
}

// Component implements lower.Dialect.
func (Dialect) Component(expr string, index int) string {
	return expr + "." + "xyzw"[index:index+1]
}

// Construct implements lower.Dialect.
func (Dialect) Construct(t ir.ValueType, args []string) string {
	return fmt.Sprintf("%s(%s)", typeName(t), strings.Join(args, ", "))
}

// Sample implements lower.Dialect. textureSample needs implicit
// derivatives, which only fragment shaders have.
func (Dialect) Sample(texture lower.Variable, uv string, stage ir.ShaderStage) string {
	if stage == ir.StageFragment {
		return fmt.Sprintf("textureSample(%s, %s, %s)", texture.Name, texture.Sampler, uv)
	}
	return fmt.Sprintf("textureSampleLevel(%s, %s, %s, 0.0)", texture.Name, texture.Sampler, uv)
}

// InputRef implements lower.Dialect.
func (Dialect) InputRef(v lower.Variable) string {
	switch v.Binding.(type) {
	case ir.UniformBinding:
		return v.Block + "." + v.Name
	case ir.LocationBinding, ir.BuiltinBinding:
		return inputVar + "." + v.Name
	}
	return v.Name
}

// IsReserved implements lower.Dialect.
func (d Dialect) IsReserved(name string) bool {
	if IsReserved(name) {
		return true
	}
	if d.EntryPoint == "" {
		return name == defaultEntryPoint(ir.StageVertex) || name == defaultEntryPoint(ir.StageFragment)
	}
	return name == d.EntryPoint
}
