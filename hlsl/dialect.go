// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"fmt"
	"math"
	"strings"

	"github.com/gogpu/shadergraph/ir"
	"github.com/gogpu/shadergraph/lower"
)

// Dialect renders HLSL expressions for the lowering pass.
type Dialect struct {
	// EntryPoint is reserved in addition to the HLSL keywords.
	EntryPoint string
}

var _ lower.Dialect = Dialect{}

// Name implements lower.Dialect.
func (Dialect) Name() string { return "hlsl" }

// TypeName implements lower.Dialect.
func (Dialect) TypeName(t ir.ValueType) string { return typeToHLSL(t) }

// Literal implements lower.Dialect. HLSL matrix constructors take their
// arguments row by row, while values store columns.
func (Dialect) Literal(v ir.Value) string {
	if v.Type.IsScalar() {
		return scalarLiteral(v.Type.Kind(), v.Data[0])
	}
	parts := make([]string, len(v.Data))
	if v.Type.IsMatrix() {
		n := v.Type.Size()
		for r := 0; r < n; r++ {
			for c := 0; c < n; c++ {
				parts[r*n+c] = formatFloat(float32(v.Data[c*n+r]))
			}
		}
	} else {
		for i, c := range v.Data {
			parts[i] = scalarLiteral(v.Type.Kind(), c)
		}
	}
	return fmt.Sprintf("%s(%s)", typeToHLSL(v.Type), strings.Join(parts, ", "))
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

// formatFloat formats a float32 for HLSL output.
func formatFloat(f float32) string {
	s := fmt.Sprintf("%g", f)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// Binary implements lower.Dialect. HLSL % truncates for both integers
// and floats.
func (Dialect) Binary(op ir.OperatorType, operand ir.ValueType, left, right string) string {
	if op == ir.OpMul && operand.IsMatrix() {
		// * is component-wise on matrices
		return fmt.Sprintf("mul(%s, %s)", left, right)
	}
	return fmt.Sprintf("(%s %s %s)", left, op.Symbol(), right)
}

var hlslFunctions = map[ir.FunctionType]string{
	ir.FuncMin: "min", ir.FuncMax: "max", ir.FuncClamp: "clamp", ir.FuncAbs: "abs",
	ir.FuncFloor: "floor", ir.FuncCeil: "ceil", ir.FuncFract: "frac", ir.FuncSqrt: "sqrt",
	ir.FuncInverseSqrt: "rsqrt", ir.FuncSin: "sin", ir.FuncCos: "cos", ir.FuncTan: "tan",
	ir.FuncExp: "exp", ir.FuncLog: "log", ir.FuncSaturate: "saturate", ir.FuncPow: "pow",
	ir.FuncStep: "step", ir.FuncMix: "lerp", ir.FuncSmoothStep: "smoothstep", ir.FuncDot: "dot",
	ir.FuncLength: "length", ir.FuncDistance: "distance", ir.FuncNormalize: "normalize",
	ir.FuncReflect: "reflect", ir.FuncCross: "cross", ir.FuncTransform: "mul",
}

// Call implements lower.Dialect.
func (Dialect) Call(fn ir.FunctionType, _ ir.ValueType, args []string) string {
	return fmt.Sprintf("%s(%s)", hlslFunctions[fn], strings.Join(args, ", "))
}

// Cast implements lower.Dialect.
func (Dialect) Cast(_, to ir.ValueType, expr string) string {
	return fmt.Sprintf("%s(%s)", typeToHLSL(to), expr)
}

// Component implements lower.Dialect.
func (Dialect) Component(expr string, index int) string {
	return expr + "." + "xyzw"[index:index+1]
}

// Construct implements lower.Dialect.
func (Dialect) Construct(t ir.ValueType, args []string) string {
	return fmt.Sprintf("%s(%s)", typeToHLSL(t), strings.Join(args, ", "))
}

// Sample implements lower.Dialect. Sample needs implicit derivatives, so
// vertex shaders read mip level 0 explicitly.
func (Dialect) Sample(texture lower.Variable, uv string, stage ir.ShaderStage) string {
	if stage == ir.StageFragment {
		return fmt.Sprintf("%s.Sample(%s, %s)", texture.Name, texture.Sampler, uv)
	}
	return fmt.Sprintf("%s.SampleLevel(%s, %s, 0.0)", texture.Name, texture.Sampler, uv)
}

// InputRef implements lower.Dialect. Stage inputs are fields of the entry
// point parameter; cbuffer members are globals.
func (Dialect) InputRef(v lower.Variable) string {
	switch v.Binding.(type) {
	case ir.LocationBinding, ir.BuiltinBinding:
		return inputVar + "." + v.Name
	}
	return v.Name
}

// IsReserved implements lower.Dialect.
func (d Dialect) IsReserved(name string) bool {
	return name == d.EntryPoint || IsReserved(name) || IsCaseInsensitiveReserved(name)
}
