package msl

import (
	"fmt"
	"math"
	"strings"

	"github.com/gogpu/shadergraph/ir"
	"github.com/gogpu/shadergraph/lower"
)

// Stage input and output names in the entry point.
const (
	inputVar     = "_input"
	outputVar    = "_output"
	inputSuffix  = "_Input"
	outputSuffix = "_Output"
)

// Dialect renders MSL expressions for the lowering pass.
type Dialect struct {
	// EntryPoint and its interface struct names are reserved in addition
	// to the MSL keywords. When empty, both stage defaults are reserved.
	EntryPoint string
}

var _ lower.Dialect = Dialect{}

// Name implements lower.Dialect.
func (Dialect) Name() string { return "msl" }

// TypeName implements lower.Dialect.
func (Dialect) TypeName(t ir.ValueType) string { return typeName(t) }

// Literal implements lower.Dialect. Matrices are built from column vectors.
func (Dialect) Literal(v ir.Value) string {
	if v.Type.IsScalar() {
		return scalarLiteral(v.Type.Kind(), v.Data[0])
	}
	if v.Type.IsMatrix() {
		n := v.Type.Size()
		column := ir.VectorOf(ir.ScalarFloat, n)
		cols := make([]string, n)
		for c := 0; c < n; c++ {
			cols[c] = Dialect{}.Literal(ir.Value{Type: column, Data: v.Data[c*n : (c+1)*n]})
		}
		return fmt.Sprintf("%s(%s)", typeName(v.Type), strings.Join(cols, ", "))
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
			return "int(-2147483647 - 1)"
		}
		return fmt.Sprintf("%d", int32(c))
	case ir.ScalarUint:
		return fmt.Sprintf("%du", uint32(c))
	default:
		return formatFloat(float32(c))
	}
}

// formatFloat formats a float32 for MSL output.
func formatFloat(f float32) string {
	s := fmt.Sprintf("%g", f)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// Binary implements lower.Dialect. % is only defined for integers.
func (Dialect) Binary(op ir.OperatorType, operand ir.ValueType, left, right string) string {
	if op == ir.OpMod && operand.Kind() == ir.ScalarFloat {
		return fmt.Sprintf("%sfmod(%s, %s)", Namespace, left, right)
	}
	return fmt.Sprintf("(%s %s %s)", left, op.Symbol(), right)
}

// mathFunctionName returns the metal:: function implementing fn.
func mathFunctionName(fn ir.FunctionType) string {
	switch fn {
	case ir.FuncInverseSqrt:
		return "rsqrt"
	}
	// The remaining names match the metal standard library.
	return fn.String()
}

// Call implements lower.Dialect.
func (Dialect) Call(fn ir.FunctionType, _ ir.ValueType, args []string) string {
	if fn == ir.FuncTransform {
		return fmt.Sprintf("(%s * %s)", args[0], args[1])
	}
	return fmt.Sprintf("%s%s(%s)", Namespace, mathFunctionName(fn), strings.Join(args, ", "))
}

// Cast implements lower.Dialect.
func (Dialect) Cast(_, to ir.ValueType, expr string) string {
	if to.IsScalar() {
		return fmt.Sprintf("static_cast<%s>(%s)", typeName(to), expr)
	}
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

// Sample implements lower.Dialect. Vertex functions have no implicit
// derivatives and read level 0.
func (Dialect) Sample(texture lower.Variable, uv string, stage ir.ShaderStage) string {
	if stage == ir.StageFragment {
		return fmt.Sprintf("%s.sample(%s, %s)", texture.Name, texture.Sampler, uv)
	}
	return fmt.Sprintf("%s.sample(%s, %s, %slevel(0.0))", texture.Name, texture.Sampler, uv, Namespace)
}

// InputRef implements lower.Dialect. Location inputs live in the stage_in
// struct, built-ins are entry point parameters and uniforms are read
// through their block reference.
func (Dialect) InputRef(v lower.Variable) string {
	switch v.Binding.(type) {
	case ir.LocationBinding:
		return inputVar + "." + v.Name
	case ir.UniformBinding:
		return v.Block + "." + v.Name
	}
	return v.Name
}

// IsReserved implements lower.Dialect.
func (d Dialect) IsReserved(name string) bool {
	if isReserved(name) {
		return true
	}
	entries := []string{d.EntryPoint}
	if d.EntryPoint == "" {
		entries = []string{defaultEntryPoint(ir.StageVertex), defaultEntryPoint(ir.StageFragment)}
	}
	for _, e := range entries {
		if name == e || name == e+inputSuffix || name == e+outputSuffix {
			return true
		}
	}
	return false
}
