// Package graphtest builds the shader graphs shared by backend tests and
// benchmarks.
package graphtest

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gogpu/shadergraph/ir"
)

// Builder wraps a script and fails the test on the first error.
type Builder struct {
	tb     testing.TB
	Script *ir.Script
}

// New returns a builder over an empty script.
func New(tb testing.TB) *Builder {
	tb.Helper()
	return &Builder{tb: tb, Script: ir.NewScript()}
}

func (b *Builder) check(h ir.NodeHandle, err error) ir.NodeHandle {
	b.tb.Helper()
	require.NoError(b.tb, err)
	return h
}

// Constant adds a constant node.
func (b *Builder) Constant(v ir.Value) ir.NodeHandle {
	b.tb.Helper()
	return b.check(b.Script.AddConstant(v))
}

// Input adds an input variable.
func (b *Builder) Input(name string, t ir.ValueType, binding ir.Binding) ir.NodeHandle {
	b.tb.Helper()
	return b.check(b.Script.AddInput(name, t, binding))
}

// Output adds an output variable fed by src.
func (b *Builder) Output(name string, t ir.ValueType, binding ir.Binding, src ir.NodeHandle) ir.NodeHandle {
	b.tb.Helper()
	h := b.check(b.Script.AddOutput(name, t, binding))
	b.Connect(src, 0, h, 0)
	return h
}

// Operator adds a binary operator fed by left and right.
func (b *Builder) Operator(op ir.OperatorType, lt, rt ir.ValueType, left, right ir.NodeHandle) ir.NodeHandle {
	b.tb.Helper()
	h := b.check(b.Script.AddOperator(op, lt, rt))
	b.Connect(left, 0, h, 0)
	b.Connect(right, 0, h, 1)
	return h
}

// Function adds a function whose leading inputs are fed by args in order.
func (b *Builder) Function(fn ir.FunctionType, operand ir.ValueType, args ...ir.NodeHandle) ir.NodeHandle {
	b.tb.Helper()
	h := b.check(b.Script.AddFunction(fn, operand))
	for i, a := range args {
		b.Connect(a, 0, h, i)
	}
	return h
}

// Connect links an output slot to an input slot.
func (b *Builder) Connect(from ir.NodeHandle, fromSlot int, to ir.NodeHandle, toSlot int) {
	b.tb.Helper()
	require.NoError(b.tb, b.Script.Connect(ir.Out(from, fromSlot), ir.In(to, toSlot)))
}

// Add is 2.0 + 3.0 written to a float output.
func Add(tb testing.TB) *ir.Script {
	tb.Helper()
	b := New(tb)
	sum := b.Operator(ir.OpAdd, ir.Float32, ir.Float32, b.Constant(ir.Float(2)), b.Constant(ir.Float(3)))
	b.Output("result", ir.Float32, nil, sum)
	return b.Script
}

// Reversed is 2.0 - 3.0 built consumers first, with a removed node in
// front, so handle order differs from dependency order.
func Reversed(tb testing.TB) *ir.Script {
	tb.Helper()
	b := New(tb)
	scratch := b.Constant(ir.Float(9))
	out := b.check(b.Script.AddOutput("result", ir.Float32, ir.LocationBinding{Location: 0}))
	diff := b.check(b.Script.AddOperator(ir.OpSub, ir.Float32, ir.Float32))
	right := b.Constant(ir.Float(3))
	left := b.Constant(ir.Float(2))
	b.Connect(diff, 0, out, 0)
	b.Connect(left, 0, diff, 0)
	b.Connect(right, 0, diff, 1)
	require.NoError(tb, b.Script.RemoveNode(scratch))
	return b.Script
}

// Textured is a fragment shader that samples a texture and tints it with
// a uniform color.
func Textured(tb testing.TB) *ir.Script {
	tb.Helper()
	b := New(tb)
	uv := b.Input("uv", ir.Vector2f32, ir.LocationBinding{Location: 0})
	albedo := b.Input("albedo", ir.Texture2D, ir.ResourceBinding{Resource: "albedo", Group: 0, Binding: 1})
	tint := b.Input("tint", ir.Vector4f32, ir.UniformBinding{Block: "Material", Group: 0, Binding: 0})
	texel := b.Function(ir.FuncSample, 0, albedo, uv)
	shaded := b.Operator(ir.OpMul, ir.Vector4f32, ir.Vector4f32, texel, tint)
	b.Output("color", ir.Vector4f32, ir.LocationBinding{Location: 0}, shaded)
	return b.Script
}

// Transform is a vertex shader that projects a position through a uniform
// matrix and passes a texture coordinate through.
func Transform(tb testing.TB) *ir.Script {
	tb.Helper()
	b := New(tb)
	pos := b.Input("position", ir.Vector3f32, ir.LocationBinding{Location: 0})
	uv := b.Input("uv", ir.Vector2f32, ir.LocationBinding{Location: 1})
	viewProj := b.Input("view_proj", ir.Matrix4f32, ir.UniformBinding{Block: "Camera", Group: 0, Binding: 0})
	world := b.Function(ir.FuncExtend, ir.Vector3f32, pos)
	clip := b.Function(ir.FuncTransform, ir.Matrix4f32, viewProj, world)
	b.Output("clip", ir.Vector4f32, ir.BuiltinBinding{Builtin: ir.BuiltinPosition}, clip)
	b.Output("v_uv", ir.Vector2f32, ir.LocationBinding{Location: 0}, uv)
	return b.Script
}

// Lambert is a fragment shader with diffuse lighting, a component split, a
// float remainder and a built-in input.
func Lambert(tb testing.TB) *ir.Script {
	tb.Helper()
	b := New(tb)
	normal := b.Input("normal", ir.Vector3f32, ir.LocationBinding{Location: 0})
	coord := b.Input("coord", ir.Vector4f32, ir.BuiltinBinding{Builtin: ir.BuiltinFragCoord})
	light := b.Constant(ir.Vec3(0, 1, 0))

	n := b.Function(ir.FuncNormalize, ir.Vector3f32, normal)
	ndotl := b.Function(ir.FuncDot, ir.Vector3f32, n, light)
	diffuse := b.Function(ir.FuncSaturate, ir.Float32, ndotl)

	xy := b.Function(ir.FuncSplit, ir.Vector4f32, coord)
	stripes := b.Operator(ir.OpMod, ir.Float32, ir.Float32, xy, b.Constant(ir.Float(8)))

	rgb := b.Function(ir.FuncCompose, ir.Vector3f32, diffuse, stripes, diffuse)
	color := b.Function(ir.FuncExtend, ir.Vector3f32, rgb)
	b.Output("color", ir.Vector4f32, ir.LocationBinding{Location: 0}, color)
	return b.Script
}

// Chain is a fragment shader of n additions applied to a float input.
func Chain(tb testing.TB, n int) *ir.Script {
	tb.Helper()
	b := New(tb)
	prev := b.Input("x", ir.Float32, ir.LocationBinding{Location: 0})
	one := b.Constant(ir.Float(1))
	for i := 0; i < n; i++ {
		prev = b.Operator(ir.OpAdd, ir.Float32, ir.Float32, prev, one)
	}
	b.Output("result", ir.Float32, ir.LocationBinding{Location: 0}, prev)
	return b.Script
}
