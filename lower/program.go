package lower

import (
	"fmt"

	"github.com/gogpu/shadergraph/ir"
)

// Variable is a declared input, output, uniform member or resource.
type Variable struct {
	// Name is the emitted identifier.
	Name string
	// Declared is the name given on the node.
	Declared string
	Node     ir.NodeHandle
	Type     ir.ValueType
	// Binding is never nil: variables created without one receive the
	// lowest free location.
	Binding ir.Binding
	// Block is the emitted instance name of the uniform block holding a
	// uniform member.
	Block string
	// Sampler is the emitted sampler name paired with a texture resource.
	Sampler string
}

// Location returns the variable's location and whether it has one.
func (v Variable) Location() (uint32, bool) {
	if b, ok := v.Binding.(ir.LocationBinding); ok {
		return b.Location, true
	}
	return 0, false
}

// Builtin returns the variable's built-in and whether it has one.
func (v Variable) Builtin() (ir.BuiltinValue, bool) {
	if b, ok := v.Binding.(ir.BuiltinBinding); ok {
		return b.Builtin, true
	}
	return 0, false
}

// UniformBlock groups uniform members declared under one block name.
type UniformBlock struct {
	// Name is the emitted type name of the block.
	Name string
	// Instance is the emitted variable name of the block.
	Instance string
	Group    uint32
	Binding  uint32
	Members  []Variable
}

// Statement binds one emitted identifier to one expression.
type Statement struct {
	ID   string
	Type ir.ValueType
	Expr string
	// Node and Slot identify the output pin the statement computes.
	Node ir.NodeHandle
	Slot int
	// Value is the statement's value when it is known at compile time.
	Value *ir.Value
}

// String returns "type id = expr".
func (s Statement) String() string {
	return fmt.Sprintf("%s %s = %s", s.Type, s.ID, s.Expr)
}

// Store writes an expression to an output variable.
type Store struct {
	Output Variable
	Expr   string
}

// Program is the lowered form of a script: the renderer backend contract.
type Program struct {
	Stage      ir.ShaderStage
	Statements []Statement
	Stores     []Store
	// Inputs and Outputs are stage interface variables, location bound
	// first in ascending location, then built-ins.
	Inputs  []Variable
	Outputs []Variable
	// Uniforms are ordered by group and binding.
	Uniforms []UniformBlock
	// Resources are texture inputs ordered by group and binding.
	Resources []Variable
}

// Locations returns the locations used by vars in order.
func Locations(vars []Variable) []uint32 {
	var out []uint32
	for _, v := range vars {
		if loc, ok := v.Location(); ok {
			out = append(out, loc)
		}
	}
	return out
}
