package ir

import "fmt"

// NodeHandle addresses a node inside its Script. Handles are assigned in
// creation order and never reused.
type NodeHandle uint32

// String returns the handle in "n<index>" form.
func (h NodeHandle) String() string { return fmt.Sprintf("n%d", uint32(h)) }

// Direction is the data-flow direction of a pin.
type Direction uint8

const (
	Input Direction = iota
	Output
)

// String returns "input" or "output".
func (d Direction) String() string {
	if d == Output {
		return "output"
	}
	return "input"
}

// PinRef addresses a single pin of a node.
type PinRef struct {
	Node NodeHandle
	Dir  Direction
	Slot int
}

// In returns a reference to input slot of node h.
func In(h NodeHandle, slot int) PinRef { return PinRef{Node: h, Dir: Input, Slot: slot} }

// Out returns a reference to output slot of node h.
func Out(h NodeHandle, slot int) PinRef { return PinRef{Node: h, Dir: Output, Slot: slot} }

// String returns "n3.in[1]" style text.
func (p PinRef) String() string {
	if p.Dir == Output {
		return fmt.Sprintf("%s.out[%d]", p.Node, p.Slot)
	}
	return fmt.Sprintf("%s.in[%d]", p.Node, p.Slot)
}

// less orders pins by node, direction, then slot.
func (p PinRef) less(o PinRef) bool {
	if p.Node != o.Node {
		return p.Node < o.Node
	}
	if p.Dir != o.Dir {
		return p.Dir < o.Dir
	}
	return p.Slot < o.Slot
}

// Pin describes one typed connection point of a node.
type Pin struct {
	Name      string
	Type      ValueType
	Direction Direction
	// Default is used when an input pin has no incoming edge.
	Default *Value
}

// Edge is a directed connection from an output pin to an input pin.
type Edge struct {
	From PinRef
	To   PinRef
}

// String returns "n1.out[0] -> n2.in[1]".
func (e Edge) String() string { return e.From.String() + " -> " + e.To.String() }

// ShaderStage represents a shader stage.
type ShaderStage uint8

const (
	StageVertex ShaderStage = iota
	StageFragment
)

// String returns "vertex" or "fragment".
func (s ShaderStage) String() string {
	if s == StageFragment {
		return "fragment"
	}
	return "vertex"
}

// ParseShaderStage parses "vertex" or "fragment".
func ParseShaderStage(s string) (ShaderStage, error) {
	switch s {
	case "vertex", "vert", "vs":
		return StageVertex, nil
	case "fragment", "frag", "fs", "pixel":
		return StageFragment, nil
	}
	return 0, fmt.Errorf("unknown shader stage %q", s)
}

// ResourceID is an opaque identifier of an externally managed resource
// such as a texture. The graph never dereferences it.
type ResourceID string

// Binding represents the shader-stage slot metadata of a variable.
type Binding interface {
	binding()
}

// LocationBinding binds a variable to a stage input/output location.
type LocationBinding struct {
	Location uint32
}

func (LocationBinding) binding() {}

// BuiltinBinding binds a variable to a stage built-in.
type BuiltinBinding struct {
	Builtin BuiltinValue
}

func (BuiltinBinding) binding() {}

// UniformBinding places an input variable inside a uniform block.
type UniformBinding struct {
	Block   string
	Group   uint32
	Binding uint32
}

func (UniformBinding) binding() {}

// ResourceBinding binds an opaque resource such as a texture.
type ResourceBinding struct {
	Resource ResourceID
	Group    uint32
	Binding  uint32
}

func (ResourceBinding) binding() {}

// BuiltinValue represents built-in values.
type BuiltinValue uint8

const (
	BuiltinPosition BuiltinValue = iota
	BuiltinVertexIndex
	BuiltinInstanceIndex
	BuiltinFragCoord
	BuiltinFrontFacing
	BuiltinFragDepth
)

// BuiltinInfo describes where a built-in may appear.
type BuiltinInfo struct {
	Name   string
	Type   ValueType
	Stage  ShaderStage
	Output bool
}

var builtinInfo = map[BuiltinValue]BuiltinInfo{
	BuiltinPosition:      {Name: "position", Type: Vector4f32, Stage: StageVertex, Output: true},
	BuiltinVertexIndex:   {Name: "vertex_index", Type: Uint32, Stage: StageVertex},
	BuiltinInstanceIndex: {Name: "instance_index", Type: Uint32, Stage: StageVertex},
	BuiltinFragCoord:     {Name: "frag_coord", Type: Vector4f32, Stage: StageFragment},
	BuiltinFrontFacing:   {Name: "front_facing", Type: Bool, Stage: StageFragment},
	BuiltinFragDepth:     {Name: "frag_depth", Type: Float32, Stage: StageFragment, Output: true},
}

// Info returns the built-in's fixed type and placement.
func (b BuiltinValue) Info() (BuiltinInfo, bool) {
	info, ok := builtinInfo[b]
	return info, ok
}

// String returns the WGSL built-in name.
func (b BuiltinValue) String() string {
	if info, ok := builtinInfo[b]; ok {
		return info.Name
	}
	return fmt.Sprintf("BuiltinValue(%d)", uint8(b))
}

// ParseBuiltin parses a WGSL built-in name.
func ParseBuiltin(s string) (BuiltinValue, error) {
	for b, info := range builtinInfo {
		if info.Name == s {
			return b, nil
		}
	}
	return 0, fmt.Errorf("unknown builtin %q", s)
}
