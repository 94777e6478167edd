package document

import (
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/shadergraph/ir"
)

// Version is the only document version this package reads and writes.
const Version = 1

// Document is a shader graph in its YAML form.
type Document struct {
	Version int    `yaml:"version"`
	Name    string `yaml:"name,omitempty"`
	// Stage is "vertex" or "fragment". Empty lets the compiler infer it.
	Stage string     `yaml:"stage,omitempty"`
	Nodes []NodeSpec `yaml:"nodes"`

	source string
}

// NodeSpec is one node of a document.
type NodeSpec struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label,omitempty"`

	Constant *ConstantSpec `yaml:"constant,omitempty"`
	Input    *VariableSpec `yaml:"input,omitempty"`
	Output   *VariableSpec `yaml:"output,omitempty"`
	Operator *OperatorSpec `yaml:"operator,omitempty"`
	Function *FunctionSpec `yaml:"function,omitempty"`

	// Inputs references the source of each input pin in slot order.
	Inputs []string `yaml:"inputs,omitempty,flow"`
	// Defaults maps a slot index or pin name to the value the pin takes
	// when it has no source.
	Defaults map[string]Components `yaml:"defaults,omitempty"`

	line, column int
}

// ConstantSpec describes a constant node. A missing type is inferred
// from the number of components.
type ConstantSpec struct {
	Type  ir.ValueType `yaml:"type,omitempty"`
	Value Components   `yaml:"value,flow"`
}

// VariableSpec describes an input or output variable. At most one
// binding may be set.
type VariableSpec struct {
	Name     string        `yaml:"name"`
	Type     ir.ValueType  `yaml:"type,omitempty"`
	Location *uint32       `yaml:"location,omitempty"`
	Builtin  string        `yaml:"builtin,omitempty"`
	Uniform  *UniformSpec  `yaml:"uniform,omitempty"`
	Resource *ResourceSpec `yaml:"resource,omitempty"`
}

// UniformSpec places an input inside a uniform block.
type UniformSpec struct {
	Block   string `yaml:"block"`
	Group   uint32 `yaml:"group"`
	Binding uint32 `yaml:"binding"`
}

// ResourceSpec binds an opaque resource.
type ResourceSpec struct {
	ID      string `yaml:"id"`
	Group   uint32 `yaml:"group"`
	Binding uint32 `yaml:"binding"`
}

// OperatorSpec describes a binary operator. Type sets both operand types;
// Left and Right override it per side.
type OperatorSpec struct {
	Op    string       `yaml:"op"`
	Type  ir.ValueType `yaml:"type,omitempty"`
	Left  ir.ValueType `yaml:"left,omitempty"`
	Right ir.ValueType `yaml:"right,omitempty"`
}

// FunctionSpec describes a built-in function call.
type FunctionSpec struct {
	Name    string       `yaml:"name"`
	Operand ir.ValueType `yaml:"operand,omitempty"`
}

// Components holds the components of a value. A single component may be
// written as a scalar, booleans as true or false.
type Components []float64

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Components) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		f, err := component(value)
		if err != nil {
			return err
		}
		*c = Components{f}
	case yaml.SequenceNode:
		out := make(Components, 0, len(value.Content))
		for _, item := range value.Content {
			f, err := component(item)
			if err != nil {
				return err
			}
			out = append(out, f)
		}
		*c = out
	default:
		return fmt.Errorf("line %d: value must be a number or a list of numbers", value.Line)
	}
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (c Components) MarshalYAML() (any, error) {
	if len(c) == 1 {
		return c[0], nil
	}
	return []float64(c), nil
}

func component(n *yaml.Node) (float64, error) {
	if n.Kind != yaml.ScalarNode {
		return 0, fmt.Errorf("line %d: component must be a scalar", n.Line)
	}
	if n.Tag == "!!bool" {
		var b bool
		if err := n.Decode(&b); err != nil {
			return 0, err
		}
		if b {
			return 1, nil
		}
		return 0, nil
	}
	var f float64
	if err := n.Decode(&f); err != nil {
		return 0, fmt.Errorf("line %d: invalid component %q", n.Line, n.Value)
	}
	return f, nil
}

var nodeFields = []string{
	"id", "label", "constant", "input", "output", "operator", "function", "inputs", "defaults",
}

// UnmarshalYAML implements yaml.Unmarshaler. It records the node position
// and rejects unknown fields.
func (n *NodeSpec) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return errorf(ErrSchema, value.Line, value.Column, "node must be a mapping")
	}
	for i := 0; i+1 < len(value.Content); i += 2 {
		key := value.Content[i]
		if !slices.Contains(nodeFields, key.Value) {
			return errorf(ErrSchema, key.Line, key.Column, "unknown node field %q", key.Value)
		}
	}
	type plain NodeSpec
	if err := value.Decode((*plain)(n)); err != nil {
		return err
	}
	n.line, n.column = value.Line, value.Column
	return nil
}

// kinds returns how many node kinds n sets.
func (n *NodeSpec) kinds() int {
	count := 0
	for _, set := range []bool{n.Constant != nil, n.Input != nil, n.Output != nil, n.Operator != nil, n.Function != nil} {
		if set {
			count++
		}
	}
	return count
}

// Source returns the text the document was parsed from.
func (d *Document) Source() string { return d.source }
