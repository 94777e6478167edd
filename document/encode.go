package document

import (
	"bytes"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/shadergraph/ir"
)

// FromScript converts a script into a document. Nodes are listed in
// topological order and numbered n0, n1, ... in that order, so decoding
// the document and converting it again yields the same document.
func FromScript(script *ir.Script) (*Document, error) {
	order, err := script.TopologicalOrder()
	if err != nil {
		return nil, err
	}
	ids := make(map[ir.NodeHandle]string, len(order))
	for i, h := range order {
		ids[h] = "n" + strconv.Itoa(i)
	}

	doc := &Document{Version: Version, Nodes: make([]NodeSpec, 0, len(order))}
	for _, h := range order {
		n, err := script.Node(h)
		if err != nil {
			return nil, err
		}
		spec, err := nodeSpec(script, n, ids)
		if err != nil {
			return nil, err
		}
		doc.Nodes = append(doc.Nodes, spec)
	}
	return doc, nil
}

func nodeSpec(script *ir.Script, n ir.Node, ids map[ir.NodeHandle]string) (NodeSpec, error) {
	spec := NodeSpec{ID: ids[n.Handle], Label: n.Label}

	switch k := n.Kind.(type) {
	case ir.Constant:
		spec.Constant = &ConstantSpec{Type: k.Value.Type, Value: Components(k.Value.Data)}
	case ir.InputVariable:
		spec.Input = variableSpec(k.Name, k.Type, k.Binding)
	case ir.OutputVariable:
		spec.Output = variableSpec(k.Name, k.Type, k.Binding)
	case ir.Operator:
		spec.Operator = &OperatorSpec{Op: k.Op.String(), Left: k.Left, Right: k.Right}
	case ir.Function:
		spec.Function = &FunctionSpec{Name: k.Fun.String(), Operand: k.Operand}
	default:
		return NodeSpec{}, fmt.Errorf("node %s: unsupported kind %T", n.Handle, n.Kind)
	}

	// Defaults equal to the built-in ones are left out.
	builtin, _, err := ir.Signature(n.Kind)
	if err != nil {
		return NodeSpec{}, err
	}
	for slot, p := range n.Inputs {
		ref := ""
		if e, ok := script.Incoming(ir.In(n.Handle, slot)); ok {
			ref = ids[e.From.Node]
			if e.From.Slot != 0 {
				ref += "." + strconv.Itoa(e.From.Slot)
			}
		}
		spec.Inputs = append(spec.Inputs, ref)

		if p.Default == nil {
			continue
		}
		if slot < len(builtin) && builtin[slot].Default != nil && builtin[slot].Default.Equal(*p.Default) {
			continue
		}
		if spec.Defaults == nil {
			spec.Defaults = make(map[string]Components)
		}
		spec.Defaults[p.Name] = Components(p.Default.Data)
	}
	for len(spec.Inputs) > 0 && spec.Inputs[len(spec.Inputs)-1] == "" {
		spec.Inputs = spec.Inputs[:len(spec.Inputs)-1]
	}
	return spec, nil
}

func variableSpec(name string, t ir.ValueType, binding ir.Binding) *VariableSpec {
	v := &VariableSpec{Name: name, Type: t}
	switch b := binding.(type) {
	case ir.LocationBinding:
		loc := b.Location
		v.Location = &loc
	case ir.BuiltinBinding:
		v.Builtin = b.Builtin.String()
	case ir.UniformBinding:
		v.Uniform = &UniformSpec{Block: b.Block, Group: b.Group, Binding: b.Binding}
	case ir.ResourceBinding:
		v.Resource = &ResourceSpec{ID: string(b.Resource), Group: b.Group, Binding: b.Binding}
	}
	return v
}

// Marshal writes the document as YAML with two-space indentation.
func (d *Document) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return buf.Bytes(), nil
}

// Encode writes a script as a YAML document that decodes to an equivalent
// script.
func Encode(script *ir.Script) ([]byte, error) {
	doc, err := FromScript(script)
	if err != nil {
		return nil, err
	}
	return doc.Marshal()
}
