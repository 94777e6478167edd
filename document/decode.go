package document

import (
	"bytes"
	"errors"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/shadergraph/ir"
)

// Parse decodes a document and checks its schema. It does not build the
// graph.
func Parse(data []byte) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		var se *SourceError
		if errors.As(err, &se) {
			se.Source = string(data)
			return nil, se
		}
		return nil, syntaxError(err)
	}
	doc.source = string(data)

	if err := doc.check(); err != nil {
		err.Source = doc.source
		return nil, err
	}
	return &doc, nil
}

// check validates document-level fields.
func (d *Document) check() *SourceError {
	if d.Version != Version {
		return errorf(ErrSchema, 0, 0, "unsupported document version %d", d.Version)
	}
	if d.Stage != "" {
		if _, err := ir.ParseShaderStage(d.Stage); err != nil {
			return errorf(ErrSchema, 0, 0, "%v", err)
		}
	}
	seen := make(map[string]bool, len(d.Nodes))
	for i := range d.Nodes {
		n := &d.Nodes[i]
		switch {
		case n.ID == "":
			return errorf(ErrSchema, n.line, n.column, "node %d has no id", i)
		case strings.Contains(n.ID, "."):
			return errorf(ErrSchema, n.line, n.column, "node id %q must not contain '.'", n.ID)
		case seen[n.ID]:
			return errorf(ErrSchema, n.line, n.column, "duplicate node id %q", n.ID)
		case n.kinds() != 1:
			return errorf(ErrSchema, n.line, n.column,
				"node %q must set exactly one of constant, input, output, operator or function", n.ID)
		}
		seen[n.ID] = true
	}
	return nil
}

// ShaderStage returns the declared stage, if any.
func (d *Document) ShaderStage() (ir.ShaderStage, bool) {
	if d.Stage == "" {
		return 0, false
	}
	stage, err := ir.ParseShaderStage(d.Stage)
	return stage, err == nil
}

// Decode parses a document and builds its script.
func Decode(data []byte) (*ir.Script, error) {
	doc, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return doc.Build()
}

type visitState uint8

const (
	unvisited visitState = iota
	visiting
	done
)

// builder creates nodes in dependency order so that every source exists,
// and its type is known, before the node it feeds.
type builder struct {
	doc     *Document
	script  *ir.Script
	index   map[string]int
	handles []ir.NodeHandle
	state   []visitState
}

// Build creates the script described by the document. Nodes are created
// sources first, in document order otherwise.
func (d *Document) Build() (*ir.Script, error) {
	b := &builder{
		doc:     d,
		script:  ir.NewScript(),
		index:   make(map[string]int, len(d.Nodes)),
		handles: make([]ir.NodeHandle, len(d.Nodes)),
		state:   make([]visitState, len(d.Nodes)),
	}
	for i, n := range d.Nodes {
		b.index[n.ID] = i
	}
	for i := range d.Nodes {
		if err := b.visit(i); err != nil {
			err.Source = d.source
			return nil, err
		}
	}
	return b.script, nil
}

// reference is a resolved input reference.
type reference struct {
	node int
	pin  string // slot number or pin name; empty selects slot 0
}

func (b *builder) parseRef(n *NodeSpec, ref string) (reference, *SourceError) {
	id, pin, _ := strings.Cut(ref, ".")
	i, ok := b.index[id]
	if !ok {
		return reference{}, errorf(ErrReference, n.line, n.column, "node %q references unknown node %q", n.ID, id)
	}
	return reference{node: i, pin: pin}, nil
}

func (b *builder) visit(i int) *SourceError {
	n := &b.doc.Nodes[i]
	switch b.state[i] {
	case done:
		return nil
	case visiting:
		return errorf(ir.NewError(ir.KindCycleDetected, "node %q", n.ID), n.line, n.column,
			"node %q is part of a reference cycle", n.ID)
	}
	b.state[i] = visiting

	refs := make([]*reference, len(n.Inputs))
	for slot, raw := range n.Inputs {
		if raw == "" {
			continue
		}
		ref, err := b.parseRef(n, raw)
		if err != nil {
			return err
		}
		if err := b.visit(ref.node); err != nil {
			return err
		}
		refs[slot] = &ref
	}

	sources := make([]ir.PinRef, len(refs))
	types := make([]ir.ValueType, len(refs))
	for slot, ref := range refs {
		if ref == nil {
			continue
		}
		from, t, err := b.source(n, *ref)
		if err != nil {
			return err
		}
		sources[slot], types[slot] = from, t
	}

	kind, err := b.kind(n, types)
	if err != nil {
		return err
	}
	h, cerr := b.script.CreateNode(kind)
	if cerr != nil {
		return b.wrap(n, cerr)
	}
	b.handles[i] = h
	if n.Label != "" {
		if err := b.script.SetLabel(h, n.Label); err != nil {
			return b.wrap(n, err)
		}
	}

	node, _ := b.script.Node(h)
	for slot, ref := range refs {
		if ref == nil {
			continue
		}
		if slot >= len(node.Inputs) {
			return errorf(ir.PinError(ir.KindUnknownPin, ir.In(h, slot), "no such input"), n.line, n.column,
				"node %q has %d inputs, got %d references", n.ID, len(node.Inputs), len(n.Inputs))
		}
		if err := b.script.Connect(sources[slot], ir.In(h, slot)); err != nil {
			return b.wrap(n, err)
		}
	}
	for _, key := range sortedKeys(n.Defaults) {
		slot, ok := pinSlot(node.Inputs, key)
		if !ok {
			return errorf(ir.NewError(ir.KindUnknownPin, "%s", key), n.line, n.column,
				"node %q has no input %q", n.ID, key)
		}
		v, verr := b.value(n, node.Inputs[slot].Type, n.Defaults[key])
		if verr != nil {
			return verr
		}
		if err := b.script.SetDefault(ir.In(h, slot), v); err != nil {
			return b.wrap(n, err)
		}
	}

	b.state[i] = done
	return nil
}

// source resolves a reference to an output pin of an already created node.
func (b *builder) source(n *NodeSpec, ref reference) (ir.PinRef, ir.ValueType, *SourceError) {
	src, _ := b.script.Node(b.handles[ref.node])
	slot := 0
	if ref.pin != "" {
		var ok bool
		if slot, ok = pinSlot(src.Outputs, ref.pin); !ok {
			return ir.PinRef{}, 0, errorf(ErrReference, n.line, n.column,
				"node %q has no output %q", b.doc.Nodes[ref.node].ID, ref.pin)
		}
	}
	if slot >= len(src.Outputs) {
		return ir.PinRef{}, 0, errorf(ErrReference, n.line, n.column,
			"node %q has no outputs", b.doc.Nodes[ref.node].ID)
	}
	return ir.Out(src.Handle, slot), src.Outputs[slot].Type, nil
}

// pinSlot finds a pin by slot number or name.
func pinSlot(pins []ir.Pin, key string) (int, bool) {
	if i, err := strconv.Atoi(key); err == nil {
		return i, i >= 0 && i < len(pins)
	}
	for i, p := range pins {
		if p.Name == key {
			return i, true
		}
	}
	return 0, false
}

func (b *builder) wrap(n *NodeSpec, err error) *SourceError {
	return errorf(err, n.line, n.column, "node %q: %v", n.ID, err)
}

// value builds a value of type t from components.
func (b *builder) value(n *NodeSpec, t ir.ValueType, c Components) (ir.Value, *SourceError) {
	v, err := ir.NewValue(t, c...)
	if err != nil {
		return ir.Value{}, b.wrap(n, err)
	}
	return v, nil
}

// kind builds the node kind, inferring omitted types from the sources.
func (b *builder) kind(n *NodeSpec, types []ir.ValueType) (ir.NodeKind, *SourceError) {
	first := func() ir.ValueType {
		if len(types) > 0 {
			return types[0]
		}
		return ir.TypeInvalid
	}

	switch {
	case n.Constant != nil:
		t := n.Constant.Type
		if t == ir.TypeInvalid {
			size := len(n.Constant.Value)
			if size < 1 || size > 4 {
				return nil, errorf(ErrSchema, n.line, n.column, "constant %q needs a type", n.ID)
			}
			t = ir.VectorOf(ir.ScalarFloat, size)
		}
		v, err := b.value(n, t, n.Constant.Value)
		if err != nil {
			return nil, err
		}
		return ir.Constant{Value: v}, nil

	case n.Input != nil:
		binding, t, err := b.binding(n, n.Input, ir.TypeInvalid)
		if err != nil {
			return nil, err
		}
		return ir.InputVariable{Name: n.Input.Name, Type: t, Binding: binding}, nil

	case n.Output != nil:
		binding, t, err := b.binding(n, n.Output, first())
		if err != nil {
			return nil, err
		}
		return ir.OutputVariable{Name: n.Output.Name, Type: t, Binding: binding}, nil

	case n.Operator != nil:
		op, err := ir.ParseOperator(n.Operator.Op)
		if err != nil {
			return nil, b.wrap(n, err)
		}
		left, right := n.Operator.Type, n.Operator.Type
		if len(types) > 0 && left == ir.TypeInvalid {
			left = types[0]
		}
		if len(types) > 1 && right == ir.TypeInvalid {
			right = types[1]
		}
		if n.Operator.Left != ir.TypeInvalid {
			left = n.Operator.Left
		}
		if n.Operator.Right != ir.TypeInvalid {
			right = n.Operator.Right
		}
		switch {
		case left == ir.TypeInvalid && right == ir.TypeInvalid:
			left, right = ir.Float32, ir.Float32
		case left == ir.TypeInvalid:
			left = right
		case right == ir.TypeInvalid:
			right = left
		}
		return ir.Operator{Op: op, Left: left, Right: right}, nil

	default:
		fn, err := ir.ParseFunction(n.Function.Name)
		if err != nil {
			return nil, b.wrap(n, err)
		}
		operand := n.Function.Operand
		if operand == ir.TypeInvalid {
			operand = ir.InferOperand(fn, types)
		}
		return ir.Function{Fun: fn, Operand: operand}, nil
	}
}

// binding converts the binding fields of a variable. A missing type is
// taken from the built-in, then from the fallback.
func (b *builder) binding(n *NodeSpec, v *VariableSpec, fallback ir.ValueType) (ir.Binding, ir.ValueType, *SourceError) {
	set := 0
	var binding ir.Binding
	if v.Location != nil {
		set++
		binding = ir.LocationBinding{Location: *v.Location}
	}
	t := v.Type
	if v.Builtin != "" {
		set++
		builtin, err := ir.ParseBuiltin(v.Builtin)
		if err != nil {
			return nil, 0, b.wrap(n, err)
		}
		binding = ir.BuiltinBinding{Builtin: builtin}
		if info, ok := builtin.Info(); ok && t == ir.TypeInvalid {
			t = info.Type
		}
	}
	if v.Uniform != nil {
		set++
		binding = ir.UniformBinding{Block: v.Uniform.Block, Group: v.Uniform.Group, Binding: v.Uniform.Binding}
	}
	if v.Resource != nil {
		set++
		binding = ir.ResourceBinding{Resource: ir.ResourceID(v.Resource.ID), Group: v.Resource.Group, Binding: v.Resource.Binding}
	}
	if set > 1 {
		return nil, 0, errorf(ErrSchema, n.line, n.column,
			"variable %q must set at most one of location, builtin, uniform or resource", v.Name)
	}
	if t == ir.TypeInvalid {
		t = fallback
	}
	if t == ir.TypeInvalid {
		return nil, 0, errorf(ErrSchema, n.line, n.column, "variable %q needs a type", v.Name)
	}
	return binding, t, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
