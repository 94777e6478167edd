package ir

import (
	"slices"
)

// Node is a unit of computation owned by a Script.
type Node struct {
	Handle NodeHandle
	// Label is an optional human name used when choosing identifiers.
	Label   string
	Kind    NodeKind
	Inputs  []Pin
	Outputs []Pin
}

// Category returns the node's top-level family.
func (n Node) Category() NodeCategory { return n.Kind.Category() }

// OperatorType returns the operator tag of an operator node.
func (n Node) OperatorType() (OperatorType, bool) {
	if op, ok := n.Kind.(Operator); ok {
		return op.Op, true
	}
	return 0, false
}

// FunctionType returns the function tag of a function node.
func (n Node) FunctionType() (FunctionType, bool) {
	if fn, ok := n.Kind.(Function); ok {
		return fn.Fun, true
	}
	return 0, false
}

func (n *Node) pins(dir Direction) []Pin {
	if dir == Output {
		return n.Outputs
	}
	return n.Inputs
}

func (n *Node) clone() *Node {
	c := *n
	c.Inputs = clonePins(n.Inputs)
	c.Outputs = clonePins(n.Outputs)
	return &c
}

func clonePins(pins []Pin) []Pin {
	out := slices.Clone(pins)
	for i := range out {
		if out[i].Default != nil {
			v := *out[i].Default
			v.Data = slices.Clone(v.Data)
			out[i].Default = &v
		}
	}
	return out
}

// Script is a shader graph. It owns every node and edge and keeps the edge
// relation acyclic, type-correct and single-sourced per input pin across
// every mutation.
//
// A Script is not safe for concurrent mutation. Read-only traversals such as
// Validate and compilation may run concurrently on an unmodified Script.
type Script struct {
	nodes    []*Node // indexed by handle; nil marks a removed node
	live     int
	incoming map[PinRef]PinRef     // input pin -> source output pin
	outgoing map[NodeHandle][]Edge // source node -> edges in insertion order
}

// NewScript creates an empty script.
func NewScript() *Script {
	return &Script{
		incoming: make(map[PinRef]PinRef),
		outgoing: make(map[NodeHandle][]Edge),
	}
}

// CreateNode allocates a node of the given kind and returns its handle.
// It fails only with KindInvalidNodeSpec.
func (s *Script) CreateNode(kind NodeKind) (NodeHandle, error) {
	kind, inputs, outputs, err := resolveKind(kind)
	if err != nil {
		return 0, err
	}
	h := NodeHandle(len(s.nodes))
	s.nodes = append(s.nodes, &Node{Handle: h, Kind: kind, Inputs: inputs, Outputs: outputs})
	s.live++
	return h, nil
}

// AddConstant creates a constant node.
func (s *Script) AddConstant(v Value) (NodeHandle, error) {
	return s.CreateNode(Constant{Value: v})
}

// AddInput creates an input variable node.
func (s *Script) AddInput(name string, t ValueType, b Binding) (NodeHandle, error) {
	return s.CreateNode(InputVariable{Name: name, Type: t, Binding: b})
}

// AddOutput creates an output variable node.
func (s *Script) AddOutput(name string, t ValueType, b Binding) (NodeHandle, error) {
	return s.CreateNode(OutputVariable{Name: name, Type: t, Binding: b})
}

// AddOperator creates a binary operator node.
func (s *Script) AddOperator(op OperatorType, left, right ValueType) (NodeHandle, error) {
	return s.CreateNode(Operator{Op: op, Left: left, Right: right})
}

// AddFunction creates a built-in function node. A zero operand selects the
// function's default overload.
func (s *Script) AddFunction(fn FunctionType, operand ValueType) (NodeHandle, error) {
	return s.CreateNode(Function{Fun: fn, Operand: operand})
}

func (s *Script) node(h NodeHandle) (*Node, error) {
	if int(h) >= len(s.nodes) || s.nodes[h] == nil {
		return nil, NodeError(KindUnknownNode, h, "no such node")
	}
	return s.nodes[h], nil
}

func (s *Script) pin(ref PinRef) (*Pin, error) {
	n, err := s.node(ref.Node)
	if err != nil {
		return nil, err
	}
	pins := n.pins(ref.Dir)
	if ref.Slot < 0 || ref.Slot >= len(pins) {
		return nil, PinError(KindUnknownPin, ref, "node has %d %s pins", len(pins), ref.Dir)
	}
	return &pins[ref.Slot], nil
}

// Node returns a copy of the node at h.
func (s *Script) Node(h NodeHandle) (Node, error) {
	n, err := s.node(h)
	if err != nil {
		return Node{}, err
	}
	return *n.clone(), nil
}

// Pin returns a copy of the pin at ref.
func (s *Script) Pin(ref PinRef) (Pin, error) {
	p, err := s.pin(ref)
	if err != nil {
		return Pin{}, err
	}
	return *p, nil
}

// IsConnected reports whether the pin has at least one edge.
func (s *Script) IsConnected(ref PinRef) bool {
	if ref.Dir == Input {
		_, ok := s.incoming[ref]
		return ok
	}
	for _, e := range s.outgoing[ref.Node] {
		if e.From == ref {
			return true
		}
	}
	return false
}

// SetLabel sets the human label of a node.
func (s *Script) SetLabel(h NodeHandle, label string) error {
	n, err := s.node(h)
	if err != nil {
		return err
	}
	n.Label = label
	return nil
}

// SetDefault sets the value an input pin takes when it has no edge. The
// value is converted to the pin type through the coercion table.
func (s *Script) SetDefault(to PinRef, v Value) error {
	if to.Dir != Input {
		return PinError(KindUnknownPin, to, "defaults apply to input pins only")
	}
	p, err := s.pin(to)
	if err != nil {
		return err
	}
	if err := v.Validate(); err != nil {
		return PinError(KindInvalidNodeSpec, to, "default: %v", err)
	}
	if !Compatible(v.Type, p.Type) {
		return PinError(KindTypeMismatch, to, "default of type %s cannot flow into %s", v.Type, p.Type)
	}
	conv, err := v.Convert(p.Type)
	if err != nil {
		return PinError(KindInternalInvariantViolation, to, "%v", err)
	}
	conv.Data = slices.Clone(conv.Data)
	p.Default = &conv
	return nil
}

// Connect adds an edge from an output pin to an input pin. An existing
// edge into the input pin is replaced. On failure the script is unchanged.
func (s *Script) Connect(from, to PinRef) error {
	if from.Dir != Output {
		return PinError(KindTypeMismatch, from, "edge source must be an output pin")
	}
	if to.Dir != Input {
		return PinError(KindTypeMismatch, to, "edge destination must be an input pin")
	}
	src, err := s.pin(from)
	if err != nil {
		return err
	}
	dst, err := s.pin(to)
	if err != nil {
		return err
	}
	if !Compatible(src.Type, dst.Type) {
		return PinError(KindTypeMismatch, to, "%s cannot flow into %s", src.Type, dst.Type)
	}
	if s.reaches(to.Node, from.Node) {
		return PinError(KindCycleDetected, to, "edge from %s would close a cycle", from)
	}

	if prev, ok := s.incoming[to]; ok {
		if prev == from {
			return nil
		}
		s.unlink(Edge{From: prev, To: to})
	}
	s.incoming[to] = from
	s.outgoing[from.Node] = append(s.outgoing[from.Node], Edge{From: from, To: to})
	return nil
}

// Disconnect removes the edge into an input pin. Disconnecting an unbound
// pin is a no-op.
func (s *Script) Disconnect(to PinRef) error {
	if to.Dir != Input {
		return PinError(KindUnknownPin, to, "only input pins can be disconnected")
	}
	if _, err := s.pin(to); err != nil {
		return err
	}
	if prev, ok := s.incoming[to]; ok {
		s.unlink(Edge{From: prev, To: to})
	}
	return nil
}

// reaches reports whether target is reachable from start by following
// output edges. It visits only the subgraph downstream of start.
func (s *Script) reaches(start, target NodeHandle) bool {
	if start == target {
		return true
	}
	visited := map[NodeHandle]bool{start: true}
	stack := []NodeHandle{start}
	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, e := range s.outgoing[h] {
			next := e.To.Node
			if next == target {
				return true
			}
			if !visited[next] {
				visited[next] = true
				stack = append(stack, next)
			}
		}
	}
	return false
}

func (s *Script) unlink(e Edge) {
	delete(s.incoming, e.To)
	edges := s.outgoing[e.From.Node]
	if i := slices.Index(edges, e); i >= 0 {
		edges = slices.Delete(edges, i, i+1)
	}
	if len(edges) == 0 {
		delete(s.outgoing, e.From.Node)
	} else {
		s.outgoing[e.From.Node] = edges
	}
}

// RemoveNode removes a node together with every edge touching its pins.
// Removing a handle twice fails with KindUnknownNode.
func (s *Script) RemoveNode(h NodeHandle) error {
	n, err := s.node(h)
	if err != nil {
		return err
	}
	for slot := range n.Inputs {
		if from, ok := s.incoming[In(h, slot)]; ok {
			s.unlink(Edge{From: from, To: In(h, slot)})
		}
	}
	for _, e := range slices.Clone(s.outgoing[h]) {
		s.unlink(e)
	}
	s.nodes[h] = nil
	s.live--
	return nil
}

// Len returns the number of live nodes.
func (s *Script) Len() int { return s.live }

// Nodes returns the live node handles in ascending order.
func (s *Script) Nodes() []NodeHandle {
	out := make([]NodeHandle, 0, s.live)
	for i, n := range s.nodes {
		if n != nil {
			out = append(out, NodeHandle(i))
		}
	}
	return out
}

// Edges returns every edge ordered by source pin, then destination pin.
func (s *Script) Edges() []Edge {
	out := make([]Edge, 0, len(s.incoming))
	for to, from := range s.incoming {
		out = append(out, Edge{From: from, To: to})
	}
	slices.SortFunc(out, compareEdges)
	return out
}

// Incoming returns the edge bound to an input pin.
func (s *Script) Incoming(to PinRef) (Edge, bool) {
	from, ok := s.incoming[to]
	if !ok {
		return Edge{}, false
	}
	return Edge{From: from, To: to}, true
}

// Outgoing returns the edges leaving node h, ordered like Edges.
func (s *Script) Outgoing(h NodeHandle) []Edge {
	out := slices.Clone(s.outgoing[h])
	slices.SortFunc(out, compareEdges)
	return out
}

// Clone returns a deep copy. Handles remain valid in the copy.
func (s *Script) Clone() *Script {
	c := &Script{
		nodes:    make([]*Node, len(s.nodes)),
		live:     s.live,
		incoming: make(map[PinRef]PinRef, len(s.incoming)),
		outgoing: make(map[NodeHandle][]Edge, len(s.outgoing)),
	}
	for i, n := range s.nodes {
		if n != nil {
			c.nodes[i] = n.clone()
		}
	}
	for to, from := range s.incoming {
		c.incoming[to] = from
	}
	for h, edges := range s.outgoing {
		c.outgoing[h] = slices.Clone(edges)
	}
	return c
}

func comparePins(a, b PinRef) int {
	switch {
	case a.less(b):
		return -1
	case b.less(a):
		return 1
	}
	return 0
}

func compareEdges(a, b Edge) int {
	if c := comparePins(a.From, b.From); c != 0 {
		return c
	}
	return comparePins(a.To, b.To)
}
