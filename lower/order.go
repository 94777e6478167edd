package lower

import (
	"github.com/gogpu/shadergraph/ir"
)

// topoOrder returns the live nodes of s in dependency order, lowest
// handle first among ready nodes.
func topoOrder(s *ir.Script) ([]ir.NodeHandle, error) {
	return s.TopologicalOrder()
}

// liveSet returns the nodes from which some output variable is reachable.
func liveSet(s *ir.Script) map[ir.NodeHandle]bool {
	live := make(map[ir.NodeHandle]bool)
	var stack []ir.NodeHandle
	for _, h := range s.Nodes() {
		n, err := s.Node(h)
		if err != nil {
			continue
		}
		if _, ok := n.Kind.(ir.OutputVariable); ok {
			live[h] = true
			stack = append(stack, h)
		}
	}
	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n, err := s.Node(h)
		if err != nil {
			continue
		}
		for slot := range n.Inputs {
			e, ok := s.Incoming(ir.In(h, slot))
			if !ok || live[e.From.Node] {
				continue
			}
			live[e.From.Node] = true
			stack = append(stack, e.From.Node)
		}
	}
	return live
}
