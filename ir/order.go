package ir

import "container/heap"

// handleHeap is a min-heap of node handles.
type handleHeap []NodeHandle

func (h handleHeap) Len() int           { return len(h) }
func (h handleHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h handleHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *handleHeap) Push(x any)        { *h = append(*h, x.(NodeHandle)) }
func (h *handleHeap) Pop() any {
	old := *h
	x := old[len(old)-1]
	*h = old[:len(old)-1]
	return x
}

// TopologicalOrder returns the live nodes so that every node follows all
// nodes feeding its inputs. Among ready nodes the lowest handle goes first,
// so the order depends only on the graph and its creation order.
// A residual cycle is reported as an internal invariant violation.
func (s *Script) TopologicalOrder() ([]NodeHandle, error) {
	nodes := s.Nodes()
	indegree := make(map[NodeHandle]int, len(nodes))
	for _, h := range nodes {
		indegree[h] = 0
	}
	for _, e := range s.Edges() {
		indegree[e.To.Node]++
	}

	ready := make(handleHeap, 0, len(nodes))
	for _, h := range nodes {
		if indegree[h] == 0 {
			ready = append(ready, h)
		}
	}
	heap.Init(&ready)

	order := make([]NodeHandle, 0, len(nodes))
	for ready.Len() > 0 {
		h := heap.Pop(&ready).(NodeHandle)
		order = append(order, h)
		for _, e := range s.Outgoing(h) {
			indegree[e.To.Node]--
			if indegree[e.To.Node] == 0 {
				heap.Push(&ready, e.To.Node)
			}
		}
	}

	if len(order) != len(nodes) {
		return nil, NewError(KindInternalInvariantViolation,
			"topological order covers %d of %d nodes: residual cycle", len(order), len(nodes))
	}
	return order, nil
}
