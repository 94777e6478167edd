// Package ir defines the shader graph intermediate representation.
//
// The IR is designed to be:
//   - Typed: every pin carries a ValueType and every edge is checked
//     against a closed coercion table when it is created
//   - Acyclic: the Script rejects edges that would close a cycle
//   - Arena-owned: nodes are addressed by NodeHandle, never by pointer
//
// # Structure
//
// A Script owns all nodes and edges:
//   - Nodes: Constant, InputVariable, OutputVariable, Operator, Function
//   - Pins: ordered input and output slots of each node, addressed by PinRef
//   - Edges: output pin -> input pin, at most one per input pin
//
// # Translation Pipeline
//
// The typical pipeline is:
//
//	Script (YAML / Lisp / Go API) → Validate → lower.Program → Target (GLSL/HLSL/MSL/WGSL)
//
// The lower package orders the graph topologically and emits statements
// through a target Dialect.
package ir
