// Package lower turns a validated ir.Script into a Program: an ordered
// sequence of typed statements plus the stage interface of the shader.
//
// Lowering runs in three steps:
//   - Order: a topological order over output edges, ties broken by
//     ascending node handle so output is byte-identical across runs
//   - Resolve: every node's pin layout is re-derived from ir.Signature and
//     every bound source type is re-checked against its slot
//   - Emit: each node becomes one statement per output pin, written in the
//     expression syntax of a target Dialect
//
// Target printers (glsl, hlsl, msl, wgsl) implement Dialect and wrap the
// Program in the declarations and entry point of their language.
package lower
