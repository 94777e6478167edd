// Package document reads and writes shader graphs as versioned YAML
// documents.
//
// A document lists nodes by id. Exactly one of constant, input, output,
// operator or function describes each node, and inputs references the
// sources feeding its input pins in slot order:
//
//	version: 1
//	name: stripes
//	nodes:
//	  - id: uv
//	    input: {name: v_uv, type: vec2<f32>, location: 0}
//	  - id: parts
//	    function: {name: split}
//	    inputs: [uv]
//	  - id: product
//	    operator: {op: mul}
//	    inputs: [parts.x, parts.1]
//	  - id: out
//	    output: {name: color, location: 0}
//	    inputs: [product]
//
// A reference is an id (output slot 0), id.N or id.<pin name>. An empty
// reference leaves the slot to its default. Operator and generic function
// operand types are inferred from the referenced sources unless given.
//
// Decode errors carry the line and column of the offending node and can be
// printed with source context through SourceError.FormatWithContext.
package document
