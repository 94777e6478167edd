package msl

import (
	"fmt"
	"strings"

	"github.com/gogpu/shadergraph/ir"
	"github.com/gogpu/shadergraph/lower"
)

// Writer generates MSL source code from a lowered program.
type Writer struct {
	prog    *lower.Program
	options *Options

	// Output buffer
	out strings.Builder

	// Current indentation level
	indent int

	// Slot assignment
	buffers  map[uint32]uint8 // uniform block index -> buffer slot
	textures map[uint32]uint8 // resource index -> texture slot
	samplers map[uint32]uint8 // resource index -> sampler slot

	// Output tracking
	resourceSlots map[string]string
}

// newWriter creates a new MSL writer.
func newWriter(prog *lower.Program, options *Options) *Writer {
	return &Writer{
		prog:          prog,
		options:       options,
		buffers:       make(map[uint32]uint8),
		textures:      make(map[uint32]uint8),
		samplers:      make(map[uint32]uint8),
		resourceSlots: make(map[string]string),
	}
}

// String returns the generated MSL source code.
func (w *Writer) String() string {
	return w.out.String()
}

// writeProgram generates the complete shader.
func (w *Writer) writeProgram() error {
	// 1. Resolve resource slots
	if err := w.assignSlots(); err != nil {
		return err
	}

	// 2. Write header
	w.writeHeader()

	// 3. Write uniform block structs
	w.writeUniformStructs()

	// 4. Write stage structs and the entry point
	w.writeEntryPoint()
	return nil
}

// writeHeader writes the MSL file header.
func (w *Writer) writeHeader() {
	w.writeLine("#include <metal_stdlib>")
	w.writeLine("#include <simd/simd.h>")
	w.writeLine("")
	w.writeLine("using metal::uint;")
	w.writeLine("")
}

// slotAllocator hands out the lowest slots not claimed explicitly.
type slotAllocator struct {
	used map[uint8]struct{}
	next uint8
}

func (a *slotAllocator) claim(slot uint8) {
	if a.used == nil {
		a.used = make(map[uint8]struct{})
	}
	a.used[slot] = struct{}{}
}

func (a *slotAllocator) alloc() uint8 {
	for {
		slot := a.next
		a.next++
		if _, ok := a.used[slot]; !ok {
			a.claim(slot)
			return slot
		}
	}
}

// assignSlots resolves buffer, texture and sampler slots. Mapped slots are
// claimed first so faked ones never collide with them.
func (w *Writer) assignSlots() error {
	var buffers, textures, samplers slotAllocator

	lookup := func(group, binding uint32) (BindTarget, bool) {
		bt, ok := w.options.BindingMap[ResourceBinding{Group: group, Binding: binding}]
		return bt, ok
	}
	missing := func(name string, group, binding uint32) error {
		return fmt.Errorf("resource %s at group %d binding %d has no binding", name, group, binding)
	}

	for _, blk := range w.prog.Uniforms {
		if bt, ok := lookup(blk.Group, blk.Binding); ok && bt.Buffer != nil {
			buffers.claim(*bt.Buffer)
		}
	}
	for _, tex := range w.prog.Resources {
		rb := tex.Binding.(ir.ResourceBinding)
		if bt, ok := lookup(rb.Group, rb.Binding); ok {
			if bt.Texture != nil {
				textures.claim(*bt.Texture)
			}
			if bt.Sampler != nil {
				samplers.claim(*bt.Sampler)
			}
		}
	}

	for i, blk := range w.prog.Uniforms {
		bt, _ := lookup(blk.Group, blk.Binding)
		switch {
		case bt.Buffer != nil:
			w.buffers[uint32(i)] = *bt.Buffer //nolint:gosec // G115: i is valid slice index
		case w.options.FakeMissingBindings:
			w.buffers[uint32(i)] = buffers.alloc() //nolint:gosec // G115: i is valid slice index
		default:
			return missing(blk.Name, blk.Group, blk.Binding)
		}
		w.resourceSlots[blk.Instance] = fmt.Sprintf("[[buffer(%d)]]", w.buffers[uint32(i)]) //nolint:gosec // G115: i is valid slice index
	}
	for i, tex := range w.prog.Resources {
		rb := tex.Binding.(ir.ResourceBinding)
		bt, _ := lookup(rb.Group, rb.Binding)
		idx := uint32(i) //nolint:gosec // G115: i is valid slice index
		switch {
		case bt.Texture != nil:
			w.textures[idx] = *bt.Texture
		case w.options.FakeMissingBindings:
			w.textures[idx] = textures.alloc()
		default:
			return missing(tex.Name, rb.Group, rb.Binding)
		}
		switch {
		case bt.Sampler != nil:
			w.samplers[idx] = *bt.Sampler
		case w.options.FakeMissingBindings:
			w.samplers[idx] = samplers.alloc()
		default:
			return missing(tex.Sampler, rb.Group, rb.Binding)
		}
		w.resourceSlots[tex.Name] = fmt.Sprintf("[[texture(%d)]]", w.textures[idx])
		w.resourceSlots[tex.Sampler] = fmt.Sprintf("[[sampler(%d)]]", w.samplers[idx])
	}
	return nil
}

// writeUniformStructs writes one struct per uniform block.
func (w *Writer) writeUniformStructs() {
	for _, blk := range w.prog.Uniforms {
		types := make([]ir.ValueType, len(blk.Members))
		for i, m := range blk.Members {
			types[i] = m.Type
		}

		w.writeLine("struct %s {", blk.Name)
		w.pushIndent()
		for i, m := range blk.Members {
			memberType := typeName(m.Type)
			if shouldPackMember(types, i) {
				memberType = packedTypeName(m.Type)
			}
			w.writeLine("%s %s;", memberType, m.Name)
		}
		w.popIndent()
		w.writeLine("};")
		w.writeLine("")
	}
}

// stageInputs returns the location-bound inputs, which form the stage_in
// struct. Built-in inputs are passed as parameters.
func (w *Writer) stageInputs() []lower.Variable {
	var vars []lower.Variable
	for _, v := range w.prog.Inputs {
		if _, ok := v.Location(); ok {
			vars = append(vars, v)
		}
	}
	return vars
}

// writeStruct writes a stage interface struct.
func (w *Writer) writeStruct(name string, vars []lower.Variable, input bool) {
	w.writeLine("struct %s {", name)
	w.pushIndent()
	for _, v := range vars {
		w.writeLine("%s %s %s;", typeName(v.Type), v.Name, w.attribute(v, input))
	}
	w.popIndent()
	w.writeLine("};")
	w.writeLine("")
}

// attribute returns the MSL attribute of an interface variable.
func (w *Writer) attribute(v lower.Variable, input bool) string {
	if b, ok := v.Builtin(); ok {
		return builtinAttribute(b)
	}
	loc, _ := v.Location()
	vertex := w.prog.Stage == ir.StageVertex
	switch {
	case vertex && input:
		return fmt.Sprintf("[[attribute(%d)]]", loc)
	case !vertex && !input:
		return fmt.Sprintf("[[color(%d)]]", loc)
	case isInteger(v.Type):
		return fmt.Sprintf("[[user(locn%d), flat]]", loc)
	}
	return fmt.Sprintf("[[user(locn%d)]]", loc)
}

// builtinAttribute returns the MSL attribute for a built-in.
func builtinAttribute(builtin ir.BuiltinValue) string {
	switch builtin {
	case ir.BuiltinPosition, ir.BuiltinFragCoord:
		return "[[position]]"
	case ir.BuiltinVertexIndex:
		return "[[vertex_id]]"
	case ir.BuiltinInstanceIndex:
		return "[[instance_id]]"
	case ir.BuiltinFrontFacing:
		return "[[front_facing]]"
	case ir.BuiltinFragDepth:
		return "[[depth(any)]]"
	}
	return ""
}

// writeEntryPoint writes the stage structs and the entry function with
// one local per statement followed by the output stores.
func (w *Writer) writeEntryPoint() {
	epName := w.options.EntryPoint
	inputStruct := epName + inputSuffix
	outputStruct := epName + outputSuffix

	stageIn := w.stageInputs()
	if len(stageIn) > 0 {
		w.writeStruct(inputStruct, stageIn, true)
	}
	w.writeStruct(outputStruct, w.prog.Outputs, false)

	var params []string
	if len(stageIn) > 0 {
		params = append(params, fmt.Sprintf("%s %s [[stage_in]]", inputStruct, inputVar))
	}
	for _, v := range w.prog.Inputs {
		if b, ok := v.Builtin(); ok {
			params = append(params, fmt.Sprintf("%s %s %s", typeName(v.Type), v.Name, builtinAttribute(b)))
		}
	}
	for _, blk := range w.prog.Uniforms {
		params = append(params, fmt.Sprintf("constant %s& %s %s", blk.Name, blk.Instance, w.resourceSlots[blk.Instance]))
	}
	for _, tex := range w.prog.Resources {
		params = append(params,
			fmt.Sprintf("%s %s %s", typeName(tex.Type), tex.Name, w.resourceSlots[tex.Name]),
			fmt.Sprintf("%s %s %s", typeSampler, tex.Sampler, w.resourceSlots[tex.Sampler]))
	}

	stageKeyword := "fragment"
	if w.prog.Stage == ir.StageVertex {
		stageKeyword = "vertex"
	}
	w.writeLine("%s %s %s(%s) {", stageKeyword, outputStruct, epName, strings.Join(params, ",\n    "))
	w.pushIndent()
	w.writeLine("%s %s;", outputStruct, outputVar)
	for _, st := range w.prog.Statements {
		w.writeLine("%s %s = %s;", typeName(st.Type), st.ID, st.Expr)
	}
	for _, store := range w.prog.Stores {
		w.writeLine("%s.%s = %s;", outputVar, store.Output.Name, store.Expr)
	}
	w.writeLine("return %s;", outputVar)
	w.popIndent()
	w.writeLine("}")
}

// writeLine writes a line with optional format args and a newline.
//
//nolint:goprintffuncname
func (w *Writer) writeLine(format string, args ...any) {
	w.writeIndent()
	if len(args) == 0 {
		w.out.WriteString(format)
	} else {
		fmt.Fprintf(&w.out, format, args...)
	}
	w.out.WriteByte('\n')
}

// writeIndent writes the current indentation.
func (w *Writer) writeIndent() {
	for i := 0; i < w.indent; i++ {
		w.out.WriteString("    ")
	}
}

// pushIndent increases indentation.
func (w *Writer) pushIndent() {
	w.indent++
}

// popIndent decreases indentation.
func (w *Writer) popIndent() {
	if w.indent > 0 {
		w.indent--
	}
}
