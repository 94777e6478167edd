// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package wgsl

import (
	"fmt"
	"strings"

	"github.com/gogpu/shadergraph/ir"
	"github.com/gogpu/shadergraph/lower"
)

// Writer generates WGSL source code from a lowered program.
type Writer struct {
	prog    *lower.Program
	options *Options

	// Output buffer
	out strings.Builder

	// Current indentation level
	indent int

	// Claimed group/binding slots
	slots map[[2]uint32]string

	// Output tracking
	bindings map[string]string
}

// newWriter creates a new WGSL writer.
func newWriter(prog *lower.Program, options *Options) *Writer {
	return &Writer{
		prog:     prog,
		options:  options,
		slots:    make(map[[2]uint32]string),
		bindings: make(map[string]string),
	}
}

// String returns the generated WGSL source code.
func (w *Writer) String() string {
	return w.out.String()
}

// writeProgram generates the complete shader.
func (w *Writer) writeProgram() error {
	// 1. Uniform blocks, textures and samplers
	if err := w.writeResources(); err != nil {
		return err
	}

	// 2. Stage input and output structs
	w.writeInterfaceStruct(w.structName("Input"), w.prog.Inputs, true)
	w.writeInterfaceStruct(w.structName("Output"), w.prog.Outputs, false)

	// 3. Entry point
	w.writeEntryPoint()
	return nil
}

// structName returns the interface struct name for the program's stage.
func (w *Writer) structName(suffix string) string {
	if w.prog.Stage == ir.StageVertex {
		return "Vertex" + suffix
	}
	return "Fragment" + suffix
}

// claim records a resource at a group/binding slot. WGSL rejects two
// variables sharing one.
func (w *Writer) claim(name string, group, binding uint32) (string, error) {
	key := [2]uint32{group, binding}
	if prev, ok := w.slots[key]; ok {
		return "", fmt.Errorf("%s and %s both use group %d binding %d", prev, name, group, binding)
	}
	w.slots[key] = name
	attr := fmt.Sprintf("@group(%d) @binding(%d)", group, binding)
	w.bindings[name] = attr
	return attr, nil
}

// writeResources writes one struct and uniform variable per block, then
// each texture followed by its sampler.
func (w *Writer) writeResources() error {
	for _, blk := range w.prog.Uniforms {
		attr, err := w.claim(blk.Instance, blk.Group, blk.Binding)
		if err != nil {
			return err
		}
		w.writeLine("struct %s {", blk.Name)
		w.pushIndent()
		for _, m := range blk.Members {
			w.writeLine("%s: %s,", m.Name, typeName(m.Type))
		}
		w.popIndent()
		w.writeLine("}")
		w.writeLine("")
		w.writeLine("%s var<uniform> %s: %s;", attr, blk.Instance, blk.Name)
		w.writeLine("")
	}

	for _, tex := range w.prog.Resources {
		rb := tex.Binding.(ir.ResourceBinding)
		attr, err := w.claim(tex.Name, rb.Group, rb.Binding)
		if err != nil {
			return err
		}
		w.writeLine("%s var %s: %s;", attr, tex.Name, typeName(tex.Type))
		attr, err = w.claim(tex.Sampler, rb.Group, rb.Binding+w.options.SamplerBindingOffset)
		if err != nil {
			return err
		}
		w.writeLine("%s var %s: sampler;", attr, tex.Sampler)
	}
	if len(w.prog.Resources) > 0 {
		w.writeLine("")
	}
	return nil
}

// writeInterfaceStruct declares one stage struct. Empty structs are
// skipped.
func (w *Writer) writeInterfaceStruct(name string, vars []lower.Variable, input bool) {
	if len(vars) == 0 {
		return
	}
	w.writeLine("struct %s {", name)
	w.pushIndent()
	for _, v := range vars {
		w.writeLine("%s %s: %s,", w.attributes(v, input), v.Name, typeName(v.Type))
	}
	w.popIndent()
	w.writeLine("}")
	w.writeLine("")
}

// attributes returns the IO attributes of an interface variable.
func (w *Writer) attributes(v lower.Variable, input bool) string {
	if b, ok := v.Builtin(); ok {
		return fmt.Sprintf("@builtin(%s)", builtinName(b))
	}
	loc, _ := v.Location()
	attr := fmt.Sprintf("@location(%d)", loc)
	// Varyings are vertex outputs and fragment inputs.
	varying := (w.prog.Stage == ir.StageVertex) != input
	if varying && needsFlat(v.Type) {
		attr += " @interpolate(flat)"
	}
	return attr
}

// writeEntryPoint writes the entry function with one let per statement
// followed by the output stores.
func (w *Writer) writeEntryPoint() {
	outType := w.structName("Output")
	params := ""
	if len(w.prog.Inputs) > 0 {
		params = fmt.Sprintf("%s: %s", inputVar, w.structName("Input"))
	}

	w.writeLine("@%s", w.prog.Stage)
	w.writeLine("fn %s(%s) -> %s {", w.options.EntryPoint, params, outType)
	w.pushIndent()
	w.writeLine("var %s: %s;", outputVar, outType)
	for _, st := range w.prog.Statements {
		w.writeLine("let %s: %s = %s;", st.ID, typeName(st.Type), st.Expr)
	}
	for _, store := range w.prog.Stores {
		w.writeLine("%s.%s = %s;", outputVar, store.Output.Name, store.Expr)
	}
	w.writeLine("return %s;", outputVar)
	w.popIndent()
	w.writeLine("}")
}

// writeLine writes a formatted line with the current indentation.
func (w *Writer) writeLine(format string, args ...any) {
	for i := 0; i < w.indent; i++ {
		w.out.WriteString("    ")
	}
	if len(args) == 0 {
		w.out.WriteString(format)
	} else {
		fmt.Fprintf(&w.out, format, args...)
	}
	w.out.WriteByte('\n')
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
