// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"fmt"
	"strings"

	"github.com/gogpu/shadergraph/ir"
	"github.com/gogpu/shadergraph/lower"
)

// Writer generates HLSL source code from a lowered program.
type Writer struct {
	prog    *lower.Program
	options *Options

	// Output buffer
	out strings.Builder

	// Current indentation level
	indent int

	// Output tracking
	registerBindings map[string]string
}

// newWriter creates a new HLSL writer.
func newWriter(prog *lower.Program, options *Options) *Writer {
	return &Writer{
		prog:             prog,
		options:          options,
		registerBindings: make(map[string]string),
	}
}

// String returns the generated HLSL source code.
func (w *Writer) String() string {
	return w.out.String()
}

// writeProgram generates the complete shader.
func (w *Writer) writeProgram() error {
	// 1. Constant buffers, textures and samplers
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

// resolveBinding maps a group/binding pair to a register target.
func (w *Writer) resolveBinding(name string, rb ResourceBinding) (BindTarget, error) {
	if bt, ok := w.options.BindingMap[rb]; ok {
		return bt, nil
	}
	if w.options.FakeMissingBindings {
		return fakeBindTarget(rb), nil
	}
	return BindTarget{}, NewError(ErrMissingBinding,
		fmt.Sprintf("resource '%s' at group %d binding %d has no binding", name, rb.Group, rb.Binding))
}

// register resolves and records the register of one resource.
func (w *Writer) register(name string, rb ResourceBinding, rt RegisterType) (string, error) {
	bt, err := w.resolveBinding(name, rb)
	if err != nil {
		return "", err
	}
	reg, err := bt.register(rt, w.options.ShaderModel)
	if err != nil {
		return "", err
	}
	w.registerBindings[name] = reg
	return reg, nil
}

// writeResources writes cbuffers with global members, then each texture
// followed by its sampler.
func (w *Writer) writeResources() error {
	for _, blk := range w.prog.Uniforms {
		reg, err := w.register(blk.Name, ResourceBinding{Group: blk.Group, Binding: blk.Binding}, RegisterTypeB)
		if err != nil {
			return err
		}
		w.writeLine("cbuffer %s : %s {", blk.Name, reg)
		w.pushIndent()
		for _, m := range blk.Members {
			w.writeLine("%s %s;", typeToHLSL(m.Type), m.Name)
		}
		w.popIndent()
		w.writeLine("};")
		w.writeLine("")
	}

	for _, tex := range w.prog.Resources {
		b := tex.Binding.(ir.ResourceBinding)
		rb := ResourceBinding{Group: b.Group, Binding: b.Binding}
		reg, err := w.register(tex.Name, rb, RegisterTypeT)
		if err != nil {
			return err
		}
		w.writeLine("%s %s : %s;", typeToHLSL(tex.Type), tex.Name, reg)
		reg, err = w.register(tex.Sampler, rb, RegisterTypeS)
		if err != nil {
			return err
		}
		w.writeLine("SamplerState %s : %s;", tex.Sampler, reg)
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
		modifier := ""
		if w.interpolated(input) && needsNoInterpolation(v.Type) {
			modifier = "nointerpolation "
		}
		w.writeLine("%s%s %s : %s;", modifier, typeToHLSL(v.Type), v.Name, w.semantic(v, input))
	}
	w.popIndent()
	w.writeLine("};")
	w.writeLine("")
}

// interpolated reports whether a struct carries varyings: vertex outputs
// and fragment inputs.
func (w *Writer) interpolated(input bool) bool {
	return (w.prog.Stage == ir.StageVertex) != input
}

// semantic returns the HLSL semantic of an interface variable.
func (w *Writer) semantic(v lower.Variable, input bool) string {
	if b, ok := v.Builtin(); ok {
		return builtinSemantic(b)
	}
	loc, _ := v.Location()
	if w.prog.Stage == ir.StageFragment && !input {
		return fmt.Sprintf("SV_Target%d", loc)
	}
	return fmt.Sprintf("LOC%d", loc)
}

// writeEntryPoint writes the entry function with one local per statement
// followed by the output stores.
func (w *Writer) writeEntryPoint() {
	outType := w.structName("Output")
	params := ""
	if len(w.prog.Inputs) > 0 {
		params = fmt.Sprintf("%s %s", w.structName("Input"), inputVar)
	}

	w.writeLine("%s %s(%s) {", outType, w.options.EntryPoint, params)
	w.pushIndent()
	w.writeLine("%s %s;", outType, outputVar)
	for _, st := range w.prog.Statements {
		w.writeLine("%s %s = %s;", typeToHLSL(st.Type), st.ID, st.Expr)
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
