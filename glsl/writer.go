// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"fmt"
	"strings"

	"github.com/gogpu/shadergraph/ir"
	"github.com/gogpu/shadergraph/lower"
)

// Writer generates GLSL source code from a lowered program.
type Writer struct {
	prog    *lower.Program
	options *Options

	// Output buffer
	out strings.Builder

	// Current indentation level
	indent int

	// Output tracking
	requiredVersion     Version
	uniformBlocks       []string
	textureSamplerPairs []string
}

// newWriter creates a new GLSL writer.
func newWriter(prog *lower.Program, options *Options) *Writer {
	return &Writer{
		prog:            prog,
		options:         options,
		requiredVersion: options.LangVersion,
	}
}

// String returns the generated GLSL source code.
func (w *Writer) String() string {
	return w.out.String()
}

// writeProgram generates the complete shader.
func (w *Writer) writeProgram() error {
	// 1. Write version directive
	w.writeVersionDirective()

	// 2. Write precision qualifiers (ES only)
	w.writePrecisionQualifiers()

	// 3. Write uniform blocks and samplers
	if err := w.writeResources(); err != nil {
		return err
	}

	// 4. Write stage inputs and outputs
	w.writeInterface()

	// 5. Write the entry point
	w.writeEntryPoint()
	return nil
}

// writeVersionDirective writes the #version directive.
func (w *Writer) writeVersionDirective() {
	w.writeLine("#version %s", w.options.LangVersion.String())
	w.writeLine("")
}

// writePrecisionQualifiers writes precision qualifiers for ES.
func (w *Writer) writePrecisionQualifiers() {
	if !w.options.LangVersion.ES {
		return
	}

	precision := "mediump"
	if w.options.ForceHighPrecision {
		precision = "highp"
	}
	w.writeLine("precision %s float;", precision)
	w.writeLine("precision %s int;", precision)
	w.writeLine("precision %s sampler2D;", precision)
	w.writeLine("")
}

// writeResources writes uniform blocks and combined samplers. Groups do not
// exist in GLSL: bindings are flattened and must stay distinct.
func (w *Writer) writeResources() error {
	explicit := w.options.LangVersion.SupportsExplicitBindings()

	used := make(map[uint32]string)
	for _, blk := range w.prog.Uniforms {
		binding := w.options.UniformBindingBase + blk.Binding
		if prev, ok := used[binding]; ok {
			return fmt.Errorf("uniform blocks %s and %s both map to binding %d", prev, blk.Name, binding)
		}
		used[binding] = blk.Name

		if explicit {
			w.writeLine("layout(std140, binding = %d) uniform %s {", binding, blk.Name)
		} else {
			w.writeLine("layout(std140) uniform %s {", blk.Name)
		}
		w.pushIndent()
		for _, m := range blk.Members {
			w.writeLine("%s %s;", typeToGLSL(m.Type), m.Name)
		}
		w.popIndent()
		w.writeLine("};")
		w.writeLine("")
		w.uniformBlocks = append(w.uniformBlocks, blk.Name)
	}

	used = make(map[uint32]string)
	for _, tex := range w.prog.Resources {
		rb := tex.Binding.(ir.ResourceBinding)
		binding := w.options.TextureBindingBase + rb.Binding
		if prev, ok := used[binding]; ok {
			return fmt.Errorf("textures %s and %s both map to binding %d", prev, tex.Name, binding)
		}
		used[binding] = tex.Name

		if explicit {
			w.writeLine("layout(binding = %d) uniform sampler2D %s;", binding, tex.Name)
		} else {
			w.writeLine("uniform sampler2D %s;", tex.Name)
		}
		w.textureSamplerPairs = append(w.textureSamplerPairs, tex.Name)
	}
	if len(w.prog.Resources) > 0 {
		w.writeLine("")
	}
	return nil
}

// writeInterface declares location-bound inputs and outputs. Built-ins are
// predeclared by GLSL.
func (w *Writer) writeInterface() {
	vertex := w.prog.Stage == ir.StageVertex
	varyingLocations := w.options.LangVersion.SupportsVaryingLocations()

	wrote := false
	for _, v := range w.prog.Inputs {
		loc, ok := v.Location()
		if !ok {
			continue
		}
		// Vertex attributes always take a location.
		w.writeVarying("in", v, loc, vertex || varyingLocations, !vertex)
		wrote = true
	}
	for _, v := range w.prog.Outputs {
		loc, ok := v.Location()
		if !ok {
			continue
		}
		// Fragment outputs always take a location.
		w.writeVarying("out", v, loc, !vertex || varyingLocations, vertex)
		wrote = true
	}
	if wrote {
		w.writeLine("")
	}
}

func (w *Writer) writeVarying(dir string, v lower.Variable, loc uint32, withLocation, interpolated bool) {
	var qualifiers []string
	if withLocation {
		qualifiers = append(qualifiers, fmt.Sprintf("layout(location = %d)", loc))
	}
	if interpolated && needsFlat(v.Type) {
		qualifiers = append(qualifiers, "flat")
	}
	qualifiers = append(qualifiers, dir)
	w.writeLine("%s %s %s;", strings.Join(qualifiers, " "), typeToGLSL(v.Type), v.Name)
}

// writeEntryPoint writes main with one local per statement followed by
// the output stores.
func (w *Writer) writeEntryPoint() {
	w.writeLine("void main() {")
	w.pushIndent()
	for _, st := range w.prog.Statements {
		if w.options.WriterFlags&WriterFlagDebugInfo != 0 {
			w.writeLine("%s %s = %s; // %s", typeToGLSL(st.Type), st.ID, st.Expr, st.Node)
			continue
		}
		w.writeLine("%s %s = %s;", typeToGLSL(st.Type), st.ID, st.Expr)
	}
	for _, store := range w.prog.Stores {
		target := store.Output.Name
		if b, ok := store.Output.Builtin(); ok {
			target = builtinOutput(b)
		}
		w.writeLine("%s = %s;", target, store.Expr)
	}
	w.popIndent()
	w.writeLine("}")
}

// writeLine writes a formatted line with the current indentation.
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
