// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package wgsl

import (
	"fmt"

	"github.com/gogpu/shadergraph/ir"
	"github.com/gogpu/shadergraph/lower"
)

// DefaultSamplerBindingOffset is the distance between a texture binding
// and the binding of its paired sampler.
const DefaultSamplerBindingOffset = 16

// Options configures WGSL code generation.
type Options struct {
	// EntryPoint names the generated function. Defaults to vs_main or
	// fs_main depending on the stage.
	EntryPoint string

	// SamplerBindingOffset is added to a texture binding to place its
	// sampler. Zero selects DefaultSamplerBindingOffset.
	SamplerBindingOffset uint32

	// Lower configures the lowering pass.
	Lower []lower.Option
}

// DefaultOptions returns sensible default options for WGSL generation.
func DefaultOptions() Options {
	return Options{
		SamplerBindingOffset: DefaultSamplerBindingOffset,
	}
}

// TranslationInfo contains metadata about the translation.
type TranslationInfo struct {
	// EntryPoint is the generated function name.
	EntryPoint string

	// Stage is the shader stage of the generated function.
	Stage ir.ShaderStage

	// Bindings maps each emitted resource variable to its group and
	// binding attributes.
	Bindings map[string]string
}

// defaultEntryPoint returns the entry point name used for a stage.
func defaultEntryPoint(stage ir.ShaderStage) string {
	if stage == ir.StageVertex {
		return "vs_main"
	}
	return "fs_main"
}

// Compile generates WGSL source code from a script.
// Returns the WGSL source as a string and translation info, or an error.
func Compile(script *ir.Script, options Options) (string, TranslationInfo, error) {
	// Apply defaults for zero values
	if options.SamplerBindingOffset == 0 {
		options.SamplerBindingOffset = DefaultSamplerBindingOffset
	}
	if options.EntryPoint != "" && (!isIdentifier(options.EntryPoint) || IsReserved(options.EntryPoint)) {
		return "", TranslationInfo{}, fmt.Errorf("wgsl: invalid entry point %q", options.EntryPoint)
	}

	prog, err := lower.NewCompiler(options.Lower...).Compile(script, Dialect{EntryPoint: options.EntryPoint})
	if err != nil {
		return "", TranslationInfo{}, fmt.Errorf("wgsl: %w", err)
	}
	if options.EntryPoint == "" {
		options.EntryPoint = defaultEntryPoint(prog.Stage)
	}

	w := newWriter(prog, &options)
	if err := w.writeProgram(); err != nil {
		return "", TranslationInfo{}, fmt.Errorf("wgsl: %w", err)
	}

	info := TranslationInfo{
		EntryPoint: options.EntryPoint,
		Stage:      prog.Stage,
		Bindings:   w.bindings,
	}

	return w.String(), info, nil
}

// isIdentifier reports whether name is a valid WGSL identifier.
func isIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		letter := r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		if !letter && (i == 0 || r < '0' || r > '9') {
			return false
		}
	}
	return true
}
