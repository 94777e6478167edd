// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"fmt"

	"github.com/gogpu/shadergraph/ir"
	"github.com/gogpu/shadergraph/lower"
)

// Options configures HLSL code generation.
type Options struct {
	// ShaderModel specifies the target shader model.
	// Defaults to ShaderModel5_1 for maximum compatibility.
	ShaderModel ShaderModel

	// BindingMap maps source resource bindings to HLSL register targets.
	// If a binding is not found in the map and FakeMissingBindings is false,
	// compilation will fail with ErrMissingBinding.
	BindingMap map[ResourceBinding]BindTarget

	// FakeMissingBindings generates automatic bindings for resources
	// not found in BindingMap: the group becomes the space and the
	// binding becomes the register.
	FakeMissingBindings bool

	// EntryPoint names the generated entry point function.
	// Defaults to "main".
	EntryPoint string

	// Lower configures the lowering pass.
	Lower []lower.Option
}

// DefaultOptions returns sensible default options for HLSL generation.
func DefaultOptions() *Options {
	return &Options{
		ShaderModel:         ShaderModel5_1,
		BindingMap:          make(map[ResourceBinding]BindTarget),
		FakeMissingBindings: true,
		EntryPoint:          entryPointName,
	}
}

// TranslationInfo contains metadata about the HLSL translation.
type TranslationInfo struct {
	// EntryPoint is the generated entry point function name.
	EntryPoint string

	// Stage is the shader stage of the generated source.
	Stage ir.ShaderStage

	// Profile is the compiler target profile, such as "ps_5_1".
	Profile string

	// RegisterBindings maps resource names to their HLSL register bindings.
	// Format: "resourceName" -> "register(t0, space0)"
	RegisterBindings map[string]string
}

// Compile generates HLSL source code from a script.
// Returns the HLSL source, translation info, or an error.
func Compile(script *ir.Script, options *Options) (string, *TranslationInfo, error) {
	// Apply defaults for nil options
	if options == nil {
		options = DefaultOptions()
	}
	if options.EntryPoint == "" {
		opts := *options
		opts.EntryPoint = entryPointName
		options = &opts
	}
	if err := validateEntryPoint(options.EntryPoint); err != nil {
		return "", nil, fmt.Errorf("hlsl: %w", err)
	}

	prog, err := lower.NewCompiler(options.Lower...).Compile(script, Dialect{EntryPoint: options.EntryPoint})
	if err != nil {
		return "", nil, fmt.Errorf("hlsl: %w", err)
	}

	w := newWriter(prog, options)
	if err := w.writeProgram(); err != nil {
		return "", nil, fmt.Errorf("hlsl: %w", err)
	}

	info := &TranslationInfo{
		EntryPoint:       options.EntryPoint,
		Stage:            prog.Stage,
		Profile:          options.ShaderModel.Profile(prog.Stage),
		RegisterBindings: w.registerBindings,
	}

	return w.String(), info, nil
}

// validateEntryPoint rejects names that cannot be declared as a function.
func validateEntryPoint(name string) error {
	if name == entryPointName {
		return nil
	}
	for i, r := range name {
		letter := r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		if !letter && (i == 0 || r < '0' || r > '9') {
			return NewError(ErrInvalidEntryPoint, fmt.Sprintf("entry point %q is not an identifier", name))
		}
	}
	if IsReserved(name) || IsCaseInsensitiveReserved(name) {
		return NewError(ErrInvalidEntryPoint, fmt.Sprintf("entry point %q is reserved", name))
	}
	return nil
}
