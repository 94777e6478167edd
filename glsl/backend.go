// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"fmt"

	"github.com/gogpu/shadergraph/ir"
	"github.com/gogpu/shadergraph/lower"
)

// Version represents a GLSL version.
type Version struct {
	Major uint8
	Minor uint8
	ES    bool // true for GLSL ES (OpenGL ES / WebGL)
}

// Common GLSL versions.
var (
	// Desktop OpenGL versions
	Version330 = Version{Major: 3, Minor: 30, ES: false} // OpenGL 3.3 Core
	Version400 = Version{Major: 4, Minor: 0, ES: false}  // OpenGL 4.0
	Version410 = Version{Major: 4, Minor: 10, ES: false} // OpenGL 4.1
	Version420 = Version{Major: 4, Minor: 20, ES: false} // OpenGL 4.2
	Version430 = Version{Major: 4, Minor: 30, ES: false} // OpenGL 4.3
	Version450 = Version{Major: 4, Minor: 50, ES: false} // OpenGL 4.5
	Version460 = Version{Major: 4, Minor: 60, ES: false} // OpenGL 4.6

	// OpenGL ES / WebGL versions
	VersionES300 = Version{Major: 3, Minor: 0, ES: true}  // ES 3.0 / WebGL 2.0
	VersionES310 = Version{Major: 3, Minor: 10, ES: true} // ES 3.1
	VersionES320 = Version{Major: 3, Minor: 20, ES: true} // ES 3.2
)

// String returns the version as a GLSL version directive value.
func (v Version) String() string {
	if v.ES {
		return fmt.Sprintf("%d%02d es", v.Major, v.Minor)
	}
	return fmt.Sprintf("%d%02d core", v.Major, v.Minor)
}

// VersionNumber returns just the numeric version (e.g., "330", "300").
func (v Version) VersionNumber() string {
	return fmt.Sprintf("%d%02d", v.Major, v.Minor)
}

// ParseVersion parses "330", "330 core", "300 es" or "300es".
func ParseVersion(s string) (Version, error) {
	var number int
	var profile string
	if _, err := fmt.Sscanf(s, "%d%s", &number, &profile); err != nil {
		if _, err := fmt.Sscanf(s, "%d", &number); err != nil {
			return Version{}, fmt.Errorf("invalid GLSL version %q", s)
		}
	}
	if number < 100 || number > 999 || (profile != "" && profile != "es" && profile != "core") {
		return Version{}, fmt.Errorf("invalid GLSL version %q", s)
	}
	return Version{Major: uint8(number / 100), Minor: uint8(number % 100), ES: profile == "es"}, nil //nolint:gosec // G115: range checked above
}

// versionLessThan returns true if the numeric version (Major*100+Minor) is
// less than the given number. For example, versionLessThan(410) returns true
// for GLSL 330 (3*100+30=330 < 410) and false for GLSL 410 (4*100+10=410).
func (v Version) versionLessThan(number int) bool {
	return int(v.Major)*100+int(v.Minor) < number
}

// SupportsExplicitBindings returns true if uniform blocks and samplers
// accept a layout(binding = N) qualifier.
func (v Version) SupportsExplicitBindings() bool {
	if v.ES {
		return !v.versionLessThan(310)
	}
	return !v.versionLessThan(420)
}

// SupportsVaryingLocations returns true if vertex outputs and fragment
// inputs accept a layout(location = N) qualifier. Older versions match
// varyings by name.
func (v Version) SupportsVaryingLocations() bool {
	if v.ES {
		return !v.versionLessThan(310)
	}
	return !v.versionLessThan(410)
}

// WriterFlags control output formatting.
type WriterFlags uint32

const (
	// WriterFlagNone uses default settings.
	WriterFlagNone WriterFlags = 0

	// WriterFlagDebugInfo annotates every statement with its source node.
	WriterFlagDebugInfo WriterFlags = 1 << iota
)

// Options configures GLSL code generation.
type Options struct {
	// LangVersion is the target GLSL version.
	// Defaults to Version330 if zero.
	LangVersion Version

	// TextureBindingBase adds offset to sampler binding indices.
	TextureBindingBase uint32

	// UniformBindingBase adds offset to uniform buffer binding indices.
	UniformBindingBase uint32

	// WriterFlags control output formatting.
	WriterFlags WriterFlags

	// ForceHighPrecision forces highp precision for all float types (ES only).
	// If false, mediump is declared.
	ForceHighPrecision bool

	// Lower configures the lowering pass.
	Lower []lower.Option
}

// DefaultOptions returns sensible default options for GLSL generation.
func DefaultOptions() Options {
	return Options{
		LangVersion:        Version330,
		ForceHighPrecision: true,
	}
}

// TranslationInfo contains metadata about the translation.
type TranslationInfo struct {
	// EntryPoint is the generated entry point name. GLSL always uses main.
	EntryPoint string

	// Stage is the shader stage of the generated source.
	Stage ir.ShaderStage

	// RequiredVersion is the minimum GLSL version needed for this shader.
	RequiredVersion Version

	// InputLocations and OutputLocations list the used stage locations.
	InputLocations  []uint32
	OutputLocations []uint32

	// UniformBlocks lists the emitted uniform block names.
	UniformBlocks []string

	// TextureSamplerPairs lists the combined sampler uniforms generated
	// for texture resources.
	TextureSamplerPairs []string
}

// Compile generates GLSL source code from a script.
// Returns the GLSL source as a string, translation info, or an error.
func Compile(script *ir.Script, options Options) (string, TranslationInfo, error) {
	// Apply defaults for zero values
	if options.LangVersion.Major == 0 {
		options.LangVersion = Version330
	}

	prog, err := lower.NewCompiler(options.Lower...).Compile(script, Dialect{})
	if err != nil {
		return "", TranslationInfo{}, fmt.Errorf("glsl: %w", err)
	}

	w := newWriter(prog, &options)
	if err := w.writeProgram(); err != nil {
		return "", TranslationInfo{}, fmt.Errorf("glsl: %w", err)
	}

	info := TranslationInfo{
		EntryPoint:          "main",
		Stage:               prog.Stage,
		RequiredVersion:     w.requiredVersion,
		InputLocations:      lower.Locations(prog.Inputs),
		OutputLocations:     lower.Locations(prog.Outputs),
		UniformBlocks:       w.uniformBlocks,
		TextureSamplerPairs: w.textureSamplerPairs,
	}

	return w.String(), info, nil
}
