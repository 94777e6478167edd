// Package shadergraph compiles visual shader graphs to GPU shading
// languages.
//
// A graph is an ir.Script: typed nodes joined by edges from output pins to
// input pins. Scripts are built in Go through the ir package, loaded from
// YAML documents, or evaluated from Lisp source. Compile lowers a script
// and prints it for one target:
//   - GLSL: OpenGL 3.3+, ES 3.0+
//   - HLSL: DirectX Shader Model 5.0+
//   - MSL: Metal Shading Language for macOS/iOS
//   - WGSL: WebGPU Shading Language
//
// Example usage:
//
//	script, lowering, err := shadergraph.LoadYAML(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	opts := shadergraph.DefaultOptions()
//	opts.Lower = lowering
//	result, err := shadergraph.Compile(script, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(result.Source)
//
// For finer control, use the backend packages directly:
//
//	source, info, err := msl.Compile(script, msl.DefaultOptions())
package shadergraph

import (
	"cmp"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/gogpu/shadergraph/document"
	"github.com/gogpu/shadergraph/glsl"
	"github.com/gogpu/shadergraph/hlsl"
	"github.com/gogpu/shadergraph/ir"
	"github.com/gogpu/shadergraph/lisp"
	"github.com/gogpu/shadergraph/lower"
	"github.com/gogpu/shadergraph/msl"
	"github.com/gogpu/shadergraph/wgsl"
)

// Target selects the output shading language.
type Target uint8

// Supported targets.
const (
	TargetGLSL Target = iota
	TargetHLSL
	TargetMSL
	TargetWGSL
)

var targetNames = [...]string{
	TargetGLSL: "glsl",
	TargetHLSL: "hlsl",
	TargetMSL:  "msl",
	TargetWGSL: "wgsl",
}

var targetExtensions = [...]string{
	TargetGLSL: ".glsl",
	TargetHLSL: ".hlsl",
	TargetMSL:  ".metal",
	TargetWGSL: ".wgsl",
}

// Targets returns every supported target.
func Targets() []Target {
	return []Target{TargetGLSL, TargetHLSL, TargetMSL, TargetWGSL}
}

// String returns the lowercase target name.
func (t Target) String() string {
	if int(t) < len(targetNames) {
		return targetNames[t]
	}
	return fmt.Sprintf("Target(%d)", uint8(t))
}

// Extension returns the conventional source file extension.
func (t Target) Extension() string {
	if int(t) < len(targetExtensions) {
		return targetExtensions[t]
	}
	return ".txt"
}

// ParseTarget parses a target name. "metal" is accepted for MSL.
func ParseTarget(s string) (Target, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "metal" {
		return TargetMSL, nil
	}
	for i, n := range targetNames {
		if n == name {
			return Target(i), nil //nolint:gosec // G115: index of a four-element array
		}
	}
	return 0, fmt.Errorf("unknown target %q (want glsl, hlsl, msl or wgsl)", s)
}

// CompileOptions configures shader compilation.
type CompileOptions struct {
	// Target is the output language (default: GLSL).
	Target Target

	// Validate runs full script validation before lowering and reports
	// every problem instead of only the first.
	Validate bool

	// Lower configures the lowering pass of every backend.
	Lower []lower.Option

	// Per-backend options. Only the one matching Target is used.
	GLSL glsl.Options
	HLSL *hlsl.Options
	MSL  msl.Options
	WGSL wgsl.Options
}

// DefaultOptions returns sensible default options.
func DefaultOptions() CompileOptions {
	return CompileOptions{
		Target:   TargetGLSL,
		Validate: true,
		GLSL:     glsl.DefaultOptions(),
		HLSL:     hlsl.DefaultOptions(),
		MSL:      msl.DefaultOptions(),
		WGSL:     wgsl.DefaultOptions(),
	}
}

// Fingerprint identifies the options that affect the generated source of
// the selected target. Lowering options are not included.
func (o CompileOptions) Fingerprint() string {
	var backend string
	switch o.Target {
	case TargetGLSL:
		opts := o.GLSL
		opts.Lower = nil
		backend = fmt.Sprintf("%+v", opts)
	case TargetHLSL:
		if o.HLSL != nil {
			opts := *o.HLSL
			opts.Lower = nil
			// fmt prints maps with sorted keys.
			backend = fmt.Sprintf("%+v", opts)
		}
	case TargetMSL:
		backend = mslFingerprint(o.MSL)
	case TargetWGSL:
		opts := o.WGSL
		opts.Lower = nil
		backend = fmt.Sprintf("%+v", opts)
	}
	sum := sha256.Sum256([]byte(o.Target.String() + "|" + backend))
	return hex.EncodeToString(sum[:8])
}

// mslFingerprint spells out the binding map, whose slots are pointers.
func mslFingerprint(o msl.Options) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s|%s|%t", o.LangVersion, o.EntryPoint, o.FakeMissingBindings)
	keys := slices.SortedFunc(maps.Keys(o.BindingMap), func(a, b msl.ResourceBinding) int {
		return cmp.Or(cmp.Compare(a.Group, b.Group), cmp.Compare(a.Binding, b.Binding))
	})
	slot := func(p *uint8) string {
		if p == nil {
			return "-"
		}
		return strconv.Itoa(int(*p))
	}
	for _, k := range keys {
		t := o.BindingMap[k]
		fmt.Fprintf(&sb, "|%d.%d=%s,%s,%s", k.Group, k.Binding, slot(t.Buffer), slot(t.Texture), slot(t.Sampler))
	}
	return sb.String()
}

// Result is a compiled shader.
type Result struct {
	// Source is the generated shader source.
	Source string

	// Target is the language of Source.
	Target Target

	// EntryPoint is the generated entry point function name.
	EntryPoint string

	// Stage is the shader stage of the generated source.
	Stage ir.ShaderStage

	// Bindings maps resource names to their target binding annotation.
	// GLSL binds by name and reports none.
	Bindings map[string]string
}

// ValidationError reports every problem found in a script.
type ValidationError struct {
	Errors []error
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return "validation failed: " + e.Errors[0].Error()
	}
	return fmt.Sprintf("validation failed with %d errors: %v", len(e.Errors), e.Errors[0])
}

// Unwrap returns the individual problems for errors.Is and errors.As.
func (e *ValidationError) Unwrap() []error { return e.Errors }

// Compile lowers a script and generates source for opts.Target.
//
// The compilation pipeline is:
//  1. Validate the script (if enabled)
//  2. Lower the graph to an ordered statement list
//  3. Print the statements in the target language
func Compile(script *ir.Script, opts CompileOptions) (Result, error) {
	if script == nil {
		return Result{}, fmt.Errorf("nil script")
	}
	if opts.Validate {
		if errs := Validate(script); len(errs) > 0 {
			return Result{}, &ValidationError{Errors: errs}
		}
	}

	res := Result{Target: opts.Target}
	switch opts.Target {
	case TargetGLSL:
		o := opts.GLSL
		o.Lower = append(append([]lower.Option(nil), opts.Lower...), o.Lower...)
		source, info, err := glsl.Compile(script, o)
		if err != nil {
			return Result{}, err
		}
		res.Source, res.EntryPoint, res.Stage = source, info.EntryPoint, info.Stage

	case TargetHLSL:
		o := hlsl.DefaultOptions()
		if opts.HLSL != nil {
			copied := *opts.HLSL
			o = &copied
		}
		o.Lower = append(append([]lower.Option(nil), opts.Lower...), o.Lower...)
		source, info, err := hlsl.Compile(script, o)
		if err != nil {
			return Result{}, err
		}
		res.Source, res.EntryPoint, res.Stage = source, info.EntryPoint, info.Stage
		res.Bindings = info.RegisterBindings

	case TargetMSL:
		o := opts.MSL
		o.Lower = append(append([]lower.Option(nil), opts.Lower...), o.Lower...)
		source, info, err := msl.Compile(script, o)
		if err != nil {
			return Result{}, err
		}
		res.Source, res.EntryPoint, res.Stage = source, info.EntryPoint, info.Stage
		res.Bindings = info.ResourceSlots

	case TargetWGSL:
		o := opts.WGSL
		o.Lower = append(append([]lower.Option(nil), opts.Lower...), o.Lower...)
		source, info, err := wgsl.Compile(script, o)
		if err != nil {
			return Result{}, err
		}
		res.Source, res.EntryPoint, res.Stage = source, info.EntryPoint, info.Stage
		res.Bindings = info.Bindings

	default:
		return Result{}, fmt.Errorf("unknown target %s", opts.Target)
	}
	return res, nil
}

// LoadYAML decodes a YAML graph document into a script. A stage declared
// by the document is returned as a lowering option to add to
// CompileOptions.Lower.
func LoadYAML(data []byte) (*ir.Script, []lower.Option, error) {
	doc, err := document.Parse(data)
	if err != nil {
		return nil, nil, err
	}
	script, err := doc.Build()
	if err != nil {
		return nil, nil, err
	}
	var opts []lower.Option
	if stage, ok := doc.ShaderStage(); ok {
		opts = append(opts, lower.WithStage(stage))
	}
	return script, opts, nil
}

// EvaluateLisp runs Lisp source and returns the script it built.
func EvaluateLisp(ctx context.Context, source string, opts ...lisp.Option) (*ir.Script, error) {
	return lisp.New(opts...).Evaluate(ctx, source)
}

// Validate checks a script's structure and returns every problem found:
// unbound inputs, a missing output and conflicting bindings. Built-ins that
// belong to different stages are reported only by Compile, as are limits of
// the selected target.
func Validate(script *ir.Script) []error {
	return script.Diagnose()
}
