package msl

import (
	"fmt"

	"github.com/gogpu/shadergraph/ir"
	"github.com/gogpu/shadergraph/lower"
)

// Version represents an MSL language version.
type Version struct {
	Major uint8
	Minor uint8
}

// Common MSL versions.
var (
	Version1_2 = Version{Major: 1, Minor: 2}
	Version2_0 = Version{Major: 2, Minor: 0}
	Version2_1 = Version{Major: 2, Minor: 1}
	Version2_3 = Version{Major: 2, Minor: 3}
	Version3_0 = Version{Major: 3, Minor: 0}
)

// MinVersion is the oldest version the generated source compiles with.
var MinVersion = Version1_2

// String returns the version as "major.minor".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// ParseVersion parses a version such as "2.1".
func ParseVersion(s string) (Version, error) {
	var major, minor uint8
	if _, err := fmt.Sscanf(s, "%d.%d", &major, &minor); err != nil || major == 0 {
		return Version{}, fmt.Errorf("invalid MSL version %q", s)
	}
	return Version{Major: major, Minor: minor}, nil
}

// Less reports whether v is older than o.
func (v Version) Less(o Version) bool {
	if v.Major != o.Major {
		return v.Major < o.Major
	}
	return v.Minor < o.Minor
}

// StdFlag returns the metal compiler -std flag selecting this version.
func (v Version) StdFlag() string {
	if v.Major >= 3 {
		return fmt.Sprintf("-std=metal%d.%d", v.Major, v.Minor)
	}
	return fmt.Sprintf("-std=macos-metal%d.%d", v.Major, v.Minor)
}

// ResourceBinding identifies a resource by its group and binding.
type ResourceBinding struct {
	Group   uint32
	Binding uint32
}

// BindTarget specifies the Metal binding slots for a resource.
type BindTarget struct {
	// Buffer is the buffer binding slot of a uniform block.
	Buffer *uint8

	// Texture is the texture binding slot. Nil if not bound as texture.
	Texture *uint8

	// Sampler is the sampler binding slot of the texture's sampler.
	Sampler *uint8
}

// Options configures MSL code generation.
type Options struct {
	// LangVersion is the target MSL version. Defaults to Version2_1 if
	// zero. The generated source only uses Metal 1.2 features, so the
	// version is checked against that floor, reported in TranslationInfo
	// and passed to the metal compiler through StdFlag.
	LangVersion Version

	// BindingMap maps (group, binding) pairs to Metal bind targets.
	BindingMap map[ResourceBinding]BindTarget

	// FakeMissingBindings assigns the lowest free slots to resources
	// that are not in the BindingMap.
	FakeMissingBindings bool

	// EntryPoint names the generated function. Defaults to vertex_main
	// or fragment_main. Metal does not allow main.
	EntryPoint string

	// Lower configures the lowering pass.
	Lower []lower.Option
}

// DefaultOptions returns sensible default options for MSL generation.
func DefaultOptions() Options {
	return Options{
		LangVersion:         Version2_1,
		FakeMissingBindings: true,
	}
}

// TranslationInfo contains information about the compiled MSL output.
type TranslationInfo struct {
	// EntryPoint is the generated function name.
	EntryPoint string

	// Stage is the shader stage of the generated function.
	Stage ir.ShaderStage

	// LangVersion is the MSL version the source was generated for.
	LangVersion Version

	// ResourceSlots maps emitted resource names to their slot attribute,
	// such as "material" -> "[[buffer(0)]]".
	ResourceSlots map[string]string
}

// defaultEntryPoint returns the entry point name used for a stage.
func defaultEntryPoint(stage ir.ShaderStage) string {
	if stage == ir.StageVertex {
		return "vertex_main"
	}
	return "fragment_main"
}

// Compile generates MSL source code from a script.
// Returns the MSL source as a string and translation info, or an error.
func Compile(script *ir.Script, options Options) (string, TranslationInfo, error) {
	// Apply defaults for zero values
	if options.LangVersion.Major == 0 {
		options.LangVersion = Version2_1
	}
	if options.LangVersion.Less(MinVersion) {
		return "", TranslationInfo{}, fmt.Errorf("msl: unsupported version %s (need %s or later)", options.LangVersion, MinVersion)
	}
	if options.EntryPoint != "" && (!isIdentifier(options.EntryPoint) || isReserved(options.EntryPoint)) {
		return "", TranslationInfo{}, fmt.Errorf("msl: invalid entry point %q", options.EntryPoint)
	}

	prog, err := lower.NewCompiler(options.Lower...).Compile(script, Dialect{EntryPoint: options.EntryPoint})
	if err != nil {
		return "", TranslationInfo{}, fmt.Errorf("msl: %w", err)
	}
	if options.EntryPoint == "" {
		options.EntryPoint = defaultEntryPoint(prog.Stage)
	}

	w := newWriter(prog, &options)
	if err := w.writeProgram(); err != nil {
		return "", TranslationInfo{}, fmt.Errorf("msl: %w", err)
	}

	info := TranslationInfo{
		EntryPoint:    options.EntryPoint,
		Stage:         prog.Stage,
		LangVersion:   options.LangVersion,
		ResourceSlots: w.resourceSlots,
	}

	return w.String(), info, nil
}
