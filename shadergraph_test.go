package shadergraph

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/shadergraph/internal/graphtest"
	"github.com/gogpu/shadergraph/ir"
	"github.com/gogpu/shadergraph/lower"
)

func TestParseTarget(t *testing.T) {
	tests := []struct {
		in      string
		want    Target
		wantErr bool
	}{
		{in: "glsl", want: TargetGLSL},
		{in: "HLSL", want: TargetHLSL},
		{in: "msl", want: TargetMSL},
		{in: "metal", want: TargetMSL},
		{in: " wgsl ", want: TargetWGSL},
		{in: "spirv", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTarget(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTarget_Names(t *testing.T) {
	for _, target := range Targets() {
		parsed, err := ParseTarget(target.String())
		require.NoError(t, err)
		assert.Equal(t, target, parsed)
	}
	assert.Equal(t, ".metal", TargetMSL.Extension())
	assert.Equal(t, "Target(9)", Target(9).String())
}

// TestCompile_Targets compiles the same graph to all 4 targets.
func TestCompile_Targets(t *testing.T) {
	tests := []struct {
		target     Target
		entryPoint string
		want       string
		binding    string
	}{
		{TargetGLSL, "main", "uniform sampler2D albedo;", ""},
		{TargetHLSL, "main", "Texture2D<float4> albedo : register(t1, space0);", "albedo"},
		{TargetMSL, "fragment_main", "metal::texture2d<float, metal::access::sample> albedo", "albedo"},
		{TargetWGSL, "fs_main", "var albedo: texture_2d<f32>;", "albedo_sampler"},
	}

	for _, tt := range tests {
		t.Run(tt.target.String(), func(t *testing.T) {
			opts := DefaultOptions()
			opts.Target = tt.target
			res, err := Compile(graphtest.Textured(t), opts)
			require.NoError(t, err)

			assert.Equal(t, tt.target, res.Target)
			assert.Equal(t, tt.entryPoint, res.EntryPoint)
			assert.Equal(t, ir.StageFragment, res.Stage)
			assert.Contains(t, res.Source, tt.want)
			if tt.binding != "" {
				assert.Contains(t, res.Bindings, tt.binding)
			} else {
				assert.Nil(t, res.Bindings)
			}
		})
	}
}

func TestCompile_ZeroOptions(t *testing.T) {
	for _, target := range Targets() {
		t.Run(target.String(), func(t *testing.T) {
			res, err := Compile(graphtest.Add(t), CompileOptions{Target: target})
			require.NoError(t, err)
			assert.NotEmpty(t, res.Source)
		})
	}
}

func TestCompile_Validation(t *testing.T) {
	script := ir.NewScript()
	_, err := script.AddOperator(ir.OpAdd, ir.Float32, ir.Float32)
	require.NoError(t, err)

	_, err = Compile(script, DefaultOptions())
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Errors, 3)
	assert.ErrorIs(t, err, ir.ErrUnboundInput)
	assert.ErrorIs(t, err, ir.ErrMissingOutput)
	assert.Contains(t, err.Error(), "validation failed with 3 errors")

	// Without validation the first lowering error is returned.
	opts := DefaultOptions()
	opts.Validate = false
	_, err = Compile(script, opts)
	require.Error(t, err)
	assert.False(t, errors.As(err, &verr))
}

func TestValidate_StageConflictReportedByCompile(t *testing.T) {
	b := graphtest.New(t)
	coord := b.Input("coord", ir.Vector4f32, ir.BuiltinBinding{Builtin: ir.BuiltinFragCoord})
	b.Output("pos", ir.Vector4f32, ir.BuiltinBinding{Builtin: ir.BuiltinPosition}, coord)

	assert.Empty(t, Validate(b.Script))

	_, err := Compile(b.Script, CompileOptions{Target: TargetGLSL, Validate: true})
	require.Error(t, err)
	assert.ErrorIs(t, err, ir.ErrInvalidBinding)
}

func TestCompile_LowerOptions(t *testing.T) {
	opts := DefaultOptions()
	opts.Target = TargetWGSL
	opts.Lower = []lower.Option{lower.WithConstantFolding(true)}
	res, err := Compile(graphtest.Add(t), opts)
	require.NoError(t, err)
	assert.Contains(t, res.Source, "let add: f32 = 5.0;")
}

func TestCompileOptions_Fingerprint(t *testing.T) {
	base := DefaultOptions()
	assert.Equal(t, base.Fingerprint(), DefaultOptions().Fingerprint())

	other := DefaultOptions()
	other.Target = TargetWGSL
	assert.NotEqual(t, base.Fingerprint(), other.Fingerprint())

	entry := DefaultOptions()
	entry.Target = TargetWGSL
	entry.WGSL.EntryPoint = "main_fs"
	assert.NotEqual(t, other.Fingerprint(), entry.Fingerprint())

	// Lowering options do not change the fingerprint.
	folded := DefaultOptions()
	folded.Lower = []lower.Option{lower.WithConstantFolding(true)}
	folded.GLSL.Lower = []lower.Option{lower.WithDeadNodeElimination(true)}
	assert.Equal(t, base.Fingerprint(), folded.Fingerprint())
}

const tintedYAML = `
version: 1
name: tinted
stage: vertex
nodes:
  - id: uv
    input: {name: uv, type: vec2<f32>, location: 0}
  - id: out
    output: {name: v_uv, location: 0}
    inputs: [uv]
`

func TestLoadYAML(t *testing.T) {
	script, stage, err := LoadYAML([]byte(tintedYAML))
	require.NoError(t, err)
	require.Len(t, stage, 1)

	opts := DefaultOptions()
	opts.Target = TargetWGSL
	opts.Lower = stage
	res, err := Compile(script, opts)
	require.NoError(t, err)
	assert.Equal(t, ir.StageVertex, res.Stage)
	assert.Equal(t, "vs_main", res.EntryPoint)

	_, _, err = LoadYAML([]byte("version: 2\nnodes: []\n"))
	assert.Error(t, err)
}

func TestEvaluateLisp(t *testing.T) {
	script, err := EvaluateLisp(context.Background(), `(output "o" (binop "mul" 2 4) :location 0)`)
	require.NoError(t, err)
	assert.Empty(t, Validate(script))

	res, err := Compile(script, DefaultOptions())
	require.NoError(t, err)
	assert.Contains(t, res.Source, "out float o;")
}
