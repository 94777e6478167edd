package lisp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/shadergraph/glsl"
	"github.com/gogpu/shadergraph/ir"
)

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessSource(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(input "uv" "vec2<f32>" :location 0)`,
			expect: `(input "uv" "vec2<f32>" "__kw_location" 0)`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"thing with :keyword inside"`,
			expect: `"thing with :keyword inside"`,
		},
		{
			name:   "kebab-case identifier",
			input:  `(def light-dir (constant 0 1 0))`,
			expect: `(def light_dir (constant 0 1 0))`,
		},
		{
			name:   "hyphen in keyword",
			input:  `:max-value 1`,
			expect: `"__kw_max_value" 1`,
		},
		{
			name:   "minus operator preserved",
			input:  `(- 10 5)`,
			expect: `(- 10 5)`,
		},
		{
			name:   "negative number preserved",
			input:  `(constant -1.5)`,
			expect: `(constant -1.5)`,
		},
		{
			name:   "comment converted to // style",
			input:  `;; comment with :keyword`,
			expect: `// comment with :keyword`,
		},
		{
			name:   "escaped quote in string",
			input:  `"a \" :b"`,
			expect: `"a \" :b"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, preprocessSource(tt.input))
		})
	}
}

// ---------------------------------------------------------------------------
// Evaluation tests
// ---------------------------------------------------------------------------

const tinted = `
; tinted texture lookup
(def uv (input "v_uv" "vec2<f32>" :location 0))
(def tex (input "albedo" "texture2d" :resource "albedo" :group 0 :binding 1))
(def c (binop "mul" (math "sample" tex uv) (constant "vec4<f32>" 1.0 0.5 0.5 1.0)))
(output "color" "vec4<f32>" c :location 0)
`

func TestEvaluate_Empty(t *testing.T) {
	script, err := New().Evaluate(context.Background(), "  \n")
	require.NoError(t, err)
	assert.Equal(t, 0, script.Len())
}

func TestEvaluate_Tinted(t *testing.T) {
	script, err := New().Evaluate(context.Background(), tinted)
	require.NoError(t, err)
	require.NoError(t, script.Validate())
	assert.Equal(t, 6, script.Len())

	source, _, err := glsl.Compile(script, glsl.DefaultOptions())
	require.NoError(t, err)
	assert.Contains(t, source, "uniform sampler2D albedo;")
	assert.Contains(t, source, "texture(albedo, v_uv)")
	assert.Contains(t, source, "vec4(1.0, 0.5, 0.5, 1.0)")
}

func TestEvaluate_Builtins(t *testing.T) {
	source := `
(def n (label (math "normalize" (input "normal" "vec3<f32>" :location 0)) "n"))
(def d (math "saturate" (math "dot" n (constant 0 1 0))))
(def coord (input "coord" :builtin "frag_coord"))
(def rgb (math "compose" d (split coord "x") (split coord 1)))
(output "color" (math "extend" rgb) :location 0)
`
	script, err := New().Evaluate(context.Background(), source)
	require.NoError(t, err)
	require.NoError(t, script.Validate())

	var splits, labeled int
	for _, h := range script.Nodes() {
		node, err := script.Node(h)
		require.NoError(t, err)
		if fn, ok := node.FunctionType(); ok && fn == ir.FuncSplit {
			splits++
			assert.Equal(t, ir.Vector4f32, node.Inputs[0].Type)
		}
		if node.Label == "n" {
			labeled++
		}
		if out, ok := node.Kind.(ir.OutputVariable); ok {
			assert.Equal(t, ir.Vector4f32, out.Type)
		}
	}
	assert.Equal(t, 1, splits, "splits of one source share a node")
	assert.Equal(t, 1, labeled)
}

func TestEvaluate_NumbersBecomeConstants(t *testing.T) {
	script, err := New().Evaluate(context.Background(), `(output "o" (binop "add" 2 3) :location 0)`)
	require.NoError(t, err)
	require.NoError(t, script.Validate())

	source, _, err := glsl.Compile(script, glsl.DefaultOptions())
	require.NoError(t, err)
	assert.Contains(t, source, "= 2.0;")
	assert.Contains(t, source, "= 3.0;")
}

func TestEvaluate_Errors(t *testing.T) {
	t.Run("syntax", func(t *testing.T) {
		script, err := New().Evaluate(context.Background(), "(constant 1\n(constant 2")
		require.Error(t, err)
		assert.Nil(t, script)
		var evalErr *EvalError
		require.ErrorAs(t, err, &evalErr)
		assert.NotEmpty(t, evalErr.Message)
	})

	t.Run("graph error keeps its kind", func(t *testing.T) {
		source := `(output "o" "f32" (constant "vec3<f32>" 1 2 3) :location 0)`
		_, err := New().Evaluate(context.Background(), source)
		require.Error(t, err)
		assert.ErrorIs(t, err, ir.ErrTypeMismatch)
	})

	t.Run("unknown operator", func(t *testing.T) {
		_, err := New().Evaluate(context.Background(), `(binop "pow" 1 2)`)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "pow")
	})

	t.Run("bad component", func(t *testing.T) {
		_, err := New().Evaluate(context.Background(), `(split (constant 1 2) "z")`)
		require.Error(t, err)
		var evalErr *EvalError
		assert.True(t, errors.As(err, &evalErr))
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := New().Evaluate(ctx, tinted)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestEvalError_Error(t *testing.T) {
	assert.Equal(t, "line 5: something went wrong", (&EvalError{Line: 5, Message: "something went wrong"}).Error())
	assert.Equal(t, "no location", (&EvalError{Message: "no location"}).Error())
}
