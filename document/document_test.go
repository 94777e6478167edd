package document

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/shadergraph/glsl"
	"github.com/gogpu/shadergraph/internal/graphtest"
	"github.com/gogpu/shadergraph/ir"
)

const tinted = `version: 1
name: tinted
nodes:
  - id: uv
    input: {name: v_uv, type: vec2<f32>, location: 0}
  - id: albedo
    input: {name: albedo, type: texture2d, resource: {id: albedo, group: 0, binding: 1}}
  - id: texel
    function: {name: sample}
    inputs: [albedo, uv]
  - id: tint
    constant: {type: vec4<f32>, value: [1, 0.5, 0.5, 1]}
  - id: shaded
    operator: {op: mul}
    inputs: [texel, tint]
  - id: color
    output: {name: color, type: vec4<f32>, location: 0}
    inputs: [shaded]
`

func TestDecode(t *testing.T) {
	doc, err := Parse([]byte(tinted))
	require.NoError(t, err)
	assert.Equal(t, "tinted", doc.Name)
	assert.Len(t, doc.Nodes, 6)
	assert.Equal(t, tinted, doc.Source())

	script, err := doc.Build()
	require.NoError(t, err)
	require.NoError(t, script.Validate())
	assert.Equal(t, 6, script.Len())

	source, _, err := glsl.Compile(script, glsl.DefaultOptions())
	require.NoError(t, err)
	assert.Contains(t, source, "uniform sampler2D albedo;")
	assert.Contains(t, source, "texture(albedo, v_uv)")
	assert.Contains(t, source, "vec4(1.0, 0.5, 0.5, 1.0)")
}

const stripes = `version: 1
name: stripes
nodes:
  - id: uv
    input: {name: v_uv, type: vec2<f32>, location: 0}
  - id: parts
    function: {name: split}
    inputs: [uv]
  - id: product
    operator: {op: mul}
    inputs: [parts.x, parts.1]
  - id: out
    output: {name: color, location: 0}
    inputs: [product]
`

func TestDecode_PinReferences(t *testing.T) {
	script, err := Decode([]byte(stripes))
	require.NoError(t, err)
	require.NoError(t, script.Validate())

	source, _, err := glsl.Compile(script, glsl.DefaultOptions())
	require.NoError(t, err)
	assert.Contains(t, source, "float split_x = v_uv.x;")
	assert.Contains(t, source, "float split_y = v_uv.y;")
	assert.Contains(t, source, "float mul = (split_x * split_y);")
	assert.Contains(t, source, "layout(location = 0) out float color;")

	// The input's only output pin is named after its variable.
	_, err = Decode([]byte(strings.Replace(stripes, "inputs: [uv]", "inputs: [uv.x]", 1)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `node "uv" has no output "x"`)
}

func TestDecode_Inference(t *testing.T) {
	t.Run("operator operands", func(t *testing.T) {
		script, err := Decode([]byte(`version: 1
nodes:
  - id: i
    input: {name: i, type: i32, location: 0}
  - id: f
    constant: {value: 2}
  - id: sum
    operator: {op: "+"}
    inputs: [i, f]
  - id: o
    output: {name: o, location: 0}
    inputs: [sum]
`))
		require.NoError(t, err)
		node := nodeByCategory(t, script, ir.CategoryOperator)
		assert.Equal(t, ir.Operator{Op: ir.OpAdd, Left: ir.Int32, Right: ir.Float32}, node.Kind)
	})

	t.Run("split pin reference and builtin type", func(t *testing.T) {
		script, err := Decode([]byte(`version: 1
stage: fragment
nodes:
  - id: coord
    input: {name: coord, builtin: frag_coord}
  - id: parts
    function: {name: split}
    inputs: [coord]
  - id: out
    output: {name: color, location: 0}
    inputs: [parts.y]
`))
		require.NoError(t, err)
		require.NoError(t, script.Validate())

		split := nodeByCategory(t, script, ir.CategoryFunction)
		assert.Equal(t, ir.Function{Fun: ir.FuncSplit, Operand: ir.Vector4f32}, split.Kind)
		edges := script.Outgoing(split.Handle)
		require.Len(t, edges, 1)
		assert.Equal(t, ir.Out(split.Handle, 1), edges[0].From)
	})

	t.Run("compose width", func(t *testing.T) {
		script, err := Decode([]byte(`version: 1
nodes:
  - id: a
    constant: {value: 0.5}
  - id: v
    function: {name: compose}
    inputs: [a, a, a]
  - id: o
    output: {name: o, location: 0}
    inputs: [v]
`))
		require.NoError(t, err)
		node := nodeByCategory(t, script, ir.CategoryFunction)
		assert.Equal(t, ir.Function{Fun: ir.FuncCompose, Operand: ir.Vector3f32}, node.Kind)
	})

	t.Run("defaults by name", func(t *testing.T) {
		script, err := Decode([]byte(`version: 1
nodes:
  - id: x
    constant: {value: 2}
  - id: c
    function: {name: clamp}
    inputs: [x]
    defaults: {high: 0.5}
  - id: o
    output: {name: o, location: 0}
    inputs: [c]
`))
		require.NoError(t, err)
		node := nodeByCategory(t, script, ir.CategoryFunction)
		require.NotNil(t, node.Inputs[2].Default)
		assert.Equal(t, ir.Float(0.5), *node.Inputs[2].Default)
	})
}

func nodeByCategory(t *testing.T, script *ir.Script, c ir.NodeCategory) ir.Node {
	t.Helper()
	for _, h := range script.Nodes() {
		n, err := script.Node(h)
		require.NoError(t, err)
		if n.Category() == c {
			return n
		}
	}
	t.Fatalf("no %s node", c)
	return ir.Node{}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		sentinel error
		message  string
	}{
		{
			name:     "syntax",
			doc:      "version: [1\n",
			sentinel: ErrSyntax,
		},
		{
			name:     "version",
			doc:      "version: 2\nnodes: []\n",
			sentinel: ErrSchema,
			message:  "unsupported document version 2",
		},
		{
			name:     "stage",
			doc:      "version: 1\nstage: compute\nnodes: []\n",
			sentinel: ErrSchema,
		},
		{
			name:     "unknown node field",
			doc:      "version: 1\nnodes:\n  - id: a\n    constant: {value: 1}\n    colour: red\n",
			sentinel: ErrSchema,
			message:  `5:5: unknown node field "colour"`,
		},
		{
			name:     "duplicate id",
			doc:      "version: 1\nnodes:\n  - id: a\n    constant: {value: 1}\n  - id: a\n    constant: {value: 2}\n",
			sentinel: ErrSchema,
			message:  `5:5: duplicate node id "a"`,
		},
		{
			name:     "two kinds",
			doc:      "version: 1\nnodes:\n  - id: a\n    constant: {value: 1}\n    operator: {op: add}\n",
			sentinel: ErrSchema,
		},
		{
			name:     "unknown reference",
			doc:      "version: 1\nnodes:\n  - id: a\n    constant: {value: 1}\n  - id: b\n    operator: {op: add}\n    inputs: [a, missing]\n",
			sentinel: ErrReference,
			message:  `5:5: node "b" references unknown node "missing"`,
		},
		{
			name:     "unknown output pin",
			doc:      "version: 1\nnodes:\n  - id: a\n    constant: {value: 1}\n  - id: o\n    output: {name: o, location: 0}\n    inputs: [a.w]\n",
			sentinel: ErrReference,
		},
		{
			name:     "cycle",
			doc:      "version: 1\nnodes:\n  - id: a\n    operator: {op: add}\n    inputs: [b, b]\n  - id: b\n    operator: {op: add}\n    inputs: [a, a]\n",
			sentinel: ir.ErrCycleDetected,
			message:  "reference cycle",
		},
		{
			name:     "type mismatch",
			doc:      "version: 1\nnodes:\n  - id: a\n    constant: {value: [1, 2]}\n  - id: o\n    output: {name: o, type: f32, location: 0}\n    inputs: [a]\n",
			sentinel: ir.ErrTypeMismatch,
		},
		{
			name:     "two bindings",
			doc:      "version: 1\nnodes:\n  - id: i\n    input: {name: i, type: f32, location: 0, builtin: frag_depth}\n",
			sentinel: ErrSchema,
		},
		{
			name:     "unknown function",
			doc:      "version: 1\nnodes:\n  - id: f\n    function: {name: frobnicate}\n",
			message:  `unknown function "frobnicate"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.doc))
			require.Error(t, err)
			if tt.sentinel != nil {
				assert.ErrorIs(t, err, tt.sentinel)
			}
			if tt.message != "" {
				assert.Contains(t, err.Error(), tt.message)
			}
			var se *SourceError
			assert.True(t, errors.As(err, &se))
		})
	}
}

func TestSourceError_FormatWithContext(t *testing.T) {
	doc := "version: 1\nnodes:\n  - id: b\n    operator: {op: add}\n    inputs: [a, a]\n"
	_, err := Decode([]byte(doc))
	require.Error(t, err)

	var se *SourceError
	require.ErrorAs(t, err, &se)
	want := "error: node \"b\" references unknown node \"a\"\n" +
		"  --> line 3:5\n" +
		"   |\n" +
		"  3|   - id: b\n" +
		"   |     ^\n"
	assert.Equal(t, want, se.FormatWithContext())

	noSource := &SourceError{Message: "boom"}
	assert.Equal(t, "boom", noSource.FormatWithContext())
}

func TestEncode_RoundTrip(t *testing.T) {
	fixtures := map[string]func(testing.TB) *ir.Script{
		"add":       graphtest.Add,
		"textured":  graphtest.Textured,
		"transform": graphtest.Transform,
		"lambert":   graphtest.Lambert,
		"reversed":  graphtest.Reversed,
	}

	for name, build := range fixtures {
		t.Run(name, func(t *testing.T) {
			script := build(t)
			data, err := Encode(script)
			require.NoError(t, err)

			decoded, err := Decode(data)
			require.NoError(t, err)

			want, _, err := glsl.Compile(script, glsl.DefaultOptions())
			require.NoError(t, err)
			got, _, err := glsl.Compile(decoded, glsl.DefaultOptions())
			require.NoError(t, err)
			assert.Equal(t, want, got)

			again, err := Encode(decoded)
			require.NoError(t, err)
			assert.Equal(t, string(data), string(again))

			wantHash, err := Hash(script)
			require.NoError(t, err)
			gotHash, err := Hash(decoded)
			require.NoError(t, err)
			assert.Equal(t, wantHash, gotHash)
		})
	}
}

func TestFromScript_DependencyOrder(t *testing.T) {
	doc, err := FromScript(graphtest.Reversed(t))
	require.NoError(t, err)
	require.Len(t, doc.Nodes, 4)

	// Constants come first in creation order, then the operator and output.
	assert.Equal(t, "n0", doc.Nodes[0].ID)
	assert.Equal(t, Components{3}, doc.Nodes[0].Constant.Value)
	assert.Equal(t, Components{2}, doc.Nodes[1].Constant.Value)
	assert.Equal(t, []string{"n1", "n0"}, doc.Nodes[2].Inputs)
	require.NotNil(t, doc.Nodes[3].Output)
	assert.Equal(t, []string{"n2"}, doc.Nodes[3].Inputs)
}

func TestEncode_Defaults(t *testing.T) {
	b := graphtest.New(t)
	x := b.Input("x", ir.Float32, ir.LocationBinding{Location: 0})
	c := b.Function(ir.FuncClamp, ir.Float32, x)
	require.NoError(t, b.Script.SetDefault(ir.In(c, 2), ir.Float(4)))
	require.NoError(t, b.Script.SetLabel(c, "limit"))
	b.Output("o", ir.Float32, ir.LocationBinding{Location: 0}, c)

	doc, err := FromScript(b.Script)
	require.NoError(t, err)
	spec := doc.Nodes[1]
	assert.Equal(t, "limit", spec.Label)
	assert.Equal(t, []string{"n0"}, spec.Inputs)
	assert.Equal(t, map[string]Components{"high": {4}}, spec.Defaults)
}

func TestHash(t *testing.T) {
	a, err := Hash(graphtest.Textured(t))
	require.NoError(t, err)
	b, err := Hash(graphtest.Textured(t))
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)

	labeled := graphtest.Textured(t)
	require.NoError(t, labeled.SetLabel(labeled.Nodes()[0], "coords"))
	c, err := Hash(labeled)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}
