package ir

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueType_Shape(t *testing.T) {
	tests := []struct {
		t          ValueType
		kind       ScalarKind
		components int
		scalar     bool
		vector     bool
		matrix     bool
	}{
		{Bool, ScalarBool, 1, true, false, false},
		{Int32, ScalarSint, 1, true, false, false},
		{Float32, ScalarFloat, 1, true, false, false},
		{Vector3f32, ScalarFloat, 3, false, true, false},
		{Vector4u32, ScalarUint, 4, false, true, false},
		{Vector2b, ScalarBool, 2, false, true, false},
		{Matrix3f32, ScalarFloat, 9, false, false, true},
		{Matrix4f32, ScalarFloat, 16, false, false, true},
		{Texture2D, ScalarNone, 0, false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.t.String(), func(t *testing.T) {
			assert.True(t, tt.t.Valid())
			assert.Equal(t, tt.kind, tt.t.Kind())
			assert.Equal(t, tt.components, tt.t.Components())
			assert.Equal(t, tt.scalar, tt.t.IsScalar())
			assert.Equal(t, tt.vector, tt.t.IsVector())
			assert.Equal(t, tt.matrix, tt.t.IsMatrix())
		})
	}
	assert.False(t, TypeInvalid.Valid())
	assert.False(t, typeCount.Valid())
	assert.False(t, Texture2D.IsNumeric())
}

func TestValueType_Parse(t *testing.T) {
	for vt := Bool; vt < typeCount; vt++ {
		parsed, err := ParseValueType(vt.String())
		require.NoError(t, err)
		assert.Equal(t, vt, parsed)
	}
	aliases := map[string]ValueType{
		"float": Float32, "vec3": Vector3f32, "ivec2": Vector2i32,
		"mat4": Matrix4f32, "texture2d": Texture2D, "vec4 < f32 >": Vector4f32,
	}
	for s, want := range aliases {
		got, err := ParseValueType(s)
		require.NoError(t, err, s)
		assert.Equal(t, want, got, s)
	}
	_, err := ParseValueType("vec5")
	assert.Error(t, err)
}

func TestVectorOf(t *testing.T) {
	assert.Equal(t, Float32, VectorOf(ScalarFloat, 1))
	assert.Equal(t, Vector3f32, VectorOf(ScalarFloat, 3))
	assert.Equal(t, Vector2u32, VectorOf(ScalarUint, 2))
	assert.Equal(t, TypeInvalid, VectorOf(ScalarFloat, 5))
	assert.Equal(t, TypeInvalid, VectorOf(ScalarNone, 0))
}

func TestCompatible(t *testing.T) {
	assert.True(t, Compatible(Float32, Float32))
	assert.True(t, Compatible(Int32, Float32))
	assert.True(t, Compatible(Uint32, Float32))
	assert.False(t, Compatible(Float32, Int32), "narrowing")
	assert.False(t, Compatible(Float32, Vector3f32), "broadcast")
	assert.False(t, Compatible(Vector3i32, Vector3f32), "vector widening")
	assert.False(t, Compatible(Vector3f32, Vector4f32), "arity")
	assert.False(t, Compatible(Bool, Int32))
	assert.False(t, Compatible(TypeInvalid, TypeInvalid))

	assert.Equal(t, []Coercion{
		{From: Int32, To: Float32},
		{From: Uint32, To: Float32},
	}, Coercions())

	for from := Bool; from < typeCount; from++ {
		for to := Bool; to < typeCount; to++ {
			if from != to && Compatible(from, to) {
				assert.True(t, from.IsScalar() && to.IsScalar(), "%s -> %s", from, to)
				assert.False(t, Compatible(to, from), "%s <- %s", from, to)
			}
		}
	}
}

func TestCommonType(t *testing.T) {
	ct, ok := CommonType(Int32, Float32)
	assert.True(t, ok)
	assert.Equal(t, Float32, ct)
	ct, ok = CommonType(Float32, Uint32)
	assert.True(t, ok)
	assert.Equal(t, Float32, ct)
	_, ok = CommonType(Int32, Uint32)
	assert.False(t, ok)
	_, ok = CommonType(Vector2f32, Float32)
	assert.False(t, ok)
}

func TestValue_Validate(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		ok   bool
	}{
		{"float", Float(1.5), true},
		{"vec4", Vec4(1, 2, 3, 4), true},
		{"identity", Identity(Matrix3f32), true},
		{"short vector", Value{Type: Vector3f32, Data: []float64{1, 2}}, false},
		{"nan", Float(math.NaN()), false},
		{"inf", Float(math.Inf(1)), false},
		{"fractional int", Value{Type: Int32, Data: []float64{1.5}}, false},
		{"int overflow", Value{Type: Int32, Data: []float64{1 << 40}}, false},
		{"negative uint", Value{Type: Uint32, Data: []float64{-1}}, false},
		{"bool two", Value{Type: Bool, Data: []float64{2}}, false},
		{"texture", Value{Type: Texture2D}, false},
		{"invalid", Value{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.v.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValue_Convert(t *testing.T) {
	v, err := Int(-3).Convert(Float32)
	require.NoError(t, err)
	assert.Equal(t, Float(-3), v)

	_, err = Float(1).Convert(Int32)
	assert.Error(t, err)

	id := Identity(Matrix2f32)
	assert.Equal(t, []float64{1, 0, 0, 1}, id.Data)
	assert.True(t, id.Equal(Identity(Matrix2f32)))
	assert.False(t, id.Equal(Zero(Matrix2f32)))
}

func TestErrors_KindAndSentinel(t *testing.T) {
	err := PinError(KindUnboundInput, In(3, 1), "input %q has no edge", "x")
	assert.Equal(t, `UnboundInput at n3.in[1]: input "x" has no edge`, err.Error())
	assert.ErrorIs(t, err, ErrUnboundInput)
	assert.NotErrorIs(t, err, ErrTypeMismatch)

	kind, ok := KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, KindUnboundInput, kind)

	_, ok = KindOf(assert.AnError)
	assert.False(t, ok)
}
