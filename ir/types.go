package ir

import (
	"fmt"
	"strings"
)

// ValueType is the closed set of value types a pin can carry.
type ValueType uint8

const (
	TypeInvalid ValueType = iota
	Bool
	Int32
	Uint32
	Float32
	Vector2f32
	Vector3f32
	Vector4f32
	Vector2i32
	Vector3i32
	Vector4i32
	Vector2u32
	Vector3u32
	Vector4u32
	Vector2b
	Vector3b
	Vector4b
	Matrix2f32
	Matrix3f32
	Matrix4f32
	Texture2D

	typeCount
)

// ScalarKind represents the component kind of a value type.
type ScalarKind uint8

const (
	ScalarNone  ScalarKind = iota // Opaque (textures) or invalid
	ScalarBool                    // Boolean
	ScalarSint                    // Signed integer
	ScalarUint                    // Unsigned integer
	ScalarFloat                   // Floating point
)

// String returns the WGSL spelling of the scalar kind.
func (k ScalarKind) String() string {
	switch k {
	case ScalarBool:
		return "bool"
	case ScalarSint:
		return "i32"
	case ScalarUint:
		return "u32"
	case ScalarFloat:
		return "f32"
	default:
		return "none"
	}
}

// typeShape describes a value type's layout.
type typeShape struct {
	name   string
	kind   ScalarKind
	size   int // vector width or matrix order, 1 for scalars
	matrix bool
}

var typeShapes = [typeCount]typeShape{
	TypeInvalid: {name: "invalid"},
	Bool:        {name: "bool", kind: ScalarBool, size: 1},
	Int32:       {name: "i32", kind: ScalarSint, size: 1},
	Uint32:      {name: "u32", kind: ScalarUint, size: 1},
	Float32:     {name: "f32", kind: ScalarFloat, size: 1},
	Vector2f32:  {name: "vec2<f32>", kind: ScalarFloat, size: 2},
	Vector3f32:  {name: "vec3<f32>", kind: ScalarFloat, size: 3},
	Vector4f32:  {name: "vec4<f32>", kind: ScalarFloat, size: 4},
	Vector2i32:  {name: "vec2<i32>", kind: ScalarSint, size: 2},
	Vector3i32:  {name: "vec3<i32>", kind: ScalarSint, size: 3},
	Vector4i32:  {name: "vec4<i32>", kind: ScalarSint, size: 4},
	Vector2u32:  {name: "vec2<u32>", kind: ScalarUint, size: 2},
	Vector3u32:  {name: "vec3<u32>", kind: ScalarUint, size: 3},
	Vector4u32:  {name: "vec4<u32>", kind: ScalarUint, size: 4},
	Vector2b:    {name: "vec2<bool>", kind: ScalarBool, size: 2},
	Vector3b:    {name: "vec3<bool>", kind: ScalarBool, size: 3},
	Vector4b:    {name: "vec4<bool>", kind: ScalarBool, size: 4},
	Matrix2f32:  {name: "mat2x2<f32>", kind: ScalarFloat, size: 2, matrix: true},
	Matrix3f32:  {name: "mat3x3<f32>", kind: ScalarFloat, size: 3, matrix: true},
	Matrix4f32:  {name: "mat4x4<f32>", kind: ScalarFloat, size: 4, matrix: true},
	Texture2D:   {name: "texture_2d<f32>"},
}

func (t ValueType) shape() typeShape {
	if t >= typeCount {
		return typeShapes[TypeInvalid]
	}
	return typeShapes[t]
}

// String returns the WGSL-style spelling of the type.
func (t ValueType) String() string {
	if t >= typeCount {
		return fmt.Sprintf("ValueType(%d)", uint8(t))
	}
	return t.shape().name
}

// Valid reports whether t is a member of the closed type set.
func (t ValueType) Valid() bool {
	return t > TypeInvalid && t < typeCount
}

// Kind returns the component kind.
func (t ValueType) Kind() ScalarKind { return t.shape().kind }

// Size returns the vector width or matrix order; 1 for scalars, 0 for opaque types.
func (t ValueType) Size() int { return t.shape().size }

// Components returns the number of scalar components.
func (t ValueType) Components() int {
	s := t.shape()
	if s.matrix {
		return s.size * s.size
	}
	return s.size
}

// IsScalar reports whether t is a single-component type.
func (t ValueType) IsScalar() bool {
	s := t.shape()
	return s.size == 1 && !s.matrix
}

// IsVector reports whether t is a 2-4 component vector.
func (t ValueType) IsVector() bool {
	s := t.shape()
	return s.size > 1 && !s.matrix
}

// IsMatrix reports whether t is a square float matrix.
func (t ValueType) IsMatrix() bool { return t.shape().matrix }

// IsNumeric reports whether arithmetic is defined on t.
func (t ValueType) IsNumeric() bool {
	switch t.Kind() {
	case ScalarSint, ScalarUint, ScalarFloat:
		return true
	}
	return false
}

// IsFloat reports whether t is a float scalar or float vector.
func (t ValueType) IsFloat() bool {
	return t.Kind() == ScalarFloat && !t.IsMatrix()
}

// IsFloatVector reports whether t is vec2/vec3/vec4 of f32.
func (t ValueType) IsFloatVector() bool {
	return t.Kind() == ScalarFloat && t.IsVector()
}

// Scalar returns the scalar type of t's components.
func (t ValueType) Scalar() ValueType {
	switch t.Kind() {
	case ScalarBool:
		return Bool
	case ScalarSint:
		return Int32
	case ScalarUint:
		return Uint32
	case ScalarFloat:
		return Float32
	}
	return TypeInvalid
}

// VectorOf returns the vector type with the given kind and width.
// A width of 1 yields the scalar type.
func VectorOf(kind ScalarKind, size int) ValueType {
	if kind == ScalarNone {
		return TypeInvalid
	}
	for t := Bool; t < typeCount; t++ {
		s := typeShapes[t]
		if s.kind == kind && s.size == size && !s.matrix {
			return t
		}
	}
	return TypeInvalid
}

// MatrixOf returns the square float matrix of the given order.
func MatrixOf(order int) ValueType {
	switch order {
	case 2:
		return Matrix2f32
	case 3:
		return Matrix3f32
	case 4:
		return Matrix4f32
	}
	return TypeInvalid
}

// typeAliases maps shorthand spellings to types.
var typeAliases = map[string]ValueType{
	"float": Float32, "int": Int32, "uint": Uint32,
	"vec2": Vector2f32, "vec3": Vector3f32, "vec4": Vector4f32,
	"ivec2": Vector2i32, "ivec3": Vector3i32, "ivec4": Vector4i32,
	"uvec2": Vector2u32, "uvec3": Vector3u32, "uvec4": Vector4u32,
	"bvec2": Vector2b, "bvec3": Vector3b, "bvec4": Vector4b,
	"mat2": Matrix2f32, "mat3": Matrix3f32, "mat4": Matrix4f32,
	"mat2x2": Matrix2f32, "mat3x3": Matrix3f32, "mat4x4": Matrix4f32,
	"texture2d": Texture2D, "texture_2d": Texture2D,
}

// ParseValueType parses a WGSL-style type name or a shorthand alias.
func ParseValueType(s string) (ValueType, error) {
	name := strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	for t := Bool; t < typeCount; t++ {
		if typeShapes[t].name == name {
			return t, nil
		}
	}
	if t, ok := typeAliases[strings.ToLower(name)]; ok {
		return t, nil
	}
	return TypeInvalid, fmt.Errorf("unknown value type %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (t ValueType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid value type %d", uint8(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *ValueType) UnmarshalText(text []byte) error {
	parsed, err := ParseValueType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
