package ir

import (
	"fmt"
	"math"
)

// Value is an immutable typed literal.
//
// Components are stored as float64; integers must be integral and in
// range, booleans are 0 or 1. Matrices are column-major.
type Value struct {
	Type ValueType
	Data []float64
}

// NewValue builds a value of the given type and validates it.
func NewValue(t ValueType, components ...float64) (Value, error) {
	v := Value{Type: t, Data: append([]float64(nil), components...)}
	if err := v.Validate(); err != nil {
		return Value{}, err
	}
	return v, nil
}

// Float returns an f32 scalar.
func Float(f float64) Value { return Value{Type: Float32, Data: []float64{f}} }

// Int returns an i32 scalar.
func Int(i int32) Value { return Value{Type: Int32, Data: []float64{float64(i)}} }

// Uint returns a u32 scalar.
func Uint(u uint32) Value { return Value{Type: Uint32, Data: []float64{float64(u)}} }

// BoolValue returns a bool scalar.
func BoolValue(b bool) Value {
	if b {
		return Value{Type: Bool, Data: []float64{1}}
	}
	return Value{Type: Bool, Data: []float64{0}}
}

// Vec2 returns a vec2<f32>.
func Vec2(x, y float64) Value { return Value{Type: Vector2f32, Data: []float64{x, y}} }

// Vec3 returns a vec3<f32>.
func Vec3(x, y, z float64) Value { return Value{Type: Vector3f32, Data: []float64{x, y, z}} }

// Vec4 returns a vec4<f32>.
func Vec4(x, y, z, w float64) Value { return Value{Type: Vector4f32, Data: []float64{x, y, z, w}} }

// Zero returns the all-zero value of t.
func Zero(t ValueType) Value {
	return Value{Type: t, Data: make([]float64, t.Components())}
}

// Identity returns the identity matrix of the given matrix type.
func Identity(t ValueType) Value {
	v := Zero(t)
	if t.IsMatrix() {
		n := t.Size()
		for i := 0; i < n; i++ {
			v.Data[i*n+i] = 1
		}
	}
	return v
}

// Validate checks the component count and ranges for the value type.
func (v Value) Validate() error {
	if !v.Type.Valid() {
		return fmt.Errorf("invalid value type %d", uint8(v.Type))
	}
	if v.Type == Texture2D {
		return fmt.Errorf("%s has no literal form", v.Type)
	}
	if want := v.Type.Components(); len(v.Data) != want {
		return fmt.Errorf("%s literal needs %d components, got %d", v.Type, want, len(v.Data))
	}
	for i, c := range v.Data {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return fmt.Errorf("%s component %d is not finite", v.Type, i)
		}
		switch v.Type.Kind() {
		case ScalarBool:
			if c != 0 && c != 1 {
				return fmt.Errorf("bool component %d must be 0 or 1, got %g", i, c)
			}
		case ScalarSint:
			if c != math.Trunc(c) || c < math.MinInt32 || c > math.MaxInt32 {
				return fmt.Errorf("i32 component %d out of range: %g", i, c)
			}
		case ScalarUint:
			if c != math.Trunc(c) || c < 0 || c > math.MaxUint32 {
				return fmt.Errorf("u32 component %d out of range: %g", i, c)
			}
		}
	}
	return nil
}

// Scalar returns component i.
func (v Value) Scalar(i int) float64 { return v.Data[i] }

// Bool returns component i as a boolean.
func (v Value) Bool(i int) bool { return v.Data[i] != 0 }

// Equal reports whether two values have the same type and components.
func (v Value) Equal(o Value) bool {
	if v.Type != o.Type || len(v.Data) != len(o.Data) {
		return false
	}
	for i := range v.Data {
		if v.Data[i] != o.Data[i] {
			return false
		}
	}
	return true
}

// Convert returns v coerced to t. Only conversions in the coercion table
// are accepted.
func (v Value) Convert(t ValueType) (Value, error) {
	if v.Type == t {
		return v, nil
	}
	if !Compatible(v.Type, t) {
		return Value{}, fmt.Errorf("cannot convert %s to %s", v.Type, t)
	}
	out := Value{Type: t, Data: make([]float64, len(v.Data))}
	for i, c := range v.Data {
		if t.Kind() == ScalarFloat {
			c = float64(float32(c))
		}
		out.Data[i] = c
	}
	return out, nil
}

// String returns a debug representation.
func (v Value) String() string {
	if v.Type.IsScalar() && len(v.Data) == 1 {
		if v.Type == Bool {
			return fmt.Sprintf("%t", v.Bool(0))
		}
		return fmt.Sprintf("%s(%g)", v.Type, v.Data[0])
	}
	return fmt.Sprintf("%s%v", v.Type, v.Data)
}
