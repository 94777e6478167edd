package msl

import (
	"fmt"

	"github.com/gogpu/shadergraph/ir"
)

// Type name constants
const (
	typeFloat   = "float"
	typeSampler = Namespace + "sampler"
)

// Namespace is the MSL metal namespace prefix.
const Namespace = "metal::"

// typeName returns the MSL type name for a value type.
func typeName(t ir.ValueType) string {
	switch {
	case t == ir.Texture2D:
		return Namespace + "texture2d<float, metal::access::sample>"
	case t.IsMatrix():
		return fmt.Sprintf("%sfloat%dx%d", Namespace, t.Size(), t.Size())
	case t.IsVector():
		return fmt.Sprintf("%s%s%d", Namespace, scalarTypeName(t.Kind()), t.Size())
	}
	return scalarTypeName(t.Kind())
}

// scalarTypeName returns the MSL name for a scalar kind.
func scalarTypeName(kind ir.ScalarKind) string {
	switch kind {
	case ir.ScalarBool:
		return "bool"
	case ir.ScalarSint:
		return "int"
	case ir.ScalarUint:
		return "uint"
	default:
		return typeFloat
	}
}

// packedTypeName returns the packed spelling of a three component vector.
func packedTypeName(t ir.ValueType) string {
	return fmt.Sprintf("%spacked_%s3", Namespace, scalarTypeName(t.Kind()))
}

// shouldPackMember reports whether a uniform member must be declared with a
// packed type to keep the uniform buffer layout. A vec3 occupies 16 bytes
// in MSL, but a following scalar sits in its last 4 bytes in the buffer.
func shouldPackMember(members []ir.ValueType, idx int) bool {
	if !members[idx].IsVector() || members[idx].Size() != 3 {
		return false
	}
	return idx+1 < len(members) && members[idx+1].IsScalar()
}

// isInteger reports whether t has integer components. Integer varyings
// must be flat.
func isInteger(t ir.ValueType) bool {
	return t.Kind() == ir.ScalarSint || t.Kind() == ir.ScalarUint
}
