package ir

// Coercion is a permitted implicit conversion from one value type to another.
type Coercion struct {
	From ValueType
	To   ValueType
}

// coercions is the closed table of non-identity conversions.
// Only scalar widening to f32 is permitted; vectors and matrices
// always require an exact match.
var coercions = map[Coercion]struct{}{
	{From: Int32, To: Float32}:  {},
	{From: Uint32, To: Float32}: {},
}

// Compatible reports whether a value of type from may flow into a pin of
// type to. The relation is directional.
func Compatible(from, to ValueType) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	if from == to {
		return true
	}
	_, ok := coercions[Coercion{From: from, To: to}]
	return ok
}

// CommonType returns the type both operands can be coerced to.
func CommonType(a, b ValueType) (ValueType, bool) {
	switch {
	case !a.Valid() || !b.Valid():
		return TypeInvalid, false
	case a == b:
		return a, true
	case Compatible(a, b):
		return b, true
	case Compatible(b, a):
		return a, true
	}
	return TypeInvalid, false
}

// Coercions returns every non-identity conversion in a stable order.
func Coercions() []Coercion {
	out := make([]Coercion, 0, len(coercions))
	for from := Bool; from < typeCount; from++ {
		for to := Bool; to < typeCount; to++ {
			if from != to && Compatible(from, to) {
				out = append(out, Coercion{From: from, To: to})
			}
		}
	}
	return out
}
