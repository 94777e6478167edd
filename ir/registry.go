package ir

// functionSignature describes the fixed pin layout of a built-in function.
type functionSignature struct {
	// fixed is the only accepted operand of a non-generic function.
	fixed ValueType
	// fallback is the operand used when a generic function is created
	// without one.
	fallback ValueType
	accepts  func(ValueType) bool
	build    func(t ValueType) (inputs, outputs []Pin)
}

func (s functionSignature) generic() bool { return s.fixed == TypeInvalid }

func isFloatish(t ValueType) bool       { return t.IsFloat() }
func isFloatVector(t ValueType) bool    { return t.IsFloatVector() }
func isNumericNonMatrix(t ValueType) bool { return t.IsNumeric() && !t.IsMatrix() }
func isSigned(t ValueType) bool {
	return (t.Kind() == ScalarFloat || t.Kind() == ScalarSint) && !t.IsMatrix()
}

func in(name string, t ValueType) Pin  { return Pin{Name: name, Type: t, Direction: Input} }
func out(name string, t ValueType) Pin { return Pin{Name: name, Type: t, Direction: Output} }

func withDefault(p Pin, v Value) Pin {
	p.Default = &v
	return p
}

// splat returns a value of type t with every component set to c.
func splat(t ValueType, c float64) Value {
	v := Zero(t)
	for i := range v.Data {
		v.Data[i] = c
	}
	return v
}

var componentNames = [4]string{"x", "y", "z", "w"}

func unary(t ValueType) ([]Pin, []Pin) {
	return []Pin{in("x", t)}, []Pin{out("result", t)}
}

func binary(a, b string) func(t ValueType) ([]Pin, []Pin) {
	return func(t ValueType) ([]Pin, []Pin) {
		return []Pin{in(a, t), in(b, t)}, []Pin{out("result", t)}
	}
}

func ternary(a, b, c string) func(t ValueType) ([]Pin, []Pin) {
	return func(t ValueType) ([]Pin, []Pin) {
		return []Pin{in(a, t), in(b, t), in(c, t)}, []Pin{out("result", t)}
	}
}

func floatUnary() functionSignature {
	return functionSignature{fallback: Float32, accepts: isFloatish, build: unary}
}

// functionSignatures is the closed signature table of built-in functions.
var functionSignatures = map[FunctionType]functionSignature{
	FuncMin: {fallback: Float32, accepts: isNumericNonMatrix, build: binary("a", "b")},
	FuncMax: {fallback: Float32, accepts: isNumericNonMatrix, build: binary("a", "b")},
	FuncClamp: {fallback: Float32, accepts: isFloatish, build: func(t ValueType) ([]Pin, []Pin) {
		return []Pin{
			in("x", t),
			withDefault(in("low", t), splat(t, 0)),
			withDefault(in("high", t), splat(t, 1)),
		}, []Pin{out("result", t)}
	}},
	FuncAbs:         {fallback: Float32, accepts: isSigned, build: unary},
	FuncFloor:       floatUnary(),
	FuncCeil:        floatUnary(),
	FuncFract:       floatUnary(),
	FuncSqrt:        floatUnary(),
	FuncInverseSqrt: floatUnary(),
	FuncSin:         floatUnary(),
	FuncCos:         floatUnary(),
	FuncTan:         floatUnary(),
	FuncExp:         floatUnary(),
	FuncLog:         floatUnary(),
	FuncSaturate:    floatUnary(),
	FuncPow:         {fallback: Float32, accepts: isFloatish, build: binary("base", "exponent")},
	FuncStep:        {fallback: Float32, accepts: isFloatish, build: binary("edge", "x")},
	FuncMix:         {fallback: Float32, accepts: isFloatish, build: ternary("a", "b", "t")},
	FuncSmoothStep:  {fallback: Float32, accepts: isFloatish, build: ternary("edge0", "edge1", "x")},
	FuncDot: {fallback: Vector3f32, accepts: isFloatVector, build: func(t ValueType) ([]Pin, []Pin) {
		return []Pin{in("a", t), in("b", t)}, []Pin{out("result", Float32)}
	}},
	FuncLength: {fallback: Vector3f32, accepts: isFloatVector, build: func(t ValueType) ([]Pin, []Pin) {
		return []Pin{in("x", t)}, []Pin{out("result", Float32)}
	}},
	FuncDistance: {fallback: Vector3f32, accepts: isFloatVector, build: func(t ValueType) ([]Pin, []Pin) {
		return []Pin{in("a", t), in("b", t)}, []Pin{out("result", Float32)}
	}},
	FuncNormalize: {fallback: Vector3f32, accepts: isFloatVector, build: unary},
	FuncReflect:   {fallback: Vector3f32, accepts: isFloatVector, build: binary("incident", "normal")},
	FuncCross: {fixed: Vector3f32, build: binary("a", "b")},
	FuncTransform: {fallback: Matrix4f32, accepts: ValueType.IsMatrix, build: func(t ValueType) ([]Pin, []Pin) {
		v := VectorOf(ScalarFloat, t.Size())
		return []Pin{in("matrix", t), in("vector", v)}, []Pin{out("result", v)}
	}},
	FuncSample: {fixed: Texture2D, build: func(t ValueType) ([]Pin, []Pin) {
		return []Pin{in("texture", t), in("uv", Vector2f32)}, []Pin{out("color", Vector4f32)}
	}},
	FuncCompose: {fallback: Vector4f32, accepts: isFloatVector, build: func(t ValueType) ([]Pin, []Pin) {
		inputs := make([]Pin, t.Size())
		for i := range inputs {
			inputs[i] = in(componentNames[i], Float32)
		}
		return inputs, []Pin{out("result", t)}
	}},
	FuncSplit: {fallback: Vector4f32, accepts: isFloatVector, build: func(t ValueType) ([]Pin, []Pin) {
		outputs := make([]Pin, t.Size())
		for i := range outputs {
			outputs[i] = out(componentNames[i], Float32)
		}
		return []Pin{in("x", t)}, outputs
	}},
	FuncExtend: {fallback: Vector3f32, accepts: func(t ValueType) bool {
		return t == Vector2f32 || t == Vector3f32
	}, build: func(t ValueType) ([]Pin, []Pin) {
		wider := VectorOf(ScalarFloat, t.Size()+1)
		last := componentNames[t.Size()]
		return []Pin{in("x", t), withDefault(in(last, Float32), Float(1))}, []Pin{out("result", wider)}
	}},
}

// resolveFunction fills in the operand of fn and checks it against the table.
func resolveFunction(fn Function) (Function, functionSignature, error) {
	sig, ok := functionSignatures[fn.Fun]
	if !ok {
		return fn, sig, NewError(KindInvalidNodeSpec, "unknown function identity %d", uint8(fn.Fun))
	}
	if !sig.generic() {
		if fn.Operand != TypeInvalid && fn.Operand != sig.fixed {
			return fn, sig, NewError(KindInvalidNodeSpec, "%s only accepts %s, got %s", fn.Fun, sig.fixed, fn.Operand)
		}
		fn.Operand = sig.fixed
		return fn, sig, nil
	}
	if fn.Operand == TypeInvalid {
		fn.Operand = sig.fallback
	}
	if !fn.Operand.Valid() || !sig.accepts(fn.Operand) {
		return fn, sig, NewError(KindInvalidNodeSpec, "%s is not defined for %s", fn.Fun, fn.Operand)
	}
	return fn, sig, nil
}

// InferOperand picks the overload of fn from the types of its sources in
// slot order. Compose is sized by its source count. TypeInvalid selects the
// default overload.
func InferOperand(fn FunctionType, sources []ValueType) ValueType {
	sig, ok := functionSignatures[fn]
	if !ok || !sig.generic() {
		return TypeInvalid
	}
	if fn == FuncCompose {
		return VectorOf(ScalarFloat, len(sources))
	}
	if len(sources) > 0 {
		return sources[0]
	}
	return TypeInvalid
}
