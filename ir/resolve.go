package ir

import "regexp"

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Signature returns the pin layout a node kind declares. It is the single
// source of truth for arity and slot types: CreateNode uses it to build
// nodes and the compiler re-derives it to check stored layouts.
func Signature(kind NodeKind) (inputs, outputs []Pin, err error) {
	_, inputs, outputs, err = resolveKind(kind)
	return inputs, outputs, err
}

// Normalize returns kind with implied parameters filled in, such as the
// fallback operand of a generic function.
func Normalize(kind NodeKind) (NodeKind, error) {
	kind, _, _, err := resolveKind(kind)
	return kind, err
}

func resolveKind(kind NodeKind) (NodeKind, []Pin, []Pin, error) {
	switch k := kind.(type) {
	case Constant:
		if err := k.Value.Validate(); err != nil {
			return kind, nil, nil, NewError(KindInvalidNodeSpec, "constant: %v", err)
		}
		return k, nil, []Pin{out("value", k.Value.Type)}, nil

	case InputVariable:
		if err := checkVariable(k.Name, k.Type); err != nil {
			return kind, nil, nil, err
		}
		if err := checkInputBinding(k); err != nil {
			return kind, nil, nil, err
		}
		return k, nil, []Pin{out(k.Name, k.Type)}, nil

	case OutputVariable:
		if err := checkVariable(k.Name, k.Type); err != nil {
			return kind, nil, nil, err
		}
		if err := checkOutputBinding(k); err != nil {
			return kind, nil, nil, err
		}
		return k, []Pin{in(k.Name, k.Type)}, nil, nil

	case Operator:
		result, err := operatorResult(k)
		if err != nil {
			return kind, nil, nil, err
		}
		return k, []Pin{in("left", k.Left), in("right", k.Right)}, []Pin{out("result", result)}, nil

	case Function:
		fn, sig, err := resolveFunction(k)
		if err != nil {
			return kind, nil, nil, err
		}
		inputs, outputs := sig.build(fn.Operand)
		return fn, inputs, outputs, nil

	case nil:
		return kind, nil, nil, NewError(KindInvalidNodeSpec, "nil node kind")
	}
	return kind, nil, nil, NewError(KindInvalidNodeSpec, "unsupported node kind %T", kind)
}

func checkVariable(name string, t ValueType) error {
	if !identifierPattern.MatchString(name) {
		return NewError(KindInvalidNodeSpec, "variable name %q is not an identifier", name)
	}
	if !t.Valid() {
		return NewError(KindInvalidNodeSpec, "variable %q has invalid type", name)
	}
	return nil
}

func checkInputBinding(v InputVariable) error {
	switch b := v.Binding.(type) {
	case nil, LocationBinding:
		if v.Type == Texture2D {
			return NewError(KindInvalidNodeSpec, "input %q: %s requires a resource binding", v.Name, v.Type)
		}
		if v.Type.Kind() == ScalarBool || v.Type.IsMatrix() {
			return NewError(KindInvalidNodeSpec, "input %q: %s cannot be a stage input", v.Name, v.Type)
		}
	case BuiltinBinding:
		return checkBuiltin(v.Name, v.Type, b.Builtin, false)
	case UniformBinding:
		if !identifierPattern.MatchString(b.Block) {
			return NewError(KindInvalidNodeSpec, "input %q: uniform block %q is not an identifier", v.Name, b.Block)
		}
		if v.Type == Texture2D {
			return NewError(KindInvalidNodeSpec, "input %q: %s requires a resource binding", v.Name, v.Type)
		}
		if v.Type.Kind() == ScalarBool {
			return NewError(KindInvalidNodeSpec, "input %q: %s is not host-shareable", v.Name, v.Type)
		}
	case ResourceBinding:
		if v.Type != Texture2D {
			return NewError(KindInvalidNodeSpec, "input %q: resource binding requires %s, got %s", v.Name, Texture2D, v.Type)
		}
		if b.Resource == "" {
			return NewError(KindInvalidNodeSpec, "input %q: empty resource id", v.Name)
		}
	default:
		return NewError(KindInvalidNodeSpec, "input %q: unsupported binding %T", v.Name, b)
	}
	return nil
}

func checkOutputBinding(v OutputVariable) error {
	if v.Type == Texture2D {
		return NewError(KindInvalidNodeSpec, "output %q: %s cannot be written", v.Name, v.Type)
	}
	switch b := v.Binding.(type) {
	case nil, LocationBinding:
		if v.Type.IsMatrix() || v.Type.Kind() == ScalarBool {
			return NewError(KindInvalidNodeSpec, "output %q: %s cannot be a stage output", v.Name, v.Type)
		}
	case BuiltinBinding:
		return checkBuiltin(v.Name, v.Type, b.Builtin, true)
	default:
		return NewError(KindInvalidNodeSpec, "output %q: unsupported binding %T", v.Name, b)
	}
	return nil
}

func checkBuiltin(name string, t ValueType, b BuiltinValue, output bool) error {
	info, ok := b.Info()
	if !ok {
		return NewError(KindInvalidNodeSpec, "variable %q: unknown builtin %d", name, uint8(b))
	}
	if info.Output != output {
		dir := "input"
		if info.Output {
			dir = "output"
		}
		return NewError(KindInvalidNodeSpec, "variable %q: builtin %s is an %s", name, b, dir)
	}
	if info.Type != t {
		return NewError(KindInvalidNodeSpec, "variable %q: builtin %s has type %s, got %s", name, b, info.Type, t)
	}
	return nil
}

// operatorResult applies the operator typing rules.
func operatorResult(op Operator) (ValueType, error) {
	if op.Op >= opCount {
		return TypeInvalid, NewError(KindInvalidNodeSpec, "unknown operator identity %d", uint8(op.Op))
	}
	common, ok := CommonType(op.Left, op.Right)
	if !ok {
		return TypeInvalid, NewError(KindInvalidNodeSpec, "%s: no common type for %s and %s", op.Op, op.Left, op.Right)
	}
	switch {
	case op.Op.IsArithmetic():
		if !common.IsNumeric() {
			return TypeInvalid, NewError(KindInvalidNodeSpec, "%s is not defined for %s", op.Op, common)
		}
		if common.IsMatrix() && op.Op != OpAdd && op.Op != OpSub && op.Op != OpMul {
			return TypeInvalid, NewError(KindInvalidNodeSpec, "%s is not defined for %s", op.Op, common)
		}
		return common, nil
	case op.Op.IsComparison():
		if !common.IsScalar() {
			return TypeInvalid, NewError(KindInvalidNodeSpec, "%s needs scalar operands, got %s", op.Op, common)
		}
		if common == Bool && op.Op != OpEqual && op.Op != OpNotEqual {
			return TypeInvalid, NewError(KindInvalidNodeSpec, "%s is not defined for %s", op.Op, common)
		}
		return Bool, nil
	default:
		if common != Bool {
			return TypeInvalid, NewError(KindInvalidNodeSpec, "%s needs %s operands, got %s", op.Op, Bool, common)
		}
		return Bool, nil
	}
}
