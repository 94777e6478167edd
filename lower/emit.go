package lower

import (
	"github.com/gogpu/shadergraph/ir"
)

var componentSuffix = [4]string{"x", "y", "z", "w"}

// baseName picks the identifier stem of a node's statements.
func baseName(n ir.Node) string {
	if n.Label != "" {
		return n.Label
	}
	switch k := n.Kind.(type) {
	case ir.Constant:
		return "const"
	case ir.Operator:
		return k.Op.String()
	case ir.Function:
		return k.Fun.String()
	}
	return "tmp"
}

// emitNode emits one node. The switch covers every ir.NodeKind variant.
func (cc *compilation) emitNode(n ir.Node) error {
	switch k := n.Kind.(type) {
	case ir.Constant:
		v := k.Value
		cc.emit(n, 0, baseName(n), v.Type, cc.dialect.Literal(v), &v)
		return nil

	case ir.InputVariable:
		v, ok := cc.vars[n.Handle]
		if !ok {
			return ir.NodeError(ir.KindInternalInvariantViolation, n.Handle, "input variable was not declared")
		}
		cc.refs[ir.Out(n.Handle, 0)] = operand{expr: cc.dialect.InputRef(v), typ: v.Type}
		return nil

	case ir.OutputVariable:
		v, ok := cc.vars[n.Handle]
		if !ok {
			return ir.NodeError(ir.KindInternalInvariantViolation, n.Handle, "output variable was not declared")
		}
		arg, err := cc.arg(n, 0)
		if err != nil {
			return err
		}
		cc.prog.Stores = append(cc.prog.Stores, Store{Output: v, Expr: arg.expr})
		return nil

	case ir.Operator:
		return cc.emitOperator(n, k)

	case ir.Function:
		return cc.emitFunction(n, k)
	}
	return ir.NodeError(ir.KindInternalInvariantViolation, n.Handle, "no emission rule for %T", n.Kind)
}

func (cc *compilation) emitOperator(n ir.Node, op ir.Operator) error {
	left, err := cc.arg(n, 0)
	if err != nil {
		return err
	}
	right, err := cc.arg(n, 1)
	if err != nil {
		return err
	}
	common, ok := ir.CommonType(left.typ, right.typ)
	if !ok {
		return ir.NodeError(ir.KindTypeMismatch, n.Handle, "%s has no common type for %s and %s", op.Op, left.typ, right.typ)
	}
	left, right = cc.cast(left, common), cc.cast(right, common)

	result := n.Outputs[0].Type
	var value *ir.Value
	if left.value != nil && right.value != nil {
		if v, ok := evalOperator(op.Op, common, *left.value, *right.value); ok {
			value = &v
		}
	}
	cc.emit(n, 0, baseName(n), result, cc.dialect.Binary(op.Op, common, left.expr, right.expr), value)
	return nil
}

func (cc *compilation) emitFunction(n ir.Node, fn ir.Function) error {
	args := make([]operand, len(n.Inputs))
	for slot := range n.Inputs {
		a, err := cc.arg(n, slot)
		if err != nil {
			return err
		}
		args[slot] = a
	}

	if fn.Fun == ir.FuncSample {
		e, ok := cc.script.Incoming(ir.In(n.Handle, 0))
		if !ok {
			return ir.PinError(ir.KindInternalInvariantViolation, ir.In(n.Handle, 0), "texture input must be bound to a resource")
		}
		tex, ok := cc.vars[e.From.Node]
		if !ok || tex.Type != ir.Texture2D {
			return ir.PinError(ir.KindInternalInvariantViolation, ir.In(n.Handle, 0), "texture input is not a declared resource")
		}
		expr := cc.dialect.Sample(tex, args[1].expr, cc.prog.Stage)
		cc.emit(n, 0, baseName(n), n.Outputs[0].Type, expr, nil)
		return nil
	}

	values, known := make([]ir.Value, len(args)), true
	exprs := make([]string, len(args))
	for i, a := range args {
		exprs[i] = a.expr
		if a.value == nil {
			known = false
			continue
		}
		values[i] = *a.value
	}
	var folded []ir.Value
	if known {
		if outs, ok := evalFunction(fn.Fun, fn.Operand, values); ok {
			folded = outs
		}
	}
	valueAt := func(i int) *ir.Value {
		if folded == nil {
			return nil
		}
		return &folded[i]
	}

	base := baseName(n)
	switch fn.Fun {
	case ir.FuncSplit:
		for i, p := range n.Outputs {
			expr := cc.dialect.Component(args[0].expr, i)
			cc.emit(n, i, base+"_"+componentSuffix[i], p.Type, expr, valueAt(i))
		}
		return nil
	case ir.FuncCompose, ir.FuncExtend:
		out := n.Outputs[0].Type
		cc.emit(n, 0, base, out, cc.dialect.Construct(out, exprs), valueAt(0))
		return nil
	}
	cc.emit(n, 0, base, n.Outputs[0].Type, cc.dialect.Call(fn.Fun, fn.Operand, exprs), valueAt(0))
	return nil
}

// emit appends a statement for output slot of n and records its identifier
// for later consumers.
func (cc *compilation) emit(n ir.Node, slot int, base string, t ir.ValueType, expr string, value *ir.Value) {
	id := cc.names.call(base)
	if value != nil && cc.fold {
		expr = cc.dialect.Literal(*value)
	}
	cc.prog.Statements = append(cc.prog.Statements, Statement{
		ID:    id,
		Type:  t,
		Expr:  expr,
		Node:  n.Handle,
		Slot:  slot,
		Value: value,
	})
	cc.refs[ir.Out(n.Handle, slot)] = operand{expr: id, typ: t, value: value}
	cc.kinds[n.Category()]++
}

// arg resolves input slot of n: the emitted source bound to it, or its
// default as a literal, cast to the slot type.
func (cc *compilation) arg(n ir.Node, slot int) (operand, error) {
	pin := n.Inputs[slot]
	ref := ir.In(n.Handle, slot)

	var op operand
	if e, ok := cc.script.Incoming(ref); ok {
		src, ok := cc.refs[e.From]
		if !ok {
			return operand{}, ir.PinError(ir.KindInternalInvariantViolation, ref, "source %s used before it was emitted", e.From)
		}
		if !ir.Compatible(src.typ, pin.Type) {
			return operand{}, ir.PinError(ir.KindTypeMismatch, ref, "%s cannot flow into %s", src.typ, pin.Type)
		}
		op = src
	} else if pin.Default != nil {
		v := *pin.Default
		op = operand{expr: cc.dialect.Literal(v), typ: v.Type, value: &v}
	} else {
		return operand{}, ir.PinError(ir.KindInternalInvariantViolation, ref, "validated input %q is unbound", pin.Name)
	}
	return cc.cast(op, pin.Type), nil
}

func (cc *compilation) cast(op operand, to ir.ValueType) operand {
	if op.typ == to {
		return op
	}
	out := operand{expr: cc.dialect.Cast(op.typ, to, op.expr), typ: to}
	if op.value != nil {
		if v, err := op.value.Convert(to); err == nil {
			out.value = &v
		}
	}
	return out
}
