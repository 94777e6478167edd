package lisp

import (
	"errors"
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/gogpu/shadergraph/ir"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource rewrites source before passing it to zygomys:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//  2. Kebab-case to underscore: light-dir -> light_dir
//  3. Line comments: ; comment -> // comment
//
// String literals are copied unchanged.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		if b[i] == ':' && i+1 < len(b) && isLetter(b[i+1]) {
			j := i + 1
			for j < len(b) && isKWChar(b[j]) {
				j++
			}
			result = append(result, '"')
			result = append(result, kwPrefix...)
			result = append(result, strings.ReplaceAll(string(b[i+1:j]), "-", "_")...)
			result = append(result, '"')
			i = j
			continue
		}
		// Only a hyphen between identifier characters, never a minus.
		if b[i] == '-' && i > 0 && i+1 < len(b) && isIdentChar(b[i-1]) && isLetter(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

// ---------------------------------------------------------------------------
// Pin references
// ---------------------------------------------------------------------------

// sexpPin is an output pin passed between builtins.
type sexpPin struct {
	ref ir.PinRef
	typ ir.ValueType
}

func (p *sexpPin) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(pin %s %s)", p.ref, p.typ)
}
func (p *sexpPin) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	return strings.CutPrefix(str.S, kwPrefix)
}

// kwArgs holds a mixed positional and keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		if name, ok := isKW(args[i]); ok && i+1 < len(args) {
			result.kw[name] = args[i+1]
			i++
			continue
		}
		result.positional = append(result.positional, args[i])
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	case *zygo.SexpBool:
		if v.Val {
			return 1, nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("expected number, got %s", s.SexpString(nil))
}

func toUint32(s zygo.Sexp) (uint32, error) {
	v, ok := s.(*zygo.SexpInt)
	if !ok || v.Val < 0 || v.Val > 1<<32-1 {
		return 0, fmt.Errorf("expected unsigned integer, got %s", s.SexpString(nil))
	}
	return uint32(v.Val), nil
}

func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %s", s.SexpString(nil))
}

func toType(s zygo.Sexp) (ir.ValueType, error) {
	name, err := toString(s)
	if err != nil {
		return ir.TypeInvalid, err
	}
	return ir.ParseValueType(name)
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// graphBuilder adds nodes to a script on behalf of the builtins.
type graphBuilder struct {
	script *ir.Script
	splits map[ir.PinRef]ir.NodeHandle
	// failure is the last graph error returned by a builtin.
	failure error
}

type builtin func(args kwArgs) (zygo.Sexp, error)

// register installs the builtins into a zygomys environment.
func (b *graphBuilder) register(env *zygo.Zlisp) {
	for name, fn := range map[string]builtin{
		"constant": b.constant,
		"input":    b.input,
		"output":   b.output,
		"binop":    b.binop,
		"math":     b.math,
		"split":    b.split,
		"label":    b.label,
	} {
		env.AddFunction(name, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			res, err := fn(parseArgs(args))
			if err != nil {
				if errors.As(err, new(*ir.Error)) {
					b.failure = err
				}
				return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
			}
			return res, nil
		})
	}
}

// pin converts an argument into an output pin. Numbers become f32
// constants.
func (b *graphBuilder) pin(s zygo.Sexp) (*sexpPin, error) {
	if p, ok := s.(*sexpPin); ok {
		return p, nil
	}
	f, err := toFloat64(s)
	if err != nil {
		return nil, fmt.Errorf("expected node or number, got %s", s.SexpString(nil))
	}
	h, err := b.script.AddConstant(ir.Float(f))
	if err != nil {
		return nil, err
	}
	return &sexpPin{ref: ir.Out(h, 0), typ: ir.Float32}, nil
}

// connect wires sources into consecutive input slots of h.
func (b *graphBuilder) connect(h ir.NodeHandle, sources []*sexpPin) error {
	for slot, src := range sources {
		if err := b.script.Connect(src.ref, ir.In(h, slot)); err != nil {
			return err
		}
	}
	return nil
}

// result returns the first output pin of h.
func (b *graphBuilder) result(h ir.NodeHandle, slot int) (zygo.Sexp, error) {
	p, err := b.script.Pin(ir.Out(h, slot))
	if err != nil {
		return nil, err
	}
	return &sexpPin{ref: ir.Out(h, slot), typ: p.Type}, nil
}

// (constant "vec4<f32>" 1.0 0.5 0.5 1.0) or (constant 0.5)
func (b *graphBuilder) constant(args kwArgs) (zygo.Sexp, error) {
	pos := args.positional
	t := ir.TypeInvalid
	if len(pos) > 0 {
		if _, ok := pos[0].(*zygo.SexpStr); ok {
			var err error
			if t, err = toType(pos[0]); err != nil {
				return nil, err
			}
			pos = pos[1:]
		}
	}
	components := make([]float64, len(pos))
	for i, s := range pos {
		f, err := toFloat64(s)
		if err != nil {
			return nil, err
		}
		components[i] = f
	}
	if t == ir.TypeInvalid {
		t = ir.VectorOf(ir.ScalarFloat, len(components))
	}
	v, err := ir.NewValue(t, components...)
	if err != nil {
		return nil, err
	}
	h, err := b.script.AddConstant(v)
	if err != nil {
		return nil, err
	}
	return b.result(h, 0)
}

// binding reads the binding keywords shared by input and output.
func binding(kw map[string]zygo.Sexp) (ir.Binding, *ir.BuiltinInfo, error) {
	slot := func() (uint32, uint32, error) {
		var group, bind uint32
		var err error
		if v, ok := kw["group"]; ok {
			if group, err = toUint32(v); err != nil {
				return 0, 0, fmt.Errorf("group: %w", err)
			}
		}
		if v, ok := kw["binding"]; ok {
			if bind, err = toUint32(v); err != nil {
				return 0, 0, fmt.Errorf("binding: %w", err)
			}
		}
		return group, bind, nil
	}

	switch {
	case kw["location"] != nil:
		loc, err := toUint32(kw["location"])
		if err != nil {
			return nil, nil, fmt.Errorf("location: %w", err)
		}
		return ir.LocationBinding{Location: loc}, nil, nil
	case kw["builtin"] != nil:
		name, err := toString(kw["builtin"])
		if err != nil {
			return nil, nil, fmt.Errorf("builtin: %w", err)
		}
		bv, err := ir.ParseBuiltin(name)
		if err != nil {
			return nil, nil, err
		}
		info, _ := bv.Info()
		return ir.BuiltinBinding{Builtin: bv}, &info, nil
	case kw["block"] != nil:
		block, err := toString(kw["block"])
		if err != nil {
			return nil, nil, fmt.Errorf("block: %w", err)
		}
		group, bind, err := slot()
		if err != nil {
			return nil, nil, err
		}
		return ir.UniformBinding{Block: block, Group: group, Binding: bind}, nil, nil
	case kw["resource"] != nil:
		id, err := toString(kw["resource"])
		if err != nil {
			return nil, nil, fmt.Errorf("resource: %w", err)
		}
		group, bind, err := slot()
		if err != nil {
			return nil, nil, err
		}
		return ir.ResourceBinding{Resource: ir.ResourceID(id), Group: group, Binding: bind}, nil, nil
	}
	return nil, nil, nil
}

// (input "name" "type" :location 0)
func (b *graphBuilder) input(args kwArgs) (zygo.Sexp, error) {
	if len(args.positional) < 1 {
		return nil, fmt.Errorf("requires a name")
	}
	name, err := toString(args.positional[0])
	if err != nil {
		return nil, err
	}
	bind, info, err := binding(args.kw)
	if err != nil {
		return nil, err
	}
	t := ir.TypeInvalid
	if len(args.positional) > 1 {
		if t, err = toType(args.positional[1]); err != nil {
			return nil, err
		}
	} else if info != nil {
		t = info.Type
	}
	h, err := b.script.AddInput(name, t, bind)
	if err != nil {
		return nil, err
	}
	return b.result(h, 0)
}

// (output "name" "type" src :location 0) or (output "name" src ...)
func (b *graphBuilder) output(args kwArgs) (zygo.Sexp, error) {
	pos := args.positional
	if len(pos) < 2 {
		return nil, fmt.Errorf("requires a name and a source")
	}
	name, err := toString(pos[0])
	if err != nil {
		return nil, err
	}
	t := ir.TypeInvalid
	if _, ok := pos[1].(*zygo.SexpStr); ok && len(pos) > 2 {
		if t, err = toType(pos[1]); err != nil {
			return nil, err
		}
		pos = pos[1:]
	}
	src, err := b.pin(pos[1])
	if err != nil {
		return nil, err
	}
	if t == ir.TypeInvalid {
		t = src.typ
	}
	bind, _, err := binding(args.kw)
	if err != nil {
		return nil, err
	}
	h, err := b.script.AddOutput(name, t, bind)
	if err != nil {
		return nil, err
	}
	if err := b.connect(h, []*sexpPin{src}); err != nil {
		return nil, err
	}
	return zygo.SexpNull, nil
}

// (binop "mul" a b) with an optional :type overriding both operand types.
func (b *graphBuilder) binop(args kwArgs) (zygo.Sexp, error) {
	if len(args.positional) != 3 {
		return nil, fmt.Errorf("requires an operator and two operands, got %d arguments", len(args.positional))
	}
	name, err := toString(args.positional[0])
	if err != nil {
		return nil, err
	}
	op, err := ir.ParseOperator(name)
	if err != nil {
		return nil, err
	}
	left, err := b.pin(args.positional[1])
	if err != nil {
		return nil, err
	}
	right, err := b.pin(args.positional[2])
	if err != nil {
		return nil, err
	}
	lt, rt := left.typ, right.typ
	if v, ok := args.kw["type"]; ok {
		if lt, err = toType(v); err != nil {
			return nil, err
		}
		rt = lt
	}
	h, err := b.script.AddOperator(op, lt, rt)
	if err != nil {
		return nil, err
	}
	if err := b.connect(h, []*sexpPin{left, right}); err != nil {
		return nil, err
	}
	return b.result(h, 0)
}

// (math "normalize" v) with an optional :operand selecting the overload.
func (b *graphBuilder) math(args kwArgs) (zygo.Sexp, error) {
	if len(args.positional) < 1 {
		return nil, fmt.Errorf("requires a function name")
	}
	name, err := toString(args.positional[0])
	if err != nil {
		return nil, err
	}
	fn, err := ir.ParseFunction(name)
	if err != nil {
		return nil, err
	}
	sources := make([]*sexpPin, 0, len(args.positional)-1)
	types := make([]ir.ValueType, 0, len(args.positional)-1)
	for _, s := range args.positional[1:] {
		p, err := b.pin(s)
		if err != nil {
			return nil, err
		}
		sources = append(sources, p)
		types = append(types, p.typ)
	}
	operand := ir.InferOperand(fn, types)
	if v, ok := args.kw["operand"]; ok {
		if operand, err = toType(v); err != nil {
			return nil, err
		}
	}
	h, err := b.script.AddFunction(fn, operand)
	if err != nil {
		return nil, err
	}
	if err := b.connect(h, sources); err != nil {
		return nil, err
	}
	return b.result(h, 0)
}

// (split v "y") or (split v 1). Splits of one source share a node.
func (b *graphBuilder) split(args kwArgs) (zygo.Sexp, error) {
	if len(args.positional) != 2 {
		return nil, fmt.Errorf("requires a vector and a component")
	}
	src, err := b.pin(args.positional[0])
	if err != nil {
		return nil, err
	}
	if b.splits == nil {
		b.splits = make(map[ir.PinRef]ir.NodeHandle)
	}
	h, ok := b.splits[src.ref]
	if !ok {
		if h, err = b.script.AddFunction(ir.FuncSplit, src.typ); err != nil {
			return nil, err
		}
		if err := b.connect(h, []*sexpPin{src}); err != nil {
			return nil, err
		}
		b.splits[src.ref] = h
	}

	node, err := b.script.Node(h)
	if err != nil {
		return nil, err
	}
	slot := -1
	switch c := args.positional[1].(type) {
	case *zygo.SexpInt:
		slot = int(c.Val)
	case *zygo.SexpStr:
		for i, p := range node.Outputs {
			if p.Name == c.S {
				slot = i
			}
		}
	}
	if slot < 0 || slot >= len(node.Outputs) {
		return nil, fmt.Errorf("%s has no component %s", src.typ, args.positional[1].SexpString(nil))
	}
	return b.result(h, slot)
}

// (label node "name")
func (b *graphBuilder) label(args kwArgs) (zygo.Sexp, error) {
	if len(args.positional) != 2 {
		return nil, fmt.Errorf("requires a node and a name")
	}
	p, ok := args.positional[0].(*sexpPin)
	if !ok {
		return nil, fmt.Errorf("expected node, got %s", args.positional[0].SexpString(nil))
	}
	name, err := toString(args.positional[1])
	if err != nil {
		return nil, err
	}
	if err := b.script.SetLabel(p.ref.Node, name); err != nil {
		return nil, err
	}
	return p, nil
}
