package lower

import (
	"math"

	"github.com/gogpu/shadergraph/ir"
)

// Constant evaluation. Every function here returns ok=false when the result
// is not representable, such as a division by an integer zero or a float
// result that is not finite; the caller then keeps the runtime expression.

// finish rounds raw components to the precision of t and validates them.
func finish(t ir.ValueType, data []float64) (ir.Value, bool) {
	for i, c := range data {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return ir.Value{}, false
		}
		switch t.Kind() {
		case ir.ScalarSint, ir.ScalarUint:
			if math.Abs(c) > 1<<53 {
				return ir.Value{}, false
			}
		}
		switch t.Kind() {
		case ir.ScalarFloat:
			data[i] = float64(float32(c))
		case ir.ScalarSint:
			data[i] = float64(int32(int64(c)))
		case ir.ScalarUint:
			data[i] = float64(uint32(int64(c)))
		}
	}
	v := ir.Value{Type: t, Data: data}
	if v.Validate() != nil {
		return ir.Value{}, false
	}
	return v, true
}

func zipWith(a, b ir.Value, f func(x, y float64) float64) []float64 {
	out := make([]float64, len(a.Data))
	for i := range out {
		out[i] = f(a.Data[i], b.Data[i])
	}
	return out
}

func mapEach(a ir.Value, f func(x float64) float64) []float64 {
	out := make([]float64, len(a.Data))
	for i, x := range a.Data {
		out[i] = f(x)
	}
	return out
}

// evalOperator folds a binary operator. Both operands already have the
// common operand type.
func evalOperator(op ir.OperatorType, operand ir.ValueType, l, r ir.Value) (ir.Value, bool) {
	switch {
	case op.IsComparison():
		a, b := l.Data[0], r.Data[0]
		var res bool
		switch op {
		case ir.OpEqual:
			res = a == b
		case ir.OpNotEqual:
			res = a != b
		case ir.OpLess:
			res = a < b
		case ir.OpLessEqual:
			res = a <= b
		case ir.OpGreater:
			res = a > b
		case ir.OpGreaterEqual:
			res = a >= b
		}
		return ir.BoolValue(res), true

	case op.IsLogical():
		a, b := l.Bool(0), r.Bool(0)
		if op == ir.OpAnd {
			return ir.BoolValue(a && b), true
		}
		return ir.BoolValue(a || b), true
	}

	if operand.IsMatrix() && op == ir.OpMul {
		return finish(operand, matMul(operand.Size(), l.Data, r.Data))
	}

	integer := operand.Kind() == ir.ScalarSint || operand.Kind() == ir.ScalarUint
	if integer && (op == ir.OpDiv || op == ir.OpMod) {
		for _, d := range r.Data {
			if d == 0 {
				return ir.Value{}, false
			}
		}
	}

	if integer {
		var f func(x, y int64) int64
		switch op {
		case ir.OpAdd:
			f = func(x, y int64) int64 { return x + y }
		case ir.OpSub:
			f = func(x, y int64) int64 { return x - y }
		case ir.OpMul:
			f = func(x, y int64) int64 { return x * y }
		case ir.OpDiv:
			f = func(x, y int64) int64 { return x / y }
		case ir.OpMod:
			f = func(x, y int64) int64 { return x % y }
		default:
			return ir.Value{}, false
		}
		wrap := func(x int64) int64 { return int64(int32(x)) }
		if operand.Kind() == ir.ScalarUint {
			wrap = func(x int64) int64 { return int64(uint32(x)) }
		}
		return finish(operand, zipWith(l, r, func(x, y float64) float64 {
			return float64(wrap(f(int64(x), int64(y))))
		}))
	}

	var f func(x, y float64) float64
	switch op {
	case ir.OpAdd:
		f = func(x, y float64) float64 { return x + y }
	case ir.OpSub:
		f = func(x, y float64) float64 { return x - y }
	case ir.OpMul:
		f = func(x, y float64) float64 { return x * y }
	case ir.OpDiv:
		f = func(x, y float64) float64 { return x / y }
	case ir.OpMod:
		f = math.Mod
	default:
		return ir.Value{}, false
	}
	return finish(operand, zipWith(l, r, f))
}

// matMul multiplies two column-major n×n matrices.
func matMul(n int, a, b []float64) []float64 {
	out := make([]float64, n*n)
	for col := 0; col < n; col++ {
		for row := 0; row < n; row++ {
			var sum float64
			for k := 0; k < n; k++ {
				sum += a[k*n+row] * b[col*n+k]
			}
			out[col*n+row] = sum
		}
	}
	return out
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

func clamp(x, lo, hi float64) float64 { return math.Min(math.Max(x, lo), hi) }

var unaryFuncs = map[ir.FunctionType]func(float64) float64{
	ir.FuncAbs:         math.Abs,
	ir.FuncFloor:       math.Floor,
	ir.FuncCeil:        math.Ceil,
	ir.FuncFract:       func(x float64) float64 { return x - math.Floor(x) },
	ir.FuncSqrt:        math.Sqrt,
	ir.FuncInverseSqrt: func(x float64) float64 { return 1 / math.Sqrt(x) },
	ir.FuncSin:         math.Sin,
	ir.FuncCos:         math.Cos,
	ir.FuncTan:         math.Tan,
	ir.FuncExp:         math.Exp,
	ir.FuncLog:         math.Log,
	ir.FuncSaturate:    func(x float64) float64 { return clamp(x, 0, 1) },
}

var binaryFuncs = map[ir.FunctionType]func(float64, float64) float64{
	ir.FuncMin: math.Min,
	ir.FuncMax: math.Max,
	ir.FuncPow: math.Pow,
	ir.FuncStep: func(edge, x float64) float64 {
		if x < edge {
			return 0
		}
		return 1
	},
}

// evalFunction folds a built-in function call. args already have the slot
// types of the function's signature. It returns one value per output pin.
func evalFunction(fn ir.FunctionType, operand ir.ValueType, args []ir.Value) ([]ir.Value, bool) {
	one := func(v ir.Value, ok bool) ([]ir.Value, bool) {
		if !ok {
			return nil, false
		}
		return []ir.Value{v}, true
	}

	if f, ok := unaryFuncs[fn]; ok {
		return one(finish(operand, mapEach(args[0], f)))
	}
	if f, ok := binaryFuncs[fn]; ok {
		return one(finish(operand, zipWith(args[0], args[1], f)))
	}

	switch fn {
	case ir.FuncClamp:
		out := make([]float64, len(args[0].Data))
		for i := range out {
			out[i] = clamp(args[0].Data[i], args[1].Data[i], args[2].Data[i])
		}
		return one(finish(operand, out))

	case ir.FuncMix:
		out := make([]float64, len(args[0].Data))
		for i := range out {
			a, b, t := args[0].Data[i], args[1].Data[i], args[2].Data[i]
			out[i] = a*(1-t) + b*t
		}
		return one(finish(operand, out))

	case ir.FuncSmoothStep:
		out := make([]float64, len(args[0].Data))
		for i := range out {
			e0, e1, x := args[0].Data[i], args[1].Data[i], args[2].Data[i]
			t := clamp((x-e0)/(e1-e0), 0, 1)
			out[i] = t * t * (3 - 2*t)
		}
		return one(finish(operand, out))

	case ir.FuncDot:
		return one(finish(ir.Float32, []float64{dot(args[0].Data, args[1].Data)}))

	case ir.FuncLength:
		return one(finish(ir.Float32, []float64{math.Sqrt(dot(args[0].Data, args[0].Data))}))

	case ir.FuncDistance:
		d := zipWith(args[0], args[1], func(x, y float64) float64 { return x - y })
		return one(finish(ir.Float32, []float64{math.Sqrt(dot(d, d))}))

	case ir.FuncNormalize:
		l := math.Sqrt(dot(args[0].Data, args[0].Data))
		return one(finish(operand, mapEach(args[0], func(x float64) float64 { return x / l })))

	case ir.FuncReflect:
		i, n := args[0].Data, args[1].Data
		d := 2 * dot(n, i)
		out := make([]float64, len(i))
		for k := range out {
			out[k] = i[k] - d*n[k]
		}
		return one(finish(operand, out))

	case ir.FuncCross:
		a, b := args[0].Data, args[1].Data
		return one(finish(ir.Vector3f32, []float64{
			a[1]*b[2] - a[2]*b[1],
			a[2]*b[0] - a[0]*b[2],
			a[0]*b[1] - a[1]*b[0],
		}))

	case ir.FuncTransform:
		n := operand.Size()
		m, v := args[0].Data, args[1].Data
		out := make([]float64, n)
		for row := 0; row < n; row++ {
			for col := 0; col < n; col++ {
				out[row] += m[col*n+row] * v[col]
			}
		}
		return one(finish(ir.VectorOf(ir.ScalarFloat, n), out))

	case ir.FuncCompose:
		out := make([]float64, len(args))
		for i, a := range args {
			out[i] = a.Data[0]
		}
		return one(finish(operand, out))

	case ir.FuncSplit:
		outs := make([]ir.Value, len(args[0].Data))
		for i, c := range args[0].Data {
			outs[i] = ir.Float(c)
		}
		return outs, true

	case ir.FuncExtend:
		out := append(append([]float64(nil), args[0].Data...), args[1].Data[0])
		return one(finish(ir.VectorOf(ir.ScalarFloat, len(out)), out))
	}

	// Sample reads external state.
	return nil, false
}
