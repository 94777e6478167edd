package ir

import "fmt"

// NodeCategory is the top-level family of a node.
type NodeCategory uint8

const (
	CategoryVariable NodeCategory = iota
	CategoryOperator
	CategoryFunction
)

// String returns the category name.
func (c NodeCategory) String() string {
	switch c {
	case CategoryVariable:
		return "variable"
	case CategoryOperator:
		return "operator"
	case CategoryFunction:
		return "function"
	}
	return fmt.Sprintf("NodeCategory(%d)", uint8(c))
}

// NodeKind is the closed set of node variants. The compiler switches over
// every variant exhaustively.
type NodeKind interface {
	nodeKind()
	Category() NodeCategory
}

// Constant is a node with one output carrying an immutable literal.
type Constant struct {
	Value Value
}

func (Constant) nodeKind() {}

// Category implements NodeKind.
func (Constant) Category() NodeCategory { return CategoryVariable }

// InputVariable produces a shader-stage input, uniform or resource.
type InputVariable struct {
	Name    string
	Type    ValueType
	Binding Binding
}

func (InputVariable) nodeKind() {}

// Category implements NodeKind.
func (InputVariable) Category() NodeCategory { return CategoryVariable }

// OutputVariable consumes a value destined for a shader-stage output.
type OutputVariable struct {
	Name    string
	Type    ValueType
	Binding Binding
}

func (OutputVariable) nodeKind() {}

// Category implements NodeKind.
func (OutputVariable) Category() NodeCategory { return CategoryVariable }

// Operator is a binary operator with declared operand types.
type Operator struct {
	Op    OperatorType
	Left  ValueType
	Right ValueType
}

func (Operator) nodeKind() {}

// Category implements NodeKind.
func (Operator) Category() NodeCategory { return CategoryOperator }

// Function is a built-in function call. Operand selects the overload of a
// generic function and is ignored (must be zero or the fixed type) for
// non-generic ones.
type Function struct {
	Fun     FunctionType
	Operand ValueType
}

func (Function) nodeKind() {}

// Category implements NodeKind.
func (Function) Category() NodeCategory { return CategoryFunction }

// OperatorType represents binary operators.
type OperatorType uint8

const (
	OpAdd OperatorType = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEqual
	OpNotEqual
	OpLess
	OpLessEqual
	OpGreater
	OpGreaterEqual
	OpAnd
	OpOr

	opCount
)

var operatorNames = [opCount]string{
	OpAdd: "add", OpSub: "sub", OpMul: "mul", OpDiv: "div", OpMod: "mod",
	OpEqual: "eq", OpNotEqual: "ne", OpLess: "lt", OpLessEqual: "le",
	OpGreater: "gt", OpGreaterEqual: "ge", OpAnd: "and", OpOr: "or",
}

// String returns the operator mnemonic.
func (op OperatorType) String() string {
	if op < opCount {
		return operatorNames[op]
	}
	return fmt.Sprintf("OperatorType(%d)", uint8(op))
}

// Symbol returns the C-family infix symbol.
func (op OperatorType) Symbol() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpMod:
		return "%"
	case OpEqual:
		return "=="
	case OpNotEqual:
		return "!="
	case OpLess:
		return "<"
	case OpLessEqual:
		return "<="
	case OpGreater:
		return ">"
	case OpGreaterEqual:
		return ">="
	case OpAnd:
		return "&&"
	case OpOr:
		return "||"
	}
	return "?"
}

// IsArithmetic reports add/sub/mul/div/mod.
func (op OperatorType) IsArithmetic() bool { return op <= OpMod }

// IsComparison reports eq/ne/lt/le/gt/ge.
func (op OperatorType) IsComparison() bool { return op >= OpEqual && op <= OpGreaterEqual }

// IsLogical reports and/or.
func (op OperatorType) IsLogical() bool { return op == OpAnd || op == OpOr }

// ParseOperator parses an operator mnemonic or symbol.
func ParseOperator(s string) (OperatorType, error) {
	for op := OpAdd; op < opCount; op++ {
		if operatorNames[op] == s || op.Symbol() == s {
			return op, nil
		}
	}
	return 0, fmt.Errorf("unknown operator %q", s)
}

// FunctionType represents built-in functions.
type FunctionType uint8

const (
	FuncMin FunctionType = iota
	FuncMax
	FuncClamp
	FuncAbs
	FuncFloor
	FuncCeil
	FuncFract
	FuncSqrt
	FuncInverseSqrt
	FuncSin
	FuncCos
	FuncTan
	FuncExp
	FuncLog
	FuncSaturate
	FuncPow
	FuncStep
	FuncMix
	FuncSmoothStep
	FuncDot
	FuncLength
	FuncDistance
	FuncNormalize
	FuncReflect
	FuncCross
	FuncTransform
	FuncSample
	FuncCompose
	FuncSplit
	FuncExtend

	funcCount
)

var functionNames = [funcCount]string{
	FuncMin: "min", FuncMax: "max", FuncClamp: "clamp", FuncAbs: "abs",
	FuncFloor: "floor", FuncCeil: "ceil", FuncFract: "fract", FuncSqrt: "sqrt",
	FuncInverseSqrt: "inverse_sqrt", FuncSin: "sin", FuncCos: "cos", FuncTan: "tan",
	FuncExp: "exp", FuncLog: "log", FuncSaturate: "saturate", FuncPow: "pow",
	FuncStep: "step", FuncMix: "mix", FuncSmoothStep: "smoothstep", FuncDot: "dot",
	FuncLength: "length", FuncDistance: "distance", FuncNormalize: "normalize",
	FuncReflect: "reflect", FuncCross: "cross", FuncTransform: "transform",
	FuncSample: "sample", FuncCompose: "compose", FuncSplit: "split", FuncExtend: "extend",
}

// String returns the function name.
func (f FunctionType) String() string {
	if f < funcCount {
		return functionNames[f]
	}
	return fmt.Sprintf("FunctionType(%d)", uint8(f))
}

// ParseFunction parses a function name.
func ParseFunction(s string) (FunctionType, error) {
	for f := FuncMin; f < funcCount; f++ {
		if functionNames[f] == s {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown function %q", s)
}
