package lower

import "github.com/gogpu/shadergraph/ir"

// Dialect renders expressions in a target shading language. Implementations
// must be pure: the same arguments always produce the same text.
type Dialect interface {
	// Name returns the target name, such as "glsl".
	Name() string

	// TypeName returns the spelling of t.
	TypeName(t ir.ValueType) string

	// Literal returns a literal of v's type.
	Literal(v ir.Value) string

	// Binary returns left op right. operand is the common operand type.
	Binary(op ir.OperatorType, operand ir.ValueType, left, right string) string

	// Call returns a built-in function call. operand is the function's
	// resolved overload. Compose, Split, Extend and Sample are never
	// passed to Call.
	Call(fn ir.FunctionType, operand ir.ValueType, args []string) string

	// Cast converts expr from one type to another.
	Cast(from, to ir.ValueType, expr string) string

	// Component returns component index of a vector expression.
	Component(expr string, index int) string

	// Construct builds a value of type t from component expressions.
	Construct(t ir.ValueType, args []string) string

	// Sample reads texture at uv in the given stage.
	Sample(texture Variable, uv string, stage ir.ShaderStage) string

	// InputRef returns the expression that reads an input variable.
	InputRef(v Variable) string

	// IsReserved reports whether name cannot be used as an identifier.
	IsReserved(name string) bool
}
