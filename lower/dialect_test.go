package lower

import (
	"strings"

	"github.com/gogpu/shadergraph/ir"
)

// exprDialect renders a neutral expression syntax for tests.
type exprDialect struct{}

func (exprDialect) Name() string { return "expr" }

func (exprDialect) TypeName(t ir.ValueType) string { return t.String() }

func (exprDialect) Literal(v ir.Value) string { return v.String() }

func (exprDialect) Binary(op ir.OperatorType, _ ir.ValueType, left, right string) string {
	return "(" + left + " " + op.Symbol() + " " + right + ")"
}

func (exprDialect) Call(fn ir.FunctionType, _ ir.ValueType, args []string) string {
	return fn.String() + "(" + strings.Join(args, ", ") + ")"
}

func (exprDialect) Cast(_, to ir.ValueType, expr string) string {
	return to.String() + "(" + expr + ")"
}

func (exprDialect) Component(expr string, index int) string {
	return expr + "." + componentSuffix[index]
}

func (exprDialect) Construct(t ir.ValueType, args []string) string {
	return t.String() + "(" + strings.Join(args, ", ") + ")"
}

func (exprDialect) Sample(tex Variable, uv string, stage ir.ShaderStage) string {
	return "sample_" + stage.String() + "(" + tex.Name + ", " + tex.Sampler + ", " + uv + ")"
}

func (exprDialect) InputRef(v Variable) string {
	if v.Block != "" {
		return v.Block + "." + v.Name
	}
	return "in." + v.Name
}

func (exprDialect) IsReserved(name string) bool {
	return name == "in" || name == "out"
}
