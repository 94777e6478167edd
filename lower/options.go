package lower

import (
	"github.com/go-logr/logr"

	"github.com/gogpu/shadergraph/ir"
)

// Option configures a Compiler.
type Option func(*Compiler)

// WithLogger sets the logger. Debug output is written at V(1).
func WithLogger(log logr.Logger) Option {
	return func(c *Compiler) { c.log = log }
}

// WithMetrics records compile durations and statement counts.
func WithMetrics(m *Metrics) Option {
	return func(c *Compiler) { c.metrics = m }
}

// WithConstantFolding replaces the expression of every statement whose
// value is known at compile time with a literal.
func WithConstantFolding(enabled bool) Option {
	return func(c *Compiler) { c.fold = enabled }
}

// WithDeadNodeElimination skips nodes that do not feed any output variable.
func WithDeadNodeElimination(enabled bool) Option {
	return func(c *Compiler) { c.prune = enabled }
}

// WithStage fixes the shader stage. Without it the stage is inferred from
// built-in bindings and defaults to fragment.
func WithStage(stage ir.ShaderStage) Option {
	return func(c *Compiler) { c.stage = &stage }
}
