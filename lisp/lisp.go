// Package lisp builds shader graphs from Lisp source.
// It wraps zygomys in a sandboxed environment with builtins that add nodes
// to an ir.Script:
//
//	(def uv (input "v_uv" "vec2<f32>" :location 0))
//	(def tex (input "albedo" "texture2d" :resource "albedo" :group 0 :binding 1))
//	(def c (binop "mul" (math "sample" tex uv) (constant "vec4<f32>" 1.0 0.5 0.5 1.0)))
//	(output "color" "vec4<f32>" c :location 0)
package lisp

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-logr/logr"
	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/gogpu/shadergraph/ir"
)

// DefaultTimeout is the hard limit for a single evaluation.
const DefaultTimeout = 5 * time.Second

// ErrTimeout is returned when an evaluation exceeds its time limit.
var ErrTimeout = errors.New("evaluation timed out")

// EvalError is an error raised by the source, such as a parse error or a
// failing builtin. Graph errors keep their ir kind through Err.
type EvalError struct {
	Line    int
	Message string
	Err     error
}

func (e *EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Unwrap returns the graph error that failed the evaluation, if any.
func (e *EvalError) Unwrap() error { return e.Err }

// Evaluator runs Lisp programs. It is safe for concurrent use; each call
// to Evaluate creates a fresh sandboxed environment for determinism.
type Evaluator struct {
	timeout time.Duration
	log     logr.Logger
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithTimeout sets the evaluation time limit.
func WithTimeout(d time.Duration) Option {
	return func(e *Evaluator) { e.timeout = d }
}

// WithLogger sets the logger.
func WithLogger(log logr.Logger) Option {
	return func(e *Evaluator) { e.log = log }
}

// New creates an Evaluator.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{timeout: DefaultTimeout, log: logr.Discard()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type evalResult struct {
	script *ir.Script
	err    error
}

// Evaluate runs source and returns the script it built.
//
// The evaluation runs in its own goroutine. On timeout or cancellation it
// is abandoned: zygomys cannot be interrupted, and its result is dropped
// when it eventually completes.
func (e *Evaluator) Evaluate(ctx context.Context, source string) (*ir.Script, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ch := make(chan evalResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()
		script, err := e.evaluate(source)
		ch <- evalResult{script: script, err: err}
	}()

	timer := time.NewTimer(e.timeout)
	defer timer.Stop()

	start := time.Now()
	select {
	case res := <-ch:
		e.log.V(1).Info("evaluated lisp source", "bytes", len(source), "duration", time.Since(start), "ok", res.err == nil)
		return res.script, res.err
	case <-timer.C:
		e.log.Error(ErrTimeout, "abandoning lisp evaluation", "timeout", e.timeout)
		return nil, fmt.Errorf("%w after %s", ErrTimeout, e.timeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Evaluator) evaluate(source string) (*ir.Script, error) {
	script := ir.NewScript()
	if strings.TrimSpace(source) == "" {
		return script, nil
	}

	// Sandbox mode prevents user code from accessing the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	b := &graphBuilder{script: script}
	b.register(env)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, b.evalError(err)
	}
	if _, err := env.Run(); err != nil {
		return nil, b.evalError(err)
	}
	return script, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// evalError converts a zygomys error, keeping the graph error raised by
// the last failing builtin.
func (b *graphBuilder) evalError(err error) *EvalError {
	msg := strings.TrimSpace(err.Error())
	e := &EvalError{Message: msg, Err: b.failure}
	if m := linePattern.FindStringSubmatch(msg); m != nil {
		e.Line, _ = strconv.Atoi(m[1])
		e.Message = strings.TrimSpace(m[2])
	}
	return e
}
