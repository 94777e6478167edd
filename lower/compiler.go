package lower

import (
	"slices"
	"strings"
	"time"

	"github.com/go-logr/logr"

	"github.com/gogpu/shadergraph/ir"
)

// Compiler lowers scripts into programs. It holds no per-compile state
// and is safe for concurrent use.
type Compiler struct {
	log     logr.Logger
	metrics *Metrics
	fold    bool
	prune   bool
	stage   *ir.ShaderStage
}

// NewCompiler creates a compiler.
func NewCompiler(opts ...Option) *Compiler {
	c := &Compiler{log: logr.Discard()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile validates script and lowers it through dialect. It never emits
// a partial program: on error the returned program is nil.
func (c *Compiler) Compile(script *ir.Script, dialect Dialect) (prog *Program, err error) {
	start := time.Now()
	defer func() {
		c.metrics.ObserveCompile(time.Since(start).Seconds(), err)
		if ir.IsKind(err, ir.KindInternalInvariantViolation) {
			c.log.Error(err, "internal invariant violated while lowering", "target", dialect.Name())
		}
	}()

	if err := script.Validate(); err != nil {
		return nil, err
	}
	order, err := topoOrder(script)
	if err != nil {
		return nil, err
	}

	cc := &compilation{
		Compiler: c,
		script:   script,
		dialect:  dialect,
		names:    newNamer(dialect.IsReserved),
		nodes:    make(map[ir.NodeHandle]ir.Node, len(order)),
		refs:     make(map[ir.PinRef]operand),
		vars:     make(map[ir.NodeHandle]Variable),
		kinds:    make(map[ir.NodeCategory]int),
		prog:     &Program{},
	}
	if err := cc.resolve(order); err != nil {
		return nil, err
	}
	if c.prune {
		live := liveSet(script)
		order = slices.DeleteFunc(order, func(h ir.NodeHandle) bool { return !live[h] })
	}
	if err := cc.resolveStage(order); err != nil {
		return nil, err
	}
	cc.declare(order)
	for _, h := range order {
		if err := cc.emitNode(cc.nodes[h]); err != nil {
			return nil, err
		}
	}

	c.metrics.countStatements(cc.kinds)
	c.log.V(1).Info("lowered script",
		"target", dialect.Name(),
		"stage", cc.prog.Stage.String(),
		"nodes", len(order),
		"statements", len(cc.prog.Statements),
		"stores", len(cc.prog.Stores))
	return cc.prog, nil
}

// operand is an emitted value threaded into later input pins.
type operand struct {
	expr  string
	typ   ir.ValueType
	value *ir.Value
}

type compilation struct {
	*Compiler
	script  *ir.Script
	dialect Dialect
	names   *namer
	nodes   map[ir.NodeHandle]ir.Node
	refs    map[ir.PinRef]operand
	vars    map[ir.NodeHandle]Variable
	kinds   map[ir.NodeCategory]int
	prog    *Program
}

// resolve loads every node and checks its stored pin layout against the
// layout its kind declares.
func (cc *compilation) resolve(order []ir.NodeHandle) error {
	for _, h := range order {
		n, err := cc.script.Node(h)
		if err != nil {
			return ir.NodeError(ir.KindInternalInvariantViolation, h, "ordered node does not resolve: %v", err)
		}
		inputs, outputs, err := ir.Signature(n.Kind)
		if err != nil {
			return ir.NodeError(ir.KindInternalInvariantViolation, h, "stored kind no longer resolves: %v", err)
		}
		if !sameLayout(inputs, n.Inputs) || !sameLayout(outputs, n.Outputs) {
			return ir.NodeError(ir.KindInternalInvariantViolation, h, "stored pin layout differs from its signature")
		}
		cc.nodes[h] = n
	}
	return nil
}

func sameLayout(want, got []ir.Pin) bool {
	if len(want) != len(got) {
		return false
	}
	for i := range want {
		if want[i].Type != got[i].Type || want[i].Direction != got[i].Direction {
			return false
		}
	}
	return true
}

// resolveStage fixes the program stage and checks every built-in against it.
func (cc *compilation) resolveStage(order []ir.NodeHandle) error {
	var (
		stage    ir.ShaderStage = ir.StageFragment
		decided  bool
		decision ir.NodeHandle
	)
	if cc.stage != nil {
		stage, decided = *cc.stage, true
	}
	for _, h := range order {
		b, ok := variableBinding(cc.nodes[h].Kind).(ir.BuiltinBinding)
		if !ok {
			continue
		}
		info, _ := b.Builtin.Info()
		switch {
		case !decided:
			stage, decided, decision = info.Stage, true, h
		case info.Stage != stage:
			if cc.stage == nil {
				return ir.NodeError(ir.KindInvalidBinding, h,
					"builtin %s belongs to the %s stage but %s selected %s", b.Builtin, info.Stage, decision, stage)
			}
			return ir.NodeError(ir.KindInvalidBinding, h,
				"builtin %s is not available in the %s stage", b.Builtin, stage)
		}
	}
	cc.prog.Stage = stage
	return nil
}

func variableBinding(kind ir.NodeKind) ir.Binding {
	switch k := kind.(type) {
	case ir.InputVariable:
		return k.Binding
	case ir.OutputVariable:
		return k.Binding
	}
	return nil
}

// declare names every variable, assigns free locations to unbound stage
// variables and builds the program interface.
func (cc *compilation) declare(order []ir.NodeHandle) {
	handles := slices.Clone(order)
	slices.Sort(handles)

	usedIn := make(map[uint32]bool)
	usedOut := make(map[uint32]bool)
	for _, h := range handles {
		switch k := cc.nodes[h].Kind.(type) {
		case ir.InputVariable:
			if b, ok := k.Binding.(ir.LocationBinding); ok {
				usedIn[b.Location] = true
			}
		case ir.OutputVariable:
			if b, ok := k.Binding.(ir.LocationBinding); ok {
				usedOut[b.Location] = true
			}
		}
	}
	nextFree := func(used map[uint32]bool) ir.Binding {
		var loc uint32
		for used[loc] {
			loc++
		}
		used[loc] = true
		return ir.LocationBinding{Location: loc}
	}

	blocks := make(map[string]*UniformBlock)
	for _, h := range handles {
		var v Variable
		switch k := cc.nodes[h].Kind.(type) {
		case ir.InputVariable:
			v = Variable{Declared: k.Name, Node: h, Type: k.Type, Binding: k.Binding}
			if v.Binding == nil {
				v.Binding = nextFree(usedIn)
			}
		case ir.OutputVariable:
			v = Variable{Declared: k.Name, Node: h, Type: k.Type, Binding: k.Binding}
			if v.Binding == nil {
				v.Binding = nextFree(usedOut)
			}
		default:
			continue
		}
		v.Name = cc.names.call(v.Declared)
		cc.vars[h] = v
	}

	for _, h := range handles {
		v, ok := cc.vars[h]
		if !ok {
			continue
		}
		switch b := v.Binding.(type) {
		case ir.UniformBinding:
			blk, ok := blocks[b.Block]
			if !ok {
				blk = &UniformBlock{
					Name:     cc.names.call(b.Block),
					Instance: cc.names.call(instanceName(b.Block)),
					Group:    b.Group,
					Binding:  b.Binding,
				}
				blocks[b.Block] = blk
			}
			v.Block = blk.Instance
			blk.Members = append(blk.Members, v)
		case ir.ResourceBinding:
			v.Sampler = cc.names.call(v.Name + "_sampler")
			cc.prog.Resources = append(cc.prog.Resources, v)
		default:
			if _, ok := cc.nodes[h].Kind.(ir.OutputVariable); ok {
				cc.prog.Outputs = append(cc.prog.Outputs, v)
			} else {
				cc.prog.Inputs = append(cc.prog.Inputs, v)
			}
		}
		cc.vars[h] = v
	}

	for _, blk := range blocks {
		cc.prog.Uniforms = append(cc.prog.Uniforms, *blk)
	}
	slices.SortFunc(cc.prog.Uniforms, func(a, b UniformBlock) int {
		return compareSlots(a.Group, a.Binding, b.Group, b.Binding)
	})
	slices.SortFunc(cc.prog.Resources, func(a, b Variable) int {
		ra, rb := a.Binding.(ir.ResourceBinding), b.Binding.(ir.ResourceBinding)
		return compareSlots(ra.Group, ra.Binding, rb.Group, rb.Binding)
	})
	slices.SortStableFunc(cc.prog.Inputs, compareStage)
	slices.SortStableFunc(cc.prog.Outputs, compareStage)
}

func instanceName(block string) string {
	if block == "" {
		return block
	}
	return strings.ToLower(block[:1]) + block[1:]
}

func compareSlots(ga, ba, gb, bb uint32) int {
	switch {
	case ga != gb:
		return cmpUint(ga, gb)
	default:
		return cmpUint(ba, bb)
	}
}

func cmpUint(a, b uint32) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// compareStage orders location bindings before built-ins.
func compareStage(a, b Variable) int {
	la, aLoc := a.Location()
	lb, bLoc := b.Location()
	switch {
	case aLoc && bLoc:
		return cmpUint(la, lb)
	case aLoc:
		return -1
	case bLoc:
		return 1
	}
	ba, _ := a.Builtin()
	bb, _ := b.Builtin()
	return cmpUint(uint32(ba), uint32(bb))
}
