package ir

import "fmt"

// Validate checks that the script is complete enough to compile. It returns
// the first violation found, in this order: unbound inputs (ascending handle
// and slot), a missing output variable, then conflicting bindings.
func (s *Script) Validate() error {
	v := validator{script: s, first: true}
	v.run()
	if len(v.errors) == 0 {
		return nil
	}
	return v.errors[0]
}

// Diagnose returns every violation Validate would report, in the same
// order. It returns nil for a valid script.
func (s *Script) Diagnose() []error {
	v := validator{script: s}
	v.run()
	return v.errors
}

type validator struct {
	script *Script
	first  bool
	errors []error
}

func (v *validator) report(err *Error) bool {
	v.errors = append(v.errors, err)
	return v.first
}

func (v *validator) run() {
	if v.checkBound() {
		return
	}
	if v.checkOutputs() {
		return
	}
	v.checkBindings()
}

func (v *validator) checkBound() bool {
	for _, n := range v.script.nodes {
		if n == nil {
			continue
		}
		for slot, p := range n.Inputs {
			ref := In(n.Handle, slot)
			if _, ok := v.script.incoming[ref]; ok || p.Default != nil {
				continue
			}
			if v.report(PinError(KindUnboundInput, ref, "input %q has no edge and no default", p.Name)) {
				return true
			}
		}
	}
	return false
}

func (v *validator) checkOutputs() bool {
	for _, n := range v.script.nodes {
		if n == nil {
			continue
		}
		if _, ok := n.Kind.(OutputVariable); ok {
			return false
		}
	}
	return v.report(NewError(KindMissingOutput, "script has no output variable"))
}

type bindingSlot struct {
	group, binding uint32
}

func (v *validator) checkBindings() {
	names := make(map[string]NodeHandle)
	inLocations := make(map[uint32]NodeHandle)
	outLocations := make(map[uint32]NodeHandle)
	builtins := make(map[BuiltinValue]NodeHandle)
	blocks := make(map[string]bindingSlot)
	slots := make(map[bindingSlot]string)

	claim := func(slot bindingSlot, owner string, h NodeHandle) bool {
		if prev, ok := slots[slot]; ok && prev != owner {
			return v.report(NodeError(KindInvalidBinding, h,
				"group %d binding %d already used by %s", slot.group, slot.binding, prev))
		}
		slots[slot] = owner
		return false
	}

	for _, n := range v.script.nodes {
		if n == nil {
			continue
		}
		var (
			name    string
			binding Binding
			output  bool
		)
		switch k := n.Kind.(type) {
		case InputVariable:
			name, binding = k.Name, k.Binding
		case OutputVariable:
			name, binding, output = k.Name, k.Binding, true
		default:
			continue
		}

		if prev, ok := names[name]; ok {
			if v.report(NodeError(KindInvalidBinding, n.Handle, "variable name %q already used by %s", name, prev)) {
				return
			}
		} else {
			names[name] = n.Handle
		}

		switch b := binding.(type) {
		case LocationBinding:
			locations := inLocations
			if output {
				locations = outLocations
			}
			if prev, ok := locations[b.Location]; ok {
				if v.report(NodeError(KindInvalidBinding, n.Handle, "location %d already used by %s", b.Location, prev)) {
					return
				}
				continue
			}
			locations[b.Location] = n.Handle
		case BuiltinBinding:
			if prev, ok := builtins[b.Builtin]; ok {
				if v.report(NodeError(KindInvalidBinding, n.Handle, "builtin %s already used by %s", b.Builtin, prev)) {
					return
				}
				continue
			}
			builtins[b.Builtin] = n.Handle
		case UniformBinding:
			slot := bindingSlot{b.Group, b.Binding}
			if prev, ok := blocks[b.Block]; ok && prev != slot {
				if v.report(NodeError(KindInvalidBinding, n.Handle,
					"uniform block %q declared at group %d binding %d and group %d binding %d",
					b.Block, prev.group, prev.binding, slot.group, slot.binding)) {
					return
				}
				continue
			}
			blocks[b.Block] = slot
			if claim(slot, fmt.Sprintf("uniform block %q", b.Block), n.Handle) {
				return
			}
		case ResourceBinding:
			if claim(bindingSlot{b.Group, b.Binding}, fmt.Sprintf("resource %q (%s)", b.Resource, name), n.Handle) {
				return
			}
		}
	}
}
